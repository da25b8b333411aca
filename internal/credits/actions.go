// Package credits implements the reward engine: the credit ledger, the
// day-over-day streak tracker and the badge catalog.
package credits

// Credit values per action. Public constants so the reward formula is easy to
// verify end to end.
const (
	WelcomeBonus      = 50
	ReportSubmitted   = 10
	HighQualityReport = 15
	ReportVerified    = 20
)

// Quality score bonuses per submitted field. A report with every field filled
// in scores 100.
const (
	ScorePhoto          = 30
	ScoreCoordinates    = 30
	ScoreDescription    = 20
	ScoreCategory       = 10
	ScoreDisposalMethod = 10

	// Reports scoring at or above this earn the high-quality bonus.
	HighQualityThreshold = 80

	// Description length needed for the description score bonus.
	DescriptionScoreLength = 80
)

// Reward is a redeemable item in the static rewards catalog.
type Reward struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Cost int    `json:"cost"`
}

// Rewards is the fixed catalog of redeemable items.
var Rewards = []Reward{
	{Key: "bus_pass_day", Name: "City Bus Day Pass", Cost: 50},
	{Key: "compost_bag", Name: "Municipal Compost Bag", Cost: 80},
	{Key: "water_bill_discount", Name: "5% Water Bill Discount", Cost: 150},
	{Key: "tree_sapling", Name: "Tree Sapling Kit", Cost: 200},
	{Key: "property_tax_rebate", Name: "Property Tax Rebate Coupon", Cost: 500},
}

// RewardByKey looks up a reward in the catalog.
func RewardByKey(key string) (Reward, bool) {
	for _, r := range Rewards {
		if r.Key == key {
			return r, true
		}
	}
	return Reward{}, false
}
