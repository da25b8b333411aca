package credits

// BadgeCounter selects which account counter a badge threshold is checked
// against.
type BadgeCounter string

const (
	CounterReports BadgeCounter = "reports"
	CounterCredits BadgeCounter = "credits"
)

// BadgeDef is one entry in the fixed badge catalog.
type BadgeDef struct {
	Key       string       `json:"key"`
	Name      string       `json:"name"`
	Icon      string       `json:"icon"`
	Counter   BadgeCounter `json:"counter"`
	Threshold int          `json:"threshold"`
}

// Catalog is the ordered badge catalog. Evaluation walks it in order so badge
// unlock order is stable.
var Catalog = []BadgeDef{
	{Key: "first_report", Name: "First Reporter", Icon: "🥇", Counter: CounterReports, Threshold: 1},
	{Key: "regular_reporter", Name: "Regular Reporter", Icon: "📋", Counter: CounterReports, Threshold: 10},
	{Key: "community_guardian", Name: "Community Guardian", Icon: "🛡️", Counter: CounterReports, Threshold: 50},
	{Key: "century_club", Name: "Century Club", Icon: "💯", Counter: CounterCredits, Threshold: 100},
	{Key: "credit_champion", Name: "Credit Champion", Icon: "🏆", Counter: CounterCredits, Threshold: 500},
}

// BadgeProgress is the read-only projection of progress towards a locked
// badge, for the dashboard.
type BadgeProgress struct {
	Key       string `json:"key"`
	Name      string `json:"name"`
	Icon      string `json:"icon"`
	Progress  int    `json:"progress"` // 0-100
	Threshold int    `json:"threshold"`
}

func (d BadgeDef) counterValue(reports, totalCredits int) int {
	if d.Counter == CounterCredits {
		return totalCredits
	}
	return reports
}

// NewlyUnlocked returns catalog entries whose threshold the account now meets
// and whose key is not already held. Held badges are never re-reported, so
// evaluating twice without a counter change yields nothing the second time.
func NewlyUnlocked(held map[string]bool, reports, totalCredits int) []BadgeDef {
	var unlocked []BadgeDef
	for _, def := range Catalog {
		if held[def.Key] {
			continue
		}
		if def.counterValue(reports, totalCredits) >= def.Threshold {
			unlocked = append(unlocked, def)
		}
	}
	return unlocked
}

// Progress computes the percentage towards each not-yet-unlocked badge.
func Progress(held map[string]bool, reports, totalCredits int) []BadgeProgress {
	var progress []BadgeProgress
	for _, def := range Catalog {
		if held[def.Key] {
			continue
		}
		pct := 100 * def.counterValue(reports, totalCredits) / def.Threshold
		if pct > 100 {
			pct = 100
		}
		progress = append(progress, BadgeProgress{
			Key:       def.Key,
			Name:      def.Name,
			Icon:      def.Icon,
			Progress:  pct,
			Threshold: def.Threshold,
		})
	}
	return progress
}
