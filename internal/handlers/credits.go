package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"swachhgonda-backend/internal/credits"
	"swachhgonda-backend/internal/middleware"
	"swachhgonda-backend/internal/models"
	"swachhgonda-backend/pkg/utils"

	"github.com/jmoiron/sqlx"
)

// CreditSummaryResponse bundles everything the credits dashboard shows.
type CreditSummaryResponse struct {
	Account       models.CreditAccount               `json:"account"`
	Transactions  []models.CreditTransactionResponse `json:"transactions"`
	Badges        []models.UserBadgeResponse         `json:"badges"`
	BadgeProgress []credits.BadgeProgress            `json:"badge_progress"`
	CurrentStreak int                                `json:"current_streak"`
	LongestStreak int                                `json:"longest_streak"`
	Multiplier    int                                `json:"multiplier"`
}

// GetMyCredits returns the caller's account, ledger, badges and progress
// towards locked badges.
func GetMyCredits(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var account models.CreditAccount
		if err := db.Get(&account, `SELECT * FROM credit_accounts WHERE user_id = $1`, userClaims.UserID); err != nil {
			utils.RespondError(w, http.StatusNotFound, "Credit account not found")
			return
		}

		var transactions []models.CreditTransaction
		err := db.Select(&transactions, `SELECT * FROM credit_transactions WHERE user_id = $1 ORDER BY created_at DESC, id DESC LIMIT 100`, userClaims.UserID)
		if err != nil {
			log.Printf("❌ Error fetching transactions: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch credit history")
			return
		}

		var badges []models.UserBadge
		err = db.Select(&badges, `SELECT * FROM user_badges WHERE user_id = $1 ORDER BY earned_at ASC`, userClaims.UserID)
		if err != nil {
			log.Printf("❌ Error fetching badges: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch badges")
			return
		}

		var streak struct {
			CurrentStreak int `db:"current_streak"`
			LongestStreak int `db:"longest_streak"`
		}
		if err := db.Get(&streak, `SELECT current_streak, longest_streak FROM users WHERE id = $1`, userClaims.UserID); err != nil {
			utils.RespondError(w, http.StatusNotFound, "User not found")
			return
		}

		held := make(map[string]bool, len(badges))
		resp := CreditSummaryResponse{
			Account:       account,
			Transactions:  make([]models.CreditTransactionResponse, len(transactions)),
			Badges:        make([]models.UserBadgeResponse, len(badges)),
			CurrentStreak: streak.CurrentStreak,
			LongestStreak: streak.LongestStreak,
			Multiplier:    credits.Multiplier(streak.CurrentStreak),
		}
		for i := range transactions {
			resp.Transactions[i] = transactions[i].ToTransactionResponse()
		}
		for i := range badges {
			resp.Badges[i] = badges[i].ToBadgeResponse()
			held[badges[i].BadgeKey] = true
		}
		resp.BadgeProgress = credits.Progress(held, account.ReportsSubmitted, account.TotalCredits)

		utils.RespondJSON(w, http.StatusOK, resp)
	}
}

// GetRewards returns the static rewards catalog.
func GetRewards() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, credits.Rewards)
	}
}

type RedeemRequest struct {
	RewardKey string `json:"reward_key"`
}

// RedeemReward spends available credits on a catalog reward.
func RedeemReward(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req RedeemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		reward, ok := credits.RewardByKey(req.RewardKey)
		if !ok {
			utils.RespondError(w, http.StatusBadRequest, "Unknown reward")
			return
		}

		balance, err := credits.Redeem(db, userClaims.UserID, reward.Cost, "Redeemed: "+reward.Name, time.Now())
		if errors.Is(err, credits.ErrInsufficientCredits) {
			utils.RespondJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
				"success":           false,
				"error":             "Insufficient credits",
				"available_credits": balance,
				"cost":              reward.Cost,
			})
			return
		}
		if errors.Is(err, credits.ErrAccountNotFound) {
			utils.RespondError(w, http.StatusNotFound, "Credit account not found")
			return
		}
		if err != nil {
			log.Printf("❌ Redemption failed for %s: %v", userClaims.UserID, err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to redeem reward")
			return
		}

		log.Printf("🎁 %s redeemed %s (-%d credits)", userClaims.Email, reward.Key, reward.Cost)

		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"success":           true,
			"reward":            reward,
			"available_credits": balance,
		})
	}
}

type LeaderboardEntry struct {
	Name             string `json:"name" db:"name"`
	TotalCredits     int    `json:"total_credits" db:"total_credits"`
	ReportsSubmitted int    `json:"reports_submitted" db:"reports_submitted"`
	CurrentStreak    int    `json:"current_streak" db:"current_streak"`
}

// GetLeaderboard returns the top reporters by lifetime credits.
func GetLeaderboard(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var entries []LeaderboardEntry
		err := db.Select(&entries, `
			SELECT u.name, a.total_credits, a.reports_submitted, u.current_streak
			FROM credit_accounts a
			JOIN users u ON u.id = a.user_id
			ORDER BY a.total_credits DESC, a.reports_submitted DESC
			LIMIT 20
		`)
		if err != nil {
			log.Printf("❌ Error fetching leaderboard: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch leaderboard")
			return
		}

		utils.RespondJSON(w, http.StatusOK, entries)
	}
}
