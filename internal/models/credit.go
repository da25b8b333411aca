package models

import "time"

// Transaction types in the credit ledger. Earned and bonus amounts are always
// positive, redeemed amounts are always negative.
const (
	TransactionEarned   = "earned"
	TransactionBonus    = "bonus"
	TransactionRedeemed = "redeemed"
)

type CreditAccount struct {
	UserID           string `json:"user_id" db:"user_id"`
	TotalCredits     int    `json:"total_credits" db:"total_credits"`
	AvailableCredits int    `json:"available_credits" db:"available_credits"`
	ReportsSubmitted int    `json:"reports_submitted" db:"reports_submitted"`
	ReportsVerified  int    `json:"reports_verified" db:"reports_verified"`
	CreatedAt        int64  `json:"created_at" db:"created_at"`
	UpdatedAt        int64  `json:"updated_at" db:"updated_at"`
}

type CreditTransaction struct {
	ID          int    `json:"id" db:"id"`
	UserID      string `json:"user_id" db:"user_id"`
	Type        string `json:"type" db:"type"`
	Amount      int    `json:"amount" db:"amount"`
	Description string `json:"description" db:"description"`
	CreatedAt   int64  `json:"created_at" db:"created_at"`
}

type UserBadge struct {
	ID       int    `json:"id" db:"id"`
	UserID   string `json:"user_id" db:"user_id"`
	BadgeKey string `json:"badge_key" db:"badge_key"`
	Name     string `json:"name" db:"name"`
	Icon     string `json:"icon" db:"icon"`
	EarnedAt int64  `json:"earned_at" db:"earned_at"`
}

// CreditTransactionResponse carries an ISO timestamp for the frontend
type CreditTransactionResponse struct {
	ID           int    `json:"id"`
	Type         string `json:"type"`
	Amount       int    `json:"amount"`
	Description  string `json:"description"`
	CreatedAtISO string `json:"created_at_iso"`
}

type UserBadgeResponse struct {
	BadgeKey    string `json:"badge_key"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	EarnedAtISO string `json:"earned_at_iso"`
}

func (t *CreditTransaction) ToTransactionResponse() CreditTransactionResponse {
	return CreditTransactionResponse{
		ID:           t.ID,
		Type:         t.Type,
		Amount:       t.Amount,
		Description:  t.Description,
		CreatedAtISO: time.Unix(t.CreatedAt, 0).Format(time.RFC3339),
	}
}

func (b *UserBadge) ToBadgeResponse() UserBadgeResponse {
	return UserBadgeResponse{
		BadgeKey:    b.BadgeKey,
		Name:        b.Name,
		Icon:        b.Icon,
		EarnedAtISO: time.Unix(b.EarnedAt, 0).Format(time.RFC3339),
	}
}
