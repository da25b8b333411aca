package credits

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"swachhgonda-backend/internal/models"
)

var (
	// ErrInsufficientCredits is returned by Redeem when the available balance
	// cannot cover the cost. No mutation happens in that case.
	ErrInsufficientCredits = errors.New("insufficient credits")

	// ErrAccountNotFound is returned when no credit account exists for the
	// user. Signup always creates one, so this indicates corrupted state.
	ErrAccountNotFound = errors.New("credit account not found")
)

// OpenAccount creates the credit account for a new user with the welcome
// bonus already posted as its first transaction. Runs inside the caller's
// transaction so user and account are created together or not at all.
func OpenAccount(ext sqlx.Ext, userID string, now time.Time) error {
	ts := now.Unix()

	_, err := ext.Exec(`
		INSERT INTO credit_accounts (user_id, total_credits, available_credits, reports_submitted, reports_verified, created_at, updated_at)
		VALUES ($1, $2, $3, 0, 0, $4, $5)
	`, userID, WelcomeBonus, WelcomeBonus, ts, ts)
	if err != nil {
		return fmt.Errorf("failed to create credit account: %w", err)
	}

	_, err = ext.Exec(`
		INSERT INTO credit_transactions (user_id, type, amount, description, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, userID, models.TransactionEarned, WelcomeBonus, "Welcome bonus", ts)
	if err != nil {
		return fmt.Errorf("failed to post welcome bonus: %w", err)
	}

	return nil
}

// Award posts amount to the account as one ledger transaction, incrementing
// both total and available credits. Callers posting base plus streak bonus
// call Award twice so each reason stays auditable as its own entry. Must run
// inside a transaction together with whatever mutation earned the credits.
func Award(ext sqlx.Ext, userID string, amount int, txType, description string, now time.Time) error {
	res, err := ext.Exec(`
		UPDATE credit_accounts
		SET total_credits = total_credits + $1,
		    available_credits = available_credits + $1,
		    updated_at = $2
		WHERE user_id = $3
	`, amount, now.Unix(), userID)
	if err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrAccountNotFound
	}

	_, err = ext.Exec(`
		INSERT INTO credit_transactions (user_id, type, amount, description, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, userID, txType, amount, description, now.Unix())
	if err != nil {
		return fmt.Errorf("failed to append transaction: %w", err)
	}

	return nil
}

// Redeem spends cost from the available balance in its own transaction. It
// fails with ErrInsufficientCredits when the balance cannot cover the cost;
// total credits are never touched, redemption spends earnings, it does not
// erase them. Returns the new available balance.
func Redeem(db *sqlx.DB, userID string, cost int, description string, now time.Time) (int, error) {
	tx, err := db.Beginx()
	if err != nil {
		return 0, fmt.Errorf("failed to begin redemption: %w", err)
	}
	defer tx.Rollback()

	var available int
	err = tx.Get(&available, `SELECT available_credits FROM credit_accounts WHERE user_id = $1 FOR UPDATE`, userID)
	if err == sql.ErrNoRows {
		return 0, ErrAccountNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to load balance: %w", err)
	}

	if available < cost {
		return available, ErrInsufficientCredits
	}

	newBalance := available - cost
	_, err = tx.Exec(`
		UPDATE credit_accounts SET available_credits = $1, updated_at = $2 WHERE user_id = $3
	`, newBalance, now.Unix(), userID)
	if err != nil {
		return 0, fmt.Errorf("failed to update balance: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO credit_transactions (user_id, type, amount, description, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, userID, models.TransactionRedeemed, -cost, description, now.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to append transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit redemption: %w", err)
	}

	return newBalance, nil
}

// GrantBadge appends a badge to the account. The unique index on
// (user_id, badge_key) makes a duplicate grant a no-op.
func GrantBadge(ext sqlx.Ext, userID string, def BadgeDef, now time.Time) error {
	_, err := ext.Exec(`
		INSERT INTO user_badges (user_id, badge_key, name, icon, earned_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, badge_key) DO NOTHING
	`, userID, def.Key, def.Name, def.Icon, now.Unix())
	if err != nil {
		return fmt.Errorf("failed to grant badge %s: %w", def.Key, err)
	}
	return nil
}
