package credits

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"swachhgonda-backend/internal/models"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestAward(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()

	now := time.Unix(1756000000, 0)

	mock.ExpectExec(`UPDATE credit_accounts`).
		WithArgs(25, now.Unix(), "user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO credit_transactions`).
		WithArgs("user-1", models.TransactionEarned, 25, "Report submitted", now.Unix()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := Award(db, "user-1", 25, models.TransactionEarned, "Report submitted", now); err != nil {
		t.Fatalf("award: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestAwardMissingAccount(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE credit_accounts`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := Award(db, "ghost", 10, models.TransactionEarned, "Report submitted", time.Now())
	if !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("err = %v, want ErrAccountNotFound", err)
	}
}

func TestRedeem(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()

	now := time.Unix(1756000000, 0)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT available_credits FROM credit_accounts`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"available_credits"}).AddRow(120))
	mock.ExpectExec(`UPDATE credit_accounts SET available_credits`).
		WithArgs(70, now.Unix(), "user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO credit_transactions`).
		WithArgs("user-1", models.TransactionRedeemed, -50, "Redeemed: City Bus Day Pass", now.Unix()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	balance, err := Redeem(db, "user-1", 50, "Redeemed: City Bus Day Pass", now)
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if balance != 70 {
		t.Errorf("balance = %d, want 70", balance)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

// Redemption over the available balance must fail without appending a
// transaction or touching the balance.
func TestRedeemInsufficient(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT available_credits FROM credit_accounts`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"available_credits"}).AddRow(40))
	mock.ExpectRollback()

	balance, err := Redeem(db, "user-1", 50, "Redeemed: City Bus Day Pass", time.Now())
	if !errors.Is(err, ErrInsufficientCredits) {
		t.Fatalf("err = %v, want ErrInsufficientCredits", err)
	}
	if balance != 40 {
		t.Errorf("balance = %d, want unchanged 40", balance)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestOpenAccountPostsWelcomeBonus(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()

	now := time.Unix(1756000000, 0)

	mock.ExpectExec(`INSERT INTO credit_accounts`).
		WithArgs("user-1", WelcomeBonus, WelcomeBonus, now.Unix(), now.Unix()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO credit_transactions`).
		WithArgs("user-1", models.TransactionEarned, WelcomeBonus, "Welcome bonus", now.Unix()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := OpenAccount(db, "user-1", now); err != nil {
		t.Fatalf("open account: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestRewardCatalog(t *testing.T) {
	if _, ok := RewardByKey("bus_pass_day"); !ok {
		t.Error("bus_pass_day missing from catalog")
	}
	if _, ok := RewardByKey("unknown"); ok {
		t.Error("unknown reward key resolved")
	}
}
