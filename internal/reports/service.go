// Package reports implements the report submission workflow: quality scoring,
// zone assignment, streak update, credit posting and badge evaluation run as
// one unit per submission.
package reports

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"swachhgonda-backend/internal/credits"
	"swachhgonda-backend/internal/models"
	"swachhgonda-backend/internal/zones"
)

// MinDescriptionLength is the shortest description accepted for a report.
const MinDescriptionLength = 10

var (
	ErrDescriptionTooShort = fmt.Errorf("description must be at least %d characters", MinDescriptionLength)
	ErrUserNotFound        = errors.New("user not found")
	ErrReportNotFound      = errors.New("report not found")
	ErrInvalidTransition   = errors.New("invalid status transition")
)

// Submission is the plain input a submission handler passes in. The caller is
// already authenticated; UserID is trusted.
type Submission struct {
	UserID         string
	Description    string
	Category       string
	DisposalMethod string
	Address        string
	PhotoURL       *string
	Latitude       *float64
	Longitude      *float64
}

// Result is the consolidated outcome of one accepted submission.
type Result struct {
	ReportID      string              `json:"report_id"`
	ReportNumber  int                 `json:"report_number"`
	Zone          string              `json:"zone"`
	QualityScore  int                 `json:"quality_score"`
	CreditsEarned int                 `json:"credits_earned"`
	BaseCredits   int                 `json:"base_credits"`
	BonusCredits  int                 `json:"bonus_credits"`
	Streak        int                 `json:"streak"`
	LongestStreak int                 `json:"longest_streak"`
	Multiplier    int                 `json:"multiplier"`
	NewBadges     []credits.BadgeDef  `json:"new_badges"`
	Message       string              `json:"message"`
}

type Service struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewService(db *sqlx.DB) *Service {
	return &Service{db: db, now: time.Now}
}

// QualityScore is the additive heuristic over submitted fields. Each present
// field contributes a fixed bonus; a fully filled report scores 100.
func QualityScore(sub Submission) int {
	score := 0
	if sub.PhotoURL != nil && *sub.PhotoURL != "" {
		score += credits.ScorePhoto
	}
	if sub.Latitude != nil && sub.Longitude != nil && zones.ValidCoordinates(*sub.Latitude, *sub.Longitude) {
		score += credits.ScoreCoordinates
	}
	if len(strings.TrimSpace(sub.Description)) >= credits.DescriptionScoreLength {
		score += credits.ScoreDescription
	}
	if strings.TrimSpace(sub.Category) != "" {
		score += credits.ScoreCategory
	}
	if strings.TrimSpace(sub.DisposalMethod) != "" {
		score += credits.ScoreDisposalMethod
	}
	return score
}

// Submit runs the full submission workflow. Everything after validation —
// report insert, streak update, ledger postings, badge unlocks — happens in
// one database transaction, so a failure anywhere rolls the whole submission
// back and the caller never observes partial credit.
func (s *Service) Submit(sub Submission) (*Result, error) {
	// Validation happens before any side effect.
	if len(strings.TrimSpace(sub.Description)) < MinDescriptionLength {
		return nil, ErrDescriptionTooShort
	}

	now := s.now()
	score := QualityScore(sub)
	zone := zones.Classify(sub.Address, sub.Latitude, sub.Longitude)

	tx, err := s.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin submission: %w", err)
	}
	defer tx.Rollback()

	// Report numbers are assigned inside the transaction so concurrent
	// submissions cannot read the same maximum. Row identity is a uuid,
	// independent of the human-facing number.
	var reportNumber int
	if err := tx.Get(&reportNumber, `SELECT COALESCE(MAX(report_number), 0) + 1 FROM reports`); err != nil {
		return nil, fmt.Errorf("failed to assign report number: %w", err)
	}

	reportID := uuid.New().String()
	var address *string
	if a := strings.TrimSpace(sub.Address); a != "" {
		address = &a
	}

	_, err = tx.Exec(`
		INSERT INTO reports (id, report_number, user_id, description, photo_url, latitude, longitude, address, zone, category, disposal_method, quality_score, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`, reportID, reportNumber, sub.UserID, sub.Description, sub.PhotoURL, sub.Latitude, sub.Longitude,
		address, zone, sub.Category, sub.DisposalMethod, score, models.ReportStatusPending, now.Unix(), now.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to insert report: %w", err)
	}

	// Streak update. The row lock serializes rapid submissions from the
	// same user so both cannot read the same prior streak.
	var user models.User
	err = tx.Get(&user, `SELECT * FROM users WHERE id = $1 FOR UPDATE`, sub.UserID)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	var lastReport *time.Time
	if user.LastReportAt != nil {
		t := time.Unix(*user.LastReportAt, 0)
		lastReport = &t
	}
	streak := credits.NextStreak(user.CurrentStreak, user.LongestStreak, lastReport, now)

	_, err = tx.Exec(`
		UPDATE users SET current_streak = $1, longest_streak = $2, last_report_at = $3, updated_at = $4 WHERE id = $5
	`, streak.Streak, streak.Longest, now.Unix(), now.Unix(), sub.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to update streak: %w", err)
	}

	// Base and streak bonus post as separate transactions so the ledger
	// stays auditable per reason.
	base := credits.ReportSubmitted
	if score >= credits.HighQualityThreshold {
		base += credits.HighQualityReport
	}
	bonus := credits.StreakBonus(base, streak.Multiplier)

	if err := credits.Award(tx, sub.UserID, base, models.TransactionEarned,
		fmt.Sprintf("Report #%d submitted", reportNumber), now); err != nil {
		return nil, err
	}
	if bonus > 0 {
		if err := credits.Award(tx, sub.UserID, bonus, models.TransactionBonus,
			fmt.Sprintf("%dx streak bonus (day %d)", streak.Multiplier, streak.Streak), now); err != nil {
			return nil, err
		}
	}

	if _, err := tx.Exec(`
		UPDATE credit_accounts SET reports_submitted = reports_submitted + 1, updated_at = $1 WHERE user_id = $2
	`, now.Unix(), sub.UserID); err != nil {
		return nil, fmt.Errorf("failed to bump report count: %w", err)
	}

	newBadges, err := evaluateBadges(tx, sub.UserID, now)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit submission: %w", err)
	}

	result := &Result{
		ReportID:      reportID,
		ReportNumber:  reportNumber,
		Zone:          zone,
		QualityScore:  score,
		CreditsEarned: base + bonus,
		BaseCredits:   base,
		BonusCredits:  bonus,
		Streak:        streak.Streak,
		LongestStreak: streak.Longest,
		Multiplier:    streak.Multiplier,
		NewBadges:     newBadges,
	}
	result.Message = buildMessage(result)
	return result, nil
}

// UpdateStatus transitions a report through its lifecycle. Verification
// awards the citizen their verified-report credits and bumps the verified
// counter in the same transaction as the status change.
func (s *Service) UpdateStatus(reportID, newStatus, actorID string) (*models.Report, error) {
	now := s.now()

	tx, err := s.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin status update: %w", err)
	}
	defer tx.Rollback()

	var report models.Report
	err = tx.Get(&report, `SELECT * FROM reports WHERE id = $1 FOR UPDATE`, reportID)
	if err == sql.ErrNoRows {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load report: %w", err)
	}

	if !models.ValidStatusTransition(report.Status, newStatus) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, report.Status, newStatus)
	}

	report.Status = newStatus
	report.UpdatedAt = now.Unix()
	if report.AssignedWorkerID == nil {
		report.AssignedWorkerID = &actorID
	}
	if newStatus == models.ReportStatusResolved {
		ts := now.Unix()
		report.ResolvedAt = &ts
	}

	_, err = tx.Exec(`
		UPDATE reports SET status = $1, assigned_worker_id = $2, resolved_at = $3, updated_at = $4 WHERE id = $5
	`, report.Status, report.AssignedWorkerID, report.ResolvedAt, report.UpdatedAt, reportID)
	if err != nil {
		return nil, fmt.Errorf("failed to update report: %w", err)
	}

	if newStatus == models.ReportStatusVerified {
		if err := credits.Award(tx, report.UserID, credits.ReportVerified, models.TransactionEarned,
			fmt.Sprintf("Report #%d verified", report.ReportNumber), now); err != nil {
			return nil, err
		}
		if _, err := tx.Exec(`
			UPDATE credit_accounts SET reports_verified = reports_verified + 1, updated_at = $1 WHERE user_id = $2
		`, now.Unix(), report.UserID); err != nil {
			return nil, fmt.Errorf("failed to bump verified count: %w", err)
		}
		if _, err := evaluateBadges(tx, report.UserID, now); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit status update: %w", err)
	}

	return &report, nil
}

// evaluateBadges unlocks any badges whose threshold the account now meets and
// returns the newly unlocked definitions.
func evaluateBadges(tx *sqlx.Tx, userID string, now time.Time) ([]credits.BadgeDef, error) {
	var counters struct {
		TotalCredits     int `db:"total_credits"`
		ReportsSubmitted int `db:"reports_submitted"`
	}
	if err := tx.Get(&counters, `SELECT total_credits, reports_submitted FROM credit_accounts WHERE user_id = $1`, userID); err != nil {
		return nil, fmt.Errorf("failed to load badge counters: %w", err)
	}

	var heldKeys []string
	if err := tx.Select(&heldKeys, `SELECT badge_key FROM user_badges WHERE user_id = $1`, userID); err != nil {
		return nil, fmt.Errorf("failed to load badges: %w", err)
	}
	held := make(map[string]bool, len(heldKeys))
	for _, k := range heldKeys {
		held[k] = true
	}

	unlocked := credits.NewlyUnlocked(held, counters.ReportsSubmitted, counters.TotalCredits)
	for _, def := range unlocked {
		if err := credits.GrantBadge(tx, userID, def, now); err != nil {
			return nil, err
		}
	}
	return unlocked, nil
}

func buildMessage(r *Result) string {
	msg := fmt.Sprintf("Report #%d submitted to %s. You earned %d credits", r.ReportNumber, r.Zone, r.CreditsEarned)
	if r.BonusCredits > 0 {
		msg += fmt.Sprintf(" (%d base + %d streak bonus, %dx multiplier)", r.BaseCredits, r.BonusCredits, r.Multiplier)
	}
	msg += fmt.Sprintf(". Current streak: %d day(s).", r.Streak)
	for _, b := range r.NewBadges {
		msg += fmt.Sprintf(" New badge unlocked: %s %s!", b.Icon, b.Name)
	}
	return msg
}
