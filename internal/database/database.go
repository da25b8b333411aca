package database

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func Connect(dbURL string) (*sqlx.DB, error) {
	log.Println("🔌 Connecting to Postgres...")

	db, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		log.Printf("❌ Database connection failed: %v", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		log.Printf("❌ Database ping failed: %v", err)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("✅ Database connection established")
	return db, nil
}

func Migrate(db *sqlx.DB) error {
	migrations := []string{
		// Create users table
		// Citizens earn credits for reports; workers and officers are
		// assigned a zone; super admins see everything.
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			name TEXT NOT NULL,
			role TEXT NOT NULL CHECK(role IN ('citizen', 'worker', 'officer', 'super_admin')),
			zone TEXT,
			current_streak INT NOT NULL DEFAULT 0,
			longest_streak INT NOT NULL DEFAULT 0,
			last_report_at BIGINT,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		// Create reports table
		// Row identity is a uuid; report_number is the human-facing
		// sequence assigned inside the submission transaction.
		`CREATE TABLE IF NOT EXISTS reports (
			id TEXT PRIMARY KEY,
			report_number INT NOT NULL UNIQUE,
			user_id TEXT NOT NULL,
			description TEXT NOT NULL,
			photo_url TEXT,
			latitude DOUBLE PRECISION,
			longitude DOUBLE PRECISION,
			address TEXT,
			zone TEXT NOT NULL,
			category TEXT NOT NULL,
			disposal_method TEXT NOT NULL,
			quality_score INT NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'pending' CHECK(status IN ('pending', 'in_progress', 'verified', 'resolved', 'rejected')),
			assigned_worker_id TEXT,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			resolved_at BIGINT,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
			FOREIGN KEY (assigned_worker_id) REFERENCES users(id) ON DELETE SET NULL
		)`,

		// Create credit_accounts table (one per user, created at signup)
		`CREATE TABLE IF NOT EXISTS credit_accounts (
			user_id TEXT PRIMARY KEY,
			total_credits INT NOT NULL DEFAULT 0,
			available_credits INT NOT NULL DEFAULT 0,
			reports_submitted INT NOT NULL DEFAULT 0,
			reports_verified INT NOT NULL DEFAULT 0,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
			CHECK (available_credits <= total_credits),
			CHECK (available_credits >= 0)
		)`,

		// Create credit_transactions table (append-only audit trail)
		`CREATE TABLE IF NOT EXISTS credit_transactions (
			id SERIAL PRIMARY KEY,
			user_id TEXT NOT NULL,
			type TEXT NOT NULL CHECK(type IN ('earned', 'bonus', 'redeemed')),
			amount INT NOT NULL,
			description TEXT NOT NULL,
			created_at BIGINT NOT NULL,
			FOREIGN KEY (user_id) REFERENCES credit_accounts(user_id) ON DELETE CASCADE
		)`,

		// Create user_badges table
		`CREATE TABLE IF NOT EXISTS user_badges (
			id SERIAL PRIMARY KEY,
			user_id TEXT NOT NULL,
			badge_key TEXT NOT NULL,
			name TEXT NOT NULL,
			icon TEXT NOT NULL,
			earned_at BIGINT NOT NULL,
			UNIQUE (user_id, badge_key),
			FOREIGN KEY (user_id) REFERENCES credit_accounts(user_id) ON DELETE CASCADE
		)`,

		// Create FCM tokens table
		`CREATE TABLE IF NOT EXISTS fcm_tokens (
			id SERIAL PRIMARY KEY,
			user_id TEXT NOT NULL,
			token TEXT NOT NULL UNIQUE,
			device_type TEXT NOT NULL CHECK(device_type IN ('ios', 'android')),
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		)`,

		// Create indexes
		`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
		`CREATE INDEX IF NOT EXISTS idx_users_role ON users(role)`,
		`CREATE INDEX IF NOT EXISTS idx_users_zone ON users(zone)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_user_id ON reports(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_zone ON reports(zone)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_status ON reports(status)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_zone_status ON reports(zone, status)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_credit_transactions_user_id ON credit_transactions(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_credit_transactions_created_at ON credit_transactions(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_user_badges_user_id ON user_badges(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_fcm_tokens_user_id ON fcm_tokens(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_credit_accounts_total ON credit_accounts(total_credits DESC)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	log.Println("✓ Database migrations completed")
	return nil
}
