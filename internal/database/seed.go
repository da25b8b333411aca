package database

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"swachhgonda-backend/internal/credits"
	"swachhgonda-backend/internal/zones"
)

func SeedUsers(db *sqlx.DB) error {
	// Check if users already exist
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM users"); err != nil {
		return err
	}

	if count > 0 {
		log.Println("✓ Users already seeded, skipping...")
		return nil
	}

	log.Println("🌱 Seeding initial users...")

	adminPassword, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	workerPassword, err := bcrypt.GenerateFromPassword([]byte("worker123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	citizenPassword, err := bcrypt.GenerateFromPassword([]byte("citizen123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	type seedUser struct {
		email string
		hash  []byte
		name  string
		role  string
		zone  *string
	}

	users := []seedUser{
		{"admin@swachhgonda.in", adminPassword, "Municipal Super Admin", "super_admin", nil},
		{"citizen@swachhgonda.in", citizenPassword, "Demo Citizen", "citizen", nil},
	}

	// One worker and one officer per zone
	for i, zoneName := range zones.Names() {
		z := zoneName
		users = append(users,
			seedUser{workerEmail("worker", i+1), workerPassword, z + " Worker", "worker", &z},
			seedUser{workerEmail("officer", i+1), workerPassword, z + " Officer", "officer", &z},
		)
	}

	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, u := range users {
		id := uuid.New().String()
		_, err := tx.Exec(`
			INSERT INTO users (id, email, password, name, role, zone)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, id, u.email, string(u.hash), u.name, u.role, u.zone)
		if err != nil {
			return err
		}

		// Citizens get a credit account with the welcome bonus, same as
		// signup does.
		if u.role == "citizen" {
			if err := credits.OpenAccount(tx, id, time.Now()); err != nil {
				return err
			}
		}

		log.Printf("  ✓ Created user: %s (%s)", u.email, u.role)
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	log.Println("✓ Successfully seeded initial users")
	log.Println("  📧 Super admin: admin@swachhgonda.in / admin123")
	log.Println("  📧 Citizen: citizen@swachhgonda.in / citizen123")
	log.Println("  📧 Workers/officers: worker1..5 / officer1..5 @swachhgonda.in / worker123")
	return nil
}

func workerEmail(role string, n int) string {
	return fmt.Sprintf("%s%d@swachhgonda.in", role, n)
}
