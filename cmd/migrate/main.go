package main

import (
	"log"
	"os"

	"nutri-coach-be/internal/model"
	"nutri-coach-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting Authoritative GORM Migration...")

	// 3. Pre-Migration: Extensions (Things GORM AutoMigrate doesn't do)
	log.Println("Step 1: Setting up Extensions...")

	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	}

	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	// 4. AutoMigrate All Models
	log.Println("Step 2: Running AutoMigrate...")

	models := []interface{}{
		&model.User{},
		&model.Appointment{},
		&model.Invoice{},
		&model.InvoiceItem{},
		&model.MailEntry{},
		&model.MailTemplate{},
		&model.ConsentRecord{},
		&model.PreEvaluation{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 5. Post-Migration: Constraints AutoMigrate cannot express
	log.Println("Step 3: Creating Indexes...")

	postMigrationSQL := []string{
		// One live subscription invoice per user per billing cycle. Credited
		// invoices are excluded so a reissue can reuse the cycle.
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_invoices_subscription_cycle
		 ON invoices (user_id, billing_cycle)
		 WHERE invoice_type = 'subscription' AND status <> 'credited';`,

		// Slot lookups during booking and availability checks.
		`CREATE INDEX IF NOT EXISTS idx_appointments_date_timeslot
		 ON appointments (date, timeslot);`,

		`CREATE INDEX IF NOT EXISTS idx_mail_queue_status
		 ON mail_queue (status);`,
	}

	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	log.Println("✅ Success: Database migration completed successfully via GORM.")
}
