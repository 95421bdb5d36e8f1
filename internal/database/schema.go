package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Table definitions for the clinic schema. Referential integrity between
// appointments and the three parent tables is deliberately NOT declared at
// the storage level: the application's cascade-delete coordinator owns it,
// and the (dentist_no, appt_date, appt_time) triple carries no unique
// constraint because slot uniqueness is enforced by the conflict checker.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS patients (
		patient_no INT UNSIGNED NOT NULL AUTO_INCREMENT,
		email      VARCHAR(255) NOT NULL,
		name       VARCHAR(255) NOT NULL,
		street     VARCHAR(255) NOT NULL DEFAULT '',
		town       VARCHAR(255) NOT NULL DEFAULT '',
		county     VARCHAR(255) NOT NULL DEFAULT '',
		eircode    VARCHAR(16)  NOT NULL DEFAULT '',
		PRIMARY KEY (patient_no)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS dentists (
		dentist_no    INT UNSIGNED NOT NULL AUTO_INCREMENT,
		awarding_body VARCHAR(255) NOT NULL DEFAULT '',
		name          VARCHAR(255) NOT NULL,
		speciality    VARCHAR(255) NOT NULL DEFAULT '',
		PRIMARY KEY (dentist_no)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS treatments (
		treatment_no INT UNSIGNED NOT NULL AUTO_INCREMENT,
		name         VARCHAR(255) NOT NULL,
		description  TEXT,
		cost         DECIMAL(10,2) NOT NULL DEFAULT 0.00,
		PRIMARY KEY (treatment_no)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS appointments (
		appointment_no INT UNSIGNED NOT NULL AUTO_INCREMENT,
		appt_date      DATE NOT NULL,
		appt_time      CHAR(5) NOT NULL,
		treatment_no   INT UNSIGNED NULL,
		attended       TINYINT(1) NOT NULL DEFAULT 0,
		patient_no     INT UNSIGNED NOT NULL,
		dentist_no     INT UNSIGNED NOT NULL,
		booking_ref    CHAR(32) NOT NULL DEFAULT '',
		PRIMARY KEY (appointment_no),
		KEY idx_dentist_slot (dentist_no, appt_date, appt_time),
		KEY idx_patient (patient_no),
		KEY idx_treatment (treatment_no)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		email         VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		role          VARCHAR(32)  NOT NULL,
		is_active     TINYINT(1)   NOT NULL DEFAULT 1,
		created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		user_id    BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64) NOT NULL,
		expires_at DATETIME NOT NULL,
		revoked_at DATETIME NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_refresh_token_hash (token_hash),
		KEY idx_refresh_user (user_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates any missing clinic tables. Statements are idempotent
// so it is safe to run on every startup.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// SeedDemoData inserts a small set of patients, dentists and treatments for
// local development. It is a no-op when the patients table already has rows,
// so enabling the seed flag in a long-lived environment does not duplicate
// data.
func SeedDemoData(ctx context.Context, db *sql.DB) error {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM patients`).Scan(&n); err != nil {
		return fmt.Errorf("seed: count patients: %w", err)
	}
	if n > 0 {
		return nil
	}

	patients := [][]string{
		{"john.doe@example.com", "John Doe", "123 Main St", "Cityville", "Donegal", "E123AB"},
		{"jane.smith@example.com", "Jane Smith", "456 Oak St", "Townsville", "Dublin", "E456CD"},
		{"mike.jackson@example.com", "Mike Jackson", "789 Elm St", "Villageton", "Cork", "E789EF"},
		{"sarah.jones@example.com", "Sarah Jones", "101 Pine St", "Hamletville", "Galway", "E101GH"},
		{"emily.brown@example.com", "Emily Brown", "222 Maple St", "Villageburg", "Mayo", "E222KL"},
	}
	for _, p := range patients {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO patients (email, name, street, town, county, eircode) VALUES (?, ?, ?, ?, ?, ?)`,
			p[0], p[1], p[2], p[3], p[4], p[5],
		); err != nil {
			return fmt.Errorf("seed: insert patient: %w", err)
		}
	}

	dentists := [][]string{
		{"Dental Association", "Dr. Smith", "General Dentistry"},
		{"Dental Board", "Dr. Johnson", "Orthodontics"},
		{"Dentistry Institute", "Dr. Williams", "Pediatric Dentistry"},
		{"Oral Health Foundation", "Dr. Brown", "Endodontics"},
	}
	for _, d := range dentists {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO dentists (awarding_body, name, speciality) VALUES (?, ?, ?)`,
			d[0], d[1], d[2],
		); err != nil {
			return fmt.Errorf("seed: insert dentist: %w", err)
		}
	}

	treatments := []struct {
		name, desc string
		cost       float64
	}{
		{"Check Up", "Dental Checkup", 100.00},
		{"Dental Cleaning", "Teeth Cleaning", 75.00},
		{"Fillings", "Tooth Fillings", 150.00},
		{"Extraction", "Tooth Extraction", 200.00},
		{"Root Canal", "Root Canal Treatment", 300.00},
		{"Crowns", "Dental Crowns", 400.00},
	}
	for _, t := range treatments {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO treatments (name, description, cost) VALUES (?, ?, ?)`,
			t.name, t.desc, t.cost,
		); err != nil {
			return fmt.Errorf("seed: insert treatment: %w", err)
		}
	}
	return nil
}
