package database

import (
	"database/sql"
	"log"
)

// RunMigrations creates the schema if missing and applies incremental
// updates. Every statement is idempotent so the runner is safe to execute on
// each startup.
func RunMigrations(db *sql.DB) error {
	log.Println("Running database migrations...")

	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto`,

		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		)`,

		`CREATE TABLE IF NOT EXISTS academic_years (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name TEXT NOT NULL UNIQUE,
			start_date DATE NOT NULL,
			end_date DATE NOT NULL,
			is_current BOOLEAN NOT NULL DEFAULT false,
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		)`,

		`CREATE TABLE IF NOT EXISTS students (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			student_no TEXT NOT NULL UNIQUE,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			grade_level INTEGER NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		)`,

		`CREATE TABLE IF NOT EXISTS fee_templates (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			academic_year_id UUID NOT NULL REFERENCES academic_years(id),
			grade_level INTEGER NOT NULL,
			name TEXT NOT NULL,
			description TEXT,
			total_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		)`,

		// One live template per (grade, year); soft-deleted rows don't count.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_fee_templates_grade_year
			ON fee_templates (academic_year_id, grade_level)
			WHERE deleted_at IS NULL`,

		`CREATE TABLE IF NOT EXISTS fee_breakdowns (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			template_id UUID NOT NULL REFERENCES fee_templates(id) ON DELETE CASCADE,
			description TEXT NOT NULL,
			amount NUMERIC(12,2) NOT NULL CHECK (amount > 0),
			category VARCHAR(20) NOT NULL,
			sort_order INTEGER NOT NULL DEFAULT 0,
			is_refundable BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS optional_fees (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			academic_year_id UUID NOT NULL REFERENCES academic_years(id),
			name TEXT NOT NULL,
			category VARCHAR(20) NOT NULL,
			amount NUMERIC(12,2) NOT NULL DEFAULT 0,
			has_variations BOOLEAN NOT NULL DEFAULT false,
			applicable_grade_levels INTEGER[] NOT NULL DEFAULT '{}',
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		)`,

		`CREATE TABLE IF NOT EXISTS optional_fee_variations (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			optional_fee_id UUID NOT NULL REFERENCES optional_fees(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			amount NUMERIC(12,2) NOT NULL CHECK (amount > 0),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS student_optional_fees (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			student_id UUID NOT NULL REFERENCES students(id),
			optional_fee_id UUID NOT NULL REFERENCES optional_fees(id),
			variation_id UUID REFERENCES optional_fee_variations(id),
			academic_year_id UUID NOT NULL REFERENCES academic_years(id),
			amount NUMERIC(12,2) NOT NULL CHECK (amount > 0),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		)`,

		`CREATE TABLE IF NOT EXISTS payments (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			student_id UUID NOT NULL REFERENCES students(id),
			academic_year_id UUID NOT NULL REFERENCES academic_years(id),
			amount_paid NUMERIC(12,2) NOT NULL CHECK (amount_paid > 0),
			payment_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			payment_method VARCHAR(20) NOT NULL,
			reference_number TEXT NOT NULL UNIQUE,
			remarks TEXT,
			recorded_by UUID REFERENCES users(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS payment_line_items (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			payment_id UUID NOT NULL REFERENCES payments(id) ON DELETE CASCADE,
			breakdown_id UUID NOT NULL REFERENCES fee_breakdowns(id),
			amount NUMERIC(12,2) NOT NULL CHECK (amount > 0),
			position INTEGER NOT NULL DEFAULT 0
		)`,

		`CREATE TABLE IF NOT EXISTS refunds (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			payment_id UUID NOT NULL REFERENCES payments(id),
			amount NUMERIC(12,2) NOT NULL CHECK (amount > 0),
			reason TEXT NOT NULL,
			refund_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS adjustments (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			student_id UUID NOT NULL REFERENCES students(id),
			academic_year_id UUID NOT NULL REFERENCES academic_years(id),
			type VARCHAR(15) NOT NULL CHECK (type IN ('DISCOUNT', 'ADDITIONAL')),
			amount NUMERIC(12,2) NOT NULL CHECK (amount > 0),
			reason TEXT NOT NULL,
			description TEXT,
			created_by UUID REFERENCES users(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS student_ledger_flags (
			student_id UUID NOT NULL REFERENCES students(id),
			academic_year_id UUID NOT NULL REFERENCES academic_years(id),
			is_late_payment BOOLEAN NOT NULL DEFAULT false,
			late_since TIMESTAMPTZ,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (student_id, academic_year_id)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_payments_student_year
			ON payments (student_id, academic_year_id, created_at)`,

		`CREATE INDEX IF NOT EXISTS idx_adjustments_student_year
			ON adjustments (student_id, academic_year_id, created_at)`,

		`CREATE INDEX IF NOT EXISTS idx_refunds_payment
			ON refunds (payment_id, created_at)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			log.Printf("Migration failed: %v", err)
			return err
		}
	}

	// Older deployments predate the refundability flag on breakdowns.
	if err := addIsRefundableColumn(db); err != nil {
		return err
	}

	log.Println("Database migrations completed successfully")
	return nil
}

func addIsRefundableColumn(db *sql.DB) error {
	query := `
		DO $$
		BEGIN
			IF NOT EXISTS (
				SELECT 1
				FROM information_schema.columns
				WHERE table_name = 'fee_breakdowns'
				AND column_name = 'is_refundable'
			) THEN
				ALTER TABLE fee_breakdowns ADD COLUMN is_refundable BOOLEAN NOT NULL DEFAULT true;
				RAISE NOTICE 'Added is_refundable column to fee_breakdowns';
			END IF;
		END $$;
	`
	_, err := db.Exec(query)
	if err != nil {
		log.Printf("Failed to run migration for is_refundable column: %v", err)
		return err
	}
	return nil
}
