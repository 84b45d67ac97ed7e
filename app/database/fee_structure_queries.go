package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/Four-Shepherds-Divine-Academy/enrollment-system-sub000/app/ledger"
	"github.com/Four-Shepherds-Divine-Academy/enrollment-system-sub000/app/models"
)

// GetFeeTemplate returns the live template for a (grade, year), with its
// breakdowns in order. A missing template is a valid zero-base state, so this
// returns (nil, nil) rather than an error when nothing matches.
func GetFeeTemplate(db dbtx, gradeLevel int, academicYearID string) (*models.FeeTemplate, error) {
	t := &models.FeeTemplate{}
	query := `SELECT id, academic_year_id, grade_level, name, description, total_amount,
			  is_active, created_at, updated_at
			  FROM fee_templates
			  WHERE grade_level = $1 AND academic_year_id = $2 AND deleted_at IS NULL`

	err := db.QueryRow(query, gradeLevel, academicYearID).Scan(
		&t.ID, &t.AcademicYearID, &t.GradeLevel, &t.Name, &t.Description,
		&t.TotalAmount, &t.IsActive, &t.CreatedAt, &t.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	t.Breakdowns, err = getTemplateBreakdowns(db, t.ID)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func GetFeeTemplateByID(db dbtx, templateID string) (*models.FeeTemplate, error) {
	t := &models.FeeTemplate{}
	query := `SELECT id, academic_year_id, grade_level, name, description, total_amount,
			  is_active, created_at, updated_at
			  FROM fee_templates WHERE id = $1 AND deleted_at IS NULL`

	err := db.QueryRow(query, templateID).Scan(
		&t.ID, &t.AcademicYearID, &t.GradeLevel, &t.Name, &t.Description,
		&t.TotalAmount, &t.IsActive, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Breakdowns, err = getTemplateBreakdowns(db, t.ID)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func getTemplateBreakdowns(db dbtx, templateID string) ([]*models.Breakdown, error) {
	query := `SELECT id, template_id, description, amount, category, sort_order, is_refundable, created_at
			  FROM fee_breakdowns WHERE template_id = $1 ORDER BY sort_order, created_at`

	rows, err := db.Query(query, templateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var breakdowns []*models.Breakdown
	for rows.Next() {
		b := &models.Breakdown{}
		err := rows.Scan(&b.ID, &b.TemplateID, &b.Description, &b.Amount,
			&b.Category, &b.Order, &b.IsRefundable, &b.CreatedAt)
		if err != nil {
			return nil, err
		}
		breakdowns = append(breakdowns, b)
	}

	return breakdowns, rows.Err()
}

// CreateFeeTemplate inserts a template, and its breakdowns when provided, in
// one transaction. A second template for the same (grade, year) fails with
// DuplicateTemplate.
func CreateFeeTemplate(db *sql.DB, t *models.FeeTemplate) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO fee_templates (academic_year_id, grade_level, name, description, is_active)
			  VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at, updated_at`
	err = tx.QueryRow(query, t.AcademicYearID, t.GradeLevel, t.Name, t.Description, t.IsActive).Scan(
		&t.ID, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ledger.NewError(ledger.KindDuplicateTemplate,
				"a fee template already exists for grade %d in this academic year", t.GradeLevel)
		}
		return fmt.Errorf("failed to insert fee template: %v", err)
	}

	if len(t.Breakdowns) > 0 {
		t.TotalAmount, err = replaceBreakdownsTx(tx, t.ID, t.Breakdowns)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ReplaceBreakdowns swaps the template's breakdown set for items and
// recomputes the stored total, atomically.
func ReplaceBreakdowns(db *sql.DB, templateID string, items []*models.Breakdown) (*models.FeeTemplate, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRow(`SELECT true FROM fee_templates WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`,
		templateID).Scan(&exists)
	if err != nil {
		return nil, err
	}

	if _, err = tx.Exec(`DELETE FROM fee_breakdowns WHERE template_id = $1`, templateID); err != nil {
		return nil, fmt.Errorf("failed to clear breakdowns: %v", err)
	}

	if _, err = replaceBreakdownsTx(tx, templateID, items); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	return GetFeeTemplateByID(db, templateID)
}

// replaceBreakdownsTx validates and inserts breakdowns for a template and
// updates its total_amount. Order is preserved through the sort_order column.
func replaceBreakdownsTx(tx *sql.Tx, templateID string, items []*models.Breakdown) (decimal.Decimal, error) {
	if len(items) == 0 {
		return decimal.Zero, ledger.NewError(ledger.KindEmptyBreakdown, "a fee template needs at least one breakdown item")
	}

	total := decimal.Zero
	for i, item := range items {
		if strings.TrimSpace(item.Description) == "" {
			return decimal.Zero, ledger.NewError(ledger.KindEmptyBreakdown, "breakdown item %d has no description", i+1)
		}
		if !item.Amount.GreaterThan(decimal.Zero) {
			return decimal.Zero, ledger.NewError(ledger.KindInvalidAmount,
				"breakdown %q has non-positive amount %s", item.Description, item.Amount.StringFixed(2))
		}
		total = total.Add(item.Amount)
	}

	insert := `INSERT INTO fee_breakdowns (template_id, description, amount, category, sort_order, is_refundable)
			   VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at`
	for i, item := range items {
		item.TemplateID = templateID
		if item.Order == 0 {
			item.Order = i + 1
		}
		err := tx.QueryRow(insert, templateID, item.Description, item.Amount,
			item.Category, item.Order, item.IsRefundable).Scan(&item.ID, &item.CreatedAt)
		if err != nil {
			return decimal.Zero, fmt.Errorf("failed to insert breakdown: %v", err)
		}
	}

	_, err := tx.Exec(`UPDATE fee_templates SET total_amount = $1, updated_at = NOW() WHERE id = $2`,
		total, templateID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to update template total: %v", err)
	}

	return total, nil
}

// GetApplicableOptionalFees returns active optional fees available to the
// grade level: fees whose applicable_grade_levels is empty or contains it.
func GetApplicableOptionalFees(db *sql.DB, gradeLevel int, academicYearID string) ([]*models.OptionalFee, error) {
	query := `SELECT id, academic_year_id, name, category, amount, has_variations,
			  applicable_grade_levels, is_active, created_at, updated_at
			  FROM optional_fees
			  WHERE academic_year_id = $1 AND is_active = true AND deleted_at IS NULL
			  AND (cardinality(applicable_grade_levels) = 0 OR $2 = ANY(applicable_grade_levels))
			  ORDER BY name`

	rows, err := db.Query(query, academicYearID, gradeLevel)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fees []*models.OptionalFee
	for rows.Next() {
		f := &models.OptionalFee{}
		err := rows.Scan(&f.ID, &f.AcademicYearID, &f.Name, &f.Category, &f.Amount,
			&f.HasVariations, &f.ApplicableGradeLevels, &f.IsActive, &f.CreatedAt, &f.UpdatedAt)
		if err != nil {
			return nil, err
		}
		fees = append(fees, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, f := range fees {
		if f.HasVariations {
			if f.Variations, err = getFeeVariations(db, f.ID); err != nil {
				return nil, err
			}
		}
	}

	return fees, nil
}

func GetOptionalFeeByID(db dbtx, feeID string) (*models.OptionalFee, error) {
	f := &models.OptionalFee{}
	query := `SELECT id, academic_year_id, name, category, amount, has_variations,
			  applicable_grade_levels, is_active, created_at, updated_at
			  FROM optional_fees WHERE id = $1 AND deleted_at IS NULL`

	err := db.QueryRow(query, feeID).Scan(&f.ID, &f.AcademicYearID, &f.Name, &f.Category,
		&f.Amount, &f.HasVariations, &f.ApplicableGradeLevels, &f.IsActive, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if f.HasVariations {
		if f.Variations, err = getFeeVariations(db, f.ID); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func getFeeVariations(db dbtx, feeID string) ([]*models.FeeVariation, error) {
	rows, err := db.Query(`SELECT id, optional_fee_id, name, amount, created_at
						   FROM optional_fee_variations WHERE optional_fee_id = $1 ORDER BY name`, feeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var variations []*models.FeeVariation
	for rows.Next() {
		v := &models.FeeVariation{}
		if err := rows.Scan(&v.ID, &v.OptionalFeeID, &v.Name, &v.Amount, &v.CreatedAt); err != nil {
			return nil, err
		}
		variations = append(variations, v)
	}

	return variations, rows.Err()
}

// CreateOptionalFee inserts a fee definition and its variations atomically.
func CreateOptionalFee(db *sql.DB, f *models.OptionalFee) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if f.ApplicableGradeLevels == nil {
		f.ApplicableGradeLevels = pq.Int64Array{}
	}

	query := `INSERT INTO optional_fees (academic_year_id, name, category, amount, has_variations,
			  applicable_grade_levels, is_active)
			  VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_at, updated_at`
	err = tx.QueryRow(query, f.AcademicYearID, f.Name, f.Category, f.Amount,
		f.HasVariations, f.ApplicableGradeLevels, f.IsActive).Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert optional fee: %v", err)
	}

	for _, v := range f.Variations {
		v.OptionalFeeID = f.ID
		err = tx.QueryRow(`INSERT INTO optional_fee_variations (optional_fee_id, name, amount)
						   VALUES ($1, $2, $3) RETURNING id, created_at`,
			f.ID, v.Name, v.Amount).Scan(&v.ID, &v.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert fee variation: %v", err)
		}
	}

	return tx.Commit()
}

// AssignOptionalFee binds a fee (and optionally a variation) to a student,
// locking the amount onto the assignment so later edits to the fee definition
// never change what the student owes.
func AssignOptionalFee(db *sql.DB, assignment *models.StudentOptionalFee) error {
	fee, err := GetOptionalFeeByID(db, assignment.OptionalFeeID)
	if err != nil {
		return err
	}

	student, err := GetStudentByID(db, assignment.StudentID)
	if err != nil {
		return err
	}

	if err := validateAssignment(fee, student.GradeLevel, assignment); err != nil {
		return err
	}

	query := `INSERT INTO student_optional_fees (student_id, optional_fee_id, variation_id, academic_year_id, amount)
			  VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`
	return db.QueryRow(query, assignment.StudentID, assignment.OptionalFeeID,
		assignment.VariationID, assignment.AcademicYearID, assignment.Amount).Scan(
		&assignment.ID, &assignment.CreatedAt,
	)
}

// validateAssignment checks the fee against the student's grade level,
// resolves the variation, and locks the final amount onto the assignment.
// A variation id that does not belong to the fee is rejected outright, even
// when the request carries an explicit amount.
func validateAssignment(fee *models.OptionalFee, gradeLevel int, assignment *models.StudentOptionalFee) error {
	if !fee.IsActive {
		return ledger.NewError(ledger.KindFeeInactive, "optional fee %q is inactive", fee.Name)
	}
	if !fee.AppliesTo(gradeLevel) {
		return ledger.NewError(ledger.KindFeeNotApplicable,
			"optional fee %q does not apply to grade level %d", fee.Name, gradeLevel)
	}

	if fee.HasVariations {
		if assignment.VariationID == nil {
			return ledger.NewError(ledger.KindVariationRequired, "optional fee %q requires a variation", fee.Name)
		}
		var variation *models.FeeVariation
		for _, v := range fee.Variations {
			if v.ID == *assignment.VariationID {
				variation = v
				break
			}
		}
		if variation == nil {
			return ledger.NewError(ledger.KindUnknownVariation,
				"optional fee %q has no variation %s", fee.Name, *assignment.VariationID)
		}
		if assignment.Amount.IsZero() {
			assignment.Amount = variation.Amount
		}
	} else {
		if assignment.VariationID != nil {
			return ledger.NewError(ledger.KindUnknownVariation,
				"optional fee %q has no variations", fee.Name)
		}
		if assignment.Amount.IsZero() {
			assignment.Amount = fee.Amount
		}
	}

	if !assignment.Amount.GreaterThan(decimal.Zero) {
		return ledger.NewError(ledger.KindNonPositiveAmount, "assignment amount must be greater than zero")
	}
	return nil
}

// RemoveOptionalFeeAssignment soft-deletes an assignment; the tombstone keeps
// the audit trail intact.
func RemoveOptionalFeeAssignment(db *sql.DB, assignmentID string) error {
	result, err := db.Exec(`UPDATE student_optional_fees SET deleted_at = NOW()
							WHERE id = $1 AND deleted_at IS NULL`, assignmentID)
	return checkRowUpdated(result, err)
}

// GetStudentOptionalFees returns the student's live assignments for a year in
// creation order.
func GetStudentOptionalFees(db dbtx, studentID, academicYearID string) ([]*models.StudentOptionalFee, error) {
	query := `SELECT id, student_id, optional_fee_id, variation_id, academic_year_id, amount, created_at
			  FROM student_optional_fees
			  WHERE student_id = $1 AND academic_year_id = $2 AND deleted_at IS NULL
			  ORDER BY created_at, id`

	rows, err := db.Query(query, studentID, academicYearID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []*models.StudentOptionalFee
	for rows.Next() {
		a := &models.StudentOptionalFee{}
		err := rows.Scan(&a.ID, &a.StudentID, &a.OptionalFeeID, &a.VariationID,
			&a.AcademicYearID, &a.Amount, &a.CreatedAt)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}

	return assignments, rows.Err()
}
