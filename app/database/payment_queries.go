package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/Four-Shepherds-Divine-Academy/enrollment-system-sub000/app/ledger"
	"github.com/Four-Shepherds-Divine-Academy/enrollment-system-sub000/app/models"
)

const refGenerationAttempts = 5

// translateConcurrencyErr maps serialization and deadlock failures onto the
// retryable stale-state kind so callers can re-fetch and try again instead of
// showing a validation message.
func translateConcurrencyErr(err error) error {
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "40001", "40P01":
			return ledger.NewError(ledger.KindStaleStateConflict,
				"the ledger changed while recording; re-fetch and retry")
		}
	}
	return err
}

// LoadLedgerInput gathers the fee structure and the full financial event log
// for one student-year. It runs against either the pool or an open
// transaction, so writes can re-validate against freshly read state.
func LoadLedgerInput(db dbtx, studentID string, gradeLevel int, academicYearID string) (ledger.Input, error) {
	var in ledger.Input
	var err error

	if in.Template, err = GetFeeTemplate(db, gradeLevel, academicYearID); err != nil {
		return in, err
	}
	if in.OptionalFees, err = GetStudentOptionalFees(db, studentID, academicYearID); err != nil {
		return in, err
	}
	if in.Payments, err = GetPayments(db, studentID, academicYearID); err != nil {
		return in, err
	}
	if in.Refunds, err = GetRefundsForStudentYear(db, studentID, academicYearID); err != nil {
		return in, err
	}
	if in.Adjustments, err = GetAdjustments(db, studentID, academicYearID); err != nil {
		return in, err
	}
	if in.Flag, err = GetLedgerFlag(db, studentID, academicYearID); err != nil {
		return in, err
	}

	return in, nil
}

// GetPayments returns the student's payments for a year in creation order,
// each with its line items.
func GetPayments(db dbtx, studentID, academicYearID string) ([]*models.Payment, error) {
	query := `SELECT id, student_id, academic_year_id, amount_paid, payment_date, payment_method,
			  reference_number, remarks, recorded_by, created_at, updated_at
			  FROM payments
			  WHERE student_id = $1 AND academic_year_id = $2
			  ORDER BY created_at, id`

	rows, err := db.Query(query, studentID, academicYearID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		p := &models.Payment{}
		err := rows.Scan(&p.ID, &p.StudentID, &p.AcademicYearID, &p.AmountPaid, &p.PaymentDate,
			&p.PaymentMethod, &p.ReferenceNumber, &p.Remarks, &p.RecordedBy, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, p := range payments {
		if p.LineItems, err = getPaymentLineItems(db, p.ID); err != nil {
			return nil, err
		}
	}

	return payments, nil
}

func GetPaymentByID(db dbtx, paymentID string) (*models.Payment, error) {
	p := &models.Payment{}
	query := `SELECT id, student_id, academic_year_id, amount_paid, payment_date, payment_method,
			  reference_number, remarks, recorded_by, created_at, updated_at
			  FROM payments WHERE id = $1`

	err := db.QueryRow(query, paymentID).Scan(&p.ID, &p.StudentID, &p.AcademicYearID, &p.AmountPaid,
		&p.PaymentDate, &p.PaymentMethod, &p.ReferenceNumber, &p.Remarks, &p.RecordedBy,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if p.LineItems, err = getPaymentLineItems(db, p.ID); err != nil {
		return nil, err
	}
	return p, nil
}

func getPaymentLineItems(db dbtx, paymentID string) ([]*models.PaymentLineItem, error) {
	rows, err := db.Query(`SELECT id, payment_id, breakdown_id, amount, position
						   FROM payment_line_items WHERE payment_id = $1 ORDER BY position`, paymentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.PaymentLineItem
	for rows.Next() {
		li := &models.PaymentLineItem{}
		if err := rows.Scan(&li.ID, &li.PaymentID, &li.BreakdownID, &li.Amount, &li.Position); err != nil {
			return nil, err
		}
		items = append(items, li)
	}

	return items, rows.Err()
}

// GetRefundsForStudentYear returns all refunds against the student's payments
// for a year, in creation order.
func GetRefundsForStudentYear(db dbtx, studentID, academicYearID string) ([]*models.Refund, error) {
	query := `SELECT r.id, r.payment_id, r.amount, r.reason, r.refund_date, r.created_at
			  FROM refunds r
			  JOIN payments p ON r.payment_id = p.id
			  WHERE p.student_id = $1 AND p.academic_year_id = $2
			  ORDER BY r.created_at, r.id`

	rows, err := db.Query(query, studentID, academicYearID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRefunds(rows)
}

func getRefundsForPayment(db dbtx, paymentID string) ([]*models.Refund, error) {
	rows, err := db.Query(`SELECT id, payment_id, amount, reason, refund_date, created_at
						   FROM refunds WHERE payment_id = $1 ORDER BY created_at, id`, paymentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRefunds(rows)
}

func scanRefunds(rows *sql.Rows) ([]*models.Refund, error) {
	var refunds []*models.Refund
	for rows.Next() {
		r := &models.Refund{}
		if err := rows.Scan(&r.ID, &r.PaymentID, &r.Amount, &r.Reason, &r.RefundDate, &r.CreatedAt); err != nil {
			return nil, err
		}
		refunds = append(refunds, r)
	}
	return refunds, rows.Err()
}

// GetAdjustments returns the student's adjustments for a year in creation
// order.
func GetAdjustments(db dbtx, studentID, academicYearID string) ([]*models.Adjustment, error) {
	query := `SELECT id, student_id, academic_year_id, type, amount, reason, description, created_by, created_at
			  FROM adjustments
			  WHERE student_id = $1 AND academic_year_id = $2
			  ORDER BY created_at, id`

	rows, err := db.Query(query, studentID, academicYearID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var adjustments []*models.Adjustment
	for rows.Next() {
		a := &models.Adjustment{}
		err := rows.Scan(&a.ID, &a.StudentID, &a.AcademicYearID, &a.Type, &a.Amount,
			&a.Reason, &a.Description, &a.CreatedBy, &a.CreatedAt)
		if err != nil {
			return nil, err
		}
		adjustments = append(adjustments, a)
	}

	return adjustments, rows.Err()
}

// RecordPayment appends a payment to the event log. The whole operation runs
// in one transaction: it locks the student row, re-reads the current totals,
// re-validates the balance ceiling against that fresh state, and only then
// inserts. A rejected payment writes nothing, including no line items.
//
// overpaymentAllowance is how far the balance may go below zero; zero rejects
// any payment beyond the amount currently due.
func RecordPayment(db *sql.DB, overpaymentAllowance decimal.Decimal, p *models.Payment) error {
	if !p.AmountPaid.GreaterThan(decimal.Zero) {
		return ledger.NewError(ledger.KindNonPositiveAmount, "payment amount must be greater than zero")
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Serialize concurrent writes per student so two payments cannot both
	// validate against the same stale balance.
	var gradeLevel int
	err = tx.QueryRow(`SELECT grade_level FROM students WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`,
		p.StudentID).Scan(&gradeLevel)
	if err != nil {
		return translateConcurrencyErr(err)
	}

	in, err := LoadLedgerInput(tx, p.StudentID, gradeLevel, p.AcademicYearID)
	if err != nil {
		return translateConcurrencyErr(err)
	}
	snapshot := ledger.Compute(in)

	if err := checkPaymentCeiling(p.AmountPaid, snapshot.Balance, overpaymentAllowance); err != nil {
		return err
	}

	if len(p.LineItems) > 0 {
		if err := validateLineItems(p, in.Template); err != nil {
			return err
		}
	}

	if p.PaymentDate.IsZero() {
		p.PaymentDate = time.Now()
	}

	if err := insertPayment(tx, p); err != nil {
		return translateConcurrencyErr(err)
	}

	insert := `INSERT INTO payment_line_items (payment_id, breakdown_id, amount, position)
			   VALUES ($1, $2, $3, $4) RETURNING id`
	for i, li := range p.LineItems {
		li.PaymentID = p.ID
		li.Position = i + 1
		if err := tx.QueryRow(insert, p.ID, li.BreakdownID, li.Amount, li.Position).Scan(&li.ID); err != nil {
			return fmt.Errorf("failed to insert line item: %v", err)
		}
	}

	return translateConcurrencyErr(tx.Commit())
}

// checkPaymentCeiling enforces the overpayment rule: a payment may not drive
// the balance below zero by more than the configured allowance.
func checkPaymentCeiling(amount, balance, allowance decimal.Decimal) error {
	ceiling := balance.Add(allowance)
	if ledger.GreaterThan(amount, ceiling) {
		return ledger.NewError(ledger.KindAmountExceedsBalance,
			"payment of %s exceeds the outstanding balance of %s",
			amount.StringFixed(2), balance.StringFixed(2))
	}
	return nil
}

// validateLineItems checks the itemized allocation: amounts sum to the
// payment total within the rounding tolerance, and every item references a
// template breakdown without exceeding that breakdown's amount.
func validateLineItems(p *models.Payment, template *models.FeeTemplate) error {
	if !ledger.Equal(p.LineItemTotal(), p.AmountPaid) {
		return ledger.NewError(ledger.KindLineItemMismatch,
			"line items sum to %s but the payment amount is %s",
			p.LineItemTotal().StringFixed(2), p.AmountPaid.StringFixed(2))
	}

	byID := make(map[string]*models.Breakdown)
	if template != nil {
		for _, b := range template.Breakdowns {
			byID[b.ID] = b
		}
	}

	for _, li := range p.LineItems {
		if !li.Amount.GreaterThan(decimal.Zero) {
			return ledger.NewError(ledger.KindNonPositiveAmount, "line item amount must be greater than zero")
		}
		breakdown, ok := byID[li.BreakdownID]
		if !ok {
			return ledger.NewError(ledger.KindInvalidAmount,
				"line item references unknown breakdown %s", li.BreakdownID)
		}
		if ledger.GreaterThan(li.Amount, breakdown.Amount) {
			return ledger.NewError(ledger.KindInvalidAmount,
				"line item of %s exceeds the %s amount of breakdown %q",
				li.Amount.StringFixed(2), breakdown.Amount.StringFixed(2), breakdown.Description)
		}
	}

	return nil
}

// insertPayment writes the payment row, generating a reference number when
// the caller supplied none and regenerating on collision.
func insertPayment(tx *sql.Tx, p *models.Payment) error {
	query := `INSERT INTO payments (student_id, academic_year_id, amount_paid, payment_date,
			  payment_method, reference_number, remarks, recorded_by)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id, created_at, updated_at`

	supplied := p.ReferenceNumber != ""
	for attempt := 0; attempt < refGenerationAttempts; attempt++ {
		if !supplied {
			p.ReferenceNumber = ledger.NewReferenceNumber(p.StudentID, time.Now())
		}

		err := tx.QueryRow(query, p.StudentID, p.AcademicYearID, p.AmountPaid, p.PaymentDate,
			p.PaymentMethod, p.ReferenceNumber, p.Remarks, p.RecordedBy).Scan(
			&p.ID, &p.CreatedAt, &p.UpdatedAt,
		)
		if err == nil {
			return nil
		}

		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" &&
			strings.Contains(pqErr.Constraint, "reference_number") {
			if supplied {
				return fmt.Errorf("reference number %s is already in use", p.ReferenceNumber)
			}
			continue
		}
		return fmt.Errorf("failed to insert payment: %v", err)
	}

	return fmt.Errorf("could not generate a unique reference number after %d attempts", refGenerationAttempts)
}

// EditPaymentRemarks updates the remarks field, the only mutation a payment
// permits after creation.
func EditPaymentRemarks(db *sql.DB, paymentID, remarks string) error {
	result, err := db.Exec(`UPDATE payments SET remarks = $1, updated_at = NOW() WHERE id = $2`,
		remarks, paymentID)
	return checkRowUpdated(result, err)
}

// CreateRefund validates a refund against the parent payment's freshly read
// state and appends it. The parent payment row is never mutated.
func CreateRefund(db *sql.DB, paymentID string, amount decimal.Decimal, reason string) (*models.Refund, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Lock the parent payment so concurrent refunds serialize and cannot
	// jointly exceed the refundable remainder.
	var locked string
	err = tx.QueryRow(`SELECT id FROM payments WHERE id = $1 FOR UPDATE`, paymentID).Scan(&locked)
	if err != nil {
		return nil, translateConcurrencyErr(err)
	}

	payment, err := GetPaymentByID(tx, paymentID)
	if err != nil {
		return nil, err
	}

	existing, err := getRefundsForPayment(tx, paymentID)
	if err != nil {
		return nil, err
	}

	touched, err := breakdownsTouchedByPayment(tx, payment)
	if err != nil {
		return nil, err
	}

	refund, err := ledger.ValidateRefund(payment, existing, amount, touched, reason, time.Now())
	if err != nil {
		return nil, err
	}

	err = tx.QueryRow(`INSERT INTO refunds (payment_id, amount, reason, refund_date)
					   VALUES ($1, $2, $3, $4) RETURNING id, created_at`,
		refund.PaymentID, refund.Amount, refund.Reason, refund.RefundDate).Scan(&refund.ID, &refund.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert refund: %v", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, translateConcurrencyErr(err)
	}
	return refund, nil
}

// breakdownsTouchedByPayment resolves which breakdowns a refund would touch:
// the payment's line items, or every breakdown of the student's active
// template when the payment was not itemized.
func breakdownsTouchedByPayment(db dbtx, payment *models.Payment) ([]*models.Breakdown, error) {
	if len(payment.LineItems) > 0 {
		ids := make([]string, len(payment.LineItems))
		for i, li := range payment.LineItems {
			ids[i] = li.BreakdownID
		}

		rows, err := db.Query(`SELECT id, template_id, description, amount, category, sort_order, is_refundable, created_at
							   FROM fee_breakdowns WHERE id = ANY($1::uuid[])`, pq.Array(ids))
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

	var gradeLevel int
	err := db.QueryRow(`SELECT grade_level FROM students WHERE id = $1`, payment.StudentID).Scan(&gradeLevel)
	if err != nil {
		return nil, err
	}

	template, err := GetFeeTemplate(db, gradeLevel, payment.AcademicYearID)
	if err != nil || template == nil {
		return nil, err
	}
	return template.Breakdowns, nil
}

// CreateAdjustment appends a manual discount or surcharge to the event log.
func CreateAdjustment(db *sql.DB, adj *models.Adjustment) error {
	if !adj.Type.IsValid() {
		return ledger.NewError(ledger.KindInvalidAmount, "unknown adjustment type %q", adj.Type)
	}
	if !adj.Amount.GreaterThan(decimal.Zero) {
		return ledger.NewError(ledger.KindNonPositiveAmount, "adjustment amount must be greater than zero")
	}

	query := `INSERT INTO adjustments (student_id, academic_year_id, type, amount, reason, description, created_by)
			  VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_at`
	return db.QueryRow(query, adj.StudentID, adj.AcademicYearID, adj.Type, adj.Amount,
		adj.Reason, adj.Description, adj.CreatedBy).Scan(&adj.ID, &adj.CreatedAt)
}

// GetLedgerFlag returns the stored late-payment flag, or nil when it was
// never set for this student-year.
func GetLedgerFlag(db dbtx, studentID, academicYearID string) (*models.LedgerFlag, error) {
	flag := &models.LedgerFlag{}
	query := `SELECT student_id, academic_year_id, is_late_payment, late_since, updated_at
			  FROM student_ledger_flags WHERE student_id = $1 AND academic_year_id = $2`

	err := db.QueryRow(query, studentID, academicYearID).Scan(
		&flag.StudentID, &flag.AcademicYearID, &flag.IsLatePayment, &flag.LateSince, &flag.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return flag, nil
}

// SetLateStatus upserts the manually toggled late-payment marker. Flagging
// without a timestamp defaults lateSince to now; clearing the flag clears the
// timestamp.
func SetLateStatus(db *sql.DB, studentID, academicYearID string, isLate bool, lateSince *time.Time) (*models.LedgerFlag, error) {
	if isLate && lateSince == nil {
		now := time.Now()
		lateSince = &now
	}
	if !isLate {
		lateSince = nil
	}

	flag := &models.LedgerFlag{}
	query := `INSERT INTO student_ledger_flags (student_id, academic_year_id, is_late_payment, late_since, updated_at)
			  VALUES ($1, $2, $3, $4, NOW())
			  ON CONFLICT (student_id, academic_year_id)
			  DO UPDATE SET is_late_payment = $3, late_since = $4, updated_at = NOW()
			  RETURNING student_id, academic_year_id, is_late_payment, late_since, updated_at`

	err := db.QueryRow(query, studentID, academicYearID, isLate, lateSince).Scan(
		&flag.StudentID, &flag.AcademicYearID, &flag.IsLatePayment, &flag.LateSince, &flag.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return flag, nil
}
