package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/Four-Shepherds-Divine-Academy/enrollment-system-sub000/app/models"
)

// Input is everything Compute needs for one student-year: the fee structure
// and the full financial event log, already fetched by the caller.
type Input struct {
	Template     *models.FeeTemplate // nil when no template exists for the grade
	OptionalFees []*models.StudentOptionalFee
	Payments     []*models.Payment
	Refunds      []*models.Refund
	Adjustments  []*models.Adjustment
	Flag         *models.LedgerFlag // nil when the late flag was never set
}

// Compute derives the ledger snapshot for one student-year. It is a pure
// aggregation: same input, same output, no clock or store access. It never
// errors; all invariants are enforced on the write side.
//
// A student with no fee template is a valid zero-base state, not an error:
// totalDue is then the optional fees alone.
func Compute(in Input) models.LedgerSnapshot {
	baseFee := decimal.Zero
	if in.Template != nil {
		baseFee = in.Template.TotalAmount
	}

	optionalDue := decimal.Zero
	for _, a := range in.OptionalFees {
		optionalDue = optionalDue.Add(a.Amount)
	}

	discounts := decimal.Zero
	additions := decimal.Zero
	for _, adj := range in.Adjustments {
		switch adj.Type {
		case models.AdjustmentDiscount:
			discounts = discounts.Add(adj.Amount)
		case models.AdjustmentAdditional:
			additions = additions.Add(adj.Amount)
		}
	}

	grossPaid := decimal.Zero
	for _, p := range in.Payments {
		grossPaid = grossPaid.Add(p.AmountPaid)
	}

	totalRefunded := decimal.Zero
	for _, r := range in.Refunds {
		totalRefunded = totalRefunded.Add(r.Amount)
	}

	totalDue := baseFee.Add(optionalDue).Sub(discounts).Add(additions)
	totalPaid := grossPaid.Sub(totalRefunded)
	balance := totalDue.Sub(totalPaid)

	snap := models.LedgerSnapshot{
		BaseFee:          baseFee,
		OptionalDue:      optionalDue,
		TotalDue:         totalDue,
		GrossPaid:        grossPaid,
		TotalRefunded:    totalRefunded,
		TotalPaid:        totalPaid,
		TotalAdjustments: additions.Sub(discounts),
		Balance:          balance,
		PaymentStatus:    deriveStatus(totalPaid, totalDue),
	}

	if in.Flag != nil {
		snap.IsLatePayment = in.Flag.IsLatePayment
		snap.LateSince = in.Flag.LateSince
	}

	return snap
}

// deriveStatus evaluates the status rules in order; first match wins.
func deriveStatus(totalPaid, totalDue decimal.Decimal) models.PaymentStatus {
	switch {
	case totalPaid.IsZero():
		return models.StatusUnpaid
	case GreaterThan(totalPaid, totalDue):
		return models.StatusOverpaid
	case AtLeast(totalPaid, totalDue):
		return models.StatusPaid
	default:
		return models.StatusPartial
	}
}
