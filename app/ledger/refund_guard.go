package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Four-Shepherds-Divine-Academy/enrollment-system-sub000/app/models"
)

// ValidateRefund checks a proposed refund against its parent payment's
// remaining refundable amount and against breakdown refundability.
//
// breakdownsTouched must be the breakdowns referenced by the payment's line
// items, or — when the payment carried no line items — every breakdown of the
// student's active fee template.
//
// On success it returns the approved refund value; the caller is responsible
// for appending it to the financial event log. The parent payment itself is
// never mutated.
func ValidateRefund(payment *models.Payment, existingRefunds []*models.Refund, proposedAmount decimal.Decimal, breakdownsTouched []*models.Breakdown, reason string, refundDate time.Time) (*models.Refund, error) {
	if !proposedAmount.GreaterThan(decimal.Zero) {
		return nil, NewError(KindNonPositiveAmount, "refund amount must be greater than zero")
	}

	for _, b := range breakdownsTouched {
		if !b.IsRefundable {
			return nil, NewError(KindNonRefundableItem, "breakdown %q is not refundable", b.Description)
		}
	}

	refunded := decimal.Zero
	for _, r := range existingRefunds {
		refunded = refunded.Add(r.Amount)
	}
	netPaid := payment.AmountPaid.Sub(refunded)

	if GreaterThan(proposedAmount, netPaid) {
		return nil, NewError(KindExceedsNetPayment,
			"refund of %s exceeds remaining refundable amount %s on payment %s",
			proposedAmount.StringFixed(2), netPaid.StringFixed(2), payment.ReferenceNumber)
	}

	return &models.Refund{
		PaymentID:  payment.ID,
		Amount:     proposedAmount,
		Reason:     reason,
		RefundDate: refundDate,
	}, nil
}
