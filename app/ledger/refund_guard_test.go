package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Four-Shepherds-Divine-Academy/enrollment-system-sub000/app/models"
)

func refundableBreakdowns() []*models.Breakdown {
	return []*models.Breakdown{
		{ID: "b1", Description: "Tuition Fee", Amount: dec("7000"), Category: models.CategoryTuition, IsRefundable: true},
		{ID: "b2", Description: "Books", Amount: dec("2000"), Category: models.CategoryBooks, IsRefundable: true},
	}
}

func TestValidateRefundApproves(t *testing.T) {
	pay := payment("p1", "5000")
	now := time.Now()

	refund, err := ValidateRefund(pay, nil, dec("1000"), refundableBreakdowns(), "Withdrawn from bus service", now)
	require.NoError(t, err)
	assert.Equal(t, pay.ID, refund.PaymentID)
	assert.True(t, refund.Amount.Equal(dec("1000")))
	assert.Equal(t, "Withdrawn from bus service", refund.Reason)
	assert.Equal(t, now, refund.RefundDate)
}

func TestValidateRefundRejectsNonPositiveAmount(t *testing.T) {
	pay := payment("p1", "5000")

	for _, amount := range []string{"0", "-100"} {
		_, err := ValidateRefund(pay, nil, dec(amount), refundableBreakdowns(), "reason", time.Now())
		require.Error(t, err)
		kind, ok := KindOf(err)
		require.True(t, ok)
		assert.Equal(t, KindNonPositiveAmount, kind)
	}
}

func TestValidateRefundRejectsNonRefundableItem(t *testing.T) {
	pay := payment("p1", "5000")
	touched := refundableBreakdowns()
	touched = append(touched, &models.Breakdown{
		ID: "b3", Description: "Registration Fee", Amount: dec("1000"),
		Category: models.CategoryRegistration, IsRefundable: false,
	})

	_, err := ValidateRefund(pay, nil, dec("1000"), touched, "reason", time.Now())
	require.Error(t, err)
	kind, _ := KindOf(err)
	assert.Equal(t, KindNonRefundableItem, kind)
}

func TestValidateRefundRejectsExceedingNetPayment(t *testing.T) {
	pay := payment("p1", "3000")
	existing := []*models.Refund{{PaymentID: "p1", Amount: dec("3000")}}

	_, err := ValidateRefund(pay, existing, dec("1"), refundableBreakdowns(), "reason", time.Now())
	require.Error(t, err)
	kind, _ := KindOf(err)
	assert.Equal(t, KindExceedsNetPayment, kind)
}

func TestValidateRefundAllowsExactRemainder(t *testing.T) {
	pay := payment("p1", "3000")
	existing := []*models.Refund{
		{PaymentID: "p1", Amount: dec("1000")},
		{PaymentID: "p1", Amount: dec("500")},
	}

	refund, err := ValidateRefund(pay, existing, dec("1500"), refundableBreakdowns(), "Final settlement", time.Now())
	require.NoError(t, err)
	assert.True(t, refund.Amount.Equal(dec("1500")))

	// The approved refund exhausts the payment: nothing further may be refunded.
	existing = append(existing, refund)
	_, err = ValidateRefund(pay, existing, dec("0.01"), refundableBreakdowns(), "reason", time.Now())
	require.Error(t, err)
	kind, _ := KindOf(err)
	assert.Equal(t, KindExceedsNetPayment, kind)
}
