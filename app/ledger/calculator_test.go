package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Four-Shepherds-Divine-Academy/enrollment-system-sub000/app/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func template(total string) *models.FeeTemplate {
	return &models.FeeTemplate{
		ID:          "tpl-1",
		GradeLevel:  7,
		Name:        "Grade 7 Fees",
		TotalAmount: dec(total),
		IsActive:    true,
	}
}

func payment(id, amount string) *models.Payment {
	return &models.Payment{
		ID:            id,
		StudentID:     "student-1",
		AmountPaid:    dec(amount),
		PaymentMethod: models.MethodCash,
	}
}

func TestComputeFullPaymentIsPaid(t *testing.T) {
	snap := Compute(Input{
		Template: template("25900"),
		Payments: []*models.Payment{payment("p1", "25900")},
	})

	assert.True(t, snap.TotalDue.Equal(dec("25900")), "totalDue = %s", snap.TotalDue)
	assert.True(t, snap.Balance.IsZero(), "balance = %s", snap.Balance)
	assert.Equal(t, models.StatusPaid, snap.PaymentStatus)
}

func TestComputePartialPaymentWithDiscount(t *testing.T) {
	snap := Compute(Input{
		Template: template("25900"),
		Payments: []*models.Payment{payment("p1", "10000")},
		Adjustments: []*models.Adjustment{
			{Type: models.AdjustmentDiscount, Amount: dec("5900"), Reason: "Sibling discount"},
		},
	})

	assert.True(t, snap.TotalDue.Equal(dec("20000")), "totalDue = %s", snap.TotalDue)
	assert.True(t, snap.Balance.Equal(dec("10000")), "balance = %s", snap.Balance)
	assert.True(t, snap.TotalAdjustments.Equal(dec("-5900")), "totalAdjustments = %s", snap.TotalAdjustments)
	assert.Equal(t, models.StatusPartial, snap.PaymentStatus)
}

func TestComputeStatusDerivation(t *testing.T) {
	tests := []struct {
		name     string
		due      string
		payments []string
		refunds  []string
		want     models.PaymentStatus
	}{
		{"no payments", "25900", nil, nil, models.StatusUnpaid},
		{"partial", "25900", []string{"100"}, nil, models.StatusPartial},
		{"exact payment", "25900", []string{"25900"}, nil, models.StatusPaid},
		{"split exact", "25900", []string{"10000", "15900"}, nil, models.StatusPaid},
		{"one cent over", "25900", []string{"25900.01"}, nil, models.StatusOverpaid},
		{"sub-cent over stays paid", "25900", []string{"25900.005"}, nil, models.StatusPaid},
		{"one cent short", "25900", []string{"25899.99"}, nil, models.StatusPartial},
		{"fully refunded back to unpaid", "25900", []string{"5000"}, []string{"5000"}, models.StatusUnpaid},
		{"refund drops to partial", "25900", []string{"25900"}, []string{"1000"}, models.StatusPartial},
		{"zero due no payments", "0", nil, nil, models.StatusUnpaid},
		{"zero due any payment overpays", "0", []string{"0.50"}, nil, models.StatusOverpaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := Input{Template: template(tt.due)}
			for i, p := range tt.payments {
				pay := payment("p", p)
				pay.ID = pay.ID + string(rune('0'+i))
				in.Payments = append(in.Payments, pay)
			}
			for _, r := range tt.refunds {
				in.Refunds = append(in.Refunds, &models.Refund{PaymentID: "p0", Amount: dec(r)})
			}

			snap := Compute(in)
			assert.Equal(t, tt.want, snap.PaymentStatus)
		})
	}
}

func TestComputeNoTemplateUsesOptionalFeesOnly(t *testing.T) {
	snap := Compute(Input{
		OptionalFees: []*models.StudentOptionalFee{
			{Amount: dec("1500")},
			{Amount: dec("750.50")},
		},
	})

	assert.True(t, snap.BaseFee.IsZero())
	assert.True(t, snap.TotalDue.Equal(dec("2250.50")), "totalDue = %s", snap.TotalDue)
	assert.Equal(t, models.StatusUnpaid, snap.PaymentStatus)
}

func TestComputeAdjustmentsBothDirections(t *testing.T) {
	snap := Compute(Input{
		Template: template("20000"),
		Adjustments: []*models.Adjustment{
			{Type: models.AdjustmentDiscount, Amount: dec("3000"), Reason: "Scholarship"},
			{Type: models.AdjustmentAdditional, Amount: dec("500"), Reason: "Lost ID replacement"},
		},
	})

	// totalDue = 20000 - 3000 + 500
	assert.True(t, snap.TotalDue.Equal(dec("17500")), "totalDue = %s", snap.TotalDue)
	assert.True(t, snap.TotalAdjustments.Equal(dec("-2500")), "totalAdjustments = %s", snap.TotalAdjustments)
}

func TestComputeRefundsNetAgainstGrossPaid(t *testing.T) {
	snap := Compute(Input{
		Template: template("10000"),
		Payments: []*models.Payment{payment("p1", "6000"), payment("p2", "4000")},
		Refunds: []*models.Refund{
			{PaymentID: "p1", Amount: dec("1000")},
			{PaymentID: "p2", Amount: dec("500")},
		},
	})

	assert.True(t, snap.GrossPaid.Equal(dec("10000")))
	assert.True(t, snap.TotalRefunded.Equal(dec("1500")))
	assert.True(t, snap.TotalPaid.Equal(dec("8500")))
	assert.True(t, snap.Balance.Equal(dec("1500")))
	assert.Equal(t, models.StatusPartial, snap.PaymentStatus)
}

func TestComputeIsDeterministic(t *testing.T) {
	in := Input{
		Template:     template("25900"),
		OptionalFees: []*models.StudentOptionalFee{{Amount: dec("1200")}},
		Payments:     []*models.Payment{payment("p1", "9000.25")},
		Adjustments: []*models.Adjustment{
			{Type: models.AdjustmentAdditional, Amount: dec("300"), Reason: "Late enrollment"},
		},
	}

	first := Compute(in)
	second := Compute(in)
	require.Equal(t, first, second)
}

func TestComputeCarriesLateFlag(t *testing.T) {
	snap := Compute(Input{Template: template("10000")})
	assert.False(t, snap.IsLatePayment)
	assert.Nil(t, snap.LateSince)

	flag := &models.LedgerFlag{IsLatePayment: true}
	snap = Compute(Input{Template: template("10000"), Flag: flag})
	assert.True(t, snap.IsLatePayment)
}

func TestComputeNoDecimalDrift(t *testing.T) {
	// Many small decimal payments must sum exactly, with no float behavior.
	in := Input{Template: template("10")}
	for i := 0; i < 100; i++ {
		in.Payments = append(in.Payments, payment("p", "0.10"))
	}

	snap := Compute(in)
	assert.True(t, snap.TotalPaid.Equal(dec("10")), "totalPaid = %s", snap.TotalPaid)
	assert.True(t, snap.Balance.IsZero(), "balance = %s", snap.Balance)
	assert.Equal(t, models.StatusPaid, snap.PaymentStatus)
}
