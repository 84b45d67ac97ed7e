package database

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Four-Shepherds-Divine-Academy/enrollment-system-sub000/app/ledger"
	"github.com/Four-Shepherds-Divine-Academy/enrollment-system-sub000/app/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func itemizedTemplate() *models.FeeTemplate {
	return &models.FeeTemplate{
		ID:          "tpl-1",
		GradeLevel:  7,
		Name:        "Grade 7 Fees",
		TotalAmount: dec("9000"),
		IsActive:    true,
		Breakdowns: []*models.Breakdown{
			{ID: "b1", TemplateID: "tpl-1", Description: "Tuition Fee", Amount: dec("7000"), Category: models.CategoryTuition, IsRefundable: true},
			{ID: "b2", TemplateID: "tpl-1", Description: "Books", Amount: dec("2000"), Category: models.CategoryBooks, IsRefundable: true},
		},
	}
}

func itemizedPayment(total string, items ...*models.PaymentLineItem) *models.Payment {
	return &models.Payment{
		ID:            "pay-1",
		StudentID:     "student-1",
		AmountPaid:    dec(total),
		PaymentMethod: models.MethodCash,
		LineItems:     items,
	}
}

func TestValidateLineItemsExactAllocation(t *testing.T) {
	p := itemizedPayment("9000",
		&models.PaymentLineItem{BreakdownID: "b1", Amount: dec("7000")},
		&models.PaymentLineItem{BreakdownID: "b2", Amount: dec("2000")},
	)

	require.NoError(t, validateLineItems(p, itemizedTemplate()))
}

func TestValidateLineItemsToleratesSubCentDrift(t *testing.T) {
	p := itemizedPayment("9000",
		&models.PaymentLineItem{BreakdownID: "b1", Amount: dec("7000")},
		&models.PaymentLineItem{BreakdownID: "b2", Amount: dec("1999.99")},
	)

	require.NoError(t, validateLineItems(p, itemizedTemplate()))
}

func TestValidateLineItemsRejectsMismatchedSum(t *testing.T) {
	p := itemizedPayment("9000",
		&models.PaymentLineItem{BreakdownID: "b1", Amount: dec("7000")},
		&models.PaymentLineItem{BreakdownID: "b2", Amount: dec("1500")},
	)

	err := validateLineItems(p, itemizedTemplate())
	require.Error(t, err)
	kind, ok := ledger.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, ledger.KindLineItemMismatch, kind)
}

func TestValidateLineItemsRejectsItemOverBreakdownAmount(t *testing.T) {
	p := itemizedPayment("9100",
		&models.PaymentLineItem{BreakdownID: "b1", Amount: dec("7000")},
		&models.PaymentLineItem{BreakdownID: "b2", Amount: dec("2100")},
	)

	err := validateLineItems(p, itemizedTemplate())
	require.Error(t, err)
	kind, _ := ledger.KindOf(err)
	assert.Equal(t, ledger.KindInvalidAmount, kind)
}

func TestValidateLineItemsRejectsUnknownBreakdown(t *testing.T) {
	p := itemizedPayment("500",
		&models.PaymentLineItem{BreakdownID: "b9", Amount: dec("500")},
	)

	err := validateLineItems(p, itemizedTemplate())
	require.Error(t, err)
	kind, _ := ledger.KindOf(err)
	assert.Equal(t, ledger.KindInvalidAmount, kind)

	// No template at all: every itemized payment is unknowable.
	err = validateLineItems(p, nil)
	require.Error(t, err)
	kind, _ = ledger.KindOf(err)
	assert.Equal(t, ledger.KindInvalidAmount, kind)
}

func TestValidateLineItemsRejectsNonPositiveItem(t *testing.T) {
	p := itemizedPayment("7000",
		&models.PaymentLineItem{BreakdownID: "b1", Amount: dec("7000")},
		&models.PaymentLineItem{BreakdownID: "b2", Amount: dec("0")},
	)

	err := validateLineItems(p, itemizedTemplate())
	require.Error(t, err)
	kind, _ := ledger.KindOf(err)
	assert.Equal(t, ledger.KindNonPositiveAmount, kind)
}

func TestCheckPaymentCeiling(t *testing.T) {
	tests := []struct {
		name      string
		amount    string
		balance   string
		allowance string
		wantErr   bool
	}{
		{"under balance", "5000", "9000", "0", false},
		{"exact balance", "9000", "9000", "0", false},
		{"one cent over", "9000.01", "9000", "0", true},
		{"sub-cent over tolerated", "9000.005", "9000", "0", false},
		{"allowance raises ceiling", "9500", "9000", "500", false},
		{"one cent over allowance", "9500.01", "9000", "500", true},
		{"zero balance rejects any payment", "0.50", "0", "0", true},
		{"zero balance within allowance", "0.50", "0", "1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkPaymentCeiling(dec(tt.amount), dec(tt.balance), dec(tt.allowance))
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			kind, ok := ledger.KindOf(err)
			require.True(t, ok)
			assert.Equal(t, ledger.KindAmountExceedsBalance, kind)
		})
	}
}
