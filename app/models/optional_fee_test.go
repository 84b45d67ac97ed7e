package models

import (
	"testing"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestOptionalFeeAppliesTo(t *testing.T) {
	allGrades := &OptionalFee{ApplicableGradeLevels: pq.Int64Array{}}
	assert.True(t, allGrades.AppliesTo(0))
	assert.True(t, allGrades.AppliesTo(12))

	restricted := &OptionalFee{ApplicableGradeLevels: pq.Int64Array{4, 5, 6}}
	assert.True(t, restricted.AppliesTo(5))
	assert.False(t, restricted.AppliesTo(7))
}

func TestFeeTemplateBreakdownTotal(t *testing.T) {
	template := &FeeTemplate{
		Breakdowns: []*Breakdown{
			{Amount: decimal.NewFromInt(7000)},
			{Amount: decimal.NewFromInt(1500)},
			{Amount: decimal.RequireFromString("350.50")},
		},
	}
	assert.True(t, template.BreakdownTotal().Equal(decimal.RequireFromString("8850.50")))
}

func TestPaymentLineItemTotal(t *testing.T) {
	payment := &Payment{
		LineItems: []*PaymentLineItem{
			{Amount: decimal.NewFromInt(2000)},
			{Amount: decimal.RequireFromString("999.99")},
		},
	}
	assert.True(t, payment.LineItemTotal().Equal(decimal.RequireFromString("2999.99")))

	empty := &Payment{}
	assert.True(t, empty.LineItemTotal().IsZero())
}
