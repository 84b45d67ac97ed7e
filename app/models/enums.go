package models

// BreakdownCategory classifies a fee template line item.
type BreakdownCategory string

const (
	CategoryTuition      BreakdownCategory = "TUITION"
	CategoryBooks        BreakdownCategory = "BOOKS"
	CategoryUniform      BreakdownCategory = "UNIFORM"
	CategoryLaboratory   BreakdownCategory = "LABORATORY"
	CategoryLibrary      BreakdownCategory = "LIBRARY"
	CategoryIDCard       BreakdownCategory = "ID_CARD"
	CategoryExam         BreakdownCategory = "EXAM"
	CategoryRegistration BreakdownCategory = "REGISTRATION"
	CategoryMisc         BreakdownCategory = "MISC"
)

// IsValid reports whether the category is one of the fixed vocabulary values.
func (c BreakdownCategory) IsValid() bool {
	switch c {
	case CategoryTuition, CategoryBooks, CategoryUniform, CategoryLaboratory,
		CategoryLibrary, CategoryIDCard, CategoryExam, CategoryRegistration, CategoryMisc:
		return true
	}
	return false
}

// PaymentMethod defines how a payment was made.
type PaymentMethod string

const (
	MethodCash         PaymentMethod = "CASH"
	MethodCheck        PaymentMethod = "CHECK"
	MethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	MethodGCash        PaymentMethod = "GCASH"
	MethodPayMaya      PaymentMethod = "PAYMAYA"
	MethodOnline       PaymentMethod = "ONLINE"
)

func (m PaymentMethod) IsValid() bool {
	switch m {
	case MethodCash, MethodCheck, MethodBankTransfer, MethodGCash, MethodPayMaya, MethodOnline:
		return true
	}
	return false
}

// AdjustmentType defines the direction of a manual adjustment.
type AdjustmentType string

const (
	AdjustmentDiscount   AdjustmentType = "DISCOUNT"
	AdjustmentAdditional AdjustmentType = "ADDITIONAL"
)

func (t AdjustmentType) IsValid() bool {
	return t == AdjustmentDiscount || t == AdjustmentAdditional
}

// PaymentStatus is the derived state of a student's account for one year.
type PaymentStatus string

const (
	StatusUnpaid   PaymentStatus = "UNPAID"
	StatusPartial  PaymentStatus = "PARTIAL"
	StatusPaid     PaymentStatus = "PAID"
	StatusOverpaid PaymentStatus = "OVERPAID"
)
