package ledger

import (
	"errors"
	"fmt"
)

// Kind is the stable, machine-readable classification of a ledger error.
// Callers branch on the kind, never on the message text.
type Kind string

const (
	// Validation errors: caller-fixable, never retried automatically.
	KindNonPositiveAmount Kind = "NON_POSITIVE_AMOUNT"
	KindEmptyBreakdown    Kind = "EMPTY_BREAKDOWN"
	KindInvalidAmount     Kind = "INVALID_AMOUNT"
	KindLineItemMismatch  Kind = "LINE_ITEM_MISMATCH"
	KindDuplicateTemplate Kind = "DUPLICATE_TEMPLATE"
	KindFeeInactive       Kind = "FEE_INACTIVE"
	KindFeeNotApplicable  Kind = "FEE_NOT_APPLICABLE"
	KindVariationRequired Kind = "VARIATION_REQUIRED"
	KindUnknownVariation  Kind = "UNKNOWN_VARIATION"

	// Invariant violations: business-rule rejections surfaced verbatim.
	KindAmountExceedsBalance Kind = "AMOUNT_EXCEEDS_BALANCE"
	KindExceedsNetPayment    Kind = "EXCEEDS_NET_PAYMENT"
	KindNonRefundableItem    Kind = "NON_REFUNDABLE_ITEM"

	// Consistency errors: the in-transaction re-check failed; the caller may
	// retry after re-fetching state.
	KindStaleStateConflict Kind = "STALE_STATE_CONFLICT"
)

// Error is a ledger failure carrying a stable kind. No ledger write persists
// any state when it returns an Error.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// NewError builds a ledger error of the given kind.
func NewError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the ledger kind from err, if it carries one.
func KindOf(err error) (Kind, bool) {
	var le *Error
	if errors.As(err, &le) {
		return le.Kind, true
	}
	return "", false
}

// IsValidation reports whether the kind is a caller-fixable input error.
func (k Kind) IsValidation() bool {
	switch k {
	case KindNonPositiveAmount, KindEmptyBreakdown, KindInvalidAmount,
		KindLineItemMismatch, KindDuplicateTemplate, KindFeeInactive,
		KindFeeNotApplicable, KindVariationRequired, KindUnknownVariation:
		return true
	}
	return false
}

// IsRetryable reports whether the caller may retry after re-fetching state.
func (k Kind) IsRetryable() bool {
	return k == KindStaleStateConflict
}
