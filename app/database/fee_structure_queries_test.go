package database

import (
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Four-Shepherds-Divine-Academy/enrollment-system-sub000/app/ledger"
	"github.com/Four-Shepherds-Divine-Academy/enrollment-system-sub000/app/models"
)

func strPtr(s string) *string { return &s }

func uniformFee() *models.OptionalFee {
	return &models.OptionalFee{
		ID:            "fee-1",
		Name:          "School Uniform",
		Category:      models.CategoryUniform,
		HasVariations: true,
		IsActive:      true,
		Variations: []*models.FeeVariation{
			{ID: "var-s", OptionalFeeID: "fee-1", Name: "Small", Amount: dec("800")},
			{ID: "var-l", OptionalFeeID: "fee-1", Name: "Large", Amount: dec("950")},
		},
	}
}

func idCardFee() *models.OptionalFee {
	return &models.OptionalFee{
		ID:       "fee-2",
		Name:     "ID Card",
		Category: models.CategoryIDCard,
		Amount:   dec("150"),
		IsActive: true,
	}
}

func TestValidateAssignmentLocksVariationAmount(t *testing.T) {
	assignment := &models.StudentOptionalFee{
		StudentID:     "student-1",
		OptionalFeeID: "fee-1",
		VariationID:   strPtr("var-l"),
	}

	require.NoError(t, validateAssignment(uniformFee(), 7, assignment))
	assert.True(t, assignment.Amount.Equal(dec("950")), "amount = %s", assignment.Amount)
}

func TestValidateAssignmentKeepsExplicitAmount(t *testing.T) {
	assignment := &models.StudentOptionalFee{
		StudentID:     "student-1",
		OptionalFeeID: "fee-1",
		VariationID:   strPtr("var-s"),
		Amount:        dec("700"), // negotiated price
	}

	require.NoError(t, validateAssignment(uniformFee(), 7, assignment))
	assert.True(t, assignment.Amount.Equal(dec("700")))
}

func TestValidateAssignmentDefaultsFlatAmount(t *testing.T) {
	assignment := &models.StudentOptionalFee{StudentID: "student-1", OptionalFeeID: "fee-2"}

	require.NoError(t, validateAssignment(idCardFee(), 3, assignment))
	assert.True(t, assignment.Amount.Equal(dec("150")))
}

func TestValidateAssignmentRejectsInactiveFee(t *testing.T) {
	fee := idCardFee()
	fee.IsActive = false

	err := validateAssignment(fee, 3, &models.StudentOptionalFee{})
	require.Error(t, err)
	kind, _ := ledger.KindOf(err)
	assert.Equal(t, ledger.KindFeeInactive, kind)
}

func TestValidateAssignmentRejectsWrongGradeLevel(t *testing.T) {
	fee := idCardFee()
	fee.ApplicableGradeLevels = pq.Int64Array{4, 5, 6}

	err := validateAssignment(fee, 9, &models.StudentOptionalFee{})
	require.Error(t, err)
	kind, _ := ledger.KindOf(err)
	assert.Equal(t, ledger.KindFeeNotApplicable, kind)

	require.NoError(t, validateAssignment(fee, 5, &models.StudentOptionalFee{}))
}

func TestValidateAssignmentRequiresVariation(t *testing.T) {
	err := validateAssignment(uniformFee(), 7, &models.StudentOptionalFee{})
	require.Error(t, err)
	kind, _ := ledger.KindOf(err)
	assert.Equal(t, ledger.KindVariationRequired, kind)
}

func TestValidateAssignmentRejectsUnknownVariation(t *testing.T) {
	// A variation id from some other fee must not pass, even with an
	// explicit amount on the request.
	assignment := &models.StudentOptionalFee{
		VariationID: strPtr("var-other-fee"),
		Amount:      dec("500"),
	}

	err := validateAssignment(uniformFee(), 7, assignment)
	require.Error(t, err)
	kind, _ := ledger.KindOf(err)
	assert.Equal(t, ledger.KindUnknownVariation, kind)
}

func TestValidateAssignmentRejectsVariationOnFlatFee(t *testing.T) {
	assignment := &models.StudentOptionalFee{VariationID: strPtr("var-s")}

	err := validateAssignment(idCardFee(), 3, assignment)
	require.Error(t, err)
	kind, _ := ledger.KindOf(err)
	assert.Equal(t, ledger.KindUnknownVariation, kind)
}

func TestValidateAssignmentRejectsNonPositiveAmount(t *testing.T) {
	fee := idCardFee()
	fee.Amount = dec("0")

	err := validateAssignment(fee, 3, &models.StudentOptionalFee{})
	require.Error(t, err)
	kind, _ := ledger.KindOf(err)
	assert.Equal(t, ledger.KindNonPositiveAmount, kind)
}
