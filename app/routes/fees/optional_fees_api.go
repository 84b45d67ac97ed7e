package fees

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"github.com/Four-Shepherds-Divine-Academy/enrollment-system-sub000/app/database"
	"github.com/Four-Shepherds-Divine-Academy/enrollment-system-sub000/app/ledger"
	"github.com/Four-Shepherds-Divine-Academy/enrollment-system-sub000/app/models"
)

// GetApplicableOptionalFeesAPI returns active optional fees available to a
// grade level in an academic year
func GetApplicableOptionalFeesAPI(c *fiber.Ctx, db *sql.DB) error {
	gradeLevel := c.QueryInt("grade_level", -1)
	academicYearID := c.Query("academic_year_id")
	if gradeLevel < 0 || academicYearID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "grade_level and academic_year_id are required")
	}

	fees, err := database.GetApplicableOptionalFees(db, gradeLevel, academicYearID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch optional fees")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    fees,
	})
}

// CreateOptionalFeeAPI creates an optional fee definition, with variations
// when the fee carries them
func CreateOptionalFeeAPI(c *fiber.Ctx, db *sql.DB) error {
	var fee models.OptionalFee
	if err := c.BodyParser(&fee); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if fee.Name == "" || fee.AcademicYearID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Missing required fields")
	}
	if !fee.Category.IsValid() {
		return fiber.NewError(fiber.StatusBadRequest, "Unknown fee category: "+string(fee.Category))
	}
	if fee.HasVariations && len(fee.Variations) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "A fee with variations needs at least one variation")
	}
	fee.IsActive = true

	if err := database.CreateOptionalFee(db, &fee); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create optional fee")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    fee,
		"message": "Optional fee created successfully",
	})
}

// AssignOptionalFeeAPI binds an optional fee to a student, locking in the
// amount at assignment time
func AssignOptionalFeeAPI(c *fiber.Ctx, db *sql.DB) error {
	var assignment models.StudentOptionalFee
	if err := c.BodyParser(&assignment); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if assignment.StudentID == "" || assignment.OptionalFeeID == "" || assignment.AcademicYearID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Missing required fields")
	}

	if err := database.AssignOptionalFee(db, &assignment); err != nil {
		if _, ok := ledger.KindOf(err); ok {
			return respondLedgerError(c, err)
		}
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "Student or optional fee not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to assign optional fee")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    assignment,
		"message": "Optional fee assigned successfully",
	})
}

// GetStudentAssignmentsAPI returns a student's optional fee assignments for a
// year
func GetStudentAssignmentsAPI(c *fiber.Ctx, db *sql.DB) error {
	studentID := c.Query("student_id")
	academicYearID := c.Query("academic_year_id")
	if studentID == "" || academicYearID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "student_id and academic_year_id are required")
	}

	assignments, err := database.GetStudentOptionalFees(db, studentID, academicYearID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch assignments")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    assignments,
	})
}

// RemoveAssignmentAPI soft-deletes an optional fee assignment
func RemoveAssignmentAPI(c *fiber.Ctx, db *sql.DB) error {
	if err := database.RemoveOptionalFeeAssignment(db, c.Params("id")); err != nil {
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "Assignment not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to remove assignment")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Assignment removed successfully",
	})
}
