package fees

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"github.com/Four-Shepherds-Divine-Academy/enrollment-system-sub000/app/database"
	"github.com/Four-Shepherds-Divine-Academy/enrollment-system-sub000/app/ledger"
	"github.com/Four-Shepherds-Divine-Academy/enrollment-system-sub000/app/models"
)

// GetFeeTemplateAPI returns the fee template for a grade level and academic
// year. A missing template is not an error: payment entry is blocked by the
// caller, but the account is a valid zero-base state.
func GetFeeTemplateAPI(c *fiber.Ctx, db *sql.DB) error {
	gradeLevel := c.QueryInt("grade_level", -1)
	academicYearID := c.Query("academic_year_id")
	if gradeLevel < 0 || academicYearID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "grade_level and academic_year_id are required")
	}

	template, err := database.GetFeeTemplate(db, gradeLevel, academicYearID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch fee template")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    template,
	})
}

// GetFeeTemplateByIDAPI returns a specific fee template with its breakdowns
func GetFeeTemplateByIDAPI(c *fiber.Ctx, db *sql.DB) error {
	template, err := database.GetFeeTemplateByID(db, c.Params("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "Fee template not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch fee template")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    template,
	})
}

// CreateFeeTemplateAPI creates a fee template, optionally with its initial
// breakdown items
func CreateFeeTemplateAPI(c *fiber.Ctx, db *sql.DB) error {
	var template models.FeeTemplate
	if err := c.BodyParser(&template); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if template.Name == "" || template.AcademicYearID == "" || template.GradeLevel < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Missing required fields")
	}
	for _, b := range template.Breakdowns {
		if !b.Category.IsValid() {
			return fiber.NewError(fiber.StatusBadRequest, "Unknown breakdown category: "+string(b.Category))
		}
	}
	template.IsActive = true

	if err := database.CreateFeeTemplate(db, &template); err != nil {
		if _, ok := ledger.KindOf(err); ok {
			return respondLedgerError(c, err)
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create fee template")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    template,
		"message": "Fee template created successfully",
	})
}

// ReplaceBreakdownsAPI swaps a template's breakdown set and recomputes its
// total amount
func ReplaceBreakdownsAPI(c *fiber.Ctx, db *sql.DB) error {
	type ReplaceRequest struct {
		Items []*models.Breakdown `json:"items"`
	}

	var req ReplaceRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	for _, b := range req.Items {
		if !b.Category.IsValid() {
			return fiber.NewError(fiber.StatusBadRequest, "Unknown breakdown category: "+string(b.Category))
		}
	}

	template, err := database.ReplaceBreakdowns(db, c.Params("id"), req.Items)
	if err != nil {
		if _, ok := ledger.KindOf(err); ok {
			return respondLedgerError(c, err)
		}
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "Fee template not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to replace breakdowns")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    template,
		"message": "Breakdowns updated successfully",
	})
}
