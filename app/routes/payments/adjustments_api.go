package payments

import (
	"database/sql"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Four-Shepherds-Divine-Academy/enrollment-system-sub000/app/database"
	"github.com/Four-Shepherds-Divine-Academy/enrollment-system-sub000/app/ledger"
	"github.com/Four-Shepherds-Divine-Academy/enrollment-system-sub000/app/models"
)

// CreateAdjustmentAPI records a manual discount or surcharge on a student's
// account. Adjustments are immutable; a wrong one is reversed by a new
// adjustment of the opposite type.
func CreateAdjustmentAPI(c *fiber.Ctx, db *sql.DB) error {
	var adj models.Adjustment
	if err := c.BodyParser(&adj); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if adj.StudentID == "" || adj.AcademicYearID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Missing required fields")
	}
	if !adj.Type.IsValid() {
		return fiber.NewError(fiber.StatusBadRequest, "Unknown adjustment type: "+string(adj.Type))
	}
	if strings.TrimSpace(adj.Reason) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "An adjustment reason is required")
	}

	if userID, ok := c.Locals("user_id").(string); ok && userID != "" {
		adj.CreatedBy = &userID
	}

	if err := database.CreateAdjustment(db, &adj); err != nil {
		if _, ok := ledger.KindOf(err); ok {
			return respondLedgerError(c, err)
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create adjustment")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    adj,
		"message": "Adjustment recorded successfully",
	})
}
