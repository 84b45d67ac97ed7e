package payments

import (
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Four-Shepherds-Divine-Academy/enrollment-system-sub000/app/database"
	"github.com/Four-Shepherds-Divine-Academy/enrollment-system-sub000/app/ledger"
	"github.com/Four-Shepherds-Divine-Academy/enrollment-system-sub000/app/models"
)

// LedgerResponse carries the computed snapshot together with the raw event
// lists in creation order, so downstream formatting (statements, exports) can
// reconstruct a chronological account history.
type LedgerResponse struct {
	Snapshot     models.LedgerSnapshot        `json:"snapshot"`
	HasTemplate  bool                         `json:"has_template"`
	Template     *models.FeeTemplate          `json:"template,omitempty"`
	OptionalFees []*models.StudentOptionalFee `json:"optional_fees"`
	Payments     []*models.Payment            `json:"payments"`
	Refunds      []*models.Refund             `json:"refunds"`
	Adjustments  []*models.Adjustment         `json:"adjustments"`
}

// GetLedgerSnapshotAPI computes the student's account state for one academic
// year. The snapshot is derived on every read and never stored.
func GetLedgerSnapshotAPI(c *fiber.Ctx, db *sql.DB) error {
	academicYearID := c.Query("academic_year_id")
	if academicYearID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "academic_year_id is required")
	}

	student, err := database.GetStudentByID(db, c.Params("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "Student not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch student")
	}

	in, err := database.LoadLedgerInput(db, student.ID, student.GradeLevel, academicYearID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load ledger")
	}

	resp := LedgerResponse{
		Snapshot:     ledger.Compute(in),
		HasTemplate:  in.Template != nil,
		Template:     in.Template,
		OptionalFees: in.OptionalFees,
		Payments:     in.Payments,
		Refunds:      in.Refunds,
		Adjustments:  in.Adjustments,
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    resp,
	})
}

// SetLateStatusAPI toggles the manually maintained late-payment flag. The
// flag is stored, never derived; flagging without a timestamp defaults
// late_since to now.
func SetLateStatusAPI(c *fiber.Ctx, db *sql.DB) error {
	type LateStatusRequest struct {
		AcademicYearID string     `json:"academic_year_id"`
		IsLate         bool       `json:"is_late"`
		LateSince      *time.Time `json:"late_since,omitempty"`
	}

	var req LateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if req.AcademicYearID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "academic_year_id is required")
	}

	student, err := database.GetStudentByID(db, c.Params("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "Student not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch student")
	}

	flag, err := database.SetLateStatus(db, student.ID, req.AcademicYearID, req.IsLate, req.LateSince)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update late status")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    flag,
		"message": "Late status updated successfully",
	})
}
