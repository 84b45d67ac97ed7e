package payments

import (
	"database/sql"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/Four-Shepherds-Divine-Academy/enrollment-system-sub000/app/config"
	"github.com/Four-Shepherds-Divine-Academy/enrollment-system-sub000/app/database"
	"github.com/Four-Shepherds-Divine-Academy/enrollment-system-sub000/app/ledger"
	"github.com/Four-Shepherds-Divine-Academy/enrollment-system-sub000/app/models"
)

// RecordPaymentAPI appends a payment to the student's financial event log.
// The write re-validates the balance ceiling inside its transaction, so a
// concurrent payment cannot slip past a stale balance.
func RecordPaymentAPI(c *fiber.Ctx, db *sql.DB) error {
	var payment models.Payment
	if err := c.BodyParser(&payment); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if payment.StudentID == "" || payment.AcademicYearID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Missing required fields")
	}
	if !payment.PaymentMethod.IsValid() {
		return fiber.NewError(fiber.StatusBadRequest, "Unknown payment method: "+string(payment.PaymentMethod))
	}

	if userID, ok := c.Locals("user_id").(string); ok && userID != "" {
		payment.RecordedBy = &userID
	}

	allowance := config.GetLedgerPolicy().OverpaymentAllowance
	if err := database.RecordPayment(db, allowance, &payment); err != nil {
		if _, ok := ledger.KindOf(err); ok {
			return respondLedgerError(c, err)
		}
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "Student not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to record payment")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    payment,
		"message": "Payment recorded successfully",
	})
}

// GetPaymentAPI returns one payment with its line items
func GetPaymentAPI(c *fiber.Ctx, db *sql.DB) error {
	payment, err := database.GetPaymentByID(db, c.Params("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "Payment not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch payment")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    payment,
	})
}

// EditPaymentRemarksAPI updates a payment's remarks, the only field that may
// change after creation
func EditPaymentRemarksAPI(c *fiber.Ctx, db *sql.DB) error {
	type RemarksRequest struct {
		Remarks string `json:"remarks"`
	}

	var req RemarksRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := database.EditPaymentRemarks(db, c.Params("id"), req.Remarks); err != nil {
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "Payment not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update remarks")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Remarks updated successfully",
	})
}

// CreateRefundAPI records a partial or full refund against one payment
func CreateRefundAPI(c *fiber.Ctx, db *sql.DB) error {
	type RefundRequest struct {
		Amount decimal.Decimal `json:"amount"`
		Reason string          `json:"reason"`
	}

	var req RefundRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if strings.TrimSpace(req.Reason) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "A refund reason is required")
	}

	refund, err := database.CreateRefund(db, c.Params("id"), req.Amount, req.Reason)
	if err != nil {
		if _, ok := ledger.KindOf(err); ok {
			return respondLedgerError(c, err)
		}
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "Payment not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create refund")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    refund,
		"message": "Refund recorded successfully",
	})
}
