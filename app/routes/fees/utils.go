package fees

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Four-Shepherds-Divine-Academy/enrollment-system-sub000/app/ledger"
)

// respondLedgerError maps a typed ledger error onto the HTTP status its kind
// calls for: validation 400, invariant violation 422, stale-state 409.
func respondLedgerError(c *fiber.Ctx, err error) error {
	kind, _ := ledger.KindOf(err)

	status := fiber.StatusUnprocessableEntity
	if kind.IsValidation() {
		status = fiber.StatusBadRequest
	} else if kind.IsRetryable() {
		status = fiber.StatusConflict
	}

	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
		"kind":    kind,
	})
}
