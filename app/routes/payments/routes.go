package payments

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Four-Shepherds-Divine-Academy/enrollment-system-sub000/app/config"
	"github.com/Four-Shepherds-Divine-Academy/enrollment-system-sub000/app/routes/auth"
)

// SetupPaymentsRoutes sets up the financial event log and ledger routes
func SetupPaymentsRoutes(app *fiber.App) {
	paymentsAPI := app.Group("/api/payments")
	paymentsAPI.Use(auth.AuthMiddleware)

	paymentsAPI.Post("/", func(c *fiber.Ctx) error {
		return RecordPaymentAPI(c, config.GetDB())
	})

	paymentsAPI.Get("/:id", func(c *fiber.Ctx) error {
		return GetPaymentAPI(c, config.GetDB())
	})

	paymentsAPI.Patch("/:id/remarks", func(c *fiber.Ctx) error {
		return EditPaymentRemarksAPI(c, config.GetDB())
	})

	paymentsAPI.Post("/:id/refunds", func(c *fiber.Ctx) error {
		return CreateRefundAPI(c, config.GetDB())
	})

	adjustmentsAPI := app.Group("/api/adjustments")
	adjustmentsAPI.Use(auth.AuthMiddleware)

	adjustmentsAPI.Post("/", func(c *fiber.Ctx) error {
		return CreateAdjustmentAPI(c, config.GetDB())
	})

	ledgerAPI := app.Group("/api/students/:id")
	ledgerAPI.Use(auth.AuthMiddleware)

	ledgerAPI.Get("/ledger", func(c *fiber.Ctx) error {
		return GetLedgerSnapshotAPI(c, config.GetDB())
	})

	ledgerAPI.Put("/late-status", func(c *fiber.Ctx) error {
		return SetLateStatusAPI(c, config.GetDB())
	})
}
