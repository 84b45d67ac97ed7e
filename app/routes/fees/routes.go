package fees

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Four-Shepherds-Divine-Academy/enrollment-system-sub000/app/config"
	"github.com/Four-Shepherds-Divine-Academy/enrollment-system-sub000/app/routes/auth"
)

// SetupFeesRoutes sets up the fee structure routes
func SetupFeesRoutes(app *fiber.App) {
	templatesAPI := app.Group("/api/fee-templates")
	templatesAPI.Use(auth.AuthMiddleware)

	templatesAPI.Get("/", func(c *fiber.Ctx) error {
		return GetFeeTemplateAPI(c, config.GetDB())
	})

	templatesAPI.Post("/", func(c *fiber.Ctx) error {
		return CreateFeeTemplateAPI(c, config.GetDB())
	})

	templatesAPI.Get("/:id", func(c *fiber.Ctx) error {
		return GetFeeTemplateByIDAPI(c, config.GetDB())
	})

	templatesAPI.Put("/:id/breakdowns", func(c *fiber.Ctx) error {
		return ReplaceBreakdownsAPI(c, config.GetDB())
	})

	optionalAPI := app.Group("/api/optional-fees")
	optionalAPI.Use(auth.AuthMiddleware)

	optionalAPI.Get("/", func(c *fiber.Ctx) error {
		return GetApplicableOptionalFeesAPI(c, config.GetDB())
	})

	optionalAPI.Post("/", func(c *fiber.Ctx) error {
		return CreateOptionalFeeAPI(c, config.GetDB())
	})

	optionalAPI.Post("/assignments", func(c *fiber.Ctx) error {
		return AssignOptionalFeeAPI(c, config.GetDB())
	})

	optionalAPI.Get("/assignments", func(c *fiber.Ctx) error {
		return GetStudentAssignmentsAPI(c, config.GetDB())
	})

	optionalAPI.Delete("/assignments/:id", func(c *fiber.Ctx) error {
		return RemoveAssignmentAPI(c, config.GetDB())
	})
}
