package academic

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Four-Shepherds-Divine-Academy/enrollment-system-sub000/app/config"
	"github.com/Four-Shepherds-Divine-Academy/enrollment-system-sub000/app/routes/auth"
)

// SetupAcademicRoutes sets up the academic year routes
func SetupAcademicRoutes(app *fiber.App) {
	yearsAPI := app.Group("/api/academic-years")
	yearsAPI.Use(auth.AuthMiddleware)

	yearsAPI.Get("/", func(c *fiber.Ctx) error {
		return ListAcademicYearsAPI(c, config.GetDB())
	})

	yearsAPI.Get("/current", func(c *fiber.Ctx) error {
		return GetCurrentAcademicYearAPI(c, config.GetDB())
	})

	yearsAPI.Get("/:id", func(c *fiber.Ctx) error {
		return GetAcademicYearAPI(c, config.GetDB())
	})
}
