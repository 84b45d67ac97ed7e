package students

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Four-Shepherds-Divine-Academy/enrollment-system-sub000/app/config"
	"github.com/Four-Shepherds-Divine-Academy/enrollment-system-sub000/app/routes/auth"
)

// SetupStudentsRoutes sets up the student records routes
func SetupStudentsRoutes(app *fiber.App) {
	studentsAPI := app.Group("/api/students")
	studentsAPI.Use(auth.AuthMiddleware)

	studentsAPI.Get("/", func(c *fiber.Ctx) error {
		return ListStudentsAPI(c, config.GetDB())
	})

	studentsAPI.Post("/", func(c *fiber.Ctx) error {
		return CreateStudentAPI(c, config.GetDB())
	})

	studentsAPI.Get("/:id", func(c *fiber.Ctx) error {
		return GetStudentAPI(c, config.GetDB())
	})
}
