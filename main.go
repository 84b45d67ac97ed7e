package main

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"github.com/Four-Shepherds-Divine-Academy/enrollment-system-sub000/app/config"
	"github.com/Four-Shepherds-Divine-Academy/enrollment-system-sub000/app/database"
	"github.com/Four-Shepherds-Divine-Academy/enrollment-system-sub000/app/routes/academic"
	"github.com/Four-Shepherds-Divine-Academy/enrollment-system-sub000/app/routes/auth"
	"github.com/Four-Shepherds-Divine-Academy/enrollment-system-sub000/app/routes/fees"
	"github.com/Four-Shepherds-Divine-Academy/enrollment-system-sub000/app/routes/payments"
	"github.com/Four-Shepherds-Divine-Academy/enrollment-system-sub000/app/routes/students"
)

// customErrorHandler renders every error as the standard JSON envelope
func customErrorHandler(c *fiber.Ctx, err error) error {
	// Status code defaults to 500
	code := fiber.StatusInternalServerError

	// Retrieve the custom status code if it's a *fiber.Error
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
		"code":    code,
	})
}

func main() {
	// Initialize database
	config.InitDB()
	defer config.GetDB().Close()

	// Run database migrations
	if err := database.RunMigrations(config.GetDB()); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(logger.New())
	app.Use(cors.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"success": true,
			"status":  "ok",
		})
	})

	// Setup auth routes
	auth.SetupAuthRoutes(app)

	// Setup academic year routes
	academic.SetupAcademicRoutes(app)

	// Setup students routes
	students.SetupStudentsRoutes(app)

	// Setup fee structure routes
	fees.SetupFeesRoutes(app)

	// Setup payments and ledger routes
	payments.SetupPaymentsRoutes(app)

	// Catch-all route for 404 errors (must be last)
	app.Use("*", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Resource not found")
	})

	// Start server
	addr := fmt.Sprintf(":%d", config.Port())
	log.Println("Server starting on", addr)
	log.Fatal(app.Listen(addr))
}
