package academic

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"github.com/Four-Shepherds-Divine-Academy/enrollment-system-sub000/app/database"
)

// ListAcademicYearsAPI returns all academic years, newest first
func ListAcademicYearsAPI(c *fiber.Ctx, db *sql.DB) error {
	years, err := database.ListAcademicYears(db)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch academic years")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    years,
	})
}

// GetCurrentAcademicYearAPI returns the year flagged current. Ledger
// operations never assume a current year; callers that want one ask here and
// pass the id explicitly.
func GetCurrentAcademicYearAPI(c *fiber.Ctx, db *sql.DB) error {
	year, err := database.GetCurrentAcademicYear(db)
	if err != nil {
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "No academic year covers today's date")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch academic year")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    year,
	})
}

// GetAcademicYearAPI returns one academic year by id
func GetAcademicYearAPI(c *fiber.Ctx, db *sql.DB) error {
	year, err := database.GetAcademicYearByID(db, c.Params("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "Academic year not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch academic year")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    year,
	})
}
