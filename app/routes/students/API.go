package students

import (
	"database/sql"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Four-Shepherds-Divine-Academy/enrollment-system-sub000/app/database"
	"github.com/Four-Shepherds-Divine-Academy/enrollment-system-sub000/app/models"
)

// ListStudentsAPI returns active students with optional search and pagination
func ListStudentsAPI(c *fiber.Ctx, db *sql.DB) error {
	search := strings.ToLower(c.Query("search"))
	limit := c.QueryInt("limit", 25)
	offset := c.QueryInt("offset", 0)

	students, err := database.ListStudents(db, search, limit, offset)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch students")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    students,
	})
}

// GetStudentAPI returns a specific student by ID
func GetStudentAPI(c *fiber.Ctx, db *sql.DB) error {
	student, err := database.GetStudentByID(db, c.Params("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "Student not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch student")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    student,
	})
}

// CreateStudentAPI registers a new student record
func CreateStudentAPI(c *fiber.Ctx, db *sql.DB) error {
	var student models.Student
	if err := c.BodyParser(&student); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if student.StudentNo == "" || student.FirstName == "" || student.LastName == "" || student.GradeLevel < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Missing required fields")
	}

	if err := database.CreateStudent(db, &student); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create student")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    student,
		"message": "Student created successfully",
	})
}
