package database

import (
	"database/sql"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/Four-Shepherds-Divine-Academy/enrollment-system-sub000/app/models"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx so read helpers can run
// inside or outside a transaction.
type dbtx interface {
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// checkRowUpdated maps a zero-row update onto sql.ErrNoRows so handlers can
// answer 404, while genuine driver errors propagate unchanged.
func checkRowUpdated(result sql.Result, err error) error {
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// hashPassword hashes a password using bcrypt
func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(bytes), err
}

func GetUserByEmail(db *sql.DB, email string) (*models.User, error) {
	user := &models.User{}
	query := `SELECT id, email, password, first_name, last_name, is_active, created_at, updated_at
			  FROM users WHERE email = $1 AND is_active = true`

	err := db.QueryRow(query, email).Scan(
		&user.ID, &user.Email, &user.Password, &user.FirstName,
		&user.LastName, &user.IsActive, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func GetUserByID(db *sql.DB, userID string) (*models.User, error) {
	user := &models.User{}
	query := `SELECT id, email, password, first_name, last_name, is_active, created_at, updated_at
			  FROM users WHERE id = $1 AND is_active = true`

	err := db.QueryRow(query, userID).Scan(
		&user.ID, &user.Email, &user.Password, &user.FirstName,
		&user.LastName, &user.IsActive, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// CreateUser inserts a new user with a hashed password.
func CreateUser(db *sql.DB, user *models.User) error {
	hashed, err := hashPassword(user.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %v", err)
	}

	query := `INSERT INTO users (email, password, first_name, last_name)
			  VALUES ($1, $2, $3, $4) RETURNING id, created_at, updated_at`
	return db.QueryRow(query, user.Email, hashed, user.FirstName, user.LastName).Scan(
		&user.ID, &user.CreatedAt, &user.UpdatedAt,
	)
}

func UpdateUserPassword(db *sql.DB, userID, hashedPassword string) error {
	query := `UPDATE users SET password = $1, updated_at = NOW() WHERE id = $2`
	result, err := db.Exec(query, hashedPassword, userID)
	return checkRowUpdated(result, err)
}

func GetStudentByID(db dbtx, studentID string) (*models.Student, error) {
	student := &models.Student{}
	query := `SELECT id, student_no, first_name, last_name, grade_level, is_active, created_at, updated_at
			  FROM students WHERE id = $1 AND deleted_at IS NULL`

	err := db.QueryRow(query, studentID).Scan(
		&student.ID, &student.StudentNo, &student.FirstName, &student.LastName,
		&student.GradeLevel, &student.IsActive, &student.CreatedAt, &student.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return student, nil
}

// ListStudents returns active students, optionally filtered by a name or
// student number search.
func ListStudents(db *sql.DB, search string, limit, offset int) ([]*models.Student, error) {
	query := `SELECT id, student_no, first_name, last_name, grade_level, is_active, created_at, updated_at
			  FROM students WHERE is_active = true AND deleted_at IS NULL`
	var args []interface{}

	if search != "" {
		query += ` AND (LOWER(student_no) LIKE $1
				   OR LOWER(first_name) LIKE $1
				   OR LOWER(last_name) LIKE $1
				   OR LOWER(first_name || ' ' || last_name) LIKE $1)`
		args = append(args, "%"+search+"%")
	}

	query += fmt.Sprintf(" ORDER BY last_name, first_name LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		s := &models.Student{}
		err := rows.Scan(
			&s.ID, &s.StudentNo, &s.FirstName, &s.LastName,
			&s.GradeLevel, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
		)
		if err != nil {
			continue
		}
		students = append(students, s)
	}

	return students, rows.Err()
}

func CreateStudent(db *sql.DB, student *models.Student) error {
	query := `INSERT INTO students (student_no, first_name, last_name, grade_level)
			  VALUES ($1, $2, $3, $4) RETURNING id, created_at, updated_at`
	return db.QueryRow(query, student.StudentNo, student.FirstName, student.LastName, student.GradeLevel).Scan(
		&student.ID, &student.CreatedAt, &student.UpdatedAt,
	)
}

func GetAcademicYearByID(db *sql.DB, yearID string) (*models.AcademicYear, error) {
	year := &models.AcademicYear{}
	query := `SELECT id, name, start_date, end_date, is_current, is_active, created_at, updated_at
			  FROM academic_years WHERE id = $1 AND deleted_at IS NULL`

	err := db.QueryRow(query, yearID).Scan(
		&year.ID, &year.Name, &year.StartDate, &year.EndDate,
		&year.IsCurrent, &year.IsActive, &year.CreatedAt, &year.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return year, nil
}

// GetCurrentAcademicYear returns the year flagged current. Callers look this
// up once and pass the id into every ledger operation; nothing downstream
// reads a global active year.
func GetCurrentAcademicYear(db *sql.DB) (*models.AcademicYear, error) {
	year := &models.AcademicYear{}
	query := `SELECT id, name, start_date, end_date, is_current, is_active, created_at, updated_at
			  FROM academic_years WHERE is_current = true AND deleted_at IS NULL
			  ORDER BY start_date DESC LIMIT 1`

	err := db.QueryRow(query).Scan(
		&year.ID, &year.Name, &year.StartDate, &year.EndDate,
		&year.IsCurrent, &year.IsActive, &year.CreatedAt, &year.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return year, nil
}

func ListAcademicYears(db *sql.DB) ([]*models.AcademicYear, error) {
	query := `SELECT id, name, start_date, end_date, is_current, is_active, created_at, updated_at
			  FROM academic_years WHERE deleted_at IS NULL ORDER BY start_date DESC`

	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var years []*models.AcademicYear
	for rows.Next() {
		y := &models.AcademicYear{}
		err := rows.Scan(
			&y.ID, &y.Name, &y.StartDate, &y.EndDate,
			&y.IsCurrent, &y.IsActive, &y.CreatedAt, &y.UpdatedAt,
		)
		if err != nil {
			continue
		}
		years = append(years, y)
	}

	return years, rows.Err()
}
