package main

import (
	"fmt"
	"os"

	"github.com/Four-Shepherds-Divine-Academy/enrollment-system-sub000/app/config"
	"github.com/Four-Shepherds-Divine-Academy/enrollment-system-sub000/app/database"
	"github.com/Four-Shepherds-Divine-Academy/enrollment-system-sub000/app/models"
)

func main() {
	firstName := os.Getenv("ADMIN_FIRST_NAME")
	lastName := os.Getenv("ADMIN_LAST_NAME")
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")

	if email == "" || password == "" {
		fmt.Println("ADMIN_EMAIL and ADMIN_PASSWORD are required")
		os.Exit(1)
	}

	// Initialize database connection
	config.InitDB()
	db := config.GetDB()
	if db == nil {
		fmt.Println("Failed to connect to database")
		os.Exit(1)
	}
	defer db.Close()

	user := &models.User{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Password:  password,
	}

	if err := database.CreateUser(db, user); err != nil {
		fmt.Printf("Error creating user: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("User created successfully: %s %s (%s)\n", user.FirstName, user.LastName, user.Email)
}
