package config

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type Config struct {
	DB     *sql.DB
	Ledger LedgerPolicy
}

// LedgerPolicy holds the configurable business knobs of the fee ledger.
type LedgerPolicy struct {
	// OverpaymentAllowance is how far a payment may drive the balance below
	// zero. Zero (the default) rejects any payment beyond the amount due; a
	// school that accepts deliberate overpayment raises it.
	OverpaymentAllowance decimal.Decimal
}

var AppConfig *Config

// InitDB loads the environment, opens the database pool and builds the
// application config. It exits the process on a connection failure.
func InitDB() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	psqlInfo := os.Getenv("DATABASE_URL")
	if psqlInfo == "" {
		host := envOr("DB_HOST", "localhost")
		port := envOr("DB_PORT", "5432")
		user := envOr("DB_USER", "postgres")
		password := os.Getenv("DB_PASSWORD")
		dbname := envOr("DB_NAME", "enrollment")

		psqlInfo = fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=disable", host, port, user, dbname)
		if password != "" {
			psqlInfo += " password=" + password
		}
	}

	db, err := sql.Open("postgres", psqlInfo)
	if err != nil {
		log.Fatal("Failed to open database connection:", err)
	}

	// Connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	log.Println("Testing database connection...")
	if err = db.Ping(); err != nil {
		log.Fatal("Cannot establish database connection: ", err)
	}

	AppConfig = &Config{
		DB:     db,
		Ledger: loadLedgerPolicy(),
	}
	log.Println("Database connected successfully")
}

func loadLedgerPolicy() LedgerPolicy {
	policy := LedgerPolicy{OverpaymentAllowance: decimal.Zero}

	if raw := os.Getenv("OVERPAYMENT_ALLOWANCE"); raw != "" {
		allowance, err := decimal.NewFromString(raw)
		if err != nil || allowance.IsNegative() {
			log.Printf("Ignoring invalid OVERPAYMENT_ALLOWANCE %q", raw)
		} else {
			policy.OverpaymentAllowance = allowance
		}
	}

	return policy
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func GetDB() *sql.DB {
	return AppConfig.DB
}

func GetLedgerPolicy() LedgerPolicy {
	return AppConfig.Ledger
}

// Port returns the HTTP listen port.
func Port() int {
	if raw := os.Getenv("PORT"); raw != "" {
		if p, err := strconv.Atoi(raw); err == nil {
			return p
		}
	}
	return 3000
}
