package config

import (
	"fmt"
	"os"
)

func GetDSN() string {
	DATABASE_HOST := os.Getenv("DATABASE_HOST")
	DATABASE_PORT := os.Getenv("DATABASE_PORT")
	DATABASE_SSLMODE := os.Getenv("DATABASE_SSLMODE")
	DATABASE_TIMEZONE := os.Getenv("DATABASE_TIMEZONE")
	DATABASE_USER := os.Getenv("DATABASE_USER")
	DATABASE_PASSWORD := os.Getenv("DATABASE_PASSWORD")
	DATABASE_NAME := os.Getenv("DATABASE_NAME")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s", DATABASE_HOST, DATABASE_USER, DATABASE_PASSWORD, DATABASE_NAME, DATABASE_PORT, DATABASE_SSLMODE, DATABASE_TIMEZONE)
	return dsn
}

// OfficeEmail is where internal alerts (new bookings, cancellation requests,
// contact messages) are delivered.
func OfficeEmail() string {
	if v := os.Getenv("OFFICE_EMAIL"); v != "" {
		return v
	}
	return "office@pestaway.example"
}

func MailFrom() (addr, name string) {
	addr = os.Getenv("MAIL_FROM")
	if addr == "" {
		addr = "no-reply@pestaway.example"
	}
	name = os.Getenv("MAIL_FROM_NAME")
	if name == "" {
		name = "PestAway Services"
	}
	return addr, name
}

const TIME_PARSE_FORMAT = "2006-01-02 15:04:05 -07:00"
