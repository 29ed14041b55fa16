package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config fields from environment variables. A .env file in
// the working directory is loaded first when present; real environment
// variables win over file values.
//
// Recognized variables:
//
//	ADDR  DATABASE_DSN  JWT_SECRET  ENCRYPTION_KEY
//	TOKEN_VALIDITY (Go duration, e.g. "168h")  BCRYPT_COST
//	SMTP_HOST  SMTP_PORT  SMTP_MAIL  SMTP_PASSWORD  SMTP_FROM
//	ADMIN_EMAIL  ADMIN_PASSWORD  FRONTEND_URL
func parseEnv(config *Config) {
	_ = godotenv.Load()

	setString(&config.EndpointAddr, "ADDR")
	setString(&config.DatabaseDSN, "DATABASE_DSN")
	setString(&config.SecretKey, "JWT_SECRET")
	setString(&config.EncryptionSecret, "ENCRYPTION_KEY")
	setString(&config.SMTPHost, "SMTP_HOST")
	setString(&config.SMTPUser, "SMTP_MAIL")
	setString(&config.SMTPPassword, "SMTP_PASSWORD")
	setString(&config.SMTPFrom, "SMTP_FROM")
	setString(&config.AdminEmail, "ADMIN_EMAIL")
	setString(&config.AdminPassword, "ADMIN_PASSWORD")
	setString(&config.FrontendURL, "FRONTEND_URL")

	if v, ok := os.LookupEnv("SMTP_PORT"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			config.SMTPPort = n
		}
	}
	if v, ok := os.LookupEnv("BCRYPT_COST"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			config.BcryptCost = n
		}
	}
	if v, ok := os.LookupEnv("TOKEN_VALIDITY"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			config.TokenValidityDuration = d
		}
	}

	if config.SMTPFrom == "" {
		config.SMTPFrom = config.SMTPUser
	}
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}
