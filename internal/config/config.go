package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	Port        string
	DatabaseURL string
	JWTSecret   string

	// Browser origin allowed to call the API with credentials.
	AllowedOrigin string

	// Outbound mail settings.
	SenderEmail  string
	SenderName   string
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPDisable  bool

	CookieSecure bool
}

func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found")
	}

	cfg := &Config{
		Environment:   getEnv("ENVIRONMENT", "development"),
		Port:          getEnv("PORT", "5001"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "http://localhost:5173"),

		SenderEmail:  getEnv("SENDER_EMAIL", ""),
		SenderName:   getEnv("SENDER_NAME", "CV Builder"),
		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvAsInt("SMTP_PORT", 587),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPDisable:  getEnvAsBool("SMTP_DISABLE", false),

		CookieSecure: getEnvAsBool("COOKIE_SECURE", false),
	}

	if cfg.IsProduction() {
		cfg.CookieSecure = true
		if cfg.JWTSecret == "" {
			log.Fatal("JWT_SECRET is required in production")
		}
	}

	return cfg
}

// IsProduction reports whether the process runs with production settings;
// cookie policy and gin mode key off this.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
