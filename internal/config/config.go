package config

import (
	"os"
)

type Config struct {
	Port    string
	GinMode string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	OIDCIssuer   string
	OIDCAudience string

	MailgunDomain string
	MailgunKey    string
	MailSender    string
	AppBaseURL    string

	SupabaseURL    string
	SupabaseKey    string
	SupabaseBucket string

	CORSOrigins string
}

func Load() *Config {
	return &Config{
		Port:    getEnv("PORT", "8080"),
		GinMode: getEnv("GIN_MODE", "debug"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "cleaning"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		OIDCIssuer:   getEnv("OIDC_ISSUER", ""),
		OIDCAudience: getEnv("OIDC_AUDIENCE", ""),

		MailgunDomain: getEnv("MAILGUN_DOMAIN", ""),
		MailgunKey:    getEnv("MAILGUN_KEY", ""),
		MailSender:    getEnv("MAIL_SENDER", "Well-Broomed <broom@well-broomed.com>"),
		AppBaseURL:    getEnv("APP_BASE_URL", "http://localhost:3000"),

		SupabaseURL:    getEnv("SUPABASE_URL", ""),
		SupabaseKey:    getEnv("SUPABASE_KEY", ""),
		SupabaseBucket: getEnv("SUPABASE_BUCKET", "property-images"),

		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
