package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Payment  PaymentConfig
	Teams    TeamsConfig
	Billing  BillingConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	MailLogFilePath    string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	Timezone           string
	JwtSecret          string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type PaymentConfig struct {
	MidtransServerKey string
	MidtransClientKey string
	// Production toggles the midtrans environment.
	Production bool
}

type TeamsConfig struct {
	TenantId     string
	ClientId     string
	ClientSecret string
	OrganizerId  string
	Enabled      bool
}

type BillingConfig struct {
	// Hour of day (local time) the daily billing and downgrade sweeps run.
	SweepCron    string
	ReminderCron string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			MailLogFilePath:    getEnv("MAIL_LOG_FILE_PATH", "mail.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			Timezone:           getEnv("APP_TIMEZONE", "Europe/Amsterdam"),
			JwtSecret:          getEnv("JWT_SECRET", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "NutriCoach"),
		},
		Payment: PaymentConfig{
			MidtransServerKey: getEnv("MIDTRANS_SERVER_KEY", ""),
			MidtransClientKey: getEnv("MIDTRANS_CLIENT_KEY", ""),
			Production:        getEnvAsBool("MIDTRANS_PRODUCTION", false),
		},
		Teams: TeamsConfig{
			TenantId:     getEnv("TEAMS_TENANT_ID", ""),
			ClientId:     getEnv("TEAMS_CLIENT_ID", ""),
			ClientSecret: getEnv("TEAMS_CLIENT_SECRET", ""),
			OrganizerId:  getEnv("TEAMS_ORGANIZER_ID", ""),
			Enabled:      getEnvAsBool("TEAMS_ENABLED", false),
		},
		Billing: BillingConfig{
			SweepCron:    getEnv("BILLING_SWEEP_CRON", "0 6 * * *"),
			ReminderCron: getEnv("INVOICE_REMINDER_CRON", "0 9 * * *"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
