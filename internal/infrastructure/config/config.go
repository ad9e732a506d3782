package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"barberbook-service/internal/domain/entity"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion string

	// Server
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	WebhookToken string

	// PostgreSQL (appointments + scheduled actions)
	PostgresURI string

	// MongoDB (message traffic log)
	MongoURI string
	MongoDB  string

	// Google Calendar
	GoogleCredentialsFile string

	// WhatsApp gateway
	WhatsAppEndpoint  string
	WhatsAppToken     string
	WhatsAppCompanyID string
	WhatsAppAgentID   string
	SendDelay         time.Duration

	// Scheduler
	SchedulerInterval time.Duration

	// Catalog
	Timezone      string
	BarbersJSON   string
	MasterAdmins  []string
	TimeSlots     []string
	ClosedWeekday time.Weekday
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		AppVersion:   getEnv("APP_VERSION", "1.0.0"),
		Port:         getEnv("PORT", "8080"),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 30)) * time.Second,
		WebhookToken: getEnv("WEBHOOK_TOKEN", ""),

		PostgresURI: getEnv("POSTGRES_DSN", "postgres://localhost:5432/barberbook"),

		MongoURI: getEnv("MONGODB_DSN", "mongodb://localhost:27017"),
		MongoDB:  getEnv("MONGO_DB", "barberbook"),

		GoogleCredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", ""),

		WhatsAppEndpoint:  getEnv("WHATSAPP_ENDPOINT", ""),
		WhatsAppToken:     getEnv("WHATSAPP_TOKEN", ""),
		WhatsAppCompanyID: getEnv("COMPANY_ID", ""),
		WhatsAppAgentID:   getEnv("AGENT_ID", ""),
		SendDelay:         time.Duration(getEnvAsInt("SEND_DELAY_MS", 500)) * time.Millisecond,

		SchedulerInterval: time.Duration(getEnvAsInt("SCHEDULER_INTERVAL", 60)) * time.Second,

		Timezone:      getEnv("TIMEZONE", "America/Fortaleza"),
		BarbersJSON:   getEnv("BARBERS", ""),
		MasterAdmins:  getEnvAsList("MASTER_ADMIN_IDS"),
		TimeSlots:     getEnvAsList("TIME_SLOTS"),
		ClosedWeekday: time.Weekday(getEnvAsInt("CLOSED_WEEKDAY", int(time.Sunday))),
	}

	return config, nil
}

// Catalog builds the static catalog from the loaded configuration
func (c *Config) Catalog() (*entity.Catalog, error) {
	var barbers []entity.Barber
	if c.BarbersJSON != "" {
		if err := json.Unmarshal([]byte(c.BarbersJSON), &barbers); err != nil {
			return nil, fmt.Errorf("invalid BARBERS json: %w", err)
		}
	}
	if len(barbers) == 0 {
		return nil, fmt.Errorf("no barbers configured, set BARBERS")
	}

	slots := c.TimeSlots
	if len(slots) == 0 {
		slots = entity.DefaultSlots()
	}

	return &entity.Catalog{
		Barbers:       barbers,
		Services:      entity.DefaultServices(),
		Slots:         slots,
		TimezoneName:  c.Timezone,
		ClosedWeekday: c.ClosedWeekday,
		MasterAdmins:  c.MasterAdmins,
	}, nil
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
