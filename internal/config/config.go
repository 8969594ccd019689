package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Create a new instance of the logger
// Configure it to log at the desired level
// and format it as JSON for structured logging
var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	environment := GetEnvWithDefault("APP_ENV", "development")
	switch environment {
	case "development":
		log.SetLevel(logrus.DebugLevel)
	case "production":
		log.SetLevel(logrus.ErrorLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}
}

// Config is the single process-wide configuration object. It is loaded
// once at startup and injected into every component that needs a secret,
// so no package carries its own fallback values.
type Config struct {
	// Server configuration
	Port int    `json:"port"`
	Host string `json:"host"`

	// Database configuration
	DBDriver   string `json:"db_driver"`
	DBHost     string `json:"db_host"`
	DBPort     string `json:"db_port"`
	DBUser     string `json:"db_user"`
	DBPassword string `json:"db_password"`
	DBName     string `json:"db_name"`
	DBSSLMode  string `json:"db_ssl_mode"`
	DBPath     string `json:"db_path"`

	// CORS
	AllowedOrigins []string `json:"allowed_origins"`

	// Security configuration
	JWTSecret      string `json:"jwt_secret"`
	AdminCode      string `json:"admin_code"`
	GoogleClientID string `json:"google_client_id"`

	// Twilio Verify
	TwilioAccountSID string `json:"twilio_account_sid"`
	TwilioAuthToken  string `json:"twilio_auth_token"`
	TwilioVerifySID  string `json:"twilio_verify_sid"`

	// External CRM webhook (optional, best effort)
	CRMWebhookURL string `json:"crm_webhook_url"`

	// Logging configuration
	LogLevel string `json:"log_level"`
}

// String returns a string representation of Config with sensitive data masked
func (c *Config) String() string {
	return fmt.Sprintf("Config{Port: %d, Host: %s, DBDriver: %s, DBHost: %s, DBName: %s, DBUser: %s, DBPassword: [REDACTED], AllowedOrigins: %v, JWTSecret: [REDACTED], AdminCode: [REDACTED], GoogleClientID: %s, TwilioAccountSID: %s, TwilioAuthToken: [REDACTED], TwilioVerifySID: %s, CRMWebhookURL: %s, LogLevel: %s}",
		c.Port, c.Host, c.DBDriver, c.DBHost, c.DBName, c.DBUser, c.AllowedOrigins,
		c.GoogleClientID, c.TwilioAccountSID, c.TwilioVerifySID, c.CRMWebhookURL, c.LogLevel)
}

// LoadConfig reads the configuration from environment variables.
// Returns an error if a required variable is missing.
func LoadConfig() (*Config, error) {
	log.Info("Loading configuration from environment variables")
	port, err := strconv.Atoi(GetEnvWithDefault("APP_PORT", "5000"))
	if err != nil {
		return nil, err
	}

	jwtSecret := GetEnvWithDefault("JWT_SECRET", "")
	if jwtSecret == "" {
		return nil, errors.New("JWT_SECRET environment variable is required")
	}

	config := &Config{
		Port:             port,
		Host:             GetEnvWithDefault("APP_HOST", "0.0.0.0"),
		DBDriver:         GetEnvWithDefault("DB_DRIVER", "sqlite"),
		DBHost:           GetEnvWithDefault("DB_HOST", "localhost"),
		DBPort:           GetEnvWithDefault("DB_PORT", "5432"),
		DBUser:           GetEnvWithDefault("DB_USER", "zipacres"),
		DBPassword:       GetEnvWithDefault("DB_PASSWORD", ""),
		DBName:           GetEnvWithDefault("DB_NAME", "zipacres"),
		DBSSLMode:        GetEnvWithDefault("DB_SSL_MODE", "disable"),
		DBPath:           GetEnvWithDefault("DB_PATH", "zipacres.sqlite"),
		AllowedOrigins:   splitOrigins(GetEnvWithDefault("ALLOWED_ORIGINS", "http://localhost:5173")),
		JWTSecret:        jwtSecret,
		AdminCode:        GetEnvWithDefault("ADMIN_CODE", ""),
		GoogleClientID:   GetEnvWithDefault("GOOGLE_CLIENT_ID", ""),
		TwilioAccountSID: GetEnvWithDefault("TWILIO_SID", ""),
		TwilioAuthToken:  GetEnvWithDefault("TWILIO_AUTH_TOKEN", ""),
		TwilioVerifySID:  GetEnvWithDefault("TWILIO_VERIFY_SID", ""),
		CRMWebhookURL:    GetEnvWithDefault("CRM_WEBHOOK_URL", ""),
		LogLevel:         GetEnvWithDefault("LOG_LEVEL", "info"),
	}
	log.Infof("Configuration loaded: %s", config.String())
	return config, nil
}

// splitOrigins parses a comma-separated origin list, dropping empties.
func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// Helper to get environment with default values
func GetEnvWithDefault(key, defaultValue string) string {
	log.Tracef("Getting environment variable: %s", key)
	value := os.Getenv(key)
	if value == "" {
		log.Debugf("Environment variable %s not set, using default value", key)
		return defaultValue
	}
	return value
}
