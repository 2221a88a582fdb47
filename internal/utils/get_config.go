package utils

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	// Database configuration
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`
	DBTimeZone string `yaml:"DB_TIMEZONE"`

	// Server
	AppURL        string `yaml:"APP_URL"`
	AppPort       string `yaml:"APP_PORT"`
	LogLevel      string `yaml:"LOG_LEVEL"`
	StorageDriver string `yaml:"STORAGE_DRIVER"`
	RateLimit     string `yaml:"RATE_LIMIT"`

	// Auth
	JWTSecret            string `yaml:"JWT_SECRET"`
	JWTTTL               string `yaml:"JWT_TTL"`
	RequireVerifiedEmail string `yaml:"REQUIRE_VERIFIED_EMAIL"`

	// Remote calls
	RequestTimeout string `yaml:"REQUEST_TIMEOUT"`

	// Mailing configuration
	SMTPHost         string `yaml:"SMTP_HOST"`
	SMTPPort         string `yaml:"SMTP_PORT"`
	SMTPSenderName   string `yaml:"SMTP_SENDER_NAME"`
	SMTPAuthEmail    string `yaml:"SMTP_AUTH_EMAIL"`
	SMTPAuthPassword string `yaml:"SMTP_AUTH_PASSWORD"`

	// AWS S3 configuration
	AWSS3Bucket  string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region  string `yaml:"AWS_S3_REGION"`
	AWSAccessKey string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey string `yaml:"AWS_SECRET_KEY"`

	// Default item pictures
	DefaultImageBaseURL string `yaml:"DEFAULT_IMAGE_BASE_URL"`
}

var config Config

func (c *Config) fields() map[string]*string {
	return map[string]*string{
		"DB_USER":                &c.DBUser,
		"DB_NAME":                &c.DBName,
		"DB_PASSWORD":            &c.DBPassword,
		"DB_PORT":                &c.DBPort,
		"DB_HOST":                &c.DBHost,
		"DB_TIMEZONE":            &c.DBTimeZone,
		"APP_URL":                &c.AppURL,
		"APP_PORT":               &c.AppPort,
		"LOG_LEVEL":              &c.LogLevel,
		"STORAGE_DRIVER":         &c.StorageDriver,
		"RATE_LIMIT":             &c.RateLimit,
		"JWT_SECRET":             &c.JWTSecret,
		"JWT_TTL":                &c.JWTTTL,
		"REQUIRE_VERIFIED_EMAIL": &c.RequireVerifiedEmail,
		"REQUEST_TIMEOUT":        &c.RequestTimeout,
		"SMTP_HOST":              &c.SMTPHost,
		"SMTP_PORT":              &c.SMTPPort,
		"SMTP_SENDER_NAME":       &c.SMTPSenderName,
		"SMTP_AUTH_EMAIL":        &c.SMTPAuthEmail,
		"SMTP_AUTH_PASSWORD":     &c.SMTPAuthPassword,
		"AWS_S3_BUCKET":          &c.AWSS3Bucket,
		"AWS_S3_REGION":          &c.AWSS3Region,
		"AWS_ACCESS_KEY":         &c.AWSAccessKey,
		"AWS_SECRET_KEY":         &c.AWSSecretKey,
		"DEFAULT_IMAGE_BASE_URL": &c.DefaultImageBaseURL,
	}
}

// LoadConfig reads .env, then config.yaml (or CONFIG_PATH). Environment
// variables win over the yaml file.
func LoadConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warnf("Error reading .env file: %s", err)
	}

	config = Config{}
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}
	file, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warnf("Error reading YAML file: %s", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(file, &config); err != nil {
			log.Warnf("Error parsing YAML file: %s", err)
		}
	}

	for key, field := range config.fields() {
		if value, ok := os.LookupEnv(key); ok {
			*field = value
		}
	}
}

func GetConfig(key string) string {
	field, ok := config.fields()[key]
	if !ok {
		return ""
	}
	return *field
}

func GetConfigOrDefault(key string, def string) string {
	if value := strings.TrimSpace(GetConfig(key)); value != "" {
		return value
	}
	return def
}

// GetDuration parses values such as "10s" or "2h"; def is used when the key
// is unset or malformed.
func GetDuration(key string, def time.Duration) time.Duration {
	value := strings.TrimSpace(GetConfig(key))
	if value == "" {
		return def
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Warnf("invalid duration for %s: %q", key, value)
		return def
	}
	return d
}

func GetBool(key string, def bool) bool {
	value := strings.TrimSpace(GetConfig(key))
	if value == "" {
		return def
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Warnf("invalid bool for %s: %q", key, value)
		return def
	}
	return b
}

func GetInt(key string, def int) int {
	value := strings.TrimSpace(GetConfig(key))
	if value == "" {
		return def
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Warnf("invalid int for %s: %q", key, value)
		return def
	}
	return n
}
