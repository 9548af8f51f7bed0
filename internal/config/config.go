// Package config gathers run settings from .env files and the environment.
// Command-line flags start from these values and override them.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	EnvPQAddr        = "WHLP_PQ_ADDR"
	EnvMigrations    = "WHLP_MIGRATIONS_DIR"
	EnvXML           = "WHLP_XML"
	EnvFlickrKey     = "FLICKR_API_KEY"
	EnvFlickrRPS     = "WHLP_FLICKR_RPS"
	EnvFreshness     = "WHLP_FRESHNESS"
	EnvLogLevel      = "WHLP_LOG_LEVEL"
	EnvLogFormat     = "WHLP_LOG_FORMAT"
	EnvMetricsFile   = "WHLP_METRICS_TEXTFILE"
	DefaultFlickrRPS = 5
)

type Config struct {
	PQAddr            string `validate:"required,dsn"`
	MigrationsDir     string `validate:"omitempty,dir"`
	XML               string
	FlickrKey         string
	FlickrRPS         int           `validate:"gte=0"`
	Freshness         time.Duration `validate:"gte=0"`
	RefreshText       bool
	SkipFailedDetails bool
	LogLevel          string `validate:"oneof=debug info warn error"`
	LogFormat         string `validate:"oneof=json console"`
	MetricsTextfile   string
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("dsn", validateDSN)
	return v
}

// validateDSN accepts the address schemes store.Open understands.
func validateDSN(fl validator.FieldLevel) bool {
	s := strings.ToLower(fl.Field().String())
	for _, p := range []string{"postgres://", "postgresql://", "sqlite://", "file:"} {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// LoadEnvFiles reads .env and .env.local from the working directory.
// Variables already set in the environment win.
func LoadEnvFiles() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

// FromEnv builds a Config from environment variables and defaults. Values
// that fail to parse fall back to the default.
func FromEnv() Config {
	return Config{
		PQAddr:          os.Getenv(EnvPQAddr),
		MigrationsDir:   os.Getenv(EnvMigrations),
		XML:             os.Getenv(EnvXML),
		FlickrKey:       os.Getenv(EnvFlickrKey),
		FlickrRPS:       getEnvInt(EnvFlickrRPS, DefaultFlickrRPS),
		Freshness:       getEnvDuration(EnvFreshness, 0),
		LogLevel:        getEnv(EnvLogLevel, "info"),
		LogFormat:       getEnv(EnvLogFormat, "console"),
		MetricsTextfile: os.Getenv(EnvMetricsFile),
	}
}

func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, message(fe))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// Enrich reports whether photo enrichment should run.
func (c Config) Enrich() bool {
	return c.FlickrKey != ""
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "dsn":
		return fmt.Sprintf("%s must start with postgres://, sqlite:// or file:", field)
	case "dir":
		return fmt.Sprintf("%s must be an existing directory", field)
	case "gte":
		return fmt.Sprintf("%s must not be negative", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return def
	}
	return d
}
