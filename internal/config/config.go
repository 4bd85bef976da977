package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Provider exposes read-only access to application configuration. Handlers
// and modules depend on this interface rather than the concrete Config so
// tests can substitute their own values.
type Provider interface {
	GetAddr() string
	GetAppBaseURL() string
	GetSessionSecret() string
	GetContentPath() string
	GetScriptsDir() string
	GetTracingEnabled() bool
	GetZipkinURL() string
	GetAnalyticsDBURL() string
	GetAnalyticsDBNs() string
	GetAnalyticsDBName() string
	GetAnalyticsDBUser() string
	GetAnalyticsDBPass() string
}

// Config holds all configuration for the application.
type Config struct {
	Addr          string
	AppBaseURL    string
	SessionSecret string

	// ContentPath optionally points at an on-disk content file. When empty,
	// the embedded content document is used.
	ContentPath string
	// ScriptsDir optionally points at a directory of content rule scripts.
	ScriptsDir string

	TracingEnabled bool
	ZipkinURL      string

	// Analytics sink settings. All optional: when AnalyticsDBURL is empty the
	// collector publishes to the bus only and nothing is persisted.
	AnalyticsDBURL  string
	AnalyticsDBNs   string
	AnalyticsDBName string
	AnalyticsDBUser string
	AnalyticsDBPass string
}

// New loads configuration from environment variables.
func New() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		Addr:            getEnv("APP_ADDR", ":8080"),
		AppBaseURL:      getEnv("APP_BASE_URL", "http://localhost:8080"),
		SessionSecret:   os.Getenv("SESSION_SECRET"),
		ContentPath:     os.Getenv("CONTENT_PATH"),
		ScriptsDir:      os.Getenv("SCRIPTS_DIR"),
		TracingEnabled:  os.Getenv("TRACING_ENABLED") == "true",
		ZipkinURL:       getEnv("ZIPKIN_URL", "http://localhost:9411/api/v2/spans"),
		AnalyticsDBURL:  os.Getenv("ANALYTICS_DB_URL"),
		AnalyticsDBNs:   os.Getenv("ANALYTICS_DB_NS"),
		AnalyticsDBName: os.Getenv("ANALYTICS_DB_NAME"),
		AnalyticsDBUser: os.Getenv("ANALYTICS_DB_USER"),
		AnalyticsDBPass: os.Getenv("ANALYTICS_DB_PASS"),
	}

	if cfg.SessionSecret == "" {
		log.Fatal("Required environment variable SESSION_SECRET is not set.")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (c *Config) GetAddr() string            { return c.Addr }
func (c *Config) GetAppBaseURL() string      { return c.AppBaseURL }
func (c *Config) GetSessionSecret() string   { return c.SessionSecret }
func (c *Config) GetContentPath() string     { return c.ContentPath }
func (c *Config) GetScriptsDir() string      { return c.ScriptsDir }
func (c *Config) GetTracingEnabled() bool    { return c.TracingEnabled }
func (c *Config) GetZipkinURL() string       { return c.ZipkinURL }
func (c *Config) GetAnalyticsDBURL() string  { return c.AnalyticsDBURL }
func (c *Config) GetAnalyticsDBNs() string   { return c.AnalyticsDBNs }
func (c *Config) GetAnalyticsDBName() string { return c.AnalyticsDBName }
func (c *Config) GetAnalyticsDBUser() string { return c.AnalyticsDBUser }
func (c *Config) GetAnalyticsDBPass() string { return c.AnalyticsDBPass }
