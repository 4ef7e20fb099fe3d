package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the outreach service.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Auth      AuthConfig      `yaml:"auth"`
	Mail      MailConfig      `yaml:"mail"`
	GmailAPI  GmailAPIConfig  `yaml:"gmail_api"`
	Inference InferenceConfig `yaml:"inference"`
	Scraper   ScraperConfig   `yaml:"scraper"`
	Uploads   UploadsConfig   `yaml:"uploads"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// GetHost returns the server host, listening on all interfaces when
// running in a container.
func (c ServerConfig) GetHost() string {
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return "0.0.0.0"
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		return host
	}
	return c.Host
}

// DatabaseConfig holds the Postgres connection settings.
type DatabaseConfig struct {
	URL          string `yaml:"url"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
}

// RedisConfig holds the optional Redis session store settings. When Addr
// is empty, sessions fall back to an in-process map.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// AuthConfig holds session cookie settings.
type AuthConfig struct {
	CookieName   string `yaml:"cookie_name"`
	CookieMaxAge int    `yaml:"cookie_max_age"`
	SecureCookie bool   `yaml:"secure_cookie"`
}

// SessionTTL returns the session lifetime as a duration.
func (c AuthConfig) SessionTTL() time.Duration {
	return time.Duration(c.CookieMaxAge) * time.Second
}

// MailConfig selects and configures the outbound transport.
// Provider is "gmail" (per-operator SMTP credentials) or "ses".
type MailConfig struct {
	Provider       string    `yaml:"provider"`
	SMTPHost       string    `yaml:"smtp_host"`
	SMTPPort       int       `yaml:"smtp_port"`
	TimeoutSeconds int       `yaml:"timeout_seconds"`
	SES            SESConfig `yaml:"ses"`
}

// Timeout returns the transport timeout as a duration.
func (c MailConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SESConfig holds AWS SES v2 credentials for the alternate transport.
type SESConfig struct {
	Region    string `yaml:"region"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	FromEmail string `yaml:"from_email"`
}

// GmailAPIConfig holds OAuth tokens for the Gmail REST thread lookup.
type GmailAPIConfig struct {
	ClientID       string `yaml:"client_id"`
	ClientSecret   string `yaml:"client_secret"`
	AccessToken    string `yaml:"access_token"`
	RefreshToken   string `yaml:"refresh_token"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the configured timeout as a duration.
func (c GmailAPIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// InferenceConfig holds the hosted text-generation endpoint used for
// cold-email draft generation.
type InferenceConfig struct {
	BaseURL        string `yaml:"base_url"`
	Model          string `yaml:"model"`
	APIToken       string `yaml:"api_token"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	Enabled        bool   `yaml:"enabled"`
}

// Timeout returns the configured timeout as a duration.
func (c InferenceConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ScraperConfig holds LinkedIn scraper settings.
type ScraperConfig struct {
	Enabled        bool   `yaml:"enabled"`
	Email          string `yaml:"email"`
	Password       string `yaml:"password"`
	CookiesPath    string `yaml:"cookies_path"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	MaxProfiles    int    `yaml:"max_profiles"`
}

// Timeout returns the page-load timeout as a duration.
func (c ScraperConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// UploadsConfig selects the attachment storage backend: "s3" or "local".
type UploadsConfig struct {
	Backend   string `yaml:"backend"`
	LocalPath string `yaml:"local_path"`
	S3Bucket  string `yaml:"s3_bucket"`
	S3Region  string `yaml:"s3_region"`
	MaxSizeMB int    `yaml:"max_size_mb"`
}

// Load reads and parses the configuration file, applying defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Auth.CookieName == "" {
		cfg.Auth.CookieName = "outreach_session"
	}
	if cfg.Auth.CookieMaxAge == 0 {
		cfg.Auth.CookieMaxAge = 86400
	}
	if cfg.Mail.Provider == "" {
		cfg.Mail.Provider = "gmail"
	}
	if cfg.Mail.SMTPHost == "" {
		cfg.Mail.SMTPHost = "smtp.gmail.com"
	}
	if cfg.Mail.SMTPPort == 0 {
		cfg.Mail.SMTPPort = 465
	}
	if cfg.Mail.TimeoutSeconds == 0 {
		cfg.Mail.TimeoutSeconds = 30
	}
	if cfg.Mail.SES.Region == "" {
		cfg.Mail.SES.Region = "us-west-2"
	}
	if cfg.GmailAPI.TimeoutSeconds == 0 {
		cfg.GmailAPI.TimeoutSeconds = 30
	}
	if cfg.Inference.BaseURL == "" {
		cfg.Inference.BaseURL = "https://api-inference.huggingface.co"
	}
	if cfg.Inference.TimeoutSeconds == 0 {
		cfg.Inference.TimeoutSeconds = 60
	}
	if cfg.Scraper.CookiesPath == "" {
		cfg.Scraper.CookiesPath = "cookies.json"
	}
	if cfg.Scraper.TimeoutSeconds == 0 {
		cfg.Scraper.TimeoutSeconds = 45
	}
	if cfg.Scraper.MaxProfiles == 0 {
		cfg.Scraper.MaxProfiles = 10
	}
	if cfg.Uploads.Backend == "" {
		cfg.Uploads.Backend = "local"
	}
	if cfg.Uploads.LocalPath == "" {
		cfg.Uploads.LocalPath = "uploads"
	}
	if cfg.Uploads.MaxSizeMB == 0 {
		cfg.Uploads.MaxSizeMB = 10
	}
}

// LoadFromEnv loads configuration with environment variable overrides.
// A .env file (if present) is loaded first, so secrets can live in .env
// locally and in real env vars in deployment.
func LoadFromEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("MAIL_PROVIDER"); v != "" {
		cfg.Mail.Provider = v
	}
	if v := os.Getenv("AWS_SES_ACCESS_KEY"); v != "" {
		cfg.Mail.SES.AccessKey = v
	}
	if v := os.Getenv("AWS_SES_SECRET_KEY"); v != "" {
		cfg.Mail.SES.SecretKey = v
	}
	if v := os.Getenv("AWS_SES_REGION"); v != "" {
		cfg.Mail.SES.Region = v
	}
	if v := os.Getenv("GMAIL_CLIENT_ID"); v != "" {
		cfg.GmailAPI.ClientID = v
	}
	if v := os.Getenv("GMAIL_CLIENT_SECRET"); v != "" {
		cfg.GmailAPI.ClientSecret = v
	}
	if v := os.Getenv("GMAIL_ACCESS_TOKEN"); v != "" {
		cfg.GmailAPI.AccessToken = v
	}
	if v := os.Getenv("GMAIL_REFRESH_TOKEN"); v != "" {
		cfg.GmailAPI.RefreshToken = v
	}
	if v := os.Getenv("HUGGINGFACE_API_TOKEN"); v != "" {
		cfg.Inference.APIToken = v
		cfg.Inference.Enabled = true
	}
	if v := os.Getenv("INFERENCE_MODEL"); v != "" {
		cfg.Inference.Model = v
	}
	if v := os.Getenv("LINKEDIN_EMAIL"); v != "" {
		cfg.Scraper.Email = v
	}
	if v := os.Getenv("LINKEDIN_PASSWORD"); v != "" {
		cfg.Scraper.Password = v
	}
	if v := os.Getenv("UPLOADS_S3_BUCKET"); v != "" {
		cfg.Uploads.S3Bucket = v
		cfg.Uploads.Backend = "s3"
	}

	return cfg, nil
}
