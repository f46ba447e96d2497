package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config carries all runtime settings. Handlers and services receive it
// explicitly instead of reading process globals.
type Config struct {
	Addr          string `yaml:"addr"`
	SessionSecret string `yaml:"session_secret"`

	UsersDBPath      string `yaml:"users_db_path"`
	CreditRiskDBPath string `yaml:"credit_risk_db_path"`

	ReportDir string `yaml:"report_dir"`

	NewsAPIKey    string        `yaml:"news_api_key"`
	NewsCacheFile string        `yaml:"news_cache_file"`
	NewsCacheTTL  time.Duration `yaml:"news_cache_ttl"`

	// Seed sample credit-risk rows on startup. Development only.
	DevSeed bool `yaml:"dev_seed"`

	SMTP   SMTPConfig   `yaml:"smtp"`
	Twilio TwilioConfig `yaml:"twilio"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Sender   string `yaml:"sender"`
}

type TwilioConfig struct {
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	FromPhone  string `yaml:"from_phone"`
}

// DefaultIndustries are always available to every user; custom industries
// are stored per user in the database.
var DefaultIndustries = []string{
	"Healthcare",
	"Technology",
	"Energy",
	"Financials",
	"Industrials",
	"Real Estate",
	"Utilities",
	"Materials",
	"Biotech",
	"AI",
	"Mining",
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	return &Config{
		Addr:             ":8090",
		UsersDBPath:      "users.db",
		CreditRiskDBPath: "credit_risk.db",
		ReportDir:        "reports",
		NewsCacheFile:    "news_cache.json",
		NewsCacheTTL:     15 * time.Minute,
	}
}

// Load reads the YAML config at path (if non-empty) over the defaults, then
// overlays secrets from the environment. A .env file is honored when present.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	// Missing .env is fine; environment variables still apply.
	_ = godotenv.Load()

	if v := os.Getenv("ALPHA_VANTAGE_API_KEY"); v != "" {
		cfg.NewsAPIKey = v
	}
	if v := os.Getenv("SESSION_SECRET"); v != "" {
		cfg.SessionSecret = v
	}
	if v := os.Getenv("EMAIL_USER"); v != "" {
		cfg.SMTP.User = v
	}
	if v := os.Getenv("EMAIL_PASSWORD"); v != "" {
		cfg.SMTP.Password = v
	}
	if v := os.Getenv("EMAIL_SENDER"); v != "" {
		cfg.SMTP.Sender = v
	}
	if v := os.Getenv("TWILIO_ACCOUNT_SID"); v != "" {
		cfg.Twilio.AccountSID = v
	}
	if v := os.Getenv("TWILIO_AUTH_TOKEN"); v != "" {
		cfg.Twilio.AuthToken = v
	}
	if v := os.Getenv("TWILIO_PHONE"); v != "" {
		cfg.Twilio.FromPhone = v
	}

	if cfg.SMTP.Host == "" {
		cfg.SMTP.Host = "smtp.gmail.com"
		cfg.SMTP.Port = 587
	}
	if cfg.NewsCacheTTL <= 0 {
		cfg.NewsCacheTTL = 15 * time.Minute
	}

	return cfg, nil
}
