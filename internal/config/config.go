package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		Driver string `yaml:"driver"` // postgres, mysql
		DSN    string `yaml:"url"`
	} `yaml:"database"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // minutes
	} `yaml:"jwt"`

	MercadoPago struct {
		AccessToken string            `yaml:"access_token"`
		BaseURL     string            `yaml:"base_url"`
		Currency    string            `yaml:"currency"` // charge currency, e.g. UYU
		BackURL     string            `yaml:"back_url"` // where the checkout returns
		PlanTiers   map[string]string `yaml:"plan_tiers"` // preapproval_plan_id -> basico|estandar|premium
	} `yaml:"mercadopago"`

	Currency struct {
		RateAPIURL   string  `yaml:"rate_api_url"`
		FallbackRate float64 `yaml:"fallback_rate"` // USD->UYU used when the API is unreachable
	} `yaml:"currency"`

	Storage struct {
		Type       string `yaml:"type"`        // local, s3, cloudflare_r2
		BasePath   string `yaml:"base_path"`   // For local storage
		BaseURL    string `yaml:"base_url"`    // Public URL base
		Bucket     string `yaml:"bucket"`      // For S3/R2
		Region     string `yaml:"region"`      // For S3
		AccessKey  string `yaml:"access_key"`  // For S3/R2
		SecretKey  string `yaml:"secret_key"`  // For S3/R2
		Endpoint   string `yaml:"endpoint"`    // For R2 or custom S3
		UseSSL     bool   `yaml:"use_ssl"`     // For S3/R2
		PublicRead bool   `yaml:"public_read"` // Make files public
	} `yaml:"storage"`

	Upload struct {
		MaxSize      int64    `yaml:"max_size"`      // Max file size in bytes
		AllowedTypes []string `yaml:"allowed_types"` // Allowed MIME types
	} `yaml:"upload"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
	} `yaml:"email"`

	Admin struct {
		// Static allow-list kept for deployments without role data;
		// the policy object in internal/auth consumes it.
		Emails             []string `yaml:"emails"`
		FirstAdminEmail    string   `yaml:"first_admin_email"`
		FirstAdminPassword string   `yaml:"first_admin_password"`
	} `yaml:"admin"`
}

var AppConfig *Config

func LoadConfig() {
	// .env is optional; real deployments inject env vars directly.
	_ = godotenv.Load()

	var cfg Config

	dbURL := os.Getenv("DATABASE_URL")

	if dbURL == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		applyDefaults(&cfg)
		AppConfig = &cfg
		return
	}

	// Env mode: everything comes from the environment.
	cfg.Database.Driver = getEnv("DATABASE_DRIVER", "postgres")
	cfg.Database.DSN = dbURL
	cfg.Server.Env = getEnv("SERVER_ENV", "development")
	cfg.Server.Port, _ = strconv.Atoi(getEnv("SERVER_PORT", "4000"))
	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	cfg.JWT.TTL, _ = strconv.Atoi(getEnv("JWT_TTL", "60"))

	cfg.MercadoPago.AccessToken = os.Getenv("MP_ACCESS_TOKEN")
	cfg.MercadoPago.BaseURL = getEnv("MP_BASE_URL", "https://api.mercadopago.com")
	cfg.MercadoPago.Currency = getEnv("MP_CURRENCY", "UYU")
	cfg.MercadoPago.BackURL = os.Getenv("MP_BACK_URL")
	cfg.MercadoPago.PlanTiers = parseTierMap(os.Getenv("MP_PLAN_TIERS"))

	cfg.Currency.RateAPIURL = getEnv("RATE_API_URL", "https://api.exchangerate-api.com/v4/latest/USD")
	if rate, err := strconv.ParseFloat(os.Getenv("RATE_FALLBACK"), 64); err == nil {
		cfg.Currency.FallbackRate = rate
	}

	cfg.Storage.Type = getEnv("STORAGE_TYPE", "local")
	cfg.Storage.BasePath = getEnv("STORAGE_BASE_PATH", "./uploads")
	cfg.Storage.BaseURL = getEnv("STORAGE_BASE_URL", "/api/v1/files")
	cfg.Storage.Bucket = os.Getenv("STORAGE_BUCKET")
	cfg.Storage.Region = os.Getenv("STORAGE_REGION")
	cfg.Storage.AccessKey = os.Getenv("STORAGE_ACCESS_KEY")
	cfg.Storage.SecretKey = os.Getenv("STORAGE_SECRET_KEY")
	cfg.Storage.Endpoint = os.Getenv("STORAGE_ENDPOINT")

	cfg.Email.SMTPHost = os.Getenv("SMTP_HOST")
	cfg.Email.SMTPPort, _ = strconv.Atoi(getEnv("SMTP_PORT", "587"))
	cfg.Email.SMTPUsername = os.Getenv("SMTP_USER")
	cfg.Email.SMTPPassword = os.Getenv("SMTP_PASSWORD")
	cfg.Email.FromEmail = os.Getenv("SMTP_FROM")
	cfg.Email.FromName = getEnv("SMTP_FROM_NAME", "Agencia")

	cfg.Admin.Emails = splitList(os.Getenv("ADMIN_EMAILS"))
	cfg.Admin.FirstAdminEmail = os.Getenv("FIRST_ADMIN_EMAIL")
	cfg.Admin.FirstAdminPassword = os.Getenv("FIRST_ADMIN_PASSWORD")

	applyDefaults(&cfg)
	AppConfig = &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}
	if cfg.JWT.TTL == 0 {
		cfg.JWT.TTL = 60
	}
	if cfg.MercadoPago.BaseURL == "" {
		cfg.MercadoPago.BaseURL = "https://api.mercadopago.com"
	}
	if cfg.MercadoPago.Currency == "" {
		cfg.MercadoPago.Currency = "UYU"
	}
	if cfg.Currency.FallbackRate == 0 {
		cfg.Currency.FallbackRate = 40.0
	}
	if cfg.Upload.MaxSize == 0 {
		cfg.Upload.MaxSize = 10 * 1024 * 1024 // 10MB
	}
	if len(cfg.Upload.AllowedTypes) == 0 {
		cfg.Upload.AllowedTypes = []string{
			"image/jpeg", "image/png", "image/gif", "image/webp",
			"video/mp4", "application/pdf",
		}
	}
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseTierMap parses "planID:tier,planID:tier" pairs.
func parseTierMap(s string) map[string]string {
	if s == "" {
		return nil
	}
	m := make(map[string]string)
	for _, pair := range strings.Split(s, ",") {
		kv := strings.SplitN(strings.TrimSpace(pair), ":", 2)
		if len(kv) == 2 && kv[0] != "" {
			m[kv[0]] = kv[1]
		}
	}
	return m
}
