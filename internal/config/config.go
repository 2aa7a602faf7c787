// Package config carga la configuración del servicio: config.yaml opcional
// con overrides por variables de entorno (el entorno siempre gana).
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		// dev | staging | prod
		Env string `yaml:"app_env"`
	} `yaml:"app"`

	Server struct {
		Addr               string   `yaml:"addr"`
		CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
	} `yaml:"server"`

	Storage struct {
		// mongo | postgres | memory
		Driver string `yaml:"driver"`
		Mongo  struct {
			URI      string `yaml:"uri"`
			Database string `yaml:"database"`
		} `yaml:"mongo"`
		Postgres struct {
			DSN string `yaml:"dsn"`
		} `yaml:"postgres"`
	} `yaml:"storage"`

	SMTP struct {
		DialTimeout time.Duration `yaml:"dial_timeout"` // conexión + greeting + auth
		SendTimeout time.Duration `yaml:"send_timeout"` // operación completa
	} `yaml:"smtp"`

	Notify struct {
		ResendAPIKey string `yaml:"resend_api_key"`
		From         string `yaml:"from"`
		// AdminEmail es el fallback cuando el estado no trae homeContent.adminEmail.
		AdminEmail string `yaml:"admin_email"`
	} `yaml:"notify"`

	Rate struct {
		Enabled bool `yaml:"enabled"`
		// Límite por IP para POST /api/send-email.
		SendEmail struct {
			Limit  int           `yaml:"limit"`
			Window time.Duration `yaml:"window"`
		} `yaml:"send_email"`
	} `yaml:"rate"`
}

// Load lee el YAML (si existe) y aplica defaults + overrides de entorno.
func Load(path string) (Config, error) {
	var cfg Config

	if path != "" {
		if raw, err := os.ReadFile(path); err == nil {
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return Config{}, err
			}
		}
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.App.Env == "" {
		cfg.App.Env = "dev"
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":3001"
	}
	if len(cfg.Server.CORSAllowedOrigins) == 0 {
		cfg.Server.CORSAllowedOrigins = []string{"*"}
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "mongo"
	}
	if cfg.Storage.Mongo.Database == "" {
		cfg.Storage.Mongo.Database = "estudio"
	}
	if cfg.SMTP.DialTimeout <= 0 {
		cfg.SMTP.DialTimeout = 10 * time.Second
	}
	if cfg.SMTP.SendTimeout <= 0 {
		cfg.SMTP.SendTimeout = 20 * time.Second
	}
	if cfg.Rate.SendEmail.Limit <= 0 {
		cfg.Rate.SendEmail.Limit = 10
	}
	if cfg.Rate.SendEmail.Window <= 0 {
		cfg.Rate.SendEmail.Window = time.Minute
	}
}

func applyEnvOverrides(cfg *Config) {
	cfg.App.Env = getenv("APP_ENV", cfg.App.Env)

	// PORT pelado (convención del hosting original) o addr completa.
	if port := getenv("PORT", ""); port != "" {
		cfg.Server.Addr = ":" + port
	}
	cfg.Server.Addr = getenv("SERVER_ADDR", cfg.Server.Addr)
	if v := splitCSVEnv(os.Getenv("CORS_ALLOWED_ORIGINS")); len(v) > 0 {
		cfg.Server.CORSAllowedOrigins = v
	}

	cfg.Storage.Driver = getenv("STORAGE_DRIVER", cfg.Storage.Driver)
	// MONGODB_URI con MONGO_URI como alias legacy.
	cfg.Storage.Mongo.URI = getenv("MONGODB_URI", getenv("MONGO_URI", cfg.Storage.Mongo.URI))
	cfg.Storage.Mongo.Database = getenv("MONGODB_DATABASE", cfg.Storage.Mongo.Database)
	cfg.Storage.Postgres.DSN = getenv("DATABASE_URL", cfg.Storage.Postgres.DSN)

	cfg.SMTP.DialTimeout = getenvDuration("SMTP_DIAL_TIMEOUT", cfg.SMTP.DialTimeout)
	cfg.SMTP.SendTimeout = getenvDuration("SMTP_SEND_TIMEOUT", cfg.SMTP.SendTimeout)

	cfg.Notify.ResendAPIKey = getenv("RESEND_API_KEY", cfg.Notify.ResendAPIKey)
	cfg.Notify.From = getenv("NOTIFY_FROM", cfg.Notify.From)
	cfg.Notify.AdminEmail = getenv("ADMIN_EMAIL", cfg.Notify.AdminEmail)

	cfg.Rate.Enabled = getenvBool("RATE_ENABLED", cfg.Rate.Enabled)
}

// StoreURI devuelve la URI/DSN efectiva del driver activo.
func (c Config) StoreURI() string {
	switch c.Storage.Driver {
	case "postgres":
		return c.Storage.Postgres.DSN
	case "memory":
		return "memory"
	default:
		return c.Storage.Mongo.URI
	}
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getenvDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func splitCSVEnv(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
