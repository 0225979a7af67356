package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Log       LogConfig
	Redis     RedisConfig
	Printer   PrinterConfig
	Email     EmailConfig
	OAuth     OAuthConfig
	Metrics   MetricsConfig
	Admin     AdminConfig
	Upload    UploadConfig

	// EnvFile is the .env path that was read, empty when none was found.
	EnvFile string
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

type DatabaseConfig struct {
	// Driver is "sqlite" or "postgres".
	Driver     string
	SQLitePath string
	Host       string
	Port       string
	Name       string
	User       string
	Password   string
	SSLMode    string
	Timezone   string
	LogLevel   string
	SlowQuery  time.Duration
}

type JWTConfig struct {
	Secret             string
	ExpiryHours        time.Duration
	RefreshExpiryHours time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

type LogConfig struct {
	Level string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Enabled reports whether a Redis address is configured.
func (c RedisConfig) Enabled() bool {
	return strings.TrimSpace(c.Addr) != ""
}

type PrinterConfig struct {
	Type      string
	USBPath   string
	Address   string
	CharWidth int
	Timeout   time.Duration
}

type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
}

type OAuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	FrontendSuccessURL string
	FrontendErrorURL   string
}

type MetricsConfig struct {
	Enabled bool
}

// AdminConfig seeds an administrator account on first start.
type AdminConfig struct {
	Name     string
	Email    string
	Password string
}

type UploadConfig struct {
	MaxSize int64
}

// Load reads .env (when present) and the process environment. A missing .env
// file is not an error.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	envFile := ""
	if err := v.ReadInConfig(); err == nil {
		envFile = v.ConfigFileUsed()
	}

	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Name:  v.GetString("APP_NAME"),
			Env:   v.GetString("APP_ENV"),
			Port:  v.GetString("APP_PORT"),
			Debug: v.GetBool("APP_DEBUG"),
		},
		Database: DatabaseConfig{
			Driver:     strings.ToLower(v.GetString("DB_DRIVER")),
			SQLitePath: v.GetString("DB_SQLITE_PATH"),
			Host:       v.GetString("DB_HOST"),
			Port:       v.GetString("DB_PORT"),
			Name:       v.GetString("DB_NAME"),
			User:       v.GetString("DB_USER"),
			Password:   v.GetString("DB_PASSWORD"),
			SSLMode:    v.GetString("DB_SSL_MODE"),
			Timezone:   v.GetString("DB_TIMEZONE"),
			LogLevel:   v.GetString("DB_LOG_LEVEL"),
			SlowQuery:  time.Duration(v.GetInt("DB_SLOW_QUERY_MS")) * time.Millisecond,
		},
		JWT: JWTConfig{
			Secret:             v.GetString("JWT_SECRET"),
			ExpiryHours:        time.Duration(v.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
			RefreshExpiryHours: time.Duration(v.GetInt("JWT_REFRESH_EXPIRY_HOURS")) * time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
			AllowedMethods: splitList(v.GetString("CORS_ALLOWED_METHODS")),
			AllowedHeaders: splitList(v.GetString("CORS_ALLOWED_HEADERS")),
		},
		RateLimit: RateLimitConfig{
			Requests: v.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: v.GetInt("RATE_LIMIT_DURATION"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Printer: PrinterConfig{
			Type:      strings.ToLower(v.GetString("PRINTER_TYPE")),
			USBPath:   v.GetString("PRINTER_USB_PATH"),
			Address:   v.GetString("PRINTER_ADDRESS"),
			CharWidth: v.GetInt("PRINTER_CHAR_WIDTH"),
			Timeout:   time.Duration(v.GetInt("PRINTER_TIMEOUT_SECONDS")) * time.Second,
		},
		Email: EmailConfig{
			SMTPHost:     v.GetString("SMTP_HOST"),
			SMTPPort:     v.GetInt("SMTP_PORT"),
			SMTPUsername: v.GetString("SMTP_USERNAME"),
			SMTPPassword: v.GetString("SMTP_PASSWORD"),
			FromName:     v.GetString("SMTP_FROM_NAME"),
			FromEmail:    v.GetString("SMTP_FROM_EMAIL"),
		},
		OAuth: OAuthConfig{
			GoogleClientID:     v.GetString("GOOGLE_CLIENT_ID"),
			GoogleClientSecret: v.GetString("GOOGLE_CLIENT_SECRET"),
			GoogleRedirectURL:  v.GetString("GOOGLE_REDIRECT_URL"),
			FrontendSuccessURL: v.GetString("OAUTH_FRONTEND_SUCCESS_URL"),
			FrontendErrorURL:   v.GetString("OAUTH_FRONTEND_ERROR_URL"),
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("METRICS_ENABLED"),
		},
		Admin: AdminConfig{
			Name:     v.GetString("ADMIN_NAME"),
			Email:    v.GetString("ADMIN_EMAIL"),
			Password: v.GetString("ADMIN_PASSWORD"),
		},
		Upload: UploadConfig{
			MaxSize: v.GetInt64("UPLOAD_MAX_SIZE"),
		},
		EnvFile: envFile,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "gst-invoice-api")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_DEBUG", true)
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_SQLITE_PATH", "gst-invoice.db")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "gst_invoice")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_TIMEZONE", "Asia/Kolkata")
	v.SetDefault("DB_LOG_LEVEL", "warn")
	v.SetDefault("DB_SLOW_QUERY_MS", 200)
	v.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	v.SetDefault("JWT_EXPIRY_HOURS", 24)
	v.SetDefault("JWT_REFRESH_EXPIRY_HOURS", 168)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("CORS_ALLOWED_METHODS", "GET,POST,PUT,PATCH,DELETE,OPTIONS")
	v.SetDefault("CORS_ALLOWED_HEADERS", "Origin,Content-Type,Accept,Authorization,X-Request-ID,Idempotency-Key")
	v.SetDefault("RATE_LIMIT_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_DURATION", 60)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("PRINTER_TYPE", "none")
	v.SetDefault("PRINTER_CHAR_WIDTH", 48)
	v.SetDefault("PRINTER_TIMEOUT_SECONDS", 5)
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_FROM_NAME", "GST Invoicing")
	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("UPLOAD_MAX_SIZE", 10485760)
}

// Validate rejects combinations the server cannot start with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (use sqlite or postgres)", c.Database.Driver)
	}
	switch c.Printer.Type {
	case "none", "usb", "network":
	default:
		return fmt.Errorf("unsupported PRINTER_TYPE %q (use usb, network, or none)", c.Printer.Type)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	return nil
}

// IsProduction reports whether APP_ENV is production.
func (c *AppConfig) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
