package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// AppConfig holds the application configuration. It is loaded once at startup
// and passed explicitly to the components that need it.
type AppConfig struct {
	Env      string
	HTTPPort string
	LogLevel string

	DB      DBConfig
	Redis   RedisConfig
	JWT     JWTConfig
	Clinic  ClinicConfig
	HTTP    HTTPConfig
	Bcrypt  int
	Catalog CatalogConfig
}

type DBConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig is optional; an empty URL disables the catalog cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	MaxRetries   int
}

type JWTConfig struct {
	Key []byte
	TTL time.Duration
}

// ClinicConfig is printed on prescriptions. The optional TrueType fonts are
// needed for names outside cp1252.
type ClinicConfig struct {
	Name         string
	Address      string
	Phone        string
	Timezone     string
	Location     *time.Location
	FontPath     string
	BoldFontPath string
	Font         []byte
	BoldFont     []byte
}

type HTTPConfig struct {
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
}

type CatalogConfig struct {
	CacheTTL time.Duration
}

// Load reads configuration from an optional env file followed by the process environment.
func Load() (*AppConfig, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	file := v.GetString("CONFIG_FILE")
	if _, err := os.Stat(file); err == nil {
		v.SetConfigFile(file)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("CONFIG_FILE", ".env")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("HTTP_PORT", "8930")
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("DB_URL", "")
	v.SetDefault("DB_MAX_OPEN_CONNS", 40)
	v.SetDefault("DB_MAX_IDLE_CONNS", 20)
	v.SetDefault("DB_CONN_MAX_LIFETIME", 10*time.Minute)

	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_POOL_SIZE", 10)
	v.SetDefault("REDIS_MIN_IDLE_CONNS", 5)
	v.SetDefault("REDIS_DIAL_TIMEOUT", 30*time.Second)
	v.SetDefault("REDIS_READ_TIMEOUT", 10*time.Second)
	v.SetDefault("REDIS_MAX_RETRIES", 3)
	v.SetDefault("CATALOG_CACHE_TTL", time.Hour)

	v.SetDefault("JWT_KEY", "")
	v.SetDefault("JWT_TTL", 7*24*time.Hour)
	v.SetDefault("BCRYPT_COST", bcrypt.DefaultCost)

	v.SetDefault("CLINIC_NAME", "Dental Clinic")
	v.SetDefault("CLINIC_ADDRESS", "")
	v.SetDefault("CLINIC_PHONE", "")
	v.SetDefault("CLINIC_TIMEZONE", "Asia/Kolkata")
	v.SetDefault("CLINIC_PDF_FONT", "")
	v.SetDefault("CLINIC_PDF_FONT_BOLD", "")

	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_RPS", 15)
	v.SetDefault("RATE_LIMIT_BURST", 30)
}

func fromViper(v *viper.Viper) (*AppConfig, error) {
	cfg := &AppConfig{
		Env:      v.GetString("APP_ENV"),
		HTTPPort: v.GetString("HTTP_PORT"),
		LogLevel: v.GetString("LOG_LEVEL"),
		DB: DBConfig{
			URL:             v.GetString("DB_URL"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
		Redis: RedisConfig{
			URL:          v.GetString("REDIS_URL"),
			PoolSize:     v.GetInt("REDIS_POOL_SIZE"),
			MinIdleConns: v.GetInt("REDIS_MIN_IDLE_CONNS"),
			DialTimeout:  v.GetDuration("REDIS_DIAL_TIMEOUT"),
			ReadTimeout:  v.GetDuration("REDIS_READ_TIMEOUT"),
			MaxRetries:   v.GetInt("REDIS_MAX_RETRIES"),
		},
		JWT: JWTConfig{
			Key: []byte(v.GetString("JWT_KEY")),
			TTL: v.GetDuration("JWT_TTL"),
		},
		Clinic: ClinicConfig{
			Name:         v.GetString("CLINIC_NAME"),
			Address:      v.GetString("CLINIC_ADDRESS"),
			Phone:        v.GetString("CLINIC_PHONE"),
			Timezone:     v.GetString("CLINIC_TIMEZONE"),
			FontPath:     v.GetString("CLINIC_PDF_FONT"),
			BoldFontPath: v.GetString("CLINIC_PDF_FONT_BOLD"),
		},
		HTTP: HTTPConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
			RateLimitRPS:   v.GetFloat64("RATE_LIMIT_RPS"),
			RateLimitBurst: v.GetInt("RATE_LIMIT_BURST"),
		},
		Bcrypt: v.GetInt("BCRYPT_COST"),
		Catalog: CatalogConfig{
			CacheTTL: v.GetDuration("CATALOG_CACHE_TTL"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings every server process needs.
func (c *AppConfig) Validate() error {
	if c.DB.URL == "" {
		return errors.New("missing DB_URL environment variable")
	}
	if len(c.JWT.Key) < 32 {
		return fmt.Errorf("JWT_KEY must be at least 32 bytes long, got %d", len(c.JWT.Key))
	}
	if c.JWT.TTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	if c.Bcrypt < bcrypt.MinCost || c.Bcrypt > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	loc, err := time.LoadLocation(c.Clinic.Timezone)
	if err != nil {
		return fmt.Errorf("invalid CLINIC_TIMEZONE %q: %w", c.Clinic.Timezone, err)
	}
	c.Clinic.Location = loc

	if c.Clinic.BoldFontPath != "" && c.Clinic.FontPath == "" {
		return errors.New("CLINIC_PDF_FONT_BOLD requires CLINIC_PDF_FONT")
	}
	if c.Clinic.Font, err = readFont("CLINIC_PDF_FONT", c.Clinic.FontPath); err != nil {
		return err
	}
	if c.Clinic.BoldFont, err = readFont("CLINIC_PDF_FONT_BOLD", c.Clinic.BoldFontPath); err != nil {
		return err
	}
	return nil
}

func readFont(key, path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	font, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if len(font) == 0 {
		return nil, fmt.Errorf("%s %q is empty", key, path)
	}
	return font, nil
}

// IsDevelopment reports whether the process runs with development defaults.
func (c *AppConfig) IsDevelopment() bool {
	return c.Env == "development"
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
