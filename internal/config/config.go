package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN renders a postgres URL for gorm.io/driver/postgres.
func (d DatabaseConfig) DSN() string {
	return "postgres://" + d.User + ":" + d.Password + "@" + d.Host + ":" + d.Port + "/" + d.Name + "?sslmode=" + d.SSLMode
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type MercadoPagoConfig struct {
	AccessToken string
	Mock        bool
}

type BillingConfig struct {
	TaxRate   decimal.Decimal
	LaborRate decimal.Decimal
	DueDays   int
	Terms     string
}

type Config struct {
	Port        string
	Env         string
	JWTSecret   string
	CORSOrigins []string

	Database    DatabaseConfig
	Redis       RedisConfig
	JobsInline  bool
	Cloudinary  string
	StorageDir  string
	StorageURL  string
	MercadoPago MercadoPagoConfig
	Billing     BillingConfig

	RequireInspection bool
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads an optional .env file and config.yaml, then environment variables.
func Load() (Config, error) {
	_ = godotenv.Load()
	_ = godotenv.Load("configs/.env")

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	taxRate, err := decimal.NewFromString(v.GetString("BILLING_TAX_RATE"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid BILLING_TAX_RATE: %w", err)
	}
	if taxRate.IsNegative() || taxRate.GreaterThan(decimal.NewFromInt(1)) {
		return Config{}, fmt.Errorf("BILLING_TAX_RATE must be between 0 and 1, got %s", taxRate)
	}
	laborRate, err := decimal.NewFromString(v.GetString("BILLING_LABOR_RATE"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid BILLING_LABOR_RATE: %w", err)
	}
	if laborRate.IsNegative() {
		return Config{}, fmt.Errorf("BILLING_LABOR_RATE must not be negative")
	}

	cfg := Config{
		Port:        v.GetString("PORT"),
		Env:         v.GetString("APP_ENV"),
		JWTSecret:   v.GetString("JWT_SECRET"),
		CORSOrigins: splitList(v.GetString("CORS_ORIGINS")),
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JobsInline: v.GetBool("JOBS_INLINE"),
		Cloudinary: v.GetString("CLOUDINARY_URL"),
		StorageDir: v.GetString("STORAGE_DIR"),
		StorageURL: v.GetString("STORAGE_BASE_URL"),
		MercadoPago: MercadoPagoConfig{
			AccessToken: v.GetString("MERCADOPAGO_ACCESS_TOKEN"),
			Mock:        v.GetBool("PAYMENT_GATEWAY_MOCK"),
		},
		Billing: BillingConfig{
			TaxRate:   taxRate,
			LaborRate: laborRate,
			DueDays:   v.GetInt("INVOICE_DUE_DAYS"),
			Terms:     v.GetString("INVOICE_TERMS"),
		},
		RequireInspection: v.GetBool("WORKFLOW_REQUIRE_INSPECTION"),
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			return Config{}, errors.New("JWT_SECRET is required in production")
		}
		cfg.JWTSecret = "dev_only_secret"
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "garage")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("JOBS_INLINE", true)
	v.SetDefault("CLOUDINARY_URL", "")
	v.SetDefault("STORAGE_DIR", "./storage")
	v.SetDefault("STORAGE_BASE_URL", "/files")
	v.SetDefault("MERCADOPAGO_ACCESS_TOKEN", "")
	v.SetDefault("PAYMENT_GATEWAY_MOCK", false)
	v.SetDefault("BILLING_TAX_RATE", "0.18")
	v.SetDefault("BILLING_LABOR_RATE", "0")
	v.SetDefault("INVOICE_DUE_DAYS", 30)
	v.SetDefault("INVOICE_TERMS", "Payment due within 30 days of issue.")
	v.SetDefault("WORKFLOW_REQUIRE_INSPECTION", true)
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
