package config

import (
	"errors"
	"fmt"
	"go-finance-api/logger"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrConfigurationMissing is returned when a setting the process cannot run without is absent.
var ErrConfigurationMissing = errors.New("required configuration missing")

type Config struct {
	Server struct {
		Port        string   `mapstructure:"port"`
		CORSOrigins []string `mapstructure:"cors_origins"`
	} `mapstructure:"server"`
	Database struct {
		Host           string `mapstructure:"host"`
		Port           int    `mapstructure:"port"`
		User           string `mapstructure:"user"`
		Password       string `mapstructure:"password"`
		Name           string `mapstructure:"name"`
		SSLMode        string `mapstructure:"sslmode"`
		MigrationsPath string `mapstructure:"migrations_path"`
	} `mapstructure:"database"`
	Redis struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`
	JWT struct {
		SecretKey                  string `mapstructure:"secret_key"`
		Issuer                     string `mapstructure:"issuer"`
		Audience                   string `mapstructure:"audience"`
		ExpirationMinutes          int    `mapstructure:"expiration_minutes"`
		RefreshTokenExpirationDays int    `mapstructure:"refresh_token_expiration_days"`
	} `mapstructure:"jwt"`
	Security struct {
		BcryptCost int `mapstructure:"bcrypt_cost"`
	} `mapstructure:"security"`
	RateLimit struct {
		LoginLimit int           `mapstructure:"login_limit"`
		Window     time.Duration `mapstructure:"window"`
	} `mapstructure:"rate_limit"`
	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`
}

var AppConfig Config

// LoadConfig loads configuration into AppConfig and aborts the process when it is unusable.
func LoadConfig(path string) {
	cfg, err := Load(path)
	if err != nil {
		logger.Log.Fatalf("Unable to load configuration: %v", err)
	}
	AppConfig = cfg
}

// Load reads config.yml from path (when present), overlays environment variables
// and validates the result. DATABASE_HOST overrides database.host, and so on.
func Load(path string) (Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	var cfg Config
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate refuses configurations the service must not start with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.JWT.SecretKey) == "" {
		return fmt.Errorf("%w: jwt.secret_key (JWT_SECRET_KEY)", ErrConfigurationMissing)
	}
	if c.JWT.Issuer == "" || c.JWT.Audience == "" {
		return fmt.Errorf("%w: jwt.issuer and jwt.audience", ErrConfigurationMissing)
	}
	if c.JWT.ExpirationMinutes <= 0 || c.JWT.RefreshTokenExpirationDays <= 0 {
		return fmt.Errorf("token lifetimes must be positive")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.cors_origins", []string{"http://localhost:3000"})

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "financas")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.migrations_path", "file://db/migrations")

	v.SetDefault("redis.host", "")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("jwt.secret_key", "")
	v.SetDefault("jwt.issuer", "go-finance-api")
	v.SetDefault("jwt.audience", "go-finance-web")
	v.SetDefault("jwt.expiration_minutes", 60)
	v.SetDefault("jwt.refresh_token_expiration_days", 7)

	v.SetDefault("security.bcrypt_cost", 12)

	v.SetDefault("rate_limit.login_limit", 10)
	v.SetDefault("rate_limit.window", time.Minute)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}
