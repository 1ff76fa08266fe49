package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	Port    string
	GinMode string

	Database DatabaseConfig

	JWTSecret      string
	AccessTokenTTL time.Duration

	RedisURL      string
	NotifyChannel string

	LogLevel  string
	LogFormat string

	CORSOrigins []string
}

type DatabaseConfig struct {
	Driver     string // "postgres" or "sqlite"
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	SSLMode    string
	SQLitePath string
}

// DSN builds the postgres connection string in the key=value form.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode,
	)
}

// Load reads .env (if present), an optional config.yaml and the environment.
// Environment variables win over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, relying on environment variables.")
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "stackit")
	v.SetDefault("DB_PASSWORD", "stackit")
	v.SetDefault("DB_NAME", "stackit")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("SQLITE_PATH", "stackit.db")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("ACCESS_TOKEN_EXPIRE_MINUTES", 30)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("NOTIFY_CHANNEL", "stackit:notifications")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("CORS_ORIGINS", "*")
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Port:    v.GetString("PORT"),
		GinMode: v.GetString("GIN_MODE"),
		Database: DatabaseConfig{
			Driver:     strings.ToLower(v.GetString("DB_DRIVER")),
			Host:       v.GetString("DB_HOST"),
			Port:       v.GetString("DB_PORT"),
			User:       v.GetString("DB_USER"),
			Password:   v.GetString("DB_PASSWORD"),
			Name:       v.GetString("DB_NAME"),
			SSLMode:    v.GetString("DB_SSLMODE"),
			SQLitePath: v.GetString("SQLITE_PATH"),
		},
		JWTSecret:      v.GetString("JWT_SECRET"),
		AccessTokenTTL: time.Duration(v.GetInt("ACCESS_TOKEN_EXPIRE_MINUTES")) * time.Minute,
		RedisURL:       v.GetString("REDIS_URL"),
		NotifyChannel:  v.GetString("NOTIFY_CHANNEL"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		LogFormat:      v.GetString("LOG_FORMAT"),
		CORSOrigins:    splitList(v.GetString("CORS_ORIGINS")),
	}
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	if c.AccessTokenTTL <= 0 {
		return errors.New("ACCESS_TOKEN_EXPIRE_MINUTES must be positive")
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
