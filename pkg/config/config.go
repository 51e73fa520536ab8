package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Port               string   `env:"PORT" env-default:"8080"`
	AppEnv             string   `env:"APP_ENV" env-default:"local"`
	LogLevel           string   `env:"LOG_LEVEL" env-default:"info"`
	LogFile            string   `env:"LOG_FILE"`
	DatabaseURL        string   `env:"DATABASE_URL" env-default:"file:db.sqlite"`
	DatabaseDriver     string   `env:"DATABASE_DRIVER"`
	SettingsCollection string   `env:"SETTINGS_COLLECTION" env-default:"settings"`
	ContentTypesFile   string   `env:"CONTENT_TYPES_FILE"`
	BaseURL            string   `env:"BASE_URL" env-default:"http://localhost:8080"`
	GoogleClientID     string   `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string   `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string   `env:"GOOGLE_REDIRECT_URL" env-default:"http://localhost:8080/auth/google/callback"`
	JWTSecret          string   `env:"JWT_SECRET" env-default:"secret"`
	FrontendURL        string   `env:"FRONTEND_URL" env-default:"http://localhost:3000/admin"`
	AllowedEmails      []string `env:"ALLOWED_EMAILS" env-separator:","`
	Surreal            SurrealConfig
}

type SurrealConfig struct {
	Namespace string `env:"SURREAL_NAMESPACE" env-default:"portfolio"`
	Database  string `env:"SURREAL_DATABASE" env-default:"admin"`
	User      string `env:"SURREAL_USER" env-default:"root"`
	Password  string `env:"SURREAL_PASS" env-default:"root"`
}

func Load() (*Config, error) {
	_ = godotenv.Load() // Ignore error if .env not found (e.g. prod)

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
