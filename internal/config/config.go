package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	Database Database `json:"database" mapstructure:"database"`
}

type Database struct {
	Provider string `json:"provider" mapstructure:"provider"`
	URLEnv   string `json:"url_env" mapstructure:"url_env"`
	Name     string `json:"name" mapstructure:"name"`
}

func Load() (*Config, error) {
	var cfg Config

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Set defaults
	if cfg.Database.Provider == "" {
		cfg.Database.Provider = "postgresql"
	}
	if cfg.Database.URLEnv == "" {
		cfg.Database.URLEnv = "DATABASE_URL"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "warehouse"
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	supportedProviders := []string{"postgresql", "postgres", "mysql", "sqlite", "sqlite3"}
	for _, provider := range supportedProviders {
		if c.Database.Provider == provider {
			return nil
		}
	}
	return fmt.Errorf("unsupported database provider: %s. Supported providers: %v", c.Database.Provider, supportedProviders)
}

// ResolveDatabaseURL returns the connection URL. The environment
// variable named by url_env wins; otherwise the URL is composed from
// DB_USERNAME, DB_PASSWORD and DB_HOST.
func (c *Config) ResolveDatabaseURL() (string, error) {
	if dbURL := os.Getenv(c.Database.URLEnv); dbURL != "" {
		return dbURL, nil
	}

	switch c.Database.Provider {
	case "sqlite", "sqlite3":
		return "sqlite://" + c.Database.Name + ".db", nil
	}

	username := os.Getenv("DB_USERNAME")
	password := os.Getenv("DB_PASSWORD")
	host := os.Getenv("DB_HOST")
	if username == "" || password == "" || host == "" {
		return "", fmt.Errorf("database URL not found in %s and DB_USERNAME/DB_PASSWORD/DB_HOST are not all set", c.Database.URLEnv)
	}

	switch c.Database.Provider {
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s)/%s", username, password, host, c.Database.Name), nil
	default:
		return fmt.Sprintf("postgres://%s:%s@%s/%s", username, password, host, c.Database.Name), nil
	}
}
