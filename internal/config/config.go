package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the configuration for the application.
type Config struct {
	Environment string `mapstructure:"environment"`
	Server      struct {
		Port int `mapstructure:"port"`
	} `mapstructure:"server"`
	DB struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
		SSLMode  string `mapstructure:"sslmode"`
	} `mapstructure:"db"`
	Providers struct {
		OpenAIAPIKey string `mapstructure:"openai_api_key"`
		GeminiAPIKey string `mapstructure:"gemini_api_key"`
		SerpAPIKey   string `mapstructure:"serp_api_key"`
	} `mapstructure:"providers"`
	TLS struct {
		Enable    bool     `mapstructure:"enable"`
		CertFile  string   `mapstructure:"cert_file"`
		KeyFile   string   `mapstructure:"key_file"`
		Hostnames []string `mapstructure:"hostnames"`
	} `mapstructure:"tls"`
}

// LoadConfig loads the configuration from a file and the environment. When
// envFile is non-empty its variables are loaded into the process environment
// first, so a local .env can supply provider keys during development.
func LoadConfig(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	viper.SetDefault("environment", "dev")
	viper.SetDefault("server.port", 8000)
	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", 5432)
	viper.SetDefault("db.user", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.name", "workflow_builder")
	viper.SetDefault("db.sslmode", "disable")
	viper.SetDefault("tls.enable", false)

	// Provider credentials come from the environment in deployments; the
	// config file may still override them for local runs.
	viper.BindEnv("providers.openai_api_key", "OPENAI_API_KEY")
	viper.BindEnv("providers.gemini_api_key", "GEMINI_API_KEY")
	viper.BindEnv("providers.serp_api_key", "SERP_API_KEY")
	viper.BindEnv("db.host", "DB_HOST")
	viper.BindEnv("db.password", "DB_PASSWORD")

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults plus environment cover it.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// ConnString builds a pgx-compatible connection string from the DB settings.
func (c *Config) ConnString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host, c.DB.Port, c.DB.User, c.DB.Password, c.DB.Name, c.DB.SSLMode,
	)
}
