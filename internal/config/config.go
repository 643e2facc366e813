package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application, loaded from file or environment
type Config struct {
	ServerAddress     string        `mapstructure:"SERVER_ADDRESS"`
	DBSource          string        `mapstructure:"DB_SOURCE"`
	RedisAddress      string        `mapstructure:"REDIS_ADDRESS"`
	RedisPassword     string        `mapstructure:"REDIS_PASSWORD"`
	DailyCreateLimit  int64         `mapstructure:"DAILY_CREATE_LIMIT"`
	EnrichmentTimeout time.Duration `mapstructure:"ENRICHMENT_TIMEOUT"`
}

// LoadConfig reads configuration from the given path, with environment variables taking precedence
func LoadConfig(path string) (Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")

	viper.SetDefault("SERVER_ADDRESS", "0.0.0.0:8080")
	viper.SetDefault("DAILY_CREATE_LIMIT", 10)
	viper.SetDefault("ENRICHMENT_TIMEOUT", "2s")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Config file is optional when everything comes from the environment
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return Config{}, err
	}

	return config, nil
}
