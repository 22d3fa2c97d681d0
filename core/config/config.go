package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"inventory-recon/core/logger"
	"inventory-recon/core/sink"
	"inventory-recon/core/storage"
	"inventory-recon/feature/catalog"
	"inventory-recon/feature/logs"
	"inventory-recon/feature/prices"
	"inventory-recon/feature/reports"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Storage holds configuration for the object storage (e.g., S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Logs holds configuration for transaction log discovery and parsing.
	Logs logs.Config `mapstructure:"logs"`
	// Catalog holds configuration for the sku catalog.
	Catalog catalog.Config `mapstructure:"catalog"`
	// Prices holds configuration for market price snapshots.
	Prices prices.Config `mapstructure:"prices"`
	// Reports holds configuration for the aggregate reports.
	Reports reports.Config `mapstructure:"reports"`
	// Output holds configuration for run outputs.
	Output sink.Config `mapstructure:"output"`
}

// LoadConfig loads configuration from environment variables, a .env file and
// an optional config file (config.yaml, config.toml, ...) in path.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env file if it exists
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// 2. Optional config file; environment still wins
	v.SetConfigName("config")
	v.AddConfigPath(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Map environment variables to nested keys (e.g. LOGS_DIR -> logs.dir)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		// Skip if no tag
		if tag == "" {
			continue
		}

		// Build the key
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// If it's a nested struct, recurse
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
