// Package config provides configuration management for inventory-recon.
//
// It utilizes Viper for loading configuration from environment variables,
// a .env file and an optional config file (config.yaml or config.toml).
// Defaults come from the `default` struct tags of each section, so a run
// with no configuration at all uses the conventional directory layout.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Log: Logging level, format and optional log file
//   - Storage: S3/MinIO credentials and bucket for uploaded outputs
//   - Logs: Transaction log directory, file pattern and trace id pattern
//   - Catalog: Sku catalog file and optional column schema override
//   - Prices: Market price directory, file pattern and column names
//   - Reports: Brand window, top brand count and inventory snapshot settings
//   - Output: Output directory and upload switch
//
// Environment variables use the SECTION_KEY form, e.g. LOGS_DIR or
// OUTPUT_UPLOAD.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Logs.Dir)
package config
