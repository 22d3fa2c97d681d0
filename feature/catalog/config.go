package catalog

// Config holds configuration for the sku catalog reader.
type Config struct {
	// File is the nested JSON catalog document.
	File string `mapstructure:"file" default:"data/skus/skus.json"`
	// SchemaFile optionally replaces the embedded column mapping table.
	SchemaFile string `mapstructure:"schema_file" default:""`
}
