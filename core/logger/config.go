package logger

// Config holds configuration for the logger.
type Config struct {
	// Level is the minimum level (debug, info, warn, error).
	Level string `mapstructure:"level" default:"info"`
	// Format is the encoding (json or console).
	Format string `mapstructure:"format" default:"console"`
	// File is an optional path that receives a copy of the log stream.
	File string `mapstructure:"file" default:""`
}
