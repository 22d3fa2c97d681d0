package logs

// Config holds configuration for log discovery and parsing.
type Config struct {
	// Dir is the directory holding the log files.
	Dir string `mapstructure:"dir" default:"data/logs"`
	// Pattern is the glob matching log files inside Dir.
	Pattern string `mapstructure:"pattern" default:"log_*.txt"`
	// TraceIDPattern is the regular expression a trace id must match.
	TraceIDPattern string `mapstructure:"trace_id_pattern" default:"^[A-Za-z0-9][A-Za-z0-9._:-]*$"`
}
