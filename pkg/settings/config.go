package settings

type Config struct {
	Pipeline Pipeline `mapstructure:"pipeline"`
	Logger   Logger   `mapstructure:"logger"`
}

// Pipeline is the configuration for the producer/consumer pipeline
type Pipeline struct {
	Producers     int     `mapstructure:"producers"`
	Consumers     int     `mapstructure:"consumers"`
	QueueCapacity int     `mapstructure:"queue_capacity"`
	BatchSize     int     `mapstructure:"batch_size"`
	RateLimit     float64 `mapstructure:"rate_limit"` // Items per second, 0 disables pacing
	RateBurst     int     `mapstructure:"rate_burst"`
}

// Logger is the configuration for the logger
type Logger struct {
	LogLevel    string `mapstructure:"log_level"`
	FileLogName string `mapstructure:"file_log_name"`
	MaxBackups  int    `mapstructure:"max_backups"`
	MaxAge      int    `mapstructure:"max_age"`
	MaxSize     int    `mapstructure:"max_size"`
	Compress    bool   `mapstructure:"compress"`
}
