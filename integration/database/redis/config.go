package redis

import "time"

// Config holds Redis connection settings with environment variable mapping.
type Config struct {
	// ConnectionURL in the format "redis://:password@localhost:6379/0";
	// rediss:// enables TLS.
	ConnectionURL string `env:"REDIS_URL,required" envDefault:"redis://localhost:6379/0"`
	// RetryAttempts is the number of connection attempts before giving up.
	RetryAttempts int `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	// RetryInterval is the wait between connection attempts.
	RetryInterval time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`
	// ConnectTimeout bounds the whole connection procedure.
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
	// ScanBatchSize is the COUNT hint for SCAN-based store operations.
	ScanBatchSize int `env:"REDIS_SCAN_BATCH_SIZE" envDefault:"1000"`
}
