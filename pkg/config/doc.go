// Package config loads environment-based configuration structs with .env
// bootstrap and per-type caching.
//
// Configuration structs declare their mapping with `env` tags:
//
//	type RedisConfig struct {
//		URL            string        `env:"REDIS_URL,required"`
//		ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
//	}
//
//	var cfg RedisConfig
//	config.MustLoad(&cfg)
//
// Each distinct struct type is parsed once per process; subsequent Load calls
// return the cached value, so scattered components reading the same config
// agree on what they saw at startup.
package config
