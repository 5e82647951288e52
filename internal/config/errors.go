package config

import "errors"

var (
	ErrReadingConfigFile      = errors.New("failed to read config file")
	ErrUnmarshallingConfig    = errors.New("failed to unmarshal config")
	ErrConfigFileMissing      = errors.New("config file not found")
	ErrInvalidMaxSamples      = errors.New("monitor maxSamples must be positive")
	ErrInvalidFrameInterval   = errors.New("monitor frameInterval must be positive")
	ErrInvalidMemoryInterval  = errors.New("monitor memoryInterval must be positive")
	ErrEmptyBucketName        = errors.New("bucket name cannot be empty")
	ErrUnknownBucketType      = errors.New("unknown bucket type")
	ErrInvalidSlidingInterval = errors.New("sliding counter interval must be positive")
	ErrInvalidAlpha           = errors.New("ema alpha must lie in (0, 1)")
	ErrEmptyMetricsAddr       = errors.New("metrics listenAddr cannot be empty")
	ErrEmptyKafkaBrokers      = errors.New("kafka brokers list cannot be empty")
	ErrEmptyKafkaTopic        = errors.New("kafka topic cannot be empty")
	ErrInvalidPublishInterval = errors.New("kafka publishInterval must be positive")
)
