package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	defaultMaxSamples      = 100
	defaultFrameInterval   = 16 * time.Millisecond
	defaultFPSEnabled      = true
	defaultMemoryEnabled   = true
	defaultMemoryInterval  = 30 * time.Millisecond
	defaultDisplayEnabled  = true
	defaultDisplayWidth    = 32
	defaultGraphRows       = 3
	defaultMetricsEnabled  = false
	defaultMetricsAddr     = ":9464"
	defaultMetricsNS       = "perfmon"
	defaultKafkaEnabled    = false
	defaultKafkaGroupID    = "perfmon-tail"
	defaultPublishInterval = 1 * time.Second
	defaultLogLevel        = "info"
	defaultLogFormat       = "console"
	defaultLogFileEnabled  = false
	defaultLogDirectory    = "log"
	defaultLogFilename     = "perfmon.log"
	defaultLogMaxSizeMB    = 100
	defaultLogMaxBackups   = 3
	defaultLogMaxAgeDays   = 7
	defaultLogCompress     = false

	// Environment variable prefix
	envPrefix = "PERFMON"
)

// Bucket types accepted in the buckets list.
const (
	BucketProfiler = "profiler"
	BucketCounter  = "counter"
	BucketSliding  = "sliding"
	BucketEMA      = "ema"
	BucketSeries   = "series"
)

type Config struct {
	Monitor MonitorConfig  `mapstructure:"monitor"`
	Display DisplayConfig  `mapstructure:"display"`
	Buckets []BucketConfig `mapstructure:"buckets"`
	Metrics MetricsConfig  `mapstructure:"metrics"`
	Kafka   KafkaConfig    `mapstructure:"kafka"`
	Log     LogConfig      `mapstructure:"log"`
}

type MonitorConfig struct {
	MaxSamples     int           `mapstructure:"maxSamples"`
	FrameInterval  time.Duration `mapstructure:"frameInterval"`
	FPS            bool          `mapstructure:"fps"`
	Memory         bool          `mapstructure:"memory"`
	MemoryInterval time.Duration `mapstructure:"memoryInterval"`
}

type DisplayConfig struct {
	Enabled   bool `mapstructure:"enabled"`
	Width     int  `mapstructure:"width"`     // Column width in cells
	GraphRows int  `mapstructure:"graphRows"` // Graph height in rows
}

type BucketConfig struct {
	Name     string        `mapstructure:"name"`
	Type     string        `mapstructure:"type"` // profiler, counter, sliding, ema, series
	Unit     string        `mapstructure:"unit"`
	Interval time.Duration `mapstructure:"interval"` // sliding only
	Alpha    float64       `mapstructure:"alpha"`    // ema only
	Flags    []string      `mapstructure:"flags"`    // series only, e.g. hideMin, round
}

type MetricsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	ListenAddr string `mapstructure:"listenAddr"`
	Namespace  string `mapstructure:"namespace"`
}

type KafkaConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Brokers         []string      `mapstructure:"brokers"`
	Topic           string        `mapstructure:"topic"`
	GroupID         string        `mapstructure:"groupID"`
	PublishInterval time.Duration `mapstructure:"publishInterval"`
}

type LogConfig struct {
	Level              string `mapstructure:"level"`
	Format             string `mapstructure:"format"`
	FileLoggingEnabled bool   `mapstructure:"fileLoggingEnabled"`
	Directory          string `mapstructure:"directory"`
	Filename           string `mapstructure:"filename"`
	MaxSize            int    `mapstructure:"maxSize"`    // Max size in MB
	MaxBackups         int    `mapstructure:"maxBackups"` // Max backup files
	MaxAge             int    `mapstructure:"maxAge"`     // Max days to retain
	Compress           bool   `mapstructure:"compress"`   // Compress rotated files?
}

// Load initializes viper, reads config, applies defaults, unmarshals, and validates.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	configureViper(v, configPath)

	// Set default values before reading config source .yaml
	setDefaults(v)

	// Read configuration from file (error if mandatory file is missing)
	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	// Unmarshal the configuration
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnmarshallingConfig, err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// configureViper sets up viper instance for file and environment variables.
func configureViper(v *viper.Viper, configPath string) {
	if configPath != "" {
		v.SetConfigFile(configPath)
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
}

// setDefaults applies default configuration values using Viper.
func setDefaults(v *viper.Viper) {
	v.SetDefault("monitor.maxSamples", defaultMaxSamples)
	v.SetDefault("monitor.frameInterval", defaultFrameInterval)
	v.SetDefault("monitor.fps", defaultFPSEnabled)
	v.SetDefault("monitor.memory", defaultMemoryEnabled)
	v.SetDefault("monitor.memoryInterval", defaultMemoryInterval)
	v.SetDefault("display.enabled", defaultDisplayEnabled)
	v.SetDefault("display.width", defaultDisplayWidth)
	v.SetDefault("display.graphRows", defaultGraphRows)
	v.SetDefault("metrics.enabled", defaultMetricsEnabled)
	v.SetDefault("metrics.listenAddr", defaultMetricsAddr)
	v.SetDefault("metrics.namespace", defaultMetricsNS)
	v.SetDefault("kafka.enabled", defaultKafkaEnabled)
	v.SetDefault("kafka.groupID", defaultKafkaGroupID)
	v.SetDefault("kafka.publishInterval", defaultPublishInterval)
	v.SetDefault("log.level", defaultLogLevel)
	v.SetDefault("log.format", defaultLogFormat)
	v.SetDefault("log.fileLoggingEnabled", defaultLogFileEnabled)
	v.SetDefault("log.directory", defaultLogDirectory)
	v.SetDefault("log.filename", defaultLogFilename)
	v.SetDefault("log.maxSize", defaultLogMaxSizeMB)
	v.SetDefault("log.maxBackups", defaultLogMaxBackups)
	v.SetDefault("log.maxAge", defaultLogMaxAgeDays)
	v.SetDefault("log.compress", defaultLogCompress)
}

// readConfigFile attempts to read the configuration file specified in viper.
func readConfigFile(v *viper.Viper) error {
	err := v.ReadInConfig()
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return ErrConfigFileMissing
		}
		return fmt.Errorf("%w: %w", ErrReadingConfigFile, err)
	}
	return nil
}

func validateConfig(cfg *Config) error {
	if cfg.Monitor.MaxSamples <= 0 {
		return ErrInvalidMaxSamples
	}
	if cfg.Monitor.FrameInterval <= 0 {
		return ErrInvalidFrameInterval
	}
	if cfg.Monitor.Memory && cfg.Monitor.MemoryInterval <= 0 {
		return ErrInvalidMemoryInterval
	}
	for _, b := range cfg.Buckets {
		if err := validateBucket(b); err != nil {
			return err
		}
	}
	if cfg.Metrics.Enabled && cfg.Metrics.ListenAddr == "" {
		return ErrEmptyMetricsAddr
	}
	if cfg.Kafka.Enabled {
		if len(cfg.Kafka.Brokers) == 0 {
			return ErrEmptyKafkaBrokers
		}
		if cfg.Kafka.Topic == "" {
			return ErrEmptyKafkaTopic
		}
		if cfg.Kafka.PublishInterval <= 0 {
			return ErrInvalidPublishInterval
		}
	}
	return nil
}

func validateBucket(b BucketConfig) error {
	if b.Name == "" {
		return ErrEmptyBucketName
	}
	switch b.Type {
	case BucketProfiler, BucketCounter, BucketSeries:
	case BucketSliding:
		if b.Interval <= 0 {
			return fmt.Errorf("%w: %q", ErrInvalidSlidingInterval, b.Name)
		}
	case BucketEMA:
		if b.Alpha <= 0 || b.Alpha >= 1 {
			return fmt.Errorf("%w: %q", ErrInvalidAlpha, b.Name)
		}
	default:
		return fmt.Errorf("%w: %q (%s)", ErrUnknownBucketType, b.Type, b.Name)
	}
	return nil
}
