package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "perfmon.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "log:\n  level: debug\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Monitor.MaxSamples != defaultMaxSamples {
		t.Errorf("MaxSamples = %d", cfg.Monitor.MaxSamples)
	}
	if cfg.Monitor.FrameInterval != defaultFrameInterval || cfg.Monitor.MemoryInterval != defaultMemoryInterval {
		t.Errorf("intervals = %v / %v", cfg.Monitor.FrameInterval, cfg.Monitor.MemoryInterval)
	}
	if !cfg.Monitor.FPS || !cfg.Monitor.Memory || !cfg.Display.Enabled {
		t.Errorf("fps/memory/display defaults should be on: %+v %+v", cfg.Monitor, cfg.Display)
	}
	if cfg.Kafka.Enabled || cfg.Metrics.Enabled {
		t.Error("sinks must default to disabled")
	}
	if cfg.Log.Level != "debug" || cfg.Log.Filename != defaultLogFilename {
		t.Errorf("log = %+v", cfg.Log)
	}
}

func TestLoadBuckets(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
monitor:
  maxSamples: 60
  memoryInterval: 50ms
buckets:
  - name: render
    type: profiler
  - name: requests
    type: sliding
    interval: 1s
  - name: latency
    type: ema
    unit: ms
    alpha: 0.2
  - name: queue
    type: series
    flags: [hideMin, round]
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Monitor.MaxSamples != 60 || cfg.Monitor.MemoryInterval != 50*time.Millisecond {
		t.Errorf("monitor = %+v", cfg.Monitor)
	}
	if len(cfg.Buckets) != 4 {
		t.Fatalf("buckets = %d, want 4", len(cfg.Buckets))
	}
	if b := cfg.Buckets[1]; b.Type != BucketSliding || b.Interval != time.Second {
		t.Errorf("sliding bucket = %+v", b)
	}
	if b := cfg.Buckets[2]; b.Alpha != 0.2 || b.Unit != "ms" {
		t.Errorf("ema bucket = %+v", b)
	}
	if b := cfg.Buckets[3]; len(b.Flags) != 2 || b.Flags[1] != "round" {
		t.Errorf("series flags = %v", b.Flags)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("PERFMON_MONITOR_MAXSAMPLES", "42")
	cfg, err := Load(writeConfig(t, "monitor:\n  fps: false\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Monitor.MaxSamples != 42 {
		t.Errorf("MaxSamples = %d, want 42 from env", cfg.Monitor.MaxSamples)
	}
	if cfg.Monitor.FPS {
		t.Error("fps should be disabled by the file")
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"max samples", "monitor:\n  maxSamples: 0\n", ErrInvalidMaxSamples},
		{"frame interval", "monitor:\n  frameInterval: -1s\n", ErrInvalidFrameInterval},
		{"bucket name", "buckets:\n  - type: counter\n", ErrEmptyBucketName},
		{"bucket type", "buckets:\n  - name: x\n    type: gauge\n", ErrUnknownBucketType},
		{"sliding interval", "buckets:\n  - name: x\n    type: sliding\n", ErrInvalidSlidingInterval},
		{"alpha", "buckets:\n  - name: x\n    type: ema\n    alpha: 1.5\n", ErrInvalidAlpha},
		{"metrics addr", "metrics:\n  enabled: true\n  listenAddr: \"\"\n", ErrEmptyMetricsAddr},
		{"kafka brokers", "kafka:\n  enabled: true\n  topic: t\n", ErrEmptyKafkaBrokers},
		{"kafka topic", "kafka:\n  enabled: true\n  brokers: [\"b:9092\"]\n", ErrEmptyKafkaTopic},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if !errors.Is(err, tt.want) {
				t.Errorf("Load err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
	if !errors.Is(err, ErrConfigFileMissing) && !errors.Is(err, ErrReadingConfigFile) {
		t.Errorf("err = %v", err)
	}
}
