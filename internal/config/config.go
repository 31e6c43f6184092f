package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the voice server.
type Config struct {
	// Server configuration
	Port string `envconfig:"PORT" default:"8080"`

	// Voice activity detection. Thresholds assume 20ms frames at 16kHz;
	// frame counts translate to ~500ms of speech to open an utterance and
	// ~300ms of silence to close one.
	VADVoiceThreshold   float64 `envconfig:"VAD_VOICE_THRESHOLD" default:"0.02"`
	VADVoiceStartFrames int     `envconfig:"VAD_VOICE_START_FRAMES" default:"25"`
	VADPartialInterval  int     `envconfig:"VAD_PARTIAL_INTERVAL" default:"10"`
	VADSilenceEndFrames int     `envconfig:"VAD_SILENCE_END_FRAMES" default:"15"`

	// Synthesis pacing between 20ms frames. Real-time playback is 20;
	// lower values are only useful in tests.
	TTSPacingMs int `envconfig:"TTS_PACING_MS" default:"20"`

	// Outbound transport resilience
	SendRetryMaxAttempts   int `envconfig:"SEND_RETRY_MAX_ATTEMPTS" default:"3"`
	SendRetryBackoffMs     int `envconfig:"SEND_RETRY_BACKOFF_MS" default:"20"`
	BreakerMaxFailures     int `envconfig:"BREAKER_MAX_FAILURES" default:"5"`
	BreakerResetTimeoutSec int `envconfig:"BREAKER_RESET_TIMEOUT_SEC" default:"30"`

	// Observability
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
	LogPretty      bool   `envconfig:"LOG_PRETTY" default:"false"`
	MetricsEnabled bool   `envconfig:"METRICS_ENABLED" default:"true"`
}

// Load reads configuration from the environment, after loading an optional
// .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the built-in defaults without touching the environment.
// Used by tests and as the base for programmatic construction.
func Default() *Config {
	return &Config{
		Port:                   "8080",
		VADVoiceThreshold:      0.02,
		VADVoiceStartFrames:    25,
		VADPartialInterval:     10,
		VADSilenceEndFrames:    15,
		TTSPacingMs:            20,
		SendRetryMaxAttempts:   3,
		SendRetryBackoffMs:     20,
		BreakerMaxFailures:     5,
		BreakerResetTimeoutSec: 30,
		LogLevel:               "info",
		MetricsEnabled:         true,
	}
}

// Validate rejects configurations that would break the pipeline contracts.
func (c *Config) Validate() error {
	if c.VADVoiceThreshold <= 0 || c.VADVoiceThreshold >= 1 {
		return fmt.Errorf("VAD_VOICE_THRESHOLD must be in (0, 1), got %f", c.VADVoiceThreshold)
	}
	if c.VADVoiceStartFrames <= 0 {
		return fmt.Errorf("VAD_VOICE_START_FRAMES must be positive, got %d", c.VADVoiceStartFrames)
	}
	if c.VADPartialInterval <= 0 {
		return fmt.Errorf("VAD_PARTIAL_INTERVAL must be positive, got %d", c.VADPartialInterval)
	}
	if c.VADSilenceEndFrames <= 0 {
		return fmt.Errorf("VAD_SILENCE_END_FRAMES must be positive, got %d", c.VADSilenceEndFrames)
	}
	if c.TTSPacingMs < 0 {
		return fmt.Errorf("TTS_PACING_MS must not be negative, got %d", c.TTSPacingMs)
	}
	return nil
}
