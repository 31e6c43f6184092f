package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Expected default port 8080, got %s", cfg.Port)
	}
	if cfg.VADVoiceThreshold != 0.02 {
		t.Errorf("Expected voice threshold 0.02, got %f", cfg.VADVoiceThreshold)
	}
	if cfg.VADVoiceStartFrames != 25 {
		t.Errorf("Expected 25 voice start frames, got %d", cfg.VADVoiceStartFrames)
	}
	if cfg.VADSilenceEndFrames != 15 {
		t.Errorf("Expected 15 silence end frames, got %d", cfg.VADSilenceEndFrames)
	}
	if cfg.TTSPacingMs != 20 {
		t.Errorf("Expected 20ms pacing, got %d", cfg.TTSPacingMs)
	}
	if !cfg.MetricsEnabled {
		t.Error("Expected metrics enabled by default")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("VAD_VOICE_THRESHOLD", "0.05")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("Expected port override 9090, got %s", cfg.Port)
	}
	if cfg.VADVoiceThreshold != 0.05 {
		t.Errorf("Expected threshold override 0.05, got %f", cfg.VADVoiceThreshold)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("Expected log level debug, got %s", cfg.LogLevel)
	}
}

func TestDefault_IsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default config must validate, got %v", err)
	}
}

func TestValidate_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero threshold", func(c *Config) { c.VADVoiceThreshold = 0 }},
		{"threshold too high", func(c *Config) { c.VADVoiceThreshold = 1.5 }},
		{"zero start frames", func(c *Config) { c.VADVoiceStartFrames = 0 }},
		{"negative partial interval", func(c *Config) { c.VADPartialInterval = -1 }},
		{"zero silence frames", func(c *Config) { c.VADSilenceEndFrames = 0 }},
		{"negative pacing", func(c *Config) { c.TTSPacingMs = -5 }},
	}

	for _, tc := range cases {
		cfg := Default()
		tc.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestLoad_InvalidEnvRejected(t *testing.T) {
	t.Setenv("VAD_VOICE_THRESHOLD", "0")

	if _, err := Load(); err == nil {
		t.Error("Expected Load to reject a zero threshold")
	}
}
