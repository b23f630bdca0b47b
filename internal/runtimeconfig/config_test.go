package runtimeconfig_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-docflow/internal/runtimeconfig"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if !cfg.Enabled {
		t.Error("default config should be enabled")
	}
	if !cfg.Features.Notifications {
		t.Error("notifications should default on")
	}
}

func TestValidateLogging(t *testing.T) {
	cases := []struct {
		name    string
		logging runtimeconfig.LoggingConfig
		want    error
	}{
		{"missing provider", runtimeconfig.LoggingConfig{}, runtimeconfig.ErrLoggingProviderRequired},
		{"unknown provider", runtimeconfig.LoggingConfig{Provider: "zap"}, runtimeconfig.ErrLoggingProviderUnknown},
		{"bad level", runtimeconfig.LoggingConfig{Provider: "gologger", Level: "loud"}, runtimeconfig.ErrLoggingLevelInvalid},
		{"bad format", runtimeconfig.LoggingConfig{Provider: "gologger", Format: "xml"}, runtimeconfig.ErrLoggingFormatInvalid},
		{"valid", runtimeconfig.LoggingConfig{Provider: "gologger", Level: "debug", Format: "console"}, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := runtimeconfig.DefaultConfig()
			cfg.Features.Logger = true
			cfg.Logging = tc.logging
			err := cfg.Validate()
			if tc.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestValidateStorageProvider(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Provider = "postgres"
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrStorageProviderUnknown) {
		t.Fatalf("got %v, want ErrStorageProviderUnknown", err)
	}

	cfg.Storage.Provider = "bun"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("bun provider should validate: %v", err)
	}
}
