package runtimeconfig

import (
	"errors"
	"strings"
)

// ErrLoggingProviderRequired indicates logging was enabled without a provider.
var ErrLoggingProviderRequired = errors.New("docflow config: logging provider is required when logging feature is enabled")

// ErrLoggingProviderUnknown indicates an unsupported logging provider name.
var ErrLoggingProviderUnknown = errors.New("docflow config: logging provider is invalid")

// ErrLoggingLevelInvalid indicates an unsupported logging level.
var ErrLoggingLevelInvalid = errors.New("docflow config: logging level is invalid")

// ErrLoggingFormatInvalid indicates an unsupported logging format.
var ErrLoggingFormatInvalid = errors.New("docflow config: logging format is invalid")

// ErrStorageProviderUnknown indicates an unsupported storage provider name.
var ErrStorageProviderUnknown = errors.New("docflow config: storage provider is invalid")

// Config aggregates feature flags and adapter bindings for the docflow module.
// Fields intentionally use simple types so host applications can extend them later.
type Config struct {
	Enabled   bool
	Catalog   CatalogConfig
	Approvers ApproversConfig
	Storage   StorageConfig
	Features  Features
	Logging   LoggingConfig
}

// CatalogConfig declares the fixed set of categories and their required
// document types. The catalog is compiled once at startup and never mutated.
type CatalogConfig struct {
	Categories []CategoryConfig
}

// CategoryConfig declares a single category and its document types.
type CategoryConfig struct {
	Key      string
	Title    string
	DocTypes []DocTypeConfig
}

// DocTypeConfig declares a required document type within a category.
type DocTypeConfig struct {
	Key   string
	Title string
}

// ApproversConfig seeds the approver registry. Entries are sparse: a missing
// (category, doc type, level) combination simply has no approvers, which
// leaves that level permanently blocking.
type ApproversConfig struct {
	Entries []ApproverEntryConfig
}

// ApproverEntryConfig assigns approver user ids to one combination.
type ApproverEntryConfig struct {
	Category string
	DocType  string
	Level    int
	UserIDs  []string
}

// StorageConfig lists identifiers for storage-related dependencies.
type StorageConfig struct {
	Provider string
}

// Features toggles module functionality.
type Features struct {
	Logger        bool
	Notifications bool
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns the baseline configuration: module enabled,
// notifications on, memory storage, logging disabled until a provider is set.
func DefaultConfig() Config {
	return Config{
		Enabled: true,
		Storage: StorageConfig{Provider: "memory"},
		Features: Features{
			Notifications: true,
		},
	}
}

// Validate checks cross-field consistency before the module boots.
func (c Config) Validate() error {
	if c.Features.Logger {
		provider := strings.ToLower(strings.TrimSpace(c.Logging.Provider))
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		switch provider {
		case "gologger":
		default:
			return ErrLoggingProviderUnknown
		}
		switch strings.ToLower(strings.TrimSpace(c.Logging.Level)) {
		case "", "trace", "debug", "info", "warn", "error":
		default:
			return ErrLoggingLevelInvalid
		}
		switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
		case "", "json", "console", "pretty":
		default:
			return ErrLoggingFormatInvalid
		}
	}

	switch strings.ToLower(strings.TrimSpace(c.Storage.Provider)) {
	case "", "memory", "bun":
	default:
		return ErrStorageProviderUnknown
	}
	return nil
}
