package docflow

import (
	"github.com/goliatone/go-docflow/internal/catalog"
	"github.com/goliatone/go-docflow/internal/runtimeconfig"
)

var (
	ErrLoggingProviderRequired = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown  = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
	ErrStorageProviderUnknown  = runtimeconfig.ErrStorageProviderUnknown
)

type (
	Config              = runtimeconfig.Config
	CatalogConfig       = runtimeconfig.CatalogConfig
	CategoryConfig      = runtimeconfig.CategoryConfig
	DocTypeConfig       = runtimeconfig.DocTypeConfig
	ApproversConfig     = runtimeconfig.ApproversConfig
	ApproverEntryConfig = runtimeconfig.ApproverEntryConfig
	StorageConfig       = runtimeconfig.StorageConfig
	Features            = runtimeconfig.Features
	LoggingConfig       = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// DefaultCatalogConfig returns the built-in five category catalog used when
// the host does not configure its own.
func DefaultCatalogConfig() CatalogConfig {
	return catalog.DefaultConfig()
}
