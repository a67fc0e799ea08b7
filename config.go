package manuscript

import "github.com/goliatone/go-manuscript/internal/runtimeconfig"

var (
	ErrResolverDepthInvalid   = runtimeconfig.ErrResolverDepthInvalid
	ErrLoggingProviderUnknown = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingFormatInvalid   = runtimeconfig.ErrLoggingFormatInvalid
	ErrStorageProviderUnknown = runtimeconfig.ErrStorageProviderUnknown
)

type (
	Config         = runtimeconfig.Config
	ResolverConfig = runtimeconfig.ResolverConfig
	StorageConfig  = runtimeconfig.StorageConfig
	LoggingConfig  = runtimeconfig.LoggingConfig
	Features       = runtimeconfig.Features
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
