// Package api provides factory implementations for dependency injection
package api

import (
	"context"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/ssargent/pokecsv/pkg/service"
)

// DefaultCatalogFactory is the default implementation of CatalogFactory
type DefaultCatalogFactory struct {
	fs afero.Fs
}

// NewCatalogFactory creates a catalog factory over fs. A nil fs means the
// OS filesystem.
func NewCatalogFactory(fs afero.Fs) CatalogFactory {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &DefaultCatalogFactory{fs: fs}
}

// CreateCatalog creates a PokemonService over csvPath
func (f *DefaultCatalogFactory) CreateCatalog(csvPath string, logger *zap.Logger) (PokemonCatalog, error) {
	return service.NewPokemonService(service.Config{
		Fs:        f.fs,
		StorePath: csvPath,
		Logger:    logger,
	})
}

// DefaultServerFactory is the default implementation of ServerFactory
type DefaultServerFactory struct{}

// NewServerFactory creates a new server factory
func NewServerFactory() ServerFactory {
	return &DefaultServerFactory{}
}

// CreateServerStarter creates a server starter
func (f *DefaultServerFactory) CreateServerStarter() ServerStarter {
	return &DefaultServerStarter{}
}

// DefaultServerStarter is the default implementation of ServerStarter
type DefaultServerStarter struct{}

// StartServer starts the API server with the given configuration
func (s *DefaultServerStarter) StartServer(ctx context.Context, catalog PokemonCatalog, config ServerConfig, logger *zap.Logger) error {
	return StartServer(ctx, catalog, config, logger)
}
