// Package api provides interfaces for dependency injection
package api

import (
	"context"

	"go.uber.org/zap"
)

// CatalogFactory creates the catalog behind the API and the CLI
type CatalogFactory interface {
	// CreateCatalog opens a catalog over the CSV file at csvPath
	CreateCatalog(csvPath string, logger *zap.Logger) (PokemonCatalog, error)
}

// ServerStarter defines the interface for starting the API server
type ServerStarter interface {
	// StartServer serves catalog until ctx is cancelled
	StartServer(ctx context.Context, catalog PokemonCatalog, config ServerConfig, logger *zap.Logger) error
}

// ServerFactory creates server instances
type ServerFactory interface {
	// CreateServerStarter creates a server starter
	CreateServerStarter() ServerStarter
}
