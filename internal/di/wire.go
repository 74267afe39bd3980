//go:build wireinject
// +build wireinject

package di

import (
	"METI/pkg/config"
	"METI/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,
		ProvideCatalog,

		// Infrastructure clients
		ProvideYahooClient,
		ProvideBytesCache,
		ProvideKafkaProducer,

		// Repositories
		ProvideMarketData,
		ProvideIndexPublisher,

		// Use cases
		ProvideTensionIndex,
		ProvideIndexService,
		ProvideRefreshLimiter,

		// Transport
		ProvideHandlers,
		ProvideHTTPServer,

		ProvideApp,
	)
	return &server.App{}, nil
}
