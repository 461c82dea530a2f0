//go:build wireinject
// +build wireinject

package di

import (
	"MortgageCalc/pkg/config"
	"MortgageCalc/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideQuoteCache,

		// Repositories
		ProvideRateSource,
		ProvideRateTable,
		ProvideQuotePublisher,

		// Use cases
		ProvidePricingEngine,
		ProvideQuoteService,

		// HTTP
		ProvideValidator,
		ProvideLimiter,
		ProvideMortgageHandler,
		ProvideHealthHandler,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return nil, nil, nil
}
