//go:build wireinject
// +build wireinject

package di

import (
	"SilverPulse/pkg/config"
	"SilverPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideSnapshotStore,
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideReadingSink,

		// Domain services
		ProvideNewsAnalyzer,
		ProvideAggregator,

		// HTTP surface
		ProvideRefresher,
		ProvideHandler,
		ProvideApp,
	)
	return &server.App{}, nil
}
