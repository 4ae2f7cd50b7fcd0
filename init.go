package main

import (
	"context"
	"fmt"

	"github.com/tournevent/shipbridge/internal/config"
	"github.com/tournevent/shipbridge/internal/telemetry"
	"github.com/tournevent/shipbridge/pkg/shipper"
	"github.com/tournevent/shipbridge/pkg/shipper/canadapost"
	"github.com/tournevent/shipbridge/pkg/shipper/freightcom"
	"github.com/tournevent/shipbridge/pkg/shipper/mock"
	"github.com/tournevent/shipbridge/pkg/shipper/purolator"
	"github.com/tournevent/shipbridge/pkg/shipper/transport"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

func loadConfig() (*config.Config, error) {
	return config.Load()
}

func initLogger(level string) (*otelzap.Logger, error) {
	return telemetry.NewLogger(level)
}

// initTracer returns the tracer carriers report spans to. Without OTEL the
// global no-op provider backs it.
func initTracer(ctx context.Context, cfg *config.Config) (trace.Tracer, func(context.Context) error, error) {
	if !cfg.OTELEnabled {
		return otel.Tracer(cfg.ServiceName), func(context.Context) error { return nil }, nil
	}

	tp, shutdown, err := telemetry.InitTracer(ctx, cfg.OTELEndpoint, cfg.ServiceName, cfg.Version, cfg.Attributes()...)
	if err != nil {
		return nil, nil, err
	}
	return tp.Tracer(cfg.ServiceName), shutdown, nil
}

func newRegistry() *shipper.Registry {
	registry := shipper.NewRegistry()
	registry.RegisterProvider(purolator.Provider())
	registry.RegisterProvider(canadapost.Provider())
	registry.RegisterProvider(freightcom.Provider())
	registry.RegisterProvider(mock.Provider())
	return registry
}

// loadAccounts merges the carriers file with the legacy environment
// credentials. Accounts from the file win on id clashes.
func loadAccounts(cfg *config.Config, providers config.ProviderSource) ([]shipper.Settings, error) {
	var accounts []shipper.Settings
	if cfg.CarriersFile != "" {
		fromFile, err := config.LoadCarriers(cfg.CarriersFile, providers)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, fromFile...)
	}

	seen := make(map[string]bool, len(accounts))
	for _, a := range accounts {
		seen[a.ID()] = true
	}
	for _, a := range cfg.EnvAccounts() {
		if !seen[a.ID()] {
			accounts = append(accounts, a)
			seen[a.ID()] = true
		}
	}
	return accounts, nil
}

// initShipperRegistry connects every configured account. A nil tracer or
// metrics disables them.
func initShipperRegistry(cfg *config.Config, logger *otelzap.Logger, tracer trace.Tracer, metrics *telemetry.Metrics) (*shipper.Registry, error) {
	registry := newRegistry()

	accounts, err := loadAccounts(cfg, registry)
	if err != nil {
		return nil, err
	}

	for _, settings := range accounts {
		executor := shipper.NewExecutor(logger, tracer)
		if metrics != nil {
			executor = executor.WithObserver(metrics.StepObserver(settings.CarrierID()))
		}

		opts := []shipper.GatewayOption{
			shipper.WithLogger(logger),
			shipper.WithExecutor(executor),
		}
		if tracer != nil {
			opts = append(opts, shipper.WithTracer(tracer))
		}

		if _, err := registry.Connect(settings, newTransport(cfg, settings, logger, tracer), opts...); err != nil {
			return nil, fmt.Errorf("connecting carrier accounts: %w", err)
		}
		logger.Info("Connected carrier account",
			zap.String("account", settings.ID()),
			zap.String("carrier", settings.CarrierID()),
			zap.Bool("test", settings.IsTest()),
		)
	}
	return registry, nil
}

func newTransport(cfg *config.Config, settings shipper.Settings, logger *otelzap.Logger, tracer trace.Tracer) shipper.Transport {
	if settings.CarrierID() == mock.Provider().ID {
		return mock.NewDemoTransport()
	}
	return transport.New(transport.Config{
		Carrier:           settings.CarrierID(),
		Timeout:           cfg.TransportTimeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
	}, logger, tracer)
}
