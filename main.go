package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/tournevent/shipbridge/internal/server"
	"github.com/tournevent/shipbridge/internal/telemetry"
	"github.com/tournevent/shipbridge/pkg/shipper"
	"go.uber.org/zap"
)

var version = "0.1.0"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "shipbridge",
	Short:   "Shipbridge - Multi-carrier shipping gateway",
	Version: version,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the GraphQL server",
	RunE:  runServe,
}

var carriersCmd = &cobra.Command{
	Use:   "carriers",
	Short: "List carrier integrations and configured accounts",
	Args:  cobra.NoArgs,
	RunE:  runCarriers,
}

var rateCmd = &cobra.Command{
	Use:   "rate <request.json>",
	Short: "Fetch rates for a rate request read from a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE:  runRate,
}

var rateAccounts []string

func init() {
	rateCmd.Flags().StringSliceVarP(&rateAccounts, "carrier", "c", nil, "account ids to query (default: all)")

	rootCmd.AddCommand(serveCmd, carriersCmd, rateCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Initialize telemetry
	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	tracer, tracerShutdown, err := initTracer(ctx, cfg)
	if err != nil {
		logger.Warn("Failed to initialize tracer", zap.Error(err))
	} else {
		defer func() { _ = tracerShutdown(context.Background()) }()
	}

	reg := prometheus.NewRegistry()
	metrics := telemetry.NewMetrics(reg)

	// Connect every configured carrier account
	registry, err := initShipperRegistry(cfg, logger, tracer, metrics)
	if err != nil {
		return err
	}

	logger.Info("Starting Shipbridge",
		zap.Int("port", cfg.Port),
		zap.String("version", cfg.Version),
		zap.Strings("accounts", registry.Names()),
	)

	// Start HTTP server
	srv := server.New(server.Config{
		Port:     cfg.Port,
		Metrics:  metrics,
		Gatherer: reg,
	}, registry, logger)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func runCarriers(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	registry, err := initShipperRegistry(cfg, telemetry.NopLogger(), nil, nil)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Carriers:")
	for _, id := range registry.Providers() {
		p, _ := registry.Provider(id)
		fmt.Fprintf(out, "  %-12s %s\n", p.ID, p.Name)
	}

	fmt.Fprintln(out, "Accounts:")
	if registry.Count() == 0 {
		fmt.Fprintln(out, "  (none configured)")
	}
	for _, g := range registry.Gateways() {
		s := g.Settings()
		mode := "production"
		if s.IsTest() {
			mode = "test"
		}
		fmt.Fprintf(out, "  %-12s %-12s %s\n", s.ID(), s.CarrierID(), mode)
	}
	return nil
}

type rateOutput struct {
	Rates    []shipper.RateDetails `json:"rates"`
	Messages []shipper.Message     `json:"messages"`
	Errors   []string              `json:"errors,omitempty"`
}

func runRate(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading rate request: %w", err)
	}
	var req shipper.RateRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("parsing rate request: %w", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	registry, err := initShipperRegistry(cfg, logger, nil, nil)
	if err != nil {
		return err
	}

	rates, msgs, errs := registry.FetchRates(cmd.Context(), req, rateAccounts)
	result := rateOutput{Rates: rates, Messages: msgs}
	for _, e := range errs {
		result.Errors = append(result.Errors, e.Error())
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return err
	}
	if len(rates) == 0 && len(errs) > 0 {
		return fmt.Errorf("no rates: %d account(s) failed", len(errs))
	}
	return nil
}
