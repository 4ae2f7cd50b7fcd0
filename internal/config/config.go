package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/tournevent/shipbridge/pkg/shipper"
	"github.com/tournevent/shipbridge/pkg/shipper/canadapost"
	"github.com/tournevent/shipbridge/pkg/shipper/freightcom"
	"github.com/tournevent/shipbridge/pkg/shipper/mock"
	"github.com/tournevent/shipbridge/pkg/shipper/purolator"
	"go.opentelemetry.io/otel/attribute"
)

// Config holds all configuration for the service.
type Config struct {
	// Server
	Port     int    `envconfig:"PORT" default:"80"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Carrier transport
	TransportTimeout  time.Duration `envconfig:"TRANSPORT_TIMEOUT" default:"30s"`
	RequestsPerSecond float64       `envconfig:"CARRIER_REQUESTS_PER_SECOND" default:"10"`
	Sandbox           bool          `envconfig:"CARRIER_SANDBOX" default:"false"`

	// CarriersFile is a YAML file listing carrier accounts.
	CarriersFile string `envconfig:"CARRIERS_FILE"`
	// MockMode connects a demo mock account answering with canned data.
	MockMode bool `envconfig:"MOCK_MODE" default:"false"`

	// Freightcom
	FreightcomAPIKey          string `envconfig:"FREIGHTCOM_API_KEY"`
	FreightcomPaymentMethodID string `envconfig:"FREIGHTCOM_PAYMENT_METHOD_ID"`
	FreightcomBaseURL         string `envconfig:"FREIGHTCOM_BASE_URL"`

	// Canada Post
	CanadaPostUsername       string `envconfig:"CANADAPOST_USERNAME"`
	CanadaPostPassword       string `envconfig:"CANADAPOST_PASSWORD"`
	CanadaPostCustomerNumber string `envconfig:"CANADAPOST_CUSTOMER_NUMBER"`
	CanadaPostContractID     string `envconfig:"CANADAPOST_CONTRACT_ID"`
	CanadaPostBaseURL        string `envconfig:"CANADAPOST_BASE_URL"`

	// Purolator
	PurolatorUsername      string `envconfig:"PUROLATOR_USERNAME"`
	PurolatorPassword      string `envconfig:"PUROLATOR_PASSWORD"`
	PurolatorAccountNumber string `envconfig:"PUROLATOR_ACCOUNT_NUMBER"`
	PurolatorBaseURL       string `envconfig:"PUROLATOR_BASE_URL"`

	// Telemetry
	OTELEnabled  bool   `envconfig:"OTEL_ENABLED" default:"false"`
	OTELEndpoint string `envconfig:"OTEL_ENDPOINT" default:"http://localhost:4318"`
	ServiceName  string `envconfig:"SERVICE_NAME" default:"shipbridge"`
	Version      string `envconfig:"SERVICE_VERSION" default:"0.1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return &cfg, nil
}

// EnvAccounts returns the carrier accounts configured through environment
// variables. A carrier is included only when its credentials are set.
func (c *Config) EnvAccounts() []shipper.Settings {
	var accounts []shipper.Settings

	if c.PurolatorUsername != "" {
		accounts = append(accounts, &purolator.Settings{
			BaseSettings:  shipper.BaseSettings{AccountID: "purolator", Carrier: "purolator", Test: c.Sandbox},
			Username:      c.PurolatorUsername,
			Password:      c.PurolatorPassword,
			AccountNumber: c.PurolatorAccountNumber,
			ServerURL:     c.PurolatorBaseURL,
		})
	}
	if c.CanadaPostUsername != "" {
		accounts = append(accounts, &canadapost.Settings{
			BaseSettings:   shipper.BaseSettings{AccountID: "canadapost", Carrier: "canadapost", Test: c.Sandbox},
			Username:       c.CanadaPostUsername,
			Password:       c.CanadaPostPassword,
			CustomerNumber: c.CanadaPostCustomerNumber,
			ContractID:     c.CanadaPostContractID,
			ServerURL:      c.CanadaPostBaseURL,
		})
	}
	if c.FreightcomAPIKey != "" {
		accounts = append(accounts, &freightcom.Settings{
			BaseSettings:    shipper.BaseSettings{AccountID: "freightcom", Carrier: "freightcom", Test: c.Sandbox},
			APIKey:          c.FreightcomAPIKey,
			PaymentMethodID: c.FreightcomPaymentMethodID,
			ServerURL:       c.FreightcomBaseURL,
		})
	}
	if c.MockMode {
		accounts = append(accounts, mock.NewSettings("mock"))
	}
	return accounts
}

// Attributes returns OpenTelemetry attributes for this configuration.
func (c *Config) Attributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("service.name", c.ServiceName),
		attribute.String("service.version", c.Version),
		attribute.Bool("carrier.sandbox", c.Sandbox),
		attribute.Bool("mock.enabled", c.MockMode),
		attribute.String("carriers.file", c.CarriersFile),
	}
}
