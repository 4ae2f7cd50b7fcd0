// Package freightcom provides integration with the Freightcom shipping API.
package freightcom

import (
	"fmt"
	"strings"

	"github.com/tournevent/shipbridge/pkg/shipper"
)

const (
	carrierID   = "freightcom"
	carrierName = "Freightcom"

	productionURL = "https://external-api.freightcom.com"
	sandboxURL    = "https://customer-external-api.ssd-test.freightcom.com"
)

// Settings holds a Freightcom account.
type Settings struct {
	shipper.BaseSettings `yaml:",inline"`

	APIKey string `yaml:"api_key"`
	// PaymentMethodID is required for creating shipments.
	PaymentMethodID string `yaml:"payment_method_id"`
	ServerURL       string `yaml:"server_url"`
}

// BaseURL returns the API host for the account.
func (s *Settings) BaseURL() string {
	if s.ServerURL != "" {
		return strings.TrimRight(s.ServerURL, "/")
	}
	if s.Test {
		return sandboxURL
	}
	return productionURL
}

// Mapper translates canonical requests to Freightcom REST calls.
// Freightcom does not book standalone pickups or validate addresses.
type Mapper struct {
	shipper.Unsupported
	settings *Settings
}

// New creates a Freightcom mapper.
func New(settings *Settings) (*Mapper, error) {
	if settings == nil {
		return nil, fmt.Errorf("%w: freightcom settings are nil", shipper.ErrInvalidSettings)
	}
	if settings.APIKey == "" {
		return nil, fmt.Errorf("%w: freightcom api key is required", shipper.ErrInvalidSettings)
	}
	s := *settings
	if s.Carrier == "" {
		s.Carrier = carrierID
	}
	if s.Name == "" {
		s.Name = carrierName
	}
	return &Mapper{
		Unsupported: shipper.Unsupported{Carrier: carrierID},
		settings:    &s,
	}, nil
}

// Provider registers Freightcom with a shipper.Registry.
func Provider() shipper.Provider {
	return shipper.Provider{
		ID:   carrierID,
		Name: carrierName,
		NewSettings: func() shipper.Settings {
			return &Settings{BaseSettings: shipper.BaseSettings{Carrier: carrierID}}
		},
		NewMapper: func(s shipper.Settings) (shipper.Mapper, error) {
			settings, ok := s.(*Settings)
			if !ok {
				return nil, fmt.Errorf("%w: expected *freightcom.Settings, got %T", shipper.ErrInvalidSettings, s)
			}
			return New(settings)
		},
	}
}

// Settings returns the account bound to the mapper.
func (m *Mapper) Settings() shipper.Settings {
	return m.settings
}

func (m *Mapper) messages() *shipper.Messages {
	return shipper.NewMessages(m.settings)
}

var _ shipper.Mapper = (*Mapper)(nil)
