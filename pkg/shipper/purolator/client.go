// Package purolator provides integration with the Purolator web services.
package purolator

import (
	"fmt"
	"strings"

	"github.com/tournevent/shipbridge/pkg/shipper"
)

const (
	carrierID   = "purolator"
	carrierName = "Purolator"

	productionURL = "https://webservices.purolator.com"
	sandboxURL    = "https://devwebservices.purolator.com"
)

// Settings holds a Purolator account.
type Settings struct {
	shipper.BaseSettings `yaml:",inline"`

	Username      string `yaml:"username"`
	Password      string `yaml:"password"`
	AccountNumber string `yaml:"account_number"`
	UserToken     string `yaml:"user_token"`
	Language      string `yaml:"language"`
	// ServerURL overrides the sandbox or production host.
	ServerURL string `yaml:"server_url"`
}

// BaseURL returns the web services host for the account.
func (s *Settings) BaseURL() string {
	if s.ServerURL != "" {
		return strings.TrimRight(s.ServerURL, "/")
	}
	if s.Test {
		return sandboxURL
	}
	return productionURL
}

func (s *Settings) language() string {
	if s.Language != "" {
		return s.Language
	}
	return "en"
}

// Mapper translates canonical requests to Purolator SOAP calls.
type Mapper struct {
	settings *Settings
}

// New creates a Purolator mapper. It keeps its own copy of settings.
func New(settings *Settings) (*Mapper, error) {
	if settings == nil {
		return nil, fmt.Errorf("%w: purolator settings are nil", shipper.ErrInvalidSettings)
	}
	if settings.Username == "" || settings.Password == "" {
		return nil, fmt.Errorf("%w: purolator username and password are required", shipper.ErrInvalidSettings)
	}
	s := *settings
	if s.Carrier == "" {
		s.Carrier = carrierID
	}
	if s.Name == "" {
		s.Name = carrierName
	}
	return &Mapper{settings: &s}, nil
}

// Provider registers Purolator with a shipper.Registry.
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
				return nil, fmt.Errorf("%w: expected *purolator.Settings, got %T", shipper.ErrInvalidSettings, s)
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

var serviceNames = map[string]string{
	"PurolatorExpress":        "Purolator Express",
	"PurolatorExpress9AM":     "Purolator Express 9AM",
	"PurolatorExpress10:30AM": "Purolator Express 10:30AM",
	"PurolatorExpress12PM":    "Purolator Express 12PM",
	"PurolatorExpressEvening": "Purolator Express Evening",
	"PurolatorGround":         "Purolator Ground",
	"PurolatorGround9AM":      "Purolator Ground 9AM",
	"PurolatorGround10:30AM":  "Purolator Ground 10:30AM",
	"PurolatorExpressUS":      "Purolator Express U.S.",
	"PurolatorExpressUSPack":  "Purolator Express U.S. Pack",
	"PurolatorGroundUS":       "Purolator Ground U.S.",
}

// ServiceName returns the display name of a Purolator service ID.
func ServiceName(serviceID string) string {
	if name, ok := serviceNames[serviceID]; ok {
		return name
	}
	return serviceID
}

const defaultService = "PurolatorExpress"

var _ shipper.Mapper = (*Mapper)(nil)
