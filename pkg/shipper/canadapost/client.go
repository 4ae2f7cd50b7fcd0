// Package canadapost provides integration with the Canada Post REST API.
package canadapost

import (
	"fmt"
	"strings"

	"github.com/tournevent/shipbridge/pkg/shipper"
)

const (
	carrierID   = "canadapost"
	carrierName = "Canada Post"

	productionURL = "https://soa-gw.canadapost.ca"
	sandboxURL    = "https://ct.soa-gw.canadapost.ca"
)

// Settings holds a Canada Post account.
type Settings struct {
	shipper.BaseSettings `yaml:",inline"`

	Username       string `yaml:"username"`
	Password       string `yaml:"password"`
	CustomerNumber string `yaml:"customer_number"`
	ContractID     string `yaml:"contract_id"`
	Language       string `yaml:"language"`
	ServerURL      string `yaml:"server_url"`
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

func (s *Settings) acceptLanguage() string {
	if strings.EqualFold(s.Language, "fr") {
		return "fr-CA"
	}
	return "en-CA"
}

// Mapper translates canonical requests to Canada Post REST calls.
type Mapper struct {
	shipper.Unsupported
	settings *Settings
}

// New creates a Canada Post mapper.
func New(settings *Settings) (*Mapper, error) {
	if settings == nil {
		return nil, fmt.Errorf("%w: canadapost settings are nil", shipper.ErrInvalidSettings)
	}
	if settings.Username == "" || settings.Password == "" {
		return nil, fmt.Errorf("%w: canadapost username and password are required", shipper.ErrInvalidSettings)
	}
	if settings.CustomerNumber == "" {
		return nil, fmt.Errorf("%w: canadapost customer number is required", shipper.ErrInvalidSettings)
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

// Provider registers Canada Post with a shipper.Registry.
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
				return nil, fmt.Errorf("%w: expected *canadapost.Settings, got %T", shipper.ErrInvalidSettings, s)
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
	"DOM.RP":        "Regular Parcel",
	"DOM.EP":        "Expedited Parcel",
	"DOM.XP":        "Xpresspost",
	"DOM.XP.CERT":   "Xpresspost Certified",
	"DOM.PC":        "Priority",
	"DOM.LIB":       "Library Materials",
	"USA.EP":        "Expedited Parcel USA",
	"USA.PW.ENV":    "Priority Worldwide Envelope USA",
	"USA.PW.PAK":    "Priority Worldwide pak USA",
	"USA.PW.PARCEL": "Priority Worldwide Parcel USA",
	"USA.SP.AIR":    "Small Packet USA Air",
	"USA.TP":        "Tracked Packet - USA",
	"USA.XP":        "Xpresspost USA",
	"INT.XP":        "Xpresspost International",
	"INT.IP.AIR":    "International Parcel Air",
	"INT.IP.SURF":   "International Parcel Surface",
	"INT.PW.ENV":    "Priority Worldwide Envelope Int'l",
	"INT.PW.PAK":    "Priority Worldwide pak Int'l",
	"INT.PW.PARCEL": "Priority Worldwide parcel Int'l",
	"INT.SP.AIR":    "Small Packet International Air",
	"INT.SP.SURF":   "Small Packet International Surface",
	"INT.TP":        "Tracked Packet - International",
}

// ServiceName returns the display name of a Canada Post service code.
func ServiceName(code string) string {
	if name, ok := serviceNames[code]; ok {
		return name
	}
	return code
}

const defaultService = "DOM.EP"

var _ shipper.Mapper = (*Mapper)(nil)
