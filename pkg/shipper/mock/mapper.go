// Package mock provides a scripted transport and a JSON carrier for tests
// and demos.
package mock

import (
	"encoding/json"
	"fmt"

	"github.com/tournevent/shipbridge/pkg/shipper"
)

const (
	carrierID   = "mock"
	carrierName = "Mock Carrier"
)

// Settings holds a mock account.
type Settings struct {
	shipper.BaseSettings `yaml:",inline"`

	// BaseURL prefixes request URLs.
	BaseURL string `yaml:"base_url"`
}

func (s *Settings) baseURL() string {
	if s.BaseURL != "" {
		return s.BaseURL
	}
	return "mock://" + s.ID()
}

// NewSettings returns settings for an account id.
func NewSettings(id string) *Settings {
	return &Settings{BaseSettings: shipper.BaseSettings{AccountID: id, Carrier: carrierID, Name: carrierName, Test: true}}
}

// Envelope is the body of every mock request.
type Envelope struct {
	Operation string          `json:"operation"`
	Account   string          `json:"account"`
	Payload   json.RawMessage `json:"payload"`
}

// Reply is the body of every mock response. Only the field matching the
// operation is read.
type Reply struct {
	Rates        []shipper.RateDetails             `json:"rates,omitempty"`
	Tracking     []shipper.TrackingDetails         `json:"tracking,omitempty"`
	Shipment     *shipper.ShipmentDetails          `json:"shipment,omitempty"`
	Pickup       *shipper.PickupDetails            `json:"pickup,omitempty"`
	Confirmation *shipper.ConfirmationDetails      `json:"confirmation,omitempty"`
	Address      *shipper.AddressValidationDetails `json:"address,omitempty"`
	Messages     []shipper.Message                 `json:"messages,omitempty"`
}

// Operation names used in request URLs and envelopes.
const (
	OpAddressValidation = "address_validation"
	OpRate              = "rate"
	OpTracking          = "tracking"
	OpShipment          = "shipment"
	OpCancelShipment    = "cancel_shipment"
	OpPickup            = "pickup"
	OpPickupUpdate      = "pickup_update"
	OpCancelPickup      = "cancel_pickup"
)

// Mapper is a carrier speaking the mock JSON protocol.
type Mapper struct {
	settings *Settings
}

// New creates a mock mapper over a copy of settings.
func New(settings *Settings) *Mapper {
	s := *settings
	if s.Carrier == "" {
		s.Carrier = carrierID
	}
	if s.Name == "" {
		s.Name = carrierName
	}
	return &Mapper{settings: &s}
}

// Provider registers the mock carrier with a shipper.Registry.
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
				return nil, fmt.Errorf("%w: expected *mock.Settings, got %T", shipper.ErrInvalidSettings, s)
			}
			return New(settings), nil
		},
	}
}

// Settings returns the account bound to the mapper.
func (m *Mapper) Settings() shipper.Settings {
	return m.settings
}

func (m *Mapper) request(operation string, payload any) (shipper.Request, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", operation, err)
	}
	env := Envelope{Operation: operation, Account: m.settings.ID(), Payload: raw}
	return shipper.NewSerializable(env, func(e Envelope) ([]byte, error) {
		return json.Marshal(e)
	}, shipper.Endpoint{
		Method:      "POST",
		URL:         m.settings.baseURL() + "/" + operation,
		ContentType: "application/json",
		Accept:      "application/json",
	}), nil
}

func (m *Mapper) parse(operation string, resp shipper.Response) (Reply, []shipper.Message, error) {
	var r Reply
	if err := json.Unmarshal(resp.Body, &r); err != nil {
		return Reply{}, nil, shipper.NewParseError(carrierID, operation, err)
	}
	msgs := shipper.NewMessages(m.settings)
	msgs.Extend(r.Messages)
	return r, msgs.List(), nil
}

func (m *Mapper) stamp(carrierID, carrierName *string) {
	*carrierID = m.settings.CarrierID()
	*carrierName = m.settings.CarrierName()
}

// CreateAddressValidationRequest requires a postal code.
func (m *Mapper) CreateAddressValidationRequest(payload shipper.AddressValidationRequest) (shipper.Request, error) {
	if payload.Address.PostalCode == "" {
		return nil, shipper.NewRequiredFieldError("address.postal_code")
	}
	return m.request(OpAddressValidation, payload)
}

// CreateRateRequest requires a parcel weight.
func (m *Mapper) CreateRateRequest(payload shipper.RateRequest) (shipper.Request, error) {
	if payload.Parcel.Weight <= 0 {
		return nil, shipper.NewRequiredFieldError("parcel.weight")
	}
	return m.request(OpRate, payload)
}

// CreateTrackingRequest requires at least one tracking number.
func (m *Mapper) CreateTrackingRequest(payload shipper.TrackingRequest) (shipper.Request, error) {
	if len(payload.TrackingNumbers) == 0 {
		return nil, shipper.NewRequiredFieldError("tracking_numbers")
	}
	return m.request(OpTracking, payload)
}

// CreateShipmentRequest requires a parcel weight.
func (m *Mapper) CreateShipmentRequest(payload shipper.ShipmentRequest) (shipper.Request, error) {
	if payload.Parcel.Weight <= 0 {
		return nil, shipper.NewRequiredFieldError("parcel.weight")
	}
	return m.request(OpShipment, payload)
}

func (m *Mapper) CreateCancelShipmentRequest(payload shipper.ShipmentCancelRequest) (shipper.Request, error) {
	if payload.ShipmentIdentifier == "" {
		return nil, shipper.NewRequiredFieldError("shipment_identifier")
	}
	return m.request(OpCancelShipment, payload)
}

func (m *Mapper) CreatePickupRequest(payload shipper.PickupRequest) (shipper.Request, error) {
	if payload.PickupDate == "" {
		return nil, shipper.NewRequiredFieldError("pickup_date")
	}
	return m.request(OpPickup, payload)
}

func (m *Mapper) CreatePickupUpdateRequest(payload shipper.PickupUpdateRequest) (shipper.Request, error) {
	if payload.ConfirmationNumber == "" {
		return nil, shipper.NewRequiredFieldError("confirmation_number")
	}
	return m.request(OpPickupUpdate, payload)
}

func (m *Mapper) CreateCancelPickupRequest(payload shipper.PickupCancelRequest) (shipper.Request, error) {
	if payload.ConfirmationNumber == "" {
		return nil, shipper.NewRequiredFieldError("confirmation_number")
	}
	return m.request(OpCancelPickup, payload)
}

func (m *Mapper) ParseAddressValidationResponse(resp shipper.Response) (*shipper.AddressValidationDetails, []shipper.Message, error) {
	r, msgs, err := m.parse(OpAddressValidation, resp)
	if err != nil || r.Address == nil {
		return nil, msgs, err
	}
	m.stamp(&r.Address.CarrierID, &r.Address.CarrierName)
	return r.Address, msgs, nil
}

func (m *Mapper) ParseRateResponse(resp shipper.Response) ([]shipper.RateDetails, []shipper.Message, error) {
	r, msgs, err := m.parse(OpRate, resp)
	if err != nil {
		return nil, nil, err
	}
	rates := make([]shipper.RateDetails, len(r.Rates))
	for i, rate := range r.Rates {
		m.stamp(&rate.CarrierID, &rate.CarrierName)
		rates[i] = rate
	}
	return rates, msgs, nil
}

func (m *Mapper) ParseTrackingResponse(resp shipper.Response) ([]shipper.TrackingDetails, []shipper.Message, error) {
	r, msgs, err := m.parse(OpTracking, resp)
	if err != nil {
		return nil, nil, err
	}
	details := make([]shipper.TrackingDetails, len(r.Tracking))
	for i, td := range r.Tracking {
		m.stamp(&td.CarrierID, &td.CarrierName)
		details[i] = td
	}
	return details, msgs, nil
}

func (m *Mapper) ParseShipmentResponse(resp shipper.Response) (*shipper.ShipmentDetails, []shipper.Message, error) {
	r, msgs, err := m.parse(OpShipment, resp)
	if err != nil || r.Shipment == nil {
		return nil, msgs, err
	}
	m.stamp(&r.Shipment.CarrierID, &r.Shipment.CarrierName)
	return r.Shipment, msgs, nil
}

func (m *Mapper) ParseCancelShipmentResponse(resp shipper.Response) (*shipper.ConfirmationDetails, []shipper.Message, error) {
	return m.parseConfirmation(OpCancelShipment, resp)
}

func (m *Mapper) ParsePickupResponse(resp shipper.Response) (*shipper.PickupDetails, []shipper.Message, error) {
	return m.parsePickup(OpPickup, resp)
}

func (m *Mapper) ParsePickupUpdateResponse(resp shipper.Response) (*shipper.PickupDetails, []shipper.Message, error) {
	return m.parsePickup(OpPickupUpdate, resp)
}

func (m *Mapper) ParseCancelPickupResponse(resp shipper.Response) (*shipper.ConfirmationDetails, []shipper.Message, error) {
	return m.parseConfirmation(OpCancelPickup, resp)
}

func (m *Mapper) parsePickup(operation string, resp shipper.Response) (*shipper.PickupDetails, []shipper.Message, error) {
	r, msgs, err := m.parse(operation, resp)
	if err != nil || r.Pickup == nil {
		return nil, msgs, err
	}
	m.stamp(&r.Pickup.CarrierID, &r.Pickup.CarrierName)
	return r.Pickup, msgs, nil
}

func (m *Mapper) parseConfirmation(operation string, resp shipper.Response) (*shipper.ConfirmationDetails, []shipper.Message, error) {
	r, msgs, err := m.parse(operation, resp)
	if err != nil || r.Confirmation == nil {
		return nil, msgs, err
	}
	m.stamp(&r.Confirmation.CarrierID, &r.Confirmation.CarrierName)
	return r.Confirmation, msgs, nil
}

var _ shipper.Mapper = (*Mapper)(nil)
