package shipper

import (
	"github.com/shopspring/decimal"
)

// WeightUnit represents weight measurement unit.
type WeightUnit string

const (
	WeightKG WeightUnit = "KG"
	WeightLB WeightUnit = "LB"
)

// DimensionUnit represents dimension measurement unit.
type DimensionUnit string

const (
	DimensionCM DimensionUnit = "CM"
	DimensionIN DimensionUnit = "IN"
)

// Address is a party's location and contact information.
type Address struct {
	PersonName   string `json:"person_name,omitempty"`
	CompanyName  string `json:"company_name,omitempty"`
	AddressLine1 string `json:"address_line1,omitempty"`
	AddressLine2 string `json:"address_line2,omitempty"`
	City         string `json:"city,omitempty"`
	StateCode    string `json:"state_code,omitempty"`
	PostalCode   string `json:"postal_code,omitempty"`
	CountryCode  string `json:"country_code,omitempty"` // ISO 3166-1 alpha-2
	PhoneNumber  string `json:"phone_number,omitempty"`
	Email        string `json:"email,omitempty"`
	FederalTaxID string `json:"federal_tax_id,omitempty"`
	StateTaxID   string `json:"state_tax_id,omitempty"`
	Residential  bool   `json:"residential,omitempty"`
}

// Parcel describes a package. A zero Weight means the weight is unknown.
type Parcel struct {
	Weight        float64       `json:"weight,omitempty"`
	WeightUnit    WeightUnit    `json:"weight_unit,omitempty"`
	Length        float64       `json:"length,omitempty"`
	Width         float64       `json:"width,omitempty"`
	Height        float64       `json:"height,omitempty"`
	DimensionUnit DimensionUnit `json:"dimension_unit,omitempty"`
	PackagingType string        `json:"packaging_type,omitempty"`
	PackagePreset string        `json:"package_preset,omitempty"`
	Description   string        `json:"description,omitempty"`
	IsDocument    bool          `json:"is_document,omitempty"`
}

// Payment describes who pays for a shipment.
type Payment struct {
	PaidBy        string `json:"paid_by,omitempty"` // sender, recipient, third_party
	AccountNumber string `json:"account_number,omitempty"`
	Currency      string `json:"currency,omitempty"`
}

// ============================================================================
// Requests
// ============================================================================

// RateRequest asks for shipping rates.
type RateRequest struct {
	Shipper   Address           `json:"shipper"`
	Recipient Address           `json:"recipient"`
	Parcel    Parcel            `json:"parcel"`
	Services  []string          `json:"services,omitempty"`
	Options   map[string]string `json:"options,omitempty"`
	Reference string            `json:"reference,omitempty"`
}

// ShipmentRequest asks the carrier to create a shipment and its label.
type ShipmentRequest struct {
	Service   string            `json:"service"`
	Shipper   Address           `json:"shipper"`
	Recipient Address           `json:"recipient"`
	Parcel    Parcel            `json:"parcel"`
	Payment   Payment           `json:"payment,omitempty"`
	Options   map[string]string `json:"options,omitempty"`
	Reference string            `json:"reference,omitempty"`
	LabelType string            `json:"label_type,omitempty"` // PDF, ZPL
}

// ShipmentCancelRequest voids a shipment.
type ShipmentCancelRequest struct {
	ShipmentIdentifier string            `json:"shipment_identifier"`
	Options            map[string]string `json:"options,omitempty"`
}

// TrackingRequest asks for tracking events of one or more shipments.
type TrackingRequest struct {
	TrackingNumbers []string `json:"tracking_numbers"`
	LanguageCode    string   `json:"language_code,omitempty"`
}

// PickupRequest schedules a pickup.
type PickupRequest struct {
	PickupDate      string   `json:"pickup_date"`  // 2006-01-02
	ReadyTime       string   `json:"ready_time"`   // 15:04
	ClosingTime     string   `json:"closing_time"` // 15:04
	Address         Address  `json:"address"`
	Parcels         []Parcel `json:"parcels,omitempty"`
	Instruction     string   `json:"instruction,omitempty"`
	PackageLocation string   `json:"package_location,omitempty"`
}

// PickupUpdateRequest modifies a scheduled pickup.
type PickupUpdateRequest struct {
	ConfirmationNumber string   `json:"confirmation_number"`
	PickupDate         string   `json:"pickup_date"`
	ReadyTime          string   `json:"ready_time"`
	ClosingTime        string   `json:"closing_time"`
	Address            Address  `json:"address"`
	Parcels            []Parcel `json:"parcels,omitempty"`
	Instruction        string   `json:"instruction,omitempty"`
	PackageLocation    string   `json:"package_location,omitempty"`
}

// PickupCancelRequest cancels a scheduled pickup.
type PickupCancelRequest struct {
	ConfirmationNumber string  `json:"confirmation_number"`
	Address            Address `json:"address,omitempty"`
	PickupDate         string  `json:"pickup_date,omitempty"`
	Reason             string  `json:"reason,omitempty"`
}

// AddressValidationRequest asks the carrier to validate an address.
type AddressValidationRequest struct {
	Address Address `json:"address"`
}

// ============================================================================
// Details
// ============================================================================

// ChargeDetails is a named monetary amount.
type ChargeDetails struct {
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// RateDetails is one rate offered by a carrier.
type RateDetails struct {
	CarrierID         string          `json:"carrier_id"`
	CarrierName       string          `json:"carrier_name"`
	Service           string          `json:"service"`
	Currency          string          `json:"currency"`
	BaseCharge        decimal.Decimal `json:"base_charge"`
	TotalCharge       decimal.Decimal `json:"total_charge"`
	DutiesAndTaxes    decimal.Decimal `json:"duties_and_taxes"`
	Discount          decimal.Decimal `json:"discount"`
	TransitDays       int             `json:"transit_days,omitempty"`
	EstimatedDelivery string          `json:"estimated_delivery,omitempty"`
	ExtraCharges      []ChargeDetails `json:"extra_charges,omitempty"`
}

// ShipmentDetails describes a created shipment.
type ShipmentDetails struct {
	CarrierID          string       `json:"carrier_id"`
	CarrierName        string       `json:"carrier_name"`
	TrackingNumber     string       `json:"tracking_number"`
	ShipmentIdentifier string       `json:"shipment_identifier"`
	Label              string       `json:"label,omitempty"` // base64
	LabelURL           string       `json:"label_url,omitempty"`
	SelectedRate       *RateDetails `json:"selected_rate,omitempty"`
}

// TrackingEvent is one scan or status change.
type TrackingEvent struct {
	Date        string `json:"date"`
	Time        string `json:"time,omitempty"`
	Code        string `json:"code,omitempty"`
	Description string `json:"description"`
	Location    string `json:"location,omitempty"`
}

// TrackingDetails is the tracking history of one shipment.
type TrackingDetails struct {
	CarrierID      string          `json:"carrier_id"`
	CarrierName    string          `json:"carrier_name"`
	TrackingNumber string          `json:"tracking_number"`
	Events         []TrackingEvent `json:"events"`
	Delivered      bool            `json:"delivered"`
}

// PickupDetails describes a scheduled pickup.
type PickupDetails struct {
	CarrierID          string         `json:"carrier_id"`
	CarrierName        string         `json:"carrier_name"`
	ConfirmationNumber string         `json:"confirmation_number"`
	PickupDate         string         `json:"pickup_date,omitempty"`
	ReadyTime          string         `json:"ready_time,omitempty"`
	ClosingTime        string         `json:"closing_time,omitempty"`
	PickupCharge       *ChargeDetails `json:"pickup_charge,omitempty"`
}

// ConfirmationDetails acknowledges a cancellation.
type ConfirmationDetails struct {
	CarrierID   string `json:"carrier_id"`
	CarrierName string `json:"carrier_name"`
	Success     bool   `json:"success"`
	Operation   string `json:"operation"`
}

// AddressValidationDetails is the outcome of an address validation.
type AddressValidationDetails struct {
	CarrierID       string   `json:"carrier_id"`
	CarrierName     string   `json:"carrier_name"`
	Success         bool     `json:"success"`
	CompleteAddress *Address `json:"complete_address,omitempty"`
}
