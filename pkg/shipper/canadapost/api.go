package canadapost

import "encoding/xml"

const (
	rateNamespace     = "http://www.canadapost.ca/ws/ship/rate-v4"
	shipmentNamespace = "http://www.canadapost.ca/ws/shipment-v8"
	pickupNamespace   = "http://www.canadapost.ca/ws/pickuprequest"

	rateMediaType          = "application/vnd.cpc.ship.rate-v4+xml"
	shipmentMediaType      = "application/vnd.cpc.shipment-v8+xml"
	trackMediaType         = "application/vnd.cpc.track-v2+xml"
	pickupMediaType        = "application/vnd.cpc.pickup+xml"
	pickupRequestMediaType = "application/vnd.cpc.pickuprequest+xml"
)

// Rating

type mailingScenario struct {
	XMLName          xml.Name              `xml:"mailing-scenario"`
	Xmlns            string                `xml:"xmlns,attr"`
	CustomerNumber   string                `xml:"customer-number,omitempty"`
	ContractID       string                `xml:"contract-id,omitempty"`
	Services         []string              `xml:"services>service-code,omitempty"`
	ParcelCharacter  parcelCharacteristics `xml:"parcel-characteristics"`
	OriginPostalCode string                `xml:"origin-postal-code"`
	Destination      destination           `xml:"destination"`
}

type parcelCharacteristics struct {
	Weight     float64     `xml:"weight"`
	Dimensions *dimensions `xml:"dimensions,omitempty"`
	Document   bool        `xml:"document,omitempty"`
}

type dimensions struct {
	Length float64 `xml:"length"`
	Width  float64 `xml:"width"`
	Height float64 `xml:"height"`
}

type destination struct {
	Domestic      *postalCode  `xml:"domestic,omitempty"`
	UnitedStates  *zipCode     `xml:"united-states,omitempty"`
	International *countryCode `xml:"international,omitempty"`
}

type postalCode struct {
	PostalCode string `xml:"postal-code"`
}

type zipCode struct {
	ZipCode string `xml:"zip-code"`
}

type countryCode struct {
	CountryCode string `xml:"country-code"`
}

type priceQuotes struct {
	XMLName xml.Name     `xml:"price-quotes"`
	Quotes  []priceQuote `xml:"price-quote"`
}

type priceQuote struct {
	ServiceCode     string          `xml:"service-code"`
	ServiceName     string          `xml:"service-name"`
	PriceDetails    priceDetails    `xml:"price-details"`
	ServiceStandard serviceStandard `xml:"service-standard"`
}

type priceDetails struct {
	Base        string       `xml:"base"`
	GST         string       `xml:"taxes>gst"`
	PST         string       `xml:"taxes>pst"`
	HST         string       `xml:"taxes>hst"`
	Due         string       `xml:"due"`
	Options     []adjustment `xml:"options>option"`
	Adjustments []adjustment `xml:"adjustments>adjustment"`
}

type adjustment struct {
	Code string `xml:"adjustment-code"`
	Name string `xml:"adjustment-name"`
	Cost string `xml:"adjustment-cost"`

	OptionCode  string `xml:"option-code"`
	OptionName  string `xml:"option-name"`
	OptionPrice string `xml:"option-price"`
}

type serviceStandard struct {
	GuaranteedDelivery   bool   `xml:"guaranteed-delivery"`
	ExpectedTransitTime  int    `xml:"expected-transit-time"`
	ExpectedDeliveryDate string `xml:"expected-delivery-date"`
}

// Shipping

type shipmentInfo struct {
	XMLName            xml.Name     `xml:"shipment"`
	Xmlns              string       `xml:"xmlns,attr"`
	GroupID            string       `xml:"group-id,omitempty"`
	TransmitShipment   bool         `xml:"transmit-shipment,omitempty"`
	CpcPickupIndicator bool         `xml:"cpc-pickup-indicator,omitempty"`
	RequestedShipping  string       `xml:"requested-shipping-point,omitempty"`
	DeliverySpec       deliverySpec `xml:"delivery-spec"`
}

type deliverySpec struct {
	ServiceCode      string                `xml:"service-code"`
	Sender           sender                `xml:"sender"`
	Destination      recipient             `xml:"destination"`
	ParcelCharacter  parcelCharacteristics `xml:"parcel-characteristics"`
	Notification     *notification         `xml:"notification,omitempty"`
	PrintPreferences printPreferences      `xml:"print-preferences"`
	Preferences      preferences           `xml:"preferences"`
	References       *references           `xml:"references,omitempty"`
	SettlementInfo   settlementInfo        `xml:"settlement-info"`
}

type sender struct {
	Name           string         `xml:"name,omitempty"`
	Company        string         `xml:"company"`
	ContactPhone   string         `xml:"contact-phone"`
	AddressDetails addressDetails `xml:"address-details"`
}

type recipient struct {
	Name           string         `xml:"name,omitempty"`
	Company        string         `xml:"company,omitempty"`
	ClientVoice    string         `xml:"client-voice-number,omitempty"`
	AddressDetails addressDetails `xml:"address-details"`
}

type addressDetails struct {
	AddressLine1  string `xml:"address-line-1"`
	AddressLine2  string `xml:"address-line-2,omitempty"`
	City          string `xml:"city"`
	ProvState     string `xml:"prov-state,omitempty"`
	CountryCode   string `xml:"country-code,omitempty"`
	PostalZipCode string `xml:"postal-zip-code,omitempty"`
}

type notification struct {
	Email      string `xml:"email"`
	OnShipment bool   `xml:"on-shipment"`
	OnDelivery bool   `xml:"on-delivery"`
}

type printPreferences struct {
	OutputFormat string `xml:"output-format"`
	Encoding     string `xml:"encoding"`
}

type preferences struct {
	ShowPackingInstructions bool `xml:"show-packing-instructions"`
	ShowPostageRate         bool `xml:"show-postage-rate"`
	ShowInsuredValue        bool `xml:"show-insured-value"`
}

type references struct {
	CustomerRef1 string `xml:"customer-ref-1"`
}

type settlementInfo struct {
	ContractID              string `xml:"contract-id,omitempty"`
	IntendedMethodOfPayment string `xml:"intended-method-of-payment"`
}

type shipmentInfoResponse struct {
	XMLName        xml.Name `xml:"shipment-info"`
	ShipmentID     string   `xml:"shipment-id"`
	ShipmentStatus string   `xml:"shipment-status"`
	TrackingPIN    string   `xml:"tracking-pin"`
	Links          []link   `xml:"links>link"`
}

type link struct {
	Rel       string `xml:"rel,attr"`
	Href      string `xml:"href,attr"`
	MediaType string `xml:"media-type,attr"`
}

// Tracking

type trackingDetail struct {
	XMLName           xml.Name     `xml:"tracking-detail"`
	PIN               string       `xml:"pin"`
	ExpectedDelivery  string       `xml:"expected-delivery-date"`
	SignificantEvents []occurrence `xml:"significant-events>occurrence"`
}

type occurrence struct {
	Identifier  string `xml:"event-identifier"`
	Date        string `xml:"event-date"`
	Time        string `xml:"event-time"`
	Description string `xml:"event-description"`
	Site        string `xml:"event-site"`
	Province    string `xml:"event-province"`
}

// Pickup

type pickupAvailability struct {
	XMLName            xml.Name `xml:"pickup-availability"`
	PostalCode         string   `xml:"postal-code"`
	OnDemandCutoff     string   `xml:"on-demand-cutoff"`
	OnDemandTour       bool     `xml:"on-demand-tour"`
	ScheduledAvailable bool     `xml:"scheduled-pickups-available"`
}

type pickupRequestDetails struct {
	XMLName              xml.Name              `xml:"pickup-request-details"`
	Xmlns                string                `xml:"xmlns,attr"`
	PickupType           string                `xml:"pickup-type"`
	PickupLocation       pickupLocation        `xml:"pickup-location"`
	ContactInfo          contactInfo           `xml:"contact-info"`
	LocationDetails      locationDetails       `xml:"location-details"`
	ItemsCharacteristics *itemsCharacteristics `xml:"items-characteristics,omitempty"`
	PickupVolume         string                `xml:"pickup-volume"`
	PickupTimes          pickupTimes           `xml:"pickup-times"`
}

type pickupRequestUpdate struct {
	XMLName         xml.Name        `xml:"pickup-request-update"`
	Xmlns           string          `xml:"xmlns,attr"`
	PickupType      string          `xml:"pickup-type"`
	ContactInfo     contactInfo     `xml:"contact-info"`
	LocationDetails locationDetails `xml:"location-details"`
	PickupVolume    string          `xml:"pickup-volume"`
	PickupTimes     pickupTimes     `xml:"pickup-times"`
}

type pickupLocation struct {
	BusinessAddressFlag bool              `xml:"business-address-flag"`
	AlternateAddress    *alternateAddress `xml:"alternate-address,omitempty"`
}

type alternateAddress struct {
	Company     string `xml:"company"`
	AddressLine string `xml:"address-line"`
	City        string `xml:"city"`
	Province    string `xml:"province"`
	PostalCode  string `xml:"postal-code"`
}

type contactInfo struct {
	ContactName  string `xml:"contact-name"`
	Email        string `xml:"email"`
	ContactPhone string `xml:"contact-phone"`
}

type locationDetails struct {
	FiveTonFlag        bool   `xml:"five-ton-flag"`
	LoadingDockFlag    bool   `xml:"loading-dock-flag"`
	PickupInstructions string `xml:"pickup-instructions"`
}

type itemsCharacteristics struct {
	PickupHeavyItems bool `xml:"pww-flag"`
	HeavyItemFlag    bool `xml:"heavy-item-flag"`
}

type pickupTimes struct {
	Date          string `xml:"on-demand-pickup-time>date"`
	PreferredTime string `xml:"on-demand-pickup-time>preferred-time"`
	ClosingTime   string `xml:"on-demand-pickup-time>closing-time"`
}

type pickupRequestInfo struct {
	XMLName       xml.Name `xml:"pickup-request-info"`
	RequestID     string   `xml:"pickup-request-header>request-id"`
	RequestStatus string   `xml:"pickup-request-header>request-status"`
	PickupType    string   `xml:"pickup-request-header>pickup-type"`
	Date          string   `xml:"pickup-request-details>pickup-times>on-demand-pickup-time>date"`
	PreferredTime string   `xml:"pickup-request-details>pickup-times>on-demand-pickup-time>preferred-time"`
	ClosingTime   string   `xml:"pickup-request-details>pickup-times>on-demand-pickup-time>closing-time"`
	DueAmount     string   `xml:"pickup-request-price>due-amount"`
}

// Errors

type messageList struct {
	XMLName  xml.Name  `xml:"messages"`
	Messages []message `xml:"message"`
}

type message struct {
	Code        string `xml:"code"`
	Description string `xml:"description"`
}
