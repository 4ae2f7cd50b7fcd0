package freightcom

// Request and response bodies of the Freightcom REST API v2.

// rateRequest is the body of POST /rate.
type rateRequest struct {
	Services         []string        `json:"services,omitempty"`
	ExcludedServices []string        `json:"excluded_services,omitempty"`
	Details          shippingDetails `json:"details"`
}

type shippingDetails struct {
	Origin      location      `json:"origin"`
	Destination location      `json:"destination"`
	ExpectedOn  string        `json:"expected_ship_date,omitempty"`
	Packaging   packagingInfo `json:"packaging"`
	Reference   string        `json:"reference_code,omitempty"`
}

type location struct {
	Name        string `json:"name,omitempty"`
	Company     string `json:"company,omitempty"`
	Address1    string `json:"address_1,omitempty"`
	Address2    string `json:"address_2,omitempty"`
	City        string `json:"city,omitempty"`
	Province    string `json:"province,omitempty"`
	PostalCode  string `json:"postal_code"`
	Country     string `json:"country"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
	Residential bool   `json:"residential,omitempty"`
}

// packagingInfo.Type is one of "package", "envelope" or "pallet".
type packagingInfo struct {
	Type     string        `json:"type"`
	Packages []packageInfo `json:"packages"`
}

// packageInfo measures in centimetres and kilograms.
type packageInfo struct {
	Length      float64 `json:"length,omitempty"`
	Width       float64 `json:"width,omitempty"`
	Height      float64 `json:"height,omitempty"`
	Weight      float64 `json:"weight"`
	Description string  `json:"description,omitempty"`
	Quantity    int     `json:"quantity,omitempty"`
}

// rateSubmitted is the answer of POST /rate.
type rateSubmitted struct {
	RequestID string `json:"request_id"`
}

// rateResult is the answer of GET /rate/{request_id}.
type rateResult struct {
	RequestID string `json:"request_id"`
	Status    string `json:"status"` // pending, complete, error
	Rates     []rate `json:"rates,omitempty"`
	Error     string `json:"error,omitempty"`
}

type rate struct {
	ID                string      `json:"id"`
	ServiceID         string      `json:"service_id"`
	CarrierName       string      `json:"carrier_name"`
	ServiceName       string      `json:"service_name"`
	BaseRate          float64     `json:"base_rate"`
	FuelSurcharge     float64     `json:"fuel_surcharge"`
	Surcharges        []surcharge `json:"surcharges,omitempty"`
	Taxes             []tax       `json:"taxes,omitempty"`
	TotalTax          float64     `json:"total_tax"`
	TotalPrice        float64     `json:"total_price"`
	Currency          string      `json:"currency"`
	TransitDays       int         `json:"transit_days"`
	EstimatedDelivery string      `json:"estimated_delivery,omitempty"`
	Guaranteed        bool        `json:"guaranteed"`
}

type surcharge struct {
	Code        string  `json:"code"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

type tax struct {
	Code   string  `json:"code"`
	Amount float64 `json:"amount"`
}

// shipmentRequest is the body of POST /shipment. UniqueID prevents duplicate
// bookings when a request is retried.
type shipmentRequest struct {
	UniqueID        string          `json:"unique_id"`
	PaymentMethodID string          `json:"payment_method_id"`
	ServiceID       string          `json:"service_id"`
	Details         shippingDetails `json:"details"`
	Sender          contact         `json:"sender"`
	Recipient       contact         `json:"recipient"`
	LabelFormat     string          `json:"label_format,omitempty"`
	Reference       string          `json:"reference,omitempty"`
	Instructions    string          `json:"instructions,omitempty"`
}

type contact struct {
	Name    string `json:"name"`
	Company string `json:"company,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
}

// shipmentCreated is the answer of POST /shipment.
type shipmentCreated struct {
	ID                string `json:"id"`
	PreviouslyCreated bool   `json:"previously_created"`
}

// shipment is the answer of GET /shipment/{id}.
type shipment struct {
	ID              string   `json:"id"`
	UniqueID        string   `json:"unique_id"`
	Status          string   `json:"status"`
	TrackingNumbers []string `json:"tracking_numbers"`
	TrackingURL     string   `json:"tracking_url,omitempty"`
	ServiceID       string   `json:"service_id"`
	ServiceName     string   `json:"service_name"`
	TotalCharged    float64  `json:"total_charged"`
	Currency        string   `json:"currency"`
	Labels          []label  `json:"labels,omitempty"`
}

type label struct {
	Size   string `json:"size"`   // 4x6, letter
	Format string `json:"format"` // pdf, zpl, png
	URL    string `json:"url"`
}

// cancellation is the answer of DELETE /shipment/{id}; the body may be empty.
type cancellation struct {
	ShipmentID string `json:"shipment_id"`
	Status     string `json:"status"`
}

// trackingEvents is the answer of GET /shipment/{id}/tracking-events.
type trackingEvents struct {
	TrackingNumber string          `json:"tracking_number"`
	Status         string          `json:"status"`
	Events         []trackingEvent `json:"events"`
}

type trackingEvent struct {
	Timestamp   string `json:"timestamp"` // RFC 3339
	Description string `json:"description"`
	Location    string `json:"location"`
	Status      string `json:"status"`
	Code        string `json:"code,omitempty"`
}

// apiError is the body of a rejected call.
type apiError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}
