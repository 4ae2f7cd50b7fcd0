// Package shipper normalizes shipping carrier APIs behind one carrier-agnostic
// contract. A Mapper turns canonical requests into unexecuted carrier requests
// (a single Serializable or a Pipeline) and parses raw responses back into
// canonical details plus diagnostic messages.
package shipper

// Mapper is implemented by every carrier adapter. Create methods are pure and
// return a *RequiredFieldError when the payload lacks a mandatory field. Parse
// methods translate carrier-reported errors into messages and only fail when
// the payload cannot be parsed at all.
type Mapper interface {
	// Settings returns the account the mapper is bound to.
	Settings() Settings

	CreateAddressValidationRequest(payload AddressValidationRequest) (Request, error)
	CreateRateRequest(payload RateRequest) (Request, error)
	CreateTrackingRequest(payload TrackingRequest) (Request, error)
	CreateShipmentRequest(payload ShipmentRequest) (Request, error)
	CreateCancelShipmentRequest(payload ShipmentCancelRequest) (Request, error)
	CreatePickupRequest(payload PickupRequest) (Request, error)
	CreatePickupUpdateRequest(payload PickupUpdateRequest) (Request, error)
	CreateCancelPickupRequest(payload PickupCancelRequest) (Request, error)

	ParseAddressValidationResponse(resp Response) (*AddressValidationDetails, []Message, error)
	ParseRateResponse(resp Response) ([]RateDetails, []Message, error)
	ParseTrackingResponse(resp Response) ([]TrackingDetails, []Message, error)
	ParseShipmentResponse(resp Response) (*ShipmentDetails, []Message, error)
	ParseCancelShipmentResponse(resp Response) (*ConfirmationDetails, []Message, error)
	ParsePickupResponse(resp Response) (*PickupDetails, []Message, error)
	ParsePickupUpdateResponse(resp Response) (*PickupDetails, []Message, error)
	ParseCancelPickupResponse(resp Response) (*ConfirmationDetails, []Message, error)
}

// Unsupported provides Mapper methods that report ErrOperationNotSupported.
// Carrier mappers embed it and override what the carrier offers.
type Unsupported struct {
	Carrier string
}

func (u Unsupported) CreateAddressValidationRequest(AddressValidationRequest) (Request, error) {
	return nil, NotSupported(u.Carrier, "address validation")
}

func (u Unsupported) CreateRateRequest(RateRequest) (Request, error) {
	return nil, NotSupported(u.Carrier, "rate")
}

func (u Unsupported) CreateTrackingRequest(TrackingRequest) (Request, error) {
	return nil, NotSupported(u.Carrier, "tracking")
}

func (u Unsupported) CreateShipmentRequest(ShipmentRequest) (Request, error) {
	return nil, NotSupported(u.Carrier, "shipment")
}

func (u Unsupported) CreateCancelShipmentRequest(ShipmentCancelRequest) (Request, error) {
	return nil, NotSupported(u.Carrier, "cancel shipment")
}

func (u Unsupported) CreatePickupRequest(PickupRequest) (Request, error) {
	return nil, NotSupported(u.Carrier, "pickup")
}

func (u Unsupported) CreatePickupUpdateRequest(PickupUpdateRequest) (Request, error) {
	return nil, NotSupported(u.Carrier, "pickup update")
}

func (u Unsupported) CreateCancelPickupRequest(PickupCancelRequest) (Request, error) {
	return nil, NotSupported(u.Carrier, "cancel pickup")
}

func (u Unsupported) ParseAddressValidationResponse(Response) (*AddressValidationDetails, []Message, error) {
	return nil, nil, NotSupported(u.Carrier, "address validation")
}

func (u Unsupported) ParseRateResponse(Response) ([]RateDetails, []Message, error) {
	return nil, nil, NotSupported(u.Carrier, "rate")
}

func (u Unsupported) ParseTrackingResponse(Response) ([]TrackingDetails, []Message, error) {
	return nil, nil, NotSupported(u.Carrier, "tracking")
}

func (u Unsupported) ParseShipmentResponse(Response) (*ShipmentDetails, []Message, error) {
	return nil, nil, NotSupported(u.Carrier, "shipment")
}

func (u Unsupported) ParseCancelShipmentResponse(Response) (*ConfirmationDetails, []Message, error) {
	return nil, nil, NotSupported(u.Carrier, "cancel shipment")
}

func (u Unsupported) ParsePickupResponse(Response) (*PickupDetails, []Message, error) {
	return nil, nil, NotSupported(u.Carrier, "pickup")
}

func (u Unsupported) ParsePickupUpdateResponse(Response) (*PickupDetails, []Message, error) {
	return nil, nil, NotSupported(u.Carrier, "pickup update")
}

func (u Unsupported) ParseCancelPickupResponse(Response) (*ConfirmationDetails, []Message, error) {
	return nil, nil, NotSupported(u.Carrier, "cancel pickup")
}
