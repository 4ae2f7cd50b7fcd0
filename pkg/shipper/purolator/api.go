package purolator

import "encoding/xml"

// Request elements carry the "ns" prefix, bound per service to the v1 or v2
// datatypes namespace when the envelope is rendered.

type requestContext struct {
	XMLName          xml.Name `xml:"ns:RequestContext"`
	Version          string   `xml:"ns:Version"`
	Language         string   `xml:"ns:Language"`
	GroupID          string   `xml:"ns:GroupID"`
	RequestReference string   `xml:"ns:RequestReference"`
	UserToken        string   `xml:"ns:UserToken,omitempty"`
}

type address struct {
	Name           string       `xml:"ns:Name,omitempty"`
	Company        string       `xml:"ns:Company,omitempty"`
	StreetNumber   string       `xml:"ns:StreetNumber,omitempty"`
	StreetName     string       `xml:"ns:StreetName,omitempty"`
	StreetAddress2 string       `xml:"ns:StreetAddress2,omitempty"`
	City           string       `xml:"ns:City,omitempty"`
	Province       string       `xml:"ns:Province,omitempty"`
	Country        string       `xml:"ns:Country,omitempty"`
	PostalCode     string       `xml:"ns:PostalCode,omitempty"`
	PhoneNumber    *phoneNumber `xml:"ns:PhoneNumber,omitempty"`
}

type phoneNumber struct {
	CountryCode string `xml:"ns:CountryCode"`
	AreaCode    string `xml:"ns:AreaCode"`
	Phone       string `xml:"ns:Phone"`
}

type party struct {
	Address address `xml:"ns:Address"`
}

type weight struct {
	Value      string `xml:"ns:Value"`
	WeightUnit string `xml:"ns:WeightUnit"`
}

type dimension struct {
	Value         string `xml:"ns:Value"`
	DimensionUnit string `xml:"ns:DimensionUnit"`
}

type piece struct {
	Weight weight     `xml:"ns:Weight"`
	Length *dimension `xml:"ns:Length,omitempty"`
	Width  *dimension `xml:"ns:Width,omitempty"`
	Height *dimension `xml:"ns:Height,omitempty"`
}

type packageInformation struct {
	ServiceID   string  `xml:"ns:ServiceID"`
	Description string  `xml:"ns:Description,omitempty"`
	TotalWeight weight  `xml:"ns:TotalWeight"`
	TotalPieces int     `xml:"ns:TotalPieces"`
	Pieces      []piece `xml:"ns:PiecesInformation>ns:Piece"`
}

type paymentInformation struct {
	PaymentType             string `xml:"ns:PaymentType"`
	RegisteredAccountNumber string `xml:"ns:RegisteredAccountNumber"`
	BillingAccountNumber    string `xml:"ns:BillingAccountNumber,omitempty"`
}

type pickupInformation struct {
	PickupType string `xml:"ns:PickupType"`
}

type shipment struct {
	ShipmentDate        string             `xml:"ns:ShipmentDate,omitempty"`
	SenderInformation   party              `xml:"ns:SenderInformation"`
	ReceiverInformation party              `xml:"ns:ReceiverInformation"`
	PackageInformation  packageInformation `xml:"ns:PackageInformation"`
	PaymentInformation  paymentInformation `xml:"ns:PaymentInformation"`
	PickupInformation   pickupInformation  `xml:"ns:PickupInformation"`
	TrackingReference   *trackingReference `xml:"ns:TrackingReferenceInformation,omitempty"`
}

type trackingReference struct {
	Reference1 string `xml:"ns:Reference1"`
}

type pin struct {
	Value string `xml:"ns:Value"`
}

type getFullEstimateRequest struct {
	XMLName                 xml.Name `xml:"ns:GetFullEstimateRequest"`
	Shipment                shipment `xml:"ns:Shipment"`
	ShowAlternativeServices bool     `xml:"ns:ShowAlternativeServicesIndicator"`
}

type shipmentRequest struct {
	XMLName     xml.Name
	Shipment    shipment `xml:"ns:Shipment"`
	PrinterType string   `xml:"ns:PrinterType"`
}

type getDocumentsRequest struct {
	XMLName       xml.Name `xml:"ns:GetDocumentsRequest"`
	OutputType    string   `xml:"ns:OutputType"`
	Synchronous   bool     `xml:"ns:Synchronous"`
	PIN           pin      `xml:"ns:DocumentCriterium>ns:DocumentCriteria>ns:PIN"`
	DocumentTypes []string `xml:"ns:DocumentCriterium>ns:DocumentCriteria>ns:DocumentTypes>ns:DocumentType"`
}

type voidShipmentRequest struct {
	XMLName xml.Name `xml:"ns:VoidShipmentRequest"`
	PIN     pin      `xml:"ns:PIN"`
}

type trackPackagesByPinRequest struct {
	XMLName xml.Name `xml:"ns:TrackPackagesByPinRequest"`
	PINs    []pin    `xml:"ns:PINs>ns:PIN"`
}

type shortAddress struct {
	City       string `xml:"ns:City"`
	Province   string `xml:"ns:Province"`
	Country    string `xml:"ns:Country"`
	PostalCode string `xml:"ns:PostalCode"`
}

type validateCityPostalCodeZipRequest struct {
	XMLName   xml.Name       `xml:"ns:ValidateCityPostalCodeZipRequest"`
	Addresses []shortAddress `xml:"ns:Addresses>ns:ShortAddress"`
}

type pickupInstruction struct {
	Date                   string `xml:"ns:Date"`
	AnyTimeAfter           string `xml:"ns:AnyTimeAfter"`
	UntilTime              string `xml:"ns:UntilTime"`
	TotalWeight            weight `xml:"ns:TotalWeight"`
	TotalPieces            int    `xml:"ns:TotalPieces"`
	PickUpLocation         string `xml:"ns:PickUpLocation"`
	AdditionalInstructions string `xml:"ns:AdditionalInstructions,omitempty"`
}

// pickupRequest renders ValidatePickUpRequest, SchedulePickUpRequest and
// ModifyPickUpRequest, which share one shape.
type pickupRequest struct {
	XMLName                  xml.Name
	BillingAccountNumber     string            `xml:"ns:BillingAccountNumber"`
	PickupConfirmationNumber string            `xml:"ns:PickupConfirmationNumber,omitempty"`
	PartnerID                string            `xml:"ns:PartnerID"`
	PickupInstruction        pickupInstruction `xml:"ns:PickupInstruction"`
	Address                  address           `xml:"ns:Address"`
}

type voidPickUpRequest struct {
	XMLName                  xml.Name `xml:"ns:VoidPickUpRequest"`
	PickupConfirmationNumber string   `xml:"ns:PickupConfirmationNumber"`
}

// Responses are matched on local names only.

type responseInfo struct {
	Errors   []responseError   `xml:"ResponseInformation>Errors>Error"`
	Messages []responseMessage `xml:"ResponseInformation>InformationalMessages>InformationalMessage"`
}

type responseError struct {
	Code                  string `xml:"Code"`
	Description           string `xml:"Description"`
	AdditionalInformation string `xml:"AdditionalInformation"`
}

type responseMessage struct {
	Code    string `xml:"Code"`
	Message string `xml:"Message"`
}

func (r *responseInfo) info() *responseInfo { return r }

type getFullEstimateResponse struct {
	responseInfo
	Estimates []shipmentEstimate `xml:"ShipmentEstimates>ShipmentEstimate"`
}

type shipmentEstimate struct {
	ServiceID            string      `xml:"ServiceID"`
	ShipmentDate         string      `xml:"ShipmentDate"`
	ExpectedDeliveryDate string      `xml:"ExpectedDeliveryDate"`
	EstimatedTransitDays int         `xml:"EstimatedTransitDays"`
	BasePrice            string      `xml:"BasePrice"`
	Surcharges           []surcharge `xml:"Surcharges>Surcharge"`
	Taxes                []surcharge `xml:"Taxes>Tax"`
	OptionPrices         []surcharge `xml:"OptionPrices>OptionPrice"`
	TotalPrice           string      `xml:"TotalPrice"`
}

type surcharge struct {
	Amount      string `xml:"Amount"`
	Type        string `xml:"Type"`
	Description string `xml:"Description"`
}

type validateShipmentResponse struct {
	responseInfo
	ValidShipment bool `xml:"ValidShipment"`
}

type createShipmentResponse struct {
	responseInfo
	ShipmentPIN string   `xml:"ShipmentPIN>Value"`
	PiecePINs   []string `xml:"PiecePINs>PIN>Value"`
}

type getDocumentsResponse struct {
	responseInfo
	Documents []document `xml:"Documents>Document"`
}

type document struct {
	PIN     string           `xml:"PIN>Value"`
	Details []documentDetail `xml:"DocumentDetails>DocumentDetail"`
}

type documentDetail struct {
	DocumentType   string `xml:"DocumentType"`
	DocumentStatus string `xml:"DocumentStatus"`
	URL            string `xml:"URL"`
	Data           string `xml:"Data"`
}

type voidShipmentResponse struct {
	responseInfo
	ShipmentVoided bool `xml:"ShipmentVoided"`
}

type trackPackagesByPinResponse struct {
	responseInfo
	TrackingInformation []trackingInfo `xml:"TrackingInformationList>TrackingInformation"`
}

type trackingInfo struct {
	PIN   string `xml:"PIN>Value"`
	Scans []scan `xml:"Scans>Scan"`
}

type scan struct {
	ScanType    string `xml:"ScanType"`
	ScanDate    string `xml:"ScanDate"`
	ScanTime    string `xml:"ScanTime"`
	Description string `xml:"Description"`
	Depot       string `xml:"Depot>Name"`
}

type validateCityPostalCodeZipResponse struct {
	responseInfo
	SuggestedAddresses []suggestedAddress `xml:"SuggestedAddresses>SuggestedAddress"`
}

type suggestedAddress struct {
	City       string `xml:"Address>City"`
	Province   string `xml:"Address>Province"`
	Country    string `xml:"Address>Country"`
	PostalCode string `xml:"Address>PostalCode"`
}

type validatePickUpResponse struct {
	responseInfo
	IsBusinessRelated bool `xml:"IsBusinessRelated"`
}

type pickUpResponse struct {
	responseInfo
	PickupConfirmationNumber string `xml:"PickupConfirmationNumber"`
}

type voidPickUpResponse struct {
	responseInfo
	PickupVoided bool `xml:"PickupVoided"`
}
