package purolator_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/shipbridge/pkg/shipper"
	"github.com/tournevent/shipbridge/pkg/shipper/purolator"
)

func newTestMapper(t *testing.T) *purolator.Mapper {
	t.Helper()
	m, err := purolator.New(&purolator.Settings{
		BaseSettings:  shipper.BaseSettings{AccountID: "puro-test", Test: true},
		Username:      "user",
		Password:      "pass",
		AccountNumber: "1234567",
		UserToken:     "token",
	})
	require.NoError(t, err)
	return m
}

func envelope(body string) []byte {
	return []byte(`<?xml version="1.0" encoding="utf-8"?>
<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/">
  <s:Body>` + body + `</s:Body>
</s:Envelope>`)
}

func sampleRateRequest() shipper.RateRequest {
	return shipper.RateRequest{
		Shipper: shipper.Address{
			AddressLine1: "123 Main St",
			City:         "Toronto",
			StateCode:    "ON",
			PostalCode:   "M5V 1A1",
			CountryCode:  "CA",
		},
		Recipient: shipper.Address{
			AddressLine1: "456 Oak Ave",
			City:         "Vancouver",
			StateCode:    "BC",
			PostalCode:   "V6B2W2",
			CountryCode:  "CA",
		},
		Parcel: shipper.Parcel{Weight: 2, WeightUnit: shipper.WeightKG, Length: 30, Width: 20, Height: 10},
	}
}

func sampleShipmentRequest() shipper.ShipmentRequest {
	rate := sampleRateRequest()
	return shipper.ShipmentRequest{
		Service:   "PurolatorGround",
		Shipper:   rate.Shipper,
		Recipient: rate.Recipient,
		Parcel:    rate.Parcel,
	}
}

// soapTransport answers by SOAP action and records the actions it received.
type soapTransport struct {
	responses map[string][]byte
	failures  map[string]error
	actions   []string
}

func (s *soapTransport) Send(_ context.Context, req shipper.Outbound) ([]byte, error) {
	ep := req.Target()
	action := ep.SOAPAction[strings.LastIndex(ep.SOAPAction, "/")+1:]
	s.actions = append(s.actions, action)
	if _, err := req.Serialize(); err != nil {
		return nil, err
	}
	if err := s.failures[action]; err != nil {
		return nil, err
	}
	return s.responses[action], nil
}

func TestNew_RequiresCredentials(t *testing.T) {
	_, err := purolator.New(&purolator.Settings{})
	assert.ErrorIs(t, err, shipper.ErrInvalidSettings)

	_, err = purolator.New(nil)
	assert.ErrorIs(t, err, shipper.ErrInvalidSettings)
}

func TestNew_LeavesCallerSettingsUntouched(t *testing.T) {
	settings := &purolator.Settings{
		BaseSettings: shipper.BaseSettings{AccountID: "puro"},
		Username:     "user",
		Password:     "pass",
	}
	before := *settings

	m, err := purolator.New(settings)

	require.NoError(t, err)
	assert.Equal(t, before, *settings)
	assert.Equal(t, "purolator", m.Settings().CarrierID())
	assert.Equal(t, "Purolator", m.Settings().CarrierName())
}

func TestSettings_Defaults(t *testing.T) {
	m := newTestMapper(t)
	s := m.Settings()
	assert.Equal(t, "puro-test", s.ID())
	assert.Equal(t, "purolator", s.CarrierID())
	assert.Equal(t, "Purolator", s.CarrierName())
	assert.True(t, s.IsTest())
}

func TestProvider_RejectsForeignSettings(t *testing.T) {
	p := purolator.Provider()
	_, err := p.NewMapper(shipper.BaseSettings{Carrier: "purolator"})
	assert.ErrorIs(t, err, shipper.ErrInvalidSettings)

	settings := p.NewSettings()
	assert.Equal(t, "purolator", settings.CarrierID())
}

func TestCreateRateRequest_MissingWeight(t *testing.T) {
	m := newTestMapper(t)
	req := sampleRateRequest()
	req.Parcel.Weight = 0

	_, err := m.CreateRateRequest(req)

	var fieldErr *shipper.RequiredFieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "parcel.weight", fieldErr.Field)
	assert.ErrorIs(t, err, shipper.ErrRequiredField)
}

func TestCreateRateRequest_Envelope(t *testing.T) {
	m := newTestMapper(t)

	req, err := m.CreateRateRequest(sampleRateRequest())
	require.NoError(t, err)

	out, ok := req.(shipper.Outbound)
	require.True(t, ok)

	ep := out.Target()
	assert.Equal(t, "https://devwebservices.purolator.com/EWS/V2/Estimating/EstimatingService.asmx", ep.URL)
	assert.Equal(t, "http://purolator.com/pws/service/v2/GetFullEstimate", ep.SOAPAction)
	assert.Equal(t, "user", ep.Username)

	body, err := out.Serialize()
	require.NoError(t, err)
	xml := string(body)
	assert.Contains(t, xml, `xmlns:ns="http://purolator.com/pws/datatypes/v2"`)
	assert.Contains(t, xml, "<ns:GetFullEstimateRequest>")
	assert.Contains(t, xml, "<ns:UserToken>token</ns:UserToken>")
	assert.Contains(t, xml, "<ns:PostalCode>M5V1A1</ns:PostalCode>")
	assert.Contains(t, xml, "<ns:StreetNumber>123</ns:StreetNumber>")
	assert.Contains(t, xml, "<ns:Value>4.41</ns:Value>")
	assert.Contains(t, xml, "<ns:RegisteredAccountNumber>1234567</ns:RegisteredAccountNumber>")

	again, err := out.Serialize()
	require.NoError(t, err)
	assert.Equal(t, body, again)
}

func TestParseRateResponse_ErrorOnly(t *testing.T) {
	m := newTestMapper(t)
	body := envelope(`<GetFullEstimateResponse xmlns="http://purolator.com/pws/datatypes/v2">
  <ResponseInformation>
    <Errors><Error><Code>1100541</Code><Description>Invalid postal code</Description></Error></Errors>
  </ResponseInformation>
  <ShipmentEstimates/>
</GetFullEstimateResponse>`)

	rates, msgs, err := m.ParseRateResponse(shipper.Response{Body: body})

	require.NoError(t, err)
	assert.Empty(t, rates)
	require.Len(t, msgs, 1)
	assert.Equal(t, "1100541", msgs[0].Code)
	assert.Equal(t, shipper.SeverityError, msgs[0].Severity)
	assert.Equal(t, "purolator", msgs[0].CarrierID)
}

func TestParseRateResponse_EstimateWithWarning(t *testing.T) {
	m := newTestMapper(t)
	body := envelope(`<GetFullEstimateResponse xmlns="http://purolator.com/pws/datatypes/v2">
  <ResponseInformation>
    <Errors/>
    <InformationalMessages>
      <InformationalMessage><Code>W1</Code><Message>Rates are estimates</Message></InformationalMessage>
    </InformationalMessages>
  </ResponseInformation>
  <ShipmentEstimates>
    <ShipmentEstimate>
      <ServiceID>PurolatorGround</ServiceID>
      <ExpectedDeliveryDate>2026-10-23</ExpectedDeliveryDate>
      <EstimatedTransitDays>4</EstimatedTransitDays>
      <BasePrice>16.75</BasePrice>
      <Surcharges><Surcharge><Amount>2.01</Amount><Type>Fuel</Type><Description>Fuel</Description></Surcharge></Surcharges>
      <Taxes><Tax><Amount>2.44</Amount><Type>HST</Type><Description>HST</Description></Tax></Taxes>
      <TotalPrice>21.20</TotalPrice>
    </ShipmentEstimate>
  </ShipmentEstimates>
</GetFullEstimateResponse>`)

	rates, msgs, err := m.ParseRateResponse(shipper.Response{Body: body})

	require.NoError(t, err)
	require.Len(t, rates, 1)
	require.Len(t, msgs, 1)
	assert.Equal(t, shipper.SeverityWarning, msgs[0].Severity)

	rate := rates[0]
	assert.Equal(t, "PurolatorGround", rate.Service)
	assert.Equal(t, "21.2", rate.TotalCharge.String())
	assert.Equal(t, "2.44", rate.DutiesAndTaxes.String())
	assert.Equal(t, 4, rate.TransitDays)
	assert.Len(t, rate.ExtraCharges, 2)
}

func TestParseRateResponse_Fault(t *testing.T) {
	m := newTestMapper(t)
	body := envelope(`<s:Fault><faultcode>s:Client</faultcode><faultstring>Authentication failed</faultstring></s:Fault>`)

	rates, msgs, err := m.ParseRateResponse(shipper.Response{Body: body})

	require.NoError(t, err)
	assert.Empty(t, rates)
	require.Len(t, msgs, 1)
	assert.Equal(t, "s:Client", msgs[0].Code)
}

func TestParseRateResponse_Malformed(t *testing.T) {
	m := newTestMapper(t)

	_, _, err := m.ParseRateResponse(shipper.Response{Body: []byte("not xml")})

	assert.ErrorIs(t, err, shipper.ErrMalformedResponse)
}

const (
	validShipment     = `<ValidateShipmentResponse><ResponseInformation><Errors/></ResponseInformation><ValidShipment>true</ValidShipment></ValidateShipmentResponse>`
	createdShipment   = `<CreateShipmentResponse><ResponseInformation><Errors/></ResponseInformation><ShipmentPIN><Value>329014521622</Value></ShipmentPIN></CreateShipmentResponse>`
	shipmentDocuments = `<GetDocumentsResponse><ResponseInformation><Errors/></ResponseInformation><Documents><Document><PIN><Value>329014521622</Value></PIN><DocumentDetails><DocumentDetail><DocumentType>DomesticBillOfLading</DocumentType><DocumentStatus>Completed</DocumentStatus><Data>JVBERi0=</Data></DocumentDetail></DocumentDetails></Document></Documents></GetDocumentsResponse>`
)

func TestShipmentPipeline_AllSucceed(t *testing.T) {
	m := newTestMapper(t)
	transport := &soapTransport{responses: map[string][]byte{
		"ValidateShipment": envelope(validShipment),
		"CreateShipment":   envelope(createdShipment),
		"GetDocuments":     envelope(shipmentDocuments),
	}}
	gw := shipper.NewGateway(m, transport)

	details, msgs, err := gw.CreateShipment(context.Background(), sampleShipmentRequest())

	require.NoError(t, err)
	assert.Empty(t, msgs)
	require.NotNil(t, details)
	assert.Equal(t, "329014521622", details.TrackingNumber)
	assert.Equal(t, "JVBERi0=", details.Label)
	assert.Equal(t, []string{"ValidateShipment", "CreateShipment", "GetDocuments"}, transport.actions)
}

func TestShipmentPipeline_ValidationFailureHalts(t *testing.T) {
	m := newTestMapper(t)
	transport := &soapTransport{
		failures: map[string]error{
			"ValidateShipment": shipper.NewTransportError("purolator", "HTTP_503", "Service Unavailable"),
		},
	}

	req, err := m.CreateShipmentRequest(sampleShipmentRequest())
	require.NoError(t, err)
	pipeline := req.(*shipper.Pipeline)

	steps := pipeline.Run(context.Background(), transport)
	assert.Equal(t, []string{"validate"}, steps.Names())
	assert.Equal(t, []string{"ValidateShipment"}, transport.actions)

	details, msgs, err := m.ParseShipmentResponse(shipper.Response{Steps: steps})
	require.NoError(t, err)
	assert.Nil(t, details)
	require.Len(t, msgs, 1)
	assert.Equal(t, "HTTP_503", msgs[0].Code)
	assert.Equal(t, "validate", msgs[0].Details["step"])
}

func TestShipmentPipeline_InvalidShipmentSkipsCreation(t *testing.T) {
	m := newTestMapper(t)
	transport := &soapTransport{responses: map[string][]byte{
		"ValidateShipment": envelope(`<ValidateShipmentResponse><ResponseInformation><Errors>
<Error><Code>3001</Code><Description>Receiver postal code is invalid</Description></Error>
</Errors></ResponseInformation><ValidShipment>false</ValidShipment></ValidateShipmentResponse>`),
	}}
	gw := shipper.NewGateway(m, transport)

	details, msgs, err := gw.CreateShipment(context.Background(), sampleShipmentRequest())

	require.NoError(t, err)
	assert.Nil(t, details)
	require.Len(t, msgs, 1)
	assert.Equal(t, "3001", msgs[0].Code)
	assert.Equal(t, []string{"ValidateShipment"}, transport.actions)
}

func TestShipmentPipeline_DocumentFailureKeepsShipment(t *testing.T) {
	m := newTestMapper(t)
	transport := &soapTransport{
		responses: map[string][]byte{
			"ValidateShipment": envelope(validShipment),
			"CreateShipment":   envelope(createdShipment),
		},
		failures: map[string]error{
			"GetDocuments": errors.New("connection reset"),
		},
	}
	gw := shipper.NewGateway(m, transport)

	details, msgs, err := gw.CreateShipment(context.Background(), sampleShipmentRequest())

	require.NoError(t, err)
	require.NotNil(t, details)
	assert.Equal(t, "329014521622", details.ShipmentIdentifier)
	assert.Empty(t, details.Label)
	require.Len(t, msgs, 1)
	assert.Equal(t, "STEP_FAILED", msgs[0].Code)
	assert.Equal(t, "document", msgs[0].Details["step"])
}

func TestTracking(t *testing.T) {
	m := newTestMapper(t)
	transport := &soapTransport{responses: map[string][]byte{
		"TrackPackagesByPin": envelope(`<TrackPackagesByPinResponse xmlns="http://purolator.com/pws/datatypes/v1">
  <ResponseInformation><Errors/></ResponseInformation>
  <TrackingInformationList>
    <TrackingInformation>
      <PIN><Value>329014521622</Value></PIN>
      <Scans>
        <Scan><ScanType>Delivery</ScanType><ScanDate>2026-10-20</ScanDate><ScanTime>141500</ScanTime><Description>Delivered</Description><Depot><Name>Vancouver</Name></Depot></Scan>
        <Scan><ScanType>PickUp</ScanType><ScanDate>2026-10-19</ScanDate><ScanTime>091000</ScanTime><Description>Picked up</Description><Depot><Name>Toronto</Name></Depot></Scan>
      </Scans>
    </TrackingInformation>
  </TrackingInformationList>
</TrackPackagesByPinResponse>`),
	}}
	gw := shipper.NewGateway(m, transport)

	details, msgs, err := gw.Track(context.Background(), shipper.TrackingRequest{TrackingNumbers: []string{"329014521622"}})

	require.NoError(t, err)
	assert.Empty(t, msgs)
	require.Len(t, details, 1)
	assert.True(t, details[0].Delivered)
	require.Len(t, details[0].Events, 2)
	assert.Equal(t, "Vancouver", details[0].Events[0].Location)
}

func TestTracking_RequiresNumbers(t *testing.T) {
	m := newTestMapper(t)
	_, err := m.CreateTrackingRequest(shipper.TrackingRequest{})
	assert.ErrorIs(t, err, shipper.ErrRequiredField)
}

func TestPickupPipeline(t *testing.T) {
	m := newTestMapper(t)
	transport := &soapTransport{responses: map[string][]byte{
		"ValidatePickUp": envelope(`<ValidatePickUpResponse><ResponseInformation><Errors/></ResponseInformation></ValidatePickUpResponse>`),
		"SchedulePickUp": envelope(`<SchedulePickUpResponse><ResponseInformation><Errors/></ResponseInformation><PickupConfirmationNumber>01234567</PickupConfirmationNumber></SchedulePickUpResponse>`),
	}}
	gw := shipper.NewGateway(m, transport)

	details, msgs, err := gw.SchedulePickup(context.Background(), shipper.PickupRequest{
		PickupDate:  "2026-10-21",
		ReadyTime:   "12:00",
		ClosingTime: "17:00",
		Address:     sampleRateRequest().Shipper,
		Parcels:     []shipper.Parcel{{Weight: 1}},
	})

	require.NoError(t, err)
	assert.Empty(t, msgs)
	require.NotNil(t, details)
	assert.Equal(t, "01234567", details.ConfirmationNumber)
	assert.Equal(t, []string{"ValidatePickUp", "SchedulePickUp"}, transport.actions)
}

func TestCancelPickup(t *testing.T) {
	m := newTestMapper(t)
	transport := &soapTransport{responses: map[string][]byte{
		"VoidPickUp": envelope(`<VoidPickUpResponse><ResponseInformation><Errors/></ResponseInformation><PickupVoided>true</PickupVoided></VoidPickUpResponse>`),
	}}
	gw := shipper.NewGateway(m, transport)

	details, _, err := gw.CancelPickup(context.Background(), shipper.PickupCancelRequest{ConfirmationNumber: "01234567"})

	require.NoError(t, err)
	require.NotNil(t, details)
	assert.True(t, details.Success)
}

func TestValidateAddress(t *testing.T) {
	m := newTestMapper(t)
	transport := &soapTransport{responses: map[string][]byte{
		"ValidateCityPostalCodeZip": envelope(`<ValidateCityPostalCodeZipResponse>
<ResponseInformation><Errors/></ResponseInformation>
<SuggestedAddresses><SuggestedAddress><Address><City>TORONTO</City><Province>ON</Province><Country>CA</Country><PostalCode>M5V1A1</PostalCode></Address></SuggestedAddress></SuggestedAddresses>
</ValidateCityPostalCodeZipResponse>`),
	}}
	gw := shipper.NewGateway(m, transport)

	details, msgs, err := gw.ValidateAddress(context.Background(), shipper.AddressValidationRequest{
		Address: sampleRateRequest().Shipper,
	})

	require.NoError(t, err)
	assert.Empty(t, msgs)
	assert.True(t, details.Success)
	require.NotNil(t, details.CompleteAddress)
	assert.Equal(t, "TORONTO", details.CompleteAddress.City)
}

func TestCancelShipment_TransportErrorPropagates(t *testing.T) {
	m := newTestMapper(t)
	transport := &soapTransport{failures: map[string]error{
		"VoidShipment": shipper.NewTransportError("purolator", "HTTP_500", "Internal Server Error"),
	}}
	gw := shipper.NewGateway(m, transport)

	_, _, err := gw.CancelShipment(context.Background(), shipper.ShipmentCancelRequest{ShipmentIdentifier: "329014521622"})

	var terr *shipper.TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "HTTP_500", terr.Code)
}
