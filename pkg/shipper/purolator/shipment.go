package purolator

import (
	"encoding/xml"
	"fmt"

	"github.com/tournevent/shipbridge/pkg/shipper"
)

const (
	stepValidate = "validate"
	stepCreate   = "create"
	stepDocument = "document"
)

// CreateShipmentRequest builds a pipeline validating the shipment, creating
// it and fetching its label. Validation and creation halt the pipeline on
// transport failure; creation and label retrieval are skipped when the
// previous step reported carrier errors.
func (m *Mapper) CreateShipmentRequest(payload shipper.ShipmentRequest) (shipper.Request, error) {
	if payload.Parcel.Weight <= 0 {
		return nil, shipper.NewRequiredFieldError("parcel.weight")
	}
	if payload.Recipient.PostalCode == "" {
		return nil, shipper.NewRequiredFieldError("recipient.postal_code")
	}

	serviceID := payload.Service
	if serviceID == "" {
		serviceID = defaultService
	}
	printer := "Regular"
	if payload.LabelType == "ZPL" {
		printer = "Thermal"
	}

	body := shipment{
		ShipmentDate:        payload.Options["shipment_date"],
		SenderInformation:   party{Address: toAddress(payload.Shipper)},
		ReceiverInformation: party{Address: toAddress(payload.Recipient)},
		PackageInformation:  toPackage(serviceID, payload.Parcel),
		PaymentInformation:  m.toPayment(payload.Payment),
		PickupInformation:   pickupInformation{PickupType: "DropOff"},
	}
	if payload.Reference != "" {
		body.TrackingReference = &trackingReference{Reference1: payload.Reference}
	}

	validate := m.request(shippingService, "ValidateShipment", shipmentRequest{
		XMLName:     xml.Name{Local: "ns:ValidateShipmentRequest"},
		Shipment:    body,
		PrinterType: printer,
	})
	create := m.request(shippingService, "CreateShipment", shipmentRequest{
		XMLName:     xml.Name{Local: "ns:CreateShipmentRequest"},
		Shipment:    body,
		PrinterType: printer,
	})
	documentType := "DomesticBillOfLading"
	if printer == "Thermal" {
		documentType = "DomesticBillOfLadingThermal"
	}

	return shipper.NewPipeline(
		shipper.Step{
			Name:          stepValidate,
			HaltOnFailure: true,
			Build: func(*shipper.PipelineResponse) (shipper.Outbound, error) {
				return validate, nil
			},
		},
		shipper.Step{
			Name:          stepCreate,
			HaltOnFailure: true,
			Build: func(prior *shipper.PipelineResponse) (shipper.Outbound, error) {
				var res validateShipmentResponse
				if err := succeeded(prior, stepValidate, &res); err != nil {
					return nil, err
				}
				if !res.ValidShipment {
					return nil, fmt.Errorf("shipment is not valid: %w", shipper.ErrStepSkipped)
				}
				return create, nil
			},
		},
		shipper.Step{
			Name: stepDocument,
			Build: func(prior *shipper.PipelineResponse) (shipper.Outbound, error) {
				var res createShipmentResponse
				if err := succeeded(prior, stepCreate, &res); err != nil {
					return nil, err
				}
				if res.ShipmentPIN == "" {
					return nil, fmt.Errorf("no shipment PIN: %w", shipper.ErrStepSkipped)
				}
				return m.request(documentsService, "GetDocuments", getDocumentsRequest{
					OutputType:    "PDF",
					Synchronous:   true,
					PIN:           pin{Value: res.ShipmentPIN},
					DocumentTypes: []string{documentType},
				}), nil
			},
		},
	), nil
}

// ParseShipmentResponse reads the pipeline's steps in order. Details are
// returned only when a shipment PIN was issued.
func (m *Mapper) ParseShipmentResponse(resp shipper.Response) (*shipper.ShipmentDetails, []shipper.Message, error) {
	msgs := m.messages()

	var validated validateShipmentResponse
	if _, err := m.decodeStep(resp.Steps, stepValidate, &validated, msgs); err != nil {
		return nil, nil, parseError("shipment", err)
	}
	var created createShipmentResponse
	if _, err := m.decodeStep(resp.Steps, stepCreate, &created, msgs); err != nil {
		return nil, nil, parseError("shipment", err)
	}
	var docs getDocumentsResponse
	if _, err := m.decodeStep(resp.Steps, stepDocument, &docs, msgs); err != nil {
		return nil, nil, parseError("shipment", err)
	}

	if created.ShipmentPIN == "" {
		return nil, msgs.List(), nil
	}

	details := &shipper.ShipmentDetails{
		CarrierID:          m.settings.CarrierID(),
		CarrierName:        m.settings.CarrierName(),
		TrackingNumber:     created.ShipmentPIN,
		ShipmentIdentifier: created.ShipmentPIN,
	}
	for _, doc := range docs.Documents {
		for _, d := range doc.Details {
			if details.Label == "" && d.Data != "" {
				details.Label = d.Data
			}
			if details.LabelURL == "" && d.URL != "" {
				details.LabelURL = d.URL
			}
		}
	}
	return details, msgs.List(), nil
}

// CreateCancelShipmentRequest builds a VoidShipment call.
func (m *Mapper) CreateCancelShipmentRequest(payload shipper.ShipmentCancelRequest) (shipper.Request, error) {
	if payload.ShipmentIdentifier == "" {
		return nil, shipper.NewRequiredFieldError("shipment_identifier")
	}
	return m.request(shippingService, "VoidShipment", voidShipmentRequest{
		PIN: pin{Value: payload.ShipmentIdentifier},
	}), nil
}

// ParseCancelShipmentResponse reports whether the shipment was voided.
func (m *Mapper) ParseCancelShipmentResponse(resp shipper.Response) (*shipper.ConfirmationDetails, []shipper.Message, error) {
	msgs := m.messages()
	var out voidShipmentResponse
	if _, err := m.decode(resp.Body, &out, msgs); err != nil {
		return nil, nil, parseError("cancel_shipment", err)
	}
	if !out.ShipmentVoided {
		return nil, msgs.List(), nil
	}
	return &shipper.ConfirmationDetails{
		CarrierID:   m.settings.CarrierID(),
		CarrierName: m.settings.CarrierName(),
		Success:     true,
		Operation:   "Cancel Shipment",
	}, msgs.List(), nil
}
