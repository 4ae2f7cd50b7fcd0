package freightcom

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/tournevent/shipbridge/pkg/shipper"
)

const (
	stepCreate  = "create"
	stepDetails = "details"
)

// CreateShipmentRequest books a shipment, then fetches it to collect its
// tracking numbers and labels. The reference, or a fresh UUID, is sent as
// the unique id so a retried booking is not duplicated.
func (m *Mapper) CreateShipmentRequest(payload shipper.ShipmentRequest) (shipper.Request, error) {
	if payload.Service == "" {
		return nil, shipper.NewRequiredFieldError("service")
	}
	if payload.Parcel.Weight <= 0 {
		return nil, shipper.NewRequiredFieldError("parcel.weight")
	}
	if payload.Shipper.PostalCode == "" {
		return nil, shipper.NewRequiredFieldError("shipper.postal_code")
	}
	if payload.Recipient.PostalCode == "" {
		return nil, shipper.NewRequiredFieldError("recipient.postal_code")
	}
	if m.settings.PaymentMethodID == "" {
		return nil, fmt.Errorf("%w: freightcom payment method id is required for shipments", shipper.ErrInvalidSettings)
	}

	uniqueID := payload.Reference
	if uniqueID == "" {
		uniqueID = uuid.NewString()
	}
	create := post(m, "/shipment", shipmentRequest{
		UniqueID:        uniqueID,
		PaymentMethodID: m.settings.PaymentMethodID,
		ServiceID:       payload.Service,
		Details: shippingDetails{
			Origin:      toLocation(payload.Shipper),
			Destination: toLocation(payload.Recipient),
			Packaging:   toPackaging(payload.Parcel),
			Reference:   payload.Reference,
		},
		Sender:       toContact(payload.Shipper),
		Recipient:    toContact(payload.Recipient),
		LabelFormat:  labelFormat(payload.LabelType),
		Reference:    payload.Reference,
		Instructions: payload.Options["instructions"],
	})

	return shipper.NewPipeline(
		shipper.Step{
			Name:          stepCreate,
			HaltOnFailure: true,
			Build: func(*shipper.PipelineResponse) (shipper.Outbound, error) {
				return create, nil
			},
		},
		shipper.Step{
			Name: stepDetails,
			Build: func(prior *shipper.PipelineResponse) (shipper.Outbound, error) {
				var created shipmentCreated
				if err := available(prior, stepCreate, &created); err != nil {
					return nil, err
				}
				if created.ID == "" {
					return nil, fmt.Errorf("%s returned no shipment id: %w", stepCreate, shipper.ErrStepSkipped)
				}
				return fetch(m, http.MethodGet, "/shipment/"+url.PathEscape(created.ID)), nil
			},
		},
	), nil
}

func labelFormat(labelType string) string {
	if strings.EqualFold(labelType, "ZPL") {
		return "zpl"
	}
	return "pdf"
}

// ParseShipmentResponse returns the booked shipment. When the details call
// failed the shipment is still reported with the id from the booking.
func (m *Mapper) ParseShipmentResponse(resp shipper.Response) (*shipper.ShipmentDetails, []shipper.Message, error) {
	msgs := m.messages()

	var created shipmentCreated
	ok, err := m.decodeStep(resp.Steps, stepCreate, &created, msgs)
	if err != nil {
		return nil, nil, parseError("shipment", err)
	}
	if !ok || created.ID == "" {
		return nil, msgs.List(), nil
	}
	if created.PreviouslyCreated {
		msgs.Warning("PREVIOUSLY_CREATED", "shipment "+created.ID+" was already booked with this unique id")
	}

	details := &shipper.ShipmentDetails{
		CarrierID:          m.settings.CarrierID(),
		CarrierName:        m.settings.CarrierName(),
		ShipmentIdentifier: created.ID,
	}

	var s shipment
	ok, err = m.decodeStep(resp.Steps, stepDetails, &s, msgs)
	if err != nil {
		return nil, nil, parseError("shipment", err)
	}
	if !ok {
		return details, msgs.List(), nil
	}

	if len(s.TrackingNumbers) > 0 {
		details.TrackingNumber = s.TrackingNumbers[0]
	}
	if len(s.Labels) > 0 {
		details.LabelURL = s.Labels[0].URL
	}
	if s.TotalCharged != 0 {
		currency := s.Currency
		if currency == "" {
			currency = "CAD"
		}
		details.SelectedRate = &shipper.RateDetails{
			CarrierID:   details.CarrierID,
			CarrierName: details.CarrierName,
			Service:     s.ServiceID,
			Currency:    currency,
			TotalCharge: money(s.TotalCharged),
		}
	}
	return details, msgs.List(), nil
}

// CreateCancelShipmentRequest builds a shipment cancellation.
func (m *Mapper) CreateCancelShipmentRequest(payload shipper.ShipmentCancelRequest) (shipper.Request, error) {
	if payload.ShipmentIdentifier == "" {
		return nil, shipper.NewRequiredFieldError("shipment_identifier")
	}
	return fetch(m, http.MethodDelete, "/shipment/"+url.PathEscape(payload.ShipmentIdentifier)), nil
}

// ParseCancelShipmentResponse treats an empty response as a successful
// cancellation.
func (m *Mapper) ParseCancelShipmentResponse(resp shipper.Response) (*shipper.ConfirmationDetails, []shipper.Message, error) {
	msgs := m.messages()
	var c cancellation
	if _, err := m.decode(resp.Body, &c, msgs); err != nil {
		return nil, nil, parseError("cancel_shipment", err)
	}
	if msgs.HasErrors() {
		return nil, msgs.List(), nil
	}
	return &shipper.ConfirmationDetails{
		CarrierID:   m.settings.CarrierID(),
		CarrierName: m.settings.CarrierName(),
		Success:     c.Status == "" || c.Status == "cancelled",
		Operation:   "Cancel Shipment",
	}, msgs.List(), nil
}
