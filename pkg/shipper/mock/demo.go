package mock

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tournevent/shipbridge/pkg/shipper"
)

// NewDemoTransport returns a transport answering every mock operation with
// canned data, for running the service without carrier credentials.
func NewDemoTransport() *Transport {
	t := NewTransport()
	t.OnSend = Demo
	return t
}

// Demo answers a mock request with canned data.
func Demo(_ context.Context, req shipper.Outbound) ([]byte, error) {
	body, err := req.Serialize()
	if err != nil {
		return nil, err
	}
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, shipper.NewTransportError(carrierID, "BAD_REQUEST", "mock request is not an envelope").
			WithCause(err).
			WithStatusCode(400)
	}

	now := time.Now()
	var reply Reply
	switch env.Operation {
	case OpRate:
		reply.Rates = demoRates(now)
	case OpTracking:
		var payload shipper.TrackingRequest
		if err := json.Unmarshal(env.Payload, &payload); err != nil {
			return nil, err
		}
		for _, n := range payload.TrackingNumbers {
			reply.Tracking = append(reply.Tracking, shipper.TrackingDetails{
				TrackingNumber: n,
				Events: []shipper.TrackingEvent{
					{Date: now.Format("2006-01-02"), Time: "09:30", Code: "IT", Description: "In transit", Location: "Toronto ON"},
					{Date: now.AddDate(0, 0, -1).Format("2006-01-02"), Time: "16:05", Code: "PU", Description: "Picked up", Location: "Montreal QC"},
				},
			})
		}
	case OpShipment:
		id := "mock-" + uuid.NewString()[:8]
		reply.Shipment = &shipper.ShipmentDetails{
			TrackingNumber:     fmt.Sprintf("1ZMOCK%09d", now.UnixNano()%1000000000),
			ShipmentIdentifier: id,
			LabelURL:           "https://labels.mock.example/" + id + ".pdf",
			SelectedRate:       &demoRates(now)[0],
		}
	case OpPickup, OpPickupUpdate:
		var payload shipper.PickupRequest
		if err := json.Unmarshal(env.Payload, &payload); err != nil {
			return nil, err
		}
		confirmation := "PU" + uuid.NewString()[:8]
		if env.Operation == OpPickupUpdate {
			var update shipper.PickupUpdateRequest
			if err := json.Unmarshal(env.Payload, &update); err != nil {
				return nil, err
			}
			confirmation = update.ConfirmationNumber
		}
		reply.Pickup = &shipper.PickupDetails{
			ConfirmationNumber: confirmation,
			PickupDate:         payload.PickupDate,
			ReadyTime:          payload.ReadyTime,
			ClosingTime:        payload.ClosingTime,
		}
	case OpCancelShipment:
		reply.Confirmation = &shipper.ConfirmationDetails{Success: true, Operation: "Cancel Shipment"}
	case OpCancelPickup:
		reply.Confirmation = &shipper.ConfirmationDetails{Success: true, Operation: "Cancel Pickup"}
	case OpAddressValidation:
		var payload shipper.AddressValidationRequest
		if err := json.Unmarshal(env.Payload, &payload); err != nil {
			return nil, err
		}
		addr := payload.Address
		reply.Address = &shipper.AddressValidationDetails{Success: true, CompleteAddress: &addr}
	default:
		reply.Messages = []shipper.Message{{
			Severity: shipper.SeverityError,
			Code:     "UNKNOWN_OPERATION",
			Message:  "unknown operation " + env.Operation,
		}}
	}
	return json.Marshal(reply)
}

func demoRates(now time.Time) []shipper.RateDetails {
	return []shipper.RateDetails{
		{
			Service:           "STANDARD",
			Currency:          "CAD",
			BaseCharge:        decimal.RequireFromString("12.50"),
			TotalCharge:       decimal.RequireFromString("15.82"),
			DutiesAndTaxes:    decimal.RequireFromString("1.82"),
			Discount:          decimal.Zero,
			TransitDays:       5,
			EstimatedDelivery: now.AddDate(0, 0, 5).Format("2006-01-02"),
			ExtraCharges: []shipper.ChargeDetails{
				{Name: "Fuel surcharge", Amount: decimal.RequireFromString("1.50"), Currency: "CAD"},
			},
		},
		{
			Service:           "EXPRESS",
			Currency:          "CAD",
			BaseCharge:        decimal.RequireFromString("24.00"),
			TotalCharge:       decimal.RequireFromString("29.95"),
			DutiesAndTaxes:    decimal.RequireFromString("3.45"),
			Discount:          decimal.Zero,
			TransitDays:       2,
			EstimatedDelivery: now.AddDate(0, 0, 2).Format("2006-01-02"),
			ExtraCharges: []shipper.ChargeDetails{
				{Name: "Fuel surcharge", Amount: decimal.RequireFromString("2.50"), Currency: "CAD"},
			},
		},
	}
}
