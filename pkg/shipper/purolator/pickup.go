package purolator

import (
	"encoding/xml"

	"github.com/tournevent/shipbridge/pkg/shipper"
)

const (
	stepSchedule = "schedule"
	stepModify   = "modify"
)

type pickupInput struct {
	confirmation string
	date         string
	ready        string
	closing      string
	address      shipper.Address
	parcels      []shipper.Parcel
	instruction  string
	location     string
}

func (m *Mapper) pickupRequest(element string, in pickupInput) pickupRequest {
	location := in.location
	if location == "" {
		location = "FrontDesk"
	}
	pieces := len(in.parcels)
	if pieces == 0 {
		pieces = 1
	}
	return pickupRequest{
		XMLName:                  xml.Name{Local: "ns:" + element},
		BillingAccountNumber:     m.settings.AccountNumber,
		PickupConfirmationNumber: in.confirmation,
		PickupInstruction: pickupInstruction{
			Date:                   in.date,
			AnyTimeAfter:           toPickupTime(in.ready),
			UntilTime:              toPickupTime(in.closing),
			TotalWeight:            weight{Value: formatFloat(shipper.TotalWeight(in.parcels, shipper.WeightLB)), WeightUnit: "lb"},
			TotalPieces:            pieces,
			PickUpLocation:         location,
			AdditionalInstructions: in.instruction,
		},
		Address: toAddress(in.address),
	}
}

// pickupPipeline validates the pickup and then runs action, which is skipped
// when validation reported carrier errors.
func (m *Mapper) pickupPipeline(action, actionStep, actionElement string, in pickupInput) *shipper.Pipeline {
	validate := m.request(pickupService, "ValidatePickUp", m.pickupRequest("ValidatePickUpRequest", in))
	run := m.request(pickupService, action, m.pickupRequest(actionElement, in))

	return shipper.NewPipeline(
		shipper.Step{
			Name:          stepValidate,
			HaltOnFailure: true,
			Build: func(*shipper.PipelineResponse) (shipper.Outbound, error) {
				return validate, nil
			},
		},
		shipper.Step{
			Name: actionStep,
			Build: func(prior *shipper.PipelineResponse) (shipper.Outbound, error) {
				var res validatePickUpResponse
				if err := succeeded(prior, stepValidate, &res); err != nil {
					return nil, err
				}
				return run, nil
			},
		},
	)
}

// CreatePickupRequest builds a ValidatePickUp then SchedulePickUp pipeline.
func (m *Mapper) CreatePickupRequest(payload shipper.PickupRequest) (shipper.Request, error) {
	if payload.PickupDate == "" {
		return nil, shipper.NewRequiredFieldError("pickup_date")
	}
	if payload.Address.PostalCode == "" {
		return nil, shipper.NewRequiredFieldError("address.postal_code")
	}
	return m.pickupPipeline("SchedulePickUp", stepSchedule, "SchedulePickUpRequest", pickupInput{
		date:        payload.PickupDate,
		ready:       payload.ReadyTime,
		closing:     payload.ClosingTime,
		address:     payload.Address,
		parcels:     payload.Parcels,
		instruction: payload.Instruction,
		location:    payload.PackageLocation,
	}), nil
}

// ParsePickupResponse returns the confirmation issued by SchedulePickUp.
func (m *Mapper) ParsePickupResponse(resp shipper.Response) (*shipper.PickupDetails, []shipper.Message, error) {
	return m.parsePickup(resp, stepSchedule, "pickup")
}

// CreatePickupUpdateRequest builds a ValidatePickUp then ModifyPickUp pipeline.
func (m *Mapper) CreatePickupUpdateRequest(payload shipper.PickupUpdateRequest) (shipper.Request, error) {
	if payload.ConfirmationNumber == "" {
		return nil, shipper.NewRequiredFieldError("confirmation_number")
	}
	if payload.PickupDate == "" {
		return nil, shipper.NewRequiredFieldError("pickup_date")
	}
	return m.pickupPipeline("ModifyPickUp", stepModify, "ModifyPickUpRequest", pickupInput{
		confirmation: payload.ConfirmationNumber,
		date:         payload.PickupDate,
		ready:        payload.ReadyTime,
		closing:      payload.ClosingTime,
		address:      payload.Address,
		parcels:      payload.Parcels,
		instruction:  payload.Instruction,
		location:     payload.PackageLocation,
	}), nil
}

// ParsePickupUpdateResponse returns the confirmation of the modified pickup.
func (m *Mapper) ParsePickupUpdateResponse(resp shipper.Response) (*shipper.PickupDetails, []shipper.Message, error) {
	return m.parsePickup(resp, stepModify, "pickup_update")
}

func (m *Mapper) parsePickup(resp shipper.Response, actionStep, operation string) (*shipper.PickupDetails, []shipper.Message, error) {
	msgs := m.messages()

	var validated validatePickUpResponse
	if _, err := m.decodeStep(resp.Steps, stepValidate, &validated, msgs); err != nil {
		return nil, nil, parseError(operation, err)
	}
	var scheduled pickUpResponse
	if _, err := m.decodeStep(resp.Steps, actionStep, &scheduled, msgs); err != nil {
		return nil, nil, parseError(operation, err)
	}
	if scheduled.PickupConfirmationNumber == "" {
		return nil, msgs.List(), nil
	}
	return &shipper.PickupDetails{
		CarrierID:          m.settings.CarrierID(),
		CarrierName:        m.settings.CarrierName(),
		ConfirmationNumber: scheduled.PickupConfirmationNumber,
	}, msgs.List(), nil
}

// CreateCancelPickupRequest builds a VoidPickUp call.
func (m *Mapper) CreateCancelPickupRequest(payload shipper.PickupCancelRequest) (shipper.Request, error) {
	if payload.ConfirmationNumber == "" {
		return nil, shipper.NewRequiredFieldError("confirmation_number")
	}
	return m.request(pickupService, "VoidPickUp", voidPickUpRequest{
		PickupConfirmationNumber: payload.ConfirmationNumber,
	}), nil
}

// ParseCancelPickupResponse reports whether the pickup was voided.
func (m *Mapper) ParseCancelPickupResponse(resp shipper.Response) (*shipper.ConfirmationDetails, []shipper.Message, error) {
	msgs := m.messages()
	var out voidPickUpResponse
	if _, err := m.decode(resp.Body, &out, msgs); err != nil {
		return nil, nil, parseError("cancel_pickup", err)
	}
	if !out.PickupVoided {
		return nil, msgs.List(), nil
	}
	return &shipper.ConfirmationDetails{
		CarrierID:   m.settings.CarrierID(),
		CarrierName: m.settings.CarrierName(),
		Success:     true,
		Operation:   "Cancel Pickup",
	}, msgs.List(), nil
}
