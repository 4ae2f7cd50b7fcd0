package canadapost

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/tournevent/shipbridge/pkg/shipper"
)

const (
	stepAvailability = "availability"
	stepCreate       = "create"
	stepDetails      = "details"
	stepUpdate       = "update"
)

func (m *Mapper) pickupPath() string {
	return fmt.Sprintf("/enab/%s/pickuprequest", m.settings.CustomerNumber)
}

func toContact(a shipper.Address) contactInfo {
	return contactInfo{
		ContactName:  a.PersonName,
		Email:        a.Email,
		ContactPhone: a.PhoneNumber,
	}
}

func toPickupTimes(date, ready, closing string) pickupTimes {
	return pickupTimes{Date: date, PreferredTime: ready, ClosingTime: closing}
}

func pickupVolume(parcels []shipper.Parcel) string {
	n := len(parcels)
	if n == 0 {
		n = 1
	}
	return strconv.Itoa(n)
}

// CreatePickupRequest checks on-demand pickup availability for the postal
// code, then books the pickup. Booking is skipped when no on-demand tour
// serves the address.
func (m *Mapper) CreatePickupRequest(payload shipper.PickupRequest) (shipper.Request, error) {
	if payload.PickupDate == "" {
		return nil, shipper.NewRequiredFieldError("pickup_date")
	}
	if payload.Address.PostalCode == "" {
		return nil, shipper.NewRequiredFieldError("address.postal_code")
	}

	postal := normalizePostalCode(payload.Address.PostalCode)
	check := fetch(m, http.MethodGet, "/ad/pickup/pickupavailability/"+url.PathEscape(postal), pickupMediaType)
	book := send(m, http.MethodPost, m.pickupPath(), pickupRequestMediaType, pickupRequestDetails{
		Xmlns:      pickupNamespace,
		PickupType: "OnDemand",
		PickupLocation: pickupLocation{
			BusinessAddressFlag: false,
			AlternateAddress: &alternateAddress{
				Company:     companyOrName(payload.Address),
				AddressLine: payload.Address.AddressLine1,
				City:        payload.Address.City,
				Province:    payload.Address.StateCode,
				PostalCode:  postal,
			},
		},
		ContactInfo: toContact(payload.Address),
		LocationDetails: locationDetails{
			PickupInstructions: payload.Instruction,
		},
		PickupVolume: pickupVolume(payload.Parcels),
		PickupTimes:  toPickupTimes(payload.PickupDate, payload.ReadyTime, payload.ClosingTime),
	})

	return shipper.NewPipeline(
		shipper.Step{
			Name:          stepAvailability,
			HaltOnFailure: true,
			Build: func(*shipper.PipelineResponse) (shipper.Outbound, error) {
				return check, nil
			},
		},
		shipper.Step{
			Name: stepCreate,
			Build: func(prior *shipper.PipelineResponse) (shipper.Outbound, error) {
				var avail pickupAvailability
				if err := available(prior, stepAvailability, &avail); err != nil {
					return nil, err
				}
				if !avail.OnDemandTour {
					return nil, fmt.Errorf("no on-demand pickup for %s: %w", postal, shipper.ErrStepSkipped)
				}
				return book, nil
			},
		},
	), nil
}

// ParsePickupResponse returns the booked pickup request.
func (m *Mapper) ParsePickupResponse(resp shipper.Response) (*shipper.PickupDetails, []shipper.Message, error) {
	msgs := m.messages()

	var avail pickupAvailability
	if _, err := m.decodeStep(resp.Steps, stepAvailability, &avail, msgs); err != nil {
		return nil, nil, parseError("pickup", err)
	}
	if res, ok := resp.Steps.Get(stepCreate); ok && res.Status == shipper.StepSkipped && avail.PostalCode != "" && !avail.OnDemandTour {
		msgs.Warning("PICKUP_UNAVAILABLE", "on-demand pickup is not available for "+avail.PostalCode)
	}

	var info pickupRequestInfo
	ok, err := m.decodeStep(resp.Steps, stepCreate, &info, msgs)
	if err != nil {
		return nil, nil, parseError("pickup", err)
	}
	if !ok || info.RequestID == "" {
		return nil, msgs.List(), nil
	}
	return m.toPickup(info), msgs.List(), nil
}

func (m *Mapper) toPickup(info pickupRequestInfo) *shipper.PickupDetails {
	details := &shipper.PickupDetails{
		CarrierID:          m.settings.CarrierID(),
		CarrierName:        m.settings.CarrierName(),
		ConfirmationNumber: info.RequestID,
		PickupDate:         info.Date,
		ReadyTime:          info.PreferredTime,
		ClosingTime:        info.ClosingTime,
	}
	if due := amount(info.DueAmount); !due.IsZero() {
		details.PickupCharge = &shipper.ChargeDetails{Name: "Pickup fees", Amount: due, Currency: "CAD"}
	}
	return details
}

// CreatePickupUpdateRequest fetches the current pickup request, then sends
// the update. The update is skipped when the request cannot be found.
func (m *Mapper) CreatePickupUpdateRequest(payload shipper.PickupUpdateRequest) (shipper.Request, error) {
	if payload.ConfirmationNumber == "" {
		return nil, shipper.NewRequiredFieldError("confirmation_number")
	}
	if payload.PickupDate == "" {
		return nil, shipper.NewRequiredFieldError("pickup_date")
	}

	path := m.pickupPath() + "/" + url.PathEscape(payload.ConfirmationNumber)
	details := fetch(m, http.MethodGet, path+"/details", pickupRequestMediaType)
	update := send(m, http.MethodPut, path, pickupRequestMediaType, pickupRequestUpdate{
		Xmlns:       pickupNamespace,
		PickupType:  "OnDemand",
		ContactInfo: toContact(payload.Address),
		LocationDetails: locationDetails{
			PickupInstructions: payload.Instruction,
		},
		PickupVolume: pickupVolume(payload.Parcels),
		PickupTimes:  toPickupTimes(payload.PickupDate, payload.ReadyTime, payload.ClosingTime),
	})

	return shipper.NewPipeline(
		shipper.Step{
			Name:          stepDetails,
			HaltOnFailure: true,
			Build: func(*shipper.PipelineResponse) (shipper.Outbound, error) {
				return details, nil
			},
		},
		shipper.Step{
			Name: stepUpdate,
			Build: func(prior *shipper.PipelineResponse) (shipper.Outbound, error) {
				var current pickupRequestInfo
				if err := available(prior, stepDetails, &current); err != nil {
					return nil, err
				}
				return update, nil
			},
		},
	), nil
}

// ParsePickupUpdateResponse reports the updated pickup. Canada Post answers
// an update with an empty body, so the confirmation comes from the details
// step.
func (m *Mapper) ParsePickupUpdateResponse(resp shipper.Response) (*shipper.PickupDetails, []shipper.Message, error) {
	msgs := m.messages()

	var current pickupRequestInfo
	if _, err := m.decodeStep(resp.Steps, stepDetails, &current, msgs); err != nil {
		return nil, nil, parseError("pickup_update", err)
	}

	before := msgs.Len()
	var updated pickupRequestInfo
	if _, err := m.decodeStep(resp.Steps, stepUpdate, &updated, msgs); err != nil {
		return nil, nil, parseError("pickup_update", err)
	}
	if res, ok := resp.Steps.Get(stepUpdate); !ok || !res.OK() || msgs.Len() > before {
		return nil, msgs.List(), nil
	}
	if updated.RequestID == "" {
		updated = current
	}
	return m.toPickup(updated), msgs.List(), nil
}

// CreateCancelPickupRequest builds a pickup request cancellation.
func (m *Mapper) CreateCancelPickupRequest(payload shipper.PickupCancelRequest) (shipper.Request, error) {
	if payload.ConfirmationNumber == "" {
		return nil, shipper.NewRequiredFieldError("confirmation_number")
	}
	path := m.pickupPath() + "/" + url.PathEscape(payload.ConfirmationNumber)
	return fetch(m, http.MethodDelete, path, pickupRequestMediaType), nil
}

// ParseCancelPickupResponse treats an empty response as a successful cancellation.
func (m *Mapper) ParseCancelPickupResponse(resp shipper.Response) (*shipper.ConfirmationDetails, []shipper.Message, error) {
	msgs := m.messages()
	var ignored struct{}
	if _, err := m.decode(resp.Body, &ignored, msgs); err != nil {
		return nil, nil, parseError("cancel_pickup", err)
	}
	if msgs.HasErrors() {
		return nil, msgs.List(), nil
	}
	return &shipper.ConfirmationDetails{
		CarrierID:   m.settings.CarrierID(),
		CarrierName: m.settings.CarrierName(),
		Success:     true,
		Operation:   "Cancel Pickup",
	}, msgs.List(), nil
}
