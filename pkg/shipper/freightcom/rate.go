package freightcom

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"
	"github.com/tournevent/shipbridge/pkg/shipper"
)

const (
	stepSubmit = "submit"
	stepResult = "result"
)

// CreateRateRequest submits a rate request, then fetches the quotes it
// produced. Freightcom rates asynchronously; a result still pending is
// reported as a warning.
func (m *Mapper) CreateRateRequest(payload shipper.RateRequest) (shipper.Request, error) {
	if payload.Parcel.Weight <= 0 {
		return nil, shipper.NewRequiredFieldError("parcel.weight")
	}
	if payload.Shipper.PostalCode == "" {
		return nil, shipper.NewRequiredFieldError("shipper.postal_code")
	}
	if payload.Recipient.PostalCode == "" {
		return nil, shipper.NewRequiredFieldError("recipient.postal_code")
	}

	submit := post(m, "/rate", rateRequest{
		Services: payload.Services,
		Details: shippingDetails{
			Origin:      toLocation(payload.Shipper),
			Destination: toLocation(payload.Recipient),
			Packaging:   toPackaging(payload.Parcel),
			Reference:   payload.Reference,
		},
	})

	return shipper.NewPipeline(
		shipper.Step{
			Name:          stepSubmit,
			HaltOnFailure: true,
			Build: func(*shipper.PipelineResponse) (shipper.Outbound, error) {
				return submit, nil
			},
		},
		shipper.Step{
			Name: stepResult,
			Build: func(prior *shipper.PipelineResponse) (shipper.Outbound, error) {
				var submitted rateSubmitted
				if err := available(prior, stepSubmit, &submitted); err != nil {
					return nil, err
				}
				if submitted.RequestID == "" {
					return nil, fmt.Errorf("%s returned no request id: %w", stepSubmit, shipper.ErrStepSkipped)
				}
				return fetch(m, http.MethodGet, "/rate/"+url.PathEscape(submitted.RequestID)), nil
			},
		},
	), nil
}

// ParseRateResponse returns the quotes of a completed rate request.
func (m *Mapper) ParseRateResponse(resp shipper.Response) ([]shipper.RateDetails, []shipper.Message, error) {
	msgs := m.messages()

	var submitted rateSubmitted
	if _, err := m.decodeStep(resp.Steps, stepSubmit, &submitted, msgs); err != nil {
		return nil, nil, parseError("rate", err)
	}

	var result rateResult
	ok, err := m.decodeStep(resp.Steps, stepResult, &result, msgs)
	if err != nil {
		return nil, nil, parseError("rate", err)
	}
	rates := make([]shipper.RateDetails, 0, len(result.Rates))
	if !ok {
		return rates, msgs.List(), nil
	}

	switch result.Status {
	case "error":
		msgs.Error("RATE_ERROR", result.Error)
	case "pending":
		msgs.Warning("RATE_PENDING", "rate request "+result.RequestID+" is still being processed")
	}
	for _, r := range result.Rates {
		rates = append(rates, m.toRate(r))
	}
	return rates, msgs.List(), nil
}

func (m *Mapper) toRate(r rate) shipper.RateDetails {
	currency := r.Currency
	if currency == "" {
		currency = "CAD"
	}
	service := r.ServiceID
	if service == "" {
		service = r.ServiceName
	}

	rd := shipper.RateDetails{
		CarrierID:         m.settings.CarrierID(),
		CarrierName:       m.settings.CarrierName(),
		Service:           service,
		Currency:          currency,
		BaseCharge:        money(r.BaseRate),
		TotalCharge:       money(r.TotalPrice),
		DutiesAndTaxes:    money(r.TotalTax),
		Discount:          decimal.Zero,
		TransitDays:       r.TransitDays,
		EstimatedDelivery: r.EstimatedDelivery,
	}
	if r.FuelSurcharge != 0 {
		rd.ExtraCharges = append(rd.ExtraCharges, shipper.ChargeDetails{
			Name:     "Fuel surcharge",
			Amount:   money(r.FuelSurcharge),
			Currency: currency,
		})
	}
	for _, s := range r.Surcharges {
		rd.ExtraCharges = append(rd.ExtraCharges, shipper.ChargeDetails{
			Name:     s.Description,
			Amount:   money(s.Amount),
			Currency: currency,
		})
	}
	for _, t := range r.Taxes {
		rd.ExtraCharges = append(rd.ExtraCharges, shipper.ChargeDetails{
			Name:     t.Code,
			Amount:   money(t.Amount),
			Currency: currency,
		})
	}
	return rd
}
