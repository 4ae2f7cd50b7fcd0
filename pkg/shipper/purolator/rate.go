package purolator

import (
	"github.com/shopspring/decimal"
	"github.com/tournevent/shipbridge/pkg/shipper"
)

// CreateRateRequest builds a GetFullEstimate call.
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

	serviceID := defaultService
	if len(payload.Services) > 0 {
		serviceID = payload.Services[0]
	}

	req := getFullEstimateRequest{
		Shipment: shipment{
			ShipmentDate:        payload.Options["shipment_date"],
			SenderInformation:   party{Address: toAddress(payload.Shipper)},
			ReceiverInformation: party{Address: toAddress(payload.Recipient)},
			PackageInformation:  toPackage(serviceID, payload.Parcel),
			PaymentInformation:  m.toPayment(shipper.Payment{}),
			PickupInformation:   pickupInformation{PickupType: "DropOff"},
		},
		ShowAlternativeServices: len(payload.Services) != 1,
	}
	return m.request(estimatingService, "GetFullEstimate", req), nil
}

// ParseRateResponse returns one rate per shipment estimate.
func (m *Mapper) ParseRateResponse(resp shipper.Response) ([]shipper.RateDetails, []shipper.Message, error) {
	msgs := m.messages()
	var out getFullEstimateResponse
	if _, err := m.decode(resp.Body, &out, msgs); err != nil {
		return nil, nil, parseError("rate", err)
	}

	rates := make([]shipper.RateDetails, 0, len(out.Estimates))
	for _, est := range out.Estimates {
		rates = append(rates, m.toRate(est))
	}
	return rates, msgs.List(), nil
}

func (m *Mapper) toRate(est shipmentEstimate) shipper.RateDetails {
	rate := shipper.RateDetails{
		CarrierID:         m.settings.CarrierID(),
		CarrierName:       m.settings.CarrierName(),
		Service:           est.ServiceID,
		Currency:          "CAD",
		BaseCharge:        toAmount(est.BasePrice),
		TotalCharge:       toAmount(est.TotalPrice),
		DutiesAndTaxes:    decimal.Zero,
		Discount:          decimal.Zero,
		TransitDays:       est.EstimatedTransitDays,
		EstimatedDelivery: est.ExpectedDeliveryDate,
	}
	for _, tax := range est.Taxes {
		rate.DutiesAndTaxes = rate.DutiesAndTaxes.Add(toAmount(tax.Amount))
	}
	for _, group := range [][]surcharge{est.Surcharges, est.Taxes, est.OptionPrices} {
		for _, c := range group {
			amount := toAmount(c.Amount)
			if amount.IsZero() {
				continue
			}
			name := c.Description
			if name == "" {
				name = c.Type
			}
			rate.ExtraCharges = append(rate.ExtraCharges, shipper.ChargeDetails{
				Name:     name,
				Amount:   amount,
				Currency: rate.Currency,
			})
		}
	}
	return rate
}
