package canadapost

import (
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/tournevent/shipbridge/pkg/shipper"
)

// CreateRateRequest builds a mailing scenario for the rating service.
func (m *Mapper) CreateRateRequest(payload shipper.RateRequest) (shipper.Request, error) {
	if payload.Parcel.Weight <= 0 {
		return nil, shipper.NewRequiredFieldError("parcel.weight")
	}
	if payload.Shipper.PostalCode == "" {
		return nil, shipper.NewRequiredFieldError("shipper.postal_code")
	}
	dest, err := toDestination(payload.Recipient)
	if err != nil {
		return nil, err
	}

	scenario := mailingScenario{
		Xmlns:            rateNamespace,
		CustomerNumber:   m.settings.CustomerNumber,
		ContractID:       m.settings.ContractID,
		Services:         payload.Services,
		ParcelCharacter:  toParcel(payload.Parcel),
		OriginPostalCode: normalizePostalCode(payload.Shipper.PostalCode),
		Destination:      dest,
	}
	return send(m, http.MethodPost, "/rs/ship/price", rateMediaType, scenario), nil
}

func toDestination(a shipper.Address) (destination, error) {
	switch a.CountryCode {
	case "", "CA":
		if a.PostalCode == "" {
			return destination{}, shipper.NewRequiredFieldError("recipient.postal_code")
		}
		return destination{Domestic: &postalCode{PostalCode: normalizePostalCode(a.PostalCode)}}, nil
	case "US":
		if a.PostalCode == "" {
			return destination{}, shipper.NewRequiredFieldError("recipient.postal_code")
		}
		return destination{UnitedStates: &zipCode{ZipCode: a.PostalCode}}, nil
	default:
		return destination{International: &countryCode{CountryCode: a.CountryCode}}, nil
	}
}

func toParcel(p shipper.Parcel) parcelCharacteristics {
	pc := parcelCharacteristics{
		Weight:   p.WeightIn(shipper.WeightKG),
		Document: p.IsDocument,
	}
	if p.HasDimensions() {
		l, w, h := p.DimensionsIn(shipper.DimensionCM)
		pc.Dimensions = &dimensions{Length: l, Width: w, Height: h}
	}
	return pc
}

// ParseRateResponse returns one rate per price quote.
func (m *Mapper) ParseRateResponse(resp shipper.Response) ([]shipper.RateDetails, []shipper.Message, error) {
	msgs := m.messages()
	var quotes priceQuotes
	if _, err := m.decode(resp.Body, &quotes, msgs); err != nil {
		return nil, nil, parseError("rate", err)
	}

	rates := make([]shipper.RateDetails, 0, len(quotes.Quotes))
	for _, q := range quotes.Quotes {
		rates = append(rates, m.toRate(q))
	}
	return rates, msgs.List(), nil
}

func (m *Mapper) toRate(q priceQuote) shipper.RateDetails {
	p := q.PriceDetails
	rate := shipper.RateDetails{
		CarrierID:         m.settings.CarrierID(),
		CarrierName:       m.settings.CarrierName(),
		Service:           q.ServiceCode,
		Currency:          "CAD",
		BaseCharge:        amount(p.Base),
		TotalCharge:       amount(p.Due),
		DutiesAndTaxes:    amount(p.GST).Add(amount(p.PST)).Add(amount(p.HST)),
		Discount:          decimal.Zero,
		TransitDays:       q.ServiceStandard.ExpectedTransitTime,
		EstimatedDelivery: q.ServiceStandard.ExpectedDeliveryDate,
	}
	for _, opt := range p.Options {
		if v := amount(opt.OptionPrice); !v.IsZero() {
			rate.ExtraCharges = append(rate.ExtraCharges, shipper.ChargeDetails{
				Name:     opt.OptionName,
				Amount:   v,
				Currency: rate.Currency,
			})
		}
	}
	for _, adj := range p.Adjustments {
		v := amount(adj.Cost)
		if v.IsZero() {
			continue
		}
		if v.IsNegative() {
			rate.Discount = rate.Discount.Add(v.Neg())
		}
		rate.ExtraCharges = append(rate.ExtraCharges, shipper.ChargeDetails{
			Name:     adj.Name,
			Amount:   v,
			Currency: rate.Currency,
		})
	}
	return rate
}

func amount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
