package purolator

import (
	"github.com/tournevent/shipbridge/pkg/shipper"
)

// CreateAddressValidationRequest builds a ValidateCityPostalCodeZip call.
func (m *Mapper) CreateAddressValidationRequest(payload shipper.AddressValidationRequest) (shipper.Request, error) {
	a := payload.Address
	if a.PostalCode == "" {
		return nil, shipper.NewRequiredFieldError("address.postal_code")
	}
	if a.CountryCode == "" {
		return nil, shipper.NewRequiredFieldError("address.country_code")
	}
	return m.request(availabilityService, "ValidateCityPostalCodeZip", validateCityPostalCodeZipRequest{
		Addresses: []shortAddress{{
			City:       a.City,
			Province:   a.StateCode,
			Country:    a.CountryCode,
			PostalCode: normalizePostalCode(a.PostalCode),
		}},
	}), nil
}

// ParseAddressValidationResponse reports success when Purolator returned no
// errors. The first suggested address becomes the complete address.
func (m *Mapper) ParseAddressValidationResponse(resp shipper.Response) (*shipper.AddressValidationDetails, []shipper.Message, error) {
	msgs := m.messages()
	var out validateCityPostalCodeZipResponse
	decoded, err := m.decode(resp.Body, &out, msgs)
	if err != nil {
		return nil, nil, parseError("address_validation", err)
	}

	details := &shipper.AddressValidationDetails{
		CarrierID:   m.settings.CarrierID(),
		CarrierName: m.settings.CarrierName(),
		Success:     decoded && len(out.Errors) == 0,
	}
	if len(out.SuggestedAddresses) > 0 {
		s := out.SuggestedAddresses[0]
		details.CompleteAddress = &shipper.Address{
			City:        s.City,
			StateCode:   s.Province,
			CountryCode: s.Country,
			PostalCode:  s.PostalCode,
		}
	}
	return details, msgs.List(), nil
}
