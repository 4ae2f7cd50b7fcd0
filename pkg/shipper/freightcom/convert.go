package freightcom

import (
	"github.com/shopspring/decimal"
	"github.com/tournevent/shipbridge/pkg/shipper"
)

func toLocation(a shipper.Address) location {
	return location{
		Name:        a.PersonName,
		Company:     a.CompanyName,
		Address1:    a.AddressLine1,
		Address2:    a.AddressLine2,
		City:        a.City,
		Province:    a.StateCode,
		PostalCode:  a.PostalCode,
		Country:     countryOrCanada(a.CountryCode),
		Phone:       a.PhoneNumber,
		Email:       a.Email,
		Residential: a.Residential,
	}
}

func countryOrCanada(code string) string {
	if code == "" {
		return "CA"
	}
	return code
}

func toContact(a shipper.Address) contact {
	name := a.PersonName
	if name == "" {
		name = a.CompanyName
	}
	return contact{
		Name:    name,
		Company: a.CompanyName,
		Phone:   a.PhoneNumber,
		Email:   a.Email,
	}
}

func toPackaging(p shipper.Parcel) packagingInfo {
	pkg := packageInfo{
		Weight:      p.WeightIn(shipper.WeightKG),
		Description: p.Description,
		Quantity:    1,
	}
	if p.HasDimensions() {
		pkg.Length, pkg.Width, pkg.Height = p.DimensionsIn(shipper.DimensionCM)
	}
	kind := "package"
	if p.IsDocument {
		kind = "envelope"
	}
	return packagingInfo{Type: kind, Packages: []packageInfo{pkg}}
}

func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}
