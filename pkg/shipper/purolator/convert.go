package purolator

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"github.com/tournevent/shipbridge/pkg/shipper"
)

func toAddress(a shipper.Address) address {
	number, street := splitStreet(a.AddressLine1)
	return address{
		Name:           a.PersonName,
		Company:        a.CompanyName,
		StreetNumber:   number,
		StreetName:     street,
		StreetAddress2: a.AddressLine2,
		City:           a.City,
		Province:       a.StateCode,
		Country:        a.CountryCode,
		PostalCode:     normalizePostalCode(a.PostalCode),
		PhoneNumber:    toPhone(a.PhoneNumber),
	}
}

// splitStreet separates a leading civic number from the street name.
func splitStreet(line string) (number, street string) {
	line = strings.TrimSpace(line)
	first, rest, found := strings.Cut(line, " ")
	if !found || first == "" || !unicode.IsDigit(rune(first[0])) {
		return "", line
	}
	return first, strings.TrimSpace(rest)
}

// toPhone splits a North American number into country, area and local parts.
func toPhone(raw string) *phoneNumber {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, raw)
	if len(digits) == 11 && digits[0] == '1' {
		digits = digits[1:]
	}
	if len(digits) != 10 {
		return nil
	}
	return &phoneNumber{CountryCode: "1", AreaCode: digits[:3], Phone: digits[3:]}
}

func normalizePostalCode(code string) string {
	return strings.ToUpper(strings.ReplaceAll(code, " ", ""))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func toPiece(p shipper.Parcel) piece {
	pc := piece{Weight: weight{Value: formatFloat(p.WeightIn(shipper.WeightLB)), WeightUnit: "lb"}}
	if p.HasDimensions() {
		l, w, h := p.DimensionsIn(shipper.DimensionIN)
		pc.Length = &dimension{Value: formatFloat(l), DimensionUnit: "in"}
		pc.Width = &dimension{Value: formatFloat(w), DimensionUnit: "in"}
		pc.Height = &dimension{Value: formatFloat(h), DimensionUnit: "in"}
	}
	return pc
}

func toPackage(serviceID string, p shipper.Parcel) packageInformation {
	return packageInformation{
		ServiceID:   serviceID,
		Description: p.Description,
		TotalWeight: weight{Value: formatFloat(p.WeightIn(shipper.WeightLB)), WeightUnit: "lb"},
		TotalPieces: 1,
		Pieces:      []piece{toPiece(p)},
	}
}

func (m *Mapper) toPayment(p shipper.Payment) paymentInformation {
	info := paymentInformation{
		PaymentType:             "Sender",
		RegisteredAccountNumber: m.settings.AccountNumber,
		BillingAccountNumber:    m.settings.AccountNumber,
	}
	switch p.PaidBy {
	case "recipient":
		info.PaymentType = "Receiver"
	case "third_party":
		info.PaymentType = "ThirdParty"
	}
	if p.AccountNumber != "" {
		info.BillingAccountNumber = p.AccountNumber
	}
	return info
}

// toAmount parses a Purolator monetary value. Blank or malformed amounts
// count as zero.
func toAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// toPickupTime converts 15:04 to Purolator's 1504 notation.
func toPickupTime(t string) string {
	return strings.ReplaceAll(t, ":", "")
}
