package canadapost

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/tournevent/shipbridge/pkg/shipper"
)

func (m *Mapper) shipmentPath() string {
	return fmt.Sprintf("/rs/%s/%s/shipment", m.settings.CustomerNumber, m.settings.CustomerNumber)
}

// CreateShipmentRequest builds a contract shipment creation call.
func (m *Mapper) CreateShipmentRequest(payload shipper.ShipmentRequest) (shipper.Request, error) {
	if payload.Parcel.Weight <= 0 {
		return nil, shipper.NewRequiredFieldError("parcel.weight")
	}
	if payload.Recipient.AddressLine1 == "" {
		return nil, shipper.NewRequiredFieldError("recipient.address_line1")
	}
	if payload.Shipper.PostalCode == "" {
		return nil, shipper.NewRequiredFieldError("shipper.postal_code")
	}

	service := payload.Service
	if service == "" {
		service = defaultService
	}
	encoding := "PDF"
	format := "8.5x11"
	if payload.LabelType == "ZPL" {
		encoding = "ZPL"
		format = "4x6"
	}
	payment := "Account"
	if payload.Payment.PaidBy == "credit_card" {
		payment = "CreditCard"
	}

	info := shipmentInfo{
		Xmlns:             shipmentNamespace,
		GroupID:           payload.Options["group_id"],
		TransmitShipment:  payload.Options["group_id"] == "",
		RequestedShipping: normalizePostalCode(payload.Shipper.PostalCode),
		DeliverySpec: deliverySpec{
			ServiceCode: service,
			Sender: sender{
				Name:           payload.Shipper.PersonName,
				Company:        companyOrName(payload.Shipper),
				ContactPhone:   payload.Shipper.PhoneNumber,
				AddressDetails: toAddressDetails(payload.Shipper),
			},
			Destination: recipient{
				Name:           payload.Recipient.PersonName,
				Company:        payload.Recipient.CompanyName,
				ClientVoice:    payload.Recipient.PhoneNumber,
				AddressDetails: toAddressDetails(payload.Recipient),
			},
			ParcelCharacter:  toParcel(payload.Parcel),
			PrintPreferences: printPreferences{OutputFormat: format, Encoding: encoding},
			Preferences:      preferences{ShowPostageRate: true},
			SettlementInfo: settlementInfo{
				ContractID:              m.settings.ContractID,
				IntendedMethodOfPayment: payment,
			},
		},
	}
	if payload.Recipient.Email != "" {
		info.DeliverySpec.Notification = &notification{
			Email:      payload.Recipient.Email,
			OnShipment: true,
			OnDelivery: true,
		}
	}
	if payload.Reference != "" {
		info.DeliverySpec.References = &references{CustomerRef1: payload.Reference}
	}
	return send(m, http.MethodPost, m.shipmentPath(), shipmentMediaType, info), nil
}

func companyOrName(a shipper.Address) string {
	if a.CompanyName != "" {
		return a.CompanyName
	}
	return a.PersonName
}

func toAddressDetails(a shipper.Address) addressDetails {
	return addressDetails{
		AddressLine1:  a.AddressLine1,
		AddressLine2:  a.AddressLine2,
		City:          a.City,
		ProvState:     a.StateCode,
		CountryCode:   a.CountryCode,
		PostalZipCode: normalizePostalCode(a.PostalCode),
	}
}

// ParseShipmentResponse reads the created shipment and its label link.
func (m *Mapper) ParseShipmentResponse(resp shipper.Response) (*shipper.ShipmentDetails, []shipper.Message, error) {
	msgs := m.messages()
	var info shipmentInfoResponse
	ok, err := m.decode(resp.Body, &info, msgs)
	if err != nil {
		return nil, nil, parseError("shipment", err)
	}
	if !ok || info.ShipmentID == "" {
		return nil, msgs.List(), nil
	}

	details := &shipper.ShipmentDetails{
		CarrierID:          m.settings.CarrierID(),
		CarrierName:        m.settings.CarrierName(),
		TrackingNumber:     info.TrackingPIN,
		ShipmentIdentifier: info.ShipmentID,
	}
	for _, l := range info.Links {
		if l.Rel == "label" {
			details.LabelURL = l.Href
			break
		}
	}
	return details, msgs.List(), nil
}

// CreateCancelShipmentRequest builds a shipment void call.
func (m *Mapper) CreateCancelShipmentRequest(payload shipper.ShipmentCancelRequest) (shipper.Request, error) {
	if payload.ShipmentIdentifier == "" {
		return nil, shipper.NewRequiredFieldError("shipment_identifier")
	}
	path := m.shipmentPath() + "/" + url.PathEscape(payload.ShipmentIdentifier)
	return fetch(m, http.MethodDelete, path, shipmentMediaType), nil
}

// ParseCancelShipmentResponse treats an empty response as a successful void.
func (m *Mapper) ParseCancelShipmentResponse(resp shipper.Response) (*shipper.ConfirmationDetails, []shipper.Message, error) {
	msgs := m.messages()
	var ignored struct{}
	if _, err := m.decode(resp.Body, &ignored, msgs); err != nil {
		return nil, nil, parseError("cancel_shipment", err)
	}
	if msgs.HasErrors() {
		return nil, msgs.List(), nil
	}
	return &shipper.ConfirmationDetails{
		CarrierID:   m.settings.CarrierID(),
		CarrierName: m.settings.CarrierName(),
		Success:     true,
		Operation:   "Cancel Shipment",
	}, msgs.List(), nil
}
