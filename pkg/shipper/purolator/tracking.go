package purolator

import (
	"github.com/tournevent/shipbridge/pkg/shipper"
)

// CreateTrackingRequest builds one TrackPackagesByPin call for all PINs.
func (m *Mapper) CreateTrackingRequest(payload shipper.TrackingRequest) (shipper.Request, error) {
	if len(payload.TrackingNumbers) == 0 {
		return nil, shipper.NewRequiredFieldError("tracking_numbers")
	}
	req := trackPackagesByPinRequest{}
	for _, n := range payload.TrackingNumbers {
		req.PINs = append(req.PINs, pin{Value: n})
	}
	return m.request(trackingService, "TrackPackagesByPin", req), nil
}

// ParseTrackingResponse returns one entry per tracked PIN, scans newest first
// as Purolator reports them.
func (m *Mapper) ParseTrackingResponse(resp shipper.Response) ([]shipper.TrackingDetails, []shipper.Message, error) {
	msgs := m.messages()
	var out trackPackagesByPinResponse
	if _, err := m.decode(resp.Body, &out, msgs); err != nil {
		return nil, nil, parseError("tracking", err)
	}

	details := make([]shipper.TrackingDetails, 0, len(out.TrackingInformation))
	for _, info := range out.TrackingInformation {
		td := shipper.TrackingDetails{
			CarrierID:      m.settings.CarrierID(),
			CarrierName:    m.settings.CarrierName(),
			TrackingNumber: info.PIN,
			Events:         make([]shipper.TrackingEvent, 0, len(info.Scans)),
		}
		for _, s := range info.Scans {
			td.Events = append(td.Events, shipper.TrackingEvent{
				Date:        s.ScanDate,
				Time:        s.ScanTime,
				Code:        s.ScanType,
				Description: s.Description,
				Location:    s.Depot,
			})
			if s.ScanType == "Delivery" || s.ScanType == "Delivered" {
				td.Delivered = true
			}
		}
		details = append(details, td)
	}
	return details, msgs.List(), nil
}
