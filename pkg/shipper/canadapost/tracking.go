package canadapost

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/tournevent/shipbridge/pkg/shipper"
)

// stepTrack is the kind of every per-number tracking step.
const stepTrack = "track"

var deliveredEvents = map[string]bool{
	"1408": true, "1409": true, "1421": true, "1422": true, "1423": true,
	"1424": true, "1425": true, "1426": true, "1427": true, "1428": true,
	"1429": true, "1430": true, "1431": true, "1432": true, "1433": true,
	"1434": true, "1441": true, "1496": true, "1497": true, "1498": true,
	"1499": true,
}

// CreateTrackingRequest builds one non-halting step per PIN so that an
// unknown PIN does not prevent tracking the others.
func (m *Mapper) CreateTrackingRequest(payload shipper.TrackingRequest) (shipper.Request, error) {
	if len(payload.TrackingNumbers) == 0 {
		return nil, shipper.NewRequiredFieldError("tracking_numbers")
	}
	steps := make([]shipper.Step, 0, len(payload.TrackingNumbers))
	seen := make(map[string]bool, len(payload.TrackingNumbers))
	for _, pin := range payload.TrackingNumbers {
		if seen[pin] {
			continue
		}
		seen[pin] = true
		req := fetch(m, http.MethodGet, "/vis/track/pin/"+url.PathEscape(pin)+"/detail", trackMediaType)
		steps = append(steps, shipper.Step{
			Name: pin,
			Kind: stepTrack,
			Build: func(*shipper.PipelineResponse) (shipper.Outbound, error) {
				return req, nil
			},
		})
	}
	return shipper.NewPipeline(steps...), nil
}

// ParseTrackingResponse returns details for every PIN that was found, in
// request order.
func (m *Mapper) ParseTrackingResponse(resp shipper.Response) ([]shipper.TrackingDetails, []shipper.Message, error) {
	msgs := m.messages()
	details := make([]shipper.TrackingDetails, 0, resp.Steps.Len())

	for _, name := range resp.Steps.Names() {
		var detail trackingDetail
		ok, err := m.decodeStep(resp.Steps, name, &detail, msgs)
		if err != nil {
			return nil, nil, parseError("tracking", err)
		}
		if !ok {
			continue
		}
		details = append(details, m.toTracking(name, detail))
	}
	return details, msgs.List(), nil
}

func (m *Mapper) toTracking(pin string, d trackingDetail) shipper.TrackingDetails {
	td := shipper.TrackingDetails{
		CarrierID:      m.settings.CarrierID(),
		CarrierName:    m.settings.CarrierName(),
		TrackingNumber: pin,
		Events:         make([]shipper.TrackingEvent, 0, len(d.SignificantEvents)),
	}
	if d.PIN != "" {
		td.TrackingNumber = d.PIN
	}
	for _, o := range d.SignificantEvents {
		location := strings.TrimSpace(strings.Join([]string{o.Site, o.Province}, " "))
		td.Events = append(td.Events, shipper.TrackingEvent{
			Date:        o.Date,
			Time:        o.Time,
			Code:        o.Identifier,
			Description: o.Description,
			Location:    location,
		})
		if deliveredEvents[o.Identifier] {
			td.Delivered = true
		}
	}
	return td
}
