package freightcom

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tournevent/shipbridge/pkg/shipper"
)

// stepTrack is the kind of every per-number tracking step.
const stepTrack = "track"

// CreateTrackingRequest builds one non-halting step per shipment id.
// Freightcom tracks by its own shipment id rather than the carrier's number.
func (m *Mapper) CreateTrackingRequest(payload shipper.TrackingRequest) (shipper.Request, error) {
	if len(payload.TrackingNumbers) == 0 {
		return nil, shipper.NewRequiredFieldError("tracking_numbers")
	}
	steps := make([]shipper.Step, 0, len(payload.TrackingNumbers))
	seen := make(map[string]bool, len(payload.TrackingNumbers))
	for _, id := range payload.TrackingNumbers {
		if seen[id] {
			continue
		}
		seen[id] = true
		req := fetch(m, http.MethodGet, "/shipment/"+url.PathEscape(id)+"/tracking-events")
		steps = append(steps, shipper.Step{
			Name: id,
			Kind: stepTrack,
			Build: func(*shipper.PipelineResponse) (shipper.Outbound, error) {
				return req, nil
			},
		})
	}
	return shipper.NewPipeline(steps...), nil
}

// ParseTrackingResponse returns details for every shipment found, in
// request order.
func (m *Mapper) ParseTrackingResponse(resp shipper.Response) ([]shipper.TrackingDetails, []shipper.Message, error) {
	msgs := m.messages()
	details := make([]shipper.TrackingDetails, 0, resp.Steps.Len())

	for _, id := range resp.Steps.Names() {
		var te trackingEvents
		ok, err := m.decodeStep(resp.Steps, id, &te, msgs)
		if err != nil {
			return nil, nil, parseError("tracking", err)
		}
		if !ok {
			continue
		}
		details = append(details, m.toTracking(id, te))
	}
	return details, msgs.List(), nil
}

func (m *Mapper) toTracking(id string, te trackingEvents) shipper.TrackingDetails {
	td := shipper.TrackingDetails{
		CarrierID:      m.settings.CarrierID(),
		CarrierName:    m.settings.CarrierName(),
		TrackingNumber: id,
		Events:         make([]shipper.TrackingEvent, 0, len(te.Events)),
		Delivered:      strings.EqualFold(te.Status, "delivered"),
	}
	if te.TrackingNumber != "" {
		td.TrackingNumber = te.TrackingNumber
	}
	for _, e := range te.Events {
		date, clock := splitTimestamp(e.Timestamp)
		code := e.Code
		if code == "" {
			code = e.Status
		}
		td.Events = append(td.Events, shipper.TrackingEvent{
			Date:        date,
			Time:        clock,
			Code:        code,
			Description: e.Description,
			Location:    e.Location,
		})
		if strings.EqualFold(e.Status, "delivered") {
			td.Delivered = true
		}
	}
	return td
}

func splitTimestamp(ts string) (string, string) {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts, ""
	}
	return t.Format("2006-01-02"), t.Format("15:04")
}
