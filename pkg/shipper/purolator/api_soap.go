package purolator

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tournevent/shipbridge/pkg/shipper"
	"github.com/tournevent/shipbridge/pkg/shipper/soap"
)

// service is one Purolator web service endpoint.
type service struct {
	path      string
	version   string // datatypes namespace version, v1 or v2
	reqSchema string // RequestContext version
}

var (
	estimatingService   = service{"/EWS/V2/Estimating/EstimatingService.asmx", "v2", "2.2"}
	shippingService     = service{"/EWS/V2/Shipping/ShippingService.asmx", "v2", "2.2"}
	documentsService    = service{"/EWS/V1/ShippingDocuments/ShippingDocumentsService.asmx", "v1", "1.3"}
	trackingService     = service{"/PWS/V1/Tracking/TrackingService.asmx", "v1", "1.2"}
	pickupService       = service{"/EWS/V1/PickUp/PickUpService.asmx", "v1", "1.2"}
	availabilityService = service{"/EWS/V2/ServiceAvailability/ServiceAvailabilityService.asmx", "v2", "2.0"}
)

// call is a SOAP request body bound to the service it targets.
type call struct {
	Service service
	Action  string
	Context requestContext
	Body    any
}

func (m *Mapper) newCall(svc service, action string, body any) call {
	return call{
		Service: svc,
		Action:  action,
		Context: requestContext{
			Version:          svc.reqSchema,
			Language:         m.settings.language(),
			GroupID:          "",
			RequestReference: uuid.NewString(),
			UserToken:        m.settings.UserToken,
		},
		Body: body,
	}
}

func serializeCall(c call) ([]byte, error) {
	ns := []soap.Namespace{{Prefix: "ns", URI: "http://purolator.com/pws/datatypes/" + c.Service.version}}
	return soap.Render(ns, c.Context, c.Body)
}

// request wraps a call into a deferred Serializable targeting its service.
func (m *Mapper) request(svc service, action string, body any) *shipper.Serializable[call] {
	c := m.newCall(svc, action, body)
	return shipper.NewSerializable(c, serializeCall, shipper.Endpoint{
		URL:         m.settings.BaseURL() + svc.path,
		ContentType: "text/xml; charset=utf-8",
		SOAPAction:  fmt.Sprintf("http://purolator.com/pws/service/%s/%s", svc.version, action),
		Username:    m.settings.Username,
		Password:    m.settings.Password,
		ErrorBodies: true,
	})
}

type informative interface {
	info() *responseInfo
}

// decode parses a SOAP response into out and appends carrier errors and
// informational messages. A fault is reported as an error message and
// false is returned.
func (m *Mapper) decode(body []byte, out informative, msgs *shipper.Messages) (bool, error) {
	fault, err := soap.Decode(body, out)
	if err != nil {
		return false, err
	}
	if fault != nil {
		msgs.Error(fault.Code, fault.String)
		return false, nil
	}
	collect(out.info(), msgs)
	return true, nil
}

func collect(info *responseInfo, msgs *shipper.Messages) {
	for _, e := range info.Errors {
		msg := shipper.Message{Severity: shipper.SeverityError, Code: e.Code, Message: e.Description}
		if e.AdditionalInformation != "" {
			msg.Details = map[string]string{"additional_information": e.AdditionalInformation}
		}
		msgs.Add(msg)
	}
	for _, im := range info.Messages {
		msgs.Warning(im.Code, im.Message)
	}
}

// decodeStep decodes a succeeded pipeline step. It reports whether out holds
// a decoded response without carrier errors.
func (m *Mapper) decodeStep(steps *shipper.PipelineResponse, name string, out informative, msgs *shipper.Messages) (bool, error) {
	return steps.DecodeStep(name, msgs, func(body []byte) (bool, error) {
		before := msgs.Len()
		decoded, err := m.decode(body, out, msgs)
		if err != nil {
			return false, err
		}
		return decoded && !hasErrorSince(msgs, before), nil
	})
}

func hasErrorSince(msgs *shipper.Messages, from int) bool {
	for _, msg := range msgs.List()[from:] {
		if msg.Severity == shipper.SeverityError {
			return true
		}
	}
	return false
}

// succeeded reads a step's body for a dependent step builder and skips the
// step when the predecessor failed or reported carrier errors.
func succeeded(prior *shipper.PipelineResponse, name string, out informative) error {
	body, err := shipper.Prerequisite(prior, name)
	if err != nil {
		return err
	}
	fault, err := soap.Decode(body, out)
	if err != nil {
		return fmt.Errorf("%s response: %w", name, err)
	}
	if fault != nil {
		return fmt.Errorf("%s returned a fault: %w", name, shipper.ErrStepSkipped)
	}
	if len(out.info().Errors) > 0 {
		return fmt.Errorf("%s reported errors: %w", name, shipper.ErrStepSkipped)
	}
	return nil
}

func parseError(operation string, err error) error {
	var perr *shipper.ParseError
	if errors.As(err, &perr) {
		return err
	}
	return shipper.NewParseError(carrierID, operation, err)
}
