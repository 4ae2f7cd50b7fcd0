package freightcom

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tournevent/shipbridge/pkg/shipper"
)

const jsonMediaType = "application/json"

func (m *Mapper) endpoint(method, path string) shipper.Endpoint {
	ep := shipper.Endpoint{
		Method:      method,
		URL:         m.settings.BaseURL() + path,
		Accept:      jsonMediaType,
		Headers:     map[string]string{"Authorization": m.settings.APIKey},
		ErrorBodies: true,
	}
	if method == http.MethodPost {
		ep.ContentType = jsonMediaType
	}
	return ep
}

func marshalJSON[T any](v T) ([]byte, error) {
	return json.Marshal(v)
}

func post[T any](m *Mapper, path string, body T) *shipper.Serializable[T] {
	return shipper.NewSerializable(body, marshalJSON[T], m.endpoint(http.MethodPost, path))
}

func fetch(m *Mapper, method, path string) *shipper.Serializable[struct{}] {
	return shipper.NewSerializable(struct{}{}, func(struct{}) ([]byte, error) {
		return nil, nil
	}, m.endpoint(method, path))
}

// rejection returns the error carried by body, if any.
func rejection(body []byte) (*apiError, error) {
	var e apiError
	if err := json.Unmarshal(body, &e); err != nil {
		return nil, err
	}
	if e.Message == "" {
		return nil, nil
	}
	if e.Code == "" {
		e.Code = "API_ERROR"
	}
	return &e, nil
}

// decode reads a Freightcom answer into out. A rejection is turned into an
// error message instead and decode reports false. An empty body is not an
// error.
func (m *Mapper) decode(body []byte, out any, msgs *shipper.Messages) (bool, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return false, nil
	}
	apiErr, err := rejection(body)
	if err != nil {
		return false, err
	}
	if apiErr != nil {
		msgs.Add(shipper.Message{
			Severity: shipper.SeverityError,
			Code:     apiErr.Code,
			Message:  apiErr.Message,
			Details:  apiErr.Errors,
		})
		return false, nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return false, err
	}
	return true, nil
}

// decodeStep decodes a succeeded pipeline step.
func (m *Mapper) decodeStep(steps *shipper.PipelineResponse, name string, out any, msgs *shipper.Messages) (bool, error) {
	return steps.DecodeStep(name, msgs, func(body []byte) (bool, error) {
		return m.decode(body, out, msgs)
	})
}

// available decodes a predecessor's body for a dependent step builder. The
// dependent step is skipped when the predecessor failed or was rejected.
func available(prior *shipper.PipelineResponse, name string, out any) error {
	body, err := shipper.Prerequisite(prior, name)
	if err != nil {
		return err
	}
	apiErr, err := rejection(body)
	if err != nil {
		return fmt.Errorf("%s response: %w", name, err)
	}
	if apiErr != nil {
		return fmt.Errorf("%s rejected: %s: %w", name, apiErr.Message, shipper.ErrStepSkipped)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s response: %w", name, err)
	}
	return nil
}

func parseError(operation string, err error) error {
	return shipper.NewParseError(carrierID, operation, err)
}
