package canadapost

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tournevent/shipbridge/pkg/shipper"
)

func marshalXML[T any](v T) ([]byte, error) {
	body, err := xml.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}

func noBody(struct{}) ([]byte, error) {
	return nil, nil
}

func (m *Mapper) endpoint(method, path, mediaType string) shipper.Endpoint {
	ep := shipper.Endpoint{
		Method:      method,
		URL:         m.settings.BaseURL() + path,
		Accept:      mediaType,
		Username:    m.settings.Username,
		Password:    m.settings.Password,
		Headers:     map[string]string{"Accept-Language": m.settings.acceptLanguage()},
		ErrorBodies: true,
	}
	if method == http.MethodPost || method == http.MethodPut {
		ep.ContentType = mediaType
	}
	return ep
}

func send[T any](m *Mapper, method, path, mediaType string, body T) *shipper.Serializable[T] {
	return shipper.NewSerializable(body, marshalXML[T], m.endpoint(method, path, mediaType))
}

func fetch(m *Mapper, method, path, mediaType string) *shipper.Serializable[struct{}] {
	return shipper.NewSerializable(struct{}{}, noBody, m.endpoint(method, path, mediaType))
}

// rootElement returns the local name of the document's first element.
func rootElement(body []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))
	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", fmt.Errorf("no root element")
			}
			return "", err
		}
		if start, ok := tok.(xml.StartElement); ok {
			return start.Name.Local, nil
		}
	}
}

// decode reads a Canada Post document into out. A <messages> document is
// turned into error messages instead and decode reports false. An empty body
// is not an error.
func (m *Mapper) decode(body []byte, out any, msgs *shipper.Messages) (bool, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return false, nil
	}
	root, err := rootElement(body)
	if err != nil {
		return false, err
	}
	if root == "messages" {
		var list messageList
		if err := xml.Unmarshal(body, &list); err != nil {
			return false, err
		}
		for _, msg := range list.Messages {
			msgs.Error(msg.Code, msg.Description)
		}
		return false, nil
	}
	if err := xml.Unmarshal(body, out); err != nil {
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
// dependent step is skipped when the predecessor failed or returned errors.
func available(prior *shipper.PipelineResponse, name string, out any) error {
	body, err := shipper.Prerequisite(prior, name)
	if err != nil {
		return err
	}
	root, err := rootElement(body)
	if err != nil {
		return fmt.Errorf("%s response: %w", name, err)
	}
	if root == "messages" {
		return fmt.Errorf("%s reported errors: %w", name, shipper.ErrStepSkipped)
	}
	if err := xml.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s response: %w", name, err)
	}
	return nil
}

func parseError(operation string, err error) error {
	return shipper.NewParseError(carrierID, operation, err)
}

func normalizePostalCode(pc string) string {
	return strings.ReplaceAll(strings.ToUpper(pc), " ", "")
}
