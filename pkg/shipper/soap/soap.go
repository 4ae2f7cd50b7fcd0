// Package soap renders SOAP 1.1 envelopes and extracts their bodies.
package soap

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"text/template"
)

const envelopeTemplate = `<?xml version="1.0" encoding="utf-8"?>
<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/"{{range .Namespaces}} xmlns:{{.Prefix}}="{{.URI}}"{{end}}>
{{- if .Header}}
  <soap:Header>{{.Header}}</soap:Header>
{{- end}}
  <soap:Body>{{.Body}}</soap:Body>
</soap:Envelope>`

var envelope = template.Must(template.New("envelope").Parse(envelopeTemplate))

// Namespace is a prefix declared on the envelope element.
type Namespace struct {
	Prefix string
	URI    string
}

// Render marshals header and body with encoding/xml and wraps them in an
// envelope declaring namespaces. A nil header omits the Header element.
// Element names in header and body may carry the declared prefixes.
func Render(namespaces []Namespace, header, body any) ([]byte, error) {
	var headerXML string
	if header != nil {
		h, err := xml.Marshal(header)
		if err != nil {
			return nil, fmt.Errorf("marshal soap header: %w", err)
		}
		headerXML = string(h)
	}

	b, err := xml.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal soap body: %w", err)
	}

	var buf bytes.Buffer
	err = envelope.Execute(&buf, struct {
		Namespaces []Namespace
		Header     string
		Body       string
	}{
		Namespaces: namespaces,
		Header:     headerXML,
		Body:       string(b),
	})
	if err != nil {
		return nil, fmt.Errorf("render soap envelope: %w", err)
	}
	return buf.Bytes(), nil
}

// Fault is a SOAP 1.1 fault.
type Fault struct {
	Code   string `xml:"faultcode"`
	String string `xml:"faultstring"`
}

func (f *Fault) Error() string {
	return f.Code + ": " + f.String
}

type envelopeDoc struct {
	XMLName xml.Name `xml:"Envelope"`
	Body    struct {
		Fault   *Fault `xml:"Fault"`
		Content []byte `xml:",innerxml"`
	} `xml:"Body"`
}

// Decode parses a SOAP envelope. When the body holds a fault it is returned
// and out is left untouched; otherwise the body's first element is decoded
// into out. Element matching ignores namespace prefixes.
func Decode(data []byte, out any) (*Fault, error) {
	var env envelopeDoc
	if err := xml.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("parse soap envelope: %w", err)
	}
	if env.Body.Fault != nil {
		return env.Body.Fault, nil
	}
	if len(bytes.TrimSpace(env.Body.Content)) == 0 {
		return nil, fmt.Errorf("parse soap envelope: empty body")
	}
	if err := xml.Unmarshal(env.Body.Content, out); err != nil {
		return nil, fmt.Errorf("parse soap body: %w", err)
	}
	return nil, nil
}
