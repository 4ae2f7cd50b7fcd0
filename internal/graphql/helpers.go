package graphql

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tournevent/shipbridge/pkg/shipper"
)

// decodeInput converts the "input" variable into a canonical request.
func decodeInput(vars map[string]any, out any) error {
	raw, ok := vars["input"].(map[string]any)
	if !ok {
		return ErrMissingInput
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("encoding input: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}
	return nil
}

func stringArg(vars map[string]any, key string) string {
	s, _ := vars[key].(string)
	return s
}

// stringList reads a list of strings. A single string is accepted as a list
// of one.
func stringList(vars map[string]any, key string) []string {
	switch v := vars[key].(type) {
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func nonNil(msgs []shipper.Message) []shipper.Message {
	if msgs == nil {
		return []shipper.Message{}
	}
	return msgs
}

// errorMessage turns an operation failure into a diagnostic message.
func errorMessage(err error) shipper.Message {
	msg := shipper.Message{
		Severity: shipper.SeverityError,
		Code:     ErrorCode(err),
		Message:  err.Error(),
	}

	var transportErr *shipper.TransportError
	var parseErr *shipper.ParseError
	switch {
	case errors.As(err, &transportErr):
		msg.CarrierID = transportErr.Carrier
		msg.CarrierName = transportErr.Carrier
	case errors.As(err, &parseErr):
		msg.CarrierID = parseErr.Carrier
		msg.CarrierName = parseErr.Carrier
		msg.Details = map[string]string{"operation": parseErr.Operation}
	}
	return msg
}

// ErrorCode maps an error to the code reported to API clients.
func ErrorCode(err error) string {
	var transportErr *shipper.TransportError
	switch {
	case errors.As(err, &transportErr):
		return transportErr.Code
	case errors.Is(err, shipper.ErrRequiredField):
		return "REQUIRED_FIELD"
	case errors.Is(err, shipper.ErrOperationNotSupported):
		return "NOT_SUPPORTED"
	case errors.Is(err, shipper.ErrCarrierNotFound):
		return "CARRIER_NOT_FOUND"
	case errors.Is(err, shipper.ErrMalformedResponse):
		return "MALFORMED_RESPONSE"
	case errors.Is(err, ErrMissingInput), errors.Is(err, ErrCarrierRequired):
		return "BAD_USER_INPUT"
	case errors.Is(err, ErrUnknownField):
		return "UNKNOWN_FIELD"
	default:
		return "CARRIER_ERROR"
	}
}

func errorType(err error) string {
	var transportErr *shipper.TransportError
	switch {
	case errors.As(err, &transportErr):
		return "transport"
	case errors.Is(err, shipper.ErrRequiredField):
		return "validation"
	case errors.Is(err, shipper.ErrOperationNotSupported):
		return "not_supported"
	case errors.Is(err, shipper.ErrCarrierNotFound):
		return "not_found"
	case errors.Is(err, shipper.ErrMalformedResponse):
		return "parse"
	default:
		return "unknown"
	}
}
