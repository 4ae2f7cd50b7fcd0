package shipper

import "fmt"

// Severity classifies a diagnostic message.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Message is a non-fatal diagnostic returned alongside parsed details.
type Message struct {
	CarrierID   string            `json:"carrier_id"`
	CarrierName string            `json:"carrier_name"`
	Severity    Severity          `json:"severity"`
	Code        string            `json:"code,omitempty"`
	Message     string            `json:"message"`
	Details     map[string]string `json:"details,omitempty"`
}

func (m Message) String() string {
	if m.Code != "" {
		return fmt.Sprintf("[%s] %s %s: %s", m.CarrierName, m.Severity, m.Code, m.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", m.CarrierName, m.Severity, m.Message)
}

// Messages collects diagnostics in discovery order. Equivalent messages from
// different sources are all kept.
type Messages struct {
	settings Settings
	items    []Message
}

// NewMessages returns an aggregator stamping messages with the carrier identity.
func NewMessages(settings Settings) *Messages {
	return &Messages{settings: settings}
}

// Add appends a message, filling in carrier identity when missing.
func (m *Messages) Add(msg Message) {
	if m.settings != nil {
		if msg.CarrierID == "" {
			msg.CarrierID = m.settings.CarrierID()
		}
		if msg.CarrierName == "" {
			msg.CarrierName = m.settings.CarrierName()
		}
	}
	if msg.Severity == "" {
		msg.Severity = SeverityError
	}
	m.items = append(m.items, msg)
}

// Error appends an error message.
func (m *Messages) Error(code, text string) {
	m.Add(Message{Severity: SeverityError, Code: code, Message: text})
}

// Warning appends a warning message.
func (m *Messages) Warning(code, text string) {
	m.Add(Message{Severity: SeverityWarning, Code: code, Message: text})
}

// Extend appends msgs in order.
func (m *Messages) Extend(msgs []Message) {
	for _, msg := range msgs {
		m.Add(msg)
	}
}

// Len returns the number of collected messages.
func (m *Messages) Len() int {
	return len(m.items)
}

// List returns the collected messages. Never nil.
func (m *Messages) List() []Message {
	out := make([]Message, len(m.items))
	copy(out, m.items)
	return out
}

// HasErrors reports whether any error-severity message was collected.
func (m *Messages) HasErrors() bool {
	for _, msg := range m.items {
		if msg.Severity == SeverityError {
			return true
		}
	}
	return false
}
