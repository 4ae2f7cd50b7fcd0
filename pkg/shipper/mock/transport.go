package mock

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/tournevent/shipbridge/pkg/shipper"
)

// Call is a request received by a Transport.
type Call struct {
	Endpoint shipper.Endpoint
	Body     []byte
}

type reply struct {
	key  string
	body []byte
	err  error
}

// Transport is a scripted shipper.Transport. Replies are matched against
// "METHOD URL", the URL, the SOAP action, and finally as a URL suffix, in
// that order.
type Transport struct {
	SimulateErrors  bool
	SimulateLatency time.Duration

	// OnSend answers requests no scripted reply matches.
	OnSend func(ctx context.Context, req shipper.Outbound) ([]byte, error)

	mu      sync.Mutex
	replies []reply
	calls   []Call
}

// NewTransport creates a transport with no scripted replies.
func NewTransport() *Transport {
	return &Transport{}
}

// Respond scripts a successful reply for key.
func (t *Transport) Respond(key string, body []byte) *Transport {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.replies = append(t.replies, reply{key: key, body: body})
	return t
}

// Fail scripts a failure for key.
func (t *Transport) Fail(key string, err error) *Transport {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.replies = append(t.replies, reply{key: key, err: err})
	return t
}

// Send records the call and returns the matching reply.
func (t *Transport) Send(ctx context.Context, req shipper.Outbound) ([]byte, error) {
	if t.SimulateLatency > 0 {
		select {
		case <-time.After(t.SimulateLatency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	body, err := req.Serialize()
	if err != nil {
		return nil, err
	}
	ep := req.Target()

	t.mu.Lock()
	t.calls = append(t.calls, Call{Endpoint: ep, Body: body})
	r, found := t.match(ep)
	t.mu.Unlock()

	if t.SimulateErrors {
		return nil, shipper.NewTransportError("mock", "MOCK_ERROR", "simulated transport error").
			WithStatusCode(500).
			WithRetryable(true)
	}
	if found {
		return r.body, r.err
	}
	if t.OnSend != nil {
		return t.OnSend(ctx, req)
	}
	return nil, shipper.NewTransportError("mock", "NOT_SCRIPTED", "no reply for "+methodOf(ep)+" "+ep.URL).
		WithStatusCode(404)
}

func (t *Transport) match(ep shipper.Endpoint) (reply, bool) {
	exact := []string{methodOf(ep) + " " + ep.URL, ep.URL}
	if ep.SOAPAction != "" {
		exact = append(exact, ep.SOAPAction)
	}
	for _, key := range exact {
		for _, r := range t.replies {
			if r.key == key {
				return r, true
			}
		}
	}
	for _, r := range t.replies {
		if strings.HasSuffix(ep.URL, r.key) || strings.HasSuffix(ep.SOAPAction, "/"+r.key) {
			return r, true
		}
	}
	return reply{}, false
}

func methodOf(ep shipper.Endpoint) string {
	if ep.Method == "" {
		return "POST"
	}
	return ep.Method
}

// Calls returns the received requests in order.
func (t *Transport) Calls() []Call {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Call, len(t.calls))
	copy(out, t.calls)
	return out
}

// CallCount returns the number of received requests.
func (t *Transport) CallCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.calls)
}

// URLs returns the URLs of the received requests in order.
func (t *Transport) URLs() []string {
	calls := t.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.Endpoint.URL
	}
	return out
}

var _ shipper.Transport = (*Transport)(nil)
