package transport_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/shipbridge/pkg/shipper"
	"github.com/tournevent/shipbridge/pkg/shipper/transport"
)

func outbound(ep shipper.Endpoint, body string) shipper.Outbound {
	return shipper.NewSerializable(body, func(s string) ([]byte, error) {
		return []byte(s), nil
	}, ep)
}

func TestHTTP_Send(t *testing.T) {
	var got *http.Request
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		_, _ = w.Write([]byte("<ok/>"))
	}))
	defer srv.Close()

	tr := transport.New(transport.Config{Carrier: "purolator"}, nil, nil)
	body, err := tr.Send(context.Background(), outbound(shipper.Endpoint{
		URL:         srv.URL + "/EWS/V2/Estimating/EstimatingService.asmx",
		ContentType: "text/xml; charset=utf-8",
		SOAPAction:  "http://purolator.com/pws/service/v2/GetFullEstimate",
		Username:    "user",
		Password:    "pass",
		Headers:     map[string]string{"Accept-Language": "en-CA"},
	}, "<req/>"))

	require.NoError(t, err)
	assert.Equal(t, "<ok/>", string(body))
	require.NotNil(t, got)
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "<req/>", gotBody)
	assert.Equal(t, "text/xml; charset=utf-8", got.Header.Get("Content-Type"))
	assert.Equal(t, "http://purolator.com/pws/service/v2/GetFullEstimate", got.Header.Get("SOAPAction"))
	assert.Equal(t, "en-CA", got.Header.Get("Accept-Language"))
	user, pass, ok := got.BasicAuth()
	assert.True(t, ok)
	assert.Equal(t, "user", user)
	assert.Equal(t, "pass", pass)
}

func TestHTTP_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("maintenance"))
	}))
	defer srv.Close()

	tr := transport.New(transport.Config{Carrier: "canadapost"}, nil, nil)
	_, err := tr.Send(context.Background(), outbound(shipper.Endpoint{Method: http.MethodGet, URL: srv.URL}, ""))

	var terr *shipper.TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "HTTP_503", terr.Code)
	assert.Equal(t, 503, terr.StatusCode)
	assert.Equal(t, "maintenance", string(terr.Body))
	assert.True(t, terr.Retryable)
	assert.ErrorIs(t, err, shipper.ErrServiceUnavailable)
}

func TestHTTP_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	tr := transport.New(transport.Config{Carrier: "freightcom"}, nil, nil)
	_, err := tr.Send(context.Background(), outbound(shipper.Endpoint{URL: srv.URL}, "{}"))

	assert.ErrorIs(t, err, shipper.ErrAuthenticationFailed)
	assert.False(t, shipper.IsRetryable(err))
}

func errorServer(t *testing.T, status int, contentType, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTP_ErrorBodies(t *testing.T) {
	srv := errorServer(t, http.StatusBadRequest, "application/vnd.cpc.messages+xml",
		`<messages><message><code>9111</code></message></messages>`)

	tr := transport.New(transport.Config{Carrier: "canadapost"}, nil, nil)
	ep := shipper.Endpoint{URL: srv.URL, Accept: "application/vnd.cpc.track-v2+xml", ErrorBodies: true}
	body, err := tr.Send(context.Background(), outbound(ep, "<x/>"))

	require.NoError(t, err)
	assert.Contains(t, string(body), "9111")
}

func TestHTTP_ErrorBodies_SOAPFault(t *testing.T) {
	srv := errorServer(t, http.StatusInternalServerError, "text/xml; charset=utf-8", `<Fault>boom</Fault>`)

	tr := transport.New(transport.Config{Carrier: "purolator"}, nil, nil)
	ep := shipper.Endpoint{URL: srv.URL, ContentType: "text/xml; charset=utf-8", ErrorBodies: true}
	body, err := tr.Send(context.Background(), outbound(ep, "<x/>"))

	require.NoError(t, err)
	assert.Equal(t, `<Fault>boom</Fault>`, string(body))
}

func TestHTTP_ErrorBodies_RejectsForeignDocuments(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		accept      string
		sentinel    error
	}{
		{
			name:        "html gateway page",
			status:      http.StatusServiceUnavailable,
			contentType: "text/html; charset=utf-8",
			body:        "<html><body>503 Service Temporarily Unavailable</body></html>",
			accept:      "application/vnd.cpc.track-v2+xml",
			sentinel:    shipper.ErrServiceUnavailable,
		},
		{
			name:     "no content type",
			status:   http.StatusBadGateway,
			body:     "bad gateway",
			accept:   "application/json",
			sentinel: shipper.ErrServiceUnavailable,
		},
		{
			name:        "xml for a json endpoint",
			status:      http.StatusForbidden,
			contentType: "application/xml",
			body:        "<Error>denied</Error>",
			accept:      "application/json",
			sentinel:    shipper.ErrAuthenticationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.contentType != "" {
					w.Header().Set("Content-Type", tt.contentType)
				} else {
					w.Header()["Content-Type"] = nil
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			tr := transport.New(transport.Config{Carrier: "canadapost"}, nil, nil)
			ep := shipper.Endpoint{URL: srv.URL, Accept: tt.accept, ErrorBodies: true}
			body, err := tr.Send(context.Background(), outbound(ep, "x"))

			assert.Nil(t, body)
			require.ErrorIs(t, err, tt.sentinel)
			var terr *shipper.TransportError
			require.ErrorAs(t, err, &terr)
			assert.Equal(t, tt.status, terr.StatusCode)
			assert.Equal(t, tt.body, string(terr.Body))
		})
	}
}

func TestHTTP_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	tr := transport.New(transport.Config{Carrier: "purolator", Timeout: time.Second}, nil, nil)
	_, err := tr.Send(context.Background(), outbound(shipper.Endpoint{URL: url}, "<x/>"))

	var terr *shipper.TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "NETWORK", terr.Code)
	assert.True(t, terr.Retryable)
}

func TestHTTP_RateLimiterHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	tr := transport.New(transport.Config{Carrier: "purolator", RequestsPerSecond: 0.001, Burst: 1}, nil, nil)
	_, err := tr.Send(context.Background(), outbound(shipper.Endpoint{URL: srv.URL}, "a"))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = tr.Send(ctx, outbound(shipper.Endpoint{URL: srv.URL}, "b"))

	var terr *shipper.TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "RATE_LIMITED", terr.Code)
}
