package mock_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/shipbridge/pkg/shipper"
	"github.com/tournevent/shipbridge/pkg/shipper/mock"
)

func outbound(method, url string) shipper.Outbound {
	return shipper.NewSerializable("ping", func(s string) ([]byte, error) {
		return []byte(s), nil
	}, shipper.Endpoint{Method: method, URL: url})
}

func TestTransport_Matching(t *testing.T) {
	tr := mock.NewTransport().
		Respond("GET https://api.example.com/a", []byte("exact")).
		Respond("https://api.example.com/b", []byte("url")).
		Respond("/c/detail", []byte("suffix"))

	ctx := context.Background()

	body, err := tr.Send(ctx, outbound("GET", "https://api.example.com/a"))
	require.NoError(t, err)
	assert.Equal(t, "exact", string(body))

	body, err = tr.Send(ctx, outbound("", "https://api.example.com/b"))
	require.NoError(t, err)
	assert.Equal(t, "url", string(body))

	body, err = tr.Send(ctx, outbound("GET", "https://api.example.com/c/detail"))
	require.NoError(t, err)
	assert.Equal(t, "suffix", string(body))

	_, err = tr.Send(ctx, outbound("GET", "https://api.example.com/missing"))
	var terr *shipper.TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "NOT_SCRIPTED", terr.Code)

	assert.Equal(t, 4, tr.CallCount())
	assert.Equal(t, "ping", string(tr.Calls()[0].Body))
}

func TestTransport_Fail(t *testing.T) {
	boom := errors.New("boom")
	tr := mock.NewTransport().Fail("/x", boom)

	_, err := tr.Send(context.Background(), outbound("POST", "https://h/x"))

	assert.ErrorIs(t, err, boom)
}

func TestTransport_SimulateErrors(t *testing.T) {
	tr := mock.NewTransport().Respond("/x", []byte("ok"))
	tr.SimulateErrors = true

	_, err := tr.Send(context.Background(), outbound("POST", "https://h/x"))

	assert.True(t, shipper.IsRetryable(err))
	assert.Equal(t, 1, tr.CallCount())
}

func TestTransport_LatencyHonoursContext(t *testing.T) {
	tr := mock.NewTransport().Respond("/x", []byte("ok"))
	tr.SimulateLatency = time.Second

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := tr.Send(ctx, outbound("POST", "https://h/x"))

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, tr.CallCount())
}

func TestNew_LeavesCallerSettingsUntouched(t *testing.T) {
	settings := &mock.Settings{BaseSettings: shipper.BaseSettings{AccountID: "demo"}}

	m := mock.New(settings)

	assert.Empty(t, settings.Carrier)
	assert.Empty(t, settings.Name)
	assert.Equal(t, "mock", m.Settings().CarrierID())
	assert.Equal(t, "Mock Carrier", m.Settings().CarrierName())
}

func TestMapper_RequiredFields(t *testing.T) {
	m := mock.New(mock.NewSettings("demo"))

	_, err := m.CreateRateRequest(shipper.RateRequest{})
	assert.ErrorIs(t, err, shipper.ErrRequiredField)

	_, err = m.CreateTrackingRequest(shipper.TrackingRequest{})
	assert.ErrorIs(t, err, shipper.ErrRequiredField)
}

func TestMapper_RequestEnvelope(t *testing.T) {
	m := mock.New(mock.NewSettings("demo"))

	req, err := m.CreateRateRequest(shipper.RateRequest{Parcel: shipper.Parcel{Weight: 1}})
	require.NoError(t, err)

	out := req.(shipper.Outbound)
	assert.Equal(t, "mock://demo/rate", out.Target().URL)

	body, err := out.Serialize()
	require.NoError(t, err)
	var env mock.Envelope
	require.NoError(t, json.Unmarshal(body, &env))
	assert.Equal(t, mock.OpRate, env.Operation)
	assert.Equal(t, "demo", env.Account)
}

func TestDemo_ThroughGateway(t *testing.T) {
	m := mock.New(mock.NewSettings("demo"))
	gw := shipper.NewGateway(m, mock.NewDemoTransport())
	ctx := context.Background()

	rates, msgs, err := gw.FetchRates(ctx, shipper.RateRequest{Parcel: shipper.Parcel{Weight: 2}})
	require.NoError(t, err)
	assert.Empty(t, msgs)
	require.Len(t, rates, 2)
	assert.Equal(t, "mock", rates[0].CarrierID)
	assert.Equal(t, "15.82", rates[0].TotalCharge.StringFixed(2))

	tracking, _, err := gw.Track(ctx, shipper.TrackingRequest{TrackingNumbers: []string{"A", "B"}})
	require.NoError(t, err)
	require.Len(t, tracking, 2)
	assert.Equal(t, "B", tracking[1].TrackingNumber)

	pickup, _, err := gw.UpdatePickup(ctx, shipper.PickupUpdateRequest{ConfirmationNumber: "PU1", PickupDate: "2026-10-21"})
	require.NoError(t, err)
	assert.Equal(t, "PU1", pickup.ConfirmationNumber)

	confirmation, _, err := gw.CancelShipment(ctx, shipper.ShipmentCancelRequest{ShipmentIdentifier: "x"})
	require.NoError(t, err)
	assert.True(t, confirmation.Success)
	assert.Equal(t, "Mock Carrier", confirmation.CarrierName)
}

func TestMapper_ParseMessages(t *testing.T) {
	m := mock.New(mock.NewSettings("demo"))

	rates, msgs, err := m.ParseRateResponse(shipper.Response{Body: []byte(`{"messages":[{"code":"E1","message":"no service"}]}`)})

	require.NoError(t, err)
	assert.Empty(t, rates)
	require.Len(t, msgs, 1)
	assert.Equal(t, shipper.SeverityError, msgs[0].Severity)
	assert.Equal(t, "mock", msgs[0].CarrierID)

	_, _, err = m.ParseRateResponse(shipper.Response{Body: []byte("{")})
	assert.ErrorIs(t, err, shipper.ErrMalformedResponse)
}
