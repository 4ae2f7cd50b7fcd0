package shipper_test

import (
	"encoding/json"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/shipbridge/pkg/shipper"
	"github.com/tournevent/shipbridge/pkg/shipper/mock"
)

func TestSerializable_DeferredAndDeterministic(t *testing.T) {
	calls := 0
	s := shipper.NewSerializable(map[string]int{"b": 2, "a": 1}, func(v map[string]int) ([]byte, error) {
		calls++
		return json.Marshal(v)
	}, shipper.Endpoint{URL: "https://carrier.test/rate"})

	assert.Zero(t, calls, "construction must not serialize")

	first, err := s.Serialize()
	require.NoError(t, err)
	second, err := s.Serialize()
	require.NoError(t, err)

	assert.Equal(t, `{"a":1,"b":2}`, string(first))
	assert.Equal(t, first, second)
	assert.Equal(t, 2, calls)
	assert.Equal(t, "https://carrier.test/rate", s.Target().URL)
	assert.Equal(t, 2, s.Value()["b"])
}

func TestDeserializable(t *testing.T) {
	d := shipper.NewDeserializable(shipper.Response{Body: []byte("42")}, func(r shipper.Response) (int, error) {
		return strconv.Atoi(string(r.Body))
	})

	v, err := d.Deserialize()
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, "42", string(d.Raw().Body))
}

func TestBind(t *testing.T) {
	calls := 0
	parse := func(r shipper.Response) (int, []shipper.Message, error) {
		calls++
		n, err := strconv.Atoi(string(r.Body))
		if err != nil {
			return 0, nil, err
		}
		return n, []shipper.Message{{Code: "W1", Severity: shipper.SeverityWarning}}, nil
	}

	d := shipper.Bind(shipper.Response{Body: []byte("7")}, parse)
	assert.Zero(t, calls, "binding must not parse")
	assert.Equal(t, "7", string(d.Raw().Body))

	out, err := d.Deserialize()
	require.NoError(t, err)
	assert.Equal(t, 7, out.Details)
	require.Len(t, out.Messages, 1)
	assert.Equal(t, "W1", out.Messages[0].Code)

	_, err = shipper.Bind(shipper.Response{Body: []byte("x")}, parse).Deserialize()
	var numErr *strconv.NumError
	assert.True(t, errors.As(err, &numErr))
}

func TestMessages_KeepsOrderAndDuplicates(t *testing.T) {
	msgs := shipper.NewMessages(mock.NewSettings("acct"))
	msgs.Warning("W1", "first")
	msgs.Error("E1", "second")
	msgs.Extend([]shipper.Message{{Code: "E1", Message: "second"}})

	list := msgs.List()
	require.Len(t, list, 3)
	assert.Equal(t, []string{"W1", "E1", "E1"}, []string{list[0].Code, list[1].Code, list[2].Code})
	assert.Equal(t, shipper.SeverityError, list[2].Severity, "severity defaults to error")
	assert.Equal(t, "Mock Carrier", list[0].CarrierName)
	assert.True(t, msgs.HasErrors())
	assert.Equal(t, "[Mock Carrier] warning W1: first", list[0].String())
}

func TestMessages_EmptyListIsNotNil(t *testing.T) {
	list := shipper.NewMessages(nil).List()
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestParcel_Units(t *testing.T) {
	p := shipper.Parcel{Weight: 2, WeightUnit: shipper.WeightKG, Length: 10, Width: 20, Height: 30}

	assert.Equal(t, 4.41, p.WeightIn(shipper.WeightLB))
	assert.Equal(t, 2.0, p.WeightIn(shipper.WeightKG))
	l, w, h := p.DimensionsIn(shipper.DimensionIN)
	assert.Equal(t, []float64{3.94, 7.87, 11.81}, []float64{l, w, h})
	assert.True(t, p.HasDimensions())
	assert.False(t, shipper.Parcel{}.HasDimensions())

	parcels := []shipper.Parcel{{Weight: 1, WeightUnit: shipper.WeightLB}, {Weight: 1}}
	assert.Equal(t, 3.2, shipper.TotalWeight(parcels, shipper.WeightLB))
}
