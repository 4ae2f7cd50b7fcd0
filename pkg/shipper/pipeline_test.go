package shipper_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/shipbridge/pkg/shipper"
	"github.com/tournevent/shipbridge/pkg/shipper/mock"
)

func call(url string) *shipper.Serializable[string] {
	return shipper.NewSerializable(url, func(s string) ([]byte, error) {
		return []byte(s), nil
	}, shipper.Endpoint{Method: "GET", URL: url})
}

func fixed(url string) shipper.StepBuilder {
	return func(*shipper.PipelineResponse) (shipper.Outbound, error) {
		return call(url), nil
	}
}

func TestPipeline_AllSucceed(t *testing.T) {
	transport := mock.NewTransport().
		Respond("https://carrier.test/a", []byte("A")).
		Respond("https://carrier.test/b", []byte("B"))

	var seen []byte
	p := shipper.NewPipeline(
		shipper.Step{Name: "a", Build: fixed("https://carrier.test/a"), HaltOnFailure: true},
		shipper.Step{Name: "b", Build: func(prior *shipper.PipelineResponse) (shipper.Outbound, error) {
			body, err := shipper.Prerequisite(prior, "a")
			if err != nil {
				return nil, err
			}
			seen = body
			return call("https://carrier.test/b"), nil
		}},
	)

	res := p.Run(context.Background(), transport)

	assert.Equal(t, []string{"a", "b"}, res.Names())
	assert.Equal(t, []byte("A"), seen)
	body, ok := res.Body("b")
	require.True(t, ok)
	assert.Equal(t, "B", string(body))
	assert.Empty(t, res.Failures())
	assert.Equal(t, 2, p.Len())
}

func TestPipeline_HaltOnFailure(t *testing.T) {
	transport := mock.NewTransport().
		Fail("https://carrier.test/a", shipper.NewTransportError("test", "HTTP_500", "boom"))

	builds := 0
	p := shipper.NewPipeline(
		shipper.Step{Name: "a", Build: fixed("https://carrier.test/a"), HaltOnFailure: true},
		shipper.Step{Name: "b", Build: func(*shipper.PipelineResponse) (shipper.Outbound, error) {
			builds++
			return call("https://carrier.test/b"), nil
		}},
	)

	res := p.Run(context.Background(), transport)

	assert.Equal(t, []string{"a"}, res.Names())
	assert.Zero(t, builds, "halted pipeline must not build later steps")
	assert.Equal(t, 1, transport.CallCount())

	r, ok := res.Get("a")
	require.True(t, ok)
	assert.Equal(t, shipper.StepFailed, r.Status)
	_, ok = res.Body("a")
	assert.False(t, ok)
}

func TestPipeline_ContinuesAfterNonHaltingFailure(t *testing.T) {
	transport := mock.NewTransport().
		Fail("https://carrier.test/a", errors.New("refused")).
		Respond("https://carrier.test/b", []byte("B"))

	p := shipper.NewPipeline(
		shipper.Step{Name: "a", Build: fixed("https://carrier.test/a")},
		shipper.Step{Name: "b", Build: fixed("https://carrier.test/b")},
	)

	res := p.Run(context.Background(), transport)

	assert.Equal(t, []string{"a", "b"}, res.Names())
	require.Len(t, res.Failures(), 1)
	assert.Equal(t, "a", res.Failures()[0].Name)
	_, ok := res.Body("b")
	assert.True(t, ok)
}

func TestPipeline_Empty(t *testing.T) {
	res := shipper.NewPipeline().Run(context.Background(), mock.NewTransport())

	assert.Zero(t, res.Len())
	assert.Empty(t, res.Names())
}

func TestPipeline_SkippedStep(t *testing.T) {
	transport := mock.NewTransport().
		Fail("https://carrier.test/a", errors.New("refused"))

	p := shipper.NewPipeline(
		shipper.Step{Name: "a", Build: fixed("https://carrier.test/a")},
		shipper.Step{Name: "b", Build: func(prior *shipper.PipelineResponse) (shipper.Outbound, error) {
			if _, err := shipper.Prerequisite(prior, "a"); err != nil {
				return nil, err
			}
			return call("https://carrier.test/b"), nil
		}},
	)

	res := p.Run(context.Background(), transport)

	r, ok := res.Get("b")
	require.True(t, ok)
	assert.Equal(t, shipper.StepSkipped, r.Status)
	assert.ErrorIs(t, r.Err, shipper.ErrStepSkipped)
	assert.Equal(t, 1, transport.CallCount())
	require.Len(t, res.Failures(), 1, "skipped steps are not failures")
}

func TestPipeline_BuilderErrorIsFailure(t *testing.T) {
	p := shipper.NewPipeline(
		shipper.Step{Name: "a", HaltOnFailure: true, Build: func(*shipper.PipelineResponse) (shipper.Outbound, error) {
			return nil, fmt.Errorf("cannot build")
		}},
		shipper.Step{Name: "b", Build: fixed("https://carrier.test/b")},
	)

	res := p.Run(context.Background(), mock.NewTransport())

	assert.Equal(t, []string{"a"}, res.Names())
	r, _ := res.Get("a")
	assert.Equal(t, shipper.StepFailed, r.Status)
}

func TestPipeline_CancelledContext(t *testing.T) {
	transport := mock.NewTransport().Respond("https://carrier.test/a", []byte("A"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := shipper.NewPipeline(shipper.Step{Name: "a", Build: fixed("https://carrier.test/a")})
	res := p.Run(ctx, transport)

	r, ok := res.Get("a")
	require.True(t, ok)
	assert.Equal(t, shipper.StepFailed, r.Status)
	assert.ErrorIs(t, r.Err, context.Canceled)
	assert.Zero(t, transport.CallCount())
}

func TestPipeline_FreshResponsePerRun(t *testing.T) {
	transport := mock.NewTransport().Respond("https://carrier.test/a", []byte("A"))
	p := shipper.NewPipeline(shipper.Step{Name: "a", Build: fixed("https://carrier.test/a")})

	first := p.Run(context.Background(), transport)
	second := p.Run(context.Background(), transport)

	assert.NotSame(t, first, second)
	assert.Equal(t, 1, first.Len())
	assert.Equal(t, 1, second.Len())
}

func TestPipelineResponse_Messages(t *testing.T) {
	res := shipper.NewPipelineResponse()
	res.Record(shipper.StepResult{Name: "validate", Status: shipper.StepSucceeded, Body: []byte("ok")})
	res.Record(shipper.StepResult{Name: "create", Status: shipper.StepFailed, Err: shipper.NewTransportError("x", "HTTP_503", "down")})
	res.Record(shipper.StepResult{Name: "document", Status: shipper.StepFailed, Err: errors.New("boom")})
	res.Record(shipper.StepResult{Name: "notify", Status: shipper.StepSkipped, Err: shipper.ErrStepSkipped})

	msgs := res.Messages(mock.NewSettings("acct"))

	require.Len(t, msgs, 2)
	assert.Equal(t, "HTTP_503", msgs[0].Code)
	assert.Equal(t, "create", msgs[0].Details["step"])
	assert.Equal(t, "STEP_FAILED", msgs[1].Code)
	assert.Equal(t, "mock", msgs[1].CarrierID)
}

func TestPipelineResponse_StepMessages(t *testing.T) {
	res := shipper.NewPipelineResponse()
	res.Record(shipper.StepResult{Name: "validate", Status: shipper.StepSucceeded, Body: []byte("ok")})
	res.Record(shipper.StepResult{Name: "create", Status: shipper.StepFailed, Err: shipper.NewTransportError("x", "HTTP_503", "down")})
	settings := mock.NewSettings("acct")

	msgs := res.StepMessages(settings, "create")
	require.Len(t, msgs, 1)
	assert.Equal(t, "HTTP_503", msgs[0].Code)
	assert.Equal(t, "mock", msgs[0].CarrierID)

	assert.Nil(t, res.StepMessages(settings, "validate"))
	assert.Nil(t, res.StepMessages(settings, "missing"))
}

func TestPipelineResponse_DecodeStep(t *testing.T) {
	res := shipper.NewPipelineResponse()
	res.Record(shipper.StepResult{Name: "ok", Status: shipper.StepSucceeded, Body: []byte("A")})
	res.Record(shipper.StepResult{Name: "down", Status: shipper.StepFailed, Err: errors.New("refused")})
	res.Record(shipper.StepResult{Name: "skipped", Status: shipper.StepSkipped, Err: shipper.ErrStepSkipped})

	msgs := shipper.NewMessages(mock.NewSettings("acct"))
	var decoded []string
	decode := func(body []byte) (bool, error) {
		decoded = append(decoded, string(body))
		return true, nil
	}

	for _, name := range []string{"ok", "down", "skipped", "missing"} {
		ok, err := res.DecodeStep(name, msgs, decode)
		require.NoError(t, err)
		assert.Equal(t, name == "ok", ok, name)
	}

	assert.Equal(t, []string{"A"}, decoded)
	list := msgs.List()
	require.Len(t, list, 1)
	assert.Equal(t, "down", list[0].Details["step"])
	assert.Equal(t, "STEP_FAILED", list[0].Code)
}

func TestPipelineResponse_DecodeStepError(t *testing.T) {
	res := shipper.NewPipelineResponse()
	res.Record(shipper.StepResult{Name: "ok", Status: shipper.StepSucceeded, Body: []byte("<")})

	_, err := res.DecodeStep("ok", shipper.NewMessages(nil), func([]byte) (bool, error) {
		return false, errors.New("unexpected EOF")
	})

	assert.EqualError(t, err, "unexpected EOF")
}

func TestExecutor_Observer(t *testing.T) {
	transport := mock.NewTransport().
		Respond("https://carrier.test/a", []byte("A")).
		Fail("https://carrier.test/b", errors.New("refused"))

	type observed struct {
		step   string
		status shipper.StepStatus
	}
	var got []observed
	exec := shipper.NewExecutor(nil, nil).WithObserver(func(step string, status shipper.StepStatus, _ time.Duration) {
		got = append(got, observed{step, status})
	})

	exec.Run(context.Background(), shipper.NewPipeline(
		shipper.Step{Name: "a", Build: fixed("https://carrier.test/a")},
		shipper.Step{Name: "b", Build: fixed("https://carrier.test/b")},
	), transport)

	assert.Equal(t, []observed{{"a", shipper.StepSucceeded}, {"b", shipper.StepFailed}}, got)
}

func TestExecutor_ObserverSeesKind(t *testing.T) {
	transport := mock.NewTransport().
		Respond("https://carrier.test/track/1", []byte("1")).
		Respond("https://carrier.test/track/2", []byte("2"))

	var kinds []string
	exec := shipper.NewExecutor(nil, nil).WithObserver(func(kind string, _ shipper.StepStatus, _ time.Duration) {
		kinds = append(kinds, kind)
	})

	res := exec.Run(context.Background(), shipper.NewPipeline(
		shipper.Step{Name: "1", Kind: "track", Build: fixed("https://carrier.test/track/1")},
		shipper.Step{Name: "2", Kind: "track", Build: fixed("https://carrier.test/track/2")},
	), transport)

	assert.Equal(t, []string{"track", "track"}, kinds)
	assert.Equal(t, []string{"1", "2"}, res.Names())
}
