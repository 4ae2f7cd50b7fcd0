package shipper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

// Transport sends one serialized request and returns the raw response body.
type Transport interface {
	Send(ctx context.Context, req Outbound) ([]byte, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, req Outbound) ([]byte, error)

// Send calls f.
func (f TransportFunc) Send(ctx context.Context, req Outbound) ([]byte, error) {
	return f(ctx, req)
}

// StepBuilder builds a step's request from the results of the steps that ran
// before it. It must only read earlier steps' results and must tolerate a
// missing or failed predecessor; returning an error wrapping ErrStepSkipped
// records the step as skipped.
type StepBuilder func(prior *PipelineResponse) (Outbound, error)

// Step is one named call of a Pipeline.
type Step struct {
	Name string
	// Kind groups steps whose names carry request data, such as one step
	// per tracking number. Observers see the kind, which defaults to Name.
	Kind          string
	Build         StepBuilder
	HaltOnFailure bool
}

func (s Step) kind() string {
	if s.Kind != "" {
		return s.Kind
	}
	return s.Name
}

// Pipeline is an ordered list of dependent steps. Step names must be unique.
type Pipeline struct {
	steps []Step
}

// NewPipeline creates a pipeline running steps in the given order.
func NewPipeline(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Steps returns the pipeline's steps in execution order.
func (p *Pipeline) Steps() []Step {
	out := make([]Step, len(p.steps))
	copy(out, p.steps)
	return out
}

// Len returns the number of steps.
func (p *Pipeline) Len() int {
	return len(p.steps)
}

// Run executes the pipeline with a default executor.
func (p *Pipeline) Run(ctx context.Context, t Transport) *PipelineResponse {
	return NewExecutor(nil, nil).Run(ctx, p, t)
}

// StepStatus is the outcome of a pipeline step.
type StepStatus string

const (
	StepSucceeded StepStatus = "succeeded"
	StepFailed    StepStatus = "failed"
	StepSkipped   StepStatus = "skipped"
)

// StepResult records what happened to one executed step. Body may be set on
// failure when the transport returned a payload along with the error.
type StepResult struct {
	Name   string
	Status StepStatus
	Body   []byte
	Err    error
}

// OK reports whether the step succeeded.
func (r StepResult) OK() bool {
	return r.Status == StepSucceeded
}

// PipelineResponse maps step names to results, in execution order.
type PipelineResponse struct {
	order   []string
	results map[string]StepResult
}

// NewPipelineResponse returns an empty response.
func NewPipelineResponse() *PipelineResponse {
	return &PipelineResponse{results: make(map[string]StepResult)}
}

// Record stores a step result. Recording an existing name replaces its result.
func (r *PipelineResponse) Record(res StepResult) {
	if _, ok := r.results[res.Name]; !ok {
		r.order = append(r.order, res.Name)
	}
	r.results[res.Name] = res
}

// Get returns the result of a step, if it was executed.
func (r *PipelineResponse) Get(name string) (StepResult, bool) {
	if r == nil {
		return StepResult{}, false
	}
	res, ok := r.results[name]
	return res, ok
}

// Body returns a step's body only if the step succeeded.
func (r *PipelineResponse) Body(name string) ([]byte, bool) {
	res, ok := r.Get(name)
	if !ok || !res.OK() {
		return nil, false
	}
	return res.Body, true
}

// Len returns the number of recorded steps.
func (r *PipelineResponse) Len() int {
	if r == nil {
		return 0
	}
	return len(r.order)
}

// Names returns recorded step names in execution order.
func (r *PipelineResponse) Names() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Results returns recorded results in execution order.
func (r *PipelineResponse) Results() []StepResult {
	out := make([]StepResult, 0, r.Len())
	for _, name := range r.Names() {
		out = append(out, r.results[name])
	}
	return out
}

// Failures returns failed step results in execution order.
func (r *PipelineResponse) Failures() []StepResult {
	var out []StepResult
	for _, res := range r.Results() {
		if res.Status == StepFailed {
			out = append(out, res)
		}
	}
	return out
}

// Messages converts failed steps to error messages, in execution order.
func (r *PipelineResponse) Messages(settings Settings) []Message {
	msgs := NewMessages(settings)
	for _, res := range r.Failures() {
		msgs.Add(failureMessage(res))
	}
	return msgs.List()
}

// StepMessages returns the failure message of the named step, or nil when
// the step did not fail.
func (r *PipelineResponse) StepMessages(settings Settings, name string) []Message {
	res, ok := r.Get(name)
	if !ok || res.Status != StepFailed {
		return nil
	}
	msgs := NewMessages(settings)
	msgs.Add(failureMessage(res))
	return msgs.List()
}

// DecodeStep hands the body of a succeeded step to decode. A failed step adds
// its failure message to msgs; skipped or missing steps add nothing. Only
// decode reports true.
func (r *PipelineResponse) DecodeStep(name string, msgs *Messages, decode func(body []byte) (bool, error)) (bool, error) {
	res, ok := r.Get(name)
	if !ok {
		return false, nil
	}
	switch res.Status {
	case StepFailed:
		msgs.Extend(r.StepMessages(msgs.settings, name))
		return false, nil
	case StepSkipped:
		return false, nil
	}
	return decode(res.Body)
}

func failureMessage(res StepResult) Message {
	code := "STEP_FAILED"
	var terr *TransportError
	if errors.As(res.Err, &terr) && terr.Code != "" {
		code = terr.Code
	}
	return Message{
		Severity: SeverityError,
		Code:     code,
		Message:  fmt.Sprintf("%s: %v", res.Name, res.Err),
		Details:  map[string]string{"step": res.Name},
	}
}

// StepObserver is notified after every executed step with the step's kind.
type StepObserver func(kind string, status StepStatus, elapsed time.Duration)

// Executor runs pipelines sequentially against a transport.
type Executor struct {
	logger   *otelzap.Logger
	tracer   trace.Tracer
	observer StepObserver
}

// NewExecutor creates an executor. Nil logger or tracer disable logging or tracing.
func NewExecutor(logger *otelzap.Logger, tracer trace.Tracer) *Executor {
	if logger == nil {
		logger = otelzap.New(zap.NewNop())
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("shipper")
	}
	return &Executor{logger: logger, tracer: tracer}
}

// WithObserver sets a callback invoked after each step.
func (e *Executor) WithObserver(obs StepObserver) *Executor {
	e.observer = obs
	return e
}

// Run executes p's steps in order. Each run owns a fresh PipelineResponse.
// A failed step marked HaltOnFailure stops the run; results recorded so far
// are always returned.
func (e *Executor) Run(ctx context.Context, p *Pipeline, t Transport) *PipelineResponse {
	results := NewPipelineResponse()
	if p == nil {
		return results
	}

	for _, step := range p.steps {
		res := e.runStep(ctx, step, results, t)
		results.Record(res)

		if res.Status == StepFailed && step.HaltOnFailure {
			e.logger.Ctx(ctx).Warn("Pipeline halted",
				zap.String("step", step.Name),
				zap.Error(res.Err),
			)
			break
		}
	}
	return results
}

func (e *Executor) runStep(ctx context.Context, step Step, prior *PipelineResponse, t Transport) StepResult {
	ctx, span := e.tracer.Start(ctx, "pipeline.step",
		trace.WithAttributes(attribute.String("step", step.Name)))
	defer span.End()

	start := time.Now()
	res := e.execute(ctx, step, prior, t)
	elapsed := time.Since(start)

	span.SetAttributes(attribute.String("status", string(res.Status)))
	if res.Status == StepFailed {
		span.SetStatus(codes.Error, res.Err.Error())
		e.logger.Ctx(ctx).Warn("Pipeline step failed",
			zap.String("step", step.Name),
			zap.Bool("halt", step.HaltOnFailure),
			zap.Error(res.Err),
		)
	} else {
		e.logger.Ctx(ctx).Debug("Pipeline step finished",
			zap.String("step", step.Name),
			zap.String("status", string(res.Status)),
			zap.Duration("elapsed", elapsed),
		)
	}

	if e.observer != nil {
		e.observer(step.kind(), res.Status, elapsed)
	}
	return res
}

func (e *Executor) execute(ctx context.Context, step Step, prior *PipelineResponse, t Transport) StepResult {
	res := StepResult{Name: step.Name}

	if err := ctx.Err(); err != nil {
		res.Status = StepFailed
		res.Err = err
		return res
	}

	req, err := step.Build(prior)
	if err != nil {
		res.Err = err
		if errors.Is(err, ErrStepSkipped) {
			res.Status = StepSkipped
		} else {
			res.Status = StepFailed
		}
		return res
	}

	body, err := t.Send(ctx, req)
	if err != nil {
		res.Status = StepFailed
		res.Err = err
		var terr *TransportError
		if errors.As(err, &terr) {
			res.Body = terr.Body
		}
		return res
	}

	res.Status = StepSucceeded
	res.Body = body
	return res
}

// Prerequisite returns the body of a succeeded step or an error wrapping
// ErrStepSkipped, for use inside step builders.
func Prerequisite(prior *PipelineResponse, name string) ([]byte, error) {
	body, ok := prior.Body(name)
	if !ok {
		return nil, fmt.Errorf("%s unavailable: %w", name, ErrStepSkipped)
	}
	return body, nil
}
