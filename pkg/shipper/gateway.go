package shipper

import (
	"context"
	"fmt"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

// Gateway binds a Mapper to a Transport and runs each operation end to end:
// build the request, transmit it (or run the pipeline), parse the response.
type Gateway struct {
	mapper    Mapper
	transport Transport
	executor  *Executor
	logger    *otelzap.Logger
	tracer    trace.Tracer
}

// GatewayOption configures a Gateway.
type GatewayOption func(*Gateway)

// WithLogger sets the gateway logger.
func WithLogger(logger *otelzap.Logger) GatewayOption {
	return func(g *Gateway) { g.logger = logger }
}

// WithTracer sets the gateway tracer.
func WithTracer(tracer trace.Tracer) GatewayOption {
	return func(g *Gateway) { g.tracer = tracer }
}

// WithExecutor sets the pipeline executor.
func WithExecutor(e *Executor) GatewayOption {
	return func(g *Gateway) { g.executor = e }
}

// NewGateway creates a gateway for mapper over transport.
func NewGateway(mapper Mapper, transport Transport, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		mapper:    mapper,
		transport: transport,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = otelzap.New(zap.NewNop())
	}
	if g.tracer == nil {
		g.tracer = noop.NewTracerProvider().Tracer("shipper")
	}
	if g.executor == nil {
		g.executor = NewExecutor(g.logger, g.tracer)
	}
	return g
}

// Settings returns the account the gateway serves.
func (g *Gateway) Settings() Settings {
	return g.mapper.Settings()
}

// Mapper returns the underlying mapper.
func (g *Gateway) Mapper() Mapper {
	return g.mapper
}

// Name returns the account identifier.
func (g *Gateway) Name() string {
	return g.mapper.Settings().ID()
}

// Execute transmits req. A single call's transport failure is returned as is;
// pipeline step failures are recorded in the returned Response.
func (g *Gateway) Execute(ctx context.Context, req Request) (Response, error) {
	switch r := req.(type) {
	case *Pipeline:
		return Response{Steps: g.executor.Run(ctx, r, g.transport)}, nil
	case Outbound:
		body, err := g.transport.Send(ctx, r)
		if err != nil {
			return Response{}, err
		}
		return Response{Body: body}, nil
	default:
		return Response{}, fmt.Errorf("unsupported request type %T", req)
	}
}

func (g *Gateway) call(ctx context.Context, operation string, build func() (Request, error)) (Response, error) {
	settings := g.mapper.Settings()
	ctx, span := g.tracer.Start(ctx, "shipper."+operation,
		trace.WithAttributes(
			attribute.String("carrier", settings.CarrierID()),
			attribute.String("account", settings.ID()),
		))
	defer span.End()

	g.logger.Ctx(ctx).Info("Carrier operation",
		zap.String("operation", operation),
		zap.String("carrier", settings.CarrierID()),
		zap.String("account", settings.ID()),
		zap.Bool("test", settings.IsTest()),
	)

	req, err := build()
	if err != nil {
		span.RecordError(err)
		return Response{}, err
	}

	resp, err := g.Execute(ctx, req)
	if err != nil {
		span.RecordError(err)
		g.logger.Ctx(ctx).Error("Carrier transport error",
			zap.String("operation", operation),
			zap.String("carrier", settings.CarrierID()),
			zap.Error(err),
		)
		return Response{}, err
	}
	return resp, nil
}

func deserialize[D any](d *Deserializable[Parsed[D]]) (D, []Message, error) {
	out, err := d.Deserialize()
	return out.Details, out.Messages, err
}

// FetchRates requests rates.
func (g *Gateway) FetchRates(ctx context.Context, payload RateRequest) ([]RateDetails, []Message, error) {
	resp, err := g.call(ctx, "rate", func() (Request, error) {
		return g.mapper.CreateRateRequest(payload)
	})
	if err != nil {
		return nil, nil, err
	}
	return deserialize(Bind(resp, g.mapper.ParseRateResponse))
}

// Track fetches tracking details.
func (g *Gateway) Track(ctx context.Context, payload TrackingRequest) ([]TrackingDetails, []Message, error) {
	resp, err := g.call(ctx, "tracking", func() (Request, error) {
		return g.mapper.CreateTrackingRequest(payload)
	})
	if err != nil {
		return nil, nil, err
	}
	return deserialize(Bind(resp, g.mapper.ParseTrackingResponse))
}

// CreateShipment creates a shipment.
func (g *Gateway) CreateShipment(ctx context.Context, payload ShipmentRequest) (*ShipmentDetails, []Message, error) {
	resp, err := g.call(ctx, "shipment", func() (Request, error) {
		return g.mapper.CreateShipmentRequest(payload)
	})
	if err != nil {
		return nil, nil, err
	}
	return deserialize(Bind(resp, g.mapper.ParseShipmentResponse))
}

// CancelShipment voids a shipment.
func (g *Gateway) CancelShipment(ctx context.Context, payload ShipmentCancelRequest) (*ConfirmationDetails, []Message, error) {
	resp, err := g.call(ctx, "cancel_shipment", func() (Request, error) {
		return g.mapper.CreateCancelShipmentRequest(payload)
	})
	if err != nil {
		return nil, nil, err
	}
	return deserialize(Bind(resp, g.mapper.ParseCancelShipmentResponse))
}

// SchedulePickup books a pickup.
func (g *Gateway) SchedulePickup(ctx context.Context, payload PickupRequest) (*PickupDetails, []Message, error) {
	resp, err := g.call(ctx, "pickup", func() (Request, error) {
		return g.mapper.CreatePickupRequest(payload)
	})
	if err != nil {
		return nil, nil, err
	}
	return deserialize(Bind(resp, g.mapper.ParsePickupResponse))
}

// UpdatePickup modifies a scheduled pickup.
func (g *Gateway) UpdatePickup(ctx context.Context, payload PickupUpdateRequest) (*PickupDetails, []Message, error) {
	resp, err := g.call(ctx, "pickup_update", func() (Request, error) {
		return g.mapper.CreatePickupUpdateRequest(payload)
	})
	if err != nil {
		return nil, nil, err
	}
	return deserialize(Bind(resp, g.mapper.ParsePickupUpdateResponse))
}

// CancelPickup cancels a scheduled pickup.
func (g *Gateway) CancelPickup(ctx context.Context, payload PickupCancelRequest) (*ConfirmationDetails, []Message, error) {
	resp, err := g.call(ctx, "cancel_pickup", func() (Request, error) {
		return g.mapper.CreateCancelPickupRequest(payload)
	})
	if err != nil {
		return nil, nil, err
	}
	return deserialize(Bind(resp, g.mapper.ParseCancelPickupResponse))
}

// ValidateAddress validates an address.
func (g *Gateway) ValidateAddress(ctx context.Context, payload AddressValidationRequest) (*AddressValidationDetails, []Message, error) {
	resp, err := g.call(ctx, "address_validation", func() (Request, error) {
		return g.mapper.CreateAddressValidationRequest(payload)
	})
	if err != nil {
		return nil, nil, err
	}
	return deserialize(Bind(resp, g.mapper.ParseAddressValidationResponse))
}
