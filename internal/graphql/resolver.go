// Package graphql resolves the top-level fields of the shipbridge API against
// a registry of connected carrier accounts.
package graphql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tournevent/shipbridge/internal/telemetry"
	"github.com/tournevent/shipbridge/pkg/shipper"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Top-level fields answered by the resolver.
const (
	FieldHealth          = "health"
	FieldCarriers        = "carriers"
	FieldRates           = "rates"
	FieldTracking        = "tracking"
	FieldValidateAddress = "validateAddress"
	FieldCreateShipment  = "createShipment"
	FieldCancelShipment  = "cancelShipment"
	FieldSchedulePickup  = "schedulePickup"
	FieldUpdatePickup    = "updatePickup"
	FieldCancelPickup    = "cancelPickup"
)

var (
	// ErrUnknownField is returned for a top-level field the resolver does not know.
	ErrUnknownField = errors.New("unknown field")

	// ErrMissingInput is returned when the input variable is absent or not an object.
	ErrMissingInput = errors.New("missing or invalid 'input' variable")

	// ErrCarrierRequired is returned when an operation cannot pick an account.
	ErrCarrierRequired = errors.New("carrier account is required")
)

// Result is the payload of every carrier operation field.
type Result struct {
	Details  any               `json:"details"`
	Messages []shipper.Message `json:"messages"`
}

// Account describes a connected carrier account.
type Account struct {
	ID      string `json:"id"`
	Carrier string `json:"carrier"`
	Name    string `json:"name"`
	Test    bool   `json:"test"`
}

// Resolver is the root resolver.
// It holds dependencies needed by all fields.
type Resolver struct {
	Registry *shipper.Registry
	Logger   *otelzap.Logger
	Metrics  *telemetry.Metrics
}

// NewResolver creates a new resolver with the given dependencies.
func NewResolver(registry *shipper.Registry, logger *otelzap.Logger, metrics *telemetry.Metrics) *Resolver {
	return &Resolver{
		Registry: registry,
		Logger:   logger,
		Metrics:  metrics,
	}
}

// Resolve answers one top-level field. vars holds the request variables
// merged with the field's own arguments.
func (r *Resolver) Resolve(ctx context.Context, field string, vars map[string]any) (any, error) {
	r.Logger.Ctx(ctx).Debug("Resolving field", zap.String("field", field))

	switch field {
	case FieldHealth:
		return r.Health(ctx), nil
	case FieldCarriers:
		return r.Carriers(ctx), nil
	case FieldRates:
		var input shipper.RateRequest
		if err := decodeInput(vars, &input); err != nil {
			return nil, err
		}
		return r.Rates(ctx, input, stringList(vars, "carriers"))
	case FieldTracking:
		var input shipper.TrackingRequest
		if err := decodeInput(vars, &input); err != nil {
			return nil, err
		}
		return r.Tracking(ctx, stringArg(vars, "carrier"), input)
	case FieldValidateAddress:
		var input shipper.AddressValidationRequest
		if err := decodeInput(vars, &input); err != nil {
			return nil, err
		}
		return r.ValidateAddress(ctx, stringArg(vars, "carrier"), input)
	case FieldCreateShipment:
		var input shipper.ShipmentRequest
		if err := decodeInput(vars, &input); err != nil {
			return nil, err
		}
		return r.CreateShipment(ctx, stringArg(vars, "carrier"), input)
	case FieldCancelShipment:
		var input shipper.ShipmentCancelRequest
		if err := decodeInput(vars, &input); err != nil {
			return nil, err
		}
		return r.CancelShipment(ctx, stringArg(vars, "carrier"), input)
	case FieldSchedulePickup:
		var input shipper.PickupRequest
		if err := decodeInput(vars, &input); err != nil {
			return nil, err
		}
		return r.SchedulePickup(ctx, stringArg(vars, "carrier"), input)
	case FieldUpdatePickup:
		var input shipper.PickupUpdateRequest
		if err := decodeInput(vars, &input); err != nil {
			return nil, err
		}
		return r.UpdatePickup(ctx, stringArg(vars, "carrier"), input)
	case FieldCancelPickup:
		var input shipper.PickupCancelRequest
		if err := decodeInput(vars, &input); err != nil {
			return nil, err
		}
		return r.CancelPickup(ctx, stringArg(vars, "carrier"), input)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
}

// Health returns the health status.
func (r *Resolver) Health(_ context.Context) string {
	return "ok"
}

// Carriers lists connected accounts sorted by id.
func (r *Resolver) Carriers(_ context.Context) []Account {
	gateways := r.Registry.Gateways()
	accounts := make([]Account, len(gateways))
	for i, g := range gateways {
		s := g.Settings()
		accounts[i] = Account{
			ID:      s.ID(),
			Carrier: s.CarrierID(),
			Name:    s.CarrierName(),
			Test:    s.IsTest(),
		}
	}
	return accounts
}

// Rates fetches rates from the given accounts, or from every account when
// none are given. Account failures are reported as error messages next to
// the rates of the accounts that answered.
func (r *Resolver) Rates(ctx context.Context, input shipper.RateRequest, accounts []string) (*Result, error) {
	start := time.Now()
	rates, msgs, errs := r.Registry.FetchRates(ctx, input, accounts)

	status := "success"
	switch {
	case len(errs) > 0 && len(rates) == 0:
		status = "error"
	case len(errs) > 0:
		status = "partial"
	}
	r.recordRequest(FieldRates, "all", status, start)

	for _, err := range errs {
		r.Logger.Ctx(ctx).Warn("Rate request failed", zap.Error(err))
		r.recordError(err)
		msgs = append(msgs, errorMessage(err))
	}
	if rates == nil {
		rates = []shipper.RateDetails{}
	}
	return &Result{Details: rates, Messages: nonNil(msgs)}, nil
}

// Tracking fetches tracking details from one account.
func (r *Resolver) Tracking(ctx context.Context, account string, input shipper.TrackingRequest) (*Result, error) {
	return call(ctx, r, FieldTracking, account, func(ctx context.Context, g *shipper.Gateway) ([]shipper.TrackingDetails, []shipper.Message, error) {
		return g.Track(ctx, input)
	})
}

// ValidateAddress validates an address with one account.
func (r *Resolver) ValidateAddress(ctx context.Context, account string, input shipper.AddressValidationRequest) (*Result, error) {
	return call(ctx, r, FieldValidateAddress, account, func(ctx context.Context, g *shipper.Gateway) (*shipper.AddressValidationDetails, []shipper.Message, error) {
		return g.ValidateAddress(ctx, input)
	})
}

// CreateShipment creates a shipment with one account.
func (r *Resolver) CreateShipment(ctx context.Context, account string, input shipper.ShipmentRequest) (*Result, error) {
	return call(ctx, r, FieldCreateShipment, account, func(ctx context.Context, g *shipper.Gateway) (*shipper.ShipmentDetails, []shipper.Message, error) {
		return g.CreateShipment(ctx, input)
	})
}

// CancelShipment voids a shipment.
func (r *Resolver) CancelShipment(ctx context.Context, account string, input shipper.ShipmentCancelRequest) (*Result, error) {
	return call(ctx, r, FieldCancelShipment, account, func(ctx context.Context, g *shipper.Gateway) (*shipper.ConfirmationDetails, []shipper.Message, error) {
		return g.CancelShipment(ctx, input)
	})
}

// SchedulePickup books a pickup.
func (r *Resolver) SchedulePickup(ctx context.Context, account string, input shipper.PickupRequest) (*Result, error) {
	return call(ctx, r, FieldSchedulePickup, account, func(ctx context.Context, g *shipper.Gateway) (*shipper.PickupDetails, []shipper.Message, error) {
		return g.SchedulePickup(ctx, input)
	})
}

// UpdatePickup modifies a scheduled pickup.
func (r *Resolver) UpdatePickup(ctx context.Context, account string, input shipper.PickupUpdateRequest) (*Result, error) {
	return call(ctx, r, FieldUpdatePickup, account, func(ctx context.Context, g *shipper.Gateway) (*shipper.PickupDetails, []shipper.Message, error) {
		return g.UpdatePickup(ctx, input)
	})
}

// CancelPickup cancels a scheduled pickup.
func (r *Resolver) CancelPickup(ctx context.Context, account string, input shipper.PickupCancelRequest) (*Result, error) {
	return call(ctx, r, FieldCancelPickup, account, func(ctx context.Context, g *shipper.Gateway) (*shipper.ConfirmationDetails, []shipper.Message, error) {
		return g.CancelPickup(ctx, input)
	})
}

// call runs a single-account operation. Carrier-side failures become error
// messages; request problems (unknown account, missing field, unsupported
// operation) are returned as errors.
func call[T any](ctx context.Context, r *Resolver, field, account string, fn func(context.Context, *shipper.Gateway) (T, []shipper.Message, error)) (*Result, error) {
	g, err := r.gateway(account)
	if err != nil {
		return nil, err
	}
	carrier := g.Settings().CarrierID()

	start := time.Now()
	details, msgs, err := fn(ctx, g)
	if err != nil {
		r.recordRequest(field, carrier, "error", start)
		r.recordError(err)
		r.Logger.Ctx(ctx).Warn("Carrier operation failed",
			zap.String("field", field),
			zap.String("account", g.Name()),
			zap.Error(err),
		)

		var transportErr *shipper.TransportError
		var parseErr *shipper.ParseError
		if errors.As(err, &transportErr) || errors.As(err, &parseErr) {
			return &Result{Messages: []shipper.Message{errorMessage(err)}}, nil
		}
		return nil, err
	}

	r.recordRequest(field, carrier, "success", start)
	return &Result{Details: details, Messages: nonNil(msgs)}, nil
}

// gateway picks the account. An empty account is accepted only when exactly
// one account is connected.
func (r *Resolver) gateway(account string) (*shipper.Gateway, error) {
	if account != "" {
		return r.Registry.Gateway(account)
	}
	gateways := r.Registry.Gateways()
	if len(gateways) != 1 {
		return nil, ErrCarrierRequired
	}
	return gateways[0], nil
}

func (r *Resolver) recordRequest(field, carrier, status string, start time.Time) {
	if r.Metrics == nil {
		return
	}
	r.Metrics.RecordRequest(field, carrier, status, time.Since(start).Seconds())
}

func (r *Resolver) recordError(err error) {
	if r.Metrics == nil {
		return
	}
	carrier := "unknown"
	var transportErr *shipper.TransportError
	if errors.As(err, &transportErr) {
		carrier = transportErr.Carrier
	}
	r.Metrics.RecordError(carrier, errorType(err))
}
