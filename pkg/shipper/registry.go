package shipper

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Registry maps carrier identifiers to providers and account identifiers to
// connected gateways.
type Registry struct {
	providers map[string]Provider
	gateways  map[string]*Gateway
	mu        sync.RWMutex
}

// NewRegistry creates a new registry.
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Provider),
		gateways:  make(map[string]*Gateway),
	}
}

// RegisterProvider adds a carrier integration.
func (r *Registry) RegisterProvider(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.ID] = p
}

// Provider returns the integration for a carrier identifier.
func (r *Registry) Provider(carrier string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p, ok := r.providers[carrier]; ok {
		return p, nil
	}
	return Provider{}, fmt.Errorf("%w: %s", ErrCarrierNotFound, carrier)
}

// Providers returns the registered carrier identifiers, sorted.
func (r *Registry) Providers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.providers))
	for id := range r.providers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Connect builds a Mapper for settings with the matching provider and
// registers a gateway for the account.
func (r *Registry) Connect(settings Settings, transport Transport, opts ...GatewayOption) (*Gateway, error) {
	p, err := r.Provider(settings.CarrierID())
	if err != nil {
		return nil, err
	}
	mapper, err := p.NewMapper(settings)
	if err != nil {
		return nil, fmt.Errorf("connecting %s: %w", settings.ID(), err)
	}
	g := NewGateway(mapper, transport, opts...)
	r.Register(g)
	return g, nil
}

// Register adds a gateway, replacing any gateway with the same account id.
func (r *Registry) Register(g *Gateway) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gateways[g.Name()] = g
}

// Gateway returns the gateway of an account.
func (r *Registry) Gateway(account string) (*Gateway, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if g, ok := r.gateways[account]; ok {
		return g, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrCarrierNotFound, account)
}

// Gateways returns all gateways sorted by account id.
func (r *Registry) Gateways() []*Gateway {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*Gateway, 0, len(r.gateways))
	for _, g := range r.gateways {
		result = append(result, g)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name() < result[j].Name() })
	return result
}

// Names returns the account ids of all gateways, sorted.
func (r *Registry) Names() []string {
	gateways := r.Gateways()
	names := make([]string, len(gateways))
	for i, g := range gateways {
		names[i] = g.Name()
	}
	return names
}

// Count returns the number of connected gateways.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.gateways)
}

// FetchRates requests rates from the given accounts in parallel, or from all
// accounts when none are given. Failures of individual accounts are returned
// in errs and do not fail the others. Rates and messages are merged in
// account order.
func (r *Registry) FetchRates(ctx context.Context, req RateRequest, accounts []string) ([]RateDetails, []Message, []error) {
	if len(accounts) == 0 {
		accounts = r.Names()
	}
	if len(accounts) == 0 {
		return nil, nil, []error{ErrCarrierNotFound}
	}

	type outcome struct {
		rates []RateDetails
		msgs  []Message
		err   error
	}
	outcomes := make([]outcome, len(accounts))

	g, ctx := errgroup.WithContext(ctx)
	for i, name := range accounts {
		g.Go(func() error {
			gw, err := r.Gateway(name)
			if err != nil {
				outcomes[i].err = err
				return nil
			}
			rates, msgs, err := gw.FetchRates(ctx, req)
			if err != nil {
				outcomes[i].err = fmt.Errorf("%s: %w", name, err)
				return nil
			}
			outcomes[i] = outcome{rates: rates, msgs: msgs}
			return nil
		})
	}
	_ = g.Wait()

	var (
		rates []RateDetails
		msgs  []Message
		errs  []error
	)
	for _, o := range outcomes {
		rates = append(rates, o.rates...)
		msgs = append(msgs, o.msgs...)
		if o.err != nil {
			errs = append(errs, o.err)
		}
	}
	return rates, msgs, errs
}
