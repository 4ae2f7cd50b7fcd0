package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"net/http"
	"time"

	gqlgen "github.com/99designs/gqlgen/graphql"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tournevent/shipbridge/internal/graphql"
	"github.com/tournevent/shipbridge/internal/telemetry"
	"github.com/tournevent/shipbridge/pkg/shipper"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/parser"
	"go.uber.org/zap"
)

// Server is the HTTP server for the shipping service.
type Server struct {
	port     int
	registry *shipper.Registry
	logger   *otelzap.Logger
	metrics  *telemetry.Metrics
	gatherer prometheus.Gatherer
	resolver *graphql.Resolver
}

// Config holds server configuration.
type Config struct {
	Port int
	// Metrics and Gatherer share one registry so that /metrics exposes what
	// gateways record. Both default to a fresh registry.
	Metrics  *telemetry.Metrics
	Gatherer prometheus.Gatherer
}

// New creates a new server instance.
func New(cfg Config, registry *shipper.Registry, logger *otelzap.Logger) *Server {
	metrics, gatherer := cfg.Metrics, cfg.Gatherer
	if metrics == nil {
		reg := prometheus.NewRegistry()
		metrics = telemetry.NewMetrics(reg)
		if gatherer == nil {
			gatherer = reg
		}
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	return &Server{
		port:     cfg.Port,
		registry: registry,
		logger:   logger,
		metrics:  metrics,
		gatherer: gatherer,
		resolver: graphql.NewResolver(registry, logger, metrics),
	}
}

// Handler returns the HTTP routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", s.handleHealth)

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	// GraphQL endpoint
	mux.HandleFunc("/graphql", s.handleGraphQL)

	return mux
}

// Run starts the HTTP server and blocks until context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting server",
			zap.Int("port", s.port),
			zap.Int("accounts", s.registry.Count()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for context cancellation or error
	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleGraphQL(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		s.writeErrors(w, http.StatusMethodNotAllowed, gqlerror.Errorf("Method not allowed, use POST"))
		return
	}

	var params gqlgen.RawParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		s.writeErrors(w, http.StatusBadRequest, gqlerror.Errorf("Invalid JSON: %s", err.Error()))
		return
	}

	op, gqlErr := operation(params)
	if gqlErr != nil {
		s.writeErrors(w, http.StatusBadRequest, gqlErr)
		return
	}

	ctx := r.Context()
	data := make(map[string]any, len(op.SelectionSet))
	var errs gqlerror.List

	for _, sel := range op.SelectionSet {
		field, ok := sel.(*ast.Field)
		if !ok {
			errs = append(errs, gqlerror.Errorf("fragments are not supported at the top level"))
			continue
		}
		key := field.Alias
		if key == "" {
			key = field.Name
		}

		vars, err := fieldVariables(field, params.Variables)
		if err == nil {
			data[key], err = s.resolver.Resolve(ctx, field.Name, vars)
		}
		if err != nil {
			data[key] = nil
			errs = append(errs, &gqlerror.Error{
				Message:    err.Error(),
				Path:       ast.Path{ast.PathName(key)},
				Extensions: map[string]any{"code": graphql.ErrorCode(err)},
			})
		}
	}

	raw, err := json.Marshal(data)
	if err != nil {
		s.logger.Ctx(ctx).Error("Encoding GraphQL response", zap.Error(err))
		s.writeErrors(w, http.StatusInternalServerError, gqlerror.Errorf("failed to encode response"))
		return
	}
	s.write(w, http.StatusOK, &gqlgen.Response{Data: raw, Errors: errs})
}

// operation parses the query and selects the operation to execute.
func operation(params gqlgen.RawParams) (*ast.OperationDefinition, *gqlerror.Error) {
	if params.Query == "" {
		return nil, gqlerror.Errorf("query is required")
	}
	doc, err := parser.ParseQuery(&ast.Source{Input: params.Query})
	if err != nil {
		var gqlErr *gqlerror.Error
		if errors.As(err, &gqlErr) {
			return nil, gqlErr
		}
		return nil, gqlerror.Errorf("%s", err.Error())
	}

	op := doc.Operations.ForName(params.OperationName)
	if op == nil {
		if params.OperationName == "" {
			return nil, gqlerror.Errorf("operation name is required when the document holds several operations")
		}
		return nil, gqlerror.Errorf("operation %s not found", params.OperationName)
	}
	if op.Operation == ast.Subscription {
		return nil, gqlerror.Errorf("subscriptions are not supported")
	}
	return op, nil
}

// fieldVariables overlays the field's arguments on the request variables.
func fieldVariables(field *ast.Field, vars map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(vars)+len(field.Arguments))
	maps.Copy(out, vars)
	for _, arg := range field.Arguments {
		v, err := arg.Value.Value(vars)
		if err != nil {
			return nil, fmt.Errorf("argument %s: %w", arg.Name, err)
		}
		out[arg.Name] = v
	}
	return out, nil
}

func (s *Server) writeErrors(w http.ResponseWriter, status int, errs ...*gqlerror.Error) {
	s.write(w, status, &gqlgen.Response{Errors: gqlerror.List(errs)})
}

func (s *Server) write(w http.ResponseWriter, status int, resp *gqlgen.Response) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Warn("Writing GraphQL response", zap.Error(err))
	}
}
