package dirtyhash

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/horockey/dirtyhash/internal/controller/http_controller"
	"github.com/horockey/go-toolbox/options"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// Server exposes a Store over HTTP, so records in other processes can use it via NewHTTPStore.
type Server struct {
	store  Store
	ctrl   *http_controller.HttpController
	Logger zerolog.Logger
}

type createServerParams struct {
	servicePort int
	logger      zerolog.Logger
}

func defaultCreateServerParams() createServerParams {
	return createServerParams{
		servicePort: 7000, //nolint: mnd
		logger: zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}).With().
			Timestamp().
			Str("scope", "dirtyhash_server").
			Logger(),
	}
}

// Sets custom service port.
// Default is 7000.
func WithServicePort(p int) options.Option[createServerParams] {
	return func(target *createServerParams) error {
		if p <= 0 {
			return fmt.Errorf("port must be positive, got: %d", p)
		}
		target.servicePort = p
		return nil
	}
}

// Sets custom server logger.
// Default is stdout logger.
func WithServerLogger(l zerolog.Logger) options.Option[createServerParams] {
	return func(target *createServerParams) error {
		target.logger = l
		return nil
	}
}

func NewServer(
	store Store,
	apiKey string,
	opts ...options.Option[createServerParams],
) (*Server, error) {
	if store == nil {
		return nil, ConfigurationError{Param: "store"}
	}
	if apiKey == "" {
		return nil, ConfigurationError{Param: "apiKey"}
	}

	params := defaultCreateServerParams()
	if err := options.ApplyOptions(&params, opts...); err != nil {
		return nil, fmt.Errorf("applying opts: %w", err)
	}

	return &Server{
		store: store,
		ctrl: http_controller.New(
			"0.0.0.0:"+strconv.Itoa(params.servicePort),
			apiKey,
			store,
			params.logger.With().Str("subscope", "http_controller").Logger(),
		),
		Logger: params.logger,
	}, nil
}

// Start serves until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	s.Logger.Info().Msg("starting hash server")

	if err := s.ctrl.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("running http controller: %w", err)
	}

	return fmt.Errorf("running context: %w", ctx.Err())
}

// ServeHTTP allows mounting server into existing HTTP stack instead of calling Start.
func (s *Server) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	s.ctrl.ServeHTTP(w, req)
}

func (s *Server) Metrics() []prometheus.Collector {
	return slices.Concat(
		s.ctrl.Metrics(),
		s.store.Metrics(),
	)
}
