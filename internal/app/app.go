package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/doxly-hq/doxly-apiclient/internal/config"
	"github.com/doxly-hq/doxly-apiclient/internal/logger"
	"github.com/doxly-hq/doxly-apiclient/internal/storage"
	"github.com/doxly-hq/doxly-apiclient/pkg/apiclient"
	"github.com/doxly-hq/doxly-apiclient/pkg/endpoints"
	"github.com/doxly-hq/doxly-apiclient/pkg/httpclient"
	"github.com/doxly-hq/doxly-apiclient/pkg/resources"
)

// App wires the transport, token store, API client and endpoint catalog.
type App struct {
	cfg       *config.Config
	client    *apiclient.Client
	store     storage.Store
	catalog   *endpoints.Catalog
	resources *resources.Service
	log       logger.Logger
	interval  time.Duration
}

// Option customizes App construction.
type Option func(*options)

type options struct {
	httpOpts []httpclient.Option
	store    storage.Store
}

// WithHTTPOptions passes options to the resty transport.
func WithHTTPOptions(opts ...httpclient.Option) Option {
	return func(o *options) { o.httpOpts = append(o.httpOpts, opts...) }
}

// WithStore replaces the configured token store.
func WithStore(s storage.Store) Option {
	return func(o *options) { o.store = s }
}

// New builds an App from config.
func New(cfg *config.Config, log logger.Logger, opts ...Option) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}

	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	catalog := endpoints.DefaultCatalog()
	if strings.TrimSpace(cfg.EndpointsFile) != "" {
		extra, err := endpoints.LoadCatalog(cfg.EndpointsFile)
		if err != nil {
			return nil, fmt.Errorf("load endpoints catalog: %w", err)
		}
		catalog.Merge(extra)
		log.InfoObj("endpoints catalog loaded", "endpoints_meta", map[string]any{
			"file":  cfg.EndpointsFile,
			"count": len(extra.All()),
		})
	}

	store := o.store
	if store == nil {
		var err error
		store, err = storage.NewStore(cfg.TokenStoreType, cfg.TokenStorePath)
		if err != nil {
			return nil, fmt.Errorf("init token store: %w", err)
		}
	}

	httpOpts := o.httpOpts
	if rl, ok := log.(*logger.Zap); ok {
		httpOpts = append([]httpclient.Option{httpclient.WithLogger(rl)}, httpOpts...)
	}
	transport := httpclient.NewRestyClient(cfg.RequestTimeout, httpOpts...)

	client, err := apiclient.New(cfg.APIBaseURL,
		apiclient.WithHTTPClient(transport),
		apiclient.WithTokenProvider(store),
		apiclient.WithCSRFCookie(cfg.CSRFCookieName),
		apiclient.WithHealthCheckPath(cfg.HealthCheckPath),
		apiclient.WithLogger(log),
	)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("init api client: %w", err)
	}

	return &App{
		cfg:       cfg,
		client:    client,
		store:     store,
		catalog:   catalog,
		resources: resources.New(client),
		log:       log,
		interval:  cfg.ProbeInterval,
	}, nil
}

// Client exposes the underlying API client.
func (a *App) Client() *apiclient.Client { return a.client }

// Resources exposes the typed resource clients.
func (a *App) Resources() *resources.Service { return a.resources }

// Catalog exposes the merged endpoint catalog.
func (a *App) Catalog() *endpoints.Catalog { return a.catalog }

// Store exposes the token store.
func (a *App) Store() storage.Store { return a.store }

// Request issues one raw call.
func (a *App) Request(ctx context.Context, cfg apiclient.RequestConfig) (any, error) {
	return a.client.Request(ctx, cfg)
}

// Call resolves a catalog entry, expands its params and issues the call.
func (a *App) Call(ctx context.Context, id string, params, query map[string]string, body any) (any, error) {
	ep, ok := a.catalog.ByID(id)
	if !ok {
		return nil, fmt.Errorf("unknown endpoint %q", id)
	}
	path, err := ep.Expand(params)
	if err != nil {
		return nil, err
	}
	return a.client.Request(ctx, apiclient.RequestConfig{
		Endpoint: path,
		Method:   ep.Method,
		Body:     body,
		Query:    query,
	})
}

// Probe runs one connectivity check.
func (a *App) Probe(ctx context.Context) apiclient.ProbeResult {
	return a.client.Probe(ctx)
}

// Watch probes immediately and then on every interval tick until ctx is done.
// Results are only logged.
func (a *App) Watch(ctx context.Context) error {
	if a == nil || a.client == nil {
		return fmt.Errorf("app is not initialized")
	}
	if a.interval <= 0 {
		return fmt.Errorf("probe interval must be positive")
	}

	a.log.InfoObj("probe loop starting", "probe_state", map[string]any{
		"base_url": a.client.BaseURL(),
		"interval": a.interval.String(),
	})

	a.client.Probe(ctx)

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.log.InfoObj("probe loop exiting", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			a.client.Probe(ctx)
		}
	}
}

// Close releases the token store.
func (a *App) Close() error {
	if a == nil || a.store == nil {
		return nil
	}
	return a.store.Close()
}
