package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/flagkit/pkg/config"
	"github.com/dmitrymomot/flagkit/pkg/cookie"
	"github.com/dmitrymomot/flagkit/pkg/environment"
	"github.com/dmitrymomot/flagkit/pkg/feature"
	"github.com/dmitrymomot/flagkit/pkg/httpserver"
	"github.com/dmitrymomot/flagkit/pkg/logger"
	"github.com/dmitrymomot/flagkit/pkg/requestid"
	"github.com/dmitrymomot/flagkit/pkg/source"
)

// settings are the flagd-specific knobs not owned by a package config.
type settings struct {
	ServiceName   string `env:"SERVICE_NAME" envDefault:"flagd"`
	LocalStore    string `env:"FEATURE_LOCAL_STORE" envDefault:"memory"`
	SubjectHeader string `env:"FEATURE_SUBJECT_HEADER" envDefault:""`
	APIPrefix     string `env:"FEATURE_API_PREFIX" envDefault:"/features"`
}

func run(ctx context.Context) error {
	var (
		app     settings
		envCfg  environment.Config
		logCfg  logger.Config
		httpCfg httpserver.Config
		featCfg feature.Config
	)
	for _, load := range []func() error{
		func() error { return config.Load(&app) },
		func() error { return config.Load(&envCfg) },
		func() error { return config.Load(&logCfg) },
		func() error { return config.Load(&httpCfg) },
		func() error { return config.Load(&featCfg) },
	} {
		if err := load(); err != nil {
			return err
		}
	}

	envProvider, err := environment.FromConfig(envCfg)
	if err != nil {
		return err
	}
	log := logger.New(
		logger.WithEnvironment(envProvider.Environment(), app.ServiceName),
		logger.WithConfig(logCfg),
		logger.WithContextExtractors(requestid.LoggerExtractor(), environment.LoggerExtractor()),
	)
	logger.SetAsDefault(log)

	catalog, err := loadCatalog(ctx, featCfg.Catalog)
	if err != nil {
		return fmt.Errorf("load catalog %q: %w", featCfg.Catalog, err)
	}
	log.InfoContext(ctx, "feature catalog loaded",
		slog.String("location", featCfg.Catalog), slog.Int("flags", catalog.Len()))

	backend, err := openLocalStore(ctx, app.LocalStore, subjectFromContext, log)
	if err != nil {
		return err
	}
	defer backend.close()

	opts := append(featCfg.ServiceOptions(), feature.WithLogger(log))
	if backend.store != nil {
		opts = append(opts, feature.WithStore(feature.StorageLocal, backend.store))
	}
	cookieStore, err := newCookieStore()
	if err != nil {
		return err
	}
	if cookieStore != nil {
		opts = append(opts, feature.WithStore(feature.StorageCookie, cookieStore))
	} else {
		log.WarnContext(ctx, "COOKIE_SECRETS not set, cookie overrides are disabled")
	}

	svc, err := feature.NewService(catalog, envProvider, opts...)
	if err != nil {
		return err
	}

	router := newRouter(svc, log, routerConfig{
		apiPrefix:        app.APIPrefix,
		subjectHeader:    app.SubjectHeader,
		readinessTimeout: httpCfg.ReadinessTimeout,
		middleware:       featCfg.MiddlewareOptions(),
		env:              envProvider,
		checks:           backend.checks,
	})

	return httpserver.NewFromConfig(httpCfg, httpserver.WithLogger(log)).Run(ctx, router)
}

func loadCatalog(ctx context.Context, location string) (*feature.Catalog, error) {
	var opts []source.Option
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(location)), "s3://") {
		var s3cfg source.S3Config
		if err := config.Load(&s3cfg); err != nil {
			return nil, err
		}
		client, err := source.NewS3Client(ctx, s3cfg)
		if err != nil {
			return nil, err
		}
		opts = append(opts, source.WithS3Client(client))
	}

	rc, err := source.New(opts...).Open(ctx, location)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return feature.LoadCatalog(rc)
}

func newCookieStore() (*feature.CookieStore, error) {
	var cfg cookie.Config
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}
	if !cfg.Enabled() {
		return nil, nil
	}
	mgr, err := cookie.NewFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("cookie manager: %w", err)
	}
	return feature.NewCookieStore(mgr), nil
}

type subjectContextKey struct{}

// subjectFromContext returns the override owner set by subjectMiddleware.
func subjectFromContext(ctx context.Context) string {
	s, _ := ctx.Value(subjectContextKey{}).(string)
	return s
}

func subjectMiddleware(header string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if header == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if s := strings.TrimSpace(r.Header.Get(header)); s != "" {
				r = r.WithContext(context.WithValue(r.Context(), subjectContextKey{}, s))
			}
			next.ServeHTTP(w, r)
		})
	}
}

type routerConfig struct {
	apiPrefix        string
	subjectHeader    string
	readinessTimeout time.Duration
	middleware       []feature.MiddlewareOption
	env              environment.Provider
	checks           []httpserver.Check
}

func newRouter(svc *feature.Service, log *slog.Logger, cfg routerConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestid.Middleware)

	r.Get("/healthz", httpserver.LivenessHandler())
	r.Get("/readyz", httpserver.ReadinessHandler(log, cfg.readinessTimeout, cfg.checks...))

	prefix := cfg.apiPrefix
	if prefix == "" {
		prefix = "/features"
	}
	r.Group(func(r chi.Router) {
		r.Use(environment.Middleware(cfg.env))
		r.Use(subjectMiddleware(cfg.subjectHeader))
		r.Use(feature.Middleware(cfg.middleware...))
		r.Mount(prefix, feature.NewHandler(svc, log))
	})

	return r
}
