package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bibbank/loan-decision/internal/application/usecase"
	"github.com/bibbank/loan-decision/internal/domain/port"
	"github.com/bibbank/loan-decision/internal/domain/service"
	"github.com/bibbank/loan-decision/internal/infrastructure/cache"
	"github.com/bibbank/loan-decision/internal/infrastructure/config"
	"github.com/bibbank/loan-decision/internal/infrastructure/metrics"
	"github.com/bibbank/loan-decision/internal/infrastructure/ml"
	grpcPresentation "github.com/bibbank/loan-decision/internal/presentation/grpc"
	"github.com/bibbank/loan-decision/internal/presentation/rest"
	"github.com/bibbank/loan-decision/pkg/auth"
	"github.com/bibbank/loan-decision/pkg/observability"
)

func main() {
	if err := run(); err != nil {
		slog.Error("loan-decision exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := observability.InitLogger(observability.LogConfig{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
	})
	logger.Info("starting loan-decision",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
		"policy", cfg.Policy,
		"model_backend", cfg.ModelBackend,
	)

	// Tracing.
	tracingCfg := observability.TracingConfig{
		ServiceName: cfg.ServiceName,
		Endpoint:    cfg.OTLPEndpoint,
		Insecure:    true,
	}
	if !tracingCfg.Enabled() {
		logger.Info("OTEL_EXPORTER_OTLP_ENDPOINT not set, tracing disabled")
	}
	shutdownTracer, err := observability.InitTracer(ctx, tracingCfg)
	if err != nil {
		logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
	} else {
		defer func() { _ = shutdownTracer(context.Background()) }() //nolint:errcheck // best-effort tracer shutdown
	}

	// Metrics.
	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{})
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}
	defer func() { _ = meterProvider.Shutdown(context.Background()) }() //nolint:errcheck // best-effort metrics shutdown
	decisionMetrics, err := metrics.NewDecisionMetrics(meterProvider)
	if err != nil {
		return fmt.Errorf("init decision metrics: %w", err)
	}

	// Model. A load failure puts the service in degraded mode instead of
	// stopping it.
	provider, closeCache := buildProvider(ctx, cfg, logger)
	defer closeCache()

	policy, err := service.NewPolicy(cfg.Policy, cfg.Thresholds, logger)
	if err != nil {
		return err
	}

	evaluate := usecase.NewEvaluateApplication(policy, provider, decisionMetrics, logger)
	describe := usecase.NewDescribeModel(policy, provider)

	var jwtSvc *auth.JWTService
	if cfg.Auth.Enabled() {
		jwtSvc, err = auth.NewJWTService(auth.JWTConfig{Secret: cfg.Auth.Secret, Issuer: cfg.Auth.Issuer})
		if err != nil {
			return fmt.Errorf("init JWT service: %w", err)
		}
	} else {
		logger.Warn("AUTH_JWT_SECRET not set, decision API is unauthenticated")
	}

	// gRPC server.
	grpcServer, err := grpcPresentation.NewServer(
		grpcPresentation.NewHandler(evaluate, describe, jwtSvc != nil, logger),
		provider,
		grpcPresentation.ServerConfig{
			JWT:         jwtSvc,
			ServiceName: cfg.ServiceName,
			CertFile:    cfg.TLS.CertFile,
			KeyFile:     cfg.TLS.KeyFile,
			Reflection:  cfg.GRPCReflection,
		},
		logger,
	)
	if err != nil {
		return err
	}

	// HTTP server.
	httpServer := &http.Server{
		Addr: cfg.HTTPAddress(),
		Handler: rest.NewRouter(rest.RouterDeps{
			Logger:   logger,
			Health:   rest.NewHealthHandler(cfg.ServiceName, provider),
			Decision: rest.NewDecisionHandler(evaluate, describe, logger),
			Form:     rest.NewFormHandler(evaluate, policy.Name() == service.PolicySimple, logger),
			Metrics:  metricsHandler,
			JWT:      jwtSvc,
		}),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := grpcServer.Serve(cfg.GRPCAddress()); err != nil {
			return fmt.Errorf("gRPC server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		logger.Info("HTTP server starting", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		grpcServer.GracefulStop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "error", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("loan-decision stopped")
	return nil
}

// buildProvider loads the configured classifier, wraps it with the score
// cache and returns the handle the rest of the service reads from.
func buildProvider(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*ml.Handle, func()) {
	noop := func() {}

	var (
		clf     port.Classifier
		loadErr error
	)
	switch cfg.ModelBackend {
	case config.BackendStub:
		logger.Warn("using stub classifier", "probability", cfg.StubProbability)
		clf = ml.NewStubClassifier(cfg.StubProbability, logger)
	default:
		m, err := ml.LoadPolicyModel(cfg.ModelPath, cfg.Policy)
		if err != nil {
			loadErr = fmt.Errorf("%s: %w", cfg.ModelPath, err)
		} else {
			clf = m
		}
	}
	if loadErr != nil {
		return ml.NewHandle(nil, loadErr, logger), noop
	}

	switch cfg.Cache.Kind {
	case config.CacheMemory:
		clf = ml.NewCachingClassifier(clf, cache.NewMemoryScoreCache(cfg.Cache.TTL), logger)
		return ml.NewHandle(clf, nil, logger), noop
	case config.CacheRedis:
		rc := cache.NewRedisScoreCache(cache.NewRedisClient(cfg.Cache.RedisAddr), cfg.Cache.TTL, logger)
		pingCtx, pingCancel := context.WithTimeout(ctx, 2*time.Second)
		defer pingCancel()
		if err := rc.Ping(pingCtx); err != nil {
			// Cache misses fall through to the model, so an unreachable
			// Redis only costs latency.
			logger.Warn("redis score cache unreachable", "addr", cfg.Cache.RedisAddr, "error", err)
		}
		clf = ml.NewCachingClassifier(clf, rc, logger)
		return ml.NewHandle(clf, nil, logger), func() { _ = rc.Close() }
	default:
		return ml.NewHandle(clf, nil, logger), noop
	}
}
