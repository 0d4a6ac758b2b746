// Package server assembles the HTTP API and runs it until the context is cancelled.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/rgehrsitz/netpay/internal/advice"
	"github.com/rgehrsitz/netpay/internal/calculation"
	"github.com/rgehrsitz/netpay/internal/config"
	"github.com/rgehrsitz/netpay/internal/domain"
	"github.com/rgehrsitz/netpay/internal/observability/logger"
	"github.com/rgehrsitz/netpay/internal/observability/metrics"
	"github.com/rgehrsitz/netpay/internal/transport/http/api"
	salaryhandler "github.com/rgehrsitz/netpay/internal/transport/http/handlers/salary"
	"github.com/rgehrsitz/netpay/internal/transport/http/middleware"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 64 << 10

// Deps are the collaborators the router needs.
type Deps struct {
	Engine  *calculation.Engine
	Advisor advice.Advisor
	Metrics *metrics.Metrics
	Log     *zap.Logger
	// DefaultYear defaults to domain.DefaultTaxYear.
	DefaultYear func() domain.TaxYear
}

// NewRouter builds the chi router with middleware, API routes, health and metrics endpoints.
func NewRouter(deps Deps) http.Handler {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	if deps.Metrics != nil {
		router.Use(middleware.Logger(log, deps.Metrics))
	} else {
		router.Use(middleware.Logger(log, nil))
	}
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.BodyLimit(maxBodyBytes))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if deps.Metrics != nil {
		router.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		var observer salaryhandler.CalculationObserver
		if deps.Metrics != nil {
			observer = deps.Metrics
		}
		salaryHandler := salaryhandler.NewHandler(deps.Engine, deps.Advisor, observer, log, deps.DefaultYear)
		salaryHandler.RegisterRoutes(r)
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		api.Fail(w, http.StatusNotFound, api.CodeNotFound, "route not found", middleware.GetRequestID(r.Context()))
	})

	return router
}

// Server runs the API with the settings from a config holder.
type Server struct {
	holder  *config.ServerConfigHolder
	log     *logger.Logger
	metrics *metrics.Metrics
	engine  *calculation.Engine
	advisor advice.Advisor
	closers []func() error
}

// New wires the engine, advice cache and observability for cfg.
func New(ctx context.Context, holder *config.ServerConfigHolder, log *logger.Logger) (*Server, error) {
	cfg := holder.Get()
	engine, err := calculation.NewDefaultEngine()
	if err != nil {
		return nil, err
	}
	// debug lines are filtered by the zap level, which reloads can change
	engine.SetLogger(log.Sugar())
	engine.Debug = true

	s := &Server{
		holder:  holder,
		log:     log,
		metrics: metrics.New(),
		engine:  engine,
	}

	var cache advice.Cache = advice.NewMemoryCache()
	if cfg.RedisAddr != "" {
		redisCache, client, err := advice.DialRedisCache(ctx, cfg.RedisAddr)
		if err != nil {
			log.Warn("advice cache redis unavailable, using memory", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		} else {
			cache = redisCache
			s.closers = append(s.closers, client.Close)
		}
	}
	cached := advice.NewCachedAdvisor(advice.NewService(advice.RuleGenerator, log.Sugar()), cache, cfg.AdviceCacheTTL, log.Sugar())
	cached.OnLookup = s.metrics.ObserveAdviceCache
	s.advisor = cached

	holder.OnChange(func(updated config.ServerConfig) {
		if err := log.SetLevel(updated.LogLevel); err != nil {
			log.Warn("ignoring log level from reload", zap.Error(err))
			return
		}
		log.Info("configuration reloaded",
			zap.Int("default_year", updated.DefaultYear),
			zap.String("log_level", updated.LogLevel))
	})
	holder.OnError(func(err error) {
		log.Warn("configuration reload rejected", zap.Error(err))
	})

	return s, nil
}

// Handler returns the router for the current configuration.
func (s *Server) Handler() http.Handler {
	return NewRouter(Deps{
		Engine:  s.engine,
		Advisor: s.advisor,
		Metrics: s.metrics,
		Log:     s.log.Logger,
		DefaultYear: func() domain.TaxYear {
			return s.holder.Get().Year()
		},
	})
}

// Run serves until ctx is cancelled, then shuts down within ShutdownTimeout.
func (s *Server) Run(ctx context.Context) error {
	cfg := s.holder.Get()
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}
	defer s.close()

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("netpay server listening", zap.String("addr", cfg.Addr), zap.Int("default_year", cfg.DefaultYear))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout(cfg))
	defer cancel()
	s.log.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

func shutdownTimeout(cfg config.ServerConfig) time.Duration {
	if cfg.ShutdownTimeout <= 0 {
		return 15 * time.Second
	}
	return cfg.ShutdownTimeout
}

func (s *Server) close() {
	for _, c := range s.closers {
		if err := c(); err != nil {
			s.log.Warn("close failed", zap.Error(err))
		}
	}
}
