package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/BaSui01/solvegate/api/handlers"
	"github.com/BaSui01/solvegate/config"
	"github.com/BaSui01/solvegate/internal/i18n"
	"github.com/BaSui01/solvegate/internal/metrics"
	"github.com/BaSui01/solvegate/internal/server"
	"github.com/BaSui01/solvegate/internal/telemetry"
	"github.com/BaSui01/solvegate/llm/providers/gemini"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// =============================================================================
// 🖥️ Server 结构
// =============================================================================

// Server 是 SolveGate 的主服务器
type Server struct {
	cfg       *config.Config
	logger    *zap.Logger
	namespace string

	// 服务器管理器
	httpManager    *server.Manager
	metricsManager *server.Manager

	// Handlers
	healthHandler *handlers.HealthHandler
	solveHandler  *handlers.SolveHandler

	provider         *gemini.Provider
	catalog          *i18n.Catalog
	metricsCollector *metrics.Collector
	telemetry        *telemetry.Providers
}

// NewServer 创建新的服务器实例
func NewServer(cfg *config.Config, logger *zap.Logger, otelProviders *telemetry.Providers) *Server {
	return &Server{
		cfg:       cfg,
		logger:    logger,
		namespace: "solvegate",
		telemetry: otelProviders,
	}
}

// =============================================================================
// 🚀 启动流程
// =============================================================================

// Start 启动所有服务
func (s *Server) Start() error {
	// 1. 初始化指标收集器
	s.metricsCollector = metrics.NewCollector(s.namespace, s.logger)

	// 2. 初始化 Handlers
	if err := s.initHandlers(); err != nil {
		return fmt.Errorf("failed to init handlers: %w", err)
	}

	// 3. 启动 HTTP 服务器
	if err := s.startHTTPServer(); err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	// 4. 启动 Metrics 服务器
	if err := s.startMetricsServer(); err != nil {
		_ = s.httpManager.Shutdown(context.Background())
		return fmt.Errorf("failed to start metrics server: %w", err)
	}

	s.logger.Info("All servers started",
		zap.Int("http_port", s.cfg.Server.HTTPPort),
		zap.Int("metrics_port", s.cfg.Server.MetricsPort),
		zap.String("profile", s.provider.Profile().Name),
		zap.String("mode", s.provider.Profile().Mode()),
	)

	return nil
}

// =============================================================================
// 🔧 初始化方法
// =============================================================================

// initHandlers 初始化后端 Provider 与所有 handlers
func (s *Server) initHandlers() error {
	profile, err := s.cfg.BackendProfile()
	if err != nil {
		return err
	}

	catalog, err := i18n.New(s.cfg.Server.DefaultLocale)
	if err != nil {
		return err
	}
	s.catalog = catalog

	s.provider = gemini.NewProvider(gemini.Config{
		APIKey:  s.cfg.Backend.APIKey,
		BaseURL: s.cfg.Backend.BaseURL,
		Timeout: s.cfg.Backend.Timeout,
	}, profile, s.logger, gemini.WithObserver(s.metricsCollector))

	if !s.provider.Configured() {
		s.logger.Warn("backend API key not configured, solve requests will fail",
			zap.String("env", "SOLVEGATE_BACKEND_API_KEY or "+config.LegacyAPIKeyEnv),
		)
	}

	s.solveHandler = handlers.NewSolveHandler(s.provider, catalog, s.logger,
		handlers.WithErrorDetails(s.cfg.Server.ExposeErrorDetails),
		handlers.WithMaxBodyBytes(s.cfg.Server.MaxBodyBytes),
		handlers.WithOutcomeRecorder(s.metricsCollector),
	)

	s.healthHandler = handlers.NewHealthHandler(s.logger, handlers.BuildInfo{
		Version:   Version,
		BuildTime: BuildTime,
		GitCommit: GitCommit,
		Profile:   profile.Name,
		Model:     profile.Model,
	})
	s.healthHandler.RegisterCheck(handlers.NewCredentialHealthCheck(s.provider))
	s.healthHandler.RegisterCheck(handlers.NewProfileHealthCheck(s.provider))

	s.logger.Info("Handlers initialized",
		zap.Strings("locales", catalog.Languages()),
		zap.Bool("expose_error_details", s.cfg.Server.ExposeErrorDetails),
	)
	return nil
}

// =============================================================================
// 🌐 HTTP 服务器
// =============================================================================

// routes 构建路由。运维端点仅匹配 GET，其余任意路径与方法交给解题处理器。
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler.HandleHealth)
	mux.HandleFunc("GET /healthz", s.healthHandler.HandleHealthz)
	mux.HandleFunc("GET /ready", s.healthHandler.HandleReady)
	mux.HandleFunc("GET /readyz", s.healthHandler.HandleReady)
	mux.HandleFunc("GET /version", s.healthHandler.HandleVersion)

	mux.Handle("/", s.solveHandler)

	return Chain(mux,
		Recovery(s.logger, s.catalog),
		RequestID(),
		OTelTracing(),
		SecurityHeaders(),
		RequestLogger(s.logger),
		MetricsMiddleware(s.metricsCollector),
	)
}

// startHTTPServer 启动解题端口
func (s *Server) startHTTPServer() error {
	serverConfig := server.Config{
		Name:            "http",
		Addr:            fmt.Sprintf(":%d", s.cfg.Server.HTTPPort),
		ReadTimeout:     s.cfg.Server.ReadTimeout,
		WriteTimeout:    s.cfg.Server.WriteTimeout,
		IdleTimeout:     2 * s.cfg.Server.ReadTimeout,
		MaxHeaderBytes:  1 << 20, // 1 MB
		ShutdownTimeout: s.cfg.Server.ShutdownTimeout,
	}

	s.httpManager = server.NewManager(s.routes(), serverConfig, s.logger)
	return s.httpManager.Start()
}

// =============================================================================
// 📊 Metrics 服务器
// =============================================================================

// startMetricsServer 启动 Metrics 服务器，端口为 0 时不启动
func (s *Server) startMetricsServer() error {
	if s.cfg.Server.MetricsPort == 0 {
		s.logger.Info("Metrics server disabled")
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	serverConfig := server.Config{
		Name:            "metrics",
		Addr:            fmt.Sprintf(":%d", s.cfg.Server.MetricsPort),
		ReadTimeout:     s.cfg.Server.ReadTimeout,
		WriteTimeout:    s.cfg.Server.ReadTimeout,
		ShutdownTimeout: s.cfg.Server.ShutdownTimeout,
	}

	s.metricsManager = server.NewManager(mux, serverConfig, s.logger)
	return s.metricsManager.Start()
}

// =============================================================================
// 🛑 关闭流程
// =============================================================================

// Run 阻塞直到收到 SIGINT/SIGTERM、ctx 结束或任一服务器异常退出，然后优雅关闭
func (s *Server) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	for _, m := range s.managers() {
		g.Go(func() error { return m.Wait(gctx) })
	}
	runErr := g.Wait()
	if runErr != nil {
		s.logger.Error("server exited unexpectedly", zap.Error(runErr))
	} else {
		s.logger.Info("received shutdown signal")
	}

	return errors.Join(runErr, s.Shutdown(context.Background()))
}

// Shutdown 并发关闭两个端口，排空后再刷新遥测数据
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Starting graceful shutdown...")

	var g errgroup.Group
	for _, m := range s.managers() {
		g.Go(func() error {
			if err := m.Shutdown(ctx); err != nil {
				return fmt.Errorf("%s server shutdown: %w", m.Name(), err)
			}
			return nil
		})
	}
	err := g.Wait()

	if tErr := s.telemetry.Shutdown(ctx); tErr != nil {
		s.logger.Warn("telemetry shutdown error", zap.Error(tErr))
	}

	if err != nil {
		s.logger.Error("graceful shutdown failed", zap.Error(err))
		return err
	}
	s.logger.Info("Graceful shutdown completed")
	return nil
}

func (s *Server) managers() []*server.Manager {
	out := make([]*server.Manager, 0, 2)
	if s.httpManager != nil {
		out = append(out, s.httpManager)
	}
	if s.metricsManager != nil {
		out = append(out, s.metricsManager)
	}
	return out
}
