package main

import (
	"context"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/username/repasses/src/config"
	"github.com/username/repasses/src/handlers"
	"github.com/username/repasses/src/logger"
	"github.com/username/repasses/src/services"
)

type routerDeps struct {
	reportService  services.ReportService
	municipalities services.MunicipalitySearcher
	frontendDir    string
	allowedOrigins []string
	rateLimiter    *handlers.IPRateLimiter
	trustedProxy   bool
	sentryEnabled  bool
}

func newRouter(deps routerDeps) http.Handler {
	consultaHandler := handlers.NewConsultaHandler(deps.reportService)
	municipioHandler := handlers.NewMunicipioHandler(deps.municipalities)
	frontendHandler := handlers.NewFrontendHandler(deps.frontendDir)

	r := chi.NewRouter()

	if deps.trustedProxy {
		// Client address comes from X-Real-IP / X-Forwarded-For set by the proxy.
		r.Use(middleware.RealIP)
	}
	r.Use(middleware.Recoverer)
	if deps.sentryEnabled {
		r.Use(sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle)
	}
	r.Use(handlers.ContextualLoggerMiddleware)
	r.Use(handlers.CORSMiddleware(deps.allowedOrigins))

	r.Get("/", frontendHandler.HandleIndex)
	r.Handle("/static/*", frontendHandler.StaticHandler("/static"))
	r.Get("/health", handlers.HandleHealth)

	r.Group(func(r chi.Router) {
		if deps.rateLimiter != nil {
			r.Use(deps.rateLimiter.Middleware)
		}
		r.Post("/consulta", consultaHandler.HandleConsulta)
		r.Get("/municipios", municipioHandler.HandleSearch)
	})

	return r
}

func initSentry(cfg *config.AppConfig) bool {
	if cfg.SentryDSN == "" {
		return false
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.SentryDSN,
		Environment: cfg.AppEnv,
	})
	if err != nil {
		logger.L.Error("Failed to initialize Sentry", "error", err)
		return false
	}
	logger.L.Info("Sentry error reporting enabled", "environment", cfg.AppEnv)
	return true
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)

	logger.L.Info("Repasses backend server starting...")

	sentryEnabled := initSentry(config.Cfg)
	if sentryEnabled {
		defer sentry.Flush(2 * time.Second)
	}

	logger.L.Info("Initializing data loaders...")
	municipalities, err := services.LoadMunicipalityDirectory(config.Cfg.MunicipalityDataPath)
	if err != nil {
		logger.L.Error("Failed to load municipality data", "error", err)
		municipalities = services.NewMunicipalityDirectory(nil)
	}

	if config.Cfg.UpstreamInsecureSkipVerify {
		logger.L.Warn("Upstream TLS certificate verification is disabled", "upstream", config.Cfg.UpstreamURL)
	}
	client := services.NewDemonstrativoClient(services.UpstreamConfig{
		URL:                config.Cfg.UpstreamURL,
		Headers:            config.Cfg.UpstreamHeaders(),
		Timeout:            config.Cfg.UpstreamTimeout,
		InsecureSkipVerify: config.Cfg.UpstreamInsecureSkipVerify,
	})
	reportService := services.NewReportService(client, services.FundCategories{
		FPM:       config.Cfg.FundCodeFPM,
		Royalties: config.Cfg.FundCodeRoyalties,
		All:       config.Cfg.FundCodeAll,
	}, config.Cfg.ValidateBeneficiaryCode)

	router := newRouter(routerDeps{
		reportService:  reportService,
		municipalities: municipalities,
		frontendDir:    config.Cfg.FrontendDir,
		allowedOrigins: config.Cfg.CORSAllowedOrigins,
		rateLimiter:    handlers.NewIPRateLimiter(config.Cfg.RateLimitRPS, config.Cfg.RateLimitBurst),
		trustedProxy:   config.Cfg.TrustedProxy,
		sentryEnabled:  sentryEnabled,
	})

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: config.Cfg.ServerWriteTimeout(),
		IdleTimeout:  60 * time.Second,
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.L.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.L.Error("Server shutdown error", "error", err)
		}
	}()

	logger.L.Info("Server starting", "address", serverAddr, "municipalities", municipalities.Count())
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.L.Error("Failed to start server", "error", err)
		stdlog.Fatalf("Failed to start server: %v", err)
	}

	<-shutdownDone
	logger.L.Info("Server stopped gracefully.")
}
