package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/v6census/ipv6-stats-server/internal/api"
	"github.com/v6census/ipv6-stats-server/internal/cache"
	"github.com/v6census/ipv6-stats-server/internal/collector"
	"github.com/v6census/ipv6-stats-server/internal/config"
	"github.com/v6census/ipv6-stats-server/internal/httpclient"
	"github.com/v6census/ipv6-stats-server/internal/logger"
	"github.com/v6census/ipv6-stats-server/internal/manager"
)

const (
	defaultGracefulTimeout = 30 * time.Second
	serverRequestTimeout   = 10 * time.Second
	serverReadTimeout      = 10 * time.Second
	serverWriteTimeout     = 15 * time.Second
	serverIdleTimeout      = 60 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the statistics API server",
	Long:  `Start the IPv6 statistics API server with the specified configuration.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("address", ":8080", "Address to listen on")
	serveCmd.Flags().String("config", "", "Path to the configuration file")

	if err := viper.BindPFlag("address", serveCmd.Flags().Lookup("address")); err != nil {
		logger.Fatalf("Failed to bind address flag: %v", err)
	}
	if err := viper.BindPFlag("config", serveCmd.Flags().Lookup("config")); err != nil {
		logger.Fatalf("Failed to bind config flag: %v", err)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	cfg, err := config.NewConfigLoader().LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runServe(_ *cobra.Command, _ []string) error {
	address := viper.GetString("address")

	cfg, err := loadConfig(viper.GetString("config"))
	if err != nil {
		logger.Errorf("Failed to load configuration: %v", err)
		return err
	}

	client := httpclient.NewDefaultClient(
		cfg.Collector.FetchTimeout,
		httpclient.WithUserAgent(cfg.Collector.UserAgent),
	)
	store := cache.New()
	col := collector.New(client, store,
		collector.WithTTLs(cfg.Cache.TTL, cfg.Cache.ErrorTTL),
	)
	mgr := manager.New(col,
		manager.WithConcurrency(cfg.Preload.MaxConcurrency),
		manager.WithSourceTimeout(cfg.Preload.SourceTimeout),
	)

	if cfg.Preload.Enabled {
		go func() {
			logger.Infof("Preloading all data sources")
			data := mgr.LoadAll(context.Background())
			logger.Infof("Preload complete: %d sources loaded", len(data))
		}()
	}

	router := api.NewServer(mgr, col, api.WithMiddlewares(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Timeout(serverRequestTimeout),
		api.LoggingMiddleware,
	))

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  serverReadTimeout,
		WriteTimeout: serverWriteTimeout,
		IdleTimeout:  serverIdleTimeout,
	}

	go func() {
		logger.Infof("Starting server on %s", address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Infof("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), defaultGracefulTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
		return err
	}

	logger.Infof("Server exited gracefully")
	return nil
}
