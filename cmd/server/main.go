package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskrbac/internal/rbac/adapter"
	"taskrbac/internal/rbac/config"
	"taskrbac/internal/rbac/handler"
	"taskrbac/internal/rbac/metrics"
	"taskrbac/internal/rbac/notify"
	"taskrbac/internal/rbac/repository"
	"taskrbac/internal/rbac/router"
	"taskrbac/internal/rbac/service"
	"taskrbac/internal/rbac/util"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "taskrbac",
	Short: "taskrbac serves role resolution, permission requests and task assignment",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to a config file (env vars override it)")
	rootCmd.AddCommand(serveCmd(), ensureIndexesCmd(), bootstrapCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
}

// app holds what every command needs: config, store client and repositories.
type app struct {
	cfg     *config.Config
	client  *mongo.Client
	repo    *repository.MongoRepository
	tasks   *repository.MongoTaskRepository
	history *repository.MongoHistoryRepository
}

func setup() (*app, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, err
	}
	util.InitLogger(cfg.LogLevel, cfg.LogOutput)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	db := client.Database(cfg.DBName)
	return &app{
		cfg:     cfg,
		client:  client,
		repo:    repository.NewMongoRepository(db),
		tasks:   repository.NewMongoTaskRepository(db),
		history: repository.NewMongoHistoryRepository(db),
	}, nil
}

func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.client.Disconnect(ctx); err != nil {
		util.GetLogger().Errorw("Failed to disconnect DB", "error", err)
	}
}

func (a *app) ensureIndexes(ctx context.Context) error {
	if err := a.repo.EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := a.tasks.EnsureTaskIndexes(ctx); err != nil {
		return err
	}
	return a.history.EnsureHistoryIndexes(ctx)
}

func (a *app) newService(m *metrics.Metrics) (*service.Service, func()) {
	cfg := a.cfg
	deps := service.Deps{
		Repo:      a.repo,
		Tasks:     a.tasks,
		History:   a.history,
		Tx:        repository.NewMongoTransactor(a.client),
		Engine:    adapter.NewFlowableClient(cfg.EngineBaseURL, cfg.EngineUsername, cfg.EnginePassword, cfg.EngineTimeout),
		Directory: adapter.NewDirectoryClient(cfg.DirectoryBaseURL, cfg.DirectoryTimeout, cfg.DirectoryCacheSize, cfg.DirectoryCacheTTL, m),
		Metrics:   m,
	}

	cleanup := func() {}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		deps.Notifier = notify.NewRedisNotifier(rdb, cfg.EventChannel)
		cleanup = func() {
			if err := rdb.Close(); err != nil {
				util.GetLogger().Warnw("Failed to close redis client", "error", err)
			}
		}
	} else {
		util.GetLogger().Infow("REDIS_ADDR not set, domain events are dropped")
	}

	return service.NewService(deps), cleanup
}

func serve() error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.close()
	logger := util.GetLogger()

	if err := a.ensureIndexes(context.Background()); err != nil {
		// Non-fatal: the server still runs against existing indexes.
		logger.Warnw("Failed to ensure indexes", "error", err)
	}

	var m *metrics.Metrics
	if a.cfg.MetricsEnabled {
		m = metrics.New()
	}
	svc, cleanup := a.newService(m)
	defer cleanup()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(handler.RequestLogger())

	var metricsHandler http.Handler
	if m != nil {
		metricsHandler = m.Handler()
	}
	router.RegisterRoutes(e, handler.NewAccessHandler(svc), handler.NewRBACMiddleware(svc.Policy, svc), metricsHandler)

	srv := &http.Server{
		Addr:         ":" + a.cfg.Port,
		Handler:      e,
		ReadTimeout:  a.cfg.ReadTimeout,
		WriteTimeout: a.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infow("Starting server", "port", a.cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		logger.Errorw("Server stopped", "error", err)
		return err
	}

	logger.Infow("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorw("Server Shutdown Failed", "error", err)
	}

	logger.Infow("Server exited properly")
	return nil
}
