// Package server boots LiftStore: infrastructure connections, the service
// graph, background workers and the HTTP and gRPC listeners.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/liftstore/app/controllers"
	appgql "github.com/shashiranjanraj/liftstore/app/graphql"
	"github.com/shashiranjanraj/liftstore/app/jobs"
	"github.com/shashiranjanraj/liftstore/app/listeners"
	"github.com/shashiranjanraj/liftstore/app/repositories"
	"github.com/shashiranjanraj/liftstore/app/routes"
	"github.com/shashiranjanraj/liftstore/app/services"
	"github.com/shashiranjanraj/liftstore/config"
	"github.com/shashiranjanraj/liftstore/internal/kernel"
	"github.com/shashiranjanraj/liftstore/pkg/broker"
	"github.com/shashiranjanraj/liftstore/pkg/cache"
	"github.com/shashiranjanraj/liftstore/pkg/database"
	"github.com/shashiranjanraj/liftstore/pkg/event"
	"github.com/shashiranjanraj/liftstore/pkg/graphql"
	grpcsrv "github.com/shashiranjanraj/liftstore/pkg/grpc"
	"github.com/shashiranjanraj/liftstore/pkg/logger"
	"github.com/shashiranjanraj/liftstore/pkg/mail"
	"github.com/shashiranjanraj/liftstore/pkg/middleware"
	"github.com/shashiranjanraj/liftstore/pkg/queue"
	"github.com/shashiranjanraj/liftstore/pkg/router"
	"github.com/shashiranjanraj/liftstore/pkg/storage"
	"github.com/shashiranjanraj/liftstore/pkg/ws"
)

const shutdownTimeout = 15 * time.Second

// Boot loads config, configures logging and connects the database. Redis
// is optional: without it caching is off and the queue runs in memory.
// The returned func releases everything Boot opened.
func Boot(ctx context.Context) (func(), error) {
	if err := config.Load(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	flushLogs, err := logger.Setup()
	if err != nil {
		logger.Warn("log sink unavailable, console only", "error", err)
	}
	if err := database.Connect(); err != nil {
		flushLogs()
		return nil, err
	}
	if err := cache.Connect(ctx); err != nil {
		logger.Warn("redis unavailable, caching disabled", "error", err)
	}
	return func() {
		cache.Close()
		database.Close()
		flushLogs()
	}, nil
}

// NewQueue picks the driver named by QUEUE_DRIVER. The redis driver needs
// a connected cache client and falls back to memory without one.
func NewQueue(db *gorm.DB) *queue.Manager {
	var driver queue.Driver = queue.NewMemoryDriver(1000)
	if config.QueueDriver() == "redis" {
		if cache.RDB != nil {
			driver = queue.NewRedisDriver(cache.RDB, "")
		} else {
			logger.Warn("queue: redis driver requested without redis, using memory")
		}
	}
	q := queue.New(driver, queue.WithFailureStore(queue.NewDBFailureStore(db)))
	jobs.Register(q, repositories.NewOrderRepository(db), mail.NewSender(mail.FromConfig()))
	return q
}

// App is the wired application.
type App struct {
	Router  *router.Router
	Queue   *queue.Manager
	Events  *event.Dispatcher
	Feed    *ws.Hub
	Broker  *broker.Publisher
	Limiter *middleware.Limiter
	Login   *middleware.Limiter
}

// Build wires repositories, services, controllers and listeners.
func Build(ctx context.Context, db *gorm.DB) (*App, error) {
	disk, err := storage.FromConfig(ctx)
	if err != nil {
		return nil, err
	}
	payments := config.LoadPayments()
	if payments.SkipsSignature() {
		logger.Warn("payments: webhook signatures are NOT verified")
	}

	a := &App{
		Queue:   NewQueue(db),
		Events:  event.NewDispatcher(4, 256),
		Feed:    ws.NewHub(config.CORSOrigins()),
		Limiter: middleware.NewLimiter(300, time.Minute),
		Login:   middleware.NewLimiter(10, time.Minute),
	}
	if brokers := config.KafkaBrokers(); len(brokers) > 0 {
		a.Broker = broker.NewKafkaPublisher(brokers, config.KafkaOrderTopic())
	}

	deps := listeners.Deps{Feed: a.Feed, Jobs: a.Queue}
	if a.Broker != nil {
		deps.Broker = a.Broker
	}
	listeners.Register(a.Events, deps)

	products := repositories.NewProductRepository(db)
	orders := repositories.NewOrderRepository(db)
	users := services.NewUserService(repositories.NewUserRepository(db))
	catalog := services.NewCatalogService(products, disk, config.CatalogCacheTTL())
	posts := services.NewPostService(repositories.NewPostRepository(db))
	offerings := services.NewOfferingService(repositories.NewServiceRepository(db))

	schema, err := appgql.NewSchema(appgql.Sources{Products: catalog, Posts: posts, Offerings: offerings})
	if err != nil {
		return nil, fmt.Errorf("graphql schema: %w", err)
	}

	opts := kernel.Options{
		API: routes.Controllers{
			Auth:       controllers.NewAuthController(users),
			Products:   controllers.NewProductController(catalog),
			Posts:      controllers.NewPostController(posts),
			Offerings:  controllers.NewOfferingController(offerings),
			Users:      controllers.NewUserController(users),
			Orders:     controllers.NewOrderController(services.NewOrderService(orders, a.Events)),
			Checkout:   controllers.NewCheckoutController(services.NewCheckoutService(payments, products)),
			Webhooks:   controllers.NewWebhookController(services.NewWebhookService(payments, services.NewOrderReconciler(orders, a.Events))),
			AdminFeed:  a.Feed,
			LoginLimit: a.Login.Middleware,
		},
		GraphQL: graphql.Handler(schema),
		Limiter: a.Limiter,
		Health:  database.Ping,
	}
	if local, ok := disk.(*storage.Local); ok {
		opts.Files = http.FileServer(http.Dir(local.Root()))
	}
	a.Router = kernel.NewHTTPKernel(opts)
	return a, nil
}

// Run serves until ctx is cancelled, then drains in order: listeners,
// event listeners, background workers.
func (a *App) Run(ctx context.Context) error {
	bg, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	go a.Feed.Run(bg)
	go a.Limiter.Sweep(bg, time.Minute)
	go a.Login.Sweep(bg, time.Minute)
	if n := config.QueueWorkers(); n > 0 {
		a.Queue.Start(bg, n)
	}

	httpSrv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           a.Router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	grpcServer := grpcsrv.New(database.Ping)
	if err := grpcServer.Start(config.GRPCPort()); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http: listening", "addr", httpSrv.Addr, "env", config.AppEnv())
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http: shutdown", "error", err)
	}
	grpcServer.Stop()

	a.Events.Close()
	stopBackground()
	a.Queue.Wait()
	if a.Broker != nil {
		if err := a.Broker.Close(); err != nil {
			logger.Warn("broker: close", "error", err)
		}
	}
	return serveErr
}

// Start boots, builds and runs the server until ctx ends.
func Start(ctx context.Context) error {
	release, err := Boot(ctx)
	if err != nil {
		return err
	}
	defer release()

	app, err := Build(ctx, database.DB)
	if err != nil {
		return err
	}
	return app.Run(ctx)
}
