package application

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"dealflow/internal/config"
	"dealflow/internal/domain/service/deal"
	"dealflow/internal/domain/service/matching"
	"dealflow/internal/domain/service/valuation"
	"dealflow/internal/infrastructure/comps"
	"dealflow/internal/infrastructure/notifier"
	"dealflow/internal/infrastructure/persistence"
	"dealflow/internal/infrastructure/queue"
	"dealflow/internal/server"
	"dealflow/internal/transport/bot"
	"dealflow/internal/transport/bot/handler"
	"dealflow/internal/worker"
	"dealflow/pkg/application/connectors"
	"dealflow/pkg/application/modules"
	"dealflow/pkg/contextx"
	"dealflow/pkg/httpx"
	"dealflow/pkg/logx"
	"dealflow/pkg/middlewarex"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const httpServerReadHeaderTimeout = 5 * time.Second

// Application holds the wired components shared by the long running
// service and the one-shot commands.
type Application struct {
	Config    config.Config
	Service   *deal.Service
	Processor *worker.DealProcessor
	Weights   *persistence.WeightsRepository

	postgres    *connectors.Postgres
	redis       *connectors.Redis
	asynqClient *asynq.Client
}

// New connects to the stores and wires the pipeline. Close releases them.
func New(ctx context.Context, cfg config.Config) (*Application, error) {
	app := &Application{Config: cfg}

	app.postgres = &connectors.Postgres{
		DSN:             cfg.Postgres.DSN,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	}
	db := app.postgres.Client(ctx)

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("db.PingContext: %w", err)
	}

	store := persistence.NewStore(db)
	deals := persistence.NewDealRepository(store)
	buyers := persistence.NewBuyerRepository(store)
	followUps := persistence.NewFollowUpRepository(store)
	calls := persistence.NewSellerCallRepository(store)
	app.Weights = persistence.NewWeightsRepository(store).WithFallback(cfg.Priority.Weights())

	compsCache := comps.NewCache(
		comps.NewClient(cfg.Comps.URL, cfg.Comps.Token, cfg.Comps.Timeout,
			httpx.WithLogFieldMaxLen(cfg.HTTP.LogFieldMaxLen),
			httpx.WithSensitiveDataMasker(logx.NewSensitiveDataMasker()),
		),
		cfg.Comps.CacheTTL,
	)
	if cfg.Comps.RedisCache {
		compsCache.WithRedis(app.redisConnector().Client(ctx))
	}

	matchingCfg, err := cfg.Matching.Domain()
	if err != nil {
		return nil, fmt.Errorf("cfg.Matching.Domain: %w", err)
	}

	var events deal.EventPublisher
	if cfg.Asynq.Enabled {
		app.asynqClient = asynq.NewClient(app.asynqRedisOpt())
		events = queue.NewPublisher(app.asynqClient).
			WithQueue(cfg.Asynq.Queue).
			WithMaxRetry(cfg.Asynq.MaxRetry)
	}

	app.Service = deal.NewService(
		store,
		deals,
		buyers,
		followUps,
		calls,
		compsCache,
		app.Weights,
		valuation.NewEngine(cfg.Valuation.Domain()),
		matching.NewEnforcer(matchingCfg, buyers, nil),
		events,
	).WithCompsTimeout(cfg.Comps.Timeout)

	statuses, err := cfg.Worker.ParsedStatuses()
	if err != nil {
		return nil, fmt.Errorf("cfg.Worker.ParsedStatuses: %w", err)
	}

	app.Processor = worker.NewDealProcessor(app.Service, worker.NewMetrics(prometheus.DefaultRegisterer)).
		WithInterval(cfg.Worker.Interval).
		WithBatchSize(cfg.Worker.BatchSize).
		WithDealTimeout(cfg.Worker.DealTimeout)
	if len(statuses) > 0 {
		app.Processor.SetStatuses(statuses)
	}

	return app, nil
}

func (a *Application) Close(ctx context.Context) {
	a.Processor.Stop()

	if a.asynqClient != nil {
		if err := a.asynqClient.Close(); err != nil {
			logger(ctx).Error("asynqClient.Close", logx.Error(err))
		}
	}

	if a.redis != nil {
		a.redis.Close(ctx)
	}

	a.postgres.Close(ctx)
}

// Run serves the operator API, probes, metrics, the notification consumer,
// the admin bot and the processing loop until ctx is cancelled.
func (a *Application) Run(ctx context.Context) error {
	cfg := a.Config
	g, ctx := errgroup.WithContext(ctx)

	modules.ProbeServer{
		Name:          cfg.App.Name,
		Version:       cfg.App.Version,
		ListenAddress: cfg.Probe.ListenAddress,
	}.Run(ctx, g)

	modules.MetricServer{ListenAddress: cfg.Metrics.ListenAddress}.Run(ctx, g)

	modules.HTTPServer{ShutdownTimeout: cfg.HTTP.ShutdownTimeout}.Run(ctx, g, a.httpServer(ctx))

	if cfg.Asynq.Enabled {
		n, err := a.notifier()
		if err != nil {
			return err
		}

		modules.AsynqServer{
			RedisUsername: cfg.Redis.Username,
			RedisPassword: cfg.Redis.Password,
			RedisAddress:  cfg.Redis.Address,
			RedisDB:       cfg.Asynq.DatabaseNumber,
		}.Run(ctx, g, modules.AsynqQueues{cfg.Asynq.Queue: cfg.Asynq.QueuePriority}, queue.NewHandler(n).AsynqHandlers()...)
	}

	if cfg.Bot.Enabled {
		adminBot, err := bot.New(ctx, cfg.Bot.Token, cfg.Bot.AdminID, handler.New(ctx, a.Service, a.Processor))
		if err != nil {
			return fmt.Errorf("bot.New: %w", err)
		}

		g.Go(func() error {
			return adminBot.Run(ctx)
		})
	}

	if cfg.Worker.Enabled {
		if err := a.Processor.Start(ctx); err != nil {
			return fmt.Errorf("processor.Start: %w", err)
		}
	}

	g.Go(func() error {
		<-ctx.Done()
		a.Processor.Stop()
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("g.Wait: %w", err)
	}

	return nil
}

func (a *Application) httpServer(ctx context.Context) *http.Server {
	cfg := a.Config
	masker := logx.NewSensitiveDataMasker()

	router := chi.NewRouter()
	router.Use(
		middlewarex.TraceID,
		middlewarex.Logger,
		middlewarex.Recovery,
		middlewarex.RequestLogging(masker, cfg.HTTP.LogFieldMaxLen),
		middlewarex.ResponseLogging(masker, cfg.HTTP.LogFieldMaxLen),
		middlewarex.BearerAuth(cfg.HTTP.OperatorAPIToken),
		middlewarex.OperatorID,
	)

	server.NewServer(
		server.NewDealServer(a.Service),
		server.NewBuyerServer(a.Service),
	).RegisterRoutes(router)

	return &http.Server{
		//nolint:exhaustruct
		Addr:              cfg.HTTP.ListenAddress,
		Handler:           router,
		ReadHeaderTimeout: httpServerReadHeaderTimeout,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}
}

func (a *Application) notifier() (queue.Notifier, error) {
	if !a.Config.Notifier.Enabled {
		return notifier.LogNotifier{}, nil
	}

	n, err := notifier.NewTelegramBot(a.Config.Notifier.Token, a.Config.Notifier.ChatID)
	if err != nil {
		return nil, fmt.Errorf("notifier.NewTelegramBot: %w", err)
	}

	return n, nil
}

func (a *Application) redisConnector() *connectors.Redis {
	if a.redis == nil {
		a.redis = &connectors.Redis{
			Username:           a.Config.Redis.Username,
			Password:           a.Config.Redis.Password,
			Address:            a.Config.Redis.Address,
			DatabaseNumber:     a.Config.Redis.DatabaseNumber,
			PoolSize:           a.Config.Redis.PoolSize,
			MinIdleConnections: a.Config.Redis.MinIdleConnections,
			MaxIdleConnections: a.Config.Redis.MaxIdleConnections,
		}
	}
	return a.redis
}

func (a *Application) asynqRedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     a.Config.Redis.Address,
		Username: a.Config.Redis.Username,
		Password: a.Config.Redis.Password,
		DB:       a.Config.Asynq.DatabaseNumber,
	}
}

// LogStartup reports the effective pipeline settings once.
func (a *Application) LogStartup(ctx context.Context) {
	cfg := a.Config
	logger(ctx).Info("dealflow configured",
		slog.String("version", cfg.App.Version),
		slog.Int("markets", len(cfg.Valuation.Markets)),
		slog.Duration("worker-interval", cfg.Worker.Interval),
		slog.Int("worker-batch", cfg.Worker.BatchSize),
		slog.Bool("asynq", cfg.Asynq.Enabled),
		slog.Bool("notifier", cfg.Notifier.Enabled),
		slog.Bool("bot", cfg.Bot.Enabled),
	)
}
