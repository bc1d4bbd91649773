package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/ecomarket-tech/inventory-backend/internal/cfg"
	v1Grpc "github.com/ecomarket-tech/inventory-backend/internal/delivery/v1/grpc"
	v1Http "github.com/ecomarket-tech/inventory-backend/internal/delivery/v1/http"
	"github.com/ecomarket-tech/inventory-backend/internal/domain"
	"github.com/ecomarket-tech/inventory-backend/internal/infrastructure/kafka"
	"github.com/ecomarket-tech/inventory-backend/internal/infrastructure/reports"
	s3Repo "github.com/ecomarket-tech/inventory-backend/internal/repository/minio"
	"github.com/ecomarket-tech/inventory-backend/internal/repository/pgdb"
	pgdbConv "github.com/ecomarket-tech/inventory-backend/internal/repository/pgdb/converter"
	redisRepo "github.com/ecomarket-tech/inventory-backend/internal/repository/redis"
	redisConv "github.com/ecomarket-tech/inventory-backend/internal/repository/redis/converter"
	"github.com/ecomarket-tech/inventory-backend/internal/scheduler"
	"github.com/ecomarket-tech/inventory-backend/internal/usecase"
	"github.com/ecomarket-tech/inventory-backend/pkg/clients"
	"github.com/ecomarket-tech/inventory-backend/pkg/closer"
	"github.com/ecomarket-tech/inventory-backend/pkg/e"
	"github.com/ecomarket-tech/inventory-backend/pkg/logger"
	"github.com/ecomarket-tech/inventory-backend/pkg/postgres"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

const (
	shutdownTimeout = 10 * time.Second
	forcedTimeout   = 2 * time.Second
	ensureTimeout   = 10 * time.Second

	notificationFeedLimit = 1000
)

// App собирает все зависимости сервиса и управляет их жизненным циклом.
// Закрытие ресурсов регистрируется в closer в порядке запуска и выполняется
// в обратном порядке.
type App struct {
	cfg    *config.Config
	logger logger.Logger

	db           *postgres.PgDatabase
	redisClient  *clients.RedisClient
	producer     *kafka.Producer
	outboxWorker *kafka.OutboxWorker
	consumer     *kafka.Consumer
	scheduler    *scheduler.Scheduler
	exporter     *reports.Exporter
	httpSrv      *v1Http.Server
	grpcSrv      *v1Grpc.GRPCServer
	closer       *closer.Closer
}

func NewApp(cfg *config.Config, log logger.Logger) (*App, error) {
	db, err := initPGDB(log, cfg)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	prConv := pgdbConv.NewProductConverter()
	stockConv := pgdbConv.NewStockEntryConverter()
	saleConv := pgdbConv.NewSaleConverter()
	syncConv := pgdbConv.NewSyncRecordConverter()
	notifConv := pgdbConv.NewNotificationConverter()
	outboxConv := pgdbConv.NewOutboxEventConverter()
	invConv := redisConv.NewInventoryItemConverter()

	productRepo := pgdb.NewProductRepo(db.Pool, prConv)
	stockRepo := pgdb.NewStockRepo(db.Pool, stockConv)
	saleRepo := pgdb.NewSaleRepo(db.Pool, saleConv)
	syncRepo := pgdb.NewSyncRecordRepo(db.Pool, syncConv)
	notificationRepo := pgdb.NewNotificationRepo(db.Pool, notifConv)
	outboxRepo := pgdb.NewOutboxEventRepo(db.Pool, outboxConv)

	registry := domain.NewRegistry(cfg.Branch.CentralID, cfg.Branch.Branches)
	if err := restoreLedgers(registry, stockRepo, cfg.Branch); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	redisClient := clients.NewRedisClient(cfg.Redis)
	redisCtx, redisCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer redisCancel()
	if err := redisClient.Ping(redisCtx); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	cacheRepo := redisRepo.NewCacheRepo(redisClient, invConv, cfg.Redis, log)
	idempotencyRepo := redisRepo.NewIdempotencyRepo(redisClient, cfg.Redis)

	minioClient, err := clients.NewMinIOClient(cfg.Minio)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	minioCtx, minioCancel := context.WithTimeout(context.Background(), ensureTimeout)
	defer minioCancel()
	if err := clients.EnsureBucket(minioCtx, minioClient, cfg.Minio.BucketName); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	reportRepo := s3Repo.NewReportRepo(minioClient, cfg.Minio)

	notifications := usecase.NewNotificationCenter(notificationRepo, notificationFeedLimit, log)
	if err := restoreNotifications(notifications, notificationRepo); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	catalogUC := usecase.NewCatalogUC(registry, productRepo, outboxRepo, cacheRepo, db.Pool, log)
	salesUC := usecase.NewSalesUC(registry, productRepo, saleRepo, stockRepo, outboxRepo,
		cacheRepo, notifications, db.Pool, log)
	syncUC := usecase.NewSyncUC(registry, productRepo, syncRepo, stockRepo, outboxRepo,
		cacheRepo, notifications, log)
	inventoryUC := usecase.NewInventoryUC(registry, productRepo, cacheRepo, log)

	producer, err := kafka.NewProducer(log, cfg.Kafka)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := producer.EnsureTopic(ensureTimeout); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	outboxWorker := kafka.NewOutboxWorker(outboxRepo, log, producer, db.Dsn)

	var consumer *kafka.Consumer
	if cfg.Kafka.ConsumerEnabled {
		applyUC := usecase.NewCentralApplyUC(registry, productRepo, stockRepo, cacheRepo,
			idempotencyRepo, notifications, log)
		consumer = kafka.NewConsumer(applyUC, log, cfg.Kafka)
	}

	syncScheduler := scheduler.NewScheduler(syncUC, cfg.Branch.Branches, cfg.Sync, log)
	exporter := reports.NewExporter(registry, productRepo, reportRepo, log)

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, log)
	router.Init(catalogUC, salesUC, syncUC, inventoryUC, notifications, exporter)

	httpSrv := v1Http.NewServer(r, cfg.Http)

	grpcSrv := v1Grpc.NewGRPCServer(cfg.Grpc, log)
	grpcSrv.RegisterServices()

	return &App{
		cfg:          cfg,
		logger:       log,
		db:           db,
		redisClient:  redisClient,
		producer:     producer,
		outboxWorker: outboxWorker,
		consumer:     consumer,
		scheduler:    syncScheduler,
		exporter:     exporter,
		httpSrv:      httpSrv,
		grpcSrv:      grpcSrv,
		closer:       closer.NewCloser(forcedTimeout),
	}, nil
}

// Run запускает фоновые воркеры и серверы и блокируется до сигнала остановки
// или фатальной ошибки одного из серверов.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.closer.Add(func(_ context.Context) error {
		a.db.Close()
		return nil
	})
	a.closer.Add(func(_ context.Context) error {
		return a.redisClient.Client.Close()
	})
	a.closer.Add(func(_ context.Context) error {
		return a.producer.Close()
	})

	a.outboxWorker.Start(ctx)
	a.closer.Add(func(_ context.Context) error {
		a.outboxWorker.Stop()
		return nil
	})

	if a.consumer != nil {
		a.consumer.Start(ctx)
		a.closer.Add(func(_ context.Context) error {
			return a.consumer.Stop()
		})
	}

	a.scheduler.Start(ctx)
	a.closer.Add(func(_ context.Context) error {
		a.scheduler.Stop()
		return nil
	})

	a.exporter.Start(ctx)
	a.closer.Add(func(_ context.Context) error {
		a.exporter.Stop()
		return nil
	})

	grpcErrCh := make(chan error, 1)
	go func() {
		a.logger.Infof("gRPC server starting on %s:%s", a.cfg.Grpc.NetworkMode, a.cfg.Grpc.Port)
		if err := a.grpcSrv.Start(); err != nil {
			grpcErrCh <- err
		}
	}()
	a.closer.Add(func(ctx context.Context) error {
		return a.grpcSrv.Stop(ctx)
	})

	httpErrCh := make(chan error, 1)
	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			httpErrCh <- err
		}
	}()
	a.closer.Add(func(ctx context.Context) error {
		return a.httpSrv.Stop(ctx)
	})

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	var appErr error
	select {
	case appErr = <-httpErrCh:
		a.logger.Errorf(appErr, "HTTP server fatal error")
	case appErr = <-grpcErrCh:
		a.logger.Errorf(appErr, "gRPC server fatal error")
	case <-shutdown:
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := a.closer.Close(shutdownCtx); err != nil {
		a.logger.Errorf(err, "shutdown finished with errors")
		if appErr == nil {
			appErr = err
		}
	} else {
		a.logger.Infof("Application shutdown complete")
	}

	return appErr
}

func initPGDB(logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		logger.Errorf(err, "failed to run migrations")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.Ping(); err != nil {
		logger.Errorf(err, "failed to ping database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}

// restoreNotifications восстанавливает ленту уведомлений из durable-копии.
func restoreNotifications(center *usecase.NotificationCenter,
	repo usecase.NotificationRepository) error {

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tail, err := repo.ListRecent(ctx, notificationFeedLimit)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	center.Restore(tail)
	return nil
}

// restoreLedgers восстанавливает in-memory леджеры всех локаций из durable-копии.
func restoreLedgers(registry *domain.Registry, stockRepo usecase.StockRepository,
	branch *config.BranchCfg) error {

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	locations := append([]string{branch.CentralID}, branch.Branches...)
	for _, locationID := range locations {
		entries, err := stockRepo.LoadLedger(ctx, locationID)
		if err != nil {
			return e.Wrap(whereami.WhereAmI(), err)
		}

		ledger, err := registry.Ledger(locationID)
		if err != nil {
			return e.Wrap(whereami.WhereAmI(), err)
		}

		ledger.Restore(entries)
	}

	return nil
}
