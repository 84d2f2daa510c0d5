package runtime

import (
	"context"
	"fmt"
	"log/slog"

	"consistencychecker/internal/pkg/backup"
	"consistencychecker/internal/pkg/cleanup"
	"consistencychecker/internal/pkg/config"
	"consistencychecker/internal/pkg/consts"
	"consistencychecker/internal/pkg/db/mongo"
	"consistencychecker/internal/pkg/db/redis"
	"consistencychecker/internal/pkg/gcs"
	"consistencychecker/internal/pkg/log_messages"
	"consistencychecker/internal/pkg/logger"
	"consistencychecker/internal/pkg/notification"
	"consistencychecker/internal/pkg/store/impl/loans"
	"consistencychecker/internal/pkg/store/impl/payments"
	"consistencychecker/internal/pkg/store/impl/users"
	"consistencychecker/internal/pkg/store/repository"
	"consistencychecker/internal/service/interfaces"
	"consistencychecker/internal/service/reconcile"
)

var (
	connectMongoDB = mongo.ConnectToMongoDB
	connectRedisDB = func(ctx context.Context, cfg config.RedisConfig) (*redis.RedisClient, error) {
		return redis.ConnectToRedis(ctx, cfg, nil)
	}
)

// App encapsulates application resources and lifecycle.
type App struct {
	Cfg         *config.AppConfig
	MongoClient *mongo.MongoClient
	RedisClient *redis.RedisClient
	GcsClient   *gcs.GCSClient

	LoanRepo    interfaces.LoanRepositoryInterface
	UserRepo    interfaces.UserRepositoryInterface
	PaymentRepo interfaces.PaymentRepositoryInterface

	Backup   interfaces.BackupWriterInterface
	Notifier interfaces.NotifierInterface
	Mirror   interfaces.ArtifactMirrorInterface
	Lock     interfaces.RunLockInterface
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.LoadFromConfig()
	if err != nil {
		logger.CtxError(ctx, log_messages.FailedLoadingConfiguration, err)
		return nil, err
	}
	logger.Init(cfg.Logging.LogLevel)

	mClient, err := connectMongoDB(ctx, cfg.Mongo)
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorConnectingToMongoDB, err)
		return nil, err
	}

	app := &App{
		Cfg:         cfg,
		MongoClient: mClient,
		LoanRepo:    loans.NewLoansRepository(mClient),
		UserRepo:    users.NewUsersRepository(mClient),
		PaymentRepo: payments.NewPaymentsRepository(mClient),
		Backup:      backup.NewWriter(cfg.Backup.Dir),
		Notifier:    notification.NewResendNotifier(cfg.Email),
	}

	if cfg.RunLock.Enabled {
		rClient, err := connectRedisDB(ctx, cfg.Redis)
		if err != nil {
			logger.CtxError(ctx, "Failed to connect to Redis", err)
			app.Shutdown(ctx)
			return nil, err
		}
		app.RedisClient = rClient
		app.Lock = repository.NewRedisRunLock(rClient.Client, cfg.RunLock.TTL)
	}

	if cfg.GCS.Enabled {
		gcsClient, err := gcs.NewGCSClient(ctx, cfg.GCS)
		if err != nil {
			logger.CtxError(ctx, "Failed to create GCS client", err)
			app.Shutdown(ctx)
			return nil, err
		}
		app.GcsClient = gcsClient
		app.Mirror = gcsClient
	}

	return app, nil
}

// Run executes one routine end to end and returns when it finishes. The
// advisory lock, when configured, keeps overlapping scheduled runs from
// interleaving their writes.
func (a *App) Run(ctx context.Context, routine string, dateRange string, limit int64) error {
	if err := a.Cfg.Scope.Validate(); err != nil {
		return err
	}

	if a.Lock != nil {
		acquired, err := a.Lock.Acquire(ctx, routine)
		if err != nil {
			logger.CtxError(ctx, log_messages.ErrorAcquiringRunLock, err)
			return err
		}
		if !acquired {
			logger.CtxWarn(ctx, log_messages.RunLockHeldByAnotherProcess, slog.String("routine", routine))
			return nil
		}
		defer func() {
			if err := a.Lock.Release(ctx, routine); err != nil {
				logger.CtxError(ctx, "Failed to release run lock", err, slog.String("routine", routine))
			}
		}()
	}

	logger.CtxInfo(ctx, "Starting consistency routine", slog.String("routine", routine))

	switch routine {
	case consts.RoutineArrears:
		reconciler := reconcile.NewUserStatusReconciler(a.LoanRepo, a.UserRepo)
		runner := reconcile.NewArrearsRunner(a.Cfg.Scope, a.LoanRepo, reconciler, a.Backup, a.Notifier, a.Mirror)
		_, err := runner.Run(ctx)
		return err
	case consts.RoutineZeroBalance:
		runner := reconcile.NewZeroBalanceRunner(a.Cfg.Scope, a.LoanRepo, a.Backup, a.Notifier, a.Mirror)
		_, err := runner.Run(ctx)
		return err
	case consts.RoutinePaymentAudit:
		auditor := reconcile.NewPaymentAuditor(a.LoanRepo)
		runner := reconcile.NewPaymentAuditRunner(a.Cfg.Scope, a.PaymentRepo, auditor, a.Backup, a.Notifier, a.Mirror)
		_, err := runner.Run(ctx, dateRange, limit)
		return err
	case consts.RoutinePaymentLinks:
		if !a.Cfg.Routines.PaymentLinksEnabled {
			return fmt.Errorf("routine %q is disabled, set PAYMENT_LINKS_ENABLED to run it", routine)
		}
		runner := reconcile.NewPaymentLinksRunner(a.Cfg.Scope, a.LoanRepo, a.PaymentRepo, a.Backup, a.Notifier, a.Mirror)
		_, err := runner.Run(ctx)
		return err
	default:
		return fmt.Errorf("unknown routine %q", routine)
	}
}

// Shutdown closes all resources.
func (a *App) Shutdown(ctx context.Context) {
	cleanup.CleanupResources(ctx, a.MongoClient, a.RedisClient)
	if a.GcsClient != nil {
		if err := a.GcsClient.Close(); err != nil {
			logger.CtxError(ctx, log_messages.ErrorClosingGCSClient, err)
		}
	}
}
