package main

import (
	"context"
	"log"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/planner/api/handler"
	"github.com/fastygo/planner/internal/config"
	boltInfra "github.com/fastygo/planner/internal/infrastructure/boltdb"
	"github.com/fastygo/planner/internal/infrastructure/monitor"
	pgInfra "github.com/fastygo/planner/internal/infrastructure/postgres"
	redisInfra "github.com/fastygo/planner/internal/infrastructure/redis"
	"github.com/fastygo/planner/internal/middleware"
	"github.com/fastygo/planner/internal/router"
	"github.com/fastygo/planner/internal/services/lifecycle"
	"github.com/fastygo/planner/pkg/httpcontext"
	"github.com/fastygo/planner/pkg/logger"
	"github.com/fastygo/planner/repository"
	boltRepo "github.com/fastygo/planner/repository/boltdb"
	"github.com/fastygo/planner/repository/postgres"
	redisRepo "github.com/fastygo/planner/repository/redis"
	authUC "github.com/fastygo/planner/usecase/auth"
	"github.com/fastygo/planner/usecase/legacy"
	taskUC "github.com/fastygo/planner/usecase/task"
)

type repositories struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	tasks    repository.TaskRepository
	states   repository.StateRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:       cfg.Logger.Level,
		Encoding:    cfg.Logger.Encoding,
		Service:     cfg.AppName,
		Environment: cfg.Environment,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	stopSignals := manager.Listen(cancel)
	defer stopSignals()

	mon := monitor.New(cfg.Health.Interval, zapLogger)

	var repos repositories
	if cfg.UsesPostgres() {
		if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
			zapLogger.Fatal("migrations failed", zap.Error(err))
		}

		pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
		if err != nil {
			zapLogger.Fatal("postgres connection failed", zap.Error(err))
		}
		manager.Register("postgres", func(ctx context.Context) error {
			pool.Close()
			return nil
		})
		mon.Register("postgres", pool.Ping)

		repos = repositories{
			users:    postgres.NewUserRepository(pool),
			sessions: postgres.NewSessionRepository(pool),
			tasks:    postgres.NewTaskRepository(pool),
			states:   postgres.NewStateRepository(pool),
		}
	} else {
		db, err := boltInfra.Open(cfg.Store.Path, zapLogger)
		if err != nil {
			zapLogger.Fatal("failed to open file store", zap.Error(err))
		}
		manager.Register("file_store", func(ctx context.Context) error {
			return db.Close()
		})
		mon.Register("file_store", func(ctx context.Context) error {
			return boltInfra.Ping(db)
		})

		repos = repositories{
			users:    boltRepo.NewUserRepository(db),
			sessions: boltRepo.NewSessionRepository(db),
			tasks:    boltRepo.NewTaskRepository(db),
			states:   boltRepo.NewStateRepository(db),
		}
	}

	if cfg.UsesRedisSessions() {
		redisClient, err := redisInfra.NewClient(appCtx, cfg.Redis, zapLogger)
		if err != nil {
			zapLogger.Fatal("redis connection failed", zap.Error(err))
		}
		manager.Register("redis", func(ctx context.Context) error {
			return redisClient.Close()
		})
		mon.Register("redis", func(ctx context.Context) error {
			return redisInfra.Ping(ctx, redisClient)
		})
		repos.sessions = redisRepo.NewSessionRepository(redisClient)
	}

	hasher, err := authUC.NewHasher(cfg.Security.PasswordHasher, cfg.Security.PasswordSalt)
	if err != nil {
		zapLogger.Fatal("password hasher", zap.Error(err))
	}

	importer := legacy.NewImporter(repos.states, hasher, legacy.Config{
		TasksFile:    cfg.Legacy.TasksFile,
		DemoEmail:    cfg.Legacy.DemoEmail,
		DemoName:     cfg.Legacy.DemoName,
		DemoPassword: cfg.Legacy.DemoPassword,
	}, zapLogger)
	if _, err := importer.Run(appCtx); err != nil {
		zapLogger.Error("legacy import failed", zap.Error(err))
	}

	if err := mon.Start(); err != nil {
		zapLogger.Fatal("monitor start failed", zap.Error(err))
	}
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop(ctx)
		return nil
	})

	sessionStore := authUC.NewSessionStore(repos.sessions, zapLogger)
	authUseCase := authUC.New(repos.users, sessionStore, hasher, zapLogger)
	taskUseCase := taskUC.New(repos.tasks, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:   apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger),
		Task:   apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		Health: apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.BearerAuth(authUC.NewGate(sessionStore), ctxAdapter, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:      middleware.CORS(cfg.HTTP.AllowedOrigins)(r.Handler),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
