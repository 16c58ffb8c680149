package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/planflow-backend/config"
	httpapi "github.com/GoSim-25-26J-441/planflow-backend/internal/api/http"
	"github.com/GoSim-25-26J-441/planflow-backend/internal/auth"
	authhttp "github.com/GoSim-25-26J-441/planflow-backend/internal/auth/http"
	"github.com/GoSim-25-26J-441/planflow-backend/internal/auth/identity"
	authrepo "github.com/GoSim-25-26J-441/planflow-backend/internal/auth/repository"
	"github.com/GoSim-25-26J-441/planflow-backend/internal/bootstrap"
	"github.com/GoSim-25-26J-441/planflow-backend/internal/logging"
	"github.com/GoSim-25-26J-441/planflow-backend/internal/projects/repository"
	"github.com/GoSim-25-26J-441/planflow-backend/internal/projects/service"
	"github.com/GoSim-25-26J-441/planflow-backend/internal/storage/postgres"
	"github.com/GoSim-25-26J-441/planflow-backend/internal/users"
)

const serviceName = "planflow-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := bootstrap.NewLogger(cfg.App.Environment, cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Server exited", zap.String("error", logging.SanitizeError(err)))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bootstrap.SetGinMode(cfg.App.Environment)

	sqlDB, err := postgres.NewConnection(ctx, &cfg.Database)
	if err != nil {
		return err
	}
	defer sqlDB.Close()
	logger.Info("Connected to database", zap.String("dsn", logging.SanitizeDSN(postgres.DSN(&cfg.Database))))

	if err := postgres.EnsureSchema(ctx, sqlDB); err != nil {
		return err
	}

	pool, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: postgres.URL(&cfg.Database)})
	if err != nil {
		return err
	}
	defer pool.Close()

	rdb, err := bootstrap.OpenRedis(ctx, &cfg.Redis)
	if err != nil {
		return err
	}
	defer rdb.Close()

	client, err := identity.NewFirebaseClient(ctx, cfg.Firebase.APIKey, cfg.Firebase.IdentityEndpoint)
	if err != nil {
		return err
	}

	var verifier auth.TokenVerifier
	if cfg.Firebase.CredentialsPath != "" {
		authClient, err := auth.InitializeFirebase(ctx, &cfg.Firebase)
		if err != nil {
			return err
		}
		verifier = authClient
	} else {
		logger.Info("FIREBASE_CREDENTIALS_PATH not set, bearer tokens are disabled")
	}

	manager := service.NewManager(
		client,
		authrepo.NewSessionRepository(rdb, cfg.Session.TTL),
		users.NewRepo(pool),
		repository.NewProjectRepository(sqlDB),
		cfg.Session.IdleEvict,
		logger,
	)

	evictor := service.NewEvictor(manager, logger)
	if err := evictor.Start(""); err != nil {
		return err
	}
	defer evictor.Stop()

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: serviceName,
		Version:     cfg.App.Version,
		Logger:      logger,
		Manager:     manager,
		Verifier:    verifier,
		DB:          pool,
		Redis:       httpapi.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() }),
		CORSOrigins: cfg.Server.CORSOrigins,
		Auth: authhttp.Options{
			SignInRatePerMin: cfg.Session.SignInRatePerMin,
			SessionTTL:       cfg.Session.TTL,
			SecureCookie:     cfg.App.Environment == "production",
		},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Listening", zap.String("addr", srv.Addr), zap.String("env", cfg.App.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
