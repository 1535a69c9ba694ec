package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bryanwahyu/automaton-secops/internal/application"
	appanalysis "github.com/bryanwahyu/automaton-secops/internal/application/analysis"
	appmissions "github.com/bryanwahyu/automaton-secops/internal/application/missions"
	appreports "github.com/bryanwahyu/automaton-secops/internal/application/reports"
	"github.com/bryanwahyu/automaton-secops/internal/config"
	"github.com/bryanwahyu/automaton-secops/internal/domain/identity"
	"github.com/bryanwahyu/automaton-secops/internal/domain/missions"
	"github.com/bryanwahyu/automaton-secops/internal/domain/reports"
	aigateway "github.com/bryanwahyu/automaton-secops/internal/infra/ai/openai"
	"github.com/bryanwahyu/automaton-secops/internal/infra/ai/prompt"
	"github.com/bryanwahyu/automaton-secops/internal/infra/auth/gotrue"
	"github.com/bryanwahyu/automaton-secops/internal/infra/db/memory"
	mysqlp "github.com/bryanwahyu/automaton-secops/internal/infra/db/mysql"
	postgresp "github.com/bryanwahyu/automaton-secops/internal/infra/db/postgres"
	"github.com/bryanwahyu/automaton-secops/internal/infra/httpserver"
	minioStore "github.com/bryanwahyu/automaton-secops/internal/infra/storage"
	"github.com/bryanwahyu/automaton-secops/internal/logging"
	"github.com/bryanwahyu/automaton-secops/internal/middleware"
)

func main() {
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		logrus.Fatalf("config load error: %v", err)
	}

	log := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})

	ctx := context.Background()

	reportRepo, missionRepo, db, err := openRepositories(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatalf("%s connect error", cfg.Database.Driver)
	}
	checkers := map[string]middleware.HealthChecker{}
	if db != nil {
		defer db.Close()
		checkers["database"] = &middleware.DatabaseHealthChecker{DB: db}
	}

	// archive is optional; a missing bucket must not block analysis
	var archive reports.Archive
	if cfg.Minio.Enabled {
		store, err := minioStore.New(ctx, minioStore.Options{
			Endpoint:   cfg.Minio.Endpoint,
			Region:     cfg.Minio.Region,
			BucketName: cfg.Minio.BucketName,
			AccessKey:  cfg.Minio.AccessKey,
			SecretKey:  cfg.Minio.SecretKey,
			UseSSL:     cfg.Minio.UseSSL,
		})
		if err != nil {
			log.WithError(err).Warn("minio init failed, report archive disabled")
		} else {
			archive = store
		}
	}

	if cfg.AI.APIKey == "" {
		log.Warn("ai.apiKey is empty, gateway calls will be rejected")
	}
	gateway := aigateway.NewGateway(aigateway.Options{
		BaseURL: cfg.AI.BaseURL,
		APIKey:  cfg.AI.APIKey,
		Model:   cfg.AI.Model,
		Timeout: cfg.AITimeout(),
		Prompts: prompt.Library{},
	})

	reportSvc := &appreports.Service{
		Repo:    reportRepo,
		Archive: archive,
		Clock:   application.SystemClock{},
		Log:     log.WithField("component", "reports"),
	}
	analysisSvc := &appanalysis.Service{
		Gateway:        gateway,
		Reports:        reportSvc,
		Sequencer:      appanalysis.NewSequencer(),
		AllowAnonymous: cfg.Analysis.AllowAnonymous,
		Log:            log.WithField("component", "analysis"),
	}
	missionSvc := &appmissions.Service{
		Repo:  missionRepo,
		Clock: application.SystemClock{},
		Log:   log.WithField("component", "missions"),
	}
	notes := appmissions.NewNotesDebouncer(cfg.NotesDebounce(), missionSvc.SaveNotes, log.WithField("component", "notes"))

	var provider identity.Provider
	verifiers := middleware.Chain{}
	if len(cfg.Auth.APIKeys) > 0 {
		verifiers = append(verifiers, middleware.StaticKeys(cfg.Auth.APIKeys))
	}
	if cfg.Auth.ProviderURL != "" {
		client := gotrue.New(cfg.Auth.ProviderURL, cfg.Auth.AnonKey, 10*time.Second)
		provider = client
		verifiers = append(verifiers, client)
	}
	if len(verifiers) == 0 {
		log.Warn("no auth.providerURL or auth.apiKeys configured, every request is anonymous")
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimit.Capacity, cfg.RateLimit.RefillPerSecond)
	stopSweeper := make(chan struct{})
	go limiter.RunSweeper(5*time.Minute, 10*time.Minute, stopSweeper)

	handler := httpserver.NewRouter(httpserver.Deps{
		Analysis:       analysisSvc,
		Reports:        reportSvc,
		Missions:       missionSvc,
		Notes:          notes,
		Identity:       provider,
		Verifier:       verifiers,
		Limiter:        limiter,
		Checkers:       checkers,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Log:            log,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	// WriteTimeout covers the gateway timeout plus encoding
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.AITimeout() + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithFields(logrus.Fields{"addr": addr, "driver": cfg.Database.Driver}).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("shutdown error")
	}
	close(stopSweeper)
	if err := notes.Close(shutdownCtx); err != nil {
		log.WithError(err).Error("flushing pending notes failed")
	}
}

func openRepositories(ctx context.Context, cfg *config.Config) (reports.Repository, missions.Repository, *sql.DB, error) {
	switch cfg.Database.Driver {
	case "mysql":
		db, err := mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			return nil, nil, nil, err
		}
		return mysqlp.NewReportRepository(db), mysqlp.NewMissionRepository(db), db, nil
	case "postgres":
		db, err := postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			return nil, nil, nil, err
		}
		return postgresp.NewReportRepository(db), postgresp.NewMissionRepository(db), db, nil
	case "memory":
		return memory.NewReportRepository(), memory.NewMissionRepository(), nil, nil
	}
	return nil, nil, nil, fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
}
