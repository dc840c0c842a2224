package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"todoapi.org/internal/audit"
	"todoapi.org/internal/auth"
	"todoapi.org/internal/chat"
	"todoapi.org/internal/config"
	"todoapi.org/internal/httpapi"
	"todoapi.org/internal/migrate"
	"todoapi.org/internal/obs"
	"todoapi.org/internal/store/pg"
	"todoapi.org/internal/students"
	"todoapi.org/internal/todos"
)

var (
	version = "0.3.1"
	commit  = "dev"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()
	obs.SetLogger(logger)

	obs.Init()
	obs.InitBuildInfo(version, commit)

	var (
		userStore  auth.UserStore
		studentSvc students.Service
		todoSvc    todos.Service
		trail      audit.Recorder
		store      *pg.Store
		readyProbe httpapi.ReadyProbe
	)
	if cfg.DB.DSN != "" {
		store, err = pg.Open(cfg.DB.DSN)
		if err != nil {
			logger.Fatal("open db", zap.Error(err))
		}
		defer store.Close()

		if err := migrate.Up(context.Background(), store.DB()); err != nil {
			logger.Fatal("migrate", zap.Error(err))
		}

		userStore = store.Users()
		studentSvc = store.Students()
		todoSvc = store.Todos()
		trail = store.Audit()
		readyProbe = httpapi.ReadyProbe{DB: store.DB()}
		logger.Info("using postgres store")
	} else {
		userStore = auth.NewInMemoryStore()
		studentSvc = students.NewInMemory()
		todoSvc = todos.NewInMemory()
		trail = audit.NewInMemory()
		logger.Warn("no TODO_PG_DSN set, using in-memory store")
	}

	authSvc := auth.NewService(userStore, []byte(cfg.Auth.Secret), cfg.Auth.TokenTTL)
	if err := authSvc.EnsureAdmin(context.Background(), cfg.Auth.AdminUsername, cfg.Auth.AdminPassword); err != nil {
		logger.Fatal("admin bootstrap", zap.Error(err))
	}

	chatClient := chat.NewClient(cfg.Chat.APIKey, cfg.Chat.Model)

	api := httpapi.New(readyProbe, version, authSvc, studentSvc, todoSvc, trail, chatClient, cfg.CORS.Origins)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("starting todo-api",
		zap.String("version", version),
		zap.String("addr", srv.Addr))

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	logger.Info("stopped")
}
