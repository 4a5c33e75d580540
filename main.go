package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	intconfig "travelagency/internal/config"
	intdb "travelagency/internal/db"
	router "travelagency/internal/http"
	"travelagency/internal/http/handlers"
	"travelagency/internal/logger"
	"travelagency/internal/notify"
	"travelagency/internal/repositories"
	"travelagency/internal/repositories/memory"
	"travelagency/internal/repositories/mongorepo"
	"travelagency/internal/services"
)

func main() {
	env := intconfig.LoadEnv()
	logger.Init(logger.Options{File: env.LogFile, Level: env.LogLevel})
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	stores, closeStores := openStores(env)
	defer closeStores()

	rdb := intconfig.ConnectRedis(env.RedisURL)
	defer intconfig.CloseRedis()

	var sinks []services.NoticeSink
	if rdb != nil {
		sinks = append(sinks, notify.RedisPublisher{Client: rdb, Channel: notify.DefaultChannel})
	}
	mailer := notify.Mailer{
		Host:     env.SMTPHost,
		Port:     env.SMTPPort,
		Username: env.SMTPUsername,
		Password: env.SMTPPassword,
		From:     env.FromEmail,
	}
	if mailer.Enabled() {
		sinks = append(sinks, mailer)
	}

	handlers.Configure(handlers.Deps{
		Stores:       stores,
		Sinks:        sinks,
		JWTSecret:    []byte(env.JWTSecret),
		CookieSecure: env.CookieSecure,
	})

	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 10*time.Second)
	auth := services.AuthService{Accounts: stores.Accounts, Secret: []byte(env.JWTSecret), RequestID: "startup"}
	if err := auth.EnsureAdmin(seedCtx, "Super Admin", env.AdminEmail, env.AdminPassword); err != nil {
		logger.ErrorLogger.WithError(err).Error("admin seeding failed")
	}
	cancelSeed()

	r := router.NewRouter(env, rdb)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.InfoLogger.Infof("server listening on %s (store=%s)", env.AppAddr, env.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorLogger.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.InfoLogger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.ErrorLogger.Errorf("server shutdown failed: %v", err)
		return
	}

	logger.InfoLogger.Info("server stopped")
}

// openStores picks the backend named by STORE_DRIVER.
func openStores(env intconfig.Env) (services.Stores, func()) {
	switch env.StoreDriver {
	case intconfig.StoreMemory:
		logger.WarnLogger.Warn("using in-memory store, data is lost on restart")
		return memory.NewStores(), func() {}

	case intconfig.StoreMongo:
		db := intconfig.ConnectMongo(env.MongoURI, env.MongoDatabase)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := mongorepo.EnsureIndexes(ctx, db); err != nil {
			logger.ErrorLogger.Fatalf("mongo index setup failed: %v", err)
		}
		return mongorepo.NewStores(db), intconfig.CloseMongo

	default:
		db := intconfig.ConnectDB(env.MySQLDSN, env.DBPool)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := intdb.EnsureSchema(ctx, db); err != nil {
			logger.ErrorLogger.Fatalf("schema setup failed: %v", err)
		}
		return repositories.NewStores(db), intconfig.CloseDB
	}
}
