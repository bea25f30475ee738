package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/camilova/invercop/cmd/routes"
	"github.com/camilova/invercop/internal/appconfig"
	"github.com/camilova/invercop/internal/deposit"
	"github.com/camilova/invercop/internal/investment"
	"github.com/camilova/invercop/internal/user"
	"github.com/camilova/invercop/internal/wallet"
	"github.com/camilova/invercop/internal/withdrawal"
	"github.com/camilova/invercop/pkg/config"
	"github.com/camilova/invercop/pkg/database"
	"github.com/camilova/invercop/pkg/events"
	"github.com/camilova/invercop/pkg/logger"
	"github.com/gorilla/mux"
)

func main() {
	cfg := config.LoadConfig()

	database.Connect(cfg.DBUrl)
	database.Migrate(
		&user.User{},
		&wallet.Wallet{},
		&wallet.Transaction{},
		&appconfig.AppConfig{},
		&appconfig.WithdrawalConfig{},
		&appconfig.DepositBonusConfig{},
		&deposit.Request{},
		&withdrawal.Request{},
		&investment.Plan{},
		&investment.Investment{},
	)

	configRepo := appconfig.NewRepository(database.DB)
	if err := configRepo.Seed(); err != nil {
		logger.Fatal("Failed to seed configuration", logger.WithError(err))
	}

	redisClient := events.NewRedisClient(cfg)

	// start background worker
	worker := withdrawal.NewPayoutWorker(cfg, withdrawal.NewRepository(database.DB), redisClient)
	worker.Start()

	r := mux.NewRouter()
	handler := routes.RegisterRoutes(r, cfg, redisClient)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("Server starting", logger.Fields{"port": cfg.Port, "env": cfg.Env})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Could not listen", logger.Fields{"port": cfg.Port, "error": err.Error()})
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	<-c

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	server.Shutdown(ctx)
	logger.Info("Server gracefully shut down")
}
