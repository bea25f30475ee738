package routes

import (
	"net/http"
	"os"

	"github.com/camilova/invercop/internal/appconfig"
	"github.com/camilova/invercop/internal/auth"
	"github.com/camilova/invercop/internal/deposit"
	"github.com/camilova/invercop/internal/investment"
	"github.com/camilova/invercop/internal/middleware"
	"github.com/camilova/invercop/internal/referral"
	"github.com/camilova/invercop/internal/user"
	"github.com/camilova/invercop/internal/wallet"
	"github.com/camilova/invercop/internal/withdrawal"
	"github.com/camilova/invercop/pkg/config"
	"github.com/camilova/invercop/pkg/database"
	"github.com/camilova/invercop/pkg/events"
	"github.com/camilova/invercop/pkg/logger"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"
)

func RegisterRoutes(r *mux.Router, cfg config.Config, redisClient *events.RedisClient) http.Handler {
	userRepo := user.NewRepository(database.DB)
	walletRepo := wallet.NewRepository(database.DB)
	configRepo := appconfig.NewRepository(database.DB)
	depositRepo := deposit.NewRepository(database.DB)
	withdrawalRepo := withdrawal.NewRepository(database.DB)
	investmentRepo := investment.NewRepository(database.DB)

	userHandler := user.NewHandler(userRepo)
	walletHandler := wallet.NewHandler(cfg, walletRepo, userRepo, configRepo)
	configHandler := appconfig.NewHandler(configRepo)
	depositHandler := deposit.NewHandler(cfg, depositRepo, walletRepo, configRepo, redisClient)
	withdrawalHandler := withdrawal.NewHandler(cfg, withdrawalRepo, walletRepo, configRepo, redisClient)
	investmentHandler := investment.NewHandler(cfg, investmentRepo, walletRepo, configRepo, redisClient)
	referralHandler := referral.NewHandler(userRepo, walletRepo)

	r.Use(middleware.LoggingMiddleware)

	limiter := middleware.NewRateLimiter(rate.Limit(5), 10)

	publicR := r.PathPrefix("/api").Subrouter()
	publicR.Use(limiter.Limit)
	publicR.HandleFunc("/accounts/provision", walletHandler.Provision).Methods("POST")
	publicR.HandleFunc("/config", configHandler.GetConfig).Methods("GET")
	publicR.HandleFunc("/config/withdrawal", configHandler.GetWithdrawalConfig).Methods("GET")
	publicR.HandleFunc("/config/deposit-bonus", configHandler.GetDepositBonusConfig).Methods("GET")
	publicR.HandleFunc("/plans", investmentHandler.GetPlans).Methods("GET")

	userR := r.PathPrefix("/api").Subrouter()
	userR.Use(auth.JWTMiddleware(cfg, userRepo))
	userR.HandleFunc("/me", userHandler.GetProfile).Methods("GET")
	userR.HandleFunc("/wallet", walletHandler.GetWallet).Methods("GET")
	userR.HandleFunc("/wallet/balance", walletHandler.GetBalance).Methods("GET")
	userR.HandleFunc("/wallet/transactions", walletHandler.GetTransactions).Methods("GET")
	userR.HandleFunc("/wallet/withdrawal-address", walletHandler.UpdateWithdrawalAddress).Methods("PUT")

	userR.HandleFunc("/deposits", depositHandler.CreateRequest).Methods("POST")
	userR.HandleFunc("/deposits/me", depositHandler.GetMyRequests).Methods("GET")

	userR.HandleFunc("/withdrawals", withdrawalHandler.CreateRequest).Methods("POST")
	userR.HandleFunc("/withdrawals/me", withdrawalHandler.GetMyRequests).Methods("GET")
	userR.HandleFunc("/withdrawals/window", withdrawalHandler.GetWindow).Methods("GET")

	userR.HandleFunc("/referrals", referralHandler.GetTeam).Methods("GET")

	userR.HandleFunc("/investments", investmentHandler.Purchase).Methods("POST")
	userR.HandleFunc("/investments", investmentHandler.GetActive).Methods("GET")
	userR.HandleFunc("/investments/{id}/collect", investmentHandler.Collect).Methods("POST")

	depositAdminR := r.PathPrefix("/api/admin").Subrouter()
	depositAdminR.Use(auth.JWTMiddleware(cfg, userRepo))
	depositAdminR.Use(auth.RequireDepositAdmin)
	depositAdminR.HandleFunc("/deposits", depositHandler.ListRequests).Methods("GET")
	depositAdminR.HandleFunc("/deposits/{id}/decide", depositHandler.Decide).Methods("POST")

	superAdminR := r.PathPrefix("/api/admin").Subrouter()
	superAdminR.Use(auth.JWTMiddleware(cfg, userRepo))
	superAdminR.Use(auth.RequireSuperAdmin)
	superAdminR.HandleFunc("/users", userHandler.ListUsers).Methods("GET")
	superAdminR.HandleFunc("/withdrawals", withdrawalHandler.ListRequests).Methods("GET")
	superAdminR.HandleFunc("/withdrawals/{id}/decide", withdrawalHandler.Decide).Methods("POST")
	superAdminR.HandleFunc("/config", configHandler.SaveConfig).Methods("PUT")
	superAdminR.HandleFunc("/config/withdrawal", configHandler.SaveWithdrawalConfig).Methods("PUT")
	superAdminR.HandleFunc("/config/deposit-bonus", configHandler.SaveDepositBonusConfig).Methods("PUT")
	superAdminR.HandleFunc("/plans", investmentHandler.CreatePlan).Methods("POST")
	superAdminR.HandleFunc("/plans/{id}", investmentHandler.UpdatePlan).Methods("PUT")
	superAdminR.HandleFunc("/plans/{id}", investmentHandler.DeletePlan).Methods("DELETE")
	superAdminR.HandleFunc("/investments/{id}", investmentHandler.DeleteInvestment).Methods("DELETE")

	if cfg.Env != "production" {
		r.HandleFunc("/swagger.yaml", func(w http.ResponseWriter, r *http.Request) {
			content, err := os.ReadFile("docs/swagger.yaml")
			if err != nil {
				logger.Error("Failed to read swagger.yaml", logger.Fields{"error": err.Error()})
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}

			w.Header().Set("Content-Type", "application/yaml")
			w.Write(content)
		})

		r.PathPrefix("/swagger/").Handler(httpSwagger.Handler(
			httpSwagger.URL("/swagger.yaml"),
		))
		logger.Info("Swagger documentation enabled at /swagger/index.html")
	}

	corsObj := handlers.CORS(
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Provision-Secret"}),
	)

	return corsObj(r)
}
