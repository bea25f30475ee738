package investment

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/camilova/invercop/internal/appconfig"
	"github.com/camilova/invercop/internal/user"
	"github.com/camilova/invercop/internal/wallet"
	"github.com/camilova/invercop/pkg/config"
	"github.com/camilova/invercop/pkg/events"
	"github.com/camilova/invercop/pkg/logger"
	"github.com/camilova/invercop/pkg/utils"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type Handler struct {
	Config      config.Config
	Repo        Repository
	WalletRepo  wallet.Repository
	ConfigRepo  appconfig.Repository
	RedisClient *events.RedisClient
}

func NewHandler(cfg config.Config, repo Repository, walletRepo wallet.Repository, configRepo appconfig.Repository, redisClient *events.RedisClient) *Handler {
	return &Handler{
		Config:      cfg,
		Repo:        repo,
		WalletRepo:  walletRepo,
		ConfigRepo:  configRepo,
		RedisClient: redisClient,
	}
}

// GetPlans lists plans currently open for purchase.
func (h *Handler) GetPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.Repo.ListPlans(true)
	if err != nil {
		utils.BuildErrorResponse(w, http.StatusInternalServerError, "Failed to fetch plans", nil)
		return
	}

	now := time.Now()
	available := make([]Plan, 0, len(plans))
	for _, p := range plans {
		if p.Available(now) {
			available = append(available, p)
		}
	}

	utils.BuildSuccessResponse(w, http.StatusOK, "Investment plans", available)
}

type PurchaseRequest struct {
	PlanID string  `json:"planId" validate:"required,uuid"`
	Amount float64 `json:"amount" validate:"gt=0"`
}

// Purchase starts an investment from the user's primary wallet.
func (h *Handler) Purchase(w http.ResponseWriter, r *http.Request) {
	usr, ok := r.Context().Value(utils.UserKey).(user.User)
	if !ok {
		utils.BuildErrorResponse(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	var req PurchaseRequest
	if status, err := utils.DecodeJSONBody(w, r, &req); err != nil {
		utils.BuildErrorResponse(w, status, "Invalid request", map[string]string{"error": err.Error()})
		return
	}

	plan, err := h.Repo.GetPlan(req.PlanID)
	if err != nil {
		utils.BuildErrorResponse(w, http.StatusNotFound, "Plan not found", nil)
		return
	}

	if !plan.Available(time.Now()) {
		utils.BuildErrorResponse(w, http.StatusBadRequest, ErrPlanUnavailable.Error(), nil)
		return
	}

	if err := ValidateAmount(*plan, req.Amount); err != nil {
		utils.BuildErrorResponse(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	wlt, err := h.WalletRepo.GetPrimaryWallet(usr.ID.String())
	if err != nil {
		utils.BuildErrorResponse(w, http.StatusNotFound, "Wallet not found", nil)
		return
	}

	if req.Amount > wlt.Balance {
		utils.BuildErrorResponse(w, http.StatusBadRequest, "Insufficient funds", nil)
		return
	}

	appCfg, err := h.ConfigRepo.GetAppConfig()
	if err != nil {
		utils.BuildErrorResponse(w, http.StatusInternalServerError, "Failed to load configuration", nil)
		return
	}

	inv, err := h.Repo.Purchase(&usr, *plan, wlt.ID, req.Amount, appCfg)
	if err != nil {
		if errors.Is(err, wallet.ErrInsufficientFunds) {
			utils.BuildErrorResponse(w, http.StatusBadRequest, "Insufficient funds", nil)
			return
		}
		logger.Error("Investment purchase failed", logger.Merge(logger.WithError(err), logger.Fields{
			logger.UserIdKey: usr.ID.String(),
			"plan_id":        req.PlanID,
		}))
		utils.BuildErrorResponse(w, http.StatusInternalServerError, "Failed to complete the investment", nil)
		return
	}

	h.publish(r.Context(), events.FlowInvestmentPurchase, inv.ID.String(), usr.ID.String(), inv.WalletID.String(), req.Amount)

	utils.BuildSuccessResponse(w, http.StatusCreated, "Investment started", inv)
}

// GetActive lists the caller's active investments.
func (h *Handler) GetActive(w http.ResponseWriter, r *http.Request) {
	usr, _ := r.Context().Value(utils.UserKey).(user.User)

	invs, err := h.Repo.ListActiveByUser(usr.ID.String())
	if err != nil {
		utils.BuildErrorResponse(w, http.StatusInternalServerError, "Failed to fetch investments", nil)
		return
	}

	utils.BuildSuccessResponse(w, http.StatusOK, "Active investments", invs)
}

// Collect claims one day's earnings for an investment. Rate limited to once
// per 24 hours, measured against the stored collection date.
func (h *Handler) Collect(w http.ResponseWriter, r *http.Request) {
	usr, _ := r.Context().Value(utils.UserKey).(user.User)
	investmentID := mux.Vars(r)["id"]

	appCfg, err := h.ConfigRepo.GetAppConfig()
	if err != nil {
		utils.BuildErrorResponse(w, http.StatusInternalServerError, "Failed to load configuration", nil)
		return
	}

	res, err := h.Repo.Collect(&usr, investmentID, appCfg)
	if err != nil {
		var notReady *NotReadyError
		switch {
		case errors.As(err, &notReady):
			utils.BuildErrorResponse(w, http.StatusTooManyRequests, "Collection is not ready yet", map[string]string{
				"remaining": notReady.Remaining.Round(time.Second).String(),
			})
		case errors.Is(err, gorm.ErrRecordNotFound):
			utils.BuildErrorResponse(w, http.StatusNotFound, "Investment not found", nil)
		default:
			logger.Error("Earnings collection failed", logger.Merge(logger.WithError(err), logger.Fields{
				logger.UserIdKey: usr.ID.String(),
				"investment_id":  investmentID,
			}))
			utils.BuildErrorResponse(w, http.StatusInternalServerError, "Failed to collect earnings", nil)
		}
		return
	}

	h.publish(r.Context(), events.FlowEarningsCollection, investmentID, usr.ID.String(), "", res.Amount)

	utils.BuildSuccessResponse(w, http.StatusOK, "Earnings collected", res)
}

// DeleteInvestment removes an investment and refunds its principal. Admin.
func (h *Handler) DeleteInvestment(w http.ResponseWriter, r *http.Request) {
	investmentID := mux.Vars(r)["id"]

	inv, err := h.Repo.DeleteWithRefund(investmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.BuildErrorResponse(w, http.StatusNotFound, "Investment not found", nil)
			return
		}
		logger.Error("Investment deletion failed", logger.Merge(logger.WithError(err), logger.Fields{"investment_id": investmentID}))
		utils.BuildErrorResponse(w, http.StatusInternalServerError, "Failed to delete the investment", nil)
		return
	}

	utils.BuildSuccessResponse(w, http.StatusOK, "Investment deleted and refunded", inv)
}

type PlanRequest struct {
	Name                  string   `json:"name" validate:"required"`
	DurationDays          int      `json:"durationDays" validate:"gt=0"`
	DailyReturnPercentage float64  `json:"dailyReturnPercentage" validate:"gt=0"`
	IsActive              bool     `json:"isActive"`
	MinInvestment         *float64 `json:"minInvestment,omitempty"`
	MaxInvestment         *float64 `json:"maxInvestment,omitempty"`
	ImageURL              string   `json:"imageUrl,omitempty"`
}

// CreatePlan registers a new plan template. Admin.
func (h *Handler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	var req PlanRequest
	if status, err := utils.DecodeJSONBody(w, r, &req); err != nil {
		utils.BuildErrorResponse(w, status, "Invalid request", map[string]string{"error": err.Error()})
		return
	}

	plan := &Plan{
		Name:                  req.Name,
		DurationDays:          req.DurationDays,
		DailyReturnPercentage: req.DailyReturnPercentage,
		IsActive:              req.IsActive,
		MinInvestment:         req.MinInvestment,
		MaxInvestment:         req.MaxInvestment,
		ImageURL:              req.ImageURL,
	}

	if err := h.Repo.CreatePlan(plan); err != nil {
		utils.BuildErrorResponse(w, http.StatusInternalServerError, "Failed to create plan", nil)
		return
	}

	utils.BuildSuccessResponse(w, http.StatusCreated, "Plan created", plan)
}

// UpdatePlan replaces a plan's template fields. Admin.
func (h *Handler) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	planID := mux.Vars(r)["id"]

	plan, err := h.Repo.GetPlan(planID)
	if err != nil {
		utils.BuildErrorResponse(w, http.StatusNotFound, "Plan not found", nil)
		return
	}

	var req PlanRequest
	if status, err := utils.DecodeJSONBody(w, r, &req); err != nil {
		utils.BuildErrorResponse(w, status, "Invalid request", map[string]string{"error": err.Error()})
		return
	}

	plan.Name = req.Name
	plan.DurationDays = req.DurationDays
	plan.DailyReturnPercentage = req.DailyReturnPercentage
	plan.IsActive = req.IsActive
	plan.MinInvestment = req.MinInvestment
	plan.MaxInvestment = req.MaxInvestment
	plan.ImageURL = req.ImageURL

	if err := h.Repo.UpdatePlan(plan); err != nil {
		utils.BuildErrorResponse(w, http.StatusInternalServerError, "Failed to update plan", nil)
		return
	}

	utils.BuildSuccessResponse(w, http.StatusOK, "Plan updated", plan)
}

// DeletePlan removes a plan template. Existing investments keep their copied
// terms and keep running.
func (h *Handler) DeletePlan(w http.ResponseWriter, r *http.Request) {
	planID := mux.Vars(r)["id"]

	if err := h.Repo.DeletePlan(planID); err != nil {
		utils.BuildErrorResponse(w, http.StatusInternalServerError, "Failed to delete plan", nil)
		return
	}

	utils.BuildSuccessResponse(w, http.StatusOK, "Plan deleted", nil)
}

func (h *Handler) publish(ctx context.Context, flow, entityID, userID, walletID string, amount float64) {
	if h.RedisClient == nil {
		return
	}

	event := events.LedgerEvent{
		Flow:      flow,
		EntityID:  entityID,
		UserID:    userID,
		WalletID:  walletID,
		Amount:    amount,
		Status:    "completed",
		Timestamp: time.Now().UTC(),
	}

	if err := h.RedisClient.PublishEvent(ctx, event); err != nil {
		logger.Warn("Failed to publish investment event", logger.WithError(err))
	}
}
