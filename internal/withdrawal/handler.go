package withdrawal

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
	"github.com/camilova/invercop/pkg/id"
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

type WithdrawRequest struct {
	Amount float64 `json:"amount" validate:"gt=0"`
}

// CreateRequest debits the user immediately and leaves the request pending
// admin review. All validation happens before the batch is attempted; the
// batch itself is all-or-nothing.
func (h *Handler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	usr, ok := r.Context().Value(utils.UserKey).(user.User)
	if !ok {
		utils.BuildErrorResponse(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	var req WithdrawRequest
	if status, err := utils.DecodeJSONBody(w, r, &req); err != nil {
		utils.BuildErrorResponse(w, status, "Invalid request", map[string]string{"error": err.Error()})
		return
	}

	cfg, err := h.ConfigRepo.GetWithdrawalConfig()
	if err != nil {
		utils.BuildErrorResponse(w, http.StatusInternalServerError, "Failed to load withdrawal configuration", nil)
		return
	}

	wlt, err := h.WalletRepo.GetPrimaryWallet(usr.ID.String())
	if err != nil {
		utils.BuildErrorResponse(w, http.StatusNotFound, "Wallet not found", nil)
		return
	}

	now := time.Now()
	day := RequestDayString(now)
	count, err := h.Repo.CountForDay(usr.ID.String(), day)
	if err != nil {
		utils.BuildErrorResponse(w, http.StatusInternalServerError, "Failed to check daily limit", nil)
		return
	}

	if err := ValidateRequest(cfg, now, req.Amount, wlt.Balance, usr.WithdrawalNequi, count); err != nil {
		switch {
		case errors.Is(err, ErrWithdrawalsClosed):
			ws := Window(cfg, now)
			utils.BuildErrorResponse(w, http.StatusForbidden, ws.Message, map[string]string{"opensIn": ws.OpensInHM})
		case errors.Is(err, ErrDailyLimitReached):
			utils.BuildErrorResponse(w, http.StatusTooManyRequests, err.Error(), nil)
		default:
			utils.BuildErrorResponse(w, http.StatusBadRequest, err.Error(), nil)
		}
		return
	}

	fee := FeeAmount(req.Amount, cfg.FeePercentage)
	withdrawal := &Request{
		UserID:         usr.ID,
		UserEmail:      usr.Email,
		WalletID:       wlt.ID,
		NetAmount:      req.Amount - fee,
		FeeAmount:      fee,
		TotalAmount:    req.Amount,
		Method:         "Nequi",
		WalletAddress:  usr.WithdrawalNequi,
		RequestDate:    now.UTC(),
		RequestDay:     day,
		NequiOwnerName: usr.NequiOwnerName,
	}

	if err := h.Repo.CreateRequest(withdrawal, cfg.DailyLimit); err != nil {
		if errors.Is(err, wallet.ErrInsufficientFunds) {
			utils.BuildErrorResponse(w, http.StatusBadRequest, "Insufficient funds", nil)
			return
		}
		if errors.Is(err, ErrDailyLimitReached) {
			utils.BuildErrorResponse(w, http.StatusTooManyRequests, err.Error(), nil)
			return
		}
		logger.Error("Failed to create withdrawal request", logger.Merge(logger.WithError(err), logger.Fields{
			logger.UserIdKey: usr.ID.String(),
		}))
		utils.BuildErrorResponse(w, http.StatusInternalServerError, "Failed to create withdrawal request", nil)
		return
	}

	h.publish(r.Context(), events.FlowWithdrawalRequest, withdrawal)

	utils.BuildSuccessResponse(w, http.StatusCreated, "Withdrawal request submitted for review", withdrawal)
}

// GetWindow reports the current gate so the UI can show opening times.
func (h *Handler) GetWindow(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.ConfigRepo.GetWithdrawalConfig()
	if err != nil {
		utils.BuildErrorResponse(w, http.StatusInternalServerError, "Failed to load withdrawal configuration", nil)
		return
	}

	utils.BuildSuccessResponse(w, http.StatusOK, "Withdrawal window", Window(cfg, time.Now()))
}

func (h *Handler) GetMyRequests(w http.ResponseWriter, r *http.Request) {
	usr, _ := r.Context().Value(utils.UserKey).(user.User)

	limit, offset, page := utils.GetPaginationDetails(r)
	reqs, err := h.Repo.ListByUser(usr.ID.String(), limit, offset)
	if err != nil {
		utils.BuildErrorResponse(w, http.StatusInternalServerError, "Failed to fetch withdrawal requests", nil)
		return
	}

	utils.BuildSuccessResponse(w, http.StatusOK, "Withdrawal requests", map[string]interface{}{
		"requests": reqs,
		"page":     page,
	})
}

func (h *Handler) ListRequests(w http.ResponseWriter, r *http.Request) {
	limit, offset, _ := utils.GetPaginationDetails(r)

	reqs, err := h.Repo.ListRequests(r.URL.Query().Get("status"), limit, offset)
	if err != nil {
		utils.BuildErrorResponse(w, http.StatusInternalServerError, "Failed to fetch withdrawal requests", nil)
		return
	}

	utils.BuildSuccessResponse(w, http.StatusOK, "Withdrawal requests", reqs)
}

type DecisionRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approved rejected"`
}

// Decide confirms or reverses the debit taken at request time.
func (h *Handler) Decide(w http.ResponseWriter, r *http.Request) {
	admin, _ := r.Context().Value(utils.UserKey).(user.User)
	requestID := mux.Vars(r)["id"]
	if _, err := id.IsValidUUID(requestID); err != nil {
		utils.BuildErrorResponse(w, http.StatusBadRequest, "Invalid request id", nil)
		return
	}

	var req DecisionRequest
	if status, err := utils.DecodeJSONBody(w, r, &req); err != nil {
		utils.BuildErrorResponse(w, status, "Invalid request", map[string]string{"error": err.Error()})
		return
	}

	decided, err := h.Repo.Decide(requestID, RequestStatus(req.Decision), admin.ID)
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadyProcessed):
			utils.BuildSuccessResponse(w, http.StatusConflict, "Request was already processed", nil)
		case errors.Is(err, gorm.ErrRecordNotFound):
			utils.BuildErrorResponse(w, http.StatusNotFound, "Withdrawal request not found", nil)
		default:
			logger.Error("Withdrawal decision failed", logger.Merge(logger.WithError(err), logger.Fields{"request_id": requestID}))
			utils.BuildErrorResponse(w, http.StatusInternalServerError, "Failed to process the decision", nil)
		}
		return
	}

	h.publish(r.Context(), events.FlowWithdrawalDecision, decided)

	utils.BuildSuccessResponse(w, http.StatusOK, "Withdrawal request "+string(decided.Status), decided)
}

func (h *Handler) publish(ctx context.Context, flow string, req *Request) {
	if h.RedisClient == nil {
		return
	}

	event := events.LedgerEvent{
		Flow:      flow,
		EntityID:  req.ID.String(),
		UserID:    req.UserID.String(),
		WalletID:  req.WalletID.String(),
		Amount:    req.TotalAmount,
		Status:    string(req.Status),
		Timestamp: time.Now().UTC(),
	}

	if err := h.RedisClient.PublishEvent(ctx, event); err != nil {
		logger.Warn("Failed to publish withdrawal event", logger.WithError(err))
	}
}
