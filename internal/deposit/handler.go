package deposit

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

type CreateDepositRequest struct {
	Amount          float64 `json:"amount" validate:"gt=0"`
	NetworkName     string  `json:"networkName" validate:"required"`
	ReferenceNumber string  `json:"referenceNumber" validate:"required"`
}

// CreateRequest registers a pending deposit claim. Nothing is credited until
// an admin approves it.
func (h *Handler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	usr, ok := r.Context().Value(utils.UserKey).(user.User)
	if !ok {
		utils.BuildErrorResponse(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	var req CreateDepositRequest
	if status, err := utils.DecodeJSONBody(w, r, &req); err != nil {
		utils.BuildErrorResponse(w, status, "Invalid request", map[string]string{"error": err.Error()})
		return
	}

	if req.Amount < h.Config.MinDepositAmount {
		utils.BuildErrorResponse(w, http.StatusBadRequest, "Amount is below the minimum deposit", nil)
		return
	}

	wlt, err := h.WalletRepo.GetPrimaryWallet(usr.ID.String())
	if err != nil {
		utils.BuildErrorResponse(w, http.StatusNotFound, "Wallet not found", nil)
		return
	}

	depositReq := &Request{
		UserID:          usr.ID,
		UserEmail:       usr.Email,
		WalletID:        wlt.ID,
		Amount:          req.Amount,
		NetworkName:     req.NetworkName,
		ReferenceNumber: req.ReferenceNumber,
	}

	if err := h.Repo.CreateRequest(depositReq); err != nil {
		logger.Error("Failed to create deposit request", logger.WithError(err))
		utils.BuildErrorResponse(w, http.StatusInternalServerError, "Failed to create deposit request", nil)
		return
	}

	utils.BuildSuccessResponse(w, http.StatusCreated, "Deposit request submitted for review", depositReq)
}

func (h *Handler) GetMyRequests(w http.ResponseWriter, r *http.Request) {
	usr, _ := r.Context().Value(utils.UserKey).(user.User)

	limit, offset, page := utils.GetPaginationDetails(r)
	reqs, err := h.Repo.ListByUser(usr.ID.String(), limit, offset)
	if err != nil {
		utils.BuildErrorResponse(w, http.StatusInternalServerError, "Failed to fetch deposit requests", nil)
		return
	}

	utils.BuildSuccessResponse(w, http.StatusOK, "Deposit requests", map[string]interface{}{
		"requests": reqs,
		"page":     page,
	})
}

func (h *Handler) ListRequests(w http.ResponseWriter, r *http.Request) {
	limit, offset, _ := utils.GetPaginationDetails(r)

	reqs, err := h.Repo.ListRequests(r.URL.Query().Get("status"), limit, offset)
	if err != nil {
		utils.BuildErrorResponse(w, http.StatusInternalServerError, "Failed to fetch deposit requests", nil)
		return
	}

	utils.BuildSuccessResponse(w, http.StatusOK, "Deposit requests", reqs)
}

type DecisionRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approved rejected"`
}

// Decide approves or rejects a pending deposit. A request that was already
// settled reports a conflict rather than an error: it is the benign outcome
// of two admins acting at once.
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

	bonusCfg, err := h.ConfigRepo.GetDepositBonusConfig()
	if err != nil {
		utils.BuildErrorResponse(w, http.StatusInternalServerError, "Failed to load bonus configuration", nil)
		return
	}

	decided, err := h.Repo.Decide(requestID, RequestStatus(req.Decision), admin.ID, bonusCfg)
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadyProcessed):
			utils.BuildSuccessResponse(w, http.StatusConflict, "Request was already processed", nil)
		case errors.Is(err, gorm.ErrRecordNotFound):
			utils.BuildErrorResponse(w, http.StatusNotFound, "Deposit request not found", nil)
		default:
			logger.Error("Deposit decision failed", logger.Merge(logger.WithError(err), logger.Fields{"request_id": requestID}))
			utils.BuildErrorResponse(w, http.StatusInternalServerError, "Failed to process the decision", nil)
		}
		return
	}

	h.publishDecision(r.Context(), decided)

	utils.BuildSuccessResponse(w, http.StatusOK, "Deposit request "+string(decided.Status), decided)
}

func (h *Handler) publishDecision(ctx context.Context, req *Request) {
	if h.RedisClient == nil {
		return
	}

	event := events.LedgerEvent{
		Flow:      events.FlowDepositDecision,
		EntityID:  req.ID.String(),
		UserID:    req.UserID.String(),
		WalletID:  req.WalletID.String(),
		Amount:    req.Amount,
		Status:    string(req.Status),
		Timestamp: time.Now().UTC(),
	}

	if err := h.RedisClient.PublishEvent(ctx, event); err != nil {
		logger.Warn("Failed to publish deposit decision event", logger.WithError(err))
	}
}
