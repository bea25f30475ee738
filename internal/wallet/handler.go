package wallet

import (
	"errors"
	"net/http"

	"github.com/camilova/invercop/internal/appconfig"
	"github.com/camilova/invercop/internal/user"
	"github.com/camilova/invercop/pkg/config"
	"github.com/camilova/invercop/pkg/logger"
	"github.com/camilova/invercop/pkg/referralcode"
	"github.com/camilova/invercop/pkg/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Handler struct {
	Config     config.Config
	Repo       Repository
	UserRepo   user.Repository
	ConfigRepo appconfig.Repository
}

func NewHandler(cfg config.Config, repo Repository, userRepo user.Repository, configRepo appconfig.Repository) *Handler {
	return &Handler{
		Config:     cfg,
		Repo:       repo,
		UserRepo:   userRepo,
		ConfigRepo: configRepo,
	}
}

type ProvisionRequest struct {
	Email      string `json:"email" validate:"required,email"`
	ReferredBy string `json:"referredBy,omitempty"`
	WalletName string `json:"walletName,omitempty"`
}

// Provision creates the user row, primary wallet and referral code for a
// freshly registered account. Called by the signup service with the shared
// provisioning secret; the registration bonus is credited when enabled.
func (h *Handler) Provision(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("X-Provision-Secret") != h.Config.ProvisionSecret {
		utils.BuildErrorResponse(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	var req ProvisionRequest
	if status, err := utils.DecodeJSONBody(w, r, &req); err != nil {
		utils.BuildErrorResponse(w, status, "Invalid request", map[string]string{"error": err.Error()})
		return
	}

	if existing, err := h.UserRepo.FindByEmail(req.Email); err == nil && existing != nil {
		utils.BuildErrorResponse(w, http.StatusConflict, "Account already provisioned", nil)
		return
	}

	// Referral codes are opaque strings; an unknown code is stored as-is and
	// simply never earns anyone a commission.
	if req.ReferredBy != "" {
		if _, err := h.UserRepo.FindByReferralCode(req.ReferredBy); err != nil {
			logger.Warn("Unknown referral code at provisioning", logger.Fields{"referral_code": req.ReferredBy})
		}
	}

	appCfg, err := h.ConfigRepo.GetAppConfig()
	if err != nil {
		utils.BuildErrorResponse(w, http.StatusInternalServerError, "Failed to load configuration", nil)
		return
	}

	bonus := 0.0
	if appCfg.RegistrationBonusEnabled && appCfg.RegistrationBonus > 0 {
		bonus = appCfg.RegistrationBonus
	}

	uid := uuid.New()
	usr := &user.User{
		ID:           uid,
		Email:        req.Email,
		ReferredBy:   req.ReferredBy,
		ReferralCode: referralcode.CodeFromUID(uid.String()),
	}

	walletName := req.WalletName
	if walletName == "" {
		walletName = "Principal"
	}

	wlt, err := h.Repo.Provision(usr, walletName, bonus)
	if err != nil {
		logger.Error("Account provisioning failed", logger.Merge(logger.WithError(err), logger.Fields{
			"email": req.Email,
		}))
		utils.BuildErrorResponse(w, http.StatusInternalServerError, "Failed to provision account", nil)
		return
	}

	logger.Info("Account provisioned", logger.Fields{
		logger.UserIdKey:   usr.ID.String(),
		logger.WalletIdKey: wlt.ID.String(),
	})

	utils.BuildSuccessResponse(w, http.StatusCreated, "Account provisioned", map[string]interface{}{
		"user":   usr,
		"wallet": wlt,
	})
}

// GetWallet returns the caller's primary wallet.
func (h *Handler) GetWallet(w http.ResponseWriter, r *http.Request) {
	usr, ok := r.Context().Value(utils.UserKey).(user.User)
	if !ok {
		utils.BuildErrorResponse(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	wlt, err := h.Repo.GetPrimaryWallet(usr.ID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.BuildErrorResponse(w, http.StatusNotFound, "Wallet not found", nil)
			return
		}
		utils.BuildErrorResponse(w, http.StatusInternalServerError, "Failed to fetch wallet", nil)
		return
	}

	utils.BuildSuccessResponse(w, http.StatusOK, "Wallet", wlt)
}

// GetBalance returns just the spendable balance.
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	usr, _ := r.Context().Value(utils.UserKey).(user.User)

	wlt, err := h.Repo.GetPrimaryWallet(usr.ID.String())
	if err != nil {
		utils.BuildErrorResponse(w, http.StatusNotFound, "Wallet not found", nil)
		return
	}

	utils.BuildSuccessResponse(w, http.StatusOK, "Balance", map[string]float64{"balance": wlt.Balance})
}

// GetTransactions pages through the caller's ledger, newest first.
func (h *Handler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	usr, _ := r.Context().Value(utils.UserKey).(user.User)

	wlt, err := h.Repo.GetPrimaryWallet(usr.ID.String())
	if err != nil {
		utils.BuildErrorResponse(w, http.StatusNotFound, "Wallet not found", nil)
		return
	}

	limit, offset, page := utils.GetPaginationDetails(r)

	txs, err := h.Repo.GetTransactions(wlt.ID.String(), limit, offset)
	if err != nil {
		utils.BuildErrorResponse(w, http.StatusInternalServerError, "Failed to fetch transactions", nil)
		return
	}

	total, err := h.Repo.CountTransactions(wlt.ID.String())
	if err != nil {
		utils.BuildErrorResponse(w, http.StatusInternalServerError, "Failed to fetch transactions", nil)
		return
	}

	utils.BuildSuccessResponse(w, http.StatusOK, "Transactions", map[string]interface{}{
		"transactions": txs,
		"total":        total,
		"page":         page,
		"limit":        limit,
	})
}

type WithdrawalAddressRequest struct {
	WithdrawalNequi string `json:"withdrawalNequi" validate:"required"`
	NequiOwnerName  string `json:"nequiOwnerName" validate:"required"`
}

// UpdateWithdrawalAddress saves the Nequi account withdrawals pay out to.
func (h *Handler) UpdateWithdrawalAddress(w http.ResponseWriter, r *http.Request) {
	usr, _ := r.Context().Value(utils.UserKey).(user.User)

	var req WithdrawalAddressRequest
	if status, err := utils.DecodeJSONBody(w, r, &req); err != nil {
		utils.BuildErrorResponse(w, status, "Invalid request", map[string]string{"error": err.Error()})
		return
	}

	if err := h.UserRepo.UpdateWithdrawalAddress(usr.ID.String(), req.WithdrawalNequi, req.NequiOwnerName); err != nil {
		utils.BuildErrorResponse(w, http.StatusInternalServerError, "Failed to update withdrawal address", nil)
		return
	}

	utils.BuildSuccessResponse(w, http.StatusOK, "Withdrawal address updated", nil)
}
