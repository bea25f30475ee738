package appconfig

import (
	"net/http"

	"github.com/camilova/invercop/pkg/utils"
)

type Handler struct {
	Repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{Repo: repo}
}

// GetConfig returns the public platform configuration.
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.Repo.GetAppConfig()
	if err != nil {
		utils.BuildErrorResponse(w, http.StatusInternalServerError, "Failed to load configuration", nil)
		return
	}

	utils.BuildSuccessResponse(w, http.StatusOK, "Configuration", cfg)
}

// GetWithdrawalConfig returns the withdrawal gate parameters.
func (h *Handler) GetWithdrawalConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.Repo.GetWithdrawalConfig()
	if err != nil {
		utils.BuildErrorResponse(w, http.StatusInternalServerError, "Failed to load configuration", nil)
		return
	}

	utils.BuildSuccessResponse(w, http.StatusOK, "Withdrawal configuration", cfg)
}

// GetDepositBonusConfig returns the deposit bonus parameters.
func (h *Handler) GetDepositBonusConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.Repo.GetDepositBonusConfig()
	if err != nil {
		utils.BuildErrorResponse(w, http.StatusInternalServerError, "Failed to load configuration", nil)
		return
	}

	utils.BuildSuccessResponse(w, http.StatusOK, "Deposit bonus configuration", cfg)
}

// SaveConfig replaces the platform configuration. Super admin.
func (h *Handler) SaveConfig(w http.ResponseWriter, r *http.Request) {
	var cfg AppConfig
	if status, err := utils.DecodeJSONBody(w, r, &cfg); err != nil {
		utils.BuildErrorResponse(w, status, "Invalid request", map[string]string{"error": err.Error()})
		return
	}

	if err := h.Repo.SaveAppConfig(&cfg); err != nil {
		utils.BuildErrorResponse(w, http.StatusInternalServerError, "Failed to save configuration", nil)
		return
	}

	utils.BuildSuccessResponse(w, http.StatusOK, "Configuration saved", cfg)
}

// SaveWithdrawalConfig replaces the withdrawal gate parameters. Super admin.
func (h *Handler) SaveWithdrawalConfig(w http.ResponseWriter, r *http.Request) {
	var cfg WithdrawalConfig
	if status, err := utils.DecodeJSONBody(w, r, &cfg); err != nil {
		utils.BuildErrorResponse(w, status, "Invalid request", map[string]string{"error": err.Error()})
		return
	}

	if err := h.Repo.SaveWithdrawalConfig(&cfg); err != nil {
		utils.BuildErrorResponse(w, http.StatusInternalServerError, "Failed to save configuration", nil)
		return
	}

	utils.BuildSuccessResponse(w, http.StatusOK, "Withdrawal configuration saved", cfg)
}

// SaveDepositBonusConfig replaces the deposit bonus parameters. Super admin.
func (h *Handler) SaveDepositBonusConfig(w http.ResponseWriter, r *http.Request) {
	var cfg DepositBonusConfig
	if status, err := utils.DecodeJSONBody(w, r, &cfg); err != nil {
		utils.BuildErrorResponse(w, status, "Invalid request", map[string]string{"error": err.Error()})
		return
	}

	if err := h.Repo.SaveDepositBonusConfig(&cfg); err != nil {
		utils.BuildErrorResponse(w, http.StatusInternalServerError, "Failed to save configuration", nil)
		return
	}

	utils.BuildSuccessResponse(w, http.StatusOK, "Deposit bonus configuration saved", cfg)
}
