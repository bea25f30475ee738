package user

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

// ListUsers pages through all accounts, newest first. Admin.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit, offset, page := utils.GetPaginationDetails(r)

	users, err := h.Repo.ListUsers(limit, offset)
	if err != nil {
		utils.BuildErrorResponse(w, http.StatusInternalServerError, "Failed to fetch users", nil)
		return
	}

	total, err := h.Repo.CountUsers()
	if err != nil {
		utils.BuildErrorResponse(w, http.StatusInternalServerError, "Failed to fetch users", nil)
		return
	}

	utils.BuildSuccessResponse(w, http.StatusOK, "Users", map[string]interface{}{
		"users": users,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// GetProfile returns the authenticated user's own record.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	usr, ok := r.Context().Value(utils.UserKey).(User)
	if !ok {
		utils.BuildErrorResponse(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	utils.BuildSuccessResponse(w, http.StatusOK, "Profile", usr)
}
