package referral

import (
	"net/http"
	"time"

	"github.com/camilova/invercop/internal/user"
	"github.com/camilova/invercop/internal/wallet"
	"github.com/camilova/invercop/pkg/logger"
	"github.com/camilova/invercop/pkg/utils"
)

type Handler struct {
	UserRepo   user.Repository
	WalletRepo wallet.Repository
}

func NewHandler(userRepo user.Repository, walletRepo wallet.Repository) *Handler {
	return &Handler{UserRepo: userRepo, WalletRepo: walletRepo}
}

// TeamMember is the projection exposed to the referrer. Balances and
// payment details of referred users stay private.
type TeamMember struct {
	Email       string    `json:"email"`
	HasInvested bool      `json:"hasInvested"`
	JoinedAt    time.Time `json:"joinedAt"`
}

// GetTeam returns the users who signed up with the caller's referral code
// and the total commission the caller has earned from them.
func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	usr, ok := r.Context().Value(utils.UserKey).(user.User)
	if !ok {
		utils.BuildErrorResponse(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	referred, err := h.UserRepo.ListByReferredBy(usr.ReferralCode)
	if err != nil {
		logger.Error("Failed to list referred users", logger.Merge(logger.WithError(err), logger.Fields{
			logger.UserIdKey: usr.ID.String(),
		}))
		utils.BuildErrorResponse(w, http.StatusInternalServerError, "Failed to fetch referrals", nil)
		return
	}

	members := make([]TeamMember, 0, len(referred))
	for _, ref := range referred {
		members = append(members, TeamMember{
			Email:       ref.Email,
			HasInvested: ref.HasInvested,
			JoinedAt:    ref.CreatedAt,
		})
	}

	var totalCommission float64
	if usr.PrimaryWalletID != nil {
		totalCommission, err = h.WalletRepo.SumTransactionsByType(usr.PrimaryWalletID.String(), wallet.TypeReferralCommission)
		if err != nil {
			utils.BuildErrorResponse(w, http.StatusInternalServerError, "Failed to fetch referrals", nil)
			return
		}
	}

	utils.BuildSuccessResponse(w, http.StatusOK, "Referral team", map[string]interface{}{
		"referralCode":    usr.ReferralCode,
		"members":         members,
		"count":           len(members),
		"totalCommission": totalCommission,
	})
}
