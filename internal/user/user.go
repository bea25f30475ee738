package user

import (
	"time"

	"github.com/google/uuid"
)

// User carries the spendable balance duplicated from the primary wallet.
// Every ledger mutation updates both rows in the same database transaction.
type User struct {
	ID              uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primary_key" json:"id"`
	Email           string     `gorm:"uniqueIndex;not null" json:"email"`
	Balance         float64    `gorm:"not null;default:0" json:"balance"`
	ReferredBy      string     `json:"referredBy,omitempty"`
	ReferralCode    string     `gorm:"uniqueIndex" json:"referralCode"`
	IsSuperAdmin    bool       `gorm:"default:false" json:"isSuperAdmin"`
	IsDepositAdmin  bool       `gorm:"default:false" json:"isDepositAdmin"`
	WithdrawalNequi string     `json:"withdrawalNequi,omitempty"`
	NequiOwnerName  string     `json:"nequiOwnerName,omitempty"`
	HasInvested     bool       `gorm:"default:false" json:"hasInvested"`
	PrimaryWalletID *uuid.UUID `gorm:"type:uuid" json:"primaryWalletId,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
