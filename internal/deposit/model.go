package deposit

import (
	"time"

	"github.com/camilova/invercop/internal/appconfig"
	"github.com/google/uuid"
)

type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusRejected RequestStatus = "rejected"
)

// Request is a user-submitted deposit claim. The balance is only credited
// when an admin approves it; rejection leaves balances untouched.
type Request struct {
	ID              uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primary_key" json:"id"`
	UserID          uuid.UUID     `gorm:"type:uuid;not null;index" json:"userId"`
	UserEmail       string        `json:"userEmail"`
	WalletID        uuid.UUID     `gorm:"type:uuid;not null" json:"walletId"`
	Amount          float64       `gorm:"not null" json:"amount"`
	NetworkName     string        `json:"networkName"`
	ReferenceNumber string        `json:"referenceNumber"`
	Status          RequestStatus `gorm:"not null;default:pending;index" json:"status"`
	RequestDate     time.Time     `json:"requestDate"`
	DecisionDate    *time.Time    `json:"decisionDate,omitempty"`
	AdminID         *uuid.UUID    `gorm:"type:uuid" json:"adminId,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

func (Request) TableName() string { return "deposit_requests" }

// BonusAmount returns the extra credit an approved deposit earns, zero when
// the bonus is disabled.
func BonusAmount(amount float64, cfg appconfig.DepositBonusConfig) float64 {
	if !cfg.IsActive || cfg.Percentage <= 0 {
		return 0
	}
	return amount * cfg.Percentage / 100
}
