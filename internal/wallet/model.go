package wallet

import (
	"time"

	"github.com/google/uuid"
)

type Wallet struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primary_key" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index" json:"userId"`
	Name         string    `gorm:"not null" json:"name"`
	Balance      float64   `gorm:"not null;default:0" json:"balance"`
	CreationDate time.Time `json:"creationDate"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type TransactionType string

const (
	TypeDepositApproved    TransactionType = "deposit-approved"
	TypeDepositBonus       TransactionType = "deposit-bonus"
	TypeInvestmentStart    TransactionType = "investment-start"
	TypeInvestmentEarning  TransactionType = "investment-earning"
	TypeWithdrawalRequest  TransactionType = "withdrawal-request"
	TypeReferralCommission TransactionType = "referral-commission"
	// Legacy types still written by provisioning and plan-deletion refunds.
	TypeDeposit TransactionType = "Deposit"
	TypeReward  TransactionType = "Reward"
)

type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusFailed    TransactionStatus = "failed"
)

// Transaction is an append-only ledger entry. Rows are never mutated once
// completed or failed; only a withdrawal's pending entry flips on decision.
type Transaction struct {
	ID              uuid.UUID         `gorm:"type:uuid;default:uuid_generate_v4();primary_key" json:"id"`
	WalletID        uuid.UUID         `gorm:"type:uuid;not null;index" json:"walletId"`
	TransactionDate time.Time         `gorm:"not null" json:"transactionDate"`
	Amount          float64           `gorm:"not null" json:"amount"`
	Description     string            `json:"description"`
	Type            TransactionType   `gorm:"not null" json:"type"`
	Status          TransactionStatus `gorm:"not null" json:"status"`
	ReferenceNumber string            `json:"referenceNumber,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}
