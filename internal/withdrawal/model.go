package withdrawal

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusRejected RequestStatus = "rejected"
)

var (
	ErrBelowMinimum        = errors.New("amount below minimum withdrawal")
	ErrDailyLimitReached   = errors.New("daily withdrawal limit reached")
	ErrNoWithdrawalAddress = errors.New("withdrawal address not configured")
	ErrWithdrawalsClosed   = errors.New("withdrawals are closed right now")
	ErrAlreadyProcessed    = errors.New("request already processed")
)

// Request holds a withdrawal with the debit already applied: funds leave the
// spendable balance at request time and only come back if an admin rejects it.
// TransactionID links the pending ledger entry whose status follows the
// decision (completed on approval, failed on rejection).
type Request struct {
	ID             uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primary_key" json:"id"`
	UserID         uuid.UUID     `gorm:"type:uuid;not null;index" json:"userId"`
	UserEmail      string        `json:"userEmail"`
	WalletID       uuid.UUID     `gorm:"type:uuid;not null" json:"walletId"`
	NetAmount      float64       `gorm:"not null" json:"netAmount"`
	FeeAmount      float64       `gorm:"not null" json:"feeAmount"`
	TotalAmount    float64       `gorm:"not null" json:"totalAmount"`
	Method         string        `json:"method"`
	WalletAddress  string        `json:"walletAddress"`
	Status         RequestStatus `gorm:"not null;default:pending;index" json:"status"`
	RequestDate    time.Time     `json:"requestDate"`
	RequestDay     string        `gorm:"index" json:"requestDay"`
	TransactionID  uuid.UUID     `gorm:"type:uuid" json:"transactionId"`
	NequiOwnerName string        `json:"nequiOwnerName,omitempty"`
	AdminID        *uuid.UUID    `gorm:"type:uuid" json:"adminId,omitempty"`
	DecisionDate   *time.Time    `json:"decisionDate,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

func (Request) TableName() string { return "withdrawal_requests" }

// FeeAmount computes the fee retained from a withdrawal. feeRate is a
// fraction, 0.05 for 5%.
func FeeAmount(total, feeRate float64) float64 {
	return total * feeRate
}

// RequestDayString renders the date-only key used for the per-user daily count.
func RequestDayString(t time.Time) string {
	return t.Format("2006-01-02")
}
