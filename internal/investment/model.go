package investment

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrBelowPlanMinimum = errors.New("amount below plan minimum")
	ErrAbovePlanMaximum = errors.New("amount above plan maximum")
	ErrPlanUnavailable  = errors.New("plan is not available")
)

// NotReadyError reports how long until the next collection unlocks.
type NotReadyError struct {
	Remaining time.Duration
}

func (e *NotReadyError) Error() string {
	return fmt.Sprintf("collection not ready, %s remaining", e.Remaining.Round(time.Second))
}

// Plan is the admin-managed template. User flows only read it; purchased
// investments denormalize its terms so later edits never alter them.
type Plan struct {
	ID                    uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primary_key" json:"id"`
	Name                  string     `gorm:"not null" json:"name"`
	DurationDays          int        `gorm:"not null" json:"durationDays"`
	DailyReturnPercentage float64    `gorm:"not null" json:"dailyReturnPercentage"`
	IsActive              bool       `gorm:"default:true" json:"isActive"`
	MinInvestment         *float64   `json:"minInvestment,omitempty"`
	MaxInvestment         *float64   `json:"maxInvestment,omitempty"`
	AvailabilityStartDate *time.Time `json:"availabilityStartDate,omitempty"`
	AvailabilityEndDate   *time.Time `json:"availabilityEndDate,omitempty"`
	ImageURL              string     `json:"imageUrl,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// Investment carries a copy of the plan terms taken at purchase time.
type Investment struct {
	ID                    uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primary_key" json:"id"`
	UserID                uuid.UUID `gorm:"type:uuid;not null;index" json:"userId"`
	WalletID              uuid.UUID `gorm:"type:uuid;not null" json:"walletId"`
	PlanID                uuid.UUID `gorm:"type:uuid" json:"planId"`
	PlanName              string    `json:"planName"`
	InvestedAmount        float64   `gorm:"not null" json:"investedAmount"`
	StartDate             time.Time `json:"startDate"`
	EndDate               time.Time `json:"endDate"`
	LastCollectionDate    time.Time `json:"lastCollectionDate"`
	IsActive              bool      `gorm:"default:true;index" json:"isActive"`
	DailyReturnPercentage float64   `json:"dailyReturnPercentage"`
	DurationDays          int       `json:"durationDays"`
	ImageURL              string    `json:"imageUrl,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// DailyEarning computes one day's yield for an investment.
func DailyEarning(investedAmount, dailyReturnPercentage float64) float64 {
	return investedAmount * dailyReturnPercentage / 100
}

// ValidateAmount applies the plan bounds to a purchase amount.
func ValidateAmount(plan Plan, amount float64) error {
	if plan.MinInvestment != nil && amount < *plan.MinInvestment {
		return ErrBelowPlanMinimum
	}
	if plan.MaxInvestment != nil && amount > *plan.MaxInvestment {
		return ErrAbovePlanMaximum
	}
	return nil
}

// Available reports whether the plan can be purchased at the given time.
// Availability is computed from the plan's dates on read; nothing flips
// stored state when a window passes.
func (p Plan) Available(now time.Time) bool {
	if !p.IsActive {
		return false
	}
	if p.AvailabilityStartDate != nil && now.Before(*p.AvailabilityStartDate) {
		return false
	}
	if p.AvailabilityEndDate != nil && now.After(*p.AvailabilityEndDate) {
		return false
	}
	return true
}
