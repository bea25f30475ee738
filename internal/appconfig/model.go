package appconfig

import "github.com/lib/pq"

// AppConfig is a singleton row read per operation by the calling layer and
// injected into flows as a plain value. Written only through the admin surface.
type AppConfig struct {
	ID                                uint            `gorm:"primaryKey" json:"-"`
	CopExchangeRate                   float64         `json:"cop_exchange_rate"`
	ReferralCommissionPercentage      float64         `json:"referralCommissionPercentage"`
	EarningsClaimCommissionPercentage float64         `json:"earningsClaimCommissionPercentage"`
	EarningsClaimCommissionEnabled    bool            `json:"earningsClaimCommissionEnabled"`
	PredefinedDepositAmounts          pq.Float64Array `gorm:"type:float8[]" json:"predefinedDepositAmounts"`
	RegistrationBonus                 float64         `json:"registrationBonus"`
	RegistrationBonusEnabled          bool            `json:"registrationBonusEnabled"`
}

// WithdrawalConfig parametrizes the withdrawal request gate. FeePercentage is
// a fraction (0.05 means 5%). AllowedDays holds Spanish day names, matching
// the values the admin UI writes ("Lunes", "Martes", ...).
type WithdrawalConfig struct {
	ID            uint           `gorm:"primaryKey" json:"-"`
	MinWithdrawal float64        `json:"minWithdrawal"`
	FeePercentage float64        `json:"feePercentage"`
	AllowedDays   pq.StringArray `gorm:"type:text[]" json:"allowedDays"`
	StartTime     string         `json:"startTime"`
	EndTime       string         `json:"endTime"`
	DailyLimit    int            `json:"dailyLimit"`
}

type DepositBonusConfig struct {
	ID         uint    `gorm:"primaryKey" json:"-"`
	IsActive   bool    `json:"isActive"`
	Percentage float64 `json:"percentage"`
}
