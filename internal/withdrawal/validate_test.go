package withdrawal

import (
	"testing"

	"github.com/camilova/invercop/internal/wallet"
	"github.com/stretchr/testify/assert"
)

func TestValidateRequest(t *testing.T) {
	cfg := weekdayConfig()
	open := mondayAt(10, 0)

	tests := []struct {
		name          string
		amount        float64
		balance       float64
		address       string
		requestsToday int64
		want          error
	}{
		{"valid", 20000, 50000, "3001234567", 0, nil},
		{"below minimum", 5000, 50000, "3001234567", 0, ErrBelowMinimum},
		{"insufficient funds", 60000, 50000, "3001234567", 0, wallet.ErrInsufficientFunds},
		{"daily limit", 20000, 50000, "3001234567", 1, ErrDailyLimitReached},
		{"no address", 20000, 50000, "", 0, ErrNoWithdrawalAddress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequest(cfg, open, tt.amount, tt.balance, tt.address, tt.requestsToday)
			assert.Equal(t, tt.want, err)
		})
	}
}

func TestValidateRequestClosedWindowWinsOverEverything(t *testing.T) {
	cfg := weekdayConfig()
	closed := mondayAt(20, 0)

	err := ValidateRequest(cfg, closed, 1, 0, "", 5)
	assert.Equal(t, ErrWithdrawalsClosed, err)
}

func TestFeeAmount(t *testing.T) {
	assert.Equal(t, 2500.0, FeeAmount(50000, 0.05))
	assert.Equal(t, 0.0, FeeAmount(50000, 0))
}

func TestRequestDayString(t *testing.T) {
	assert.Equal(t, "2025-06-02", RequestDayString(mondayAt(23, 59)))
}
