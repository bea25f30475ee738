package investment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fl(v float64) *float64 { return &v }

func TestDailyEarning(t *testing.T) {
	assert.Equal(t, 2500.0, DailyEarning(100000, 2.5))
	assert.Equal(t, 0.0, DailyEarning(100000, 0))
}

func TestValidateAmount(t *testing.T) {
	plan := Plan{MinInvestment: fl(50000), MaxInvestment: fl(500000)}

	assert.NoError(t, ValidateAmount(plan, 50000))
	assert.NoError(t, ValidateAmount(plan, 500000))
	assert.Equal(t, ErrBelowPlanMinimum, ValidateAmount(plan, 49999))
	assert.Equal(t, ErrAbovePlanMaximum, ValidateAmount(plan, 500001))
}

func TestValidateAmountUnbounded(t *testing.T) {
	assert.NoError(t, ValidateAmount(Plan{}, 1))
	assert.NoError(t, ValidateAmount(Plan{}, 1e9))
}

func TestPlanAvailable(t *testing.T) {
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	tests := []struct {
		name string
		plan Plan
		want bool
	}{
		{"active no window", Plan{IsActive: true}, true},
		{"inactive", Plan{IsActive: false}, false},
		{"inside window", Plan{IsActive: true, AvailabilityStartDate: &past, AvailabilityEndDate: &future}, true},
		{"not started", Plan{IsActive: true, AvailabilityStartDate: &future}, false},
		{"already ended", Plan{IsActive: true, AvailabilityEndDate: &past}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.plan.Available(now))
		})
	}
}

func TestNotReadyError(t *testing.T) {
	err := &NotReadyError{Remaining: 90 * time.Minute}
	assert.Contains(t, err.Error(), "1h30m0s")
}
