package withdrawal

import (
	"testing"
	"time"

	"github.com/camilova/invercop/internal/appconfig"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func weekdayConfig() appconfig.WithdrawalConfig {
	return appconfig.WithdrawalConfig{
		MinWithdrawal: 10000,
		FeePercentage: 0.05,
		AllowedDays:   pq.StringArray{"Lunes", "Martes", "Miércoles", "Jueves", "Viernes"},
		StartTime:     "09:00",
		EndTime:       "17:00",
		DailyLimit:    1,
	}
}

// 2025-06-02 is a Monday.
func mondayAt(hour, min int) time.Time {
	return time.Date(2025, 6, 2, hour, min, 0, 0, time.UTC)
}

func TestWindowOpen(t *testing.T) {
	ws := Window(weekdayConfig(), mondayAt(10, 30))
	assert.True(t, ws.Open)
}

func TestWindowDayNotAllowed(t *testing.T) {
	sunday := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	ws := Window(weekdayConfig(), sunday)
	assert.False(t, ws.Open)
	assert.Equal(t, "Los retiros no están disponibles hoy.", ws.Message)
	assert.Zero(t, ws.OpensIn)
}

func TestWindowBeforeOpening(t *testing.T) {
	ws := Window(weekdayConfig(), mondayAt(7, 30))
	assert.False(t, ws.Open)
	assert.Equal(t, 90*time.Minute, ws.OpensIn)
	assert.Equal(t, "1h 30m", ws.OpensInHM)
}

func TestWindowAfterClosing(t *testing.T) {
	ws := Window(weekdayConfig(), mondayAt(17, 0))
	assert.False(t, ws.Open)
	assert.Equal(t, "El horario de retiros por hoy ha finalizado.", ws.Message)
}

func TestWindowBoundaries(t *testing.T) {
	// opens exactly at start, closed exactly at end
	assert.True(t, Window(weekdayConfig(), mondayAt(9, 0)).Open)
	assert.True(t, Window(weekdayConfig(), mondayAt(16, 59)).Open)
	assert.False(t, Window(weekdayConfig(), mondayAt(17, 0)).Open)
}

func TestWindowMalformedConfigFailsClosed(t *testing.T) {
	cfg := weekdayConfig()
	cfg.StartTime = "soon"
	ws := Window(cfg, mondayAt(10, 0))
	assert.False(t, ws.Open)

	cfg = weekdayConfig()
	cfg.EndTime = "25:00"
	assert.False(t, Window(cfg, mondayAt(10, 0)).Open)
}
