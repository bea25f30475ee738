package withdrawal

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/camilova/invercop/internal/appconfig"
)

// Day names as the admin UI writes them into WithdrawalConfig.AllowedDays,
// indexed by time.Weekday.
var dayNames = [7]string{"Domingo", "Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado"}

// WindowStatus reports whether withdrawals are currently accepted.
type WindowStatus struct {
	Open      bool          `json:"open"`
	Message   string        `json:"message"`
	OpensIn   time.Duration `json:"-"`
	OpensInHM string        `json:"opensIn,omitempty"`
}

// Window evaluates the day-of-week and time-of-day gate against now, in now's
// location. Pure: no state is read or written.
func Window(cfg appconfig.WithdrawalConfig, now time.Time) WindowStatus {
	day := dayNames[now.Weekday()]

	allowed := false
	for _, d := range cfg.AllowedDays {
		if d == day {
			allowed = true
			break
		}
	}
	if !allowed {
		return WindowStatus{Open: false, Message: "Los retiros no están disponibles hoy."}
	}

	start, okStart := atTime(now, cfg.StartTime)
	end, okEnd := atTime(now, cfg.EndTime)
	if !okStart || !okEnd {
		// Malformed window config fails closed.
		return WindowStatus{Open: false, Message: "Horario de retiros no configurado."}
	}

	if now.Before(start) {
		wait := start.Sub(now)
		return WindowStatus{
			Open:      false,
			Message:   "Los retiros abren en:",
			OpensIn:   wait,
			OpensInHM: fmt.Sprintf("%dh %dm", int(wait.Hours()), int(wait.Minutes())%60),
		}
	}

	if !now.Before(end) {
		return WindowStatus{Open: false, Message: "El horario de retiros por hoy ha finalizado."}
	}

	return WindowStatus{Open: true, Message: "Los retiros están abiertos."}
}

func atTime(day time.Time, hhmm string) (time.Time, bool) {
	parts := strings.Split(hhmm, ":")
	if len(parts) != 2 {
		return time.Time{}, false
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return time.Time{}, false
	}
	return time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, day.Location()), true
}
