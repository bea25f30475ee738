package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/camilova/invercop/pkg/logger"
)

func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		w.Header().Add("Content-Type", "application/json")

		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start)

		fields := logger.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rw.status,
			"duration": duration.String(),
			"remote":   r.RemoteAddr,
		}
		if flow := flowFromPath(r.URL.Path); flow != "" {
			fields[logger.FlowKey] = flow
		}

		logger.Info("Request completed", fields)
	})
}

// flowFromPath tags the access log line with the money flow the route
// belongs to, so a flow's requests and its ledger events share a key.
func flowFromPath(path string) string {
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	for len(parts) > 0 && (parts[0] == "api" || parts[0] == "admin") {
		parts = parts[1:]
	}
	if len(parts) == 0 {
		return ""
	}

	switch parts[0] {
	case "deposits":
		return "deposit"
	case "withdrawals":
		return "withdrawal"
	case "investments", "plans":
		return "investment"
	case "referrals":
		return "referral"
	case "wallet", "accounts":
		return "wallet"
	default:
		return ""
	}
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}
