package withdrawal

import (
	"time"

	"github.com/camilova/invercop/internal/appconfig"
	"github.com/camilova/invercop/internal/wallet"
)

// ValidateRequest runs every pre-commit check for a withdrawal request, in
// the order the flows report them. Pure: callers supply the current balance
// and today's request count; the guarded debit re-checks sufficiency at
// commit time anyway.
func ValidateRequest(cfg appconfig.WithdrawalConfig, now time.Time, amount, balance float64, withdrawalAddress string, requestsToday int64) error {
	if ws := Window(cfg, now); !ws.Open {
		return ErrWithdrawalsClosed
	}
	if amount < cfg.MinWithdrawal {
		return ErrBelowMinimum
	}
	if amount > balance {
		return wallet.ErrInsufficientFunds
	}
	if requestsToday >= int64(cfg.DailyLimit) {
		return ErrDailyLimitReached
	}
	if withdrawalAddress == "" {
		return ErrNoWithdrawalAddress
	}
	return nil
}
