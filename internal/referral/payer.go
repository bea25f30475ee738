package referral

import (
	"errors"

	"github.com/camilova/invercop/internal/user"
	"github.com/camilova/invercop/internal/wallet"
	"github.com/camilova/invercop/pkg/logger"
	"gorm.io/gorm"
)

// CommissionAmount computes the commission for a base amount and a
// percentage expressed as a whole number (5 means 5%).
func CommissionAmount(baseAmount, percentage float64) float64 {
	return baseAmount * percentage / 100
}

// PayCommission credits baseAmount*percentage/100 to the referrer identified
// by referralCode, in lockstep on the referrer's user and primary wallet rows,
// and appends one referral-commission entry on the referrer's wallet. It runs
// inside the caller's transaction so the commission commits or rolls back with
// the originating flow.
//
// A missing or dangling referral code is not an error: referredBy may point at
// a deleted or malformed code, so the commission is silently skipped.
func PayCommission(tx *gorm.DB, referralCode string, baseAmount, percentage float64, description string) error {
	if referralCode == "" || percentage <= 0 {
		return nil
	}

	amount := CommissionAmount(baseAmount, percentage)
	if amount <= 0 {
		return nil
	}

	var referrer user.User
	err := tx.Where("referral_code = ?", referralCode).Limit(1).First(&referrer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Debug("Referrer not found, skipping commission", logger.Fields{"referral_code": referralCode})
		return nil
	}
	if err != nil {
		return err
	}

	if referrer.PrimaryWalletID == nil {
		return nil
	}

	if err := wallet.CreditBalances(tx, referrer.ID, *referrer.PrimaryWalletID, amount); err != nil {
		return err
	}

	return wallet.AppendEntry(tx, &wallet.Transaction{
		WalletID:    *referrer.PrimaryWalletID,
		Amount:      amount,
		Description: description,
		Type:        wallet.TypeReferralCommission,
		Status:      wallet.StatusCompleted,
	})
}
