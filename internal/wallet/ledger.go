package wallet

import (
	"errors"
	"time"

	"github.com/camilova/invercop/internal/user"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrInsufficientFunds = errors.New("insufficient funds")

// CreditBalances applies a positive delta to the wallet row and the owning
// user row in lockstep. Must run inside a gorm transaction so that a failure
// on either update rolls back both.
func CreditBalances(tx *gorm.DB, userID, walletID uuid.UUID, amount float64) error {
	if err := tx.Model(&Wallet{}).
		Where("id = ?", walletID).
		UpdateColumn("balance", gorm.Expr("balance + ?", amount)).Error; err != nil {
		return err
	}
	return tx.Model(&user.User{}).
		Where("id = ?", userID).
		UpdateColumn("balance", gorm.Expr("balance + ?", amount)).Error
}

// DebitBalances removes amount from the wallet and user rows in lockstep.
// The wallet update is conditional on sufficient balance, so two concurrent
// debits cannot both succeed against the same stale read.
func DebitBalances(tx *gorm.DB, userID, walletID uuid.UUID, amount float64) error {
	res := tx.Model(&Wallet{}).
		Where("id = ? AND balance >= ?", walletID, amount).
		UpdateColumn("balance", gorm.Expr("balance - ?", amount))

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientFunds
	}

	return tx.Model(&user.User{}).
		Where("id = ?", userID).
		UpdateColumn("balance", gorm.Expr("balance - ?", amount)).Error
}

// AppendEntry inserts a ledger transaction within the caller's transaction,
// filling in the id and date when the caller left them zero.
func AppendEntry(tx *gorm.DB, entry *Transaction) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.TransactionDate.IsZero() {
		entry.TransactionDate = time.Now().UTC()
	}
	return tx.Create(entry).Error
}
