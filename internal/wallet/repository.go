package wallet

import (
	"time"

	"github.com/camilova/invercop/internal/user"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Provision(usr *user.User, walletName string, registrationBonus float64) (*Wallet, error)
	GetWalletByID(walletID string) (*Wallet, error)
	GetPrimaryWallet(userID string) (*Wallet, error)
	GetTransactionByID(txID string) (*Transaction, error)
	GetTransactions(walletID string, limit, offset int) ([]Transaction, error)
	CountTransactions(walletID string) (int64, error)
	SumTransactionsByType(walletID string, transactionType TransactionType) (float64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Provision creates the user together with their primary wallet and, when a
// registration bonus applies, credits it with a Reward entry. One atomic batch.
func (r *repository) Provision(usr *user.User, walletName string, registrationBonus float64) (*Wallet, error) {
	w := &Wallet{
		ID:           uuid.New(),
		Name:         walletName,
		Balance:      0,
		CreationDate: time.Now().UTC(),
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(usr).Error; err != nil {
			return err
		}

		w.UserID = usr.ID
		if err := tx.Create(w).Error; err != nil {
			return err
		}

		if err := tx.Model(&user.User{}).
			Where("id = ?", usr.ID).
			UpdateColumn("primary_wallet_id", w.ID).Error; err != nil {
			return err
		}
		usr.PrimaryWalletID = &w.ID

		if registrationBonus > 0 {
			if err := CreditBalances(tx, usr.ID, w.ID, registrationBonus); err != nil {
				return err
			}
			usr.Balance += registrationBonus
			w.Balance += registrationBonus
			return AppendEntry(tx, &Transaction{
				WalletID:    w.ID,
				Amount:      registrationBonus,
				Description: "Bono de registro",
				Type:        TypeReward,
				Status:      StatusCompleted,
			})
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return w, nil
}

func (r *repository) GetWalletByID(walletID string) (*Wallet, error) {
	var w Wallet
	if err := r.db.Where("id = ?", walletID).First(&w).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *repository) GetPrimaryWallet(userID string) (*Wallet, error) {
	var w Wallet
	err := r.db.
		Joins("JOIN users ON users.primary_wallet_id = wallets.id").
		Where("users.id = ?", userID).
		First(&w).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *repository) GetTransactionByID(txID string) (*Transaction, error) {
	var t Transaction
	if err := r.db.Where("id = ?", txID).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repository) GetTransactions(walletID string, limit, offset int) ([]Transaction, error) {
	var txs []Transaction
	err := r.db.Where("wallet_id = ?", walletID).
		Order("transaction_date desc").
		Limit(limit).
		Offset(offset).
		Find(&txs).Error
	return txs, err
}

func (r *repository) CountTransactions(walletID string) (int64, error) {
	var count int64
	err := r.db.Model(&Transaction{}).Where("wallet_id = ?", walletID).Count(&count).Error
	return count, err
}

func (r *repository) SumTransactionsByType(walletID string, transactionType TransactionType) (float64, error) {
	var total float64
	err := r.db.Model(&Transaction{}).
		Where("wallet_id = ? AND type = ?", walletID, transactionType).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}
