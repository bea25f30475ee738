package investment

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/camilova/invercop/internal/appconfig"
	"github.com/camilova/invercop/internal/referral"
	"github.com/camilova/invercop/internal/user"
	"github.com/camilova/invercop/internal/wallet"
	"github.com/camilova/invercop/pkg/id"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CollectResult reports a successful earnings collection.
type CollectResult struct {
	Amount      float64   `json:"amount"`
	CollectedAt time.Time `json:"collectedAt"`
}

type Repository interface {
	ListPlans(onlyActive bool) ([]Plan, error)
	GetPlan(id string) (*Plan, error)
	CreatePlan(plan *Plan) error
	UpdatePlan(plan *Plan) error
	DeletePlan(id string) error

	ListActiveByUser(userID string) ([]Investment, error)
	GetInvestment(id string) (*Investment, error)
	Purchase(usr *user.User, plan Plan, walletID uuid.UUID, amount float64, cfg appconfig.AppConfig) (*Investment, error)
	Collect(usr *user.User, investmentID string, cfg appconfig.AppConfig) (*CollectResult, error)
	DeleteWithRefund(investmentID string) (*Investment, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListPlans(onlyActive bool) ([]Plan, error) {
	var plans []Plan
	q := r.db.Order("min_investment asc nulls first")
	if onlyActive {
		q = q.Where("is_active = ?", true)
	}
	err := q.Find(&plans).Error
	return plans, err
}

func (r *repository) GetPlan(id string) (*Plan, error) {
	var plan Plan
	if err := r.db.Where("id = ?", id).First(&plan).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *repository) CreatePlan(plan *Plan) error {
	return r.db.Create(plan).Error
}

func (r *repository) UpdatePlan(plan *Plan) error {
	return r.db.Save(plan).Error
}

func (r *repository) DeletePlan(id string) error {
	return r.db.Where("id = ?", id).Delete(&Plan{}).Error
}

func (r *repository) ListActiveByUser(userID string) ([]Investment, error) {
	var invs []Investment
	err := r.db.Where("user_id = ? AND is_active = ?", userID, true).
		Order("start_date desc").
		Find(&invs).Error
	return invs, err
}

func (r *repository) GetInvestment(id string) (*Investment, error) {
	var inv Investment
	if err := r.db.Where("id = ?", id).First(&inv).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

// Purchase creates the investment with the plan terms copied in, debits the
// buyer in lockstep and logs the investment-start entry, all in one batch.
// On the user's first purchase the referrer's commission rides in the same
// batch and hasInvested flips, so the commission can fire at most once.
func (r *repository) Purchase(usr *user.User, plan Plan, walletID uuid.UUID, amount float64, cfg appconfig.AppConfig) (*Investment, error) {
	now := time.Now().UTC()
	inv := &Investment{
		ID:                    uuid.New(),
		UserID:                usr.ID,
		WalletID:              walletID,
		PlanID:                plan.ID,
		PlanName:              plan.Name,
		InvestedAmount:        amount,
		StartDate:             now,
		EndDate:               now.AddDate(0, 0, plan.DurationDays),
		LastCollectionDate:    now,
		IsActive:              true,
		DailyReturnPercentage: plan.DailyReturnPercentage,
		DurationDays:          plan.DurationDays,
		ImageURL:              plan.ImageURL,
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(inv).Error; err != nil {
			return err
		}

		if err := wallet.DebitBalances(tx, usr.ID, walletID, amount); err != nil {
			return err
		}

		if err := wallet.AppendEntry(tx, &wallet.Transaction{
			WalletID:        walletID,
			TransactionDate: now,
			Amount:          -amount,
			Description:     fmt.Sprintf("Inversión en %s", plan.Name),
			Type:            wallet.TypeInvestmentStart,
			Status:          wallet.StatusCompleted,
			ReferenceNumber: id.NewReference("inv"),
		}); err != nil {
			return err
		}

		// Only the transaction that flips the column pays the commission.
		flip := tx.Model(&user.User{}).
			Where("id = ? AND has_invested = ?", usr.ID, false).
			UpdateColumn("has_invested", true)
		if flip.Error != nil {
			return flip.Error
		}
		if flip.RowsAffected == 0 || usr.ReferredBy == "" {
			return nil
		}

		desc := fmt.Sprintf("Comisión por referido: %s", usr.Email)
		return referral.PayCommission(tx, usr.ReferredBy, amount, cfg.ReferralCommissionPercentage, desc)
	})
	if err != nil {
		return nil, err
	}

	return inv, nil
}

// Collect credits one day's yield. The 24h gate is checked against the row
// re-read under a lock inside the transaction, so a client re-sending the
// request cannot collect twice off a stale lastCollectionDate.
func (r *repository) Collect(usr *user.User, investmentID string, cfg appconfig.AppConfig) (*CollectResult, error) {
	res := &CollectResult{}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var inv Investment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND user_id = ?", investmentID, usr.ID).
			First(&inv).Error; err != nil {
			return err
		}

		now := time.Now().UTC()
		ready := inv.LastCollectionDate.Add(24 * time.Hour)
		if now.Before(ready) {
			return &NotReadyError{Remaining: ready.Sub(now)}
		}

		earning := DailyEarning(inv.InvestedAmount, inv.DailyReturnPercentage)
		if earning <= 0 {
			return errors.New("daily earning is not positive")
		}

		if err := tx.Model(&Investment{}).
			Where("id = ?", inv.ID).
			UpdateColumn("last_collection_date", now).Error; err != nil {
			return err
		}

		if err := wallet.CreditBalances(tx, inv.UserID, inv.WalletID, earning); err != nil {
			return err
		}

		if err := wallet.AppendEntry(tx, &wallet.Transaction{
			WalletID:        inv.WalletID,
			TransactionDate: now,
			Amount:          earning,
			Description:     fmt.Sprintf("Ganancia diaria de %s", inv.PlanName),
			Type:            wallet.TypeInvestmentEarning,
			Status:          wallet.StatusCompleted,
		}); err != nil {
			return err
		}

		if usr.ReferredBy != "" && cfg.EarningsClaimCommissionEnabled && cfg.EarningsClaimCommissionPercentage > 0 {
			desc := fmt.Sprintf("Comisión por ganancia de referido: %s", emailLocalPart(usr.Email))
			if err := referral.PayCommission(tx, usr.ReferredBy, earning, cfg.EarningsClaimCommissionPercentage, desc); err != nil {
				return err
			}
		}

		res.Amount = earning
		res.CollectedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	return res, nil
}

// DeleteWithRefund removes an investment and returns its principal to the
// owner, with a reversing entry, in one batch. Admin-only.
func (r *repository) DeleteWithRefund(investmentID string) (*Investment, error) {
	var inv Investment

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", investmentID).
			First(&inv).Error; err != nil {
			return err
		}

		if err := wallet.CreditBalances(tx, inv.UserID, inv.WalletID, inv.InvestedAmount); err != nil {
			return err
		}

		if err := wallet.AppendEntry(tx, &wallet.Transaction{
			WalletID:    inv.WalletID,
			Amount:      inv.InvestedAmount,
			Description: fmt.Sprintf("Reembolso por plan eliminado: %s", inv.PlanName),
			Type:        wallet.TypeDeposit,
			Status:      wallet.StatusCompleted,
		}); err != nil {
			return err
		}

		return tx.Delete(&inv).Error
	})
	if err != nil {
		return nil, err
	}

	return &inv, nil
}

func emailLocalPart(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}
