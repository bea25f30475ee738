package deposit

import (
	"errors"
	"fmt"
	"time"

	"github.com/camilova/invercop/internal/appconfig"
	"github.com/camilova/invercop/internal/wallet"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrAlreadyProcessed = errors.New("request already processed")

type Repository interface {
	CreateRequest(req *Request) error
	GetRequest(id string) (*Request, error)
	ListRequests(status string, limit, offset int) ([]Request, error)
	ListByUser(userID string, limit, offset int) ([]Request, error)
	Decide(requestID string, decision RequestStatus, adminID uuid.UUID, bonusCfg appconfig.DepositBonusConfig) (*Request, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateRequest(req *Request) error {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	if req.RequestDate.IsZero() {
		req.RequestDate = time.Now().UTC()
	}
	req.Status = StatusPending
	return r.db.Create(req).Error
}

func (r *repository) GetRequest(id string) (*Request, error) {
	var req Request
	if err := r.db.Where("id = ?", id).First(&req).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *repository) ListRequests(status string, limit, offset int) ([]Request, error) {
	var reqs []Request
	q := r.db.Order("request_date desc").Limit(limit).Offset(offset)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Find(&reqs).Error
	return reqs, err
}

func (r *repository) ListByUser(userID string, limit, offset int) ([]Request, error) {
	var reqs []Request
	err := r.db.Where("user_id = ?", userID).
		Order("request_date desc").
		Limit(limit).
		Offset(offset).
		Find(&reqs).Error
	return reqs, err
}

// Decide settles a pending deposit request. The request row is re-read under
// a row lock inside the transaction, so two admins racing on the same request
// resolve to exactly one approval: the loser gets ErrAlreadyProcessed.
//
// On approval the base amount and the optional bonus are credited to the
// user and wallet rows in one batch, logged as separate entries so the bonus
// stays auditable.
func (r *repository) Decide(requestID string, decision RequestStatus, adminID uuid.UUID, bonusCfg appconfig.DepositBonusConfig) (*Request, error) {
	var req Request

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", requestID).
			First(&req).Error; err != nil {
			return err
		}

		if req.Status != StatusPending {
			return ErrAlreadyProcessed
		}

		now := time.Now().UTC()
		req.Status = decision
		req.DecisionDate = &now
		req.AdminID = &adminID
		if err := tx.Save(&req).Error; err != nil {
			return err
		}

		if decision != StatusApproved {
			return nil
		}

		bonus := BonusAmount(req.Amount, bonusCfg)
		if err := wallet.CreditBalances(tx, req.UserID, req.WalletID, req.Amount+bonus); err != nil {
			return err
		}

		if bonus > 0 {
			if err := wallet.AppendEntry(tx, &wallet.Transaction{
				WalletID:        req.WalletID,
				TransactionDate: now,
				Amount:          bonus,
				Description:     fmt.Sprintf("Bonificación por depósito (%g%%)", bonusCfg.Percentage),
				Type:            wallet.TypeDepositBonus,
				Status:          wallet.StatusCompleted,
			}); err != nil {
				return err
			}
		}

		return wallet.AppendEntry(tx, &wallet.Transaction{
			WalletID:        req.WalletID,
			TransactionDate: now,
			Amount:          req.Amount,
			Description:     fmt.Sprintf("Depósito aprobado desde %s", req.NetworkName),
			Type:            wallet.TypeDepositApproved,
			Status:          wallet.StatusCompleted,
			ReferenceNumber: req.ReferenceNumber,
		})
	})
	if err != nil {
		return nil, err
	}

	return &req, nil
}
