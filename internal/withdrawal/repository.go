package withdrawal

import (
	"fmt"
	"time"

	"github.com/camilova/invercop/internal/wallet"
	"github.com/camilova/invercop/pkg/id"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	CreateRequest(req *Request, dailyLimit int) error
	GetRequest(id string) (*Request, error)
	ListRequests(status string, limit, offset int) ([]Request, error)
	ListByUser(userID string, limit, offset int) ([]Request, error)
	CountForDay(userID string, day string) (int64, error)
	Decide(requestID string, decision RequestStatus, adminID uuid.UUID) (*Request, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// CreateRequest applies the provisional debit in one batch: a pending ledger
// entry for -totalAmount, the pending request linked to it, and the lockstep
// balance decrement. The debit is guarded, so a concurrent spend that got
// there first rolls the whole batch back with ErrInsufficientFunds. The daily
// limit is re-counted inside the batch so concurrent requests that both
// passed the handler's pre-check cannot both land on the same day.
func (r *repository) CreateRequest(req *Request, dailyLimit int) error {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	if req.RequestDate.IsZero() {
		req.RequestDate = time.Now().UTC()
	}
	if req.RequestDay == "" {
		req.RequestDay = RequestDayString(req.RequestDate)
	}
	req.Status = StatusPending

	return r.db.Transaction(func(tx *gorm.DB) error {
		if dailyLimit > 0 {
			var count int64
			if err := tx.Model(&Request{}).
				Where("user_id = ? AND request_day = ?", req.UserID, req.RequestDay).
				Count(&count).Error; err != nil {
				return err
			}
			if count >= int64(dailyLimit) {
				return ErrDailyLimitReached
			}
		}

		entry := &wallet.Transaction{
			WalletID:        req.WalletID,
			TransactionDate: req.RequestDate,
			Amount:          -req.TotalAmount,
			Description:     fmt.Sprintf("Solicitud de retiro a %s", req.WalletAddress),
			Type:            wallet.TypeWithdrawalRequest,
			Status:          wallet.StatusPending,
			ReferenceNumber: id.NewReference("wd"),
		}
		if err := wallet.AppendEntry(tx, entry); err != nil {
			return err
		}

		req.TransactionID = entry.ID
		if err := tx.Create(req).Error; err != nil {
			return err
		}

		return wallet.DebitBalances(tx, req.UserID, req.WalletID, req.TotalAmount)
	})
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

func (r *repository) CountForDay(userID string, day string) (int64, error) {
	var count int64
	err := r.db.Model(&Request{}).
		Where("user_id = ? AND request_day = ?", userID, day).
		Count(&count).Error
	return count, err
}

// Decide settles a pending request. Approval confirms the debit taken at
// request time, so only the statuses move; rejection reverses it with a
// refund credit and a fresh completed entry. The request is re-read under a
// row lock so a second decision gets ErrAlreadyProcessed.
func (r *repository) Decide(requestID string, decision RequestStatus, adminID uuid.UUID) (*Request, error) {
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

		if decision == StatusApproved {
			return tx.Model(&wallet.Transaction{}).
				Where("id = ?", req.TransactionID).
				Updates(map[string]interface{}{
					"status":      wallet.StatusCompleted,
					"description": fmt.Sprintf("Retiro a %s", req.WalletAddress),
				}).Error
		}

		// Rejection: the original entry fails and the held funds come back.
		if err := tx.Model(&wallet.Transaction{}).
			Where("id = ?", req.TransactionID).
			Updates(map[string]interface{}{
				"status":      wallet.StatusFailed,
				"description": "Solicitud de retiro rechazada",
			}).Error; err != nil {
			return err
		}

		if err := wallet.CreditBalances(tx, req.UserID, req.WalletID, req.TotalAmount); err != nil {
			return err
		}

		return wallet.AppendEntry(tx, &wallet.Transaction{
			WalletID:        req.WalletID,
			TransactionDate: now,
			Amount:          req.TotalAmount,
			Description:     "Reembolso por retiro rechazado",
			Type:            wallet.TypeDepositApproved,
			Status:          wallet.StatusCompleted,
		})
	})
	if err != nil {
		return nil, err
	}

	return &req, nil
}
