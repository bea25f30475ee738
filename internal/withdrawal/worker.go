package withdrawal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/camilova/invercop/pkg/config"
	"github.com/camilova/invercop/pkg/events"
	"github.com/camilova/invercop/pkg/logger"
)

// PayoutWorker drains the ledger event queue in the background. Approved
// withdrawal decisions become payout instructions for the operations side;
// everything else is logged as an audit trail.
type PayoutWorker struct {
	Config      config.Config
	Repo        Repository
	RedisClient *events.RedisClient
}

func NewPayoutWorker(cfg config.Config, repo Repository, redisClient *events.RedisClient) *PayoutWorker {
	return &PayoutWorker{Config: cfg, Repo: repo, RedisClient: redisClient}
}

func (w *PayoutWorker) Start() {
	logger.Info("Starting payout worker...")
	go w.processEvents()
}

func (w *PayoutWorker) processEvents() {
	for {
		result, err := w.RedisClient.Client.BLPop(context.Background(), 5*time.Second, events.LedgerQueue).Result()
		if err != nil {
			continue
		}

		eventData := []byte(result[1])
		var event events.LedgerEvent
		if err := json.Unmarshal(eventData, &event); err != nil {
			logger.Error("PayoutWorker: Failed to unmarshal event", logger.Fields{"error": err.Error(), "data": string(eventData)})
			w.moveToDLQ(eventData)
			continue
		}

		w.handleEvent(event, eventData)
	}
}

func (w *PayoutWorker) handleEvent(event events.LedgerEvent, rawData []byte) {
	logger.Info("Ledger event", logger.Fields{
		logger.FlowKey:     event.Flow,
		"entity_id":        event.EntityID,
		logger.UserIdKey:   event.UserID,
		logger.WalletIdKey: event.WalletID,
		"amount":           event.Amount,
		"status":           event.Status,
	})

	if event.Flow != events.FlowWithdrawalDecision || event.Status != string(StatusApproved) {
		return
	}

	maxRetries := 3
	for i := 0; i < maxRetries; i++ {
		err := w.queuePayout(event)
		if err == nil {
			logger.Info("PayoutWorker: Payout instruction queued", logger.Fields{"request_id": event.EntityID})
			return
		}

		logger.Warn("PayoutWorker: Failed to queue payout, retrying", logger.Fields{
			"request_id": event.EntityID,
			"attempt":    i + 1,
			"error":      err.Error(),
		})
		time.Sleep(time.Duration(i+1) * time.Second)
	}

	logger.Error("PayoutWorker: Max retries exhausted, moving to DLQ", logger.Fields{"request_id": event.EntityID})
	w.moveToDLQ(rawData)
}

func (w *PayoutWorker) queuePayout(event events.LedgerEvent) error {
	req, err := w.Repo.GetRequest(event.EntityID)
	if err != nil {
		return err
	}

	instruction := events.PayoutInstruction{
		RequestID:      req.ID.String(),
		UserEmail:      req.UserEmail,
		Method:         req.Method,
		WalletAddress:  req.WalletAddress,
		NequiOwnerName: req.NequiOwnerName,
		NetAmount:      req.NetAmount,
		QueuedAt:       time.Now().UTC(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return w.RedisClient.PushPayoutInstruction(ctx, instruction)
}

func (w *PayoutWorker) moveToDLQ(data []byte) {
	if err := w.RedisClient.PushToDLQ(context.Background(), data); err != nil {
		logger.Error("PayoutWorker: Failed to push to DLQ", logger.Fields{"error": err.Error()})
	}
}
