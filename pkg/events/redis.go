package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/camilova/invercop/pkg/config"
	"github.com/camilova/invercop/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const (
	LedgerQueue = "ledger_events"
	PayoutQueue = "payout_instructions"
	FailedQueue = "failed_ledger_events"
)

// Flow names carried on ledger events.
const (
	FlowDepositDecision    = "deposit.decision"
	FlowWithdrawalRequest  = "withdrawal.request"
	FlowWithdrawalDecision = "withdrawal.decision"
	FlowInvestmentPurchase = "investment.purchase"
	FlowEarningsCollection = "investment.collection"
)

type RedisClient struct {
	Client *redis.Client
}

// LedgerEvent describes a committed balance mutation. Published after the
// database transaction has been acknowledged, never before.
type LedgerEvent struct {
	Flow      string    `json:"flow"`
	EntityID  string    `json:"entity_id"`
	UserID    string    `json:"user_id"`
	WalletID  string    `json:"wallet_id"`
	Amount    float64   `json:"amount"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

func NewRedisClient(cfg config.Config) *RedisClient {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Error("Failed to parse Redis url", logger.Fields{"error": err.Error(), "url": cfg.RedisURL})
		opt = &redis.Options{
			Addr:     cfg.RedisURL,
			Password: cfg.RedisPassword,
			DB:       0,
		}
	}

	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		logger.Error("Failed to connect to Redis", logger.Fields{"error": err.Error(), "url": cfg.RedisURL})
	} else {
		logger.Info("Connected to Redis", logger.Fields{"url": cfg.RedisURL})
	}

	return &RedisClient{Client: rdb}
}

func (r *RedisClient) PublishEvent(ctx context.Context, event LedgerEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %v", err)
	}

	if err := r.Client.RPush(ctx, LedgerQueue, data).Err(); err != nil {
		return fmt.Errorf("failed to push event to redis: %v", err)
	}

	return nil
}

// PayoutInstruction tells the operations side which transfer to execute for
// an approved withdrawal.
type PayoutInstruction struct {
	RequestID      string    `json:"request_id"`
	UserEmail      string    `json:"user_email"`
	Method         string    `json:"method"`
	WalletAddress  string    `json:"wallet_address"`
	NequiOwnerName string    `json:"nequi_owner_name,omitempty"`
	NetAmount      float64   `json:"net_amount"`
	QueuedAt       time.Time `json:"queued_at"`
}

func (r *RedisClient) PushPayoutInstruction(ctx context.Context, instruction PayoutInstruction) error {
	data, err := json.Marshal(instruction)
	if err != nil {
		return fmt.Errorf("failed to marshal payout instruction: %v", err)
	}

	if err := r.Client.RPush(ctx, PayoutQueue, data).Err(); err != nil {
		return fmt.Errorf("failed to push payout instruction to redis: %v", err)
	}

	return nil
}

func (r *RedisClient) PushToDLQ(ctx context.Context, data []byte) error {
	if err := r.Client.RPush(ctx, FailedQueue, data).Err(); err != nil {
		return fmt.Errorf("failed to push event to DLQ: %v", err)
	}
	return nil
}
