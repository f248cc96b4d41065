// Package alerts delivers operational notifications to the administrator
// chat through a Redis-backed queue, so a storage failure during a user's
// registration never blocks on the Telegram API.
package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// QueueAlerts is the Redis list key for pending admin alerts.
	QueueAlerts = "worker:alerts"
	// QueueDLQ holds alerts that failed delivery after MaxAttempts.
	QueueDLQ = "worker:alerts:dlq"
	// MaxAttempts is the delivery attempt cap before an alert moves to the DLQ.
	MaxAttempts = 3
)

// Alert is one admin notification.
type Alert struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Attempt   int       `json:"attempt"`
	CreatedAt time.Time `json:"created_at"`
}

// Queue enqueues and dequeues admin alerts via Redis.
type Queue struct {
	client *redis.Client
	logger *zap.Logger
}

// NewQueue creates an alert queue.
func NewQueue(client *redis.Client, logger *zap.Logger) *Queue {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Queue{client: client, logger: logger}
}

// Notify enqueues an alert. Best-effort: a failure to enqueue is logged
// and dropped, never surfaced to the calling flow.
func (q *Queue) Notify(ctx context.Context, text string) {
	alert := Alert{
		ID:        uuid.New().String(),
		Text:      text,
		CreatedAt: time.Now(),
	}
	raw, err := json.Marshal(alert)
	if err != nil {
		q.logger.Error("marshal alert", zap.Error(err))
		return
	}
	if err := q.client.RPush(ctx, QueueAlerts, raw).Err(); err != nil {
		q.logger.Error("enqueue alert", zap.Error(err), zap.String("alert_id", alert.ID))
		return
	}
	q.logger.Debug("alert enqueued", zap.String("alert_id", alert.ID))
}

// Dequeue blocks until an alert is available or ctx is done.
func (q *Queue) Dequeue(ctx context.Context) (*Alert, error) {
	result, err := q.client.BLPop(ctx, 0, QueueAlerts).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("blpop: %w", err)
	}
	if len(result) < 2 {
		return nil, nil
	}
	var alert Alert
	if err := json.Unmarshal([]byte(result[1]), &alert); err != nil {
		q.logger.Warn("invalid alert payload", zap.String("raw", result[1]), zap.Error(err))
		return nil, nil
	}
	return &alert, nil
}

// Retry re-enqueues an alert with an incremented attempt counter, or
// moves it to the DLQ once the attempt cap is reached.
func (q *Queue) Retry(ctx context.Context, alert *Alert) error {
	alert.Attempt++
	raw, err := json.Marshal(alert)
	if err != nil {
		return err
	}
	if alert.Attempt >= MaxAttempts {
		if err := q.client.RPush(ctx, QueueDLQ, raw).Err(); err != nil {
			q.logger.Error("dlq push failed", zap.Error(err), zap.String("alert_id", alert.ID))
			return err
		}
		q.logger.Warn("alert moved to DLQ", zap.String("alert_id", alert.ID), zap.Int("attempt", alert.Attempt))
		return nil
	}
	if err := q.client.RPush(ctx, QueueAlerts, raw).Err(); err != nil {
		return err
	}
	q.logger.Info("alert delivery retried", zap.String("alert_id", alert.ID), zap.Int("attempt", alert.Attempt))
	return nil
}
