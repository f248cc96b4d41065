package alerts

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sender delivers one alert text to the administrator.
type Sender interface {
	SendToAdmin(ctx context.Context, text string) error
}

// Source is the queue as the worker sees it.
type Source interface {
	Dequeue(ctx context.Context) (*Alert, error)
	Retry(ctx context.Context, alert *Alert) error
}

// Worker drains the alert queue and delivers alerts to the admin chat.
type Worker struct {
	source Source
	sender Sender
	logger *zap.Logger
}

// NewWorker creates an alert delivery worker.
func NewWorker(source Source, sender Sender, logger *zap.Logger) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Worker{source: source, sender: sender, logger: logger}
}

// Run processes alerts until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("alert worker started")
	for {
		alert, err := w.source.Dequeue(ctx)
		if ctx.Err() != nil {
			w.logger.Info("alert worker stopped")
			return
		}
		if err != nil {
			w.logger.Error("dequeue alert", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}
		if alert == nil {
			continue
		}
		if err := w.sender.SendToAdmin(ctx, alert.Text); err != nil {
			w.logger.Warn("alert delivery failed", zap.Error(err), zap.String("alert_id", alert.ID))
			if err := w.source.Retry(ctx, alert); err != nil {
				w.logger.Error("alert retry failed", zap.Error(err), zap.String("alert_id", alert.ID))
			}
			continue
		}
		w.logger.Debug("alert delivered", zap.String("alert_id", alert.ID))
	}
}
