package alerts

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubSource struct {
	alerts  []*Alert
	retried []*Alert
	cancel  context.CancelFunc
}

func (s *stubSource) Dequeue(ctx context.Context) (*Alert, error) {
	if len(s.alerts) == 0 {
		s.cancel()
		return nil, ctx.Err()
	}
	a := s.alerts[0]
	s.alerts = s.alerts[1:]
	return a, nil
}

func (s *stubSource) Retry(_ context.Context, alert *Alert) error {
	s.retried = append(s.retried, alert)
	return nil
}

type stubSender struct {
	sent []string
	err  error
}

func (s *stubSender) SendToAdmin(_ context.Context, text string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, text)
	return nil
}

func TestWorkerDeliversAlerts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	source := &stubSource{
		alerts: []*Alert{{ID: "a1", Text: "db down"}, {ID: "a2", Text: "db up"}},
		cancel: cancel,
	}
	sender := &stubSender{}

	NewWorker(source, sender, nil).Run(ctx)

	require.Equal(t, []string{"db down", "db up"}, sender.sent)
	require.Empty(t, source.retried)
}

func TestWorkerRetriesFailedDelivery(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	source := &stubSource{
		alerts: []*Alert{{ID: "a1", Text: "db down"}},
		cancel: cancel,
	}
	sender := &stubSender{err: errors.New("telegram unreachable")}

	NewWorker(source, sender, nil).Run(ctx)

	require.Empty(t, sender.sent)
	require.Len(t, source.retried, 1)
	require.Equal(t, "a1", source.retried[0].ID)
}
