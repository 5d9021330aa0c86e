package kafka

import (
	"context"
	"log/slog"

	"github.com/olonibua/agricgrow-sub000/internal/domain/port"
)

// Notifier implements port.Notifier by handing notifications to the channel
// workers (SMS, USSD) over a Kafka topic. Workers own the wording.
type Notifier struct {
	out    topicWriter
	logger *slog.Logger
}

func NewNotifier(writer MessageWriter, topic string, logger *slog.Logger) *Notifier {
	return &Notifier{out: topicWriter{writer: writer, topic: topic}, logger: logger}
}

// Notify sends each notification as one message keyed by loan ID.
func (n *Notifier) Notify(ctx context.Context, notifications ...port.Notification) error {
	sent, err := send(ctx, n.out, notifications,
		func(note port.Notification) string { return note.LoanID },
		func(note port.Notification) map[string]string {
			return map[string]string{
				"kind":      string(note.Kind),
				"tenant_id": note.TenantID,
			}
		},
	)
	if err != nil {
		return err
	}
	if sent > 0 {
		n.logger.DebugContext(ctx, "notifications sent", "count", sent, "topic", n.out.topic)
	}
	return nil
}
