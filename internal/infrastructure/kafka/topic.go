package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	pkgkafka "github.com/olonibua/agricgrow-sub000/pkg/kafka"
)

// MessageWriter is satisfied by *pkgkafka.Producer.
type MessageWriter interface {
	Publish(ctx context.Context, topic string, messages ...pkgkafka.Message) error
}

// topicWriter sends JSON records to one topic.
type topicWriter struct {
	writer MessageWriter
	topic  string
}

// send JSON-encodes items and writes them as a single batch. key picks the
// partition key; headers may be nil.
func send[T any](ctx context.Context, tw topicWriter, items []T, key func(T) string, headers func(T) map[string]string) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	messages := make([]pkgkafka.Message, 0, len(items))
	for _, item := range items {
		payload, err := json.Marshal(item)
		if err != nil {
			return 0, fmt.Errorf("marshal %T: %w", item, err)
		}
		h := map[string]string{"content_type": "application/json"}
		for k, v := range headers(item) {
			h[k] = v
		}
		messages = append(messages, pkgkafka.Message{
			Key:     []byte(key(item)),
			Value:   payload,
			Headers: h,
		})
	}

	if err := tw.writer.Publish(ctx, tw.topic, messages...); err != nil {
		return 0, fmt.Errorf("write %d messages to %s: %w", len(messages), tw.topic, err)
	}
	return len(messages), nil
}
