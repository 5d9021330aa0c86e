package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"
)

// Handler processes a consumed Kafka message.
type Handler func(ctx context.Context, msg Message) error

// ErrSkipMessage may be returned (wrapped) by a Handler to commit a message it
// can never process, such as a malformed payload.
var ErrSkipMessage = errors.New("skip message")

// fetcher is the subset of *kafkago.Reader the consumer loop drives.
type fetcher interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Consumer runs a Handler over one topic as a member of a consumer group.
type Consumer struct {
	r       fetcher
	topic   string
	group   string
	handler Handler
	logger  *slog.Logger
}

// NewConsumer joins cfg.ConsumerGroup on topic.
func NewConsumer(cfg Config, topic string, handler Handler, logger *slog.Logger) (*Consumer, error) {
	rc := kafkago.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    topic,
		GroupID:  cfg.ConsumerGroup,
		MinBytes: 1,
		MaxBytes: 10 << 20,
	}

	if cfg.TLS || cfg.SASLEnabled {
		mechanism, err := cfg.saslMechanism()
		if err != nil {
			return nil, fmt.Errorf("kafka consumer: %w", err)
		}
		tlsCfg, err := cfg.tlsConfig()
		if err != nil {
			return nil, fmt.Errorf("kafka consumer: %w", err)
		}
		rc.Dialer = &kafkago.Dialer{
			ClientID:      cfg.ClientID,
			TLS:           tlsCfg,
			SASLMechanism: mechanism,
			DualStack:     true,
		}
	}

	return &Consumer{
		r:       kafkago.NewReader(rc),
		topic:   topic,
		group:   cfg.ConsumerGroup,
		handler: handler,
		logger:  logger,
	}, nil
}

// Start blocks, fetching and handling messages until ctx is done.
//
// A message is committed once its handler succeeds or reports ErrSkipMessage.
// Any other handler error leaves the offset where it is, so the message is
// redelivered after the next rebalance or restart.
func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info("consumer starting", "topic", c.topic, "group", c.group)

	for {
		rec, err := c.r.FetchMessage(ctx)
		switch {
		case err == nil:
		case ctx.Err() != nil:
			c.logger.Info("consumer stopped", "topic", c.topic)
			return nil
		default:
			return fmt.Errorf("fetch from %s: %w", c.topic, err)
		}

		if !c.handle(ctx, rec) {
			continue
		}
		if err := c.r.CommitMessages(ctx, rec); err != nil && ctx.Err() == nil {
			c.logger.ErrorContext(ctx, "commit failed", recordAttrs(rec, err)...)
		}
	}
}

// handle reports whether rec should be committed.
func (c *Consumer) handle(ctx context.Context, rec kafkago.Message) bool {
	err := c.handler(ctx, toMessage(rec))
	switch {
	case err == nil:
		return true
	case errors.Is(err, ErrSkipMessage):
		c.logger.WarnContext(ctx, "skipping message", recordAttrs(rec, err)...)
		return true
	default:
		c.logger.ErrorContext(ctx, "handler failed", recordAttrs(rec, err)...)
		return false
	}
}

// Close leaves the consumer group.
func (c *Consumer) Close() error {
	if err := c.r.Close(); err != nil {
		return fmt.Errorf("closing kafka reader: %w", err)
	}
	return nil
}

func recordAttrs(rec kafkago.Message, err error) []any {
	return []any{"topic", rec.Topic, "partition", rec.Partition, "offset", rec.Offset, "error", err}
}
