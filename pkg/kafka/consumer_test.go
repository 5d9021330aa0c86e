package kafka

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFetcher replays queued records, then blocks until the context ends.
type fakeFetcher struct {
	queue     []kafkago.Message
	fetchErr  error
	committed []int64
	cancel    context.CancelFunc
}

func (f *fakeFetcher) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	if len(f.queue) == 0 {
		if f.fetchErr != nil {
			return kafkago.Message{}, f.fetchErr
		}
		f.cancel()
		<-ctx.Done()
		return kafkago.Message{}, ctx.Err()
	}
	m := f.queue[0]
	f.queue = f.queue[1:]
	return m, nil
}

func (f *fakeFetcher) CommitMessages(_ context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		f.committed = append(f.committed, m.Offset)
	}
	return nil
}

func (f *fakeFetcher) Close() error { return nil }

func newTestConsumer(f *fakeFetcher, h Handler) *Consumer {
	return &Consumer{
		r:       f,
		topic:   "lending.repayments",
		group:   "agricgrow",
		handler: h,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestConsumer_CommitPolicy(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f := &fakeFetcher{
		queue: []kafkago.Message{
			{Offset: 1, Value: []byte("ok")},
			{Offset: 2, Value: []byte("transient")},
			{Offset: 3, Value: []byte("poison")},
		},
		cancel: cancel,
	}
	var seen []string
	c := newTestConsumer(f, func(_ context.Context, msg Message) error {
		seen = append(seen, string(msg.Value))
		switch string(msg.Value) {
		case "transient":
			return errors.New("database unavailable")
		case "poison":
			return fmt.Errorf("decode: %w", ErrSkipMessage)
		}
		return nil
	})

	require.NoError(t, c.Start(ctx))
	assert.Equal(t, []string{"ok", "transient", "poison"}, seen)
	assert.Equal(t, []int64{1, 3}, f.committed)
}

func TestConsumer_FetchError(t *testing.T) {
	f := &fakeFetcher{fetchErr: io.ErrUnexpectedEOF}
	c := newTestConsumer(f, func(context.Context, Message) error { return nil })

	err := c.Start(context.Background())
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Contains(t, err.Error(), "lending.repayments")
}
