package kafka

import (
	"context"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func transportOf(t *testing.T, p *Producer) *kafkago.Transport {
	t.Helper()
	tr, ok := p.w.Transport.(*kafkago.Transport)
	require.True(t, ok)
	return tr
}

func TestNewProducer(t *testing.T) {
	p, err := NewProducer(Config{Brokers: []string{"localhost:9092"}, ClientID: "agricgrow"})
	require.NoError(t, err)

	assert.Equal(t, "localhost:9092", p.w.Addr.String())
	assert.Empty(t, p.w.Topic)
	assert.Equal(t, kafkago.RequireAll, p.w.RequiredAcks)

	tr := transportOf(t, p)
	assert.Equal(t, "agricgrow", tr.ClientID)
	assert.Nil(t, tr.TLS)
	assert.Nil(t, tr.SASL)
}

func TestNewProducer_SASLAndTLS(t *testing.T) {
	p, err := NewProducer(Config{
		Brokers:       []string{"kafka:9093"},
		TLS:           true,
		SASLEnabled:   true,
		SASLMechanism: "PLAIN",
		SASLUsername:  "svc",
		SASLPassword:  "secret",
	})
	require.NoError(t, err)

	tr := transportOf(t, p)
	require.NotNil(t, tr.TLS)
	mech, ok := tr.SASL.(plain.Mechanism)
	require.True(t, ok)
	assert.Equal(t, "svc", mech.Username)
}

func TestNewProducer_UnsupportedMechanism(t *testing.T) {
	_, err := NewProducer(Config{SASLEnabled: true, SASLMechanism: "GSSAPI"})
	assert.ErrorContains(t, err, "GSSAPI")
}

func TestSASLMechanism_Scram(t *testing.T) {
	for _, name := range []string{"SCRAM-SHA-256", "SCRAM-SHA-512"} {
		t.Run(name, func(t *testing.T) {
			m, err := Config{SASLEnabled: true, SASLMechanism: name, SASLUsername: "u", SASLPassword: "p"}.saslMechanism()
			require.NoError(t, err)
			assert.Equal(t, name, m.Name())
		})
	}
}

func TestProducer_PublishNothing(t *testing.T) {
	p, err := NewProducer(Config{Brokers: []string{"localhost:9092"}})
	require.NoError(t, err)

	require.NoError(t, p.Publish(context.Background(), "lending.events"))
	require.NoError(t, p.Close())
}

func TestMessageRecord(t *testing.T) {
	rec := Message{
		Key:     []byte("loan-1"),
		Value:   []byte(`{"sequence":1}`),
		Headers: map[string]string{"event_type": "repayment.received"},
	}.record("lending.repayments")

	assert.Equal(t, "lending.repayments", rec.Topic)
	assert.Equal(t, []kafkago.Header{{Key: "event_type", Value: []byte("repayment.received")}}, rec.Headers)

	back := toMessage(rec)
	assert.Equal(t, "loan-1", string(back.Key))
	assert.Equal(t, "repayment.received", back.Headers["event_type"])
}
