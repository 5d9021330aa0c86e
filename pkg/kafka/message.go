package kafka

import kafkago "github.com/segmentio/kafka-go"

// Message is a broker-agnostic Kafka record.
type Message struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

func (m Message) record(topic string) kafkago.Message {
	rec := kafkago.Message{Topic: topic, Key: m.Key, Value: m.Value}
	if len(m.Headers) > 0 {
		rec.Headers = make([]kafkago.Header, 0, len(m.Headers))
		for k, v := range m.Headers {
			rec.Headers = append(rec.Headers, kafkago.Header{Key: k, Value: []byte(v)})
		}
	}
	return rec
}

func toMessage(rec kafkago.Message) Message {
	headers := make(map[string]string, len(rec.Headers))
	for _, h := range rec.Headers {
		headers[h.Key] = string(h.Value)
	}
	return Message{Key: rec.Key, Value: rec.Value, Headers: headers}
}
