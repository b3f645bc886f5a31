package repository

import (
	"context"
	"encoding/json"

	"secondhand_market/internal/chat/domain"

	"github.com/segmentio/kafka-go"
)

// MessageStream hands persisted messages to the archive pipeline.
type MessageStream interface {
	Emit(ctx context.Context, msg domain.Message) error
	Close() error
}

// KafkaMessageStream publishes messages keyed by room so one room's
// history stays ordered within a partition.
type KafkaMessageStream struct {
	writer *kafka.Writer
}

// NewKafkaMessageStream create a KafkaMessageStream
func NewKafkaMessageStream(writer *kafka.Writer) *KafkaMessageStream {
	return &KafkaMessageStream{writer: writer}
}

func (s *KafkaMessageStream) Emit(ctx context.Context, msg domain.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.RoomID),
		Value: data,
	})
}

func (s *KafkaMessageStream) Close() error {
	return s.writer.Close()
}
