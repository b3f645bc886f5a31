package app

import (
	"context"
	"encoding/json"
	"errors"

	"secondhand_market/internal/chat/domain"
	"secondhand_market/internal/chat/repository"
	"secondhand_market/pkg/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the consuming end of the archive stream.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// ArchiveWorker drains the message stream into the long-term archive.
type ArchiveWorker struct {
	reader  MessageReader
	archive repository.ArchiveRepository
}

// NewArchiveWorker create ArchiveWorker
func NewArchiveWorker(reader MessageReader, archive repository.ArchiveRepository) *ArchiveWorker {
	return &ArchiveWorker{
		reader:  reader,
		archive: archive,
	}
}

// Run consumes until ctx is cancelled. A poison record is logged and
// skipped so it cannot wedge the partition.
func (w *ArchiveWorker) Run(ctx context.Context) {
	defer w.reader.Close()

	for {
		m, err := w.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				logger.Log.Info("archive worker stopped")
				return
			}
			logger.Log.Errorf("archive read error:", err)
			continue
		}

		var msg domain.Message
		if err := json.Unmarshal(m.Value, &msg); err != nil {
			logger.Log.Errorf("archive decode error:", err, zap.ByteString("value", m.Value))
			continue
		}

		archived := domain.ArchivedMessage{
			MessageID: msg.MessageID,
			SenderID:  msg.SenderID,
			Content:   msg.Content,
			Timestamp: msg.SentTime.Unix(),
		}
		if err := w.archive.AppendMessage(ctx, msg.RoomID, archived); err != nil {
			logger.Log.Errorf("archive append error:", err, zap.String("roomID", msg.RoomID))
		}
	}
}
