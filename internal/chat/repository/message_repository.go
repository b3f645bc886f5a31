package repository

import (
	"context"

	"secondhand_market/internal/chat/domain"
)

// MessageRepository persists TALK messages, append only.
type MessageRepository interface {
	// Append stores the message and fills in its assigned MessageID.
	Append(ctx context.Context, q Querier, msg *domain.Message) error
	// ListByRoom returns the room's messages oldest first.
	ListByRoom(ctx context.Context, q Querier, roomID string) ([]domain.Message, error)
	// MarkRead flips every unread message in the room not sent by
	// readerID, and returns how many it flipped.
	MarkRead(ctx context.Context, q Querier, roomID string, readerID int64) (int64, error)
	DeleteByRoom(ctx context.Context, q Querier, roomID string) error
}

type messageRepository struct{}

// NewMessageRepository create a MessageRepository
func NewMessageRepository() MessageRepository {
	return &messageRepository{}
}

func (r *messageRepository) Append(ctx context.Context, q Querier, msg *domain.Message) error {
	return q.QueryRow(ctx,
		`INSERT INTO chat_message (room_id, sender_id, content, msg_type, sent_time, is_read)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING message_id`,
		msg.RoomID, msg.SenderID, msg.Content, msg.Type, msg.SentTime, msg.Read,
	).Scan(&msg.MessageID)
}

func (r *messageRepository) ListByRoom(ctx context.Context, q Querier, roomID string) ([]domain.Message, error) {
	rows, err := q.Query(ctx,
		`SELECT message_id, room_id, sender_id, content, msg_type, sent_time, is_read
		 FROM chat_message
		 WHERE room_id = $1
		 ORDER BY sent_time ASC, message_id ASC`, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.MessageID, &m.RoomID, &m.SenderID, &m.Content,
			&m.Type, &m.SentTime, &m.Read); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (r *messageRepository) MarkRead(ctx context.Context, q Querier, roomID string, readerID int64) (int64, error) {
	tag, err := q.Exec(ctx,
		`UPDATE chat_message
		 SET is_read = TRUE
		 WHERE room_id = $1 AND sender_id <> $2 AND is_read = FALSE`,
		roomID, readerID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *messageRepository) DeleteByRoom(ctx context.Context, q Querier, roomID string) error {
	_, err := q.Exec(ctx, `DELETE FROM chat_message WHERE room_id = $1`, roomID)
	return err
}
