package repository

import "context"

// chat schema. The unique index on (item_id, buyer_id) is what turns the
// room-creation race into a lookup instead of a duplicate room.
const chatSchema = `
CREATE TABLE IF NOT EXISTS chat_room (
	room_id    TEXT PRIMARY KEY,
	item_id    BIGINT NOT NULL,
	buyer_id   BIGINT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (item_id, buyer_id)
);

CREATE TABLE IF NOT EXISTS chat_room_user (
	room_id   TEXT NOT NULL REFERENCES chat_room(room_id),
	user_id   BIGINT NOT NULL,
	user_type TEXT NOT NULL,
	PRIMARY KEY (room_id, user_id)
);

CREATE TABLE IF NOT EXISTS chat_message (
	message_id BIGSERIAL PRIMARY KEY,
	room_id    TEXT NOT NULL REFERENCES chat_room(room_id),
	sender_id  BIGINT NOT NULL,
	content    TEXT NOT NULL,
	msg_type   TEXT NOT NULL,
	sent_time  TIMESTAMPTZ NOT NULL,
	is_read    BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE INDEX IF NOT EXISTS idx_chat_message_room ON chat_message (room_id, sent_time, message_id);
CREATE INDEX IF NOT EXISTS idx_chat_room_user_user ON chat_room_user (user_id);
`

// InitChatSchema creates the chat tables when absent.
func InitChatSchema(ctx context.Context, q Querier) error {
	_, err := q.Exec(ctx, chatSchema)
	return err
}
