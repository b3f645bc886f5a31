package repository

import (
	"context"
	"errors"
	"fmt"

	"secondhand_market/internal/chat/domain"
	"secondhand_market/pkg/apperr"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
)

// RoomRepository is the room directory's storage: rooms plus the
// role-tagged membership rows.
type RoomRepository interface {
	// InsertRoom returns false without error when a room for the same
	// (item, buyer) already exists.
	InsertRoom(ctx context.Context, q Querier, room *domain.Room) (bool, error)
	InsertMember(ctx context.Context, q Querier, member *domain.RoomMember) error
	FindRoomByID(ctx context.Context, q Querier, roomID string) (*domain.Room, error)
	FindRoomByItemAndBuyer(ctx context.Context, q Querier, itemID, buyerID int64) (*domain.Room, error)
	FindRoomByItemAndUser(ctx context.Context, q Querier, itemID, userID int64) (*domain.Room, error)
	FindRoomsByUser(ctx context.Context, q Querier, userID int64) ([]domain.Room, error)
	CountRoomsByUser(ctx context.Context, q Querier, userID int64) (int, error)
	IsMember(ctx context.Context, q Querier, roomID string, userID int64) (bool, error)
	DeleteMembers(ctx context.Context, q Querier, roomID string) error
	DeleteRoom(ctx context.Context, q Querier, roomID string) error
}

type roomRepository struct{}

// NewRoomRepository create a RoomRepository
func NewRoomRepository() RoomRepository {
	return &roomRepository{}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *roomRepository) InsertRoom(ctx context.Context, q Querier, room *domain.Room) (bool, error) {
	tag, err := q.Exec(ctx,
		`INSERT INTO chat_room (room_id, item_id, buyer_id, created_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (item_id, buyer_id) DO NOTHING`,
		room.RoomID, room.ItemID, room.BuyerID, room.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return false, fmt.Errorf("%w: room %s", apperr.ErrStoreConflict, room.RoomID)
		}
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *roomRepository) InsertMember(ctx context.Context, q Querier, member *domain.RoomMember) error {
	// DO NOTHING keeps an already-known role from being overwritten.
	_, err := q.Exec(ctx,
		`INSERT INTO chat_room_user (room_id, user_id, user_type)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (room_id, user_id) DO NOTHING`,
		member.RoomID, member.UserID, member.Role)
	if err != nil && isUniqueViolation(err) {
		return fmt.Errorf("%w: member %d in room %s", apperr.ErrStoreConflict, member.UserID, member.RoomID)
	}
	return err
}

const roomColumns = `room_id, item_id, buyer_id, created_at`

func scanRoom(row pgx.Row) (*domain.Room, error) {
	var room domain.Room
	err := row.Scan(&room.RoomID, &room.ItemID, &room.BuyerID, &room.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &room, nil
}

func (r *roomRepository) FindRoomByID(ctx context.Context, q Querier, roomID string) (*domain.Room, error) {
	return scanRoom(q.QueryRow(ctx,
		`SELECT `+roomColumns+` FROM chat_room WHERE room_id = $1`, roomID))
}

func (r *roomRepository) FindRoomByItemAndBuyer(ctx context.Context, q Querier, itemID, buyerID int64) (*domain.Room, error) {
	return scanRoom(q.QueryRow(ctx,
		`SELECT `+roomColumns+` FROM chat_room WHERE item_id = $1 AND buyer_id = $2`, itemID, buyerID))
}

func (r *roomRepository) FindRoomByItemAndUser(ctx context.Context, q Querier, itemID, userID int64) (*domain.Room, error) {
	return scanRoom(q.QueryRow(ctx,
		`SELECT r.room_id, r.item_id, r.buyer_id, r.created_at
		 FROM chat_room r
		 JOIN chat_room_user u ON u.room_id = r.room_id
		 WHERE r.item_id = $1 AND u.user_id = $2
		 ORDER BY r.created_at DESC
		 LIMIT 1`, itemID, userID))
}

func (r *roomRepository) FindRoomsByUser(ctx context.Context, q Querier, userID int64) ([]domain.Room, error) {
	rows, err := q.Query(ctx,
		`SELECT r.room_id, r.item_id, r.buyer_id, r.created_at, m.content, m.sent_time
		 FROM chat_room r
		 JOIN chat_room_user u ON u.room_id = r.room_id
		 LEFT JOIN LATERAL (
		 	SELECT content, sent_time FROM chat_message
		 	WHERE room_id = r.room_id
		 	ORDER BY sent_time DESC, message_id DESC
		 	LIMIT 1
		 ) m ON TRUE
		 WHERE u.user_id = $1
		 ORDER BY m.sent_time DESC NULLS LAST, r.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []domain.Room
	for rows.Next() {
		var room domain.Room
		var content *string
		if err := rows.Scan(&room.RoomID, &room.ItemID, &room.BuyerID, &room.CreatedAt,
			&content, &room.LastMessageTime); err != nil {
			return nil, err
		}
		if content != nil {
			room.LastMessage = *content
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

func (r *roomRepository) CountRoomsByUser(ctx context.Context, q Querier, userID int64) (int, error) {
	var count int
	err := q.QueryRow(ctx,
		`SELECT COUNT(DISTINCT room_id) FROM chat_room_user WHERE user_id = $1`, userID).Scan(&count)
	return count, err
}

func (r *roomRepository) IsMember(ctx context.Context, q Querier, roomID string, userID int64) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM chat_room_user WHERE room_id = $1 AND user_id = $2)`,
		roomID, userID).Scan(&exists)
	return exists, err
}

func (r *roomRepository) DeleteMembers(ctx context.Context, q Querier, roomID string) error {
	_, err := q.Exec(ctx, `DELETE FROM chat_room_user WHERE room_id = $1`, roomID)
	return err
}

func (r *roomRepository) DeleteRoom(ctx context.Context, q Querier, roomID string) error {
	_, err := q.Exec(ctx, `DELETE FROM chat_room WHERE room_id = $1`, roomID)
	return err
}
