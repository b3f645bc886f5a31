package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"secondhand_market/internal/chat/domain"
	"secondhand_market/internal/chat/repository"
	"secondhand_market/pkg/apperr"
	"secondhand_market/pkg/logger"

	"go.uber.org/zap"
)

// ChatUseCase handles message traffic for a room: persistence, read
// state and fan-out.
type ChatUseCase struct {
	db         repository.Querier
	tx         repository.TxRunner
	directory  *RoomDirectory
	roomRepo   repository.RoomRepository
	msgRepo    repository.MessageRepository
	roomPubSub repository.RoomPubSub
	stream     repository.MessageStream
	items      ItemReader
}

// NewChatUseCase init chat use case. stream may be nil when the archive
// pipeline is disabled.
func NewChatUseCase(
	db repository.Querier,
	tx repository.TxRunner,
	directory *RoomDirectory,
	roomRepo repository.RoomRepository,
	msgRepo repository.MessageRepository,
	roomPubSub repository.RoomPubSub,
	stream repository.MessageStream,
	items ItemReader,
) *ChatUseCase {
	return &ChatUseCase{
		db:         db,
		tx:         tx,
		directory:  directory,
		roomRepo:   roomRepo,
		msgRepo:    msgRepo,
		roomPubSub: roomPubSub,
		stream:     stream,
		items:      items,
	}
}

// SendMessage stores a TALK message and broadcasts it to the room.
// JOIN/LEAVE are broadcast only. When roomID is the placeholder the
// room is resolved or created from itemID first.
func (uc *ChatUseCase) SendMessage(
	ctx context.Context,
	roomID string,
	itemID *int64,
	senderID int64,
	content string,
	msgType domain.MessageType,
) (*domain.Message, error) {

	// JOIN/LEAVE are transient presence notifications: stamped,
	// broadcast and returned without touching rooms, memberships or
	// the store
	if msgType.Transient() {
		msg := &domain.Message{
			RoomID:   roomID,
			SenderID: senderID,
			Content:  content,
			Type:     msgType,
			SentTime: time.Now(),
		}
		if domain.ValidRoomID(roomID) {
			uc.broadcast(roomID, domain.WSResponse{
				Action:  string(domain.NotifyMessage),
				Success: true,
				Payload: map[string]interface{}{"message": msg},
			})
		}
		return msg, nil
	}

	var room *domain.Room
	if !domain.ValidRoomID(roomID) {
		if itemID == nil {
			return nil, fmt.Errorf("%w: no room id and no item id", apperr.ErrInvalidRoomID)
		}
		resolved, _, err := uc.directory.ResolveOrCreateRoom(ctx, *itemID, senderID)
		if err != nil {
			return nil, err
		}
		room = resolved
	} else {
		found, err := uc.directory.GetRoom(ctx, roomID)
		if err != nil {
			return nil, err
		}
		room = found
	}

	member, err := uc.roomRepo.IsMember(ctx, uc.db, room.RoomID, senderID)
	if err != nil {
		return nil, apperr.System(err)
	}

	msg := &domain.Message{
		RoomID:   room.RoomID,
		SenderID: senderID,
		Content:  content,
		Type:     msgType,
		SentTime: time.Now(),
	}

	err = uc.tx.WithinTx(ctx, func(q repository.Querier) error {
		if err := uc.msgRepo.Append(ctx, q, msg); err != nil {
			return err
		}
		if member {
			return nil
		}
		m, err := uc.memberFor(ctx, room, senderID)
		if err != nil {
			return err
		}
		if err := uc.roomRepo.InsertMember(ctx, q, m); err != nil {
			// a concurrent send won the membership insert; the
			// message row is in, the send still counts
			if errors.Is(err, apperr.ErrStoreConflict) && msg.MessageID > 0 {
				logger.Log.Warn("membership already stored",
					zap.String("roomID", room.RoomID), zap.Int64("userID", senderID))
				return nil
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.broadcast(room.RoomID, domain.WSResponse{
		Action:  string(domain.NotifyMessage),
		Success: true,
		Payload: map[string]interface{}{"message": msg},
	})

	if uc.stream != nil {
		if err := uc.stream.Emit(ctx, *msg); err != nil {
			logger.Log.Errorf("archive emit error:", err, zap.String("roomID", room.RoomID))
		}
	}
	return msg, nil
}

// memberFor derives the role a late joiner gets: seller on own item,
// buyer otherwise.
func (uc *ChatUseCase) memberFor(ctx context.Context, room *domain.Room, userID int64) (*domain.RoomMember, error) {
	sellerID, err := uc.items.SellerOf(ctx, room.ItemID)
	if err != nil {
		return nil, err
	}
	role := domain.RoleBuyer
	if userID == sellerID {
		role = domain.RoleSeller
	}
	return &domain.RoomMember{RoomID: room.RoomID, UserID: userID, Role: role}, nil
}

// GetRoomMessages returns the room's stored messages, oldest first.
func (uc *ChatUseCase) GetRoomMessages(ctx context.Context, roomID string) ([]domain.Message, error) {
	room, err := uc.directory.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	msgs, err := uc.msgRepo.ListByRoom(ctx, uc.db, room.RoomID)
	if err != nil {
		return nil, apperr.System(err)
	}
	return msgs, nil
}

// MarkMessagesAsRead flags every message in the room the reader did not
// send, and notifies the room so the counterpart can refresh.
func (uc *ChatUseCase) MarkMessagesAsRead(ctx context.Context, roomID string, readerID int64) (int64, error) {
	room, err := uc.directory.GetRoom(ctx, roomID)
	if err != nil {
		return 0, err
	}

	var updated int64
	err = uc.tx.WithinTx(ctx, func(q repository.Querier) error {
		n, err := uc.msgRepo.MarkRead(ctx, q, room.RoomID, readerID)
		updated = n
		return err
	})
	if err != nil {
		return 0, apperr.System(err)
	}

	uc.broadcast(room.RoomID, domain.WSResponse{
		Action:  string(domain.ReadMessage),
		Success: true,
		Payload: map[string]interface{}{
			"roomId":   room.RoomID,
			"readerId": readerID,
			"updated":  updated,
		},
	})
	return updated, nil
}

func (uc *ChatUseCase) broadcast(roomID string, resp domain.WSResponse) {
	if uc.roomPubSub == nil {
		return
	}
	if err := uc.roomPubSub.Publish(repository.RoomChannel(roomID), resp); err != nil {
		logger.Log.Errorf("room publish error:", err, zap.String("roomID", roomID))
	}
}
