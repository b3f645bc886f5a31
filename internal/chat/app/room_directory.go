package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"secondhand_market/internal/chat/domain"
	"secondhand_market/internal/chat/repository"
	"secondhand_market/pkg/apperr"
)

// ItemReader is the slice of the item context the chat usecases need.
type ItemReader interface {
	// SellerOf returns the seller of itemID, or apperr.ErrItemNotFound.
	SellerOf(ctx context.Context, itemID int64) (int64, error)
}

// RoomDirectory resolves, creates and removes chat rooms. One room per
// (item, buyer) pair; the seller joins every room on their item.
type RoomDirectory struct {
	db       repository.Querier
	tx       repository.TxRunner
	roomRepo repository.RoomRepository
	msgRepo  repository.MessageRepository
	items    ItemReader
}

// NewRoomDirectory init room directory
func NewRoomDirectory(
	db repository.Querier,
	tx repository.TxRunner,
	roomRepo repository.RoomRepository,
	msgRepo repository.MessageRepository,
	items ItemReader,
) *RoomDirectory {
	return &RoomDirectory{
		db:       db,
		tx:       tx,
		roomRepo: roomRepo,
		msgRepo:  msgRepo,
		items:    items,
	}
}

// ResolveOrCreateRoom returns the room the requester already has on the
// item, or creates one with the requester as buyer. The second return
// value reports whether a new room was created.
func (d *RoomDirectory) ResolveOrCreateRoom(ctx context.Context, itemID, requesterID int64) (*domain.Room, bool, error) {
	room, err := d.roomRepo.FindRoomByItemAndUser(ctx, d.db, itemID, requesterID)
	if err != nil {
		return nil, false, apperr.System(err)
	}
	if room != nil {
		return room, false, nil
	}

	sellerID, err := d.items.SellerOf(ctx, itemID)
	if err != nil {
		return nil, false, err
	}
	if sellerID == requesterID {
		// the seller has no counterpart yet, nothing to open
		return nil, false, fmt.Errorf("%w: seller %d cannot open a room on own item %d",
			apperr.ErrInvalidParams, requesterID, itemID)
	}

	newRoom := &domain.Room{
		RoomID:    uuid.New().String(),
		ItemID:    itemID,
		BuyerID:   requesterID,
		CreatedAt: time.Now(),
	}

	created := false
	err = d.tx.WithinTx(ctx, func(q repository.Querier) error {
		inserted, err := d.roomRepo.InsertRoom(ctx, q, newRoom)
		if err != nil {
			return err
		}
		if !inserted {
			// lost the race, reuse the winner's room
			existing, err := d.roomRepo.FindRoomByItemAndBuyer(ctx, q, itemID, requesterID)
			if err != nil {
				return err
			}
			if existing == nil {
				return fmt.Errorf("%w: item %d buyer %d", apperr.ErrStoreConflict, itemID, requesterID)
			}
			newRoom = existing
			return nil
		}
		created = true

		members := []*domain.RoomMember{
			{RoomID: newRoom.RoomID, UserID: requesterID, Role: domain.RoleBuyer},
			{RoomID: newRoom.RoomID, UserID: sellerID, Role: domain.RoleSeller},
		}
		for _, m := range members {
			if err := d.roomRepo.InsertMember(ctx, q, m); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return newRoom, created, nil
}

// GetRoom loads one room by id.
func (d *RoomDirectory) GetRoom(ctx context.Context, roomID string) (*domain.Room, error) {
	if !domain.ValidRoomID(roomID) {
		return nil, fmt.Errorf("%w: %q", apperr.ErrInvalidRoomID, roomID)
	}
	room, err := d.roomRepo.FindRoomByID(ctx, d.db, roomID)
	if err != nil {
		return nil, apperr.System(err)
	}
	if room == nil {
		return nil, fmt.Errorf("%w: %s", apperr.ErrRoomNotFound, roomID)
	}
	return room, nil
}

// GetRoomList returns the user's rooms, most recent activity first.
func (d *RoomDirectory) GetRoomList(ctx context.Context, userID int64) ([]domain.Room, error) {
	rooms, err := d.roomRepo.FindRoomsByUser(ctx, d.db, userID)
	if err != nil {
		return nil, apperr.System(err)
	}
	return rooms, nil
}

// GetRoomCount returns how many rooms the user participates in.
func (d *RoomDirectory) GetRoomCount(ctx context.Context, userID int64) (int, error) {
	count, err := d.roomRepo.CountRoomsByUser(ctx, d.db, userID)
	if err != nil {
		return 0, apperr.System(err)
	}
	return count, nil
}

// DeleteRoom removes the room, its memberships and its messages in one
// transaction. Only a member may delete the room.
func (d *RoomDirectory) DeleteRoom(ctx context.Context, roomID string, requesterID int64) error {
	room, err := d.GetRoom(ctx, roomID)
	if err != nil {
		return err
	}

	member, err := d.roomRepo.IsMember(ctx, d.db, room.RoomID, requesterID)
	if err != nil {
		return apperr.System(err)
	}
	if !member {
		return fmt.Errorf("%w: user %d is not in room %s", apperr.ErrForbidden, requesterID, roomID)
	}

	return d.tx.WithinTx(ctx, func(q repository.Querier) error {
		if err := d.msgRepo.DeleteByRoom(ctx, q, room.RoomID); err != nil {
			return err
		}
		if err := d.roomRepo.DeleteMembers(ctx, q, room.RoomID); err != nil {
			return err
		}
		return d.roomRepo.DeleteRoom(ctx, q, room.RoomID)
	})
}
