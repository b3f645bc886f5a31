package app

import (
	"context"
	"os"
	"testing"
	"time"

	"secondhand_market/internal/chat/domain"
	"secondhand_market/pkg/apperr"
	"secondhand_market/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	logger.SetNewNop()
	os.Exit(m.Run())
}

func newDirectory(roomRepo *MockRoomRepository, msgRepo *MockMessageRepository, items *MockItemReader) *RoomDirectory {
	return NewRoomDirectory(nil, &stubTxRunner{}, roomRepo, msgRepo, items)
}

func TestResolveOrCreateRoom_ReturnsExisting(t *testing.T) {
	ctx := context.Background()
	existing := &domain.Room{RoomID: uuid.New().String(), ItemID: 7, BuyerID: 1, CreatedAt: time.Now()}

	roomRepo := new(MockRoomRepository)
	roomRepo.On("FindRoomByItemAndUser", ctx, nil, int64(7), int64(1)).Return(existing, nil)

	dir := newDirectory(roomRepo, new(MockMessageRepository), new(MockItemReader))
	room, created, err := dir.ResolveOrCreateRoom(ctx, 7, 1)

	assert.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, existing.RoomID, room.RoomID)
	roomRepo.AssertNotCalled(t, "InsertRoom", mock.Anything, mock.Anything, mock.Anything)
	roomRepo.AssertExpectations(t)
}

func TestResolveOrCreateRoom_CreatesRoomWithBothMembers(t *testing.T) {
	ctx := context.Background()

	roomRepo := new(MockRoomRepository)
	items := new(MockItemReader)
	roomRepo.On("FindRoomByItemAndUser", ctx, nil, int64(7), int64(1)).Return(nil, nil)
	items.On("SellerOf", ctx, int64(7)).Return(int64(2), nil)
	roomRepo.On("InsertRoom", ctx, nil, mock.Anything).Return(true, nil)
	roomRepo.On("InsertMember", ctx, nil, mock.MatchedBy(func(m *domain.RoomMember) bool {
		return m.UserID == 1 && m.Role == domain.RoleBuyer
	})).Return(nil)
	roomRepo.On("InsertMember", ctx, nil, mock.MatchedBy(func(m *domain.RoomMember) bool {
		return m.UserID == 2 && m.Role == domain.RoleSeller
	})).Return(nil)

	dir := newDirectory(roomRepo, new(MockMessageRepository), items)
	room, created, err := dir.ResolveOrCreateRoom(ctx, 7, 1)

	assert.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(1), room.BuyerID)
	assert.True(t, domain.ValidRoomID(room.RoomID))
	roomRepo.AssertExpectations(t)
	items.AssertExpectations(t)
}

func TestResolveOrCreateRoom_SellerWithoutBuyer(t *testing.T) {
	ctx := context.Background()

	roomRepo := new(MockRoomRepository)
	items := new(MockItemReader)
	roomRepo.On("FindRoomByItemAndUser", ctx, nil, int64(7), int64(2)).Return(nil, nil)
	items.On("SellerOf", ctx, int64(7)).Return(int64(2), nil)

	dir := newDirectory(roomRepo, new(MockMessageRepository), items)
	_, _, err := dir.ResolveOrCreateRoom(ctx, 7, 2)

	assert.ErrorIs(t, err, apperr.ErrInvalidParams)
	roomRepo.AssertNotCalled(t, "InsertRoom", mock.Anything, mock.Anything, mock.Anything)
}

func TestResolveOrCreateRoom_LostRaceReusesWinner(t *testing.T) {
	ctx := context.Background()
	winner := &domain.Room{RoomID: uuid.New().String(), ItemID: 7, BuyerID: 1, CreatedAt: time.Now()}

	roomRepo := new(MockRoomRepository)
	items := new(MockItemReader)
	roomRepo.On("FindRoomByItemAndUser", ctx, nil, int64(7), int64(1)).Return(nil, nil)
	items.On("SellerOf", ctx, int64(7)).Return(int64(2), nil)
	roomRepo.On("InsertRoom", ctx, nil, mock.Anything).Return(false, nil)
	roomRepo.On("FindRoomByItemAndBuyer", ctx, nil, int64(7), int64(1)).Return(winner, nil)

	dir := newDirectory(roomRepo, new(MockMessageRepository), items)
	room, created, err := dir.ResolveOrCreateRoom(ctx, 7, 1)

	assert.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, winner.RoomID, room.RoomID)
	roomRepo.AssertNotCalled(t, "InsertMember", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteRoom_CascadesInOrder(t *testing.T) {
	ctx := context.Background()
	roomID := uuid.New().String()
	room := &domain.Room{RoomID: roomID, ItemID: 7, BuyerID: 1}

	roomRepo := new(MockRoomRepository)
	msgRepo := new(MockMessageRepository)
	roomRepo.On("FindRoomByID", ctx, nil, roomID).Return(room, nil)
	roomRepo.On("IsMember", ctx, nil, roomID, int64(1)).Return(true, nil)
	msgRepo.On("DeleteByRoom", ctx, nil, roomID).Return(nil)
	roomRepo.On("DeleteMembers", ctx, nil, roomID).Return(nil)
	roomRepo.On("DeleteRoom", ctx, nil, roomID).Return(nil)

	dir := newDirectory(roomRepo, msgRepo, new(MockItemReader))
	err := dir.DeleteRoom(ctx, roomID, 1)

	assert.NoError(t, err)
	roomRepo.AssertExpectations(t)
	msgRepo.AssertExpectations(t)
}

func TestDeleteRoom_NonMemberForbidden(t *testing.T) {
	ctx := context.Background()
	roomID := uuid.New().String()
	room := &domain.Room{RoomID: roomID, ItemID: 7, BuyerID: 1}

	roomRepo := new(MockRoomRepository)
	roomRepo.On("FindRoomByID", ctx, nil, roomID).Return(room, nil)
	roomRepo.On("IsMember", ctx, nil, roomID, int64(99)).Return(false, nil)

	dir := newDirectory(roomRepo, new(MockMessageRepository), new(MockItemReader))
	err := dir.DeleteRoom(ctx, roomID, 99)

	assert.ErrorIs(t, err, apperr.ErrForbidden)
	roomRepo.AssertNotCalled(t, "DeleteRoom", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteRoom_MissingRoom(t *testing.T) {
	ctx := context.Background()
	roomID := uuid.New().String()

	roomRepo := new(MockRoomRepository)
	roomRepo.On("FindRoomByID", ctx, nil, roomID).Return(nil, nil)

	dir := newDirectory(roomRepo, new(MockMessageRepository), new(MockItemReader))
	err := dir.DeleteRoom(ctx, roomID, 1)

	assert.ErrorIs(t, err, apperr.ErrRoomNotFound)
}

func TestGetRoom_RejectsPlaceholder(t *testing.T) {
	dir := newDirectory(new(MockRoomRepository), new(MockMessageRepository), new(MockItemReader))

	_, err := dir.GetRoom(context.Background(), domain.RoomIDNone)
	assert.ErrorIs(t, err, apperr.ErrInvalidRoomID)

	_, err = dir.GetRoom(context.Background(), "  ")
	assert.ErrorIs(t, err, apperr.ErrInvalidRoomID)
}
