package app

import (
	"context"

	"secondhand_market/internal/chat/domain"
	"secondhand_market/internal/chat/repository"

	"github.com/stretchr/testify/mock"
)

// stubTxRunner runs the function directly, no real transaction.
type stubTxRunner struct {
	q repository.Querier
}

func (s *stubTxRunner) WithinTx(ctx context.Context, fn func(q repository.Querier) error) error {
	return fn(s.q)
}

// MockRoomRepository mock RoomRepository
type MockRoomRepository struct {
	mock.Mock
}

// InsertRoom mock insert room
func (m *MockRoomRepository) InsertRoom(ctx context.Context, q repository.Querier, room *domain.Room) (bool, error) {
	args := m.Called(ctx, q, room)
	return args.Bool(0), args.Error(1)
}

// InsertMember mock insert member
func (m *MockRoomRepository) InsertMember(ctx context.Context, q repository.Querier, member *domain.RoomMember) error {
	args := m.Called(ctx, q, member)
	return args.Error(0)
}

// FindRoomByID mock find room by room id
func (m *MockRoomRepository) FindRoomByID(ctx context.Context, q repository.Querier, roomID string) (*domain.Room, error) {
	args := m.Called(ctx, q, roomID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Room), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindRoomByItemAndBuyer mock find room by item and buyer
func (m *MockRoomRepository) FindRoomByItemAndBuyer(ctx context.Context, q repository.Querier, itemID, buyerID int64) (*domain.Room, error) {
	args := m.Called(ctx, q, itemID, buyerID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Room), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindRoomByItemAndUser mock find room by item and member
func (m *MockRoomRepository) FindRoomByItemAndUser(ctx context.Context, q repository.Querier, itemID, userID int64) (*domain.Room, error) {
	args := m.Called(ctx, q, itemID, userID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Room), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindRoomsByUser mock find rooms by user
func (m *MockRoomRepository) FindRoomsByUser(ctx context.Context, q repository.Querier, userID int64) ([]domain.Room, error) {
	args := m.Called(ctx, q, userID)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Room), args.Error(1)
	}
	return nil, args.Error(1)
}

// CountRoomsByUser mock count rooms by user
func (m *MockRoomRepository) CountRoomsByUser(ctx context.Context, q repository.Querier, userID int64) (int, error) {
	args := m.Called(ctx, q, userID)
	return args.Int(0), args.Error(1)
}

// IsMember mock membership check
func (m *MockRoomRepository) IsMember(ctx context.Context, q repository.Querier, roomID string, userID int64) (bool, error) {
	args := m.Called(ctx, q, roomID, userID)
	return args.Bool(0), args.Error(1)
}

// DeleteMembers mock delete members
func (m *MockRoomRepository) DeleteMembers(ctx context.Context, q repository.Querier, roomID string) error {
	args := m.Called(ctx, q, roomID)
	return args.Error(0)
}

// DeleteRoom mock delete room
func (m *MockRoomRepository) DeleteRoom(ctx context.Context, q repository.Querier, roomID string) error {
	args := m.Called(ctx, q, roomID)
	return args.Error(0)
}

// MockMessageRepository mock MessageRepository
type MockMessageRepository struct {
	mock.Mock
}

// Append mock append message
func (m *MockMessageRepository) Append(ctx context.Context, q repository.Querier, msg *domain.Message) error {
	args := m.Called(ctx, q, msg)
	return args.Error(0)
}

// ListByRoom mock list messages
func (m *MockMessageRepository) ListByRoom(ctx context.Context, q repository.Querier, roomID string) ([]domain.Message, error) {
	args := m.Called(ctx, q, roomID)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

// MarkRead mock bulk read flip
func (m *MockMessageRepository) MarkRead(ctx context.Context, q repository.Querier, roomID string, readerID int64) (int64, error) {
	args := m.Called(ctx, q, roomID, readerID)
	return args.Get(0).(int64), args.Error(1)
}

// DeleteByRoom mock delete messages
func (m *MockMessageRepository) DeleteByRoom(ctx context.Context, q repository.Querier, roomID string) error {
	args := m.Called(ctx, q, roomID)
	return args.Error(0)
}

// MockRoomPubSub mock RoomPubSub
type MockRoomPubSub struct {
	mock.Mock
}

// Publish mock publisher
func (m *MockRoomPubSub) Publish(channel string, message interface{}) error {
	args := m.Called(channel, message)
	return args.Error(0)
}

// Subscribe mock subscriber
func (m *MockRoomPubSub) Subscribe(ctx context.Context, channel string, handler func(resp domain.WSResponse)) error {
	args := m.Called(channel, handler)
	return args.Error(0)
}

// MockMessageStream mock MessageStream
type MockMessageStream struct {
	mock.Mock
}

// Emit mock emit
func (m *MockMessageStream) Emit(ctx context.Context, msg domain.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// Close mock close
func (m *MockMessageStream) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockItemReader mock ItemReader
type MockItemReader struct {
	mock.Mock
}

// SellerOf mock seller lookup
func (m *MockItemReader) SellerOf(ctx context.Context, itemID int64) (int64, error) {
	args := m.Called(ctx, itemID)
	return args.Get(0).(int64), args.Error(1)
}
