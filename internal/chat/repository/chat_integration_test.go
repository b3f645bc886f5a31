package repository

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"secondhand_market/internal/chat/domain"
	"secondhand_market/pkg/database"
	"secondhand_market/pkg/logger"
	testtool "secondhand_market/pkg/test_tool"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// **測試用的容器**
var pool *pgxpool.Pool

func TestMain(m *testing.M) {
	logger.SetNewNop()
	ctx := context.Background()

	// **啟動 PostgreSQL**
	postgresContainer, postgresHost, postgresPort, err := testtool.SetupContainer(ctx, testcontainers.ContainerRequest{
		Image: "postgres:latest",
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp"),
	})
	if err != nil {
		log.Fatalf("❌ Failed to start PostgreSQL container: %v", err)
	}
	fmt.Printf("✅ PostgreSQL running at %s:%s\n", postgresHost, postgresPort)

	pool, err = database.NewDatabaseConnection(database.Connection{
		ConnectStr:    fmt.Sprintf("postgres://test:test@%s:%s/testdb?sslmode=disable", postgresHost, postgresPort),
		RetryCount:    5,
		RetryInterval: 2 * time.Second,
	})
	if err != nil {
		log.Fatalf("❌ Failed to connect to PostgreSQL: %v", err)
	}

	if err := InitChatSchema(ctx, pool); err != nil {
		log.Fatalf("❌ Failed to init chat schema: %v", err)
	}

	code := m.Run()

	_ = postgresContainer.Terminate(ctx)
	os.Exit(code)
}

func newTestRoom(itemID, buyerID int64) *domain.Room {
	return &domain.Room{
		RoomID:    uuid.New().String(),
		ItemID:    itemID,
		BuyerID:   buyerID,
		CreatedAt: time.Now(),
	}
}

func TestInsertRoom_ConflictAsLookup(t *testing.T) {
	ctx := context.Background()
	repo := NewRoomRepository()

	room := newTestRoom(100, 1)
	inserted, err := repo.InsertRoom(ctx, pool, room)
	assert.NoError(t, err)
	assert.True(t, inserted)

	// same (item, buyer) again, different uuid
	dup := newTestRoom(100, 1)
	inserted, err = repo.InsertRoom(ctx, pool, dup)
	assert.NoError(t, err)
	assert.False(t, inserted)

	found, err := repo.FindRoomByItemAndBuyer(ctx, pool, 100, 1)
	assert.NoError(t, err)
	assert.Equal(t, room.RoomID, found.RoomID)
}

func TestMembershipAndLookupByUser(t *testing.T) {
	ctx := context.Background()
	repo := NewRoomRepository()

	room := newTestRoom(101, 1)
	_, err := repo.InsertRoom(ctx, pool, room)
	assert.NoError(t, err)

	err = repo.InsertMember(ctx, pool, &domain.RoomMember{RoomID: room.RoomID, UserID: 1, Role: domain.RoleBuyer})
	assert.NoError(t, err)
	err = repo.InsertMember(ctx, pool, &domain.RoomMember{RoomID: room.RoomID, UserID: 2, Role: domain.RoleSeller})
	assert.NoError(t, err)

	// duplicate membership is a no-op
	err = repo.InsertMember(ctx, pool, &domain.RoomMember{RoomID: room.RoomID, UserID: 1, Role: domain.RoleSeller})
	assert.NoError(t, err)

	ok, err := repo.IsMember(ctx, pool, room.RoomID, 2)
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.IsMember(ctx, pool, room.RoomID, 99)
	assert.NoError(t, err)
	assert.False(t, ok)

	bySeller, err := repo.FindRoomByItemAndUser(ctx, pool, 101, 2)
	assert.NoError(t, err)
	assert.Equal(t, room.RoomID, bySeller.RoomID)

	count, err := repo.CountRoomsByUser(ctx, pool, 2)
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, count, 1)
}

func TestFindRoomsByUser_LastMessageOrdering(t *testing.T) {
	ctx := context.Background()
	repo := NewRoomRepository()
	msgRepo := NewMessageRepository()
	userID := int64(50)

	older := newTestRoom(102, userID)
	newer := newTestRoom(103, userID)
	for _, room := range []*domain.Room{older, newer} {
		_, err := repo.InsertRoom(ctx, pool, room)
		assert.NoError(t, err)
		err = repo.InsertMember(ctx, pool, &domain.RoomMember{RoomID: room.RoomID, UserID: userID, Role: domain.RoleBuyer})
		assert.NoError(t, err)
	}

	base := time.Now()
	assert.NoError(t, msgRepo.Append(ctx, pool, &domain.Message{
		RoomID: older.RoomID, SenderID: userID, Content: "old", Type: domain.MessageTypeTalk, SentTime: base.Add(-time.Hour),
	}))
	assert.NoError(t, msgRepo.Append(ctx, pool, &domain.Message{
		RoomID: newer.RoomID, SenderID: userID, Content: "new", Type: domain.MessageTypeTalk, SentTime: base,
	}))

	rooms, err := repo.FindRoomsByUser(ctx, pool, userID)
	assert.NoError(t, err)
	assert.Len(t, rooms, 2)
	assert.Equal(t, newer.RoomID, rooms[0].RoomID)
	assert.Equal(t, "new", rooms[0].LastMessage)
	assert.Equal(t, older.RoomID, rooms[1].RoomID)
	assert.Equal(t, "old", rooms[1].LastMessage)
}

func TestMessages_AppendListMarkRead(t *testing.T) {
	ctx := context.Background()
	roomRepo := NewRoomRepository()
	msgRepo := NewMessageRepository()

	room := newTestRoom(104, 1)
	_, err := roomRepo.InsertRoom(ctx, pool, room)
	assert.NoError(t, err)

	base := time.Now().Truncate(time.Millisecond)
	first := &domain.Message{RoomID: room.RoomID, SenderID: 1, Content: "hi", Type: domain.MessageTypeTalk, SentTime: base}
	second := &domain.Message{RoomID: room.RoomID, SenderID: 2, Content: "hello", Type: domain.MessageTypeTalk, SentTime: base.Add(time.Second)}
	assert.NoError(t, msgRepo.Append(ctx, pool, first))
	assert.NoError(t, msgRepo.Append(ctx, pool, second))
	assert.Greater(t, second.MessageID, first.MessageID)

	msgs, err := msgRepo.ListByRoom(ctx, pool, room.RoomID)
	assert.NoError(t, err)
	assert.Len(t, msgs, 2)
	assert.Equal(t, "hi", msgs[0].Content)
	assert.False(t, msgs[0].Read)

	// reader 1 flips only the counterpart's messages
	updated, err := msgRepo.MarkRead(ctx, pool, room.RoomID, 1)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), updated)

	msgs, err = msgRepo.ListByRoom(ctx, pool, room.RoomID)
	assert.NoError(t, err)
	assert.False(t, msgs[0].Read)
	assert.True(t, msgs[1].Read)

	// second read pass finds nothing left
	updated, err = msgRepo.MarkRead(ctx, pool, room.RoomID, 1)
	assert.NoError(t, err)
	assert.Zero(t, updated)
}

func TestDeleteRoomCascadeWithinTx(t *testing.T) {
	ctx := context.Background()
	roomRepo := NewRoomRepository()
	msgRepo := NewMessageRepository()
	tx := NewTxRunner(pool)

	room := newTestRoom(105, 1)
	_, err := roomRepo.InsertRoom(ctx, pool, room)
	assert.NoError(t, err)
	assert.NoError(t, roomRepo.InsertMember(ctx, pool, &domain.RoomMember{RoomID: room.RoomID, UserID: 1, Role: domain.RoleBuyer}))
	assert.NoError(t, msgRepo.Append(ctx, pool, &domain.Message{
		RoomID: room.RoomID, SenderID: 1, Content: "bye", Type: domain.MessageTypeTalk, SentTime: time.Now(),
	}))

	err = tx.WithinTx(ctx, func(q Querier) error {
		if err := msgRepo.DeleteByRoom(ctx, q, room.RoomID); err != nil {
			return err
		}
		if err := roomRepo.DeleteMembers(ctx, q, room.RoomID); err != nil {
			return err
		}
		return roomRepo.DeleteRoom(ctx, q, room.RoomID)
	})
	assert.NoError(t, err)

	found, err := roomRepo.FindRoomByID(ctx, pool, room.RoomID)
	assert.NoError(t, err)
	assert.Nil(t, found)

	msgs, err := msgRepo.ListByRoom(ctx, pool, room.RoomID)
	assert.NoError(t, err)
	assert.Empty(t, msgs)
}
