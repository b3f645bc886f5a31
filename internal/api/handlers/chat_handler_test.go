package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"testing"

	chatapp "secondhand_market/internal/chat/app"
	"secondhand_market/internal/chat/domain"
	"secondhand_market/internal/chat/repository"
	"secondhand_market/pkg/logger"
	"secondhand_market/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	logger.SetNewNop()
	os.Exit(m.Run())
}

type passthroughTx struct{}

func (passthroughTx) WithinTx(ctx context.Context, fn func(q repository.Querier) error) error {
	return fn(nil)
}

func newChatApp(roomRepo *chatapp.MockRoomRepository) (*fiber.App, *ChatHandler) {
	msgRepo := new(chatapp.MockMessageRepository)
	items := new(chatapp.MockItemReader)
	dir := chatapp.NewRoomDirectory(nil, passthroughTx{}, roomRepo, msgRepo, items)
	uc := chatapp.NewChatUseCase(nil, passthroughTx{}, dir, roomRepo, msgRepo,
		new(chatapp.MockRoomPubSub), new(chatapp.MockMessageStream), items)
	return fiber.New(), NewChatHandler(dir, uc)
}

func TestGetUserRoomCount_ChatCountField(t *testing.T) {
	roomRepo := new(chatapp.MockRoomRepository)
	roomRepo.On("CountRoomsByUser", mock.Anything, nil, int64(9)).Return(3, nil)

	app, h := newChatApp(roomRepo)
	app.Get("/chat/count/user/:userId", h.GetUserRoomCount)

	resp, err := app.Test(httptest.NewRequest("GET", "/chat/count/user/9", nil))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body response.Body
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	data, ok := body.Data.(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, float64(3), data["chatCount"])
	_, legacy := data["count"]
	assert.False(t, legacy)
}

func TestCreateRoomByItem_ReturnsRoomID(t *testing.T) {
	roomID := uuid.New().String()
	existing := &domain.Room{RoomID: roomID, ItemID: 7, BuyerID: 9}

	roomRepo := new(chatapp.MockRoomRepository)
	roomRepo.On("FindRoomByItemAndUser", mock.Anything, nil, int64(7), int64(9)).Return(existing, nil)

	app, h := newChatApp(roomRepo)
	app.Post("/chat/create-room", h.CreateRoomByItem)

	payload, _ := json.Marshal(fiber.Map{"itemId": 7, "userId": 9})
	req := httptest.NewRequest("POST", "/chat/create-room", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body response.Body
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	data, ok := body.Data.(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, roomID, data["roomId"])
	assert.Len(t, data, 1)
}

func TestCreateRoomByItem_MissingParams(t *testing.T) {
	app, h := newChatApp(new(chatapp.MockRoomRepository))
	app.Post("/chat/create-room", h.CreateRoomByItem)

	payload, _ := json.Marshal(fiber.Map{"itemId": 7})
	req := httptest.NewRequest("POST", "/chat/create-room", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
