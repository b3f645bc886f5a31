package handlers

import (
	"errors"
	"strconv"

	chatapp "secondhand_market/internal/chat/app"
	chatdomain "secondhand_market/internal/chat/domain"
	"secondhand_market/pkg/apperr"
	"secondhand_market/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ChatHandler 处理聊天相关的 HTTP 请求
type ChatHandler struct {
	directory *chatapp.RoomDirectory
	chatUC    *chatapp.ChatUseCase
}

// NewChatHandler 创建新的 ChatHandler
func NewChatHandler(directory *chatapp.RoomDirectory, chatUC *chatapp.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		directory: directory,
		chatUC:    chatUC,
	}
}

// CreateRoom 开启或取回聊天室
// @Summary Resolve or create a room on an item
// @Description Returns the caller's existing room for the item, or creates one
// @Tags Chat
// @Accept json
// @Produce json
// @Success 200 {object} response.Body "existing room"
// @Success 201 {object} response.Body "room created"
// @Failure 404 {object} response.Body "item not found"
// @Router /chat/rooms [post]
func (h *ChatHandler) CreateRoom(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Of(c, response.ErrNotAuthenticated, nil)
	}

	type request struct {
		ItemID int64 `json:"itemId"`
	}
	var req request
	if err := c.BodyParser(&req); err != nil || req.ItemID == 0 {
		return response.Of(c, response.ErrInvalidParams, nil)
	}

	room, created, err := h.directory.ResolveOrCreateRoom(c.Context(), req.ItemID, userID)
	if err != nil {
		return response.OfError(c, err)
	}
	if created {
		return response.Of(c, response.SuccessCreated, room)
	}
	return response.Of(c, response.Success, room)
}

// GetRoom 取得聊天室
// @Summary Get one room
// @Tags Chat
// @Produce json
// @Success 200 {object} response.Body "room"
// @Failure 404 {object} response.Body "room not found"
// @Router /chat/rooms/{roomId} [get]
func (h *ChatHandler) GetRoom(c *fiber.Ctx) error {
	room, err := h.directory.GetRoom(c.Context(), c.Params("roomId"))
	if err != nil {
		return response.OfError(c, err)
	}
	return response.Of(c, response.Success, room)
}

// GetUserRooms 取得使用者的聊天室清单
// @Summary Rooms a user participates in, most recent first
// @Tags Chat
// @Produce json
// @Success 200 {object} response.Body "rooms"
// @Router /chat/rooms/user/{userId} [get]
func (h *ChatHandler) GetUserRooms(c *fiber.Ctx) error {
	userID, err := strconv.ParseInt(c.Params("userId"), 10, 64)
	if err != nil {
		return response.Of(c, response.ErrInvalidParams, nil)
	}

	rooms, err := h.directory.GetRoomList(c.Context(), userID)
	if err != nil {
		return response.OfError(c, err)
	}
	return response.Of(c, response.Success, rooms)
}

// GetRoomMessages 取得聊天室讯息
// @Summary Stored messages of one room, oldest first
// @Tags Chat
// @Produce json
// @Success 200 {object} response.Body "messages"
// @Failure 404 {object} response.Body "room not found"
// @Router /chat/rooms/{roomId}/messages [get]
func (h *ChatHandler) GetRoomMessages(c *fiber.Ctx) error {
	msgs, err := h.chatUC.GetRoomMessages(c.Context(), c.Params("roomId"))
	if err != nil {
		return response.OfError(c, err)
	}
	return response.Of(c, response.Success, msgs)
}

// SendMessage 传送讯息
// @Summary Send one message into a room
// @Tags Chat
// @Accept json
// @Produce json
// @Success 201 {object} response.Body "message stored"
// @Failure 404 {object} response.Body "room not found"
// @Router /chat/rooms/{roomId}/messages [post]
func (h *ChatHandler) SendMessage(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Of(c, response.ErrNotAuthenticated, nil)
	}

	type request struct {
		Content string `json:"content"`
		Type    string `json:"type"`
		ItemID  *int64 `json:"itemId"`
	}
	var req request
	if err := c.BodyParser(&req); err != nil {
		return response.Of(c, response.ErrInvalidParams, nil)
	}
	msgType := chatdomain.MessageType(req.Type)
	if msgType == "" {
		msgType = chatdomain.MessageTypeTalk
	}

	msg, err := h.chatUC.SendMessage(c.Context(), c.Params("roomId"), req.ItemID, userID, req.Content, msgType)
	if err != nil {
		return response.OfError(c, err)
	}
	return response.Of(c, response.SuccessCreated, msg)
}

// MarkRead 读取讯息
// @Summary Mark the counterpart's messages read
// @Tags Chat
// @Produce json
// @Success 200 {object} response.Body "updated count"
// @Failure 404 {object} response.Body "room not found"
// @Router /chat/rooms/{roomId}/read [post]
func (h *ChatHandler) MarkRead(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Of(c, response.ErrNotAuthenticated, nil)
	}

	updated, err := h.chatUC.MarkMessagesAsRead(c.Context(), c.Params("roomId"), userID)
	if err != nil {
		return response.OfError(c, err)
	}
	return response.Of(c, response.Success, fiber.Map{"updated": updated})
}

// DeleteRoom 删除聊天室
// @Summary Delete a room with its memberships and messages
// @Tags Chat
// @Produce json
// @Success 200 {object} response.Body "deleted"
// @Failure 403 {object} response.Body "not a member"
// @Failure 404 {object} response.Body "room not found"
// @Router /chat/rooms/{roomId} [delete]
func (h *ChatHandler) DeleteRoom(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Of(c, response.ErrNotAuthenticated, nil)
	}

	err := h.directory.DeleteRoom(c.Context(), c.Params("roomId"), userID)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrRoomNotFound), errors.Is(err, apperr.ErrInvalidRoomID):
			return response.Of(c, response.ErrChatroomNotFound, nil)
		case errors.Is(err, apperr.ErrForbidden):
			return response.Of(c, response.ErrChatroomDeleteForbidden, nil)
		default:
			return response.Of(c, response.ErrChatroomDeleteFailed, nil)
		}
	}
	return response.Of(c, response.Success, fiber.Map{"roomId": c.Params("roomId")})
}

// GetUserRoomCount 取得使用者的聊天室数量
// @Summary How many rooms a user participates in
// @Tags Chat
// @Produce json
// @Success 200 {object} response.Body "count"
// @Router /chat/count/user/{userId} [get]
func (h *ChatHandler) GetUserRoomCount(c *fiber.Ctx) error {
	userID, err := strconv.ParseInt(c.Params("userId"), 10, 64)
	if err != nil {
		return response.Of(c, response.ErrInvalidParams, nil)
	}

	count, err := h.directory.GetRoomCount(c.Context(), userID)
	if err != nil {
		return response.OfError(c, err)
	}
	return response.Of(c, response.Success, fiber.Map{"chatCount": count})
}

// CreateRoomByItem 以商品与买家开启聊天室,只回房号
// @Summary Resolve or create a room, returning its id
// @Tags Chat
// @Accept json
// @Produce json
// @Success 200 {object} response.Body "room id"
// @Failure 400 {object} response.Body "missing itemId or userId"
// @Router /chat/create-room [post]
func (h *ChatHandler) CreateRoomByItem(c *fiber.Ctx) error {
	type request struct {
		ItemID int64 `json:"itemId"`
		UserID int64 `json:"userId"`
	}
	var req request
	if err := c.BodyParser(&req); err != nil || req.ItemID == 0 || req.UserID == 0 {
		return response.Of(c, response.ErrInvalidParams, nil)
	}

	room, _, err := h.directory.ResolveOrCreateRoom(c.Context(), req.ItemID, req.UserID)
	if err != nil {
		return response.OfError(c, err)
	}
	return response.Of(c, response.Success, fiber.Map{"roomId": room.RoomID})
}
