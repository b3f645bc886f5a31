package app

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"secondhand_market/internal/chat/domain"
	"secondhand_market/internal/chat/repository"
	"secondhand_market/pkg/logger"
	"secondhand_market/pkg/middlewares"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

// ChatWebsocketHandler drives one realtime connection bound to one room.
type ChatWebsocketHandler struct {
	chatUC     *ChatUseCase
	roomPubSub repository.RoomPubSub
}

// NewChatWebsocketHandler create ChatWebsocketHandler
func NewChatWebsocketHandler(chatUC *ChatUseCase, roomPubSub repository.RoomPubSub) *ChatWebsocketHandler {
	return &ChatWebsocketHandler{
		chatUC:     chatUC,
		roomPubSub: roomPubSub,
	}
}

// HandleConnection is the entry point for /ws/chat/:roomId. The path
// room id is authoritative for every action on the connection.
func (h *ChatWebsocketHandler) HandleConnection(ctx context.Context, conn *websocket.Conn) {
	tokenUser := conn.Locals(middlewares.TokenUserID)
	userID, ok := tokenUser.(int64)
	roomID := conn.Params("roomId")
	logger.Log.Info("websocket handle userID",
		zap.Int64("userID", userID),
		zap.String("roomID", roomID),
		zap.String("ok", strconv.FormatBool(ok)))

	ticker := time.NewTicker(10 * time.Minute)
	ctxClose, cancel := context.WithCancel(context.Background())

	defer func() {
		ticker.Stop()
		logger.Log.Info("websocket close", zap.Int64("userID", userID), zap.String("roomID", roomID))
		conn.Close()
		cancel()
	}()

	conn.SetCloseHandler(func(code int, text string) error {
		logger.Log.Infof("WebSocket closed:", conn.RemoteAddr())
		return nil
	})

	conn.SetPongHandler(func(appData string) error {
		logger.Log.Infof("Received PONG:", appData)
		return nil
	})

	conn.SetPingHandler(func(appData string) error {
		logger.Log.Infof("Received PING:", appData)
		return conn.WriteControl(
			websocket.PongMessage,
			[]byte(appData),
			time.Now().Add(time.Second),
		)
	})

	// subscribe to the room before reading so no fan-out is missed;
	// placeholder connections subscribe once their first send
	// resolves a real room
	subscribed := false
	subscribe := func(id string) {
		if subscribed || !domain.ValidRoomID(id) {
			return
		}
		if err := h.roomPubSub.Subscribe(ctxClose, repository.RoomChannel(id), func(resp domain.WSResponse) {
			h.sendResponse(conn, resp)
		}); err != nil {
			logger.Log.Errorf("subscribe error:", err, zap.String("roomID", id))
			return
		}
		subscribed = true
	}
	subscribe(roomID)

	go func() {
		for {
			select {
			case <-ticker.C:
				pingMsg := "ping message"
				if err := conn.WriteMessage(websocket.PingMessage, []byte(pingMsg)); err != nil {
					logger.Log.Errorf("Ping error:", err)
					return
				}
				logger.Log.Infof("%d Ping sent", userID)
			case <-ctxClose.Done():
				logger.Log.Infof("Ping goroutine cancelled for user:", userID)
				return
			}
		}
	}()

	for {
		mt, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				logger.Log.Errorf("Connection closed:", err)
			} else {
				logger.Log.Errorf("websocket read error:", err)
			}
			return
		}
		if resolved := h.execWebsocketAction(ctx, conn, roomID, userID, mt, message); resolved != "" {
			roomID = resolved
			subscribe(roomID)
		}
	}
}

// execWebsocketAction returns the room id a placeholder connection got
// bound to, or "".
func (h *ChatWebsocketHandler) execWebsocketAction(ctx context.Context, conn *websocket.Conn, roomID string, userID int64, mt int, msg []byte) string {
	switch mt {
	case websocket.TextMessage:
		return h.textMessageAction(ctx, conn, roomID, userID, msg)
	default:
		h.sendError(conn, "unknown action")
	}
	return ""
}

func (h *ChatWebsocketHandler) textMessageAction(ctx context.Context, conn *websocket.Conn, roomID string, userID int64, msg []byte) string {

	var req domain.WSRequest
	if err := json.Unmarshal(msg, &req); err != nil {
		logger.Log.Errorf("json unmarshal error:", err)
		return ""
	}

	resolvedRoom := ""
	resp := domain.WSResponse{Action: req.Action, Success: false, Payload: map[string]interface{}{}}
	switch req.Action {
	// store and broadcast; resolves the room first when the path
	// still carries the placeholder
	case string(domain.SendMessage):
		if req.Message == nil {
			resp.Error = "missing message"
			break
		}
		msgType := req.Message.Type
		if msgType == "" {
			msgType = domain.MessageTypeTalk
		}
		sent, err := h.chatUC.SendMessage(ctx, roomID, req.ItemID, userID, req.Message.Content, msgType)
		if err != nil {
			resp.Error = err.Error()
		} else {
			resp.Success = true
			resp.Payload["room_id"] = sent.RoomID
			resp.Payload["message_id"] = sent.MessageID
			resolvedRoom = sent.RoomID
		}

	// flip unread messages from the counterpart to read
	case string(domain.ReadMessage):
		if !domain.ValidRoomID(roomID) {
			// nothing to mark before the room exists, drop it
			logger.Log.Info("read on placeholder room dropped", zap.Int64("userID", userID))
			return ""
		}
		updated, err := h.chatUC.MarkMessagesAsRead(ctx, roomID, userID)
		if err != nil {
			resp.Error = err.Error()
		} else {
			resp.Success = true
			resp.Payload["updated"] = updated
		}

	default:
		h.sendError(conn, "unknown message types ")
		return ""
	}

	if resp.Error != "" {
		logger.Log.Error("websocket err ",
			zap.Int64("UserID", userID),
			zap.String("Action", req.Action),
			zap.String("err", resp.Error))
	}
	h.sendResponse(conn, resp)
	return resolvedRoom
}

// sendResponse writes JSON to the client.
func (h *ChatWebsocketHandler) sendResponse(conn *websocket.Conn, resp domain.WSResponse) {
	b, _ := json.Marshal(resp)
	if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
		logger.Log.Errorf("write message error:", err)
	}
}

func (h *ChatWebsocketHandler) sendError(conn *websocket.Conn, errorMsg string) {
	resp := domain.WSResponse{
		Action:  "error",
		Success: false,
		Payload: map[string]interface{}{
			"error": errorMsg,
		},
	}
	h.sendResponse(conn, resp)
}
