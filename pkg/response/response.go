// Package response implements the coded API envelope returned by every REST handler.
package response

import (
	"errors"

	"secondhand_market/pkg/apperr"

	"github.com/gofiber/fiber/v2"
)

// Policy pairs an HTTP status with a stable result code.
type Policy struct {
	HTTPStatus int
	Code       int
	CodeName   string
	Message    string
}

var (
	// Success generic 200
	Success = Policy{fiber.StatusOK, 20000, "SUCCESS", "success"}
	// SuccessCreated resource created
	SuccessCreated = Policy{fiber.StatusCreated, 20100, "SUCCESS_CREATED", "created"}
	// SuccessIssueToken token issued
	SuccessIssueToken = Policy{fiber.StatusOK, 20001, "SUCCESS_ISSUE_TOKEN", "token issued"}

	// ErrSystem catch-all 500
	ErrSystem = Policy{fiber.StatusInternalServerError, 50000, "ERR_SYSTEM", "system error"}
	// ErrInvalidParams malformed or missing request params
	ErrInvalidParams = Policy{fiber.StatusBadRequest, 40001, "ERR_INVALID_PARAMS", "invalid parameters"}
	// ErrDuplicatedUser signup with taken email
	ErrDuplicatedUser = Policy{fiber.StatusConflict, 40901, "ERR_DUPLICATED_USER", "duplicated user"}
	// ErrNotAuthenticated missing/invalid credentials
	ErrNotAuthenticated = Policy{fiber.StatusUnauthorized, 40400, "ERR_NOT_AUTHENTICATED", "not authenticated"}
	// ErrInvalidRefreshToken refresh token expired or unknown
	ErrInvalidRefreshToken = Policy{fiber.StatusUnauthorized, 40401, "ERR_INVALID_REFRESH_TOKEN", "invalid refresh token"}
	// ErrItemNotFound item lookup miss
	ErrItemNotFound = Policy{fiber.StatusNotFound, 40402, "ERR_ITEM_NOT_FOUND", "item not found"}
	// ErrUserNotFound user lookup miss
	ErrUserNotFound = Policy{fiber.StatusNotFound, 40403, "ERR_USER_NOT_FOUND", "user not found"}

	// ErrChatroomNotFound room lookup miss
	ErrChatroomNotFound = Policy{fiber.StatusNotFound, 40407, "ERR_CHATROOM_NOT_FOUND", "chat room not found"}
	// ErrChatroomDeleteForbidden non-member tried to delete a room
	ErrChatroomDeleteForbidden = Policy{fiber.StatusForbidden, 40308, "ERR_CHATROOM_DELETE_FORBIDDEN", "chat room delete forbidden"}
	// ErrChatroomDeleteFailed cascade delete failed midway
	ErrChatroomDeleteFailed = Policy{fiber.StatusInternalServerError, 50002, "ERR_CHATROOM_DELETE_FAILED", "chat room delete failed"}
)

// Body is the wire shape of the envelope.
type Body struct {
	Code     int         `json:"code"`
	CodeName string      `json:"codeName"`
	Message  string      `json:"message"`
	Data     interface{} `json:"data,omitempty"`
}

// Of writes an envelope for the policy, carrying optional data.
func Of(c *fiber.Ctx, p Policy, data interface{}) error {
	return c.Status(p.HTTPStatus).JSON(Body{
		Code:     p.Code,
		CodeName: p.CodeName,
		Message:  p.Message,
		Data:     data,
	})
}

// OfError maps a usecase error to its policy and writes the envelope.
func OfError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, apperr.ErrRoomNotFound), errors.Is(err, apperr.ErrInvalidRoomID):
		return Of(c, ErrChatroomNotFound, nil)
	case errors.Is(err, apperr.ErrItemNotFound):
		return Of(c, ErrItemNotFound, nil)
	case errors.Is(err, apperr.ErrUserNotFound):
		return Of(c, ErrUserNotFound, nil)
	case errors.Is(err, apperr.ErrForbidden):
		return Of(c, ErrChatroomDeleteForbidden, nil)
	case errors.Is(err, apperr.ErrDuplicated):
		return Of(c, ErrDuplicatedUser, nil)
	case errors.Is(err, apperr.ErrInvalidParams):
		return Of(c, ErrInvalidParams, nil)
	case errors.Is(err, apperr.ErrNotAuthenticated):
		return Of(c, ErrNotAuthenticated, nil)
	default:
		return Of(c, ErrSystem, nil)
	}
}
