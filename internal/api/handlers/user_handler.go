package handlers

import (
	"fmt"

	userapp "secondhand_market/internal/user/app"
	userdomain "secondhand_market/internal/user/domain"
	"secondhand_market/pkg/logger"
	"secondhand_market/pkg/response"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// UserHandler 处理用户相关的 HTTP 请求
type UserHandler struct {
	userUC userapp.UserUseCase
}

// NewUserHandler 创建新的 UserHandler
func NewUserHandler(userUC userapp.UserUseCase) *UserHandler {
	return &UserHandler{
		userUC: userUC,
	}
}

// Register 注册新用户
// @Summary Sign up
// @Description Creates a marketplace account
// @Tags Users
// @Accept json
// @Produce json
// @Success 201 {object} response.Body "created"
// @Failure 409 {object} response.Body "duplicated user"
// @Router /user [post]
func (h *UserHandler) Register(c *fiber.Ctx) error {
	type request struct {
		Email    string `json:"email"`
		Nickname string `json:"nickname"`
		Password string `json:"password"`
	}

	var req request
	if err := c.BodyParser(&req); err != nil {
		return response.Of(c, response.ErrInvalidParams, nil)
	}

	logger.Log.Debug("Register request", zap.String("email", req.Email))

	user, err := h.userUC.Register(c.Context(), req.Email, req.Nickname, req.Password)
	if err != nil {
		return response.OfError(c, err)
	}

	logger.Log.Info(fmt.Sprintf("userUC.Register %d", user.ID))
	return response.Of(c, response.SuccessCreated, fiber.Map{
		"id":       user.ID,
		"email":    user.Email,
		"nickname": user.Nickname,
	})
}

// Login 用户登录
// @Summary Log in
// @Description Trades credentials for a token pair
// @Tags Users
// @Accept json
// @Produce json
// @Success 200 {object} response.Body "token pair"
// @Failure 401 {object} response.Body "not authenticated"
// @Router /user/login [post]
func (h *UserHandler) Login(c *fiber.Ctx) error {
	type request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var req request
	if err := c.BodyParser(&req); err != nil {
		return response.Of(c, response.ErrInvalidParams, nil)
	}

	logger.Log.Debug("Login", zap.String("Email", req.Email))

	pair, err := h.userUC.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return response.OfError(c, err)
	}

	return response.Of(c, response.SuccessIssueToken, pair)
}

// Refresh 重新签发 token
// @Summary Refresh tokens
// @Description Trades a refresh token for a new pair
// @Tags Users
// @Accept json
// @Produce json
// @Success 200 {object} response.Body "token pair"
// @Failure 401 {object} response.Body "invalid refresh token"
// @Router /user/refresh [post]
func (h *UserHandler) Refresh(c *fiber.Ctx) error {
	type request struct {
		UserID       int64  `json:"userId"`
		RefreshToken string `json:"refreshToken"`
	}

	var req request
	if err := c.BodyParser(&req); err != nil || req.RefreshToken == "" {
		return response.Of(c, response.ErrInvalidParams, nil)
	}

	pair, err := h.userUC.Refresh(c.Context(), req.UserID, req.RefreshToken)
	if err != nil {
		return response.Of(c, response.ErrInvalidRefreshToken, nil)
	}

	return response.Of(c, response.SuccessIssueToken, pair)
}

// Me 查找当前用户信息
// @Summary Current user
// @Description Returns the account behind the bearer token
// @Tags Users
// @Produce json
// @Success 200 {object} response.Body "user info"
// @Failure 404 {object} response.Body "user not found"
// @Router /user [get]
func (h *UserHandler) Me(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Of(c, response.ErrNotAuthenticated, nil)
	}

	user, err := h.userUC.FindUser(c.Context(), &userdomain.UserQuery{ID: &userID})
	if err != nil {
		return response.OfError(c, err)
	}

	return response.Of(c, response.Success, fiber.Map{
		"id":        user.ID,
		"email":     user.Email,
		"nickname":  user.Nickname,
		"createdAt": user.CreatedAt,
	})
}

// Logout 用户登出
// @Summary Log out
// @Description Drops the session behind the bearer token
// @Tags Users
// @Produce json
// @Success 200 {object} response.Body "logged out"
// @Router /user/logout [post]
func (h *UserHandler) Logout(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Of(c, response.ErrNotAuthenticated, nil)
	}

	if err := h.userUC.Logout(c.Context(), userID); err != nil {
		return response.OfError(c, err)
	}
	return response.Of(c, response.Success, nil)
}
