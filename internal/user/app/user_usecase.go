package app

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"secondhand_market/internal/user/domain"
	"secondhand_market/internal/user/repository"
	"secondhand_market/pkg/apperr"
	"secondhand_market/pkg/config"
	"secondhand_market/pkg/database"
	"secondhand_market/pkg/encrypt"
	"secondhand_market/pkg/logger"
	token "secondhand_market/pkg/token"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TokenPair is what a successful login or refresh hands the client.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// UserUseCase 這裡封裝了對外提供的應用服務
type UserUseCase interface {
	Register(ctx context.Context, email, nickname, password string) (*domain.User, error)
	FindUser(ctx context.Context, param *domain.UserQuery) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*TokenPair, error)
	Refresh(ctx context.Context, userID int64, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, userID int64) error
}

type userUseCase struct {
	userRepo   repository.UserRepository
	sessionTTL time.Duration
	redisRepo  database.RedisRepository[domain.UserSession]
}

// NewUserUseCase 建立一個新的 UserUseCase
func NewUserUseCase(userRepo repository.UserRepository,
	sessionTTL time.Duration,
	redisRepo database.RedisRepository[domain.UserSession],
) UserUseCase {
	return &userUseCase{
		userRepo:   userRepo,
		sessionTTL: sessionTTL,
		redisRepo:  redisRepo,
	}
}

// Register
func (m *userUseCase) Register(ctx context.Context, email, nickname, password string) (*domain.User, error) {
	if err := encrypt.ValidatePasswordStrength(password); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInvalidParams, err)
	}

	if _, err := m.userRepo.FindByUser(ctx, &domain.UserQuery{Email: &email}); err == nil {
		return nil, fmt.Errorf("%w: %s", apperr.ErrDuplicated, email)
	}

	pw, err := encrypt.HashPassword(password)
	if err != nil {
		logger.Log.Errorf("password err :", err)
		return nil, apperr.System(err)
	}

	user := domain.User{
		Email:    email,
		Nickname: nickname,
		Password: pw,
	}

	logger.Log.Info(fmt.Sprintf("usecase Register : %s", email))

	if err := m.userRepo.CreateUser(ctx, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

// FindUser 用查詢條件來尋找使用者
func (m *userUseCase) FindUser(ctx context.Context, param *domain.UserQuery) (*domain.User, error) {
	return m.userRepo.FindByUser(ctx, param)
}

// Login
func (m *userUseCase) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := m.userRepo.FindByUser(ctx, &domain.UserQuery{Email: &email})
	if err != nil {
		logger.Log.Error("email can't find!!!")
		return nil, fmt.Errorf("%w: %s", apperr.ErrUserNotFound, email)
	}

	if err = user.IsPasswordMatch(password); err != nil {
		logger.Log.Error("password can't match!!!")
		return nil, fmt.Errorf("%w: wrong password", apperr.ErrNotAuthenticated)
	}

	return m.issueTokens(ctx, user.ID)
}

// Refresh trades a valid refresh token for a new pair. The old session
// is replaced, a stolen refresh token works at most once.
func (m *userUseCase) Refresh(ctx context.Context, userID int64, refreshToken string) (*TokenPair, error) {
	session, err := m.redisRepo.Get(ctx, sessionKey(userID))
	if err != nil {
		logger.Log.Error("refresh err :", zap.String("err", err.Error()))
		return nil, fmt.Errorf("%w: no session", apperr.ErrNotAuthenticated)
	}
	if session.RefreshToken != refreshToken || session.IsExpired() {
		return nil, fmt.Errorf("%w: refresh token rejected", apperr.ErrNotAuthenticated)
	}

	return m.issueTokens(ctx, userID)
}

// Logout
func (m *userUseCase) Logout(ctx context.Context, userID int64) error {
	return m.redisRepo.Del(ctx, sessionKey(userID))
}

func (m *userUseCase) issueTokens(ctx context.Context, userID int64) (*TokenPair, error) {
	access, err := token.GenerateJWT(userID, string(token.RoleUser), config.EnvConfig.MarketService)
	if err != nil {
		return nil, apperr.System(err)
	}

	now := time.Now()
	session := domain.UserSession{
		RefreshToken: uuid.New().String(),
		UserID:       userID,
		CreatedAt:    now,
		LastActivity: now,
		ExpiredAt:    now.Add(m.sessionTTL),
	}
	if err := m.redisRepo.Set(ctx, sessionKey(userID), session, m.sessionTTL); err != nil {
		return nil, apperr.System(err)
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: session.RefreshToken,
	}, nil
}

func sessionKey(userID int64) string {
	return "session:user:" + strconv.FormatInt(userID, 10)
}
