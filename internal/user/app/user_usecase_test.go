package app

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"secondhand_market/internal/user/domain"
	"secondhand_market/pkg/apperr"
	"secondhand_market/pkg/encrypt"
	"secondhand_market/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	logger.SetNewNop()
	os.Exit(m.Run())
}

// MockUserRepository mock UserRepository
type MockUserRepository struct {
	mock.Mock
}

// InitSchema mock schema init
func (m *MockUserRepository) InitSchema(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// CreateUser mock create user
func (m *MockUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// FindByUser mock find user
func (m *MockUserRepository) FindByUser(ctx context.Context, userQuery *domain.UserQuery) (*domain.User, error) {
	args := m.Called(ctx, userQuery)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockSessionRepository mock RedisRepository[domain.UserSession]
type MockSessionRepository struct {
	mock.Mock
}

// Set mock set
func (m *MockSessionRepository) Set(ctx context.Context, key string, value domain.UserSession, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

// Get mock get
func (m *MockSessionRepository) Get(ctx context.Context, key string) (domain.UserSession, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(domain.UserSession), args.Error(1)
}

// Del mock del
func (m *MockSessionRepository) Del(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// GetTTL mock ttl
func (m *MockSessionRepository) GetTTL(ctx context.Context, key string) (int, error) {
	args := m.Called(ctx, key)
	return args.Int(0), args.Error(1)
}

// ExtendTTL mock extend ttl
func (m *MockSessionRepository) ExtendTTL(ctx context.Context, key string, ttl time.Duration) error {
	args := m.Called(ctx, key, ttl)
	return args.Error(0)
}

const testPassword = "!Password123"

func TestRegister_CreatesUser(t *testing.T) {
	ctx := context.Background()

	userRepo := new(MockUserRepository)
	userRepo.On("FindByUser", ctx, mock.Anything).
		Return(nil, fmt.Errorf("%w: miss", apperr.ErrUserNotFound))
	userRepo.On("CreateUser", ctx, mock.MatchedBy(func(u *domain.User) bool {
		// stored password must be a hash, never the plaintext
		return u.Email == "new@example.com" && u.Password != testPassword
	})).Return(nil)

	uc := NewUserUseCase(userRepo, time.Hour, new(MockSessionRepository))
	user, err := uc.Register(ctx, "new@example.com", "newbie", testPassword)

	assert.NoError(t, err)
	assert.NoError(t, encrypt.CheckPassword(user.Password, testPassword))
	userRepo.AssertExpectations(t)
}

func TestRegister_DuplicatedEmail(t *testing.T) {
	ctx := context.Background()

	userRepo := new(MockUserRepository)
	userRepo.On("FindByUser", ctx, mock.Anything).
		Return(&domain.User{ID: 1, Email: "taken@example.com"}, nil)

	uc := NewUserUseCase(userRepo, time.Hour, new(MockSessionRepository))
	_, err := uc.Register(ctx, "taken@example.com", "dup", testPassword)

	assert.ErrorIs(t, err, apperr.ErrDuplicated)
	userRepo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestRegister_WeakPassword(t *testing.T) {
	uc := NewUserUseCase(new(MockUserRepository), time.Hour, new(MockSessionRepository))

	_, err := uc.Register(context.Background(), "weak@example.com", "weak", "short")

	assert.ErrorIs(t, err, apperr.ErrInvalidParams)
}

func TestLogin_IssuesTokenPair(t *testing.T) {
	ctx := context.Background()
	hash, err := encrypt.HashPassword(testPassword)
	assert.NoError(t, err)

	userRepo := new(MockUserRepository)
	sessionRepo := new(MockSessionRepository)
	userRepo.On("FindByUser", ctx, mock.Anything).
		Return(&domain.User{ID: 1, Email: "user@example.com", Password: hash}, nil)
	sessionRepo.On("Set", ctx, "session:user:1", mock.Anything, time.Hour).Return(nil)

	uc := NewUserUseCase(userRepo, time.Hour, sessionRepo)
	pair, err := uc.Login(ctx, "user@example.com", testPassword)

	assert.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	sessionRepo.AssertExpectations(t)
}

func TestLogin_WrongPassword(t *testing.T) {
	ctx := context.Background()
	hash, err := encrypt.HashPassword(testPassword)
	assert.NoError(t, err)

	userRepo := new(MockUserRepository)
	userRepo.On("FindByUser", ctx, mock.Anything).
		Return(&domain.User{ID: 1, Email: "user@example.com", Password: hash}, nil)

	uc := NewUserUseCase(userRepo, time.Hour, new(MockSessionRepository))
	_, err = uc.Login(ctx, "user@example.com", "!WrongPass99")

	assert.ErrorIs(t, err, apperr.ErrNotAuthenticated)
}

func TestRefresh_RotatesSession(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	session := domain.UserSession{
		RefreshToken: "refresh-1",
		UserID:       1,
		CreatedAt:    now,
		LastActivity: now,
		ExpiredAt:    now.Add(time.Hour),
	}

	sessionRepo := new(MockSessionRepository)
	sessionRepo.On("Get", ctx, "session:user:1").Return(session, nil)
	sessionRepo.On("Set", ctx, "session:user:1", mock.MatchedBy(func(s domain.UserSession) bool {
		return s.RefreshToken != "refresh-1"
	}), time.Hour).Return(nil)

	uc := NewUserUseCase(new(MockUserRepository), time.Hour, sessionRepo)
	pair, err := uc.Refresh(ctx, 1, "refresh-1")

	assert.NoError(t, err)
	assert.NotEqual(t, "refresh-1", pair.RefreshToken)
	sessionRepo.AssertExpectations(t)
}

func TestRefresh_RejectsUnknownToken(t *testing.T) {
	ctx := context.Background()
	session := domain.UserSession{
		RefreshToken: "refresh-1",
		UserID:       1,
		ExpiredAt:    time.Now().Add(time.Hour),
	}

	sessionRepo := new(MockSessionRepository)
	sessionRepo.On("Get", ctx, "session:user:1").Return(session, nil)

	uc := NewUserUseCase(new(MockUserRepository), time.Hour, sessionRepo)
	_, err := uc.Refresh(ctx, 1, "stolen-token")

	assert.ErrorIs(t, err, apperr.ErrNotAuthenticated)
	sessionRepo.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRefresh_RejectsExpiredSession(t *testing.T) {
	ctx := context.Background()
	session := domain.UserSession{
		RefreshToken: "refresh-1",
		UserID:       1,
		ExpiredAt:    time.Now().Add(-time.Minute),
	}

	sessionRepo := new(MockSessionRepository)
	sessionRepo.On("Get", ctx, "session:user:1").Return(session, nil)

	uc := NewUserUseCase(new(MockUserRepository), time.Hour, sessionRepo)
	_, err := uc.Refresh(ctx, 1, "refresh-1")

	assert.ErrorIs(t, err, apperr.ErrNotAuthenticated)
}
