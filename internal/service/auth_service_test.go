package service_test // Используем _test пакет для изоляции

import (
	"context"
	"errors"
	"testing"
	"time"

	"repurpose-server/internal/authutils"
	"repurpose-server/internal/config"
	"repurpose-server/internal/models"
	"repurpose-server/internal/service"
	"repurpose-server/internal/service/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newAuthServiceWithMocks собирает AuthService с мок-репозиторием пользователей.
func newAuthServiceWithMocks(t *testing.T) (service.AuthService, *mocks.MockUserRepository) {
	t.Helper()

	cfg := &config.Config{
		JWTSecret:      "test-jwt-secret",
		PasswordPepper: "test-pepper",
		TokenTTL:       24 * time.Hour,
	}
	verifier, err := authutils.NewJWTVerifier(cfg.JWTSecret, zap.NewNop())
	require.NoError(t, err)

	userRepo := mocks.NewMockUserRepository(t)
	svc := service.NewAuthService(userRepo, verifier, cfg, zap.NewNop())
	return svc, userRepo
}

func TestRegister_Success(t *testing.T) {
	svc, userRepo := newAuthServiceWithMocks(t)
	ctx := context.Background()

	userRepo.On("GetUserByEmail", mock.Anything, "new@example.com").Return(nil, models.ErrUserNotFound).Once()
	userRepo.On("CreateUser", mock.Anything, mock.AnythingOfType("*models.User")).Run(func(args mock.Arguments) {
		user := args.Get(1).(*models.User)
		user.ID = 1
		user.CreatedAt = time.Now()
	}).Return(nil).Once()

	// Email нормализуется: пробелы убираются, регистр приводится к нижнему
	user, err := svc.Register(ctx, "  New@Example.com ", "password123")
	require.NoError(t, err)
	require.NotNil(t, user)

	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, "new@example.com", user.Email)
	// Пароль сохраняется только в виде хеша
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "password123", user.PasswordHash)

	userRepo.AssertExpectations(t)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, userRepo := newAuthServiceWithMocks(t)
	ctx := context.Background()

	existing := &models.User{ID: 5, Email: "taken@example.com"}
	userRepo.On("GetUserByEmail", mock.Anything, "taken@example.com").Return(existing, nil)

	// Повторная регистрация всегда завершается ErrEmailAlreadyExists,
	// независимо от пароля
	for _, password := range []string{"password123", "another-password", "x"} {
		_, err := svc.Register(ctx, "taken@example.com", password)
		require.Error(t, err)
		assert.True(t, errors.Is(err, models.ErrEmailAlreadyExists), "error should be ErrEmailAlreadyExists")
	}

	userRepo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestRegister_DuplicateEmailRace(t *testing.T) {
	svc, userRepo := newAuthServiceWithMocks(t)
	ctx := context.Background()

	// Предварительная проверка не нашла пользователя, но вставка проиграла
	// гонку конкурентной регистрации и уперлась в уникальный индекс
	userRepo.On("GetUserByEmail", mock.Anything, "race@example.com").Return(nil, models.ErrUserNotFound).Once()
	userRepo.On("CreateUser", mock.Anything, mock.AnythingOfType("*models.User")).Return(models.ErrEmailAlreadyExists).Once()

	_, err := svc.Register(ctx, "race@example.com", "password123")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrEmailAlreadyExists))
}

func TestRegister_InvalidEmailFormat(t *testing.T) {
	svc, userRepo := newAuthServiceWithMocks(t)
	ctx := context.Background()

	for _, email := range []string{"not-an-email", "user@", "@example.com", ""} {
		_, err := svc.Register(ctx, email, "password123")
		require.Error(t, err, "email %q should be rejected", email)
		assert.True(t, errors.Is(err, models.ErrInvalidInput), "error should be ErrInvalidInput for %q", email)
	}

	// До репозитория дело не доходит
	userRepo.AssertNotCalled(t, "GetUserByEmail", mock.Anything, mock.Anything)
	userRepo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestRegister_EmptyPassword(t *testing.T) {
	svc, userRepo := newAuthServiceWithMocks(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "user@example.com", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInvalidInput))

	userRepo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestRegisterAndLogin_RoundTrip(t *testing.T) {
	svc, userRepo := newAuthServiceWithMocks(t)
	ctx := context.Background()
	email := "roundtrip@example.com"
	password := "password123"

	var stored *models.User
	userRepo.On("GetUserByEmail", mock.Anything, email).Return(nil, models.ErrUserNotFound).Once()
	userRepo.On("CreateUser", mock.Anything, mock.AnythingOfType("*models.User")).Run(func(args mock.Arguments) {
		stored = args.Get(1).(*models.User)
		stored.ID = 7
		stored.CreatedAt = time.Now()
	}).Return(nil).Once()

	// 1. Регистрация
	registered, err := svc.Register(ctx, email, password)
	require.NoError(t, err)
	require.NotNil(t, stored)

	// 2. Логин с теми же учетными данными возвращает работающий токен
	userRepo.On("GetUserByEmail", mock.Anything, email).Return(stored, nil)

	token, err := svc.Login(ctx, email, password)
	require.NoError(t, err, "login after register should succeed")
	require.NotEmpty(t, token)

	// 3. Токен принимается проверкой и содержит идентификатор пользователя
	claims, err := svc.VerifyToken(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, claims)
	assert.Equal(t, registered.ID, claims.UserID)

	// 4. Логин с неверным паролем отклоняется
	_, err = svc.Login(ctx, email, "wrong-password")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInvalidCredentials))
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, userRepo := newAuthServiceWithMocks(t)
	ctx := context.Background()

	userRepo.On("GetUserByEmail", mock.Anything, "ghost@example.com").Return(nil, models.ErrUserNotFound).Once()

	// Несуществующий email дает ту же ошибку, что и неверный пароль,
	// чтобы не раскрывать, какие адреса зарегистрированы
	_, err := svc.Login(ctx, "ghost@example.com", "password123")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInvalidCredentials))
}

func TestLogin_RepositoryError(t *testing.T) {
	svc, userRepo := newAuthServiceWithMocks(t)
	ctx := context.Background()

	userRepo.On("GetUserByEmail", mock.Anything, "user@example.com").Return(nil, errors.New("connection refused")).Once()

	_, err := svc.Login(ctx, "user@example.com", "password123")
	require.Error(t, err)
	// Инфраструктурная ошибка не должна маскироваться под ошибку учетных данных
	assert.False(t, errors.Is(err, models.ErrInvalidCredentials))
}

func TestVerifyToken_Garbage(t *testing.T) {
	svc, _ := newAuthServiceWithMocks(t)

	_, err := svc.VerifyToken(context.Background(), "this-is-not-a-jwt")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrTokenMalformed))
}
