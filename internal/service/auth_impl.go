package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"repurpose-server/internal/authutils"
	"repurpose-server/internal/config"
	"repurpose-server/internal/interfaces"
	"repurpose-server/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Compile-time check to ensure authServiceImpl implements AuthService
var _ AuthService = (*authServiceImpl)(nil)

// tokenIssuer попадает в claim iss каждого выданного токена.
const tokenIssuer = "repurpose-server"

// authServiceImpl implements the AuthService interface.
type authServiceImpl struct {
	userRepo interfaces.UserRepository
	verifier *authutils.JWTVerifier
	cfg      *config.Config
	logger   *zap.Logger
	now      func() time.Time
}

// NewAuthService creates a new instance of authServiceImpl.
func NewAuthService(userRepo interfaces.UserRepository, verifier *authutils.JWTVerifier, cfg *config.Config, logger *zap.Logger) AuthService {
	return &authServiceImpl{
		userRepo: userRepo,
		verifier: verifier,
		cfg:      cfg,
		logger:   logger.Named("AuthService"),
		now:      time.Now,
	}
}

// Register creates a new user.
func (s *authServiceImpl) Register(ctx context.Context, email, password string) (*models.User, error) {
	// Приводим email к нижнему регистру и убираем пробелы
	email = strings.ToLower(strings.TrimSpace(email))

	logFields := []zap.Field{zap.String("email", email)}
	s.logger.Info("Registering new user", logFields...)

	// Валидация формата email (простая)
	if _, err := mail.ParseAddress(email); err != nil {
		s.logger.Warn("Registration attempt with invalid email format", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("invalid email format: %w", models.ErrInvalidInput)
	}

	if password == "" {
		s.logger.Warn("Registration attempt with empty password", logFields...)
		return nil, fmt.Errorf("password must not be empty: %w", models.ErrInvalidInput)
	}

	// Проверка существования пользователя по email
	existingUser, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, models.ErrUserNotFound) {
		s.logger.Error("Error checking existing email during registration", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("error checking existing email: %w", err)
	}
	if existingUser != nil {
		s.logger.Warn("Registration attempt for existing email", logFields...)
		return nil, models.ErrEmailAlreadyExists
	}

	// Используем перец перед хешированием
	hashedPassword, err := hashPassword(password, s.cfg.PasswordPepper)
	if err != nil {
		s.logger.Error("Failed to hash password during registration", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hashedPassword,
	}

	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		// Гонку двух одновременных регистраций ловит уникальный индекс в БД,
		// репозиторий уже преобразовал ее в ErrEmailAlreadyExists.
		if !errors.Is(err, models.ErrEmailAlreadyExists) {
			s.logger.Error("Failed to create user via repository", append(logFields, zap.Error(err))...)
		}
		return nil, err
	}

	s.logger.Info("User registered successfully", zap.Int64("userID", user.ID), zap.String("email", user.Email))
	return user, nil
}

// Login authenticates a user and returns a signed access token.
func (s *authServiceImpl) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	s.logger.Info("Login attempt", zap.String("email", email))

	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			s.logger.Warn("Login failed: user not found", zap.String("email", email))
			return "", models.ErrInvalidCredentials
		}
		s.logger.Error("Login failed: error getting user from repository", zap.Error(err), zap.String("email", email))
		return "", fmt.Errorf("failed to get user: %w", err)
	}

	// Используем перец при проверке
	if !checkPasswordHash(password, user.PasswordHash, s.cfg.PasswordPepper) {
		s.logger.Warn("Login failed: invalid password", zap.String("email", email), zap.Int64("userID", user.ID))
		return "", models.ErrInvalidCredentials
	}

	token, err := s.generateToken(user.ID)
	if err != nil {
		s.logger.Error("Failed to create token during login", zap.Error(err), zap.Int64("userID", user.ID))
		return "", fmt.Errorf("failed to create token: %w", err)
	}

	s.logger.Info("User logged in successfully", zap.Int64("userID", user.ID))
	return token, nil
}

// VerifyToken parses and validates an access token string.
// Токен самодостаточен: проверка не обращается ни к БД, ни к другим хранилищам.
func (s *authServiceImpl) VerifyToken(ctx context.Context, tokenString string) (*models.Claims, error) {
	return s.verifier.VerifyToken(ctx, tokenString)
}

// generateToken signs a new access token for the user.
func (s *authServiceImpl) generateToken(userID int64) (string, error) {
	now := s.now()
	claims := &models.Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(userID, 10),
			Issuer:    tokenIssuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		s.logger.Error("Failed to sign access token", zap.Error(err), zap.Int64("userID", userID))
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

// --- Helper Functions ---

// applyPepper applies HMAC-SHA256 using the pepper as the key.
func applyPepper(password, pepper string) []byte {
	h := hmac.New(sha256.New, []byte(pepper))
	h.Write([]byte(password)) // Неважно, если Write возвращает ошибку, она всегда nil для sha256
	return h.Sum(nil)
}

// hashPassword generates a bcrypt hash of the password after applying the pepper.
func hashPassword(password, pepper string) (string, error) {
	// Применяем перец к паролю через HMAC-SHA256
	pepperedPassword := applyPepper(password, pepper)
	// Хешируем результат с помощью bcrypt (он сам добавит свою соль)
	bytes, err := bcrypt.GenerateFromPassword(pepperedPassword, bcrypt.DefaultCost)
	return string(bytes), err
}

// checkPasswordHash compares a plain text password (after applying pepper) with a stored hash.
func checkPasswordHash(password, hash, pepper string) bool {
	// Применяем тот же перец к введенному паролю
	pepperedPassword := applyPepper(password, pepper)
	// bcrypt сам извлечет свою соль из хеша и сравнит
	err := bcrypt.CompareHashAndPassword([]byte(hash), pepperedPassword)
	return err == nil
}
