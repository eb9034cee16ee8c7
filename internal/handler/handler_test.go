package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"repurpose-server/internal/config"
	"repurpose-server/internal/handler"
	"repurpose-server/internal/models"
	"repurpose-server/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Локальные моки сервисов --- //

type stubAuthService struct {
	registerFn    func(ctx context.Context, email, password string) (*models.User, error)
	loginFn       func(ctx context.Context, email, password string) (string, error)
	verifyFn      func(ctx context.Context, tokenString string) (*models.Claims, error)
	registerCalls int
	loginCalls    int
}

func (s *stubAuthService) Register(ctx context.Context, email, password string) (*models.User, error) {
	s.registerCalls++
	if s.registerFn == nil {
		return nil, errors.New("unexpected Register call")
	}
	return s.registerFn(ctx, email, password)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, error) {
	s.loginCalls++
	if s.loginFn == nil {
		return "", errors.New("unexpected Login call")
	}
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) VerifyToken(ctx context.Context, tokenString string) (*models.Claims, error) {
	if s.verifyFn == nil {
		return nil, models.ErrTokenInvalid
	}
	return s.verifyFn(ctx, tokenString)
}

type stubRepurposeService struct {
	repurposeFn    func(ctx context.Context, userID int64, article, platform string) (*models.Generation, error)
	historyFn      func(ctx context.Context, userID int64) ([]models.Generation, error)
	repurposeCalls int
}

func (s *stubRepurposeService) Repurpose(ctx context.Context, userID int64, article, platform string) (*models.Generation, error) {
	s.repurposeCalls++
	if s.repurposeFn == nil {
		return nil, errors.New("unexpected Repurpose call")
	}
	return s.repurposeFn(ctx, userID, article, platform)
}

func (s *stubRepurposeService) History(ctx context.Context, userID int64) ([]models.Generation, error) {
	if s.historyFn == nil {
		return nil, errors.New("unexpected History call")
	}
	return s.historyFn(ctx, userID)
}

// Проверяем соответствие заглушек интерфейсам сервисов
var _ service.AuthService = (*stubAuthService)(nil)
var _ service.RepurposeService = (*stubRepurposeService)(nil)

// --- Вспомогательные функции --- //

func newTestRouter(authSvc service.AuthService, repurposeSvc service.RepurposeService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := handler.NewHandler(authSvc, repurposeSvc, &config.Config{})
	h.RegisterRoutes(router, nil)
	return router
}

func performRequest(router *gin.Engine, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			panic(fmt.Sprintf("failed to marshal request body: %v", err))
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeErrorResponse(t *testing.T, w *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var errResp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	return errResp
}

// --- Тесты --- //

func TestRoot_Liveness(t *testing.T) {
	router := newTestRouter(&stubAuthService{}, &stubRepurposeService{})

	w := performRequest(router, http.MethodGet, "/", nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message": "API running 🚀"}`, w.Body.String())
}

func TestHealth(t *testing.T) {
	router := newTestRouter(&stubAuthService{}, &stubRepurposeService{})

	w := performRequest(router, http.MethodGet, "/health", nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "ok"}`, w.Body.String())
}

func TestRegister_Created(t *testing.T) {
	createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	authSvc := &stubAuthService{
		registerFn: func(ctx context.Context, email, password string) (*models.User, error) {
			return &models.User{ID: 1, Email: email, CreatedAt: createdAt}, nil
		},
	}
	router := newTestRouter(authSvc, &stubRepurposeService{})

	w := performRequest(router, http.MethodPost, "/register", gin.H{
		"email":    "user@example.com",
		"password": "password123",
	}, nil)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		ID    int64  `json:"id"`
		Email string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "user@example.com", resp.Email)
	// Хеш пароля в ответ не попадает
	assert.NotContains(t, w.Body.String(), "password")
}

func TestRegister_ValidationError(t *testing.T) {
	authSvc := &stubAuthService{}
	router := newTestRouter(authSvc, &stubRepurposeService{})

	tests := []struct {
		name string
		body gin.H
	}{
		{"missing password", gin.H{"email": "user@example.com"}},
		{"missing email", gin.H{"password": "password123"}},
		{"invalid email format", gin.H{"email": "not-an-email", "password": "password123"}},
		{"empty body", gin.H{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(router, http.MethodPost, "/register", tt.body, nil)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			errResp := decodeErrorResponse(t, w)
			assert.Equal(t, models.ErrCodeValidation, errResp.Code)
		})
	}

	// Сервис не вызывается при ошибке валидации тела
	assert.Zero(t, authSvc.registerCalls)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	authSvc := &stubAuthService{
		registerFn: func(ctx context.Context, email, password string) (*models.User, error) {
			return nil, models.ErrEmailAlreadyExists
		},
	}
	router := newTestRouter(authSvc, &stubRepurposeService{})

	w := performRequest(router, http.MethodPost, "/register", gin.H{
		"email":    "taken@example.com",
		"password": "password123",
	}, nil)

	assert.Equal(t, http.StatusConflict, w.Code)
	errResp := decodeErrorResponse(t, w)
	assert.Equal(t, models.ErrCodeDuplicateEmail, errResp.Code)
}

func TestLogin_Success(t *testing.T) {
	authSvc := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, error) {
			return "signed.jwt.token", nil
		},
	}
	router := newTestRouter(authSvc, &stubRepurposeService{})

	w := performRequest(router, http.MethodPost, "/login", gin.H{
		"email":    "user@example.com",
		"password": "password123",
	}, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"token": "signed.jwt.token"}`, w.Body.String())
}

func TestLogin_WrongCredentials(t *testing.T) {
	authSvc := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, error) {
			return "", models.ErrInvalidCredentials
		},
	}
	router := newTestRouter(authSvc, &stubRepurposeService{})

	w := performRequest(router, http.MethodPost, "/login", gin.H{
		"email":    "user@example.com",
		"password": "wrong",
	}, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	errResp := decodeErrorResponse(t, w)
	assert.Equal(t, models.ErrCodeWrongCredentials, errResp.Code)
}

func TestCheckPassword(t *testing.T) {
	router := newTestRouter(&stubAuthService{}, &stubRepurposeService{})

	tests := []struct {
		password string
		want     string
	}{
		{"abc", "weak"},
		{"password1", "medium"},
		{"Password1!", "strong"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			w := performRequest(router, http.MethodPost, "/check-password", gin.H{"password": tt.password}, nil)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, fmt.Sprintf(`{"strength": %q}`, tt.want), w.Body.String())
		})
	}
}

func TestCheckPassword_MissingField(t *testing.T) {
	router := newTestRouter(&stubAuthService{}, &stubRepurposeService{})

	w := performRequest(router, http.MethodPost, "/check-password", gin.H{}, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	errResp := decodeErrorResponse(t, w)
	assert.Equal(t, models.ErrCodeValidation, errResp.Code)
}

func TestRepurpose_Success(t *testing.T) {
	authSvc := &stubAuthService{
		verifyFn: func(ctx context.Context, tokenString string) (*models.Claims, error) {
			require.Equal(t, "valid-token", tokenString)
			return &models.Claims{UserID: 7}, nil
		},
	}
	var gotUserID int64
	repurposeSvc := &stubRepurposeService{
		repurposeFn: func(ctx context.Context, userID int64, article, platform string) (*models.Generation, error) {
			gotUserID = userID
			return &models.Generation{
				ID:         1,
				UserID:     userID,
				Platform:   "twitter",
				InputText:  article,
				OutputText: "Tweet 1: big news!",
			}, nil
		},
	}
	router := newTestRouter(authSvc, repurposeSvc)

	w := performRequest(router, http.MethodPost, "/repurpose", gin.H{
		"article":  "Big release announcement.",
		"platform": "twitter",
	}, map[string]string{"Authorization": "Bearer valid-token"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"platform": "twitter", "repurposed_content": "Tweet 1: big news!"}`, w.Body.String())
	// ID пользователя берется из проверенного токена, а не из тела запроса
	assert.Equal(t, int64(7), gotUserID)

	// Схема Bearer нечувствительна к регистру
	w = performRequest(router, http.MethodPost, "/repurpose", gin.H{
		"article": "Another article.",
	}, map[string]string{"Authorization": "BEARER valid-token"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRepurpose_NoToken(t *testing.T) {
	repurposeSvc := &stubRepurposeService{}
	router := newTestRouter(&stubAuthService{}, repurposeSvc)

	w := performRequest(router, http.MethodPost, "/repurpose", gin.H{
		"article": "Some article.",
	}, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	errResp := decodeErrorResponse(t, w)
	assert.Equal(t, models.ErrCodeTokenInvalid, errResp.Code)
	// Без авторизации до сервиса дело не доходит, история не пополняется
	assert.Zero(t, repurposeSvc.repurposeCalls)
}

func TestRepurpose_BadAuthorizationHeader(t *testing.T) {
	repurposeSvc := &stubRepurposeService{}
	router := newTestRouter(&stubAuthService{}, repurposeSvc)

	for _, header := range []string{"Basic dXNlcjpwYXNz", "Bearer", "Bearer a b", "valid-token"} {
		w := performRequest(router, http.MethodPost, "/repurpose", gin.H{
			"article": "Some article.",
		}, map[string]string{"Authorization": header})

		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q should be rejected", header)
		errResp := decodeErrorResponse(t, w)
		assert.Equal(t, models.ErrCodeTokenInvalid, errResp.Code)
	}

	assert.Zero(t, repurposeSvc.repurposeCalls)
}

func TestRepurpose_ExpiredToken(t *testing.T) {
	authSvc := &stubAuthService{
		verifyFn: func(ctx context.Context, tokenString string) (*models.Claims, error) {
			return nil, models.ErrTokenExpired
		},
	}
	repurposeSvc := &stubRepurposeService{}
	router := newTestRouter(authSvc, repurposeSvc)

	w := performRequest(router, http.MethodPost, "/repurpose", gin.H{
		"article": "Some article.",
	}, map[string]string{"Authorization": "Bearer stale-token"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	errResp := decodeErrorResponse(t, w)
	assert.Equal(t, models.ErrCodeTokenExpired, errResp.Code)
	assert.Zero(t, repurposeSvc.repurposeCalls)
}

func TestRepurpose_UnknownPlatform(t *testing.T) {
	authSvc := &stubAuthService{
		verifyFn: func(ctx context.Context, tokenString string) (*models.Claims, error) {
			return &models.Claims{UserID: 7}, nil
		},
	}
	repurposeSvc := &stubRepurposeService{
		repurposeFn: func(ctx context.Context, userID int64, article, platform string) (*models.Generation, error) {
			return nil, models.ErrUnknownPlatform
		},
	}
	router := newTestRouter(authSvc, repurposeSvc)

	w := performRequest(router, http.MethodPost, "/repurpose", gin.H{
		"article":  "Some article.",
		"platform": "tiktok",
	}, map[string]string{"Authorization": "Bearer valid-token"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	errResp := decodeErrorResponse(t, w)
	assert.Equal(t, models.ErrCodeUnknownPlatform, errResp.Code)
}

func TestRepurpose_UpstreamFailures(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"timeout", models.ErrUpstreamTimeout, http.StatusGatewayTimeout, models.ErrCodeUpstreamTimeout},
		{"unavailable", models.ErrUpstreamUnavailable, http.StatusServiceUnavailable, models.ErrCodeUpstreamUnavailable},
		{"provider error", models.ErrUpstreamError, http.StatusBadGateway, models.ErrCodeUpstreamError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authSvc := &stubAuthService{
				verifyFn: func(ctx context.Context, tokenString string) (*models.Claims, error) {
					return &models.Claims{UserID: 7}, nil
				},
			}
			repurposeSvc := &stubRepurposeService{
				repurposeFn: func(ctx context.Context, userID int64, article, platform string) (*models.Generation, error) {
					return nil, fmt.Errorf("%w: upstream said no", tt.err)
				},
			}
			router := newTestRouter(authSvc, repurposeSvc)

			w := performRequest(router, http.MethodPost, "/repurpose", gin.H{
				"article": "Some article.",
			}, map[string]string{"Authorization": "Bearer valid-token"})

			assert.Equal(t, tt.wantStatus, w.Code)
			errResp := decodeErrorResponse(t, w)
			assert.Equal(t, tt.wantCode, errResp.Code)
		})
	}
}

func TestHistory_Success(t *testing.T) {
	authSvc := &stubAuthService{
		verifyFn: func(ctx context.Context, tokenString string) (*models.Claims, error) {
			return &models.Claims{UserID: 7}, nil
		},
	}
	repurposeSvc := &stubRepurposeService{
		historyFn: func(ctx context.Context, userID int64) ([]models.Generation, error) {
			require.Equal(t, int64(7), userID)
			return []models.Generation{
				{ID: 2, UserID: 7, Platform: "medium", InputText: "in2", OutputText: "out2"},
				{ID: 1, UserID: 7, Platform: "twitter", InputText: "in1", OutputText: "out1"},
			}, nil
		},
	}
	router := newTestRouter(authSvc, repurposeSvc)

	w := performRequest(router, http.MethodGet, "/history", nil, map[string]string{"Authorization": "Bearer valid-token"})

	require.Equal(t, http.StatusOK, w.Code)

	// Ответ - JSON массив, порядок как у сервиса: новые первыми
	var generations []models.Generation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &generations))
	require.Len(t, generations, 2)
	assert.Equal(t, int64(2), generations[0].ID)
	assert.Equal(t, int64(1), generations[1].ID)

	// Идентификатор владельца наружу не отдается
	assert.NotContains(t, w.Body.String(), "user_id")
}

func TestHistory_EmptyArray(t *testing.T) {
	authSvc := &stubAuthService{
		verifyFn: func(ctx context.Context, tokenString string) (*models.Claims, error) {
			return &models.Claims{UserID: 7}, nil
		},
	}
	repurposeSvc := &stubRepurposeService{
		historyFn: func(ctx context.Context, userID int64) ([]models.Generation, error) {
			return []models.Generation{}, nil
		},
	}
	router := newTestRouter(authSvc, repurposeSvc)

	w := performRequest(router, http.MethodGet, "/history", nil, map[string]string{"Authorization": "Bearer valid-token"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

func TestHistory_NoToken(t *testing.T) {
	router := newTestRouter(&stubAuthService{}, &stubRepurposeService{})

	w := performRequest(router, http.MethodGet, "/history", nil, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	errResp := decodeErrorResponse(t, w)
	assert.Equal(t, models.ErrCodeTokenInvalid, errResp.Code)
}
