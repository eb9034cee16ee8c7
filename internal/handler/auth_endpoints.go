package handler

import (
	"net/http"

	"repurpose-server/internal/models"
	"repurpose-server/internal/service"

	"github.com/gin-gonic/gin"
)

// @Summary Регистрация нового пользователя
// @Description Создает новый аккаунт пользователя
// @Tags auth
// @Accept json
// @Produce json
// @Param request body registerRequest true "Данные для регистрации"
// @Success 201 {object} registerResponse "Успешная регистрация"
// @Failure 400 {object} models.ErrorResponse "Неверные данные запроса"
// @Failure 409 {object} models.ErrorResponse "Email уже занят"
// @Router /register [post]
func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errResp := models.ErrorResponse{Code: models.ErrCodeValidation, Message: "Invalid request data: " + err.Error()}
		c.AbortWithStatusJSON(http.StatusBadRequest, errResp)
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	registrationsTotal.Inc()

	c.JSON(http.StatusCreated, registerResponse{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	})
}

// @Summary Вход в систему
// @Description Аутентификация пользователя и выдача bearer токена на 24 часа
// @Tags auth
// @Accept json
// @Produce json
// @Param request body loginRequest true "Данные для входа"
// @Success 200 {object} loginResponse "Токен доступа"
// @Failure 400 {object} models.ErrorResponse "Неверные данные запроса"
// @Failure 401 {object} models.ErrorResponse "Неверные учетные данные"
// @Router /login [post]
func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Code: models.ErrCodeValidation, Message: "Invalid request body: " + err.Error()})
		return
	}

	token, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	loginsTotal.Inc()

	c.JSON(http.StatusOK, loginResponse{Token: token})
}

// @Summary Оценка надежности пароля
// @Description Классифицирует пароль как weak, medium или strong. Аккаунт не требуется.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body checkPasswordRequest true "Пароль для проверки"
// @Success 200 {object} checkPasswordResponse "Вердикт"
// @Failure 400 {object} models.ErrorResponse "Неверные данные запроса"
// @Router /check-password [post]
func (h *Handler) checkPassword(c *gin.Context) {
	var req checkPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Code: models.ErrCodeValidation, Message: "Invalid request body: " + err.Error()})
		return
	}

	strength := service.ClassifyPasswordStrength(req.Password)
	passwordChecksTotal.WithLabelValues(string(strength)).Inc()

	c.JSON(http.StatusOK, checkPasswordResponse{Strength: strength})
}
