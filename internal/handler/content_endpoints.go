package handler

import (
	"errors"
	"net/http"

	"repurpose-server/internal/models"
	"repurpose-server/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// @Summary Переупаковка статьи под платформу
// @Description Прогоняет статью через AI с инструкциями выбранной платформы и сохраняет результат в истории
// @Tags content
// @Accept json
// @Produce json
// @Param request body repurposeRequest true "Статья и целевая платформа"
// @Success 200 {object} repurposeResponse "Результат генерации"
// @Failure 400 {object} models.ErrorResponse "Неверные данные запроса или неизвестная платформа"
// @Failure 401 {object} models.ErrorResponse "Нет или невалидный токен"
// @Failure 502 {object} models.ErrorResponse "Провайдер вернул ошибку"
// @Failure 503 {object} models.ErrorResponse "Провайдер недоступен"
// @Failure 504 {object} models.ErrorResponse "Таймаут запроса к провайдеру"
// @Security BearerAuth
// @Router /repurpose [post]
func (h *Handler) repurpose(c *gin.Context) {
	var req repurposeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Code: models.ErrCodeValidation, Message: "Invalid request body: " + err.Error()})
		return
	}

	userID, ok := models.GetUserIDFromContext(c.Request.Context())
	if !ok {
		zap.L().Error("User ID missing in context during repurpose")
		handleServiceError(c, errors.New("internal server error: context missing user id"))
		return
	}

	generation, err := h.repurposeService.Repurpose(c.Request.Context(), userID, req.Article, req.Platform)
	if err != nil {
		repurposesTotal.WithLabelValues(platformLabel(req.Platform), "error").Inc()
		handleServiceError(c, err)
		return
	}

	repurposesTotal.WithLabelValues(generation.Platform, "success").Inc()

	c.JSON(http.StatusOK, repurposeResponse{
		Platform:          generation.Platform,
		RepurposedContent: generation.OutputText,
	})
}

// @Summary История генераций
// @Description Возвращает все генерации текущего пользователя, новые первыми
// @Tags content
// @Produce json
// @Success 200 {array} models.Generation "История"
// @Failure 401 {object} models.ErrorResponse "Нет или невалидный токен"
// @Security BearerAuth
// @Router /history [get]
func (h *Handler) history(c *gin.Context) {
	userID, ok := models.GetUserIDFromContext(c.Request.Context())
	if !ok {
		zap.L().Error("User ID missing in context during history")
		handleServiceError(c, errors.New("internal server error: context missing user id"))
		return
	}

	generations, err := h.repurposeService.History(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, generations)
}

// platformLabel ограничивает множество значений метки платформы в метриках.
func platformLabel(platform string) string {
	if resolved, err := service.ResolvePlatform(platform); err == nil {
		return resolved
	}
	return "unknown"
}
