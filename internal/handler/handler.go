package handler

import (
	"net/http"

	"repurpose-server/internal/config"
	"repurpose-server/internal/service"

	"github.com/gin-gonic/gin"
)

// Handler связывает HTTP слой с сервисами приложения.
type Handler struct {
	authService      service.AuthService
	repurposeService service.RepurposeService
	cfg              *config.Config
}

func NewHandler(authService service.AuthService, repurposeService service.RepurposeService, cfg *config.Config) *Handler {
	return &Handler{
		authService:      authService,
		repurposeService: repurposeService,
		cfg:              cfg,
	}
}

// RegisterRoutes настраивает все маршруты сервиса.
// rateLimiter применяется только к /register и /login, передача nil отключает лимит.
func (h *Handler) RegisterRoutes(router *gin.Engine, rateLimiter gin.HandlerFunc) {
	router.GET("/", h.root)
	router.GET("/health", h.health)
	router.HEAD("/health", h.health)

	if rateLimiter != nil {
		router.POST("/register", rateLimiter, h.register)
		router.POST("/login", rateLimiter, h.login)
	} else {
		router.POST("/register", h.register)
		router.POST("/login", h.login)
	}
	router.POST("/check-password", h.checkPassword)

	protected := router.Group("/")
	protected.Use(h.AuthMiddleware())
	{
		protected.POST("/repurpose", h.repurpose)
		protected.GET("/history", h.history)
	}
}

// @Summary Проверка живости сервиса
// @Tags system
// @Produce json
// @Success 200 {object} map[string]interface{} "Сервис работает"
// @Router / [get]
func (h *Handler) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "API running 🚀"})
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
