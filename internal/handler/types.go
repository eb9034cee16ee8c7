package handler

import (
	"time"

	"repurpose-server/internal/models"
)

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type checkPasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

// repurposeRequest описывает тело запроса /repurpose.
// Платформа опциональна, пустое значение означает платформу по умолчанию.
type repurposeRequest struct {
	Article  string `json:"article" binding:"required"`
	Platform string `json:"platform"`
}

type registerResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type checkPasswordResponse struct {
	Strength models.PasswordStrength `json:"strength"`
}

type repurposeResponse struct {
	Platform          string `json:"platform"`
	RepurposedContent string `json:"repurposed_content"`
}
