package models

import "github.com/golang-jwt/jwt/v5"

// Claims представляет стандартные поля JWT и пользовательские данные,
// которые мы хотим включить в токен.
type Claims struct {
	UserID               int64 `json:"user_id"`
	jwt.RegisteredClaims       // Встраиваем стандартные поля: ExpiresAt, IssuedAt, ID (JTI)
}
