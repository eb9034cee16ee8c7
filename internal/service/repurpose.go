package service

import (
	"context"

	"repurpose-server/internal/models"
)

// RepurposeService defines the interface for content repurposing logic.
type RepurposeService interface {
	// Repurpose прогоняет статью через AI провайдера с инструкциями выбранной
	// платформы и сохраняет результат в истории пользователя.
	Repurpose(ctx context.Context, userID int64, article, platform string) (*models.Generation, error)
	// History returns the user's saved generations, most recent first.
	History(ctx context.Context, userID int64) ([]models.Generation, error)
}
