package interfaces

import (
	"context"

	"repurpose-server/internal/models"
)

// GenerationRepository defines the interface for persisting repurposing results.
// История хранится append-only, обновлений и удалений нет.
type GenerationRepository interface {
	// CreateGeneration inserts a new generation row and fills in the
	// generated ID and creation timestamp on the passed struct.
	CreateGeneration(ctx context.Context, generation *models.Generation) error

	// ListGenerationsByUser retrieves all generations owned by the given user,
	// most recent first. Returns an empty slice when the user has no history.
	ListGenerationsByUser(ctx context.Context, userID int64) ([]models.Generation, error)
}
