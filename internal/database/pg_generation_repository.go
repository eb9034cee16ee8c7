package database

import (
	"context"
	"errors"
	"fmt"

	"repurpose-server/internal/interfaces"
	"repurpose-server/internal/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// Compile-time check to ensure pgGenerationRepository implements GenerationRepository
var _ interfaces.GenerationRepository = (*pgGenerationRepository)(nil)

const (
	createGenerationQuery = `
		INSERT INTO generations (user_id, platform, input_text, output_text)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	listGenerationsByUserQuery = `
		SELECT id, user_id, platform, input_text, output_text, created_at
		FROM generations
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`
)

type pgGenerationRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

// NewPgGenerationRepository creates a new PostgreSQL-backed GenerationRepository.
func NewPgGenerationRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.GenerationRepository {
	return &pgGenerationRepository{
		db:     db,
		logger: logger.Named("PgGenerationRepo"),
	}
}

// CreateGeneration inserts a new generation row.
func (r *pgGenerationRepository) CreateGeneration(ctx context.Context, generation *models.Generation) error {
	r.logger.Debug("Executing query",
		zap.String("query", createGenerationQuery),
		zap.Int64("userID", generation.UserID),
		zap.String("platform", generation.Platform),
	)
	err := r.db.QueryRow(ctx, createGenerationQuery,
		generation.UserID,
		generation.Platform,
		generation.InputText,
		generation.OutputText,
	).Scan(&generation.ID, &generation.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to create generation in postgres",
			zap.Error(err), zap.Int64("userID", generation.UserID), zap.String("platform", generation.Platform))
		return fmt.Errorf("failed to create generation in postgres: %w", err)
	}

	r.logger.Info("Generation saved successfully",
		zap.Int64("generationID", generation.ID),
		zap.Int64("userID", generation.UserID),
		zap.String("platform", generation.Platform),
	)
	return nil
}

// ListGenerationsByUser retrieves all generations of the user, most recent first.
func (r *pgGenerationRepository) ListGenerationsByUser(ctx context.Context, userID int64) ([]models.Generation, error) {
	r.logger.Debug("Executing query", zap.String("query", listGenerationsByUserQuery), zap.Int64("userID", userID))

	generations := make([]models.Generation, 0)
	err := pgxscan.Select(ctx, r.db, &generations, listGenerationsByUserQuery, userID)
	if err != nil {
		// Ошибка pgx.ErrNoRows здесь не страшна, просто вернем пустой срез
		if errors.Is(err, pgx.ErrNoRows) {
			return []models.Generation{}, nil
		}
		r.logger.Error("Failed to list generations from postgres", zap.Error(err), zap.Int64("userID", userID))
		return nil, fmt.Errorf("failed to list generations from postgres: %w", err)
	}
	return generations, nil
}
