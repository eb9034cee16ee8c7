package service

import (
	"context"
	"fmt"
	"strings"

	"repurpose-server/internal/config"
	"repurpose-server/internal/interfaces"
	"repurpose-server/internal/models"

	"go.uber.org/zap"
)

// Compile-time check to ensure repurposeServiceImpl implements RepurposeService
var _ RepurposeService = (*repurposeServiceImpl)(nil)

// repurposeServiceImpl implements the RepurposeService interface.
type repurposeServiceImpl struct {
	generationRepo interfaces.GenerationRepository
	aiClient       AIClient
	cfg            *config.Config
	logger         *zap.Logger
}

// NewRepurposeService creates a new instance of repurposeServiceImpl.
func NewRepurposeService(generationRepo interfaces.GenerationRepository, aiClient AIClient, cfg *config.Config, logger *zap.Logger) RepurposeService {
	return &repurposeServiceImpl{
		generationRepo: generationRepo,
		aiClient:       aiClient,
		cfg:            cfg,
		logger:         logger.Named("RepurposeService"),
	}
}

// Repurpose converts the article for the requested platform and records the result.
func (s *repurposeServiceImpl) Repurpose(ctx context.Context, userID int64, article, platform string) (*models.Generation, error) {
	log := s.logger.With(zap.Int64("userID", userID), zap.String("platform", platform))

	if strings.TrimSpace(article) == "" {
		log.Warn("Repurpose attempt with empty article")
		return nil, fmt.Errorf("article must not be empty: %w", models.ErrInvalidInput)
	}

	// Платформа проверяется до обращения к провайдеру: на неизвестный тег
	// запрос к AI не уходит.
	resolvedPlatform, err := ResolvePlatform(platform)
	if err != nil {
		log.Warn("Repurpose attempt with unknown platform")
		return nil, err
	}
	log = s.logger.With(zap.Int64("userID", userID), zap.String("platform", resolvedPlatform))

	prompt, err := BuildPrompt(resolvedPlatform, article)
	if err != nil {
		return nil, err
	}

	log.Info("Repurposing article", zap.Int("articleBytes", len(article)))

	requestCtx, cancel := context.WithTimeout(ctx, s.cfg.AIRequestTimeout)
	defer cancel()

	output, usage, err := s.aiClient.Complete(requestCtx, prompt)
	if err != nil {
		// Ошибка уже классифицирована клиентом, в историю ничего не пишем
		log.Warn("AI provider call failed", zap.Error(err))
		return nil, err
	}

	generation := &models.Generation{
		UserID:     userID,
		Platform:   resolvedPlatform,
		InputText:  article,
		OutputText: output,
	}
	if err := s.generationRepo.CreateGeneration(ctx, generation); err != nil {
		// Ошибка уже залогирована репозиторием
		return nil, fmt.Errorf("failed to save generation: %w", err)
	}

	log.Info("Article repurposed successfully",
		zap.Int64("generationID", generation.ID),
		zap.Int("promptTokens", usage.PromptTokens),
		zap.Int("completionTokens", usage.CompletionTokens),
	)
	return generation, nil
}

// History returns the user's saved generations, most recent first.
func (s *repurposeServiceImpl) History(ctx context.Context, userID int64) ([]models.Generation, error) {
	s.logger.Debug("Loading generation history", zap.Int64("userID", userID))
	generations, err := s.generationRepo.ListGenerationsByUser(ctx, userID)
	if err != nil {
		// Ошибка уже залогирована репозиторием
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return generations, nil
}
