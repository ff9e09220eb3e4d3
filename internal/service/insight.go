package service

import (
	"context"
	"time"

	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/config"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/internal/dto"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/internal/model"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/internal/repository"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/pkg/logger"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/pkg/utils"
)

type InsightService interface {
	Describe(ctx context.Context, slug string) (*dto.InsightResponse, error)
}

type insightService struct {
	cfg         config.Gemini
	log         *logger.Logger
	now         func() time.Time
	tokenRepo   repository.TokenRepository
	insightRepo repository.InsightRepository
	predictions PredictionService
}

func NewInsightService(cfg config.Gemini, log *logger.Logger, tokenRepo repository.TokenRepository, insightRepo repository.InsightRepository, predictions PredictionService) InsightService {
	return &insightService{
		cfg:         cfg,
		log:         log,
		now:         time.Now,
		tokenRepo:   tokenRepo,
		insightRepo: insightRepo,
		predictions: predictions,
	}
}

// Describe reuses a stored insight younger than the configured TTL.
func (s *insightService) Describe(ctx context.Context, slug string) (*dto.InsightResponse, error) {
	token, err := s.tokenRepo.GetBySlug(ctx, utils.NormalizeSlug(slug))
	if err != nil {
		return nil, err
	}

	ttl := s.cfg.InsightTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	latest, err := s.insightRepo.GetLatest(ctx, token.Slug, s.now().Add(-ttl))
	if err != nil {
		s.log.WarnContext(ctx, "Failed to read stored insight", logger.StringField("slug", token.Slug), logger.ErrorField(err))
	}
	if latest != nil {
		return toInsightResponse(latest), nil
	}

	overview, err := s.predictions.GetOverview(ctx, token.Slug)
	if err != nil {
		return nil, err
	}
	insight, err := s.insightRepo.Describe(ctx, *token, *overview)
	if err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "Generated insight", logger.StringField("slug", token.Slug), logger.IntField("total_tokens", insight.TotalTokens))
	return toInsightResponse(insight), nil
}

func toInsightResponse(in *model.CoinInsight) *dto.InsightResponse {
	return &dto.InsightResponse{
		Slug:      in.TokenSlug,
		Model:     in.Model,
		Content:   in.Content,
		CreatedAt: in.CreatedAt,
	}
}
