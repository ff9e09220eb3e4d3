package strategy

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/config"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/internal/model"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/internal/repository"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/pkg/logger"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/pkg/utils"
	"golang.org/x/sync/errgroup"
)

// YearlyGenerator computes and stores the multi-year table of one token.
type YearlyGenerator interface {
	GenerateYearly(ctx context.Context, token model.Token) (int, error)
}

type YearlyPredictionResult struct {
	Slug  string `json:"slug"`
	Years int    `json:"years"`
	Error string `json:"error,omitempty"`
}

type YearlyPredictionStrategy struct {
	cfg       config.Scheduler
	logger    *logger.Logger
	tokenRepo repository.TokenRepository
	generator YearlyGenerator
}

func NewYearlyPredictionStrategy(cfg config.Scheduler, log *logger.Logger, tokenRepo repository.TokenRepository, generator YearlyGenerator) JobExecutionStrategy {
	return &YearlyPredictionStrategy{
		cfg:       cfg,
		logger:    log,
		tokenRepo: tokenRepo,
		generator: generator,
	}
}

func (s *YearlyPredictionStrategy) GetType() JobType {
	return JobTypeYearlyPrediction
}

// Execute refreshes the stored tables of the top ranked tokens. One token
// failing does not stop the others.
func (s *YearlyPredictionStrategy) Execute(ctx context.Context) (JobResult, error) {
	tokens, err := s.tokenRepo.List(ctx, model.ListTokenParam{Limit: s.cfg.TopTokens, ActiveOnly: true})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list tokens", logger.ErrorField(err))
		return JobResult{ExitCode: JOB_EXIT_CODE_FAILED, Output: fmt.Sprintf("failed to list tokens: %v", err)}, fmt.Errorf("failed to list tokens: %w", err)
	}
	if len(tokens) == 0 {
		s.logger.InfoContext(ctx, "No tokens to predict")
		return JobResult{ExitCode: JOB_EXIT_CODE_SKIPPED, Output: "no tokens to predict"}, nil
	}

	limit := s.cfg.MaxConcurrency
	if limit <= 0 {
		limit = 1
	}

	var (
		mu      sync.Mutex
		results = make([]YearlyPredictionResult, 0, len(tokens))
		success int
		failed  int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	s.logger.InfoContext(ctx, "Start generating yearly predictions",
		logger.IntField("total_token", len(tokens)),
		logger.IntField("max_concurrency", limit),
	)

	for _, token := range tokens {
		if !utils.ShouldContinue(gctx, s.logger) {
			break
		}
		g.Go(func() error {
			res := YearlyPredictionResult{Slug: token.Slug}
			years, err := s.generator.GenerateYearly(gctx, token)
			if err != nil {
				s.logger.WarnContext(gctx, "Failed to generate yearly prediction",
					logger.StringField("slug", token.Slug),
					logger.ErrorField(err),
				)
				res.Error = err.Error()
			}
			res.Years = years

			mu.Lock()
			defer mu.Unlock()
			results = append(results, res)
			if err != nil {
				failed++
			} else {
				success++
			}
			return nil
		})
	}
	_ = g.Wait()

	s.logger.InfoContext(ctx, "Yearly predictions completed",
		logger.IntField("success", success),
		logger.IntField("failed", failed),
	)

	out, err := json.Marshal(results)
	if err != nil {
		return JobResult{ExitCode: JOB_EXIT_CODE_FAILED, Output: fmt.Sprintf("failed to marshal results: %v", err)}, fmt.Errorf("failed to marshal results: %w", err)
	}
	return JobResult{ExitCode: exitCodeFor(success, failed), Output: string(out)}, nil
}
