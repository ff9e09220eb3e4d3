package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/config"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/internal/dto"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/internal/model"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/internal/prediction"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/pkg/logger"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/pkg/ratelimit"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
	"gorm.io/gorm"
)

// InsightRepository produces and stores AI commentary for a coin page.
type InsightRepository interface {
	Describe(ctx context.Context, token model.Token, overview dto.CoinOverview) (*model.CoinInsight, error)
	// GetLatest returns nil without error when nothing newer than since exists.
	GetLatest(ctx context.Context, slug string, since time.Time) (*model.CoinInsight, error)
	DeleteOlderThan(ctx context.Context, date time.Time) (int64, error)
}

// TextGenerator is the slice of a language model client the repository needs.
type TextGenerator interface {
	CountTokens(ctx context.Context, prompt string) (int, error)
	Generate(ctx context.Context, prompt string) (string, error)
}

type genaiGenerator struct {
	client *genai.Client
	model  string
}

func (g *genaiGenerator) CountTokens(ctx context.Context, prompt string) (int, error) {
	contents := []*genai.Content{genai.NewContentFromText(prompt, "user")}
	resp, err := g.client.Models.CountTokens(ctx, g.model, contents, nil)
	if err != nil {
		return 0, err
	}
	return int(resp.TotalTokens), nil
}

func (g *genaiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{genai.NewContentFromText(prompt, "user")}
	temperature := float32(0.4)
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		Temperature: &temperature,
	})
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

type insightRepository struct {
	db             *gorm.DB
	generator      TextGenerator
	cfg            config.Gemini
	logger         *logger.Logger
	tokenLimiter   *ratelimit.TokenLimiter
	requestLimiter *rate.Limiter
}

// NewInsightRepository returns a repository that fails with
// ErrInsightDisabled when no API key is configured.
func NewInsightRepository(ctx context.Context, db *gorm.DB, cfg config.Gemini, log *logger.Logger) (InsightRepository, error) {
	if cfg.APIKey == "" {
		log.Info("Gemini API key not set, insights disabled")
		return newInsightRepository(db, nil, cfg, log), nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return newInsightRepository(db, &genaiGenerator{client: client, model: cfg.BaseModel}, cfg, log), nil
}

func newInsightRepository(db *gorm.DB, generator TextGenerator, cfg config.Gemini, log *logger.Logger) *insightRepository {
	perMinute := cfg.MaxRequestPerMinute
	if perMinute <= 0 {
		perMinute = 10
	}
	tokens := cfg.MaxTokenPerMinute
	if tokens <= 0 {
		tokens = 100000
	}
	return &insightRepository{
		db:             db,
		generator:      generator,
		cfg:            cfg,
		logger:         log,
		tokenLimiter:   ratelimit.NewTokenLimiter(tokens),
		requestLimiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1),
	}
}

func (r *insightRepository) Describe(ctx context.Context, token model.Token, overview dto.CoinOverview) (*model.CoinInsight, error) {
	if r.generator == nil {
		return nil, ErrInsightDisabled
	}

	prompt := buildInsightPrompt(token, overview)
	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	totalTokens, err := r.generator.CountTokens(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to count tokens: %w", err)
	}
	if err := r.tokenLimiter.Wait(ctx, totalTokens); err != nil {
		return nil, fmt.Errorf("failed to wait for gemini token limit: %w", err)
	}
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for gemini request limit: %w", err)
	}
	r.logger.DebugContext(ctx, "Gemini token count",
		logger.IntField("total_tokens", totalTokens),
		logger.IntField("remaining", r.tokenLimiter.Remaining()),
	)

	text, err := r.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate insight: %w", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("gemini returned an empty insight")
	}

	insight := &model.CoinInsight{
		TokenSlug:   token.Slug,
		Model:       r.cfg.BaseModel,
		Prompt:      prompt,
		Content:     text,
		TotalTokens: totalTokens,
	}
	if err := r.db.WithContext(ctx).Create(insight).Error; err != nil {
		r.logger.ErrorContext(ctx, "Failed to store insight", logger.StringField("slug", token.Slug), logger.ErrorField(err))
		return nil, err
	}
	return insight, nil
}

func (r *insightRepository) GetLatest(ctx context.Context, slug string, since time.Time) (*model.CoinInsight, error) {
	var insights []model.CoinInsight
	err := r.db.WithContext(ctx).
		Where("token_slug = ? AND created_at >= ?", slug, since).
		Order("created_at DESC").
		Limit(1).
		Find(&insights).Error
	if err != nil {
		return nil, err
	}
	if len(insights) == 0 {
		return nil, nil
	}
	return &insights[0], nil
}

func (r *insightRepository) DeleteOlderThan(ctx context.Context, date time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("created_at < ?", date).Delete(&model.CoinInsight{})
	return res.RowsAffected, res.Error
}

func buildInsightPrompt(token model.Token, o dto.CoinOverview) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(
		"You are a crypto market analyst writing a short, neutral summary for the %s (%s) price prediction page.\n\n",
		token.Name, strings.ToUpper(token.Symbol),
	))
	sb.WriteString("### Data\n")
	sb.WriteString(fmt.Sprintf("- Current price: %.8g USD\n", o.CurrentPrice))
	sb.WriteString(fmt.Sprintf("- Sentiment: %s (score %.1f/100)\n", o.Sentiment.Label, o.Sentiment.Score))
	sb.WriteString(fmt.Sprintf("- RSI: %s\n", formatValue(o.Latest.RSI.Float64())))
	sb.WriteString(fmt.Sprintf("- MACD histogram: %s\n", formatValue(o.Latest.MACDHistogram.Float64())))
	sb.WriteString(fmt.Sprintf("- Annualised volatility: %.2f\n", o.Latest.Volatility))
	if len(o.Supports) > 0 {
		sb.WriteString(fmt.Sprintf("- Support levels: %v\n", o.Supports))
	}
	if len(o.Resistances) > 0 {
		sb.WriteString(fmt.Sprintf("- Resistance levels: %v\n", o.Resistances))
	}

	sb.WriteString("\n### Model projections\n")
	for _, h := range predictionHorizons(o) {
		sb.WriteString(h)
	}

	sb.WriteString(`
### Rules
- Write 2 short paragraphs, plain text, no markdown headings.
- Explain what the indicators suggest, then put the projections in context.
- Always state that projections are model estimates and not financial advice.
`)
	return sb.String()
}

func predictionHorizons(o dto.CoinOverview) []string {
	lines := make([]string, 0, len(o.Horizons))
	for _, h := range prediction.StandardHorizons {
		res, ok := o.Horizons[h]
		if !ok {
			continue
		}
		lines = append(lines, fmt.Sprintf("- %s: %.8g USD (range %.8g - %.8g, confidence %.0f%%)\n",
			h, res.Price, res.MinPrice, res.MaxPrice, res.Confidence))
	}
	return lines
}

func formatValue(v float64, ok bool) string {
	if !ok {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v)
}
