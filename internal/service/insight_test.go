package service

import (
	"context"
	"testing"
	"time"

	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/internal/model"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/internal/repository"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInsightService(t *testing.T, repo *fakeInsightRepo) *insightService {
	t.Helper()
	f := newPredictionFixture(t)
	svc := NewInsightService(testConfig().Gemini, logger.NewNop(), newFakeTokenRepo("bitcoin"), repo, f.svc).(*insightService)
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestInsightService_Describe(t *testing.T) {
	ctx := context.Background()

	t.Run("reuses fresh insight", func(t *testing.T) {
		repo := &fakeInsightRepo{latest: &model.CoinInsight{
			TokenSlug: "bitcoin",
			Content:   "cached",
			CreatedAt: testNow.Add(-30 * time.Minute),
		}}
		svc := newTestInsightService(t, repo)

		res, err := svc.Describe(ctx, "bitcoin")
		require.NoError(t, err)
		assert.Equal(t, "cached", res.Content)
		assert.Equal(t, 0, repo.generated)
	})

	t.Run("generates when stale", func(t *testing.T) {
		repo := &fakeInsightRepo{latest: &model.CoinInsight{
			TokenSlug: "bitcoin",
			Content:   "stale",
			CreatedAt: testNow.Add(-2 * time.Hour),
		}}
		svc := newTestInsightService(t, repo)

		res, err := svc.Describe(ctx, "bitcoin")
		require.NoError(t, err)
		assert.Equal(t, "bitcoin trades at 160", res.Content)
		assert.Equal(t, "test-model", res.Model)
		assert.Equal(t, 1, repo.generated)
	})

	t.Run("disabled", func(t *testing.T) {
		svc := newTestInsightService(t, &fakeInsightRepo{err: repository.ErrInsightDisabled})
		_, err := svc.Describe(ctx, "bitcoin")
		assert.ErrorIs(t, err, repository.ErrInsightDisabled)
	})

	t.Run("unknown token", func(t *testing.T) {
		svc := newTestInsightService(t, &fakeInsightRepo{})
		_, err := svc.Describe(ctx, "dogecoin")
		assert.ErrorIs(t, err, repository.ErrTokenNotFound)
	})
}
