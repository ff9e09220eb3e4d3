package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/internal/model"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/internal/prediction"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/pkg/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PredictionRepository interface {
	SaveYearly(ctx context.Context, slug string, currentPrice float64, table prediction.YearlyTable, generatedAt time.Time, opts ...utils.DBOption) error
	// GetYearly returns the stored years in [fromYear, toYear]. A zero bound is open.
	GetYearly(ctx context.Context, slug string, fromYear, toYear int, opts ...utils.DBOption) (prediction.YearlyTable, float64, error)
}

type predictionRepository struct {
	db *gorm.DB
}

func NewPredictionRepository(db *gorm.DB) PredictionRepository {
	return &predictionRepository{db: db}
}

// SaveYearly upserts one row per year.
func (r *predictionRepository) SaveYearly(ctx context.Context, slug string, currentPrice float64, table prediction.YearlyTable, generatedAt time.Time, opts ...utils.DBOption) error {
	if len(table) == 0 {
		return nil
	}

	rows := make([]model.YearlyPrediction, 0, len(table))
	for _, year := range table.Years() {
		months, err := json.Marshal(table[year])
		if err != nil {
			return fmt.Errorf("failed to encode %d predictions for %s: %w", year, slug, err)
		}
		rows = append(rows, model.YearlyPrediction{
			TokenSlug:    slug,
			Year:         year,
			Months:       months,
			CurrentPrice: currentPrice,
			GeneratedAt:  generatedAt,
		})
	}

	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "token_slug"}, {Name: "year"}},
			DoUpdates: clause.AssignmentColumns([]string{"months", "current_price", "generated_at", "updated_at"}),
		}).
		Create(&rows).Error
}

func (r *predictionRepository) GetYearly(ctx context.Context, slug string, fromYear, toYear int, opts ...utils.DBOption) (prediction.YearlyTable, float64, error) {
	var rows []model.YearlyPrediction
	db := utils.ApplyOptions(r.db.WithContext(ctx), opts...).Where("token_slug = ?", slug)
	if fromYear > 0 {
		db = db.Where("year >= ?", fromYear)
	}
	if toYear > 0 {
		db = db.Where("year <= ?", toYear)
	}
	if err := db.Order("year ASC").Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	table := make(prediction.YearlyTable, len(rows))
	var currentPrice float64
	var latest time.Time
	for _, row := range rows {
		var months []prediction.MonthlyPrediction
		if err := json.Unmarshal(row.Months, &months); err != nil {
			return nil, 0, fmt.Errorf("failed to decode %d predictions for %s: %w", row.Year, slug, err)
		}
		sort.Slice(months, func(i, j int) bool { return months[i].Month < months[j].Month })
		table[row.Year] = months
		if row.GeneratedAt.After(latest) {
			latest = row.GeneratedAt
			currentPrice = row.CurrentPrice
		}
	}
	return table, currentPrice, nil
}
