package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/internal/model"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/pkg/utils"
	"gorm.io/gorm"
)

type TokenRepository interface {
	GetBySlug(ctx context.Context, slug string, opts ...utils.DBOption) (*model.Token, error)
	List(ctx context.Context, param model.ListTokenParam, opts ...utils.DBOption) ([]model.Token, error)
}

type tokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) GetBySlug(ctx context.Context, slug string, opts ...utils.DBOption) (*model.Token, error) {
	var token model.Token
	err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Where("slug = ?", slug).
		First(&token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrTokenNotFound, slug)
	}
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// List returns tokens ordered by market rank.
func (r *tokenRepository) List(ctx context.Context, param model.ListTokenParam, opts ...utils.DBOption) ([]model.Token, error) {
	var tokens []model.Token
	opts = append(opts, utils.WithOrder("rank ASC, id ASC"), utils.WithLimit(param.Limit))
	if param.ActiveOnly {
		opts = append(opts, utils.WithWhere("is_active = ?", true))
	}
	if err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).Find(&tokens).Error; err != nil {
		return nil, err
	}
	return tokens, nil
}
