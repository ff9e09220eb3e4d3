package service

import (
	"context"
	"fmt"

	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/internal/dto"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/internal/prediction"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/internal/repository"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/pkg/common"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/pkg/logger"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/pkg/utils"
	"github.com/shopspring/decimal"
)

type ConverterService interface {
	Convert(ctx context.Context, from, to string, amount decimal.Decimal) (*dto.ConvertResponse, error)
}

type converterService struct {
	log            *logger.Logger
	tokenRepo      repository.TokenRepository
	marketDataRepo repository.MarketDataRepository
}

func NewConverterService(log *logger.Logger, tokenRepo repository.TokenRepository, marketDataRepo repository.MarketDataRepository) ConverterService {
	return &converterService{
		log:            log,
		tokenRepo:      tokenRepo,
		marketDataRepo: marketDataRepo,
	}
}

// resolve maps a slug to its provider id. USD maps to the empty id.
func (s *converterService) resolve(ctx context.Context, slug string) (string, error) {
	if slug == common.FIAT_USD {
		return "", nil
	}
	token, err := s.tokenRepo.GetBySlug(ctx, slug)
	if err != nil {
		return "", err
	}
	return token.CoinGeckoID, nil
}

// Convert prices amount of from in units of to, going through USD.
func (s *converterService) Convert(ctx context.Context, from, to string, amount decimal.Decimal) (*dto.ConvertResponse, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", prediction.ErrInvalidInput)
	}
	from, to = utils.NormalizeSlug(from), utils.NormalizeSlug(to)

	fromID, err := s.resolve(ctx, from)
	if err != nil {
		return nil, err
	}
	toID, err := s.resolve(ctx, to)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, 2)
	for _, id := range []string{fromID, toID} {
		if id != "" && !utils.ContainsString(ids, id) {
			ids = append(ids, id)
		}
	}
	prices, err := s.marketDataRepo.GetPrices(ctx, ids, common.FIAT_USD)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to fetch conversion prices", logger.StringField("from", from), logger.StringField("to", to), logger.ErrorField(err))
		return nil, err
	}

	usdPrice := func(id, slug string) (decimal.Decimal, error) {
		if id == "" {
			return decimal.NewFromInt(1), nil
		}
		p, ok := prices[id]
		if !ok || p <= 0 {
			return decimal.Zero, fmt.Errorf("%w: %s", ErrPriceUnavailable, slug)
		}
		return decimal.NewFromFloat(p), nil
	}

	fromUSD, err := usdPrice(fromID, from)
	if err != nil {
		return nil, err
	}
	toUSD, err := usdPrice(toID, to)
	if err != nil {
		return nil, err
	}

	rate := fromUSD.Div(toUSD)
	return &dto.ConvertResponse{
		From:   from,
		To:     to,
		Amount: amount,
		Rate:   rate,
		Result: amount.Mul(fromUSD).Div(toUSD),
	}, nil
}
