package http

import (
	"fmt"

	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/internal/dto"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/pkg/utils"
	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupCoins(base *echo.Group) {
	v1 := base.Group("/v1/coins/:slug")
	{
		v1.GET("/indicators", h.GetIndicators)
		v1.GET("/prediction", h.GetOverview)
		v1.GET("/prediction/target", h.GetTargetPrediction)
		v1.GET("/prediction/yearly", h.GetYearly)
		v1.POST("/investment", h.ProjectInvestment)
		v1.GET("/insight", h.GetInsight)
		v1.GET("/live", h.Live)
	}
}

func (h *HttpAPIHandler) GetIndicators(c echo.Context) error {
	var req dto.IndicatorsRequest
	if err := h.bindRequest(c, &req); err != nil {
		return h.errorResponse(c, err)
	}
	res, err := h.service.PredictionService.GetIndicators(c.Request().Context(), req.Slug, req.Days)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return h.successResponse(c, res)
}

func (h *HttpAPIHandler) GetOverview(c echo.Context) error {
	var req dto.CoinPathParam
	if err := h.bindRequest(c, &req); err != nil {
		return h.errorResponse(c, err)
	}
	res, err := h.service.PredictionService.GetOverview(c.Request().Context(), req.Slug)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return h.successResponse(c, res)
}

func (h *HttpAPIHandler) GetTargetPrediction(c echo.Context) error {
	var req dto.TargetPredictionRequest
	if err := h.bindRequest(c, &req); err != nil {
		return h.errorResponse(c, err)
	}
	target, err := utils.ParseDate(req.Date)
	if err != nil {
		return h.errorResponse(c, fmt.Errorf("%w: %v", errBadRequest, err))
	}
	res, err := h.service.PredictionService.Predict(c.Request().Context(), req.Slug, target)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return h.successResponse(c, res)
}

func (h *HttpAPIHandler) GetYearly(c echo.Context) error {
	var req dto.YearlyRequest
	if err := h.bindRequest(c, &req); err != nil {
		return h.errorResponse(c, err)
	}
	res, err := h.service.PredictionService.GetYearly(c.Request().Context(), req.Slug, req.From, req.To)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return h.successResponse(c, res)
}

func (h *HttpAPIHandler) ProjectInvestment(c echo.Context) error {
	var req dto.InvestmentRequest
	if err := h.bindRequest(c, &req); err != nil {
		return h.errorResponse(c, err)
	}
	target, err := utils.ParseDate(req.TargetDate)
	if err != nil {
		return h.errorResponse(c, fmt.Errorf("%w: %v", errBadRequest, err))
	}
	res, err := h.service.PredictionService.ProjectInvestment(c.Request().Context(), req.Slug, req.Amount, target)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return h.successResponse(c, res)
}

func (h *HttpAPIHandler) GetInsight(c echo.Context) error {
	var req dto.CoinPathParam
	if err := h.bindRequest(c, &req); err != nil {
		return h.errorResponse(c, err)
	}
	res, err := h.service.InsightService.Describe(c.Request().Context(), req.Slug)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return h.successResponse(c, res)
}
