package http

import (
	"fmt"

	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/internal/dto"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

func (h *HttpAPIHandler) SetupConverter(base *echo.Group) {
	v1 := base.Group("/v1")
	{
		v1.GET("/convert", h.Convert)
	}
}

func (h *HttpAPIHandler) Convert(c echo.Context) error {
	var req dto.ConvertRequest
	if err := h.bindRequest(c, &req); err != nil {
		return h.errorResponse(c, err)
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return h.errorResponse(c, fmt.Errorf("%w: amount: %v", errBadRequest, err))
	}
	res, err := h.service.ConverterService.Convert(c.Request().Context(), req.From, req.To, amount)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return h.successResponse(c, res)
}
