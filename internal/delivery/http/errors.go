package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/internal/dto"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/internal/prediction"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/internal/repository"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/internal/service"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/pkg/logger"
	"github.com/labstack/echo/v4"
)

var errBadRequest = errors.New("bad request")

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, prediction.ErrInvalidInput),
		errors.Is(err, service.ErrUnknownJob):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrTokenNotFound),
		errors.Is(err, prediction.ErrNoPrediction):
		return http.StatusNotFound
	case errors.Is(err, service.ErrJobRunning):
		return http.StatusConflict
	case errors.Is(err, repository.ErrInsightDisabled),
		errors.Is(err, service.ErrPriceUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// bindRequest binds path, query and body into req and validates it.
func (h *HttpAPIHandler) bindRequest(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

func (h *HttpAPIHandler) errorResponse(c echo.Context, err error) error {
	code := statusFor(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		h.log.FromContext(c.Request().Context()).Error("Request failed", logger.ErrorField(err))
		message = http.StatusText(code)
	}
	return c.JSON(code, dto.NewBaseResponse(code, message, nil))
}

func (h *HttpAPIHandler) successResponse(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("success", data))
}
