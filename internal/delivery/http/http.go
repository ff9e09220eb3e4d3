package http

import (
	"net/http"

	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/config"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/internal/service"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/pkg/logger"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/pkg/metrics"
	goValidator "github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

type HttpAPIHandler struct {
	cfg       config.API
	log       *logger.Logger
	metrics   *metrics.Metrics
	echo      *echo.Echo
	validator *goValidator.Validate
	service   *service.Service
	upgrader  websocket.Upgrader
}

func NewHttpAPIHandler(
	cfg config.API,
	log *logger.Logger,
	m *metrics.Metrics,
	echo *echo.Echo,
	validator *goValidator.Validate,
	service *service.Service,
) *HttpAPIHandler {
	return &HttpAPIHandler{
		cfg:       cfg,
		log:       log,
		metrics:   m,
		echo:      echo,
		validator: validator,
		service:   service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (h *HttpAPIHandler) SetupRoutes() {
	base := h.echo.Group("/api")
	h.SetupCoins(base)
	h.SetupConverter(base)
	h.SetupJobs(base)
}
