package http

import (
	"context"
	"time"

	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/internal/dto"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/pkg/logger"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	liveWriteWait  = 10 * time.Second
	livePongWait   = 60 * time.Second
	livePingPeriod = livePongWait * 9 / 10
	liveReadLimit  = 512
)

// Live streams price and sentiment ticks for a coin over a websocket. The
// first tick is resolved before upgrading so unknown coins get a JSON error.
func (h *HttpAPIHandler) Live(c echo.Context) error {
	var req dto.CoinPathParam
	if err := h.bindRequest(c, &req); err != nil {
		return h.errorResponse(c, err)
	}
	ctx := c.Request().Context()
	first, err := h.service.PredictionService.GetLiveTick(ctx, req.Slug)
	if err != nil {
		return h.errorResponse(c, err)
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.log.WarnContext(ctx, "Websocket upgrade failed", logger.ErrorField(err))
		return nil
	}
	defer conn.Close()

	h.metrics.LiveClients.Inc()
	defer h.metrics.LiveClients.Dec()

	h.streamTicks(ctx, conn, first)
	return nil
}

func (h *HttpAPIHandler) streamTicks(ctx context.Context, conn *websocket.Conn, first *dto.LiveTick) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The read side only drains control frames and notices the peer leaving.
	go func() {
		defer cancel()
		conn.SetReadLimit(liveReadLimit)
		_ = conn.SetReadDeadline(time.Now().Add(livePongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(livePongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	interval := h.cfg.LiveInterval
	if interval <= 0 {
		interval = 15 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	ping := time.NewTicker(livePingPeriod)
	defer ping.Stop()

	if err := writeTick(conn, first); err != nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(liveWriteWait))
			return
		case <-ticker.C:
			tick, err := h.service.PredictionService.GetLiveTick(ctx, first.Slug)
			if err != nil {
				h.log.WarnContext(ctx, "Failed to refresh live tick", logger.StringField("slug", first.Slug), logger.ErrorField(err))
				continue
			}
			if err := writeTick(conn, tick); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(liveWriteWait)); err != nil {
				return
			}
		}
	}
}

func writeTick(conn *websocket.Conn, tick *dto.LiveTick) error {
	_ = conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
	return conn.WriteJSON(tick)
}
