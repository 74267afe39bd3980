package stream

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"METI/internal/domain/models"
	domrepo "METI/internal/domain/repository"
	domsvc "METI/internal/domain/service"
	"METI/internal/handler/api"
	apimetrics "METI/internal/service/metrics"
	xhttp "METI/pkg/http"
	xlogger "METI/pkg/logger"
)

const writeWait = 10 * time.Second

// IndexStreamHandler pushes a freshly computed index to each WebSocket
// client on a fixed cadence. Geo inputs are fixed per connection by the
// query string; reconnect to change them.
type IndexStreamHandler struct {
	logger   *xlogger.Logger
	svc      domsvc.IndexService
	defaults models.GeoInputs
	interval time.Duration
	upgrader websocket.Upgrader
}

func NewIndexStreamHandler(logger *xlogger.Logger, svc domsvc.IndexService, defaults models.GeoInputs, interval time.Duration) *IndexStreamHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}
	apimetrics.Register()
	return &IndexStreamHandler{
		logger:   logger,
		svc:      svc,
		defaults: defaults,
		interval: interval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

func (h *IndexStreamHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws/index", h.Stream)
}

func (h *IndexStreamHandler) Stream(c echo.Context) error {
	req := &models.StreamRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	geo := api.GeoFromRequest(&req.IndexRequest, h.defaults)
	tf := domrepo.NormalizeTimeframe(req.TF)
	interval := h.interval
	if req.IntervalSec > 0 {
		interval = time.Duration(req.IntervalSec) * time.Second
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade already wrote the HTTP error
		h.logger.Debug("websocket upgrade failed", xlogger.Error(err))
		return nil
	}
	defer conn.Close()

	apimetrics.StreamClients.Inc()
	defer apimetrics.StreamClients.Dec()

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	// Clients never send anything meaningful; reading is how we notice a close.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := h.push(ctx, conn, geo, tf); err != nil {
			if !errors.Is(err, context.Canceled) && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Warn("index stream ended", xlogger.Error(err))
			}
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (h *IndexStreamHandler) push(ctx context.Context, conn *websocket.Conn, geo models.GeoInputs, tf models.Timeframe) error {
	idx, err := h.svc.Compute(ctx, geo, tf)
	if err != nil {
		return err
	}
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(idx)
}
