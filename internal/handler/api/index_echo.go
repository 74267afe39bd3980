package api

import (
	"math"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"METI/internal/domain/models"
	domrepo "METI/internal/domain/repository"
	domsvc "METI/internal/domain/service"
	apimetrics "METI/internal/service/metrics"
	"METI/internal/service/ratelimit"
	"METI/internal/services/scoring"
	xhttp "METI/pkg/http"
	xlogger "METI/pkg/logger"
	"METI/pkg/util"
)

// CatalogResponse describes what the index is built from.
type CatalogResponse struct {
	Instruments []models.Instrument       `json:"instruments"`
	Timeframes  []scoring.TimeframeWeight `json:"timeframes"`
	Military    []string                  `json:"military_levels"`
	Alert       []string                  `json:"alert_levels"`
}

// IndexEchoHandler serves the dashboard's JSON API.
type IndexEchoHandler struct {
	logger   *xlogger.Logger
	svc      domsvc.IndexService
	weights  []scoring.TimeframeWeight
	defaults models.GeoInputs
	limiter  *ratelimit.Limiter
}

func NewIndexEchoHandler(logger *xlogger.Logger, svc domsvc.IndexService, weights []scoring.TimeframeWeight, defaults models.GeoInputs, limiter *ratelimit.Limiter) *IndexEchoHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	apimetrics.Register()
	return &IndexEchoHandler{logger: logger, svc: svc, weights: weights, defaults: defaults, limiter: limiter}
}

func (h *IndexEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/index", h.Index)
	g.GET("/catalog", h.Catalog)
	g.GET("/defaults", h.Defaults)
	g.POST("/refresh", h.Refresh)
}

// Index computes the tension index for the query's geo inputs. Missing
// geo parameters take the configured defaults.
func (h *IndexEchoHandler) Index(c echo.Context) error {
	start := time.Now()
	defer apimetrics.Observe("index", start)

	req := &models.IndexRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		apimetrics.Fail("index", "validation")
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.svc.Compute(c.Request().Context(), GeoFromRequest(req, h.defaults), domrepo.NormalizeTimeframe(req.TF))
	if err != nil {
		apimetrics.Fail("index", "compute")
		h.logger.Warn("index compute aborted", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.UnavailableError("index computation aborted").WithError(err))
	}

	c.Response().Header().Set("Cache-Control", "no-store")
	return xhttp.SuccessResponse(c, res)
}

func (h *IndexEchoHandler) Catalog(c echo.Context) error {
	c.Response().Header().Set("Cache-Control", "public, max-age=3600")
	return xhttp.SuccessResponse(c, CatalogResponse{
		Instruments: h.svc.Instruments(),
		Timeframes:  h.weights,
		Military:    levelNames(models.MilitaryLevels()),
		Alert:       levelNames(models.AlertLevels()),
	})
}

// Defaults is what the dashboard's reset button restores.
func (h *IndexEchoHandler) Defaults(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.defaults)
}

// Refresh drops cached market data. Rate limited per client IP.
func (h *IndexEchoHandler) Refresh(c echo.Context) error {
	if h.limiter != nil {
		if ok, wait := h.limiter.Allow(c.RealIP()); !ok {
			apimetrics.Fail("refresh", "rate_limited")
			c.Response().Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("refresh rate limit exceeded").
				WithParam("retry_after_seconds", math.Ceil(wait.Seconds())))
		}
	}

	if err := h.svc.Refresh(c.Request().Context()); err != nil {
		apimetrics.Fail("refresh", "invalidate")
		h.logger.Error("refresh failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("refresh failed").WithError(err))
	}
	return xhttp.AcceptedResponse(c, map[string]string{"status": "refreshing"})
}

// GeoFromRequest overlays the request's explicit values on defaults.
func GeoFromRequest(req *models.IndexRequest, defaults models.GeoInputs) models.GeoInputs {
	geo := defaults
	geo.Carriers = util.ParseIntDefault(req.Carriers, defaults.Carriers)
	geo.Sentiment = util.ParseFloatDefault(req.Sentiment, defaults.Sentiment)
	geo.Military = models.ParseMilitaryLevel(util.FirstNonEmpty(req.Military, defaults.Military.String()))
	geo.Alert = models.ParseAlertLevel(util.FirstNonEmpty(req.Alert, defaults.Alert.String()))
	return geo
}

func levelNames[T interface{ String() string }](levels []T) []string {
	out := make([]string, len(levels))
	for i, l := range levels {
		out[i] = l.String()
	}
	return out
}
