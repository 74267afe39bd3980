package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	applogger "METI/pkg/logger"
)

func newEcho(mw ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.Use(mw...)
	e.GET("/ok", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/boom", func(c echo.Context) error { panic("kaboom") })
	e.GET("/fail", func(c echo.Context) error { return echo.NewHTTPError(http.StatusBadGateway, "upstream") })
	return e
}

func serve(e *echo.Echo, method, path string, hdr map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRecover_ReturnsEnvelope(t *testing.T) {
	var buf bytes.Buffer
	e := newEcho(Recover(applogger.NewWriter(&buf, "info")))

	rec := serve(e, http.MethodGet, "/boom", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":500`)
	assert.Contains(t, buf.String(), "panic recovered")
	assert.Contains(t, buf.String(), "kaboom")
}

func TestRequestLogging_LogsServerErrors(t *testing.T) {
	var buf bytes.Buffer
	e := newEcho(RequestLogging(applogger.NewWriter(&buf, "info")))

	rec := serve(e, http.MethodGet, "/fail", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, buf.String(), "http request failed")
	assert.Contains(t, buf.String(), `"route":"/fail"`)

	buf.Reset()
	serve(e, http.MethodGet, "/ok", nil)
	assert.Zero(t, buf.Len(), "2xx only logs at debug")
}

func TestMetrics_PassesThrough(t *testing.T) {
	var buf bytes.Buffer
	e := newEcho(Metrics(applogger.NewWriter(&buf, "info"), time.Nanosecond))

	rec := serve(e, http.MethodGet, "/ok", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, buf.String(), "http request slow")
}

func TestCORS(t *testing.T) {
	e := newEcho(CORS(CORSConfig{
		AllowOrigins: []string{"https://dash.example"},
		AllowMethods: []string{http.MethodGet},
		AllowHeaders: []string{echo.HeaderContentType},
	}))

	rec := serve(e, http.MethodGet, "/ok", map[string]string{echo.HeaderOrigin: "https://dash.example"})
	assert.Equal(t, "https://dash.example", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))

	rec = serve(e, http.MethodGet, "/ok", map[string]string{echo.HeaderOrigin: "https://evil.example"})
	assert.Empty(t, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))

	rec = serve(e, http.MethodOptions, "/ok", map[string]string{echo.HeaderOrigin: "https://dash.example"})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "GET", rec.Header().Get(echo.HeaderAccessControlAllowMethods))
}

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "2xx", statusClass(204))
	assert.Equal(t, "4xx", statusClass(429))
	assert.Equal(t, "5xx", statusClass(0))
}
