package yahoo

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"METI/internal/domain/models"
	domrepo "METI/internal/domain/repository"
	xhttp "METI/pkg/http"
	applogger "METI/pkg/logger"
)

const DefaultBaseURL = "https://query1.finance.yahoo.com"

// Yahoo rejects the default Go user agent.
const userAgent = "Mozilla/5.0 (compatible; meti/1.0)"

// Client fetches multi-timeframe observations from the Yahoo chart API.
// All requests share one circuit breaker so a throttled upstream fails
// fast instead of stalling every refresh.
type Client struct {
	http       *xhttp.Client
	baseURL    string
	breaker    *gobreaker.CircuitBreaker
	timeframes []models.Timeframe
	metrics    domrepo.Metrics
	log        *applogger.Logger
	now        func() time.Time
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http = xhttp.NewClient(xhttp.WithTimeout(d), xhttp.WithHeader("User-Agent", userAgent))
		}
	}
}

// WithBreaker trips after maxFailures consecutive failures and stays open
// for openTimeout.
func WithBreaker(maxFailures uint32, openTimeout time.Duration) Option {
	return func(c *Client) { c.breaker = newBreaker(maxFailures, openTimeout) }
}

func WithMetrics(m domrepo.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

func WithLogger(l *applogger.Logger) Option {
	return func(c *Client) { c.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// WithTimeframes restricts which timeframes are fetched, in order.
func WithTimeframes(tfs []models.Timeframe) Option {
	return func(c *Client) { c.timeframes = append([]models.Timeframe(nil), tfs...) }
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		http:       xhttp.NewClient(xhttp.WithTimeout(10*time.Second), xhttp.WithHeader("User-Agent", userAgent)),
		baseURL:    DefaultBaseURL,
		breaker:    newBreaker(5, 30*time.Second),
		timeframes: []models.Timeframe{models.TF1h, models.TF4h, models.TF1d, models.TF1wk},
		log:        applogger.Nop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func newBreaker(maxFailures uint32, openTimeout time.Duration) *gobreaker.CircuitBreaker {
	if maxFailures == 0 {
		maxFailures = 5
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "yahoo-chart",
		Timeout: openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		// Unknown symbols and our own cancellations say nothing about upstream health.
		IsSuccessful: func(err error) bool {
			if err == nil || errors.Is(err, context.Canceled) {
				return true
			}
			var se *xhttp.StatusError
			if errors.As(err, &se) {
				return !se.Temporary()
			}
			var ce *chartError
			return errors.As(err, &ce)
		},
	})
}

// Fetch computes the percent change of symbol over every configured
// timeframe. Timeframes that cannot be computed are recorded on the
// observation's Errors; an error is returned only if none succeeded.
func (c *Client) Fetch(ctx context.Context, symbol string) (models.AssetObservation, error) {
	start := c.now()
	obs := models.NewAssetObservation(symbol)
	obs.FetchedAt = start

	var lastErr error
	for _, tf := range c.timeframes {
		w, ok := windows[tf]
		if !ok {
			obs.Errors[tf] = "unsupported timeframe"
			continue
		}

		closes, err := c.closes(ctx, symbol, w)
		if err == nil {
			var change float64
			change, err = changeOverWindow(closes, w.Lookback)
			if err == nil {
				obs.Changes[tf] = change
				if obs.Price == 0 && len(closes) >= minCloses {
					obs.Price = closes[len(closes)-1]
				}
				continue
			}
		}

		lastErr = err
		obs.Errors[tf] = err.Error()
		c.log.Debug("timeframe fetch failed",
			applogger.String("symbol", symbol),
			applogger.String("timeframe", string(tf)),
			applogger.Error(err),
		)
		if ctx.Err() != nil {
			break
		}
	}

	if c.metrics != nil {
		c.metrics.RecordLatency("yahoo_fetch", c.now().Sub(start).Seconds())
	}

	if len(obs.Changes) == 0 && lastErr != nil {
		return obs, fmt.Errorf("yahoo: %s: %w", symbol, lastErr)
	}
	return obs, nil
}

func (c *Client) closes(ctx context.Context, symbol string, w window) ([]float64, error) {
	out, err := c.breaker.Execute(func() (interface{}, error) {
		var resp chartResponse
		err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
			Method: xhttp.MethodGet,
			URL:    c.baseURL + "/v8/finance/chart/" + url.PathEscape(symbol),
			QueryParams: map[string][]string{
				"range":          {w.Range},
				"interval":       {w.Interval},
				"includePrePost": {"false"},
			},
		}, &resp)
		if err != nil {
			return nil, err
		}
		return resp.closes()
	})
	if err != nil {
		return nil, err
	}
	return out.([]float64), nil
}

// State reports the breaker state, for health output.
func (c *Client) State() string { return c.breaker.State().String() }
