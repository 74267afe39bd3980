package yahoo

import (
	"errors"
	"fmt"
	"math"

	"METI/internal/domain/models"
)

// window is the chart request used to derive one timeframe's change: fetch
// Range at Interval bars and compare the last close with the close
// Lookback bars from the end.
type window struct {
	Range    string
	Interval string
	Lookback int
}

var windows = map[models.Timeframe]window{
	models.TF1h:  {Range: "1d", Interval: "5m", Lookback: 12},
	models.TF4h:  {Range: "5d", Interval: "15m", Lookback: 16},
	models.TF1d:  {Range: "5d", Interval: "1h", Lookback: 24},
	models.TF1wk: {Range: "1mo", Interval: "1d", Lookback: 5},
}

// minCloses is the shortest series worth measuring; shorter ones count as
// a flat market rather than a failure.
const minCloses = 5

var (
	errEmptyChart  = errors.New("empty chart result")
	errShortSeries = errors.New("not enough closes for lookback")
	errZeroStart   = errors.New("zero start price")
)

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

func (e *chartError) Error() string {
	return fmt.Sprintf("yahoo chart error %s: %s", e.Code, e.Description)
}

type chartResult struct {
	Meta struct {
		Symbol             string  `json:"symbol"`
		RegularMarketPrice float64 `json:"regularMarketPrice"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Close []*float64 `json:"close"`
		} `json:"quote"`
		AdjClose []struct {
			AdjClose []*float64 `json:"adjclose"`
		} `json:"adjclose"`
	} `json:"indicators"`
}

// closes returns the usable close series, preferring adjusted closes.
// Null and non-finite bars are dropped.
func (r *chartResponse) closes() ([]float64, error) {
	if r.Chart.Error != nil {
		return nil, r.Chart.Error
	}
	if len(r.Chart.Result) == 0 {
		return nil, errEmptyChart
	}
	res := r.Chart.Result[0]

	var raw []*float64
	if len(res.Indicators.AdjClose) > 0 && len(res.Indicators.AdjClose[0].AdjClose) > 0 {
		raw = res.Indicators.AdjClose[0].AdjClose
	} else if len(res.Indicators.Quote) > 0 {
		raw = res.Indicators.Quote[0].Close
	}

	out := make([]float64, 0, len(raw))
	for _, v := range raw {
		if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
			continue
		}
		out = append(out, *v)
	}
	return out, nil
}

// changeOverWindow is the percent move from closes[n-lookback] to the last
// close. Series shorter than minCloses read as flat.
func changeOverWindow(closes []float64, lookback int) (float64, error) {
	n := len(closes)
	if n < minCloses {
		return 0, nil
	}
	if lookback <= 0 || n < lookback {
		return 0, fmt.Errorf("%w: have %d, need %d", errShortSeries, n, lookback)
	}
	start, end := closes[n-lookback], closes[n-1]
	if start == 0 {
		return 0, errZeroStart
	}
	return (end - start) / start * 100, nil
}
