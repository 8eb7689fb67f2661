package collector

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"resty.dev/v3"

	"TickerLens/internal/model"
)

const (
	defaultYahooBaseURL = "https://query1.finance.yahoo.com"

	defaultRetryCount       = 3
	defaultRetryWaitTime    = 1 * time.Second
	defaultRetryMaxWaitTime = 10 * time.Second
)

// YahooProvider implements Provider using the Yahoo Finance chart API.
type YahooProvider struct {
	client    *resty.Client
	limiter   *rate.Limiter
	SymbolMap map[string]string // maps index aliases to Yahoo tickers
}

// NewYahooProvider creates a Yahoo provider. An empty baseURL selects the
// public endpoint; ratePerSec <= 0 disables rate limiting.
func NewYahooProvider(baseURL, proxyURL string, ratePerSec float64) *YahooProvider {
	if baseURL == "" {
		baseURL = defaultYahooBaseURL
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "Mozilla/5.0").
		SetTimeout(30 * time.Second).
		SetRetryCount(defaultRetryCount).
		SetRetryWaitTime(defaultRetryWaitTime).
		SetRetryMaxWaitTime(defaultRetryMaxWaitTime).
		AddRetryConditions(retryCondition).
		AddRetryHooks(retryHook)
	if proxyURL != "" {
		client.SetProxy(proxyURL)
	}

	limit := rate.Inf
	if ratePerSec > 0 {
		limit = rate.Limit(ratePerSec)
	}
	return &YahooProvider{
		client:  client,
		limiter: rate.NewLimiter(limit, 1),
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
			"MERVAL": "^MERV",
		},
	}
}

func (p *YahooProvider) Name() string { return "yahoo" }

func (p *YahooProvider) yahooSymbol(symbol string) string {
	if mapped, ok := p.SymbolMap[strings.ToUpper(symbol)]; ok {
		return mapped
	}
	return symbol
}

// yahooChart is the response structure from Yahoo Finance chart API.
// Quote columns are decoded generically so nulls and absent columns survive.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []map[string][]interface{} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// History fetches the chart for symbol and returns it as a raw table.
func (p *YahooProvider) History(ctx context.Context, symbol string, period model.Period, interval model.Interval) (*model.RawSeries, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("yahoo rate limit: %w", err)
	}

	var chart yahooChart
	resp, err := p.client.R().
		SetContext(ctx).
		SetPathParam("symbol", p.yahooSymbol(symbol)).
		SetQueryParams(map[string]string{
			"range":    string(period),
			"interval": string(interval),
		}).
		SetResult(&chart).
		Get("/v8/finance/chart/{symbol}")
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch %s: %w", symbol, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, fmt.Errorf("yahoo %s: %w", symbol, ErrNoData)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("yahoo %s: status %d", symbol, resp.StatusCode())
	}
	if chart.Chart.Error != nil {
		log.Printf("[WARN] yahoo api error for %s: %s", symbol, chart.Chart.Error.Description)
		return nil, fmt.Errorf("yahoo %s: %s: %w", symbol, chart.Chart.Error.Description, ErrNoData)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, fmt.Errorf("yahoo %s: %w", symbol, ErrNoData)
	}
	return chartToSeries(symbol, chart)
}

func chartToSeries(symbol string, chart yahooChart) (*model.RawSeries, error) {
	result := chart.Chart.Result[0]
	n := len(result.Timestamp)

	quote := map[string][]interface{}{}
	if len(result.Indicators.Quote) > 0 {
		quote = result.Indicators.Quote[0]
	}

	series := &model.RawSeries{Symbol: symbol}
	columns := map[string][]interface{}{}
	for _, col := range model.RequiredColumns {
		values, ok := quote[strings.ToLower(col)]
		if !ok {
			continue
		}
		if len(values) != n {
			return nil, fmt.Errorf("yahoo %s: len(%s) = %d, len(timestamp) = %d", symbol, col, len(values), n)
		}
		series.Columns = append(series.Columns, col)
		columns[col] = values
	}

	byTime := make(map[int64]int, n)
	for i, ts := range result.Timestamp {
		rec := model.RawRecord{
			Time:   time.Unix(ts, 0).UTC(),
			Values: make(map[string]interface{}, len(columns)),
		}
		for col, values := range columns {
			rec.Values[col] = values[i]
		}
		// Yahoo may repeat the live bar; the later row wins.
		if idx, dup := byTime[ts]; dup {
			series.Records[idx] = rec
			continue
		}
		byTime[ts] = len(series.Records)
		series.Records = append(series.Records, rec)
	}

	sort.SliceStable(series.Records, func(i, j int) bool {
		return series.Records[i].Time.Before(series.Records[j].Time)
	})
	return series, nil
}

// retryCondition retries network errors, 408, 429 and 5xx responses.
func retryCondition(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	switch code := r.StatusCode(); {
	case code == http.StatusTooManyRequests, code == http.StatusRequestTimeout:
		return true
	case code >= 500:
		return true
	}
	return false
}

func retryHook(r *resty.Response, err error) {
	if err != nil {
		log.Printf("[WARN] retrying %s (attempt %d): %v", r.Request.URL, r.Request.Attempt, err)
		return
	}
	log.Printf("[WARN] retrying %s (attempt %d): status %d", r.Request.URL, r.Request.Attempt, r.StatusCode())
}
