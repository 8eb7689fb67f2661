package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/guregu/null/v6"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"TickerLens/internal/model"
	"TickerLens/internal/strategy"
)

// Analyzer runs one request through the pipeline.
type Analyzer interface {
	Analyze(ctx context.Context, req model.Request) (model.PipelineResult, error)
}

// BarView is one bar of the series response with its indicator values.
// Undefined indicators encode as null.
type BarView struct {
	Time   time.Time  `json:"time"`
	Open   float64    `json:"open"`
	High   float64    `json:"high"`
	Low    float64    `json:"low"`
	Close  float64    `json:"close"`
	Volume float64    `json:"volume"`
	RSI    null.Float `json:"rsi"`
	MACD   null.Float `json:"macd"`
	Signal null.Float `json:"signal"`
	SMA20  null.Float `json:"sma20"`
	SMA50  null.Float `json:"sma50"`
}

// SeriesResponse is the body of a successful series request.
type SeriesResponse struct {
	Symbol   string         `json:"symbol"`
	Period   model.Period   `json:"period"`
	Interval model.Interval `json:"interval"`
	Bars     []BarView      `json:"bars"`
	Outlook  *model.Outlook `json:"outlook,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// SetCORS sets CORS headers for REST endpoints.
func SetCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	SetCORS(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[ERROR] encode response: %v", err)
	}
}

// RegisterRoutes registers all HTTP routes on the provided mux.
func RegisterRoutes(mux *http.ServeMux, analyzer Analyzer, def model.Request, gatherer prometheus.Gatherer) {
	mux.HandleFunc("/api/v1/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("/api/v1/series", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
			return
		}
		req, err := parseRequest(r, def)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		res, err := analyzer.Analyze(r.Context(), req)
		if err != nil {
			log.Printf("[ERROR] series %s: %v", req, err)
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
			return
		}
		if !res.OK() {
			writeJSON(w, http.StatusUnprocessableEntity, res.Failure)
			return
		}
		writeJSON(w, http.StatusOK, seriesResponse(req, res.Series))
	})

	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
}

func parseRequest(r *http.Request, def model.Request) (model.Request, error) {
	q := r.URL.Query()
	req := def
	req.Symbol = strings.ToUpper(strings.TrimSpace(q.Get("symbol")))
	if v := q.Get("period"); v != "" {
		req.Period = model.Period(v)
	}
	if v := q.Get("interval"); v != "" {
		req.Interval = model.Interval(v)
	}
	return req, req.Validate()
}

func seriesResponse(req model.Request, es *model.EnrichedSeries) SeriesResponse {
	out := SeriesResponse{
		Symbol:   req.Symbol,
		Period:   req.Period,
		Interval: req.Interval,
		Bars:     make([]BarView, es.Len()),
		Outlook:  strategy.Evaluate(es),
	}
	for i := range es.Bars {
		s := es.At(i)
		out.Bars[i] = BarView{
			Time:   s.Time,
			Open:   s.Bar.Open,
			High:   s.Bar.High,
			Low:    s.Bar.Low,
			Close:  s.Bar.Close,
			Volume: s.Bar.Volume,
			RSI:    s.RSI,
			MACD:   s.MACD,
			Signal: s.Signal,
			SMA20:  s.SMA20,
			SMA50:  s.SMA50,
		}
	}
	return out
}
