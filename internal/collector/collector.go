package collector

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"TickerLens/internal/metrics"
	"TickerLens/internal/model"
	"TickerLens/internal/pipeline"
	"TickerLens/internal/recorder"
)

// Collector fetches history for a request and runs it through the pipeline.
type Collector struct {
	Provider Provider
	Timeout  time.Duration
	Metrics  *metrics.Metrics
	Recorder recorder.Recorder
}

// NewCollector creates a Collector with a no-op recorder and no metrics.
func NewCollector(provider Provider, timeout time.Duration) *Collector {
	return &Collector{
		Provider: provider,
		Timeout:  timeout,
		Recorder: recorder.NewNoopRecorder(),
	}
}

// Analyze fetches req and returns the pipeline outcome. Provider faults other
// than ErrNoData are returned as errors; everything the data itself causes is
// reported through the result.
func (c *Collector) Analyze(ctx context.Context, req model.Request) (model.PipelineResult, error) {
	if err := req.Validate(); err != nil {
		return model.PipelineResult{}, fmt.Errorf("invalid request: %w", err)
	}

	evt := &recorder.RunEvent{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
		Symbol:    req.Symbol,
		Period:    string(req.Period),
		Interval:  string(req.Interval),
		Provider:  c.Provider.Name(),
	}

	fetchCtx := ctx
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	fetchStart := time.Now()
	raw, err := c.Provider.History(fetchCtx, req.Symbol, req.Period, req.Interval)
	c.Metrics.ObserveFetch(c.Provider.Name(), time.Since(fetchStart))

	var res model.PipelineResult
	var st pipeline.Stats
	switch {
	case errors.Is(err, ErrNoData):
		res = model.Fail(model.NewEmptyDataFailure(fmt.Sprintf("no data for %s", req)))
	case err != nil:
		log.Printf("[ERROR] fetch %s from %s: %v", req, c.Provider.Name(), err)
		return model.PipelineResult{}, fmt.Errorf("fetch %s: %w", req, err)
	default:
		pipeStart := time.Now()
		res, st = pipeline.Execute(raw)
		evt.Duration = time.Since(pipeStart)
	}

	evt.RawBars, evt.CleanBars = st.RawBars, st.CleanBars
	if res.OK() {
		evt.Outcome = metrics.OutcomeOK
		log.Printf("[INFO] %s: %d bars (%d dropped)", req, st.CleanBars, st.Dropped)
	} else {
		evt.Outcome = string(res.Failure.Kind)
		evt.Message = res.Failure.Message
		log.Printf("[WARN] %s: %s: %s", req, res.Failure.Kind, res.Failure.Message)
	}
	c.Metrics.ObserveRun(evt.Outcome, evt.Duration, st.CleanBars, st.Dropped)

	if c.Recorder != nil {
		if err := c.Recorder.RecordRun(evt); err != nil {
			log.Printf("[ERROR] record run %s: %v", evt.RunID, err)
		}
	}
	return res, nil
}
