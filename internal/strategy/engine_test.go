package strategy

import (
	"math"
	"testing"
	"time"

	"github.com/guregu/null/v6"

	"TickerLens/internal/calculator"
	"TickerLens/internal/model"
)

// makeSeries builds an enriched series with every indicator undefined.
func makeSeries(closes []float64) *model.EnrichedSeries {
	n := len(closes)
	es := &model.EnrichedSeries{
		Symbol: "TEST",
		RSI:    make([]null.Float, n),
		MACD:   make([]null.Float, n),
		Signal: make([]null.Float, n),
		SMA20:  make([]null.Float, n),
		SMA50:  make([]null.Float, n),
	}
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		es.Bars = append(es.Bars, model.OHLCV{Time: start.AddDate(0, 0, i), Open: c, High: c, Low: c, Close: c, Volume: 1})
	}
	return es
}

func ramp(from, to float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = from + (to-from)*float64(i)/float64(n-1)
	}
	return out
}

func factor(t *testing.T, o *model.Outlook, name string) model.FactorScore {
	t.Helper()
	for _, f := range o.Factors {
		if f.Name == name {
			return f
		}
	}
	t.Fatalf("factor %q not found", name)
	return model.FactorScore{}
}

func TestEvaluate_Empty(t *testing.T) {
	if o := Evaluate(&model.EnrichedSeries{}); o != nil {
		t.Errorf("expected nil outlook, got %+v", o)
	}
}

func TestEvaluate_ShortHistory(t *testing.T) {
	o := Evaluate(makeSeries([]float64{10, 11, 12, 11, 10}))
	if o == nil {
		t.Fatal("expected non-nil outlook")
	}
	if len(o.Factors) != 4 {
		t.Fatalf("expected 4 factors, got %d", len(o.Factors))
	}
	for _, name := range []string{"RSI zone", "Trend", "MACD momentum"} {
		f := factor(t, o, name)
		if f.RawScore != 0 || f.Commentary != notEnoughHistory {
			t.Errorf("%s: expected undefined factor, got %+v", name, f)
		}
	}
	// Close at the window low scores the range factor only.
	if f := factor(t, o, "Range position"); f.RawScore != 2.0 {
		t.Errorf("range position score = %v, want 2", f.RawScore)
	}
	if o.Bias != model.BiasNeutral || o.WarningMsg != "" {
		t.Errorf("unexpected outlook: %+v", o)
	}
}

func TestEvaluate_OversoldWithCrossover(t *testing.T) {
	es := makeSeries(ramp(120, 100, 21))
	last := es.Len() - 1
	es.RSI[last] = null.FloatFrom(12)
	es.SMA20[last] = null.FloatFrom(105)
	es.SMA50[last] = null.FloatFrom(110)
	es.MACD[last-1], es.Signal[last-1] = null.FloatFrom(-1.3), null.FloatFrom(-1.2)
	es.MACD[last], es.Signal[last] = null.FloatFrom(-1.0), null.FloatFrom(-1.2)

	o := Evaluate(es)
	if f := factor(t, o, "MACD momentum"); f.RawScore != 2.0 {
		t.Errorf("expected bullish crossover, got %+v", f)
	}
	if f := factor(t, o, "Trend"); f.RawScore != -1.5 {
		t.Errorf("expected bear alignment at range low, got %+v", f)
	}
	if math.Abs(o.TotalScore-0.95) > 1e-9 {
		t.Errorf("total = %.4f, want 0.95", o.TotalScore)
	}
	if o.Bias != model.BiasBull {
		t.Errorf("bias = %s, want %s", o.Bias, model.BiasBull)
	}
	if o.WarningMsg == "" {
		t.Error("expected oversold warning for RSI < 15")
	}
}

func TestEvaluate_Overbought(t *testing.T) {
	es := makeSeries(ramp(100, 120, 21))
	last := es.Len() - 1
	es.RSI[last] = null.FloatFrom(90)
	es.SMA20[last] = null.FloatFrom(115)
	es.SMA50[last] = null.FloatFrom(110)
	es.MACD[last-1], es.Signal[last-1] = null.FloatFrom(2.2), null.FloatFrom(2.4)
	es.MACD[last], es.Signal[last] = null.FloatFrom(2.0), null.FloatFrom(2.5)

	o := Evaluate(es)
	if math.Abs(o.TotalScore-(-0.475)) > 1e-9 {
		t.Errorf("total = %.4f, want -0.475", o.TotalScore)
	}
	if o.Bias != model.BiasBear {
		t.Errorf("bias = %s, want %s", o.Bias, model.BiasBear)
	}
	if o.WarningMsg == "" {
		t.Error("expected overbought warning for RSI > 85")
	}
}

func TestEvaluate_ComputedSeries(t *testing.T) {
	cleaned := &model.CleanedSeries{Symbol: "SINE"}
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 80; i++ {
		c := 100 + 10*math.Sin(float64(i)/7)
		cleaned.Bars = append(cleaned.Bars, model.OHLCV{Time: start.AddDate(0, 0, i), Open: c, High: c + 1, Low: c - 1, Close: c, Volume: 1})
	}
	es, err := calculator.Compute(cleaned)
	if err != nil {
		t.Fatal(err)
	}
	o := Evaluate(es)
	for _, f := range o.Factors {
		if f.Commentary == notEnoughHistory {
			t.Errorf("%s should be defined with 80 bars", f.Name)
		}
		if math.Abs(f.Weighted-f.RawScore*f.Weight) > 1e-12 {
			t.Errorf("%s: weighted %.4f != raw*weight", f.Name, f.Weighted)
		}
	}
}

func TestMapBias_AllBoundaries(t *testing.T) {
	tests := []struct {
		score float64
		bias  model.Bias
	}{
		{2.0, model.BiasStrongBull},
		{1.0, model.BiasStrongBull},
		{0.99, model.BiasBull},
		{0.3, model.BiasBull},
		{0.29, model.BiasNeutral},
		{0.0, model.BiasNeutral},
		{-0.3, model.BiasNeutral},
		{-0.31, model.BiasBear},
		{-1.0, model.BiasBear},
		{-1.01, model.BiasStrongBear},
		{-2.0, model.BiasStrongBear},
	}
	for _, tt := range tests {
		if got := mapBias(tt.score); got != tt.bias {
			t.Errorf("score %.2f: expected %s, got %s", tt.score, tt.bias, got)
		}
	}
}

func TestRangePosition_NonlinearLogic(t *testing.T) {
	// Near the top, other factors avg >= -1 caps at -1
	if f := scoreRangePosition(0.99, -0.5); f.RawScore != -1.0 {
		t.Errorf("expected cap at -1, got %.1f", f.RawScore)
	}
	// Near the top, other factors avg < -1 gives -2
	if f := scoreRangePosition(0.99, -1.5); f.RawScore != -2.0 {
		t.Errorf("expected -2, got %.1f", f.RawScore)
	}
	if f := scoreRangePosition(0.05, 0); f.RawScore != 2.0 {
		t.Errorf("expected 2 at range low, got %.1f", f.RawScore)
	}
}

func TestMomentum(t *testing.T) {
	snap := func(macd, signal float64) model.Snapshot {
		return model.Snapshot{MACD: null.FloatFrom(macd), Signal: null.FloatFrom(signal)}
	}
	tests := []struct {
		name      string
		prev, cur model.Snapshot
		want      float64
	}{
		{"bullish cross", snap(-0.2, 0), snap(0.2, 0), 2.0},
		{"bearish cross", snap(0.2, 0), snap(-0.2, 0), -2.0},
		{"above positive", snap(1, 0.5), snap(1.2, 0.6), 1.0},
		{"above negative", snap(-1, -1.5), snap(-0.9, -1.4), 0.5},
		{"below negative", snap(-1, -0.5), snap(-1.2, -0.6), -1.0},
		{"below positive", snap(1, 1.5), snap(0.9, 1.4), -0.5},
		{"no previous signal", model.Snapshot{}, snap(0.2, 0), 1.0},
		{"undefined", snap(1, 0), model.Snapshot{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if f := scoreMomentum(tt.prev, tt.cur); f.RawScore != tt.want {
				t.Errorf("got %.1f (%s), want %.1f", f.RawScore, f.Commentary, tt.want)
			}
		})
	}
}
