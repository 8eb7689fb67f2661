package calculator

import (
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/guregu/null/v6"

	"TickerLens/internal/model"
)

func assertClose(t *testing.T, label string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s: got %.6f, want %.6f (tol=%.6f, diff=%.6f)", label, got, want, tol, math.Abs(got-want))
	}
}

func assertSeries(t *testing.T, label string, got []null.Float, want []interface{}) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: len %d, want %d", label, len(got), len(want))
	}
	for i, w := range want {
		if w == nil {
			if got[i].Valid {
				t.Errorf("%s[%d]: got %.6f, want undefined", label, i, got[i].Float64)
			}
			continue
		}
		if !got[i].Valid {
			t.Errorf("%s[%d]: undefined, want %.6f", label, i, w.(float64))
			continue
		}
		assertClose(t, label, got[i].Float64, w.(float64), 0.0001)
	}
}

func cleaned(closes []float64) *model.CleanedSeries {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.OHLCV, len(closes))
	for i, c := range closes {
		bars[i] = model.OHLCV{
			Time:   start.AddDate(0, 0, i),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000,
		}
	}
	return &model.CleanedSeries{Symbol: "TEST", Bars: bars}
}

func randomWalk(n int, seed int64) []float64 {
	r := rand.New(rand.NewSource(seed))
	closes := make([]float64, n)
	p := 100.0
	for i := range closes {
		p += r.NormFloat64()
		if p < 1 {
			p = 1
		}
		closes[i] = p
	}
	return closes
}

func TestEMA_Correctness_Span3(t *testing.T) {
	// alpha = 2/(3+1) = 0.5, seeded with the first value:
	// 100 → 101 → 102.5 → 102.75 → 103.875; defined from the third value.
	got := EMA([]float64{100, 102, 104, 103, 105}, 3)
	assertSeries(t, "EMA(3)", got, []interface{}{nil, nil, 102.5, 102.75, 103.875})
}

func TestEMA_ShortInput(t *testing.T) {
	got := EMA([]float64{1, 2}, 5)
	for i, v := range got {
		if v.Valid {
			t.Errorf("EMA[%d] should be undefined", i)
		}
	}
	if len(EMA(nil, 5)) != 0 {
		t.Error("expected empty result for empty input")
	}
}

func TestSMA_Correctness_Period3(t *testing.T) {
	got := SMA([]float64{100, 102, 104, 103, 105}, 3)
	assertSeries(t, "SMA(3)", got, []interface{}{nil, nil, 102.0, 103.0, 104.0})
}

func TestSMA_TooShort(t *testing.T) {
	got := SMA([]float64{1, 2, 3}, 20)
	for i, v := range got {
		if v.Valid {
			t.Errorf("SMA[%d] should be undefined", i)
		}
	}
}

func TestSMA_MatchesTrailingMean(t *testing.T) {
	closes := randomWalk(120, 7)
	got := SMA(closes, SMAShort)
	for i := range closes {
		if i < SMAShort-1 {
			if got[i].Valid {
				t.Fatalf("SMA20[%d] defined before 20 points", i)
			}
			continue
		}
		sum := 0.0
		for j := i - SMAShort + 1; j <= i; j++ {
			sum += closes[j]
		}
		assertClose(t, "SMA20", got[i].Float64, sum/SMAShort, 1e-9)
	}
}

func TestRSI_Correctness_Period3(t *testing.T) {
	// Changes: +1, +1, -1, -1, +1
	// i=3: avgGain=2/3, avgLoss=1/3  → RS=2   → 66.6667
	// i=4: avgGain=4/9, avgLoss=5/9  → RS=0.8 → 44.4444
	// i=5: avgGain=17/27, avgLoss=10/27 → RS=1.7 → 62.9630
	got := RSI([]float64{10, 11, 12, 11, 10, 11}, 3)
	assertSeries(t, "RSI(3)", got, []interface{}{nil, nil, nil, 66.6667, 44.4444, 62.9630})
}

func TestRSI_NoLosses(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = float64(100 + i)
	}
	got := RSI(closes, RSIPeriod)
	for i := RSIPeriod; i < len(got); i++ {
		assertClose(t, "RSI rising", got[i].Float64, 100, 1e-12)
	}
}

func TestRSI_Bounds(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		got := RSI(randomWalk(200, seed), RSIPeriod)
		for i, v := range got {
			if i < RSIPeriod {
				if v.Valid {
					t.Fatalf("seed %d: RSI[%d] defined too early", seed, i)
				}
				continue
			}
			if !v.Valid || v.Float64 < 0 || v.Float64 > 100 {
				t.Fatalf("seed %d: RSI[%d]=%v out of [0,100]", seed, i, v)
			}
		}
	}
}

func TestMACD_IsFastMinusSlow(t *testing.T) {
	closes := randomWalk(80, 3)
	macd, signal := MACD(closes, MACDFast, MACDSlow, MACDSignal)
	fast := EMA(closes, MACDFast)
	slow := EMA(closes, MACDSlow)

	for i := range closes {
		if i < MACDSlow-1 {
			if macd[i].Valid {
				t.Fatalf("MACD[%d] defined before slow EMA", i)
			}
			continue
		}
		assertClose(t, "MACD", macd[i].Float64, fast[i].Float64-slow[i].Float64, 1e-12)
	}

	// Signal is EMA9 over the defined MACD values.
	firstSignal := MACDSlow - 1 + MACDSignal - 1
	sigRef := EMA(func() []float64 {
		vals := make([]float64, 0, len(closes))
		for _, v := range macd[MACDSlow-1:] {
			vals = append(vals, v.Float64)
		}
		return vals
	}(), MACDSignal)
	for i := range closes {
		if i < firstSignal {
			if signal[i].Valid {
				t.Fatalf("Signal[%d] defined too early", i)
			}
			continue
		}
		assertClose(t, "Signal", signal[i].Float64, sigRef[i-(MACDSlow-1)].Float64, 1e-12)
	}
}

func TestCompute_ShortHistoryAllUndefined(t *testing.T) {
	es, err := Compute(cleaned([]float64{10, 11, 12, 11, 10}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if es.Len() != 5 {
		t.Fatalf("expected 5 bars, got %d", es.Len())
	}
	for i := 0; i < es.Len(); i++ {
		s := es.At(i)
		if s.RSI.Valid || s.MACD.Valid || s.Signal.Valid || s.SMA20.Valid || s.SMA50.Valid {
			t.Errorf("bar %d: expected all indicators undefined, got %+v", i, s)
		}
	}
}

func TestCompute_ConstantPrice(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100
	}
	es, err := Compute(cleaned(closes))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < es.Len(); i++ {
		s := es.At(i)
		if i < RSIPeriod && s.RSI.Valid {
			t.Errorf("RSI[%d] should be undefined", i)
		}
		if i >= RSIPeriod {
			assertClose(t, "RSI", s.RSI.Float64, 100, 1e-12)
		}
		if i >= MACDSlow-1 {
			assertClose(t, "MACD", s.MACD.Float64, 0, 1e-9)
		}
		if i >= SMAShort-1 {
			assertClose(t, "SMA20", s.SMA20.Float64, 100, 1e-9)
		}
		if s.SMA50.Valid {
			t.Errorf("SMA50[%d] should be undefined with 30 bars", i)
		}
	}
}

func TestCompute_EmptySeries(t *testing.T) {
	es, err := Compute(&model.CleanedSeries{Symbol: "X"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if es.Len() != 0 {
		t.Errorf("expected empty series, got %d bars", es.Len())
	}
}

func TestCompute_OverflowFails(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 1.7e308
		if i%2 == 1 {
			closes[i] = -1.7e308
		}
	}
	_, err := Compute(cleaned(closes))
	var f *model.Failure
	if !errors.As(err, &f) {
		t.Fatalf("expected *model.Failure, got %v", err)
	}
	if f.Kind != model.IndicatorComputationError {
		t.Errorf("expected %s, got %s", model.IndicatorComputationError, f.Kind)
	}
}

func TestCompute_DoesNotAliasInput(t *testing.T) {
	c := cleaned([]float64{1, 2, 3})
	es, err := Compute(c)
	if err != nil {
		t.Fatal(err)
	}
	c.Bars[0].Close = 999
	if es.Bars[0].Close == 999 {
		t.Error("enriched series shares bar storage with its input")
	}
}

func TestPriceRange(t *testing.T) {
	bars := cleaned([]float64{10, 14, 8, 12}).Bars
	high, low, err := PriceRange(bars)
	if err != nil {
		t.Fatal(err)
	}
	if high != 15 || low != 7 {
		t.Errorf("got high=%.1f low=%.1f, want 15/7", high, low)
	}
	if _, _, err := PriceRange(nil); err == nil {
		t.Error("expected error for empty bars")
	}
}

func TestRangePosition(t *testing.T) {
	tests := []struct {
		current, high, low float64
		want               float64
	}{
		{15, 20, 10, 0.5},
		{25, 20, 10, 1},
		{5, 20, 10, 0},
		{10, 10, 10, 0.5},
	}
	for _, tt := range tests {
		got, err := RangePosition(tt.current, tt.high, tt.low)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertClose(t, "position", got, tt.want, 1e-12)
	}
	if _, err := RangePosition(1, 5, 10); err == nil {
		t.Error("expected error when high < low")
	}
}
