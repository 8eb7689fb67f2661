package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"TickerLens/internal/collector"
	"TickerLens/internal/model"
	"TickerLens/internal/pipeline"
)

func TestPrintSeries(t *testing.T) {
	raw := collector.GenerateSeries("ACME", 100, 60, model.Interval1d, time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC))
	res := pipeline.Run(raw)
	if !res.OK() {
		t.Fatal(res.Failure)
	}
	req := model.Request{Symbol: "ACME", Period: model.Period3mo, Interval: model.Interval1d}

	var buf bytes.Buffer
	if err := printSeries(&buf, req, res.Series, 5); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	lines := strings.Split(out, "\n")
	if !strings.HasPrefix(lines[0], "ACME/3mo/1d  60 bars") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if n := strings.Count(out, "2024-06-"); n != 5 {
		t.Errorf("expected 5 rows, got %d:\n%s", n, out)
	}
	if !strings.Contains(out, "2024-06-28") || !strings.Contains(out, "outlook:") {
		t.Errorf("missing latest row or outlook:\n%s", out)
	}
}

func TestPrintSeries_UndefinedCells(t *testing.T) {
	raw := collector.GenerateSeries("ACME", 100, 3, model.Interval1d, time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC))
	res := pipeline.Run(raw)
	var buf bytes.Buffer
	if err := printSeries(&buf, model.Request{Symbol: "ACME"}, res.Series, 0); err != nil {
		t.Fatal(err)
	}
	// Three rows of five undefined indicators.
	if n := strings.Count(buf.String(), " -"); n < 15 {
		t.Errorf("expected undefined cells rendered as '-', got %d:\n%s", n, buf.String())
	}
}
