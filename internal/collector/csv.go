package collector

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"TickerLens/internal/model"
)

var csvTimeLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// CSVProvider reads exported price history from <Dir>/<SYMBOL>.csv.
// Cells are kept as text; the pipeline decides what is numeric.
type CSVProvider struct {
	Dir string
}

func NewCSVProvider(dir string) *CSVProvider {
	return &CSVProvider{Dir: dir}
}

func (p *CSVProvider) Name() string { return "csv" }

func (p *CSVProvider) History(ctx context.Context, symbol string, period model.Period, interval model.Interval) (*model.RawSeries, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := filepath.Join(p.Dir, strings.ToUpper(symbol)+".csv")
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("csv %s: %w", symbol, ErrNoData)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	series, err := readCSV(f, symbol)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(series.Records) == 0 {
		return nil, fmt.Errorf("csv %s: %w", symbol, ErrNoData)
	}
	trimToPeriod(series, period)
	return series, nil
}

func readCSV(r io.Reader, symbol string) (*model.RawSeries, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return &model.RawSeries{Symbol: symbol}, nil
		}
		return nil, fmt.Errorf("header: %w", err)
	}

	timeIdx := -1
	colIdx := map[string]int{}
	for i, h := range header {
		name := strings.TrimSpace(h)
		switch strings.ToLower(name) {
		case "date", "datetime", "timestamp":
			timeIdx = i
			continue
		}
		for _, req := range model.RequiredColumns {
			if strings.EqualFold(name, req) {
				colIdx[req] = i
			}
		}
	}
	if timeIdx < 0 {
		return nil, fmt.Errorf("no Date column in header %v", header)
	}

	series := &model.RawSeries{Symbol: symbol}
	for _, req := range model.RequiredColumns {
		if _, ok := colIdx[req]; ok {
			series.Columns = append(series.Columns, req)
		}
	}

	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if timeIdx >= len(row) {
			return nil, fmt.Errorf("line %d: missing date", line)
		}
		ts, err := parseCSVTime(row[timeIdx])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rec := model.RawRecord{Time: ts, Values: make(map[string]interface{}, len(colIdx))}
		for col, idx := range colIdx {
			if idx < len(row) {
				rec.Values[col] = row[idx]
			} else {
				rec.Values[col] = nil
			}
		}
		series.Records = append(series.Records, rec)
	}

	sort.SliceStable(series.Records, func(i, j int) bool {
		return series.Records[i].Time.Before(series.Records[j].Time)
	})
	// Later duplicates replace earlier ones.
	deduped := series.Records[:0]
	for _, rec := range series.Records {
		if n := len(deduped); n > 0 && deduped[n-1].Time.Equal(rec.Time) {
			deduped[n-1] = rec
			continue
		}
		deduped = append(deduped, rec)
	}
	series.Records = deduped
	return series, nil
}

func parseCSVTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range csvTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// trimToPeriod keeps the rows inside the window ending at the newest row.
func trimToPeriod(series *model.RawSeries, period model.Period) {
	months := period.Months()
	if months == 0 || len(series.Records) == 0 {
		return
	}
	cutoff := series.Records[len(series.Records)-1].Time.AddDate(0, -months, 0)
	start := sort.Search(len(series.Records), func(i int) bool {
		return series.Records[i].Time.After(cutoff)
	})
	series.Records = series.Records[start:]
}
