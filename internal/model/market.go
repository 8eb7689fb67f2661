package model

import (
	"time"

	"github.com/guregu/null/v6"
)

// Required OHLCV column names, in canonical order.
const (
	ColOpen   = "Open"
	ColHigh   = "High"
	ColLow    = "Low"
	ColClose  = "Close"
	ColVolume = "Volume"
)

// RequiredColumns lists every column a raw table must carry.
var RequiredColumns = []string{ColOpen, ColHigh, ColLow, ColClose, ColVolume}

// RawRecord is one provider row. Values are keyed by column name and hold
// whatever the feed delivered (numbers, text, nil).
type RawRecord struct {
	Time   time.Time              `json:"time"`
	Values map[string]interface{} `json:"values"`
}

// RawSeries is a provider table ordered by ascending, unique timestamps.
type RawSeries struct {
	Symbol  string      `json:"symbol"`
	Columns []string    `json:"columns"`
	Records []RawRecord `json:"records"`
}

// HasColumn reports whether name is part of the table schema.
func (s *RawSeries) HasColumn(name string) bool {
	for _, c := range s.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Bar is a coerced record: every required field is numeric or explicitly missing.
type Bar struct {
	Time   time.Time
	Open   null.Float
	High   null.Float
	Low    null.Float
	Close  null.Float
	Volume null.Float
}

// Field returns the value of a required column.
func (b Bar) Field(col string) null.Float {
	switch col {
	case ColOpen:
		return b.Open
	case ColHigh:
		return b.High
	case ColLow:
		return b.Low
	case ColClose:
		return b.Close
	case ColVolume:
		return b.Volume
	}
	return null.Float{}
}

// Complete reports whether no required field is missing.
func (b Bar) Complete() bool {
	return b.Open.Valid && b.High.Valid && b.Low.Valid && b.Close.Valid && b.Volume.Valid
}

// ValidatedSeries is a raw table after schema validation and numeric coercion.
type ValidatedSeries struct {
	Symbol string
	Bars   []Bar
}

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// CleanedSeries holds only complete bars, in original order.
type CleanedSeries struct {
	Symbol  string
	Bars    []OHLCV
	Dropped int // bars removed for missing fields
}

// Closes returns the closing prices of the series.
func (c *CleanedSeries) Closes() []float64 {
	closes := make([]float64, len(c.Bars))
	for i, b := range c.Bars {
		closes[i] = b.Close
	}
	return closes
}
