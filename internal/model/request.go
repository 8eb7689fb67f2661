package model

import (
	"fmt"
	"strings"
)

// Period is the history window requested from a provider.
type Period string

const (
	Period1mo Period = "1mo"
	Period3mo Period = "3mo"
	Period6mo Period = "6mo"
	Period1y  Period = "1y"
	Period5y  Period = "5y"
)

// Interval is the bar size requested from a provider.
type Interval string

const (
	Interval1d  Interval = "1d"
	Interval1wk Interval = "1wk"
	Interval1mo Interval = "1mo"
)

// ParsePeriod validates a period string.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.TrimSpace(s)); p {
	case Period1mo, Period3mo, Period6mo, Period1y, Period5y:
		return p, nil
	}
	return "", fmt.Errorf("invalid period %q (want 1mo, 3mo, 6mo, 1y or 5y)", s)
}

// ParseInterval validates an interval string.
func ParseInterval(s string) (Interval, error) {
	switch i := Interval(strings.TrimSpace(s)); i {
	case Interval1d, Interval1wk, Interval1mo:
		return i, nil
	}
	return "", fmt.Errorf("invalid interval %q (want 1d, 1wk or 1mo)", s)
}

// Months returns the window length in calendar months.
func (p Period) Months() int {
	switch p {
	case Period1mo:
		return 1
	case Period3mo:
		return 3
	case Period6mo:
		return 6
	case Period1y:
		return 12
	case Period5y:
		return 60
	}
	return 0
}

// Request identifies one fetch: ticker, window and bar size.
type Request struct {
	Symbol   string
	Period   Period
	Interval Interval
}

// Validate checks the request fields.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Symbol) == "" {
		return fmt.Errorf("symbol is required")
	}
	if _, err := ParsePeriod(string(r.Period)); err != nil {
		return err
	}
	if _, err := ParseInterval(string(r.Interval)); err != nil {
		return err
	}
	return nil
}

func (r Request) String() string {
	return fmt.Sprintf("%s/%s/%s", r.Symbol, r.Period, r.Interval)
}
