package pipeline

import (
	"fmt"
	"math"
	"strings"

	"github.com/guregu/null/v6"
	"github.com/spf13/cast"

	"TickerLens/internal/model"
)

// Coerce converts every required cell to a float. Cells that cannot be
// parsed, or parse to a non-finite number, become missing. The input is not
// modified.
func Coerce(raw *model.RawSeries) (*model.ValidatedSeries, error) {
	bars := make([]model.Bar, len(raw.Records))
	for i, rec := range raw.Records {
		bars[i].Time = rec.Time
	}
	for _, col := range model.RequiredColumns {
		if err := coerceColumn(raw, col, bars); err != nil {
			return nil, err
		}
	}
	return &model.ValidatedSeries{Symbol: raw.Symbol, Bars: bars}, nil
}

func coerceColumn(raw *model.RawSeries, col string, bars []model.Bar) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = model.NewConversionFailure(col, fmt.Errorf("%v", r))
		}
	}()

	for i, rec := range raw.Records {
		*field(&bars[i], col) = toFloat(rec.Values[col])
	}
	return nil
}

func field(b *model.Bar, col string) *null.Float {
	switch col {
	case model.ColOpen:
		return &b.Open
	case model.ColHigh:
		return &b.High
	case model.ColLow:
		return &b.Low
	case model.ColClose:
		return &b.Close
	case model.ColVolume:
		return &b.Volume
	}
	panic("unknown column " + col)
}

func toFloat(v interface{}) null.Float {
	if v == nil {
		return null.Float{}
	}
	if s, ok := v.(string); ok {
		v = strings.TrimSpace(s)
	}

	f, err := cast.ToFloat64E(v)
	if err != nil {
		s, ok := v.(fmt.Stringer)
		if !ok {
			return null.Float{}
		}
		if f, err = cast.ToFloat64E(strings.TrimSpace(s.String())); err != nil {
			return null.Float{}
		}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return null.Float{}
	}
	return null.FloatFrom(f)
}
