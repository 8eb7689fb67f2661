package pipeline

import (
	"math"
	"strings"

	"TickerLens/internal/model"
)

// Validate checks that raw has records, carries every required column, and
// that no required column is empty in every record.
func Validate(raw *model.RawSeries) error {
	if raw == nil || len(raw.Records) == 0 {
		return model.NewEmptyInputFailure()
	}

	var missing []string
	for _, col := range model.RequiredColumns {
		if !raw.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return model.NewMissingColumnFailure(missing)
	}

	for _, col := range model.RequiredColumns {
		populated := false
		for _, rec := range raw.Records {
			if !isMissing(rec.Values[col]) {
				populated = true
				break
			}
		}
		if !populated {
			return model.NewAllMissingColumnFailure(col)
		}
	}
	return nil
}

// checkPopulated fails when coercion left a required column without a value.
func checkPopulated(v *model.ValidatedSeries) error {
	for _, col := range model.RequiredColumns {
		populated := false
		for _, b := range v.Bars {
			if b.Field(col).Valid {
				populated = true
				break
			}
		}
		if !populated {
			return model.NewAllMissingColumnFailure(col)
		}
	}
	return nil
}

// isMissing reports whether a raw cell carries no value at all.
// Unparsable text is not missing here; coercion decides that.
func isMissing(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(x)
	case float32:
		return math.IsNaN(float64(x))
	case string:
		return strings.TrimSpace(x) == ""
	}
	return false
}
