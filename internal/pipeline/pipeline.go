// Package pipeline turns a raw provider table into an indicator-enriched
// series: schema validation, numeric coercion, gap removal, indicators.
//
// Every stage either succeeds or returns a *model.Failure; Run stops at the
// first failure and never returns a partial series. The package holds no
// state, so concurrent calls are independent.
package pipeline

import (
	"errors"

	"TickerLens/internal/calculator"
	"TickerLens/internal/model"
)

// Stats describes how many bars each stage saw.
type Stats struct {
	RawBars   int
	CleanBars int
	Dropped   int
}

// Run executes the full pipeline on raw.
func Run(raw *model.RawSeries) model.PipelineResult {
	res, _ := Execute(raw)
	return res
}

// Execute is Run plus per-stage bar counts.
func Execute(raw *model.RawSeries) (model.PipelineResult, Stats) {
	var st Stats
	if raw != nil {
		st.RawBars = len(raw.Records)
	}

	if err := Validate(raw); err != nil {
		return fail(err, model.EmptyInputError), st
	}

	validated, err := Coerce(raw)
	if err != nil {
		return fail(err, model.ConversionError), st
	}
	if err := checkPopulated(validated); err != nil {
		return fail(err, model.AllMissingColumnError), st
	}

	cleaned := Clean(validated)
	st.CleanBars = len(cleaned.Bars)
	st.Dropped = cleaned.Dropped
	if len(cleaned.Bars) == 0 {
		return model.Fail(model.NewEmptyDataFailure("no complete records remain after removing gaps")), st
	}

	enriched, err := calculator.Compute(cleaned)
	if err != nil {
		return fail(err, model.IndicatorComputationError), st
	}
	return model.Success(enriched), st
}

func fail(err error, kind model.FailureKind) model.PipelineResult {
	var f *model.Failure
	if errors.As(err, &f) {
		return model.Fail(f)
	}
	return model.Fail(&model.Failure{Kind: kind, Message: err.Error(), Cause: err})
}
