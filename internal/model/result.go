package model

import (
	"fmt"
	"strings"
)

// FailureKind classifies why the pipeline rejected an input.
type FailureKind string

const (
	EmptyInputError           FailureKind = "EmptyInputError"
	MissingColumnError        FailureKind = "MissingColumnError"
	AllMissingColumnError     FailureKind = "AllMissingColumnError"
	ConversionError           FailureKind = "ConversionError"
	EmptyDataError            FailureKind = "EmptyDataError"
	IndicatorComputationError FailureKind = "IndicatorComputationError"
)

// Failure is a typed pipeline failure.
type Failure struct {
	Kind    FailureKind `json:"kind"`
	Message string      `json:"message"`
	Columns []string    `json:"columns,omitempty"`
	Cause   error       `json:"-"`
}

// Error implements the error interface
func (f *Failure) Error() string {
	if f.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", f.Kind, f.Message, f.Cause)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (f *Failure) Unwrap() error {
	return f.Cause
}

// NewEmptyInputFailure reports a series with zero records.
func NewEmptyInputFailure() *Failure {
	return &Failure{Kind: EmptyInputError, Message: "input series has no records"}
}

// NewMissingColumnFailure reports required columns absent from the schema.
func NewMissingColumnFailure(cols []string) *Failure {
	return &Failure{
		Kind:    MissingColumnError,
		Message: "missing required columns: " + strings.Join(cols, ", "),
		Columns: cols,
	}
}

// NewAllMissingColumnFailure reports a required column with no usable values.
func NewAllMissingColumnFailure(col string) *Failure {
	return &Failure{
		Kind:    AllMissingColumnError,
		Message: fmt.Sprintf("column %s has no values", col),
		Columns: []string{col},
	}
}

// NewConversionFailure reports a structural fault while coercing a column.
func NewConversionFailure(col string, cause error) *Failure {
	return &Failure{
		Kind:    ConversionError,
		Message: fmt.Sprintf("cannot coerce column %s", col),
		Columns: []string{col},
		Cause:   cause,
	}
}

// NewEmptyDataFailure reports that no usable bars remain.
func NewEmptyDataFailure(msg string) *Failure {
	return &Failure{Kind: EmptyDataError, Message: msg}
}

// NewIndicatorFailure reports an unexpected numeric fault.
func NewIndicatorFailure(cause error) *Failure {
	return &Failure{Kind: IndicatorComputationError, Message: "indicator computation failed", Cause: cause}
}

// PipelineResult carries either an enriched series or a failure, never both.
type PipelineResult struct {
	Series  *EnrichedSeries
	Failure *Failure
}

// Success wraps a completed series.
func Success(s *EnrichedSeries) PipelineResult { return PipelineResult{Series: s} }

// Fail wraps a failure.
func Fail(f *Failure) PipelineResult { return PipelineResult{Failure: f} }

// OK reports whether the result holds a series.
func (r PipelineResult) OK() bool { return r.Failure == nil && r.Series != nil }
