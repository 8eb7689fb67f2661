package model

// FactorScore represents a single factor's scoring result.
type FactorScore struct {
	Name       string  `json:"name"`
	RawScore   float64 `json:"raw_score"`
	Weight     float64 `json:"weight"`
	Weighted   float64 `json:"weighted"`
	Commentary string  `json:"commentary"`
}

// Bias labels the overall reading of the latest indicators.
type Bias string

const (
	BiasStrongBull Bias = "STRONG_BULLISH"
	BiasBull       Bias = "BULLISH"
	BiasNeutral    Bias = "NEUTRAL"
	BiasBear       Bias = "BEARISH"
	BiasStrongBear Bias = "STRONG_BEARISH"
)

// Outlook is the summary rendered next to the indicator values.
type Outlook struct {
	Factors    []FactorScore `json:"factors"`
	TotalScore float64       `json:"total_score"`
	Bias       Bias          `json:"bias"`
	WarningMsg string        `json:"warning,omitempty"`
}
