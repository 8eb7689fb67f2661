package notifier

import (
	"fmt"
	"html"
	"strings"

	"github.com/guregu/null/v6"
	"github.com/shopspring/decimal"

	"TickerLens/internal/calculator"
	"TickerLens/internal/model"
)

const undefinedValue = "n/a"

// formatValue renders v with fixed precision, or "n/a" when undefined.
func formatValue(v null.Float, places int32) string {
	if !v.Valid {
		return undefinedValue
	}
	return decimal.NewFromFloat(v.Float64).StringFixed(places)
}

func price(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// FormatReport renders a pipeline result as a Telegram HTML message.
// A failure renders its kind and message only.
func FormatReport(req model.Request, res model.PipelineResult, outlook *model.Outlook) string {
	if !res.OK() {
		return FormatFailure(req, res.Failure)
	}
	es := res.Series
	var b strings.Builder

	snap, ok := es.Latest()
	if !ok {
		return FormatFailure(req, model.NewEmptyDataFailure("no bars"))
	}

	b.WriteString(fmt.Sprintf("📊 <b>TickerLens</b> | %s %s/%s | %s\n\n",
		html.EscapeString(req.Symbol), req.Period, req.Interval, snap.Time.Format("2006-01-02")))

	// Latest bar
	bar := snap.Bar
	b.WriteString(fmt.Sprintf("Close: %s (O %s H %s L %s)\n", price(bar.Close), price(bar.Open), price(bar.High), price(bar.Low)))
	b.WriteString(fmt.Sprintf("Volume: %s | Bars: %d\n\n", decimal.NewFromFloat(bar.Volume).StringFixed(0), es.Len()))

	// Indicators
	b.WriteString("📈 <b>Indicators:</b>\n")
	b.WriteString(fmt.Sprintf("  RSI(%d): %s\n", calculator.RSIPeriod, formatValue(snap.RSI, 2)))
	b.WriteString(fmt.Sprintf("  MACD(%d,%d): %s | Signal(%d): %s\n",
		calculator.MACDFast, calculator.MACDSlow, formatValue(snap.MACD, 4),
		calculator.MACDSignal, formatValue(snap.Signal, 4)))
	b.WriteString(fmt.Sprintf("  SMA%d: %s | SMA%d: %s\n",
		calculator.SMAShort, formatValue(snap.SMA20, 2),
		calculator.SMALong, formatValue(snap.SMA50, 2)))

	// Range
	if high, low, err := calculator.PriceRange(es.Bars); err == nil {
		pos, _ := calculator.RangePosition(bar.Close, high, low)
		b.WriteString(fmt.Sprintf("  Range: %s - %s (position %.0f%%)\n", price(low), price(high), pos*100))
	}

	if outlook != nil {
		b.WriteString(fmt.Sprintf("\n🧭 <b>Outlook:</b> %s (%+.3f)\n", outlook.Bias, outlook.TotalScore))
		for _, f := range outlook.Factors {
			b.WriteString(fmt.Sprintf("  %s (%s): %+.1f (×%.2f) = %+.3f\n",
				f.Name, html.EscapeString(f.Commentary), f.RawScore, f.Weight, f.Weighted))
		}
		if outlook.WarningMsg != "" {
			b.WriteString(fmt.Sprintf("\n%s\n", html.EscapeString(outlook.WarningMsg)))
		}
	}

	return b.String()
}

// FormatFailure renders a pipeline failure.
func FormatFailure(req model.Request, f *model.Failure) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("⚠️ <b>TickerLens</b> | %s %s/%s\n\n", html.EscapeString(req.Symbol), req.Period, req.Interval))
	b.WriteString(fmt.Sprintf("Analysis failed: <b>%s</b>\n", f.Kind))
	b.WriteString(html.EscapeString(f.Message))
	b.WriteString("\n")
	return b.String()
}

// FormatHelp lists the supported bot commands.
func FormatHelp(defaultSymbol string) string {
	var b strings.Builder
	b.WriteString("🤖 <b>TickerLens commands</b>\n\n")
	b.WriteString("/chart SYMBOL [PERIOD] [INTERVAL]\n")
	b.WriteString("  PERIOD: 1mo, 3mo, 6mo, 1y (default), 5y\n")
	b.WriteString("  INTERVAL: 1d (default), 1wk, 1mo\n")
	b.WriteString(fmt.Sprintf("/chart without arguments uses %s\n", html.EscapeString(defaultSymbol)))
	b.WriteString("/help shows this message\n")
	return b.String()
}
