package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/guregu/null/v6"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"TickerLens/internal/model"
	"TickerLens/internal/strategy"
)

var (
	reportPeriod   string
	reportInterval string
	reportRows     int
	reportJSON     bool
)

var reportCmd = &cobra.Command{
	Use:   "report SYMBOL",
	Short: "Fetch one symbol, compute indicators and print the latest bars",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		period, err := model.ParsePeriod(reportPeriod)
		if err != nil {
			return err
		}
		interval, err := model.ParseInterval(reportInterval)
		if err != nil {
			return err
		}
		req := model.Request{Symbol: strings.ToUpper(args[0]), Period: period, Interval: interval}

		rec := provideRecorder(cfg)
		defer rec.Close()
		col, cleanup, err := provideCollector(cfg, nil, rec)
		if err != nil {
			return err
		}
		defer cleanup()

		res, err := col.Analyze(context.Background(), req)
		if err != nil {
			return err
		}
		if !res.OK() {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", res.Failure.Kind, res.Failure.Message)
			return res.Failure
		}
		if reportJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res.Series)
		}
		return printSeries(cmd.OutOrStdout(), req, res.Series, reportRows)
	},
}

func cell(v null.Float, places int32) string {
	if !v.Valid {
		return "-"
	}
	return decimal.NewFromFloat(v.Float64).StringFixed(places)
}

// printSeries writes the last rows bars as an aligned table plus the outlook.
func printSeries(w io.Writer, req model.Request, es *model.EnrichedSeries, rows int) error {
	fmt.Fprintf(w, "%s  %d bars\n\n", req, es.Len())

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "date\tclose\tvolume\trsi\tmacd\tsignal\tsma20\tsma50\t")
	start := es.Len() - rows
	if rows <= 0 || start < 0 {
		start = 0
	}
	for i := start; i < es.Len(); i++ {
		s := es.At(i)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			s.Time.Format("2006-01-02"),
			decimal.NewFromFloat(s.Bar.Close).StringFixed(2),
			decimal.NewFromFloat(s.Bar.Volume).StringFixed(0),
			cell(s.RSI, 2), cell(s.MACD, 4), cell(s.Signal, 4),
			cell(s.SMA20, 2), cell(s.SMA50, 2))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if o := strategy.Evaluate(es); o != nil {
		fmt.Fprintf(w, "\noutlook: %s (%+.3f)\n", o.Bias, o.TotalScore)
		for _, f := range o.Factors {
			fmt.Fprintf(w, "  %-15s %+.1f  %s\n", f.Name, f.RawScore, f.Commentary)
		}
		if o.WarningMsg != "" {
			fmt.Fprintln(w, o.WarningMsg)
		}
	}
	return nil
}

func init() {
	reportCmd.Flags().StringVar(&reportPeriod, "period", string(model.Period1y), "history window: 1mo, 3mo, 6mo, 1y, 5y")
	reportCmd.Flags().StringVar(&reportInterval, "interval", string(model.Interval1d), "bar size: 1d, 1wk, 1mo")
	reportCmd.Flags().IntVar(&reportRows, "rows", 10, "number of most recent bars to print (0 = all)")
	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "print the full enriched series as JSON")
	rootCmd.AddCommand(reportCmd)
}
