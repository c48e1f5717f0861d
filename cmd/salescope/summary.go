package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/salescope/salescope/internal/config"
	"github.com/salescope/salescope/internal/market"
	"github.com/salescope/salescope/internal/salesapi"
	"github.com/salescope/salescope/internal/tui"
)

func newSummaryCommand(cfg config.Config) *cobra.Command {
	var months int
	var borough string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Fetch once and print the KPI summary without the TUI.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client := salesapi.New(cfg.API.BaseURL, time.Duration(cfg.API.TimeoutSeconds)*time.Second)
			ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(cfg.API.TimeoutSeconds)*time.Second)
			defer cancel()

			window := market.ParseTimeWindow(months)
			scope := market.AllBoroughs()

			var rows []market.AggregateRow
			var err error
			if borough != "" {
				scope = market.BoroughScope(borough)
				rows, err = client.NeighborhoodSales(ctx, borough, window.Months())
			} else {
				rows, err = client.RecentSales(ctx, window.Months(), cfg.API.Pages)
			}
			if err != nil {
				return err
			}

			return printSummary(cmd.OutOrStdout(), scope, window, rows)
		},
	}

	cmd.Flags().IntVar(&months, "months", cfg.UI.WindowMonths, "trailing window in months (1, 3, 6 or 12)")
	cmd.Flags().StringVar(&borough, "borough", "", "drill into one borough's neighborhoods")
	return cmd
}

func printSummary(w io.Writer, scope market.Scope, window market.TimeWindow, rows []market.AggregateRow) error {
	summary := market.ComputeSummary(rows)

	fmt.Fprintf(w, "%s — %s\n\n", scope.Title(), window.Label())
	fmt.Fprintf(w, "Transactions:  %s\n", tui.FormatCount(float64(summary.TotalTransactions)))
	fmt.Fprintf(w, "Median price:  %s\n", tui.FormatMoney(summary.MeanOfMedians))
	fmt.Fprintf(w, "Top by value:  %s (%s)\n", summary.TopByValue.Label, tui.FormatMoney(summary.TopByValue.Value))
	fmt.Fprintf(w, "Most active:   %s (%s sales)\n\n", summary.TopByVolume.Label, tui.FormatCount(summary.TopByVolume.Value))

	unit := "BOROUGH"
	display := rows
	if !scope.AllBoroughs() {
		unit = "NEIGHBORHOOD"
		display = market.SortByMedianDesc(rows)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\tMEDIAN\tAVERAGE\tTRANSACTIONS\n", unit)
	for _, r := range display {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			r.Label,
			tui.FormatMoney(r.MedianValue),
			tui.FormatMoney(r.AverageValue),
			tui.FormatCount(float64(r.Count)))
	}
	return tw.Flush()
}
