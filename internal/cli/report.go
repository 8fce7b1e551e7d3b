package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"bizops/internal/core"
	"bizops/internal/report"
	"bizops/internal/sheets/google"
)

func newReportCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Revenue, expense and profit reports",
	}
	cmd.AddCommand(
		newReportSeriesCmd(e),
		newReportTopCmd(e),
		newReportSummaryCmd(e),
		newReportCompareCmd(e),
		newReportToDateCmd(e),
		newReportExportCmd(e),
	)
	return cmd
}

func newReportSeriesCmd(e *env) *cobra.Command {
	var granularity, at string
	cmd := &cobra.Command{
		Use:   "series",
		Short: "Revenue, expense and profit per period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := report.ParseGranularity(granularity)
			if err != nil {
				return err
			}
			var buckets []core.PeriodBucket
			if at == "" {
				buckets = e.app.Reports.Series(cmd.Context(), g)
			} else {
				day, err := e.parseDate(at)
				if err != nil {
					return err
				}
				// The window closes at the last instant of the given day.
				buckets = e.app.Reports.SeriesAt(cmd.Context(), g, day.AddDate(0, 0, 1).Add(-time.Nanosecond))
			}
			w := e.table()
			fmt.Fprintln(w, "PERIOD\tREVENUE\tEXPENSE\tPROFIT")
			for _, b := range buckets {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", b.Label, b.Revenue, b.Expense, b.Profit)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVarP(&granularity, "granularity", "g", string(report.Monthly), "daily, weekly, monthly or yearly")
	cmd.Flags().StringVar(&at, "at", "", "End the window on this date YYYY-MM-DD (default now)")
	return cmd
}

var topKeys = map[string]report.KeyFunc{
	"customer": report.ByCustomer,
	"platform": report.ByPlatform,
	"category": report.ByCategory,
}

func newReportTopCmd(e *env) *cobra.Command {
	var (
		by    string
		limit int
	)
	cmd := &cobra.Command{
		Use:   "top",
		Short: "Rank booking revenue by customer, platform or category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, ok := topKeys[strings.ToLower(by)]
			if !ok {
				return fmt.Errorf("unknown grouping %q: must be customer, platform or category", by)
			}
			w := e.table()
			fmt.Fprintf(w, "%s\tREVENUE\n", strings.ToUpper(by))
			for _, c := range e.app.Reports.Top(key, limit) {
				fmt.Fprintf(w, "%s\t%s\n", c.Name, c.Amount)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&by, "by", "customer", "customer, platform or category")
	cmd.Flags().IntVar(&limit, "limit", 5, "Number of entries to show")
	return cmd
}

func newReportSummaryCmd(e *env) *cobra.Command {
	var granularity string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Totals, averages and trend over the current window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := report.ParseGranularity(granularity)
			if err != nil {
				return err
			}
			s := e.app.Reports.Summary(cmd.Context(), g)
			w := e.table()
			fmt.Fprintf(w, "Periods\t%d\n", s.Buckets)
			fmt.Fprintf(w, "Revenue\t%s\t%s\n", s.TotalRevenue, s.RevenueTrend)
			fmt.Fprintf(w, "Expense\t%s\n", s.TotalExpense)
			fmt.Fprintf(w, "Profit\t%s\t%s\n", s.TotalProfit, s.ProfitTrend)
			fmt.Fprintf(w, "Average revenue\t%s\n", s.AverageRevenue)
			fmt.Fprintf(w, "Best period\t%s\t%s\n", s.Best.Label, s.Best.Profit)
			fmt.Fprintf(w, "Worst period\t%s\t%s\n", s.Worst.Label, s.Worst.Profit)
			return w.Flush()
		},
	}
	cmd.Flags().StringVarP(&granularity, "granularity", "g", string(report.Monthly), "daily, weekly, monthly or yearly")
	return cmd
}

func newReportCompareCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "compare",
		Short: "This month against last month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := e.app.Reports.CompareMonths()
			w := e.table()
			fmt.Fprintf(w, "\t%s\t%s\tCHANGE\n", c.Current.Start.Format("Jan 2006"), c.Previous.Start.Format("Jan 2006"))
			fmt.Fprintf(w, "Bookings\t%d\t%d\t%s\n", c.Current.Bookings, c.Previous.Bookings, c.Bookings)
			fmt.Fprintf(w, "Revenue\t%s\t%s\t%s\n", c.Current.Revenue, c.Previous.Revenue, c.Revenue)
			fmt.Fprintf(w, "Average\t%s\t%s\t%s\n", c.Current.Average, c.Previous.Average, c.Average)
			fmt.Fprintf(w, "Highest\t%s\t%s\t%s\n", c.Current.Highest, c.Previous.Highest, c.Highest)
			fmt.Fprintf(w, "Expenses\t%s\t%s\t%s\n", c.Current.Expenses, c.Previous.Expenses, c.Expenses)
			fmt.Fprintf(w, "Profit\t%s\t%s\t%s\n", c.Current.Profit, c.Previous.Profit, c.Profit)
			return w.Flush()
		},
	}
}

func newReportToDateCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "todate",
		Short: "Revenue and profit since the start of the day, week, month and year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t := e.app.Reports.ToDate()
			w := e.table()
			fmt.Fprintln(w, "PERIOD\tREVENUE\tPROFIT")
			fmt.Fprintf(w, "Today\t%s\t%s\n", t.Day, t.DayProfit)
			fmt.Fprintf(w, "This week\t%s\t%s\n", t.Week, t.WeekProfit)
			fmt.Fprintf(w, "This month\t%s\t%s\n", t.Month, t.MonthProfit)
			fmt.Fprintf(w, "This year\t%s\t%s\n", t.Year, t.YearProfit)
			fmt.Fprintf(w, "Expenses\t%s\t\n", t.ExpenseTotal)
			return w.Flush()
		},
	}
}

func newReportExportCmd(e *env) *cobra.Command {
	var push bool
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Flatten bookings and expenses into dated money rows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := e.app.Reports.ExportRows()
			if push {
				exp, err := google.New(cmd.Context(), google.Config{
					SpreadsheetID:   e.cfg.GoogleSpreadsheetID,
					SheetName:       e.cfg.GoogleSheetName,
					CredentialsJSON: e.cfg.GoogleServiceAccountJSON,
					CredentialsFile: e.cfg.GoogleServiceAccountFile,
				}, nil)
				if err != nil {
					return err
				}
				if err := exp.Export(cmd.Context(), rows); err != nil {
					return err
				}
				e.printf("Exported %d rows to sheet %s\n", len(rows), e.cfg.GoogleSheetName)
				return nil
			}
			w := e.table()
			fmt.Fprintln(w, "TYPE\tDATE\tDESCRIPTION\tCATEGORY\tAMOUNT")
			for _, r := range rows {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					r.Type, formatDate(r.Date.In(e.cfg.Location())), r.Description, r.Category, r.Amount)
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&push, "push", false, "Replace the configured Google Sheet with the rows instead of printing them")
	return cmd
}
