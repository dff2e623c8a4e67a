package commands

import (
	"autorace-crawler/internal/components/telemetry"
	"autorace-crawler/internal/scrapers/autorace"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
)

var resultsYear *int
var resultsMonth *int
var resultsFormat *string
var resultsConcurrency *int

func init() {
	resultsYear = resultsCmd.Flags().IntP("year", "y", time.Now().Year(), "The year to collect result links of.")
	resultsMonth = resultsCmd.Flags().IntP("month", "m", 0, "Only query a single month (1-12), the links are listed as the site orders them.")
	resultsFormat = resultsCmd.Flags().StringP("format", "f", formatTable, "Output format: table, plain or json.")
	resultsConcurrency = resultsCmd.Flags().IntP("concurrency", "c", 0, "Monthly queries in flight at once, overrides the config.")
	rootCmd.AddCommand(resultsCmd)
}

var resultsCmd = &cobra.Command{
	Use:   "results [--year <year>] [--month <month>] [--format table|plain|json]",
	Short: "Lists the result page links of a year (or a single month).",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		err := validateFormat(*resultsFormat)
		if err != nil {
			return err
		}
		if *resultsMonth < 0 || *resultsMonth > 12 {
			return fmt.Errorf("--month must be within 1-12, got %d", *resultsMonth)
		}

		cfg, err := LoadConfig(*configPath)
		if err != nil {
			return err
		}
		if cfg.Verbose {
			telemetry.InitSlog(true)
		}
		if cmd.Flags().Changed("concurrency") {
			cfg.Concurrency = *resultsConcurrency
		}

		client, err := autorace.NewClient(cfg.ClientOptions(), telemetry.NewDefaultSlogAPI())
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		start := time.Now()

		var hrefs []string
		var title string
		if *resultsMonth != 0 {
			session, err := client.EstablishSession(ctx)
			if err != nil {
				return err
			}
			hrefs, err = client.FetchMonth(ctx, *resultsYear, *resultsMonth, session)
			if err != nil {
				return err
			}
			title = fmt.Sprintf("%04d-%02d", *resultsYear, *resultsMonth)
		} else {
			hrefs, err = client.FetchResultUrlsOfYear(ctx, *resultsYear)
			if err != nil {
				return err
			}
			title = fmt.Sprintf("%04d", *resultsYear)
		}

		slog.Info(
			"crawl finished",
			"year", *resultsYear,
			"month", *resultsMonth,
			"results", len(hrefs),
			"seconds", time.Since(start).Seconds(),
		)

		return renderHrefs(cmd.OutOrStdout(), *resultsFormat, title, hrefs)
	},
}
