package cmd

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"kidung-scraper/lib/fetchutil"
	"kidung-scraper/lib/hymn"
	"kidung-scraper/lib/hymnstore/db"
	"kidung-scraper/lib/restyutil"
	"kidung-scraper/lib/serviceutil"
	"kidung-scraper/lib/telemetry"
	"kidung-scraper/services/scraper"
)

var (
	testing   bool
	sleep     time.Duration
	debugHttp string
)

func init() {
	scrapeCmd.Flags().BoolVar(&testing, "testing", false, "only scrape a random sample of 5 links per songbook")
	scrapeCmd.Flags().DurationVar(&sleep, "sleep", time.Millisecond*800, "pause between consecutive songs")
	scrapeCmd.Flags().StringVar(&debugHttp, "debug-http", "", "directory to dump http transcripts into")
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrapes every configured link file into the database.",
	Args:  cobra.MaximumNArgs(0),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := serviceutil.SignalContext()

		tele, err := telemetry.SetupFromEnv(ctx, "kidung-scraper")
		if err != nil {
			serviceutil.Fatal("failed to setup telemetry", err)
		}
		defer tele.Shutdown(ctx)
		telemetry.InstrumentPerfStats(ctx)

		config, err := readConfig()
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}

		database, err := config.Database.OpenDB(db.Schema)
		if err != nil {
			serviceutil.Fatal("failed to open database", err)
		}
		defer database.Close()

		var debugOutput restyutil.InstrumentOutput
		if debugHttp != "" {
			debugOutput = restyutil.NewFilesystemOutput(debugHttp)
		}
		fetch := fetchutil.NewClient(fetchutil.ClientOptions{
			UserAgent:   config.Scraper.UserAgent,
			DebugOutput: debugOutput,
		})

		opts := scraper.Options{Delay: sleep}
		if testing {
			opts.SampleSize = 5
		}
		service := scraper.NewService(database, fetch, opts)

		var total scraper.Summary
		for _, songbook := range hymn.Songbooks {
			if path, ok := config.Scraper.LinkFiles[songbook]; ok {
				summary, err := service.ProcessFile(ctx, songbook, path)
				total = total.Add(summary)
				if err != nil {
					serviceutil.Fatal("scrape aborted", err)
				}
			}
			if max, ok := config.Scraper.Ranges[songbook]; ok && max > 0 {
				summary, err := service.ProcessRange(ctx, songbook, max)
				total = total.Add(summary)
				if err != nil {
					serviceutil.Fatal("scrape aborted", err)
				}
			}
		}

		slog.InfoContext(ctx, "all songbooks done",
			"succeeded", total.Succeeded, "failed", total.Failed)
	},
}
