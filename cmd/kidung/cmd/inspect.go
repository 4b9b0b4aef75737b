package cmd

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"kidung-scraper/lib/hymnstore"
	"kidung-scraper/lib/hymnstore/db"
	"kidung-scraper/lib/serviceutil"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Lists the hymns currently stored in the database.",
	Args:  cobra.MaximumNArgs(0),
	Run: func(cmd *cobra.Command, args []string) {
		config, err := readConfig()
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}

		database, err := config.Database.OpenDB(db.Schema)
		if err != nil {
			serviceutil.Fatal("failed to open database", err)
		}
		defer database.Close()

		store := hymnstore.NewStore(database)
		records, err := store.List(context.Background())
		if err != nil {
			serviceutil.Fatal("failed to list hymns", err)
		}

		t := table.NewWriter()
		t.SetStyle(table.StyleRounded)
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Songbook", "No", "Title", "Blocks", "Parts", "Fetched", "Warnings"})

		for _, rec := range records {
			parts := 0
			for _, block := range rec.Blocks {
				parts += len(block.Parts)
			}
			t.AppendRow(table.Row{
				rec.Songbook,
				rec.Number,
				rec.TitleText,
				len(rec.Blocks),
				parts,
				rec.FetchedAt.Format(time.DateOnly),
				strings.Join(rec.Warnings, "; "),
			})
		}

		t.Render()
	},
}
