package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"kidung-scraper/lib/configutil"
	configsqlite "kidung-scraper/lib/configutil/sqlite"
	"kidung-scraper/lib/telemetry"
)

type ScraperConfig struct {
	// songbook code -> path of a file with one source url per line
	LinkFiles map[string]string `json:"link_files"`
	// songbook code -> highest page number to crawl on alkitab.app, for
	// songbooks (KPPK, KPRI) that have no link file
	Ranges map[string]int `json:"ranges"`
	// overrides the built-in desktop browser user agent
	UserAgent string `json:"user_agent"`
}

type Config struct {
	Database configsqlite.Struct `json:"database"`
	Scraper  ScraperConfig       `json:"scraper"`
}

var (
	configFile string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "kidung",
	Short: "kidung scrapes Indonesian hymn lyrics and metadata into a local database.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "config.json5", "path to the config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func readConfig() (Config, error) {
	return configutil.ReadConfig[Config](configFile)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
