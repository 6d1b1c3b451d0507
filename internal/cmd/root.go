package cmd

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "showtidy",
	Short: "Organize TV episode files into a canonical library layout",
	Long: `showtidy renames TV show folders, season folders, and episode files into
a consistent layout that media centers such as Jellyfin, Plex, and Emby
understand, enriching the names with metadata from TMDB.

Episode numbering is detected from filenames; ambiguous files can be
resolved interactively or fall back to configured defaults. Alongside the
renames the tool writes NFO sidecar files and downloads poster, fanart,
and episode-still artwork.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var (
	dryRun     bool
	force      bool
	noPrompt   bool
	skipImages bool
	verbose    bool
	apiKey     string
	language   string
	maxRetries int
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "n", false, "Report what would change without touching the filesystem")
	rootCmd.PersistentFlags().BoolVarP(&force, "force", "f", false, "Overwrite existing files on rename conflicts")
	rootCmd.PersistentFlags().BoolVarP(&noPrompt, "yes", "y", false, "Never prompt; accept top matches and fall back to default numbering")
	rootCmd.PersistentFlags().BoolVar(&skipImages, "skip-images", false, "Skip poster, fanart, and episode-still downloads")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "TMDB API key (overrides the configured key)")
	rootCmd.PersistentFlags().StringVar(&language, "language", "", "TMDB language code, e.g. en-US (overrides the configured language)")
	rootCmd.PersistentFlags().IntVar(&maxRetries, "max-retries", 0, "Maximum attempts per TMDB request (overrides the configured value)")
}

// newLogger builds the diagnostic logger for one command invocation.
// Operation history is recorded separately in the session log.
func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().
		Logger()
}
