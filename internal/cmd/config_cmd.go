package cmd

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/showtidy/showtidy/internal/config"
)

var (
	cfgAPIKey    string
	cfgLanguage  string
	cfgRetention int
	cfgRetries   int
	cfgLogging   string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change the persistent configuration",
	Long: `Without flags, print the current configuration and its file location.
With flags, update the named settings and save the file.`,
	RunE: runConfigCommand,
}

func runConfigCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	changed := false
	if cfgAPIKey != "" {
		cfg.TMDBAPIKey = cfgAPIKey
		changed = true
	}
	if cfgLanguage != "" {
		cfg.TMDBLanguage = cfgLanguage
		changed = true
	}
	if cfgRetention > 0 {
		cfg.LogRetentionDays = cfgRetention
		changed = true
	}
	if cfgRetries > 0 {
		cfg.MaxAPIRetries = cfgRetries
		changed = true
	}
	switch cfgLogging {
	case "":
	case "on":
		cfg.EnableLogging = true
		changed = true
	case "off":
		cfg.EnableLogging = false
		changed = true
	default:
		return fmt.Errorf("invalid --logging value %q (must be on or off)", cfgLogging)
	}

	if changed {
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println("Configuration saved.")
		return nil
	}

	path, err := config.Path()
	if err != nil {
		return err
	}
	key := "(not set)"
	if cfg.TMDBAPIKey != "" {
		key = "****" + lastN(cfg.TMDBAPIKey, 4)
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Setting", "Value"})
	tw.AppendRow(table.Row{"config file", path})
	tw.AppendRow(table.Row{"tmdb api key", key})
	tw.AppendRow(table.Row{"tmdb language", cfg.TMDBLanguage})
	tw.AppendRow(table.Row{"max api retries", cfg.MaxAPIRetries})
	tw.AppendRow(table.Row{"retry delay", cfg.RetryDelay().String()})
	tw.AppendRow(table.Row{"session logging", cfg.EnableLogging})
	tw.AppendRow(table.Row{"log retention days", cfg.LogRetentionDays})
	tw.Render()
	return nil
}

func lastN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

func init() {
	configCmd.Flags().StringVar(&cfgAPIKey, "api-key", "", "Set the TMDB API key")
	configCmd.Flags().StringVar(&cfgLanguage, "language", "", "Set the TMDB language code, e.g. en-US")
	configCmd.Flags().IntVar(&cfgRetention, "retention", 0, "Set session log retention in days")
	configCmd.Flags().IntVar(&cfgRetries, "max-retries", 0, "Set the maximum attempts per TMDB request")
	configCmd.Flags().StringVar(&cfgLogging, "logging", "", "Enable or disable session logging (on|off)")
	rootCmd.AddCommand(configCmd)
}
