package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/showtidy/showtidy/internal/artwork"
	"github.com/showtidy/showtidy/internal/config"
	oplog "github.com/showtidy/showtidy/internal/log"
	"github.com/showtidy/showtidy/internal/nfo"
	"github.com/showtidy/showtidy/internal/organize"
	"github.com/showtidy/showtidy/internal/rename"
	"github.com/showtidy/showtidy/internal/resolve"
	"github.com/showtidy/showtidy/internal/tmdb"
)

var organizeCmd = &cobra.Command{
	Use:   "organize <folder> [folder...]",
	Short: "Rename show folders and their episodes into the canonical layout",
	Long: `Process one or more show folders: resolve each against TMDB, rename the
folder to "Name (Year)", rename season folders to S01-style names, rename
episode files to S01E01_Title form, and write NFO sidecars and artwork.

A failure in one folder never stops the others; the summary table reports
every folder's outcome.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runOrganizeCommand,
}

func runOrganizeCommand(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cfg.DryRun = dryRun
	cfg.Force = force
	cfg.NoPrompt = noPrompt
	cfg.SkipImages = skipImages
	if apiKey != "" {
		cfg.TMDBAPIKey = apiKey
	}
	if language != "" {
		cfg.TMDBLanguage = language
	}
	if maxRetries > 0 {
		cfg.MaxAPIRetries = maxRetries
	}
	if cfg.TMDBAPIKey == "" {
		return fmt.Errorf("no TMDB API key configured; run `showtidy config --api-key <key>` or pass --api-key")
	}

	var session *oplog.Session
	if cfg.EnableLogging && !cfg.DryRun {
		logDir, err := oplog.DefaultDir()
		if err != nil {
			return err
		}
		if err := oplog.Cleanup(logDir, cfg.LogRetentionDays); err != nil {
			logger.Warn().Err(err).Msg("session log cleanup failed")
		}
		session = oplog.NewSession("organize", args, logDir)
		defer func() {
			if err := session.Close(); err != nil {
				logger.Warn().Err(err).Msg("session log write failed")
			}
		}()
	}

	client := tmdb.NewClient(tmdb.Options{
		APIKey:     cfg.TMDBAPIKey,
		Language:   cfg.TMDBLanguage,
		MaxRetries: cfg.MaxAPIRetries,
		RetryDelay: cfg.RetryDelay(),
		Logger:     logger,
	})

	fs := afero.NewOsFs()
	org := &organize.Organizer{
		FS:       fs,
		Source:   client,
		Resolver: resolve.New(client, logger),
		Engine:   rename.NewEngine(fs, cfg.DryRun, cfg.Force, session, logger),
		NFO:      nfo.NewWriter(fs, cfg.DryRun, session, logger),
		Artwork:  artwork.NewDownloader(fs, nil, cfg.DryRun, cfg.Force, session, logger),
		Prompt:   organize.NewTerminalPrompter(os.Stdin, os.Stdout, cfg.NoPrompt, cfg.DefaultSeason, cfg.DefaultEpisode),
		Config:   cfg,
		Log:      logger,
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var total organize.Summary
	failedFolders := 0

	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Folder", "Renamed", "Failed", "Total", "Note"})

	for _, arg := range args {
		dir, err := filepath.Abs(arg)
		if err == nil {
			var info os.FileInfo
			info, err = fs.Stat(dir)
			if err == nil && !info.IsDir() {
				err = fmt.Errorf("not a directory")
			}
		}
		if err != nil {
			logger.Error().Str("folder", arg).Err(err).Msg("skipping folder")
			tw.AppendRow(table.Row{arg, 0, 0, 0, err.Error()})
			failedFolders++
			continue
		}

		summary, err := org.ProcessShow(ctx, dir)
		total.Renamed += summary.Renamed
		total.Failed += summary.Failed
		total.Total += summary.Total
		note := ""
		if err != nil {
			logger.Error().Str("folder", arg).Err(err).Msg("folder failed")
			note = err.Error()
			failedFolders++
		}
		tw.AppendRow(table.Row{arg, summary.Renamed, summary.Failed, summary.Total, note})
	}

	tw.Render()
	fmt.Printf("renamed %d of %d, failed %d\n", total.Renamed, total.Total, total.Failed)

	if failedFolders == len(args) {
		return fmt.Errorf("all %d folders failed", len(args))
	}
	return nil
}

func init() {
	rootCmd.AddCommand(organizeCmd)
}
