package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	oplog "github.com/showtidy/showtidy/internal/log"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent organize sessions",
	Long: `Display the operation logs of recent runs: when each session ran, what it
was invoked on, and how many operations succeeded or failed.`,
	RunE: runHistoryCommand,
}

func runHistoryCommand(cmd *cobra.Command, args []string) error {
	dir, err := oplog.DefaultDir()
	if err != nil {
		return err
	}
	sessions, err := oplog.ReadSessions(dir, historyLimit)
	if err != nil {
		return fmt.Errorf("read session logs: %w", err)
	}
	if len(sessions) == 0 {
		fmt.Println("No sessions recorded.")
		return nil
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"When", "Command", "Ops", "OK", "Failed"})
	for _, s := range sessions {
		tw.AppendRow(table.Row{
			s.Metadata.Timestamp.Format("2006-01-02 15:04"),
			strings.Join(s.Metadata.CommandArgs, " "),
			s.Metadata.TotalOps,
			s.Metadata.SuccessfulOps,
			s.Metadata.FailedOps,
		})
	}
	tw.Render()
	return nil
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "Maximum number of sessions to show")
	rootCmd.AddCommand(historyCmd)
}
