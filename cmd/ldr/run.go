package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/ujesh-sakariya/deepresearch-go/store"
	"github.com/ujesh-sakariya/deepresearch-go/types"
)

func newQuickSummaryCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "quick-summary <query>",
		Short: "Run a single-pass research and print a short summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOneShot(flags, args[0], types.ModeQuick)
		},
	}
}

func newGenerateReportCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "generate-report <query>",
		Short: "Run a full iterative research and write a cited, detailed report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOneShot(flags, args[0], types.ModeDetailed)
		},
	}
}

// runOneShot starts a research, blocks until it reaches a terminal state,
// renders its outcome, and maps that outcome to the process exit code via
// the error it returns: nil for completed, non-nil (main exits with
// status 1) for failed, suspended, or a start-time rejection.
func runOneShot(flags *rootFlags, query string, mode types.ResearchMode) error {
	a, err := newApp(flags)
	if err != nil {
		return err
	}

	ctx := context.Background()
	id, err := a.service.Start(ctx, query, mode, a.settings)
	if err != nil {
		return fmt.Errorf("start research: %w", err)
	}

	record, err := pollUntilTerminal(a, id)
	if err != nil {
		return err
	}

	renderOutcome(record)

	switch types.ResearchStatus(record.Status) {
	case types.StatusCompleted:
		return nil
	case types.StatusFailed:
		return fmt.Errorf("research failed")
	default:
		return fmt.Errorf("research ended with status %q", record.Status)
	}
}

// pollUntilTerminal polls the stored record until its status leaves
// in_progress. There is no push notification for a one-shot CLI run, so
// polling is the simplest correct approach; the interval is short enough
// not to visibly lag interactive use.
func pollUntilTerminal(a *app, id string) (*store.ResearchHistory, error) {
	for {
		record, err := a.service.Status(id)
		if err != nil {
			return nil, fmt.Errorf("check research status: %w", err)
		}
		if types.ResearchStatus(record.Status) != types.StatusInProgress {
			return record, nil
		}
		time.Sleep(200 * time.Millisecond)
	}
}

func renderOutcome(record *store.ResearchHistory) {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.SetStyle(table.StyleRounded)
	tw.Style().Options.SeparateRows = false

	tw.AppendRow(table.Row{"Query", record.Query})
	tw.AppendRow(table.Row{"Mode", record.Mode})
	tw.AppendRow(table.Row{"Status", record.Status})
	tw.AppendRow(table.Row{"Progress", fmt.Sprintf("%d%%", record.Progress)})
	if record.DurationSeconds != nil {
		tw.AppendRow(table.Row{"Duration", fmt.Sprintf("%.1fs", *record.DurationSeconds)})
	}
	if record.ReportPath != "" {
		tw.AppendRow(table.Row{"Report", record.ReportPath})
	}
	tw.Render()

	if record.ReportPath != "" {
		if content, err := os.ReadFile(record.ReportPath); err == nil {
			fmt.Println()
			fmt.Println(strings.TrimSpace(string(content)))
		}
	}
}
