package main

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/desertwitch/diskman/internal/journal"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals
var journalCmd = &cobra.Command{
	Use:   "journal [id]",
	Short: "Show the journal of dispatched operations",
	Long: `Show the most recent operations that were dispatched to the daemon, or
the full entry of one operation.

Operations that are pending were still in flight when the program exited,
their outcome is unknown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runJournal,
}

func init() { //nolint:gochecknoinits
	journalCmd.Flags().Int("limit", journal.DefaultRecent, "maximum amount of operations to show")
	journalCmd.Flags().Bool("pending", false, "only show operations that never completed")
	journalCmd.Flags().Duration("prune", 0, "delete completed operations older than this, such as 720h")

	rootCmd.AddCommand(journalCmd)
}

func runJournal(cmd *cobra.Command, args []string) error {
	if settings.JournalPath == "" {
		return fmt.Errorf("(main) %w", ErrNoJournal)
	}

	j, err := journal.Open(settings.JournalPath)
	if err != nil {
		return fmt.Errorf("(main) %w", err)
	}
	defer j.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	limit, _ := cmd.Flags().GetInt("limit")
	pending, _ := cmd.Flags().GetBool("pending")
	prune, _ := cmd.Flags().GetDuration("prune")

	switch {
	case len(args) == 1:
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("(main) invalid operation id %q: %w", args[0], err)
		}

		e, err := j.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("(main) %w", err)
		}
		printEntry(out, e)

	case prune > 0:
		n, err := j.Prune(ctx, time.Now().Add(-prune))
		if err != nil {
			return fmt.Errorf("(main) %w", err)
		}
		fmt.Fprintf(out, "Deleted %d operations.\n", n)

	default:
		var entries []*journal.Entry
		if pending {
			entries, err = j.Pending(ctx)
		} else {
			entries, err = j.Recent(ctx, limit)
		}
		if err != nil {
			return fmt.Errorf("(main) %w", err)
		}
		printEntries(out, entries)
	}

	return nil
}

func entryState(e *journal.Entry) string {
	switch {
	case !e.Done():
		return "pending"
	case e.Failed():
		return "failed"
	default:
		return "done"
	}
}

// printEntries prints journal entries as a table.
func printEntries(w io.Writer, entries []*journal.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No operations.")

		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "ISSUED", "OPERATION", "TARGET", "STATE")

	for _, e := range entries {
		t.Row(e.ID.String(), humanize.Time(e.Issued), e.Kind.String(), e.Target.String(), entryState(e))
	}

	fmt.Fprintln(w, t.String())
}

// printEntry prints all fields of a journal entry.
func printEntry(w io.Writer, e *journal.Entry) {
	row := func(label string, value string) {
		if value != "" {
			fmt.Fprintf(w, "%-12s %s\n", label+":", value)
		}
	}

	row("ID", e.ID.String())
	row("Operation", e.Kind.String())
	row("Target", e.Target.String())
	row("Parameters", e.Params)
	row("Issued", e.Issued.Format(time.RFC3339))
	row("State", entryState(e))

	if e.Done() {
		row("Completed", e.Completed.Format(time.RFC3339))
	}

	row("Created", e.Created.String())

	if e.NumErrors > 0 {
		row("Errors", humanize.Comma(int64(e.NumErrors))) //nolint:gosec
	}

	if e.Failed() {
		row("Error", fmt.Sprintf("%s: %s", e.ErrKind, e.ErrMessage))
	}
}
