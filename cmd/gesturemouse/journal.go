package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ayusman/gesturemouse/internal/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Inspect the action journal",
}

var journalSessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List recorded sessions as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		j, err := openJournal()
		if err != nil {
			return err
		}
		defer j.Close()

		sessions, err := j.Sessions().List()
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}
		if sessions == nil {
			sessions = []*journal.Session{}
		}
		return printJSON(sessions)
	},
}

var journalActionsCmd = &cobra.Command{
	Use:   "actions <session-id>",
	Short: "List the actions of a session as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		j, err := openJournal()
		if err != nil {
			return err
		}
		defer j.Close()

		id := args[0]
		if _, err := j.Sessions().GetByID(id); err != nil {
			if errors.Is(err, journal.ErrNotFound) {
				return fmt.Errorf("session %s: %w", id, err)
			}
			return err
		}

		actions, err := j.Actions().ListBySession(id)
		if err != nil {
			return fmt.Errorf("failed to list actions: %w", err)
		}
		if actions == nil {
			actions = []*journal.Action{}
		}
		return printJSON(actions)
	},
}

func init() {
	journalCmd.AddCommand(journalSessionsCmd, journalActionsCmd)
}

// openJournal opens the configured journal, or the default one. It does not
// create a journal that does not exist yet.
func openJournal() (*journal.Journal, error) {
	path := cfg.Journal
	if path == "" {
		p, err := defaultJournalPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("journal %s: %w", path, err)
	}
	return journal.Open(path)
}
