package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"zender/internal/history"
	"zender/internal/ui"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Resume from watch history",
	RunE:  historyRun,
}

var (
	flagClear  bool
	flagRemove bool
)

func init() {
	historyCmd.Flags().BoolVar(&flagClear, "clear", false, "Wipe the watch history")
	historyCmd.Flags().BoolVar(&flagRemove, "remove", false, "Pick an entry and delete it")
}

func historyRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store, err := openHistory(ctx)
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer store.Close()

	if flagClear {
		ok, err := ui.Confirm("Clear all watch history?")
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		return store.Clear(ctx)
	}

	entries, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}
	if len(entries) == 0 {
		fmt.Println("No history entries found.")
		return nil
	}

	if flagJSON {
		return printJSON(entries)
	}

	items := history.FormatForDisplay(entries)
	idx, err := ui.Select("History", items)
	if err != nil {
		return err
	}
	selected := entries[idx]

	if flagRemove {
		return store.Remove(ctx, selected.Site, selected.ID)
	}

	logger.Debug().Str("title", selected.Title).Str("url", selected.URL).Msg("resuming")

	// Release the database before the play flow reopens it.
	store.Close()

	flagContinue = true
	return playURL(cmd, selected.URL)
}
