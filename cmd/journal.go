/*
Copyright © 2026 Varyaggg
*/
package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/Varyaggg/quest-bot/internal/engine"
	"github.com/Varyaggg/quest-bot/internal/persistence"

	"github.com/spf13/cobra"
)

// journalCmd represents the journal command
var journalCmd = &cobra.Command{
	Use:   "journal [path]",
	Short: "Replay a journal and print every player's state",
	Long: `Reads a JSONL journal written by 'serve' and rebuilds each player
through the event projector, the same way sessions are restored on start.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, catalog, err := setup()
		if err != nil {
			return err
		}
		path := cfg.Journal
		if len(args) == 1 {
			path = args[0]
		}
		if path == "" {
			return fmt.Errorf("no journal: pass [path] or set QUEST_JOURNAL")
		}
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("journal not found: %w", err)
		}

		journal, err := persistence.Open(path)
		if err != nil {
			return err
		}
		defer journal.Close()

		entries, err := journal.Load()
		if err != nil {
			return fmt.Errorf("failed to read journal: %w", err)
		}

		streams := persistence.GroupByPlayer(entries)
		players := make([]string, 0, len(streams))
		for id := range streams {
			players = append(players, id)
		}
		sort.Strings(players)

		projector := engine.NewProjector(catalog.Start)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Processed %d events for %d players.\n", len(entries), len(players))
		for _, id := range players {
			p, err := projector.Build(streams[id])
			if err != nil {
				fmt.Fprintf(out, "- %s: %v\n", id, err)
				continue
			}
			where := p.SceneID
			if s, ok := catalog.Scene(p.SceneID); ok {
				where = s.Title
			}
			fmt.Fprintf(out, "- %s: %s (HP: %d/%d, level %d, %d turns)", id, where, p.HP, p.MaxHP, p.Level, p.Turns)
			if p.Combat != nil {
				fmt.Fprintf(out, " fighting %s (%d/%d)", p.Combat.Name, p.Combat.HP, p.Combat.MaxHP)
			}
			if items := p.Inventory.Items(); len(items) > 0 {
				fmt.Fprintf(out, " [%s]", strings.Join(items, ", "))
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(journalCmd)
}
