/*
Copyright © 2026 Varyaggg
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play the quest in the terminal",
	Long: `Starts an interactive terminal session of the quest.
Type a choice number or its words, a combat action, or a command:
	> 2
	> igni
	> /hint`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, catalog, err := setup()
		if err != nil {
			return err
		}
		// The alternate screen owns the terminal; keep logs out of it.
		game, closeJournal, err := newGame(cfg, zap.NewNop(), catalog)
		if err != nil {
			return err
		}
		defer closeJournal()

		player, _ := cmd.Flags().GetString("player")
		if err := RunTUI(game, player); err != nil {
			return fmt.Errorf("terminal session failed: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().StringP("player", "p", "local", "player id, to resume a journaled session")
}
