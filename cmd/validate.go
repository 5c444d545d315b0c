package cmd

import (
	"fmt"

	"github.com/Varyaggg/quest-bot/internal/data"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a quest catalog for broken references",
	Long: `Loads the quest from [file], or from the content directories with the
built-in quest as fallback, and reports every problem found: duplicate ids,
scenes, items or monsters that do not exist, unknown traits and kinds.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			catalog *data.Catalog
			err     error
		)
		if len(args) == 1 {
			catalog, err = data.LoadFile(args[0])
		} else {
			_, _, catalog, err = setup()
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s: OK\n", catalog.Title)
		fmt.Fprintf(out, "Scenes:    %d (%d fights)\n", len(catalog.Scenes), len(catalog.CombatScenes()))
		fmt.Fprintf(out, "Monsters:  %d\n", len(catalog.Monsters))
		fmt.Fprintf(out, "Items:     %d\n", len(catalog.Items))
		fmt.Fprintf(out, "Abilities: %d\n", len(catalog.Abilities))
		fmt.Fprintf(out, "Start:     %s with %d HP\n", catalog.Start.Scene, catalog.Start.HP)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
