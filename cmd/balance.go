package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/Varyaggg/quest-bot/internal/balance"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Simulate every fight of the quest",
	Long: `Plays each combat scene many times with a fresh player and a simple
policy (drink when low, otherwise the strongest ready attack) and prints the
win rate, the average length and the threat estimate of every fight.

--policy replaces the built-in policy with a CEL expression over player,
monster, ready and turn that names the action to take.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, catalog, err := setup()
		if err != nil {
			return err
		}
		trials, _ := cmd.Flags().GetInt("trials")
		maxTurns, _ := cmd.Flags().GetInt("max-turns")
		policy, _ := cmd.Flags().GetString("policy")

		scenes := len(catalog.CombatScenes())
		bar := progressbar.Default(int64(scenes*trials), "Simulating")
		reports, err := balance.Run(catalog, balance.Options{
			Trials:   trials,
			Seed:     cfg.Seed,
			MaxTurns: maxTurns,
			Policy:   policy,
			Progress: func() { _ = bar.Add(1) },
		})
		_ = bar.Finish()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "\nSCENE\tMONSTER\tHP\tTHREAT\tWIN\tTURNS\tHP LEFT\tFATE\tSTALLED")
		for _, r := range reports {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%.0f%%\t%.1f\t%.1f\t%d\t%d\n",
				r.Scene, r.Monster, r.MonsterHP, r.Threat, r.WinRate()*100, r.AvgTurns, r.AvgHPLeft, r.FateSaves, r.Stalled)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(balanceCmd)

	balanceCmd.Flags().IntP("trials", "n", 500, "fights per scene")
	balanceCmd.Flags().Int("max-turns", 100, "turns after which a fight counts as stalled")
	balanceCmd.Flags().String("policy", "", `CEL expression choosing each action, e.g. 'player.hp_ratio < 0.3 && player.potions > 0 ? "consume-potion" : "strike"'`)
}
