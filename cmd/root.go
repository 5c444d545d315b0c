/*
Copyright © 2026 Varyaggg
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/Varyaggg/quest-bot/internal/config"
	"github.com/Varyaggg/quest-bot/internal/data"
	"github.com/Varyaggg/quest-bot/internal/logging"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "quest-bot",
	Short: "A branching quest with turn-based fights, played over Telegram",
	Long: `quest-bot runs a text quest: scenes with numbered choices, puzzles,
items and runes, and turn-based fights against monsters with traits.

Serve it to Telegram with 'serve', play it locally with 'play', and check
new content with 'validate' and 'balance'.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.quest-bot.yaml)")
	rootCmd.PersistentFlags().String("content", "", "comma separated directories searched for quest.yaml (the built-in quest is the fallback)")
	rootCmd.PersistentFlags().Int64("seed", 0, "dice seed, 0 for random")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "log format (console or json)")

	_ = viper.BindPFlag(config.KeyContent, rootCmd.PersistentFlags().Lookup("content"))
	_ = viper.BindPFlag(config.KeySeed, rootCmd.PersistentFlags().Lookup("seed"))
	_ = viper.BindPFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag(config.KeyLogFormat, rootCmd.PersistentFlags().Lookup("log-format"))
}

// initConfig reads in config file if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".quest-bot")
	}

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setup loads the configuration, the logger and the quest catalog shared by
// every command that plays the game.
func setup() (config.Config, *zap.Logger, *data.Catalog, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return cfg, nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return cfg, nil, nil, fmt.Errorf("failed to build logger: %w", err)
	}
	catalog, err := data.NewLoader(cfg.ContentDirs()).Load("")
	if err != nil {
		return cfg, logger, nil, err
	}
	return cfg, logger, catalog, nil
}
