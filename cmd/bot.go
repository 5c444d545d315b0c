package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Varyaggg/quest-bot/internal/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var botToken string

// tokenCmd represents the token command
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Save the Telegram bot token to the config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if botToken == "" {
			fmt.Println("---")
			fmt.Println("Create your Telegram Bot & Get Token")
			fmt.Println("Open Telegram and search for the official @BotFather.")
			fmt.Println("Send the /newbot command and follow the prompts to name your bot and choose a unique username.")
			fmt.Println("BotFather will provide you with an HTTP API token. Store this token securely, as it is required for all API interactions.")
			fmt.Println("---")
			fmt.Print("token: ")

			scanner := bufio.NewScanner(os.Stdin)
			if scanner.Scan() {
				botToken = strings.TrimSpace(scanner.Text())
			}
		}
		if botToken == "" {
			return fmt.Errorf("no token given")
		}

		viper.Set(config.KeyToken, botToken)
		err := viper.WriteConfig()
		if err != nil {
			// No config file was read: create the default one.
			err = viper.SafeWriteConfig()
			if err != nil {
				home, _ := os.UserHomeDir()
				err = viper.WriteConfigAs(filepath.Join(home, ".quest-bot.yaml"))
			}
		}
		if err != nil {
			return fmt.Errorf("error saving configuration: %w", err)
		}
		fmt.Println("Telegram bot token saved successfully.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)

	tokenCmd.Flags().StringVarP(&botToken, "token", "t", "", "Telegram bot API token")
}
