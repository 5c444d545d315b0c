/*
Copyright © 2026 Varyaggg
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Varyaggg/quest-bot/internal/config"
	"github.com/Varyaggg/quest-bot/internal/telegram"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the quest as a Telegram bot",
	Long: `Connects to Telegram and plays one session per chat.

Updates are long-polled unless WEBHOOK_BASE is set, in which case the
webhook <base>/webhook/<secret> is registered and an HTTP server listens
on LISTEN_ADDR. With QUEST_JOURNAL set, sessions are restored from the
journal on start and every event is appended to it.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, catalog, err := setup()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		if cfg.BotToken == "" {
			return errors.New("no Telegram token: set BOT_TOKEN or run 'quest-bot token'")
		}

		game, closeJournal, err := newGame(cfg, logger, catalog)
		if err != nil {
			return err
		}
		defer closeJournal()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		client := telegram.NewClient(cfg.BotToken)
		bot := telegram.NewBot(client, game, logger, cfg.PollTimeout)

		if cfg.Webhook() {
			return serveWebhook(ctx, cfg, client, bot, logger)
		}
		// A registered webhook blocks getUpdates.
		if err := client.DeleteWebhook(ctx); err != nil {
			logger.Warn("failed to delete webhook", zap.Error(err))
		}
		return bot.Run(ctx)
	},
}

func serveWebhook(ctx context.Context, cfg config.Config, client *telegram.Client, bot *telegram.Bot, logger *zap.Logger) error {
	if err := client.SetWebhook(ctx, cfg.WebhookURL(), cfg.WebhookSecret); err != nil {
		return fmt.Errorf("failed to register webhook: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           bot.Routes(cfg.WebhookSecret),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	logger.Info("webhook server listening", zap.String("addr", cfg.ListenAddr))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("webhook server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down webhook server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("journal", "", "JSONL journal file or directory to restore from and append to")
	serveCmd.Flags().String("listen", "", "address the webhook server listens on")
	serveCmd.Flags().Int("poll-timeout", 0, "long-poll timeout in seconds")

	_ = viper.BindPFlag(config.KeyJournal, serveCmd.Flags().Lookup("journal"))
	_ = viper.BindPFlag(config.KeyListen, serveCmd.Flags().Lookup("listen"))
	_ = viper.BindPFlag(config.KeyPollTimeout, serveCmd.Flags().Lookup("poll-timeout"))
}
