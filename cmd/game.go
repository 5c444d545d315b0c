package cmd

import (
	"fmt"

	"github.com/Varyaggg/quest-bot/internal/config"
	"github.com/Varyaggg/quest-bot/internal/data"
	"github.com/Varyaggg/quest-bot/internal/persistence"
	"github.com/Varyaggg/quest-bot/internal/session"

	"go.uber.org/zap"
)

// newGame builds the game over catalog. With a journal configured, earlier
// sessions are restored from it and new events are appended to it; the
// returned func closes the journal.
func newGame(cfg config.Config, logger *zap.Logger, catalog *data.Catalog) (*session.Game, func(), error) {
	store := session.NewStore(catalog.Start, session.SeededDice(cfg.Seed))
	opts := []session.Option{session.WithLogger(logger)}
	closeJournal := func() {}

	if cfg.Journal != "" {
		journal, err := persistence.Open(cfg.Journal)
		if err != nil {
			return nil, closeJournal, fmt.Errorf("failed to open journal: %w", err)
		}
		entries, err := journal.Load()
		if err != nil {
			_ = journal.Close()
			return nil, closeJournal, fmt.Errorf("failed to read journal: %w", err)
		}
		if err := store.Restore(persistence.GroupByPlayer(entries)); err != nil {
			_ = journal.Close()
			return nil, closeJournal, fmt.Errorf("failed to restore sessions: %w", err)
		}
		logger.Info("sessions restored",
			zap.Int("events", len(entries)),
			zap.Int("players", len(store.Players())))

		opts = append(opts, session.WithJournal(journal))
		closeJournal = func() {
			if err := journal.Close(); err != nil {
				logger.Warn("failed to close journal", zap.Error(err))
			}
		}
	}
	return session.NewGame(catalog, store, opts...), closeJournal, nil
}
