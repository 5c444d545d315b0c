package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/Varyaggg/quest-bot/internal/engine"
	"github.com/Varyaggg/quest-bot/internal/session"
	"go.uber.org/zap"
)

// captionLimit is the longest photo caption Telegram accepts.
const captionLimit = 1024

// Game is what the bot drives.
type Game interface {
	Execute(playerID, text string) (*session.Reply, error)
	Start(playerID string) (*engine.Outcome, error)
	HandleNavigate(playerID, input string) (*engine.Outcome, error)
	HandleNavigateFrom(playerID, sceneID, input string) (*engine.Outcome, error)
	HandleCombatAction(playerID, action string) (*engine.Outcome, error)
	Hint(playerID string) (string, error)
}

// Bot connects Telegram chats to the game. Each chat is one player.
type Bot struct {
	client      *Client
	game        Game
	logger      *zap.Logger
	pollTimeout int
	retryDelay  time.Duration
	offset      int
	wg          sync.WaitGroup
}

// NewBot creates a bot that long-polls with the given timeout in seconds.
func NewBot(client *Client, game Game, logger *zap.Logger, pollTimeout int) *Bot {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bot{
		client:      client,
		game:        game,
		logger:      logger,
		pollTimeout: pollTimeout,
		retryDelay:  5 * time.Second,
	}
}

// Run long-polls for updates until ctx is done. Every update is handled on
// its own goroutine; Run waits for them before returning.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("telegram bot started", zap.Int("poll_timeout", b.pollTimeout))
	defer b.wg.Wait()
	for {
		if ctx.Err() != nil {
			return nil
		}
		updates, err := b.client.GetUpdates(ctx, b.offset, b.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			b.logger.Warn("failed to fetch updates", zap.Error(err))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(b.retryDelay):
			}
			continue
		}
		for _, upd := range updates {
			if upd.UpdateID >= b.offset {
				b.offset = upd.UpdateID + 1
			}
			b.wg.Add(1)
			go func(upd Update) {
				defer b.wg.Done()
				b.HandleUpdate(ctx, upd)
			}(upd)
		}
	}
}

// HandleUpdate answers one update.
func (b *Bot) HandleUpdate(ctx context.Context, upd Update) {
	switch {
	case upd.CallbackQuery != nil:
		b.handleCallback(ctx, upd.UpdateID, upd.CallbackQuery)
	case upd.Message != nil && upd.Message.Text != "":
		b.handleMessage(ctx, upd.UpdateID, upd.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, updateID int, msg *Message) {
	chatID := msg.Chat.ID
	reply, err := b.game.Execute(chatKey(chatID), msg.Text)
	if err != nil {
		b.logger.Error("failed to execute message",
			zap.Int("update_id", updateID), zap.Int64("chat", chatID), zap.Error(err))
		b.send(ctx, chatID, Outgoing{Text: "Something went wrong. Try /start."})
		return
	}
	for _, out := range Render(reply) {
		b.send(ctx, chatID, out)
	}
}

func (b *Bot) handleCallback(ctx context.Context, updateID int, cq *CallbackQuery) {
	if err := b.client.AnswerCallbackQuery(ctx, cq.ID, ""); err != nil {
		b.logger.Warn("failed to answer callback", zap.String("callback", cq.ID), zap.Error(err))
	}
	chatID := cq.From.ID
	if cq.Message != nil {
		chatID = cq.Message.Chat.ID
	}
	reply, err := b.callbackReply(chatKey(chatID), cq.Data)
	if err != nil {
		b.logger.Error("failed to handle callback",
			zap.Int("update_id", updateID), zap.Int64("chat", chatID), zap.String("data", cq.Data), zap.Error(err))
		b.send(ctx, chatID, Outgoing{Text: "Something went wrong. Try /start."})
		return
	}
	for _, out := range Render(reply) {
		b.send(ctx, chatID, out)
	}
}

// callbackReply routes button data. Domain errors come back inside the
// outcome and are rendered like any other.
func (b *Bot) callbackReply(player, data string) (*session.Reply, error) {
	outcome := func(out *engine.Outcome, err error) (*session.Reply, error) {
		if out == nil {
			return nil, err
		}
		return &session.Reply{Kind: session.ReplyOutcome, Outcome: out}, nil
	}
	switch {
	case strings.HasPrefix(data, dataGo):
		scene, choice, ok := splitGo(strings.TrimPrefix(data, dataGo))
		if !ok {
			return &session.Reply{Kind: session.ReplyError, Text: "That choice is no longer here."}, nil
		}
		return outcome(b.game.HandleNavigateFrom(player, scene, choice))
	case strings.HasPrefix(data, dataAct):
		return outcome(b.game.HandleCombatAction(player, strings.TrimPrefix(data, dataAct)))
	case data == dataHint:
		hint, err := b.game.Hint(player)
		if err != nil {
			return nil, err
		}
		if hint == "" {
			hint = "No hint here."
		}
		return &session.Reply{Kind: session.ReplyHint, Text: hint}, nil
	case data == dataStart:
		return outcome(b.game.Start(player))
	}
	return &session.Reply{Kind: session.ReplyError, Text: "Unknown action."}, nil
}

// send delivers out, falling back to plain text when the photo fails or
// the caption is too long for one.
func (b *Bot) send(ctx context.Context, chatID int64, out Outgoing) {
	if out.Photo != "" && utf8.RuneCountInString(out.Text) <= captionLimit {
		err := b.client.SendPhoto(ctx, chatID, out.Photo, out.Text, out.Markup)
		if err == nil {
			return
		}
		b.logger.Warn("failed to send photo, falling back to text", zap.Int64("chat", chatID), zap.Error(err))
	}
	if err := b.client.SendMessage(ctx, chatID, out.Text, out.Markup); err != nil {
		b.logger.Error("failed to send message", zap.Int64("chat", chatID), zap.Error(err))
	}
}

// Routes serves a health check on / and the webhook on /webhook/<secret>.
func (b *Bot) Routes(secret string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	mux.Handle("POST /webhook/"+secret, b.WebhookHandler(secret))
	return mux
}

// WebhookHandler accepts updates pushed by Telegram. The update is handled
// before the response is written.
func (b *Bot) WebhookHandler(secret string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if secret != "" && r.Header.Get("X-Telegram-Bot-Api-Secret-Token") != secret {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		var upd Update
		if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		b.HandleUpdate(r.Context(), upd)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
}
