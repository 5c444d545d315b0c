package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Varyaggg/quest-bot/internal/data"
	"github.com/Varyaggg/quest-bot/internal/engine"
	"github.com/Varyaggg/quest-bot/internal/parser"
	"github.com/alecthomas/participle/v2"
	"go.uber.org/zap"
)

// Journal receives the events of every request after they were applied.
type Journal interface {
	Append(player string, events []engine.Event) error
}

// Option configures a Game.
type Option func(*Game)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(g *Game) { g.logger = logger }
}

// WithJournal records every applied event to j.
func WithJournal(j Journal) Option {
	return func(g *Game) { g.journal = j }
}

// Game is the entry point transports talk to. It routes each request to the
// player's session and to the navigator or the resolver.
type Game struct {
	nav     *engine.Navigator
	res     *engine.Resolver
	store   *Store
	journal Journal
	logger  *zap.Logger
	parser  *participle.Parser[parser.Command]
}

// NewGame wires a game over catalog and store.
func NewGame(catalog *data.Catalog, store *Store, opts ...Option) *Game {
	nav := engine.NewNavigator(catalog)
	g := &Game{
		nav:    nav,
		res:    engine.NewResolver(nav),
		store:  store,
		logger: zap.NewNop(),
		parser: parser.Build(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Catalog returns the content the game runs on.
func (g *Game) Catalog() *data.Catalog {
	return g.nav.Catalog()
}

// Store returns the session store.
func (g *Game) Store() *Store {
	return g.store
}

type step func(p *engine.Player, dice engine.Dice) (*engine.Outcome, error)

// run executes fn under the player's lock. A player seen for the first time
// enters the start scene before fn runs. Domain errors come back with the
// outcome; anything else aborts the request.
func (g *Game) run(playerID, op string, fn step) (*engine.Outcome, error) {
	intro, err := g.begin(playerID)
	if err != nil {
		g.logger.Error("failed to start player", zap.String("player", playerID), zap.Error(err))
		return nil, err
	}

	var (
		out       *engine.Outcome
		domainErr error
	)
	err = g.store.With(playerID, func(p *engine.Player, dice engine.Dice, _ bool) error {
		o, err := fn(p, dice)
		var de *engine.Error
		if err != nil && !errors.As(err, &de) {
			return err
		}
		g.record(playerID, p, op, o)
		if intro != nil {
			o.Events = append(intro.Events, o.Events...)
			o.Log = append(intro.Log, o.Log...)
		}
		out, domainErr = o, err
		return nil
	})
	if err != nil {
		g.logger.Error("request failed", zap.String("player", playerID), zap.String("op", op), zap.Error(err))
		return nil, err
	}
	return out, domainErr
}

// begin enters the start scene on first contact and journals it on its own,
// so the intro sticks even when the request that follows fails.
func (g *Game) begin(playerID string) (*engine.Outcome, error) {
	var intro *engine.Outcome
	err := g.store.With(playerID, func(p *engine.Player, _ engine.Dice, fresh bool) error {
		if !fresh {
			return nil
		}
		out, err := g.nav.Enter(p, g.nav.Catalog().Start.Scene)
		if err != nil {
			return err
		}
		g.record(playerID, p, "intro", out)
		intro = out
		return nil
	})
	return intro, err
}

func (g *Game) record(playerID string, p *engine.Player, op string, out *engine.Outcome) {
	fields := []zap.Field{
		zap.String("player", playerID),
		zap.String("op", op),
		zap.String("scene", p.SceneID),
		zap.Int("events", len(out.Events)),
	}
	if out.Code != "" {
		g.logger.Info("request rejected", append(fields, zap.String("code", string(out.Code)))...)
	} else {
		g.logger.Debug("request handled", fields...)
	}
	if out.Result != engine.ResultOngoing {
		g.logger.Info("encounter ended", zap.String("player", playerID), zap.String("result", string(out.Result)))
	}
	if g.journal == nil || len(out.Events) == 0 {
		return
	}
	if err := g.journal.Append(playerID, out.Events); err != nil {
		g.logger.Error("failed to journal events", zap.String("player", playerID), zap.Error(err))
	}
}

// Start shows where the player stands, beginning the quest on first contact.
func (g *Game) Start(playerID string) (*engine.Outcome, error) {
	return g.run(playerID, "start", func(p *engine.Player, _ engine.Dice) (*engine.Outcome, error) {
		return g.nav.View(p), nil
	})
}

// Reset throws the run away and enters the start scene with fresh stats.
func (g *Game) Reset(playerID string) (*engine.Outcome, error) {
	return g.run(playerID, "reset", func(p *engine.Player, _ engine.Dice) (*engine.Outcome, error) {
		return g.nav.Restart(p)
	})
}

// HandleNavigate takes the choice named by input: its number, label or target.
func (g *Game) HandleNavigate(playerID, input string) (*engine.Outcome, error) {
	return g.run(playerID, "navigate", func(p *engine.Player, _ engine.Dice) (*engine.Outcome, error) {
		return g.nav.Choose(p, input)
	})
}

// HandleNavigateFrom takes a choice that was offered in scene sceneID.
func (g *Game) HandleNavigateFrom(playerID, sceneID, input string) (*engine.Outcome, error) {
	return g.run(playerID, "navigate", func(p *engine.Player, _ engine.Dice) (*engine.Outcome, error) {
		return g.nav.ChooseFrom(p, sceneID, input)
	})
}

// HandleCombatAction plays one combat turn with the named action.
func (g *Game) HandleCombatAction(playerID, action string) (*engine.Outcome, error) {
	return g.run(playerID, "combat", func(p *engine.Player, dice engine.Dice) (*engine.Outcome, error) {
		return g.res.Act(p, action, dice)
	})
}

// Hint returns the hint for the player's current scene or fight.
func (g *Game) Hint(playerID string) (string, error) {
	var hint string
	_, err := g.run(playerID, "hint", func(p *engine.Player, _ engine.Dice) (*engine.Outcome, error) {
		hint = g.nav.Hint(p)
		return g.nav.View(p), nil
	})
	return hint, err
}

// Status summarizes the player.
func (g *Game) Status(playerID string) (engine.Status, error) {
	var st engine.Status
	_, err := g.run(playerID, "status", func(p *engine.Player, _ engine.Dice) (*engine.Outcome, error) {
		st = g.nav.Status(p)
		return g.nav.View(p), nil
	})
	return st, err
}

// View shows where the player stands without changing anything.
func (g *Game) View(playerID string) (*engine.Outcome, error) {
	return g.run(playerID, "view", func(p *engine.Player, _ engine.Dice) (*engine.Outcome, error) {
		return g.nav.View(p), nil
	})
}

// ReplyKind tells a transport how to present a Reply.
type ReplyKind string

const (
	ReplyOutcome   ReplyKind = "outcome"
	ReplyHint      ReplyKind = "hint"
	ReplyStatus    ReplyKind = "status"
	ReplyInventory ReplyKind = "inventory"
	ReplyHelp      ReplyKind = "help"
	ReplyError     ReplyKind = "error"
)

// Reply is the answer to one line of player text.
type Reply struct {
	Kind    ReplyKind
	Outcome *engine.Outcome
	Status  *engine.Status
	Text    string
}

// HelpText lists the commands Execute understands.
const HelpText = `Commands:
/start - begin the quest or show where you are
/hp - your health, level and experience
/inv - your items, runes and remedies
/hint - a hint for the current scene or fight
/reset - start over from the beginning
/help - this list
Anything else is taken as a choice (its number or its words) or, in a fight, as an action.`

// Execute interprets one line of player text. Unknown slash commands come
// back as a ReplyError with guidance; plain text always goes to the current
// scene or fight.
func (g *Game) Execute(playerID, text string) (*Reply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return g.outcomeReply(g.View(playerID))
	}
	cmd, err := g.parser.ParseString("", text)
	if err != nil {
		if strings.HasPrefix(text, "/") {
			return &Reply{Kind: ReplyError, Text: parser.MapError(text, err).Error()}, nil
		}
		return g.freeText(playerID, text)
	}

	switch {
	case cmd.Start != nil:
		return g.outcomeReply(g.Start(playerID))
	case cmd.Reset != nil:
		return g.outcomeReply(g.Reset(playerID))
	case cmd.Help != nil:
		return &Reply{Kind: ReplyHelp, Text: HelpText}, nil
	case cmd.Hint != nil:
		hint, err := g.Hint(playerID)
		if err != nil {
			return nil, err
		}
		if hint == "" {
			hint = "No hint here. Trust your instincts."
		}
		return &Reply{Kind: ReplyHint, Text: hint}, nil
	case cmd.Status != nil, cmd.Inventory != nil:
		st, err := g.Status(playerID)
		if err != nil {
			return nil, err
		}
		kind := ReplyStatus
		if cmd.Inventory != nil {
			kind = ReplyInventory
		}
		return &Reply{Kind: kind, Status: &st}, nil
	case cmd.Go != nil:
		if !cmd.Slash {
			out, err := g.HandleNavigate(playerID, text)
			if !errors.Is(err, engine.ErrUnknownChoice) {
				return g.outcomeReply(out, err)
			}
		}
		return g.outcomeReply(g.HandleNavigate(playerID, cmd.Go.Target.Text(text)))
	case cmd.Fight != nil:
		if g.inCombat(playerID) {
			return g.outcomeReply(g.HandleCombatAction(playerID, cmd.Fight.Action.Text(text)))
		}
		return g.freeText(playerID, text)
	case cmd.Text != nil && cmd.Slash:
		return &Reply{Kind: ReplyError, Text: parser.MapError(text, nil).Error()}, nil
	}
	return g.freeText(playerID, text)
}

// freeText treats text as a choice, or as an action while fighting. Labels
// that start with a command word ("Use the torch") land here too.
func (g *Game) freeText(playerID, text string) (*Reply, error) {
	if g.inCombat(playerID) {
		return g.outcomeReply(g.HandleCombatAction(playerID, text))
	}
	return g.outcomeReply(g.HandleNavigate(playerID, text))
}

func (g *Game) inCombat(playerID string) bool {
	p, ok := g.store.Snapshot(playerID)
	return ok && p.InCombat()
}

func (g *Game) outcomeReply(out *engine.Outcome, err error) (*Reply, error) {
	var de *engine.Error
	if err != nil && !errors.As(err, &de) {
		return nil, fmt.Errorf("failed to handle request: %w", err)
	}
	return &Reply{Kind: ReplyOutcome, Outcome: out}, nil
}
