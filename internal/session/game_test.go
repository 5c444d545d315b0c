package session

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/Varyaggg/quest-bot/internal/data"
	"github.com/Varyaggg/quest-bot/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sessionCatalog = `
title: Session Test
start: {scene: camp, fallen: fallen, hp: 30, attack: {min: 4, max: 6}, fate: 0, xp_next: 10}
abilities:
  - {action: strike, label: Strike}
  - {action: elemental-a, label: Igni, damage: {min: 3, max: 5}, cooldown: 2}
  - {action: elemental-b, label: Aard, damage: {min: 3, max: 5}, cooldown: 2}
  - {action: shield, label: Quen, cooldown: 2}
  - {action: disable, label: Axii, cooldown: 2}
  - {action: consume-potion, label: Drink}
  - {action: display-talisman, label: Amulet}
items:
  - {id: herbs, kind: heal, amount: 10}
monsters:
  - {id: rat, name: Rat, hp: 5, damage: {min: 2, max: 2}, victory: camp, defeat: fallen, xp: 4}
scenes:
  - id: camp
    kind: narrative
    title: Camp
    body: A fire crackles.
    hint: Try the well.
    choices:
      - {label: Go to the well, to: well}
      - {label: Fight the rat, to: rat-fight}
      - {label: Use the old path, to: path}
  - id: well
    kind: narrative
    title: Well
    body: Cold water.
    entry: {items: [herbs]}
    choices:
      - {label: Draw water, to: well}
      - {label: Back, to: camp}
  - id: path
    kind: narrative
    title: Old Path
    body: Moss everywhere.
    choices: [{label: Return, to: camp}]
  - {id: rat-fight, kind: combat, title: Rat, body: A rat!, monster: rat}
  - id: fallen
    kind: narrative
    title: Fallen
    body: Darkness.
    choices: [{label: Try again, to: camp, reset: true}]
`

type memJournal struct {
	mu      sync.Mutex
	streams map[string][]engine.Event
}

func (j *memJournal) Append(player string, events []engine.Event) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.streams == nil {
		j.streams = make(map[string][]engine.Event)
	}
	j.streams[player] = append(j.streams[player], events...)
	return nil
}

// entered counts how often player entered scene.
func (j *memJournal) entered(player, scene string) int {
	j.mu.Lock()
	defer j.mu.Unlock()
	n := 0
	for _, evt := range j.streams[player] {
		if e, ok := evt.(*engine.SceneEnteredEvent); ok && e.SceneID == scene {
			n++
		}
	}
	return n
}

func lowDice(string) engine.Dice { return &engine.ScriptedDice{} }

func newTestGame(t *testing.T, opts ...Option) *Game {
	t.Helper()
	c, err := data.Parse([]byte(sessionCatalog))
	require.NoError(t, err)
	return NewGame(c, NewStore(c.Start, lowDice), opts...)
}

func TestStartEntersStartScene(t *testing.T) {
	g := newTestGame(t)

	out, err := g.Start("alice")
	require.NoError(t, err)
	require.NotNil(t, out.Scene)
	assert.Equal(t, "camp", out.Scene.ID)
	require.Len(t, out.Events, 1)
	assert.Equal(t, engine.EventSceneEntered, out.Events[0].Type())

	// Second contact only shows the scene.
	out, err = g.Start("alice")
	require.NoError(t, err)
	assert.Empty(t, out.Events)
}

func TestNavigateBeforeStart(t *testing.T) {
	g := newTestGame(t)

	out, err := g.HandleNavigate("bob", "1")
	require.NoError(t, err)
	assert.Equal(t, "well", out.Scene.ID)
	assert.Equal(t, []string{"You receive: herbs."}, out.Log)

	p, ok := g.Store().Snapshot("bob")
	require.True(t, ok)
	assert.Equal(t, 1, p.Inventory.PotionCount("herbs"))
}

func TestIntroSurvivesFailedRequest(t *testing.T) {
	j := &memJournal{}
	g := newTestGame(t, WithJournal(j))
	boom := errors.New("disk on fire")

	_, err := g.run("hana", "navigate", func(*engine.Player, engine.Dice) (*engine.Outcome, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, j.entered("hana", "camp"))

	out, err := g.Start("hana")
	require.NoError(t, err)
	assert.Empty(t, out.Events, "the start scene is entered once")
	assert.Equal(t, "camp", out.Scene.ID)
	assert.Equal(t, 1, j.entered("hana", "camp"))

	// The journal alone brings the player back in the start scene.
	restored := NewStore(g.Catalog().Start, lowDice)
	require.NoError(t, restored.Restore(j.streams))
	p, ok := restored.Snapshot("hana")
	require.True(t, ok)
	assert.Equal(t, "camp", p.SceneID)
}

func TestDomainErrorsKeepOutcome(t *testing.T) {
	g := newTestGame(t)

	out, err := g.HandleCombatAction("carol", "strike")
	assert.ErrorIs(t, err, engine.ErrNotInCombat)
	require.NotNil(t, out)
	assert.Equal(t, engine.CodeNotInCombat, out.Code)
	assert.Equal(t, "camp", out.Scene.ID)

	_, err = g.HandleNavigate("carol", "fly away")
	assert.ErrorIs(t, err, engine.ErrUnknownChoice)
}

func TestExecuteWalkthrough(t *testing.T) {
	j := &memJournal{}
	g := newTestGame(t, WithJournal(j))
	const id = "dave"

	step := func(text string) *Reply {
		t.Helper()
		reply, err := g.Execute(id, text)
		require.NoError(t, err)
		require.NotNil(t, reply)
		return reply
	}
	scene := func(r *Reply) string {
		t.Helper()
		require.Equal(t, ReplyOutcome, r.Kind)
		require.NotNil(t, r.Outcome.Scene)
		return r.Outcome.Scene.ID
	}

	assert.Equal(t, "camp", scene(step("/start")))
	assert.Equal(t, "well", scene(step("Go to the well")))
	assert.Equal(t, "camp", scene(step("/go 2")))
	assert.Equal(t, "path", scene(step("Use the old path")))
	assert.Equal(t, "camp", scene(step("return")))

	r := step("Fight the rat")
	require.NotNil(t, r.Outcome.Combat)
	assert.Equal(t, "Rat", r.Outcome.Combat.Monster)

	r = step("strike")
	require.NotNil(t, r.Outcome.Combat)
	assert.Equal(t, 1, r.Outcome.Combat.HP)
	assert.Equal(t, 28, r.Outcome.Combat.PlayerHP)

	r = step("/go 1")
	assert.Equal(t, engine.CodeInCombat, r.Outcome.Code)

	r = step("/use strike")
	assert.Equal(t, engine.ResultVictory, r.Outcome.Result)
	assert.Equal(t, "camp", scene(r))

	st := step("/hp")
	assert.Equal(t, ReplyStatus, st.Kind)
	assert.Equal(t, 4, st.Status.XP)
	assert.Equal(t, 28, st.Status.HP)

	inv := step("/inv")
	assert.Equal(t, ReplyInventory, inv.Kind)
	assert.Equal(t, map[string]int{"herbs": 1}, inv.Status.Potions)

	// The journal rebuilds the same player.
	live, ok := g.Store().Snapshot(id)
	require.True(t, ok)
	restored := NewStore(g.Catalog().Start, lowDice)
	require.NoError(t, restored.Restore(j.streams))
	replayed, ok := restored.Snapshot(id)
	require.True(t, ok)
	assert.Equal(t, live, replayed)
}

func TestExecuteQueries(t *testing.T) {
	g := newTestGame(t)

	r, err := g.Execute("erin", "/hint")
	require.NoError(t, err)
	assert.Equal(t, Reply{Kind: ReplyHint, Text: "Try the well."}, *r)

	_, err = g.Execute("erin", "3")
	require.NoError(t, err)
	r, err = g.Execute("erin", "hint")
	require.NoError(t, err)
	assert.Equal(t, "No hint here. Trust your instincts.", r.Text)

	r, err = g.Execute("erin", "/help")
	require.NoError(t, err)
	assert.Equal(t, ReplyHelp, r.Kind)
	assert.Contains(t, r.Text, "/reset")

	r, err = g.Execute("erin", "/dance")
	require.NoError(t, err)
	assert.Equal(t, ReplyError, r.Kind)
	assert.Equal(t, `Unknown command "dance". Try /help`, r.Text)

	r, err = g.Execute("erin", "/hint please")
	require.NoError(t, err)
	assert.Equal(t, ReplyError, r.Kind)

	r, err = g.Execute("erin", "hint please")
	require.NoError(t, err)
	assert.Equal(t, engine.CodeUnknownChoice, r.Outcome.Code)
}

func TestReset(t *testing.T) {
	g := newTestGame(t)
	_, err := g.HandleNavigate("finn", "Go to the well")
	require.NoError(t, err)

	out, err := g.Reset("finn")
	require.NoError(t, err)
	assert.Equal(t, "camp", out.Scene.ID)
	p, _ := g.Store().Snapshot("finn")
	assert.Zero(t, p.Inventory.TotalPotions())
}

func TestSamePlayerIsSerialized(t *testing.T) {
	j := &memJournal{}
	g := newTestGame(t, WithJournal(j))
	_, err := g.HandleNavigate("gus", "Go to the well")
	require.NoError(t, err)

	const n = 100
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := g.HandleNavigate("gus", "Draw water")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	p, ok := g.Store().Snapshot("gus")
	require.True(t, ok)
	assert.Equal(t, n+1, j.entered("gus", "well"))
	assert.Equal(t, 1, p.Inventory.PotionCount("herbs"), "the well gives herbs once")
}

func TestPlayersAreIndependent(t *testing.T) {
	j := &memJournal{}
	g := newTestGame(t, WithJournal(j))

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := fmt.Sprintf("p%02d", i)
			for range i {
				_, err := g.HandleNavigate(id, "Go to the well")
				assert.NoError(t, err)
				_, err = g.HandleNavigate(id, "Back")
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	for i := 1; i < 20; i++ {
		id := fmt.Sprintf("p%02d", i)
		p, ok := g.Store().Snapshot(id)
		require.True(t, ok)
		assert.Equal(t, i, j.entered(id, "well"))
		assert.Equal(t, i+1, j.entered(id, "camp"))
		assert.Equal(t, 1, p.Inventory.PotionCount("herbs"))
	}
	_, ok := g.Store().Snapshot("p00")
	assert.False(t, ok)
	assert.Len(t, g.Store().Players(), 19)
}
