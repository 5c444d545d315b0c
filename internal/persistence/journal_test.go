package persistence

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Varyaggg/quest-bot/internal/data"
	"github.com/Varyaggg/quest-bot/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = data.Start{Scene: "camp", Fallen: "fallen", HP: 40, Attack: data.Range{Min: 2, Max: 4}, Fate: 1, XPNext: 10}

func sampleEvents() []engine.Event {
	return []engine.Event{
		&engine.PlayerResetEvent{Start: start},
		&engine.SceneEnteredEvent{SceneID: "road", Title: "Road"},
		&engine.HPChangedEvent{Amount: -5, Reason: "Road"},
		&engine.ItemGrantedEvent{Item: "herbs", Kind: data.ItemHeal},
		&engine.ItemGrantedEvent{Item: "frost rune", Kind: data.ItemRune},
		&engine.EncounterStartedEvent{EncounterID: "e1", TemplateID: "rat", Name: "Rat", MaxHP: 12},
		&engine.PlayerActedEvent{Action: data.ActionElementalA, Label: "Igni", Target: "Rat", Damage: 7, Cooldown: 2},
		&engine.StatusArmedEvent{Status: engine.StatusPoison, Turns: 3},
		&engine.MonsterActedEvent{Name: "Rat", Result: engine.StrikeHit, Damage: 4},
		&engine.TurnEndedEvent{},
		&engine.PlayerActedEvent{Action: data.ActionStrike, Label: "Strike", Target: "Rat", Damage: 5},
		&engine.EncounterEndedEvent{Name: "Rat", Victory: true},
		&engine.XPGainedEvent{Amount: 12},
		&engine.LevelUpEvent{Level: 2, Spent: 10, XPNext: 14, MaxHP: 48, Attack: data.Range{Min: 3, Max: 5}, Defense: 1},
		&engine.ItemLostEvent{Item: "herbs", Kind: data.ItemHeal},
	}
}

func TestJournalRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.jsonl")
	j, err := NewJournal(path)
	require.NoError(t, err)
	defer j.Close()

	events := sampleEvents()
	require.NoError(t, j.Append("alice", events[:6]))
	require.NoError(t, j.Append("bob", []engine.Event{&engine.SceneEnteredEvent{SceneID: "gate"}}))
	require.NoError(t, j.Append("alice", events[6:]))
	require.NoError(t, j.Append("alice", nil))

	entries, err := j.Load()
	require.NoError(t, err)
	require.Len(t, entries, len(events)+1)

	lvl, ok := entries[len(entries)-2].Event.(*engine.LevelUpEvent)
	require.True(t, ok)
	assert.Equal(t, data.Range{Min: 3, Max: 5}, lvl.Attack)

	streams := GroupByPlayer(entries)
	assert.Equal(t, events, streams["alice"])
	require.Len(t, streams["bob"], 1)

	// Replaying the journal gives the same player as applying live.
	live := engine.NewPlayer(start)
	require.NoError(t, engine.Replay(live, events))
	replayed, err := engine.NewProjector(start).Build(streams["alice"])
	require.NoError(t, err)
	assert.Equal(t, live, replayed)
	assert.Equal(t, 48, replayed.HP)
	assert.True(t, replayed.Inventory.Has("frost rune"))
}

func TestJournalRejectsUnknownType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(`{"player":"x","type":"Teleported","data":{}}`+"\n"), 0o644))

	j, err := NewJournal(path)
	require.NoError(t, err)
	defer j.Close()

	_, err = j.Load()
	assert.ErrorContains(t, err, "line 1: unknown event type in journal: Teleported")
}

func TestJournalConcurrentAppends(t *testing.T) {
	j, err := NewJournal(filepath.Join(t.TempDir(), "journal.jsonl"))
	require.NoError(t, err)
	defer j.Close()

	var wg sync.WaitGroup
	for _, player := range []string{"a", "b", "c", "d"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 25 {
				assert.NoError(t, j.Append(player, []engine.Event{&engine.XPGainedEvent{Amount: 1}, &engine.TurnEndedEvent{}}))
			}
		}()
	}
	wg.Wait()

	entries, err := j.Load()
	require.NoError(t, err)
	assert.Len(t, entries, 200)
	for player, events := range GroupByPlayer(entries) {
		require.Len(t, events, 50, player)
		for i := 0; i < len(events); i += 2 {
			assert.Equal(t, engine.EventXPGained, events[i].Type(), "a request's events stay together")
		}
	}
}

func TestOpenDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs") + string(os.PathSeparator)
	j, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, j.Close())

	_, err = os.Stat(filepath.Join(dir, DefaultFile))
	assert.NoError(t, err)

	j, err = Open(filepath.Clean(dir))
	require.NoError(t, err)
	assert.NoError(t, j.Close())

	_, err = Open("")
	assert.Error(t, err)
}
