package session

import (
	"fmt"
	"hash/fnv"
	"sort"
	"sync"

	"github.com/Varyaggg/quest-bot/internal/data"
	"github.com/Varyaggg/quest-bot/internal/engine"
)

// DiceFactory hands each new player slot its own dice.
type DiceFactory func(playerID string) engine.Dice

// SeededDice derives per-player dice from one seed. Zero draws a random
// seed for every slot.
func SeededDice(seed int64) DiceFactory {
	return func(playerID string) engine.Dice {
		if seed == 0 {
			return engine.NewDice(engine.RandomSeed())
		}
		h := fnv.New64a()
		_, _ = h.Write([]byte(playerID))
		return engine.NewDice(seed ^ int64(h.Sum64()>>1))
	}
}

type slot struct {
	mu     sync.Mutex
	player *engine.Player
	dice   engine.Dice
	fresh  bool
}

// Store maps player identities to their sessions. Work on one player is
// serialized by that player's slot lock; different players never contend
// beyond the map lookup.
type Store struct {
	mu    sync.Mutex
	slots map[string]*slot
	start data.Start
	dice  DiceFactory
}

// NewStore creates an empty store whose players begin at start.
func NewStore(start data.Start, dice DiceFactory) *Store {
	if dice == nil {
		dice = SeededDice(0)
	}
	return &Store{
		slots: make(map[string]*slot),
		start: start,
		dice:  dice,
	}
}

func (s *Store) slot(id string) *slot {
	s.mu.Lock()
	defer s.mu.Unlock()
	sl, ok := s.slots[id]
	if !ok {
		sl = &slot{player: engine.NewPlayer(s.start), dice: s.dice(id), fresh: true}
		s.slots[id] = sl
	}
	return sl
}

// With runs fn on the player id, creating the session on first use. fresh
// is true until a call on the slot has returned without error.
func (s *Store) With(id string, fn func(p *engine.Player, dice engine.Dice, fresh bool) error) error {
	sl := s.slot(id)
	sl.mu.Lock()
	defer sl.mu.Unlock()
	if err := fn(sl.player, sl.dice, sl.fresh); err != nil {
		return err
	}
	sl.fresh = false
	return nil
}

// Snapshot returns a copy of the player, if the session exists.
func (s *Store) Snapshot(id string) (*engine.Player, bool) {
	s.mu.Lock()
	sl, ok := s.slots[id]
	s.mu.Unlock()
	if !ok {
		return nil, false
	}
	sl.mu.Lock()
	defer sl.mu.Unlock()
	return sl.player.Clone(), true
}

// Players lists the known player ids in order.
func (s *Store) Players() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.slots))
	for id := range s.slots {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Restore rebuilds sessions from journaled event streams. Existing
// sessions for the same ids are replaced.
func (s *Store) Restore(streams map[string][]engine.Event) error {
	proj := engine.NewProjector(s.start)
	built := make(map[string]*engine.Player, len(streams))
	for id, events := range streams {
		p, err := proj.Build(events)
		if err != nil {
			return fmt.Errorf("failed to restore player %s: %w", id, err)
		}
		built[id] = p
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, p := range built {
		s.slots[id] = &slot{player: p, dice: s.dice(id)}
	}
	return nil
}
