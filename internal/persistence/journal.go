package persistence

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/Varyaggg/quest-bot/internal/engine"
)

// maxLine bounds one journal line. Player resets carry the start block, the
// rest are small.
const maxLine = 1 << 20

// EventWrapper facilitates serialization of polymorphic events.
type EventWrapper struct {
	Player string           `json:"player"`
	Type   engine.EventType `json:"type"`
	Event  json.RawMessage  `json:"data"`
}

// Entry is one journaled event and the player it happened to.
type Entry struct {
	Player string
	Event  engine.Event
}

// Journal is an append-only JSONL log of player events. It is safe for
// concurrent use.
type Journal struct {
	mu   sync.Mutex
	file *os.File
}

// NewJournal opens or creates the file at path for appending lines.
func NewJournal(path string) (*Journal, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	return &Journal{file: file}, nil
}

// Append writes the events of one request as consecutive lines.
func (j *Journal) Append(player string, events []engine.Event) error {
	if len(events) == 0 {
		return nil
	}
	var buf []byte
	for _, evt := range events {
		data, err := json.Marshal(evt)
		if err != nil {
			return fmt.Errorf("failed to marshal %s: %w", evt.Type(), err)
		}
		line, err := json.Marshal(EventWrapper{Player: player, Type: evt.Type(), Event: data})
		if err != nil {
			return err
		}
		buf = append(buf, line...)
		buf = append(buf, '\n')
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if _, err := j.file.Write(buf); err != nil {
		return fmt.Errorf("failed to write journal: %w", err)
	}
	return j.file.Sync()
}

// Load reads every entry back in the order it was written.
func (j *Journal) Load() ([]Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if _, err := j.file.Seek(0, 0); err != nil {
		return nil, err
	}

	var entries []Entry
	scanner := bufio.NewScanner(j.file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)
	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var wrapper EventWrapper
		if err := json.Unmarshal(scanner.Bytes(), &wrapper); err != nil {
			return nil, fmt.Errorf("line %d: failed to decode wrapper: %w", line, err)
		}
		evt, err := Decode(wrapper.Type, wrapper.Event)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		entries = append(entries, Entry{Player: wrapper.Player, Event: evt})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Close handles safe shutdown.
func (j *Journal) Close() error {
	return j.file.Close()
}

// Decode rebuilds a concrete event from its type tag and JSON body.
func Decode(typ engine.EventType, data json.RawMessage) (engine.Event, error) {
	var evt engine.Event
	switch typ {
	case engine.EventPlayerReset:
		evt = &engine.PlayerResetEvent{}
	case engine.EventSceneEntered:
		evt = &engine.SceneEnteredEvent{}
	case engine.EventHPChanged:
		evt = &engine.HPChangedEvent{}
	case engine.EventItemGranted:
		evt = &engine.ItemGrantedEvent{}
	case engine.EventItemLost:
		evt = &engine.ItemLostEvent{}
	case engine.EventPuzzleAnswered:
		evt = &engine.PuzzleAnsweredEvent{}
	case engine.EventEncounterStarted:
		evt = &engine.EncounterStartedEvent{}
	case engine.EventPlayerActed:
		evt = &engine.PlayerActedEvent{}
	case engine.EventStatusArmed:
		evt = &engine.StatusArmedEvent{}
	case engine.EventMonsterActed:
		evt = &engine.MonsterActedEvent{}
	case engine.EventFateSaved:
		evt = &engine.FateSavedEvent{}
	case engine.EventMonsterHealed:
		evt = &engine.MonsterHealedEvent{}
	case engine.EventPoisonTick:
		evt = &engine.PoisonTickEvent{}
	case engine.EventTurnEnded:
		evt = &engine.TurnEndedEvent{}
	case engine.EventEncounterEnded:
		evt = &engine.EncounterEndedEvent{}
	case engine.EventXPGained:
		evt = &engine.XPGainedEvent{}
	case engine.EventLevelUp:
		evt = &engine.LevelUpEvent{}
	default:
		return nil, fmt.Errorf("unknown event type in journal: %s", typ)
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, evt); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", typ, err)
		}
	}
	return evt, nil
}

// GroupByPlayer splits entries into per-player event streams, keeping order.
func GroupByPlayer(entries []Entry) map[string][]engine.Event {
	out := make(map[string][]engine.Event)
	for _, e := range entries {
		out[e.Player] = append(out[e.Player], e.Event)
	}
	return out
}
