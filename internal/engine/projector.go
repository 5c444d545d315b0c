package engine

import "github.com/Varyaggg/quest-bot/internal/data"

// Projector computes a Player from its event sequence.
type Projector struct {
	start data.Start
}

// NewProjector creates a projector whose players begin at start.
func NewProjector(start data.Start) *Projector {
	return &Projector{start: start}
}

// Build folds the events over a fresh player.
func (pr *Projector) Build(events []Event) (*Player, error) {
	p := NewPlayer(pr.start)
	if err := Replay(p, events); err != nil {
		return nil, err
	}
	return p, nil
}

// Replay applies events to p in order.
func Replay(p *Player, events []Event) error {
	rec := newRecorder(p)
	for _, evt := range events {
		if err := rec.apply(evt); err != nil {
			return err
		}
	}
	return nil
}
