package engine

import (
	"fmt"
	"math"

	"github.com/Varyaggg/quest-bot/internal/data"
	"github.com/google/uuid"
)

// Navigator moves players through the scene graph. It holds no player
// state; callers serialize access per player.
type Navigator struct {
	catalog *data.Catalog
}

// NewNavigator builds a navigator over catalog.
func NewNavigator(catalog *data.Catalog) *Navigator {
	return &Navigator{catalog: catalog}
}

// Catalog returns the content the navigator walks.
func (n *Navigator) Catalog() *data.Catalog {
	return n.catalog
}

// Enter moves p into scene id and applies its entry effects.
func (n *Navigator) Enter(p *Player, id string) (*Outcome, error) {
	if _, ok := n.catalog.Scene(id); !ok {
		return n.reject(p, newError(CodeUnknownScene, map[string]string{"scene": id}, "there is no scene %q", id))
	}
	rec := newRecorder(p)
	if err := n.enter(rec, id); err != nil {
		return nil, err
	}
	return n.outcome(rec), nil
}

// Restart re-seeds p from the catalog start block and enters the start scene.
func (n *Navigator) Restart(p *Player) (*Outcome, error) {
	rec := newRecorder(p)
	if err := rec.apply(&PlayerResetEvent{Start: n.catalog.Start}); err != nil {
		return nil, err
	}
	if err := n.enter(rec, n.catalog.Start.Scene); err != nil {
		return nil, err
	}
	return n.outcome(rec), nil
}

// Choose takes the choice (or puzzle answer) of the current scene that
// input names. Every choice is offered; requirements are only checked here.
func (n *Navigator) Choose(p *Player, input string) (*Outcome, error) {
	if p.InCombat() {
		return n.reject(p, newError(CodeInCombat, nil, "finish the fight with %s first", p.Combat.Name))
	}
	scene, ok := n.catalog.Scene(p.SceneID)
	if !ok {
		return n.reject(p, newError(CodeUnknownScene, map[string]string{"scene": p.SceneID}, "there is no scene %q", p.SceneID))
	}
	if scene.Kind == data.ScenePuzzle && scene.Puzzle != nil {
		return n.answer(p, scene.Puzzle, input)
	}

	opts := make([]option, len(scene.Choices))
	for i, ch := range scene.Choices {
		opts[i] = option{names: []string{ch.Label, ch.To}}
	}
	idx, ok := matchOption(opts, input)
	if !ok {
		return n.reject(p, newError(CodeUnknownChoice, map[string]string{"input": input}, "no choice here matches %q", input))
	}
	ch := scene.Choices[idx]
	if ch.Requires != nil && !n.Meets(p, *ch.Requires) {
		return n.reject(p, newError(CodeRequirementNotMet, map[string]string{"requirement": ch.Requires.String()},
			"%s: %s", ch.Label, ch.Requires))
	}
	if _, ok := n.catalog.Scene(ch.To); !ok {
		return n.reject(p, newError(CodeUnknownScene, map[string]string{"scene": ch.To}, "there is no scene %q", ch.To))
	}

	rec := newRecorder(p)
	if ch.Reset {
		if err := rec.apply(&PlayerResetEvent{Start: n.catalog.Start}); err != nil {
			return nil, err
		}
	}
	for _, name := range ch.Consumes {
		if err := n.consume(rec, name); err != nil {
			return nil, err
		}
	}
	for _, name := range ch.Grants {
		if err := n.grant(rec, name); err != nil {
			return nil, err
		}
	}
	if err := n.enter(rec, ch.To); err != nil {
		return nil, err
	}
	return n.outcome(rec), nil
}

// ChooseFrom is Choose for a choice offered in scene sceneID. It is rejected
// once the player has moved on, so an old button cannot act on a new scene.
func (n *Navigator) ChooseFrom(p *Player, sceneID, input string) (*Outcome, error) {
	if p.SceneID != sceneID || p.InCombat() {
		return n.reject(p, newError(CodeStaleChoice, map[string]string{"scene": sceneID}, "that choice is no longer here"))
	}
	return n.Choose(p, input)
}

func (n *Navigator) answer(p *Player, pz *data.Puzzle, input string) (*Outcome, error) {
	opts := make([]option, len(pz.Options))
	for i, o := range pz.Options {
		opts[i] = option{names: []string{o.Label}}
	}
	idx, ok := matchOption(opts, input)
	if !ok {
		return n.reject(p, newError(CodeUnknownChoice, map[string]string{"input": input}, "no answer here matches %q", input))
	}
	picked := pz.Options[idx]
	next := pz.Failure
	if picked.Correct {
		next = pz.Success
	}
	rec := newRecorder(p)
	if err := rec.apply(&PuzzleAnsweredEvent{Answer: picked.Label, Correct: picked.Correct}); err != nil {
		return nil, err
	}
	if err := n.enter(rec, next); err != nil {
		return nil, err
	}
	return n.outcome(rec), nil
}

// Meets evaluates a requirement against p.
func (n *Navigator) Meets(p *Player, r data.Requirement) bool {
	if r.Item != "" {
		return p.Inventory.Has(r.Item)
	}
	return n.countKind(p, r.Category) >= r.Count
}

func (n *Navigator) countKind(p *Player, kind data.ItemKind) int {
	switch kind {
	case data.ItemRune:
		return p.Inventory.RuneCount()
	case data.ItemHeal:
		return p.Inventory.TotalPotions()
	}
	count := 0
	for _, name := range p.Inventory.Items() {
		if it, ok := n.catalog.Item(name); ok && it.Kind == kind {
			count++
		}
	}
	return count
}

// Hint returns the hint of the current scene, or of the monster in combat.
func (n *Navigator) Hint(p *Player) string {
	if p.Combat != nil {
		if m, ok := n.catalog.Monster(p.Combat.TemplateID); ok && m.Hint != "" {
			return m.Hint
		}
	}
	if s, ok := n.catalog.Scene(p.SceneID); ok {
		return s.Hint
	}
	return ""
}

func (n *Navigator) enter(rec *recorder, id string) error {
	scene, ok := n.catalog.Scene(id)
	if !ok {
		return fmt.Errorf("scene %q vanished from the catalog", id)
	}
	if err := rec.apply(&SceneEnteredEvent{SceneID: scene.ID, Title: scene.Title}); err != nil {
		return err
	}
	if scene.Entry.HP != 0 {
		if err := rec.apply(&HPChangedEvent{Amount: scene.Entry.HP, Reason: scene.Title}); err != nil {
			return err
		}
	}
	for _, name := range scene.Entry.Items {
		if err := n.grant(rec, name); err != nil {
			return err
		}
	}
	p := rec.player
	fallen := n.catalog.Start.Fallen
	if p.HP == 0 && fallen != "" && scene.ID != fallen {
		return n.enter(rec, fallen)
	}
	if scene.Kind == data.SceneCombat {
		return n.startEncounter(rec, scene)
	}
	return nil
}

// grant adds an item found in a scene unless it is already held, so
// revisiting a scene never hands out a second copy.
func (n *Navigator) grant(rec *recorder, name string) error {
	it, ok := n.catalog.Item(name)
	if !ok {
		return fmt.Errorf("item %q is not in the catalog", name)
	}
	if rec.player.Inventory.Has(it.ID) {
		return nil
	}
	return rec.apply(&ItemGrantedEvent{Item: it.ID, Kind: it.Kind})
}

// drop adds loot from a defeated monster. Remedies stack; other items are
// still held at most once.
func (n *Navigator) drop(rec *recorder, name string) error {
	it, ok := n.catalog.Item(name)
	if !ok {
		return fmt.Errorf("item %q is not in the catalog", name)
	}
	if it.Kind != data.ItemHeal && rec.player.Inventory.Has(it.ID) {
		return nil
	}
	return rec.apply(&ItemGrantedEvent{Item: it.ID, Kind: it.Kind})
}

// consume uses up an item a choice takes. Missing items are skipped.
func (n *Navigator) consume(rec *recorder, name string) error {
	it, ok := n.catalog.Item(name)
	if !ok {
		return fmt.Errorf("item %q is not in the catalog", name)
	}
	if !rec.player.Inventory.Has(it.ID) {
		return nil
	}
	return rec.apply(&ItemLostEvent{Item: it.ID, Kind: it.Kind})
}

// startEncounter creates the combat instance. A badly hurt player meets a
// weaker monster: at or below the adaptive threshold its HP is scaled down once.
func (n *Navigator) startEncounter(rec *recorder, scene *data.Scene) error {
	m, ok := n.catalog.Monster(scene.Monster)
	if !ok {
		return fmt.Errorf("scene %s: monster %q is not in the catalog", scene.ID, scene.Monster)
	}
	p := rec.player
	rules := n.catalog.Rules
	maxHP, scaled := m.HP, false
	if float64(p.HP) <= rules.AdaptiveThreshold*float64(p.MaxHP)+1e-9 {
		maxHP = max(1, int(math.Round(float64(m.HP)*rules.AdaptiveFactor)))
		scaled = true
	}
	return rec.apply(&EncounterStartedEvent{
		EncounterID: uuid.NewString(),
		TemplateID:  m.ID,
		Name:        m.Name,
		MaxHP:       maxHP,
		Scaled:      scaled,
	})
}

func (n *Navigator) outcome(rec *recorder) *Outcome {
	out := n.View(rec.player)
	out.Events = rec.events
	out.Log = rec.log()
	return out
}

// reject reports a recoverable error together with the unchanged view.
func (n *Navigator) reject(p *Player, err *Error) (*Outcome, error) {
	out := n.View(p)
	out.Code = err.Code
	out.Log = []string{err.Message}
	return out, err
}
