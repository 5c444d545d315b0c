package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Varyaggg/quest-bot/internal/data"
)

var errNoEncounter = errors.New("no active encounter")

type EventType string

const (
	EventPlayerReset      EventType = "PlayerReset"
	EventSceneEntered     EventType = "SceneEntered"
	EventHPChanged        EventType = "HPChanged"
	EventItemGranted      EventType = "ItemGranted"
	EventItemLost         EventType = "ItemLost"
	EventPuzzleAnswered   EventType = "PuzzleAnswered"
	EventEncounterStarted EventType = "EncounterStarted"
	EventPlayerActed      EventType = "PlayerActed"
	EventStatusArmed      EventType = "StatusArmed"
	EventMonsterActed     EventType = "MonsterActed"
	EventFateSaved        EventType = "FateSaved"
	EventMonsterHealed    EventType = "MonsterHealed"
	EventPoisonTick       EventType = "PoisonTick"
	EventTurnEnded        EventType = "TurnEnded"
	EventEncounterEnded   EventType = "EncounterEnded"
	EventXPGained         EventType = "XPGained"
	EventLevelUp          EventType = "LevelUp"
)

// Event is the building block of the engine. Every change to a Player is
// an Event applied to it; replaying the events rebuilds the Player.
type Event interface {
	Type() EventType
	Apply(p *Player) error
	Message() string
}

// recorder applies events to a player and keeps them in order.
type recorder struct {
	player *Player
	events []Event
}

func newRecorder(p *Player) *recorder {
	return &recorder{player: p}
}

func (r *recorder) apply(evt Event) error {
	if err := evt.Apply(r.player); err != nil {
		return fmt.Errorf("failed to apply %s: %w", evt.Type(), err)
	}
	r.events = append(r.events, evt)
	return nil
}

func (r *recorder) log() []string {
	var lines []string
	for _, evt := range r.events {
		if msg := evt.Message(); msg != "" {
			lines = append(lines, msg)
		}
	}
	return lines
}

// PlayerResetEvent starts a fresh run.
type PlayerResetEvent struct {
	Start data.Start `json:"start"`
}

func (e *PlayerResetEvent) Type() EventType { return EventPlayerReset }
func (e *PlayerResetEvent) Apply(p *Player) error {
	*p = *NewPlayer(e.Start)
	return nil
}
func (e *PlayerResetEvent) Message() string { return "A new journey begins." }

// SceneEnteredEvent moves the player to a scene.
type SceneEnteredEvent struct {
	SceneID string `json:"scene_id"`
	Title   string `json:"title"`
}

func (e *SceneEnteredEvent) Type() EventType { return EventSceneEntered }
func (e *SceneEnteredEvent) Apply(p *Player) error {
	p.SceneID = e.SceneID
	return nil
}
func (e *SceneEnteredEvent) Message() string { return "" }

// HPChangedEvent heals or hurts the player outside the combat exchange.
type HPChangedEvent struct {
	Amount int    `json:"amount"`
	Reason string `json:"reason,omitempty"`
}

func (e *HPChangedEvent) Type() EventType { return EventHPChanged }
func (e *HPChangedEvent) Apply(p *Player) error {
	p.setHP(p.HP + e.Amount)
	return nil
}
func (e *HPChangedEvent) Message() string {
	suffix := ""
	if e.Reason != "" {
		suffix = " (" + e.Reason + ")"
	}
	switch {
	case e.Amount < 0:
		return fmt.Sprintf("You lose %d HP%s.", -e.Amount, suffix)
	case e.Amount > 0:
		return fmt.Sprintf("You recover %d HP%s.", e.Amount, suffix)
	}
	return ""
}

// ItemGrantedEvent puts an item where its kind belongs.
type ItemGrantedEvent struct {
	Item string        `json:"item"`
	Kind data.ItemKind `json:"kind"`
}

func (e *ItemGrantedEvent) Type() EventType { return EventItemGranted }
func (e *ItemGrantedEvent) Apply(p *Player) error {
	switch e.Kind {
	case data.ItemHeal:
		p.Inventory.AddPotion(e.Item)
	case data.ItemRune:
		p.Inventory.GrantRune(e.Item)
	default:
		p.Inventory.Grant(e.Item)
	}
	return nil
}
func (e *ItemGrantedEvent) Message() string {
	if e.Kind == data.ItemRune {
		return fmt.Sprintf("You found a rune: %s.", e.Item)
	}
	return fmt.Sprintf("You receive: %s.", e.Item)
}

// ItemLostEvent removes one item or one dose.
type ItemLostEvent struct {
	Item   string        `json:"item"`
	Kind   data.ItemKind `json:"kind"`
	Burned bool          `json:"burned,omitempty"`
}

func (e *ItemLostEvent) Type() EventType { return EventItemLost }
func (e *ItemLostEvent) Apply(p *Player) error {
	if e.Kind == data.ItemHeal {
		if !p.Inventory.TakePotion(e.Item) {
			return fmt.Errorf("no %s left", e.Item)
		}
		return nil
	}
	if !p.Inventory.Consume(e.Item) {
		return fmt.Errorf("%s is not held", e.Item)
	}
	return nil
}
func (e *ItemLostEvent) Message() string {
	if e.Burned {
		return fmt.Sprintf("Flames reach your pack: %s is burned.", e.Item)
	}
	return fmt.Sprintf("You use up %s.", e.Item)
}

// PuzzleAnsweredEvent records an answer; routing follows as SceneEntered.
type PuzzleAnsweredEvent struct {
	Answer  string `json:"answer"`
	Correct bool   `json:"correct"`
}

func (e *PuzzleAnsweredEvent) Type() EventType       { return EventPuzzleAnswered }
func (e *PuzzleAnsweredEvent) Apply(_ *Player) error { return nil }
func (e *PuzzleAnsweredEvent) Message() string {
	if e.Correct {
		return fmt.Sprintf("%q is right.", e.Answer)
	}
	return fmt.Sprintf("%q is wrong.", e.Answer)
}

// EncounterStartedEvent creates the combat instance.
type EncounterStartedEvent struct {
	EncounterID string `json:"encounter_id"`
	TemplateID  string `json:"template_id"`
	Name        string `json:"name"`
	MaxHP       int    `json:"max_hp"`
	Scaled      bool   `json:"scaled,omitempty"`
}

func (e *EncounterStartedEvent) Type() EventType { return EventEncounterStarted }
func (e *EncounterStartedEvent) Apply(p *Player) error {
	p.Combat = &CombatInstance{
		ID:         e.EncounterID,
		TemplateID: e.TemplateID,
		Name:       e.Name,
		HP:         e.MaxHP,
		MaxHP:      e.MaxHP,
		Scaled:     e.Scaled,
		Cooldowns:  make(map[data.Action]int),
	}
	return nil
}
func (e *EncounterStartedEvent) Message() string {
	msg := fmt.Sprintf("%s attacks! (%d HP)", e.Name, e.MaxHP)
	if e.Scaled {
		msg += " Seeing your wounds, it grows careless."
	}
	return msg
}

// PlayerActedEvent is the player's half of a combat turn.
type PlayerActedEvent struct {
	Action   data.Action `json:"action"`
	Label    string      `json:"label"`
	Target   string      `json:"target"`
	Damage   int         `json:"damage"`
	Cooldown int         `json:"cooldown,omitempty"`
	Evaded   bool        `json:"evaded,omitempty"`
	Notes    []string    `json:"notes,omitempty"`
}

func (e *PlayerActedEvent) Type() EventType { return EventPlayerActed }
func (e *PlayerActedEvent) Apply(p *Player) error {
	c := p.Combat
	if c == nil {
		return errNoEncounter
	}
	c.Turn++
	p.Turns++
	c.setHP(c.HP - e.Damage)
	if e.Cooldown > 0 {
		c.Cooldowns[e.Action] = e.Cooldown
		c.Fresh = e.Action
	}
	switch e.Action {
	case data.ActionShield:
		c.Shielded = true
	case data.ActionConsumePotion:
		c.Potion = true
	case data.ActionDisplayTalisman:
		c.Talisman = true
	}
	return nil
}
func (e *PlayerActedEvent) Message() string {
	if e.Evaded {
		return fmt.Sprintf("%s: %s slips away from the blow.", e.Label, e.Target)
	}
	if e.Damage == 0 {
		return e.Label + "."
	}
	msg := fmt.Sprintf("%s: %d damage to %s.", e.Label, e.Damage, e.Target)
	if len(e.Notes) > 0 {
		msg += " (" + strings.Join(e.Notes, ", ") + ")"
	}
	return msg
}

// Statuses armed during combat.
const (
	StatusWeaken = "weaken"
	StatusPoison = "poison"
)

// StatusArmedEvent starts or refreshes a multi-turn status. Refreshing an
// active poison keeps its first tick where it was.
type StatusArmedEvent struct {
	Status string `json:"status"`
	Turns  int    `json:"turns"`
	Target string `json:"target,omitempty"`
}

func (e *StatusArmedEvent) Type() EventType { return EventStatusArmed }
func (e *StatusArmedEvent) Apply(p *Player) error {
	c := p.Combat
	if c == nil {
		return errNoEncounter
	}
	switch e.Status {
	case StatusWeaken:
		c.Weaken = e.Turns
	case StatusPoison:
		if c.Poison == 0 {
			c.PoisonArmed = c.Turn
		}
		c.Poison = e.Turns
	default:
		return fmt.Errorf("unknown status %q", e.Status)
	}
	return nil
}
func (e *StatusArmedEvent) Message() string {
	if e.Status == StatusPoison {
		return "Poison seeps into your wounds."
	}
	return fmt.Sprintf("%s is weakened for %d turns.", e.Target, e.Turns)
}

// How the monster's half of a turn went.
const (
	StrikeHit     = "hit"
	StrikeNegated = "negated"
	StrikeStunned = "stunned"
)

// MonsterActedEvent is the monster's half of a combat turn.
type MonsterActedEvent struct {
	Name   string `json:"name"`
	Result string `json:"result"`
	Damage int    `json:"damage"`
	Double bool   `json:"double,omitempty"`
}

func (e *MonsterActedEvent) Type() EventType { return EventMonsterActed }
func (e *MonsterActedEvent) Apply(p *Player) error {
	if p.Combat == nil {
		return errNoEncounter
	}
	p.setHP(p.HP - e.Damage)
	return nil
}
func (e *MonsterActedEvent) Message() string {
	switch e.Result {
	case StrikeNegated:
		return fmt.Sprintf("The amulet blazes. %s recoils and cannot strike.", e.Name)
	case StrikeStunned:
		return fmt.Sprintf("%s is dazed and loses its turn.", e.Name)
	}
	if e.Damage == 0 {
		return fmt.Sprintf("%s strikes but you take no harm.", e.Name)
	}
	if e.Double {
		return fmt.Sprintf("%s strikes twice: -%d HP.", e.Name, e.Damage)
	}
	return fmt.Sprintf("%s strikes: -%d HP.", e.Name, e.Damage)
}

// FateSavedEvent spends a fate charge on a blow that would have killed.
type FateSavedEvent struct{}

func (e *FateSavedEvent) Type() EventType { return EventFateSaved }
func (e *FateSavedEvent) Apply(p *Player) error {
	if p.Fate <= 0 {
		return errors.New("no fate charges left")
	}
	p.Fate--
	return nil
}
func (e *FateSavedEvent) Message() string {
	return "Fate spares you. You cling to life with 1 HP."
}

// MonsterHealedEvent restores monster HP.
type MonsterHealedEvent struct {
	Name   string `json:"name"`
	Amount int    `json:"amount"`
}

func (e *MonsterHealedEvent) Type() EventType { return EventMonsterHealed }
func (e *MonsterHealedEvent) Apply(p *Player) error {
	c := p.Combat
	if c == nil {
		return errNoEncounter
	}
	c.setHP(c.HP + e.Amount)
	return nil
}
func (e *MonsterHealedEvent) Message() string {
	return fmt.Sprintf("%s drinks your blood: +%d HP.", e.Name, e.Amount)
}

// PoisonTickEvent deals one dose of poison damage.
type PoisonTickEvent struct {
	Damage int `json:"damage"`
}

func (e *PoisonTickEvent) Type() EventType { return EventPoisonTick }
func (e *PoisonTickEvent) Apply(p *Player) error {
	c := p.Combat
	if c == nil {
		return errNoEncounter
	}
	p.setHP(p.HP - e.Damage)
	if c.Poison > 0 {
		c.Poison--
	}
	return nil
}
func (e *PoisonTickEvent) Message() string {
	return fmt.Sprintf("Poison burns: -%d HP.", e.Damage)
}

// TurnEndedEvent ticks cooldowns and statuses.
type TurnEndedEvent struct{}

func (e *TurnEndedEvent) Type() EventType { return EventTurnEnded }
func (e *TurnEndedEvent) Apply(p *Player) error {
	c := p.Combat
	if c == nil {
		return errNoEncounter
	}
	for action, left := range c.Cooldowns {
		if action == c.Fresh || left == 0 {
			continue
		}
		c.Cooldowns[action] = left - 1
	}
	if c.Weaken > 0 {
		c.Weaken--
	}
	c.clearTurn()
	return nil
}
func (e *TurnEndedEvent) Message() string { return "" }

// EncounterEndedEvent destroys the combat instance.
type EncounterEndedEvent struct {
	Name    string `json:"name"`
	Victory bool   `json:"victory"`
}

func (e *EncounterEndedEvent) Type() EventType { return EventEncounterEnded }
func (e *EncounterEndedEvent) Apply(p *Player) error {
	if p.Combat == nil {
		return errNoEncounter
	}
	p.Combat = nil
	return nil
}
func (e *EncounterEndedEvent) Message() string {
	if e.Victory {
		return fmt.Sprintf("%s is defeated!", e.Name)
	}
	return fmt.Sprintf("%s has bested you.", e.Name)
}

// XPGainedEvent adds experience. Level ups follow as separate events.
type XPGainedEvent struct {
	Amount int `json:"amount"`
}

func (e *XPGainedEvent) Type() EventType { return EventXPGained }
func (e *XPGainedEvent) Apply(p *Player) error {
	p.XP += e.Amount
	return nil
}
func (e *XPGainedEvent) Message() string { return fmt.Sprintf("+%d XP.", e.Amount) }

// LevelUpEvent carries the stats reached on a new level.
type LevelUpEvent struct {
	Level   int        `json:"level"`
	Spent   int        `json:"spent"`
	XPNext  int        `json:"xp_next"`
	MaxHP   int        `json:"max_hp"`
	Attack  data.Range `json:"attack"`
	Defense int        `json:"defense"`
}

func (e *LevelUpEvent) Type() EventType { return EventLevelUp }
func (e *LevelUpEvent) Apply(p *Player) error {
	p.Level = e.Level
	p.XP -= e.Spent
	p.XPNext = e.XPNext
	p.MaxHP = e.MaxHP
	p.Attack = e.Attack
	p.Defense = e.Defense
	p.HP = p.MaxHP
	return nil
}
func (e *LevelUpEvent) Message() string {
	return fmt.Sprintf("Level %d! Max HP %d, attack %s, defense %d. Wounds healed.",
		e.Level, e.MaxHP, e.Attack, e.Defense)
}
