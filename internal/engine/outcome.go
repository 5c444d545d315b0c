package engine

import (
	"sort"
	"strings"

	"github.com/Varyaggg/quest-bot/internal/data"
)

// Result tells how a combat turn ended.
type Result string

const (
	ResultOngoing Result = ""
	ResultVictory Result = "victory"
	ResultDefeat  Result = "defeat"
)

// Outcome is what a request produced: the events applied, their log lines
// and a view of where the player stands now. Exactly one of Scene and
// Combat is set. Code is non-empty when the request was rejected.
type Outcome struct {
	Events []Event
	Log    []string
	Scene  *SceneView
	Combat *CombatView
	Result Result
	Code   Code
}

// SceneView is a scene as shown to the player. Hints are not included.
type SceneView struct {
	ID       string
	Title    string
	Kind     data.SceneKind
	Body     string
	Image    string
	Question string
	Choices  []ChoiceView
}

// ChoiceView is a numbered option. Requirements are checked only when the
// option is picked.
type ChoiceView struct {
	Index int
	Label string
	To    string
}

// CombatView is the state of a live encounter.
type CombatView struct {
	EncounterID string
	Title       string
	Body        string
	Image       string
	Monster     string
	HP          int
	MaxHP       int
	PlayerHP    int
	PlayerMaxHP int
	Turn        int
	Fate        int
	Potions     int
	Threat      Threat
	Scaled      bool
	Actions     []ActionView
	MonsterBar  string
	PlayerBar   string
}

// ActionView is a combat action with its cooldown state.
type ActionView struct {
	Action   data.Action
	Label    string
	Cooldown int
	Ready    bool
}

// Status summarizes a player for status and inventory queries.
type Status struct {
	Scene   string
	HP      int
	MaxHP   int
	Level   int
	XP      int
	XPNext  int
	Attack  data.Range
	Defense int
	Fate    int
	Items   []string
	Runes   []string
	Potions map[string]int
	HPBar   string
}

// HPBar renders cur/maxHP as a bar of width cells.
func HPBar(cur, maxHP, width int) string {
	if maxHP <= 0 || width <= 0 {
		return ""
	}
	filled := clamp(cur*width/maxHP, 0, width)
	if cur > 0 && filled == 0 {
		filled = 1
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

const barWidth = 10

// View renders the player's current position without changing anything.
func (n *Navigator) View(p *Player) *Outcome {
	out := &Outcome{}
	scene, _ := n.catalog.Scene(p.SceneID)
	if p.Combat != nil {
		out.Combat = n.combatView(p, scene)
		return out
	}
	if scene == nil {
		return out
	}
	v := &SceneView{
		ID:    scene.ID,
		Title: scene.Title,
		Kind:  scene.Kind,
		Body:  scene.Body,
		Image: scene.Image,
	}
	if scene.Kind == data.ScenePuzzle && scene.Puzzle != nil {
		v.Question = scene.Puzzle.Question
		for i, o := range scene.Puzzle.Options {
			v.Choices = append(v.Choices, ChoiceView{Index: i + 1, Label: o.Label})
		}
	} else {
		for i, ch := range scene.Choices {
			v.Choices = append(v.Choices, ChoiceView{Index: i + 1, Label: ch.Label, To: ch.To})
		}
	}
	out.Scene = v
	return out
}

func (n *Navigator) combatView(p *Player, scene *data.Scene) *CombatView {
	c := p.Combat
	v := &CombatView{
		EncounterID: c.ID,
		Monster:     c.Name,
		HP:          c.HP,
		MaxHP:       c.MaxHP,
		PlayerHP:    p.HP,
		PlayerMaxHP: p.MaxHP,
		Turn:        c.Turn,
		Fate:        p.Fate,
		Potions:     p.Inventory.TotalPotions(),
		Scaled:      c.Scaled,
		MonsterBar:  HPBar(c.HP, c.MaxHP, barWidth),
		PlayerBar:   HPBar(p.HP, p.MaxHP, barWidth),
	}
	if scene != nil {
		v.Title, v.Body = scene.Title, scene.Body
	}
	if m, ok := n.catalog.Monster(c.TemplateID); ok {
		v.Image = m.Image
		if v.Image == "" && scene != nil {
			v.Image = scene.Image
		}
		v.Threat = Assess(p, m, c.HP)
	}
	for _, a := range data.Actions {
		ab, ok := n.catalog.Ability(a)
		if !ok {
			continue
		}
		cd := c.Cooldowns[a]
		v.Actions = append(v.Actions, ActionView{Action: a, Label: ab.Label, Cooldown: cd, Ready: cd == 0})
	}
	return v
}

// Status summarizes p.
func (n *Navigator) Status(p *Player) Status {
	st := Status{
		Scene:   p.SceneID,
		HP:      p.HP,
		MaxHP:   p.MaxHP,
		Level:   p.Level,
		XP:      p.XP,
		XPNext:  p.XPNext,
		Attack:  p.Attack,
		Defense: p.Defense,
		Fate:    p.Fate,
		Items:   p.Inventory.Items(),
		Runes:   p.Inventory.Runes(),
		Potions: p.Inventory.Potions(),
		HPBar:   HPBar(p.HP, p.MaxHP, barWidth),
	}
	if s, ok := n.catalog.Scene(p.SceneID); ok {
		st.Scene = s.Title
	}
	return st
}

// PotionNames returns the held remedy names sorted for display.
func (s Status) PotionNames() []string {
	names := make([]string, 0, len(s.Potions))
	for name := range s.Potions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
