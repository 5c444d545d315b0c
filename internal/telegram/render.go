package telegram

import (
	"fmt"
	"strings"

	"github.com/Varyaggg/quest-bot/internal/engine"
	"github.com/Varyaggg/quest-bot/internal/session"
)

// Outgoing is one message to send. Photo, when set, is sent with Text as
// its caption.
type Outgoing struct {
	Photo  string
	Text   string
	Markup *InlineKeyboardMarkup
}

// Callback data understood by the bot. Scene buttons carry
// "go:<scene>:<choice>" so a press is checked against where the player is.
const (
	dataGo    = "go:"
	dataAct   = "act:"
	dataHint  = "hint"
	dataStart = "start"
)

var mdEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

// Escape makes content safe for Telegram's Markdown parse mode.
func Escape(s string) string {
	return mdEscaper.Replace(s)
}

// Render turns a reply into the messages that show it.
func Render(r *session.Reply) []Outgoing {
	switch r.Kind {
	case session.ReplyOutcome:
		return []Outgoing{renderOutcome(r.Outcome)}
	case session.ReplyHint:
		return []Outgoing{{Text: "💡 " + Escape(r.Text)}}
	case session.ReplyStatus:
		return []Outgoing{{Text: renderStatus(r.Status)}}
	case session.ReplyInventory:
		return []Outgoing{{Text: renderInventory(r.Status)}}
	case session.ReplyHelp:
		return []Outgoing{{Text: Escape(r.Text)}}
	case session.ReplyError:
		return []Outgoing{{Text: "⚠️ " + Escape(r.Text)}}
	}
	return nil
}

func renderOutcome(out *engine.Outcome) Outgoing {
	if out == nil {
		return Outgoing{Text: "Nothing happens."}
	}
	if out.Code != "" {
		return Outgoing{Text: "⚠️ " + Escape(strings.Join(out.Log, "\n"))}
	}

	var b strings.Builder
	switch out.Result {
	case engine.ResultVictory:
		b.WriteString("🏆 *Victory!*\n")
	case engine.ResultDefeat:
		b.WriteString("💀 *You have fallen.*\n")
	}
	for _, line := range out.Log {
		b.WriteString(Escape(line))
		b.WriteByte('\n')
	}
	if b.Len() > 0 {
		b.WriteByte('\n')
	}

	if c := out.Combat; c != nil {
		b.WriteString(renderCombat(c))
		return Outgoing{Photo: c.Image, Text: strings.TrimSpace(b.String()), Markup: combatKeyboard(c)}
	}
	if s := out.Scene; s != nil {
		fmt.Fprintf(&b, "*%s*\n\n%s", Escape(s.Title), Escape(s.Body))
		if s.Question != "" {
			fmt.Fprintf(&b, "\n\n_%s_", Escape(s.Question))
		}
		return Outgoing{Photo: s.Image, Text: strings.TrimSpace(b.String()), Markup: sceneKeyboard(s)}
	}
	return Outgoing{Text: strings.TrimSpace(b.String())}
}

func renderCombat(c *engine.CombatView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s*\n", Escape(c.Monster))
	fmt.Fprintf(&b, "HP %d/%d  [%s]\n", c.HP, c.MaxHP, c.MonsterBar)
	fmt.Fprintf(&b, "Your HP: %d/%d  [%s]\n", c.PlayerHP, c.PlayerMaxHP, c.PlayerBar)
	fmt.Fprintf(&b, "Turn %d · threat: %s · remedies: %d · fate: %d", c.Turn, c.Threat, c.Potions, c.Fate)
	return b.String()
}

func sceneKeyboard(s *engine.SceneView) *InlineKeyboardMarkup {
	kb := &InlineKeyboardMarkup{}
	for _, ch := range s.Choices {
		kb.InlineKeyboard = append(kb.InlineKeyboard, []InlineKeyboardButton{
			{Text: ch.Label, CallbackData: goData(s.ID, ch.Index)},
		})
	}
	kb.InlineKeyboard = append(kb.InlineKeyboard, []InlineKeyboardButton{{Text: "💡 Hint", CallbackData: dataHint}})
	return kb
}

func goData(scene string, index int) string {
	return fmt.Sprintf("%s%s:%d", dataGo, scene, index)
}

// splitGo parses what goData built. Scene ids may contain colons; the
// choice never does.
func splitGo(s string) (scene, choice string, ok bool) {
	i := strings.LastIndexByte(s, ':')
	if i <= 0 || i == len(s)-1 {
		return "", "", false
	}
	return s[:i], s[i+1:], true
}

func combatKeyboard(c *engine.CombatView) *InlineKeyboardMarkup {
	kb := &InlineKeyboardMarkup{}
	var row []InlineKeyboardButton
	for _, a := range c.Actions {
		label := a.Label
		if !a.Ready {
			label = fmt.Sprintf("%s ⏳%d", a.Label, a.Cooldown)
		}
		row = append(row, InlineKeyboardButton{Text: label, CallbackData: dataAct + string(a.Action)})
		if len(row) == 2 {
			kb.InlineKeyboard = append(kb.InlineKeyboard, row)
			row = nil
		}
	}
	row = append(row, InlineKeyboardButton{Text: "💡 Hint", CallbackData: dataHint})
	kb.InlineKeyboard = append(kb.InlineKeyboard, row)
	return kb
}

func renderStatus(st *engine.Status) string {
	if st == nil {
		return ""
	}
	return fmt.Sprintf("❤ HP %d/%d  [%s]\nLevel %d · XP %d/%d\nAttack %s · defense %d · fate %d",
		st.HP, st.MaxHP, st.HPBar, st.Level, st.XP, st.XPNext, st.Attack, st.Defense, st.Fate)
}

func renderInventory(st *engine.Status) string {
	if st == nil {
		return ""
	}
	list := func(items []string) string {
		if len(items) == 0 {
			return "empty"
		}
		return Escape(strings.Join(items, ", "))
	}
	var remedies []string
	for _, name := range st.PotionNames() {
		remedies = append(remedies, fmt.Sprintf("%s ×%d", name, st.Potions[name]))
	}
	return fmt.Sprintf("🎒 Items: %s\n🔮 Runes: %s\n🧪 Remedies: %s",
		list(st.Items), list(st.Runes), list(remedies))
}
