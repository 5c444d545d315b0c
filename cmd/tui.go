package cmd

import (
	"fmt"
	"strings"

	"github.com/Varyaggg/quest-bot/internal/engine"
	"github.com/Varyaggg/quest-bot/internal/session"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			MarginBottom(1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#999999"))

	stateBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#874BFD")).
			Padding(1, 2)

	logBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#04B575")).
			Padding(0, 1)

	autocompleteStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("#F25D94"))

	sceneTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F2C14E"))
	warnStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#F25D94"))
	dimStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

var slashCommands = []string{"/start", "/hp", "/inv", "/hint", "/reset", "/help", "exit"}

type suggestion string

func (s suggestion) Title() string       { return string(s) }
func (s suggestion) Description() string { return "" }
func (s suggestion) FilterValue() string { return string(s) }

type playModel struct {
	game        *session.Game
	player      string
	textInput   textinput.Model
	viewport    viewport.Model
	suggestions list.Model
	history     []string
	historyIdx  int
	logContent  string
	width       int
	height      int
	showList    bool
}

func newPlayModel(game *session.Game, player string) playModel {
	ti := textinput.New()
	ti.Placeholder = "A choice number, its words, or a command like /hint..."
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 60

	vp := viewport.New(0, 0)

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetHeight(1)
	delegate.SetSpacing(0)
	sugList := list.New([]list.Item{}, delegate, 50, 7)
	sugList.SetShowTitle(false)
	sugList.SetShowStatusBar(false)
	sugList.SetFilteringEnabled(false)
	sugList.SetShowHelp(false)

	m := playModel{
		game:        game,
		player:      player,
		textInput:   ti,
		viewport:    vp,
		suggestions: sugList,
		historyIdx:  -1,
	}
	m.submit("/start")
	return m
}

func (m *playModel) Init() tea.Cmd {
	return textinput.Blink
}

// options lists what makes sense to type right now: the labels of the
// current choices or combat actions, then the commands.
func (m *playModel) options() []string {
	var opts []string
	p, ok := m.game.Store().Snapshot(m.player)
	if ok {
		catalog := m.game.Catalog()
		if p.InCombat() {
			for _, ab := range catalog.Abilities {
				opts = append(opts, ab.Label)
			}
		} else if s, ok := catalog.Scene(p.SceneID); ok {
			for _, c := range s.Choices {
				opts = append(opts, c.Label)
			}
			if s.Puzzle != nil {
				for _, o := range s.Puzzle.Options {
					opts = append(opts, o.Label)
				}
			}
		}
	}
	return append(opts, slashCommands...)
}

func (m *playModel) updateSuggestions() {
	val := strings.ToLower(m.textInput.Value())
	var items []list.Item

	if val != "" {
		for _, o := range m.options() {
			if strings.HasPrefix(strings.ToLower(o), val) && len(val) < len(o) {
				items = append(items, suggestion(o))
			}
		}
	}

	m.suggestions.SetItems(items)
	m.showList = len(items) > 0
	if m.showList {
		h := min(len(items), 10)
		m.suggestions.SetHeight(max(h, 4))
		m.suggestions.ResetSelected()
	}
}

// submit sends one line to the game and appends the answer to the log.
func (m *playModel) submit(val string) {
	if m.logContent != "" {
		m.logContent += fmt.Sprintf("\n\n> %s\n", val)
	}
	reply, err := m.game.Execute(m.player, val)
	if err != nil {
		m.logContent += warnStyle.Render(fmt.Sprintf("Error: %v", err))
	} else {
		m.logContent += renderReply(reply)
	}
	m.viewport.SetContent(m.logContent)
	m.viewport.GotoBottom()
}

func (m *playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		lsCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyUp:
			if m.showList {
				m.suggestions, lsCmd = m.suggestions.Update(msg)
			} else if len(m.history) > 0 {
				if m.historyIdx == -1 {
					m.historyIdx = len(m.history) - 1
				} else if m.historyIdx > 0 {
					m.historyIdx--
				}
				m.textInput.SetValue(m.history[m.historyIdx])
				m.updateSuggestions()
			}

		case tea.KeyDown:
			if m.showList {
				m.suggestions, lsCmd = m.suggestions.Update(msg)
			} else if len(m.history) > 0 && m.historyIdx != -1 {
				if m.historyIdx < len(m.history)-1 {
					m.historyIdx++
					m.textInput.SetValue(m.history[m.historyIdx])
				} else {
					m.historyIdx = -1
					m.textInput.SetValue("")
				}
				m.updateSuggestions()
			}

		case tea.KeyTab:
			if m.showList {
				if i, ok := m.suggestions.SelectedItem().(suggestion); ok {
					m.textInput.SetValue(string(i))
					m.textInput.SetCursor(len(string(i)))
					m.updateSuggestions()
				}
			}

		case tea.KeyEnter:
			val := strings.TrimSpace(m.textInput.Value())
			if val == "exit" || val == "quit" {
				return m, tea.Quit
			}
			if val != "" {
				if len(m.history) == 0 || m.history[len(m.history)-1] != val {
					m.history = append(m.history, val)
				}
				m.historyIdx = -1
				m.textInput.SetValue("")
				m.updateSuggestions()
				m.submit(val)
			}

		default:
			m.textInput, tiCmd = m.textInput.Update(msg)
			m.updateSuggestions()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width - 4
		m.suggestions.SetWidth(msg.Width - 6)
	}

	m.viewport, vpCmd = m.viewport.Update(msg)

	titleH := lipgloss.Height(titleStyle.Render("Dummy"))
	stateH := lipgloss.Height(m.renderState())
	listH := 0
	if m.showList {
		listH = m.suggestions.Height() + 2
	}
	infoH := lipgloss.Height(infoStyle.Render("Dummy"))

	m.viewport.Height = max(m.height-(titleH+stateH+1+listH+infoH+11), 4)

	return m, tea.Batch(tiCmd, vpCmd, lsCmd)
}

func (m *playModel) renderState() string {
	p, ok := m.game.Store().Snapshot(m.player)
	if !ok {
		return stateBoxStyle.Width(m.width - 4).Render("No quest yet.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "HP %s %d/%d   Level %d   XP %d/%d   Fate %d\n",
		engine.HPBar(p.HP, p.MaxHP, 10), p.HP, p.MaxHP, p.Level, p.XP, p.XPNext, p.Fate)
	if c := p.Combat; c != nil {
		fmt.Fprintf(&b, "%s %s %d/%d   Turn %d", c.Name, engine.HPBar(c.HP, c.MaxHP, 10), c.HP, c.MaxHP, c.Turn+1)
	} else {
		items := p.Inventory.Items()
		if len(items) == 0 {
			b.WriteString("Bag: empty")
		} else {
			b.WriteString("Bag: " + strings.Join(items, ", "))
		}
	}
	return stateBoxStyle.Width(m.width - 4).Render(b.String())
}

func (m *playModel) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	title := titleStyle.Render(fmt.Sprintf(" %s ", m.game.Catalog().Title))
	logBox := logBoxStyle.Width(m.width - 4).Render(m.viewport.View())

	inputArea := m.textInput.View()
	if m.showList {
		inputArea = fmt.Sprintf("%s\n%s", inputArea, autocompleteStyle.Render(m.suggestions.View()))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		m.renderState(),
		logBox,
		"",
		inputArea,
		infoStyle.Render("(esc to quit, tab to complete, up/down history)"),
	)
}

// renderReply formats a reply for the terminal.
func renderReply(r *session.Reply) string {
	switch r.Kind {
	case session.ReplyOutcome:
		return renderOutcome(r.Outcome)
	case session.ReplyHint:
		return "Hint: " + r.Text
	case session.ReplyStatus, session.ReplyInventory:
		return renderStatus(r.Status, r.Kind == session.ReplyInventory)
	case session.ReplyError:
		return warnStyle.Render(r.Text)
	default:
		return r.Text
	}
}

func renderOutcome(out *engine.Outcome) string {
	var b strings.Builder
	if out.Code != "" {
		b.WriteString(warnStyle.Render("! "+strings.Join(out.Log, "\n")) + "\n")
		return b.String()
	}
	switch out.Result {
	case engine.ResultVictory:
		b.WriteString(sceneTitleStyle.Render("Victory!") + "\n")
	case engine.ResultDefeat:
		b.WriteString(warnStyle.Render("Defeat.") + "\n")
	}
	for _, line := range out.Log {
		b.WriteString(dimStyle.Render(line) + "\n")
	}

	if c := out.Combat; c != nil {
		b.WriteString("\n" + sceneTitleStyle.Render(c.Title) + "\n")
		fmt.Fprintf(&b, "%s %s %d/%d   threat: %s\n", c.Monster, c.MonsterBar, c.HP, c.MaxHP, c.Threat)
		fmt.Fprintf(&b, "You %s %d/%d   remedies: %d\n", c.PlayerBar, c.PlayerHP, c.PlayerMaxHP, c.Potions)
		var acts []string
		for _, a := range c.Actions {
			if a.Ready {
				acts = append(acts, a.Label)
			} else {
				acts = append(acts, dimStyle.Render(fmt.Sprintf("%s (%d)", a.Label, a.Cooldown)))
			}
		}
		b.WriteString("Actions: " + strings.Join(acts, " | "))
		return b.String()
	}
	if s := out.Scene; s != nil {
		b.WriteString("\n" + sceneTitleStyle.Render(s.Title) + "\n")
		b.WriteString(s.Body + "\n")
		if s.Question != "" {
			b.WriteString("\n" + s.Question + "\n")
		}
		for _, c := range s.Choices {
			fmt.Fprintf(&b, "  %d. %s\n", c.Index, c.Label)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderStatus(st *engine.Status, inventory bool) string {
	if st == nil {
		return ""
	}
	var b strings.Builder
	if !inventory {
		fmt.Fprintf(&b, "%s\nHP %s %d/%d\nLevel %d, XP %d/%d\nAttack %s, defense %d, fate %d",
			st.Scene, st.HPBar, st.HP, st.MaxHP, st.Level, st.XP, st.XPNext, st.Attack, st.Defense, st.Fate)
		return b.String()
	}
	fmt.Fprintf(&b, "Items: %s\n", listOrNone(st.Items))
	fmt.Fprintf(&b, "Runes: %s\n", listOrNone(st.Runes))
	var remedies []string
	for _, name := range st.PotionNames() {
		remedies = append(remedies, fmt.Sprintf("%s x%d", name, st.Potions[name]))
	}
	fmt.Fprintf(&b, "Remedies: %s", listOrNone(remedies))
	return b.String()
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

// RunTUI plays the quest in the terminal as player.
func RunTUI(game *session.Game, player string) error {
	m := newPlayModel(game, player)
	p := tea.NewProgram(&m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
