package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/riftcaller/riftcaller-server-go/internal/game"
	"github.com/riftcaller/riftcaller-server-go/internal/game/core"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	covenantStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	riftcallerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")) // purple

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	activePanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("205")).
				Padding(0, 1)

	selectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	raidStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")). // red
			Bold(true)

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	winnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")). // green
			Bold(true)
)

// model is the BubbleTea model driving the hot-seat game.
// https://github.com/charmbracelet/bubbletea
type model struct {
	engine  *game.Engine
	viewer  core.Side
	view    *game.GameView
	actions []core.UserAction
	cursor  int
	width   int
	height  int
	notice  string
	errText string
}

func newModel(engine *game.Engine) model {
	m := model{engine: engine, viewer: core.SideCovenant}
	m.refresh()
	m.followActingSide()
	return m
}

// refresh pulls the viewer's current view and legal actions.
func (m *model) refresh() {
	view, err := m.engine.GameView(localGameID, m.viewer)
	if err != nil {
		m.errText = err.Error()
		return
	}
	m.view = view
	actions, err := m.engine.LegalActions(localGameID, m.viewer)
	if err != nil {
		m.errText = err.Error()
		return
	}
	m.actions = actions
	if m.cursor >= len(m.actions) {
		m.cursor = 0
	}
}

// followActingSide flips the viewpoint to the opponent when the current
// viewer has nothing to do and the opponent does.
func (m *model) followActingSide() {
	if len(m.actions) > 0 || m.view == nil || m.view.Winner != nil {
		return
	}
	other, err := m.engine.LegalActions(localGameID, m.viewer.Opponent())
	if err != nil || len(other) == 0 {
		return
	}
	m.viewer = m.viewer.Opponent()
	m.notice = fmt.Sprintf("%s to act", sideLabel(m.viewer))
	m.refresh()
}

// drainOutboxes discards queued command lists so they do not accumulate;
// the console rebuilds its view from scratch instead of animating them.
func (m *model) drainOutboxes() {
	for _, side := range core.Sides {
		_, _ = m.engine.CommandList(localGameID, side)
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.actions)-1 {
				m.cursor++
			}
		case "tab":
			m.viewer = m.viewer.Opponent()
			m.cursor = 0
			m.notice = fmt.Sprintf("viewing as %s", sideLabel(m.viewer))
			m.refresh()
		case "enter":
			if len(m.actions) == 0 {
				return m, nil
			}
			action := m.actions[m.cursor]
			m.errText = ""
			m.notice = ""
			if err := m.engine.ProcessAction(localGameID, m.viewer, action); err != nil {
				m.errText = err.Error()
				return m, nil
			}
			m.drainOutboxes()
			m.refresh()
			m.followActingSide()
		}
	}
	return m, nil
}

func (m model) View() string {
	if m.view == nil {
		return errorStyle.Render("no game view: " + m.errText)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("RIFTCALLER"))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  %s · turn %d (%s)",
		m.view.Phase, m.view.Turn.Number, sideLabel(m.view.Turn.Side))))
	b.WriteString("\n\n")

	covenant := m.renderPlayerPanel(core.SideCovenant)
	riftcaller := m.renderPlayerPanel(core.SideRiftcaller)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, covenant, " ", riftcaller))
	b.WriteString("\n")

	if m.view.Raid != nil {
		b.WriteString(raidStyle.Render(fmt.Sprintf("⚔ raid on %s — %s", m.view.Raid.Target, m.view.Raid.Step)))
		b.WriteString("\n")
	}
	if board := m.renderBoard(); board != "" {
		b.WriteString(board)
		b.WriteString("\n")
	}
	if hand := m.renderHand(); hand != "" {
		b.WriteString(hand)
		b.WriteString("\n")
	}

	if m.view.Winner != nil {
		b.WriteString("\n")
		b.WriteString(winnerStyle.Render(fmt.Sprintf("★ %s wins the game", sideLabel(*m.view.Winner))))
		b.WriteString("\n\n")
		b.WriteString(dimStyle.Render("Press q to quit"))
		return b.String()
	}

	b.WriteString("\n")
	b.WriteString(sideStyle(m.viewer).Render(fmt.Sprintf("%s acts:", sideLabel(m.viewer))))
	b.WriteString("\n")
	if len(m.actions) == 0 {
		b.WriteString(dimStyle.Render("  waiting for the opponent (tab to switch view)"))
		b.WriteString("\n")
	}
	for i, action := range m.actions {
		label := m.describeAction(action)
		if i == m.cursor {
			b.WriteString(selectedItemStyle.Render("▶ " + label))
		} else {
			b.WriteString("  " + label)
		}
		b.WriteString("\n")
	}

	if m.notice != "" {
		b.WriteString("\n" + noticeStyle.Render(m.notice))
	}
	if m.errText != "" {
		b.WriteString("\n" + errorStyle.Render("✗ "+m.errText))
	}
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("↑/↓ select · enter play · tab switch side · q quit"))
	return b.String()
}

func (m model) renderPlayerPanel(side core.Side) string {
	p := m.view.Players[side]
	var b strings.Builder
	b.WriteString(sideStyle(side).Render(strings.ToUpper(sideLabel(side))))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("mana %d · actions %d · score %d\n", p.Mana, p.Actions, p.Score))
	b.WriteString(dimStyle.Render(fmt.Sprintf("hand %d · deck %d · discard %d", p.HandCount, p.DeckCount, p.DiscardCount)))
	extras := make([]string, 0, 4)
	if p.BonusPoints > 0 {
		extras = append(extras, fmt.Sprintf("bonus %d", p.BonusPoints))
	}
	if p.Curses > 0 {
		extras = append(extras, fmt.Sprintf("curses %d", p.Curses))
	}
	if p.Wounds > 0 {
		extras = append(extras, fmt.Sprintf("wounds %d", p.Wounds))
	}
	if p.Leylines > 0 {
		extras = append(extras, fmt.Sprintf("leylines %d", p.Leylines))
	}
	if len(extras) > 0 {
		b.WriteString("\n" + noticeStyle.Render(strings.Join(extras, " · ")))
	}
	style := panelStyle
	if m.view.Turn.Side == side {
		style = activePanelStyle
	}
	return style.Width(34).Render(b.String())
}

// renderBoard lists every card in play, grouped by position.
func (m model) renderBoard() string {
	lines := make([]string, 0, 8)
	for _, card := range m.view.Cards {
		if !card.Position.InPlay() {
			continue
		}
		name := card.Name
		if name == "" {
			name = "face-down card"
		}
		line := fmt.Sprintf("  %s — %s", name, card.Position)
		if !card.Revealed {
			line = dimStyle.Render(line)
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return ""
	}
	return "in play:\n" + strings.Join(lines, "\n")
}

// renderHand lists the viewer's hand.
func (m model) renderHand() string {
	names := make([]string, 0, 8)
	for _, card := range m.view.Cards {
		if card.Position.InHand() && card.Position.Side == m.viewer && card.Name != "" {
			names = append(names, card.Name)
		}
	}
	if len(names) == 0 {
		return ""
	}
	return fmt.Sprintf("hand: %s", strings.Join(names, ", "))
}

// describeAction renders a legal action as a menu label.
func (m model) describeAction(a core.UserAction) string {
	switch a.Kind {
	case core.ActionGainMana:
		return "Gain 1 mana"
	case core.ActionDrawCard:
		return "Draw a card"
	case core.ActionProgressRoom:
		return fmt.Sprintf("Progress the %s", a.Room)
	case core.ActionInitiateRaid:
		return fmt.Sprintf("Raid the %s", a.Room)
	case core.ActionPlayCard:
		label := "Play " + m.cardName(*a.Card)
		if a.Target != nil && a.Target.Kind == core.TargetRoom {
			label += fmt.Sprintf(" into the %s", a.Target.Room)
		}
		return label
	case core.ActionActivateAbility:
		return fmt.Sprintf("Activate %s (ability %d)", m.cardName(a.Ability.Card), a.Ability.Index+1)
	case core.ActionSummonProject:
		return "Summon " + m.cardName(*a.Card)
	case core.ActionRemoveCurse:
		return "Remove a curse"
	case core.ActionDispelEvocation:
		return "Dispel " + m.cardName(*a.Card)
	case core.ActionMulliganDecision:
		if *a.Mulligan == core.MulliganKeep {
			return "Keep opening hand"
		}
		return "Take a mulligan"
	case core.ActionStartTurn:
		return "Start turn"
	case core.ActionEndTurn:
		return "End turn"
	case core.ActionResign:
		return "Resign"
	case core.ActionRaidChoice:
		if m.view.Raid != nil && a.Index < len(m.view.Raid.Choices) {
			return m.view.Raid.Choices[a.Index].String()
		}
		return fmt.Sprintf("Raid choice %d", a.Index+1)
	case core.ActionPromptChoice:
		if m.view.Prompt != nil && a.Index < len(m.view.Prompt.Choices) {
			return m.view.Prompt.Choices[a.Index].Label
		}
		return fmt.Sprintf("Choice %d", a.Index+1)
	case core.ActionCardSelectorSubmit:
		return fmt.Sprintf("Confirm %d selected cards", len(a.Cards))
	case core.ActionSkipPlayingCard:
		return "Skip playing a card"
	case core.ActionRoomSelect:
		return fmt.Sprintf("Choose the %s", a.Room)
	default:
		return a.String()
	}
}

// cardName resolves a card id against the current view.
func (m model) cardName(id core.CardID) string {
	for _, card := range m.view.Cards {
		if card.ID == id {
			if card.Name != "" {
				return card.Name
			}
			break
		}
	}
	return "face-down card"
}

func sideLabel(side core.Side) string {
	if side == core.SideCovenant {
		return "Covenant"
	}
	return "Riftcaller"
}

func sideStyle(side core.Side) lipgloss.Style {
	if side == core.SideCovenant {
		return covenantStyle
	}
	return riftcallerStyle
}
