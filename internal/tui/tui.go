package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/game-legend123/Aetheria-Adventures/internal/game"
	"github.com/game-legend123/Aetheria-Adventures/internal/models"
)

type sessionState int

const (
	stateInputPrompt sessionState = iota
	stateLoading
	statePlaying
	stateSystemChat
	stateGameOver
)

const systemGreeting = "Welcome. Here you can reshape the reality of the story. What would you like to adjust?"

type chatMessage struct {
	fromPlayer bool
	text       string
}

type model struct {
	state     sessionState
	g         *game.Game
	textInput textinput.Model
	viewport  viewport.Model
	width     int
	height    int

	gameLog   string
	errLine   string
	imageNote string

	chatLog     []chatMessage
	chatPending bool
}

// NewModel builds the initial TUI model over a game.
func NewModel(g *game.Game) model {
	ti := textinput.New()
	ti.Placeholder = "Describe your adventure (at least 10 characters)..."
	ti.Focus()
	ti.CharLimit = 300
	ti.Width = 60

	return model{
		state:     stateInputPrompt,
		g:         g,
		textInput: ti,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

type adventureStartedMsg struct {
	result game.StartResult
	err    error
}

type turnProcessedMsg struct {
	result game.TurnResult
	err    error
}

type systemRepliedMsg struct {
	result game.SystemResult
	err    error
}

type imageReadyMsg struct {
	ref string
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			if m.state == stateSystemChat {
				m.state = statePlaying
				m.textInput.Placeholder = "What do you do?"
				return m, nil
			}
			return m, tea.Quit

		case tea.KeyEnter:
			return m.handleEnter()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = int(float64(msg.Width) * 0.75)
		m.viewport.Height = msg.Height - 7
		if m.state == statePlaying || m.state == stateSystemChat || m.state == stateGameOver {
			m.viewport.SetContent(m.renderLog())
		}

	case adventureStartedMsg:
		if msg.err != nil {
			m.state = stateInputPrompt
			m.errLine = friendlyError(msg.err, "Could not start the adventure. Please try again.")
			return m, nil
		}
		m.errLine = ""
		m.imageNote = "Illustrating the scene..."
		m.state = statePlaying
		m.rebuildLog(msg.result.State)
		m.textInput.Placeholder = "What do you do?"
		m.textInput.Reset()
		return m, m.illustrate(msg.result.State.LastScene)

	case turnProcessedMsg:
		if msg.err != nil {
			// Nothing was committed; the previous scene stands and the
			// player can simply retry.
			m.state = statePlaying
			m.errLine = friendlyError(msg.err, "A magical disturbance! Fate is tangled. Please try that action again.")
			m.rebuildLog(m.g.State())
			return m, nil
		}
		m.errLine = ""
		st := msg.result.State
		m.rebuildLog(st)
		_ = m.g.Save("current")
		if st.Status.Ended() {
			m.state = stateGameOver
			return m, nil
		}
		m.state = statePlaying
		m.imageNote = "Illustrating the scene..."
		return m, m.illustrate(st.LastScene)

	case systemRepliedMsg:
		m.chatPending = false
		if msg.err != nil {
			m.chatLog = append(m.chatLog, chatMessage{text: "The system cannot respond right now. Please try again later."})
			return m, nil
		}
		m.chatLog = append(m.chatLog, chatMessage{text: msg.result.Response})
		if msg.result.StoryReset {
			m.chatLog = nil
			m.state = statePlaying
			m.rebuildLog(msg.result.State)
			m.textInput.Placeholder = "What do you do?"
			m.textInput.Reset()
			m.imageNote = "Illustrating the scene..."
			return m, m.illustrate(msg.result.State.LastScene)
		}
		if msg.result.Ended {
			m.state = stateGameOver
			m.rebuildLog(msg.result.State)
		}
		return m, nil

	case imageReadyMsg:
		if msg.ref == "" {
			m.imageNote = "(no scene image)"
		} else {
			m.imageNote = fmt.Sprintf("Scene image ready (%d bytes)", len(msg.ref))
		}
		return m, nil
	}

	if m.state == stateInputPrompt || m.state == statePlaying || m.state == stateSystemChat {
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m model) handleEnter() (tea.Model, tea.Cmd) {
	switch m.state {
	case stateInputPrompt:
		prompt := m.textInput.Value()
		if strings.TrimSpace(prompt) == "" {
			return m, nil
		}
		m.state = stateLoading
		return m, m.startAdventure(prompt)

	case statePlaying:
		action := m.textInput.Value()
		if action == "" {
			return m, nil
		}
		m.textInput.Reset()

		switch action {
		case "/quit":
			return m, tea.Quit
		case "/restart":
			m.state = stateInputPrompt
			m.gameLog = ""
			m.errLine = ""
			m.imageNote = ""
			m.chatLog = nil
			m.textInput.Placeholder = "Describe your adventure (at least 10 characters)..."
			return m, nil
		case "/save":
			if err := m.g.Save("current"); err != nil {
				m.errLine = "Save failed."
			} else {
				m.errLine = "Game saved."
			}
			return m, nil
		case "/system":
			m.state = stateSystemChat
			if len(m.chatLog) == 0 {
				m.chatLog = []chatMessage{{text: systemGreeting}}
			}
			m.textInput.Placeholder = "What is your request?"
			return m, nil
		case "/help":
			m.errLine = "Type what you want to do. Quests grant skills; using them improves your odds. /system talks to the System AI."
			return m, nil
		}

		logWidth := int(float64(m.width) * 0.75)
		m.gameLog += "\n\n" + playerStyle.Width(logWidth).Render("> "+action) + "\n\n"
		m.viewport.SetContent(m.renderLog())
		m.viewport.GotoBottom()
		m.state = stateLoading
		return m, m.takeTurn(action)

	case stateSystemChat:
		text := m.textInput.Value()
		if strings.TrimSpace(text) == "" || m.chatPending {
			return m, nil
		}
		m.textInput.Reset()
		m.chatLog = append(m.chatLog, chatMessage{fromPlayer: true, text: text})
		m.chatPending = true
		return m, m.sendSystemMessage(text)

	case stateGameOver:
		// Any enter returns to the prompt screen for a new story.
		m.state = stateInputPrompt
		m.gameLog = ""
		m.chatLog = nil
		m.textInput.Placeholder = "Describe your adventure (at least 10 characters)..."
		m.textInput.Reset()
		return m, nil
	}

	return m, nil
}

func (m model) View() string {
	var s string

	switch m.state {
	case stateInputPrompt:
		s = fmt.Sprintf(
			"Aetheria Adventures\n\n%s\n\n%s",
			"Describe the adventure you want to live:",
			m.textInput.View(),
		)
		if m.errLine != "" {
			s += "\n\n" + errorStyle.Render(m.errLine)
		}

	case stateLoading:
		s = "\n  The threads of fate are weaving... please wait.\n"

	case statePlaying, stateGameOver:
		mainView := lipgloss.JoinHorizontal(lipgloss.Top,
			m.viewport.View(),
			m.renderStatus(),
		)

		bottom := "\n" + m.textInput.View()
		if m.state == stateGameOver {
			st := m.g.State()
			verdict := "DEFEAT. Your story ends here."
			if st.Status == models.StatusVictorious {
				verdict = "VICTORY! Your legend will be told across Aetheria."
			}
			bottom = "\n" + titleStyle.Render(verdict) + "\n" + helpStyle.Render("Press Enter to begin a new story, Esc to quit.")
		}

		extras := helpStyle.Render("Commands: /system, /save, /restart, /help, /quit — or just type what you want to do.")
		if m.imageNote != "" {
			extras = helpStyle.Render(m.imageNote) + "\n" + extras
		}
		if m.errLine != "" {
			extras = errorStyle.Render(m.errLine) + "\n" + extras
		}

		s = lipgloss.JoinVertical(lipgloss.Left, mainView, bottom, "\n"+extras)

	case stateSystemChat:
		s = titleStyle.Render("Story Intervention") + "\n" +
			helpStyle.Render("Ask for information, trade points, nudge the scene, or request a whole new story. Esc returns to the game.") +
			"\n\n" + m.renderChat() + "\n\n" + m.textInput.View()
	}

	return "\n" + s + "\n"
}

// rebuildLog re-renders the adventure log from the committed scene log.
func (m *model) rebuildLog(st models.PlayerState) {
	logWidth := int(float64(m.width) * 0.75)
	if logWidth <= 0 {
		logWidth = 80
	}

	var b strings.Builder
	for _, entry := range st.SceneLog {
		switch entry.Speaker {
		case models.SpeakerPlayer:
			b.WriteString(playerStyle.Width(logWidth).Render("> " + entry.Text))
		case models.SpeakerSystem:
			b.WriteString(systemStyle.Width(logWidth).Render("[" + entry.Text + "]"))
		default:
			b.WriteString(narratorStyle.Width(logWidth).Render(entry.Text))
		}
		b.WriteString("\n\n")
	}
	m.gameLog = b.String()

	if m.viewport.Width == 0 {
		m.viewport = viewport.New(logWidth, m.height-7)
	}
	m.viewport.SetContent(m.renderLog())
	m.viewport.GotoBottom()
}

func (m model) renderLog() string {
	return m.gameLog
}

func (m model) renderChat() string {
	width := m.width - 10
	if width <= 0 {
		width = 70
	}
	var b strings.Builder
	for _, msg := range m.chatLog {
		if msg.fromPlayer {
			b.WriteString(chatUserStyle.Width(width).Render("You: " + msg.text))
		} else {
			b.WriteString(narratorStyle.Width(width).Render("System: " + msg.text))
		}
		b.WriteString("\n")
	}
	if m.chatPending {
		b.WriteString(helpStyle.Render("System is thinking..."))
	}
	return b.String()
}

func (m model) renderStatus() string {
	st := m.g.State()
	profile := m.g.Profile()

	status := titleStyle.Render("STATUS") + "\n"
	status += fmt.Sprintf("Health: %d\nScore: %d\n", st.HP, st.Score)
	if profile.Mode == models.SkillModePoints {
		status += fmt.Sprintf("Skill points: %d\n", st.SkillPoints)
	}
	status += "\n"

	quest := titleStyle.Render("QUEST") + "\n"
	if st.Quest != nil {
		quest += st.Quest.Title + "\n" + st.Quest.Objective + "\n"
	} else {
		quest += "(none)\n"
	}
	quest += "\n"

	skills := ""
	if profile.Mode == models.SkillModeText {
		skills = titleStyle.Render("SKILLS") + "\n" + st.Skills + "\n\n"
	}

	inventory := titleStyle.Render("INVENTORY") + "\n" + st.Inventory

	statusWidth := int(float64(m.width) * 0.23)
	if statusWidth <= 0 {
		statusWidth = 30
	}
	return statusStyle.Width(statusWidth).Height(m.viewport.Height).Render(status + quest + skills + inventory)
}

func (m model) startAdventure(prompt string) tea.Cmd {
	return func() tea.Msg {
		result, err := m.g.Start(context.Background(), prompt)
		return adventureStartedMsg{result, err}
	}
}

func (m model) takeTurn(action string) tea.Cmd {
	return func() tea.Msg {
		result, err := m.g.TakeTurn(context.Background(), action)
		return turnProcessedMsg{result, err}
	}
}

func (m model) sendSystemMessage(text string) tea.Cmd {
	return func() tea.Msg {
		result, err := m.g.SendSystemMessage(context.Background(), text)
		return systemRepliedMsg{result, err}
	}
}

// illustrate fires the best-effort scene image after a commit. It never
// blocks the next turn and never mutates game state.
func (m model) illustrate(scene string) tea.Cmd {
	return func() tea.Msg {
		return imageReadyMsg{ref: m.g.Illustrate(context.Background(), scene)}
	}
}

func friendlyError(err error, fallback string) string {
	switch {
	case errors.Is(err, game.ErrPromptTooShort):
		return "The description must be at least 10 characters."
	case errors.Is(err, game.ErrEmptyInput):
		return "Please enter something first."
	case errors.Is(err, game.ErrSessionEnded):
		return "The session has ended. Use /restart to begin anew."
	default:
		return fallback
	}
}

// Run starts the TUI over the given game.
func Run(g *game.Game) error {
	p := tea.NewProgram(NewModel(g), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
