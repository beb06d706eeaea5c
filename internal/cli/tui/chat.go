package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/lvyanru/coractl/internal/cli/chat"
	"github.com/lvyanru/coractl/internal/cli/client"
	"github.com/lvyanru/coractl/internal/cli/types"
)

// UI configuration constants
const (
	defaultInputWidth     = 100
	defaultViewportWidth  = 100
	defaultViewportHeight = 30
	defaultWindowWidth    = 100
	defaultWindowHeight   = 40
	inputCharLimit        = 4000
	inputHeightReserved   = 3
	statusHeightReserved  = 3
	minContentHeight      = 10

	attachCommand = "/attach "
)

var (
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	boldStyle   = lipgloss.NewStyle().Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
)

// chatSession is the part of chat.Session the model drives
type chatSession interface {
	Submit(ctx context.Context, query string, attachments []client.Attachment) error
	NewChat()
	SelectConversation(ctx context.Context, id types.ID) error
	Snapshot() chat.Snapshot
}

// ChatOptions configures the interactive chat
type ChatOptions struct {
	// Persist saves every exchange under a backend conversation
	Persist bool
	// ConversationID opens a saved conversation on start
	ConversationID types.ID
	// Title is shown in the status bar
	Title string
	// Accent is the organisation's primary color
	Accent string
}

// ChatProgram encapsulates the chat TUI program
type ChatProgram struct {
	session *chat.Session
	program *tea.Program
}

// NewChatProgram creates a chat program over the given backend
func NewChatProgram(ctx context.Context, api chat.API, opts ChatOptions) *ChatProgram {
	p := &ChatProgram{}

	sessionOpts := []chat.Option{chat.OnChange(p.notify)}
	if opts.Persist {
		sessionOpts = append(sessionOpts, chat.WithPersistence())
	}
	p.session = chat.NewSession(api, sessionOpts...)
	p.program = tea.NewProgram(initialModel(ctx, p.session, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	return p
}

// notify forwards session changes into the program's event loop
func (p *ChatProgram) notify(s chat.Snapshot) {
	if p.program != nil {
		p.program.Send(snapshotMsg(s))
	}
}

// Run starts the chat TUI program
func (p *ChatProgram) Run() error {
	_, err := p.program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

// chatModel is the Bubble Tea model containing all chat interface state
type chatModel struct {
	ctx     context.Context
	session chatSession
	opts    ChatOptions
	accent  lipgloss.Style

	// UI components
	input       textinput.Model
	contentView viewport.Model
	spinner     spinner.Model

	snap    chat.Snapshot
	pending []client.Attachment
	err     error

	// Window dimensions
	width  int
	height int
}

// initialModel creates the initial chat model
func initialModel(ctx context.Context, session chatSession, opts ChatOptions) chatModel {
	input := textinput.New()
	input.Placeholder = "Ask anything, or /attach <file>"
	input.Focus()
	input.CharLimit = inputCharLimit
	input.Width = defaultInputWidth
	input.Prompt = ""

	contentViewport := viewport.New(defaultViewportWidth, defaultViewportHeight)
	contentViewport.SetContent("")

	accent := lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	if opts.Accent != "" {
		accent = lipgloss.NewStyle().Foreground(lipgloss.Color(opts.Accent))
	}

	return chatModel{
		ctx:         ctx,
		session:     session,
		opts:        opts,
		accent:      accent,
		input:       input,
		contentView: contentViewport,
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(accent)),
		width:       defaultWindowWidth,
		height:      defaultWindowHeight,
	}
}

// Message type definitions
type (
	snapshotMsg   chat.Snapshot
	submitDoneMsg struct{ err error }
	loadDoneMsg   struct{ err error }
)

// Init initializes the model (Bubble Tea interface)
func (m chatModel) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if !m.opts.ConversationID.IsZero() {
		cmds = append(cmds, m.loadConversation(m.opts.ConversationID))
	}
	return tea.Batch(cmds...)
}

// Update processes messages and updates the model (Bubble Tea interface)
func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmds = append(cmds, m.handleKeyPress(msg)...)

	case tea.WindowSizeMsg:
		m.handleWindowResize(msg)

	case snapshotMsg:
		m.snap = chat.Snapshot(msg)
		m.refreshContent()

	case submitDoneMsg:
		if msg.err != nil && !errors.Is(msg.err, chat.ErrEmptyQuery) {
			m.err = msg.err
		}
		m.snap = m.session.Snapshot()
		m.refreshContent()

	case loadDoneMsg:
		m.err = msg.err
		m.snap = m.session.Snapshot()
		m.refreshContent()

	case spinner.TickMsg:
		if m.snap.Busy {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if !m.snap.Busy {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleKeyPress handles keyboard input
func (m *chatModel) handleKeyPress(msg tea.KeyMsg) []tea.Cmd {
	var cmds []tea.Cmd

	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		cmds = append(cmds, tea.Quit)

	case tea.KeyCtrlN:
		m.pending = nil
		m.err = nil
		cmds = append(cmds, m.newChat())

	case tea.KeyEnter:
		if m.snap.Busy {
			break
		}
		text := strings.TrimSpace(m.input.Value())
		if path, ok := strings.CutPrefix(text, attachCommand); ok {
			m.input.Reset()
			m.attach(strings.TrimSpace(path))
			break
		}
		if text == "" && len(m.pending) == 0 {
			break
		}
		m.input.Reset()
		m.err = nil
		// Busy is set by the session on submit; mark it here too so the
		// input locks before the first snapshot arrives.
		m.snap.Busy = true
		cmds = append(cmds, m.submit(text, m.pending), m.spinner.Tick)
		m.pending = nil
		m.refreshContent()

	case tea.KeyUp:
		m.contentView.LineUp(1)

	case tea.KeyDown:
		m.contentView.LineDown(1)

	case tea.KeyPgUp:
		m.contentView.ViewUp()

	case tea.KeyPgDown:
		m.contentView.ViewDown()
	}

	return cmds
}

func (m *chatModel) attach(path string) {
	a, err := client.OpenAttachment(path)
	if err != nil {
		m.err = err
	} else {
		m.pending = append(m.pending, a)
		m.err = nil
	}
	m.refreshContent()
}

func (m *chatModel) submit(text string, attachments []client.Attachment) tea.Cmd {
	session, ctx := m.session, m.ctx
	return func() tea.Msg {
		return submitDoneMsg{err: session.Submit(ctx, text, attachments)}
	}
}

// newChat resets the session off the event loop; the session's change
// callback sends back into the program and must not run inside Update.
func (m *chatModel) newChat() tea.Cmd {
	session := m.session
	return func() tea.Msg {
		session.NewChat()
		return loadDoneMsg{}
	}
}

func (m *chatModel) loadConversation(id types.ID) tea.Cmd {
	session, ctx := m.session, m.ctx
	return func() tea.Msg {
		return loadDoneMsg{err: session.SelectConversation(ctx, id)}
	}
}

// handleWindowResize handles window size changes
func (m *chatModel) handleWindowResize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height

	contentHeight := max(msg.Height-inputHeightReserved-statusHeightReserved, minContentHeight)

	m.contentView.Width = msg.Width
	m.contentView.Height = contentHeight
	m.input.Width = msg.Width - 3

	m.refreshContent()
}

// renderTranscript renders the messages of the snapshot
func (m *chatModel) renderTranscript() string {
	var b strings.Builder
	for _, msg := range m.snap.Messages {
		b.WriteString("\n")
		if msg.Role == types.RoleNameUser {
			b.WriteString(boldStyle.Render("You"))
		} else {
			b.WriteString(m.accent.Render("Assistant"))
		}
		b.WriteString("\n")
		for _, img := range msg.Images {
			b.WriteString(dimStyle.Render("📎 " + img))
			b.WriteString("\n")
		}
		switch {
		case msg.Text != "":
			b.WriteString(msg.Text)
		case m.snap.Busy && msg.Role == types.RoleNameAssistant:
			b.WriteString(m.spinner.View())
		}
		b.WriteString("\n")
	}
	return b.String()
}

// refreshContent refreshes the display content
func (m *chatModel) refreshContent() {
	display := m.renderTranscript()
	if m.err != nil {
		display += "\n" + errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}

	if m.width > 0 {
		display = wrapText(display, m.width)
	}

	m.contentView.SetContent(display)
	m.contentView.GotoBottom()
}

// wrapText applies auto-wrapping to text, correctly handling wide characters
func wrapText(text string, maxWidth int) string {
	if maxWidth <= 10 {
		return text
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = wrapLine(line, maxWidth)
	}
	return strings.Join(lines, "\n")
}

// wrapLine wraps a single line of text by display width
func wrapLine(line string, maxWidth int) string {
	if runewidth.StringWidth(line) <= maxWidth {
		return line
	}

	var result strings.Builder
	var currentLine strings.Builder
	currentWidth := 0

	for _, r := range line {
		runeW := runewidth.RuneWidth(r)

		if currentWidth+runeW > maxWidth && currentWidth > 0 {
			result.WriteString(currentLine.String())
			result.WriteString("\n")
			currentLine.Reset()
			currentWidth = 0
		}

		currentLine.WriteRune(r)
		currentWidth += runeW
	}

	if currentLine.Len() > 0 {
		result.WriteString(currentLine.String())
	}

	return result.String()
}

// View renders the UI (Bubble Tea interface)
func (m chatModel) View() string {
	title := m.opts.Title
	if title == "" {
		title = "Cora"
	}
	status := m.accent.Render(title)
	if !m.snap.ConversationID.IsZero() {
		status += dimStyle.Render(" · conversation " + m.snap.ConversationID.String())
	}
	if m.snap.Busy {
		status += dimStyle.Render(" · generating...")
	}

	var inputView string
	if m.snap.Busy {
		inputView = dimStyle.Render("> waiting for the answer...")
	} else {
		inputView = promptStyle.Render("> ") + m.input.View()
	}

	parts := []string{status, "", m.contentView.View(), "", inputView}
	if len(m.pending) > 0 {
		names := make([]string, len(m.pending))
		for i, a := range m.pending {
			names[i] = a.Name
		}
		parts = append(parts, dimStyle.Render("📎 "+strings.Join(names, ", ")))
	}
	if !m.snap.Busy {
		parts = append(parts, dimStyle.Render("Enter send · Ctrl+N new chat · ↑↓ scroll · Esc quit"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
