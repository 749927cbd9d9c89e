// Package tui provides the interactive chat interface.
// It is a single chat view: a scrollable transcript, a message input and
// a mode indicator. Document mode grounds answers in the ingested
// collection; general mode asks the model directly.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docchat-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driving"
)

// responseMsg delivers a completed chat request back to the update loop.
type responseMsg struct {
	result *domain.ChatResult
	err    error
}

// App is the bubbletea model for the chat interface.
type App struct {
	styles *styles.Styles
	chat   driving.ChatService
	ctx    context.Context

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	mode           domain.ChatMode
	conversationID string
	transcript     []string
	waiting        bool
	err            error

	width  int
	height int
	ready  bool
}

// NewApp creates the chat application.
func NewApp(chat driving.ChatService) (*App, error) {
	if chat == nil {
		return nil, ErrNoChatService
	}

	s := styles.DefaultStyles()

	input := textinput.New()
	input.Placeholder = "Ask a question..."
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(s.Theme().Primary)

	return &App{
		styles:   s,
		chat:     chat,
		ctx:      context.Background(),
		viewport: viewport.New(80, 20),
		input:    input,
		spinner:  sp,
		mode:     domain.ModeDocument,
		width:    80,
		height:   24,
	}, nil
}

// WithContext sets the context used for chat requests.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init initialises the application.
func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.setDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case spinner.TickMsg:
		if !a.waiting {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case responseMsg:
		a.handleResponse(msg)
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return a, tea.Quit

	case tea.KeyTab:
		if !a.waiting {
			a.toggleMode()
		}
		return a, nil

	case tea.KeyEnter:
		if a.waiting {
			return a, nil
		}
		message := strings.TrimSpace(a.input.Value())
		if message == "" {
			return a, nil
		}
		a.appendUserTurn(message)
		a.input.SetValue("")
		a.waiting = true
		a.err = nil
		return a, tea.Batch(a.spinner.Tick, a.send(message))

	case tea.KeyPgUp:
		a.viewport.HalfPageUp()
		return a, nil

	case tea.KeyPgDown:
		a.viewport.HalfPageDown()
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// send runs the chat request off the update loop.
func (a *App) send(message string) tea.Cmd {
	req := domain.ChatRequest{
		Message:        message,
		Mode:           a.mode,
		ConversationID: a.conversationID,
	}
	return func() tea.Msg {
		result, err := a.chat.Chat(a.ctx, req)
		return responseMsg{result: result, err: err}
	}
}

func (a *App) handleResponse(msg responseMsg) {
	a.waiting = false

	if msg.err != nil {
		a.err = msg.err
		a.transcript = append(a.transcript,
			a.styles.Error.Render("Error: "+msg.err.Error()), "")
		a.refreshViewport()
		return
	}

	a.conversationID = msg.result.ConversationID

	a.transcript = append(a.transcript,
		a.styles.AssistantLabel.Render("Docchat: ")+a.styles.Normal.Render(msg.result.Response))
	if len(msg.result.Metadata.Sources) > 0 {
		a.transcript = append(a.transcript,
			a.styles.Muted.Render("Sources: "+strings.Join(msg.result.Metadata.Sources, ", ")))
	}
	a.transcript = append(a.transcript,
		a.styles.Muted.Render(fmt.Sprintf("(%.1fs)", msg.result.ProcessingTime.Seconds())), "")
	a.refreshViewport()
}

func (a *App) appendUserTurn(message string) {
	a.transcript = append(a.transcript,
		a.styles.UserLabel.Render("You: ")+a.styles.Normal.Render(message))
	a.refreshViewport()
}

func (a *App) toggleMode() {
	if a.mode == domain.ModeDocument {
		a.mode = domain.ModeGeneral
	} else {
		a.mode = domain.ModeDocument
	}
}

func (a *App) refreshViewport() {
	a.viewport.SetContent(strings.Join(a.transcript, "\n"))
	a.viewport.GotoBottom()
}

// View renders the chat interface.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	header := a.styles.Title.Render("Docchat") +
		a.styles.Muted.Render("  mode: "+a.mode.String())

	status := a.styles.Help.Render("enter send · tab switch mode · pgup/pgdn scroll · esc quit")
	if a.waiting {
		status = a.spinner.View() + a.styles.Muted.Render(" thinking...")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		a.viewport.View(),
		a.styles.InputField.Render(a.input.View()),
		status,
	)
}

func (a *App) setDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	a.viewport.Width = width
	// Header, blank line, input box and status line take the rest.
	a.viewport.Height = max(height-7, 3)
	a.input.Width = max(width-6, 10)
}

// Mode returns the current chat mode.
func (a *App) Mode() domain.ChatMode {
	return a.mode
}

// ConversationID returns the active conversation, empty before the first
// successful exchange.
func (a *App) ConversationID() string {
	return a.conversationID
}

// Waiting reports whether a request is in flight.
func (a *App) Waiting() bool {
	return a.waiting
}

// Transcript returns the rendered transcript lines.
func (a *App) Transcript() []string {
	return a.transcript
}

// Err returns the error from the last request, if any.
func (a *App) Err() error {
	return a.err
}
