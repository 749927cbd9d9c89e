package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

type fakeChat struct {
	result  *domain.ChatResult
	err     error
	lastReq domain.ChatRequest
}

func (f *fakeChat) Chat(_ context.Context, req domain.ChatRequest) (*domain.ChatResult, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeChat) History(string) []domain.ConversationTurn { return nil }

func newTestApp(t *testing.T, chat *fakeChat) *App {
	t.Helper()
	app, err := NewApp(chat)
	require.NoError(t, err)
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return app
}

func TestNewApp(t *testing.T) {
	t.Run("requires chat service", func(t *testing.T) {
		_, err := NewApp(nil)
		assert.ErrorIs(t, err, ErrNoChatService)
	})

	t.Run("starts in document mode", func(t *testing.T) {
		app := newTestApp(t, &fakeChat{})
		assert.Equal(t, domain.ModeDocument, app.Mode())
		assert.False(t, app.Waiting())
	})
}

func TestApp_ModeToggle(t *testing.T) {
	app := newTestApp(t, &fakeChat{})

	app.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, domain.ModeGeneral, app.Mode())

	app.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, domain.ModeDocument, app.Mode())

	// Toggling is disabled while a request is in flight.
	app.waiting = true
	app.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, domain.ModeDocument, app.Mode())
}

func TestApp_EmptyInputDoesNotSend(t *testing.T) {
	app := newTestApp(t, &fakeChat{})

	app.input.SetValue("   ")
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.False(t, app.Waiting())
	assert.Empty(t, app.Transcript())
}

func TestApp_SendAndReceive(t *testing.T) {
	chat := &fakeChat{result: &domain.ChatResult{
		Response:       "grounded answer",
		Mode:           domain.ModeDocument,
		ConversationID: "conv-1",
		ProcessingTime: 1200 * time.Millisecond,
		Metadata:       domain.ChatMetadata{Sources: []string{"report.pdf"}},
	}}
	app := newTestApp(t, chat)

	app.input.SetValue("how did revenue do?")
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	assert.True(t, app.Waiting())
	assert.Empty(t, app.input.Value(), "input clears after sending")
	require.NotEmpty(t, app.Transcript())
	assert.Contains(t, app.Transcript()[0], "how did revenue do?")

	// Run the command and feed its message back, as bubbletea would.
	msg := cmd()
	var found bool
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			if m := c(); m != nil {
				if resp, ok := m.(responseMsg); ok {
					app.Update(resp)
					found = true
				}
			}
		}
	} else if resp, ok := msg.(responseMsg); ok {
		app.Update(resp)
		found = true
	}
	require.True(t, found, "expected a response message")

	assert.False(t, app.Waiting())
	assert.Equal(t, "conv-1", app.ConversationID())
	assert.Equal(t, domain.ChatRequest{
		Message: "how did revenue do?",
		Mode:    domain.ModeDocument,
	}, chat.lastReq)

	transcript := strings.Join(app.Transcript(), "\n")
	assert.Contains(t, transcript, "grounded answer")
	assert.Contains(t, transcript, "report.pdf")
}

func TestApp_FailedRequestShowsError(t *testing.T) {
	chat := &fakeChat{err: errors.New("ollama unreachable")}
	app := newTestApp(t, chat)

	app.input.SetValue("hello")
	app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app.Update(responseMsg{err: chat.err})

	assert.False(t, app.Waiting())
	require.Error(t, app.Err())
	assert.Contains(t, strings.Join(app.Transcript(), "\n"), "ollama unreachable")
	assert.Empty(t, app.ConversationID(), "failed first request leaves no conversation")
}

func TestApp_ContinuesConversation(t *testing.T) {
	chat := &fakeChat{result: &domain.ChatResult{Response: "ok", ConversationID: "conv-9"}}
	app := newTestApp(t, chat)
	app.conversationID = "conv-9"

	app.input.SetValue("follow-up")
	app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app.send("follow-up")()

	assert.Equal(t, "conv-9", chat.lastReq.ConversationID)
}

func TestApp_View(t *testing.T) {
	app := newTestApp(t, &fakeChat{})

	view := app.View()
	assert.Contains(t, view, "Docchat")
	assert.Contains(t, view, "document")
}
