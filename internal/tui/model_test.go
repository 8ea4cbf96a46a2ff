package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfchat/internal/service"
)

type fakeService struct {
	report   service.OpenReport
	openErr  error
	answer   string
	askErr   error
	asked    []string
	rebuilds int
}

func (f *fakeService) Open(context.Context) (service.OpenReport, error) {
	return f.report, f.openErr
}

func (f *fakeService) Rebuild(context.Context) (service.OpenReport, error) {
	f.rebuilds++
	return f.report, f.openErr
}

func (f *fakeService) Ask(_ context.Context, q string) (string, error) {
	f.asked = append(f.asked, q)
	return f.answer, f.askErr
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func opened(t *testing.T, svc *fakeService) Model {
	t.Helper()
	m := New(svc, false)
	msg := m.open()()
	m, _ = update(t, m, msg)
	return m
}

func TestLoadingScreen(t *testing.T) {
	m := New(&fakeService{}, false)
	assert.Contains(t, m.View(), "Chat with PDF")
	assert.Contains(t, m.View(), "Loading vector store...")
}

func TestOpenReportsRebuild(t *testing.T) {
	m := opened(t, &fakeService{report: service.OpenReport{Rebuilt: true, Documents: 3}})
	view := m.View()
	assert.Contains(t, view, "Could not load index. Regenerating...")
	assert.Contains(t, view, "Vector store loaded.")
	assert.NotContains(t, view, "Loading vector store...")
	assert.True(t, m.ready)
}

func TestRebuildFlagUsesRebuild(t *testing.T) {
	svc := &fakeService{report: service.OpenReport{Rebuilt: true, Documents: 3}}
	m := New(svc, true)
	assert.Contains(t, m.View(), "Rebuilding index...")

	m, _ = update(t, m, m.open()())
	assert.Equal(t, 1, svc.rebuilds)
	assert.NotContains(t, m.View(), "Could not load index")
	assert.Contains(t, m.View(), "Vector store loaded.")
}

func TestOpenFailureShownInline(t *testing.T) {
	m := opened(t, &fakeService{openErr: errors.New("loading documents: pdf folder not found")})
	assert.Contains(t, m.View(), "Error: loading documents: pdf folder not found")
	assert.False(t, m.ready)

	m.input.SetValue("question")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.False(t, m.busy)
}

func TestAskRoundTrip(t *testing.T) {
	svc := &fakeService{report: service.OpenReport{Documents: 3}, answer: "Page B covers bananas."}
	m := opened(t, svc)

	m.input.SetValue("  what is on page B?  ")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, m.busy)
	assert.Contains(t, m.View(), "Generating response...")

	// a second Enter while busy is ignored
	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)

	msg := m.ask("what is on page B?")()
	m, _ = update(t, m, msg)
	assert.False(t, m.busy)
	assert.Equal(t, []string{"what is on page B?"}, svc.asked)
	assert.Contains(t, m.View(), "Page B covers bananas.")
	assert.False(t, m.answerErr)
	assert.NotContains(t, m.View(), "Generating response...")
}

func TestAskErrorShownInline(t *testing.T) {
	svc := &fakeService{askErr: errors.New("generating answer: ThrottlingException")}
	m := opened(t, svc)

	msg := m.ask("q")()
	m, cmd := update(t, m, msg)
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "Error: generating answer: ThrottlingException")
	assert.True(t, m.answerErr)
	assert.Equal(t, errorStyle.Width(m.viewport.Width).Render("Error: generating answer: ThrottlingException"), m.wrapped())

	// still usable afterwards
	m.input.SetValue("again")
	_, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.NotNil(t, cmd)
}

func TestBlankQuestionIgnored(t *testing.T) {
	m := opened(t, &fakeService{})
	m.input.SetValue("   ")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.False(t, m.busy)
}

func TestQuitKeys(t *testing.T) {
	m := New(&fakeService{}, false)
	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
