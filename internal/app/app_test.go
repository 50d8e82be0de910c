package app

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echograde/echograde/internal/grading"
	"github.com/echograde/echograde/internal/question"
	"github.com/echograde/echograde/internal/router"
	"github.com/echograde/echograde/internal/store"
	"github.com/echograde/echograde/internal/ui/toast"
)

type nopGrader struct{}

func (nopGrader) Configured() bool { return true }
func (nopGrader) Grade(context.Context, question.Question, string) (*grading.Result, error) {
	return nil, grading.ErrNoFeedback
}

type emptyRepo struct{}

func (emptyRepo) Append(context.Context, store.ResultRecord) (int64, error) { return 0, nil }
func (emptyRepo) Recent(context.Context, int) ([]store.ResultRecord, error) { return nil, nil }
func (emptyRepo) Get(context.Context, int64) (*store.ResultRecord, error)   { return nil, store.ErrNotFound }

// drain runs cmd and any batched commands, collecting the messages.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func testModel(t *testing.T) AppModel {
	t.Helper()
	m := newAppModel(Options{
		Grader:   nopGrader{},
		Question: question.Default(),
		Results:  emptyRepo{},
		Logger:   zerolog.Nop(),
	})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 50})
	return updated.(AppModel)
}

func TestViewFrame(t *testing.T) {
	m := testModel(t)
	content := ansi.Strip(m.render())

	assert.Contains(t, content, "EchoGrade")
	assert.Contains(t, content, "Mathematical Proofs")
	assert.Contains(t, content, "Question")
	assert.Contains(t, content, "Ctrl+S")
}

func TestViewTooSmall(t *testing.T) {
	m := testModel(t)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	assert.Contains(t, updated.(AppModel).render(), "Terminal too small")
}

func TestCtrlCQuits(t *testing.T) {
	m := testModel(t)
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestToastShown(t *testing.T) {
	m := testModel(t)
	updated, cmd := m.Update(toast.ShowMsg{Title: "Request Timeout", Description: "slow", Variant: toast.VariantDestructive})
	assert.NotNil(t, cmd, "toast schedules its own expiry")
	assert.Contains(t, updated.(AppModel).render(), "Request Timeout")
}

func TestEscPopsHistory(t *testing.T) {
	m := testModel(t)

	updated, cmd := m.Update(tea.KeyPressMsg{Code: 'r', Mod: tea.ModCtrl})
	m = updated.(AppModel)
	require.NotNil(t, cmd)

	for _, msg := range drain(cmd) {
		if push, ok := msg.(router.PushScreenMsg); ok {
			updated, _ = m.Update(push)
			m = updated.(AppModel)
		}
	}
	require.Equal(t, 2, m.router.Depth())
	assert.Contains(t, m.render(), "History")

	_, cmd = m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	require.NotNil(t, cmd)
	assert.Equal(t, router.PopScreenMsg{}, cmd())
}
