package grade

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echograde/echograde/internal/grading"
	"github.com/echograde/echograde/internal/question"
	"github.com/echograde/echograde/internal/router"
	"github.com/echograde/echograde/internal/screens/history"
	"github.com/echograde/echograde/internal/store"
	"github.com/echograde/echograde/internal/ui/toast"
)

// fakeGrader implements Grader for testing.
type fakeGrader struct {
	configured bool
	result     *grading.Result
	err        error
	block      bool // wait for ctx cancellation

	calls   atomic.Int32
	answers []string
	mu      sync.Mutex
}

func (f *fakeGrader) Configured() bool { return f.configured }

func (f *fakeGrader) Grade(ctx context.Context, q question.Question, answer string) (*grading.Result, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.answers = append(f.answers, answer)
	f.mu.Unlock()

	if f.block {
		<-ctx.Done()
		return nil, grading.ErrCancelled
	}
	return f.result, f.err
}

// fakeRepo implements store.ResultRepo for testing.
type fakeRepo struct {
	mu        sync.Mutex
	records   []store.ResultRecord
	appendErr error
}

func (r *fakeRepo) Append(_ context.Context, rec store.ResultRecord) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.appendErr != nil {
		return 0, r.appendErr
	}
	r.records = append(r.records, rec)
	return int64(len(r.records)), nil
}

func (r *fakeRepo) Recent(_ context.Context, _ int) ([]store.ResultRecord, error) {
	return r.records, nil
}

func (r *fakeRepo) Get(_ context.Context, id int64) (*store.ResultRecord, error) {
	if id < 1 || int(id) > len(r.records) {
		return nil, store.ErrNotFound
	}
	return &r.records[id-1], nil
}

func ctrlKey(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Mod: tea.ModCtrl}
}

func escKey() tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: tea.KeyEscape}
}

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

func findMsg[T any](msgs []tea.Msg) (T, bool) {
	for _, m := range msgs {
		if v, ok := m.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func score(f float64) *float64 { return &f }

func successResult() *grading.Result {
	return &grading.Result{
		AttemptID:  "attempt-1",
		QuestionID: "q101",
		UserID:     "test-user-01",
		Feedback: grading.Feedback{
			Score:   score(7.5),
			Verdict: "Good",
			Comment: "Well argued.",
		},
		ReceivedAt: time.Now(),
	}
}

func newTestScreen(g *fakeGrader, repo store.ResultRepo) *GradeScreen {
	s := New(g, question.Default(), repo, zerolog.Nop())
	s.Update(tea.WindowSizeMsg{Width: 100, Height: 60})
	return s
}

// submitAndFinish presses ctrl+s and feeds the resulting gradedMsg back.
func submitAndFinish(t *testing.T, s *GradeScreen) []tea.Msg {
	t.Helper()
	_, cmd := s.Update(ctrlKey('s'))
	require.True(t, s.Loading())

	graded, ok := findMsg[gradedMsg](drain(cmd))
	require.True(t, ok, "expected gradedMsg")

	_, cmd = s.Update(graded)
	return drain(cmd)
}

func TestSubmitEmptyAnswer(t *testing.T) {
	g := &fakeGrader{configured: true}
	s := newTestScreen(g, nil)

	for _, answer := range []string{"", "   \n\t"} {
		s.input.SetValue(answer)
		_, cmd := s.Update(ctrlKey('s'))

		assert.False(t, s.Loading())
		show, ok := findMsg[toast.ShowMsg](drain(cmd))
		require.True(t, ok)
		assert.Equal(t, "Answer is empty", show.Title)
		assert.Equal(t, "Please provide an answer before getting feedback.", show.Description)
		assert.Equal(t, toast.VariantDestructive, show.Variant)
	}
	assert.Zero(t, g.calls.Load())
}

func TestSubmitNotConfigured(t *testing.T) {
	g := &fakeGrader{configured: false}
	s := newTestScreen(g, nil)
	s.input.SetValue("my proof")

	_, cmd := s.Update(ctrlKey('s'))

	assert.False(t, s.Loading())
	show, ok := findMsg[toast.ShowMsg](drain(cmd))
	require.True(t, ok)
	assert.Equal(t, "Configuration Error", show.Title)
	assert.Zero(t, g.calls.Load())
}

func TestSubmitSuccess(t *testing.T) {
	g := &fakeGrader{configured: true, result: successResult()}
	repo := &fakeRepo{}
	s := newTestScreen(g, repo)
	s.input.SetValue("triangles ABD and ABC are similar")

	msgs := submitAndFinish(t, s)

	assert.False(t, s.Loading())
	assert.False(t, s.input.Disabled())
	require.NotNil(t, s.Result())
	assert.Equal(t, "Good", s.Result().Feedback.Verdict)
	assert.Equal(t, int32(1), g.calls.Load())
	assert.Equal(t, []string{"triangles ABD and ABC are similar"}, g.answers)

	persisted, ok := findMsg[persistResultMsg](msgs)
	require.True(t, ok)
	require.NoError(t, persisted.Err)
	require.Len(t, repo.records, 1)
	assert.Equal(t, "attempt-1", repo.records[0].AttemptID)
	assert.Equal(t, "triangles ABD and ABC are similar", repo.records[0].Answer)

	_, hasToast := findMsg[toast.ShowMsg](msgs)
	assert.False(t, hasToast)
}

func TestPersistFailureKeepsResult(t *testing.T) {
	g := &fakeGrader{configured: true, result: successResult()}
	repo := &fakeRepo{appendErr: errors.New("disk full")}
	s := newTestScreen(g, repo)
	s.input.SetValue("answer")

	msgs := submitAndFinish(t, s)
	persisted, ok := findMsg[persistResultMsg](msgs)
	require.True(t, ok)
	require.Error(t, persisted.Err)

	_, cmd := s.Update(persisted)
	show, ok := findMsg[toast.ShowMsg](drain(cmd))
	require.True(t, ok)
	assert.Equal(t, "History not saved", show.Title)
	assert.Equal(t, toast.VariantDefault, show.Variant)
	require.NotNil(t, s.Result(), "feedback stays visible")
}

func TestSubmitFailureRaisesToast(t *testing.T) {
	err := &grading.StatusError{Step: grading.StepSubmit, StatusCode: 503, StatusText: "Service Unavailable"}
	g := &fakeGrader{configured: true, err: err}
	repo := &fakeRepo{}
	s := newTestScreen(g, repo)
	s.input.SetValue("answer")

	msgs := submitAndFinish(t, s)

	assert.False(t, s.Loading())
	assert.Nil(t, s.Result())
	assert.Empty(t, repo.records)

	show, ok := findMsg[toast.ShowMsg](msgs)
	require.True(t, ok)
	assert.Equal(t, "Error", show.Title)
	assert.Equal(t, "failed to submit answer: 503 Service Unavailable", show.Description)
}

func TestTimeoutToast(t *testing.T) {
	g := &fakeGrader{configured: true, err: errors.Join(grading.ErrTimeout, context.DeadlineExceeded)}
	s := newTestScreen(g, nil)
	s.input.SetValue("answer")

	show, ok := findMsg[toast.ShowMsg](submitAndFinish(t, s))
	require.True(t, ok)
	assert.Equal(t, "Request Timeout", show.Title)
}

func TestResultClearedOnNewAttempt(t *testing.T) {
	g := &fakeGrader{configured: true, result: successResult()}
	s := newTestScreen(g, nil)
	s.input.SetValue("first")
	submitAndFinish(t, s)
	require.NotNil(t, s.Result())

	g.result, g.err = nil, errors.New("boom")
	s.input.SetValue("second")
	_, _ = s.Update(ctrlKey('s'))
	assert.Nil(t, s.Result(), "result is cleared as soon as a new attempt starts")
	assert.True(t, s.input.Disabled())
}

func TestEmptySubmitKeepsPreviousResult(t *testing.T) {
	g := &fakeGrader{configured: true, result: successResult()}
	s := newTestScreen(g, nil)
	s.input.SetValue("first")
	submitAndFinish(t, s)

	s.input.SetValue("  ")
	_, _ = s.Update(ctrlKey('s'))
	assert.NotNil(t, s.Result())
}

func TestSubmitIgnoredWhileLoading(t *testing.T) {
	g := &fakeGrader{configured: true, result: successResult()}
	s := newTestScreen(g, nil)
	s.input.SetValue("answer")

	_, first := s.Update(ctrlKey('s'))
	require.NotNil(t, first)

	_, second := s.Update(ctrlKey('s'))
	assert.Nil(t, second)

	drain(first)
	assert.Equal(t, int32(1), g.calls.Load())
}

func TestEscCancelsInFlight(t *testing.T) {
	g := &fakeGrader{configured: true, block: true}
	s := newTestScreen(g, nil)
	s.input.SetValue("answer")

	_, cmd := s.Update(ctrlKey('s'))
	_, _ = s.Update(escKey())

	graded, ok := findMsg[gradedMsg](drain(cmd))
	require.True(t, ok)
	_, cmd = s.Update(graded)

	show, ok := findMsg[toast.ShowMsg](drain(cmd))
	require.True(t, ok)
	assert.Equal(t, "Request Cancelled", show.Title)
	assert.False(t, s.Loading())
}

func TestSpinnerStopsAfterLoading(t *testing.T) {
	g := &fakeGrader{configured: true}
	s := newTestScreen(g, nil)

	_, cmd := s.Update(spinnerTickMsg(time.Now()))
	assert.Nil(t, cmd)

	s.input.SetValue("answer")
	_, _ = s.Update(ctrlKey('s'))
	_, cmd = s.Update(spinnerTickMsg(time.Now()))
	assert.NotNil(t, cmd)
	assert.Equal(t, 1, s.spinTick)
}

func TestViewLoadingPreemptsResult(t *testing.T) {
	g := &fakeGrader{configured: true, result: successResult()}
	s := newTestScreen(g, nil)
	s.input.SetValue("answer")

	view := s.View(100, 200)
	assert.Contains(t, view, "Question")
	assert.Contains(t, view, "Mathematical Proofs")
	assert.Contains(t, view, "Get Feedback")
	assert.NotContains(t, view, "Your Result")

	_, cmd := s.Update(ctrlKey('s'))
	view = s.View(100, 200)
	assert.Contains(t, view, "Analyzing... Please wait")
	assert.Contains(t, view, "Please don't close the terminal.")
	assert.NotContains(t, view, "Your Result")

	graded, _ := findMsg[gradedMsg](drain(cmd))
	s.Update(graded)
	view = s.View(100, 200)
	assert.Contains(t, view, "Your Result")
	assert.Contains(t, view, "7.5")
	assert.NotContains(t, view, "Analyzing... Please wait")
}

func TestHistoryShortcut(t *testing.T) {
	g := &fakeGrader{configured: true}

	s := newTestScreen(g, nil)
	_, cmd := s.Update(ctrlKey('r'))
	assert.Nil(t, cmd)

	s = newTestScreen(g, &fakeRepo{})
	_, cmd = s.Update(ctrlKey('r'))
	require.NotNil(t, cmd)
	push, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok)
	assert.IsType(t, &history.HistoryScreen{}, push.Screen)
}

func TestKeyHints(t *testing.T) {
	g := &fakeGrader{configured: true}
	s := newTestScreen(g, &fakeRepo{})

	keys := func() []string {
		var out []string
		for _, h := range s.KeyHints() {
			out = append(out, h.Key)
		}
		return out
	}
	assert.Contains(t, keys(), "Ctrl+S")
	assert.Contains(t, keys(), "Ctrl+R")

	g.block = true
	s.input.SetValue("answer")
	_, cmd := s.Update(ctrlKey('s'))
	assert.Equal(t, []string{"Esc", "Ctrl+C"}, keys())

	s.Update(escKey())
	drain(cmd)
}
