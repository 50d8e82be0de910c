package grade

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/echograde/echograde/internal/grading"
	"github.com/echograde/echograde/internal/question"
	"github.com/echograde/echograde/internal/router"
	"github.com/echograde/echograde/internal/screen"
	"github.com/echograde/echograde/internal/screens/history"
	"github.com/echograde/echograde/internal/store"
	"github.com/echograde/echograde/internal/ui/components"
	"github.com/echograde/echograde/internal/ui/layout"
	"github.com/echograde/echograde/internal/ui/toast"
)

const (
	spinnerInterval = 100 * time.Millisecond
	maxContentWidth = 100
	inputHeight     = 6
)

// Grader runs one grading cycle. *grading.Client implements it.
type Grader interface {
	Configured() bool
	Grade(ctx context.Context, q question.Question, answer string) (*grading.Result, error)
}

// GradeScreen shows the question, collects an answer and renders feedback.
type GradeScreen struct {
	grader   Grader
	question question.Question
	results  store.ResultRepo
	logger   zerolog.Logger

	input   components.TextArea
	loading bool
	result  *grading.Result

	cancel    context.CancelFunc
	startedAt time.Time
	spinTick  int
	now       func() time.Time

	width  int
	height int
	scroll int
}

var _ screen.Screen = (*GradeScreen)(nil)
var _ screen.KeyHintProvider = (*GradeScreen)(nil)

// New creates a GradeScreen. results may be nil to disable history.
func New(grader Grader, q question.Question, results store.ResultRepo, logger zerolog.Logger) *GradeScreen {
	return &GradeScreen{
		grader:   grader,
		question: q,
		results:  results,
		logger:   logger,
		input:    components.NewTextArea("Type your answer here...", 60, inputHeight),
		now:      time.Now,
	}
}

func (s *GradeScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *GradeScreen) Title() string {
	return "Grade"
}

func (s *GradeScreen) KeyHints() []layout.KeyHint {
	if s.loading {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Cancel"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	hints := []layout.KeyHint{{Key: "Ctrl+S", Description: "Get Feedback"}}
	if s.results != nil {
		hints = append(hints, layout.KeyHint{Key: "Ctrl+R", Description: "History"})
	}
	return append(hints,
		layout.KeyHint{Key: "PgUp/PgDn", Description: "Scroll"},
		layout.KeyHint{Key: "Ctrl+C", Description: "Quit"},
	)
}

// Loading reports whether a grading cycle is running.
func (s *GradeScreen) Loading() bool {
	return s.loading
}

// Result returns the feedback from the last successful attempt, if any.
func (s *GradeScreen) Result() *grading.Result {
	return s.result
}

func (s *GradeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.resize(msg.Width, layout.ContentHeight(msg.Height))
		return s, nil

	case gradedMsg:
		return s.handleGraded(msg)

	case spinnerTickMsg:
		if !s.loading {
			return s, nil
		}
		s.spinTick++
		return s, spinnerCmd()

	case persistResultMsg:
		if msg.Err != nil {
			s.logger.Error().Err(msg.Err).Msg("persist result")
			return s, toast.Show("History not saved", "Your feedback is shown but could not be recorded.", toast.VariantDefault)
		}
		s.logger.Debug().Int64("id", msg.ID).Msg("result saved")
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *GradeScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "ctrl+s":
		return s, s.submit()

	case "esc":
		if s.loading && s.cancel != nil {
			s.cancel()
		}
		return s, nil

	case "ctrl+r":
		if s.results == nil || s.loading {
			return s, nil
		}
		return s, func() tea.Msg {
			return router.PushScreenMsg{Screen: history.New(s.results)}
		}

	case "pgup":
		s.scroll = max(0, s.scroll-inputHeight)
		return s, nil

	case "pgdown":
		s.scroll = min(s.scroll+inputHeight, s.maxScroll())
		return s, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// submit validates locally and starts a grading cycle. Rejections raise a
// toast and leave the previous result on screen.
func (s *GradeScreen) submit() tea.Cmd {
	if s.loading {
		return nil
	}

	answer := s.input.Value()
	if strings.TrimSpace(answer) == "" {
		return notify(grading.ErrEmptyAnswer)
	}
	if !s.grader.Configured() {
		return notify(grading.ErrNotConfigured)
	}

	s.result = nil
	s.loading = true
	s.spinTick = 0
	s.startedAt = s.now()
	s.input.SetDisabled(true)

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	grader, q := s.grader, s.question
	return tea.Batch(
		func() tea.Msg {
			res, err := grader.Grade(ctx, q, answer)
			return gradedMsg{Result: res, Answer: answer, Err: err}
		},
		spinnerCmd(),
	)
}

// handleGraded is the single place loading ends, whatever the outcome.
func (s *GradeScreen) handleGraded(msg gradedMsg) (screen.Screen, tea.Cmd) {
	s.loading = false
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	focus := s.input.SetDisabled(false)

	if msg.Err != nil {
		return s, tea.Batch(focus, notify(msg.Err))
	}

	s.result = msg.Result
	s.scroll = min(s.resultOffset(), s.maxScroll())

	if s.results == nil {
		return s, focus
	}
	repo, rec := s.results, store.RecordFromResult(msg.Result, msg.Answer)
	return s, tea.Batch(focus, func() tea.Msg {
		id, err := repo.Append(context.Background(), rec)
		return persistResultMsg{ID: id, Err: err}
	})
}

func (s *GradeScreen) resize(width, height int) {
	s.width = width
	s.height = height
	w := contentWidth(width)
	s.input.SetSize(w-2, inputHeight)
}

func notify(err error) tea.Cmd {
	n := grading.Classify(err)
	return toast.Show(n.Title, n.Message, toast.VariantDestructive)
}

func spinnerCmd() tea.Cmd {
	return tea.Tick(spinnerInterval, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}

func contentWidth(width int) int {
	return max(20, min(width-4, maxContentWidth))
}
