package grading

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/echograde/echograde/internal/question"
)

const (
	// DefaultTimeout bounds each of the two requests of a grading cycle.
	DefaultTimeout = 120 * time.Second

	// DefaultUserID identifies the learner when none is configured.
	DefaultUserID = "test-user-01"
)

// Config holds the grading service connection settings.
type Config struct {
	// BaseURL is the grading service root, e.g. https://grader.example.com.
	// An empty BaseURL makes every Grade call fail with ErrNotConfigured.
	BaseURL string

	// UserID is the path parameter of the analyze request.
	UserID string

	// Timeout applies to each request separately. Default: 120s.
	Timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpc = h }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// Client runs submit-then-analyze grading cycles against the grading service.
// At most one cycle runs per Client at a time.
type Client struct {
	baseURL  string
	userID   string
	timeout  time.Duration
	httpc    *http.Client
	validate *validator.Validate
	logger   zerolog.Logger
	tracer   trace.Tracer
	inFlight atomic.Bool
}

// New creates a Client from cfg.
func New(cfg Config, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		userID:   cfg.UserID,
		timeout:  cfg.Timeout,
		httpc:    &http.Client{},
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   zerolog.Nop(),
		tracer:   otel.Tracer("github.com/echograde/echograde/internal/grading"),
	}
	if c.userID == "" {
		c.userID = DefaultUserID
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether a base URL is set.
func (c *Client) Configured() bool {
	return c.baseURL != ""
}

// UserID returns the learner identifier used for analyze requests.
func (c *Client) UserID() string {
	return c.userID
}

// Grade submits answer for q and fetches the resulting feedback.
//
// Validation failures return before any request is made. A failed submit
// ends the cycle without calling analyze. Nothing is retried.
func (c *Client) Grade(ctx context.Context, q question.Question, answer string) (*Result, error) {
	if strings.TrimSpace(answer) == "" {
		return nil, ErrEmptyAnswer
	}
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	sub := Submission{
		QuestionID:   q.ID,
		QuestionText: q.Text,
		AnswerText:   answer,
	}
	if err := c.validate.Struct(sub); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSubmission, err)
	}

	if !c.inFlight.CompareAndSwap(false, true) {
		return nil, ErrInFlight
	}
	defer c.inFlight.Store(false)

	attemptID := uuid.NewString()
	ctx = WithAttemptID(ctx, attemptID)
	log := c.logger.With().
		Str("attempt_id", attemptID).
		Str("question_id", q.ID).
		Logger()

	start := time.Now()
	log.Info().Int("answer_len", len(answer)).Msg("submitting answer")
	if err := c.SubmitAnswer(ctx, sub); err != nil {
		log.Error().Err(err).Msg("submit failed")
		return nil, err
	}

	log.Info().Msg("requesting analysis")
	fb, err := c.Analyze(ctx, q.ID)
	if err != nil {
		log.Error().Err(err).Msg("analysis failed")
		return nil, err
	}

	log.Info().
		Dur("elapsed", time.Since(start)).
		Bool("has_score", fb.Score != nil).
		Msg("feedback received")

	return &Result{
		AttemptID:  attemptID,
		QuestionID: q.ID,
		UserID:     c.userID,
		Feedback:   *fb,
		ReceivedAt: time.Now(),
	}, nil
}

// SubmitAnswer posts the submission. Any non-2xx status is a *StatusError.
func (c *Client) SubmitAnswer(ctx context.Context, sub Submission) (err error) {
	ctx, span := c.tracer.Start(ctx, "grading.submit",
		trace.WithAttributes(attribute.String("question.id", sub.QuestionID)))
	defer func() { endSpan(span, err) }()

	body, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("marshal submission: %w", err)
	}

	status, _, err := c.do(ctx, http.MethodPost, "/api/answers", body)
	if err != nil {
		return fmt.Errorf("submit answer: %w", err)
	}
	span.SetAttributes(attribute.Int("http.status_code", status))

	if !isSuccess(status) {
		return &StatusError{
			Step:       StepSubmit,
			StatusCode: status,
			StatusText: http.StatusText(status),
		}
	}
	return nil
}

// Analyze fetches the feedback for questionID and the client's user.
func (c *Client) Analyze(ctx context.Context, questionID string) (fb *Feedback, err error) {
	ctx, span := c.tracer.Start(ctx, "grading.analyze",
		trace.WithAttributes(attribute.String("question.id", questionID)))
	defer func() { endSpan(span, err) }()

	path := fmt.Sprintf("/analyze/%s/%s", url.PathEscape(questionID), url.PathEscape(c.userID))
	status, payload, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("get feedback: %w", err)
	}
	span.SetAttributes(attribute.Int("http.status_code", status))

	if !isSuccess(status) {
		return nil, &StatusError{
			Step:       StepAnalyze,
			StatusCode: status,
			StatusText: http.StatusText(status),
			Detail:     errorDetail(payload),
		}
	}

	return decodeAnalysis(payload)
}

// do performs one request bounded by the client timeout and returns the
// status code and the full response body.
func (c *Client) do(ctx context.Context, method, path string, body []byte) (int, []byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(reqCtx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := AttemptIDFrom(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return 0, nil, classifyTransport(err)
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, classifyTransport(err)
	}
	return resp.StatusCode, payload, nil
}

// classifyTransport tags context failures with ErrTimeout or ErrCancelled.
func classifyTransport(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %w", ErrCancelled, err)
	}
	return err
}

// errorDetail extracts `detail` from an error body. An unparsable body
// yields "Unknown error"; a parsable one without detail yields "".
func errorDetail(payload []byte) string {
	var er errorResponse
	if err := json.Unmarshal(payload, &er); err != nil {
		return "Unknown error"
	}
	return stringField(er.Detail)
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
