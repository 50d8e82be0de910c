package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echograde/echograde/internal/grading"
)

const analysisBody = `{"results":[{"feedback":{"score_out_of_10":8.5,"verdict":"Excellent","comment":"Complete proof.","advice":"Name the similarity criterion.","unmatched_equations":[]}}]}`

func newGradingServer(t *testing.T, submitStatus int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/answers", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(submitStatus)
		_, _ = w.Write([]byte(`{}`))
	})
	mux.HandleFunc("GET /analyze/{question}/{user}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(analysisBody))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// resetFlags restores every flag to its default so tests don't leak state
// through the package-level commands.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("ECHOGRADE_API_URL", "")
	t.Setenv("ECHOGRADE_LOG_FILE", "")
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)

	err = rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func TestGradeJSON(t *testing.T) {
	srv := newGradingServer(t, http.StatusOK)

	stdout, _, err := execute(t, "", "grade", "--api-url", srv.URL, "--no-history", "--json", "--answer", "my proof")
	require.NoError(t, err)

	var res grading.Result
	require.NoError(t, json.Unmarshal([]byte(stdout), &res))
	assert.Equal(t, "q101", res.QuestionID)
	assert.Equal(t, grading.DefaultUserID, res.UserID)
	require.NotNil(t, res.Feedback.Score)
	assert.Equal(t, 8.5, *res.Feedback.Score)
	assert.Equal(t, "Excellent", res.Feedback.Verdict)
	assert.NotEmpty(t, res.AttemptID)
}

func TestGradeReadsStdin(t *testing.T) {
	srv := newGradingServer(t, http.StatusOK)

	stdout, _, err := execute(t, "proof from stdin\n", "grade", "--api-url", srv.URL, "--no-history")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Your Result")
	assert.Contains(t, stdout, "Excellent")
}

func TestGradeSubmitFailure(t *testing.T) {
	srv := newGradingServer(t, http.StatusServiceUnavailable)

	_, stderr, err := execute(t, "", "grade", "--api-url", srv.URL, "--no-history", "--answer", "x")
	require.Error(t, err)
	assert.Contains(t, stderr, "Error: failed to submit answer: 503 Service Unavailable")
}

func TestGradeNotConfigured(t *testing.T) {
	_, stderr, err := execute(t, "", "grade", "--no-history", "--answer", "x")
	require.ErrorIs(t, err, grading.ErrNotConfigured)
	assert.Contains(t, stderr, "Configuration Error")
}

func TestGradeEmptyAnswer(t *testing.T) {
	_, stderr, err := execute(t, "   ", "grade", "--api-url", "http://127.0.0.1:1", "--no-history")
	require.ErrorIs(t, err, grading.ErrEmptyAnswer)
	assert.Contains(t, stderr, "Answer is empty")
}

func TestGradeThenHistory(t *testing.T) {
	srv := newGradingServer(t, http.StatusOK)
	db := filepath.Join(t.TempDir(), "history.db")

	_, _, err := execute(t, "", "grade", "--api-url", srv.URL, "--db", db, "--answer", "saved proof")
	require.NoError(t, err)

	stdout, _, err := execute(t, "", "history", "list", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, stdout, "#1")
	assert.Contains(t, stdout, "Excellent")

	stdout, _, err = execute(t, "", "history", "view", "1", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, stdout, "saved proof")
	assert.Contains(t, stdout, "Name the similarity criterion.")

	_, _, err = execute(t, "", "history", "view", "42", "--db", db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestHistoryListEmpty(t *testing.T) {
	stdout, _, err := execute(t, "", "history", "list", "--db", filepath.Join(t.TempDir(), "h.db"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "No graded answers found.")
}

func TestQuestionYAML(t *testing.T) {
	stdout, _, err := execute(t, "", "question", "--yaml")
	require.NoError(t, err)
	assert.Contains(t, stdout, "id: q101")
	assert.Contains(t, stdout, "topic: Mathematical Proofs")
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "echograde (devel)\n", stdout)
}

func TestInvalidTimeoutFlag(t *testing.T) {
	_, _, err := execute(t, "", "question", "--timeout=-1s")
	require.Error(t, err)
}

func TestFlagsOverrideEnv(t *testing.T) {
	srv := newGradingServer(t, http.StatusOK)
	t.Setenv("ECHOGRADE_REQUEST_TIMEOUT", "two-minutes")
	t.Setenv("ECHOGRADE_USER_ID", "env-user")

	stdout, _, err := execute(t, "", "grade", "--timeout=90s", "--api-url", srv.URL, "--user-id", "flag-user", "--no-history", "--json", "--answer", "my proof")
	require.NoError(t, err)

	var res grading.Result
	require.NoError(t, json.Unmarshal([]byte(stdout), &res))
	assert.Equal(t, "flag-user", res.UserID)
}

func TestInvalidEnvWithoutFlag(t *testing.T) {
	t.Setenv("ECHOGRADE_REQUEST_TIMEOUT", "two-minutes")
	_, _, err := execute(t, "", "question")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "two-minutes")
}
