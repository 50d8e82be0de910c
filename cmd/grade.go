package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/echograde/echograde/internal/config"
	"github.com/echograde/echograde/internal/grading"
	"github.com/echograde/echograde/internal/logging"
	"github.com/echograde/echograde/internal/question"
	"github.com/echograde/echograde/internal/store"
	"github.com/echograde/echograde/internal/ui/components"
)

var gradeCmd = &cobra.Command{
	Use:   "grade",
	Short: "Grade one answer without the TUI",
	Long: `Grade one answer and print the feedback.

The answer is taken from --answer, or read from stdin when the flag is absent:

  echograde grade --answer "AC^2 = AB^2 + BC^2 because..."
  echograde grade --json < answer.txt`,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		verbose, _ := cmd.Flags().GetBool("verbose")

		cfg, err := loadConfig(cmd)
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
			return err
		}

		q, err := question.Load(cfg.QuestionFile)
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
			return err
		}

		answer, err := readAnswer(cmd)
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
			return err
		}

		logger := logging.Console(cmd.ErrOrStderr(), verbose)
		if cfg.LogFile != "" {
			fileLogger, closer, err := logging.OpenFile(cfg.LogFile)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
				return err
			}
			defer closer.Close()
			logger = fileLogger
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		client := grading.New(cfg.GradingConfig(), grading.WithLogger(logger))
		res, err := client.Grade(ctx, q, answer)
		if err != nil {
			n := grading.Classify(err)
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", n.Title, n.Message)
			return err
		}

		if cfg.HistoryEnabled {
			saveResult(ctx, cfg, res, answer, logger)
		}

		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}
		fmt.Fprintln(out, components.RenderFeedback(res.Feedback, 80))
		return nil
	},
}

func init() {
	gradeCmd.Flags().StringP("answer", "a", "", "Answer text (default: read from stdin)")
	gradeCmd.Flags().Bool("json", false, "Print the result as JSON")
	gradeCmd.Flags().BoolP("verbose", "v", false, "Log request progress to stderr")
}

// readAnswer returns --answer when given, otherwise all of stdin.
func readAnswer(cmd *cobra.Command) (string, error) {
	if cmd.Flags().Changed("answer") {
		return cmd.Flags().GetString("answer")
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read answer from stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

// saveResult records a graded answer. Failures are logged and otherwise
// ignored so that a broken history database never hides feedback.
func saveResult(ctx context.Context, cfg config.Config, res *grading.Result, answer string, logger zerolog.Logger) {
	st, err := openStore(cfg)
	if err != nil {
		logger.Warn().Err(err).Msg("history unavailable")
		return
	}
	defer st.Close()

	id, err := st.ResultRepo().Append(ctx, store.RecordFromResult(res, answer))
	if err != nil {
		logger.Warn().Err(err).Msg("persist result")
		return
	}
	logger.Debug().Int64("id", id).Msg("result saved")
}
