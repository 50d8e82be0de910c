package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/echograde/echograde/internal/app"
	"github.com/echograde/echograde/internal/config"
	"github.com/echograde/echograde/internal/grading"
	"github.com/echograde/echograde/internal/logging"
	"github.com/echograde/echograde/internal/question"
	"github.com/echograde/echograde/internal/store"
)

// runApp loads configuration, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	q, err := question.Load(cfg.QuestionFile)
	if err != nil {
		return err
	}

	logger, logCloser, err := logging.OpenFile(cfg.LogFile)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	opts := app.Options{
		Grader:   grading.New(cfg.GradingConfig(), grading.WithLogger(logger)),
		Question: q,
		Logger:   logger,
	}

	if cfg.HistoryEnabled {
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()
		opts.Results = st.ResultRepo()
	}

	logger.Info().
		Str("question_id", q.ID).
		Bool("configured", cfg.APIURL != "").
		Bool("history", cfg.HistoryEnabled).
		Msg("starting tui")

	return app.Run(opts)
}

// openStore opens the history database at the configured path.
func openStore(cfg config.Config) (*store.Store, error) {
	dbPath, err := cfg.ResolveDBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}
