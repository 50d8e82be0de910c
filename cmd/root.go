package cmd

import (
	"github.com/spf13/cobra"

	"github.com/echograde/echograde/internal/config"
)

var rootCmd = &cobra.Command{
	Use:          "echograde",
	Short:        "Answer grading client for the terminal",
	Long:         "EchoGrade: submit a free-text answer to a grading service and review the score, verdict and advice.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("api-url", "", "Grading service base URL (overrides ECHOGRADE_API_URL)")
	pf.String("user-id", "", "User ID sent to the analyze endpoint (overrides ECHOGRADE_USER_ID)")
	pf.String("question-file", "", "YAML file with the question to answer (overrides ECHOGRADE_QUESTION_FILE)")
	pf.Duration("timeout", 0, "Per-request timeout, e.g. 90s (overrides ECHOGRADE_REQUEST_TIMEOUT)")
	pf.String("db", "", "Path to SQLite history database (overrides ECHOGRADE_DB)")
	pf.Bool("no-history", false, "Do not record graded answers")
	pf.String("log-file", "", "Write JSON logs to this file (overrides ECHOGRADE_LOG_FILE)")

	rootCmd.AddCommand(gradeCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(questionCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads env/.env configuration with the command's flags layered
// on top. Only flags set explicitly on the command line take precedence.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	return config.Load(cmd.Flags())
}
