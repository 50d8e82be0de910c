package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/echograde/echograde/internal/screens/history"
	"github.com/echograde/echograde/internal/store"
	"github.com/echograde/echograde/internal/ui/components"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect previously graded answers",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent graded answers, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		recs, err := st.ResultRepo().Recent(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("query results: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(recs) == 0 {
			fmt.Fprintln(out, "No graded answers found.")
			return nil
		}
		for _, rec := range recs {
			fmt.Fprintln(out, history.SummaryLine(rec))
		}
		return nil
	},
}

var historyViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the answer and feedback for one graded attempt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		rec, err := st.ResultRepo().Get(cmd.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("result %d not found", id)
		}
		if err != nil {
			return fmt.Errorf("get result: %w", err)
		}

		out := cmd.OutOrStdout()
		sep := strings.Repeat("─", 60)

		fmt.Fprintf(out, "ID:        %d\n", rec.ID)
		fmt.Fprintf(out, "Time:      %s\n", rec.CreatedAt.Local().Format("2006-01-02 15:04:05"))
		fmt.Fprintf(out, "Attempt:   %s\n", rec.AttemptID)
		fmt.Fprintf(out, "Question:  %s\n", rec.QuestionID)
		fmt.Fprintf(out, "User:      %s\n", rec.UserID)

		fmt.Fprintln(out)
		fmt.Fprintln(out, sep)
		fmt.Fprintln(out, "ANSWER")
		fmt.Fprintln(out, sep)
		fmt.Fprintln(out, rec.Answer)
		fmt.Fprintln(out)
		fmt.Fprintln(out, components.RenderFeedback(rec.Feedback, 80))
		return nil
	},
}

func init() {
	historyListCmd.Flags().IntP("limit", "n", 20, "Maximum number of results to show (0 = all)")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyViewCmd)
}
