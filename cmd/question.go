package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/echograde/echograde/internal/question"
)

var questionCmd = &cobra.Command{
	Use:   "question",
	Short: "Print the configured question",
	RunE: func(cmd *cobra.Command, args []string) error {
		asYAML, _ := cmd.Flags().GetBool("yaml")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		q, err := question.Load(cfg.QuestionFile)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asYAML {
			data, err := yaml.Marshal(q)
			if err != nil {
				return fmt.Errorf("encode question: %w", err)
			}
			_, err = out.Write(data)
			return err
		}

		fmt.Fprintf(out, "[%s] %s\n\n%s\n", q.ID, q.Topic, q.Text)
		return nil
	},
}

func init() {
	questionCmd.Flags().Bool("yaml", false, "Print as a YAML question file")
}
