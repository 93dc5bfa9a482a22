package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetReseed bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear quiz history",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, _, err := openStoreUnseeded(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		n, err := st.Attempts().DeleteAll(ctx)
		if err != nil {
			return fmt.Errorf("clear history: %w", err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Removed %d attempts.\n", n)

		if resetReseed {
			q, err := st.ReplaceQuestions(ctx, catalogDefault())
			if err != nil {
				return fmt.Errorf("reseed questions: %w", err)
			}
			fmt.Fprintf(out, "Restored %d built-in questions.\n", q)
		}
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVar(&resetReseed, "reseed", false, "Also restore the built-in questions")
}
