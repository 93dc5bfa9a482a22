package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizapp/internal/catalog"
)

var (
	seedPack    string
	seedReplace bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load questions from a JSON or YAML question pack",
	Long: "Validate a question pack (JSON, or YAML for .yaml/.yml files) and load its questions. Without " +
		"--replace the pack is only loaded into an empty question table.",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(seedPack)
		if err != nil {
			return fmt.Errorf("read pack: %w", err)
		}
		cat, err := catalog.ParseFile(seedPack, data)
		if err != nil {
			return err
		}

		st, _, _, err := openStoreUnseeded(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		var n int
		if seedReplace {
			n, err = st.ReplaceQuestions(cmd.Context(), cat)
		} else {
			n, err = st.Seed(cmd.Context(), cat)
		}
		if err != nil {
			return fmt.Errorf("seed questions: %w", err)
		}

		out := cmd.OutOrStdout()
		if n == 0 && !seedReplace {
			fmt.Fprintln(out, "Question table is not empty; use --replace to overwrite it.")
			return nil
		}
		fmt.Fprintf(out, "Loaded %d questions from pack %q.\n", n, cat.Name())
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedPack, "pack", "p", "", "Path to a question pack (.json, .yaml or .yml)")
	seedCmd.Flags().BoolVar(&seedReplace, "replace", false, "Replace all existing questions")
	seedCmd.MarkFlagRequired("pack")
}
