package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizapp/internal/store"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent quiz attempts",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		recs, err := st.Attempts().RecentAttempts(cmd.Context(), store.QueryOpts{Limit: historyLimit})
		if err != nil {
			return fmt.Errorf("load history: %w", err)
		}
		if len(recs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No quizzes yet.")
			return nil
		}
		writeTable(cmd.OutOrStdout(), historyHeaders, historyRows(recs))
		return nil
	},
}

var historyHeaders = []string{"#", "DATE", "CATEGORY", "SCORE", "ACCURACY", "TIME"}

func historyRows(recs []store.AttemptRecord) [][]string {
	rows := make([][]string, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, []string{
			strconv.FormatInt(r.Sequence, 10),
			r.FinishedAt.Local().Format("2006-01-02 15:04"),
			r.CategoryLabel,
			fmt.Sprintf("%d/%d", r.Score, r.Total),
			fmt.Sprintf("%.1f%%", r.Accuracy()*100),
			r.Duration().Round(time.Second).String(),
		})
	}
	return rows
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of attempts to show")
}
