package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizapp/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show per-category statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		stats, err := st.Attempts().CategoryStats(cmd.Context())
		if err != nil {
			return fmt.Errorf("load stats: %w", err)
		}
		if len(stats) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No quizzes yet.")
			return nil
		}
		writeTable(cmd.OutOrStdout(), statsHeaders, statsRows(stats))
		return nil
	},
}

var statsHeaders = []string{"CATEGORY", "ATTEMPTS", "BEST", "ACCURACY", "LAST PLAYED"}

func statsRows(stats []store.CategoryStat) [][]string {
	rows := make([][]string, 0, len(stats))
	for _, s := range stats {
		label := s.Label
		if label == "" {
			label = catalogDefault().Label(s.Category)
		}
		rows = append(rows, []string{
			label,
			strconv.Itoa(s.Attempts),
			strconv.Itoa(s.BestScore),
			fmt.Sprintf("%.1f%%", s.Accuracy()*100),
			s.LastPlayed.Local().Format("2006-01-02"),
		})
	}
	return rows
}
