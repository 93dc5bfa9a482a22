package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List categories and their question counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		counts, err := st.Questions().CountsByCategory(cmd.Context())
		if err != nil {
			return fmt.Errorf("count questions: %w", err)
		}

		var rows [][]string
		for _, c := range catalogDefault().Categories() {
			rows = append(rows, []string{strconv.Itoa(c.ID), c.Label, strconv.Itoa(counts[c.ID])})
		}
		writeTable(cmd.OutOrStdout(), []string{"ID", "CATEGORY", "QUESTIONS"}, rows)
		return nil
	},
}
