package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var playCategory int

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a quiz for a category",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkCategory(playCategory); err != nil {
			return err
		}
		return runApp(cmd, playCategory)
	},
}

func init() {
	playCmd.Flags().IntVarP(&playCategory, "category", "c", 0, "Category ID (see `quizapp categories`)")
	playCmd.MarkFlagRequired("category")
}

// checkCategory rejects IDs the catalog does not know.
func checkCategory(id int) error {
	if _, ok := catalogDefault().Category(id); !ok {
		return fmt.Errorf("unknown category %d (see `quizapp categories`)", id)
	}
	return nil
}
