package main

import (
	"dyslexiatutor/internal/model"
	"dyslexiatutor/internal/repository"
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the bank files without touching any database",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		return validateBanks(cmd, dir)
	},
}

// validateBanks loads every mode through the file repository and prints the
// per-tier counts that sampling will draw from.
func validateBanks(cmd *cobra.Command, dir string) error {
	repo := repository.NewFileQuestionRepo(dir)
	out := cmd.OutOrStdout()

	var failed int
	for _, mode := range model.Modes {
		questions, err := repo.GetByMode(cmd.Context(), mode)
		if err != nil {
			failed++
			fmt.Fprintf(out, "mode %s: %v\n", mode, err)
			continue
		}

		counts := map[model.Difficulty]int{}
		untiered := 0
		for _, q := range questions {
			if tier, ok := q.Difficulty.Tier(); ok {
				counts[tier]++
			} else {
				untiered++
			}
		}
		fmt.Fprintf(out, "mode %s: %d questions (easy %d, medium %d, hard %d, untiered %d)\n",
			mode, len(questions),
			counts[model.DifficultyEasy], counts[model.DifficultyMedium], counts[model.DifficultyHard],
			untiered)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d banks failed validation", failed, len(model.Modes))
	}
	return nil
}
