package main

import (
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/oikos/disc-backend/internal/config"
	"github.com/oikos/disc-backend/internal/disc"
	"github.com/oikos/disc-backend/internal/model"
)

func newSeedCmd() *cobra.Command {
	var (
		count int
		seed  uint64
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert demo participants with randomly answered questionnaires",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return fmt.Errorf("--count must be at least 1")
			}

			cfg := config.Load()
			catalog, err := loadCatalog(cmd, cfg)
			if err != nil {
				return err
			}
			stores, err := openStores(cmd.Context(), cmd, cfg)
			if err != nil {
				return err
			}
			defer stores.Close()

			resolver := catalog.Resolver()
			rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
			ctx := cmd.Context()

			for i := 1; i <= count; i++ {
				user := &model.UserRecord{
					Name:  fmt.Sprintf("참가자 %03d", i),
					Email: fmt.Sprintf("participant%03d@example.com", i),
				}
				if err := stores.Users.Create(ctx, user); err != nil {
					return fmt.Errorf("seed user %d: %w", i, err)
				}

				scores := disc.Aggregate(randomAnswers(rng, catalog.QuestionCount()))
				res := &model.TestResult{
					Email:       user.Email,
					Name:        user.Name,
					Scores:      scores,
					ProfileName: resolver.Resolve(scores).Name,
				}
				if err := stores.Results.Create(ctx, res); err != nil {
					return fmt.Errorf("seed result %d: %w", i, err)
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d participants into %s\n", count, stores.Driver)
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 20, "Number of participants")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "Random seed")
	return cmd
}

// randomAnswers assigns a random permutation of the point values to every
// question.
func randomAnswers(rng *rand.Rand, questions int) disc.Answers {
	answers := make(disc.Answers, questions)
	for q := 0; q < questions; q++ {
		var a disc.Answer
		perm := rng.Perm(len(disc.Points))
		for i, d := range disc.Dimensions {
			a, _ = a.Set(d, disc.Points[perm[i]])
		}
		answers[q] = a
	}
	return answers
}
