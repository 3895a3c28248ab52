package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oikos/disc-backend/internal/disc"
)

func newResolveCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "resolve <D> <I> <S> <C>",
		Short: "Resolve a score vector to its profile",
		Long: "Ranks the four scores (ties keep D, I, S, C order) and prints the profile found\n" +
			"by the top-3, top-2 and top-1 key lookups against the catalog.",
		Example: "  discctl resolve 60 45 30 15",
		Args:    cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			scores, err := parseScores(args)
			if err != nil {
				return err
			}
			catalog, err := loadCatalog(cmd, nil)
			if err != nil {
				return err
			}

			res := catalog.Resolver().Resolve(scores)
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}

			ranked := make([]string, len(res.Ranked))
			for i, d := range res.Ranked {
				ranked[i] = string(d)
			}
			fmt.Fprintf(out, "ranked:    %s\n", strings.Join(ranked, " "))
			fmt.Fprintf(out, "attempted: %s\n", strings.Join(res.Attempted, ", "))
			if res.Found {
				fmt.Fprintf(out, "profile:   %s (%s via %s)\n", res.Name, res.Key, res.Strategy)
			} else {
				fmt.Fprintf(out, "profile:   %s\n", res.Name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the resolution as JSON")
	return cmd
}

func parseScores(args []string) (disc.Scores, error) {
	var vals [4]int
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil || n < 0 {
			return disc.Scores{}, fmt.Errorf("score %s must be a non-negative integer, got %q", disc.Dimensions[i], a)
		}
		vals[i] = n
	}
	return disc.Scores{D: vals[0], I: vals[1], S: vals[2], C: vals[3]}, nil
}
