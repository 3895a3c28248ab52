package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/oikos/disc-backend/internal/config"
	"github.com/oikos/disc-backend/internal/disc"
)

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the questionnaire catalog",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Validate the catalog and summarize its contents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := loadCatalog(cmd, config.Load())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "title:     %s\n", catalog.Title)
			fmt.Fprintf(out, "questions: %d (max score per dimension %d)\n",
				catalog.QuestionCount(), catalog.QuestionCount()*disc.Points[0])
			fmt.Fprintf(out, "profiles:  %d\n", len(catalog.Profiles))

			keys := make([]string, 0, len(catalog.Profiles))
			for k := range catalog.Profiles {
				keys = append(keys, k)
			}
			sort.Slice(keys, func(i, j int) bool {
				if len(keys[i]) != len(keys[j]) {
					return len(keys[i]) > len(keys[j])
				}
				return keys[i] < keys[j]
			})
			for _, k := range keys {
				fmt.Fprintf(out, "  %-3s %s\n", k, catalog.Profiles[k])
			}
			fmt.Fprintln(out, "ok")
			return nil
		},
	})
	return cmd
}
