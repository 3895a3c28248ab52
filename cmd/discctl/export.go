package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oikos/disc-backend/internal/config"
	"github.com/oikos/disc-backend/internal/model"
	"github.com/oikos/disc-backend/internal/service"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export stored results as documents",
	}
	cmd.AddCommand(newExportResultsCmd(), newExportPDFCmd())
	return cmd
}

func newExportResultsCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "results",
		Short: "Write every stored result to an XLSX workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			stores, err := openStores(cmd.Context(), cmd, cfg)
			if err != nil {
				return err
			}
			defer stores.Close()

			log := cmdLogger(cmd)
			results, err := service.NewResultService(stores.Results, stores.Dashboard, log).ExportRows(cmd.Context())
			if err != nil {
				return err
			}
			body, err := service.NewExportService(cfg.PDFFontPath, nil, log).ResultsWorkbook(results)
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, body, 0o644); err != nil {
				return fmt.Errorf("write workbook: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d results to %s\n", len(results), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", service.ResultsWorkbookFilename, "Output file")
	return cmd
}

func newExportPDFCmd() *cobra.Command {
	var (
		email  string
		output string
		font   string
	)

	cmd := &cobra.Command{
		Use:   "pdf",
		Short: "Render the latest result of a participant as a PDF report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			email = strings.TrimSpace(email)
			if email == "" {
				return fmt.Errorf("--email is required")
			}

			cfg := config.Load()
			if font == "" {
				font = cfg.PDFFontPath
			}
			catalog, err := loadCatalog(cmd, cfg)
			if err != nil {
				return err
			}
			stores, err := openStores(cmd.Context(), cmd, cfg)
			if err != nil {
				return err
			}
			defer stores.Close()

			results, err := stores.Results.ListByEmail(cmd.Context(), email)
			if err != nil {
				return err
			}
			if len(results) == 0 {
				return fmt.Errorf("no results stored for %s", email)
			}
			latest := results[0]

			view := service.NewPresenter(catalog).Result(latest.Scores)
			body, err := service.NewExportService(font, nil, cmdLogger(cmd)).
				ResultPDF(model.UserInfo{Name: latest.Name, Email: latest.Email}, view)
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, body, 0o644); err != nil {
				return fmt.Errorf("write pdf: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s result (%s) to %s\n", latest.Email, view.Profile, output)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Participant email")
	cmd.Flags().StringVarP(&output, "output", "o", service.ResultPDFFilename, "Output file")
	cmd.Flags().StringVar(&font, "font", "", "TTF font covering Hangul (default: PDF_FONT_PATH)")
	return cmd
}
