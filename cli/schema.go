package cli

import (
	"errors"
	"fmt"

	"github.com/rpupo63/blog-backend/database"
	"github.com/rpupo63/blog-backend/models"
	"github.com/spf13/cobra"
)

func newMigrateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.db()
			if err != nil {
				return err
			}
			if err := database.Migrate(cmd.Context(), db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date.")
			return nil
		},
	}
}

func newGenerateCommand(a *app) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate typed query helpers for the models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.db()
			if err != nil {
				return err
			}
			if err := models.GenerateQueries(db, outPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Query helpers written to %s\n", outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "./query", "Output directory for the generated code")
	return cmd
}

var errSchemaDrift = errors.New("database has columns no model maps")

func newSchemaReportCommand(a *app) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "schema-report",
		Short: "List database columns that no model field maps to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.db()
			if err != nil {
				return err
			}
			report, err := models.ColumnMismatches(db)
			if err != nil {
				return err
			}
			total := models.WriteColumnReport(cmd.OutOrStdout(), report)
			if strict && total > 0 {
				return errSchemaDrift
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Exit with an error when any column is unmapped")
	return cmd
}
