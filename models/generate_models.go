package models

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"gorm.io/gen"
	"gorm.io/gorm"
)

/*
Column Mismatch Report Usage:

ColumnMismatches lists database columns that no model field maps to, per
table. It is exposed on the command line as:

	blog schema-report

Example output:

	=== COLUMN MISMATCH REPORT ===
	--- Table: blog_posts ---
	Found 1 columns not accounted for in model:
	  - summary

	--- Table: tags ---
	All columns are accounted for in the model.

	=== SUMMARY ===
	Total mismatched columns across all tables: 1
*/

// All returns one value of every persisted model, in dependency order.
func All() []any {
	return []any{
		&User{},
		&Category{},
		&Tag{},
		&BlogPost{},
		&PostTag{},
		&Like{},
		&Comment{},
	}
}

// GenerateQueries writes gorm/gen typed query helpers for every model into outPath.
func GenerateQueries(db *gorm.DB, outPath string) error {
	if outPath == "" {
		return errors.New("output path cannot be empty")
	}
	if err := db.Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("database not reachable: %w", err)
	}

	g := gen.NewGenerator(gen.Config{
		OutPath:           outPath,
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})

	g.UseDB(db.Session(&gorm.Session{SkipDefaultTransaction: true}))
	g.ApplyBasic(All()...)
	g.Execute()
	return nil
}

// ColumnMismatches returns, per table, the columns present in the database
// that no model field maps to. Tables that do not exist yet are skipped.
func ColumnMismatches(db *gorm.DB) (map[string][]string, error) {
	migrator := db.Migrator()
	report := make(map[string][]string)

	for _, model := range All() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("parse model %T: %w", model, err)
		}
		tableName := stmt.Schema.Table

		if !migrator.HasTable(model) {
			continue
		}

		columnTypes, err := migrator.ColumnTypes(model)
		if err != nil {
			return nil, fmt.Errorf("error querying columns for table %s: %w", tableName, err)
		}

		modelFieldSet := make(map[string]bool, len(stmt.Schema.DBNames))
		for _, name := range stmt.Schema.DBNames {
			modelFieldSet[name] = true
		}

		mismatches := []string{}
		for _, column := range columnTypes {
			if !modelFieldSet[column.Name()] {
				mismatches = append(mismatches, column.Name())
			}
		}
		sort.Strings(mismatches)
		report[tableName] = mismatches
	}

	return report, nil
}

// WriteColumnReport prints a report produced by ColumnMismatches and returns
// the total number of unmapped columns.
func WriteColumnReport(w io.Writer, report map[string][]string) int {
	fmt.Fprintln(w, "=== COLUMN MISMATCH REPORT ===")

	tables := make([]string, 0, len(report))
	for table := range report {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	totalMismatches := 0
	for _, table := range tables {
		mismatches := report[table]
		fmt.Fprintf(w, "--- Table: %s ---\n", table)
		if len(mismatches) == 0 {
			fmt.Fprintln(w, "All columns are accounted for in the model.")
			continue
		}
		fmt.Fprintf(w, "Found %d columns not accounted for in model:\n", len(mismatches))
		for _, col := range mismatches {
			fmt.Fprintf(w, "  - %s\n", col)
		}
		totalMismatches += len(mismatches)
	}

	fmt.Fprintf(w, "\n=== SUMMARY ===\n")
	fmt.Fprintf(w, "Total mismatched columns across all tables: %d\n", totalMismatches)
	return totalMismatches
}
