package cli

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/rpupo63/blog-backend/database"
	"github.com/rpupo63/blog-backend/models"
	"github.com/rpupo63/blog-backend/validator"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const nameMaxLength = 255

func validateName(name string) error {
	v := validator.New()
	v.RequiredString(&name, "name")
	v.MaxLength(&name, nameMaxLength, "name")
	return withFieldErrors(v.Err())
}

func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%q is not a valid id", raw)
	}
	return id, nil
}

func newCategoryCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Manage blog post categories",
	}

	var name, description string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name = strings.TrimSpace(name)
			if err := validateName(name); err != nil {
				return err
			}
			db, err := a.db()
			if err != nil {
				return err
			}
			category := &models.Category{Name: name, Description: strings.TrimSpace(description)}
			if err := database.NewCategoryRepo(db).Add(cmd.Context(), category); err != nil {
				return fmt.Errorf("create category: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), category.ID)
			return nil
		},
	}
	create.Flags().StringVar(&name, "name", "", "Category name")
	create.Flags().StringVar(&description, "description", "", "Category description")
	_ = create.MarkFlagRequired("name")

	list := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.db()
			if err != nil {
				return err
			}
			categories, err := database.NewCategoryRepo(db).FindAll(cmd.Context())
			if err != nil {
				return fmt.Errorf("list categories: %w", err)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tDESCRIPTION")
			for _, category := range categories {
				fmt.Fprintf(w, "%s\t%s\t%s\n", category.ID, category.Name, category.Description)
			}
			return w.Flush()
		},
	}

	remove := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a category, leaving its posts uncategorised",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			db, err := a.db()
			if err != nil {
				return err
			}
			err = database.NewCategoryRepo(db).Delete(cmd.Context(), id)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("category %s not found", id)
			}
			if err != nil {
				return fmt.Errorf("delete category: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted category %s\n", id)
			return nil
		},
	}

	cmd.AddCommand(create, list, remove)
	return cmd
}

func newTagCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Manage blog post tags",
	}

	var name string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a tag",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name = strings.TrimSpace(name)
			if err := validateName(name); err != nil {
				return err
			}
			db, err := a.db()
			if err != nil {
				return err
			}
			tag := &models.Tag{Name: name}
			if err := database.NewTagRepo(db).Add(cmd.Context(), tag); err != nil {
				return fmt.Errorf("create tag: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), tag.ID)
			return nil
		},
	}
	create.Flags().StringVar(&name, "name", "", "Tag name")
	_ = create.MarkFlagRequired("name")

	list := &cobra.Command{
		Use:   "list",
		Short: "List tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.db()
			if err != nil {
				return err
			}
			tags, err := database.NewTagRepo(db).FindAll(cmd.Context())
			if err != nil {
				return fmt.Errorf("list tags: %w", err)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME")
			for _, tag := range tags {
				fmt.Fprintf(w, "%s\t%s\n", tag.ID, tag.Name)
			}
			return w.Flush()
		},
	}

	remove := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a tag and remove it from every post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			db, err := a.db()
			if err != nil {
				return err
			}
			err = database.NewTagRepo(db).Delete(cmd.Context(), id)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("tag %s not found", id)
			}
			if err != nil {
				return fmt.Errorf("delete tag: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted tag %s\n", id)
			return nil
		},
	}

	cmd.AddCommand(create, list, remove)
	return cmd
}
