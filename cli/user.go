package cli

import (
	"fmt"

	"github.com/rpupo63/blog-backend/auth"
	"github.com/rpupo63/blog-backend/database"
	"github.com/spf13/cobra"
)

func newUserCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}

	var (
		username string
		password string
		reg      auth.Registration
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a user account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.db()
			if err != nil {
				return err
			}
			reg.Username = &username
			reg.Password = &password
			user, err := auth.Register(cmd.Context(), database.NewUserRepo(db), reg)
			if err != nil {
				return withFieldErrors(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), user.ID)
			return nil
		},
	}
	create.Flags().StringVar(&username, "username", "", "Login name")
	create.Flags().StringVar(&password, "password", "", "Password, at least 8 characters")
	create.Flags().StringVar(&reg.Email, "email", "", "Email address")
	create.Flags().StringVar(&reg.FirstName, "first-name", "", "First name")
	create.Flags().StringVar(&reg.LastName, "last-name", "", "Last name")
	_ = create.MarkFlagRequired("username")
	_ = create.MarkFlagRequired("password")

	remove := &cobra.Command{
		Use:   "delete USERNAME",
		Short: "Delete a user and everything they wrote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.db()
			if err != nil {
				return err
			}
			users := database.NewUserRepo(db)
			user, err := users.FindByUsername(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("find user: %w", err)
			}
			if user == nil {
				return fmt.Errorf("user %q not found", args[0])
			}
			if err := users.Delete(cmd.Context(), user.ID); err != nil {
				return fmt.Errorf("delete user: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted user %s\n", user.Username)
			return nil
		},
	}

	cmd.AddCommand(create, remove)
	return cmd
}
