package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/rpupo63/blog-backend/config"
	"github.com/rpupo63/blog-backend/database"
	"github.com/rpupo63/blog-backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// openDB connects to the configured store. Tests swap it for an in-memory database.
var openDB = func(c map[string]string) (*gorm.DB, error) {
	return database.Open(database.OptionsFromConfig(c), log.Logger)
}

// loadConfig snapshots the environment. Tests swap it for a fixed map.
var loadConfig = func() map[string]string {
	return config.Load()
}

// app carries what the root command resolved for its subcommands.
type app struct {
	config map[string]string
}

func (a *app) db() (*gorm.DB, error) {
	db, err := openDB(a.config)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

// NewRootCommand builds the blog command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "blog",
		Short: "Blog backend server and admin tools",
		Long: `Runs the blog HTTP API and the administrative tasks around it.
Categories, tags and accounts are managed from here.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.config = loadConfig()
			configureLogging(a.config)

			if !config.NeedsParameterStore(a.config) {
				return nil
			}
			store, err := config.NewParameterStore(cmd.Context())
			if err != nil {
				return err
			}
			return config.ResolveSecrets(cmd.Context(), a.config, store)
		},
	}

	root.AddCommand(newServeCommand(a))
	root.AddCommand(newMigrateCommand(a))
	root.AddCommand(newGenerateCommand(a))
	root.AddCommand(newSchemaReportCommand(a))
	root.AddCommand(newCategoryCommand(a))
	root.AddCommand(newTagCommand(a))
	root.AddCommand(newUserCommand(a))

	return root
}

func Execute() {
	if err := NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// configureLogging sets the global zerolog level and output from LOG_LEVEL
// and LOG_FORMAT.
func configureLogging(c map[string]string) {
	level, err := zerolog.ParseLevel(strings.ToLower(config.GetString(c, "LOG_LEVEL", "info")))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if strings.EqualFold(config.GetString(c, "LOG_FORMAT", "json"), "console") {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		return
	}
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
}

// withFieldErrors appends the per-field messages of a validation error so
// they reach the terminal.
func withFieldErrors(err error) error {
	var apiErr *errs.ApiErr
	if !errors.As(err, &apiErr) || len(apiErr.Fields) == 0 {
		return err
	}

	keys := make([]string, 0, len(apiErr.Fields))
	for key := range apiErr.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", key, strings.Join(apiErr.Fields[key], " ")))
	}
	return fmt.Errorf("%w: %s", err, strings.Join(parts, "; "))
}
