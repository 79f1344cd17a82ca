package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/tair/foodgram/internal/config"
	"github.com/tair/foodgram/internal/recipe"
	reciperepo "github.com/tair/foodgram/internal/recipe/repository"
	"github.com/tair/foodgram/internal/user"
	userrepo "github.com/tair/foodgram/internal/user/repository"
	"github.com/tair/foodgram/pkg/database"
	"github.com/tair/foodgram/pkg/logger"
)

// RootOptions holds global flags for all commands
type RootOptions struct {
	EnvFile string
	Verbose bool
	JSON    bool
}

// Runtime is what commands operate on once connected
type Runtime struct {
	Users   *user.AdminCommands
	Recipes *recipe.AdminCommands
	Migrate func(ctx context.Context) error
	Close   func() error
}

// Connector opens a Runtime for the given options
type Connector func(ctx context.Context, opts *RootOptions) (*Runtime, error)

// NewRootCommand creates the foodgramctl root command
func NewRootCommand(connect Connector) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "foodgramctl",
		Short:         "Foodgram administration",
		Long:          "Runs migrations, imports reference data and manages accounts directly against the database.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if opts.Verbose {
				logger.SetLevel("debug")
			}
		},
	}

	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", ".env", "dotenv file to read before the environment")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().BoolVar(&opts.JSON, "json", false, "print results as JSON")

	cmd.AddCommand(newMigrateCommand(opts, connect))
	cmd.AddCommand(newLoadIngredientsCommand(opts, connect))
	cmd.AddCommand(newLoadTagsCommand(opts, connect))
	cmd.AddCommand(newCreateAdminCommand(opts, connect))
	cmd.AddCommand(newUserCommand(opts, connect))
	cmd.AddCommand(newStatsCommand(opts, connect))

	return cmd
}

// withRuntime connects, runs fn and releases the runtime
func withRuntime(cmd *cobra.Command, opts *RootOptions, connect Connector, fn func(ctx context.Context, rt *Runtime) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	rt, err := connect(ctx, opts)
	if err != nil {
		return err
	}
	if rt.Close != nil {
		defer rt.Close()
	}
	return fn(ctx, rt)
}

// printResult writes v as JSON or through the text formatter
func printResult(w io.Writer, opts *RootOptions, v any, text func(io.Writer)) error {
	if opts.JSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(w)
	return nil
}

// DatabaseConnector builds runtimes from the service configuration
func DatabaseConnector(ctx context.Context, opts *RootOptions) (*Runtime, error) {
	cfg, err := config.Load(opts.EnvFile)
	if err != nil {
		return nil, err
	}
	db, err := database.NewGormConnection(cfg.Database)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	users, err := user.InitializeAdminCommands(db)
	if err != nil {
		return nil, err
	}
	recipes, err := recipe.InitializeAdminCommands(db)
	if err != nil {
		return nil, err
	}
	return &Runtime{
		Users:   users,
		Recipes: recipes,
		Migrate: func(ctx context.Context) error { return migrate(db.WithContext(ctx)) },
		Close:   sqlDB.Close,
	}, nil
}

func migrate(db *gorm.DB) error {
	if err := userrepo.AutoMigrate(db); err != nil {
		return fmt.Errorf("user migrations: %w", err)
	}
	if err := reciperepo.AutoMigrate(db); err != nil {
		return fmt.Errorf("recipe migrations: %w", err)
	}
	return nil
}

func newMigrateCommand(opts *RootOptions, connect Connector) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRuntime(cmd, opts, connect, func(ctx context.Context, rt *Runtime) error {
				if err := rt.Migrate(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
				return nil
			})
		},
	}
}
