package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tair/foodgram/internal/user/domain"
	"github.com/tair/foodgram/internal/user/usecase/command"
	"github.com/tair/foodgram/internal/user/usecase/query"
)

// account is the CLI view of a user; the API hides role and status
type account struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

func printAccount(cmd *cobra.Command, opts *RootOptions, u *domain.User) error {
	a := account{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role, IsActive: u.IsActive}
	return printResult(cmd.OutOrStdout(), opts, a, func(w io.Writer) {
		fmt.Fprintf(w, "%s (id=%d, role=%s, active=%t)\n", a.Username, a.ID, a.Role, a.IsActive)
	})
}

func newCreateAdminCommand(opts *RootOptions, connect Connector) *cobra.Command {
	var in command.RegisterUserCommand

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in.Role = domain.RoleAdmin
			return withRuntime(cmd, opts, connect, func(ctx context.Context, rt *Runtime) error {
				u, err := rt.Users.Register.Handle(ctx, in)
				if err != nil {
					return err
				}
				return printAccount(cmd, opts, u)
			})
		},
	}

	cmd.Flags().StringVar(&in.Username, "username", "", "login name")
	cmd.Flags().StringVar(&in.Email, "email", "", "email address")
	cmd.Flags().StringVar(&in.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&in.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&in.Password, "password", "", "password")
	for _, f := range []string{"username", "email", "first-name", "last-name", "password"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func newUserCommand(opts *RootOptions, connect Connector) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set-role <username> <user|admin>",
		Short: "Change an account's role",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, opts, connect, func(ctx context.Context, rt *Runtime) error {
				u, err := rt.Users.ChangeRole.Handle(ctx, command.ChangeRoleCommand{Username: args[0], Role: args[1]})
				if err != nil {
					return err
				}
				return printAccount(cmd, opts, u)
			})
		},
	})

	for _, active := range []bool{true, false} {
		use, short := "activate <username>", "Allow an account to log in"
		if !active {
			use, short = "deactivate <username>", "Block an account from logging in"
		}
		active := active
		cmd.AddCommand(&cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withRuntime(cmd, opts, connect, func(ctx context.Context, rt *Runtime) error {
					u, err := rt.Users.ToggleActive.Handle(ctx, command.ToggleActiveCommand{Username: args[0], IsActive: active})
					if err != nil {
						return err
					}
					return printAccount(cmd, opts, u)
				})
			},
		})
	}
	return cmd
}

func newStatsCommand(opts *RootOptions, connect Connector) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show account counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRuntime(cmd, opts, connect, func(ctx context.Context, rt *Runtime) error {
				stats, err := rt.Users.Stats.Handle(ctx, query.GetStatsQuery{})
				if err != nil {
					return err
				}
				return printResult(cmd.OutOrStdout(), opts, stats, func(w io.Writer) {
					fmt.Fprintf(w, "users: %d (admins: %d, regular: %d)\n", stats.TotalUsers, stats.AdminCount, stats.UserCount)
				})
			})
		},
	}
}
