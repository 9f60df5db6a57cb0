package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"memoir/internal/config"
	"memoir/internal/identity"
	"memoir/internal/store"
)

func newUserCommand(ctx *commandContext) *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Account administration",
	}

	userCmd.AddCommand(newUserAddCommand(ctx))
	userCmd.AddCommand(newUserListCommand(ctx))

	return userCmd
}

func newUserAddCommand(ctx *commandContext) *cobra.Command {
	var email string
	var password string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				provider, err := identity.NewProvider(cfg, st)
				if err != nil {
					return err
				}
				ident, err := provider.Register(cmd.Context(), email, password)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created account %s (%s)\n", ident.Email, ident.OwnerID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email address")
	cmd.Flags().StringVar(&password, "password", "", "Account password (min 8 characters)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newUserListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, st *store.Store) error {
				users, err := st.ListUsers(cmd.Context())
				if err != nil {
					return err
				}
				if len(users) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No accounts registered")
					return nil
				}

				rows := make([][]string, 0, len(users))
				for _, user := range users {
					rows = append(rows, []string{
						user.ID,
						user.Email,
						user.CreatedAt.Local().Format(time.RFC3339),
					})
				}
				renderTable(cmd.OutOrStdout(), []string{"ID", "EMAIL", "CREATED"}, rows)
				return nil
			})
		},
	}
}
