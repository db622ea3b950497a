package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/garnizeh/portfolio/internal/auth"
	"github.com/garnizeh/portfolio/internal/repository/sqlite"
)

var (
	operatorEmail    string
	operatorPassword string
)

var operatorCmd = &cobra.Command{
	Use:   "operator",
	Short: "Manage dashboard operator accounts",
}

// withProvider opens the migrated database and hands an auth provider to fn.
func withProvider(ctx context.Context, fn func(*auth.Provider) error) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	database, err := openDB(ctx, cfg, logger, true)
	if err != nil {
		return err
	}
	defer database.Close()

	repo := sqlite.New(database, logger)
	return fn(auth.NewProvider(repo, auth.Options{
		Secret:        cfg.JWTSecret,
		TokenDuration: cfg.TokenDuration,
		Logger:        logger,
	}))
}

var operatorAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create an operator account",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withProvider(cmd.Context(), func(p *auth.Provider) error {
			id, err := p.Register(cmd.Context(), operatorEmail, operatorPassword)
			if err != nil {
				return fmt.Errorf("add operator: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Operator %s created (id %d).\n", operatorEmail, id)
			return nil
		})
	},
}

func setDisabledCmd(use, short string, disabled bool) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProvider(cmd.Context(), func(p *auth.Provider) error {
				if err := p.SetDisabled(cmd.Context(), operatorEmail, disabled); err != nil {
					return fmt.Errorf("%s operator: %w", use, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Operator %s %sd.\n", operatorEmail, use)
				return nil
			})
		},
	}
}

func init() {
	operatorAddCmd.Flags().StringVar(&operatorEmail, "email", "", "operator email")
	operatorAddCmd.Flags().StringVar(&operatorPassword, "password", "", "operator password (at least 8 characters)")
	_ = operatorAddCmd.MarkFlagRequired("email")
	_ = operatorAddCmd.MarkFlagRequired("password")
	operatorCmd.AddCommand(operatorAddCmd)

	for _, c := range []*cobra.Command{
		setDisabledCmd("disable", "Block an operator from signing in", true),
		setDisabledCmd("enable", "Allow a disabled operator to sign in again", false),
	} {
		c.Flags().StringVar(&operatorEmail, "email", "", "operator email")
		_ = c.MarkFlagRequired("email")
		operatorCmd.AddCommand(c)
	}

	rootCmd.AddCommand(operatorCmd)
}
