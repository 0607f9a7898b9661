package main

import (
	"errors"
	"fmt"

	"github.com/hugh/go-taskboard/internal/api/validation"
	"github.com/hugh/go-taskboard/internal/auth"
	"github.com/hugh/go-taskboard/internal/database"
	"github.com/hugh/go-taskboard/internal/store"
	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
}

var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password <username-or-email> <new-password>",
	Short: "Replace a user's password",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		login, password := args[0], args[1]
		if ok, msg := validation.IsValidPassword(password); !ok {
			return errors.New(msg)
		}

		e, err := loadEnv()
		if err != nil {
			return err
		}

		db, err := e.connect()
		if err != nil {
			return err
		}
		defer database.Close(db)

		jwtService := auth.NewJWTService(e.cfg.JWT.Secret, e.cfg.JWT.Expiry()).WithIssuer(e.cfg.JWT.Issuer)
		svc := auth.NewService(store.New(db), jwtService, auth.NewRevoker(nil), e.logger)
		if err := svc.ResetPassword(cmd.Context(), login, password); err != nil {
			if errors.Is(err, auth.ErrUserNotFound) {
				return fmt.Errorf("no user %q", login)
			}
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "password updated for %s\n", login)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(resetPasswordCmd)
}
