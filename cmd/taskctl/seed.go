package main

import (
	"fmt"

	"github.com/hugh/go-taskboard/internal/database"
	"github.com/hugh/go-taskboard/internal/seed"
	"github.com/hugh/go-taskboard/internal/store"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create demo users, a project, a board and tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}

		db, err := e.connect()
		if err != nil {
			return err
		}
		defer database.Close(db)

		res, err := seed.Run(cmd.Context(), store.New(db), e.logger)
		if err != nil {
			return err
		}
		if res.Skipped {
			fmt.Fprintln(cmd.OutOrStdout(), "demo data already present")
			return nil
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Seeded project %q (%s)\n", res.Project.Name, res.Project.ID)
		for _, u := range res.Users {
			fmt.Fprintf(out, "  user %-6s password %s\n", u.Username, seed.DemoPassword)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
