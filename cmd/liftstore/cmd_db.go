package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/liftstore/config"
	"github.com/shashiranjanraj/liftstore/database/seeders"
	"github.com/shashiranjanraj/liftstore/pkg/database"
	"github.com/shashiranjanraj/liftstore/pkg/migration"
)

// bootDB loads config and opens the database connection.
func bootDB() error {
	if err := config.Load(); err != nil {
		return err
	}
	return database.Connect()
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close()

		n, err := migration.New(database.DB, cmd.OutOrStdout()).Run()
		if err != nil {
			return err
		}
		if n == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing to migrate.")
		}
		return nil
	},
}

var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Roll back the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close()

		n, err := migration.New(database.DB, cmd.OutOrStdout()).Rollback()
		if err != nil {
			return err
		}
		if n == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing to roll back.")
		}
		return nil
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close()

		rows, err := migration.New(database.DB, cmd.OutOrStdout()).Status()
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "RAN\tBATCH\tMIGRATION")
		for _, r := range rows {
			ran, batch := "no", "-"
			if r.Ran {
				ran, batch = "yes", fmt.Sprint(r.Batch)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", ran, batch, r.Name)
		}
		return w.Flush()
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the admin user and the demo catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close()
		return seeders.RunAll(cmd.Context(), database.DB, cmd.OutOrStdout())
	},
}
