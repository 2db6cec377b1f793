// Command liftstore runs the LiftStore API and its maintenance tasks.
//
//	liftstore serve             # HTTP + gRPC health + in-process queue workers
//	liftstore migrate           # apply pending migrations
//	liftstore migrate:rollback  # undo the last batch
//	liftstore migrate:status
//	liftstore seed              # admin user + demo catalog
//	liftstore route:list
//	liftstore queue:work        # queue workers only
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	// Registers the schema migrations.
	_ "github.com/shashiranjanraj/liftstore/database/migrations"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "liftstore",
	Short:         "LiftStore CMS and shop backend",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)

	rootCmd.AddCommand(queueWorkCmd)
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
