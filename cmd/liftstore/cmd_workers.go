package main

import (
	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/liftstore/config"
	"github.com/shashiranjanraj/liftstore/internal/server"
	"github.com/shashiranjanraj/liftstore/pkg/database"
	"github.com/shashiranjanraj/liftstore/pkg/logger"
)

var queueWorkersFlag int

var queueWorkCmd = &cobra.Command{
	Use:   "queue:work",
	Short: "Process queued jobs until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext(cmd.Context())
		defer stop()

		release, err := server.Boot(ctx)
		if err != nil {
			return err
		}
		defer release()

		workers := queueWorkersFlag
		if workers < 1 {
			workers = config.QueueWorkers()
		}
		if config.QueueDriver() != "redis" {
			logger.Warn("queue:work with the memory driver only sees jobs dispatched by this process")
		}

		q := server.NewQueue(database.DB)
		q.Start(ctx, workers)
		logger.Info("queue: workers started", "workers", workers, "driver", config.QueueDriver())

		<-ctx.Done()
		q.Wait()
		logger.Info("queue: workers stopped")
		return nil
	},
}

func init() {
	queueWorkCmd.Flags().IntVarP(&queueWorkersFlag, "workers", "w", 0, "number of concurrent workers (default QUEUE_WORKERS)")
}
