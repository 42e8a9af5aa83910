package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/findingsd/internal/observability"
	"github.com/xkilldash9x/findingsd/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Consume parse jobs from the queue until interrupted.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		logger := observability.GetLogger()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		core, err := service.NewCore(ctx, &cfg, logger)
		if err != nil {
			return err
		}
		defer core.Close()

		transport, err := service.NewTransport(ctx, &cfg, core, logger)
		if err != nil {
			return err
		}
		defer transport.Close()

		err = transport.Subscriber.Listen(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("subscriber stopped: %w", err)
		}
		logger.Info("Shutdown complete", zap.String("reason", "signal"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
