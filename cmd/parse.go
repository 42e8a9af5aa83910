package cmd

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/findingsd/api/schemas"
	"github.com/xkilldash9x/findingsd/internal/builder"
	"github.com/xkilldash9x/findingsd/internal/observability"
	"github.com/xkilldash9x/findingsd/internal/pipeline"
	"github.com/xkilldash9x/findingsd/internal/service"
)

var (
	parseTenantID int64
	parseFile     string
	parseTool     string
)

// logAckSink satisfies the acknowledgement collaborator for local one-shot
// runs, where there is no queue to publish to.
type logAckSink struct {
	log *zap.Logger
}

func (s logAckSink) SendAck(_ context.Context, correlationID string, success bool) error {
	s.log.Info("Batch acknowledgement",
		zap.String("jobId", correlationID),
		zap.Bool("success", success))
	return nil
}

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse one local alert batch file and reconcile it into the store.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		logger := observability.GetLogger()

		tool := schemas.ToolType(parseTool)
		if parseTool == "" {
			tool = builder.ToolTypeFromPath(parseFile)
		}

		core, err := service.NewCore(cmd.Context(), &cfg, logger)
		if err != nil {
			return err
		}
		defer core.Close()

		driver, err := pipeline.New(core.Reconciler, logAckSink{log: logger}, logger)
		if err != nil {
			return err
		}

		outcome := driver.Run(cmd.Context(), schemas.ParseJobEvent{
			EventID: uuid.NewString(),
			Type:    schemas.EventScanParse,
			Payload: schemas.ParseJob{
				TenantID:   parseTenantID,
				SourcePath: parseFile,
				ToolType:   tool,
			},
		})
		if !outcome.Succeeded {
			return fmt.Errorf("batch failed after %d records", outcome.Processed)
		}

		logger.Info("Batch succeeded",
			zap.Int("processed", outcome.Processed),
			zap.Int("inserted", outcome.Inserted),
			zap.Int("updated", outcome.Updated),
			zap.Int("skipped", outcome.Skipped))
		return nil
	},
}

func init() {
	parseCmd.Flags().Int64Var(&parseTenantID, "tenant", 0, "tenant id the batch belongs to")
	parseCmd.Flags().StringVar(&parseFile, "file", "", "path to the alert batch JSON file")
	parseCmd.Flags().StringVar(&parseTool, "tool", "", "tool type (CODE_SCANNING, DEPENDABOT, SECRET_SCANNING); deduced from the path when omitted")
	_ = parseCmd.MarkFlagRequired("tenant")
	_ = parseCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(parseCmd)
}
