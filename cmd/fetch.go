package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/findingsd/internal/ghexport"
	"github.com/xkilldash9x/findingsd/internal/observability"
)

var (
	fetchOwner    string
	fetchRepo     string
	fetchTenantID int64
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download a repository's security alerts from GitHub into the batch layout.",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := observability.GetLogger()

		fetcher := ghexport.New(cfg.GitHub.Token, logger)
		dir, err := fetcher.Export(cmd.Context(), fetchOwner, fetchRepo, fetchTenantID, cfg.GitHub.ExportRoot)
		if err != nil {
			return err
		}

		logger.Info("Export complete", zap.String("dir", dir))
		return nil
	},
}

func init() {
	fetchCmd.Flags().StringVar(&fetchOwner, "owner", "", "repository owner")
	fetchCmd.Flags().StringVar(&fetchRepo, "repo", "", "repository name")
	fetchCmd.Flags().Int64Var(&fetchTenantID, "tenant", 0, "tenant id the export belongs to")
	_ = fetchCmd.MarkFlagRequired("owner")
	_ = fetchCmd.MarkFlagRequired("repo")
	_ = fetchCmd.MarkFlagRequired("tenant")
	rootCmd.AddCommand(fetchCmd)
}
