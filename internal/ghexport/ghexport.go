// Package ghexport pulls security alerts from the GitHub API and writes them
// as batch files in the directory layout the pipeline consumes:
// <root>/t<tenant>_<owner>-<repo>/<tool_dir>/alerts.json.
package ghexport

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/go-github/v58/github"
	json "github.com/json-iterator/go"
	"go.uber.org/zap"
)

// Directory names per tool; the pipeline's owner/repo and tool-type path
// derivations both key off this layout.
const (
	codeScanningDir   = "code_scanning"
	dependabotDir     = "dependabot"
	secretScanningDir = "secret_scanning"
)

// Fetcher downloads alert exports for one repository at a time.
type Fetcher struct {
	gh  *github.Client
	log *zap.Logger
}

// New creates a fetcher. An empty token means unauthenticated requests,
// which only work against public repositories and tight rate limits.
func New(token string, logger *zap.Logger) *Fetcher {
	client := github.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{gh: client, log: logger.Named("ghexport")}
}

// Export fetches code-scanning, dependabot and secret-scanning alerts for
// the repository and writes one batch file per tool under root. It returns
// the directory the batches were written to.
func (f *Fetcher) Export(ctx context.Context, owner, repo string, tenantID int64, root string) (string, error) {
	if owner == "" || repo == "" {
		return "", fmt.Errorf("owner and repo are required")
	}
	repoDir := filepath.Join(root, fmt.Sprintf("t%d_%s-%s", tenantID, owner, repo))

	codeAlerts, _, err := f.gh.CodeScanning.ListAlertsForRepo(ctx, owner, repo,
		&github.AlertListOptions{ListOptions: github.ListOptions{PerPage: 100}})
	if err != nil {
		return "", fmt.Errorf("failed to list code scanning alerts: %w", err)
	}
	if err := f.writeBatch(repoDir, codeScanningDir, codeAlerts); err != nil {
		return "", err
	}

	depAlerts, _, err := f.gh.Dependabot.ListRepoAlerts(ctx, owner, repo, &github.ListAlertsOptions{})
	if err != nil {
		return "", fmt.Errorf("failed to list dependabot alerts: %w", err)
	}
	if err := f.writeBatch(repoDir, dependabotDir, depAlerts); err != nil {
		return "", err
	}

	secretAlerts, _, err := f.gh.SecretScanning.ListAlertsForRepo(ctx, owner, repo,
		&github.SecretScanningAlertListOptions{})
	if err != nil {
		return "", fmt.Errorf("failed to list secret scanning alerts: %w", err)
	}
	if err := f.writeBatch(repoDir, secretScanningDir, secretAlerts); err != nil {
		return "", err
	}

	f.log.Info("Exported alert batches",
		zap.String("dir", repoDir),
		zap.Int("codeScanning", len(codeAlerts)),
		zap.Int("dependabot", len(depAlerts)),
		zap.Int("secretScanning", len(secretAlerts)))
	return repoDir, nil
}

func (f *Fetcher) writeBatch(repoDir, toolDir string, alerts any) error {
	dir := filepath.Join(repoDir, toolDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	data, err := json.MarshalIndent(alerts, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s alerts: %w", toolDir, err)
	}
	path := filepath.Join(dir, "alerts.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
