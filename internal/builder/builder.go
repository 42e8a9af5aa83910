// Package builder turns raw alert records into canonical Findings: common
// field extraction, state normalization, adapter dispatch, and batch context
// merging.
package builder

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/xkilldash9x/findingsd/api/schemas"
	"github.com/xkilldash9x/findingsd/internal/adapters"
	"github.com/xkilldash9x/findingsd/internal/normalize"
	"github.com/xkilldash9x/findingsd/internal/rawrec"
)

// Sentinels used when the owner/repo derivation cannot parse the source path.
const (
	UnknownOwner = "unknownOwner"
	UnknownRepo  = "unknownRepo"
)

// BatchContext carries the per-batch values merged into every Finding's
// additional data.
type BatchContext struct {
	TenantID int64
	Owner    string
	Repo     string
}

// Build constructs a canonical Finding from one raw record. It always
// succeeds: missing fields degrade to blanks and unknown tool types fall
// through to the default adapter. The Finding carries a freshly generated id;
// the reconciler may later replace it.
func Build(tool schemas.ToolType, rec rawrec.Record, bctx BatchContext) schemas.Finding {
	f := schemas.Finding{
		ID:          uuid.NewString(),
		ToolType:    tool,
		AlertNumber: rec.String("number"),
		CreatedAt:   rec.String("created_at"),
		UpdatedAt:   rec.String("updated_at"),
		URL:         rec.String("html_url"),
	}

	f.State = normalize.State(rec.String("state"), tool, rec.String("dismissed_reason"))

	adapters.Fill(tool, &f, rec)

	f.AdditionalData = map[string]any{
		"tenantId": bctx.TenantID,
		"owner":    bctx.Owner,
		"repo":     bctx.Repo,
	}
	return f
}

// OwnerRepoFromPath derives owner and repo from a batch file path. Exports
// are laid out as <root>/<prefix>_<owner>-<repo>/<tool>/<file>, so the
// grandparent segment of the file carries the repository identity: strip
// everything up to and including the first underscore, then split on the
// last dash. The derivation is best-effort context only and never fails.
func OwnerRepoFromPath(path string) (owner, repo string) {
	segment := filepath.Base(filepath.Dir(filepath.Dir(path)))
	if idx := strings.Index(segment, "_"); idx >= 0 {
		segment = segment[idx+1:]
	}
	dash := strings.LastIndex(segment, "-")
	if dash < 0 {
		return UnknownOwner, UnknownRepo
	}
	return segment[:dash], segment[dash+1:]
}

// ToolTypeFromPath deduces the tool type from a batch file path, for callers
// that do not carry an explicit tool type.
func ToolTypeFromPath(path string) schemas.ToolType {
	lower := strings.ToLower(path)
	switch {
	case strings.Contains(lower, "code_scanning"):
		return schemas.ToolCodeScanning
	case strings.Contains(lower, "dependabot"):
		return schemas.ToolDependabot
	case strings.Contains(lower, "secret_scanning"):
		return schemas.ToolSecretScanning
	default:
		return schemas.ToolUnknown
	}
}
