// Package normalize maps the raw, tool-specific severity and lifecycle-state
// vocabularies onto the canonical enumerations. Both functions are pure and
// total: unrecognized input degrades to a documented default, never an error.
package normalize

import (
	"strings"

	"github.com/xkilldash9x/findingsd/api/schemas"
)

// Severity maps a raw severity string onto the canonical scale.
// Empty or unrecognized input defaults to MEDIUM.
func Severity(raw string) schemas.Severity {
	switch strings.ToLower(raw) {
	case "critical", "severe":
		return schemas.SeverityCritical
	case "high", "important", "error":
		// Code scanning reports plain rule severity as "error".
		return schemas.SeverityHigh
	case "medium", "moderate":
		return schemas.SeverityMedium
	case "low", "minor":
		return schemas.SeverityLow
	case "info", "informational", "notice":
		return schemas.SeverityInfo
	default:
		return schemas.SeverityMedium
	}
}

// State maps a raw lifecycle state onto the canonical enumeration.
//
// "dismissed" is the one state whose meaning depends on context: the tools
// encode *why* an alert was dismissed in a free-text reason, and only that
// reason distinguishes a false positive from a deliberate suppression.
// Empty input and unrecognized states default to OPEN.
func State(raw string, tool schemas.ToolType, dismissedReason string) schemas.AlertState {
	if raw == "" {
		return schemas.StateOpen
	}
	state := strings.ReplaceAll(strings.ToLower(raw), "_", " ")

	switch state {
	case "open", "new":
		return schemas.StateOpen
	case "fixed", "resolved":
		return schemas.StateFixed
	case "confirm", "acknowledged":
		return schemas.StateConfirm
	case "dismissed":
		return dismissedState(tool, dismissedReason)
	default:
		return schemas.StateOpen
	}
}

func dismissedState(tool schemas.ToolType, reason string) schemas.AlertState {
	reason = strings.ToLower(reason)
	switch tool {
	case schemas.ToolCodeScanning, schemas.ToolSecretScanning:
		// e.g. "false positive", "used in tests", "won't fix"
		if strings.Contains(reason, "false positive") || strings.Contains(reason, "inaccurate") {
			return schemas.StateFalsePositive
		}
		return schemas.StateSuppressed
	case schemas.ToolDependabot:
		// e.g. "inaccurate", "fix_started", "no_bandwidth"
		if strings.Contains(reason, "inaccurate") || strings.Contains(reason, "false positive") {
			return schemas.StateFalsePositive
		}
		return schemas.StateSuppressed
	default:
		return schemas.StateSuppressed
	}
}
