// Package adapters extracts tool-specific fields from a raw alert record
// into the canonical Finding. Each tool type has one fill function; the
// registry makes adapter selection total, with unknown tools falling through
// to a default that still yields a valid Finding.
package adapters

import (
	"github.com/xkilldash9x/findingsd/api/schemas"
	"github.com/xkilldash9x/findingsd/internal/rawrec"
)

// FillFunc populates the tool-specific fields of a Finding from a raw record.
type FillFunc func(f *schemas.Finding, rec rawrec.Record)

// registry is the closed strategy table keyed by tool type. Supporting a new
// tool means adding one entry here plus its fill function; the dispatcher
// never changes.
var registry = map[schemas.ToolType]FillFunc{
	schemas.ToolCodeScanning:   fillCodeScanning,
	schemas.ToolDependabot:     fillDependabot,
	schemas.ToolSecretScanning: fillSecretScanning,
}

// Fill dispatches to the adapter registered for the tool type. Unknown tool
// types get the default fill.
func Fill(tool schemas.ToolType, f *schemas.Finding, rec rawrec.Record) {
	fill, ok := registry[tool]
	if !ok {
		fill = fillUnknown
	}
	fill(f, rec)
}

// fillUnknown produces a valid, if uninformative, Finding for tools the
// registry does not know.
func fillUnknown(f *schemas.Finding, _ rawrec.Record) {
	f.Severity = schemas.SeverityMedium
	f.Title = "Unknown Alert"
	f.Description = ""
	f.CVE = ""
	f.CWE = ""
	f.CVSS = ""
	f.Location = ""
}
