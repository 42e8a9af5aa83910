package adapters

import (
	"github.com/xkilldash9x/findingsd/api/schemas"
	"github.com/xkilldash9x/findingsd/internal/normalize"
	"github.com/xkilldash9x/findingsd/internal/rawrec"
)

// fillDependabot extracts fields from a dependency alert. Most of the
// interesting data lives under the attached security advisory.
func fillDependabot(f *schemas.Finding, rec rawrec.Record) {
	f.Severity = normalize.Severity(rec.String("security_advisory", "severity"))
	f.CVE = rec.String("security_advisory", "cve_id")
	f.Title = rec.String("security_advisory", "summary")
	f.Description = rec.String("security_advisory", "description")
	f.CWE = firstCWE(rec.List("security_advisory", "cwes"))
	f.CVSS = rec.String("security_advisory", "cvss", "score")

	// The manifest path pinpoints the vulnerable declaration; fall back to
	// the bare package name when the export omits it.
	location := rec.String("dependency", "manifest_path")
	if location == "" {
		location = rec.String("dependency", "package", "name")
	}
	f.Location = location
}

// firstCWE reads the cwe_id of the first advisory CWE entry, if any.
func firstCWE(cwes []any) string {
	if len(cwes) == 0 {
		return ""
	}
	entry, ok := cwes[0].(map[string]any)
	if !ok {
		return ""
	}
	return rawrec.Stringify(entry["cwe_id"])
}
