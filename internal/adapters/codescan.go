package adapters

import (
	"strings"

	"github.com/xkilldash9x/findingsd/api/schemas"
	"github.com/xkilldash9x/findingsd/internal/normalize"
	"github.com/xkilldash9x/findingsd/internal/rawrec"
)

// fillCodeScanning extracts fields from a code-scanning alert. The security
// severity is preferred over the plain rule severity, which only encodes
// error/warning/note.
func fillCodeScanning(f *schemas.Finding, rec rawrec.Record) {
	rawSeverity := rec.String("rule", "security_severity_level")
	if rawSeverity == "" {
		rawSeverity = rec.String("rule", "severity")
	}
	f.Severity = normalize.Severity(rawSeverity)
	f.Title = rec.String("rule", "description")
	f.Description = rec.String("rule", "full_description")
	f.Location = rec.String("most_recent_instance", "location", "path")
	f.CWE = cweFromTags(rec.List("rule", "tags"))
	f.CVE = ""
	f.CVSS = ""
}

// cweFromTags collects every rule tag carrying a CWE reference. Tags look
// like "external/cwe/cwe-089"; everything from "cwe-" onward is kept,
// uppercased, and comma-joined.
func cweFromTags(tags []any) string {
	var cwes []string
	for _, item := range tags {
		tag, ok := item.(string)
		if !ok {
			continue
		}
		lower := strings.ToLower(tag)
		if idx := strings.Index(lower, "cwe-"); idx >= 0 {
			cwes = append(cwes, strings.ToUpper(lower[idx:]))
		}
	}
	return strings.Join(cwes, ", ")
}
