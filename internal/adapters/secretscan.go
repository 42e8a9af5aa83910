package adapters

import (
	"strings"

	"github.com/xkilldash9x/findingsd/api/schemas"
	"github.com/xkilldash9x/findingsd/internal/rawrec"
)

// maskedSecretLimit is how many leading characters of a detected secret may
// appear in the finding description. The remainder is always elided; the
// full secret value must never reach the store or the logs.
const maskedSecretLimit = 8

// fillSecretScanning extracts fields from a secret-scanning alert. Severity
// is not reported by the tool, so it is derived: a secret known to be
// publicly leaked is critical, anything else high.
func fillSecretScanning(f *schemas.Finding, rec rawrec.Record) {
	publiclyLeaked := rec.Bool("publicly_leaked")
	if publiclyLeaked {
		f.Severity = schemas.SeverityCritical
	} else {
		f.Severity = schemas.SeverityHigh
	}

	displayName := rec.String("secret_type_display_name")
	if displayName == "" {
		displayName = rec.String("secret_type")
	}
	f.Title = "Secret Scanning Alert: " + displayName

	var desc strings.Builder
	desc.WriteString("Secret Type: " + rec.String("secret_type"))
	desc.WriteString("; Validity: " + rec.String("validity"))
	desc.WriteString("; Publicly Leaked: " + rawrec.Stringify(publiclyLeaked))
	desc.WriteString("; Push Protection Bypassed: " + rawrec.Stringify(rec.Bool("push_protection_bypassed")))
	if resolution := rec.String("resolution"); resolution != "" {
		desc.WriteString("; Resolution: " + resolution)
	}
	if masked := maskSecret(rec.String("secret")); masked != "" {
		desc.WriteString("; Secret (masked): " + masked)
	}
	f.Description = desc.String()

	f.Location = rec.String("locations_url")
	f.CVE = ""
	f.CWE = ""
	f.CVSS = ""
}

// maskSecret truncates a raw secret to its first few characters and appends
// an elision marker. Empty input stays empty.
func maskSecret(raw string) string {
	if raw == "" {
		return ""
	}
	if len(raw) > maskedSecretLimit {
		raw = raw[:maskedSecretLimit]
	}
	return raw + "...(masked)"
}
