package schemas

// -- Finding Schemas --

// Severity is the canonical severity vocabulary every tool's raw severity is
// mapped onto. Values are uppercase to match the stored document format.
type Severity string

// Canonical severity levels, ordered from most to least urgent.
const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
	SeverityInfo     Severity = "INFORMATIONAL"
)

// AlertState is the canonical lifecycle state of a finding.
type AlertState string

// Canonical lifecycle states.
const (
	StateOpen          AlertState = "OPEN"
	StateFalsePositive AlertState = "FALSE_POSITIVE"
	StateSuppressed    AlertState = "SUPPRESSED"
	StateFixed         AlertState = "FIXED"
	StateConfirm       AlertState = "CONFIRM"
)

// ToolType identifies the scanner category a raw alert originated from.
type ToolType string

// Known tool types. Anything else falls through to the default adapter.
const (
	ToolCodeScanning   ToolType = "CODE_SCANNING"
	ToolDependabot     ToolType = "DEPENDABOT"
	ToolSecretScanning ToolType = "SECRET_SCANNING"
	ToolUnknown        ToolType = "UNKNOWN_TOOL"
)

// Finding is the canonical normalized representation of one security alert.
// It is the unit of storage and of reconciliation. Fingerprints are always
// recomputed from these fields and never persisted alongside them.
type Finding struct {
	// ID is the storage-layer document identifier. A fresh UUID is assigned
	// at construction time; the reconciler overwrites it with the matched
	// existing document's ID before an update.
	ID string `json:"id"`

	ToolType    ToolType `json:"toolType"`
	AlertNumber string   `json:"alertNumber"` // tool-native identifier, stringified, may be empty
	Title       string   `json:"title"`

	Severity  Severity   `json:"severity"`
	State     AlertState `json:"state"`
	UpdatedAt string     `json:"updatedAt"` // tool-native timestamp format, treated as opaque

	Description string `json:"description"`
	CreatedAt   string `json:"createdAt"`
	URL         string `json:"url"`
	CVE         string `json:"cve"`
	CWE         string `json:"cwe"`
	CVSS        string `json:"cvss"`
	Location    string `json:"location"`
	TicketID    string `json:"ticketId,omitempty"`

	// AdditionalData carries free-form batch context (tenant id, parsed
	// owner and repo). It participates in neither fingerprint.
	AdditionalData map[string]any `json:"additionalData,omitempty"`
}
