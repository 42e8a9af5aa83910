package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xkilldash9x/findingsd/api/schemas"
)

func TestIdentity(t *testing.T) {
	var policy Policy
	base := schemas.Finding{
		AlertNumber: "42",
		Title:       "SQL Injection",
		Severity:    schemas.SeverityHigh,
		State:       schemas.StateOpen,
		UpdatedAt:   "2025-01-02T00:00:00Z",
		Location:    "app/db.go",
	}

	t.Run("should depend only on alert number and title", func(t *testing.T) {
		other := base
		other.ID = "different"
		other.Severity = schemas.SeverityLow
		other.State = schemas.StateFixed
		other.UpdatedAt = "2030-01-01T00:00:00Z"
		other.Location = "elsewhere.go"
		other.Description = "changed"
		assert.Equal(t, policy.Identity(base), policy.Identity(other))
	})

	t.Run("should change when either identity field changes", func(t *testing.T) {
		renumbered := base
		renumbered.AlertNumber = "43"
		assert.NotEqual(t, policy.Identity(base), policy.Identity(renumbered))

		retitled := base
		retitled.Title = "XSS"
		assert.NotEqual(t, policy.Identity(base), policy.Identity(retitled))
	})

	t.Run("should substitute empty strings for absent fields", func(t *testing.T) {
		assert.NotEmpty(t, policy.Identity(schemas.Finding{}))
	})

	t.Run("location participates only under the location policy", func(t *testing.T) {
		moved := base
		moved.Location = "elsewhere.go"

		assert.Equal(t, policy.Identity(base), policy.Identity(moved))

		withLocation := Policy{IncludeLocation: true}
		assert.NotEqual(t, withLocation.Identity(base), withLocation.Identity(moved))
	})
}

func TestMutableState(t *testing.T) {
	base := schemas.Finding{
		Severity:  schemas.SeverityHigh,
		State:     schemas.StateOpen,
		UpdatedAt: "2025-01-02T00:00:00Z",
	}

	t.Run("should ignore identity and descriptive fields", func(t *testing.T) {
		other := base
		other.AlertNumber = "99"
		other.Title = "anything"
		other.Description = "anything else"
		assert.Equal(t, MutableState(base), MutableState(other))
	})

	t.Run("should change with severity, state, or update time", func(t *testing.T) {
		severer := base
		severer.Severity = schemas.SeverityCritical
		assert.NotEqual(t, MutableState(base), MutableState(severer))

		fixed := base
		fixed.State = schemas.StateFixed
		assert.NotEqual(t, MutableState(base), MutableState(fixed))

		touched := base
		touched.UpdatedAt = "2025-01-03T00:00:00Z"
		assert.NotEqual(t, MutableState(base), MutableState(touched))
	})

	t.Run("absent fields are omitted, not placeholders", func(t *testing.T) {
		assert.NotEqual(t, MutableState(schemas.Finding{}),
			MutableState(schemas.Finding{UpdatedAt: "2025-01-02T00:00:00Z"}))
	})
}
