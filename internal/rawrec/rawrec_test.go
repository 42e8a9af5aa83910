package rawrec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBatch(t *testing.T) {
	t.Run("should decode an array of records", func(t *testing.T) {
		records, err := DecodeBatch([]byte(`[{"number": 42}, {"number": 43}]`))
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "42", records[0].String("number"))
	})

	t.Run("should reject non-array input", func(t *testing.T) {
		_, err := DecodeBatch([]byte(`{"number": 42}`))
		require.Error(t, err)
	})

	t.Run("should reject truncated input", func(t *testing.T) {
		_, err := DecodeBatch([]byte(`[{"number": 42}`))
		require.Error(t, err)
	})
}

func TestRecordAccess(t *testing.T) {
	records, err := DecodeBatch([]byte(`[{
		"number": 42,
		"score": 9.8,
		"publicly_leaked": true,
		"rule": {"tags": ["security", "external/cwe/cwe-089"], "nested": {"deep": "value"}}
	}]`))
	require.NoError(t, err)
	rec := records[0]

	t.Run("should stringify numbers as written", func(t *testing.T) {
		assert.Equal(t, "42", rec.String("number"))
		assert.Equal(t, "9.8", rec.String("score"))
	})

	t.Run("should walk nested paths", func(t *testing.T) {
		assert.Equal(t, "value", rec.String("rule", "nested", "deep"))
	})

	t.Run("should degrade missing paths to zero values", func(t *testing.T) {
		assert.Equal(t, "", rec.String("no", "such", "path"))
		assert.False(t, rec.Bool("no", "such", "path"))
		assert.Nil(t, rec.List("no", "such", "path"))
	})

	t.Run("should degrade mistyped paths to zero values", func(t *testing.T) {
		// "number" is a scalar; descending through it must not panic.
		assert.Equal(t, "", rec.String("number", "deeper"))
		assert.False(t, rec.Bool("score"))
		assert.Nil(t, rec.List("rule", "nested"))
	})

	t.Run("should read booleans and lists", func(t *testing.T) {
		assert.True(t, rec.Bool("publicly_leaked"))
		assert.Len(t, rec.List("rule", "tags"), 2)
	})
}
