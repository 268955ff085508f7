package diagnostic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ServiceFoundation/Vagabond/internal/diagnostic"
)

func TestSeverityBuckets(t *testing.T) {
	t.Parallel()

	var d diagnostic.Diagnostics

	d.AddInfo("unresolved_reference", "reference dropped", "app", "ghost")
	d.AddWarning("stale_state", "tracked state predates fingerprint", "app", "")
	assert.False(t, d.HasErrors())
	require.NoError(t, d.Error())

	d.AddError("duplicate_unit_name", "two distinct units resolved", "lib", "")
	assert.True(t, d.HasErrors())

	err := d.Error()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate_unit_name")
}

func TestMerge(t *testing.T) {
	t.Parallel()

	var left, right diagnostic.Diagnostics

	left.AddInfo("unresolved_reference", "first pass", "a", "x")
	right.AddWarning("stale_state", "second pass", "b", "")
	right.AddError("duplicate_unit_name", "second pass", "b", "")

	left.Merge(right)

	assert.Len(t, left.Infos, 1)
	assert.Len(t, left.Warnings, 1)
	require.Len(t, left.Errors, 1)
	assert.Equal(t, "duplicate_unit_name", left.Errors[0].Code)
}

func TestDiagnosticString(t *testing.T) {
	t.Parallel()

	full := diagnostic.Diagnostic{
		Code:    "unresolved_reference",
		Message: "reference dropped",
		Unit:    "app",
		Ref:     "ghost",
	}
	assert.Equal(t, "[app] ghost: [unresolved_reference] reference dropped", full.String())

	bare := diagnostic.Diagnostic{Message: "plain note"}
	assert.Equal(t, "plain note", bare.String())
}

func TestSeverityString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "info", diagnostic.SeverityInfo.String())
	assert.Equal(t, "warning", diagnostic.SeverityWarning.String())
	assert.Equal(t, "error", diagnostic.SeverityError.String())
	assert.Equal(t, "unknown", diagnostic.Severity(42).String())
}
