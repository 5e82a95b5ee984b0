package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDiagnostics_Log(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	diags := &Diagnostics{}
	diags.Add(Diagnostic{Kind: UnknownSource, Severity: SeverityWarning, Table: "values", Line: 4, Subject: "Smith2021"})
	diags.Add(Diagnostic{Kind: MalformedCitation, Severity: SeverityError, Table: "values", Line: 5, Subject: "[12]"})

	diags.Log(zap.New(core))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "unknown-source", entries[0].Message)
	assert.Equal(t, map[string]any{
		"severity": "warning",
		"table":    "values",
		"line":     int64(4),
		"subject":  "Smith2021",
	}, entries[0].ContextMap())
	assert.Equal(t, "malformed-citation", entries[1].Message)
}

func TestDiagnostics_Filters(t *testing.T) {
	diags := &Diagnostics{}
	assert.Empty(t, diags.Items())
	diags.Add(Diagnostic{Kind: OrphanExample, Severity: SeverityWarning, Table: "examples", Line: 8, Subject: "fore9999"})
	diags.Add(Diagnostic{Kind: MalformedCitation, Severity: SeverityError, Table: "values", Line: 2, Subject: "A[1][2]"})

	assert.Len(t, diags.OfKind(OrphanExample), 1)
	assert.Empty(t, diags.OfKind(UnknownSource))
	require.Len(t, diags.Errors(), 1)
	assert.Equal(t, `values:2: malformed-citation: "A[1][2]"`, diags.Errors()[0].String())
}
