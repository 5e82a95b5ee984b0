package dataset

import (
	"fmt"

	"go.uber.org/zap"
)

// DiagnosticKind classifies a reported, non-fatal problem.
type DiagnosticKind string

const (
	// UnknownSource marks a citation whose key is not in the bibliography.
	UnknownSource DiagnosticKind = "unknown-source"
	// MalformedCitation marks a citation with several or nested [...] groups,
	// or with nothing before its qualifier.
	MalformedCitation DiagnosticKind = "malformed-citation"
	// OrphanExample marks an example whose language has no classification.
	OrphanExample DiagnosticKind = "orphan-example"
)

// Severity of a diagnostic.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Diagnostic is one reported problem. The run continues.
type Diagnostic struct {
	Kind     DiagnosticKind
	Severity Severity
	// Table and Line locate the input row.
	Table string
	Line  int
	// Subject is the offending citation or identifier.
	Subject string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d: %s: %q", d.Table, d.Line, d.Kind, d.Subject)
}

// Diagnostics collects problems reported during a build.
type Diagnostics struct {
	items []Diagnostic
}

// Add records d.
func (ds *Diagnostics) Add(d Diagnostic) {
	ds.items = append(ds.items, d)
}

// Items returns all diagnostics in report order.
func (ds *Diagnostics) Items() []Diagnostic {
	return append([]Diagnostic(nil), ds.items...)
}

// Len returns the number of diagnostics.
func (ds *Diagnostics) Len() int { return len(ds.items) }

// OfKind returns the diagnostics of kind k.
func (ds *Diagnostics) OfKind(k DiagnosticKind) []Diagnostic {
	var out []Diagnostic
	for _, d := range ds.items {
		if d.Kind == k {
			out = append(out, d)
		}
	}
	return out
}

// Errors returns the error-severity diagnostics.
func (ds *Diagnostics) Errors() []Diagnostic {
	var out []Diagnostic
	for _, d := range ds.items {
		if d.Severity == SeverityError {
			out = append(out, d)
		}
	}
	return out
}

// Log writes every diagnostic to logger at WARN.
func (ds *Diagnostics) Log(logger *zap.Logger) {
	for _, d := range ds.items {
		logger.Warn(string(d.Kind),
			zap.String("severity", string(d.Severity)),
			zap.String("table", d.Table),
			zap.Int("line", d.Line),
			zap.String("subject", d.Subject),
		)
	}
}
