package types

import (
	"fmt"
	"strings"
)

type Severity uint8

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	return [...]string{"info", "warning", "error"}[s]
}

// Diagnostic is a finding about the input that did not stop the compile
type Diagnostic struct {
	Severity Severity
	Message  string
}

func (d Diagnostic) String() string {
	return d.Severity.String() + ": " + d.Message
}

type Diagnostics []Diagnostic

func (d *Diagnostics) Add(sev Severity, format string, args ...interface{}) {
	*d = append(*d, Diagnostic{Severity: sev, Message: fmt.Sprintf(format, args...)})
}

func (d *Diagnostics) Info(format string, args ...interface{}) {
	d.Add(SeverityInfo, format, args...)
}

func (d *Diagnostics) Warn(format string, args ...interface{}) {
	d.Add(SeverityWarning, format, args...)
}

func (d *Diagnostics) Error(format string, args ...interface{}) {
	d.Add(SeverityError, format, args...)
}

func (d Diagnostics) HasErrors() bool {
	for _, diag := range d {
		if diag.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Filter returns the diagnostics of one severity, in order
func (d Diagnostics) Filter(sev Severity) (out Diagnostics) {
	for _, diag := range d {
		if diag.Severity == sev {
			out = append(out, diag)
		}
	}
	return
}

func (d Diagnostics) String() string {
	var b strings.Builder
	for i, diag := range d {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(diag.String())
	}
	return b.String()
}
