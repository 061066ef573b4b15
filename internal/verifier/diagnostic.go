package verifier

import "fmt"

// Severity of a diagnostic; the names match the log level names printed
// in front of every report line.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Diagnostic is one formatted report line produced by a check.
type Diagnostic struct {
	Check    string
	Severity Severity
	Message  string
}

func (d Diagnostic) String() string {
	return d.Severity.String() + ": " + d.Message
}

// Sink accumulates the diagnostics of a single check in emission order.
// Each check run gets its own sink.
type Sink struct {
	check string
	diags []Diagnostic
}

func NewSink(check string) *Sink {
	return &Sink{check: check}
}

func (s *Sink) add(severity Severity, format string, args ...any) {
	s.diags = append(s.diags, Diagnostic{
		Check:    s.check,
		Severity: severity,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (s *Sink) Errorf(format string, args ...any) {
	s.add(SeverityError, format, args...)
}

func (s *Sink) Warnf(format string, args ...any) {
	s.add(SeverityWarning, format, args...)
}

func (s *Sink) Infof(format string, args ...any) {
	s.add(SeverityInfo, format, args...)
}

// Diagnostics returns the accumulated lines.
func (s *Sink) Diagnostics() []Diagnostic {
	return s.diags
}

func (s *Sink) HasErrors() bool {
	for _, d := range s.diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}
