package failure

type Severity int

// store and CLI control flow
const (
	SeverityFatal Severity = iota
	SeverityRecoverable
)

func (s Severity) String() string {
	switch s {
	case SeverityFatal:
		return "fatal"
	case SeverityRecoverable:
		return "recoverable"
	default:
		return "unknown"
	}
}

// ClassifiedError is returned across every service boundary.
// Recoverable errors may be retried by the caller; fatal ones must not.
type ClassifiedError interface {
	error
	Severity() Severity
}
