package orchestrator

import "fmt"

// ErrorPolicy governs how backend-call failures affect the outcome of a
// round. It applies to backend calls only; strategy-level contract
// violations always surface to the caller.
type ErrorPolicy int

const (
	// Continue proceeds with partial results when some backends fail.
	// Failures are reported to the diagnostic sink but are not fatal.
	Continue ErrorPolicy = iota

	// FailFast aborts the round if any backend fails. All collected
	// failures are reported together, not just the first.
	FailFast

	// Ignore behaves like Continue but treats failures as expected:
	// they are silently dropped without diagnostics.
	Ignore
)

func (p ErrorPolicy) String() string {
	switch p {
	case Continue:
		return "continue"
	case FailFast:
		return "fail_fast"
	case Ignore:
		return "ignore"
	default:
		return "unknown"
	}
}

// ParseErrorPolicy converts a configuration string into an ErrorPolicy.
func ParseErrorPolicy(s string) (ErrorPolicy, error) {
	switch s {
	case "continue", "":
		return Continue, nil
	case "fail_fast":
		return FailFast, nil
	case "ignore":
		return Ignore, nil
	default:
		return Continue, fmt.Errorf("unknown error policy %q", s)
	}
}
