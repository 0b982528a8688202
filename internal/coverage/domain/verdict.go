// Package domain holds the pure coverage logic: address parsing, street
// normalization, table compilation and matching, and the verdict model.
// Nothing in this package performs I/O.
package domain

// Verdict is the user-facing outcome of a coverage check.
type Verdict string

const (
	VerdictInvalid        Verdict = "invalid"
	VerdictCovered        Verdict = "covered"
	VerdictPlanned        Verdict = "planned_coverage"
	VerdictNotCovered     Verdict = "not_covered"
	VerdictTransientError Verdict = "transient_error"
)

// InvalidReason explains why input was rejected before matching.
type InvalidReason string

const (
	ReasonEmpty         InvalidReason = "empty_address"
	ReasonInvalidFormat InvalidReason = "invalid_format"
)

// Message returns the corrective text shown next to the input field.
func (r InvalidReason) Message() string {
	switch r {
	case ReasonEmpty:
		return "enter an address"
	case ReasonInvalidFormat:
		return "invalid format, include street and number (e.g. Nigro 575)"
	default:
		return "invalid address"
	}
}

// Message returns the short text rendered for a verdict.
func (v Verdict) Message() string {
	switch v {
	case VerdictCovered:
		return "Good news! Your address is inside our coverage area."
	case VerdictPlanned:
		return "Your home will soon be inside our coverage area."
	case VerdictNotCovered:
		return "We do not reach your address yet, but we keep expanding our network."
	case VerdictTransientError:
		return "We could not check your address right now, please try again."
	default:
		return ""
	}
}

// Phase is a step of a single coverage check.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseValidating Phase = "validating"
	PhaseInvalid    Phase = "invalid"
	PhaseGeocoding  Phase = "geocoding"
	PhaseMatching   Phase = "matching"
	PhaseDone       Phase = "done"
)

var transitions = map[Phase][]Phase{
	PhaseIdle:       {PhaseValidating},
	PhaseValidating: {PhaseInvalid, PhaseGeocoding},
	PhaseInvalid:    {PhaseIdle},
	PhaseGeocoding:  {PhaseMatching},
	PhaseMatching:   {PhaseDone},
	PhaseDone:       {PhaseIdle},
}

// CanTransition reports whether moving from p to next is a legal step.
func (p Phase) CanTransition(next Phase) bool {
	for _, allowed := range transitions[p] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Match evaluates an address against the current table first and the planned
// table only when the current one does not cover it.
func Match(current, planned *CompiledTable, addr ParsedAddress) Verdict {
	street := NormalizeStreet(addr.Street)
	if current.IsCovered(street, addr.Number) {
		return VerdictCovered
	}
	if planned.IsCovered(street, addr.Number) {
		return VerdictPlanned
	}
	return VerdictNotCovered
}
