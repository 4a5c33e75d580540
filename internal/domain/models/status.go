package models

import "fmt"

// Status is the lifecycle state shared by both booking variants.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

var statusTransitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled},
	StatusCancelled: {},
}

func (s Status) IsValid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// CanTransitionTo reports whether s may move to target. Same-state is not a transition.
func (s Status) CanTransitionTo(target Status) bool {
	for _, t := range statusTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

func (s Status) IsTerminal() bool {
	return len(statusTransitions[s]) == 0
}

// SourcesOf lists every status from which target is reachable in one step.
func SourcesOf(target Status) []Status {
	out := []Status{}
	for _, from := range []Status{StatusPending, StatusConfirmed, StatusCancelled} {
		if from.CanTransitionTo(target) {
			out = append(out, from)
		}
	}
	return out
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", fmt.Errorf("invalid booking status: %s", s)
	}
	return st, nil
}

// Variant tags which store a booking lives in.
type Variant string

const (
	VariantNormal  Variant = "normal"
	VariantDefault Variant = "default"
)

// Source is the legacy collection label used by the agent history view.
func (v Variant) Source() string {
	if v == VariantDefault {
		return "DefaultPackageBooking"
	}
	return "Booking"
}
