// Package lifecycle is the contract status state machine.
//
// The transition table is the single source of truth for which status changes
// are allowed. Everything a view needs to render a contract's workflow (the
// available actions, the timeline and the locked banner) is derived from it.
//
//	CREATED  -> APPROVED
//	APPROVED -> SENT, CREATED (revoke)
//	SENT     -> SIGNED
//	SIGNED   -> LOCKED
//	LOCKED   -> (terminal)
package lifecycle

import "fmt"

// transitions maps a status to its allowed destinations, in the order actions
// are offered.
var transitions = map[Status][]Status{
	StatusCreated:  {StatusApproved},
	StatusApproved: {StatusSent, StatusCreated},
	StatusSent:     {StatusSigned},
	StatusSigned:   {StatusLocked},
	StatusLocked:   {},
}

// InvalidTransitionError reports a status change missing from the table.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %s to %s", e.From, e.To)
}

// IsValidTransition reports whether current -> target is in the table.
// Unknown current statuses allow nothing.
func IsValidTransition(current, target Status) bool {
	for _, s := range transitions[current] {
		if s == target {
			return true
		}
	}
	return false
}

// Transition checks current -> target and returns an *InvalidTransitionError
// when it is not allowed.
func Transition(current, target Status) error {
	if !IsValidTransition(current, target) {
		return &InvalidTransitionError{From: current, To: target}
	}
	return nil
}

// AvailableTransitions returns the destinations reachable from current. The
// result is a fresh slice.
func AvailableTransitions(current Status) []Status {
	next := transitions[current]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

// CanRevoke reports whether a contract may be sent back to CREATED.
func CanRevoke(current Status) bool {
	return current == StatusApproved
}

// IsLocked reports whether the contract is frozen. A locked contract accepts
// no field, name or status changes; only deletion remains.
func IsLocked(current Status) bool {
	return current == StatusLocked
}

// IsTerminal reports whether no further transitions exist.
func IsTerminal(current Status) bool {
	return current.Valid() && len(transitions[current]) == 0
}

// Action is a user-facing affordance for one available transition.
type Action struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Status  Status `json:"status"`
	Variant string `json:"variant"`
}

// Actions maps each available transition of current to its action.
func Actions(current Status) []Action {
	next := transitions[current]
	actions := make([]Action, 0, len(next))
	for _, target := range next {
		actions = append(actions, actionFor(target))
	}
	return actions
}

// actionFor names the action that moves a contract into target. CREATED is
// only reachable by revoking an approval.
func actionFor(target Status) Action {
	switch target {
	case StatusApproved:
		return Action{ID: "approve", Label: "Approve", Status: target, Variant: "primary"}
	case StatusSent:
		return Action{ID: "send", Label: "Send", Status: target, Variant: "primary"}
	case StatusSigned:
		return Action{ID: "sign", Label: "Sign", Status: target, Variant: "primary"}
	case StatusLocked:
		return Action{ID: "lock", Label: "Lock", Status: target, Variant: "secondary"}
	case StatusCreated:
		return Action{ID: "revoke", Label: "Revoke", Status: target, Variant: "outline"}
	}
	panic(fmt.Sprintf("lifecycle: no action for status %q", target))
}

// Step is one entry of a contract's timeline.
type Step struct {
	Status    Status `json:"status"`
	Label     string `json:"label"`
	Active    bool   `json:"active"`
	Completed bool   `json:"completed"`
}

// Timeline marks the canonical progression against current: the matching
// step is active and every earlier step is completed.
func Timeline(current Status) []Step {
	idx := current.index()
	steps := make([]Step, len(canonical))
	for i, s := range canonical {
		steps[i] = Step{
			Status:    s,
			Label:     string(s),
			Active:    s == current,
			Completed: i < idx,
		}
	}
	return steps
}
