package lifecycle

import (
	"fmt"
	"strings"
)

// Status is a contract's position in the approval/signature workflow.
type Status string

const (
	StatusCreated  Status = "CREATED"
	StatusApproved Status = "APPROVED"
	StatusSent     Status = "SENT"
	StatusSigned   Status = "SIGNED"
	StatusLocked   Status = "LOCKED"
)

// InitialStatus is assigned to every new contract.
const InitialStatus = StatusCreated

// canonical is the forward progression used for timelines.
var canonical = [...]Status{StatusCreated, StatusApproved, StatusSent, StatusSigned, StatusLocked}

// Statuses returns the canonical forward progression.
func Statuses() []Status {
	out := make([]Status, len(canonical))
	copy(out, canonical[:])
	return out
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s.index() >= 0
}

func (s Status) String() string {
	return string(s)
}

// index is s's position in the canonical progression, or -1.
func (s Status) index() int {
	switch s {
	case StatusCreated:
		return 0
	case StatusApproved:
		return 1
	case StatusSent:
		return 2
	case StatusSigned:
		return 3
	case StatusLocked:
		return 4
	}
	return -1
}

// ParseStatus accepts a status name in any case.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("unknown contract status %q", s)
	}
	return st, nil
}

// BadgeClass is the CSS class a view uses to render the status badge.
func BadgeClass(s Status) string {
	switch s {
	case StatusCreated:
		return "badge-created"
	case StatusApproved:
		return "badge-approved"
	case StatusSent:
		return "badge-sent"
	case StatusSigned:
		return "badge-signed"
	case StatusLocked:
		return "badge-locked"
	}
	return "badge-created"
}

// Group is a dashboard bucket of statuses.
type Group string

const (
	GroupTotal   Group = "total"
	GroupActive  Group = "active"
	GroupSigned  Group = "signed"
	GroupPending Group = "pending"
)

// ParseGroup returns the group named s. The empty string means no grouping
// and is reported as GroupTotal.
func ParseGroup(s string) (Group, error) {
	switch g := Group(strings.ToLower(strings.TrimSpace(s))); g {
	case "", GroupTotal:
		return GroupTotal, nil
	case GroupActive, GroupSigned, GroupPending:
		return g, nil
	}
	return "", fmt.Errorf("unknown contract group %q", s)
}

// Contains reports whether status s belongs to the group.
func (g Group) Contains(s Status) bool {
	switch g {
	case GroupTotal:
		return true
	case GroupActive:
		return s == StatusCreated || s == StatusApproved || s == StatusSent
	case GroupSigned:
		return s == StatusSigned || s == StatusLocked
	case GroupPending:
		return s == StatusCreated || s == StatusApproved
	}
	return false
}
