package domain

import "strings"

// Status represents lifecycle states for documents under review.
type Status string

const (
	// StatusDraft indicates a document still under preparation by its owner.
	StatusDraft Status = "draft"
	// StatusSubmitted marks a document waiting for level 1 approval.
	StatusSubmitted Status = "submitted"
	// StatusApprovedL1 marks a document cleared by level 1, waiting on level 2.
	StatusApprovedL1 Status = "approved_l1"
	// StatusApprovedL2 marks a document cleared by level 2, waiting on level 3.
	StatusApprovedL2 Status = "approved_l2"
	// StatusApprovedFinal marks a document that completed every approval level.
	StatusApprovedFinal Status = "approved_final"
	// StatusRejected marks a document turned down by a reviewer.
	StatusRejected Status = "rejected"
)

// MaxApprovalLevel is the number of sequential approval stages.
const MaxApprovalLevel = 3

// Statuses lists every known status in lifecycle order.
func Statuses() []Status {
	return []Status{
		StatusDraft,
		StatusSubmitted,
		StatusApprovedL1,
		StatusApprovedL2,
		StatusApprovedFinal,
		StatusRejected,
	}
}

// IsValid reports whether the status belongs to the closed enumeration.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusApprovedL1, StatusApprovedL2, StatusApprovedFinal, StatusRejected:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the status admits no further transitions.
func (s Status) IsTerminal() bool {
	return s == StatusApprovedFinal || s == StatusRejected
}

// Label returns the human readable display label for a status.
func (s Status) Label() string {
	switch s {
	case StatusDraft:
		return "Draft"
	case StatusSubmitted:
		return "Submitted for Approval"
	case StatusApprovedL1:
		return "Level 1 Approved"
	case StatusApprovedL2:
		return "Level 2 Approved"
	case StatusApprovedFinal:
		return "Approved"
	case StatusRejected:
		return "Rejected"
	default:
		return "Unknown Status"
	}
}

// NormalizeStatus coerces arbitrary status strings into the canonical
// lowercase representation. Empty input defaults to draft.
func NormalizeStatus(input string) Status {
	if strings.TrimSpace(input) == "" {
		return StatusDraft
	}
	return Status(strings.ToLower(strings.TrimSpace(input)))
}

// NextPendingLevel returns the approval level a document in the supplied
// status is waiting on, or 0 when no level is pending (draft or terminal).
func NextPendingLevel(status Status) int {
	switch status {
	case StatusSubmitted:
		return 1
	case StatusApprovedL1:
		return 2
	case StatusApprovedL2:
		return 3
	default:
		return 0
	}
}

// StatusForLevel returns the status a document enters once the supplied
// approval level signs off. Levels outside 1..MaxApprovalLevel yield an
// empty status.
func StatusForLevel(level int) Status {
	switch level {
	case 1:
		return StatusApprovedL1
	case 2:
		return StatusApprovedL2
	case 3:
		return StatusApprovedFinal
	default:
		return ""
	}
}

// ExpectedStatusForLevel returns the status a document must currently hold
// for the supplied approval level to be legal.
func ExpectedStatusForLevel(level int) Status {
	switch level {
	case 1:
		return StatusSubmitted
	case 2:
		return StatusApprovedL1
	case 3:
		return StatusApprovedL2
	default:
		return ""
	}
}
