package workflow

import (
	"fmt"

	"github.com/goliatone/go-docflow/internal/domain"
	"github.com/goliatone/go-docflow/internal/permissions"
	"github.com/goliatone/go-docflow/pkg/interfaces"
)

// EntityTypeDocument is the entity type the stock definition applies to.
const EntityTypeDocument = "document"

// Transition names used by the document workflow.
const (
	TransitionSubmit = "submit"
	TransitionReject = "reject"
)

// ApproveTransition returns the transition name for the supplied level,
// e.g. "approve_l2".
func ApproveTransition(level int) string {
	return fmt.Sprintf("approve_l%d", level)
}

// DocumentDefinition declares the document approval state machine: a draft is
// submitted, then three approval levels sign off in order; any reviewable
// state can be rejected. Both terminal states admit no further transitions.
func DocumentDefinition() interfaces.WorkflowDefinition {
	return interfaces.WorkflowDefinition{
		EntityType:   EntityTypeDocument,
		InitialState: interfaces.WorkflowState(domain.StatusDraft),
		States: []interfaces.WorkflowStateDefinition{
			{Name: interfaces.WorkflowState(domain.StatusDraft), Description: "Draft awaiting submission"},
			{Name: interfaces.WorkflowState(domain.StatusSubmitted), Description: "Waiting on level 1 approval"},
			{Name: interfaces.WorkflowState(domain.StatusApprovedL1), Description: "Waiting on level 2 approval"},
			{Name: interfaces.WorkflowState(domain.StatusApprovedL2), Description: "Waiting on level 3 approval"},
			{Name: interfaces.WorkflowState(domain.StatusApprovedFinal), Description: "Fully approved", Terminal: true},
			{Name: interfaces.WorkflowState(domain.StatusRejected), Description: "Rejected by a reviewer", Terminal: true},
		},
		Transitions: []interfaces.WorkflowTransition{
			{
				Name:  TransitionSubmit,
				From:  interfaces.WorkflowState(domain.StatusDraft),
				To:    interfaces.WorkflowState(domain.StatusSubmitted),
				Guard: permissions.DocumentsSubmit,
			},
			{
				Name:  ApproveTransition(1),
				From:  interfaces.WorkflowState(domain.StatusSubmitted),
				To:    interfaces.WorkflowState(domain.StatusApprovedL1),
				Guard: permissions.ApproveLevel(1),
			},
			{
				Name:  ApproveTransition(2),
				From:  interfaces.WorkflowState(domain.StatusApprovedL1),
				To:    interfaces.WorkflowState(domain.StatusApprovedL2),
				Guard: permissions.ApproveLevel(2),
			},
			{
				Name:  ApproveTransition(3),
				From:  interfaces.WorkflowState(domain.StatusApprovedL2),
				To:    interfaces.WorkflowState(domain.StatusApprovedFinal),
				Guard: permissions.ApproveLevel(3),
			},
			{
				Name: TransitionReject,
				From: interfaces.WorkflowState(domain.StatusSubmitted),
				To:   interfaces.WorkflowState(domain.StatusRejected),
			},
			{
				Name: TransitionReject,
				From: interfaces.WorkflowState(domain.StatusApprovedL1),
				To:   interfaces.WorkflowState(domain.StatusRejected),
			},
			{
				Name: TransitionReject,
				From: interfaces.WorkflowState(domain.StatusApprovedL2),
				To:   interfaces.WorkflowState(domain.StatusRejected),
			},
		},
	}
}
