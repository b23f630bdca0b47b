package interfaces

// WorkflowState represents a lifecycle stage understood by the workflow engine.
type WorkflowState string

// WorkflowDefinition describes a state machine for a specific entity type.
type WorkflowDefinition struct {
	EntityType   string
	InitialState WorkflowState
	States       []WorkflowStateDefinition
	Transitions  []WorkflowTransition
}

// WorkflowStateDefinition documents a workflow state.
type WorkflowStateDefinition struct {
	Name        WorkflowState
	Description string
	Terminal    bool
}

// WorkflowTransition declares an allowed transition between two states. Guard
// names the coarse capability an actor must hold before the transition is
// considered; an empty guard leaves that decision to the caller.
type WorkflowTransition struct {
	Name        string
	Description string
	From        WorkflowState
	To          WorkflowState
	Guard       string
}
