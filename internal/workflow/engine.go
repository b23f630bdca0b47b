package workflow

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-docflow/internal/domain"
	"github.com/goliatone/go-docflow/pkg/interfaces"
)

var (
	// ErrInvalidTransition indicates the requested transition is not an edge
	// of the state machine from the current state.
	ErrInvalidTransition = errors.New("workflow: transition not allowed")
	// ErrUnknownState indicates a state the definition does not declare.
	ErrUnknownState = errors.New("workflow: unknown state")
	// ErrTerminalState indicates the entity already reached a terminal state.
	ErrTerminalState = errors.New("workflow: state is terminal")
)

// Engine executes deterministic transition lookups against a compiled
// workflow definition. It holds no entity state and performs no side effects;
// callers persist the outcome and enforce authorization.
type Engine struct {
	definition         interfaces.WorkflowDefinition
	states             map[interfaces.WorkflowState]interfaces.WorkflowStateDefinition
	transitions        map[string]interfaces.WorkflowTransition
	transitionsByState map[interfaces.WorkflowState][]interfaces.WorkflowTransition
}

// New compiles the supplied definition into an engine.
func New(definition interfaces.WorkflowDefinition) *Engine {
	engine := &Engine{
		definition:         definition,
		states:             make(map[interfaces.WorkflowState]interfaces.WorkflowStateDefinition, len(definition.States)),
		transitions:        make(map[string]interfaces.WorkflowTransition, len(definition.Transitions)),
		transitionsByState: make(map[interfaces.WorkflowState][]interfaces.WorkflowTransition, len(definition.States)),
	}

	for _, state := range definition.States {
		engine.states[state.Name] = state
	}
	for _, transition := range definition.Transitions {
		key := transitionKey(transition.Name, transition.From)
		engine.transitions[key] = transition
		engine.transitionsByState[transition.From] = append(engine.transitionsByState[transition.From], transition)
	}

	return engine
}

// NewDocumentEngine compiles the stock document approval definition.
func NewDocumentEngine() *Engine {
	return New(DocumentDefinition())
}

// Definition returns the compiled workflow definition.
func (e *Engine) Definition() interfaces.WorkflowDefinition {
	return e.definition
}

// Lookup resolves the transition with the supplied name starting from the
// current state. The current state must be declared; terminal states reject
// every transition.
func (e *Engine) Lookup(name string, current interfaces.WorkflowState) (interfaces.WorkflowTransition, error) {
	state, ok := e.states[current]
	if !ok {
		return interfaces.WorkflowTransition{}, fmt.Errorf("%w: %s", ErrUnknownState, current)
	}
	if state.Terminal {
		return interfaces.WorkflowTransition{}, fmt.Errorf("%w: %s", ErrTerminalState, current)
	}

	transition, ok := e.transitions[transitionKey(name, current)]
	if !ok {
		return interfaces.WorkflowTransition{}, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, name, current)
	}
	return transition, nil
}

// Available returns the transitions reachable from the supplied state.
func (e *Engine) Available(state interfaces.WorkflowState) []interfaces.WorkflowTransition {
	transitions := e.transitionsByState[state]
	out := make([]interfaces.WorkflowTransition, len(transitions))
	copy(out, transitions)
	return out
}

// IsTerminal reports whether the state is declared terminal.
func (e *Engine) IsTerminal(state interfaces.WorkflowState) bool {
	declared, ok := e.states[state]
	return ok && declared.Terminal
}

// NextPendingLevel returns the approval level the document state waits on,
// or 0 when nothing is pending.
func (e *Engine) NextPendingLevel(state interfaces.WorkflowState) int {
	return domain.NextPendingLevel(domain.Status(state))
}

func transitionKey(name string, from interfaces.WorkflowState) string {
	return strings.ToLower(strings.TrimSpace(name)) + "::" + string(from)
}
