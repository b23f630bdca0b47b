package documents

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-docflow/internal/approvers"
	"github.com/goliatone/go-docflow/internal/domain"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

var (
	// ErrInvalidState marks a transition requested from a state that does not
	// allow it, including wrong approve levels and terminal documents.
	ErrInvalidState = errors.New("documents: transition not allowed from current state")
	// ErrStaleState marks a compare-and-swap that lost to a concurrent
	// transition. The caller should reload and retry if still applicable.
	ErrStaleState = errors.New("documents: document state changed concurrently")
	// ErrNotAnApprover marks an actor with the coarse capability who is not on
	// the approver list for the required level.
	ErrNotAnApprover = errors.New("documents: user is not a designated approver")
	// ErrInvalidCategoryOrType marks a category or doc type pairing that the
	// catalog does not know.
	ErrInvalidCategoryOrType = errors.New("documents: category or doc type not in catalog")
)

// NotFoundError reports a missing document or instance, including lookups
// scoped to the wrong instance.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("documents: %s %q not found", e.Resource, e.Key)
}

// StaleStateError carries the status the caller observed when its transition
// lost a concurrent race.
type StaleStateError struct {
	DocumentID uuid.UUID
	Expected   domain.Status
}

func (e *StaleStateError) Error() string {
	return fmt.Sprintf("documents: document %s no longer in status %q", e.DocumentID, e.Expected)
}

func (e *StaleStateError) Unwrap() error { return ErrStaleState }

// NotAnApproverError identifies the approver slot the actor is missing from.
type NotAnApproverError struct {
	UserID uuid.UUID
	Key    approvers.Key
}

func (e *NotAnApproverError) Error() string {
	return fmt.Sprintf("documents: user %s is not an approver for %s", e.UserID, e.Key)
}

func (e *NotAnApproverError) Unwrap() error { return ErrNotAnApprover }

// InvalidStateError carries the observed status alongside the transition that
// was refused.
type InvalidStateError struct {
	DocumentID uuid.UUID
	Status     domain.Status
	Transition string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("documents: cannot %s document %s in status %q", e.Transition, e.DocumentID, e.Status)
}

func (e *InvalidStateError) Unwrap() error { return ErrInvalidState }

// CatalogMismatchError reports a category or doc type the catalog refused.
type CatalogMismatchError struct {
	Category string
	DocType  string
	cause    error
}

func (e *CatalogMismatchError) Error() string {
	if e.DocType == "" {
		return fmt.Sprintf("documents: category %q not in catalog: %v", e.Category, e.cause)
	}
	return fmt.Sprintf("documents: category %q doc type %q not in catalog: %v", e.Category, e.DocType, e.cause)
}

func (e *CatalogMismatchError) Unwrap() error { return ErrInvalidCategoryOrType }

// IsNotFound reports whether err is a missing document or instance.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func wrapValidationError(err error, msg string) error {
	return goerrors.Wrap(err, goerrors.CategoryValidation, msg).
		WithTextCode("DOCUMENTS_VALIDATION_FAILED")
}
