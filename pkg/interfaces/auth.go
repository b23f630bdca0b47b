package interfaces

import (
	"context"

	"github.com/google/uuid"
)

// Authorizer answers coarse capability questions for a user within the scope
// of a workflow instance. It is the first of the two authorization layers; the
// approver registry provides the second. Implementations typically delegate to
// the host application's role system.
type Authorizer interface {
	HasCapability(ctx context.Context, userID uuid.UUID, capability string, instanceID uuid.UUID) (bool, error)
}

// AuthorizerFunc adapts a plain function into an Authorizer.
type AuthorizerFunc func(ctx context.Context, userID uuid.UUID, capability string, instanceID uuid.UUID) (bool, error)

func (fn AuthorizerFunc) HasCapability(ctx context.Context, userID uuid.UUID, capability string, instanceID uuid.UUID) (bool, error) {
	if fn == nil {
		return false, nil
	}
	return fn(ctx, userID, capability, instanceID)
}
