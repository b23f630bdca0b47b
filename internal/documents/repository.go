package documents

import (
	"context"
	"time"

	"github.com/goliatone/go-docflow/internal/domain"
	"github.com/google/uuid"
)

// Repository persists documents and their approval history.
type Repository interface {
	Insert(ctx context.Context, doc *Document) (*Document, error)
	// GetByID is instance scoped: a document that exists under another
	// instance is reported as not found.
	GetByID(ctx context.Context, instanceID, documentID uuid.UUID) (*Document, error)
	// ListByCategory returns the instance's documents under one category,
	// ordered by doc type ascending then last modified descending.
	ListByCategory(ctx context.Context, instanceID uuid.UUID, category string) ([]*Document, error)
	// CompareAndUpdateStatus moves the document to next only when it is still
	// in expected. It reports false, without error, when the precondition no
	// longer holds.
	CompareAndUpdateStatus(ctx context.Context, documentID uuid.UUID, expected, next domain.Status, updatedAt time.Time) (bool, error)
	InsertApproval(ctx context.Context, approval *Approval) error
	InsertRejection(ctx context.Context, rejection *Rejection) error
	// ListApprovals returns records ascending by approval time.
	ListApprovals(ctx context.Context, documentID uuid.UUID) ([]*Approval, error)
	// ListRejections returns records descending by rejection time.
	ListRejections(ctx context.Context, documentID uuid.UUID) ([]*Rejection, error)
	OwnerOutline(ctx context.Context, instanceID, ownerID uuid.UUID) (*OwnerOutline, error)
	// DeleteByInstance removes every document under the instance together
	// with its approval and rejection history.
	DeleteByInstance(ctx context.Context, instanceID uuid.UUID) error
}

// InstanceRepository persists workflow instances.
type InstanceRepository interface {
	Insert(ctx context.Context, instance *Instance) (*Instance, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Instance, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
