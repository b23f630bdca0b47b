// Package docflow implements a document approval workflow: documents are
// filed under a fixed catalog of categories and types, then walk three
// sequential approval levels with per-level approver lists, capability checks,
// full approval history, and notification intents for the host to deliver.
package docflow

import (
	"github.com/goliatone/go-docflow/internal/approvers"
	"github.com/goliatone/go-docflow/internal/catalog"
	"github.com/goliatone/go-docflow/internal/di"
	"github.com/goliatone/go-docflow/internal/documents"
	"github.com/goliatone/go-docflow/internal/domain"
	"github.com/goliatone/go-docflow/internal/notify"
	"github.com/goliatone/go-docflow/internal/workflow"
	"github.com/goliatone/go-docflow/pkg/interfaces"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// DocumentService exports the document workflow service contract.
type DocumentService = documents.Service

// Document exports the document record.
type Document = documents.Document

// Instance exports the workflow instance record.
type Instance = documents.Instance

// Approval exports the approval history record.
type Approval = documents.Approval

// Rejection exports the rejection history record.
type Rejection = documents.Rejection

// OwnerOutline exports the per-user activity summary.
type OwnerOutline = documents.OwnerOutline

// RegisterInstanceRequest exports the instance registration payload.
type RegisterInstanceRequest = documents.RegisterInstanceRequest

// CreateDocumentRequest exports the document creation payload.
type CreateDocumentRequest = documents.CreateDocumentRequest

// SubmitRequest exports the submit transition payload.
type SubmitRequest = documents.SubmitRequest

// ApproveRequest exports the approve transition payload.
type ApproveRequest = documents.ApproveRequest

// RejectRequest exports the reject transition payload.
type RejectRequest = documents.RejectRequest

// Status exports the document lifecycle status.
type Status = domain.Status

// Lifecycle statuses a document moves through.
const (
	StatusDraft         = domain.StatusDraft
	StatusSubmitted     = domain.StatusSubmitted
	StatusApprovedL1    = domain.StatusApprovedL1
	StatusApprovedL2    = domain.StatusApprovedL2
	StatusApprovedFinal = domain.StatusApprovedFinal
	StatusRejected      = domain.StatusRejected
)

// MaxApprovalLevel is the number of sequential approval levels.
const MaxApprovalLevel = domain.MaxApprovalLevel

// ApproverKey exports the registry coordinate (category, doc type, level).
type ApproverKey = approvers.Key

// ApproverRegistry exports the per-level approver list contract.
type ApproverRegistry = approvers.Registry

// Catalog exports the compiled category catalog.
type Catalog = catalog.Catalog

// Authorizer exports the host capability checker contract.
type Authorizer = interfaces.Authorizer

// AuthorizerFunc adapts a plain function to the Authorizer contract.
type AuthorizerFunc = interfaces.AuthorizerFunc

// NotificationDispatcher exports the notification delivery contract.
type NotificationDispatcher = interfaces.NotificationDispatcher

// NotificationIntent exports the rendered notification payload.
type NotificationIntent = interfaces.NotificationIntent

// MemoryDispatcher exports the recording dispatcher used in tests and demos.
type MemoryDispatcher = notify.MemoryDispatcher

// Option exports the DI override hook accepted by New.
type Option = di.Option

// WithBunDB binds the database handle used when bun storage is selected.
func WithBunDB(db *bun.DB) Option {
	return di.WithBunDB(db)
}

// WithAuthorizer binds the host capability checker.
func WithAuthorizer(auth Authorizer) Option {
	return di.WithAuthorizer(auth)
}

// WithDispatcher overrides the notification dispatcher.
func WithDispatcher(dispatcher NotificationDispatcher) Option {
	return di.WithDispatcher(dispatcher)
}

// WithLoggerProvider overrides the logger provider built from configuration.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return di.WithLoggerProvider(provider)
}

// WithRegistry overrides the approver registry built from configuration.
func WithRegistry(registry ApproverRegistry) Option {
	return di.WithRegistry(registry)
}

// Module is the top level docflow runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a docflow module using the provided configuration and
// optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Documents returns the configured document workflow service.
func (m *Module) Documents() DocumentService {
	return m.container.DocumentService()
}

// Catalog returns the compiled category catalog.
func (m *Module) Catalog() *Catalog {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Catalog()
}

// ApproverRegistry returns the approver registry in use.
func (m *Module) ApproverRegistry() ApproverRegistry {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Registry()
}

// WorkflowEngine returns the compiled document workflow engine.
func (m *Module) WorkflowEngine() *workflow.Engine {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.WorkflowEngine()
}

// SeedApprovers loads configured approver assignments for the instance into a
// memory-backed registry.
func (m *Module) SeedApprovers(instanceID uuid.UUID) error {
	return m.container.SeedApprovers(instanceID)
}
