package documents

import (
	"context"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-docflow/internal/approvers"
	"github.com/goliatone/go-docflow/internal/catalog"
	"github.com/goliatone/go-docflow/internal/domain"
	"github.com/goliatone/go-docflow/internal/logging"
	"github.com/goliatone/go-docflow/internal/notify"
	"github.com/goliatone/go-docflow/internal/permissions"
	"github.com/goliatone/go-docflow/internal/workflow"
	"github.com/goliatone/go-docflow/pkg/interfaces"
	"github.com/google/uuid"
)

// Service exposes the document approval use-cases.
type Service interface {
	RegisterInstance(ctx context.Context, req RegisterInstanceRequest) (*Instance, error)
	// PurgeInstance removes the instance together with every document and
	// history record it owns.
	PurgeInstance(ctx context.Context, instanceID uuid.UUID) error

	Create(ctx context.Context, req CreateDocumentRequest) (*Document, error)
	Get(ctx context.Context, instanceID, documentID uuid.UUID) (*Document, error)
	ListByCategory(ctx context.Context, instanceID uuid.UUID, category string) ([]*Document, error)

	Submit(ctx context.Context, req SubmitRequest) (*Document, error)
	Approve(ctx context.Context, req ApproveRequest) (*Document, error)
	Reject(ctx context.Context, req RejectRequest) (*Document, error)

	ListApprovals(ctx context.Context, instanceID, documentID uuid.UUID) ([]*Approval, error)
	ListRejections(ctx context.Context, instanceID, documentID uuid.UUID) ([]*Rejection, error)
	OwnerOutline(ctx context.Context, instanceID, ownerID uuid.UUID) (*OwnerOutline, error)
}

// RegisterInstanceRequest captures the fields needed to open a new workflow
// instance.
type RegisterInstanceRequest struct {
	Name      string
	CourseRef *string
}

// Validate checks the request payload.
func (r RegisterInstanceRequest) Validate() error {
	errs := validation.Errors{}
	if strings.TrimSpace(r.Name) == "" {
		errs["name"] = validation.NewError("validation_required", "instance name is required")
	}
	return errs.Filter()
}

// CreateDocumentRequest captures the fields needed to create a draft document.
type CreateDocumentRequest struct {
	InstanceID uuid.UUID
	Category   string
	DocType    string
	Filename   string
	StorageKey string
	OwnerID    uuid.UUID
}

// Validate checks the request payload.
func (r CreateDocumentRequest) Validate() error {
	errs := validation.Errors{}
	if r.InstanceID == uuid.Nil {
		errs["instance_id"] = validation.NewError("validation_required", "instance id is required")
	}
	if strings.TrimSpace(r.Category) == "" {
		errs["category"] = validation.NewError("validation_required", "category is required")
	}
	if strings.TrimSpace(r.DocType) == "" {
		errs["doc_type"] = validation.NewError("validation_required", "doc type is required")
	}
	if strings.TrimSpace(r.Filename) == "" {
		errs["filename"] = validation.NewError("validation_required", "filename is required")
	}
	if r.OwnerID == uuid.Nil {
		errs["owner_id"] = validation.NewError("validation_required", "owner id is required")
	}
	return errs.Filter()
}

// SubmitRequest moves a draft into review. The actor must own the document or
// hold the submit-any capability.
type SubmitRequest struct {
	InstanceID uuid.UUID
	DocumentID uuid.UUID
	ActorID    uuid.UUID
}

// Validate checks the request payload.
func (r SubmitRequest) Validate() error {
	errs := validation.Errors{}
	if r.InstanceID == uuid.Nil {
		errs["instance_id"] = validation.NewError("validation_required", "instance id is required")
	}
	if r.DocumentID == uuid.Nil {
		errs["document_id"] = validation.NewError("validation_required", "document id is required")
	}
	if r.ActorID == uuid.Nil {
		errs["actor_id"] = validation.NewError("validation_required", "actor id is required")
	}
	return errs.Filter()
}

// ApproveRequest signs a document off at one level. The level must match the
// document's next pending level exactly.
type ApproveRequest struct {
	InstanceID uuid.UUID
	DocumentID uuid.UUID
	ActorID    uuid.UUID
	Level      int
}

// Validate checks the request payload.
func (r ApproveRequest) Validate() error {
	errs := validation.Errors{}
	if r.InstanceID == uuid.Nil {
		errs["instance_id"] = validation.NewError("validation_required", "instance id is required")
	}
	if r.DocumentID == uuid.Nil {
		errs["document_id"] = validation.NewError("validation_required", "document id is required")
	}
	if r.ActorID == uuid.Nil {
		errs["actor_id"] = validation.NewError("validation_required", "actor id is required")
	}
	if r.Level < 1 || r.Level > domain.MaxApprovalLevel {
		errs["level"] = validation.NewError("validation_range", "approval level must be between 1 and 3")
	}
	return errs.Filter()
}

// RejectRequest turns a document down. A non-empty comment is mandatory.
type RejectRequest struct {
	InstanceID uuid.UUID
	DocumentID uuid.UUID
	ActorID    uuid.UUID
	Comment    string
}

// Validate checks the request payload.
func (r RejectRequest) Validate() error {
	errs := validation.Errors{}
	if r.InstanceID == uuid.Nil {
		errs["instance_id"] = validation.NewError("validation_required", "instance id is required")
	}
	if r.DocumentID == uuid.Nil {
		errs["document_id"] = validation.NewError("validation_required", "document id is required")
	}
	if r.ActorID == uuid.Nil {
		errs["actor_id"] = validation.NewError("validation_required", "actor id is required")
	}
	if strings.TrimSpace(r.Comment) == "" {
		errs["comment"] = validation.NewError("validation_required", "a rejection comment is required")
	}
	return errs.Filter()
}

// ServiceOption configures the service at construction time.
type ServiceOption func(*service)

// WithClock overrides the clock used to stamp records.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

type IDGenerator func() uuid.UUID

func WithIDGenerator(generator IDGenerator) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

// WithEngine overrides the workflow engine evaluating transitions.
func WithEngine(engine *workflow.Engine) ServiceOption {
	return func(s *service) {
		if engine != nil {
			s.engine = engine
		}
	}
}

// WithDispatcher overrides the notification dispatcher.
func WithDispatcher(dispatcher notify.Dispatcher) ServiceOption {
	return func(s *service) {
		if dispatcher != nil {
			s.dispatcher = dispatcher
		}
	}
}

// WithNotificationsEnabled toggles notification intents entirely.
func WithNotificationsEnabled(enabled bool) ServiceOption {
	return func(s *service) {
		s.notificationsEnabled = enabled
	}
}

// WithLoggerProvider wires the service's loggers off the host provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) ServiceOption {
	return func(s *service) {
		if provider != nil {
			s.log = logging.DocumentsLogger(provider)
			s.workflowLog = logging.WorkflowLogger(provider)
			s.notifyLog = logging.NotifyLogger(provider)
		}
	}
}

// service implements Service.
type service struct {
	store                Repository
	instances            InstanceRepository
	catalog              *catalog.Catalog
	registry             approvers.Registry
	auth                 interfaces.Authorizer
	engine               *workflow.Engine
	dispatcher           notify.Dispatcher
	log                  interfaces.Logger
	workflowLog          interfaces.Logger
	notifyLog            interfaces.Logger
	now                  func() time.Time
	id                   IDGenerator
	notificationsEnabled bool
}

// NewService constructs a document service with the required dependencies.
func NewService(store Repository, instances InstanceRepository, cat *catalog.Catalog, registry approvers.Registry, auth interfaces.Authorizer, opts ...ServiceOption) Service {
	s := &service{
		store:                store,
		instances:            instances,
		catalog:              cat,
		registry:             registry,
		auth:                 auth,
		engine:               workflow.NewDocumentEngine(),
		dispatcher:           notify.NewLoggerDispatcher(nil),
		log:                  logging.NoOp(),
		workflowLog:          logging.NoOp(),
		notifyLog:            logging.NoOp(),
		now:                  time.Now,
		id:                   uuid.New,
		notificationsEnabled: true,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// RegisterInstance opens a new workflow instance.
func (s *service) RegisterInstance(ctx context.Context, req RegisterInstanceRequest) (*Instance, error) {
	if err := req.Validate(); err != nil {
		return nil, wrapValidationError(err, "documents: invalid instance request")
	}

	now := s.now().UTC()
	instance := &Instance{
		ID:        s.id(),
		Name:      strings.TrimSpace(req.Name),
		CourseRef: req.CourseRef,
		CreatedAt: now,
		UpdatedAt: now,
	}

	return s.instances.Insert(ctx, instance)
}

// PurgeInstance removes an instance and the documents it owns.
func (s *service) PurgeInstance(ctx context.Context, instanceID uuid.UUID) error {
	if _, err := s.instances.GetByID(ctx, instanceID); err != nil {
		return err
	}
	if err := s.store.DeleteByInstance(ctx, instanceID); err != nil {
		return err
	}
	return s.instances.Delete(ctx, instanceID)
}

// Create records a draft document after resolving its catalog slot.
func (s *service) Create(ctx context.Context, req CreateDocumentRequest) (*Document, error) {
	if err := req.Validate(); err != nil {
		return nil, wrapValidationError(err, "documents: invalid create request")
	}

	if _, err := s.instances.GetByID(ctx, req.InstanceID); err != nil {
		return nil, err
	}

	category, docType, err := s.catalog.Resolve(req.Category, req.DocType)
	if err != nil {
		return nil, &CatalogMismatchError{Category: req.Category, DocType: req.DocType, cause: err}
	}

	now := s.now().UTC()
	doc := &Document{
		ID:         s.id(),
		InstanceID: req.InstanceID,
		Category:   category.Key,
		DocType:    docType.Key,
		Filename:   strings.TrimSpace(req.Filename),
		StorageKey: strings.TrimSpace(req.StorageKey),
		OwnerID:    req.OwnerID,
		Status:     domain.StatusDraft,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	created, err := s.store.Insert(ctx, doc)
	if err != nil {
		return nil, err
	}

	s.log.Debug("document created",
		"document_id", created.ID.String(),
		"category", created.Category,
		"doc_type", created.DocType,
	)
	return created, nil
}

// Get loads a document scoped to its instance.
func (s *service) Get(ctx context.Context, instanceID, documentID uuid.UUID) (*Document, error) {
	return s.store.GetByID(ctx, instanceID, documentID)
}

// ListByCategory lists an instance's documents under one catalog category.
func (s *service) ListByCategory(ctx context.Context, instanceID uuid.UUID, category string) ([]*Document, error) {
	resolved, err := s.catalog.Category(category)
	if err != nil {
		return nil, &CatalogMismatchError{Category: category, cause: err}
	}
	return s.store.ListByCategory(ctx, instanceID, resolved.Key)
}

// Submit moves a draft into review and alerts the first approval level.
func (s *service) Submit(ctx context.Context, req SubmitRequest) (*Document, error) {
	if err := req.Validate(); err != nil {
		return nil, wrapValidationError(err, "documents: invalid submit request")
	}

	doc, err := s.store.GetByID(ctx, req.InstanceID, req.DocumentID)
	if err != nil {
		return nil, err
	}

	if req.ActorID != doc.OwnerID {
		allowed, err := s.auth.HasCapability(ctx, req.ActorID, permissions.DocumentsSubmitAny, doc.InstanceID)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, permissions.Error{Permission: permissions.DocumentsSubmitAny}
		}
	}

	transition, err := s.engine.Lookup(workflow.TransitionSubmit, interfaces.WorkflowState(doc.Status))
	if err != nil {
		return nil, s.invalidState(doc, workflow.TransitionSubmit, err)
	}

	updated, err := s.transition(ctx, doc, domain.Status(transition.To))
	if err != nil {
		return nil, err
	}

	s.notifyLevel(ctx, updated, req.ActorID, 1)
	return updated, nil
}

// Approve signs a document off at the requested level. The level must be the
// document's next pending level and the actor must hold both the coarse
// capability and an approver slot for it.
func (s *service) Approve(ctx context.Context, req ApproveRequest) (*Document, error) {
	if err := req.Validate(); err != nil {
		return nil, wrapValidationError(err, "documents: invalid approve request")
	}

	doc, err := s.store.GetByID(ctx, req.InstanceID, req.DocumentID)
	if err != nil {
		return nil, err
	}

	capability := permissions.ApproveLevel(req.Level)
	allowed, err := s.auth.HasCapability(ctx, req.ActorID, capability, doc.InstanceID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, permissions.Error{Permission: capability}
	}

	key := approvers.Key{Category: doc.Category, DocType: doc.DocType, Level: req.Level}
	member, err := s.registry.IsApprover(ctx, doc.InstanceID, key, req.ActorID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, &NotAnApproverError{UserID: req.ActorID, Key: key}
	}

	name := workflow.ApproveTransition(req.Level)
	transition, err := s.engine.Lookup(name, interfaces.WorkflowState(doc.Status))
	if err != nil {
		return nil, s.invalidState(doc, name, err)
	}

	updated, err := s.transition(ctx, doc, domain.Status(transition.To))
	if err != nil {
		return nil, err
	}

	approval := &Approval{
		ID:         s.id(),
		DocumentID: updated.ID,
		UserID:     req.ActorID,
		Level:      req.Level,
		ApprovedAt: updated.UpdatedAt,
	}
	if err := s.store.InsertApproval(ctx, approval); err != nil {
		return nil, err
	}

	if updated.Status == domain.StatusApprovedFinal {
		s.notifyOwner(ctx, updated, req.ActorID, req.Level, "", interfaces.NotificationApproved)
	} else {
		s.notifyLevel(ctx, updated, req.ActorID, req.Level+1)
	}
	return updated, nil
}

// Reject turns a document down with a mandatory comment. The actor must hold
// an approval capability at some level and sit on the approver list for the
// document's next pending level.
func (s *service) Reject(ctx context.Context, req RejectRequest) (*Document, error) {
	if err := req.Validate(); err != nil {
		return nil, wrapValidationError(err, "documents: invalid reject request")
	}

	doc, err := s.store.GetByID(ctx, req.InstanceID, req.DocumentID)
	if err != nil {
		return nil, err
	}

	allowed := false
	for _, capability := range permissions.ApproveLevels() {
		ok, err := s.auth.HasCapability(ctx, req.ActorID, capability, doc.InstanceID)
		if err != nil {
			return nil, err
		}
		if ok {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, permissions.Error{Permission: permissions.DocumentsApproveAny}
	}

	pending := domain.NextPendingLevel(doc.Status)
	if pending == 0 {
		return nil, s.invalidState(doc, workflow.TransitionReject, workflow.ErrInvalidTransition)
	}

	key := approvers.Key{Category: doc.Category, DocType: doc.DocType, Level: pending}
	member, err := s.registry.IsApprover(ctx, doc.InstanceID, key, req.ActorID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, &NotAnApproverError{UserID: req.ActorID, Key: key}
	}

	transition, err := s.engine.Lookup(workflow.TransitionReject, interfaces.WorkflowState(doc.Status))
	if err != nil {
		return nil, s.invalidState(doc, workflow.TransitionReject, err)
	}

	updated, err := s.transition(ctx, doc, domain.Status(transition.To))
	if err != nil {
		return nil, err
	}

	comment := strings.TrimSpace(req.Comment)
	rejection := &Rejection{
		ID:         s.id(),
		DocumentID: updated.ID,
		UserID:     req.ActorID,
		RejectedAt: updated.UpdatedAt,
		Comment:    comment,
	}
	if err := s.store.InsertRejection(ctx, rejection); err != nil {
		return nil, err
	}

	s.notifyOwner(ctx, updated, req.ActorID, pending, comment, interfaces.NotificationRejected)
	return updated, nil
}

// ListApprovals returns a document's approval records, oldest first.
func (s *service) ListApprovals(ctx context.Context, instanceID, documentID uuid.UUID) ([]*Approval, error) {
	if _, err := s.store.GetByID(ctx, instanceID, documentID); err != nil {
		return nil, err
	}
	return s.store.ListApprovals(ctx, documentID)
}

// ListRejections returns a document's rejection records, newest first.
func (s *service) ListRejections(ctx context.Context, instanceID, documentID uuid.UUID) ([]*Rejection, error) {
	if _, err := s.store.GetByID(ctx, instanceID, documentID); err != nil {
		return nil, err
	}
	return s.store.ListRejections(ctx, documentID)
}

// OwnerOutline summarizes a user's documents inside an instance.
func (s *service) OwnerOutline(ctx context.Context, instanceID, ownerID uuid.UUID) (*OwnerOutline, error) {
	if _, err := s.instances.GetByID(ctx, instanceID); err != nil {
		return nil, err
	}
	return s.store.OwnerOutline(ctx, instanceID, ownerID)
}

// transition applies a compare-and-swap status move. A lost race surfaces as
// a StaleStateError and leaves the stored record untouched.
func (s *service) transition(ctx context.Context, doc *Document, next domain.Status) (*Document, error) {
	now := s.now().UTC()
	ok, err := s.store.CompareAndUpdateStatus(ctx, doc.ID, doc.Status, next, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &StaleStateError{DocumentID: doc.ID, Expected: doc.Status}
	}

	updated := *doc
	updated.Status = next
	updated.UpdatedAt = now

	s.workflowLog.Info("document transitioned",
		"document_id", updated.ID.String(),
		"from", string(doc.Status),
		"to", string(next),
	)
	return &updated, nil
}

func (s *service) invalidState(doc *Document, transition string, cause error) error {
	s.workflowLog.Debug("transition refused",
		"document_id", doc.ID.String(),
		"status", string(doc.Status),
		"transition", transition,
		"reason", cause.Error(),
	)
	return &InvalidStateError{DocumentID: doc.ID, Status: doc.Status, Transition: transition}
}

// notifyLevel emits an approval-needed intent to the approvers of the given
// level. Dispatch runs after the transition committed and never fails it.
func (s *service) notifyLevel(ctx context.Context, doc *Document, actorID uuid.UUID, level int) {
	if !s.notificationsEnabled || level < 1 || level > domain.MaxApprovalLevel {
		return
	}

	key := approvers.Key{Category: doc.Category, DocType: doc.DocType, Level: level}
	recipients, err := s.registry.Approvers(ctx, doc.InstanceID, key)
	if err != nil {
		s.notifyLog.Warn("approver lookup failed", "document_id", doc.ID.String(), "error", err.Error())
		return
	}
	if len(recipients) == 0 {
		s.notifyLog.Debug("no approvers configured", "document_id", doc.ID.String(), "level", level)
		return
	}

	nctx := s.notificationContext(ctx, doc, actorID, level, "")
	ctx = logging.ContextWithFields(ctx, map[string]any{
		"category": doc.Category,
		"level":    level,
	})
	if err := s.dispatcher.Dispatch(ctx, notify.ApprovalNeeded(recipients, nctx)); err != nil {
		s.notifyLog.Warn("notification dispatch failed", "document_id", doc.ID.String(), "error", err.Error())
	}
}

func (s *service) notifyOwner(ctx context.Context, doc *Document, actorID uuid.UUID, level int, comment string, template interfaces.NotificationTemplate) {
	if !s.notificationsEnabled {
		return
	}

	nctx := s.notificationContext(ctx, doc, actorID, level, comment)
	var intent interfaces.NotificationIntent
	switch template {
	case interfaces.NotificationRejected:
		intent = notify.Rejected(nctx)
	default:
		intent = notify.Approved(nctx)
	}
	if err := s.dispatcher.Dispatch(ctx, intent); err != nil {
		s.notifyLog.Warn("notification dispatch failed", "document_id", doc.ID.String(), "error", err.Error())
	}
}

func (s *service) notificationContext(ctx context.Context, doc *Document, actorID uuid.UUID, level int, comment string) interfaces.NotificationContext {
	nctx := interfaces.NotificationContext{
		InstanceID: doc.InstanceID,
		DocumentID: doc.ID,
		Category:   doc.Category,
		DocType:    doc.DocType,
		Filename:   doc.Filename,
		OwnerID:    doc.OwnerID,
		ActorID:    actorID,
		Level:      level,
		Comment:    comment,
	}

	if category, docType, err := s.catalog.Resolve(doc.Category, doc.DocType); err == nil {
		nctx.CategoryTitle = category.Title
		nctx.DocTypeTitle = docType.Title
	}
	if instance, err := s.instances.GetByID(ctx, doc.InstanceID); err == nil {
		nctx.InstanceName = instance.Name
	}
	return nctx
}
