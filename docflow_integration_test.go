package docflow_test

import (
	"context"
	"errors"
	"testing"

	docflow "github.com/goliatone/go-docflow"
	"github.com/goliatone/go-docflow/internal/documents"
	"github.com/goliatone/go-docflow/internal/notify"
	"github.com/goliatone/go-docflow/internal/permissions"
	"github.com/goliatone/go-docflow/pkg/testsupport"
	"github.com/google/uuid"
)

// grantTable maps users to capability tokens for integration scenarios.
type grantTable map[uuid.UUID][]string

func (g grantTable) HasCapability(_ context.Context, userID uuid.UUID, capability string, _ uuid.UUID) (bool, error) {
	for _, granted := range g[userID] {
		if granted == capability {
			return true, nil
		}
	}
	return false, nil
}

func TestModuleLifecycleMemory(t *testing.T) {
	ctx := context.Background()

	owner := uuid.New()
	l1 := uuid.New()
	l2 := uuid.New()
	l3 := uuid.New()

	grants := grantTable{
		owner: {permissions.DocumentsSubmit},
		l1:    {permissions.ApproveLevel(1)},
		l2:    {permissions.ApproveLevel(2)},
		l3:    {permissions.ApproveLevel(3)},
	}

	cfg := docflow.DefaultConfig()
	dispatcher := notify.NewMemoryDispatcher()

	module, err := docflow.New(cfg,
		docflow.WithAuthorizer(grants),
		docflow.WithDispatcher(dispatcher),
	)
	if err != nil {
		t.Fatalf("docflow.New: %v", err)
	}

	svc := module.Documents()
	instance, err := svc.RegisterInstance(ctx, docflow.RegisterInstanceRequest{Name: "Programme Review"})
	if err != nil {
		t.Fatalf("RegisterInstance: %v", err)
	}

	registry := module.ApproverRegistry()
	memory := registry.(interface {
		Assign(instanceID uuid.UUID, key docflow.ApproverKey, userIDs ...uuid.UUID) error
	})
	for level, user := range map[int]uuid.UUID{1: l1, 2: l2, 3: l3} {
		key := docflow.ApproverKey{Category: "quality_assurance", DocType: "peer_review", Level: level}
		if err := memory.Assign(instance.ID, key, user); err != nil {
			t.Fatalf("assign level %d: %v", level, err)
		}
	}

	doc, err := svc.Create(ctx, docflow.CreateDocumentRequest{
		InstanceID: instance.ID,
		Category:   "quality_assurance",
		DocType:    "peer_review",
		Filename:   "peer-review-2026.pdf",
		StorageKey: "qa/peer-review-2026.pdf",
		OwnerID:    owner,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Submit(ctx, docflow.SubmitRequest{InstanceID: instance.ID, DocumentID: doc.ID, ActorID: owner}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	for level := 1; level <= docflow.MaxApprovalLevel; level++ {
		actor := map[int]uuid.UUID{1: l1, 2: l2, 3: l3}[level]
		if _, err := svc.Approve(ctx, docflow.ApproveRequest{
			InstanceID: instance.ID,
			DocumentID: doc.ID,
			ActorID:    actor,
			Level:      level,
		}); err != nil {
			t.Fatalf("Approve level %d: %v", level, err)
		}
	}

	final, err := svc.Get(ctx, instance.ID, doc.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if final.Status != docflow.StatusApprovedFinal {
		t.Fatalf("expected approved_final, got %q", final.Status)
	}

	approvals, err := svc.ListApprovals(ctx, instance.ID, doc.ID)
	if err != nil {
		t.Fatalf("ListApprovals: %v", err)
	}
	if len(approvals) != 3 {
		t.Fatalf("expected 3 approvals, got %d", len(approvals))
	}

	if got := len(dispatcher.Intents()); got != 4 {
		t.Fatalf("expected 3 approval_needed plus 1 approved intent, got %d", got)
	}
}

func TestModuleLifecycleBun(t *testing.T) {
	ctx := context.Background()

	db, err := testsupport.NewBunSQLite()
	if err != nil {
		t.Fatalf("new sqlite db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := docflow.CreateSchema(ctx, db); err != nil {
		t.Fatalf("CreateSchema: %v", err)
	}

	owner := uuid.New()
	reviewer := uuid.New()
	grants := grantTable{
		owner:    {permissions.DocumentsSubmit},
		reviewer: {permissions.ApproveLevel(1)},
	}

	cfg := docflow.DefaultConfig()
	cfg.Storage.Provider = "bun"

	module, err := docflow.New(cfg,
		docflow.WithBunDB(db),
		docflow.WithAuthorizer(grants),
	)
	if err != nil {
		t.Fatalf("docflow.New: %v", err)
	}

	svc := module.Documents()
	instance, err := svc.RegisterInstance(ctx, docflow.RegisterInstanceRequest{Name: "Persisted Review"})
	if err != nil {
		t.Fatalf("RegisterInstance: %v", err)
	}

	bunRegistry := module.ApproverRegistry().(interface {
		Assign(ctx context.Context, instanceID uuid.UUID, key docflow.ApproverKey, userIDs ...uuid.UUID) error
	})
	key := docflow.ApproverKey{Category: "course_specs", DocType: "syllabus", Level: 1}
	if err := bunRegistry.Assign(ctx, instance.ID, key, reviewer); err != nil {
		t.Fatalf("assign: %v", err)
	}

	doc, err := svc.Create(ctx, docflow.CreateDocumentRequest{
		InstanceID: instance.ID,
		Category:   "course_specs",
		DocType:    "syllabus",
		Filename:   "syllabus.pdf",
		StorageKey: "specs/syllabus.pdf",
		OwnerID:    owner,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Submit(ctx, docflow.SubmitRequest{InstanceID: instance.ID, DocumentID: doc.ID, ActorID: owner}); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	rejected, err := svc.Reject(ctx, docflow.RejectRequest{
		InstanceID: instance.ID,
		DocumentID: doc.ID,
		ActorID:    reviewer,
		Comment:    "scope section missing",
	})
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if rejected.Status != docflow.StatusRejected {
		t.Fatalf("expected rejected, got %q", rejected.Status)
	}

	// Rejection is terminal, even for the owner.
	_, err = svc.Submit(ctx, docflow.SubmitRequest{InstanceID: instance.ID, DocumentID: doc.ID, ActorID: owner})
	if !errors.Is(err, documents.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState after rejection, got %v", err)
	}

	rejections, err := svc.ListRejections(ctx, instance.ID, doc.ID)
	if err != nil {
		t.Fatalf("ListRejections: %v", err)
	}
	if len(rejections) != 1 || rejections[0].Comment != "scope section missing" {
		t.Fatalf("rejection history mismatch: %+v", rejections)
	}

	if err := svc.PurgeInstance(ctx, instance.ID); err != nil {
		t.Fatalf("PurgeInstance: %v", err)
	}
	if _, err := svc.Get(ctx, instance.ID, doc.ID); !documents.IsNotFound(err) {
		t.Fatalf("purged document must miss, got %v", err)
	}
}
