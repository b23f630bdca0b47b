package documents_test

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-docflow/internal/documents"
	"github.com/goliatone/go-docflow/internal/domain"
	"github.com/goliatone/go-docflow/pkg/testsupport"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func newDocumentDB(t *testing.T) *bun.DB {
	t.Helper()

	db, err := testsupport.NewBunSQLite()
	if err != nil {
		t.Fatalf("new sqlite db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	err = testsupport.CreateTables(context.Background(), db,
		(*documents.Instance)(nil),
		(*documents.Document)(nil),
		(*documents.Approval)(nil),
		(*documents.Rejection)(nil),
	)
	if err != nil {
		t.Fatalf("create tables: %v", err)
	}
	return db
}

func seedDocument(t *testing.T, repo *documents.BunRepository, instanceID, ownerID uuid.UUID) *documents.Document {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Second)
	doc, err := repo.Insert(context.Background(), &documents.Document{
		ID:         uuid.New(),
		InstanceID: instanceID,
		Category:   "course_specs",
		DocType:    "syllabus",
		Filename:   "syllabus.pdf",
		StorageKey: "docs/syllabus.pdf",
		OwnerID:    ownerID,
		Status:     domain.StatusDraft,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		t.Fatalf("insert document: %v", err)
	}
	return doc
}

func TestBunRepositoryGetScopedToInstance(t *testing.T) {
	ctx := context.Background()
	db := newDocumentDB(t)
	repo := documents.NewBunRepository(db)

	instanceID := uuid.New()
	doc := seedDocument(t, repo, instanceID, uuid.New())

	loaded, err := repo.GetByID(ctx, instanceID, doc.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded.Status != domain.StatusDraft {
		t.Fatalf("expected draft got %q", loaded.Status)
	}

	if _, err := repo.GetByID(ctx, uuid.New(), doc.ID); !documents.IsNotFound(err) {
		t.Fatalf("cross-instance get must miss, got %v", err)
	}
}

func TestBunRepositoryListByCategoryOrdering(t *testing.T) {
	ctx := context.Background()
	db := newDocumentDB(t)
	repo := documents.NewBunRepository(db)

	instanceID := uuid.New()
	ownerID := uuid.New()
	base := time.Now().UTC().Truncate(time.Second)

	insert := func(docType string, updatedAt time.Time) uuid.UUID {
		t.Helper()
		doc, err := repo.Insert(ctx, &documents.Document{
			ID:         uuid.New(),
			InstanceID: instanceID,
			Category:   "course_specs",
			DocType:    docType,
			Filename:   docType + ".pdf",
			StorageKey: "docs/" + docType + ".pdf",
			OwnerID:    ownerID,
			Status:     domain.StatusDraft,
			CreatedAt:  base,
			UpdatedAt:  updatedAt,
		})
		if err != nil {
			t.Fatalf("insert %s: %v", docType, err)
		}
		return doc.ID
	}

	syllabus := insert("syllabus", base)
	outcomesOld := insert("learning_outcomes", base.Add(-time.Hour))
	outcomesNew := insert("learning_outcomes", base.Add(time.Hour))

	docs, err := repo.ListByCategory(ctx, instanceID, "course_specs")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []uuid.UUID{outcomesNew, outcomesOld, syllabus}
	if len(docs) != len(want) {
		t.Fatalf("expected %d documents, got %d", len(want), len(docs))
	}
	for i, id := range want {
		if docs[i].ID != id {
			t.Fatalf("position %d: expected %s got %s (%s)", i, id, docs[i].ID, docs[i].DocType)
		}
	}
}

func TestBunRepositoryCompareAndUpdateStatus(t *testing.T) {
	ctx := context.Background()
	db := newDocumentDB(t)
	repo := documents.NewBunRepository(db)

	instanceID := uuid.New()
	doc := seedDocument(t, repo, instanceID, uuid.New())

	now := time.Now().UTC().Truncate(time.Second)
	ok, err := repo.CompareAndUpdateStatus(ctx, doc.ID, domain.StatusDraft, domain.StatusSubmitted, now)
	if err != nil {
		t.Fatalf("cas: %v", err)
	}
	if !ok {
		t.Fatal("expected first swap to win")
	}

	// Same precondition again loses: the row already moved.
	ok, err = repo.CompareAndUpdateStatus(ctx, doc.ID, domain.StatusDraft, domain.StatusSubmitted, now)
	if err != nil {
		t.Fatalf("cas: %v", err)
	}
	if ok {
		t.Fatal("stale precondition must not update")
	}

	loaded, err := repo.GetByID(ctx, instanceID, doc.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded.Status != domain.StatusSubmitted {
		t.Fatalf("expected submitted got %q", loaded.Status)
	}
}

func TestBunRepositoryHistoryOrdering(t *testing.T) {
	ctx := context.Background()
	db := newDocumentDB(t)
	repo := documents.NewBunRepository(db)

	instanceID := uuid.New()
	doc := seedDocument(t, repo, instanceID, uuid.New())

	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	for level := 1; level <= 3; level++ {
		err := repo.InsertApproval(ctx, &documents.Approval{
			ID:         uuid.New(),
			DocumentID: doc.ID,
			UserID:     uuid.New(),
			Level:      level,
			ApprovedAt: base.Add(time.Duration(level) * time.Hour),
		})
		if err != nil {
			t.Fatalf("insert approval %d: %v", level, err)
		}
	}

	approvals, err := repo.ListApprovals(ctx, doc.ID)
	if err != nil {
		t.Fatalf("list approvals: %v", err)
	}
	if len(approvals) != 3 {
		t.Fatalf("expected 3 approvals got %d", len(approvals))
	}
	for i, record := range approvals {
		if record.Level != i+1 {
			t.Fatalf("approvals must list oldest first, index %d holds level %d", i, record.Level)
		}
	}

	for i := 0; i < 2; i++ {
		err := repo.InsertRejection(ctx, &documents.Rejection{
			ID:         uuid.New(),
			DocumentID: doc.ID,
			UserID:     uuid.New(),
			RejectedAt: base.Add(time.Duration(i) * time.Hour),
			Comment:    "needs work",
		})
		if err != nil {
			t.Fatalf("insert rejection %d: %v", i, err)
		}
	}

	rejections, err := repo.ListRejections(ctx, doc.ID)
	if err != nil {
		t.Fatalf("list rejections: %v", err)
	}
	if len(rejections) != 2 {
		t.Fatalf("expected 2 rejections got %d", len(rejections))
	}
	if !rejections[0].RejectedAt.After(rejections[1].RejectedAt) {
		t.Fatal("rejections must list newest first")
	}
}

func TestBunRepositoryOwnerOutline(t *testing.T) {
	ctx := context.Background()
	db := newDocumentDB(t)
	repo := documents.NewBunRepository(db)

	instanceID := uuid.New()
	ownerID := uuid.New()

	first := seedDocument(t, repo, instanceID, ownerID)
	seedDocument(t, repo, instanceID, ownerID)
	seedDocument(t, repo, instanceID, uuid.New())

	now := time.Now().UTC().Truncate(time.Second)
	if _, err := repo.CompareAndUpdateStatus(ctx, first.ID, domain.StatusDraft, domain.StatusApprovedFinal, now); err != nil {
		t.Fatalf("cas: %v", err)
	}

	outline, err := repo.OwnerOutline(ctx, instanceID, ownerID)
	if err != nil {
		t.Fatalf("outline: %v", err)
	}
	if outline.Submitted != 2 {
		t.Fatalf("expected 2 documents got %d", outline.Submitted)
	}
	if outline.Approved != 1 {
		t.Fatalf("expected 1 approved got %d", outline.Approved)
	}
	if outline.LastModified == nil {
		t.Fatal("expected last modified timestamp")
	}
}

func TestBunRepositoryDeleteByInstanceCascades(t *testing.T) {
	ctx := context.Background()
	db := newDocumentDB(t)
	repo := documents.NewBunRepository(db)

	instanceID := uuid.New()
	doc := seedDocument(t, repo, instanceID, uuid.New())
	keep := seedDocument(t, repo, uuid.New(), uuid.New())

	err := repo.InsertApproval(ctx, &documents.Approval{
		ID:         uuid.New(),
		DocumentID: doc.ID,
		UserID:     uuid.New(),
		Level:      1,
		ApprovedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("insert approval: %v", err)
	}

	if err := repo.DeleteByInstance(ctx, instanceID); err != nil {
		t.Fatalf("delete by instance: %v", err)
	}

	if _, err := repo.GetByID(ctx, instanceID, doc.ID); !documents.IsNotFound(err) {
		t.Fatalf("document must be gone, got %v", err)
	}
	approvals, err := repo.ListApprovals(ctx, doc.ID)
	if err != nil {
		t.Fatalf("list approvals: %v", err)
	}
	if len(approvals) != 0 {
		t.Fatalf("history must cascade, got %d records", len(approvals))
	}

	if _, err := repo.GetByID(ctx, keep.InstanceID, keep.ID); err != nil {
		t.Fatalf("other instances must be untouched: %v", err)
	}
}

func TestBunInstanceRepository(t *testing.T) {
	ctx := context.Background()
	db := newDocumentDB(t)
	repo := documents.NewBunInstanceRepository(db)

	instance, err := repo.Insert(ctx, &documents.Instance{
		ID:        uuid.New(),
		Name:      "Spring Review",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	loaded, err := repo.GetByID(ctx, instance.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded.Name != "Spring Review" {
		t.Fatalf("expected name round trip, got %q", loaded.Name)
	}

	if err := repo.Delete(ctx, instance.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, instance.ID); !documents.IsNotFound(err) {
		t.Fatalf("deleted instance must miss, got %v", err)
	}
	if err := repo.Delete(ctx, instance.ID); !documents.IsNotFound(err) {
		t.Fatalf("double delete must miss, got %v", err)
	}
}
