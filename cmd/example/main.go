// Command example walks a document through the full approval workflow on an
// in-memory SQLite database and prints each step.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	docflow "github.com/goliatone/go-docflow"
	"github.com/goliatone/go-docflow/internal/notify"
	"github.com/goliatone/go-docflow/internal/permissions"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

type grantTable map[uuid.UUID][]string

func (g grantTable) HasCapability(_ context.Context, userID uuid.UUID, capability string, _ uuid.UUID) (bool, error) {
	for _, granted := range g[userID] {
		if granted == capability {
			return true, nil
		}
	}
	return false, nil
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("example: %v", err)
	}
}

func run() error {
	ctx := context.Background()

	sqldb, err := sql.Open("sqlite3", "file::memory:?cache=shared")
	if err != nil {
		return err
	}
	sqldb.SetMaxOpenConns(1)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	defer db.Close()

	if err := docflow.CreateSchema(ctx, db); err != nil {
		return err
	}

	owner := uuid.New()
	deptHead := uuid.New()
	dean := uuid.New()
	qaOffice := uuid.New()

	grants := grantTable{
		owner:    {permissions.DocumentsSubmit},
		deptHead: {permissions.ApproveLevel(1)},
		dean:     {permissions.ApproveLevel(2)},
		qaOffice: {permissions.ApproveLevel(3)},
	}

	dispatcher := notify.NewMemoryDispatcher()

	cfg := docflow.DefaultConfig()
	cfg.Storage.Provider = "bun"
	cfg.Features.Logger = true
	cfg.Logging = docflow.LoggingConfig{Provider: "gologger", Level: "info", Format: "console"}

	module, err := docflow.New(cfg,
		docflow.WithBunDB(db),
		docflow.WithAuthorizer(grants),
		docflow.WithDispatcher(dispatcher),
	)
	if err != nil {
		return err
	}

	svc := module.Documents()

	instance, err := svc.RegisterInstance(ctx, docflow.RegisterInstanceRequest{Name: "Computer Science BSc Review"})
	if err != nil {
		return err
	}
	fmt.Printf("instance %s (%s)\n", instance.Name, instance.ID)

	registry := module.ApproverRegistry().(interface {
		Assign(ctx context.Context, instanceID uuid.UUID, key docflow.ApproverKey, userIDs ...uuid.UUID) error
	})
	assignments := map[int]uuid.UUID{1: deptHead, 2: dean, 3: qaOffice}
	for level, user := range assignments {
		key := docflow.ApproverKey{Category: "course_specs", DocType: "syllabus", Level: level}
		if err := registry.Assign(ctx, instance.ID, key, user); err != nil {
			return err
		}
	}

	doc, err := svc.Create(ctx, docflow.CreateDocumentRequest{
		InstanceID: instance.ID,
		Category:   "course_specs",
		DocType:    "syllabus",
		Filename:   "cs101-syllabus.pdf",
		StorageKey: "reviews/cs-bsc/cs101-syllabus.pdf",
		OwnerID:    owner,
	})
	if err != nil {
		return err
	}
	fmt.Printf("created %s as %s\n", doc.Filename, doc.Status.Label())

	doc, err = svc.Submit(ctx, docflow.SubmitRequest{
		InstanceID: instance.ID,
		DocumentID: doc.ID,
		ActorID:    owner,
	})
	if err != nil {
		return err
	}
	fmt.Printf("submitted, now %s\n", doc.Status.Label())

	for level := 1; level <= docflow.MaxApprovalLevel; level++ {
		doc, err = svc.Approve(ctx, docflow.ApproveRequest{
			InstanceID: instance.ID,
			DocumentID: doc.ID,
			ActorID:    assignments[level],
			Level:      level,
		})
		if err != nil {
			return err
		}
		fmt.Printf("approved at level %d, now %s\n", level, doc.Status.Label())
	}

	approvals, err := svc.ListApprovals(ctx, instance.ID, doc.ID)
	if err != nil {
		return err
	}
	fmt.Printf("approval trail: %d records\n", len(approvals))
	for _, record := range approvals {
		fmt.Printf("  level %d by %s at %s\n", record.Level, record.UserID, record.ApprovedAt.Format("2006-01-02 15:04:05"))
	}

	outline, err := svc.OwnerOutline(ctx, instance.ID, owner)
	if err != nil {
		return err
	}
	fmt.Printf("owner outline: %d submitted, %d fully approved\n", outline.Submitted, outline.Approved)

	fmt.Println("notification intents:")
	for _, intent := range dispatcher.Intents() {
		fmt.Printf("  %s -> %d recipient(s) for %q\n", intent.Template, len(intent.Recipients), intent.Context.Filename)
	}

	return nil
}
