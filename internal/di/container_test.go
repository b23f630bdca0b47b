package di_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-docflow/internal/approvers"
	"github.com/goliatone/go-docflow/internal/di"
	"github.com/goliatone/go-docflow/internal/documents"
	"github.com/goliatone/go-docflow/internal/runtimeconfig"
	"github.com/goliatone/go-docflow/pkg/interfaces"
	"github.com/goliatone/go-docflow/pkg/testsupport"
	"github.com/google/uuid"
)

func allowEverything() interfaces.Authorizer {
	return interfaces.AuthorizerFunc(func(context.Context, uuid.UUID, string, uuid.UUID) (bool, error) {
		return true, nil
	})
}

func TestNewContainerDefaults(t *testing.T) {
	container, err := di.NewContainer(runtimeconfig.DefaultConfig())
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}

	if container.DocumentService() == nil {
		t.Fatal("document service must be wired")
	}
	if container.Catalog() == nil {
		t.Fatal("catalog must be compiled")
	}
	if container.WorkflowEngine() == nil {
		t.Fatal("workflow engine must be compiled")
	}
	if container.LoggerProvider() != nil {
		t.Fatal("logging defaults off")
	}
}

func TestNewContainerDisabled(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Enabled = false

	if _, err := di.NewContainer(cfg); !errors.Is(err, di.ErrModuleDisabled) {
		t.Fatalf("expected ErrModuleDisabled, got %v", err)
	}
}

func TestNewContainerBunRequiresDB(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Provider = "bun"

	if _, err := di.NewContainer(cfg); !errors.Is(err, di.ErrBunDBRequired) {
		t.Fatalf("expected ErrBunDBRequired, got %v", err)
	}

	db, err := testsupport.NewBunSQLite()
	if err != nil {
		t.Fatalf("new sqlite db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	container, err := di.NewContainer(cfg, di.WithBunDB(db))
	if err != nil {
		t.Fatalf("NewContainer with db: %v", err)
	}
	if _, ok := container.Registry().(*approvers.BunRegistry); !ok {
		t.Fatalf("bun storage should bind the bun registry, got %T", container.Registry())
	}
}

func TestNewContainerDeniesWithoutAuthorizer(t *testing.T) {
	ctx := context.Background()

	container, err := di.NewContainer(runtimeconfig.DefaultConfig())
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	svc := container.DocumentService()

	instance, err := svc.RegisterInstance(ctx, documents.RegisterInstanceRequest{Name: "Review"})
	if err != nil {
		t.Fatalf("RegisterInstance: %v", err)
	}
	doc, err := svc.Create(ctx, documents.CreateDocumentRequest{
		InstanceID: instance.ID,
		Category:   "course_specs",
		DocType:    "syllabus",
		Filename:   "syllabus.pdf",
		OwnerID:    uuid.New(),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// A non-owner without submit_any hits the deny-all fallback.
	if _, err := svc.Submit(ctx, documents.SubmitRequest{
		InstanceID: instance.ID,
		DocumentID: doc.ID,
		ActorID:    uuid.New(),
	}); err == nil {
		t.Fatal("expected denial from the fallback authorizer")
	}
}

func TestSeedApproversFromConfig(t *testing.T) {
	ctx := context.Background()
	reviewer := uuid.New()

	cfg := runtimeconfig.DefaultConfig()
	cfg.Approvers = runtimeconfig.ApproversConfig{
		Entries: []runtimeconfig.ApproverEntryConfig{
			{Category: "course_specs", DocType: "syllabus", Level: 1, UserIDs: []string{reviewer.String()}},
		},
	}

	container, err := di.NewContainer(cfg, di.WithAuthorizer(allowEverything()))
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}

	instanceID := uuid.New()
	if err := container.SeedApprovers(instanceID); err != nil {
		t.Fatalf("SeedApprovers: %v", err)
	}

	key := approvers.Key{Category: "course_specs", DocType: "syllabus", Level: 1}
	ok, err := container.Registry().IsApprover(ctx, instanceID, key, reviewer)
	if err != nil {
		t.Fatalf("IsApprover: %v", err)
	}
	if !ok {
		t.Fatal("configured approver should be seeded")
	}
}
