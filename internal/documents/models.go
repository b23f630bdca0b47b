package documents

import (
	"time"

	"github.com/goliatone/go-docflow/internal/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Instance is a workflow instance: one configured deployment of the approval
// process that documents belong to. Tearing an instance down cascades to its
// documents and their history.
type Instance struct {
	bun.BaseModel `bun:"table:workflow_instances,alias:wi"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Name      string    `bun:"name,notnull" json:"name"`
	CourseRef *string   `bun:"course_ref" json:"course_ref,omitempty"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Document is the unit of authority in the approval workflow. The category
// and doc type pairing is validated against the catalog at creation and never
// changes afterwards.
type Document struct {
	bun.BaseModel `bun:"table:documents,alias:d"`

	ID         uuid.UUID     `bun:",pk,type:uuid" json:"id"`
	InstanceID uuid.UUID     `bun:"instance_id,notnull,type:uuid" json:"instance_id"`
	Category   string        `bun:"category,notnull" json:"category"`
	DocType    string        `bun:"doc_type,notnull" json:"doc_type"`
	Filename   string        `bun:"filename,notnull" json:"filename"`
	StorageKey string        `bun:"storage_key,notnull" json:"storage_key"`
	OwnerID    uuid.UUID     `bun:"owner_id,notnull,type:uuid" json:"owner_id"`
	Status     domain.Status `bun:"status,notnull,default:'draft'" json:"status"`
	CreatedAt  time.Time     `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt  time.Time     `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`

	Approvals  []*Approval  `bun:"rel:has-many,join:id=document_id" json:"approvals,omitempty"`
	Rejections []*Rejection `bun:"rel:has-many,join:id=document_id" json:"rejections,omitempty"`
}

// Approval records one level signing off on a document. Records are append
// only and listed ascending by approval time.
type Approval struct {
	bun.BaseModel `bun:"table:document_approvals,alias:da"`

	ID         uuid.UUID `bun:",pk,type:uuid" json:"id"`
	DocumentID uuid.UUID `bun:"document_id,notnull,type:uuid" json:"document_id"`
	UserID     uuid.UUID `bun:"user_id,notnull,type:uuid" json:"user_id"`
	Level      int       `bun:"level,notnull" json:"level"`
	ApprovedAt time.Time `bun:"approved_at,notnull" json:"approved_at"`
	Comment    string    `bun:"comment,notnull,default:''" json:"comment"`
}

// Rejection records a reviewer turning a document down. Records are append
// only and listed descending by rejection time.
type Rejection struct {
	bun.BaseModel `bun:"table:document_rejections,alias:dr"`

	ID         uuid.UUID `bun:",pk,type:uuid" json:"id"`
	DocumentID uuid.UUID `bun:"document_id,notnull,type:uuid" json:"document_id"`
	UserID     uuid.UUID `bun:"user_id,notnull,type:uuid" json:"user_id"`
	RejectedAt time.Time `bun:"rejected_at,notnull" json:"rejected_at"`
	Comment    string    `bun:"comment,notnull" json:"comment"`
}

// OwnerOutline summarizes a user's activity inside an instance.
type OwnerOutline struct {
	Submitted    int
	Approved     int
	LastModified *time.Time
}
