package documents

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/goliatone/go-docflow/internal/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunRepository persists documents through bun.
type BunRepository struct {
	db *bun.DB
}

// NewBunRepository builds a document repository on top of a bun handle.
func NewBunRepository(db *bun.DB) *BunRepository {
	return &BunRepository{db: db}
}

func (r *BunRepository) Insert(ctx context.Context, doc *Document) (*Document, error) {
	if _, err := r.db.NewInsert().Model(doc).Exec(ctx); err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *BunRepository) GetByID(ctx context.Context, instanceID, documentID uuid.UUID) (*Document, error) {
	doc := new(Document)
	err := r.db.NewSelect().
		Model(doc).
		Where("d.id = ?", documentID).
		Where("d.instance_id = ?", instanceID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Resource: "document", Key: documentID.String()}
		}
		return nil, err
	}
	return doc, nil
}

func (r *BunRepository) ListByCategory(ctx context.Context, instanceID uuid.UUID, category string) ([]*Document, error) {
	docs := make([]*Document, 0)
	err := r.db.NewSelect().
		Model(&docs).
		Where("d.instance_id = ?", instanceID).
		Where("d.category = ?", category).
		Order("d.doc_type ASC").
		Order("d.updated_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// CompareAndUpdateStatus issues a conditional UPDATE keyed on the expected
// status. A zero row count means another actor moved the document first.
func (r *BunRepository) CompareAndUpdateStatus(ctx context.Context, documentID uuid.UUID, expected, next domain.Status, updatedAt time.Time) (bool, error) {
	res, err := r.db.NewUpdate().
		Model((*Document)(nil)).
		Set("status = ?", next).
		Set("updated_at = ?", updatedAt).
		Where("id = ?", documentID).
		Where("status = ?", expected).
		Exec(ctx)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *BunRepository) InsertApproval(ctx context.Context, approval *Approval) error {
	_, err := r.db.NewInsert().Model(approval).Exec(ctx)
	return err
}

func (r *BunRepository) InsertRejection(ctx context.Context, rejection *Rejection) error {
	_, err := r.db.NewInsert().Model(rejection).Exec(ctx)
	return err
}

func (r *BunRepository) ListApprovals(ctx context.Context, documentID uuid.UUID) ([]*Approval, error) {
	records := make([]*Approval, 0)
	err := r.db.NewSelect().
		Model(&records).
		Where("da.document_id = ?", documentID).
		Order("da.approved_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *BunRepository) ListRejections(ctx context.Context, documentID uuid.UUID) ([]*Rejection, error) {
	records := make([]*Rejection, 0)
	err := r.db.NewSelect().
		Model(&records).
		Where("dr.document_id = ?", documentID).
		Order("dr.rejected_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *BunRepository) OwnerOutline(ctx context.Context, instanceID, ownerID uuid.UUID) (*OwnerOutline, error) {
	docs := make([]*Document, 0)
	err := r.db.NewSelect().
		Model(&docs).
		Column("d.status", "d.updated_at").
		Where("d.instance_id = ?", instanceID).
		Where("d.owner_id = ?", ownerID).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	outline := &OwnerOutline{}
	for _, doc := range docs {
		outline.Submitted++
		if doc.Status == domain.StatusApprovedFinal {
			outline.Approved++
		}
		if outline.LastModified == nil || doc.UpdatedAt.After(*outline.LastModified) {
			modified := doc.UpdatedAt
			outline.LastModified = &modified
		}
	}
	return outline, nil
}

// DeleteByInstance removes the instance's documents and their history inside
// one transaction.
func (r *BunRepository) DeleteByInstance(ctx context.Context, instanceID uuid.UUID) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		ids := make([]uuid.UUID, 0)
		err := tx.NewSelect().
			Model((*Document)(nil)).
			Column("d.id").
			Where("d.instance_id = ?", instanceID).
			Scan(ctx, &ids)
		if err != nil {
			return err
		}

		if len(ids) > 0 {
			if _, err := tx.NewDelete().
				Model((*Approval)(nil)).
				Where("da.document_id IN (?)", bun.In(ids)).
				Exec(ctx); err != nil {
				return err
			}
			if _, err := tx.NewDelete().
				Model((*Rejection)(nil)).
				Where("dr.document_id IN (?)", bun.In(ids)).
				Exec(ctx); err != nil {
				return err
			}
		}

		_, err = tx.NewDelete().
			Model((*Document)(nil)).
			Where("d.instance_id = ?", instanceID).
			Exec(ctx)
		return err
	})
}

// BunInstanceRepository persists workflow instances through bun.
type BunInstanceRepository struct {
	db *bun.DB
}

// NewBunInstanceRepository builds an instance repository on top of a bun handle.
func NewBunInstanceRepository(db *bun.DB) *BunInstanceRepository {
	return &BunInstanceRepository{db: db}
}

func (r *BunInstanceRepository) Insert(ctx context.Context, instance *Instance) (*Instance, error) {
	if _, err := r.db.NewInsert().Model(instance).Exec(ctx); err != nil {
		return nil, err
	}
	return instance, nil
}

func (r *BunInstanceRepository) GetByID(ctx context.Context, id uuid.UUID) (*Instance, error) {
	instance := new(Instance)
	err := r.db.NewSelect().
		Model(instance).
		Where("wi.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Resource: "instance", Key: id.String()}
		}
		return nil, err
	}
	return instance, nil
}

func (r *BunInstanceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*Instance)(nil)).
		Where("wi.id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &NotFoundError{Resource: "instance", Key: id.String()}
	}
	return nil
}
