package approvers

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Assignment persists one approver grant for a (category, docType, level)
// combination inside a workflow instance.
type Assignment struct {
	bun.BaseModel `bun:"table:approver_assignments,alias:aa"`

	ID         uuid.UUID `bun:",pk,type:uuid" json:"id"`
	InstanceID uuid.UUID `bun:"instance_id,notnull,type:uuid" json:"instance_id"`
	Category   string    `bun:"category,notnull" json:"category"`
	DocType    string    `bun:"doc_type,notnull" json:"doc_type"`
	Level      int       `bun:"level,notnull" json:"level"`
	UserID     uuid.UUID `bun:"user_id,notnull,type:uuid" json:"user_id"`
	CreatedAt  time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}

// BunRegistry resolves approvers from assignment rows.
type BunRegistry struct {
	db *bun.DB
}

// NewBunRegistry constructs a registry backed by the supplied bun database.
func NewBunRegistry(db *bun.DB) *BunRegistry {
	return &BunRegistry{db: db}
}

// Assign replaces the approver list for the combination inside a transaction.
func (r *BunRegistry) Assign(ctx context.Context, instanceID uuid.UUID, key Key, userIDs ...uuid.UUID) error {
	if err := key.Validate(); err != nil {
		return err
	}
	normalized := key.Normalize()

	return r.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*Assignment)(nil)).
			Where("instance_id = ?", instanceID).
			Where("category = ?", normalized.Category).
			Where("doc_type = ?", normalized.DocType).
			Where("level = ?", normalized.Level).
			Exec(ctx); err != nil {
			return fmt.Errorf("approvers: clear assignments: %w", err)
		}

		if len(userIDs) == 0 {
			return nil
		}

		rows := make([]*Assignment, 0, len(userIDs))
		for _, userID := range userIDs {
			rows = append(rows, &Assignment{
				ID:         uuid.New(),
				InstanceID: instanceID,
				Category:   normalized.Category,
				DocType:    normalized.DocType,
				Level:      normalized.Level,
				UserID:     userID,
			})
		}
		if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
			return fmt.Errorf("approvers: insert assignments: %w", err)
		}
		return nil
	})
}

// Approvers returns the user ids assigned to the combination. Missing rows
// mean nobody can approve that combination; that is not an error.
func (r *BunRegistry) Approvers(ctx context.Context, instanceID uuid.UUID, key Key) ([]uuid.UUID, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	normalized := key.Normalize()

	var rows []Assignment
	if err := r.db.NewSelect().
		Model(&rows).
		Where("instance_id = ?", instanceID).
		Where("category = ?", normalized.Category).
		Where("doc_type = ?", normalized.DocType).
		Where("level = ?", normalized.Level).
		Order("created_at ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("approvers: list assignments: %w", err)
	}

	users := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.UserID)
	}
	return users, nil
}

// IsApprover reports whether the user is assigned to the combination.
func (r *BunRegistry) IsApprover(ctx context.Context, instanceID uuid.UUID, key Key, userID uuid.UUID) (bool, error) {
	if err := key.Validate(); err != nil {
		return false, err
	}
	normalized := key.Normalize()

	exists, err := r.db.NewSelect().
		Model((*Assignment)(nil)).
		Where("instance_id = ?", instanceID).
		Where("category = ?", normalized.Category).
		Where("doc_type = ?", normalized.DocType).
		Where("level = ?", normalized.Level).
		Where("user_id = ?", userID).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("approvers: membership check: %w", err)
	}
	return exists, nil
}
