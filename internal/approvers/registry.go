package approvers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-docflow/internal/domain"
	"github.com/google/uuid"
)

var (
	// ErrLevelInvalid indicates an approval level outside 1..3.
	ErrLevelInvalid = errors.New("approvers: level must be between 1 and 3")
	// ErrCategoryRequired indicates a registry key without a category.
	ErrCategoryRequired = errors.New("approvers: category required")
	// ErrDocTypeRequired indicates a registry key without a document type.
	ErrDocTypeRequired = errors.New("approvers: document type required")
)

// Key addresses one approver list: a (category, docType, level) combination.
// The registry is sparse; a key with no entry simply has no approvers.
type Key struct {
	Category string
	DocType  string
	Level    int
}

// Normalize lowercases and trims the key's string components.
func (k Key) Normalize() Key {
	return Key{
		Category: strings.ToLower(strings.TrimSpace(k.Category)),
		DocType:  strings.ToLower(strings.TrimSpace(k.DocType)),
		Level:    k.Level,
	}
}

// Validate checks the key is well formed.
func (k Key) Validate() error {
	normalized := k.Normalize()
	if normalized.Category == "" {
		return ErrCategoryRequired
	}
	if normalized.DocType == "" {
		return ErrDocTypeRequired
	}
	if normalized.Level < 1 || normalized.Level > domain.MaxApprovalLevel {
		return fmt.Errorf("%w: %d", ErrLevelInvalid, k.Level)
	}
	return nil
}

func (k Key) String() string {
	normalized := k.Normalize()
	return fmt.Sprintf("%s/%s/l%d", normalized.Category, normalized.DocType, normalized.Level)
}

// Registry resolves the users authorized to approve a specific combination
// within a workflow instance. This is the second authorization layer; holding
// the coarse per-level capability is not enough without registry membership.
type Registry interface {
	Approvers(ctx context.Context, instanceID uuid.UUID, key Key) ([]uuid.UUID, error)
	IsApprover(ctx context.Context, instanceID uuid.UUID, key Key, userID uuid.UUID) (bool, error)
}
