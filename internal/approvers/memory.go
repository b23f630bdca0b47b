package approvers

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-docflow/internal/runtimeconfig"
	"github.com/google/uuid"
)

// MemoryRegistry is an in-memory Registry for scaffolding and tests.
type MemoryRegistry struct {
	mu      sync.RWMutex
	entries map[string][]uuid.UUID
}

// NewMemoryRegistry creates an empty in-memory registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{entries: make(map[string][]uuid.UUID)}
}

// Assign replaces the approver list for the supplied combination.
func (m *MemoryRegistry) Assign(instanceID uuid.UUID, key Key, userIDs ...uuid.UUID) error {
	if err := key.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	users := make([]uuid.UUID, len(userIDs))
	copy(users, userIDs)
	m.entries[entryKey(instanceID, key)] = users
	return nil
}

// Approvers returns the configured approver ids for the combination. Absent
// entries yield an empty list, never an error.
func (m *MemoryRegistry) Approvers(_ context.Context, instanceID uuid.UUID, key Key) ([]uuid.UUID, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	users := m.entries[entryKey(instanceID, key)]
	out := make([]uuid.UUID, len(users))
	copy(out, users)
	return out, nil
}

// IsApprover reports membership in the approver list for the combination.
func (m *MemoryRegistry) IsApprover(ctx context.Context, instanceID uuid.UUID, key Key, userID uuid.UUID) (bool, error) {
	users, err := m.Approvers(ctx, instanceID, key)
	if err != nil {
		return false, err
	}
	for _, candidate := range users {
		if candidate == userID {
			return true, nil
		}
	}
	return false, nil
}

// Seed loads configuration-driven assignments for a workflow instance.
// Malformed user ids are rejected so typos fail at startup, not at approval
// time.
func (m *MemoryRegistry) Seed(instanceID uuid.UUID, cfg runtimeconfig.ApproversConfig) error {
	for _, entry := range cfg.Entries {
		key := Key{Category: entry.Category, DocType: entry.DocType, Level: entry.Level}
		if err := key.Validate(); err != nil {
			return err
		}

		users := make([]uuid.UUID, 0, len(entry.UserIDs))
		for _, raw := range entry.UserIDs {
			trimmed := strings.TrimSpace(raw)
			if trimmed == "" {
				continue
			}
			id, err := uuid.Parse(trimmed)
			if err != nil {
				return fmt.Errorf("approvers: invalid user id %q for %s: %w", raw, key, err)
			}
			users = append(users, id)
		}

		if err := m.Assign(instanceID, key, users...); err != nil {
			return err
		}
	}
	return nil
}

func entryKey(instanceID uuid.UUID, key Key) string {
	normalized := key.Normalize()
	return instanceID.String() + "::" + normalized.Category + "::" + normalized.DocType + "::" + fmt.Sprint(normalized.Level)
}
