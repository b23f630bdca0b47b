package documents

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/goliatone/go-docflow/internal/domain"
	"github.com/google/uuid"
)

// MemoryRepository is an in-memory Repository used by tests and hosts that
// opt out of persistent storage.
type MemoryRepository struct {
	mu         sync.RWMutex
	documents  map[uuid.UUID]*Document
	approvals  map[uuid.UUID][]*Approval
	rejections map[uuid.UUID][]*Rejection
}

// NewMemoryRepository builds an empty in-memory document store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		documents:  make(map[uuid.UUID]*Document),
		approvals:  make(map[uuid.UUID][]*Approval),
		rejections: make(map[uuid.UUID][]*Rejection),
	}
}

func (r *MemoryRepository) Insert(_ context.Context, doc *Document) (*Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *doc
	r.documents[doc.ID] = &stored

	out := stored
	return &out, nil
}

func (r *MemoryRepository) GetByID(_ context.Context, instanceID, documentID uuid.UUID) (*Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.documents[documentID]
	if !ok || doc.InstanceID != instanceID {
		return nil, &NotFoundError{Resource: "document", Key: documentID.String()}
	}

	out := *doc
	return &out, nil
}

func (r *MemoryRepository) ListByCategory(_ context.Context, instanceID uuid.UUID, category string) ([]*Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Document, 0)
	for _, doc := range r.documents {
		if doc.InstanceID != instanceID || doc.Category != category {
			continue
		}
		copied := *doc
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DocType != out[j].DocType {
			return out[i].DocType < out[j].DocType
		}
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (r *MemoryRepository) CompareAndUpdateStatus(_ context.Context, documentID uuid.UUID, expected, next domain.Status, updatedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.documents[documentID]
	if !ok {
		return false, &NotFoundError{Resource: "document", Key: documentID.String()}
	}
	if doc.Status != expected {
		return false, nil
	}

	doc.Status = next
	doc.UpdatedAt = updatedAt
	return true, nil
}

func (r *MemoryRepository) InsertApproval(_ context.Context, approval *Approval) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *approval
	r.approvals[approval.DocumentID] = append(r.approvals[approval.DocumentID], &stored)
	return nil
}

func (r *MemoryRepository) InsertRejection(_ context.Context, rejection *Rejection) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *rejection
	r.rejections[rejection.DocumentID] = append(r.rejections[rejection.DocumentID], &stored)
	return nil
}

func (r *MemoryRepository) ListApprovals(_ context.Context, documentID uuid.UUID) ([]*Approval, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := r.approvals[documentID]
	out := make([]*Approval, 0, len(records))
	for _, record := range records {
		copied := *record
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ApprovedAt.Before(out[j].ApprovedAt)
	})
	return out, nil
}

func (r *MemoryRepository) ListRejections(_ context.Context, documentID uuid.UUID) ([]*Rejection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := r.rejections[documentID]
	out := make([]*Rejection, 0, len(records))
	for _, record := range records {
		copied := *record
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].RejectedAt.After(out[j].RejectedAt)
	})
	return out, nil
}

func (r *MemoryRepository) OwnerOutline(_ context.Context, instanceID, ownerID uuid.UUID) (*OwnerOutline, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	outline := &OwnerOutline{}
	for _, doc := range r.documents {
		if doc.InstanceID != instanceID || doc.OwnerID != ownerID {
			continue
		}
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

func (r *MemoryRepository) DeleteByInstance(_ context.Context, instanceID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, doc := range r.documents {
		if doc.InstanceID != instanceID {
			continue
		}
		delete(r.documents, id)
		delete(r.approvals, id)
		delete(r.rejections, id)
	}
	return nil
}

// MemoryInstanceRepository is an in-memory InstanceRepository.
type MemoryInstanceRepository struct {
	mu        sync.RWMutex
	instances map[uuid.UUID]*Instance
}

// NewMemoryInstanceRepository builds an empty in-memory instance store.
func NewMemoryInstanceRepository() *MemoryInstanceRepository {
	return &MemoryInstanceRepository{instances: make(map[uuid.UUID]*Instance)}
}

func (r *MemoryInstanceRepository) Insert(_ context.Context, instance *Instance) (*Instance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *instance
	r.instances[instance.ID] = &stored

	out := stored
	return &out, nil
}

func (r *MemoryInstanceRepository) GetByID(_ context.Context, id uuid.UUID) (*Instance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	instance, ok := r.instances[id]
	if !ok {
		return nil, &NotFoundError{Resource: "instance", Key: id.String()}
	}

	out := *instance
	return &out, nil
}

func (r *MemoryInstanceRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.instances[id]; !ok {
		return &NotFoundError{Resource: "instance", Key: id.String()}
	}
	delete(r.instances, id)
	return nil
}
