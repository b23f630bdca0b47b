package notify

import (
	"context"
	"sync"

	"github.com/goliatone/go-docflow/internal/logging"
	"github.com/goliatone/go-docflow/pkg/interfaces"
	"github.com/google/uuid"
)

// Dispatcher delivers notification intents computed by the workflow. See
// interfaces.NotificationDispatcher for the delivery contract.
type Dispatcher = interfaces.NotificationDispatcher

// ApprovalNeeded builds the intent asking the next level's approvers to
// review. An empty recipient list yields a zero intent the caller can skip.
func ApprovalNeeded(recipients []uuid.UUID, context interfaces.NotificationContext) interfaces.NotificationIntent {
	return interfaces.NotificationIntent{
		Template:   interfaces.NotificationApprovalNeeded,
		Recipients: cloneRecipients(recipients),
		Context:    context,
	}
}

// Approved builds the owner-facing final approval intent.
func Approved(context interfaces.NotificationContext) interfaces.NotificationIntent {
	return interfaces.NotificationIntent{
		Template:   interfaces.NotificationApproved,
		Recipients: []uuid.UUID{context.OwnerID},
		Context:    context,
	}
}

// Rejected builds the owner-facing rejection intent; the rejection comment
// travels in the context.
func Rejected(context interfaces.NotificationContext) interfaces.NotificationIntent {
	return interfaces.NotificationIntent{
		Template:   interfaces.NotificationRejected,
		Recipients: []uuid.UUID{context.OwnerID},
		Context:    context,
	}
}

// LoggerDispatcher writes intents to the module logger instead of delivering
// them. Useful as a default when no transport is wired.
type LoggerDispatcher struct {
	logger interfaces.Logger
}

// NewLoggerDispatcher constructs a dispatcher backed by the supplied logger,
// defaulting to a no-op logger.
func NewLoggerDispatcher(logger interfaces.Logger) *LoggerDispatcher {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &LoggerDispatcher{logger: logger}
}

func (d *LoggerDispatcher) Dispatch(ctx context.Context, intent interfaces.NotificationIntent) error {
	logger := d.logger
	if fields := logging.ContextFields(ctx); len(fields) != 0 {
		logger = logging.WithFields(logger, fields)
	}
	logger.Info("notification intent",
		"template", string(intent.Template),
		"recipients", len(intent.Recipients),
		"document_id", intent.Context.DocumentID.String(),
		"doc_type", intent.Context.DocType,
	)
	return nil
}

// MemoryDispatcher records intents for inspection in tests and examples.
type MemoryDispatcher struct {
	mu      sync.Mutex
	intents []interfaces.NotificationIntent
}

// NewMemoryDispatcher creates an empty recording dispatcher.
func NewMemoryDispatcher() *MemoryDispatcher {
	return &MemoryDispatcher{}
}

func (d *MemoryDispatcher) Dispatch(_ context.Context, intent interfaces.NotificationIntent) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.intents = append(d.intents, intent)
	return nil
}

// Intents returns a copy of everything dispatched so far.
func (d *MemoryDispatcher) Intents() []interfaces.NotificationIntent {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]interfaces.NotificationIntent, len(d.intents))
	copy(out, d.intents)
	return out
}

// ByTemplate filters recorded intents by template kind.
func (d *MemoryDispatcher) ByTemplate(template interfaces.NotificationTemplate) []interfaces.NotificationIntent {
	var out []interfaces.NotificationIntent
	for _, intent := range d.Intents() {
		if intent.Template == template {
			out = append(out, intent)
		}
	}
	return out
}

func cloneRecipients(recipients []uuid.UUID) []uuid.UUID {
	if len(recipients) == 0 {
		return nil
	}
	out := make([]uuid.UUID, len(recipients))
	copy(out, recipients)
	return out
}
