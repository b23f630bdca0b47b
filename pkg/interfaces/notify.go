package interfaces

import (
	"context"

	"github.com/google/uuid"
)

// NotificationTemplate identifies the message template a notification intent
// should render with.
type NotificationTemplate string

const (
	// NotificationApprovalNeeded asks the next level's approvers to review.
	NotificationApprovalNeeded NotificationTemplate = "approval_needed"
	// NotificationApproved tells the owner the document passed final approval.
	NotificationApproved NotificationTemplate = "approved"
	// NotificationRejected tells the owner the document was rejected.
	NotificationRejected NotificationTemplate = "rejected"
)

// NotificationContext carries the template variables resolved at transition
// time. Fields mirror what the delivery layer needs to address and render a
// message without further lookups.
type NotificationContext struct {
	InstanceID    uuid.UUID
	InstanceName  string
	DocumentID    uuid.UUID
	Category      string
	CategoryTitle string
	DocType       string
	DocTypeTitle  string
	Filename      string
	OwnerID       uuid.UUID
	ActorID       uuid.UUID
	Level         int
	Comment       string
}

// NotificationIntent is the unit of work handed to a Dispatcher once a
// transition has committed. The engine never delivers messages itself.
type NotificationIntent struct {
	Template   NotificationTemplate
	Recipients []uuid.UUID
	Context    NotificationContext
}

// NotificationDispatcher delivers notification intents. Dispatch runs after
// the state change is durable; delivery failures must not affect the
// transition outcome.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, intent NotificationIntent) error
}
