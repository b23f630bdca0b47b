package permissions

import (
	"errors"
	"fmt"
	"strings"
)

// Action names a capability verb on the documents resource.
type Action string

const (
	ActionView      Action = "view"
	ActionSubmit    Action = "submit"
	ActionSubmitAny Action = "submit_any"
	ActionManage    Action = "manage"
)

const resourceDocuments = "documents"

// Capability tokens checked by the workflow entry points. Approval levels are
// expanded per level so hosts can grant them independently.
const (
	DocumentsView      = "documents:view"
	DocumentsSubmit    = "documents:submit"
	DocumentsSubmitAny = "documents:submit_any"
	DocumentsManage    = "documents:manage"
	// DocumentsApproveAny names the approve capability family for error
	// reporting when none of the per-level tokens matched.
	DocumentsApproveAny = "documents:approve_level*"
)

var ErrPermissionDenied = errors.New("permissions: denied")

// Error identifies which capability check failed.
type Error struct {
	Permission string
}

func (e Error) Error() string {
	if strings.TrimSpace(e.Permission) == "" {
		return "permission denied"
	}
	return "permission denied: " + e.Permission
}

func (e Error) Unwrap() error {
	return ErrPermissionDenied
}

// ApproveLevel returns the capability token for approving at the given level,
// e.g. "documents:approve_level2". Levels outside 1..3 yield an empty token.
func ApproveLevel(level int) string {
	if level < 1 || level > 3 {
		return ""
	}
	return fmt.Sprintf("%s:approve_level%d", resourceDocuments, level)
}

// ApproveLevels returns every per-level approval capability in order.
func ApproveLevels() []string {
	return []string{ApproveLevel(1), ApproveLevel(2), ApproveLevel(3)}
}

// Join builds a permission token from resource and action.
func Join(resource string, action Action) string {
	res := normalizeToken(resource)
	act := normalizeToken(string(action))
	if res == "" || act == "" {
		return ""
	}
	return res + ":" + act
}

// Checker answers whether a permission token is granted.
type Checker interface {
	Allowed(permission string) bool
}

// CheckerFunc adapts a function into a Checker.
type CheckerFunc func(permission string) bool

func (fn CheckerFunc) Allowed(permission string) bool {
	return fn(permission)
}

// Set is a fixed collection of granted permission tokens.
type Set map[string]struct{}

// NewSet builds a Set from the supplied tokens, dropping empties.
func NewSet(perms ...string) Set {
	set := Set{}
	for _, perm := range perms {
		normalized := normalizeToken(perm)
		if normalized == "" {
			continue
		}
		set[normalized] = struct{}{}
	}
	return set
}

func (s Set) Allowed(permission string) bool {
	if len(s) == 0 {
		return false
	}
	_, ok := s[normalizeToken(permission)]
	return ok
}

func normalizeToken(token string) string {
	return strings.ToLower(strings.TrimSpace(token))
}
