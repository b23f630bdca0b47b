package domain_test

import (
	"testing"

	"github.com/goliatone/go-docflow/internal/domain"
)

func TestNextPendingLevel(t *testing.T) {
	cases := []struct {
		status domain.Status
		want   int
	}{
		{domain.StatusDraft, 0},
		{domain.StatusSubmitted, 1},
		{domain.StatusApprovedL1, 2},
		{domain.StatusApprovedL2, 3},
		{domain.StatusApprovedFinal, 0},
		{domain.StatusRejected, 0},
	}

	for _, tc := range cases {
		if got := domain.NextPendingLevel(tc.status); got != tc.want {
			t.Errorf("NextPendingLevel(%s) = %d, want %d", tc.status, got, tc.want)
		}
	}
}

func TestStatusForLevelRoundTrip(t *testing.T) {
	for level := 1; level <= domain.MaxApprovalLevel; level++ {
		expected := domain.ExpectedStatusForLevel(level)
		if expected == "" {
			t.Fatalf("no expected status for level %d", level)
		}
		if got := domain.NextPendingLevel(expected); got != level {
			t.Errorf("NextPendingLevel(%s) = %d, want %d", expected, got, level)
		}
		if next := domain.StatusForLevel(level); next == "" || !next.IsValid() {
			t.Errorf("StatusForLevel(%d) = %q, want valid status", level, next)
		}
	}

	if domain.StatusForLevel(0) != "" || domain.StatusForLevel(4) != "" {
		t.Error("out of range levels must yield empty status")
	}
}

func TestStatusTerminal(t *testing.T) {
	for _, status := range domain.Statuses() {
		terminal := status == domain.StatusApprovedFinal || status == domain.StatusRejected
		if status.IsTerminal() != terminal {
			t.Errorf("IsTerminal(%s) = %v, want %v", status, status.IsTerminal(), terminal)
		}
	}
}

func TestNormalizeStatus(t *testing.T) {
	if got := domain.NormalizeStatus("  Submitted "); got != domain.StatusSubmitted {
		t.Errorf("NormalizeStatus: got %q", got)
	}
	if got := domain.NormalizeStatus(""); got != domain.StatusDraft {
		t.Errorf("NormalizeStatus empty: got %q", got)
	}
}

func TestStatusLabels(t *testing.T) {
	for _, status := range domain.Statuses() {
		if status.Label() == "Unknown Status" {
			t.Errorf("missing label for %s", status)
		}
	}
	if domain.Status("bogus").Label() != "Unknown Status" {
		t.Error("unknown status should report unknown label")
	}
}
