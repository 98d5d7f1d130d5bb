package model

import "testing"

func TestTranslationStatusPredicates(t *testing.T) {
	cases := []struct {
		status   TranslationStatus
		terminal bool
		inFlight bool
	}{
		{TranslationIdle, false, false},
		{TranslationQueued, false, true},
		{TranslationProcessing, false, true},
		{TranslationCompleted, true, false},
		{TranslationFailed, true, false},
	}
	for _, c := range cases {
		if got := c.status.Terminal(); got != c.terminal {
			t.Errorf("%s.Terminal() = %v, want %v", c.status, got, c.terminal)
		}
		if got := c.status.InFlight(); got != c.inFlight {
			t.Errorf("%s.InFlight() = %v, want %v", c.status, got, c.inFlight)
		}
	}
}

func TestNewActivityDefaults(t *testing.T) {
	a := NewActivity("", "src-1", ActivityRelease, "v1.0.0", "changelog")
	if a.ID == "" {
		t.Fatal("expected generated id")
	}
	if a.TranslationStatus != TranslationIdle {
		t.Fatalf("new activity status = %s, want idle", a.TranslationStatus)
	}
	if a.TranslatedBody != nil || a.TranslationRequestedAt != nil {
		t.Fatal("new activity must not carry translation results")
	}
	if a.CreatedAt.IsZero() {
		t.Fatal("created_at not set")
	}

	b := NewActivity("fixed-id", "src-1", ActivityIssue, "bug", "details")
	if b.ID != "fixed-id" {
		t.Fatalf("id = %s, want fixed-id", b.ID)
	}
}
