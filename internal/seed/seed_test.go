package seed

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/me/triage/internal/scheduler"
	"github.com/me/triage/internal/store"
	"github.com/me/triage/pkg/model"
)

func TestDefault(t *testing.T) {
	d, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if len(d.Emails) != 9 {
		t.Errorf("emails = %d, want 9", len(d.Emails))
	}
	if len(d.Volume) != 7 {
		t.Errorf("volume = %d, want 7", len(d.Volume))
	}

	first := d.Emails[0]
	if first.ID != "1" || first.Sender != "alice@example.com" || first.Priority != model.PriorityUrgent {
		t.Errorf("first email = %+v", first)
	}
	if first.ReceivedAt.IsZero() {
		t.Error("received_at not decoded")
	}
	if !strings.HasPrefix(first.AIResponse, "Dear Alice,\n\n") {
		t.Errorf("ai_response = %q", first.AIResponse)
	}
	if len(first.ExtractedInfo.Keywords) != 5 {
		t.Errorf("keywords = %v", first.ExtractedInfo.Keywords)
	}
}

func TestDefault_QueueOrder(t *testing.T) {
	d, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	var queueable []*model.Email
	for _, e := range d.Emails {
		if e.Status.Queueable() {
			queueable = append(queueable, e)
		}
	}
	got := scheduler.Order(model.WorkItems(queueable))
	want := []string{"1", "5", "3", "4", "9", "7", "8"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestParse_Invalid(t *testing.T) {
	input := `
emails:
  - id: "1"
    sender: a@example.com
    subject: one
    received_at: 2025-08-19T00:58:00Z
    priority: urgent
    sentiment: negative
    status: pending
  - id: "1"
    sender: b@example.com
    subject: two
    priority: high
    sentiment: angry
    status: open
volume:
  - {date: "2024-01-09", emails: 5, resolved: 9}
`
	_, err := Parse(strings.NewReader(input))
	if err == nil {
		t.Fatal("expected validation error")
	}
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *model.APIError", err)
	}
	if apiErr.Code != model.ErrValidation {
		t.Errorf("code = %s", apiErr.Code)
	}
	fields := map[string]bool{}
	for _, d := range apiErr.Details {
		fields[d.Field] = true
	}
	for _, want := range []string{
		"emails[1].id", "emails[1].received_at", "emails[1].priority",
		"emails[1].sentiment", "emails[1].status", "volume[0]",
	} {
		if !fields[want] {
			t.Errorf("missing detail for %s (got %v)", want, apiErr.Details)
		}
	}
}

func TestParse_UnknownField(t *testing.T) {
	if _, err := Parse(strings.NewReader("tickets: []\n")); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestParse_Empty(t *testing.T) {
	d, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(d.Emails) != 0 {
		t.Errorf("emails = %d, want 0", len(d.Emails))
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	content := `emails:
  - id: x
    sender: x@example.com
    subject: hello
    received_at: 2025-01-01T00:00:00Z
    priority: normal
    sentiment: positive
    status: resolved
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	d, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(d.Emails) != 1 || d.Emails[0].ID != "x" {
		t.Errorf("emails = %+v", d.Emails)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestApply(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}))
	st, err := store.NewSQLiteStore(":memory:", logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()
	ctx := context.Background()
	if err := st.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	d, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	// Applying twice must not fail or duplicate rows.
	for i := 0; i < 2; i++ {
		if err := Apply(ctx, st, d); err != nil {
			t.Fatalf("Apply #%d: %v", i+1, err)
		}
	}

	c, err := st.CountEmails(ctx)
	if err != nil {
		t.Fatalf("CountEmails: %v", err)
	}
	want := model.EmailCounts{Total: 9, Urgent: 6, Pending: 5, Processing: 2, Resolved: 2}
	if c != want {
		t.Errorf("counts = %+v, want %+v", c, want)
	}

	queueable, err := st.ListQueueable(ctx)
	if err != nil {
		t.Fatalf("ListQueueable: %v", err)
	}
	if len(queueable) != 7 {
		t.Errorf("queueable = %d, want 7", len(queueable))
	}
}
