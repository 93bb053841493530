package store

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/me/triage/pkg/model"
)

func testStore(t *testing.T) *SQLiteStore {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}))
	st, err := NewSQLiteStore(":memory:", logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := st.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

var base = time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

func sampleEmail(id string, offset time.Duration) *model.Email {
	return &model.Email{
		ID:         id,
		Sender:     "user" + id + "@example.com",
		Subject:    "Subject " + id,
		Body:       "Body of " + id,
		ReceivedAt: base.Add(offset),
		Priority:   model.PriorityNormal,
		Sentiment:  model.SentimentNeutral,
		Status:     model.EmailStatusPending,
		Category:   "Account Access",
		ExtractedInfo: model.ExtractedInfo{
			ContactDetails: "555-0100",
			Requirements:   []string{"reset password"},
			Keywords:       []string{"login"},
		},
		AIResponse: "Thanks for reaching out.",
	}
}

func mustCreate(t *testing.T, st *SQLiteStore, emails ...*model.Email) {
	t.Helper()
	for _, e := range emails {
		if err := st.CreateEmail(context.Background(), e); err != nil {
			t.Fatalf("CreateEmail(%s): %v", e.ID, err)
		}
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	st := testStore(t)
	if err := st.Migrate(context.Background()); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}

func TestCreateAndGetEmail(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	e := sampleEmail("1", 0)
	e.ReceivedAt = time.Date(2024, 3, 15, 10, 30, 0, 0, time.FixedZone("EST", -5*3600))
	mustCreate(t, st, e)

	got, err := st.GetEmail(ctx, "1")
	if err != nil {
		t.Fatalf("GetEmail: %v", err)
	}
	if got == nil {
		t.Fatal("GetEmail returned nil")
	}
	if got.Subject != e.Subject || got.Sender != e.Sender || got.Body != e.Body {
		t.Errorf("got %+v", got)
	}
	if !got.ReceivedAt.Equal(e.ReceivedAt) {
		t.Errorf("ReceivedAt = %v, want %v", got.ReceivedAt, e.ReceivedAt)
	}
	if got.Priority != model.PriorityNormal || got.Status != model.EmailStatusPending {
		t.Errorf("priority/status = %s/%s", got.Priority, got.Status)
	}
	if got.ExtractedInfo.ContactDetails != "555-0100" || len(got.ExtractedInfo.Keywords) != 1 {
		t.Errorf("ExtractedInfo = %+v", got.ExtractedInfo)
	}
	if got.AIResponse != e.AIResponse {
		t.Errorf("AIResponse = %q", got.AIResponse)
	}
}

func TestGetEmail_NotFound(t *testing.T) {
	st := testStore(t)
	got, err := st.GetEmail(context.Background(), "missing")
	if err != nil {
		t.Fatalf("GetEmail: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

func TestCreateEmail_Duplicate(t *testing.T) {
	st := testStore(t)
	mustCreate(t, st, sampleEmail("1", 0))
	if err := st.CreateEmail(context.Background(), sampleEmail("1", 0)); err == nil {
		t.Fatal("expected primary key violation")
	}
}

func TestUpsertEmail(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	e := sampleEmail("1", 0)
	if err := st.UpsertEmail(ctx, e); err != nil {
		t.Fatalf("insert: %v", err)
	}
	e.Status = model.EmailStatusResolved
	e.Subject = "Updated"
	if err := st.UpsertEmail(ctx, e); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, _ := st.GetEmail(ctx, "1")
	if got.Status != model.EmailStatusResolved || got.Subject != "Updated" {
		t.Errorf("got status=%s subject=%q", got.Status, got.Subject)
	}
	c, err := st.CountEmails(ctx)
	if err != nil {
		t.Fatalf("CountEmails: %v", err)
	}
	if c.Total != 1 {
		t.Errorf("Total = %d, want 1", c.Total)
	}
}

func TestListEmails_NewestFirst(t *testing.T) {
	st := testStore(t)
	mustCreate(t, st,
		sampleEmail("a", 1*time.Hour),
		sampleEmail("b", 3*time.Hour),
		sampleEmail("c", 2*time.Hour),
	)

	emails, total, err := st.ListEmails(context.Background(), model.EmailFilter{})
	if err != nil {
		t.Fatalf("ListEmails: %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	var ids []string
	for _, e := range emails {
		ids = append(ids, e.ID)
	}
	if fmt.Sprint(ids) != "[b c a]" {
		t.Errorf("order = %v, want [b c a]", ids)
	}
}

func TestListEmails_Filters(t *testing.T) {
	st := testStore(t)
	urgent := sampleEmail("1", time.Hour)
	urgent.Priority = model.PriorityUrgent
	urgent.Subject = "URGENT: Server Down"
	urgent.Sentiment = model.SentimentNegative

	resolved := sampleEmail("2", 2*time.Hour)
	resolved.Status = model.EmailStatusResolved
	resolved.Sender = "jane.doe@acme.io"

	plain := sampleEmail("3", 3*time.Hour)
	plain.Subject = "100% refund_request"

	mustCreate(t, st, urgent, resolved, plain)

	tests := []struct {
		name   string
		filter model.EmailFilter
		want   []string
	}{
		{"search subject case-insensitive", model.EmailFilter{Search: "server"}, []string{"1"}},
		{"search sender", model.EmailFilter{Search: "ACME"}, []string{"2"}},
		{"search literal percent", model.EmailFilter{Search: "100%"}, []string{"3"}},
		{"search literal underscore", model.EmailFilter{Search: "d_r"}, []string{"3"}},
		{"priority", model.EmailFilter{Priority: model.PriorityUrgent}, []string{"1"}},
		{"sentiment", model.EmailFilter{Sentiment: model.SentimentNeutral}, []string{"3", "2"}},
		{"status", model.EmailFilter{Status: model.EmailStatusResolved}, []string{"2"}},
		{"combined", model.EmailFilter{Status: model.EmailStatusPending, Sentiment: model.SentimentNegative}, []string{"1"}},
		{"no match", model.EmailFilter{Search: "nothing here"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			emails, total, err := st.ListEmails(context.Background(), tt.filter)
			if err != nil {
				t.Fatalf("ListEmails: %v", err)
			}
			if total != len(tt.want) {
				t.Errorf("total = %d, want %d", total, len(tt.want))
			}
			var ids []string
			for _, e := range emails {
				ids = append(ids, e.ID)
			}
			if fmt.Sprint(ids) != fmt.Sprint(tt.want) {
				t.Errorf("ids = %v, want %v", ids, tt.want)
			}
		})
	}
}

func TestListEmails_Pagination(t *testing.T) {
	st := testStore(t)
	for i := 0; i < 5; i++ {
		mustCreate(t, st, sampleEmail(fmt.Sprintf("e%d", i), time.Duration(i)*time.Minute))
	}

	f := model.EmailFilter{ListOptions: model.ListOptions{Limit: 2, Offset: 2}}
	emails, total, err := st.ListEmails(context.Background(), f)
	if err != nil {
		t.Fatalf("ListEmails: %v", err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(emails) != 2 || emails[0].ID != "e2" || emails[1].ID != "e1" {
		t.Errorf("page = %v", emails)
	}
}

func TestListQueueable(t *testing.T) {
	st := testStore(t)
	a := sampleEmail("a", 0)
	b := sampleEmail("b", time.Minute)
	b.Status = model.EmailStatusResolved
	c := sampleEmail("c", 2*time.Minute)
	c.Status = model.EmailStatusProcessing
	mustCreate(t, st, a, b, c)

	emails, err := st.ListQueueable(context.Background())
	if err != nil {
		t.Fatalf("ListQueueable: %v", err)
	}
	if len(emails) != 2 || emails[0].ID != "a" || emails[1].ID != "c" {
		t.Errorf("queueable = %v", emails)
	}
}

func TestCountEmails(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	c, err := st.CountEmails(ctx)
	if err != nil {
		t.Fatalf("CountEmails on empty: %v", err)
	}
	if c != (model.EmailCounts{}) {
		t.Errorf("empty counts = %+v", c)
	}

	a := sampleEmail("a", 0)
	a.Priority = model.PriorityUrgent
	b := sampleEmail("b", 0)
	b.Status = model.EmailStatusResolved
	d := sampleEmail("d", 0)
	d.Status = model.EmailStatusProcessing
	mustCreate(t, st, a, b, d)

	c, err = st.CountEmails(ctx)
	if err != nil {
		t.Fatalf("CountEmails: %v", err)
	}
	want := model.EmailCounts{Total: 3, Urgent: 1, Pending: 1, Processing: 1, Resolved: 1}
	if c != want {
		t.Errorf("counts = %+v, want %+v", c, want)
	}
}
