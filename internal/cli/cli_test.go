package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/me/triage/internal/clock"
	"github.com/me/triage/internal/config"
	"github.com/me/triage/internal/scheduler"
	"github.com/me/triage/internal/seed"
	"github.com/me/triage/internal/server"
	"github.com/me/triage/internal/store"
	"github.com/me/triage/pkg/model"
)

// testAPI starts a triage server over a seeded in-memory store. The queue
// runs on a fake clock so nothing advances unless the test moves it.
func testAPI(t *testing.T) (*httptest.Server, *scheduler.Engine, *clock.FakeClock) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	st, err := store.NewSQLiteStore(":memory:", logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	if err := st.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	data, err := seed.Default()
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := seed.Apply(ctx, st, data); err != nil {
		t.Fatalf("apply seed: %v", err)
	}
	queueable, err := st.ListQueueable(ctx)
	if err != nil {
		t.Fatalf("queueable: %v", err)
	}

	fc := clock.Fake(time.Date(2025, 8, 26, 0, 0, 0, 0, time.UTC))
	eng := scheduler.New(model.WorkItems(queueable), scheduler.DefaultConfig(), logger, scheduler.WithClock(fc))
	t.Cleanup(eng.Close)

	srv := server.New(config.DefaultServerConfig(), st, eng, logger, server.WithVolume(data.Volume))
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return ts, eng, fc
}

func runCLI(t *testing.T, serverURL string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"--server", serverURL}, args...))
	err := root.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, serverURL string, args ...string) string {
	t.Helper()
	out, err := runCLI(t, serverURL, args...)
	if err != nil {
		t.Fatalf("triage %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func assertOutput(t *testing.T, out string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
}

func TestEmailsList(t *testing.T) {
	ts, _, _ := testAPI(t)
	out := mustRun(t, ts.URL, "emails", "list")
	assertOutput(t, out, "PRIORITY", "Urgent request system access blocked", "alice@example.com")
	// header, separator and nine rows
	if lines := strings.Count(out, "\n"); lines != 11 {
		t.Errorf("got %d lines, want 11\n%s", lines, out)
	}
}

func TestEmailsList_Filtered(t *testing.T) {
	ts, _, _ := testAPI(t)
	out := mustRun(t, ts.URL, "emails", "list", "--priority", "normal", "--status", "resolved")
	assertOutput(t, out, "General query about subscription")
	if strings.Contains(out, "Urgent request system access blocked") {
		t.Errorf("urgent email listed under priority=normal\n%s", out)
	}
}

func TestEmailsList_Paged(t *testing.T) {
	ts, _, _ := testAPI(t)
	out := mustRun(t, ts.URL, "emails", "list", "--limit", "2")
	assertOutput(t, out, "(2 of 9 shown)")
}

func TestEmailsList_NoMatches(t *testing.T) {
	ts, _, _ := testAPI(t)
	out := mustRun(t, ts.URL, "emails", "list", "-q", "nothing-matches")
	assertOutput(t, out, "No emails found.")
}

func TestEmailsList_InvalidFilter(t *testing.T) {
	ts, _, _ := testAPI(t)
	_, err := runCLI(t, ts.URL, "emails", "list", "--priority", "bogus")
	if err == nil || !strings.Contains(err.Error(), string(model.ErrValidation)) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestEmailsShow(t *testing.T) {
	ts, _, _ := testAPI(t)
	out := mustRun(t, ts.URL, "emails", "show", "1")
	assertOutput(t, out,
		"Email: 1",
		"Urgent request system access blocked",
		"Queue:     WAITING (#1 in queue)",
		"System access restoration",
		"--- AI response ---",
	)
}

func TestEmailsShow_NotFound(t *testing.T) {
	ts, _, _ := testAPI(t)
	_, err := runCLI(t, ts.URL, "emails", "show", "nope")
	if err == nil || !strings.Contains(err.Error(), string(model.ErrNotFound)) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestQueueStatus(t *testing.T) {
	ts, _, _ := testAPI(t)
	out := mustRun(t, ts.URL, "queue", "status")
	assertOutput(t, out, "Queue: IDLE", "0 of 7 processed (0.0%)", "Urgent:    5", "Normal:    2", "#1")
}

func TestQueueCommands(t *testing.T) {
	ts, eng, fc := testAPI(t)

	out := mustRun(t, ts.URL, "queue", "start")
	assertOutput(t, out, "Queue: RUNNING")

	cfg := scheduler.DefaultConfig()
	fc.Advance(cfg.Cadence + cfg.ProcessingTime)
	if got := eng.Snapshot().CompletedCount; got != 1 {
		t.Fatalf("completed = %d, want 1", got)
	}

	out = mustRun(t, ts.URL, "queue", "pause")
	assertOutput(t, out, "Queue: PAUSED", "1 of 7 processed")

	out = mustRun(t, ts.URL, "queue", "resume")
	assertOutput(t, out, "Queue: RUNNING")

	out = mustRun(t, ts.URL, "queue", "reset")
	assertOutput(t, out, "Queue: RUNNING", "0 of 7 processed")

	out = mustRun(t, ts.URL, "queue", "reload")
	assertOutput(t, out, "Queue: IDLE", "0 of 7 processed")
}

func TestQueue_ServerDown(t *testing.T) {
	ts, _, _ := testAPI(t)
	url := ts.URL
	ts.Close()
	if _, err := runCLI(t, url, "queue", "status"); err == nil {
		t.Fatal("expected error when server is unreachable")
	}
}

func TestAnalytics(t *testing.T) {
	ts, _, _ := testAPI(t)
	out := mustRun(t, ts.URL, "analytics")
	assertOutput(t, out,
		"Total:      9",
		"Urgent:     6",
		"Emails:          341",
		"Resolution rate: 93.0%",
		"negative",
		"66.7%",
		"Account Access",
	)
}

func TestDefaultServer_Env(t *testing.T) {
	t.Setenv("TRIAGE_SERVER", "http://triage.internal:9000")
	if got := defaultServer(); got != "http://triage.internal:9000" {
		t.Errorf("defaultServer() = %q", got)
	}
	t.Setenv("TRIAGE_SERVER", "")
	if got := defaultServer(); got != "http://localhost:8080" {
		t.Errorf("defaultServer() = %q", got)
	}
}

func TestClip(t *testing.T) {
	if got := clip("short", 10); got != "short" {
		t.Errorf("clip short = %q", got)
	}
	if got := clip("abcdefghij", 5); got != "abcd…" {
		t.Errorf("clip long = %q", got)
	}
}
