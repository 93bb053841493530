package analytics

import (
	"testing"

	"github.com/me/triage/internal/seed"
	"github.com/me/triage/pkg/model"
)

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil, nil)
	if s.Stats != (model.EmailCounts{}) {
		t.Errorf("stats = %+v", s.Stats)
	}
	if len(s.Sentiment) != 3 {
		t.Fatalf("sentiment = %v, want three zero shares", s.Sentiment)
	}
	for _, sh := range s.Sentiment {
		if sh.Count != 0 || sh.Percent != 0 {
			t.Errorf("share %+v, want zero", sh)
		}
	}
	if s.Categories == nil || len(s.Categories) != 0 {
		t.Errorf("categories = %#v, want empty non-nil", s.Categories)
	}
	if s.ResolutionRate != 0 {
		t.Errorf("ResolutionRate = %v, want 0", s.ResolutionRate)
	}
}

func TestSummarize_Seed(t *testing.T) {
	d, err := seed.Default()
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	s := Summarize(d.Emails, d.Volume)

	want := model.EmailCounts{Total: 9, Urgent: 6, Pending: 5, Processing: 2, Resolved: 2}
	if s.Stats != want {
		t.Errorf("stats = %+v, want %+v", s.Stats, want)
	}

	// 6 negative, 3 neutral, 0 positive.
	if s.Sentiment[0].Name != "positive" || s.Sentiment[0].Count != 0 {
		t.Errorf("positive = %+v", s.Sentiment[0])
	}
	if s.Sentiment[1].Count != 3 || s.Sentiment[1].Percent != 33.3 {
		t.Errorf("neutral = %+v", s.Sentiment[1])
	}
	if s.Sentiment[2].Count != 6 || s.Sentiment[2].Percent != 66.7 {
		t.Errorf("negative = %+v", s.Sentiment[2])
	}

	// Every seed email has its own category.
	if len(s.Categories) != 9 {
		t.Errorf("categories = %d, want 9", len(s.Categories))
	}
	if s.Categories[0].Name != "Account Access" {
		t.Errorf("first category = %q, want alphabetical tie-break", s.Categories[0].Name)
	}

	if s.WeekEmails != 341 || s.WeekResolved != 317 {
		t.Errorf("week = %d/%d, want 341/317", s.WeekEmails, s.WeekResolved)
	}
	if s.ResolutionRate != 93 {
		t.Errorf("ResolutionRate = %v, want 93", s.ResolutionRate)
	}
}

func TestSummarize_CategoryOrder(t *testing.T) {
	emails := []*model.Email{
		{ID: "1", Category: "Billing"},
		{ID: "2", Category: "Login"},
		{ID: "3", Category: "Login"},
		{ID: "4", Category: "Access"},
		{ID: "5", Category: ""},
	}
	s := Summarize(emails, nil)
	var names []string
	for _, c := range s.Categories {
		names = append(names, c.Name)
	}
	want := []string{"Login", "Access", "Billing"}
	if len(names) != len(want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names = %v, want %v", names, want)
			break
		}
	}
	if s.Categories[0].Percent != 40 {
		t.Errorf("Login percent = %v, want 40", s.Categories[0].Percent)
	}
}

func TestSummarize_VolumeCopied(t *testing.T) {
	vol := []model.VolumePoint{{Date: "2024-01-09", Emails: 10, Resolved: 5}}
	s := Summarize(nil, vol)
	vol[0].Emails = 99
	if s.Volume[0].Emails != 10 {
		t.Error("summary aliases the input volume slice")
	}
	if s.ResolutionRate != 50 {
		t.Errorf("ResolutionRate = %v, want 50", s.ResolutionRate)
	}
}
