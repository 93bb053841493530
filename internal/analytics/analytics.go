// Package analytics computes the dashboard summary served by the API and
// rendered on the analytics page.
package analytics

import (
	"math"
	"sort"

	"github.com/me/triage/pkg/model"
)

// Share is one slice of a distribution.
type Share struct {
	Name    string  `json:"name"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Summary aggregates the catalog and the weekly volume series.
type Summary struct {
	Stats      model.EmailCounts   `json:"stats"`
	Sentiment  []Share             `json:"sentiment"`
	Categories []Share             `json:"categories"`
	Volume     []model.VolumePoint `json:"volume"`

	WeekEmails     int     `json:"week_emails"`
	WeekResolved   int     `json:"week_resolved"`
	ResolutionRate float64 `json:"resolution_rate"` // percent, one decimal
}

var sentimentOrder = []model.Sentiment{
	model.SentimentPositive,
	model.SentimentNeutral,
	model.SentimentNegative,
}

// Summarize builds the summary. Sentiments are always reported in the
// order positive, neutral, negative; categories by count then name.
func Summarize(emails []*model.Email, volume []model.VolumePoint) Summary {
	s := Summary{
		Volume:     append([]model.VolumePoint{}, volume...),
		Sentiment:  make([]Share, 0, len(sentimentOrder)),
		Categories: []Share{},
	}

	bySentiment := make(map[model.Sentiment]int, len(sentimentOrder))
	byCategory := make(map[string]int)
	for _, e := range emails {
		s.Stats.Total++
		if e.Priority == model.PriorityUrgent {
			s.Stats.Urgent++
		}
		switch e.Status {
		case model.EmailStatusPending:
			s.Stats.Pending++
		case model.EmailStatusProcessing:
			s.Stats.Processing++
		case model.EmailStatusResolved:
			s.Stats.Resolved++
		}
		bySentiment[e.Sentiment]++
		if e.Category != "" {
			byCategory[e.Category]++
		}
	}

	for _, sent := range sentimentOrder {
		n := bySentiment[sent]
		s.Sentiment = append(s.Sentiment, Share{Name: string(sent), Count: n, Percent: percent(n, s.Stats.Total)})
	}

	for name, n := range byCategory {
		s.Categories = append(s.Categories, Share{Name: name, Count: n, Percent: percent(n, s.Stats.Total)})
	}
	sort.Slice(s.Categories, func(i, j int) bool {
		a, b := s.Categories[i], s.Categories[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Name < b.Name
	})

	for _, v := range volume {
		s.WeekEmails += v.Emails
		s.WeekResolved += v.Resolved
	}
	s.ResolutionRate = percent(s.WeekResolved, s.WeekEmails)
	return s
}

// percent returns n/total as a percentage rounded to one decimal, 0 when
// total is 0.
func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(n)/float64(total)*1000) / 10
}
