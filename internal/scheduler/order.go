package scheduler

import (
	"sort"

	"github.com/me/triage/pkg/model"
)

// Less reports whether a is processed before b: urgent before normal,
// then earliest received first.
func Less(a, b model.WorkItem) bool {
	ra, rb := tierRank(a.Priority), tierRank(b.Priority)
	if ra != rb {
		return ra < rb
	}
	return a.ReceivedAt.Before(b.ReceivedAt)
}

// Order returns the ids of items in processing order. The sort is stable,
// so items with the same tier and timestamp keep their input order. The
// input slice is not modified.
func Order(items []model.WorkItem) []string {
	sorted := make([]model.WorkItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return Less(sorted[i], sorted[j])
	})

	ids := make([]string, len(sorted))
	for i, it := range sorted {
		ids[i] = it.ID
	}
	return ids
}

// tierRank maps a priority to its sort rank. Anything that is not urgent
// is scheduled with the normal tier.
func tierRank(p model.Priority) int {
	if p == model.PriorityUrgent {
		return 0
	}
	return 1
}
