package store

import (
	"context"

	"github.com/me/triage/pkg/model"
)

// Store defines the persistence layer for the email catalog.
type Store interface {
	// Email CRUD
	CreateEmail(ctx context.Context, e *model.Email) error
	UpsertEmail(ctx context.Context, e *model.Email) error
	GetEmail(ctx context.Context, id string) (*model.Email, error)
	ListEmails(ctx context.Context, f model.EmailFilter) ([]*model.Email, int, error)

	// Queue feed
	ListQueueable(ctx context.Context) ([]*model.Email, error)
	CountEmails(ctx context.Context) (model.EmailCounts, error)

	// Lifecycle
	Close() error
	Migrate(ctx context.Context) error
}

// All pages through ListEmails and returns every email matching f.
func All(ctx context.Context, st Store, f model.EmailFilter) ([]*model.Email, error) {
	f.Limit = 100
	f.Offset = 0
	var out []*model.Email
	for {
		page, total, err := st.ListEmails(ctx, f)
		if err != nil {
			return nil, err
		}
		out = append(out, page...)
		f.Offset += len(page)
		if len(page) == 0 || f.Offset >= total {
			return out, nil
		}
	}
}
