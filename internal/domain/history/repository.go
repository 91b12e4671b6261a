package history

import (
	"context"

	"github.com/wms/backend/internal/domain/shared"
)

// Repository persists ledger entries. The persisted ledger mirrors the
// in-memory one: append-only, served newest first.
type Repository interface {
	// Append stores a new entry
	Append(ctx context.Context, entry *Entry) error

	// FindAll returns entries newest first
	FindAll(ctx context.Context, filter shared.Filter) ([]Entry, error)

	// FindByArticle returns entries for an article code, newest first
	FindByArticle(ctx context.Context, articleOld string, filter shared.Filter) ([]Entry, error)

	// Count counts all entries
	Count(ctx context.Context) (int64, error)
}
