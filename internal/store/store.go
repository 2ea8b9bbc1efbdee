package store

import (
	"context"
	"time"

	"github.com/dvloznov/revelation/internal/domain"
)

// FinanceStore provides read access to a user's financial records. The
// insights engine only ever reads; writes belong to the CRUD layer that
// owns the data. Implementations must return transactions with the signed
// amount convention (positive income, negative expenses) already applied.
type FinanceStore interface {
	// ListTransactions returns the user's transactions with a date in
	// [from, to], ordered by date ascending.
	ListTransactions(ctx context.Context, userID string, from, to time.Time) ([]domain.Transaction, error)

	// ListActiveGoals returns the user's goals with status=active.
	ListActiveGoals(ctx context.Context, userID string) ([]domain.Goal, error)

	// ListEmotions returns the user's mood entries with a date in
	// [from, to], ordered by date ascending.
	ListEmotions(ctx context.Context, userID string, from, to time.Time) ([]domain.Emotion, error)
}
