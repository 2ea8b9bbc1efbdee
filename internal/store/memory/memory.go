package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dvloznov/revelation/internal/domain"
	"github.com/dvloznov/revelation/internal/store"
)

// Store is an in-memory FinanceStore. It is safe for concurrent use and
// returns copies, so callers cannot mutate its contents. Suitable for
// tests and the CLI fixture mode; production reads go through BigQuery.
type Store struct {
	mu           sync.RWMutex
	transactions map[string][]domain.Transaction
	goals        map[string][]domain.Goal
	emotions     map[string][]domain.Emotion
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		transactions: make(map[string][]domain.Transaction),
		goals:        make(map[string][]domain.Goal),
		emotions:     make(map[string][]domain.Emotion),
	}
}

// AddTransactions appends transactions for their respective users.
func (s *Store) AddTransactions(txs ...domain.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range txs {
		s.transactions[t.UserID] = append(s.transactions[t.UserID], t)
	}
}

// AddGoals appends goals for their respective users.
func (s *Store) AddGoals(goals ...domain.Goal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range goals {
		s.goals[g.UserID] = append(s.goals[g.UserID], g)
	}
}

// AddEmotions appends mood entries for their respective users.
func (s *Store) AddEmotions(emotions ...domain.Emotion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range emotions {
		s.emotions[e.UserID] = append(s.emotions[e.UserID], e)
	}
}

// ListTransactions implements store.FinanceStore.
func (s *Store) ListTransactions(ctx context.Context, userID string, from, to time.Time) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Transaction
	for _, t := range s.transactions[userID] {
		if t.Date.Before(from) || t.Date.After(to) {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// ListActiveGoals implements store.FinanceStore.
func (s *Store) ListActiveGoals(ctx context.Context, userID string) ([]domain.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Goal
	for _, g := range s.goals[userID] {
		if g.Status != domain.GoalStatusActive {
			continue
		}
		out = append(out, g)
	}
	return out, nil
}

// ListEmotions implements store.FinanceStore.
func (s *Store) ListEmotions(ctx context.Context, userID string, from, to time.Time) ([]domain.Emotion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Emotion
	for _, e := range s.emotions[userID] {
		if e.Date.Before(from) || e.Date.After(to) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// Ensure Store implements the FinanceStore interface.
var _ store.FinanceStore = (*Store)(nil)
