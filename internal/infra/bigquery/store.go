package bigquery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"google.golang.org/api/iterator"

	"github.com/dvloznov/revelation/internal/domain"
	"github.com/dvloznov/revelation/internal/store"
)

const (
	datasetID         = "revelation"
	transactionsTable = "transactions"
	goalsTable        = "goals"
	emotionsTable     = "emotions"
	dateFormat        = "2006-01-02"
)

// FinanceStore is the BigQuery-backed implementation of
// store.FinanceStore. It holds a shared client; call Close when done.
type FinanceStore struct {
	client *bigquery.Client
}

// NewFinanceStore creates a FinanceStore for the given GCP project using
// Application Default Credentials.
func NewFinanceStore(ctx context.Context, projectID string) (*FinanceStore, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("NewFinanceStore: creating client: %w", err)
	}
	return &FinanceStore{client: client}, nil
}

// Close closes the underlying BigQuery client.
func (s *FinanceStore) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// transactionRow is one row of revelation.transactions. Amounts are
// stored unsigned with a direction column; toDomain applies the signed
// convention (IN positive, OUT negative) so nothing downstream has to.
type transactionRow struct {
	TransactionID   string              `bigquery:"transaction_id"`
	UserID          string              `bigquery:"user_id"`
	TransactionDate civil.Date          `bigquery:"transaction_date"`
	Amount          float64             `bigquery:"amount"`
	Direction       bigquery.NullString `bigquery:"direction"`
	Category        string              `bigquery:"category"`
	Description     bigquery.NullString `bigquery:"description"`
}

func (r *transactionRow) toDomain() domain.Transaction {
	amount := r.Amount
	if strings.EqualFold(r.Direction.StringVal, "OUT") && amount > 0 {
		amount = -amount
	}
	return domain.Transaction{
		ID:          r.TransactionID,
		UserID:      r.UserID,
		Date:        r.TransactionDate.In(time.UTC),
		Amount:      amount,
		Category:    r.Category,
		Description: r.Description.StringVal,
	}
}

// goalRow is one row of revelation.goals.
type goalRow struct {
	GoalID        string            `bigquery:"goal_id"`
	UserID        string            `bigquery:"user_id"`
	Title         string            `bigquery:"title"`
	TargetAmount  float64           `bigquery:"target_amount"`
	CurrentAmount float64           `bigquery:"current_amount"`
	Deadline      bigquery.NullDate `bigquery:"deadline"`
	Status        string            `bigquery:"status"`
}

func (r *goalRow) toDomain() domain.Goal {
	g := domain.Goal{
		ID:            r.GoalID,
		UserID:        r.UserID,
		Title:         r.Title,
		TargetAmount:  r.TargetAmount,
		CurrentAmount: r.CurrentAmount,
		Status:        domain.GoalStatus(r.Status),
	}
	if r.Deadline.Valid {
		d := r.Deadline.Date.In(time.UTC)
		g.Deadline = &d
	}
	return g
}

// emotionRow is one row of revelation.emotions.
type emotionRow struct {
	EmotionID string              `bigquery:"emotion_id"`
	UserID    string              `bigquery:"user_id"`
	EntryDate civil.Date          `bigquery:"entry_date"`
	Mood      string              `bigquery:"mood"`
	Note      bigquery.NullString `bigquery:"note"`
}

func (r *emotionRow) toDomain() domain.Emotion {
	return domain.Emotion{
		ID:     r.EmotionID,
		UserID: r.UserID,
		Date:   r.EntryDate.In(time.UTC),
		Mood:   r.Mood,
		Note:   r.Note.StringVal,
	}
}

// ListTransactions implements store.FinanceStore.
func (s *FinanceStore) ListTransactions(ctx context.Context, userID string, from, to time.Time) ([]domain.Transaction, error) {
	q := s.client.Query(fmt.Sprintf(`
		SELECT
			transaction_id,
			user_id,
			transaction_date,
			amount,
			direction,
			category,
			description
		FROM %s.%s
		WHERE user_id = @user_id
		  AND transaction_date >= @start_date
		  AND transaction_date <= @end_date
		ORDER BY transaction_date
	`, datasetID, transactionsTable))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
		{Name: "start_date", Value: from.Format(dateFormat)},
		{Name: "end_date", Value: to.Format(dateFormat)},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListTransactions: query read: %w", err)
	}

	var out []domain.Transaction
	for {
		var r transactionRow
		err := it.Next(&r)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListTransactions: iter next: %w", err)
		}
		out = append(out, r.toDomain())
	}
	return out, nil
}

// ListActiveGoals implements store.FinanceStore.
func (s *FinanceStore) ListActiveGoals(ctx context.Context, userID string) ([]domain.Goal, error) {
	q := s.client.Query(fmt.Sprintf(`
		SELECT
			goal_id,
			user_id,
			title,
			target_amount,
			current_amount,
			deadline,
			status
		FROM %s.%s
		WHERE user_id = @user_id
		  AND status = 'active'
		ORDER BY goal_id
	`, datasetID, goalsTable))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListActiveGoals: query read: %w", err)
	}

	var out []domain.Goal
	for {
		var r goalRow
		err := it.Next(&r)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListActiveGoals: iter next: %w", err)
		}
		out = append(out, r.toDomain())
	}
	return out, nil
}

// ListEmotions implements store.FinanceStore.
func (s *FinanceStore) ListEmotions(ctx context.Context, userID string, from, to time.Time) ([]domain.Emotion, error) {
	q := s.client.Query(fmt.Sprintf(`
		SELECT
			emotion_id,
			user_id,
			entry_date,
			mood,
			note
		FROM %s.%s
		WHERE user_id = @user_id
		  AND entry_date >= @start_date
		  AND entry_date <= @end_date
		ORDER BY entry_date
	`, datasetID, emotionsTable))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
		{Name: "start_date", Value: from.Format(dateFormat)},
		{Name: "end_date", Value: to.Format(dateFormat)},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListEmotions: query read: %w", err)
	}

	var out []domain.Emotion
	for {
		var r emotionRow
		err := it.Next(&r)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListEmotions: iter next: %w", err)
		}
		out = append(out, r.toDomain())
	}
	return out, nil
}

// Ensure FinanceStore implements the interface.
var _ store.FinanceStore = (*FinanceStore)(nil)
