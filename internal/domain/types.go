package domain

import (
	"time"
)

// Transaction is one movement on a user's account as the insights engine
// sees it. Amount is signed: positive for money IN (income), negative for
// money OUT (expenses). Store implementations normalize to this convention
// at the boundary; nothing downstream re-derives the sign from category
// text.
type Transaction struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Date        time.Time `json:"date"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
}

// IsExpense reports whether the transaction is money OUT.
func (t Transaction) IsExpense() bool {
	return t.Amount < 0
}

// GoalStatus is the lifecycle state of a savings goal.
type GoalStatus string

const (
	GoalStatusActive    GoalStatus = "active"
	GoalStatusCompleted GoalStatus = "completed"
	GoalStatusAbandoned GoalStatus = "abandoned"
)

// Goal is a savings goal with a target amount and an optional deadline.
type Goal struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	Title         string     `json:"title"`
	TargetAmount  float64    `json:"target_amount"`
	CurrentAmount float64    `json:"current_amount"`
	Deadline      *time.Time `json:"deadline,omitempty"`
	Status        GoalStatus `json:"status"`
}

// Progress returns the goal completion ratio clamped to [0, 1].
// A zero target means progress cannot be defined and yields 0.
func (g Goal) Progress() float64 {
	if g.TargetAmount <= 0 {
		return 0
	}
	p := g.CurrentAmount / g.TargetAmount
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Emotion is one mood entry from the user's journal. Mood values come from
// a fixed vocabulary ("stressed", "anxious", "sad", "happy", "excited",
// "optimistic", "neutral", ...); matching is case-insensitive downstream.
type Emotion struct {
	ID     string    `json:"id"`
	UserID string    `json:"user_id"`
	Date   time.Time `json:"date"`
	Mood   string    `json:"mood"`
	Note   string    `json:"note,omitempty"`
}
