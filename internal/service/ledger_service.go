package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fintrack/internal/cache"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/model"
	"fintrack/internal/repository"
)

const summaryCacheTTL = 5 * time.Minute

// dateLayouts are the accepted formats for caller-supplied dates, tried in
// order. The original frontend submits date-input values ("2006-01-02").
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Summary is the derived dashboard aggregate for one user.
type Summary struct {
	TotalIncome   int64 `json:"total_income"`
	TotalExpenses int64 `json:"total_expenses"`
	Balance       int64 `json:"balance"`
}

// LedgerService handles transaction listing, creation and the dashboard
// summary for an already-resolved user.
type LedgerService interface {
	List(ctx context.Context, userID uint) ([]model.Transaction, error)
	Create(ctx context.Context, userID uint, date, description, category string, amount int64) (*model.Transaction, error)
	Summary(ctx context.Context, userID uint) (*Summary, error)
}

type ledgerService struct {
	transactions repository.TransactionRepository
	cache        *cache.Client
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(transactions repository.TransactionRepository, cache *cache.Client) LedgerService {
	return &ledgerService{
		transactions: transactions,
		cache:        cache,
	}
}

func (s *ledgerService) cacheKey(userID uint) string {
	return fmt.Sprintf("dashboard:%d", userID)
}

// List returns the user's transactions ordered by date, newest first.
func (s *ledgerService) List(ctx context.Context, userID uint) ([]model.Transaction, error) {
	return s.transactions.ListByUser(ctx, userID)
}

// Create persists a ledger entry for the user. A blank date defaults to the
// current time; an unparsable date or a persistence failure surfaces as the
// generic creation error with no partial state.
func (s *ledgerService) Create(ctx context.Context, userID uint, date, description, category string, amount int64) (*model.Transaction, error) {
	when, err := parseDate(date)
	if err != nil {
		return nil, apperrors.ErrTransactionCreate
	}

	tx := &model.Transaction{
		Date:        when,
		Description: description,
		Category:    category,
		Amount:      amount,
		UserID:      &userID,
	}
	if err := s.transactions.Create(ctx, tx); err != nil {
		return nil, apperrors.ErrTransactionCreate
	}

	// The cached summary is stale now.
	_ = s.cache.Delete(ctx, s.cacheKey(userID))

	return tx, nil
}

// Summary computes the dashboard aggregate, serving from cache when possible.
// A user with no transactions yields all zeros.
func (s *ledgerService) Summary(ctx context.Context, userID uint) (*Summary, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(userID)); data != nil {
		var cached Summary
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	totals, err := s.transactions.SummaryByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("summarize transactions: %w", err)
	}

	summary := &Summary{
		TotalIncome:   totals.TotalIncome,
		TotalExpenses: totals.TotalExpenses,
		Balance:       totals.TotalIncome - totals.TotalExpenses,
	}

	if payload, err := json.Marshal(summary); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(userID), payload, summaryCacheTTL)
	}

	return summary, nil
}

func parseDate(date string) (time.Time, error) {
	if date == "" {
		return time.Now(), nil
	}
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, date)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
