package service

import (
	"context"
	"errors"
	"go-finance-api/logger"
	"go-finance-api/model"
	"go-finance-api/repository"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidAmount       = errors.New("amount must be positive with at most two decimal places")
	ErrInvalidCategory     = errors.New("invalid category")
	ErrInvalidPeriod       = errors.New("invalid month or year")
)

// maxAmount matches the DECIMAL(15,2) column.
var maxAmount = decimal.New(1, 13)

// TransactionService manages transactions and the cached monthly summary.
type TransactionService struct {
	repo       repository.ITransactionRepository
	categories repository.ICategoryRepository
	cache      ICacheClient
	now        func() time.Time
}

// NewTransactionService accepts a nil cache, in which case summaries are always computed.
func NewTransactionService(repo repository.ITransactionRepository, categories repository.ICategoryRepository, cache ICacheClient) *TransactionService {
	return &TransactionService{
		repo:       repo,
		categories: categories,
		cache:      cache,
		now:        time.Now,
	}
}

func (s *TransactionService) List(ctx context.Context, accountID int64, filter model.TransactionFilter) ([]*model.Transaction, error) {
	return s.repo.List(ctx, accountID, filter)
}

func (s *TransactionService) Get(ctx context.Context, accountID, id int64) (*model.Transaction, error) {
	t, err := s.repo.GetByID(ctx, accountID, id)
	if errors.Is(err, repository.ErrTransactionNotFound) {
		return nil, ErrTransactionNotFound
	}
	return t, err
}

func (s *TransactionService) Create(ctx context.Context, accountID int64, req model.TransactionRequest) (*model.Transaction, error) {
	t := &model.Transaction{AccountID: accountID}
	if err := s.apply(ctx, t, req); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	s.invalidateSummaries(ctx, accountID)
	return t, nil
}

func (s *TransactionService) Update(ctx context.Context, accountID, id int64, req model.TransactionRequest) (*model.Transaction, error) {
	t, err := s.Get(ctx, accountID, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, t, req); err != nil {
		return nil, err
	}
	t.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, t); err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	s.invalidateSummaries(ctx, accountID)
	return t, nil
}

func (s *TransactionService) Delete(ctx context.Context, accountID, id int64) error {
	err := s.repo.Delete(ctx, accountID, id)
	if errors.Is(err, repository.ErrTransactionNotFound) {
		return ErrTransactionNotFound
	}
	if err != nil {
		return err
	}
	s.invalidateSummaries(ctx, accountID)
	return nil
}

// Summary returns the totals of one calendar month (UTC), cache-aside.
func (s *TransactionService) Summary(ctx context.Context, accountID int64, year, month int) (*model.Summary, error) {
	if month < 1 || month > 12 || year < 1 || year > 9999 {
		return nil, ErrInvalidPeriod
	}

	key := summaryCacheKey(accountID, year, month)
	var cached model.Summary
	if cacheGet(ctx, s.cache, key, &cached) {
		return &cached, nil
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	summary, err := s.repo.Summarize(ctx, accountID, from, from.AddDate(0, 1, 0))
	if err != nil {
		return nil, err
	}

	cacheSet(ctx, s.cache, key, summary, summaryCacheTTL)
	return summary, nil
}

// CurrentPeriod is the year and month used when the caller does not pick one.
func (s *TransactionService) CurrentPeriod() (int, int) {
	now := s.now().UTC()
	return now.Year(), int(now.Month())
}

// apply copies a validated request onto t after the checks that need the database.
func (s *TransactionService) apply(ctx context.Context, t *model.Transaction, req model.TransactionRequest) error {
	if !req.Amount.IsPositive() || !req.Amount.Equal(req.Amount.Round(2)) || req.Amount.GreaterThanOrEqual(maxAmount) {
		return ErrInvalidAmount
	}

	category, err := s.categories.GetByID(ctx, t.AccountID, req.CategoryID)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return ErrInvalidCategory
		}
		return err
	}
	if category.Type != req.Type {
		logger.Log.WithFields(logrus.Fields{
			"category_id":      category.ID,
			"category_type":    category.Type,
			"transaction_type": req.Type,
		}).Info("Transaction type does not match its category")
		return ErrInvalidCategory
	}

	t.Description = req.Description
	t.Amount = req.Amount
	t.Type = req.Type
	t.Date = req.Date
	t.CategoryID = category.ID
	t.CategoryName = category.Name
	t.CategoryColor = category.Color
	t.CategoryIcon = category.Icon
	t.Notes = req.Notes
	t.Recurring = req.Recurring
	t.Recurrence = nil
	if req.Recurring {
		t.Recurrence = req.Recurrence
	}
	return nil
}

func (s *TransactionService) invalidateSummaries(ctx context.Context, accountID int64) {
	cacheInvalidate(ctx, s.cache, summaryCachePattern(accountID))
}
