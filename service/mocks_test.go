package service

import (
	"context"
	"database/sql"
	"go-finance-api/model"
	"go-finance-api/repository"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock for IAccountRepository.
type MockAccountRepository struct{ mock.Mock }

func (m *MockAccountRepository) Create(ctx context.Context, q repository.DBTX, account *model.Account) error {
	args := m.Called(ctx, q, account)
	return args.Error(0)
}

func (m *MockAccountRepository) GetByEmail(ctx context.Context, q repository.DBTX, email string) (*model.Account, error) {
	args := m.Called(ctx, q, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *MockAccountRepository) GetByEmailForUpdate(ctx context.Context, tx *sql.Tx, email string) (*model.Account, error) {
	args := m.Called(ctx, tx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *MockAccountRepository) GetByID(ctx context.Context, q repository.DBTX, id int64) (*model.Account, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateLoginState(ctx context.Context, q repository.DBTX, account *model.Account) error {
	args := m.Called(ctx, q, account)
	return args.Error(0)
}

// MockTokenRepository is a mock for ITokenRepository.
type MockTokenRepository struct{ mock.Mock }

func (m *MockTokenRepository) Create(ctx context.Context, q repository.DBTX, accountID int64, token string, expiresAt time.Time, clientIP, userAgent string) (*model.RefreshToken, error) {
	args := m.Called(ctx, q, accountID, token, expiresAt, clientIP, userAgent)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RefreshToken), args.Error(1)
}

func (m *MockTokenRepository) FindValid(ctx context.Context, q repository.DBTX, token string, now time.Time) (*model.RefreshToken, error) {
	args := m.Called(ctx, q, token, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RefreshToken), args.Error(1)
}

func (m *MockTokenRepository) Revoke(ctx context.Context, q repository.DBTX, token string, now time.Time) error {
	args := m.Called(ctx, q, token, now)
	return args.Error(0)
}

func (m *MockTokenRepository) RevokeAllForAccount(ctx context.Context, q repository.DBTX, accountID int64, now time.Time) (int64, error) {
	args := m.Called(ctx, q, accountID, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockCategoryRepository is a mock for ICategoryRepository.
type MockCategoryRepository struct{ mock.Mock }

func (m *MockCategoryRepository) List(ctx context.Context, accountID int64, txType *model.TransactionType) ([]*model.Category, error) {
	args := m.Called(ctx, accountID, txType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Category), args.Error(1)
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, accountID, id int64) (*model.Category, error) {
	args := m.Called(ctx, accountID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *model.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Update(ctx context.Context, category *model.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, accountID, id int64) error {
	args := m.Called(ctx, accountID, id)
	return args.Error(0)
}

func (m *MockCategoryRepository) HasTransactions(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockTransactionRepository is a mock for ITransactionRepository.
type MockTransactionRepository struct{ mock.Mock }

func (m *MockTransactionRepository) List(ctx context.Context, accountID int64, filter model.TransactionFilter) ([]*model.Transaction, error) {
	args := m.Called(ctx, accountID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, accountID, id int64) (*model.Transaction, error) {
	args := m.Called(ctx, accountID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) Create(ctx context.Context, t *model.Transaction) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTransactionRepository) Update(ctx context.Context, t *model.Transaction) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTransactionRepository) Delete(ctx context.Context, accountID, id int64) error {
	args := m.Called(ctx, accountID, id)
	return args.Error(0)
}

func (m *MockTransactionRepository) Summarize(ctx context.Context, accountID int64, from, to time.Time) (*model.Summary, error) {
	args := m.Called(ctx, accountID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Summary), args.Error(1)
}
