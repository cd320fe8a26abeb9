package handler

import (
	"context"
	"errors"
	"go-finance-api/model"
	"go-finance-api/service"
	"time"

	"github.com/stretchr/testify/mock"
)

type MockAuthService struct{ mock.Mock }

func (m *MockAuthService) Register(ctx context.Context, req model.RegisterRequest, client service.ClientInfo) (*model.AuthResponse, error) {
	args := m.Called(ctx, req, client)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AuthResponse), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, req model.LoginRequest, client service.ClientInfo) (*model.AuthResponse, error) {
	args := m.Called(ctx, req, client)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AuthResponse), args.Error(1)
}

func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string, client service.ClientInfo) (*model.AuthResponse, error) {
	args := m.Called(ctx, refreshToken, client)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AuthResponse), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, refreshToken string) error {
	return m.Called(ctx, refreshToken).Error(0)
}

func (m *MockAuthService) LogoutAll(ctx context.Context, accountID int64) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAuthService) Me(ctx context.Context, accountID int64) (*model.AccountSummary, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AccountSummary), args.Error(1)
}

type MockCategoryService struct{ mock.Mock }

func (m *MockCategoryService) List(ctx context.Context, accountID int64, txType *model.TransactionType) ([]*model.Category, error) {
	args := m.Called(ctx, accountID, txType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Category), args.Error(1)
}

func (m *MockCategoryService) Get(ctx context.Context, accountID, id int64) (*model.Category, error) {
	args := m.Called(ctx, accountID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockCategoryService) Create(ctx context.Context, accountID int64, req model.CreateCategoryRequest) (*model.Category, error) {
	args := m.Called(ctx, accountID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockCategoryService) Update(ctx context.Context, accountID, id int64, req model.UpdateCategoryRequest) (*model.Category, error) {
	args := m.Called(ctx, accountID, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockCategoryService) Delete(ctx context.Context, accountID, id int64) error {
	return m.Called(ctx, accountID, id).Error(0)
}

type MockTransactionService struct{ mock.Mock }

func (m *MockTransactionService) List(ctx context.Context, accountID int64, filter model.TransactionFilter) ([]*model.Transaction, error) {
	args := m.Called(ctx, accountID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Transaction), args.Error(1)
}

func (m *MockTransactionService) Get(ctx context.Context, accountID, id int64) (*model.Transaction, error) {
	args := m.Called(ctx, accountID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Transaction), args.Error(1)
}

func (m *MockTransactionService) Create(ctx context.Context, accountID int64, req model.TransactionRequest) (*model.Transaction, error) {
	args := m.Called(ctx, accountID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Transaction), args.Error(1)
}

func (m *MockTransactionService) Update(ctx context.Context, accountID, id int64, req model.TransactionRequest) (*model.Transaction, error) {
	args := m.Called(ctx, accountID, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Transaction), args.Error(1)
}

func (m *MockTransactionService) Delete(ctx context.Context, accountID, id int64) error {
	return m.Called(ctx, accountID, id).Error(0)
}

func (m *MockTransactionService) Summary(ctx context.Context, accountID int64, year, month int) (*model.Summary, error) {
	args := m.Called(ctx, accountID, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Summary), args.Error(1)
}

func (m *MockTransactionService) CurrentPeriod() (int, int) {
	args := m.Called()
	return args.Int(0), args.Int(1)
}

// stubLimiter answers every Allow call with the configured result.
type stubLimiter struct {
	allowed    bool
	retryAfter time.Duration
	err        error
	keys       []string
}

func (s *stubLimiter) Allow(_ context.Context, key string, _ time.Time) (bool, time.Duration, error) {
	s.keys = append(s.keys, key)
	return s.allowed, s.retryAfter, s.err
}

// stubVerifier accepts exactly one token.
type stubVerifier struct {
	token     string
	accountID int64
}

func (s stubVerifier) AccountID(token string) (int64, error) {
	if token != s.token {
		return 0, errors.New("token rejected")
	}
	return s.accountID, nil
}
