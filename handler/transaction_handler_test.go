package handler

import (
	"encoding/json"
	"errors"
	"go-finance-api/model"
	"go-finance-api/service"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestTransactionHandler_ListFilters(t *testing.T) {
	svc := new(MockTransactionService)
	h := NewTransactionHandler(svc)
	income := model.TransactionIncome
	from := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 10, 31, 23, 59, 59, 0, time.UTC)
	svc.On("List", mock.Anything, int64(1), model.TransactionFilter{Type: &income, From: &from, To: &to}).
		Return([]*model.Transaction{}, nil).Once()

	rr := serve(h.List, asAccount(newRequest(http.MethodGet,
		"/api/transactions?type=income&from=2026-10-01&to=2026-10-31T23:59:59Z", ""), 1))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
	svc.AssertExpectations(t)

	rr = serve(h.List, asAccount(newRequest(http.MethodGet, "/api/transactions?from=yesterday", ""), 1))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "invalid from date", messageOf(t, rr))
}

func TestTransactionHandler_Create(t *testing.T) {
	body := `{"description":"Mercado","amount":"120.50","type":"expense","date":"2026-10-18T00:00:00Z","categoryId":3}`

	t.Run("success", func(t *testing.T) {
		svc := new(MockTransactionService)
		h := NewTransactionHandler(svc)
		svc.On("Create", mock.Anything, int64(1), mock.MatchedBy(func(req model.TransactionRequest) bool {
			return req.Amount.Equal(decimal.RequireFromString("120.50")) && req.CategoryID == 3
		})).Return(&model.Transaction{
			ID:          11,
			Description: "Mercado",
			Amount:      decimal.RequireFromString("120.50"),
			Type:        model.TransactionExpense,
			Date:        time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC),
			CategoryID:  3,
		}, nil).Once()

		rr := serve(h.Create, asAccount(newRequest(http.MethodPost, "/api/transactions", body), 1))

		assert.Equal(t, http.StatusCreated, rr.Code)
		var got model.Transaction
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, int64(11), got.ID)
		assert.Equal(t, model.TransactionExpense, got.Type)
		svc.AssertExpectations(t)
	})

	t.Run("domain errors map to 400", func(t *testing.T) {
		for _, err := range []error{service.ErrInvalidAmount, service.ErrInvalidCategory} {
			svc := new(MockTransactionService)
			h := NewTransactionHandler(svc)
			svc.On("Create", mock.Anything, int64(1), mock.Anything).Return(nil, err).Once()

			rr := serve(h.Create, asAccount(newRequest(http.MethodPost, "/api/transactions", body), 1))

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, err.Error(), messageOf(t, rr))
		}
	})

	t.Run("response that cannot be encoded is a 500", func(t *testing.T) {
		svc := new(MockTransactionService)
		h := NewTransactionHandler(svc)
		svc.On("Create", mock.Anything, int64(1), mock.Anything).
			Return(&model.Transaction{ID: 12, Description: "Mercado", Amount: decimal.NewFromInt(1)}, nil).Once()

		rr := serve(h.Create, asAccount(newRequest(http.MethodPost, "/api/transactions", body), 1))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Equal(t, "internal server error", messageOf(t, rr))
	})

	t.Run("unauthenticated", func(t *testing.T) {
		svc := new(MockTransactionService)
		h := NewTransactionHandler(svc)

		rr := serve(h.Create, newRequest(http.MethodPost, "/api/transactions", body))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestTransactionHandler_UpdateAndDelete(t *testing.T) {
	svc := new(MockTransactionService)
	h := NewTransactionHandler(svc)
	svc.On("Update", mock.Anything, int64(1), int64(4), mock.Anything).Return(nil, service.ErrTransactionNotFound).Once()
	svc.On("Delete", mock.Anything, int64(1), int64(4)).Return(errors.New("db gone")).Once()

	req := asAccount(newRequest(http.MethodPut, "/api/transactions/4",
		`{"description":"x","amount":"1","type":"income","date":"2026-10-18T00:00:00Z","categoryId":2}`), 1)
	req.SetPathValue("id", "4")
	rr := serve(h.Update, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	req = asAccount(newRequest(http.MethodDelete, "/api/transactions/4", ""), 1)
	req.SetPathValue("id", "4")
	rr = serve(h.Delete, req)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	svc.AssertExpectations(t)
}

func TestTransactionHandler_Summary(t *testing.T) {
	t.Run("defaults to the current period", func(t *testing.T) {
		svc := new(MockTransactionService)
		h := NewTransactionHandler(svc)
		svc.On("CurrentPeriod").Return(2026, 10).Once()
		svc.On("Summary", mock.Anything, int64(1), 2026, 10).Return(&model.Summary{
			Month: 10, Year: 2026,
			TotalIncome:  decimal.NewFromInt(5000),
			TotalExpense: decimal.RequireFromString("120.5"),
			Balance:      decimal.RequireFromString("4879.5"),
		}, nil).Once()

		rr := serve(h.Summary, asAccount(newRequest(http.MethodGet, "/api/transactions/summary", ""), 1))

		assert.Equal(t, http.StatusOK, rr.Code)
		svc.AssertExpectations(t)
	})

	t.Run("explicit month", func(t *testing.T) {
		svc := new(MockTransactionService)
		h := NewTransactionHandler(svc)
		svc.On("CurrentPeriod").Return(2026, 10).Once()
		svc.On("Summary", mock.Anything, int64(1), 2025, 2).Return(&model.Summary{Month: 2, Year: 2025}, nil).Once()

		rr := serve(h.Summary, asAccount(newRequest(http.MethodGet, "/api/transactions/summary?month=2&year=2025", ""), 1))

		assert.Equal(t, http.StatusOK, rr.Code)
		svc.AssertExpectations(t)
	})

	t.Run("invalid period", func(t *testing.T) {
		svc := new(MockTransactionService)
		h := NewTransactionHandler(svc)
		svc.On("CurrentPeriod").Return(2026, 10)
		svc.On("Summary", mock.Anything, int64(1), 2026, 13).Return(nil, service.ErrInvalidPeriod).Once()

		rr := serve(h.Summary, asAccount(newRequest(http.MethodGet, "/api/transactions/summary?month=13", ""), 1))
		assert.Equal(t, http.StatusBadRequest, rr.Code)

		rr = serve(h.Summary, asAccount(newRequest(http.MethodGet, "/api/transactions/summary?month=march", ""), 1))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
