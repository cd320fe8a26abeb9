package handler

import (
	"context"
	"errors"
	"go-finance-api/common"
	"go-finance-api/model"
	"go-finance-api/service"
	"net/http"
	"strconv"
	"time"
)

// ITransactionService is implemented by service.TransactionService.
type ITransactionService interface {
	List(ctx context.Context, accountID int64, filter model.TransactionFilter) ([]*model.Transaction, error)
	Get(ctx context.Context, accountID, id int64) (*model.Transaction, error)
	Create(ctx context.Context, accountID int64, req model.TransactionRequest) (*model.Transaction, error)
	Update(ctx context.Context, accountID, id int64, req model.TransactionRequest) (*model.Transaction, error)
	Delete(ctx context.Context, accountID, id int64) error
	Summary(ctx context.Context, accountID int64, year, month int) (*model.Summary, error)
	CurrentPeriod() (int, int)
}

// TransactionHandler holds dependencies for transaction-related handlers.
type TransactionHandler struct {
	service ITransactionService
}

// NewTransactionHandler creates a new TransactionHandler with its dependencies.
func NewTransactionHandler(s ITransactionService) *TransactionHandler {
	return &TransactionHandler{service: s}
}

// List godoc
// @Summary      List transactions
// @Description  Newest first. from and to accept RFC 3339 timestamps or YYYY-MM-DD dates.
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        type query string false "income or expense"
// @Param        from query string false "earliest date"
// @Param        to   query string false "latest date"
// @Success      200  {array}   model.Transaction
// @Failure      400  {object}  common.AppError
// @Router       /api/transactions [get]
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) *common.AppError {
	accountID, appErr := requireAccountID(r)
	if appErr != nil {
		return appErr
	}

	var filter model.TransactionFilter
	if filter.Type, appErr = typeParam(r); appErr != nil {
		return appErr
	}
	if filter.From, appErr = dateParam(r, "from"); appErr != nil {
		return appErr
	}
	if filter.To, appErr = dateParam(r, "to"); appErr != nil {
		return appErr
	}

	transactions, err := h.service.List(r.Context(), accountID, filter)
	if err != nil {
		return common.Internal(err)
	}
	common.WriteJSON(w, http.StatusOK, transactions)
	return nil
}

// Get godoc
// @Summary      Get a transaction
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Transaction ID"
// @Success      200  {object}  model.Transaction
// @Failure      404  {object}  common.AppError
// @Router       /api/transactions/{id} [get]
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) *common.AppError {
	accountID, id, appErr := ownedResource(r)
	if appErr != nil {
		return appErr
	}

	t, err := h.service.Get(r.Context(), accountID, id)
	if err != nil {
		return transactionError(err)
	}
	common.WriteJSON(w, http.StatusOK, t)
	return nil
}

// Create godoc
// @Summary      Record a transaction
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        transaction body model.TransactionRequest true "Transaction"
// @Success      201  {object}  model.Transaction
// @Failure      400  {object}  common.AppError "Validation failed, invalid amount or invalid category"
// @Router       /api/transactions [post]
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) *common.AppError {
	accountID, appErr := requireAccountID(r)
	if appErr != nil {
		return appErr
	}
	var req model.TransactionRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	t, err := h.service.Create(r.Context(), accountID, req)
	if err != nil {
		return transactionError(err)
	}
	common.WriteJSON(w, http.StatusCreated, t)
	return nil
}

// Update godoc
// @Summary      Update a transaction
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Transaction ID"
// @Param        transaction body model.TransactionRequest true "Transaction"
// @Success      200  {object}  model.Transaction
// @Failure      400  {object}  common.AppError
// @Failure      404  {object}  common.AppError
// @Router       /api/transactions/{id} [put]
func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) *common.AppError {
	accountID, id, appErr := ownedResource(r)
	if appErr != nil {
		return appErr
	}
	var req model.TransactionRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	t, err := h.service.Update(r.Context(), accountID, id, req)
	if err != nil {
		return transactionError(err)
	}
	common.WriteJSON(w, http.StatusOK, t)
	return nil
}

// Delete godoc
// @Summary      Delete a transaction
// @Tags         transactions
// @Security     BearerAuth
// @Param        id path int true "Transaction ID"
// @Success      204
// @Failure      404  {object}  common.AppError
// @Router       /api/transactions/{id} [delete]
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) *common.AppError {
	accountID, id, appErr := ownedResource(r)
	if appErr != nil {
		return appErr
	}

	if err := h.service.Delete(r.Context(), accountID, id); err != nil {
		return transactionError(err)
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// Summary godoc
// @Summary      Monthly summary
// @Description  Totals for one calendar month (UTC). Defaults to the current month.
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        month query int false "1-12"
// @Param        year  query int false "four digit year"
// @Success      200  {object}  model.Summary
// @Failure      400  {object}  common.AppError
// @Router       /api/transactions/summary [get]
func (h *TransactionHandler) Summary(w http.ResponseWriter, r *http.Request) *common.AppError {
	accountID, appErr := requireAccountID(r)
	if appErr != nil {
		return appErr
	}

	year, month := h.service.CurrentPeriod()
	q := r.URL.Query()
	if raw := q.Get("month"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return common.NewAppError(http.StatusBadRequest, "invalid month or year", nil)
		}
		month = v
	}
	if raw := q.Get("year"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return common.NewAppError(http.StatusBadRequest, "invalid month or year", nil)
		}
		year = v
	}

	summary, err := h.service.Summary(r.Context(), accountID, year, month)
	if err != nil {
		return transactionError(err)
	}
	common.WriteJSON(w, http.StatusOK, summary)
	return nil
}

func transactionError(err error) *common.AppError {
	switch {
	case errors.Is(err, service.ErrTransactionNotFound):
		return common.NewAppError(http.StatusNotFound, "transaction not found", nil)
	case errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidCategory),
		errors.Is(err, service.ErrInvalidPeriod):
		return common.NewAppError(http.StatusBadRequest, err.Error(), nil)
	default:
		return common.Internal(err)
	}
}

func dateParam(r *http.Request, name string) (*time.Time, *common.AppError) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, common.NewAppError(http.StatusBadRequest, "invalid "+name+" date", nil)
}
