package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"go-finance-api/logger"
	"go-finance-api/model"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ITransactionRepository defines the contract for transaction database operations.
type ITransactionRepository interface {
	List(ctx context.Context, accountID int64, filter model.TransactionFilter) ([]*model.Transaction, error)
	GetByID(ctx context.Context, accountID, id int64) (*model.Transaction, error)
	Create(ctx context.Context, transaction *model.Transaction) error
	Update(ctx context.Context, transaction *model.Transaction) error
	Delete(ctx context.Context, accountID, id int64) error
	Summarize(ctx context.Context, accountID int64, from, to time.Time) (*model.Summary, error)
}

// TransactionRepository implements ITransactionRepository.
type TransactionRepository struct {
	DB *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{DB: db}
}

const transactionSelect = `
	SELECT t.id, t.account_id, t.description, t.amount, t.type, t.date, t.category_id,
		c.name, c.color, c.icon, t.notes, t.recurring, t.recurrence, t.created_at, t.updated_at
	FROM transactions t
	JOIN categories c ON c.id = t.category_id`

// List retrieves the transactions of an account, newest first.
func (r *TransactionRepository) List(ctx context.Context, accountID int64, filter model.TransactionFilter) ([]*model.Transaction, error) {
	log := logger.Log.WithField("account_id", accountID)
	log.Info("Executing query to list transactions")

	query := transactionSelect + ` WHERE t.account_id = $1`
	args := []interface{}{accountID}
	if filter.Type != nil {
		args = append(args, *filter.Type)
		query += fmt.Sprintf(` AND t.type = $%d`, len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		query += fmt.Sprintf(` AND t.date >= $%d`, len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += fmt.Sprintf(` AND t.date <= $%d`, len(args))
	}
	query += ` ORDER BY t.date DESC, t.id DESC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.WithError(err).Error("Failed to execute query for transactions")
		return nil, err
	}
	defer rows.Close()

	transactions := []*model.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			log.WithError(err).Error("Failed to scan transaction row")
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

func (r *TransactionRepository) GetByID(ctx context.Context, accountID, id int64) (*model.Transaction, error) {
	query := transactionSelect + ` WHERE t.id = $1 AND t.account_id = $2`
	t, err := scanTransaction(r.DB.QueryRowContext(ctx, query, id, accountID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		logger.Log.WithError(err).WithField("transaction_id", id).Error("Failed to execute get transaction query")
		return nil, err
	}
	return t, nil
}

func (r *TransactionRepository) Create(ctx context.Context, transaction *model.Transaction) error {
	log := logger.Log.WithFields(logrus.Fields{
		"account_id":  transaction.AccountID,
		"category_id": transaction.CategoryID,
		"type":        transaction.Type,
	})
	log.Info("Executing query to create a new transaction")

	query := `
		INSERT INTO transactions (account_id, description, amount, type, date, category_id, notes, recurring, recurrence)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`
	err := r.DB.QueryRowContext(ctx, query,
		transaction.AccountID,
		transaction.Description,
		transaction.Amount,
		transaction.Type,
		transaction.Date,
		transaction.CategoryID,
		transaction.Notes,
		transaction.Recurring,
		recurrenceValue(transaction.Recurrence),
	).Scan(&transaction.ID, &transaction.CreatedAt, &transaction.UpdatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create transaction query")
		return err
	}
	return nil
}

func (r *TransactionRepository) Update(ctx context.Context, transaction *model.Transaction) error {
	log := logger.Log.WithFields(logrus.Fields{
		"account_id":     transaction.AccountID,
		"transaction_id": transaction.ID,
	})
	log.Info("Executing query to update a transaction")

	query := `
		UPDATE transactions
		SET description = $3, amount = $4, type = $5, date = $6, category_id = $7,
			notes = $8, recurring = $9, recurrence = $10, updated_at = $11
		WHERE id = $1 AND account_id = $2`
	res, err := r.DB.ExecContext(ctx, query,
		transaction.ID,
		transaction.AccountID,
		transaction.Description,
		transaction.Amount,
		transaction.Type,
		transaction.Date,
		transaction.CategoryID,
		transaction.Notes,
		transaction.Recurring,
		recurrenceValue(transaction.Recurrence),
		transaction.UpdatedAt,
	)
	if err != nil {
		log.WithError(err).Error("Failed to execute update transaction query")
		return err
	}
	return expectOneRow(res, ErrTransactionNotFound)
}

func (r *TransactionRepository) Delete(ctx context.Context, accountID, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1 AND account_id = $2`, id, accountID)
	if err != nil {
		logger.Log.WithError(err).WithField("transaction_id", id).Error("Failed to execute delete transaction query")
		return err
	}
	return expectOneRow(res, ErrTransactionNotFound)
}

// Summarize totals income and expense for dates in [from, to).
func (r *TransactionRepository) Summarize(ctx context.Context, accountID int64, from, to time.Time) (*model.Summary, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"account_id": accountID,
		"from":       from,
		"to":         to,
	})
	log.Info("Executing query to summarize transactions")

	query := `
		SELECT
			COALESCE(SUM(CASE WHEN type = 'income' THEN amount END), 0),
			COALESCE(SUM(CASE WHEN type = 'expense' THEN amount END), 0),
			COUNT(*)
		FROM transactions
		WHERE account_id = $1 AND date >= $2 AND date < $3`

	var (
		income  decimal.Decimal
		expense decimal.Decimal
		count   int
	)
	if err := r.DB.QueryRowContext(ctx, query, accountID, from, to).Scan(&income, &expense, &count); err != nil {
		log.WithError(err).Error("Failed to execute summarize query")
		return nil, err
	}

	return &model.Summary{
		Month:            int(from.Month()),
		Year:             from.Year(),
		TotalIncome:      income,
		TotalExpense:     expense,
		Balance:          income.Sub(expense),
		TransactionCount: count,
	}, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTransaction(row rowScanner) (*model.Transaction, error) {
	var (
		t          model.Transaction
		notes      sql.NullString
		recurrence sql.NullString
	)
	err := row.Scan(
		&t.ID, &t.AccountID, &t.Description, &t.Amount, &t.Type, &t.Date, &t.CategoryID,
		&t.CategoryName, &t.CategoryColor, &t.CategoryIcon, &notes, &t.Recurring, &recurrence,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if notes.Valid {
		t.Notes = &notes.String
	}
	if recurrence.Valid {
		rt, err := model.ParseRecurrenceType(recurrence.String)
		if err != nil {
			return nil, err
		}
		t.Recurrence = &rt
	}
	return &t, nil
}

func recurrenceValue(r *model.RecurrenceType) interface{} {
	if r == nil {
		return nil
	}
	return *r
}
