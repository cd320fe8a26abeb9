package repository

import (
	"context"
	"database/sql"
	"errors"
	"go-finance-api/logger"
	"go-finance-api/model"

	"github.com/sirupsen/logrus"
)

// ICategoryRepository defines the contract for category database operations.
type ICategoryRepository interface {
	List(ctx context.Context, accountID int64, txType *model.TransactionType) ([]*model.Category, error)
	GetByID(ctx context.Context, accountID, id int64) (*model.Category, error)
	Create(ctx context.Context, category *model.Category) error
	Update(ctx context.Context, category *model.Category) error
	Delete(ctx context.Context, accountID, id int64) error
	HasTransactions(ctx context.Context, id int64) (bool, error)
}

type CategoryRepository struct {
	DB *sql.DB
}

func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{DB: db}
}

// List returns the active categories of an account, optionally of one type.
func (r *CategoryRepository) List(ctx context.Context, accountID int64, txType *model.TransactionType) ([]*model.Category, error) {
	log := logger.Log.WithField("account_id", accountID)
	log.Info("Executing query to list categories")

	query := `
		SELECT id, account_id, name, type, color, icon, active, created_at
		FROM categories
		WHERE account_id = $1 AND active = TRUE`
	args := []interface{}{accountID}
	if txType != nil {
		query += ` AND type = $2`
		args = append(args, *txType)
	}
	query += ` ORDER BY name`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.WithError(err).Error("Failed to execute query for categories")
		return nil, err
	}
	defer rows.Close()

	categories := []*model.Category{}
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.AccountID, &c.Name, &c.Type, &c.Color, &c.Icon, &c.Active, &c.CreatedAt); err != nil {
			log.WithError(err).Error("Failed to scan category row")
			return nil, err
		}
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}

// GetByID returns a category only when it belongs to accountID.
func (r *CategoryRepository) GetByID(ctx context.Context, accountID, id int64) (*model.Category, error) {
	query := `
		SELECT id, account_id, name, type, color, icon, active, created_at
		FROM categories
		WHERE id = $1 AND account_id = $2`

	var c model.Category
	err := r.DB.QueryRowContext(ctx, query, id, accountID).
		Scan(&c.ID, &c.AccountID, &c.Name, &c.Type, &c.Color, &c.Icon, &c.Active, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		logger.Log.WithError(err).WithField("category_id", id).Error("Failed to execute get category query")
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepository) Create(ctx context.Context, category *model.Category) error {
	log := logger.Log.WithFields(logrus.Fields{
		"account_id": category.AccountID,
		"type":       category.Type,
	})
	log.Info("Executing query to create a new category")

	query := `
		INSERT INTO categories (account_id, name, type, color, icon, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`
	err := r.DB.QueryRowContext(ctx, query,
		category.AccountID, category.Name, category.Type, category.Color, category.Icon, category.Active,
	).Scan(&category.ID, &category.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create category query")
		return err
	}
	return nil
}

func (r *CategoryRepository) Update(ctx context.Context, category *model.Category) error {
	log := logger.Log.WithFields(logrus.Fields{
		"account_id":  category.AccountID,
		"category_id": category.ID,
	})
	log.Info("Executing query to update a category")

	query := `
		UPDATE categories SET name = $3, color = $4, icon = $5, active = $6
		WHERE id = $1 AND account_id = $2`
	res, err := r.DB.ExecContext(ctx, query,
		category.ID, category.AccountID, category.Name, category.Color, category.Icon, category.Active,
	)
	if err != nil {
		log.WithError(err).Error("Failed to execute update category query")
		return err
	}
	return expectOneRow(res, ErrCategoryNotFound)
}

func (r *CategoryRepository) Delete(ctx context.Context, accountID, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM categories WHERE id = $1 AND account_id = $2`, id, accountID)
	if err != nil {
		logger.Log.WithError(err).WithField("category_id", id).Error("Failed to execute delete category query")
		return err
	}
	return expectOneRow(res, ErrCategoryNotFound)
}

// HasTransactions reports whether any transaction still references the category.
func (r *CategoryRepository) HasTransactions(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM transactions WHERE category_id = $1)`, id).Scan(&exists)
	if err != nil {
		logger.Log.WithError(err).WithField("category_id", id).Error("Failed to check category transactions")
		return false, err
	}
	return exists, nil
}

func expectOneRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
