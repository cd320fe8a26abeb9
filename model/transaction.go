package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a single income or expense entry.
type Transaction struct {
	ID            int64           `json:"id"`
	AccountID     int64           `json:"-"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Type          TransactionType `json:"type"`
	Date          time.Time       `json:"date"`
	CategoryID    int64           `json:"categoryId"`
	CategoryName  string          `json:"categoryName,omitempty"`
	CategoryColor string          `json:"categoryColor,omitempty"`
	CategoryIcon  string          `json:"categoryIcon,omitempty"`
	Notes         *string         `json:"notes,omitempty"`
	Recurring     bool            `json:"recurring"`
	Recurrence    *RecurrenceType `json:"recurrence,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// TransactionFilter narrows a transaction listing. Zero values mean "no filter".
type TransactionFilter struct {
	Type *TransactionType
	From *time.Time
	To   *time.Time
}

// Summary aggregates one calendar month of an account's transactions.
type Summary struct {
	Month            int             `json:"month"`
	Year             int             `json:"year"`
	TotalIncome      decimal.Decimal `json:"totalIncome"`
	TotalExpense     decimal.Decimal `json:"totalExpense"`
	Balance          decimal.Decimal `json:"balance"`
	TransactionCount int             `json:"transactionCount"`
}
