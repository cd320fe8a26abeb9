package model

import "time"

const (
	DefaultCategoryColor = "#3B82F6"
	DefaultCategoryIcon  = "tag"
)

// Category groups transactions of one type for a single account.
type Category struct {
	ID        int64           `json:"id"`
	AccountID int64           `json:"-"`
	Name      string          `json:"name"`
	Type      TransactionType `json:"type"`
	Color     string          `json:"color"`
	Icon      string          `json:"icon"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"createdAt"`
}
