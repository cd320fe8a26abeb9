// file: model/request.go

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterRequest defines the payload for creating a new account.
type RegisterRequest struct {
	Name            string `json:"name" validate:"required,max=100"`
	Email           string `json:"email" validate:"required,email,max=255"`
	Password        string `json:"password" validate:"required,min=6,strongpassword"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// LoginRequest defines the payload for account authentication.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// RefreshRequest carries an opaque refresh token for rotation or logout.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// CreateCategoryRequest defines the payload for a new category.
// Color and icon fall back to the defaults when omitted.
type CreateCategoryRequest struct {
	Name  string          `json:"name" validate:"required,max=50"`
	Type  TransactionType `json:"type" validate:"required,oneof=income expense"`
	Color string          `json:"color" validate:"omitempty,hexcolor,len=7"`
	Icon  string          `json:"icon" validate:"omitempty,max=50"`
}

// UpdateCategoryRequest replaces the mutable fields of a category.
type UpdateCategoryRequest struct {
	Name   string `json:"name" validate:"required,max=50"`
	Color  string `json:"color" validate:"omitempty,hexcolor,len=7"`
	Icon   string `json:"icon" validate:"omitempty,max=50"`
	Active *bool  `json:"active"`
}

// TransactionRequest is used for both creating and updating a transaction.
type TransactionRequest struct {
	Description string          `json:"description" validate:"required,max=255"`
	Amount      decimal.Decimal `json:"amount"`
	Type        TransactionType `json:"type" validate:"required,oneof=income expense"`
	Date        time.Time       `json:"date" validate:"required"`
	CategoryID  int64           `json:"categoryId" validate:"required,gt=0"`
	Notes       *string         `json:"notes"`
	Recurring   bool            `json:"recurring"`
	Recurrence  *RecurrenceType `json:"recurrence" validate:"omitempty,oneof=daily weekly monthly yearly"`
}
