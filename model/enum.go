package model

import (
	"database/sql/driver"
	"fmt"
)

// TransactionType separates money coming in from money going out.
// It is stored and transmitted by name, never as an ordinal.
type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(s) {
	case TransactionIncome, TransactionExpense:
		return TransactionType(s), nil
	}
	return "", fmt.Errorf("unknown transaction type %q", s)
}

func (t TransactionType) String() string { return string(t) }

func (t TransactionType) MarshalText() ([]byte, error) {
	if _, err := ParseTransactionType(string(t)); err != nil {
		return nil, err
	}
	return []byte(t), nil
}

func (t *TransactionType) UnmarshalText(b []byte) error {
	parsed, err := ParseTransactionType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t TransactionType) Value() (driver.Value, error) {
	if _, err := ParseTransactionType(string(t)); err != nil {
		return nil, err
	}
	return string(t), nil
}

func (t *TransactionType) Scan(src interface{}) error {
	s, err := scanString(src)
	if err != nil {
		return err
	}
	return t.UnmarshalText([]byte(s))
}

// RecurrenceType is the repeat interval of a recurring transaction.
type RecurrenceType string

const (
	RecurrenceDaily   RecurrenceType = "daily"
	RecurrenceWeekly  RecurrenceType = "weekly"
	RecurrenceMonthly RecurrenceType = "monthly"
	RecurrenceYearly  RecurrenceType = "yearly"
)

func ParseRecurrenceType(s string) (RecurrenceType, error) {
	switch RecurrenceType(s) {
	case RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceYearly:
		return RecurrenceType(s), nil
	}
	return "", fmt.Errorf("unknown recurrence type %q", s)
}

func (r RecurrenceType) String() string { return string(r) }

func (r RecurrenceType) MarshalText() ([]byte, error) {
	if _, err := ParseRecurrenceType(string(r)); err != nil {
		return nil, err
	}
	return []byte(r), nil
}

func (r *RecurrenceType) UnmarshalText(b []byte) error {
	parsed, err := ParseRecurrenceType(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

func (r RecurrenceType) Value() (driver.Value, error) {
	if _, err := ParseRecurrenceType(string(r)); err != nil {
		return nil, err
	}
	return string(r), nil
}

func (r *RecurrenceType) Scan(src interface{}) error {
	s, err := scanString(src)
	if err != nil {
		return err
	}
	return r.UnmarshalText([]byte(s))
}

func scanString(src interface{}) (string, error) {
	switch v := src.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case nil:
		return "", fmt.Errorf("cannot scan NULL into enum")
	}
	return "", fmt.Errorf("cannot scan %T into enum", src)
}
