package models

import (
	"time"
)

// Transaction type literals
const (
	TransactionTypeIncome  = "income"
	TransactionTypeExpense = "expense"
)

// Transaction represents a single income or expense entry in a user's ledger
type Transaction struct {
	ID           string    `db:"id" json:"id"`
	UserID       string    `db:"user_id" json:"userId"`
	Amount       float64   `db:"amount" json:"amount"`
	Date         time.Time `db:"date" json:"date"`
	Type         string    `db:"type" json:"type"` // "income" or "expense"
	Description  string    `db:"description" json:"description"`
	Category     string    `db:"category" json:"category"`
	CategoryIcon string    `db:"category_icon" json:"categoryIcon"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// Category represents a user-defined transaction category.
// Categories are keyed by (user, name, type); the icon is denormalized
// onto transactions at write time.
type Category struct {
	UserID    string    `db:"user_id" json:"userId"`
	Name      string    `db:"name" json:"name"`
	Icon      string    `db:"icon" json:"icon"`
	Type      string    `db:"type" json:"type"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// MonthHistory holds the running income/expense totals for one calendar
// day of a user's ledger. Month is 0-based (0 = January).
type MonthHistory struct {
	UserID  string  `db:"user_id" json:"userId"`
	Year    int     `db:"year" json:"year"`
	Month   int     `db:"month" json:"month"`
	Day     int     `db:"day" json:"day"`
	Income  float64 `db:"income" json:"income"`
	Expense float64 `db:"expense" json:"expense"`
}

// YearHistory holds the running income/expense totals for one calendar
// month of a user's ledger. Month is 0-based (0 = January).
type YearHistory struct {
	UserID  string  `db:"user_id" json:"userId"`
	Year    int     `db:"year" json:"year"`
	Month   int     `db:"month" json:"month"`
	Income  float64 `db:"income" json:"income"`
	Expense float64 `db:"expense" json:"expense"`
}

// UserSettings holds per-user preferences, one row per user
type UserSettings struct {
	UserID   string `db:"user_id" json:"userId"`
	Currency string `db:"currency" json:"currency"`
}

// HistoryPeriod is one day or month of a dense history series. Day is
// zero for year-frame entries and omitted from the JSON encoding.
type HistoryPeriod struct {
	Year    int     `json:"year"`
	Month   int     `json:"month"`
	Day     int     `json:"day,omitempty"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

// CategoryStats is an aggregated sum of transaction amounts for one
// category within a queried date range
type CategoryStats struct {
	Type         string  `db:"type" json:"type"`
	Category     string  `db:"category" json:"category"`
	CategoryIcon string  `db:"category_icon" json:"categoryIcon"`
	Total        float64 `db:"total" json:"total"`
}
