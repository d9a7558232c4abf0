package models

// Request models
type CreateTransactionRequest struct {
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Description string  `json:"description"`
	Date        string  `json:"date" binding:"required"`
	Category    string  `json:"category" binding:"required"`
	Type        string  `json:"type" binding:"required,oneof=income expense"`
}

type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,min=3,max=20"`
	Icon string `json:"icon" binding:"max=20"`
	Type string `json:"type" binding:"required,oneof=income expense"`
}

type DeleteCategoryRequest struct {
	Name string `json:"name" binding:"required,min=3,max=20"`
	Type string `json:"type" binding:"required,oneof=income expense"`
}

type UserSettingsRequest struct {
	Currency string `json:"currency" binding:"required"`
}

type HistoryDataQuery struct {
	TimeFrame string `form:"timeFrame" binding:"required,oneof=month year"`
	Month     int    `form:"month,default=0" binding:"min=0,max=11"`
	Year      int    `form:"year" binding:"required,min=2000,max=3000"`
}

type DateRangeQuery struct {
	From string `form:"from" binding:"required"`
	To   string `form:"to" binding:"required"`
}

// Response models
type TransactionResponse struct {
	Status      string       `json:"status"`
	Transaction *Transaction `json:"transaction,omitempty"`
}

type TransactionsResponse struct {
	Status       string        `json:"status"`
	Transactions []Transaction `json:"transactions"`
}

type CategoryResponse struct {
	Status   string    `json:"status"`
	Category *Category `json:"category,omitempty"`
}

type CategoriesResponse struct {
	Status     string     `json:"status"`
	Categories []Category `json:"categories"`
}

type HistoryDataResponse struct {
	Status  string          `json:"status"`
	History []HistoryPeriod `json:"history"`
}

type HistoryPeriodsResponse struct {
	Status string `json:"status"`
	Years  []int  `json:"years"`
}

type BalanceStatsResponse struct {
	Status  string  `json:"status"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`
}

type CategoriesStatsResponse struct {
	Status string          `json:"status"`
	Stats  []CategoryStats `json:"stats"`
}

type UserSettingsResponse struct {
	Status       string        `json:"status"`
	UserSettings *UserSettings `json:"userSettings,omitempty"`
}

type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
