package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yashkg31/hisaab-kitaab/internal/models"
	"github.com/yashkg31/hisaab-kitaab/internal/service"
)

// Handler holds the API handlers
type Handler struct {
	service service.Service
}

// NewHandler creates a new API handler
func NewHandler(svc service.Service) *Handler {
	return &Handler{
		service: svc,
	}
}

// SetupRoutes registers all API routes on the router
func (h *Handler) SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")
	api.Use(AuthMiddleware())
	{
		api.POST("/transactions", h.CreateTransaction)
		api.DELETE("/transactions/:id", h.DeleteTransaction)
		api.GET("/transactions-history", h.GetTransactionsHistory)

		api.POST("/categories", h.CreateCategory)
		api.DELETE("/categories", h.DeleteCategory)
		api.GET("/categories", h.GetCategories)

		api.GET("/history-data", h.GetHistoryData)
		api.GET("/history-periods", h.GetHistoryPeriods)

		api.GET("/stats/balance", h.GetBalanceStats)
		api.GET("/stats/categories", h.GetCategoriesStats)

		api.GET("/user-settings", h.GetUserSettings)
		api.POST("/user-settings", h.CreateUserSettings)
		api.PUT("/user-settings", h.UpdateUserCurrency)
	}
}

// Transaction handlers
func (h *Handler) CreateTransaction(c *gin.Context) {
	var req models.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	transaction, err := h.service.CreateTransaction(c.Request.Context(), userID(c), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.TransactionResponse{
		Status:      "success",
		Transaction: transaction,
	})
}

func (h *Handler) DeleteTransaction(c *gin.Context) {
	transactionID := c.Param("id")

	if err := h.service.DeleteTransaction(c.Request.Context(), userID(c), transactionID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.StatusResponse{
		Status:  "success",
		Message: "Transaction deleted",
	})
}

func (h *Handler) GetTransactionsHistory(c *gin.Context) {
	from, to, ok := bindDateRange(c)
	if !ok {
		return
	}

	transactions, err := h.service.GetTransactions(c.Request.Context(), userID(c), from, to)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.TransactionsResponse{
		Status:       "success",
		Transactions: transactions,
	})
}

// Category handlers
func (h *Handler) CreateCategory(c *gin.Context) {
	var req models.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	category, err := h.service.CreateCategory(c.Request.Context(), userID(c), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.CategoryResponse{
		Status:   "success",
		Category: category,
	})
}

func (h *Handler) DeleteCategory(c *gin.Context) {
	var req models.DeleteCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if err := h.service.DeleteCategory(c.Request.Context(), userID(c), req); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.StatusResponse{
		Status:  "success",
		Message: "Category deleted",
	})
}

func (h *Handler) GetCategories(c *gin.Context) {
	categories, err := h.service.GetCategories(c.Request.Context(), userID(c), c.Query("type"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.CategoriesResponse{
		Status:     "success",
		Categories: categories,
	})
}

// History handlers
func (h *Handler) GetHistoryData(c *gin.Context) {
	var query models.HistoryDataQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		badRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	history, err := h.service.GetHistoryData(c.Request.Context(), userID(c),
		query.TimeFrame, query.Month, query.Year)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.HistoryDataResponse{
		Status:  "success",
		History: history,
	})
}

func (h *Handler) GetHistoryPeriods(c *gin.Context) {
	years, err := h.service.GetHistoryPeriods(c.Request.Context(), userID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.HistoryPeriodsResponse{
		Status: "success",
		Years:  years,
	})
}

// Stats handlers
func (h *Handler) GetBalanceStats(c *gin.Context) {
	from, to, ok := bindDateRange(c)
	if !ok {
		return
	}

	stats, err := h.service.GetBalanceStats(c.Request.Context(), userID(c), from, to)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) GetCategoriesStats(c *gin.Context) {
	from, to, ok := bindDateRange(c)
	if !ok {
		return
	}

	stats, err := h.service.GetCategoriesStats(c.Request.Context(), userID(c), from, to)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.CategoriesStatsResponse{
		Status: "success",
		Stats:  stats,
	})
}

// User settings handlers
func (h *Handler) GetUserSettings(c *gin.Context) {
	settings, err := h.service.GetUserSettings(c.Request.Context(), userID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.UserSettingsResponse{
		Status:       "success",
		UserSettings: settings,
	})
}

func (h *Handler) CreateUserSettings(c *gin.Context) {
	var req models.UserSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	settings, err := h.service.CreateUserSettings(c.Request.Context(), userID(c), req.Currency)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.UserSettingsResponse{
		Status:       "success",
		UserSettings: settings,
	})
}

func (h *Handler) UpdateUserCurrency(c *gin.Context) {
	var req models.UserSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	settings, err := h.service.UpdateUserCurrency(c.Request.Context(), userID(c), req.Currency)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.UserSettingsResponse{
		Status:       "success",
		UserSettings: settings,
	})
}

// Helpers

// userID returns the authenticated user's ID placed in the context by
// the auth middleware
func userID(c *gin.Context) string {
	return c.MustGet("userId").(string)
}

// bindDateRange parses the from/to query parameters. Range bounds are
// enforced in the service layer; this only handles coercion.
func bindDateRange(c *gin.Context) (time.Time, time.Time, bool) {
	var query models.DateRangeQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		badRequest(c, "Invalid query parameters: "+err.Error())
		return time.Time{}, time.Time{}, false
	}

	from, err := parseTimestamp(query.From)
	if err != nil {
		badRequest(c, "Invalid from date: "+query.From)
		return time.Time{}, time.Time{}, false
	}

	to, err := parseTimestamp(query.To)
	if err != nil {
		badRequest(c, "Invalid to date: "+query.To)
		return time.Time{}, time.Time{}, false
	}

	return from, to, true
}

func parseTimestamp(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}

	return time.Parse("2006-01-02", value)
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Status:  "error",
		Code:    "BAD_REQUEST",
		Message: message,
	})
}

// handleServiceError maps service errors onto HTTP responses
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Status:  "error",
			Code:    "BAD_REQUEST",
			Message: err.Error(),
		})
	case errors.Is(err, service.ErrCategoryNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Status:  "error",
			Code:    "CATEGORY_NOT_FOUND",
			Message: err.Error(),
		})
	case errors.Is(err, service.ErrTransactionNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Status:  "error",
			Code:    "TRANSACTION_NOT_FOUND",
			Message: err.Error(),
		})
	case errors.Is(err, service.ErrUserSettingsNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Status:  "error",
			Code:    "USER_SETTINGS_NOT_FOUND",
			Message: err.Error(),
		})
	case errors.Is(err, service.ErrCategoryExists), errors.Is(err, service.ErrUserSettingsExist):
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Status:  "error",
			Code:    "ALREADY_EXISTS",
			Message: err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Status:  "error",
			Code:    "INTERNAL_ERROR",
			Message: "Internal server error",
		})
	}
}
