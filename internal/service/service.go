package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yashkg31/hisaab-kitaab/internal/models"
	"github.com/yashkg31/hisaab-kitaab/internal/repository"
)

// MaxDateRangeDays bounds the span of caller-supplied date ranges for
// stats and transaction listings
const MaxDateRangeDays = 90

// SupportedCurrencies lists the currency codes a user may select
var SupportedCurrencies = []string{"INR", "USD", "EUR", "GBP", "JPY"}

// Sentinel errors surfaced to the transport layer. Every failure aborts
// the triggering request; nothing is retried.
var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrCategoryNotFound     = errors.New("category not found")
	ErrCategoryExists       = errors.New("category already exists")
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrUserSettingsNotFound = errors.New("user settings not found")
	ErrUserSettingsExist    = errors.New("user settings already exist")
)

// Service defines all the business logic operations
type Service interface {
	// Transaction ledger
	CreateTransaction(ctx context.Context, userID string, req models.CreateTransactionRequest) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, transactionID string) error
	GetTransactions(ctx context.Context, userID string, from, to time.Time) ([]models.Transaction, error)

	// Categories
	CreateCategory(ctx context.Context, userID string, req models.CreateCategoryRequest) (*models.Category, error)
	DeleteCategory(ctx context.Context, userID string, req models.DeleteCategoryRequest) error
	GetCategories(ctx context.Context, userID, categoryType string) ([]models.Category, error)

	// History rollups
	GetHistoryData(ctx context.Context, userID, timeFrame string, month, year int) ([]models.HistoryPeriod, error)
	GetHistoryPeriods(ctx context.Context, userID string) ([]int, error)

	// Stats
	GetBalanceStats(ctx context.Context, userID string, from, to time.Time) (*models.BalanceStatsResponse, error)
	GetCategoriesStats(ctx context.Context, userID string, from, to time.Time) ([]models.CategoryStats, error)

	// User settings
	GetUserSettings(ctx context.Context, userID string) (*models.UserSettings, error)
	CreateUserSettings(ctx context.Context, userID, currency string) (*models.UserSettings, error)
	UpdateUserCurrency(ctx context.Context, userID, currency string) (*models.UserSettings, error)
}

// DefaultService implements the Service interface
type DefaultService struct {
	repo   repository.Repository
	logger *logrus.Logger
}

// NewDefaultService creates a new DefaultService
func NewDefaultService(repo repository.Repository, logger *logrus.Logger) Service {
	if logger == nil {
		logger = logrus.New()
	}
	return &DefaultService{
		repo:   repo,
		logger: logger,
	}
}

// Transaction ledger methods
func (s *DefaultService) CreateTransaction(
	ctx context.Context,
	userID string,
	req models.CreateTransactionRequest,
) (*models.Transaction, error) {
	if err := validateAmount(req.Amount); err != nil {
		return nil, err
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: bad date %q", ErrInvalidInput, req.Date)
	}

	// The category must exist for this user and type; its icon is copied
	// onto the transaction for display.
	category, err := s.repo.GetCategory(ctx, userID, req.Category, req.Type)
	if err != nil {
		return nil, fmt.Errorf("error looking up category: %w", err)
	}

	if category == nil {
		return nil, ErrCategoryNotFound
	}

	transaction := &models.Transaction{
		UserID:       userID,
		Amount:       req.Amount,
		Date:         date.UTC(),
		Type:         req.Type,
		Description:  req.Description,
		Category:     category.Name,
		CategoryIcon: category.Icon,
	}

	if err := s.repo.CreateTransaction(ctx, transaction); err != nil {
		return nil, fmt.Errorf("error creating transaction: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"userId": userID,
		"type":   transaction.Type,
		"amount": transaction.Amount,
	}).Debug("transaction created")

	return transaction, nil
}

func (s *DefaultService) DeleteTransaction(ctx context.Context, userID, transactionID string) error {
	transaction, err := s.repo.DeleteTransaction(ctx, userID, transactionID)
	if err != nil {
		return fmt.Errorf("error deleting transaction: %w", err)
	}

	if transaction == nil {
		return ErrTransactionNotFound
	}

	s.logger.WithFields(logrus.Fields{
		"userId":        userID,
		"transactionId": transactionID,
	}).Debug("transaction deleted")

	return nil
}

func (s *DefaultService) GetTransactions(
	ctx context.Context,
	userID string,
	from, to time.Time,
) ([]models.Transaction, error) {
	if err := validateDateRange(from, to); err != nil {
		return nil, err
	}

	transactions, err := s.repo.GetTransactions(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("error getting transactions: %w", err)
	}

	if transactions == nil {
		transactions = []models.Transaction{}
	}

	return transactions, nil
}

// Category methods
func (s *DefaultService) CreateCategory(
	ctx context.Context,
	userID string,
	req models.CreateCategoryRequest,
) (*models.Category, error) {
	category := &models.Category{
		UserID: userID,
		Name:   req.Name,
		Icon:   req.Icon,
		Type:   req.Type,
	}

	err := s.repo.CreateCategory(ctx, category)
	if errors.Is(err, repository.ErrDuplicateKey) {
		return nil, ErrCategoryExists
	}
	if err != nil {
		return nil, fmt.Errorf("error creating category: %w", err)
	}

	return category, nil
}

// DeleteCategory removes the category row. Transactions that already
// reference the category keep their denormalized name and icon.
func (s *DefaultService) DeleteCategory(
	ctx context.Context,
	userID string,
	req models.DeleteCategoryRequest,
) error {
	deleted, err := s.repo.DeleteCategory(ctx, userID, req.Name, req.Type)
	if err != nil {
		return fmt.Errorf("error deleting category: %w", err)
	}

	if !deleted {
		return ErrCategoryNotFound
	}

	return nil
}

func (s *DefaultService) GetCategories(ctx context.Context, userID, categoryType string) ([]models.Category, error) {
	if categoryType != "" &&
		categoryType != models.TransactionTypeIncome &&
		categoryType != models.TransactionTypeExpense {
		return nil, fmt.Errorf("%w: bad category type %q", ErrInvalidInput, categoryType)
	}

	categories, err := s.repo.GetCategories(ctx, userID, categoryType)
	if err != nil {
		return nil, fmt.Errorf("error getting categories: %w", err)
	}

	if categories == nil {
		categories = []models.Category{}
	}

	return categories, nil
}

// User settings methods
func (s *DefaultService) GetUserSettings(ctx context.Context, userID string) (*models.UserSettings, error) {
	settings, err := s.repo.GetUserSettings(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting user settings: %w", err)
	}

	if settings == nil {
		return nil, ErrUserSettingsNotFound
	}

	return settings, nil
}

func (s *DefaultService) CreateUserSettings(ctx context.Context, userID, currency string) (*models.UserSettings, error) {
	if !isSupportedCurrency(currency) {
		return nil, fmt.Errorf("%w: invalid currency %q", ErrInvalidInput, currency)
	}

	settings := &models.UserSettings{
		UserID:   userID,
		Currency: currency,
	}

	err := s.repo.CreateUserSettings(ctx, settings)
	if errors.Is(err, repository.ErrDuplicateKey) {
		return nil, ErrUserSettingsExist
	}
	if err != nil {
		return nil, fmt.Errorf("error creating user settings: %w", err)
	}

	return settings, nil
}

func (s *DefaultService) UpdateUserCurrency(ctx context.Context, userID, currency string) (*models.UserSettings, error) {
	if !isSupportedCurrency(currency) {
		return nil, fmt.Errorf("%w: invalid currency %q", ErrInvalidInput, currency)
	}

	updated, err := s.repo.UpdateUserCurrency(ctx, userID, currency)
	if err != nil {
		return nil, fmt.Errorf("error updating user currency: %w", err)
	}

	if !updated {
		return nil, ErrUserSettingsNotFound
	}

	return &models.UserSettings{UserID: userID, Currency: currency}, nil
}

// Validation helpers

// validateAmount checks that the amount is positive and quantized to cents
func validateAmount(amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}

	cents := amount * 100
	if math.Abs(cents-math.Round(cents)) > 1e-9 {
		return fmt.Errorf("%w: amount must be a multiple of 0.01", ErrInvalidInput)
	}

	return nil
}

// validateDateRange enforces 0 <= (to - from) <= MaxDateRangeDays
func validateDateRange(from, to time.Time) error {
	if from.IsZero() || to.IsZero() {
		return fmt.Errorf("%w: missing date range", ErrInvalidInput)
	}

	days := int(to.Sub(from).Hours() / 24)
	if days < 0 {
		return fmt.Errorf("%w: from must not be after to", ErrInvalidInput)
	}
	if days > MaxDateRangeDays {
		return fmt.Errorf("%w: date range exceeds %d days", ErrInvalidInput, MaxDateRangeDays)
	}

	return nil
}

// parseDate accepts timestamps in RFC 3339 or plain YYYY-MM-DD form
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}

	return time.Parse("2006-01-02", value)
}

func isSupportedCurrency(currency string) bool {
	for _, c := range SupportedCurrencies {
		if c == currency {
			return true
		}
	}
	return false
}
