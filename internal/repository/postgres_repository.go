package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/yashkg31/hisaab-kitaab/internal/models"
)

// ErrDuplicateKey is returned when an insert violates a unique constraint
var ErrDuplicateKey = errors.New("duplicate key")

// Repository interface defines the methods that any repository implementation must satisfy
type Repository interface {
	// Category operations
	CreateCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, userID, name, categoryType string) (bool, error)
	GetCategory(ctx context.Context, userID, name, categoryType string) (*models.Category, error)
	GetCategories(ctx context.Context, userID, categoryType string) ([]models.Category, error)

	// Transaction operations
	CreateTransaction(ctx context.Context, transaction *models.Transaction) error
	DeleteTransaction(ctx context.Context, userID, transactionID string) (*models.Transaction, error)
	GetTransactions(ctx context.Context, userID string, from, to time.Time) ([]models.Transaction, error)

	// History operations
	GetMonthHistory(ctx context.Context, userID string, month, year int) ([]models.MonthHistory, error)
	GetYearHistory(ctx context.Context, userID string, year int) ([]models.YearHistory, error)
	GetHistoryYears(ctx context.Context, userID string) ([]int, error)

	// Stats operations
	GetBalanceStats(ctx context.Context, userID string, from, to time.Time) (income, expense float64, err error)
	GetCategoriesStats(ctx context.Context, userID string, from, to time.Time) ([]models.CategoryStats, error)

	// User settings operations
	GetUserSettings(ctx context.Context, userID string) (*models.UserSettings, error)
	CreateUserSettings(ctx context.Context, settings *models.UserSettings) error
	UpdateUserCurrency(ctx context.Context, userID, currency string) (bool, error)
}

// PostgresRepository implements the Repository interface using PostgreSQL
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{
		db: db,
	}
}

// GetDB returns the underlying database connection
func (r *PostgresRepository) GetDB() *sqlx.DB {
	return r.db
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint violation
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// Category repository methods
func (r *PostgresRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	query := `
		INSERT INTO categories (user_id, name, icon, type, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	if category.CreatedAt.IsZero() {
		category.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, query,
		category.UserID, category.Name, category.Icon, category.Type, category.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateKey
	}

	return err
}

func (r *PostgresRepository) DeleteCategory(ctx context.Context, userID, name, categoryType string) (bool, error) {
	query := `DELETE FROM categories WHERE user_id = $1 AND name = $2 AND type = $3`

	result, err := r.db.ExecContext(ctx, query, userID, name, categoryType)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

func (r *PostgresRepository) GetCategory(ctx context.Context, userID, name, categoryType string) (*models.Category, error) {
	query := `SELECT * FROM categories WHERE user_id = $1 AND name = $2 AND type = $3`

	var category models.Category
	err := r.db.GetContext(ctx, &category, query, userID, name, categoryType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Category not found
		}
		return nil, err
	}

	return &category, nil
}

func (r *PostgresRepository) GetCategories(ctx context.Context, userID, categoryType string) ([]models.Category, error) {
	query := `SELECT * FROM categories WHERE user_id = $1`
	args := []interface{}{userID}

	if categoryType != "" {
		query += ` AND type = $2`
		args = append(args, categoryType)
	}

	query += ` ORDER BY name ASC`

	var categories []models.Category
	err := r.db.SelectContext(ctx, &categories, query, args...)
	if err != nil {
		return nil, err
	}

	return categories, nil
}

// Transaction repository methods

// CreateTransaction inserts the transaction row and updates both history
// rollups in a single database transaction. The rollup writes are atomic
// upsert-or-increment statements so that concurrent writes for the same
// period cannot lose updates.
func (r *PostgresRepository) CreateTransaction(ctx context.Context, transaction *models.Transaction) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
	}()

	// Generate a new UUID if not provided
	if transaction.ID == "" {
		transaction.ID = uuid.New().String()
	}

	now := time.Now().UTC()
	transaction.CreatedAt = now
	transaction.UpdatedAt = now

	query := `
		INSERT INTO transactions (id, user_id, amount, date, type, description, category, category_icon, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = tx.ExecContext(ctx, query,
		transaction.ID, transaction.UserID, transaction.Amount, transaction.Date,
		transaction.Type, transaction.Description, transaction.Category,
		transaction.CategoryIcon, transaction.CreatedAt, transaction.UpdatedAt)
	if err != nil {
		return err
	}

	income, expense := splitAmount(transaction.Type, transaction.Amount)
	year, month, day := utcDateParts(transaction.Date)

	_, err = tx.ExecContext(ctx, `
		INSERT INTO month_history (user_id, year, month, day, income, expense)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, year, month, day)
		DO UPDATE SET income = month_history.income + EXCLUDED.income,
		              expense = month_history.expense + EXCLUDED.expense`,
		transaction.UserID, year, month, day, income, expense)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO year_history (user_id, year, month, income, expense)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, year, month)
		DO UPDATE SET income = year_history.income + EXCLUDED.income,
		              expense = year_history.expense + EXCLUDED.expense`,
		transaction.UserID, year, month, income, expense)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteTransaction removes the transaction row and subtracts its amount
// from both history rollups in a single database transaction. Returns
// (nil, nil) when no matching row belongs to the user.
func (r *PostgresRepository) DeleteTransaction(ctx context.Context, userID, transactionID string) (*models.Transaction, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
	}()

	var transaction models.Transaction
	err = tx.GetContext(ctx, &transaction,
		`SELECT * FROM transactions WHERE id = $1 AND user_id = $2`, transactionID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			tx.Rollback()
			err = nil
			return nil, nil // Transaction not found
		}
		return nil, err
	}

	result, err := tx.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = $1 AND user_id = $2`, transactionID, userID)
	if err != nil {
		return nil, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		// Deleted concurrently between the read and the delete
		err = errors.New("transaction disappeared during delete")
		return nil, err
	}

	income, expense := splitAmount(transaction.Type, transaction.Amount)
	year, month, day := utcDateParts(transaction.Date)

	_, err = tx.ExecContext(ctx, `
		UPDATE month_history
		SET income = income - $5, expense = expense - $6
		WHERE user_id = $1 AND year = $2 AND month = $3 AND day = $4`,
		transaction.UserID, year, month, day, income, expense)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE year_history
		SET income = income - $4, expense = expense - $5
		WHERE user_id = $1 AND year = $2 AND month = $3`,
		transaction.UserID, year, month, income, expense)
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	return &transaction, nil
}

func (r *PostgresRepository) GetTransactions(ctx context.Context, userID string, from, to time.Time) ([]models.Transaction, error) {
	query := `
		SELECT * FROM transactions
		WHERE user_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date DESC
	`

	var transactions []models.Transaction
	err := r.db.SelectContext(ctx, &transactions, query, userID, from, to)
	if err != nil {
		return nil, err
	}

	return transactions, nil
}

// History repository methods
func (r *PostgresRepository) GetMonthHistory(ctx context.Context, userID string, month, year int) ([]models.MonthHistory, error) {
	query := `
		SELECT user_id, year, month, day, SUM(income) AS income, SUM(expense) AS expense
		FROM month_history
		WHERE user_id = $1 AND month = $2 AND year = $3
		GROUP BY user_id, year, month, day
		ORDER BY day ASC
	`

	var history []models.MonthHistory
	err := r.db.SelectContext(ctx, &history, query, userID, month, year)
	if err != nil {
		return nil, err
	}

	return history, nil
}

func (r *PostgresRepository) GetYearHistory(ctx context.Context, userID string, year int) ([]models.YearHistory, error) {
	query := `
		SELECT user_id, year, month, SUM(income) AS income, SUM(expense) AS expense
		FROM year_history
		WHERE user_id = $1 AND year = $2
		GROUP BY user_id, year, month
		ORDER BY month ASC
	`

	var history []models.YearHistory
	err := r.db.SelectContext(ctx, &history, query, userID, year)
	if err != nil {
		return nil, err
	}

	return history, nil
}

func (r *PostgresRepository) GetHistoryYears(ctx context.Context, userID string) ([]int, error) {
	query := `SELECT DISTINCT year FROM month_history WHERE user_id = $1 ORDER BY year ASC`

	var years []int
	err := r.db.SelectContext(ctx, &years, query, userID)
	if err != nil {
		return nil, err
	}

	return years, nil
}

// Stats repository methods
func (r *PostgresRepository) GetBalanceStats(ctx context.Context, userID string, from, to time.Time) (float64, float64, error) {
	query := `
		SELECT type, COALESCE(SUM(amount), 0) AS total
		FROM transactions
		WHERE user_id = $1 AND date >= $2 AND date <= $3
		GROUP BY type
	`

	rows, err := r.db.QueryContext(ctx, query, userID, from, to)
	if err != nil {
		return 0, 0, err
	}
	defer rows.Close()

	var income, expense float64
	for rows.Next() {
		var transactionType string
		var total float64
		if err := rows.Scan(&transactionType, &total); err != nil {
			return 0, 0, err
		}

		switch transactionType {
		case models.TransactionTypeIncome:
			income = total
		case models.TransactionTypeExpense:
			expense = total
		}
	}

	return income, expense, rows.Err()
}

func (r *PostgresRepository) GetCategoriesStats(ctx context.Context, userID string, from, to time.Time) ([]models.CategoryStats, error) {
	query := `
		SELECT type, category, category_icon, SUM(amount) AS total
		FROM transactions
		WHERE user_id = $1 AND date >= $2 AND date <= $3
		GROUP BY type, category, category_icon
		ORDER BY total DESC
	`

	var stats []models.CategoryStats
	err := r.db.SelectContext(ctx, &stats, query, userID, from, to)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// User settings repository methods
func (r *PostgresRepository) GetUserSettings(ctx context.Context, userID string) (*models.UserSettings, error) {
	query := `SELECT * FROM user_settings WHERE user_id = $1`

	var settings models.UserSettings
	err := r.db.GetContext(ctx, &settings, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Settings not found
		}
		return nil, err
	}

	return &settings, nil
}

func (r *PostgresRepository) CreateUserSettings(ctx context.Context, settings *models.UserSettings) error {
	query := `INSERT INTO user_settings (user_id, currency) VALUES ($1, $2)`

	_, err := r.db.ExecContext(ctx, query, settings.UserID, settings.Currency)
	if isUniqueViolation(err) {
		return ErrDuplicateKey
	}

	return err
}

func (r *PostgresRepository) UpdateUserCurrency(ctx context.Context, userID, currency string) (bool, error) {
	query := `UPDATE user_settings SET currency = $1 WHERE user_id = $2`

	result, err := r.db.ExecContext(ctx, query, currency, userID)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

// Helpers

// splitAmount maps a transaction amount onto the (income, expense) pair
// used by the history rollups
func splitAmount(transactionType string, amount float64) (income, expense float64) {
	if transactionType == models.TransactionTypeIncome {
		return amount, 0
	}
	return 0, amount
}

// utcDateParts returns the rollup key for a transaction date: UTC year,
// 0-based month and day of month
func utcDateParts(date time.Time) (year, month, day int) {
	utc := date.UTC()
	return utc.Year(), int(utc.Month()) - 1, utc.Day()
}
