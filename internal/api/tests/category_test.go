package api_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yashkg31/hisaab-kitaab/internal/api/testutils"
	"github.com/yashkg31/hisaab-kitaab/internal/models"
)

func TestCreateCategory(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	// Test case 1: Successful category creation
	createReq := models.CreateCategoryRequest{
		Name: "Groceries",
		Icon: "🛒",
		Type: "expense",
	}

	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/categories",
		createReq,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response models.CategoryResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "Groceries", response.Category.Name)
	assert.Equal(t, "🛒", response.Category.Icon)
	assert.Equal(t, testCtx.TestUserID, response.Category.UserID)

	// Test case 2: Duplicate (user, name, type) is rejected
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/categories",
		createReq,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)

	assert.Equal(t, http.StatusConflict, w.Code)

	// Test case 3: Same name with the other type is a distinct category
	createReq.Type = "income"
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/categories",
		createReq,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)

	assert.Equal(t, http.StatusCreated, w.Code)

	// Test case 4: Name shorter than 3 characters is rejected
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/categories",
		models.CreateCategoryRequest{Name: "ab", Icon: "x", Type: "expense"},
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Test case 5: Name longer than 20 characters is rejected
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/categories",
		models.CreateCategoryRequest{Name: "a-very-long-category-name", Icon: "x", Type: "expense"},
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Test case 6: Unknown type literal is rejected
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/categories",
		models.CreateCategoryRequest{Name: "Misc", Icon: "x", Type: "transfer"},
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetCategories(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	testutils.CreateTestCategory(t, testCtx, "Salary", "💰", "income")
	testutils.CreateTestCategory(t, testCtx, "Groceries", "🛒", "expense")
	testutils.CreateTestCategory(t, testCtx, "Transport", "🚌", "expense")

	// All categories
	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/categories",
		nil,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)

	assert.Equal(t, http.StatusOK, w.Code)

	var response models.CategoriesResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Len(t, response.Categories, 3)

	// Filtered by type
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/categories?type=expense",
		nil,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)

	assert.Equal(t, http.StatusOK, w.Code)

	err = json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Len(t, response.Categories, 2)
	for _, category := range response.Categories {
		assert.Equal(t, "expense", category.Type)
	}

	// Bad type filter
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/categories?type=transfer",
		nil,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteCategory(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	testutils.CreateTestCategory(t, testCtx, "Rent", "🏠", "expense")

	// Test case 1: Successful delete by (name, type)
	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodDelete,
		"/api/categories",
		models.DeleteCategoryRequest{Name: "Rent", Type: "expense"},
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)

	assert.Equal(t, http.StatusOK, w.Code)

	// Test case 2: Deleting it again is a not-found
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodDelete,
		"/api/categories",
		models.DeleteCategoryRequest{Name: "Rent", Type: "expense"},
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)

	assert.Equal(t, http.StatusNotFound, w.Code)

	// Test case 3: Transactions keep their denormalized category after
	// the category row is gone
	testutils.CreateTestCategory(t, testCtx, "Dining", "🍜", "expense")

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/transactions",
		models.CreateTransactionRequest{
			Amount:   25.50,
			Date:     "2024-05-10T00:00:00Z",
			Category: "Dining",
			Type:     "expense",
		},
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodDelete,
		"/api/categories",
		models.DeleteCategoryRequest{Name: "Dining", Type: "expense"},
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	assert.Equal(t, http.StatusOK, w.Code)

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/transactions-history?from=2024-05-01&to=2024-05-31",
		nil,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	assert.Equal(t, http.StatusOK, w.Code)

	var listResponse models.TransactionsResponse
	err := json.Unmarshal(w.Body.Bytes(), &listResponse)
	assert.NoError(t, err)
	assert.Len(t, listResponse.Transactions, 1)
	assert.Equal(t, "Dining", listResponse.Transactions[0].Category)
	assert.Equal(t, "🍜", listResponse.Transactions[0].CategoryIcon)
}
