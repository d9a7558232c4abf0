package api_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yashkg31/hisaab-kitaab/internal/api/testutils"
	"github.com/yashkg31/hisaab-kitaab/internal/models"
)

func TestBalanceStats(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	testutils.CreateTestCategory(t, testCtx, "Salary", "💰", "income")
	testutils.CreateTestCategory(t, testCtx, "Groceries", "🛒", "expense")

	createTransaction(t, testCtx, models.CreateTransactionRequest{
		Amount: 1000, Date: "2024-03-01T00:00:00Z", Category: "Salary", Type: "income",
	})
	createTransaction(t, testCtx, models.CreateTransactionRequest{
		Amount: 200.50, Date: "2024-03-10T00:00:00Z", Category: "Groceries", Type: "expense",
	})
	createTransaction(t, testCtx, models.CreateTransactionRequest{
		Amount: 99.50, Date: "2024-03-20T00:00:00Z", Category: "Groceries", Type: "expense",
	})
	// Outside the queried range
	createTransaction(t, testCtx, models.CreateTransactionRequest{
		Amount: 5000, Date: "2024-06-01T00:00:00Z", Category: "Salary", Type: "income",
	})

	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/stats/balance?from=2024-03-01&to=2024-03-31",
		nil,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	assert.Equal(t, http.StatusOK, w.Code)

	var response models.BalanceStatsResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, 1000.0, response.Income)
	assert.Equal(t, 300.0, response.Expense)
	assert.Equal(t, 700.0, response.Balance)
}

func TestStatsDateRangeValidation(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	cases := []struct {
		name string
		url  string
	}{
		{"from after to", "/api/stats/balance?from=2024-03-31&to=2024-03-01"},
		{"range beyond limit", "/api/stats/balance?from=2024-01-01&to=2024-06-01"},
		{"missing from", "/api/stats/balance?to=2024-03-01"},
		{"unparseable date", "/api/stats/balance?from=yesterday&to=2024-03-01"},
	}

	for _, tc := range cases {
		w := testutils.PerformRequest(
			testCtx.Router,
			http.MethodGet,
			tc.url,
			nil,
			testutils.AuthHeaders(testCtx.TestUserJWT),
		)
		assert.Equal(t, http.StatusBadRequest, w.Code, "expected rejection: %s", tc.name)
	}

	// Exactly the maximum range is allowed
	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/stats/balance?from=2024-01-01&to=2024-03-31",
		nil,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCategoriesStats(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	testutils.CreateTestCategory(t, testCtx, "Groceries", "🛒", "expense")
	testutils.CreateTestCategory(t, testCtx, "Transport", "🚌", "expense")

	createTransaction(t, testCtx, models.CreateTransactionRequest{
		Amount: 120, Date: "2024-03-05T00:00:00Z", Category: "Groceries", Type: "expense",
	})
	createTransaction(t, testCtx, models.CreateTransactionRequest{
		Amount: 80, Date: "2024-03-06T00:00:00Z", Category: "Groceries", Type: "expense",
	})
	createTransaction(t, testCtx, models.CreateTransactionRequest{
		Amount: 50, Date: "2024-03-07T00:00:00Z", Category: "Transport", Type: "expense",
	})

	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/stats/categories?from=2024-03-01&to=2024-03-31",
		nil,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	assert.Equal(t, http.StatusOK, w.Code)

	var response models.CategoriesStatsResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	require.Len(t, response.Stats, 2)

	// Largest category first
	assert.Equal(t, "Groceries", response.Stats[0].Category)
	assert.Equal(t, 200.0, response.Stats[0].Total)
	assert.Equal(t, "Transport", response.Stats[1].Category)
	assert.Equal(t, 50.0, response.Stats[1].Total)
}

func TestStatsAreOwnerScoped(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	testutils.CreateTestCategory(t, testCtx, "Salary", "💰", "income")
	createTransaction(t, testCtx, models.CreateTransactionRequest{
		Amount: 1000, Date: "2024-03-01T00:00:00Z", Category: "Salary", Type: "income",
	})

	// A different identity sees an empty ledger
	otherToken := testutils.MintUserToken(t, "some-other-user", string(testCtx.JWTSecret))
	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/stats/balance?from=2024-03-01&to=2024-03-31",
		nil,
		testutils.AuthHeaders(otherToken),
	)
	assert.Equal(t, http.StatusOK, w.Code)

	var response models.BalanceStatsResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, response.Income)
	assert.Equal(t, 0.0, response.Expense)
}
