package api_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yashkg31/hisaab-kitaab/internal/api/testutils"
	"github.com/yashkg31/hisaab-kitaab/internal/models"
)

func TestUserSettingsLifecycle(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	// No settings yet
	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/user-settings",
		nil,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Updating before creation is also a not-found
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPut,
		"/api/user-settings",
		models.UserSettingsRequest{Currency: "EUR"},
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Create with a valid currency
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/user-settings",
		models.UserSettingsRequest{Currency: "INR"},
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	assert.Equal(t, http.StatusCreated, w.Code)

	var response models.UserSettingsResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "INR", response.UserSettings.Currency)

	// Creating twice conflicts
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/user-settings",
		models.UserSettingsRequest{Currency: "USD"},
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Update the currency
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPut,
		"/api/user-settings",
		models.UserSettingsRequest{Currency: "EUR"},
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	assert.Equal(t, http.StatusOK, w.Code)

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/user-settings",
		nil,
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	assert.Equal(t, http.StatusOK, w.Code)

	err = json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "EUR", response.UserSettings.Currency)

	// Unrecognized currency codes are rejected
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPut,
		"/api/user-settings",
		models.UserSettingsRequest{Currency: "XBT"},
		testutils.AuthHeaders(testCtx.TestUserJWT),
	)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
