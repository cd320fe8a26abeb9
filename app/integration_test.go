package app

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"go-finance-api/db"
	"go-finance-api/model"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// integrationApp connects to FINANCE_TEST_DATABASE_URL, migrates it and wipes
// every table. Tests using it are skipped when the variable is unset.
func integrationApp(t *testing.T) *App {
	t.Helper()
	dsn := os.Getenv("FINANCE_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("FINANCE_TEST_DATABASE_URL not set")
	}

	database, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, database.Ping())
	require.NoError(t, db.RunMigrations(database, "file://../db/migrations"))

	_, err = database.Exec(`TRUNCATE transactions, categories, refresh_tokens, accounts RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	cfg := testConfig()
	cfg.RateLimit.LoginLimit = 100
	application, err := New(cfg, database, nil)
	require.NoError(t, err)
	return application
}

func call(t *testing.T, a *App, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	a.Router.ServeHTTP(rr, req)
	return rr
}

func decodeAuth(t *testing.T, rr *httptest.ResponseRecorder) model.AuthResponse {
	t.Helper()
	var resp model.AuthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func TestAuthLifecycle_Integration(t *testing.T) {
	a := integrationApp(t)

	rr := call(t, a, http.MethodPost, "/auth/register", "",
		`{"name":"Ana","email":"ana@x.com","password":"Senha@123","confirmPassword":"Senha@123"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	registered := decodeAuth(t, rr)

	rr = call(t, a, http.MethodPost, "/auth/register", "",
		`{"name":"Ana","email":"ana@x.com","password":"Senha@123","confirmPassword":"Senha@123"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = call(t, a, http.MethodGet, "/auth/me", registered.AccessToken, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = call(t, a, http.MethodPost, "/auth/refresh", "", fmt.Sprintf(`{"refreshToken":%q}`, registered.RefreshToken))
	require.Equal(t, http.StatusOK, rr.Code)
	rotated := decodeAuth(t, rr)
	assert.NotEqual(t, registered.RefreshToken, rotated.RefreshToken)

	rr = call(t, a, http.MethodPost, "/auth/refresh", "", fmt.Sprintf(`{"refreshToken":%q}`, registered.RefreshToken))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = call(t, a, http.MethodPost, "/auth/logout-all", rotated.AccessToken, "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	rr = call(t, a, http.MethodPost, "/auth/refresh", "", fmt.Sprintf(`{"refreshToken":%q}`, rotated.RefreshToken))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	for i := 0; i < 4; i++ {
		rr = call(t, a, http.MethodPost, "/auth/login", "", `{"email":"ana@x.com","password":"Errada@1"}`)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	}
	rr = call(t, a, http.MethodPost, "/auth/login", "", `{"email":"ana@x.com","password":"Senha@123"}`)
	assert.Equal(t, http.StatusOK, rr.Code)

	for i := 0; i < 5; i++ {
		call(t, a, http.MethodPost, "/auth/login", "", `{"email":"ana@x.com","password":"Errada@1"}`)
	}
	rr = call(t, a, http.MethodPost, "/auth/login", "", `{"email":"ana@x.com","password":"Senha@123"}`)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "account locked")
}

func TestLedger_Integration(t *testing.T) {
	a := integrationApp(t)

	rr := call(t, a, http.MethodPost, "/auth/register", "",
		`{"name":"Bia","email":"bia@x.com","password":"Senha@123","confirmPassword":"Senha@123"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	token := decodeAuth(t, rr).AccessToken

	rr = call(t, a, http.MethodPost, "/api/categories", token, `{"name":"Mercado","type":"expense"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var category model.Category
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &category))

	rr = call(t, a, http.MethodPost, "/api/transactions", token, fmt.Sprintf(
		`{"description":"Feira","amount":"120.50","type":"expense","date":"2026-10-18T12:00:00Z","categoryId":%d}`, category.ID))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = call(t, a, http.MethodGet, "/api/transactions/summary?month=10&year=2026", token, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var summary model.Summary
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &summary))
	assert.Equal(t, "120.5", summary.TotalExpense.String())
	assert.Equal(t, "-120.5", summary.Balance.String())
	assert.Equal(t, 1, summary.TransactionCount)

	rr = call(t, a, http.MethodDelete, fmt.Sprintf("/api/categories/%d", category.ID), token, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
