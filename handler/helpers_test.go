package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// serve runs h through ErrorHandlingMiddleware the same way the router does.
func serve(h AppHandler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	ErrorHandlingMiddleware(h).ServeHTTP(rr, req)
	return rr
}

func newRequest(method, target, body string) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "203.0.113.7:51234"
	return req
}

func asAccount(req *http.Request, accountID int64) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), AccountIDKey, accountID))
}

func messageOf(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body.Message
}
