package handler

import (
	"context"
	"go-finance-api/common"
	"net/http"
	"strings"
)

type contextKey string

const (
	AccountIDKey contextKey = "accountID"
	RequestIDKey contextKey = "requestID"
)

// TokenVerifier resolves a bearer token to the account it was issued for.
type TokenVerifier interface {
	AccountID(token string) (int64, error)
}

// AuthMiddleware rejects requests without a valid bearer token and stores the
// caller's account id in the request context.
func AuthMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				common.NewAppError(http.StatusUnauthorized, "authorization header is required", nil).Send(w)
				return
			}

			scheme, token, found := strings.Cut(authHeader, " ")
			if !found || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
				common.NewAppError(http.StatusUnauthorized, "invalid authorization header format", nil).Send(w)
				return
			}

			accountID, err := verifier.AccountID(strings.TrimSpace(token))
			if err != nil {
				common.NewAppError(http.StatusUnauthorized, "invalid or expired token", err).Send(w)
				return
			}

			ctx := context.WithValue(r.Context(), AccountIDKey, accountID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AccountIDFromContext returns the account id stored by AuthMiddleware.
func AccountIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(AccountIDKey).(int64)
	return id, ok && id > 0
}

func requireAccountID(r *http.Request) (int64, *common.AppError) {
	id, ok := AccountIDFromContext(r.Context())
	if !ok {
		return 0, common.NewAppError(http.StatusUnauthorized, "invalid account in token", nil)
	}
	return id, nil
}
