package handler

import (
	"go-finance-api/common"
	"net/http"
)

// AppHandler is a handler that reports failures as *common.AppError.
type AppHandler func(http.ResponseWriter, *http.Request) *common.AppError

func ErrorHandlingMiddleware(next AppHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := next(w, r); err != nil {
			err.Send(w)
		}
	}
}
