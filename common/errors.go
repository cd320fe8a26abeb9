package common

import (
	"encoding/json"
	"go-finance-api/logger"
	"net/http"

	"github.com/sirupsen/logrus"
)

// AppError is returned by handlers. Err is logged but never sent to the client.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Internal hides err behind a generic 500.
func Internal(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, "internal server error", err)
}

func (e *AppError) Send(w http.ResponseWriter) {
	if e.Err != nil {
		entry := logger.Log.WithFields(logrus.Fields{
			"status_code":    e.Code,
			"internal_error": e.Err.Error(),
		})
		if e.Code >= http.StatusInternalServerError {
			entry.Error(e.Message)
		} else {
			entry.Info(e.Message)
		}
	}

	WriteJSON(w, e.Code, e)
}

// WriteJSON encodes v as the response body with the given status. The body is
// encoded before anything is written, so a value that cannot be marshalled
// becomes a 500 instead of a success status with an empty body.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if v == nil {
		w.WriteHeader(status)
		return
	}

	body, err := json.Marshal(v)
	if err != nil {
		logger.Log.WithError(err).WithField("status_code", status).Error("Failed to encode response body")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write(internalErrorBody)
		return
	}

	w.WriteHeader(status)
	w.Write(append(body, '\n'))
}

var internalErrorBody = []byte(`{"code":500,"message":"internal server error"}` + "\n")
