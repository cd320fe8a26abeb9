package handler

import (
	"context"
	"errors"
	"go-finance-api/common"
	"go-finance-api/logger"
	"go-finance-api/model"
	"go-finance-api/ratelimit"
	"go-finance-api/service"
	"math"
	"net/http"
	"strconv"
	"time"
)

// IAuthService is the part of service.AuthService the HTTP layer needs.
type IAuthService interface {
	Register(ctx context.Context, req model.RegisterRequest, client service.ClientInfo) (*model.AuthResponse, error)
	Login(ctx context.Context, req model.LoginRequest, client service.ClientInfo) (*model.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string, client service.ClientInfo) (*model.AuthResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	LogoutAll(ctx context.Context, accountID int64) (int64, error)
	Me(ctx context.Context, accountID int64) (*model.AccountSummary, error)
}

type AuthHandler struct {
	service IAuthService
	limiter ratelimit.Limiter
	now     func() time.Time
}

// NewAuthHandler accepts a nil limiter, which disables login throttling.
func NewAuthHandler(s IAuthService, limiter ratelimit.Limiter) *AuthHandler {
	return &AuthHandler{service: s, limiter: limiter, now: time.Now}
}

// Register godoc
// @Summary      Register a new account
// @Description  Creates an account and returns an access and refresh token pair.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        account body model.RegisterRequest true "Account details"
// @Success      200  {object}  model.AuthResponse
// @Failure      400  {object}  common.AppError "Validation failed or email already registered"
// @Failure      500  {object}  common.AppError
// @Router       /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RegisterRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	resp, err := h.service.Register(r.Context(), req, clientInfo(r))
	if err != nil {
		return authError(err)
	}

	common.WriteJSON(w, http.StatusOK, resp)
	return nil
}

// Login godoc
// @Summary      Log in
// @Description  Verifies credentials. Five consecutive failures lock the account.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials body model.LoginRequest true "Email and password"
// @Success      200  {object}  model.AuthResponse
// @Failure      400  {object}  common.AppError
// @Failure      401  {object}  common.AppError "invalid credentials or account locked"
// @Failure      429  {object}  common.AppError
// @Router       /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	client := clientInfo(r)
	if appErr := h.throttle(w, r, client.IP); appErr != nil {
		return appErr
	}

	var req model.LoginRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	resp, err := h.service.Login(r.Context(), req, client)
	if err != nil {
		return authError(err)
	}

	common.WriteJSON(w, http.StatusOK, resp)
	return nil
}

// Refresh godoc
// @Summary      Rotate a refresh token
// @Description  Revokes the presented refresh token and issues a new token pair.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        token body model.RefreshRequest true "Refresh token"
// @Success      200  {object}  model.AuthResponse
// @Failure      401  {object}  common.AppError
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RefreshRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	resp, err := h.service.Refresh(r.Context(), req.RefreshToken, clientInfo(r))
	if err != nil {
		return authError(err)
	}

	common.WriteJSON(w, http.StatusOK, resp)
	return nil
}

// Logout godoc
// @Summary      Revoke a refresh token
// @Tags         auth
// @Accept       json
// @Param        token body model.RefreshRequest true "Refresh token"
// @Success      204
// @Failure      400  {object}  common.AppError
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RefreshRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	if err := h.service.Logout(r.Context(), req.RefreshToken); err != nil {
		return common.Internal(err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

// LogoutAll godoc
// @Summary      Revoke every refresh token of the caller
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  common.AppError
// @Router       /auth/logout-all [post]
func (h *AuthHandler) LogoutAll(w http.ResponseWriter, r *http.Request) *common.AppError {
	accountID, appErr := requireAccountID(r)
	if appErr != nil {
		return appErr
	}

	if _, err := h.service.LogoutAll(r.Context(), accountID); err != nil {
		return common.Internal(err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

// Me godoc
// @Summary      Current account
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  model.AccountSummary
// @Failure      401  {object}  common.AppError
// @Failure      404  {object}  common.AppError
// @Router       /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) *common.AppError {
	accountID, appErr := requireAccountID(r)
	if appErr != nil {
		return appErr
	}

	summary, err := h.service.Me(r.Context(), accountID)
	if err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			return common.NewAppError(http.StatusNotFound, "account not found", nil)
		}
		return common.Internal(err)
	}

	common.WriteJSON(w, http.StatusOK, summary)
	return nil
}

// throttle fails open when the limiter itself errors so a Redis outage does not block logins.
func (h *AuthHandler) throttle(w http.ResponseWriter, r *http.Request, ip string) *common.AppError {
	if h.limiter == nil {
		return nil
	}

	allowed, retryAfter, err := h.limiter.Allow(r.Context(), "login:"+ip, h.now())
	if err != nil {
		logger.Log.WithError(err).WithField("client_ip", ip).Warn("Login rate limiter unavailable")
		return nil
	}
	if allowed {
		return nil
	}

	seconds := int(math.Ceil(retryAfter.Seconds()))
	if seconds < 1 {
		seconds = 1
	}
	w.Header().Set("Retry-After", strconv.Itoa(seconds))
	logger.Log.WithField("client_ip", ip).Warn("Login rate limit exceeded")
	return common.NewAppError(http.StatusTooManyRequests, "too many requests", nil)
}

func authError(err error) *common.AppError {
	switch {
	case errors.Is(err, service.ErrDuplicateEmail):
		return common.NewAppError(http.StatusBadRequest, "email already registered", nil)
	case errors.Is(err, service.ErrInvalidCredentials):
		return common.NewAppError(http.StatusUnauthorized, "invalid credentials", nil)
	case errors.Is(err, service.ErrAccountLocked):
		return common.NewAppError(http.StatusUnauthorized, "account locked", nil)
	case errors.Is(err, service.ErrInvalidRefreshToken):
		return common.NewAppError(http.StatusUnauthorized, "invalid refresh token", nil)
	default:
		return common.Internal(err)
	}
}
