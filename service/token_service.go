package service

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"go-finance-api/config"
	"go-finance-api/logger"
	"go-finance-api/model"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const refreshTokenSize = 64

var ErrInvalidAccessToken = errors.New("invalid access token")

// TokenService signs and verifies access tokens and mints opaque refresh tokens.
type TokenService struct {
	secret          []byte
	issuer          string
	audience        string
	accessLifetime  time.Duration
	refreshLifetime time.Duration
	now             func() time.Time
}

// NewTokenService refuses to build a signer without a secret.
func NewTokenService(secret, issuer, audience string, accessLifetime, refreshLifetime time.Duration) (*TokenService, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("%w: jwt signing secret", config.ErrConfigurationMissing)
	}
	if issuer == "" || audience == "" {
		return nil, fmt.Errorf("%w: jwt issuer and audience", config.ErrConfigurationMissing)
	}
	return &TokenService{
		secret:          []byte(secret),
		issuer:          issuer,
		audience:        audience,
		accessLifetime:  accessLifetime,
		refreshLifetime: refreshLifetime,
		now:             time.Now,
	}, nil
}

// NewTokenServiceFromConfig builds a TokenService from the jwt config section.
func NewTokenServiceFromConfig(cfg config.Config) (*TokenService, error) {
	return NewTokenService(
		cfg.JWT.SecretKey,
		cfg.JWT.Issuer,
		cfg.JWT.Audience,
		time.Duration(cfg.JWT.ExpirationMinutes)*time.Minute,
		time.Duration(cfg.JWT.RefreshTokenExpirationDays)*24*time.Hour,
	)
}

// RefreshLifetime is how long a newly issued refresh token stays valid.
func (s *TokenService) RefreshLifetime() time.Duration {
	return s.refreshLifetime
}

// IssueAccessToken signs an HS256 token whose subject is the account id.
func (s *TokenService) IssueAccessToken(account *model.Account) (string, time.Time, error) {
	issuedAt := s.now().UTC().Truncate(time.Second)
	expiresAt := issuedAt.Add(s.accessLifetime)

	claims := &model.AppClaims{
		Name:  account.Name,
		Email: account.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(account.ID, 10),
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		logger.Log.WithError(err).WithField("account_id", account.ID).Error("Failed to sign JWT")
		return "", time.Time{}, fmt.Errorf("failed to sign token string: %w", err)
	}
	return signed, expiresAt, nil
}

// ParseAccessToken checks signature, issuer, audience and expiry together.
// A token is valid strictly before its expiry second.
func (s *TokenService) ParseAccessToken(tokenString string) (*model.AppClaims, error) {
	claims := &model.AppClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAccessToken, err)
	}
	return claims, nil
}

// AccountID extracts the account id carried in the subject of a verified token.
func (s *TokenService) AccountID(tokenString string) (int64, error) {
	claims, err := s.ParseAccessToken(tokenString)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: bad subject", ErrInvalidAccessToken)
	}
	return id, nil
}

// IssueRefreshToken returns 64 random bytes, URL-safe base64 encoded.
// The value carries no claims.
func (s *TokenService) IssueRefreshToken() (string, error) {
	b := make([]byte, refreshTokenSize)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate refresh token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
