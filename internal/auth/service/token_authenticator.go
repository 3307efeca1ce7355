package service

import (
	"context"
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/myflix/backend/internal/common/clock"
	commonerrors "github.com/myflix/backend/internal/common/errors"
	"github.com/myflix/backend/internal/common/logger"
	userdomain "github.com/myflix/backend/internal/user/domain"
	userrepo "github.com/myflix/backend/internal/user/repository"
)

const bearerPrefix = "Bearer "

type tokenClaims struct {
	UserID   string
	Username string
}

// TokenAuthenticator is a verify-then-resolve pipeline: header extraction,
// signature and expiry checks all happen before the single store read, so a
// bad token costs no I/O. The resolved record is the store's current one, so
// account edits and deletions take effect per request rather than trusting
// stale claims.
type TokenAuthenticator struct {
	users  userrepo.Repository
	secret []byte
	clock  clock.Clock
	log    *logger.Logger
}

func NewTokenAuthenticator(
	users userrepo.Repository,
	secret string,
	clock clock.Clock,
	log *logger.Logger,
) *TokenAuthenticator {
	return &TokenAuthenticator{
		users:  users,
		secret: []byte(secret),
		clock:  clock,
		log:    log,
	}
}

func (a *TokenAuthenticator) Authenticate(ctx context.Context, creds Credentials) (userdomain.User, error) {
	incrementTokenValidations()

	raw := creds.Token
	if raw == "" || !strings.HasPrefix(raw, bearerPrefix) {
		incrementTokenValidationFailed("missing_bearer")
		return userdomain.User{}, ErrTokenMalformed
	}

	claims, err := a.parseToken(strings.TrimPrefix(raw, bearerPrefix))
	if err != nil {
		if de, ok := commonerrors.AsDomainError(err); ok {
			incrementTokenValidationFailed(strings.ToLower(de.Code()))
		}
		return userdomain.User{}, err
	}

	user, err := a.users.FindByID(ctx, userdomain.ID(claims.UserID))
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			a.log.WithFields(ctx, logger.Fields{
				"user_id": claims.UserID,
				"action":  "token_user_gone",
			}).Warn("token valid but user no longer exists")
			incrementTokenValidationFailed("user_gone")
			return userdomain.User{}, ErrUserNoLongerExists
		}
		incrementTokenValidationFailed("store_unavailable")
		return userdomain.User{}, commonerrors.ErrStoreUnavailable.WithCause(err)
	}

	return user, nil
}

func (a *TokenAuthenticator) parseToken(tokenString string) (tokenClaims, error) {
	parsed, err := jwt.Parse(
		tokenString,
		func(token *jwt.Token) (any, error) {
			if token.Method != jwt.SigningMethodHS256 {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return a.secret, nil
		},
		jwt.WithTimeFunc(a.clock.Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return tokenClaims{}, ErrTokenExpired.WithCause(err)
		case errors.Is(err, jwt.ErrTokenMalformed):
			return tokenClaims{}, ErrTokenMalformed.WithCause(err)
		default:
			return tokenClaims{}, ErrTokenSignatureInvalid.WithCause(err)
		}
	}
	if !parsed.Valid {
		return tokenClaims{}, ErrTokenSignatureInvalid
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return tokenClaims{}, ErrTokenMalformed
	}

	sub, _ := mapClaims["sub"].(string)
	username, _ := mapClaims["usr"].(string)
	if sub == "" || username == "" {
		return tokenClaims{}, ErrTokenMalformed
	}

	return tokenClaims{UserID: sub, Username: username}, nil
}
