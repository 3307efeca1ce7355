package service

import (
	"context"
	"errors"

	commoncrypto "github.com/myflix/backend/internal/common/crypto"
	commonerrors "github.com/myflix/backend/internal/common/errors"
	"github.com/myflix/backend/internal/common/logger"
	userdomain "github.com/myflix/backend/internal/user/domain"
	userrepo "github.com/myflix/backend/internal/user/repository"
)

// LocalAuthenticator verifies a username/password pair against the user
// store. It short-circuits on the first failed check and performs exactly one
// store read. Input format policy (username length, character set) is the
// caller's job; by the time credentials reach here they are shaped correctly.
type LocalAuthenticator struct {
	users  userrepo.Repository
	hasher commoncrypto.PasswordHasher
	log    *logger.Logger
}

func NewLocalAuthenticator(
	users userrepo.Repository,
	hasher commoncrypto.PasswordHasher,
	log *logger.Logger,
) *LocalAuthenticator {
	return &LocalAuthenticator{
		users:  users,
		hasher: hasher,
		log:    log,
	}
}

func (a *LocalAuthenticator) Authenticate(ctx context.Context, creds Credentials) (userdomain.User, error) {
	incrementLoginAttempts()

	user, err := a.users.FindByUsername(ctx, creds.Username)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			a.log.WithFields(ctx, logger.Fields{
				"username": creds.Username,
				"action":   "login_user_not_found",
			}).Warn("login failed: not found")
			incrementLoginFailed("user_not_found")
			return userdomain.User{}, ErrUserNotFound
		}
		a.log.WithFields(ctx, logger.Fields{
			"username": creds.Username,
			"action":   "login_fetch_failed",
		}).Errorf("login failed: %v", err)
		incrementLoginFailed("store_unavailable")
		return userdomain.User{}, commonerrors.ErrStoreUnavailable.WithCause(err)
	}

	if !a.hasher.Verify(creds.Password, user.PasswordHash) {
		a.log.WithFields(ctx, logger.Fields{
			"username": creds.Username,
			"action":   "login_invalid_password",
		}).Warn("login failed: invalid password")
		incrementLoginFailed("invalid_password")
		return userdomain.User{}, ErrInvalidCredentials
	}

	a.log.WithFields(ctx, logger.Fields{
		"username": user.Username,
		"user_id":  string(user.ID),
		"action":   "login_success",
	}).Info("login success")

	return user, nil
}
