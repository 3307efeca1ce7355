package service

import (
	"net/http"

	commonerrors "github.com/myflix/backend/internal/common/errors"
)

// Client-facing messages are deliberately uniform: credential failures never
// reveal whether the username exists, token failures never reveal which check
// tripped. The codes exist for logs and metrics only.
var (
	ErrInvalidCredentials = commonerrors.NewDomainError(
		"INVALID_CREDENTIALS",
		commonerrors.CategoryUnauthorized,
		http.StatusBadRequest,
		"invalid username or password",
	)

	ErrUserNotFound = commonerrors.NewDomainError(
		"LOGIN_USER_NOT_FOUND",
		commonerrors.CategoryUnauthorized,
		http.StatusBadRequest,
		"invalid username or password",
	)

	ErrTokenMalformed = commonerrors.NewDomainError(
		"TOKEN_MALFORMED",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"invalid or missing token",
	)

	ErrTokenExpired = commonerrors.NewDomainError(
		"TOKEN_EXPIRED",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"invalid or missing token",
	)

	ErrTokenSignatureInvalid = commonerrors.NewDomainError(
		"TOKEN_SIGNATURE_INVALID",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"invalid or missing token",
	)

	ErrUserNoLongerExists = commonerrors.NewDomainError(
		"USER_NO_LONGER_EXISTS",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"invalid or missing token",
	)
)
