package service

import (
	"context"

	userdomain "github.com/myflix/backend/internal/user/domain"
)

// Credentials is the union of what the two authenticator variants consume:
// local verification reads Username/Password, bearer verification reads the
// raw Authorization header value.
type Credentials struct {
	Username string
	Password string
	Token    string
}

// Authenticator is the closed capability set behind the login and protected
// flows. The variant for a route is chosen at composition time, never by a
// runtime name lookup.
type Authenticator interface {
	Authenticate(ctx context.Context, creds Credentials) (userdomain.User, error)
}
