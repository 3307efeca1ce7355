package gate

import (
	"context"
	"net/http"

	"github.com/myflix/backend/internal/auth/service"
	commonerrors "github.com/myflix/backend/internal/common/errors"
	commonhttp "github.com/myflix/backend/internal/common/http"
	"github.com/myflix/backend/internal/common/logger"
	userdomain "github.com/myflix/backend/internal/user/domain"
)

type contextKey string

const identityKey contextKey = "auth_identity"

// Gate guards protected routes: it runs the bearer authenticator against the
// Authorization header and attaches the resolved identity to the request
// context, or rejects before any downstream store access. Every rejection
// looks the same to the client; the specific failure kind goes to the log.
type Gate struct {
	tokens service.Authenticator
	log    *logger.Logger
}

func New(tokens service.Authenticator, log *logger.Logger) *Gate {
	return &Gate{tokens: tokens, log: log}
}

func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := g.tokens.Authenticate(r.Context(), service.Credentials{
			Token: r.Header.Get("Authorization"),
		})
		if err != nil {
			g.reject(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (g *Gate) reject(w http.ResponseWriter, r *http.Request, err error) {
	if de, ok := commonerrors.AsDomainError(err); ok {
		g.log.WithFields(r.Context(), logger.Fields{
			"code":   de.Code(),
			"path":   r.URL.Path,
			"action": "request_rejected",
		}).Warn("bearer auth failed")

		if de.Category() == commonerrors.CategoryExternal {
			commonhttp.WriteError(w, de.HTTPStatus(), de.Message())
			return
		}
		commonhttp.WriteError(w, http.StatusUnauthorized, "invalid or missing token")
		return
	}

	g.log.WithFields(r.Context(), logger.Fields{
		"path":   r.URL.Path,
		"action": "request_rejected",
	}).Errorf("bearer auth failed: %v", err)
	commonhttp.WriteError(w, http.StatusUnauthorized, "invalid or missing token")
}

// IdentityFromContext returns the identity the gate resolved for this
// request.
func IdentityFromContext(ctx context.Context) (userdomain.User, bool) {
	user, ok := ctx.Value(identityKey).(userdomain.User)
	return user, ok
}
