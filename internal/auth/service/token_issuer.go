package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/myflix/backend/internal/common/clock"
	commoncrypto "github.com/myflix/backend/internal/common/crypto"
	userdomain "github.com/myflix/backend/internal/user/domain"
)

// TokenIssuer signs self-contained HS256 access tokens. The server keeps no
// session record: the token is the only state, and there is no revocation —
// logout is client-side discard, and an issued token stays valid until its
// expiry. Deleting the account is the one way to kill it early, because the
// bearer side re-resolves the subject on every request.
type TokenIssuer struct {
	secret []byte
	ids    commoncrypto.IDGenerator
	clock  clock.Clock
	ttl    time.Duration
}

func NewTokenIssuer(
	secret string,
	ids commoncrypto.IDGenerator,
	ttl time.Duration,
	clock clock.Clock,
) *TokenIssuer {
	return &TokenIssuer{
		secret: []byte(secret),
		ids:    ids,
		clock:  clock,
		ttl:    ttl,
	}
}

// Issue builds and signs a token for an already-authenticated identity. Two
// calls for the same identity always yield distinct tokens (fresh jti and
// iat), each independently valid until its own expiry.
func (ti *TokenIssuer) Issue(user userdomain.User) (string, error) {
	jti, err := ti.ids.NewID()
	if err != nil {
		return "", err
	}

	now := ti.clock.Now()
	claims := jwt.MapClaims{
		"sub": string(user.ID),
		"usr": user.Username,
		"jti": jti,
		"iat": now.Unix(),
		"exp": now.Add(ti.ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := t.SignedString(ti.secret)
	if err != nil {
		return "", err
	}

	incrementAccessTokensIssued()
	return tokenString, nil
}
