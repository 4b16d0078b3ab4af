package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/isdelr/devconnector-be/internal/common"
	"github.com/rs/zerolog/log"
)

// TokenHeader is the request header carrying the credential.
const TokenHeader = "x-auth-token"

// Identity is the unique identifier of an authenticated user.
type Identity string

func (id Identity) String() string { return string(id) }

// Claims defines the JWT claims structure: {"user": {"id": ...}}.
type Claims struct {
	User struct {
		ID string `json:"id"`
	} `json:"user"`
	jwt.RegisteredClaims
}

type contextKey string

const identityKey = contextKey("identity")

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext returns the identity attached by the Authenticator.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok && id != ""
}

// Authenticator issues and verifies signed credentials with a process-wide secret.
// Credentials carry no expiry; they stay valid until the secret changes.
type Authenticator struct {
	secret []byte
	now    func() time.Time
}

// NewAuthenticator creates an Authenticator bound to secret.
func NewAuthenticator(secret []byte) *Authenticator {
	return &Authenticator{secret: secret, now: time.Now}
}

// Issue creates a signed credential for id.
func (a *Authenticator) Issue(id Identity) (string, error) {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(a.now()),
		},
	}
	claims.User.ID = id.String()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// Verify checks the signature of tokenStr and decodes the identity it carries
// in canonical form.
// An empty token yields common.ErrUnauthenticated; any other failure yields
// common.ErrInvalidCredential.
func (a *Authenticator) Verify(tokenStr string) (Identity, error) {
	if tokenStr == "" {
		return "", common.ErrUnauthenticated
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrInvalidCredential, err)
	}
	id := Canonical(claims.User.ID)
	if !token.Valid || id == "" {
		return "", common.ErrInvalidCredential
	}
	return Identity(id), nil
}

// Middleware rejects requests without a valid credential in TokenHeader and
// exposes the decoded identity to downstream handlers through the request context.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := a.Verify(r.Header.Get(TokenHeader))
		if err != nil {
			log.Debug().Err(err).Str("path", r.URL.Path).Msg("Rejected request credential")
			common.RespondWithError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}
