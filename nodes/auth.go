package nodes

import (
	"errors"
	"net/http"
	"strings"

	"go-vertx/vertx"

	"github.com/golang-jwt/jwt/v5"
)

// TokenCookie is the cookie checked when no Authorization header is sent.
const TokenCookie = "token"

var (
	ErrNoToken      = errors.New("no token")
	ErrInvalidToken = errors.New("invalid token")
)

type Claims struct {
	UserID string `json:"sub"`
	jwt.RegisteredClaims
}

// Authenticate extracts the user ID from:
// 1) Authorization: Bearer <jwt> using HS256 and secret
// 2) the TokenCookie holding the same kind of token, as a fallback
func Authenticate(req *vertx.Request, secret []byte) (string, error) {
	tokenStr := ""
	if auth := req.Headers().Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		tokenStr = strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	} else if c := req.Cookies()[TokenCookie]; c != "" {
		tokenStr = c
	}
	if tokenStr == "" {
		return "", ErrNoToken
	}
	if len(secret) == 0 {
		return "", ErrInvalidToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil || !token.Valid || claims.UserID == "" {
		return "", ErrInvalidToken
	}
	return claims.UserID, nil
}

// BearerAuth lets authenticated requests through and bounces the rest:
// 401 when no token was sent, 400 when the token does not verify.
func BearerAuth(secret []byte) vertx.Handler {
	return vertx.HandlerFunc(func(req *vertx.Request, resp *vertx.Response) (*vertx.Response, error) {
		_, err := Authenticate(req, secret)
		switch {
		case err == nil:
			return resp, nil
		case errors.Is(err, ErrNoToken):
			return bounceError(resp, http.StatusUnauthorized, "Missing token")
		default:
			return bounceError(resp, http.StatusBadRequest, "Invalid token")
		}
	})
}
