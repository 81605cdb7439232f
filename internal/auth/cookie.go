package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// SessionCookieName is the cookie the signed session token travels in.
const SessionCookieName = "cp_session"

// CookieCodec signs and verifies the session cookie value. The cookie never
// carries identity data, only the opaque session id; everything else lives
// server-side in the session store.
type CookieCodec struct {
	secret []byte
}

// NewCookieCodec builds a codec from the configured signing secret.
func NewCookieCodec(secret string) *CookieCodec {
	return &CookieCodec{secret: []byte(secret)}
}

type cookieClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// Sign produces the signed cookie value for a session.
func (c *CookieCodec) Sign(sessionID string, expiresAt time.Time) (string, error) {
	claims := &cookieClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Parse validates the cookie value and returns the embedded session id.
func (c *CookieCodec) Parse(value string) (string, error) {
	parsed, err := jwt.ParseWithClaims(value, &cookieClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return c.secret, nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := parsed.Claims.(*cookieClaims)
	if !ok || !parsed.Valid || claims.SessionID == "" {
		return "", errors.New("invalid cookie claims")
	}
	return claims.SessionID, nil
}
