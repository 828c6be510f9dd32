// Package auth provides password hashing, the signed session cookie, and the
// HTTP middleware that turns that cookie into a caller identity.
//
// AUTHENTICATION FLOW OVERVIEW:
// 1. Client POSTs /api/auth/login with email + password
// 2. Server verifies the bcrypt hash and inserts a row into the sessions table
// 3. Server signs a JWT whose "jti" is the session id and stores it in an
//    HttpOnly cookie
// 4. On subsequent API calls, middleware reads the cookie, verifies the
//    signature, and looks the session row up to get (userID, role)
// 5. Logout deletes the row, so the cookie stops working immediately
//
// WHY A JWT *AND* A SESSION ROW?
// The signature means nobody can guess or forge a session id. The row means
// the server can revoke a session before its expiry. The token alone would be
// stateless but unrevocable; the row alone would trust any id a client sends.
//
// JWT STRUCTURE (three base64-encoded parts separated by dots):
//
//	HEADER.PAYLOAD.SIGNATURE
//	- Header: algorithm + token type → {"alg":"HS256","typ":"JWT"}
//	- Payload: claims → {"jti":"<session id>","sub":"<user id>","exp":1234567890}
//	- Signature: HMAC-SHA256(header+"."+payload, secretKey)
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "assignment-hub"

// TokenService signs and verifies session cookies.
//
// The same secret must be used for both operations. Rotating it logs every
// user out, which is sometimes exactly what you want.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// Example: SESSION_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: session secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims is the JWT payload. The standard "jti" (ID) claim carries the session
// id and "sub" (Subject) the user id.
type claims struct {
	jwt.RegisteredClaims
}

// Sign issues a token for sessionID that the library will reject after ttl.
// The session row has its own expiry; the two are set from the same TTL so
// neither outlives the other by more than a clock tick.
func (s *TokenService) Sign(sessionID, userID string, ttl time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    issuer,
		},
	}

	// jwt.NewWithClaims creates an unsigned token with the given algorithm.
	// SignedString(key) signs it and returns the complete JWT string.
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Parse verifies a token and returns the session id and user id it carries.
//
// VALIDATION CHECKS (performed by the jwt library):
//   - Signature is valid (wasn't tampered with)
//   - Token is not expired (ExpiresAt is in the future)
//   - Issuer matches (prevents tokens minted for other apps with the same key)
//   - Algorithm is HS256 (prevents algorithm confusion attacks)
//
// ALGORITHM CONFUSION ATTACK:
// Without checking the algorithm, an attacker could send a token signed with
// "none" and the library might accept it. Passing jwt.WithValidMethods prevents this.
func (s *TokenService) Parse(tokenStr string) (sessionID, userID string, err error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", "", fmt.Errorf("auth: token expired")
		}
		return "", "", fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", "", fmt.Errorf("auth: invalid token claims")
	}
	if c.ID == "" || c.Subject == "" {
		return "", "", fmt.Errorf("auth: token is missing session or subject")
	}

	return c.ID, c.Subject, nil
}
