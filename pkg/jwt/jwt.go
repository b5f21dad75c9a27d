package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims is the subset of the login service's claims the dashboard reads
type Claims struct {
	UserID string `json:"user_id,omitempty"`
	Email  string `json:"email,omitempty"`
	Name   string `json:"name,omitempty"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Identity returns the best available identifier for audit logs
func (c *Claims) Identity() string {
	if c == nil {
		return ""
	}
	switch {
	case c.UserID != "":
		return c.UserID
	case c.Email != "":
		return c.Email
	default:
		return c.RegisteredClaims.Subject
	}
}

// CredentialVerifier checks admin bearer credentials issued by the external
// login service. Tokens are never issued here.
//
// With a shared secret, HMAC signature and expiry are verified. Without one,
// JWT-shaped credentials are only checked for expiry and anything else is
// passed through as opaque for the order source to judge.
type CredentialVerifier struct {
	secret []byte
	now    func() time.Time
}

// NewCredentialVerifier creates a verifier; secret may be empty
func NewCredentialVerifier(secret string) *CredentialVerifier {
	return &CredentialVerifier{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// WithClock overrides the verifier's clock
func (v *CredentialVerifier) WithClock(now func() time.Time) *CredentialVerifier {
	v.now = now
	return v
}

// ValidateToken returns the token's claims. Claims are empty for opaque
// credentials accepted without a secret.
func (v *CredentialVerifier) ValidateToken(tokenString string) (*Claims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, ErrTokenInvalid
	}

	if len(v.secret) > 0 {
		return v.verifySigned(tokenString)
	}

	if strings.Count(tokenString, ".") != 2 {
		return &Claims{}, nil
	}

	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if claims.ExpiresAt != nil && !v.now().Before(claims.ExpiresAt.Time) {
		return nil, ErrTokenExpired
	}

	return claims, nil
}

func (v *CredentialVerifier) verifySigned(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return v.secret, nil
		},
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
