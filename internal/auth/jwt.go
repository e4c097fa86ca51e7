package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tiendaops/tienda-api/internal/errs"
)

// Identity is the authenticated caller. Downstream code trusts it verbatim.
type Identity struct {
	UserID int64
	Email  string
}

type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(secret string) *Manager {
	return &Manager{secret: []byte(secret), ttl: 24 * time.Hour}
}

type claims struct {
	UserID int64  `json:"uid"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

func (m *Manager) Issue(id Identity) (string, error) {
	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		UserID: id.UserID,
		Email:  id.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	})
	return tok.SignedString(m.secret)
}

func (m *Manager) Verify(token string) (Identity, error) {
	var c claims
	tok, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil || !tok.Valid {
		return Identity{}, &errs.AuthError{Msg: "invalid or expired token"}
	}
	return Identity{UserID: c.UserID, Email: c.Email}, nil
}
