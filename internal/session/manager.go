package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Skotchmaster/shop_api/internal/models"
)

// Manager issues and resolves session cookies. The cookie carries an HS256
// JWT whose jti names a session in Store; the store is authoritative.
type Manager struct {
	Store      Store
	Secret     []byte
	TTL        time.Duration
	CookieName string
	Secure     bool
	Now        func() time.Time
}

func (m *Manager) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

func (m *Manager) Start(ctx context.Context, userID uint) (*http.Cookie, error) {
	now := m.now()
	exp := now.Add(m.TTL)
	sess := &models.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: exp.Unix(),
	}
	if err := m.Store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	claims := jwt.RegisteredClaims{
		ID:        sess.ID,
		Subject:   strconv.FormatUint(uint64(userID), 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.Secret)
	if err != nil {
		return nil, fmt.Errorf("sign session: %w", err)
	}

	return CreateCookie(m.CookieName, signed, "/", exp, m.Secure), nil
}

func (m *Manager) parse(value string, opts ...jwt.ParserOption) (*jwt.RegisteredClaims, error) {
	var claims jwt.RegisteredClaims
	opts = append(opts, jwt.WithTimeFunc(m.now))
	tkn, err := jwt.ParseWithClaims(value, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return m.Secret, nil
	}, opts...)
	if err != nil || !tkn.Valid {
		return nil, fmt.Errorf("%w: %v", ErrNoSession, err)
	}
	if claims.ID == "" {
		return nil, fmt.Errorf("%w: missing jti", ErrNoSession)
	}
	return &claims, nil
}

// Resolve verifies the cookie value and returns the live session it names.
func (m *Manager) Resolve(ctx context.Context, value string) (*models.Session, error) {
	if value == "" {
		return nil, ErrNoSession
	}
	claims, err := m.parse(value, jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}

	sess, err := m.Store.Get(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if sub, err := strconv.ParseUint(claims.Subject, 10, 64); err != nil || uint(sub) != sess.UserID {
		return nil, fmt.Errorf("%w: subject mismatch", ErrNoSession)
	}
	return sess, nil
}

// End removes the session named by the cookie value. Invalid or expired
// cookies are ignored; only store failures are returned.
func (m *Manager) End(ctx context.Context, value string) error {
	if value == "" {
		return nil
	}
	claims, err := m.parse(value, jwt.WithoutClaimsValidation())
	if err != nil {
		return nil
	}
	return m.Store.Delete(ctx, claims.ID)
}

func (m *Manager) Clear() *http.Cookie {
	return DeleteCookie(m.CookieName, "/", m.Secure)
}
