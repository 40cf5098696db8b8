package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Skotchmaster/shop_api/internal/events"
	"github.com/Skotchmaster/shop_api/internal/logging"
	"github.com/Skotchmaster/shop_api/internal/repo"
	"github.com/Skotchmaster/shop_api/internal/session"
	"github.com/Skotchmaster/shop_api/internal/transport"
)

type AuthService struct {
	Repo     *repo.GormRepo
	Sessions *session.Manager
	Events   events.Publisher
}

// Login checks the credentials by exact comparison and opens a session.
// Missing fields are treated as bad credentials.
func (s *AuthService) Login(ctx context.Context, req transport.LoginRequest) (*http.Cookie, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", req.Username)

	if req.Username == "" || req.Password == "" {
		return nil, fmt.Errorf("username and password required: %w", ErrUnauthorized)
	}

	user, err := s.Repo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("unknown user: %w", ErrUnauthorized)
		}
		return nil, err
	}
	if user.Password != req.Password {
		return nil, fmt.Errorf("wrong password: %w", ErrUnauthorized)
	}

	cookie, err := s.Sessions.Start(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	publish(ctx, l, s.Events, events.TopicUser, idKey(user.ID), events.Event{
		Type:   events.UserLoggedIn,
		UserID: user.ID,
		Name:   user.Username,
	})
	return cookie, nil
}

// Logout ends the session named by the cookie value if there is one.
func (s *AuthService) Logout(ctx context.Context, cookieValue string) error {
	l := logging.FromContext(ctx).With("svc", "auth.logout")

	sess, resolveErr := s.Sessions.Resolve(ctx, cookieValue)
	if err := s.Sessions.End(ctx, cookieValue); err != nil {
		return err
	}
	if resolveErr == nil {
		publish(ctx, l, s.Events, events.TopicUser, idKey(sess.UserID), events.Event{
			Type:   events.UserLoggedOut,
			UserID: sess.UserID,
		})
	}
	return nil
}

func (s *AuthService) ClearCookie() *http.Cookie {
	return s.Sessions.Clear()
}
