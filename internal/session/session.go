// Package session tracks the process-wide login flag and mirrors it into a
// persisted marker so a restart can restore the logged-in view.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

var (
	ErrMissingCredentials = errors.New("missing username or password")
	ErrMissingUsername    = errors.New("missing username")
	ErrTokenDecode        = errors.New("identity token could not be decoded")
)

// User-visible notices for the failures above.
const (
	NoticeMissingCredentials = "Username (WAJIB) dan Password (WAJIB) harus diisi!"
	NoticeMissingUsername    = "Please enter username"
	NoticeTokenDecode        = "Login Google gagal, silakan coba lagi."
	NoticeLoginHint          = "Isi Username dan Password lalu tekan Login"
)

// Notice returns the message shown for a session failure, or "" when the
// error has no user-visible notice.
func Notice(err error) string {
	switch {
	case errors.Is(err, ErrMissingCredentials):
		return NoticeMissingCredentials
	case errors.Is(err, ErrMissingUsername):
		return NoticeMissingUsername
	case errors.Is(err, ErrTokenDecode):
		return NoticeTokenDecode
	default:
		return ""
	}
}

type Session struct {
	mu       sync.RWMutex
	markers  MarkerStore
	loggedIn bool
	method   string
	userName string
}

func New(markers MarkerStore) *Session {
	if markers == nil {
		markers = NewMemoryMarkers()
	}
	return &Session{markers: markers}
}

// Restore reads the persisted marker once at startup.
func (s *Session) Restore(ctx context.Context) error {
	v, err := s.markers.Get(ctx, KeyLoggedIn)
	if errors.Is(err, ErrMarkerNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read login marker: %w", err)
	}
	if v != "true" {
		return nil
	}

	method, err := s.optionalMarker(ctx, KeyLoginMethod)
	if err != nil {
		return err
	}
	name, err := s.optionalMarker(ctx, KeyUserName)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.loggedIn = true
	s.method = method
	s.userName = name
	s.mu.Unlock()

	slog.InfoContext(ctx, "Session restored from marker", "login_method", method)
	return nil
}

func (s *Session) optionalMarker(ctx context.Context, key string) (string, error) {
	v, err := s.markers.Get(ctx, key)
	if errors.Is(err, ErrMarkerNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read marker %s: %w", key, err)
	}
	return v, nil
}

// Login accepts any non-empty username and password. The flag is not
// persisted for this method.
func (s *Session) Login(username, password string) error {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return ErrMissingCredentials
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loggedIn = true
	s.method = ""
	s.userName = username
	return nil
}

// Signup only checks for a username; no account is stored.
func (s *Session) Signup(username string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", ErrMissingUsername
	}
	return "Account created for " + username, nil
}

// LoginWithToken logs in from a third-party identity token and persists
// the marker.
func (s *Session) LoginWithToken(ctx context.Context, token string) error {
	name, err := DisplayName(token)
	if err != nil {
		return err
	}

	for _, kv := range [][2]string{
		{KeyLoggedIn, "true"},
		{KeyLoginMethod, MethodGoogle},
		{KeyUserName, name},
	} {
		if err := s.markers.Set(ctx, kv[0], kv[1]); err != nil {
			return fmt.Errorf("persist marker %s: %w", kv[0], err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loggedIn = true
	s.method = MethodGoogle
	s.userName = name
	return nil
}

// Logout clears the flag and every persisted marker.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.loggedIn = false
	s.method = ""
	s.userName = ""
	s.mu.Unlock()

	var errs []error
	for _, key := range []string{KeyLoggedIn, KeyLoginMethod, KeyUserName} {
		if err := s.markers.Delete(ctx, key); err != nil {
			errs = append(errs, fmt.Errorf("delete marker %s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

func (s *Session) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loggedIn
}

func (s *Session) UserName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userName
}

func (s *Session) Method() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.method
}
