// Package session owns the per-user state: login, theme, cart, and pagination.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sortify/sortify/internal/cart"
	"github.com/sortify/sortify/internal/pagination"
	"github.com/sortify/sortify/internal/storage"
	"go.uber.org/zap"
)

// Session is the explicit context object for one active user. The cart store
// and pagination controller are owned by the session and are discarded
// wholesale on logout.
type Session struct {
	id     string
	store  storage.Store
	logger *zap.Logger
	cart   *cart.Store
	pager  *pagination.Controller

	mu       sync.Mutex
	loggedIn bool
	user     string
	theme    string
}

// New creates a session owning the given pagination controller. The persisted
// theme preference is read from store at startup; a read failure falls back
// to the light theme.
func New(ctx context.Context, store storage.Store, pager *pagination.Controller, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	theme := storage.ThemeLight
	if store != nil {
		if t, err := store.GetTheme(ctx); err == nil {
			theme = t
		} else {
			logger.Warn("theme preference read failed", zap.Error(err))
		}
	}
	return &Session{
		id:     uuid.NewString(),
		store:  store,
		logger: logger,
		cart:   cart.NewStore(),
		pager:  pager,
		theme:  theme,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Cart returns the session's cart store.
func (s *Session) Cart() *cart.Store { return s.cart }

// Pager returns the session's pagination controller.
func (s *Session) Pager() *pagination.Controller { return s.pager }

// Login accepts any non-empty email/password pair. There is no backing
// authentication system.
func (s *Session) Login(email, password string) error {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return fmt.Errorf("please enter both email and password")
	}
	s.mu.Lock()
	s.loggedIn = true
	s.mu.Unlock()
	s.logger.Debug("logged in", zap.String("session", s.id))
	return nil
}

// CompleteSetup records the display username chosen after login.
func (s *Session) CompleteSetup(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("username is required")
	}
	s.mu.Lock()
	if !s.loggedIn {
		s.mu.Unlock()
		return fmt.Errorf("not logged in")
	}
	s.user = username
	s.mu.Unlock()
	return nil
}

// LoggedIn reports whether the session has passed login.
func (s *Session) LoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loggedIn
}

// User returns the display username, empty until setup completes.
func (s *Session) User() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Logout returns the session to the landing state: the cart is cleared and
// the pagination controller reset unconditionally. The theme preference
// survives logout.
func (s *Session) Logout() {
	s.mu.Lock()
	s.loggedIn = false
	s.user = ""
	s.mu.Unlock()
	s.cart.Clear()
	if s.pager != nil {
		s.pager.Reset()
	}
	s.logger.Debug("logged out", zap.String("session", s.id))
}

// Theme returns the current theme flag.
func (s *Session) Theme() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

// SetTheme sets and persists the theme flag.
func (s *Session) SetTheme(ctx context.Context, theme string) error {
	if theme != storage.ThemeLight && theme != storage.ThemeDark {
		return fmt.Errorf("invalid theme: %s", theme)
	}
	s.mu.Lock()
	s.theme = theme
	s.mu.Unlock()
	if s.store != nil {
		if err := s.store.SetTheme(ctx, theme); err != nil {
			s.logger.Warn("theme persist failed", zap.Error(err))
			return err
		}
	}
	return nil
}

// ToggleTheme flips between light and dark, persisting the result.
func (s *Session) ToggleTheme(ctx context.Context) string {
	s.mu.Lock()
	next := storage.ThemeDark
	if s.theme == storage.ThemeDark {
		next = storage.ThemeLight
	}
	s.theme = next
	s.mu.Unlock()
	if s.store != nil {
		if err := s.store.SetTheme(ctx, next); err != nil {
			s.logger.Warn("theme persist failed", zap.Error(err))
		}
	}
	return next
}

// CopyCartNames serializes the cart names and hands them to copyFn (the
// clipboard mechanism). The returned status is a transient user-visible
// message; a copy failure is reported there, never as an error.
func (s *Session) CopyCartNames(copyFn func(string) error) string {
	if copyFn == nil {
		return "Failed to copy"
	}
	if err := copyFn(s.cart.SerializeNames()); err != nil {
		s.logger.Debug("clipboard copy failed", zap.Error(err))
		return "Failed to copy"
	}
	return "Copied!"
}
