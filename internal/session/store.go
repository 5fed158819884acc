// Package session owns the authenticated identity and gates every
// other store: operations check RequireAuth / RequireAdmin against the
// current session before dispatching anything.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/Shiv-727-nov/E-commerce/internal/api"
	"github.com/Shiv-727-nov/E-commerce/internal/apperr"
	"github.com/Shiv-727-nov/E-commerce/internal/domain"
	"github.com/Shiv-727-nov/E-commerce/internal/lifecycle"
	"github.com/Shiv-727-nov/E-commerce/internal/notify"
)

type AuthAPI interface {
	SignIn(ctx context.Context, req api.SignInRequest) (domain.Session, error)
	SignUp(ctx context.Context, req api.SignUpRequest) error
}

type Store struct {
	mu       sync.Mutex
	api      AuthAPI
	creds    CredentialStore
	notifier notify.Notifier
	logger   *slog.Logger
	validate *validator.Validate

	session domain.Session
	life    lifecycle.Resource
}

func NewStore(authAPI AuthAPI, creds CredentialStore, notifier notify.Notifier, logger *slog.Logger) *Store {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		api:      authAPI,
		creds:    creds,
		notifier: notifier,
		logger:   logger,
		validate: validator.New(),
	}
}

// Restore loads persisted credentials, if any. Called once at startup.
func (s *Store) Restore(ctx context.Context) {
	sess, err := s.creds.Load(ctx)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.session = sess
	s.mu.Unlock()
	s.logger.Info("session restored", slog.Int64("user_id", sess.User.ID))
}

type loginInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

func (s *Store) Login(ctx context.Context, email, password string) error {
	if err := s.validate.Struct(loginInput{Email: email, Password: password}); err != nil {
		return apperr.ValidationErr("Email and password are required", nil)
	}

	s.mu.Lock()
	seq := s.life.Begin()
	s.mu.Unlock()

	sess, err := s.api.SignIn(ctx, api.SignInRequest{Email: email, Password: password})
	if err != nil {
		msg := apperr.PublicMessage(err, "Login failed")
		s.mu.Lock()
		s.life.Reject(seq, msg)
		s.mu.Unlock()
		s.notifier.Error(msg)
		return err
	}

	s.mu.Lock()
	applied := s.life.Fulfill(seq)
	if applied {
		s.session = sess
	}
	s.mu.Unlock()
	if !applied {
		return nil
	}

	if err := s.creds.Save(ctx, sess); err != nil {
		s.logger.Warn("persist credentials failed", slog.String("error", err.Error()))
	}
	s.notifier.Success("Login successful!")
	return nil
}

type registerInput struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

// Register creates an account but does not authenticate; the user
// signs in afterwards.
func (s *Store) Register(ctx context.Context, name, email, password string) error {
	if err := s.validate.Struct(registerInput{Name: name, Email: email, Password: password}); err != nil {
		return apperr.ValidationErr("Name, email and a password of at least 6 characters are required", nil)
	}

	s.mu.Lock()
	seq := s.life.Begin()
	s.mu.Unlock()

	if err := s.api.SignUp(ctx, api.SignUpRequest{Name: name, Email: email, Password: password}); err != nil {
		msg := apperr.PublicMessage(err, "Registration failed")
		s.mu.Lock()
		s.life.Reject(seq, msg)
		s.mu.Unlock()
		s.notifier.Error(msg)
		return err
	}

	s.mu.Lock()
	s.life.Fulfill(seq)
	s.mu.Unlock()
	s.notifier.Success("Registration successful! Please login.")
	return nil
}

// Logout destroys the session and any persisted credentials. In-flight
// operations begun before the logout are invalidated.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	s.session = domain.Session{}
	s.life.Reset()
	s.mu.Unlock()

	if err := s.creds.Clear(ctx); err != nil {
		s.logger.Warn("clear credentials failed", slog.String("error", err.Error()))
	}
	s.notifier.Success("Logged out successfully!")
}

func (s *Store) Current() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// Token implements api.TokenSource.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Token
}

func (s *Store) State() lifecycle.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.life.State()
}

// RequireAuth blocks operations that need a signed-in user.
func (s *Store) RequireAuth() error {
	if !s.Current().IsAuthenticated() {
		return apperr.AuthorizationErr("Please login to continue")
	}
	return nil
}

// RequireAdmin blocks admin-only operations for non-elevated sessions.
func (s *Store) RequireAdmin() error {
	if !s.Current().IsAdmin() {
		return apperr.AuthorizationErr("Admin access required")
	}
	return nil
}
