package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/baharkarakas/sweetshop/internal/apperr"
	"github.com/baharkarakas/sweetshop/internal/auth"
	"github.com/baharkarakas/sweetshop/internal/metrics"
	"github.com/baharkarakas/sweetshop/internal/models"
	repo "github.com/baharkarakas/sweetshop/internal/repository"
)

// Session is a freshly issued session token.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

type UserService struct {
	r        repo.Users
	sessions *auth.Sessions
}

func NewUserService(r repo.Users, sessions *auth.Sessions) *UserService {
	return &UserService{r: r, sessions: sessions}
}

func (s *UserService) Register(ctx context.Context, email, password string) (models.User, Session, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return models.User{}, Session{}, apperr.Validation("Email and password are required")
	}
	if len(password) < models.MinPasswordLen {
		return models.User{}, Session{}, apperr.Validation(fmt.Sprintf("Password must be at least %d characters", models.MinPasswordLen))
	}
	u := models.User{Email: email}
	if err := u.Validate(); err != nil {
		return models.User{}, Session{}, apperr.Validation("Invalid email")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, Session{}, err
	}
	u, err = s.r.Register(ctx, u.Email, hash)
	if errors.Is(err, apperr.ErrConflict) {
		return models.User{}, Session{}, apperr.New(apperr.ErrConflict, "User already exists")
	}
	if err != nil {
		return models.User{}, Session{}, fmt.Errorf("register user: %w", err)
	}
	slog.InfoContext(ctx, "user registered", "user_id", u.ID, "role", u.Role)

	sess, err := s.issue(u)
	return u, sess, err
}

// Login never reveals whether the email exists: both failure paths return
// the same error after the same amount of bcrypt work.
func (s *UserService) Login(ctx context.Context, email, password string) (models.User, Session, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return models.User{}, Session{}, apperr.Validation("Email and password are required")
	}

	invalid := apperr.New(apperr.ErrInvalidCredentials, "Invalid credentials")
	u, err := s.r.GetByEmail(ctx, email)
	if errors.Is(err, apperr.ErrNotFound) {
		auth.BurnPasswordCheck(password)
		metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		return models.User{}, Session{}, invalid
	}
	if err != nil {
		return models.User{}, Session{}, fmt.Errorf("lookup user: %w", err)
	}
	if !auth.VerifyPassword(password, u.PasswordHash) {
		metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		return models.User{}, Session{}, invalid
	}

	metrics.LoginsTotal.WithLabelValues("ok").Inc()
	sess, err := s.issue(u)
	return u, sess, err
}

// Me returns the stored user behind a principal.
func (s *UserService) Me(ctx context.Context, p auth.Principal) (models.User, error) {
	if !p.Authenticated() {
		return models.User{}, apperr.ErrUnauthenticated
	}
	u, err := s.r.GetByID(ctx, p.UserID)
	if errors.Is(err, apperr.ErrNotFound) {
		return models.User{}, apperr.New(apperr.ErrNotFound, "User not found")
	}
	return u, err
}

func (s *UserService) SessionTTL() time.Duration { return s.sessions.TTL() }

func (s *UserService) issue(u models.User) (Session, error) {
	tok, exp, err := s.sessions.Issue(u.ID, u.Email, u.Role)
	if err != nil {
		return Session{}, fmt.Errorf("issue session: %w", err)
	}
	return Session{Token: tok, ExpiresAt: exp}, nil
}
