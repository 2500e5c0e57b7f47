package account

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/kailas-cloud/localmaps/internal/domain"
	domacc "github.com/kailas-cloud/localmaps/internal/domain/account"
)

const tokenBytes = 32

// Options configure sessions and password hashing.
type Options struct {
	SessionTTL time.Duration
	BcryptCost int
}

// Service registers users and manages bearer sessions.
type Service struct {
	repo       Repository
	sessionTTL time.Duration
	bcryptCost int
	now        func() time.Time
}

// New creates an account service.
func New(repo Repository, opts Options) *Service {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 7 * 24 * time.Hour
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	return &Service{repo: repo, sessionTTL: opts.SessionTTL, bcryptCost: opts.BcryptCost, now: time.Now}
}

// Register creates a user and logs them in.
func (s *Service) Register(
	ctx context.Context, username, email, password string,
) (domacc.User, domacc.Session, error) {
	username = strings.TrimSpace(username)
	email = domacc.NormalizeEmail(email)
	if err := domacc.ValidateRegistration(username, email, password); err != nil {
		return domacc.User{}, domacc.Session{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return domacc.User{}, domacc.Session{}, fmt.Errorf("hash password: %w", err)
	}

	u := domacc.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		return domacc.User{}, domacc.Session{}, fmt.Errorf("create user: %w", err)
	}

	sess, err := s.startSession(ctx, u.ID)
	if err != nil {
		return domacc.User{}, domacc.Session{}, err
	}
	return u, sess, nil
}

// Login checks credentials and opens a session. Unknown users and wrong
// passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (domacc.User, domacc.Session, error) {
	u, err := s.repo.UserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domacc.User{}, domacc.Session{}, fmt.Errorf("invalid username or password: %w", domain.ErrUnauthorized)
		}
		return domacc.User{}, domacc.Session{}, fmt.Errorf("find user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return domacc.User{}, domacc.Session{}, fmt.Errorf("invalid username or password: %w", domain.ErrUnauthorized)
	}

	sess, err := s.startSession(ctx, u.ID)
	if err != nil {
		return domacc.User{}, domacc.Session{}, err
	}
	return u, sess, nil
}

// Logout ends a session.
func (s *Service) Logout(ctx context.Context, token string) error {
	if err := s.repo.DeleteSession(ctx, token); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Authenticate resolves a bearer token to its user.
func (s *Service) Authenticate(ctx context.Context, token string) (domacc.User, error) {
	if token == "" {
		return domacc.User{}, fmt.Errorf("missing token: %w", domain.ErrUnauthorized)
	}
	sess, err := s.repo.Session(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domacc.User{}, fmt.Errorf("invalid or expired token: %w", domain.ErrUnauthorized)
		}
		return domacc.User{}, fmt.Errorf("load session: %w", err)
	}
	if sess.Expired(s.now()) {
		_ = s.repo.DeleteSession(ctx, token)
		return domacc.User{}, fmt.Errorf("invalid or expired token: %w", domain.ErrUnauthorized)
	}

	u, err := s.repo.UserByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domacc.User{}, fmt.Errorf("session user gone: %w", domain.ErrUnauthorized)
		}
		return domacc.User{}, fmt.Errorf("load user: %w", err)
	}
	return u, nil
}

func (s *Service) startSession(ctx context.Context, userID string) (domacc.Session, error) {
	token, err := newToken()
	if err != nil {
		return domacc.Session{}, err
	}
	sess := domacc.Session{Token: token, UserID: userID, ExpiresAt: s.now().Add(s.sessionTTL)}
	if err := s.repo.CreateSession(ctx, sess); err != nil {
		return domacc.Session{}, fmt.Errorf("create session: %w", err)
	}
	return sess, nil
}

func newToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
