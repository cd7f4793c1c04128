package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pickteum-api/internal/cache"
	"github.com/pickteum-api/internal/config"
	"github.com/pickteum-api/internal/models"
	"github.com/rs/zerolog"
)

const sessionKeyPrefix = "session:"

// sessionService issues admin sessions against the configured credentials
type sessionService struct {
	kv  cache.Store
	cfg *config.AdminConfig
	now func() time.Time
	log zerolog.Logger
}

// newSessionService creates a new SessionService
func newSessionService(kv cache.Store, cfg *config.AdminConfig, now func() time.Time, log zerolog.Logger) *sessionService {
	return &sessionService{
		kv:  kv,
		cfg: cfg,
		now: now,
		log: log.With().Str("service", "session").Logger(),
	}
}

// Login checks the credentials and stores a new session
func (s *sessionService) Login(ctx context.Context, username, password string) (*models.Session, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.Password)) == 1
	if !userOK || !passOK {
		s.log.Warn().Str("username", username).Msg("Rejected admin login")
		return nil, ErrUnauthorized
	}

	token, err := newToken()
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	session := &models.Session{
		Token:     token,
		Username:  username,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.SessionTTL),
	}

	data, err := json.Marshal(session)
	if err != nil {
		return nil, err
	}
	if err := s.kv.Set(ctx, sessionKeyPrefix+token, data, s.cfg.SessionTTL); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	s.log.Info().Str("username", username).Time("expires_at", session.ExpiresAt).Msg("Admin logged in")
	return session, nil
}

// Get loads a live session by token
func (s *sessionService) Get(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}

	data, ok, err := s.kv.Get(ctx, sessionKeyPrefix+token)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if !ok {
		return nil, ErrUnauthorized
	}

	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, ErrUnauthorized
	}
	if !s.now().Before(session.ExpiresAt) {
		return nil, ErrUnauthorized
	}
	return &session, nil
}

// Logout deletes the session
func (s *sessionService) Logout(ctx context.Context, token string) error {
	return s.kv.Delete(ctx, sessionKeyPrefix+token)
}

// newToken returns 256 random bits, base64url encoded
func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
