package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mjovanc/codesnippets/internal/models"
	"github.com/mjovanc/codesnippets/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// sessionTTL bounds both the cookie max age and the server-side record.
const sessionTTL = 24 * time.Hour

var ErrInvalidSessionToken = errors.New("invalid session token")

// SessionService manages server-side session records. The cookie value handed
// to clients is an HS256-signed token whose subject is the session id, so a
// tampered cookie never reaches the store.
type SessionService struct {
	sessions   repository.Sessions
	signingKey []byte
}

func NewSessionService(sessions repository.Sessions, signingKey string) *SessionService {
	return &SessionService{sessions: sessions, signingKey: []byte(signingKey)}
}

// TTL returns the session lifetime shared by cookie and record.
func (s *SessionService) TTL() time.Duration {
	return sessionTTL
}

// Issue creates a fresh anonymous session and returns it with its signed
// cookie token.
func (s *SessionService) Issue(ctx context.Context) (models.Session, string, error) {
	now := time.Now().UTC()
	sess := models.Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: now.Add(sessionTTL),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return models.Session{}, "", err
	}
	token, err := s.signToken(sess.ID, sess.ExpiresAt, now)
	if err != nil {
		return models.Session{}, "", err
	}
	return sess, token, nil
}

// Resolve verifies a cookie token and loads the session it points at.
// Returns (nil, nil) for a token that is expired, tampered with, or whose
// record is gone — an absent session, not a failure.
func (s *SessionService) Resolve(ctx context.Context, token string) (*models.Session, error) {
	id, err := s.parseToken(token)
	if err != nil {
		return nil, nil
	}
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess == nil || !sess.ExpiresAt.After(time.Now().UTC()) {
		return nil, nil
	}
	return sess, nil
}

// Regenerate is the session-fixation defense on login: a brand-new id is
// issued, only the old session's transient flash is carried forward, the
// authenticated username is attached, and the old record is deleted.
func (s *SessionService) Regenerate(ctx context.Context, old models.Session, username string) (models.Session, string, error) {
	now := time.Now().UTC()
	sess := models.Session{
		ID:        uuid.NewString(),
		Username:  username,
		Flash:     old.Flash,
		CreatedAt: now,
		ExpiresAt: now.Add(sessionTTL),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return models.Session{}, "", err
	}
	if old.ID != "" {
		if err := s.sessions.Delete(ctx, old.ID); err != nil {
			return models.Session{}, "", err
		}
	}
	token, err := s.signToken(sess.ID, sess.ExpiresAt, now)
	if err != nil {
		return models.Session{}, "", err
	}
	return sess, token, nil
}

// Destroy removes a session record (logout).
func (s *SessionService) Destroy(ctx context.Context, id string) error {
	return s.sessions.Delete(ctx, id)
}

// SetFlash attaches a one-shot message to the session.
func (s *SessionService) SetFlash(ctx context.Context, sess *models.Session, f models.Flash) error {
	sess.Flash = &f
	return s.sessions.Update(ctx, *sess)
}

// TakeFlash returns the pending flash, if any, and clears it in the same
// step so it survives exactly one round trip.
func (s *SessionService) TakeFlash(ctx context.Context, sess *models.Session) (*models.Flash, error) {
	if sess.Flash == nil {
		return nil, nil
	}
	f := sess.Flash
	sess.Flash = nil
	if err := s.sessions.Update(ctx, *sess); err != nil {
		return nil, err
	}
	return f, nil
}

// Sweep deletes expired session rows every tick until ctx is cancelled.
// Errors are swallowed; the next tick retries.
func (s *SessionService) Sweep(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			_, _ = s.sessions.DeleteExpired(ctx, time.Now().UTC())
		}
	}
}

// helper: sign a session id into the cookie token
func (s *SessionService) signToken(id string, expiresAt, issuedAt time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   id,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(issuedAt),
	})
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// helper: parse and verify a cookie token, returning the session id
func (s *SessionService) parseToken(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", ErrInvalidSessionToken
	}
	return claims.Subject, nil
}
