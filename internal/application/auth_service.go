package application

import (
	"context"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/sirupsen/logrus"

	"github.com/leadpilot/auth-service/internal/domain/entity"
	repo "github.com/leadpilot/auth-service/internal/domain/repository"
	"github.com/leadpilot/auth-service/pkg/helpers"
)

const (
	defaultSessionTTL = 30 * 24 * time.Hour
	defaultCacheTTL   = 5 * time.Minute
)

// Service wires the repositories, cache, and token/password services into
// the five auth use cases. All dependencies are passed in explicitly at
// construction; there is no ambient lookup.
type Service struct {
	Users       repo.UserRepository
	Credentials repo.CredentialRepository
	Sessions    repo.SessionRepository
	Cache       repo.SessionCache
	Hasher      *helpers.PasswordHasher
	Tokens      *helpers.TokenIssuer
	Logger      *logrus.Logger

	// Optional collaborators; nil disables the feature.
	Pub          *helpers.RabbitPublisher
	GCS          *storage.Client
	GCSBucket    string
	ES           *elasticsearch.Client
	ESUsersIndex string

	SessionTTL time.Duration
	CacheTTL   time.Duration
}

// Options carries the optional collaborators for NewService.
type Options struct {
	Pub          *helpers.RabbitPublisher
	GCS          *storage.Client
	GCSBucket    string
	ES           *elasticsearch.Client
	ESUsersIndex string
	SessionTTL   time.Duration
	CacheTTL     time.Duration
}

func NewService(
	users repo.UserRepository,
	creds repo.CredentialRepository,
	sessions repo.SessionRepository,
	cache repo.SessionCache,
	hasher *helpers.PasswordHasher,
	tokens *helpers.TokenIssuer,
	logger *logrus.Logger,
	opts Options,
) *Service {
	s := &Service{
		Users:        users,
		Credentials:  creds,
		Sessions:     sessions,
		Cache:        cache,
		Hasher:       hasher,
		Tokens:       tokens,
		Logger:       logger,
		Pub:          opts.Pub,
		GCS:          opts.GCS,
		GCSBucket:    opts.GCSBucket,
		ES:           opts.ES,
		ESUsersIndex: opts.ESUsersIndex,
		SessionTTL:   opts.SessionTTL,
		CacheTTL:     opts.CacheTTL,
	}
	if s.SessionTTL == 0 {
		s.SessionTTL = defaultSessionTTL
	}
	if s.CacheTTL == 0 {
		s.CacheTTL = defaultCacheTTL
	}
	return s
}

// AuthResult is returned by every login-shaped use case.
type AuthResult struct {
	User    *entity.User
	Session *entity.Session
	Token   string
}

// OAuthResult adds IsNewUser so callers can branch onboarding UX.
type OAuthResult struct {
	AuthResult
	IsNewUser bool
}

// VerifyResult is returned by VerifySession on the hot path.
type VerifyResult struct {
	User    *entity.User
	Session *entity.Session
	IsValid bool
}

// ClientMeta is the optional request metadata recorded on sessions.
type ClientMeta struct {
	IPAddress string
	UserAgent string
}

func sessionKey(sessionID string) string { return "session:" + sessionID }
func userKey(userID string) string       { return "user:" + userID }

// normalizeEmail lowercases and trims so the one-user-per-email invariant
// holds case-insensitively.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// createSession mints a durable session plus its bearer token and primes
// the cache. Shared by registration and both login flows.
func (s *Service) createSession(ctx context.Context, u *entity.User, meta ClientMeta) (*entity.Session, string, error) {
	token, err := s.Tokens.GenerateSessionToken()
	if err != nil {
		return nil, "", err
	}
	now := time.Now().UTC()
	sess := &entity.Session{
		ID:        s.Tokens.GenerateSecureID(),
		UserID:    u.ID,
		Token:     token,
		ExpiresAt: now.Add(s.SessionTTL),
		CreatedAt: now,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
	}
	if err := s.Sessions.Create(ctx, sess); err != nil {
		return nil, "", err
	}
	bearer, _, err := s.Tokens.GenerateJWT(u.ID, u.Email, sess.ID)
	if err != nil {
		return nil, "", err
	}
	s.cacheSession(ctx, u, sess)
	return sess, bearer, nil
}

func (s *Service) cacheSession(ctx context.Context, u *entity.User, sess *entity.Session) {
	entry := &entity.CachedSession{
		SessionID: sess.ID,
		UserID:    u.ID,
		Email:     u.Email,
		Name:      u.Name,
		AvatarURL: u.AvatarURL,
		ExpiresAt: sess.ExpiresAt,
		CreatedAt: sess.CreatedAt,
	}
	for _, key := range []string{sessionKey(sess.ID), userKey(u.ID)} {
		if err := s.Cache.Set(ctx, key, entry, s.CacheTTL); err != nil {
			s.Logger.WithError(err).WithField("key", key).Warn("session cache set failed")
		}
	}
}

func (s *Service) dropCachedSession(ctx context.Context, sessionID, userID string) {
	if err := s.Cache.Delete(ctx, sessionKey(sessionID), userKey(userID)); err != nil {
		s.Logger.WithError(err).WithField("session_id", sessionID).Warn("session cache delete failed")
	}
}
