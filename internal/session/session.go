// Package session keeps the admin credential and the guest submission lock
// in the client state store.
package session

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"wedding-rsvp/internal/storage"
)

// Storage keys
const (
	AuthKey = "weds_auth"
	LockKey = "weds_rsvp_session"
)

// ErrNoCredentials is returned by Verify when nothing is stored.
var ErrNoCredentials = errors.New("no stored credentials")

// Prober checks a Basic-Auth header against the backend health endpoint.
// A nil error means authorized.
type Prober interface {
	Health(ctx context.Context, authHeader string) error
}

// Session is the admin auth session backed by a store
type Session struct {
	store  storage.Store
	prober Prober
	log    zerolog.Logger
}

// New creates a session. The prober may be nil when only header access
// is needed.
func New(store storage.Store, prober Prober, log zerolog.Logger) *Session {
	return &Session{
		store:  store,
		prober: prober,
		log:    log.With().Str("component", "session").Logger(),
	}
}

// EncodeBasic returns the base64 token for user:pass
func EncodeBasic(user, pass string) string {
	return base64.StdEncoding.EncodeToString([]byte(user + ":" + pass))
}

// BasicHeader returns "Basic <token>" for user:pass
func BasicHeader(user, pass string) string {
	return "Basic " + EncodeBasic(user, pass)
}

// SetAuth persists the encoded credential
func (s *Session) SetAuth(user, pass string) error {
	if err := s.store.Set(AuthKey, EncodeBasic(user, pass)); err != nil {
		return fmt.Errorf("failed to store credentials: %w", err)
	}
	return nil
}

// AuthHeader returns "Basic <token>", or false when no credential is stored
func (s *Session) AuthHeader() (string, bool) {
	token, ok, err := s.store.Get(AuthKey)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to read credentials")
		return "", false
	}
	if !ok || token == "" {
		return "", false
	}
	return "Basic " + token, true
}

// CheckAuth probes the health endpoint with the stored header. Missing
// credentials, rejected credentials and an unreachable backend all
// report false; use Verify to tell them apart.
func (s *Session) CheckAuth(ctx context.Context) bool {
	return s.Verify(ctx) == nil
}

// Verify is CheckAuth with the reason kept: ErrNoCredentials, the
// prober's authorization error, or a transport error.
func (s *Session) Verify(ctx context.Context) error {
	header, ok := s.AuthHeader()
	if !ok {
		return ErrNoCredentials
	}
	if s.prober == nil {
		return errors.New("no health prober configured")
	}
	if err := s.prober.Health(ctx, header); err != nil {
		s.log.Debug().Err(err).Msg("Auth probe failed")
		return err
	}
	return nil
}

// ClearAuth erases the stored credential
func (s *Session) ClearAuth() error {
	if err := s.store.Delete(AuthKey); err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}
	return nil
}
