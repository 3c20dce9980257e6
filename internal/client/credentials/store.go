// Package credentials persists the signed-in identity and its session token.
package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/beefboard/boardclient/internal/client/models"
	"github.com/beefboard/boardclient/internal/client/repositories/metadata"
	"github.com/beefboard/boardclient/internal/cryptox"
)

// Storage keys.
const (
	TokenKey    = "token"
	IdentityKey = "user_auth"
	SaltKey     = "credentials_salt"
)

// Store keeps the identity and token in a key/value repository. With a
// secret, both values are sealed at rest.
//
// Store does no locking of its own; the auth coordinator serializes access.
type Store struct {
	kv     metadata.Repository
	secret []byte
	key    []byte
}

// New returns a store over kv. An empty secret stores values in clear.
func New(kv metadata.Repository, secret string) *Store {
	s := &Store{kv: kv}
	if secret != "" {
		s.secret = []byte(secret)
	}
	return s
}

// Load returns the cached identity, or nil when there is none. An identity
// that can no longer be decoded is treated as absent.
func (s *Store) Load(ctx context.Context) (*models.User, error) {
	b, err := s.get(ctx, IdentityKey)
	if err != nil || b == nil {
		return nil, err
	}

	var u models.User
	if err := json.Unmarshal(b, &u); err != nil {
		return nil, nil
	}
	return &u, nil
}

// Save persists u. A nil u clears both the identity and the token.
func (s *Store) Save(ctx context.Context, u *models.User) error {
	if u == nil {
		return errors.Join(
			s.kv.Delete(ctx, IdentityKey),
			s.kv.Delete(ctx, TokenKey),
		)
	}

	b, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}
	return s.put(ctx, IdentityKey, b)
}

func (s *Store) HasToken(ctx context.Context) bool {
	t, err := s.Token(ctx)
	return err == nil && t != ""
}

func (s *Store) Token(ctx context.Context) (string, error) {
	b, err := s.get(ctx, TokenKey)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (s *Store) SetToken(ctx context.Context, token string) error {
	if token == "" {
		return s.ClearToken(ctx)
	}
	return s.put(ctx, TokenKey, []byte(token))
}

func (s *Store) ClearToken(ctx context.Context) error {
	return s.kv.Delete(ctx, TokenKey)
}

// TokenExpiry reports the exp claim when the stored token happens to be a
// JWT. The signature is not checked; the result is informational only.
func (s *Store) TokenExpiry(ctx context.Context) (time.Time, bool) {
	token, err := s.Token(ctx)
	if err != nil || token == "" {
		return time.Time{}, false
	}

	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

func (s *Store) get(ctx context.Context, key string) ([]byte, error) {
	b, err := s.kv.Get(ctx, key)
	if err != nil || b == nil || s.secret == nil {
		return b, err
	}

	k, err := s.sealKey(ctx)
	if err != nil {
		return nil, err
	}
	plain, err := cryptox.Open(k, b)
	if err != nil {
		// sealed under another secret, or written in clear
		return nil, nil
	}
	return plain, nil
}

func (s *Store) put(ctx context.Context, key string, value []byte) error {
	if s.secret != nil {
		k, err := s.sealKey(ctx)
		if err != nil {
			return err
		}
		if value, err = cryptox.Seal(k, value); err != nil {
			return fmt.Errorf("seal %s: %w", key, err)
		}
	}
	return s.kv.Set(ctx, key, value)
}

// sealKey derives the sealing key once, creating the salt on first use.
func (s *Store) sealKey(ctx context.Context) ([]byte, error) {
	if s.key != nil {
		return s.key, nil
	}

	salt, err := s.kv.Get(ctx, SaltKey)
	if err != nil {
		return nil, err
	}
	if salt == nil {
		if salt, err = cryptox.NewSalt(); err != nil {
			return nil, fmt.Errorf("generate salt: %w", err)
		}
		if err := s.kv.Set(ctx, SaltKey, salt); err != nil {
			return nil, err
		}
	}

	s.key = cryptox.DeriveKey(s.secret, salt)
	return s.key, nil
}
