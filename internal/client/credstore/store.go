package credstore

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/dmitrijs2005/storefront/internal/client/models"
	"github.com/dmitrijs2005/storefront/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/cryptox"
	"github.com/dmitrijs2005/storefront/internal/dbx"
	"github.com/google/uuid"
)

const (
	KeyAuthToken     = "auth_token"
	KeyTokenIssuedAt = "token_issued_at"
	KeyUserData      = "user_data"
	KeyLastSyncTime  = "last_sync_time"
	KeySessionSynced = "session_synced"
	KeyClientID      = "client_id"
	KeyTokenSalt     = "token_salt"
)

// sessionKeys are removed on logout; client_id and token_salt survive.
var sessionKeys = []string{KeyAuthToken, KeyTokenIssuedAt, KeyUserData, KeyLastSyncTime, KeySessionSynced}

const saltSize = 16

// sealedPrefix marks an auth_token value encrypted with the passphrase key.
var sealedPrefix = []byte("sealed:")

var (
	ErrNoPassphrase = errors.New("token is sealed but no passphrase is configured")
	ErrEmptyToken   = errors.New("empty token")
)

// Snapshot is everything persisted about the current session.
type Snapshot struct {
	// Credential is nil when no token is stored.
	Credential *models.Credential
	Profile    *models.UserProfile
	LastSync   *time.Time
	Synced     bool
}

// HasSession reports whether both a token and a profile are present.
func (s *Snapshot) HasSession() bool {
	return s != nil && !s.Credential.Empty() && s.Profile != nil
}

type txFunc func(ctx context.Context, fn func(ctx context.Context, repo metadata.Repository) error) error

// Store is the credential store. Use NewSQLite or NewMemory.
type Store struct {
	withTx     txFunc
	passphrase []byte
	now        func() time.Time

	keyMu sync.Mutex
	key   []byte
	salt  []byte
}

// Option customizes a Store.
type Option func(*Store)

// WithPassphrase seals the token at rest with a key derived from passphrase.
func WithPassphrase(passphrase string) Option {
	return func(s *Store) {
		if passphrase != "" {
			s.passphrase = []byte(passphrase)
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewSQLite stores credentials in the metadata table of db.
func NewSQLite(db *sql.DB, opts ...Option) *Store {
	return newStore(func(ctx context.Context, fn func(ctx context.Context, repo metadata.Repository) error) error {
		return dbx.WithTx(ctx, db, func(ctx context.Context, tx dbx.DBTX) error {
			return fn(ctx, metadata.NewSQLiteRepository(tx))
		})
	}, opts...)
}

// NewMemory keeps credentials in repo, which lives only as long as the
// process.
func NewMemory(repo *metadata.MemoryRepository, opts ...Option) *Store {
	return newStore(repo.WithTx, opts...)
}

func newStore(withTx txFunc, opts ...Option) *Store {
	s := &Store{withTx: withTx, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Load reads the persisted session. A missing token yields a Snapshot with a
// nil Credential, not an error.
func (s *Store) Load(ctx context.Context) (*Snapshot, error) {
	var values map[string][]byte
	err := s.withTx(ctx, func(ctx context.Context, repo metadata.Repository) error {
		var err error
		values, err = repo.List(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("load credentials: %w", err)
	}

	snap := &Snapshot{}

	if raw := values[KeyAuthToken]; len(raw) > 0 {
		token, err := s.openToken(raw, values[KeyTokenSalt])
		if err != nil {
			return nil, fmt.Errorf("load credentials: %w", err)
		}
		cred := credentialFromToken(token, s.now())
		if ts, ok := values[KeyTokenIssuedAt]; ok {
			if t, err := time.Parse(time.RFC3339Nano, string(ts)); err == nil {
				cred.IssuedAt = t
			}
		}
		snap.Credential = cred
	}

	if raw := values[KeyUserData]; len(raw) > 0 {
		var p models.UserProfile
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("load credentials: decode %s: %w", KeyUserData, err)
		}
		snap.Profile = &p
	}

	if raw := values[KeyLastSyncTime]; len(raw) > 0 {
		ms, err := strconv.ParseInt(string(raw), 10, 64)
		if err == nil && ms > 0 {
			t := time.UnixMilli(ms)
			snap.LastSync = &t
		}
	}

	snap.Synced = string(values[KeySessionSynced]) == "true"
	return snap, nil
}

// SaveLogin replaces the stored session with token and profile in one
// transaction and resets the sync bookkeeping.
func (s *Store) SaveLogin(ctx context.Context, token string, profile *models.UserProfile) (*models.Credential, error) {
	if token == "" {
		return nil, ErrEmptyToken
	}
	userData, err := json.Marshal(profile)
	if err != nil {
		return nil, fmt.Errorf("encode profile: %w", err)
	}

	cred := credentialFromToken(token, s.now())

	err = s.withTx(ctx, func(ctx context.Context, repo metadata.Repository) error {
		stored, err := s.sealToken(ctx, repo, token)
		if err != nil {
			return err
		}
		if err := repo.Delete(ctx, KeyLastSyncTime, KeySessionSynced); err != nil {
			return err
		}
		if err := repo.Set(ctx, KeyAuthToken, stored); err != nil {
			return err
		}
		if err := repo.Set(ctx, KeyTokenIssuedAt, []byte(cred.IssuedAt.Format(time.RFC3339Nano))); err != nil {
			return err
		}
		return repo.Set(ctx, KeyUserData, userData)
	})
	if err != nil {
		return nil, fmt.Errorf("save login: %w", err)
	}
	return cred, nil
}

// SaveProfile replaces the cached profile.
func (s *Store) SaveProfile(ctx context.Context, profile *models.UserProfile) error {
	userData, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	err = s.withTx(ctx, func(ctx context.Context, repo metadata.Repository) error {
		return repo.Set(ctx, KeyUserData, userData)
	})
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// MarkSynced records a successful sync at the given time, together with the
// merged profile when it is not nil.
func (s *Store) MarkSynced(ctx context.Context, at time.Time, profile *models.UserProfile) error {
	var userData []byte
	if profile != nil {
		var err error
		if userData, err = json.Marshal(profile); err != nil {
			return fmt.Errorf("encode profile: %w", err)
		}
	}

	err := s.withTx(ctx, func(ctx context.Context, repo metadata.Repository) error {
		if err := repo.Set(ctx, KeyLastSyncTime, []byte(strconv.FormatInt(at.UnixMilli(), 10))); err != nil {
			return err
		}
		if err := repo.Set(ctx, KeySessionSynced, []byte("true")); err != nil {
			return err
		}
		if userData != nil {
			return repo.Set(ctx, KeyUserData, userData)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("mark synced: %w", err)
	}
	return nil
}

// Clear removes the session. The install's client_id and salt are kept.
func (s *Store) Clear(ctx context.Context) error {
	err := s.withTx(ctx, func(ctx context.Context, repo metadata.Repository) error {
		return repo.Delete(ctx, sessionKeys...)
	})
	if err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}

// ClientID returns the per-install identifier, creating it on first use.
func (s *Store) ClientID(ctx context.Context) (string, error) {
	var id string
	err := s.withTx(ctx, func(ctx context.Context, repo metadata.Repository) error {
		v, err := repo.Get(ctx, KeyClientID)
		if err == nil && len(v) > 0 {
			id = string(v)
			return nil
		}
		if err != nil && !errors.Is(err, common.ErrNotFound) {
			return err
		}
		id = uuid.NewString()
		return repo.Set(ctx, KeyClientID, []byte(id))
	})
	if err != nil {
		return "", fmt.Errorf("client id: %w", err)
	}
	return id, nil
}

func (s *Store) sealToken(ctx context.Context, repo metadata.Repository, token string) ([]byte, error) {
	if s.passphrase == nil {
		return []byte(token), nil
	}

	salt, err := repo.Get(ctx, KeyTokenSalt)
	if errors.Is(err, common.ErrNotFound) || (err == nil && len(salt) == 0) {
		salt = common.GenerateRandByteArray(saltSize)
		if err := repo.Set(ctx, KeyTokenSalt, salt); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	sealed, err := cryptox.Seal([]byte(token), s.deriveKey(salt))
	if err != nil {
		return nil, fmt.Errorf("seal token: %w", err)
	}
	return append(append([]byte{}, sealedPrefix...), sealed...), nil
}

func (s *Store) openToken(raw, salt []byte) (string, error) {
	if !bytes.HasPrefix(raw, sealedPrefix) {
		return string(raw), nil
	}
	if s.passphrase == nil {
		return "", ErrNoPassphrase
	}
	plain, err := cryptox.Open(raw[len(sealedPrefix):], s.deriveKey(salt))
	if err != nil {
		return "", fmt.Errorf("open token: %w", err)
	}
	return string(plain), nil
}

// deriveKey caches the Argon2id result per salt.
func (s *Store) deriveKey(salt []byte) []byte {
	s.keyMu.Lock()
	defer s.keyMu.Unlock()

	if s.key != nil && bytes.Equal(s.salt, salt) {
		return s.key
	}
	s.key = cryptox.DeriveKey(s.passphrase, salt)
	s.salt = append([]byte(nil), salt...)
	return s.key
}
