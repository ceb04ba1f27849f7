// Package credstore is the client's credential store: two string secrets
// (email and password) kept encrypted in the local metadata table.
package credstore

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/dmitrijs2005/penguintracker/internal/client/models"
	"github.com/dmitrijs2005/penguintracker/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/penguintracker/internal/common"
	"github.com/dmitrijs2005/penguintracker/internal/cryptox"
	"github.com/dmitrijs2005/penguintracker/internal/dbx"
	"github.com/dmitrijs2005/penguintracker/internal/filex"
)

// DeviceKeyFile holds the random per-installation secret the storage key is
// derived from. It lives next to the database.
const DeviceKeyFile = "device.key"

const deviceSecretSize = 32

var keySalt = []byte("penguintracker/credstore/v1")

// Store persists the credentials used for silent re-authentication.
type Store interface {
	// Load returns (nil, nil) when no complete credential pair is stored.
	Load(ctx context.Context) (*models.Credentials, error)
	Save(ctx context.Context, creds models.Credentials) error
	Clear(ctx context.Context) error
}

// SecureStore implements Store over the metadata table, sealing each value
// with AES-GCM under a device-bound key.
type SecureStore struct {
	db  *sql.DB
	key []byte
}

// NewSecureStore binds the store to db. key must be a valid AES key, usually
// the result of DeviceKey.
func NewSecureStore(db *sql.DB, key []byte) *SecureStore {
	return &SecureStore{db: db, key: key}
}

// DeviceKey loads (or creates on first run) the device secret in dataDir and
// derives the storage key from it.
func DeviceKey(dataDir string) ([]byte, error) {
	secret, err := filex.ReadOrCreateSecret(filepath.Join(dataDir, DeviceKeyFile), func() []byte {
		return common.GenerateRandByteArray(deviceSecretSize)
	})
	if err != nil {
		return nil, fmt.Errorf("device key: %w", err)
	}
	defer common.WipeByteArray(secret)

	return cryptox.DeriveKey(secret, keySalt), nil
}

func (s *SecureStore) repo(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db)
}

func (s *SecureStore) Load(ctx context.Context) (*models.Credentials, error) {
	repo := s.repo(s.db)

	email, err := s.read(ctx, repo, common.CredentialEmailKey)
	if err != nil {
		return nil, err
	}
	password, err := s.read(ctx, repo, common.CredentialPasswordKey)
	if err != nil {
		return nil, err
	}
	if email == "" || password == "" {
		return nil, nil
	}

	return &models.Credentials{Email: email, Password: password}, nil
}

func (s *SecureStore) read(ctx context.Context, repo metadata.Repository, key string) (string, error) {
	sealed, err := repo.Get(ctx, key)
	if err != nil {
		return "", err
	}
	if sealed == nil {
		return "", nil
	}
	plain, err := cryptox.Open(sealed, s.key)
	if err != nil {
		return "", fmt.Errorf("decrypt %s: %w", key, err)
	}
	return string(plain), nil
}

// Save writes both secrets in one transaction, so a crash never leaves a
// half-written pair behind.
func (s *SecureStore) Save(ctx context.Context, creds models.Credentials) error {
	email, err := cryptox.Seal([]byte(creds.Email), s.key)
	if err != nil {
		return fmt.Errorf("encrypt email: %w", err)
	}
	password, err := cryptox.Seal([]byte(creds.Password), s.key)
	if err != nil {
		return fmt.Errorf("encrypt password: %w", err)
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo(tx)
		if err := repo.Set(ctx, common.CredentialEmailKey, email); err != nil {
			return err
		}
		return repo.Set(ctx, common.CredentialPasswordKey, password)
	})
}

// Clear deletes both secrets. Each key is attempted even if the other fails;
// the first error is returned.
func (s *SecureStore) Clear(ctx context.Context) error {
	repo := s.repo(s.db)

	var first error
	for _, key := range []string{common.CredentialEmailKey, common.CredentialPasswordKey} {
		if err := repo.Delete(ctx, key); err != nil && first == nil {
			first = err
		}
	}
	return first
}
