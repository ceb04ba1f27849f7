package credstore

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/penguintracker/internal/client/models"
	"github.com/dmitrijs2005/penguintracker/internal/common"
	"github.com/dmitrijs2005/penguintracker/internal/cryptox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE metadata (key TEXT PRIMARY KEY, value BLOB NOT NULL);`)
	require.NoError(t, err)
	return db
}

func testKey() []byte {
	return cryptox.DeriveKey([]byte("device"), []byte("salt"))
}

func rawValue(t *testing.T, db *sql.DB, key string) []byte {
	t.Helper()
	var v []byte
	err := db.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&v)
	if err == sql.ErrNoRows {
		return nil
	}
	require.NoError(t, err)
	return v
}

func TestSecureStore_LoadEmpty(t *testing.T) {
	s := NewSecureStore(setupDB(t), testKey())

	creds, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, creds)
}

func TestSecureStore_SaveLoadRoundTrip(t *testing.T) {
	db := setupDB(t)
	s := NewSecureStore(db, testKey())
	ctx := context.Background()

	want := models.Credentials{Email: "john@doe.com", Password: "password123"}
	require.NoError(t, s.Save(ctx, want))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)
}

func TestSecureStore_ValuesAreEncryptedAtRest(t *testing.T) {
	db := setupDB(t)
	s := NewSecureStore(db, testKey())
	require.NoError(t, s.Save(context.Background(), models.Credentials{Email: "john@doe.com", Password: "password123"}))

	email := rawValue(t, db, common.CredentialEmailKey)
	password := rawValue(t, db, common.CredentialPasswordKey)
	require.NotNil(t, email)
	require.NotNil(t, password)
	assert.NotContains(t, string(email), "john@doe.com")
	assert.NotContains(t, string(password), "password123")
}

func TestSecureStore_SaveOverwrites(t *testing.T) {
	s := NewSecureStore(setupDB(t), testKey())
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, models.Credentials{Email: "a@b.c", Password: "old-password"}))
	require.NoError(t, s.Save(ctx, models.Credentials{Email: "a@b.c", Password: "new-password"}))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new-password", got.Password)
}

func TestSecureStore_Clear(t *testing.T) {
	db := setupDB(t)
	s := NewSecureStore(db, testKey())
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, models.Credentials{Email: "a@b.c", Password: "password123"}))
	require.NoError(t, s.Clear(ctx))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Nil(t, rawValue(t, db, common.CredentialEmailKey))

	require.NoError(t, s.Clear(ctx), "clearing an empty store is fine")
}

func TestSecureStore_HalfPairIsTreatedAsEmpty(t *testing.T) {
	db := setupDB(t)
	s := NewSecureStore(db, testKey())
	ctx := context.Background()

	sealed, err := cryptox.Seal([]byte("a@b.c"), testKey())
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO metadata(key, value) VALUES (?, ?)`, common.CredentialEmailKey, sealed)
	require.NoError(t, err)

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSecureStore_WrongKeyFailsToLoad(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	require.NoError(t, NewSecureStore(db, testKey()).Save(ctx, models.Credentials{Email: "a@b.c", Password: "password123"}))

	other := NewSecureStore(db, cryptox.DeriveKey([]byte("another-device"), []byte("salt")))
	_, err := other.Load(ctx)
	require.ErrorContains(t, err, "decrypt")
}

func TestSecureStore_ClosedDB(t *testing.T) {
	db := setupDB(t)
	s := NewSecureStore(db, testKey())
	require.NoError(t, db.Close())

	_, err := s.Load(context.Background())
	require.Error(t, err)
	require.Error(t, s.Save(context.Background(), models.Credentials{Email: "a", Password: "b"}))
	require.Error(t, s.Clear(context.Background()))
}

func TestDeviceKey_StableAcrossCalls(t *testing.T) {
	dir := t.TempDir()

	k1, err := DeviceKey(dir)
	require.NoError(t, err)
	k2, err := DeviceKey(dir)
	require.NoError(t, err)

	assert.Len(t, k1, cryptox.KeySize)
	assert.Equal(t, k1, k2)

	fi, err := os.Stat(filepath.Join(dir, DeviceKeyFile))
	require.NoError(t, err)
	assert.EqualValues(t, deviceSecretSize, fi.Size())
}

func TestDeviceKey_DiffersPerDevice(t *testing.T) {
	k1, err := DeviceKey(t.TempDir())
	require.NoError(t, err)
	k2, err := DeviceKey(t.TempDir())
	require.NoError(t, err)
	assert.NotEqual(t, k1, k2)
}
