package cryptox

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKey_Deterministic(t *testing.T) {
	secret := []byte("device-secret")
	salt := []byte("fixed-salt")

	key1 := DeriveKey(secret, salt)
	key2 := DeriveKey(secret, salt)

	require.Len(t, key1, KeySize)
	assert.Equal(t, key1, key2)
}

func TestDeriveKey_DifferentSalts(t *testing.T) {
	secret := []byte("device-secret")

	key1 := DeriveKey(secret, []byte("salt-1"))
	key2 := DeriveKey(secret, []byte("salt-2"))

	assert.False(t, bytes.Equal(key1, key2), "different salts must give different keys")
}

func TestSealOpen_RoundTrip(t *testing.T) {
	key := DeriveKey([]byte("k"), []byte("s"))

	sealed, err := Seal([]byte("john@doe.com"), key)
	require.NoError(t, err)
	assert.NotContains(t, string(sealed), "john@doe.com")

	plain, err := Open(sealed, key)
	require.NoError(t, err)
	assert.Equal(t, "john@doe.com", string(plain))
}

func TestSeal_FreshNoncePerCall(t *testing.T) {
	key := DeriveKey([]byte("k"), []byte("s"))

	a, err := Seal([]byte("same"), key)
	require.NoError(t, err)
	b, err := Seal([]byte("same"), key)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestOpen_WrongKeyFails(t *testing.T) {
	sealed, err := Seal([]byte("password123"), DeriveKey([]byte("a"), []byte("s")))
	require.NoError(t, err)

	_, err = Open(sealed, DeriveKey([]byte("b"), []byte("s")))
	require.Error(t, err)
}

func TestOpen_TamperedFails(t *testing.T) {
	key := DeriveKey([]byte("k"), []byte("s"))
	sealed, err := Seal([]byte("password123"), key)
	require.NoError(t, err)

	sealed[len(sealed)-1] ^= 0xFF
	_, err = Open(sealed, key)
	require.Error(t, err)
}

func TestOpen_TooShort(t *testing.T) {
	_, err := Open([]byte{1, 2, 3}, DeriveKey([]byte("k"), []byte("s")))
	require.ErrorIs(t, err, ErrCiphertextTooShort)
}

func TestSeal_BadKeyLength(t *testing.T) {
	_, err := Seal([]byte("x"), []byte("short"))
	require.Error(t, err)
}
