package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	rawKey = "0123456789abcdef0123456789abcdef" // 32 raw bytes, also valid hex
	hexKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	for _, key := range []string{rawKey, hexKey} {
		encrypted, err := Encrypt("lead@example.com", key)
		require.NoError(t, err)
		assert.NotEqual(t, "lead@example.com", encrypted)

		decrypted, err := Decrypt(encrypted, key)
		require.NoError(t, err)
		assert.Equal(t, "lead@example.com", decrypted)
	}
}

func TestEncryptProducesFreshNonces(t *testing.T) {
	first, err := Encrypt("same plaintext", rawKey)
	require.NoError(t, err)
	second, err := Encrypt("same plaintext", rawKey)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestDecryptWrongKey(t *testing.T) {
	encrypted, err := Encrypt("secret", rawKey)
	require.NoError(t, err)

	_, err = Decrypt(encrypted, hexKey)
	assert.Error(t, err)
}

func TestDecryptRejectsGarbage(t *testing.T) {
	_, err := Decrypt("not base64 !!!", rawKey)
	assert.Error(t, err)

	_, err = Decrypt("c2hvcnQ=", rawKey) // valid base64, too short for a nonce
	assert.Error(t, err)
}

func TestEncryptRejectsBadKeys(t *testing.T) {
	_, err := Encrypt("data", "")
	assert.Error(t, err)

	_, err = Encrypt("data", "short-key")
	assert.Error(t, err)
}

func TestGenerateSecureKey(t *testing.T) {
	key, err := GenerateSecureKey(32)
	require.NoError(t, err)
	assert.Len(t, key, 64) // hex-encoded
}
