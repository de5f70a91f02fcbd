package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key := []byte("0123456789abcdef0123456789abcdef")

	sealed, err := Encrypt(key, []byte("JBSWY3DPEHPK3PXP"))
	require.NoError(t, err)
	assert.NotContains(t, sealed, "JBSWY3DPEHPK3PXP")

	plain, err := Decrypt(key, sealed)
	require.NoError(t, err)
	assert.Equal(t, "JBSWY3DPEHPK3PXP", string(plain))
}

func TestEncryptRejectsShortKey(t *testing.T) {
	_, err := Encrypt([]byte("too-short"), []byte("data"))
	assert.Error(t, err)
}

func TestDecryptRejectsTampering(t *testing.T) {
	key := []byte("0123456789abcdef0123456789abcdef")
	otherKey := []byte("fedcba9876543210fedcba9876543210")

	sealed, err := Encrypt(key, []byte("payload"))
	require.NoError(t, err)

	_, err = Decrypt(otherKey, sealed)
	assert.Error(t, err)

	_, err = Decrypt(key, "not-base64!!")
	assert.Error(t, err)
}
