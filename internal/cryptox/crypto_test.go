package cryptox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKey_DeterministicPerSalt(t *testing.T) {
	k1 := DeriveKey([]byte("pass"), []byte("salt-0123456789a"))
	k2 := DeriveKey([]byte("pass"), []byte("salt-0123456789a"))
	k3 := DeriveKey([]byte("pass"), []byte("salt-0123456789b"))

	require.Len(t, k1, KeySize)
	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
}

func TestSealOpen_RoundTrip(t *testing.T) {
	key := DeriveKey([]byte("pass"), []byte("salt"))

	sealed, err := Seal([]byte("hello"), key)
	require.NoError(t, err)
	assert.NotContains(t, string(sealed), "hello")

	got, err := Open(sealed, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)
}

func TestOpen_WrongKeyFails(t *testing.T) {
	sealed, err := Seal([]byte("hello"), DeriveKey([]byte("a"), []byte("salt")))
	require.NoError(t, err)

	_, err = Open(sealed, DeriveKey([]byte("b"), []byte("salt")))
	require.Error(t, err)
}

func TestOpen_ShortInput(t *testing.T) {
	_, err := Open([]byte{1, 2, 3}, DeriveKey([]byte("a"), []byte("salt")))
	require.ErrorIs(t, err, ErrShortCiphertext)
}

func TestOpen_BadKeyLength(t *testing.T) {
	_, err := Open(make([]byte, 64), []byte("short"))
	require.Error(t, err)
}

func TestSealJSON_OpenJSON(t *testing.T) {
	type payload struct {
		Token string `json:"token"`
		ID    int    `json:"id"`
	}
	key := DeriveKey([]byte("pass"), []byte("salt"))

	sealed, err := SealJSON(payload{Token: "tok", ID: 3}, key)
	require.NoError(t, err)

	var got payload
	require.NoError(t, OpenJSON(sealed, key, &got))
	assert.Equal(t, payload{Token: "tok", ID: 3}, got)
}
