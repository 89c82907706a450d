package secretbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealOpenRoundTrip(t *testing.T) {
	box, err := NewFromPassphrase("a-very-long-passphrase-for-tests")
	require.NoError(t, err)

	sealed, err := box.Seal("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", sealed)
	assert.NotContains(t, sealed, "hunter2")

	plain, err := box.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", plain)
}

func TestSealIsNonDeterministic(t *testing.T) {
	box, err := NewFromPassphrase("a-very-long-passphrase-for-tests")
	require.NoError(t, err)

	a, err := box.Seal("token")
	require.NoError(t, err)
	b, err := box.Seal("token")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestOpenRejectsWrongKey(t *testing.T) {
	box1, err := NewFromPassphrase("passphrase-one")
	require.NoError(t, err)
	box2, err := NewFromPassphrase("passphrase-two")
	require.NoError(t, err)

	sealed, err := box1.Seal("secret")
	require.NoError(t, err)

	_, err = box2.Open(sealed)
	assert.ErrorIs(t, err, ErrDecrypt)
}

func TestOpenRejectsGarbage(t *testing.T) {
	box, err := NewFromPassphrase("passphrase")
	require.NoError(t, err)

	for _, in := range []string{"not base64!!", "YWJj", "AAAA"} {
		_, err := box.Open(in)
		assert.ErrorIs(t, err, ErrDecrypt, "input %q", in)
	}
}

func TestEmptyValues(t *testing.T) {
	box, err := NewFromPassphrase("passphrase")
	require.NoError(t, err)

	sealed, err := box.Seal("")
	require.NoError(t, err)
	assert.Empty(t, sealed)

	plain, err := box.Open("")
	require.NoError(t, err)
	assert.Empty(t, plain)
}

func TestNewValidatesKeyLength(t *testing.T) {
	_, err := New([]byte("short"))
	assert.ErrorIs(t, err, ErrInvalidKey)

	_, err = NewFromPassphrase("")
	assert.ErrorIs(t, err, ErrInvalidKey)
}
