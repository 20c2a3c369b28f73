package fieldcrypt

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) string {
	t.Helper()
	return base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))
}

func TestNewRejectsBadKeys(t *testing.T) {
	_, err := New("")
	require.Error(t, err)

	_, err = New("not-base64!!!")
	require.Error(t, err)

	short := base64.StdEncoding.EncodeToString([]byte("too-short"))
	_, err = New(short)
	require.Error(t, err)
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	c, err := New(testKey(t))
	require.NoError(t, err)

	for _, value := range []string{"maria@example.com", "11 99988-7766", "Rua das Flores, 123", "ü unicode çãõ"} {
		sealed, err := c.Encrypt(value)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(sealed, Prefix))
		assert.NotEqual(t, value, sealed)
		assert.Equal(t, value, c.Decrypt(sealed))
	}
}

func TestEncryptIdempotentOnCiphertext(t *testing.T) {
	c, err := New(testKey(t))
	require.NoError(t, err)

	sealed, err := c.Encrypt("11988776655")
	require.NoError(t, err)

	again, err := c.Encrypt(sealed)
	require.NoError(t, err)
	assert.Equal(t, sealed, again)
}

func TestEncryptPassesThroughEmpty(t *testing.T) {
	c, err := New(testKey(t))
	require.NoError(t, err)

	for _, value := range []string{"", "   "} {
		out, err := c.Encrypt(value)
		require.NoError(t, err)
		assert.Equal(t, value, out)
	}
}

func TestDecryptGarbageReturnsSentinel(t *testing.T) {
	c, err := New(testKey(t))
	require.NoError(t, err)

	assert.Equal(t, DecryptFailed, c.Decrypt(Prefix+"not-valid-base64!!"))
	assert.Equal(t, DecryptFailed, c.Decrypt(Prefix+base64.StdEncoding.EncodeToString([]byte("tiny"))))

	// Ciphertext produced under a different key.
	other, err := New(base64.StdEncoding.EncodeToString([]byte("fedcba9876543210fedcba9876543210")))
	require.NoError(t, err)
	sealed, err := other.Encrypt("secret")
	require.NoError(t, err)
	assert.Equal(t, DecryptFailed, c.Decrypt(sealed))
}

func TestDecryptPassesThroughPlaintext(t *testing.T) {
	c, err := New(testKey(t))
	require.NoError(t, err)

	assert.Equal(t, "plain@example.com", c.Decrypt("plain@example.com"))
}

func TestEncryptFieldsOnlyTouchesAllowList(t *testing.T) {
	c, err := New(testKey(t))
	require.NoError(t, err)

	record := map[string]any{
		"full_name": "Maria Souza",
		"email":     "maria@example.com",
		"phone":     "11999887766",
		"score":     8,
		"whatsapp":  "",
	}

	sealed := c.EncryptFields(record, CandidateFields)

	assert.Equal(t, "Maria Souza", sealed["full_name"])
	assert.Equal(t, 8, sealed["score"])
	assert.Equal(t, "", sealed["whatsapp"])
	assert.True(t, strings.HasPrefix(sealed["email"].(string), Prefix))
	assert.True(t, strings.HasPrefix(sealed["phone"].(string), Prefix))

	// Source record must not be mutated.
	assert.Equal(t, "maria@example.com", record["email"])

	opened := c.DecryptFields(sealed, CandidateFields)
	assert.Equal(t, "maria@example.com", opened["email"])
	assert.Equal(t, "11999887766", opened["phone"])
}

func TestBatchHelpers(t *testing.T) {
	c, err := New(testKey(t))
	require.NoError(t, err)

	records := []map[string]any{
		{"email": "a@example.com"},
		{"email": "b@example.com"},
	}

	sealed := c.EncryptAll(records, CandidateFields)
	require.Len(t, sealed, 2)
	for i, record := range c.DecryptAll(sealed, CandidateFields) {
		assert.Equal(t, records[i]["email"], record["email"])
	}
}

func TestPtrHelpers(t *testing.T) {
	c, err := New(testKey(t))
	require.NoError(t, err)

	assert.Nil(t, c.DecryptPtr(nil))

	out, err := c.EncryptPtr(nil)
	require.NoError(t, err)
	assert.Nil(t, out)

	value := "11 3333-4444"
	sealed, err := c.EncryptPtr(&value)
	require.NoError(t, err)
	require.NotNil(t, sealed)
	assert.Equal(t, value, *c.DecryptPtr(sealed))
}
