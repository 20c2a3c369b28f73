package fieldcrypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
)

// Prefix marks a value as ciphertext. Values that already carry the prefix
// are never encrypted twice.
const Prefix = "enc:v1:"

// DecryptFailed is the sentinel written into a field whose ciphertext could
// not be decrypted (wrong key or corrupted data). Listing operations keep
// working; the broken value stays visible.
const DecryptFailed = "[encrypted - decryption failed]"

// Sensitive field allow-lists. Only these fields are ever touched by the
// record helpers.
var (
	CandidateFields = []string{
		"email",
		"phone",
		"whatsapp",
		"address",
		"street_number",
		"address_extra",
		"district",
		"national_id",
		"id_document",
	}

	OpeningFields = []string{
		"client_name",
		"client_email",
		"client_phone",
	}
)

// Cipher performs AES-256-GCM field encryption with a single process-wide key.
type Cipher struct {
	aead cipher.AEAD
}

// New builds a Cipher from a base64-encoded 32-byte key. A missing or
// malformed key is an error; callers treat it as fatal at startup.
func New(encodedKey string) (*Cipher, error) {
	if strings.TrimSpace(encodedKey) == "" {
		return nil, fmt.Errorf("encryption key is empty")
	}

	key, err := base64.StdEncoding.DecodeString(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("encryption key is not valid base64: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("encryption key must decode to 32 bytes, got %d", len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("init gcm: %w", err)
	}

	return &Cipher{aead: aead}, nil
}

// Encrypt returns the prefixed ciphertext for a plaintext value. Empty input
// and already-encrypted input are returned unchanged.
func (c *Cipher) Encrypt(value string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return value, nil
	}
	if strings.HasPrefix(value, Prefix) {
		return value, nil
	}

	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	sealed := c.aead.Seal(nonce, nonce, []byte(value), nil)
	return Prefix + base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. Values without the ciphertext prefix pass through
// unchanged. A value that fails to decrypt yields the DecryptFailed sentinel
// instead of an error so one corrupted row never aborts a listing.
func (c *Cipher) Decrypt(value string) string {
	if strings.TrimSpace(value) == "" {
		return value
	}
	if !strings.HasPrefix(value, Prefix) {
		return value
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(value, Prefix))
	if err != nil {
		return DecryptFailed
	}
	if len(raw) < c.aead.NonceSize() {
		return DecryptFailed
	}

	nonce, sealed := raw[:c.aead.NonceSize()], raw[c.aead.NonceSize():]
	plain, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return DecryptFailed
	}
	return string(plain)
}

// EncryptFields encrypts the listed fields in place on a copy of the record.
// Absent or empty fields pass through untouched.
func (c *Cipher) EncryptFields(record map[string]any, fields []string) map[string]any {
	if record == nil {
		return nil
	}
	out := make(map[string]any, len(record))
	for k, v := range record {
		out[k] = v
	}
	for _, field := range fields {
		raw, ok := out[field]
		if !ok {
			continue
		}
		value, ok := raw.(string)
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}
		encrypted, err := c.Encrypt(value)
		if err != nil {
			// Keep the original value; a failed field must not lose data.
			continue
		}
		out[field] = encrypted
	}
	return out
}

// DecryptFields is the inverse of EncryptFields.
func (c *Cipher) DecryptFields(record map[string]any, fields []string) map[string]any {
	if record == nil {
		return nil
	}
	out := make(map[string]any, len(record))
	for k, v := range record {
		out[k] = v
	}
	for _, field := range fields {
		raw, ok := out[field]
		if !ok {
			continue
		}
		value, ok := raw.(string)
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}
		out[field] = c.Decrypt(value)
	}
	return out
}

// EncryptAll applies EncryptFields over a batch of records.
func (c *Cipher) EncryptAll(records []map[string]any, fields []string) []map[string]any {
	out := make([]map[string]any, 0, len(records))
	for _, record := range records {
		out = append(out, c.EncryptFields(record, fields))
	}
	return out
}

// DecryptAll applies DecryptFields over a batch of records.
func (c *Cipher) DecryptAll(records []map[string]any, fields []string) []map[string]any {
	out := make([]map[string]any, 0, len(records))
	for _, record := range records {
		out = append(out, c.DecryptFields(record, fields))
	}
	return out
}

// DecryptPtr decrypts through an optional string field, leaving nil untouched.
func (c *Cipher) DecryptPtr(value *string) *string {
	if value == nil {
		return nil
	}
	plain := c.Decrypt(*value)
	return &plain
}

// EncryptPtr encrypts through an optional string field, leaving nil untouched.
func (c *Cipher) EncryptPtr(value *string) (*string, error) {
	if value == nil {
		return nil, nil
	}
	sealed, err := c.Encrypt(*value)
	if err != nil {
		return nil, err
	}
	return &sealed, nil
}
