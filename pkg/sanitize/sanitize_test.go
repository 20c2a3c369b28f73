package sanitize

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestValidateUUID(t *testing.T) {
	ok, _ := ValidateUUID("3f8a2b1c-9d4e-4f6a-8b2c-1d3e5f7a9b0c", "Candidate ID")
	assert.True(t, ok)

	ok, msg := ValidateUUID("not-a-uuid", "Candidate ID")
	assert.False(t, ok)
	assert.Contains(t, msg, "Candidate ID")

	ok, _ = ValidateUUID("", "ID")
	assert.False(t, ok)

	// v1 UUIDs are rejected: the version nibble must be 4.
	ok, _ = ValidateUUID("3f8a2b1c-9d4e-1f6a-8b2c-1d3e5f7a9b0c", "ID")
	assert.False(t, ok)
}

func TestValidateText(t *testing.T) {
	ok, _ := ValidateText(nil, 0, 100, "Note")
	assert.True(t, ok)

	ok, msg := ValidateText(nil, 1, 100, "Note")
	assert.False(t, ok)
	assert.Contains(t, msg, "required")

	short := "ab"
	ok, _ = ValidateText(&short, 3, 100, "Note")
	assert.False(t, ok)

	long := strings.Repeat("x", 101)
	ok, _ = ValidateText(&long, 0, 100, "Note")
	assert.False(t, ok)

	padded := "  hello  "
	ok, _ = ValidateText(&padded, 5, 100, "Note")
	assert.True(t, ok)
}

func TestValidateEnum(t *testing.T) {
	allowed := []string{"sent", "in_review"}

	ok, _ := ValidateEnum("sent", allowed, "Status")
	assert.True(t, ok)

	ok, msg := ValidateEnum("bogus", allowed, "Status")
	assert.False(t, ok)
	assert.Contains(t, msg, "sent, in_review")
}

func TestSearchTermStripsSQL(t *testing.T) {
	// Keyword substrings are removed; the surrounding text survives.
	got := SearchTerm("maria'; DROP TABLE candidates--")
	assert.True(t, strings.HasPrefix(got, "maria"))
	assert.NotContains(t, got, "DROP")
	assert.NotContains(t, got, ";")
	assert.NotContains(t, got, "--")
	assert.NotContains(t, got, "'")

	assert.Equal(t, "cook", SearchTerm(`"cook"`))
	assert.NotContains(t, SearchTerm("a /* comment */ b"), "/*")
	assert.Empty(t, SearchTerm(""))

	capped := SearchTerm(strings.Repeat("a", 300))
	assert.LessOrEqual(t, len(capped), 200)
}

func TestSanitizersCapOnRuneBoundary(t *testing.T) {
	name := PersonName(strings.Repeat("é", 150))
	assert.True(t, utf8.ValidString(name))
	assert.Equal(t, 100, utf8.RuneCountInString(name))

	term := SearchTerm(strings.Repeat("ã", 250))
	assert.True(t, utf8.ValidString(term))
	assert.Equal(t, 200, utf8.RuneCountInString(term))

	notes := FreeText(strings.Repeat("ç", 5100))
	assert.True(t, utf8.ValidString(notes))
	assert.Equal(t, 5000, utf8.RuneCountInString(notes))
}

func TestPersonName(t *testing.T) {
	assert.Equal(t, "Maria da Silva", PersonName("Maria   da Silva"))
	assert.Equal(t, "José-Carlos", PersonName("José-Carlos123!"))
	assert.Empty(t, PersonName("12345"))
}

func TestFreeText(t *testing.T) {
	assert.NotContains(t, FreeText(`<script>alert(1)</script>hello`), "script")
	assert.Equal(t, "hello", FreeText("<b>hello</b>"))
	assert.NotContains(t, FreeText("click javascript:run()"), "javascript:")
	assert.NotContains(t, FreeText("x DROP y"), "DROP")

	capped := FreeText(strings.Repeat("a", 6000))
	assert.LessOrEqual(t, len(capped), 5000)
}

func TestEmail(t *testing.T) {
	ok, cleaned := Email("  Maria@Example.COM ")
	assert.True(t, ok)
	assert.Equal(t, "maria@example.com", cleaned)

	ok, _ = Email("not-an-email")
	assert.False(t, ok)
}

func TestPhone(t *testing.T) {
	assert.Equal(t, "11999887766", Phone("(11) 99988-7766"))
	assert.Equal(t, "1133334444", Phone("11 3333-4444"))
	assert.Empty(t, Phone("123"))
	assert.Empty(t, Phone(""))
}
