package sanitize

import (
	"fmt"
	"regexp"
	"strings"
)

// Input hygiene for everything that reaches the store: identifier and text
// validation plus sanitizers for search filters, person names and free-text
// notes. Queries stay parameterized; the sanitizers are defense in depth,
// not a substitute.

var (
	uuidPattern    = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)
	emailPattern   = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	htmlTagPattern = regexp.MustCompile(`<[^>]+>`)
	scriptPattern  = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	protoPattern   = regexp.MustCompile(`(?i)(javascript|data|vbscript):`)
	sqlWordPattern = regexp.MustCompile(`(?i)\b(SELECT|INSERT|UPDATE|DELETE|DROP|CREATE|ALTER|EXEC)\b`)
	namePattern    = regexp.MustCompile(`[^a-zA-ZÀ-ÿ\s\-]`)
	spacesPattern  = regexp.MustCompile(`\s+`)
	digitsPattern  = regexp.MustCompile(`\D`)
)

// capRunes truncates to max runes so a multi-byte character is never split.
func capRunes(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}

// searchDenylist covers statement terminators, comment markers and SQL verbs
// that have no business in a contains-filter.
var searchDenylist = []string{
	";", "--", "/*", "*/", "xp_", "sp_",
	"DROP", "DELETE", "INSERT", "UPDATE", "EXEC", "EXECUTE", "SCRIPT",
}

// ValidateUUID checks the canonical v4 identifier shape.
func ValidateUUID(value, fieldName string) (bool, string) {
	if value == "" {
		return false, fmt.Sprintf("%s is invalid", fieldName)
	}
	if !uuidPattern.MatchString(strings.ToLower(value)) {
		return false, fmt.Sprintf("%s is not a valid UUID", fieldName)
	}
	return true, "OK"
}

// ValidateText enforces length bounds on a trimmed value. A nil value counts
// as missing, which is only an error when minLen > 0.
func ValidateText(value *string, minLen, maxLen int, fieldName string) (bool, string) {
	if value == nil {
		if minLen > 0 {
			return false, fmt.Sprintf("%s is required", fieldName)
		}
		return true, "OK"
	}

	trimmed := strings.TrimSpace(*value)
	if len(trimmed) < minLen {
		return false, fmt.Sprintf("%s too short (min: %d)", fieldName, minLen)
	}
	if len(trimmed) > maxLen {
		return false, fmt.Sprintf("%s too long (max: %d)", fieldName, maxLen)
	}
	return true, "OK"
}

// ValidateEnum checks membership in the allowed set.
func ValidateEnum(value string, allowed []string, fieldName string) (bool, string) {
	for _, candidate := range allowed {
		if value == candidate {
			return true, "OK"
		}
	}
	return false, fmt.Sprintf("%s invalid. Accepted values: %s", fieldName, strings.Join(allowed, ", "))
}

// SearchTerm strips quote characters, statement terminators and SQL keyword
// substrings from free-text search input and caps it at 200 characters.
func SearchTerm(text string) string {
	if text == "" {
		return ""
	}

	text = strings.TrimSpace(text)
	for _, dangerous := range searchDenylist {
		pattern := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(dangerous))
		text = pattern.ReplaceAllString(text, "")
	}

	text = strings.NewReplacer("'", "", `"`, "", `\`, "").Replace(text)
	text = capRunes(text, 200)
	return strings.TrimSpace(text)
}

// PersonName keeps letters, spaces, accents and hyphens; caps at 100.
func PersonName(name string) string {
	if name == "" {
		return ""
	}

	name = namePattern.ReplaceAllString(strings.TrimSpace(name), "")
	name = spacesPattern.ReplaceAllString(name, " ")
	name = capRunes(name, 100)
	return strings.TrimSpace(name)
}

// FreeText cleans longer narrative fields: strips script blocks, HTML tags,
// script-like protocols and SQL verbs, capping at 5000 characters.
func FreeText(text string) string {
	if text == "" {
		return ""
	}

	text = strings.TrimSpace(text)
	text = scriptPattern.ReplaceAllString(text, "")
	text = htmlTagPattern.ReplaceAllString(text, "")
	text = protoPattern.ReplaceAllString(text, "")
	text = sqlWordPattern.ReplaceAllString(text, "")
	text = capRunes(text, 5000)
	return strings.TrimSpace(text)
}

// Email lowercases, validates and caps an email address. Returns false when
// the value does not look like an address at all.
func Email(email string) (bool, string) {
	if email == "" {
		return false, ""
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		return false, ""
	}
	return true, capRunes(email, 100)
}

// Phone keeps digits only and enforces the 10-11 digit national format.
func Phone(phone string) string {
	if phone == "" {
		return ""
	}

	digits := digitsPattern.ReplaceAllString(phone, "")
	if len(digits) < 10 || len(digits) > 11 {
		return ""
	}
	return digits
}
