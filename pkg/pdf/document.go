package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/jung-kurt/gofpdf"
)

// Section is one labelled block of field/value pairs on a plain document.
type Section struct {
	Title  string
	Fields []Field
}

// Field is one labelled value. Empty values render as "not informed" so the
// fallback path never fails on sparse records.
type Field struct {
	Label string
	Value string
}

// Document is the low-fidelity, code-driven PDF used when the HTML layout
// engine is unavailable.
type Document struct {
	Title    string
	Subtitle string
	Sections []Section
}

const notInformed = "not informed"

// Render lays the document out as headed field tables.
func (d Document) Render() ([]byte, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetMargins(12, 15, 12)
	doc.AddPage()

	doc.SetFont("Arial", "B", 16)
	doc.CellFormat(0, 10, strings.ToUpper(d.Title), "", 1, "C", false, 0, "")

	if d.Subtitle != "" {
		doc.SetFont("Arial", "", 11)
		doc.CellFormat(0, 7, d.Subtitle, "", 1, "C", false, 0, "")
	}
	doc.Ln(4)

	for _, section := range d.Sections {
		doc.SetFont("Arial", "B", 12)
		doc.SetFillColor(235, 235, 235)
		doc.CellFormat(0, 8, section.Title, "1", 1, "L", true, 0, "")

		doc.SetFont("Arial", "", 10)
		for _, field := range section.Fields {
			value := strings.TrimSpace(field.Value)
			if value == "" {
				value = notInformed
			}
			doc.CellFormat(55, 7, field.Label, "1", 0, "L", false, 0, "")
			doc.MultiCell(131, 7, value, "1", "L", false)
		}
		doc.Ln(3)
	}

	doc.SetY(-20)
	doc.SetFont("Arial", "I", 8)
	doc.CellFormat(0, 6, fmt.Sprintf("Generated at %s", time.Now().Format("02/01/2006 15:04")), "", 1, "C", false, 0, "")

	buf := &bytes.Buffer{}
	if err := doc.Output(buf); err != nil {
		return nil, fmt.Errorf("render document: %w", err)
	}
	return buf.Bytes(), nil
}

// Filename derives a filesystem-safe PDF name from a subject name and the
// creation date, e.g. "ficha_maria_souza_20260829.pdf".
func Filename(prefix, subjectName string, at time.Time) string {
	token := transliterate(subjectName)
	if token == "" {
		token = "record"
	}
	return fmt.Sprintf("%s_%s_%s.pdf", prefix, token, at.Format("20060102"))
}

// transliterate lowers a name into [a-z0-9_], folding common accents.
func transliterate(name string) string {
	replacer := strings.NewReplacer(
		"á", "a", "à", "a", "â", "a", "ã", "a", "ä", "a",
		"é", "e", "è", "e", "ê", "e", "ë", "e",
		"í", "i", "ì", "i", "î", "i", "ï", "i",
		"ó", "o", "ò", "o", "ô", "o", "õ", "o", "ö", "o",
		"ú", "u", "ù", "u", "û", "u", "ü", "u",
		"ç", "c", "ñ", "n",
	)

	lowered := replacer.Replace(strings.ToLower(strings.TrimSpace(name)))

	var b strings.Builder
	lastUnderscore := false
	for _, r := range lowered {
		switch {
		case unicode.IsLetter(r) && r < 128, unicode.IsDigit(r):
			b.WriteRune(r)
			lastUnderscore = false
		case r == ' ' || r == '-' || r == '_':
			if !lastUnderscore && b.Len() > 0 {
				b.WriteRune('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}
