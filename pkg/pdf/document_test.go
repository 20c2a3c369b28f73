package pdf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentRenderNeverFailsWithName(t *testing.T) {
	doc := Document{
		Title:    "Candidate Ficha",
		Subtitle: "Nanny",
		Sections: []Section{
			{Title: "Personal", Fields: []Field{
				{Label: "Name", Value: "Maria Souza"},
				{Label: "Phone", Value: ""},
			}},
			{Title: "Notes", Fields: []Field{
				{Label: "Observations", Value: ""},
			}},
		},
	}

	data, err := doc.Render()
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestDocumentRenderEmptySections(t *testing.T) {
	data, err := Document{Title: "Opening Ficha"}.Render()
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestFilename(t *testing.T) {
	at := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, "ficha_maria_de_souza_20260829.pdf", Filename("ficha", "Maria de Souza", at))
	assert.Equal(t, "ficha_joao_conceicao_20260829.pdf", Filename("ficha", "João Conceição", at))
	assert.Equal(t, "vaga_record_20260829.pdf", Filename("vaga", "!!!", at))
}

func TestTransliterateCollapsesSeparators(t *testing.T) {
	assert.Equal(t, "ana_maria", transliterate("Ana -  Maria"))
	assert.Equal(t, "", transliterate(""))
}
