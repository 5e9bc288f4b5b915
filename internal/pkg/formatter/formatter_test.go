package formatter

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardifyhq/cardify-backend/internal/entity"
)

func sampleSession() *entity.Session {
	return &entity.Session{
		ID:          "7bca7a6f-55b8-4bb8-a054-bb64a72b7c0f",
		AuthorID:    "author-1",
		URL:         "https://example.com/biology.pdf",
		Description: "Energy metabolism overview",
		Cards: []entity.StudyCard{
			{Question: "What is glycolysis?", Answer: "The splitting of glucose into pyruvate."},
			{Question: "Where does the Krebs cycle run?", Answer: "Inside the mitochondria."},
		},
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestFactoryCreate(t *testing.T) {
	f := NewFactory()

	md, err := f.Create(entity.FormatMarkdown)
	require.NoError(t, err)
	assert.Equal(t, ".md", md.FileExtension())

	pdf, err := f.Create(entity.FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, ".pdf", pdf.FileExtension())

	docx, err := f.Create(entity.FormatDOCX)
	require.NoError(t, err)
	assert.Equal(t, ".docx", docx.FileExtension())

	_, err = f.Create(entity.ResultFormat("xlsx"))
	assert.Error(t, err)
}

func TestMarkdownFormat(t *testing.T) {
	out, err := NewMarkdownFormatter().Format(sampleSession())
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, "# Energy metabolism overview")
	assert.Contains(t, text, "Source: https://example.com/biology.pdf")
	assert.Contains(t, text, "## Card 1")
	assert.Contains(t, text, "**Q:** What is glycolysis?")
	assert.Contains(t, text, "**A:** Inside the mitochondria.")
}

func TestPDFFormat(t *testing.T) {
	out, err := NewPDFFormatter().Format(sampleSession())
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")), "output must be a PDF document")
	assert.Equal(t, "application/pdf", NewPDFFormatter().ContentType())
}

func TestDOCXFormat(t *testing.T) {
	out, err := NewDOCXFormatter().Format(sampleSession())
	require.NoError(t, err)

	// DOCX files are zip archives.
	assert.True(t, bytes.HasPrefix(out, []byte("PK")), "output must be a zip-based DOCX document")
}

func TestFormatEmptyCardList(t *testing.T) {
	session := sampleSession()
	session.Cards = nil

	out, err := NewMarkdownFormatter().Format(session)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "## Card")
}
