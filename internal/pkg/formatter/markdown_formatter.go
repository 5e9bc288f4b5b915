package formatter

import (
	"bytes"
	"fmt"

	"github.com/cardifyhq/cardify-backend/internal/entity"
)

const (
	markdownContentType   = "text/markdown; charset=utf-8"
	markdownFileExtension = ".md"
)

type MarkdownFormatter struct{}

func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

func (mf *MarkdownFormatter) Format(session *entity.Session) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n\n", session.Description)
	fmt.Fprintf(&buf, "Source: %s\n\n", session.URL)

	for i, card := range session.Cards {
		fmt.Fprintf(&buf, "## Card %d\n\n", i+1)
		fmt.Fprintf(&buf, "**Q:** %s\n\n", card.Question)
		fmt.Fprintf(&buf, "**A:** %s\n\n", card.Answer)
	}

	return buf.Bytes(), nil
}

func (mf *MarkdownFormatter) ContentType() string {
	return markdownContentType
}

func (mf *MarkdownFormatter) FileExtension() string {
	return markdownFileExtension
}
