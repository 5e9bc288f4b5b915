package formatter

import (
	"bytes"
	"fmt"

	"github.com/cardifyhq/cardify-backend/internal/entity"
	"github.com/unidoc/unioffice/document"
)

const (
	docxContentType   = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	docxFileExtension = ".docx"
)

type DOCXFormatter struct{}

func NewDOCXFormatter() *DOCXFormatter {
	return &DOCXFormatter{}
}

func (df *DOCXFormatter) Format(session *entity.Session) ([]byte, error) {
	doc := document.New()
	defer doc.Close()

	titlePar := doc.AddParagraph()
	titlePar.SetStyle("Heading1")
	titlePar.AddRun().AddText(session.Description)

	sourcePar := doc.AddParagraph()
	sourcePar.AddRun().AddText(session.URL)

	doc.AddParagraph()

	for i, card := range session.Cards {
		questionPar := doc.AddParagraph()
		questionPar.SetStyle("Heading2")
		questionPar.AddRun().AddText(fmt.Sprintf("%d. %s", i+1, card.Question))

		answerPar := doc.AddParagraph()
		answerPar.AddRun().AddText(card.Answer)
	}

	var buf bytes.Buffer
	if err := doc.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (df *DOCXFormatter) ContentType() string {
	return docxContentType
}

func (df *DOCXFormatter) FileExtension() string {
	return docxFileExtension
}
