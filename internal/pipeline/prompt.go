package pipeline

import (
	"fmt"
	"strings"
)

// assistantRole is the instructional template for the retrieval query.
// It pins the contract the structured coercer enforces later: exactly
// ten QA pairs, domain terminology focus, no authorship or contact
// metadata, selection weighted toward the student's requirement, and a
// response consisting of the structured object only.
const assistantRole = `You are a helpful teaching assistant from which students seek help to create studying material.
You will be provided with a document and you need to create a study session with a short description and a list of flashcards.

Each flashcard is a question about specific keywords mentioned in the document together with its answer.
You must create exactly 10 of those question/answer pairs. It is imperative you make only 10 of them.
Take your time to analyze the document before creating the questions which help students memorize the most.
Students seek to memorize the terms appearing in the document, so focus your questions and answers around
specific terms, processes, keywords, initials, and so on.

Make sure to ignore any information in regards to the authors, submission details, webpages, and contact
information from the authors. You are only interested in specific terms, keywords, and processes that have
to do with the field of the paper.

Respond with only the study session itself and do not add any comment, explanation or further details.
You will be penalized otherwise for returning more than just the session content.

To help you look for specific areas of the document, you will receive a brief description provided by the
student which specifies the area of interest for the study session. Pay close attention to it and construct
the questions and answers around that specific area. The student's description is delimited by triple backticks.`

// genericFocus stands in when the student gives no requirement, so the
// delimited section never tells the model to focus on nothing.
const genericFocus = "the most important terms, processes and keywords of the document"

// buildCardPrompt embeds the student's requirement into the
// instructional template.
func buildCardPrompt(requirement string) string {
	if strings.TrimSpace(requirement) == "" {
		requirement = genericFocus
	}

	return fmt.Sprintf(
		"Considering your role: %s, generate the desired response focusing on the need of the student: ```%s```",
		assistantRole, requirement,
	)
}
