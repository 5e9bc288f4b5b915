package entity

import "time"

// StudySessionCardCount is the number of cards a generated study session
// must contain. The structured-output contract enforces this exactly.
const StudySessionCardCount = 10

// Page is a single unit of parsed document content, markdown per page.
type Page struct {
	Number   int    `json:"number"`
	Markdown string `json:"markdown"`
}

// RawDocument is a fetched remote document, ready for node parsing.
type RawDocument struct {
	SourceURL string
	CacheKey  string
	Pages     []Page
	FetchedAt time.Time
}

// Text joins all pages into a single markdown string. Pages are
// separated by a blank line so a page boundary always ends a block.
func (d *RawDocument) Text() string {
	switch len(d.Pages) {
	case 0:
		return ""
	case 1:
		return d.Pages[0].Markdown
	}

	total := 0
	for _, p := range d.Pages {
		total += len(p.Markdown) + 2
	}

	buf := make([]byte, 0, total)
	for i, p := range d.Pages {
		if i > 0 {
			buf = append(buf, '\n', '\n')
		}
		buf = append(buf, p.Markdown...)
	}
	return string(buf)
}

type NodeKind string

const (
	// NodeKindNarrative is a prose block.
	NodeKindNarrative NodeKind = "narrative"
	// NodeKindObject is a structural element (a table) that is indexed
	// and retrieved as an atomic unit.
	NodeKindObject NodeKind = "object"
)

// ContentNode is the atomic retrieval unit produced by the node parser.
// Nodes are immutable after creation and live for one pipeline run only.
type ContentNode struct {
	ID      string
	Kind    NodeKind
	Heading string // nearest enclosing heading, empty for preamble text
	Text    string
	Ordinal int // position in document order
}

// IndexEntry pairs a content node with its embedding vector.
type IndexEntry struct {
	Node      ContentNode
	Embedding []float32
}

// ScoredNode is a retrieval hit.
type ScoredNode struct {
	Node  ContentNode
	Score float64
}

// RetrievalResult is ordered by non-increasing score.
type RetrievalResult []ScoredNode

// StudyCard is a single question/answer flashcard.
type StudyCard struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// StudySessionResult is the final structured artifact of a pipeline run:
// a short description plus exactly StudySessionCardCount cards.
type StudySessionResult struct {
	Description string      `json:"description"`
	Cards       []StudyCard `json:"cards"`
}
