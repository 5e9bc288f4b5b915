package nodeparser

import (
	"strings"

	"github.com/cardifyhq/cardify-backend/internal/entity"
	"github.com/google/uuid"
)

// Parser splits page markdown into an ordered sequence of content nodes.
// Prose becomes narrative nodes; markdown tables become object nodes so
// they are indexed and retrieved as atomic units instead of fragmented
// rows.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse converts the document into ordered content nodes. An empty or
// unparsable document yields zero nodes; no error is raised here.
func (p *Parser) Parse(doc *entity.RawDocument) []entity.ContentNode {
	var nodes []entity.ContentNode

	heading := ""
	ordinal := 0

	var block []string
	blockIsTable := false

	flush := func() {
		if len(block) == 0 {
			return
		}
		text := strings.TrimSpace(strings.Join(block, "\n"))
		block = nil
		if text == "" {
			return
		}

		kind := entity.NodeKindNarrative
		if blockIsTable {
			kind = entity.NodeKindObject
		}
		blockIsTable = false

		nodes = append(nodes, entity.ContentNode{
			ID:      uuid.New().String(),
			Kind:    kind,
			Heading: heading,
			Text:    text,
			Ordinal: ordinal,
		})
		ordinal++
	}

	for _, line := range strings.Split(doc.Text(), "\n") {
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			flush()

		case strings.HasPrefix(trimmed, "#"):
			flush()
			heading = strings.TrimSpace(strings.TrimLeft(trimmed, "#"))

		case strings.HasPrefix(trimmed, "|"):
			if !blockIsTable {
				flush()
				blockIsTable = true
			}
			block = append(block, trimmed)

		default:
			if blockIsTable {
				flush()
			}
			block = append(block, trimmed)
		}
	}
	flush()

	return nodes
}

// Partition separates narrative nodes from object nodes, preserving
// document order within each group.
func (p *Parser) Partition(nodes []entity.ContentNode) (base, objects []entity.ContentNode) {
	for _, n := range nodes {
		if n.Kind == entity.NodeKindObject {
			objects = append(objects, n)
		} else {
			base = append(base, n)
		}
	}
	return base, objects
}
