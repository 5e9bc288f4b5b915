package nodeparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardifyhq/cardify-backend/internal/entity"
)

func doc(pages ...string) *entity.RawDocument {
	d := &entity.RawDocument{SourceURL: "https://example.com/doc.pdf", CacheKey: "doc"}
	for i, md := range pages {
		d.Pages = append(d.Pages, entity.Page{Number: i + 1, Markdown: md})
	}
	return d
}

func TestParseProseBlocks(t *testing.T) {
	p := NewParser()

	nodes := p.Parse(doc("# Biology\n\nFirst paragraph about cells.\n\nSecond paragraph about membranes.\n"))

	require.Len(t, nodes, 2)
	assert.Equal(t, entity.NodeKindNarrative, nodes[0].Kind)
	assert.Equal(t, "Biology", nodes[0].Heading)
	assert.Equal(t, "First paragraph about cells.", nodes[0].Text)
	assert.Equal(t, "Second paragraph about membranes.", nodes[1].Text)
	assert.Equal(t, 0, nodes[0].Ordinal)
	assert.Equal(t, 1, nodes[1].Ordinal)
}

func TestParseHeadingTracking(t *testing.T) {
	p := NewParser()

	nodes := p.Parse(doc("Preamble text.\n\n# Chapter One\n\nUnder chapter one.\n\n## Section A\n\nUnder section a.\n"))

	require.Len(t, nodes, 3)
	assert.Equal(t, "", nodes[0].Heading)
	assert.Equal(t, "Chapter One", nodes[1].Heading)
	assert.Equal(t, "Section A", nodes[2].Heading)
}

func TestParseTableIsAtomic(t *testing.T) {
	p := NewParser()

	md := "# Stages\n\n" +
		"Intro paragraph.\n\n" +
		"| Stage | Yield |\n" +
		"|-------|-------|\n" +
		"| Glycolysis | 2 |\n" +
		"| Krebs | 2 |\n\n" +
		"Closing paragraph.\n"

	nodes := p.Parse(doc(md))

	require.Len(t, nodes, 3)
	assert.Equal(t, entity.NodeKindNarrative, nodes[0].Kind)
	assert.Equal(t, entity.NodeKindObject, nodes[1].Kind)
	assert.Contains(t, nodes[1].Text, "Glycolysis")
	assert.Contains(t, nodes[1].Text, "Krebs", "all table rows must stay in one node")
	assert.Equal(t, entity.NodeKindNarrative, nodes[2].Kind)
}

func TestParseTableWithoutTrailingBlankLine(t *testing.T) {
	p := NewParser()

	nodes := p.Parse(doc("| A | B |\n|---|---|\n| 1 | 2 |\nThen prose right after.\n"))

	require.Len(t, nodes, 2)
	assert.Equal(t, entity.NodeKindObject, nodes[0].Kind)
	assert.Equal(t, entity.NodeKindNarrative, nodes[1].Kind)
}

func TestParseEmptyDocument(t *testing.T) {
	p := NewParser()

	assert.Empty(t, p.Parse(doc()))
	assert.Empty(t, p.Parse(doc("")))
	assert.Empty(t, p.Parse(doc("\n\n   \n")))
	assert.Empty(t, p.Parse(doc("# Only a heading\n")))
}

func TestParseJoinsPages(t *testing.T) {
	p := NewParser()

	nodes := p.Parse(doc("Page one text.", "Page two text."))

	require.Len(t, nodes, 2)
	assert.Equal(t, "Page one text.", nodes[0].Text)
	assert.Equal(t, "Page two text.", nodes[1].Text)
}

func TestPartitionPreservesOrder(t *testing.T) {
	p := NewParser()

	md := "Prose one.\n\n| t | b |\n\nProse two.\n\n| t2 | b2 |\n"
	nodes := p.Parse(doc(md))
	require.Len(t, nodes, 4)

	base, objects := p.Partition(nodes)
	require.Len(t, base, 2)
	require.Len(t, objects, 2)
	assert.Equal(t, "Prose one.", base[0].Text)
	assert.Equal(t, "Prose two.", base[1].Text)
	assert.Less(t, objects[0].Ordinal, objects[1].Ordinal)
}
