package pipeline

import (
	"context"
	"encoding/json"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cardifyhq/cardify-backend/internal/entity"
	"github.com/cardifyhq/cardify-backend/internal/integration/download"
	"github.com/cardifyhq/cardify-backend/internal/integration/embedding"
	"github.com/cardifyhq/cardify-backend/internal/integration/generation"
	"github.com/cardifyhq/cardify-backend/internal/integration/parseservice"
	"github.com/cardifyhq/cardify-backend/internal/pipeline/coercer"
	"github.com/cardifyhq/cardify-backend/internal/pipeline/fetcher"
	"github.com/cardifyhq/cardify-backend/internal/pipeline/index"
	"github.com/cardifyhq/cardify-backend/internal/pipeline/nodeparser"
)

type emptyParseConnector struct{}

func (emptyParseConnector) ParseDocument(ctx context.Context, filename string, content []byte) ([]entity.Page, error) {
	return []entity.Page{{Number: 1, Markdown: "   \n\n  "}}, nil
}

type failingDownloader struct{}

func (failingDownloader) Download(ctx context.Context, url string) ([]byte, error) {
	return nil, &entity.RetrievalError{URL: url, StatusCode: 404}
}

// countingGeneration wraps the generation mock to track synthesis calls.
type countingGeneration struct {
	inner      *generation.MockConnector
	synthCalls atomic.Int32
}

func (g *countingGeneration) Synthesize(ctx context.Context, query, context_ string) (string, error) {
	g.synthCalls.Add(1)
	return g.inner.Synthesize(ctx, query, context_)
}

func (g *countingGeneration) StructuredGenerate(ctx context.Context, input string, schema json.RawMessage) (json.RawMessage, error) {
	return g.inner.StructuredGenerate(ctx, input, schema)
}

func newMockPipeline(t *testing.T, downloader fetcher.Downloader, parse fetcher.ParseConnector, gen *countingGeneration) *Pipeline {
	t.Helper()
	logger := zap.NewNop()

	store, err := fetcher.NewFSStore(t.TempDir())
	require.NoError(t, err)

	f := fetcher.NewFetcher(downloader, parse, store, time.Minute, logger)
	builder := index.NewBuilder(embedding.NewMockConnector(logger), logger)

	return New(
		f,
		nodeparser.NewParser(),
		builder,
		gen,
		coercer.NewCoercer(gen, logger),
		Config{TopK: 15, RunTimeout: time.Minute},
		logger,
	)
}

func TestGenerateEndToEnd(t *testing.T) {
	logger := zap.NewNop()
	gen := &countingGeneration{inner: generation.NewMockConnector(logger)}
	p := newMockPipeline(t, download.NewMockConnector(logger), parseservice.NewMockConnector(logger), gen)

	result, err := p.Generate(context.Background(), "https://example.com/biology-notes.pdf", "focus on energy metabolism")
	require.NoError(t, err)

	assert.NotEmpty(t, result.Description)
	require.Len(t, result.Cards, entity.StudySessionCardCount)

	// Cards must be grounded in document vocabulary, not invented.
	pages, err := parseservice.NewMockConnector(zap.NewNop()).ParseDocument(context.Background(), "doc", nil)
	require.NoError(t, err)
	var docText strings.Builder
	for _, page := range pages {
		docText.WriteString(strings.ToLower(page.Markdown))
		docText.WriteString("\n")
	}

	for _, card := range result.Cards {
		assert.NotEmpty(t, card.Question)
		assert.NotEmpty(t, card.Answer)

		grounded := false
		for _, token := range strings.Fields(strings.ToLower(card.Question)) {
			token = strings.Trim(token, ".,;:!?()[]{}\"'|#*-")
			if len(token) >= 6 && strings.Contains(docText.String(), token) {
				grounded = true
				break
			}
		}
		assert.True(t, grounded, "question %q shares no vocabulary with the document", card.Question)
	}

	assert.Equal(t, int32(1), gen.synthCalls.Load())
}

func TestGenerateEmptyDocument(t *testing.T) {
	logger := zap.NewNop()
	gen := &countingGeneration{inner: generation.NewMockConnector(logger)}
	p := newMockPipeline(t, download.NewMockConnector(logger), emptyParseConnector{}, gen)

	result, err := p.Generate(context.Background(), "https://example.com/blank.pdf", "")
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, entity.IsEmptyDocumentError(err))
	assert.Equal(t, int32(0), gen.synthCalls.Load(), "empty document must not reach synthesis")
}

func TestGenerateRetrievalFailureAborts(t *testing.T) {
	logger := zap.NewNop()
	gen := &countingGeneration{inner: generation.NewMockConnector(logger)}
	p := newMockPipeline(t, failingDownloader{}, parseservice.NewMockConnector(logger), gen)

	result, err := p.Generate(context.Background(), "https://example.com/missing.pdf", "")
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, entity.IsRetrievalError(err))
	assert.Equal(t, int32(0), gen.synthCalls.Load(), "failed retrieval must not reach synthesis")
}

func TestGenerateRepeatedRunsReuseCache(t *testing.T) {
	logger := zap.NewNop()
	gen := &countingGeneration{inner: generation.NewMockConnector(logger)}
	p := newMockPipeline(t, download.NewMockConnector(logger), parseservice.NewMockConnector(logger), gen)

	first, err := p.Generate(context.Background(), "https://example.com/doc.pdf", "requirement")
	require.NoError(t, err)

	second, err := p.Generate(context.Background(), "https://example.com/doc.pdf", "requirement")
	require.NoError(t, err)

	// Deterministic services plus a cached document give identical runs.
	assert.Equal(t, first.Description, second.Description)
	assert.Equal(t, first.Cards, second.Cards)
}

func TestDeleteCached(t *testing.T) {
	logger := zap.NewNop()
	gen := &countingGeneration{inner: generation.NewMockConnector(logger)}
	p := newMockPipeline(t, download.NewMockConnector(logger), parseservice.NewMockConnector(logger), gen)

	_, err := p.Generate(context.Background(), "https://example.com/doc.pdf", "")
	require.NoError(t, err)

	assert.NoError(t, p.DeleteCached(context.Background(), "https://example.com/doc.pdf"))
	// Deleting again is a no-op.
	assert.NoError(t, p.DeleteCached(context.Background(), "https://example.com/doc.pdf"))
}
