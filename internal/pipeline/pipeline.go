// Package pipeline implements the document-to-flashcard generation
// pipeline: fetch a remote document, parse it into content nodes, build
// a per-run semantic index, answer a requirement-focused retrieval
// query and coerce the answer into a fixed-shape study session.
package pipeline

import (
	"context"
	"time"

	"github.com/cardifyhq/cardify-backend/internal/entity"
	"github.com/cardifyhq/cardify-backend/internal/pipeline/coercer"
	"github.com/cardifyhq/cardify-backend/internal/pipeline/fetcher"
	"github.com/cardifyhq/cardify-backend/internal/pipeline/index"
	"github.com/cardifyhq/cardify-backend/internal/pipeline/nodeparser"
	"github.com/cardifyhq/cardify-backend/internal/pkg/logger"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Pipeline sequences the generation stages. It is stateless between
// calls: every run fetches, indexes and generates independently, so
// re-running the same inputs is safe (the fetcher cache is reused).
type Pipeline struct {
	fetcher     *fetcher.Fetcher
	parser      *nodeparser.Parser
	builder     *index.Builder
	synthesizer index.Synthesizer
	coercer     *coercer.Coercer
	topK        int
	runTimeout  time.Duration
	logger      *zap.Logger
}

type Config struct {
	TopK       int
	RunTimeout time.Duration
}

func New(
	f *fetcher.Fetcher,
	parser *nodeparser.Parser,
	builder *index.Builder,
	synthesizer index.Synthesizer,
	c *coercer.Coercer,
	cfg Config,
	log *zap.Logger,
) *Pipeline {
	return &Pipeline{
		fetcher:     f,
		parser:      parser,
		builder:     builder,
		synthesizer: synthesizer,
		coercer:     c,
		topK:        cfg.TopK,
		runTimeout:  cfg.RunTimeout,
		logger:      log,
	}
}

// Generate runs the full pipeline for one document and requirement.
// Stages run strictly in sequence; the first failure aborts the run
// with a distinguishable error kind and no partial result.
func (p *Pipeline) Generate(ctx context.Context, remoteURL, requirement string) (*entity.StudySessionResult, error) {
	if p.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.runTimeout)
		defer cancel()
	}

	ctx = logger.AddFields(ctx, zap.String("document_url", remoteURL))
	ctxzap.Info(ctx, "starting generation run")

	doc, err := p.fetcher.Fetch(ctx, remoteURL)
	if err != nil {
		return nil, err
	}

	nodes := p.parser.Parse(doc)
	if len(nodes) == 0 {
		ctxzap.Warn(ctx, "document produced no content nodes")
		return nil, &entity.EmptyDocumentError{URL: remoteURL}
	}

	base, objects := p.parser.Partition(nodes)
	ctxzap.Info(ctx, "document parsed",
		zap.Int("base_nodes", len(base)),
		zap.Int("object_nodes", len(objects)),
	)

	idx, err := p.builder.Build(ctx, append(base, objects...))
	if err != nil {
		return nil, err
	}

	engine := index.NewQueryEngine(idx, p.synthesizer, p.topK, p.logger)

	answer, _, err := engine.Query(ctx, buildCardPrompt(requirement))
	if err != nil {
		return nil, err
	}

	result, err := p.coercer.Coerce(ctx, answer)
	if err != nil {
		return nil, err
	}

	ctxzap.Info(ctx, "generation run completed",
		zap.String("description", result.Description),
		zap.Int("card_count", len(result.Cards)),
	)

	return result, nil
}

// DeleteCached removes the fetcher's cached artifact for a URL.
func (p *Pipeline) DeleteCached(ctx context.Context, remoteURL string) error {
	return p.fetcher.Delete(ctx, remoteURL)
}
