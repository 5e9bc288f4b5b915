package index

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/cardifyhq/cardify-backend/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Embedder computes embedding vectors for texts.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Reranker re-scores retrieval candidates with a secondary relevance model.
type Reranker interface {
	Rerank(ctx context.Context, query string, candidates []string, topN int) ([]entity.RerankScore, error)
}

const (
	defaultWorkers = 8
	embedBatchSize = 16
)

// Builder constructs a per-run semantic index over content nodes.
type Builder struct {
	embedder   Embedder
	workers    int
	reranker   Reranker
	rerankTopN int
	logger     *zap.Logger
}

type BuilderOption func(*Builder)

// WithReranker enables reranking of query results, truncating them to
// the reranker's own topN.
func WithReranker(r Reranker, topN int) BuilderOption {
	return func(b *Builder) {
		b.reranker = r
		b.rerankTopN = topN
	}
}

func WithWorkers(n int) BuilderOption {
	return func(b *Builder) {
		if n > 0 {
			b.workers = n
		}
	}
}

func NewBuilder(embedder Embedder, logger *zap.Logger, opts ...BuilderOption) *Builder {
	b := &Builder{
		embedder: embedder,
		workers:  defaultWorkers,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build embeds every node and assembles the index. Embedding runs in
// bounded-concurrency batches; entry order matches node order, one entry
// per node.
func (b *Builder) Build(ctx context.Context, nodes []entity.ContentNode) (*Index, error) {
	if len(nodes) == 0 {
		return nil, fmt.Errorf("no nodes to index")
	}

	ctxzap.Info(ctx, "building semantic index",
		zap.Int("node_count", len(nodes)),
		zap.Int("workers", b.workers),
	)

	entries := make([]entity.IndexEntry, len(nodes))

	type batch struct{ start, end int }
	var batches []batch
	for start := 0; start < len(nodes); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(nodes) {
			end = len(nodes)
		}
		batches = append(batches, batch{start: start, end: end})
	}

	sem := make(chan struct{}, b.workers)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for _, bt := range batches {
		wg.Add(1)
		sem <- struct{}{}

		go func(bt batch) {
			defer wg.Done()
			defer func() { <-sem }()

			mu.Lock()
			failed := firstErr != nil
			mu.Unlock()
			if failed {
				return
			}

			texts := make([]string, 0, bt.end-bt.start)
			for _, n := range nodes[bt.start:bt.end] {
				texts = append(texts, n.Text)
			}

			vectors, err := b.embedder.EmbedBatch(ctx, texts)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}

			for i, vec := range vectors {
				entries[bt.start+i] = entity.IndexEntry{
					Node:      nodes[bt.start+i],
					Embedding: vec,
				}
			}
		}(bt)
	}

	wg.Wait()

	if firstErr != nil {
		return nil, fmt.Errorf("embed nodes: %w", firstErr)
	}

	ctxzap.Info(ctx, "semantic index built", zap.Int("entry_count", len(entries)))

	return &Index{
		entries:    entries,
		embedder:   b.embedder,
		reranker:   b.reranker,
		rerankTopN: b.rerankTopN,
	}, nil
}

// Index is a per-run in-memory vector index. It is discarded after the
// pipeline run that built it.
type Index struct {
	entries    []entity.IndexEntry
	embedder   Embedder
	reranker   Reranker
	rerankTopN int
}

// Size returns the number of index entries.
func (ix *Index) Size() int {
	return len(ix.entries)
}

// Query embeds the text, ranks all entries by cosine similarity and
// returns at most topK hits ordered by non-increasing score. When a
// reranker is configured the candidate set is re-scored and re-ordered,
// truncated to the reranker's topN.
func (ix *Index) Query(ctx context.Context, text string, topK int) (entity.RetrievalResult, error) {
	if topK < 1 {
		return nil, fmt.Errorf("top_k must be positive, got %d", topK)
	}

	queryVec, err := ix.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	result := make(entity.RetrievalResult, 0, len(ix.entries))
	for _, e := range ix.entries {
		result = append(result, entity.ScoredNode{
			Node:  e.Node,
			Score: cosineSimilarity(queryVec, e.Embedding),
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Score > result[j].Score
	})

	if topK < len(result) {
		result = result[:topK]
	}

	if ix.reranker != nil {
		reranked, err := ix.rerank(ctx, text, result)
		if err != nil {
			return nil, fmt.Errorf("rerank: %w", err)
		}
		result = reranked
	}

	return result, nil
}

func (ix *Index) rerank(ctx context.Context, query string, candidates entity.RetrievalResult) (entity.RetrievalResult, error) {
	texts := make([]string, 0, len(candidates))
	for _, c := range candidates {
		texts = append(texts, c.Node.Text)
	}

	scores, err := ix.reranker.Rerank(ctx, query, texts, ix.rerankTopN)
	if err != nil {
		return nil, err
	}

	reranked := make(entity.RetrievalResult, 0, len(scores))
	for _, s := range scores {
		reranked = append(reranked, entity.ScoredNode{
			Node:  candidates[s.Index].Node,
			Score: s.Score,
		})
	}

	sort.SliceStable(reranked, func(i, j int) bool {
		return reranked[i].Score > reranked[j].Score
	})

	if ix.rerankTopN > 0 && ix.rerankTopN < len(reranked) {
		reranked = reranked[:ix.rerankTopN]
	}

	return reranked, nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
