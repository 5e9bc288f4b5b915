package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/avast/retry-go/v4"
	"github.com/cardifyhq/cardify-backend/internal/config"
	"github.com/cardifyhq/cardify-backend/internal/entity"
	"github.com/cardifyhq/cardify-backend/internal/integration/common"
	pkghttp "github.com/cardifyhq/cardify-backend/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const serviceName = "generation"

// Connector talks to the generative model service: grounded synthesis,
// schema-constrained generation and cross-encoder reranking.
type Connector struct {
	config    config.GenerationConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.GenerationConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// Synthesize produces a free-text answer to the query grounded in the
// provided context.
func (c *Connector) Synthesize(ctx context.Context, query, context_ string) (string, error) {
	ctxzap.Info(ctx, "synthesizing answer via generation service",
		zap.Int("context_length", len(context_)),
	)

	req := &entity.SynthesizeRequest{Query: query, Context: context_}

	var resp entity.SynthesizeResponse
	err := retry.Do(func() error {
		return c.connector.DoRequest(ctx, http.MethodPost, c.config.SynthesizeEndpoint, req, &resp)
	}, c.retryOptions(ctx)...)
	if err != nil {
		ctxzap.Error(ctx, "failed to synthesize answer", zap.Error(err))
		if common.IsTransient(err) {
			return "", &entity.ServiceUnavailableError{Service: serviceName, Err: err}
		}
		return "", fmt.Errorf("synthesize: %w", err)
	}

	if resp.Text == "" {
		return "", fmt.Errorf("invalid synthesize response: empty or missing text field")
	}

	ctxzap.Info(ctx, "answer synthesized successfully", zap.Int("result_length", len(resp.Text)))
	return resp.Text, nil
}

// StructuredGenerate forces the model to emit a value conforming to the
// given JSON schema and returns the raw structured output.
func (c *Connector) StructuredGenerate(ctx context.Context, input string, schema json.RawMessage) (json.RawMessage, error) {
	ctxzap.Info(ctx, "running schema-constrained generation",
		zap.Int("input_length", len(input)),
	)

	req := &entity.StructuredGenerateRequest{Input: input, Schema: schema}

	var resp entity.StructuredGenerateResponse
	err := retry.Do(func() error {
		return c.connector.DoRequest(ctx, http.MethodPost, c.config.StructuredEndpoint, req, &resp)
	}, c.retryOptions(ctx)...)
	if err != nil {
		ctxzap.Error(ctx, "failed structured generation", zap.Error(err))
		if common.IsTransient(err) {
			return nil, &entity.ServiceUnavailableError{Service: serviceName, Err: err}
		}
		return nil, fmt.Errorf("structured generate: %w", err)
	}

	if len(resp.Output) == 0 {
		return nil, fmt.Errorf("invalid structured response: empty or missing output field")
	}

	ctxzap.Info(ctx, "structured generation completed", zap.Int("output_length", len(resp.Output)))
	return resp.Output, nil
}

// Rerank re-scores retrieval candidates against the query with a more
// precise relevance model. Scores come back unsorted, indexed into the
// candidates slice.
func (c *Connector) Rerank(ctx context.Context, query string, candidates []string, topN int) ([]entity.RerankScore, error) {
	ctxzap.Debug(ctx, "reranking candidates",
		zap.Int("candidate_count", len(candidates)),
		zap.Int("top_n", topN),
	)

	req := &entity.RerankRequest{Query: query, Candidates: candidates, TopN: topN}

	var resp entity.RerankResponse
	err := retry.Do(func() error {
		return c.connector.DoRequest(ctx, http.MethodPost, c.config.RerankEndpoint, req, &resp)
	}, c.retryOptions(ctx)...)
	if err != nil {
		ctxzap.Error(ctx, "failed to rerank candidates", zap.Error(err))
		if common.IsTransient(err) {
			return nil, &entity.ServiceUnavailableError{Service: serviceName, Err: err}
		}
		return nil, fmt.Errorf("rerank: %w", err)
	}

	for _, s := range resp.Scores {
		if s.Index < 0 || s.Index >= len(candidates) {
			return nil, fmt.Errorf("rerank score references candidate %d out of %d", s.Index, len(candidates))
		}
	}

	return resp.Scores, nil
}

func (c *Connector) retryOptions(ctx context.Context) []retry.Option {
	return append(c.config.Retry.ToRetryOptions(),
		retry.Context(ctx),
		retry.RetryIf(common.IsTransient),
	)
}
