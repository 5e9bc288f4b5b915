package embedding

import (
	"context"
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

const serviceName = "embedding"

// Connector talks to the embedding service.
type Connector struct {
	config    config.EmbeddingConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.EmbeddingConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// Embed computes the embedding vector for a single text.
func (c *Connector) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch computes embedding vectors for several texts in one call.
// The response preserves input order.
func (c *Connector) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	ctxzap.Debug(ctx, "computing embeddings", zap.Int("input_count", len(texts)))

	req := &entity.EmbedRequest{Input: texts}

	var resp entity.EmbedResponse
	err := retry.Do(func() error {
		return c.connector.DoRequest(ctx, http.MethodPost, c.config.EmbedEndpoint, req, &resp)
	}, c.retryOptions(ctx)...)
	if err != nil {
		ctxzap.Error(ctx, "failed to compute embeddings", zap.Error(err))
		if common.IsTransient(err) {
			return nil, &entity.ServiceUnavailableError{Service: serviceName, Err: err}
		}
		return nil, fmt.Errorf("embed batch: %w", err)
	}

	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: sent %d texts, got %d vectors",
			len(texts), len(resp.Embeddings))
	}

	return resp.Embeddings, nil
}

func (c *Connector) retryOptions(ctx context.Context) []retry.Option {
	return append(c.config.Retry.ToRetryOptions(),
		retry.Context(ctx),
		retry.RetryIf(common.IsTransient),
	)
}
