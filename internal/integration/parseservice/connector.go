package parseservice

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/avast/retry-go/v4"
	"github.com/cardifyhq/cardify-backend/internal/config"
	"github.com/cardifyhq/cardify-backend/internal/entity"
	"github.com/cardifyhq/cardify-backend/internal/integration/common"
	pkghttp "github.com/cardifyhq/cardify-backend/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const serviceName = "parse"

// Connector talks to the hosted document parsing service, which converts
// raw document bytes (PDF in the primary case) into markdown per page.
type Connector struct {
	config    config.ParseConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.ParseConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// ParseDocument uploads the document and returns its markdown pages.
// POST {parse_endpoint} with multipart/form-data
func (c *Connector) ParseDocument(ctx context.Context, filename string, content []byte) ([]entity.Page, error) {
	ctxzap.Info(ctx, "parsing document via parse service",
		zap.String("filename", filename),
		zap.Int("size_bytes", len(content)),
	)

	prepareBody := func(writer *multipart.Writer) error {
		part, err := writer.CreateFormFile("file", filename)
		if err != nil {
			return fmt.Errorf("create form file: %w", err)
		}

		if _, err := part.Write(content); err != nil {
			return fmt.Errorf("write file content: %w", err)
		}

		if err := writer.WriteField("result_type", "markdown"); err != nil {
			return fmt.Errorf("write result_type field: %w", err)
		}
		return nil
	}

	var resp entity.ParseDocumentResponse
	err := retry.Do(func() error {
		return c.connector.DoMultipartRequest(ctx, http.MethodPost, c.config.ParseEndpoint, prepareBody, &resp)
	}, c.retryOptions(ctx)...)
	if err != nil {
		ctxzap.Error(ctx, "failed to parse document", zap.Error(err))
		if common.IsTransient(err) {
			return nil, &entity.ServiceUnavailableError{Service: serviceName, Err: err}
		}
		return nil, fmt.Errorf("parse document: %w", err)
	}

	pages := make([]entity.Page, 0, len(resp.Pages))
	for _, p := range resp.Pages {
		pages = append(pages, entity.Page{Number: p.Page, Markdown: p.Markdown})
	}

	ctxzap.Info(ctx, "document parsed successfully", zap.Int("page_count", len(pages)))
	return pages, nil
}

func (c *Connector) retryOptions(ctx context.Context) []retry.Option {
	return append(c.config.Retry.ToRetryOptions(),
		retry.Context(ctx),
		retry.RetryIf(common.IsTransient),
	)
}
