package download

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cardifyhq/cardify-backend/internal/entity"
	pkghttp "github.com/cardifyhq/cardify-backend/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Connector retrieves remote document artifacts. Unlike the service
// connectors it has no base URL; every call carries an absolute URL.
type Connector struct {
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(timeout time.Duration, logger *zap.Logger) *Connector {
	conn := pkghttp.NewConnector(
		&pkghttp.ConnectorConfig{Logger: logger},
		pkghttp.WithRequestTimeout(timeout),
		pkghttp.WithRequestLogging(),
	)

	return &Connector{
		connector: conn,
		logger:    logger,
	}
}

// Download fetches the document bytes at url. Any failure maps to
// entity.RetrievalError; a non-2xx status carries the status code.
func (c *Connector) Download(ctx context.Context, url string) ([]byte, error) {
	ctxzap.Info(ctx, "downloading remote document", zap.String("url", url))

	data, err := c.connector.DoRawRequest(ctx, http.MethodGet, "", pkghttp.WithURL(url))
	if err != nil {
		ctxzap.Error(ctx, "download failed", zap.Error(err))

		var httpErr *pkghttp.HTTPError
		if errors.As(err, &httpErr) {
			return nil, &entity.RetrievalError{URL: url, StatusCode: httpErr.StatusCode}
		}
		return nil, &entity.RetrievalError{URL: url, Err: err}
	}

	ctxzap.Info(ctx, "document downloaded", zap.Int("size_bytes", len(data)))
	return data, nil
}
