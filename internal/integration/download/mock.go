package download

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector serves a tiny fixed artifact instead of hitting the network.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) Download(ctx context.Context, url string) ([]byte, error) {
	ctxzap.Info(ctx, "[MOCK] downloading remote document", zap.String("url", url))
	return []byte("%PDF-1.4 mock document"), nil
}
