package parseservice

import (
	"context"

	"github.com/cardifyhq/cardify-backend/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector is a deterministic parse-service stand-in for local runs.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) ParseDocument(ctx context.Context, filename string, content []byte) ([]entity.Page, error) {
	ctxzap.Info(ctx, "[MOCK] parsing document", zap.String("filename", filename))

	pages := []entity.Page{
		{
			Number: 1,
			Markdown: "# Photosynthesis\n\n" +
				"Photosynthesis converts light energy into chemical energy stored in glucose. " +
				"The light-dependent reactions produce ATP and NADPH inside the thylakoid membrane, " +
				"while chlorophyll absorbs photons in the red and blue wavelengths.\n\n" +
				"## Calvin Cycle\n\n" +
				"The Calvin cycle fixes carbon dioxide into three-carbon sugars using the enzyme RuBisCO. " +
				"Each turn of the cycle consumes ATP and NADPH generated by the light reactions.\n",
		},
		{
			Number: 2,
			Markdown: "## Cellular Respiration\n\n" +
				"Glycolysis splits glucose into pyruvate, yielding a net gain of two ATP molecules. " +
				"The Krebs cycle and oxidative phosphorylation in the mitochondria produce the bulk of cellular ATP.\n\n" +
				"| Stage | Location | ATP Yield |\n" +
				"|-------|----------|-----------|\n" +
				"| Glycolysis | Cytoplasm | 2 |\n" +
				"| Krebs cycle | Mitochondria | 2 |\n" +
				"| Oxidative phosphorylation | Mitochondria | 34 |\n",
		},
	}

	ctxzap.Info(ctx, "[MOCK] document parsed", zap.Int("page_count", len(pages)))
	return pages, nil
}
