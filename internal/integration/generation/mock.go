package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cardifyhq/cardify-backend/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector is a deterministic generation-service stand-in. Its output
// is always schema-valid and built from the vocabulary of its input, so
// end-to-end runs stay grounded without a real model.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) Synthesize(ctx context.Context, query, context_ string) (string, error) {
	ctxzap.Info(ctx, "[MOCK] synthesizing answer")

	keywords := extractKeywords(context_, 2*entity.StudySessionCardCount)
	var sb strings.Builder
	sb.WriteString("Key terms: ")
	sb.WriteString(strings.Join(keywords, ", "))
	sb.WriteString(".\n\n")
	sb.WriteString(context_)

	return sb.String(), nil
}

func (m *MockConnector) StructuredGenerate(ctx context.Context, input string, schema json.RawMessage) (json.RawMessage, error) {
	ctxzap.Info(ctx, "[MOCK] running schema-constrained generation")

	keywords := extractKeywords(input, entity.StudySessionCardCount)

	result := entity.StudySessionResult{
		Description: "Key terms",
		Cards:       make([]entity.StudyCard, 0, entity.StudySessionCardCount),
	}
	if len(keywords) > 0 {
		result.Description = "Key terms: " + keywords[0]
	}

	for i := 0; i < entity.StudySessionCardCount; i++ {
		keyword := "the document"
		if len(keywords) > 0 {
			keyword = keywords[i%len(keywords)]
		}
		result.Cards = append(result.Cards, entity.StudyCard{
			Question: fmt.Sprintf("What does the text say about %s?", keyword),
			Answer:   fmt.Sprintf("The text mentions %s as a key term of the studied material.", keyword),
		})
	}

	out, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("marshal mock result: %w", err)
	}

	ctxzap.Info(ctx, "[MOCK] structured generation completed", zap.Int("card_count", len(result.Cards)))
	return out, nil
}

func (m *MockConnector) Rerank(ctx context.Context, query string, candidates []string, topN int) ([]entity.RerankScore, error) {
	ctxzap.Debug(ctx, "[MOCK] reranking candidates", zap.Int("candidate_count", len(candidates)))

	n := len(candidates)
	if topN < n {
		n = topN
	}

	// Preserve the incoming order with strictly decreasing scores.
	scores := make([]entity.RerankScore, 0, n)
	for i := 0; i < n; i++ {
		scores = append(scores, entity.RerankScore{
			Index: i,
			Score: 1.0 - float64(i)/float64(len(candidates)+1),
		})
	}

	return scores, nil
}

// extractKeywords picks distinctive lowercase tokens from the text,
// longest first, de-duplicated, up to max entries.
func extractKeywords(text string, max int) []string {
	seen := make(map[string]struct{})
	var keywords []string

	for _, token := range strings.Fields(strings.ToLower(text)) {
		token = strings.Trim(token, ".,;:!?()[]{}\"'|#*-")
		if len(token) < 6 {
			continue
		}
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		keywords = append(keywords, token)
		if len(keywords) >= max {
			break
		}
	}

	return keywords
}
