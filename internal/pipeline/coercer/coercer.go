package coercer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cardifyhq/cardify-backend/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// StructuredGenerator forces a generative model to emit a value
// conforming to a JSON schema.
type StructuredGenerator interface {
	StructuredGenerate(ctx context.Context, input string, schema json.RawMessage) (json.RawMessage, error)
}

// studySessionSchema is the fixed target shape: one description plus
// exactly ten question/answer cards. The schema-constrained call is the
// second enforcement layer; Coerce validates the output again before
// returning it.
var studySessionSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "description": {
      "type": "string",
      "description": "High-level summary of the given requirement for the session"
    },
    "cards": {
      "type": "array",
      "minItems": 10,
      "maxItems": 10,
      "items": {
        "type": "object",
        "properties": {
          "question": {"type": "string"},
          "answer": {"type": "string"}
        },
        "required": ["question", "answer"]
      },
      "description": "The questions and answers list of the study session"
    }
  },
  "required": ["description", "cards"]
}`)

// Coercer turns a free-text synthesized answer into a validated
// StudySessionResult.
type Coercer struct {
	generator StructuredGenerator
	logger    *zap.Logger
}

func NewCoercer(generator StructuredGenerator, logger *zap.Logger) *Coercer {
	return &Coercer{
		generator: generator,
		logger:    logger,
	}
}

// Coerce runs schema-constrained generation over freeText and validates
// the result. Any shape violation surfaces as SchemaViolationError: the
// card list is never padded, truncated or repaired.
func (c *Coercer) Coerce(ctx context.Context, freeText string) (*entity.StudySessionResult, error) {
	raw, err := c.generator.StructuredGenerate(ctx, freeText, studySessionSchema)
	if err != nil {
		return nil, err
	}

	result, err := validate(raw)
	if err != nil {
		ctxzap.Error(ctx, "structured output failed validation", zap.Error(err))
		return nil, err
	}

	ctxzap.Info(ctx, "structured output validated", zap.Int("card_count", len(result.Cards)))
	return result, nil
}

// probe mirrors StudySessionResult with pointer fields so missing keys
// are distinguishable from empty values.
type probe struct {
	Description *string `json:"description"`
	Cards       *[]struct {
		Question *string `json:"question"`
		Answer   *string `json:"answer"`
	} `json:"cards"`
}

func validate(raw json.RawMessage) (*entity.StudySessionResult, error) {
	var p probe
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, &entity.SchemaViolationError{Reason: fmt.Sprintf("output is not a valid structured object: %v", err)}
	}

	if p.Description == nil {
		return nil, &entity.SchemaViolationError{Reason: "missing description field"}
	}
	if strings.TrimSpace(*p.Description) == "" {
		return nil, &entity.SchemaViolationError{Reason: "description is empty"}
	}

	if p.Cards == nil {
		return nil, &entity.SchemaViolationError{Reason: "missing cards field"}
	}
	if got := len(*p.Cards); got != entity.StudySessionCardCount {
		return nil, &entity.SchemaViolationError{
			Reason: fmt.Sprintf("expected exactly %d cards, got %d", entity.StudySessionCardCount, got),
		}
	}

	result := &entity.StudySessionResult{
		Description: *p.Description,
		Cards:       make([]entity.StudyCard, 0, entity.StudySessionCardCount),
	}

	for i, card := range *p.Cards {
		if card.Question == nil || strings.TrimSpace(*card.Question) == "" {
			return nil, &entity.SchemaViolationError{Reason: fmt.Sprintf("card %d has a missing or empty question", i+1)}
		}
		if card.Answer == nil || strings.TrimSpace(*card.Answer) == "" {
			return nil, &entity.SchemaViolationError{Reason: fmt.Sprintf("card %d has a missing or empty answer", i+1)}
		}
		result.Cards = append(result.Cards, entity.StudyCard{
			Question: *card.Question,
			Answer:   *card.Answer,
		})
	}

	return result, nil
}
