package coercer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cardifyhq/cardify-backend/internal/entity"
)

type cannedGenerator struct {
	output json.RawMessage
	err    error
}

func (g cannedGenerator) StructuredGenerate(ctx context.Context, input string, schema json.RawMessage) (json.RawMessage, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.output, nil
}

func validOutput(cards int) json.RawMessage {
	items := make([]string, 0, cards)
	for i := 0; i < cards; i++ {
		items = append(items, fmt.Sprintf(`{"question":"Q%d?","answer":"A%d."}`, i+1, i+1))
	}
	return json.RawMessage(fmt.Sprintf(
		`{"description":"Cell biology basics","cards":[%s]}`,
		strings.Join(items, ","),
	))
}

func TestCoerceValidOutput(t *testing.T) {
	c := NewCoercer(cannedGenerator{output: validOutput(10)}, zap.NewNop())

	result, err := c.Coerce(context.Background(), "synthesized text")
	require.NoError(t, err)
	assert.Equal(t, "Cell biology basics", result.Description)
	require.Len(t, result.Cards, entity.StudySessionCardCount)
	assert.Equal(t, "Q1?", result.Cards[0].Question)
	assert.Equal(t, "A10.", result.Cards[9].Answer)
}

func TestCoerceSchemaViolations(t *testing.T) {
	cases := []struct {
		name   string
		output json.RawMessage
	}{
		{"not json", json.RawMessage(`here are your cards!`)},
		{"missing description", json.RawMessage(`{"cards":[]}`)},
		{"empty description", json.RawMessage(`{"description":"  ","cards":[]}`)},
		{"missing cards", json.RawMessage(`{"description":"d"}`)},
		{"too few cards", validOutput(9)},
		{"too many cards", validOutput(11)},
		{"empty question", json.RawMessage(`{"description":"d","cards":[` +
			strings.Repeat(`{"question":"q","answer":"a"},`, 9) +
			`{"question":"","answer":"a"}]}`)},
		{"missing answer", json.RawMessage(`{"description":"d","cards":[` +
			strings.Repeat(`{"question":"q","answer":"a"},`, 9) +
			`{"question":"q"}]}`)},
		{"non-string question", json.RawMessage(`{"description":"d","cards":[` +
			strings.Repeat(`{"question":"q","answer":"a"},`, 9) +
			`{"question":42,"answer":"a"}]}`)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewCoercer(cannedGenerator{output: tc.output}, zap.NewNop())

			result, err := c.Coerce(context.Background(), "text")
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, entity.IsSchemaViolationError(err), "error must be a schema violation, got %v", err)
		})
	}
}

func TestCoercePropagatesGeneratorError(t *testing.T) {
	genErr := &entity.ServiceUnavailableError{Service: "generation", Err: errors.New("timeout")}
	c := NewCoercer(cannedGenerator{err: genErr}, zap.NewNop())

	_, err := c.Coerce(context.Background(), "text")
	require.Error(t, err)
	assert.True(t, entity.IsServiceUnavailableError(err))
	assert.False(t, entity.IsSchemaViolationError(err), "transport failures are not schema violations")
}
