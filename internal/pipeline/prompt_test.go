package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildCardPromptEmbedsRequirement(t *testing.T) {
	prompt := buildCardPrompt("the Krebs cycle")
	assert.Contains(t, prompt, "```the Krebs cycle```")
}

func TestBuildCardPromptFallsBackToGenericFocus(t *testing.T) {
	for _, requirement := range []string{"", "   ", "\n\t"} {
		prompt := buildCardPrompt(requirement)
		assert.Contains(t, prompt, "```"+genericFocus+"```")
		assert.NotContains(t, prompt, "``````", "delimited focus must never be empty")
	}
}
