package ragqa

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatContext(t *testing.T) {
	results := []RetrievalResult{
		{FileName: "capital.json", Content: "Use-value is utility.", Score: 0.95},
		{FileName: "notes.txt", Content: "Exchange-value is a relation.", Score: 0.82},
	}
	got := FormatContext(results)
	want := "File: capital.json\nContent: Use-value is utility.\n\nFile: notes.txt\nContent: Exchange-value is a relation."
	assert.Equal(t, want, got)
}

func TestFormatContextEmpty(t *testing.T) {
	assert.Empty(t, FormatContext(nil))
	assert.Empty(t, FormatContext([]RetrievalResult{}))
}

func TestFormatContextPreservesRanking(t *testing.T) {
	results := []RetrievalResult{
		{FileName: "second.txt", Content: "lower score first in input", Score: 0.5},
		{FileName: "first.txt", Content: "appears as given", Score: 0.9},
	}
	got := FormatContext(results)
	// Input order is ranking order; FormatContext must not resort.
	assert.Less(t, strings.Index(got, "second.txt"), strings.Index(got, "first.txt"))
}

func TestUserMessage(t *testing.T) {
	got := userMessage("What is use-value?", "File: a.txt\nContent: b")
	assert.Equal(t, "Original question: What is use-value?\n\nRetrieved context:\nFile: a.txt\nContent: b", got)
}

func TestGroundingPromptRules(t *testing.T) {
	// The refusal phrases are observable behavior the composer relies on.
	assert.Contains(t, groundingPrompt, "I don't know")
	assert.Contains(t, groundingPrompt, "I cannot answer that from the given information")
	assert.Contains(t, groundingPrompt, "Never fabricate")
	assert.Contains(t, groundingPrompt, "Cite the source file")
}
