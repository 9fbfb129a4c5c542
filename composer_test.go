package ragqa

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcasas/ragqa/rag"
)

type fakeSearcher struct {
	results []RetrievalResult
	err     error
	calls   int
}

func (s *fakeSearcher) Search(ctx context.Context, question string) ([]RetrievalResult, error) {
	s.calls++
	return s.results, s.err
}

type fakeLLM struct {
	reply      string
	err        error
	calls      int
	lastSystem string
	lastUser   string
}

func (l *fakeLLM) Complete(ctx context.Context, systemPrompt, userMsg string) (string, error) {
	l.calls++
	l.lastSystem = systemPrompt
	l.lastUser = userMsg
	return l.reply, l.err
}

func TestComposeGrounded(t *testing.T) {
	searcher := &fakeSearcher{results: []RetrievalResult{
		{FileName: "capital.json", Content: "Use-value is the utility of a thing.", Score: 0.91},
		{FileName: "capital.json", Content: "Exchange-value is a quantitative relation.", Score: 0.85},
	}}
	llm := &fakeLLM{reply: "Use-value is the utility of a commodity. (capital.json)"}
	composer := NewComposer(searcher, llm)

	answer, contextBlock, err := composer.Compose(context.Background(), "What is use-value?")
	require.NoError(t, err)

	assert.Equal(t, llm.reply, answer.Text)
	assert.Equal(t, searcher.results, answer.Sources)
	assert.Equal(t, 1, searcher.calls)
	assert.Equal(t, 1, llm.calls, "exactly one LLM call per question")

	// The context block shown to the user is the same one sent to the model.
	assert.Contains(t, contextBlock, "File: capital.json")
	assert.Contains(t, contextBlock, "Use-value is the utility of a thing.")
	assert.Contains(t, llm.lastUser, contextBlock)
	assert.Contains(t, llm.lastUser, "What is use-value?")
	assert.Contains(t, llm.lastSystem, "I don't know")
}

func TestComposeEmptyQuestion(t *testing.T) {
	searcher := &fakeSearcher{}
	llm := &fakeLLM{}
	composer := NewComposer(searcher, llm)

	_, _, err := composer.Compose(context.Background(), "  \t ")
	require.Error(t, err)
	assert.Equal(t, rag.KindValidation, rag.KindOf(err))
	assert.Zero(t, searcher.calls)
	assert.Zero(t, llm.calls)
}

func TestComposeEmptyContextStillCallsLLM(t *testing.T) {
	// No result cleared the threshold: the model is still asked, with an
	// empty context block, and the grounding rules make it refuse.
	searcher := &fakeSearcher{}
	llm := &fakeLLM{reply: "I don't know"}
	composer := NewComposer(searcher, llm)

	answer, contextBlock, err := composer.Compose(context.Background(), "What's for dinner?")
	require.NoError(t, err)

	assert.Empty(t, contextBlock)
	assert.Equal(t, 1, llm.calls)
	assert.Equal(t, "I don't know", answer.Text)
	assert.True(t, strings.HasSuffix(llm.lastUser, "Retrieved context:\n"))
}

func TestComposeSearchFailure(t *testing.T) {
	searcher := &fakeSearcher{err: rag.Errorf(rag.KindService, "ragqa.Search", "store down")}
	llm := &fakeLLM{}
	composer := NewComposer(searcher, llm)

	_, _, err := composer.Compose(context.Background(), "q")
	require.Error(t, err)
	assert.Equal(t, rag.KindService, rag.KindOf(err))
	assert.Zero(t, llm.calls, "no LLM call when retrieval fails")
}

func TestAnswerBlankQuestionSentinels(t *testing.T) {
	searcher := &fakeSearcher{}
	llm := &fakeLLM{}
	composer := NewComposer(searcher, llm)

	answerText, retrieved := composer.Answer(context.Background(), "")
	assert.Equal(t, "please enter a question", answerText)
	assert.Equal(t, "no retrieved information", retrieved)
	assert.Zero(t, searcher.calls, "blank question must not reach retrieval")
	assert.Zero(t, llm.calls, "blank question must not reach the LLM")
}

func TestAnswerFailureSentinels(t *testing.T) {
	searcher := &fakeSearcher{err: errors.New("embedding quota exceeded")}
	composer := NewComposer(searcher, &fakeLLM{})

	answerText, retrieved := composer.Answer(context.Background(), "q")
	assert.True(t, strings.HasPrefix(answerText, "an error occurred: "))
	assert.Contains(t, answerText, "embedding quota exceeded")
	assert.Equal(t, "retrieval failed", retrieved)
}

func TestAnswerLLMFailureSentinels(t *testing.T) {
	searcher := &fakeSearcher{results: []RetrievalResult{
		{FileName: "a.txt", Content: "something", Score: 0.9},
	}}
	llm := &fakeLLM{err: errors.New("model timeout")}
	composer := NewComposer(searcher, llm)

	answerText, retrieved := composer.Answer(context.Background(), "q")
	assert.True(t, strings.HasPrefix(answerText, "an error occurred: "))
	assert.Equal(t, "retrieval failed", retrieved)
}

func TestAnswerSuccess(t *testing.T) {
	searcher := &fakeSearcher{results: []RetrievalResult{
		{FileName: "capital.json", Content: "the passage", Score: 0.9},
	}}
	llm := &fakeLLM{reply: "a grounded answer"}
	composer := NewComposer(searcher, llm)

	answerText, retrieved := composer.Answer(context.Background(), "q")
	assert.Equal(t, "a grounded answer", answerText)
	assert.Contains(t, retrieved, "File: capital.json")
	assert.Contains(t, retrieved, "the passage")
}
