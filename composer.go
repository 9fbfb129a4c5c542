package ragqa

import (
	"context"
	"strings"

	"github.com/lcasas/ragqa/rag"
)

// Searcher is the retrieval contract the composer depends on. *Retriever
// satisfies it; tests substitute fakes.
type Searcher interface {
	Search(ctx context.Context, question string) ([]RetrievalResult, error)
}

// Composer turns a question into a grounded answer: retrieve context, build
// the grounding prompt, make one synchronous LLM call.
type Composer struct {
	searcher Searcher
	llm      LLM
}

// NewComposer wires a composer from its two collaborators.
func NewComposer(searcher Searcher, llm LLM) *Composer {
	return &Composer{searcher: searcher, llm: llm}
}

// Compose runs the full pipeline and returns the typed result: the answer
// with its sources and the formatted context block. Errors carry a
// rag.Kind so callers can tell validation from configuration and service
// failures.
func (c *Composer) Compose(ctx context.Context, question string) (Answer, string, error) {
	if strings.TrimSpace(question) == "" {
		return Answer{}, "", rag.Errorf(rag.KindValidation, "ragqa.Compose", "question is empty")
	}

	results, err := c.searcher.Search(ctx, question)
	if err != nil {
		return Answer{}, "", err
	}

	// An empty context block is deliberate: the grounding prompt instructs
	// the model to answer "I don't know" when the context is insufficient.
	contextBlock := FormatContext(results)
	if contextBlock == "" {
		rag.GlobalLogger.Info("no context cleared the threshold", "question", question)
	}

	text, err := c.llm.Complete(ctx, groundingPrompt, userMessage(question, contextBlock))
	if err != nil {
		return Answer{}, "", err
	}
	return Answer{Text: text, Sources: results}, contextBlock, nil
}

// Answer is the presentation-facing boundary. It never returns an error:
// a blank question yields the fixed sentinel pair without touching the
// store or the LLM, and any pipeline failure is converted into a
// user-visible error string paired with the "retrieval failed" sentinel.
// Either both values are real output or both are sentinels.
func (c *Composer) Answer(ctx context.Context, question string) (answerText, retrievedInfo string) {
	if strings.TrimSpace(question) == "" {
		return msgEmptyQuestion, msgNoContext
	}
	answer, contextBlock, err := c.Compose(ctx, question)
	if err != nil {
		rag.GlobalLogger.Error("pipeline failure", "kind", rag.KindOf(err), "error", err)
		return errPrefix + err.Error(), msgRetrievalFailed
	}
	return answer.Text, contextBlock
}
