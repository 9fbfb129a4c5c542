package ragqa

import (
	"fmt"
	"strings"
)

// groundingPrompt is the contract given to the LLM on every call. Its rules
// are observable behavior: the model must answer strictly from the retrieved
// context, refuse when the context is insufficient, and cite its sources.
const groundingPrompt = `You will be given a user's original question together with a set of context passages retrieved from a knowledge base.
Your task is to answer the question accurately, concisely and in an organized way, based only on the retrieved context.
Follow these rules strictly:
1. If the retrieved context contains enough information, answer by quoting or paraphrasing it. Do not add information it does not mention.
2. If the context is unrelated to the question or insufficient, reply exactly: "I don't know" or "I cannot answer that from the given information".
3. Never fabricate an answer. Even when you know the topic from general knowledge, you must rely on the given context alone.
4. Keep the answer objective and neutral; avoid speculation and assumptions.
5. Cite the source file of every statement you use.`

// Sentinel strings surfaced at the presentation boundary.
const (
	msgEmptyQuestion   = "please enter a question"
	msgNoContext       = "no retrieved information"
	msgRetrievalFailed = "retrieval failed"
	errPrefix          = "an error occurred: "
)

// FormatContext renders retrieved results into the context block shown to
// the LLM and to the user: one labeled file/content pair per result, blank
// lines between results, ranking order preserved. An empty result set yields
// an empty string.
func FormatContext(results []RetrievalResult) string {
	parts := make([]string, 0, len(results))
	for _, r := range results {
		parts = append(parts, fmt.Sprintf("File: %s\nContent: %s", r.FileName, r.Content))
	}
	return strings.Join(parts, "\n\n")
}

// userMessage combines the question with its retrieved context into the
// single user turn sent to the LLM.
func userMessage(question, contextBlock string) string {
	return fmt.Sprintf("Original question: %s\n\nRetrieved context:\n%s", question, contextBlock)
}
