// Package ragqa implements a retrieval-augmented question answering
// pipeline: documents are embedded into a local vector store at ingestion
// time; at query time the question is embedded, the nearest chunks above a
// similarity threshold are retrieved, and a grounded prompt built from them
// is sent to an LLM for a single synchronous answer.
//
// The pipeline has three moving parts, composed explicitly by the caller:
//
//	Ingestor  — embeds text or JSON/file sources and appends them to the store
//	Retriever — question → top-k nearest chunks above a minimum score
//	Composer  — question → grounded answer plus the retrieved context
//
// All external services (embedder, vector store, LLM) are injected, which
// keeps the pipeline free of hidden globals and easy to test with fakes.
package ragqa

// RetrievalResult is one retrieved chunk, already mapped from the store's
// native payload into display names.
type RetrievalResult struct {
	FileName string  `json:"file_name"`
	Content  string  `json:"content"`
	Score    float64 `json:"score"`
}

// Answer pairs the LLM's response with the retrieved chunks it was grounded
// on, in ranking order.
type Answer struct {
	Text    string            `json:"text"`
	Sources []RetrievalResult `json:"sources"`
}
