package rag

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// Chunk is a sentence-aligned slice of a document, sized in tokens.
type Chunk struct {
	Text          string
	TokenSize     int
	StartSentence int
	EndSentence   int
}

// Chunker splits text into chunks suitable for embedding.
type Chunker interface {
	Chunk(text string) []Chunk
}

// TokenCounter counts tokens in a string. Implementations range from
// whitespace word counting to model-exact subword tokenization.
type TokenCounter interface {
	Count(text string) int
}

// TextChunker builds overlapping chunks along sentence boundaries.
type TextChunker struct {
	ChunkSize        int
	ChunkOverlap     int
	TokenCounter     TokenCounter
	SentenceSplitter func(string) []string
}

// TextChunkerOption configures a TextChunker.
type TextChunkerOption func(*TextChunker)

// ChunkSize sets the target chunk size in tokens.
func ChunkSize(size int) TextChunkerOption {
	return func(tc *TextChunker) { tc.ChunkSize = size }
}

// ChunkOverlap sets how many tokens adjacent chunks share.
func ChunkOverlap(overlap int) TextChunkerOption {
	return func(tc *TextChunker) { tc.ChunkOverlap = overlap }
}

// WithTokenCounter replaces the default word counter.
func WithTokenCounter(counter TokenCounter) TextChunkerOption {
	return func(tc *TextChunker) { tc.TokenCounter = counter }
}

// WithSentenceSplitter replaces the default sentence splitter.
func WithSentenceSplitter(split func(string) []string) TextChunkerOption {
	return func(tc *TextChunker) { tc.SentenceSplitter = split }
}

// NewTextChunker returns a chunker with 200-token chunks, 50-token overlap,
// word-based counting and punctuation sentence splitting unless configured
// otherwise.
func NewTextChunker(opts ...TextChunkerOption) (*TextChunker, error) {
	tc := &TextChunker{
		ChunkSize:        200,
		ChunkOverlap:     50,
		TokenCounter:     &WordTokenCounter{},
		SentenceSplitter: SplitSentences,
	}
	for _, opt := range opts {
		opt(tc)
	}
	if tc.ChunkSize <= 0 {
		return nil, Errorf(KindConfig, "rag.NewTextChunker", "chunk size must be positive, got %d", tc.ChunkSize)
	}
	if tc.ChunkOverlap < 0 || tc.ChunkOverlap >= tc.ChunkSize {
		return nil, Errorf(KindConfig, "rag.NewTextChunker", "overlap %d must be in [0, chunk size)", tc.ChunkOverlap)
	}
	return tc, nil
}

// Chunk splits text into sentence-aligned chunks. A new chunk starts when
// adding the next sentence would exceed ChunkSize; the tail sentences of the
// previous chunk are carried over until roughly ChunkOverlap tokens repeat.
func (tc *TextChunker) Chunk(text string) []Chunk {
	sentences := tc.SentenceSplitter(text)
	var chunks []Chunk
	var current Chunk
	tokens := 0

	for i, sentence := range sentences {
		n := tc.TokenCounter.Count(sentence)
		if tokens+n > tc.ChunkSize && tokens > 0 {
			chunks = append(chunks, current)
			start := max(current.StartSentence, current.EndSentence-tc.overlapSentences(sentences, current.EndSentence))
			current = Chunk{
				Text:          strings.Join(sentences[start:i+1], " "),
				StartSentence: start,
				EndSentence:   i + 1,
			}
			tokens = 0
			for j := start; j <= i; j++ {
				tokens += tc.TokenCounter.Count(sentences[j])
			}
		} else {
			if tokens == 0 {
				current.StartSentence = i
			}
			current.Text += sentence + " "
			current.EndSentence = i + 1
			tokens += n
		}
		current.TokenSize = tokens
	}
	if current.TokenSize > 0 {
		current.Text = strings.TrimSpace(current.Text)
		chunks = append(chunks, current)
	}
	return chunks
}

// overlapSentences counts how many trailing sentences cover ChunkOverlap
// tokens.
func (tc *TextChunker) overlapSentences(sentences []string, end int) int {
	covered := 0
	n := 0
	for i := end - 1; i >= 0 && covered < tc.ChunkOverlap; i-- {
		covered += tc.TokenCounter.Count(sentences[i])
		n++
	}
	return n
}

// SplitSentences splits on terminal punctuation, keeping quoted sentences
// together and trimming surrounding whitespace.
func SplitSentences(text string) []string {
	var sentences []string
	var current strings.Builder
	inQuote := false

	for _, r := range text {
		current.WriteRune(r)
		if r == '"' {
			inQuote = !inQuote
		}
		if (r == '.' || r == '!' || r == '?') && !inQuote {
			if s := strings.TrimSpace(current.String()); s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// WordTokenCounter approximates tokens by whitespace-separated words.
type WordTokenCounter struct{}

func (WordTokenCounter) Count(text string) int {
	return len(strings.Fields(text))
}

// TikTokenCounter counts tokens exactly as OpenAI models do, via tiktoken.
type TikTokenCounter struct {
	tke *tiktoken.Tiktoken
}

// NewTikTokenCounter builds a counter for the given encoding, e.g.
// "cl100k_base" for the GPT-4 family.
func NewTikTokenCounter(encoding string) (*TikTokenCounter, error) {
	tke, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to get encoding: %w", err)
	}
	return &TikTokenCounter{tke: tke}, nil
}

func (c *TikTokenCounter) Count(text string) int {
	return len(c.tke.Encode(text, nil, nil))
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
