// Command ragqa serves the question-answering web form: one page, one POST
// endpoint, answers rendered next to the retrieved context they were
// grounded on.
package main

import (
	"context"
	"flag"
	"fmt"
	"html/template"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/lcasas/ragqa"
	"github.com/lcasas/ragqa/config"
	"github.com/lcasas/ragqa/rag"
	"github.com/lcasas/ragqa/rag/providers"
)

var exampleQuestions = []string{
	"What is the use-value of a commodity?",
	"What is exchange-value?",
	"What is the twofold character of labour?",
	"What should I have for dinner tonight?",
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>RAG Q&amp;A</title>
<style>
body { font-family: sans-serif; max-width: 56rem; margin: 2rem auto; padding: 0 1rem; }
textarea { width: 100%; }
pre { white-space: pre-wrap; background: #f6f6f6; padding: 1rem; }
.examples a { margin-right: 1rem; }
</style>
</head>
<body>
<h1>RAG Q&amp;A</h1>
<p>Ask a question and get an answer grounded in the knowledge base.</p>
<form method="POST" action="/">
<textarea name="question" rows="3" placeholder="Type your question here">{{.Question}}</textarea>
<p><button type="submit">Submit</button></p>
</form>
<p class="examples">Examples:
{{range .Examples}}<a href="/?q={{.}}">{{.}}</a>{{end}}
</p>
{{if .Answer}}
<h2>Answer</h2>
<pre>{{.Answer}}</pre>
<details>
<summary>Retrieved context</summary>
<pre>{{.Retrieved}}</pre>
</details>
{{end}}
</body>
</html>
`))

type pageData struct {
	Question  string
	Answer    string
	Retrieved string
	Examples  []string
}

type server struct {
	composer *ragqa.Composer
}

func (s *server) handle(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	data := pageData{Examples: exampleQuestions}
	switch r.Method {
	case http.MethodGet:
		data.Question = r.URL.Query().Get("q")
		if data.Question != "" {
			data.Answer, data.Retrieved = s.composer.Answer(r.Context(), data.Question)
		}
	case http.MethodPost:
		data.Question = r.FormValue("question")
		data.Answer, data.Retrieved = s.composer.Answer(r.Context(), data.Question)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		ragqa.Error("failed to render page", "error", err)
	}
}

func run() error {
	_ = godotenv.Load()

	port := flag.Int("port", 0, "listen port (overrides config)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	ragqa.SetLogLevel(cfg.LogLevel)
	if *port != 0 {
		cfg.Port = *port
	}

	apiKey, err := cfg.APIKey()
	if err != nil {
		return err
	}

	store, err := rag.OpenStore(cfg.StoreConfig())
	if err != nil {
		return err
	}
	ctx := context.Background()
	if err := store.Connect(ctx); err != nil {
		return err
	}
	defer store.Close()

	embedder, err := providers.Get(cfg.EmbeddingProvider, providers.Config{
		APIKey:  apiKey,
		Model:   cfg.EmbeddingModel,
		BaseURL: cfg.BaseURL,
	})
	if err != nil {
		return err
	}

	retriever, err := ragqa.NewRetriever(store, embedder,
		ragqa.WithTopK(cfg.AnswerTopK),
		ragqa.WithMinScore(cfg.MinScore),
	)
	if err != nil {
		return err
	}

	llm, err := ragqa.NewChatLLM(ragqa.ChatConfig{
		APIKey:      apiKey,
		Model:       cfg.LLMModel,
		BaseURL:     cfg.BaseURL,
		Temperature: cfg.Temperature,
	})
	if err != nil {
		return err
	}

	srv := &server{composer: ragqa.NewComposer(retriever, llm)}
	http.HandleFunc("/", srv.handle)

	addr := fmt.Sprintf(":%d", cfg.Port)
	ragqa.Info("serving", "addr", addr, "store", cfg.StoreType, "collection", cfg.Collection)
	return http.ListenAndServe(addr, nil)
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "ragqa: %v\n", err)
		os.Exit(1)
	}
}
