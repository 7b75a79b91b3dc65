package llm

import (
	"context"
	"fmt"
	"os"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/Halcy0nic/Uplest/internal/core"
)

// GeminiEmbedder embeds texts with a Gemini embedding model. Index inserts use
// the RETRIEVAL_DOCUMENT task type; ForQueries returns the search-side twin.
type GeminiEmbedder struct {
	client    *genai.Client
	modelName string
	taskType  genai.TaskType
	owner     bool
}

func NewGeminiEmbedder(ctx context.Context, apiKey, modelName string) (*GeminiEmbedder, error) {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	if modelName == "" {
		modelName = "text-embedding-004"
	}
	return &GeminiEmbedder{
		client:    cl,
		modelName: modelName,
		taskType:  genai.TaskTypeRetrievalDocument,
		owner:     true,
	}, nil
}

// ForQueries shares the client but embeds with the RETRIEVAL_QUERY task type.
func (g *GeminiEmbedder) ForQueries() *GeminiEmbedder {
	return &GeminiEmbedder{client: g.client, modelName: g.modelName, taskType: genai.TaskTypeRetrievalQuery}
}

// Close releases the client; only the embedder that created it closes it.
func (g *GeminiEmbedder) Close() error {
	if g.client != nil && g.owner {
		return g.client.Close()
	}
	return nil
}

// EmbedTexts returns exactly one vector per text, in order. Texts go out in
// one batch request.
func (g *GeminiEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	em := g.client.EmbeddingModel(g.modelName)
	em.TaskType = g.taskType

	batch := em.NewBatch()
	for _, t := range texts {
		batch.AddContent(genai.Text(t))
	}

	resp, err := em.BatchEmbedContents(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("gemini batch embed: %w", err)
	}
	return embeddingValues(resp, len(texts))
}

func embeddingValues(resp *genai.BatchEmbedContentsResponse, want int) ([][]float32, error) {
	if resp == nil || len(resp.Embeddings) != want {
		got := 0
		if resp != nil {
			got = len(resp.Embeddings)
		}
		return nil, fmt.Errorf("gemini batch embed: got %d embeddings want %d", got, want)
	}
	out := make([][]float32, 0, want)
	for i, e := range resp.Embeddings {
		if e == nil || len(e.Values) == 0 {
			return nil, fmt.Errorf("gemini batch embed: empty embedding at %d", i)
		}
		out = append(out, e.Values)
	}
	return out, nil
}

var _ core.EmbeddingProvider = (*GeminiEmbedder)(nil)
