package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/Halcy0nic/Uplest/internal/core"
	"github.com/Halcy0nic/Uplest/internal/models"
)

// OllamaClient talks to a local Ollama server for captions, embeddings and answers.
type OllamaClient struct {
	client       *api.Client
	captionModel string
	embedModel   string
	genModel     string
	genTimeout   time.Duration
}

type OllamaOptions struct {
	BaseURL      string
	CaptionModel string
	EmbedModel   string
	GenModel     string
	GenTimeout   time.Duration
	HTTPClient   *http.Client
}

func NewOllamaClient(opts OllamaOptions) (*OllamaClient, error) {
	if opts.BaseURL == "" {
		opts.BaseURL = "http://localhost:11434"
	}
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid ollama url %q: %w", opts.BaseURL, err)
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.CaptionModel == "" {
		opts.CaptionModel = "llava"
	}
	if opts.EmbedModel == "" {
		opts.EmbedModel = "nomic-embed-text"
	}
	if opts.GenModel == "" {
		opts.GenModel = "mistral"
	}
	if opts.GenTimeout <= 0 {
		opts.GenTimeout = 30 * time.Second
	}
	return &OllamaClient{
		client:       api.NewClient(base, opts.HTTPClient),
		captionModel: opts.CaptionModel,
		embedModel:   opts.EmbedModel,
		genModel:     opts.GenModel,
		genTimeout:   opts.GenTimeout,
	}, nil
}

// Caption sends one image with the caption prompt. The image travels base64-encoded.
func (o *OllamaClient) Caption(ctx context.Context, image []byte, label string) (models.Record, error) {
	text, err := o.generate(ctx, &api.GenerateRequest{
		Model:  o.captionModel,
		Prompt: CaptionPrompt,
		Images: []api.ImageData{image},
	})
	if err != nil {
		return models.Record{}, fmt.Errorf("ollama caption %s: %w", label, err)
	}
	return captionRecord(label, text), nil
}

// EmbedTexts issues one embed call per text.
func (o *OllamaClient) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		resp, err := o.client.Embed(ctx, &api.EmbedRequest{Model: o.embedModel, Input: t})
		if err != nil {
			return nil, fmt.Errorf("ollama embed: %w", err)
		}
		if len(resp.Embeddings) != 1 {
			return nil, fmt.Errorf("ollama embed: got %d embeddings want 1", len(resp.Embeddings))
		}
		out = append(out, resp.Embeddings[0])
	}
	return out, nil
}

func (o *OllamaClient) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.genTimeout)
	defer cancel()

	return o.generate(ctx, &api.GenerateRequest{
		Model:  o.genModel,
		System: systemPrompt,
		Prompt: userPrompt,
	})
}

func (o *OllamaClient) generate(ctx context.Context, req *api.GenerateRequest) (string, error) {
	stream := false
	req.Stream = &stream

	var b strings.Builder
	err := o.client.Generate(ctx, req, func(r api.GenerateResponse) error {
		b.WriteString(r.Response)
		return nil
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

var (
	_ core.ImageCaptioner    = (*OllamaClient)(nil)
	_ core.EmbeddingProvider = (*OllamaClient)(nil)
	_ core.LLMProvider       = (*OllamaClient)(nil)
)
