package llm

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/Halcy0nic/Uplest/internal/core"
	"github.com/Halcy0nic/Uplest/internal/models"
)

// GeminiLLM answers questions and captions images with a multimodal Gemini model.
type GeminiLLM struct {
	client    *genai.Client
	modelName string
}

func NewGeminiLLM(ctx context.Context, apiKey, modelName string) (*GeminiLLM, error) {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	return &GeminiLLM{client: cl, modelName: modelName}, nil
}

func (g *GeminiLLM) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

func (g *GeminiLLM) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	m := g.client.GenerativeModel(g.modelName)
	if systemPrompt != "" {
		m.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(systemPrompt)},
		}
	}

	resp, err := m.GenerateContent(ctx, genai.Text(userPrompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return responseText(resp), nil
}

// Caption sends the image inline ahead of the caption prompt.
func (g *GeminiLLM) Caption(ctx context.Context, image []byte, label string) (models.Record, error) {
	m := g.client.GenerativeModel(g.modelName)

	resp, err := m.GenerateContent(ctx, genai.ImageData(imageFormat(image), image), genai.Text(CaptionPrompt))
	if err != nil {
		return models.Record{}, fmt.Errorf("gemini caption %s: %w", label, err)
	}
	return captionRecord(label, responseText(resp)), nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if t, ok := p.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String()
}

// imageFormat sniffs the subtype genai expects ("png", "jpeg", ...).
func imageFormat(data []byte) string {
	ct := http.DetectContentType(data)
	if f, ok := strings.CutPrefix(ct, "image/"); ok {
		return f
	}
	return "jpeg"
}

var (
	_ core.LLMProvider    = (*GeminiLLM)(nil)
	_ core.ImageCaptioner = (*GeminiLLM)(nil)
)
