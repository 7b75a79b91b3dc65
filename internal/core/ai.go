package core

import (
	"context"

	"github.com/Halcy0nic/Uplest/internal/models"
)

type EmbeddingProvider interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

type LLMProvider interface {
	Generate(ctx context.Context, systemPrompt string, userPrompt string) (string, error)
}

// ImageCaptioner turns raw image bytes into a described record labeled with
// the document the image came from.
type ImageCaptioner interface {
	Caption(ctx context.Context, image []byte, label string) (models.Record, error)
}
