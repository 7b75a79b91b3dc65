package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Halcy0nic/Uplest/internal/core"
	"github.com/Halcy0nic/Uplest/internal/models"
)

const (
	DefaultTopK = 5
	MaxTopK     = 50
)

const groundingPrompt = "You are an intelligent assistant answering based only on the given document content. If unsure, say 'I cannot find this in the document.'"

var ErrEmptyQuery = errors.New("query is empty")

type SearchService struct {
	embedder core.EmbeddingProvider
	store    core.VectorStore
	llm      core.LLMProvider
}

func NewSearchService(emb core.EmbeddingProvider, store core.VectorStore, llm core.LLMProvider) *SearchService {
	return &SearchService{embedder: emb, store: store, llm: llm}
}

// Answer is an LLM reply plus the entries it was grounded on.
type Answer struct {
	Answer  string             `json:"answer"`
	Sources []models.SearchHit `json:"sources"`
}

// Search returns the k entries nearest to the query by L2 distance.
func (s *SearchService) Search(ctx context.Context, query string, k int) ([]models.SearchHit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	vecs, err := s.embedder.EmbedTexts(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embedding failed: %w", err)
	}
	if len(vecs) == 0 {
		return nil, errors.New("embedding failed: no vector returned")
	}

	hits, err := s.store.SearchEntries(ctx, vecs[0], clampK(k))
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	return hits, nil
}

// Ask answers the query from the nearest entries only.
func (s *SearchService) Ask(ctx context.Context, query string, k int) (*Answer, error) {
	if s.llm == nil {
		return nil, errors.New("no LLM configured")
	}
	hits, err := s.Search(ctx, query, k)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	for _, h := range hits {
		sb.WriteString(h.Text)
		sb.WriteString("\n---\n")
	}
	userPrompt := fmt.Sprintf("Context:\n%s\n\nQuestion: %s", sb.String(), strings.TrimSpace(query))

	answer, err := s.llm.Generate(ctx, groundingPrompt, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("LLM failed: %w", err)
	}
	return &Answer{Answer: answer, Sources: hits}, nil
}

func clampK(k int) int {
	switch {
	case k <= 0:
		return DefaultTopK
	case k > MaxTopK:
		return MaxTopK
	}
	return k
}
