// Package gemini provides an Embedder implementation using the Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"math"

	"google.golang.org/genai"

	"github.com/messixieziyi/life-story/internal/infrastructure/config"
)

const (
	// DefaultModel is used when no model is configured.
	DefaultModel = config.DefaultGeminiEmbeddingModel
	// VectorSize is the requested output dimensionality.
	VectorSize = 768

	taskTypeDocument = "RETRIEVAL_DOCUMENT"
	taskTypeQuery    = "RETRIEVAL_QUERY"
)

// Embedder implements ports.Embedder and ports.QueryEmbedder using Gemini.
type Embedder struct {
	client *genai.Client
	model  string
}

// NewEmbedder creates a new Gemini embedder.
func NewEmbedder(ctx context.Context, cfg config.EmbedderConfig) (*Embedder, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("Gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	model := DefaultModel
	if cfg.Model != "" {
		model = cfg.Model
	}

	return &Embedder{client: client, model: model}, nil
}

// Dimension returns VectorSize.
func (e *Embedder) Dimension() int {
	return VectorSize
}

// Embed embeds text as a document to be retrieved.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return e.embed(ctx, text, taskTypeDocument)
}

// EmbedQuery embeds text as a search query.
func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return e.embed(ctx, text, taskTypeQuery)
}

// EmbedBatch embeds documents one request at a time.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	results := make([][]float32, len(texts))
	for i, text := range texts {
		vector, err := e.embed(ctx, text, taskTypeDocument)
		if err != nil {
			return nil, fmt.Errorf("embedding failed at index %d: %w", i, err)
		}
		results[i] = vector
	}
	return results, nil
}

func (e *Embedder) embed(ctx context.Context, text, taskType string) ([]float32, error) {
	contents := []*genai.Content{{Parts: []*genai.Part{{Text: text}}}}
	dim := int32(VectorSize)
	res, err := e.client.Models.EmbedContent(ctx, e.model, contents, &genai.EmbedContentConfig{
		TaskType:             taskType,
		OutputDimensionality: &dim,
	})
	if err != nil {
		return nil, fmt.Errorf("creating embedding: %w", err)
	}
	if len(res.Embeddings) == 0 {
		return nil, errors.New("no embeddings returned")
	}

	values := res.Embeddings[0].Values
	normalize(values)
	return values, nil
}

// normalize scales v to unit length. Reduced-dimension Gemini vectors are not normalized.
func normalize(v []float32) {
	var sum float64
	for _, val := range v {
		sum += float64(val * val)
	}
	magnitude := float32(math.Sqrt(sum))
	if magnitude <= 0 {
		return
	}
	for i := range v {
		v[i] /= magnitude
	}
}
