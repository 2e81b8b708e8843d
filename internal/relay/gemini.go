package relay

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// GeminiGenerator calls the Gemini API. Contents are sent exactly as given,
// with the instruction and temperature of each request.
type GeminiGenerator struct {
	client    *genai.Client
	modelName string
	logger    *zap.Logger
	rateChan  chan struct{} // Token bucket
}

func NewGeminiGenerator(ctx context.Context, apiKey, modelName string, concurrentReqs int, logger *zap.Logger) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return newGeminiGenerator(client, modelName, concurrentReqs, logger), nil
}

func newGeminiGenerator(client *genai.Client, modelName string, concurrentReqs int, logger *zap.Logger) *GeminiGenerator {
	if concurrentReqs < 1 {
		concurrentReqs = 1
	}
	rateChan := make(chan struct{}, concurrentReqs)
	for i := 0; i < concurrentReqs; i++ {
		rateChan <- struct{}{}
	}

	return &GeminiGenerator{
		client:    client,
		modelName: modelName,
		logger:    logger,
		rateChan:  rateChan,
	}
}

// acquireRate blocks until a rate slot is available
func (g *GeminiGenerator) acquireRate(ctx context.Context) error {
	select {
	case <-g.rateChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(5 * time.Minute):
		return fmt.Errorf("timeout waiting for Gemini rate slot")
	}
}

func (g *GeminiGenerator) releaseRate() {
	g.rateChan <- struct{}{}
}

func (g *GeminiGenerator) Generate(ctx context.Context, req GenerateRequest) (*genai.GenerateContentResponse, error) {
	if err := g.acquireRate(ctx); err != nil {
		return nil, err
	}
	defer g.releaseRate()

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(req.Temperature),
	}
	if req.Instruction != "" {
		config.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: req.Instruction}}}
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, req.Contents, config)
	if err != nil {
		return nil, fmt.Errorf("Gemini API error: %w", err)
	}

	for i, cand := range resp.Candidates {
		if cand.FinishReason != "" && cand.FinishReason != genai.FinishReasonStop {
			g.logger.Warn("Gemini stopped early",
				zap.Int("candidate", i),
				zap.String("finish_reason", string(cand.FinishReason)),
			)
		}
	}

	return resp, nil
}
