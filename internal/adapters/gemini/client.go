package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"lokvista_admin/internal/adapters/observability"
	"lokvista_admin/internal/domain"
)

const DefaultModel = "gemini-2.0-flash"

const promptTemplate = `You are an expert travel writer. Generate a detailed and engaging description of a tourist location based on the following information:

Coordinates: %s
Landmarks: %s
Infrastructure: %s

Description:`

var outputSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"description": {
			Type:        genai.TypeString,
			Description: "A detailed description of the tourist location.",
		},
	},
	Required: []string{"description"},
}

type generateFunc func(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

// Client drafts location descriptions with Gemini. It implements
// domain.DescriptionGenerator.
type Client struct {
	model    string
	generate generateFunc
	lim      *rate.Limiter // nil means unlimited
}

func New(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: API key is required")
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	if model == "" {
		model = DefaultModel
	}
	// free-tier quota is a handful of requests per second
	return &Client{model: model, generate: gc.Models.GenerateContent, lim: rate.NewLimiter(rate.Limit(2), 2)}, nil
}

func Prompt(in domain.DescriptionInput) string {
	return fmt.Sprintf(promptTemplate, in.Coordinates, in.Landmarks, in.Infrastructure)
}

func (c *Client) GenerateDescription(ctx context.Context, in domain.DescriptionInput) (string, error) {
	if c.lim != nil {
		if err := c.lim.Wait(ctx); err != nil {
			return "", err
		}
	}
	start := time.Now()
	resp, err := c.generate(ctx, c.model, genai.Text(Prompt(in)), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   outputSchema,
	})
	status := 200
	if err != nil {
		status = 0
	}
	observability.ObserveExternal("gemini", c.model, status, time.Since(start))
	if err != nil {
		return "", err
	}

	var out struct {
		Description string `json:"description"`
	}
	raw := strings.TrimSpace(resp.Text())
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return "", fmt.Errorf("decode gemini output: %w", err)
	}
	if out.Description == "" {
		return "", errors.New("gemini returned an empty description")
	}
	return out.Description, nil
}
