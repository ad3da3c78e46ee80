package openai

import (
	"sync"

	"github.com/trailmap-ai/trailmap/pkg/ai"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// RoadmapOpenAIClient implements ai.RoadmapAIClient against any
// OpenAI-compatible chat endpoint (OpenAI itself, Groq, or a proxy),
// selected through the base URL.
//
// A RoadmapOpenAIClient should be created using NewRoadmapOpenAIClient.
type RoadmapOpenAIClient struct {
	completionModel string
	extractionModel string

	baseURL string
	apiKey  string

	metricsLock sync.Mutex
	metrics     ai.ModelMetrics

	ChatClient *openai.Client
}

// NewRoadmapOpenAIClientParams defines the configuration for creating a new
// RoadmapOpenAIClient.
//
// CompletionModel is used for free-text generation (descriptions,
// anonymization); ExtractionModel for structured extraction and causal
// analysis. BaseURL may be empty for the default OpenAI endpoint.
type NewRoadmapOpenAIClientParams struct {
	CompletionModel string
	ExtractionModel string

	BaseURL string
	APIKey  string
}

// NewRoadmapOpenAIClient creates a client configured with the provided
// parameters.
//
// Example:
//
//	client := openai.NewRoadmapOpenAIClient(openai.NewRoadmapOpenAIClientParams{
//		CompletionModel: "gpt-4o-mini",
//		ExtractionModel: "gpt-4o-mini",
//		APIKey:          os.Getenv("AI_CHAT_KEY"),
//	})
func NewRoadmapOpenAIClient(
	params NewRoadmapOpenAIClientParams,
) *RoadmapOpenAIClient {
	return &RoadmapOpenAIClient{
		completionModel: params.CompletionModel,
		extractionModel: params.ExtractionModel,

		baseURL: params.BaseURL,
		apiKey:  params.APIKey,

		metricsLock: sync.Mutex{},
		metrics:     ai.ModelMetrics{},

		ChatClient: newOpenaiClient(params.BaseURL, params.APIKey),
	}
}

func newOpenaiClient(
	baseURL string,
	apiKey string,
) *openai.Client {
	if apiKey == "" {
		return nil
	}
	options := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}

	if baseURL != "" {
		options = append(options, option.WithBaseURL(baseURL))
	}

	client := openai.NewClient(options...)

	return &client
}
