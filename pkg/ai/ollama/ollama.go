package ollama

import (
	"net/http"
	"net/url"
	"sync"

	"github.com/trailmap-ai/trailmap/pkg/ai"

	"github.com/ollama/ollama/api"
	"golang.org/x/sync/semaphore"
)

// RoadmapOllamaClient implements ai.RoadmapAIClient against a locally-hosted
// Ollama server. Local servers handle few requests at a time, so the client
// throttles concurrent calls with a weighted semaphore.
type RoadmapOllamaClient struct {
	completionModel string
	extractionModel string

	reqLock *semaphore.Weighted

	metricsLock sync.Mutex
	metrics     ai.ModelMetrics

	Client *api.Client
}

// NewRoadmapOllamaClientParams contains configuration for creating a new
// RoadmapOllamaClient.
type NewRoadmapOllamaClientParams struct {
	CompletionModel string
	ExtractionModel string

	BaseURL string
	APIKey  string

	MaxConcurrentRequests int64
}

type headerTransport struct {
	headers map[string]string
	rt      http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// clone so original request isn't modified
	r := req.Clone(req.Context())
	for k, v := range t.headers {
		if r.Header.Get(k) == "" {
			r.Header.Set(k, v)
		}
	}
	return t.rt.RoundTrip(r)
}

// NewRoadmapOllamaClient creates an Ollama-backed client connecting to the
// server at BaseURL (or the default local endpoint when empty).
func NewRoadmapOllamaClient(
	params NewRoadmapOllamaClientParams,
) (*RoadmapOllamaClient, error) {
	var (
		u   *url.URL
		err error
	)

	if params.BaseURL != "" {
		u, err = url.Parse(params.BaseURL)
		if err != nil {
			return nil, err
		}
	}

	httpClient := &http.Client{
		Transport: &headerTransport{
			headers: map[string]string{
				"Authorization": "Bearer " + params.APIKey,
			},
			rt: http.DefaultTransport,
		},
	}

	maxConcurrent := params.MaxConcurrentRequests
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}

	return &RoadmapOllamaClient{
		completionModel: params.CompletionModel,
		extractionModel: params.ExtractionModel,

		reqLock: semaphore.NewWeighted(maxConcurrent),

		metricsLock: sync.Mutex{},
		metrics:     ai.ModelMetrics{},

		Client: api.NewClient(u, httpClient),
	}, nil
}
