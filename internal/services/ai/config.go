package ai

import "time"

// Config holds the connection settings for the OpenAI-compatible endpoint.
type Config struct {
	BaseURL        string
	APIKey         string
	RequestTimeout time.Duration
}

func DefaultConfig(baseURL, apiKey string) Config {
	return Config{
		BaseURL:        baseURL,
		APIKey:         apiKey,
		RequestTimeout: 120 * time.Second,
	}
}
