// Package app assembles the configured components behind the CLI and the
// HTTP server.
package app

import (
	"time"

	"github.com/hyperifyio/gobacklog/internal/enhance"
	"github.com/hyperifyio/gobacklog/internal/fetch"
	"github.com/hyperifyio/gobacklog/internal/llm"
	"github.com/hyperifyio/gobacklog/internal/pipeline"
	"github.com/hyperifyio/gobacklog/internal/store"
)

// NewStore builds the article store for cfg.
func NewStore(cfg Config) *store.Store {
	return &store.Store{Path: cfg.DataPath}
}

// NewPipeline builds the save pipeline for cfg. When no LLM base URL is
// configured the pipeline runs with heuristics only.
func NewPipeline(cfg Config) *pipeline.Pipeline {
	fetcher := &fetch.Client{
		UserAgent:         cfg.UserAgent,
		MaxAttempts:       cfg.MaxAttempts,
		PerRequestTimeout: cfg.FetchTimeout,
	}
	var refiner *enhance.Refiner
	if provider := llm.NewProvider(cfg.LLMBaseURL, cfg.LLMAPIKey); provider != nil {
		refiner = &enhance.Refiner{
			Client:       provider,
			Model:        cfg.LLMModel,
			Timeout:      cfg.LLMTimeout,
			ProbeTimeout: 2 * time.Second,
		}
	}
	return &pipeline.Pipeline{Fetcher: fetcher, Refiner: refiner}
}
