package application

import (
	"context"
	"time"

	"twitter-etl/models/constants"
	"twitter-etl/services/pipeline"
)

// BuildPipeline declares the weekly run: keyword extraction, then account
// extraction once the former completed, successfully or not.
func BuildPipeline(cadence string, retries int, retryDelay time.Duration,
	extractKeywordPosts, extractAccountPosts func(ctx context.Context) error) pipeline.Pipeline {
	return pipeline.Pipeline{
		Name:    constants.PipelineName,
		Cadence: cadence,
		Tasks: []pipeline.Task{
			{
				Name:       constants.KeywordPostsTask,
				Retries:    retries,
				RetryDelay: retryDelay,
				Run:        extractKeywordPosts,
			},
			{
				Name:       constants.AccountPostsTask,
				DependsOn:  []string{constants.KeywordPostsTask},
				Retries:    retries,
				RetryDelay: retryDelay,
				Run:        extractAccountPosts,
			},
		},
	}
}
