package keywords

import (
	"context"
	"time"

	"twitter-etl/models/entities"
	"twitter-etl/models/outcome"
	"twitter-etl/pkg/observer"
	"twitter-etl/pkg/twitterapi"
	repo "twitter-etl/repositories/keywordposts"
)

type Service interface {
	Extract(ctx context.Context) Result
	ExtractAndSave(ctx context.Context) error
	RegisterObserver(o observer.Observer)
}

type Config struct {
	Keywords    []string
	MaxResults  int
	BatchPrefix string
}

// Result holds the candidate rows of one run, in keyword order, and the
// keywords that were skipped.
type Result struct {
	Posts    []entities.KeywordPost
	Failures []outcome.Failure
}

type Impl struct {
	client      twitterapi.Client
	repository  repo.Repository
	keywords    []string
	maxResults  int
	batchPrefix string
	now         func() time.Time
	observers   map[observer.Observer]struct{}
}
