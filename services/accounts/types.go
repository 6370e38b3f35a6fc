package accounts

import (
	"context"
	"errors"
	"time"

	"twitter-etl/models/entities"
	"twitter-etl/models/outcome"
	"twitter-etl/pkg/observer"
	"twitter-etl/pkg/twitterapi"
	repo "twitter-etl/repositories/accountposts"
)

var ErrMissingMetrics = errors.New("tweet has no public metrics")

type Service interface {
	Extract(ctx context.Context) Result
	ExtractAndSave(ctx context.Context) error
	RegisterObserver(o observer.Observer)
}

type Config struct {
	Usernames   []string
	MaxResults  int
	BatchPrefix string
}

type Result struct {
	Posts    []entities.AccountPost
	Failures []outcome.Failure
}

type Impl struct {
	client      twitterapi.Client
	repository  repo.Repository
	usernames   []string
	maxResults  int
	batchPrefix string
	now         func() time.Time
	observers   map[observer.Observer]struct{}
}
