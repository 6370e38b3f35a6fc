package accounts

import (
	"context"
	"fmt"
	"time"

	"twitter-etl/models/constants"
	"twitter-etl/models/entities"
	"twitter-etl/models/outcome"
	"twitter-etl/pkg/observer"
	"twitter-etl/pkg/twitterapi"
	repo "twitter-etl/repositories/accountposts"
	"twitter-etl/utils/dates"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
)

func New(client twitterapi.Client, repository repo.Repository, config Config) *Impl {
	return &Impl{
		client:      client,
		repository:  repository,
		usernames:   config.Usernames,
		maxResults:  config.MaxResults,
		batchPrefix: config.BatchPrefix,
		now:         time.Now,
		observers:   map[observer.Observer]struct{}{},
	}
}

func (service *Impl) RegisterObserver(o observer.Observer) {
	service.observers[o] = struct{}{}
}

func (service *Impl) notify(e observer.Event) {
	for o := range service.observers {
		o.OnNotify(e)
	}
}

func (service *Impl) ExtractAndSave(ctx context.Context) error {
	result := service.Extract(ctx)
	batchLabel := dates.BatchLabel(service.batchPrefix, service.now())

	if err := service.repository.SaveBatch(ctx, result.Posts, batchLabel); err != nil {
		return err
	}

	service.notify(observer.NewBatchSavedEvent(constants.AccountPostsTask, len(result.Posts), len(result.Failures)))
	log.Info().
		Str(constants.LogBatchLabel, batchLabel).
		Int(constants.LogRowNumber, len(result.Posts)).
		Int(constants.LogFailureNumber, len(result.Failures)).
		Msgf("%s account tweet(s) saved", humanize.Comma(int64(len(result.Posts))))
	return nil
}

func (service *Impl) Extract(ctx context.Context) Result {
	log.Info().Msg("Start fetching twitter accounts")
	result := Result{
		Posts:    make([]entities.AccountPost, 0),
		Failures: make([]outcome.Failure, 0),
	}

	for _, username := range service.usernames {
		posts, err := service.checkTwitterAccount(ctx, username)
		if err != nil {
			log.Error().Err(err).
				Str(constants.LogUsername, username).
				Msgf("Cannot retrieve tweets from account, ignored")
			result.Failures = append(result.Failures, outcome.NewFailure(username, err))
			service.notify(observer.NewItemFailedEvent(constants.AccountPostsTask, username, err))
			continue
		}

		result.Posts = append(result.Posts, posts...)
	}

	log.Info().Msg("End fetching twitter accounts")
	return result
}

// checkTwitterAccount returns every post of the account or none: a single tweet
// without engagement counters fails the whole account.
func (service *Impl) checkTwitterAccount(ctx context.Context, username string) ([]entities.AccountPost, error) {
	user, err := service.client.LookupUser(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve account: %w", err)
	}

	log.Debug().
		Str(constants.LogUsername, username).
		Str(constants.LogTwitterID, user.ID).
		Msgf("Reading tweets...")

	tweets, err := service.client.UserTweets(ctx, user.ID, service.maxResults)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tweets: %w", err)
	}

	posts := make([]entities.AccountPost, 0, len(tweets))
	for _, tweet := range tweets {
		post, errMap := MapTweetToEntity(tweet, username)
		if errMap != nil {
			return nil, errMap
		}
		posts = append(posts, post)
	}

	return posts, nil
}

func MapTweetToEntity(tweet twitterapi.Tweet, username string) (entities.AccountPost, error) {
	if tweet.Metrics == nil {
		return entities.AccountPost{}, fmt.Errorf("%w: tweet %s", ErrMissingMetrics, tweet.ID)
	}

	return entities.AccountPost{
		Username:     username,
		PostID:       tweet.ID,
		Text:         tweet.Text,
		CreatedAt:    tweet.CreatedAt,
		RetweetCount: tweet.Metrics.RetweetCount,
		LikeCount:    tweet.Metrics.LikeCount,
	}, nil
}
