package keywords

import (
	"context"
	"time"

	"twitter-etl/models/constants"
	"twitter-etl/models/entities"
	"twitter-etl/models/outcome"
	"twitter-etl/pkg/observer"
	"twitter-etl/pkg/twitterapi"
	repo "twitter-etl/repositories/keywordposts"
	"twitter-etl/utils/dates"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
)

func New(client twitterapi.Client, repository repo.Repository, config Config) *Impl {
	return &Impl{
		client:      client,
		repository:  repository,
		keywords:    config.Keywords,
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

// ExtractAndSave is the extract_keyword_posts task: a failing keyword is skipped,
// a failing save is returned.
func (service *Impl) ExtractAndSave(ctx context.Context) error {
	result := service.Extract(ctx)
	batchLabel := dates.BatchLabel(service.batchPrefix, service.now())

	if err := service.repository.SaveBatch(ctx, result.Posts, batchLabel); err != nil {
		return err
	}

	service.notify(observer.NewBatchSavedEvent(constants.KeywordPostsTask, len(result.Posts), len(result.Failures)))
	log.Info().
		Str(constants.LogBatchLabel, batchLabel).
		Int(constants.LogRowNumber, len(result.Posts)).
		Int(constants.LogFailureNumber, len(result.Failures)).
		Msgf("%s keyword tweet(s) saved", humanize.Comma(int64(len(result.Posts))))
	return nil
}

func (service *Impl) Extract(ctx context.Context) Result {
	log.Info().Msg("Start fetching keyword tweets")
	result := Result{
		Posts:    make([]entities.KeywordPost, 0),
		Failures: make([]outcome.Failure, 0),
	}

	for _, keyword := range service.keywords {
		posts, err := service.searchKeyword(ctx, keyword)
		if err != nil {
			log.Error().Err(err).
				Str(constants.LogKeyword, keyword).
				Msgf("Cannot search tweets for keyword, ignored")
			result.Failures = append(result.Failures, outcome.NewFailure(keyword, err))
			service.notify(observer.NewItemFailedEvent(constants.KeywordPostsTask, keyword, err))
			continue
		}

		log.Debug().
			Str(constants.LogKeyword, keyword).
			Int(constants.LogTweetNumber, len(posts)).
			Msg("Keyword searched")
		result.Posts = append(result.Posts, posts...)
	}

	log.Info().Msg("End fetching keyword tweets")
	return result
}

func (service *Impl) searchKeyword(ctx context.Context, keyword string) ([]entities.KeywordPost, error) {
	tweets, err := service.client.SearchRecent(ctx, keyword, service.maxResults)
	if err != nil {
		return nil, err
	}

	posts := make([]entities.KeywordPost, 0, len(tweets))
	for _, tweet := range tweets {
		posts = append(posts, MapTweetToEntity(tweet, keyword))
	}
	return posts, nil
}

func MapTweetToEntity(tweet twitterapi.Tweet, keyword string) entities.KeywordPost {
	return entities.KeywordPost{
		PostID:         tweet.ID,
		Text:           tweet.Text,
		CreatedAt:      tweet.CreatedAt,
		AuthorID:       tweet.AuthorID,
		ConversationID: tweet.ConversationID,
		SearchedTerm:   keyword,
	}
}
