package keywords

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"twitter-etl/models/entities"
	"twitter-etl/pkg/observer"
	"twitter-etl/pkg/twitterapi"
	repo "twitter-etl/repositories/keywordposts"
	"twitter-etl/utils/databases"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockClient struct {
	mock.Mock
}

func (m *MockClient) SearchRecent(ctx context.Context, query string, maxResults int) ([]twitterapi.Tweet, error) {
	args := m.Called(ctx, query, maxResults)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]twitterapi.Tweet), args.Error(1)
}

func (m *MockClient) LookupUser(ctx context.Context, username string) (twitterapi.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(twitterapi.User), args.Error(1)
}

func (m *MockClient) UserTweets(ctx context.Context, userID string, maxResults int) ([]twitterapi.Tweet, error) {
	args := m.Called(ctx, userID, maxResults)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]twitterapi.Tweet), args.Error(1)
}

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) SaveBatch(ctx context.Context, posts []entities.KeywordPost, batchLabel string) error {
	args := m.Called(ctx, posts, batchLabel)
	return args.Error(0)
}

type recorder struct {
	events []observer.Event
}

func (r *recorder) OnNotify(e observer.Event) {
	r.events = append(r.events, e)
}

var fixedNow = time.Date(2024, time.February, 25, 0, 0, 3, 0, time.UTC)

func newTestService(client twitterapi.Client, repository repo.Repository, keywords ...string) *Impl {
	service := New(client, repository, Config{Keywords: keywords, MaxResults: 10, BatchPrefix: "AVGO_tweets_"})
	service.now = func() time.Time { return fixedNow }
	return service
}

func tweet(id string) twitterapi.Tweet {
	return twitterapi.Tweet{
		ID:             id,
		Text:           "tweet " + id,
		CreatedAt:      time.Date(2024, time.February, 24, 12, 0, 0, 0, time.UTC),
		AuthorID:       "author-" + id,
		ConversationID: "conv-" + id,
	}
}

func TestExtractTagsPostsWithKeywordInOrder(t *testing.T) {
	client := new(MockClient)
	client.On("SearchRecent", mock.Anything, "Broadcom", 10).Return([]twitterapi.Tweet{tweet("1"), tweet("2")}, nil)
	client.On("SearchRecent", mock.Anything, "AVGO", 10).Return([]twitterapi.Tweet{tweet("3")}, nil)

	result := newTestService(client, new(MockRepository), "Broadcom", "AVGO").Extract(context.Background())

	require.Len(t, result.Posts, 3)
	assert.Empty(t, result.Failures)
	assert.Equal(t, "Broadcom", result.Posts[0].SearchedTerm)
	assert.Equal(t, "Broadcom", result.Posts[1].SearchedTerm)
	assert.Equal(t, "AVGO", result.Posts[2].SearchedTerm)
	assert.Equal(t, "1", result.Posts[0].PostID)
	assert.Equal(t, "author-1", result.Posts[0].AuthorID)
	assert.Equal(t, "conv-1", result.Posts[0].ConversationID)
	client.AssertExpectations(t)
}

func TestExtractIsolatesFailingKeyword(t *testing.T) {
	client := new(MockClient)
	client.On("SearchRecent", mock.Anything, "Broadcom", 10).Return(nil, errors.New("malformed query"))
	client.On("SearchRecent", mock.Anything, "VMware", 10).Return([]twitterapi.Tweet{tweet("9")}, nil)

	events := &recorder{}
	service := newTestService(client, new(MockRepository), "Broadcom", "VMware")
	service.RegisterObserver(events)
	result := service.Extract(context.Background())

	require.Len(t, result.Posts, 1)
	assert.Equal(t, "VMware", result.Posts[0].SearchedTerm)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "Broadcom", result.Failures[0].Key)
	assert.Equal(t, "malformed query", result.Failures[0].Message)

	require.Len(t, events.events, 1)
	assert.Equal(t, observer.ItemFailedEvent, events.events[0].E)
	assert.Equal(t, "Broadcom", events.events[0].Key)
}

func TestExtractEmptyResultIsNotAFailure(t *testing.T) {
	client := new(MockClient)
	client.On("SearchRecent", mock.Anything, "AVGO", 10).Return([]twitterapi.Tweet{}, nil)

	result := newTestService(client, new(MockRepository), "AVGO").Extract(context.Background())

	assert.Empty(t, result.Posts)
	assert.Empty(t, result.Failures)
}

func TestExtractAndSaveUsesOneBatchLabel(t *testing.T) {
	client := new(MockClient)
	client.On("SearchRecent", mock.Anything, "Broadcom", 10).Return([]twitterapi.Tweet{tweet("1"), tweet("2")}, nil)

	repository := new(MockRepository)
	repository.On("SaveBatch", mock.Anything, mock.MatchedBy(func(posts []entities.KeywordPost) bool {
		return len(posts) == 2 && posts[0].SearchedTerm == "Broadcom" && posts[1].SearchedTerm == "Broadcom"
	}), "AVGO_tweets_02_25_2024-00-00-03").Return(nil)

	events := &recorder{}
	service := newTestService(client, repository, "Broadcom")
	service.RegisterObserver(events)

	require.NoError(t, service.ExtractAndSave(context.Background()))
	repository.AssertExpectations(t)
	require.Len(t, events.events, 1)
	assert.Equal(t, observer.BatchSavedEvent, events.events[0].E)
	assert.Equal(t, 2, events.events[0].Rows)
}

func TestExtractAndSaveReturnsPersistenceError(t *testing.T) {
	client := new(MockClient)
	client.On("SearchRecent", mock.Anything, "Broadcom", 10).Return([]twitterapi.Tweet{tweet("1")}, nil)

	repository := new(MockRepository)
	repository.On("SaveBatch", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("commit failed"))

	err := newTestService(client, repository, "Broadcom").ExtractAndSave(context.Background())
	assert.EqualError(t, err, "commit failed")
}

func TestExtractAndSavePersistsRows(t *testing.T) {
	conn := databases.NewSqlite(filepath.Join(t.TempDir(), "keywords.db"))
	require.NoError(t, conn.Run())
	require.NoError(t, conn.GetDB().AutoMigrate(&entities.KeywordPost{}))
	defer conn.Shutdown()

	client := new(MockClient)
	client.On("SearchRecent", mock.Anything, "Broadcom", 10).Return([]twitterapi.Tweet{tweet("1"), tweet("2")}, nil)
	client.On("SearchRecent", mock.Anything, "AVGO", 10).Return(nil, errors.New("503 Service Unavailable"))

	service := newTestService(client, repo.New(conn), "Broadcom", "AVGO")
	require.NoError(t, service.ExtractAndSave(context.Background()))

	var rows []entities.KeywordPost
	require.NoError(t, conn.GetDB().Find(&rows).Error)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, "Broadcom", row.SearchedTerm)
		assert.Equal(t, "AVGO_tweets_02_25_2024-00-00-03", row.BatchLabel)
	}
}
