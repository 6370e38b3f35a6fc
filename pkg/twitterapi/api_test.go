package twitterapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAPIClient(t *testing.T, handler http.HandlerFunc, credentials Credentials) *APIClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewAPIClient(APIConfig{
		BaseURL:          server.URL,
		Credentials:      credentials,
		Timeout:          5 * time.Second,
		RateLimitRetries: 2,
		RateLimitMinWait: 10 * time.Millisecond,
		RateLimitMaxWait: 50 * time.Millisecond,
	})
	require.NoError(t, err)
	return client
}

func bearer() Credentials {
	return Credentials{BearerToken: "test-token"}
}

func TestNewAPIClientRequiresCredentials(t *testing.T) {
	_, err := NewAPIClient(APIConfig{BaseURL: "http://localhost"})
	assert.ErrorIs(t, err, ErrMissingCredentials)

	_, err = NewAPIClient(APIConfig{BaseURL: "http://localhost", Credentials: Credentials{ConsumerKey: "key"}})
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestNewRejectsUnknownBackend(t *testing.T) {
	_, err := New("carrier-pigeon", APIConfig{}, "", "")
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

func TestSearchRecent(t *testing.T) {
	client := newTestAPIClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2/tweets/search/recent", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "VMware broadcom", r.URL.Query().Get("query"))
		assert.Equal(t, "10", r.URL.Query().Get("max_results"))
		assert.Equal(t, searchTweetFields, r.URL.Query().Get("tweet.fields"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"data": [
				{"id": "1", "text": "first", "created_at": "2024-02-25T10:00:00.000Z", "author_id": "11", "conversation_id": "1"},
				{"id": "2", "text": "second", "created_at": "2024-02-25T11:00:00.000Z", "author_id": "12", "conversation_id": "1"}
			],
			"meta": {"result_count": 2}
		}`))
	}, bearer())

	tweets, err := client.SearchRecent(context.Background(), "VMware broadcom", 10)
	require.NoError(t, err)
	require.Len(t, tweets, 2)
	assert.Equal(t, "1", tweets[0].ID)
	assert.Equal(t, "first", tweets[0].Text)
	assert.Equal(t, "11", tweets[0].AuthorID)
	assert.Equal(t, "1", tweets[1].ConversationID)
	assert.Equal(t, time.Date(2024, time.February, 25, 10, 0, 0, 0, time.UTC), tweets[0].CreatedAt.UTC())
	assert.Nil(t, tweets[0].Metrics)
}

func TestSearchRecentClampsAndTruncates(t *testing.T) {
	client := newTestAPIClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "10", r.URL.Query().Get("max_results"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": [{"id": "1"}, {"id": "2"}, {"id": "3"}], "meta": {"result_count": 3}}`))
	}, bearer())

	tweets, err := client.SearchRecent(context.Background(), "AVGO", 2)
	require.NoError(t, err)
	assert.Len(t, tweets, 2)
}

func TestSearchRecentWithoutResults(t *testing.T) {
	client := newTestAPIClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"meta": {"result_count": 0}}`))
	}, bearer())

	tweets, err := client.SearchRecent(context.Background(), "nothing matches", 10)
	require.NoError(t, err)
	assert.Empty(t, tweets)
}

func TestSearchRecentHTTPError(t *testing.T) {
	client := newTestAPIClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"title": "Invalid Request", "detail": "One or more parameters to your request was invalid.", "status": 400}`))
	}, bearer())

	_, err := client.SearchRecent(context.Background(), "(", 10)
	require.ErrorIs(t, err, ErrAPI)
	assert.Contains(t, err.Error(), "Invalid Request")
}

func TestSearchRecentWaitsOutRateLimit(t *testing.T) {
	var calls int32
	client := newTestAPIClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set(rateLimitResetHeader, strconv.FormatInt(time.Now().Add(20*time.Millisecond).Unix(), 10))
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"title": "Too Many Requests", "status": 429}`))
			return
		}
		_, _ = w.Write([]byte(`{"data": [{"id": "1"}], "meta": {"result_count": 1}}`))
	}, bearer())

	tweets, err := client.SearchRecent(context.Background(), "Broadcom", 10)
	require.NoError(t, err)
	assert.Len(t, tweets, 1)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestLookupUser(t *testing.T) {
	client := newTestAPIClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2/users/by/username/nvidia", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": {"id": "61559439", "name": "NVIDIA", "username": "nvidia"}}`))
	}, bearer())

	user, err := client.LookupUser(context.Background(), "nvidia")
	require.NoError(t, err)
	assert.Equal(t, User{ID: "61559439", Name: "NVIDIA", Username: "nvidia"}, user)
}

func TestLookupUserNotFound(t *testing.T) {
	client := newTestAPIClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"errors": [{
			"value": "doesnotexist123",
			"detail": "Could not find user with username: [doesnotexist123].",
			"title": "Not Found Error",
			"type": "https://api.twitter.com/2/problems/resource-not-found"
		}]}`))
	}, bearer())

	_, err := client.LookupUser(context.Background(), "doesnotexist123")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserTweets(t *testing.T) {
	client := newTestAPIClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2/users/61559439/tweets", r.URL.Path)
		assert.Equal(t, timelineTweetFields, r.URL.Query().Get("tweet.fields"))
		assert.Equal(t, "10", r.URL.Query().Get("max_results"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": [{
			"id": "5", "text": "GTC", "created_at": "2024-02-20T08:00:00.000Z",
			"public_metrics": {"retweet_count": 3, "reply_count": 1, "like_count": 40, "quote_count": 0}
		}]}`))
	}, bearer())

	tweets, err := client.UserTweets(context.Background(), "61559439", 10)
	require.NoError(t, err)
	require.Len(t, tweets, 1)
	require.NotNil(t, tweets[0].Metrics)
	assert.Equal(t, 3, tweets[0].Metrics.RetweetCount)
	assert.Equal(t, 40, tweets[0].Metrics.LikeCount)
}

func TestUserTweetsMalformedMetrics(t *testing.T) {
	client := newTestAPIClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": [{"id": "5", "public_metrics": "unavailable"}]}`))
	}, bearer())

	_, err := client.UserTweets(context.Background(), "61559439", 10)
	assert.Error(t, err)
}

func TestUserTweetsIncompleteMetricsAreDropped(t *testing.T) {
	bundles := map[string]string{
		"empty":         `{}`,
		"likes only":    `{"like_count": 7}`,
		"retweets only": `{"retweet_count": 2}`,
		"null likes":    `{"retweet_count": 2, "like_count": null}`,
	}

	for name, bundle := range bundles {
		t.Run(name, func(t *testing.T) {
			client := newTestAPIClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"data": [{"id": "5", "public_metrics": ` + bundle + `}]}`))
			}, bearer())

			tweets, err := client.UserTweets(context.Background(), "61559439", 10)
			require.NoError(t, err)
			require.Len(t, tweets, 1)
			assert.Nil(t, tweets[0].Metrics)
		})
	}
}

func TestUserTweetsKeepsZeroCounters(t *testing.T) {
	client := newTestAPIClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": [{"id": "5", "public_metrics": {"retweet_count": 0, "like_count": 0}}]}`))
	}, bearer())

	tweets, err := client.UserTweets(context.Background(), "61559439", 10)
	require.NoError(t, err)
	require.Len(t, tweets, 1)
	require.NotNil(t, tweets[0].Metrics)
	assert.Equal(t, 0, tweets[0].Metrics.RetweetCount)
	assert.Equal(t, 0, tweets[0].Metrics.LikeCount)
}

func TestConsumerCredentialsAreExchangedOnce(t *testing.T) {
	var exchanges int32
	client := newTestAPIClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/oauth2/token" {
			atomic.AddInt32(&exchanges, 1)
			key, secret, ok := r.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "consumer-key", key)
			assert.Equal(t, "consumer-secret", secret)
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
			_, _ = w.Write([]byte(`{"token_type": "bearer", "access_token": "app-token"}`))
			return
		}
		assert.Equal(t, "Bearer app-token", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"meta": {"result_count": 0}}`))
	}, Credentials{ConsumerKey: "consumer-key", ConsumerSecret: "consumer-secret"})

	for i := 0; i < 2; i++ {
		_, err := client.SearchRecent(context.Background(), "AVGO", 10)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&exchanges))
}
