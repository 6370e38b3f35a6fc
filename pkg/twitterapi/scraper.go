package twitterapi

import (
	"context"
	"fmt"
	"net/http"

	twitterscraper "github.com/n0madic/twitter-scraper"
)

const (
	authTokenCookie = "auth_token"
	csrfTokenCookie = "ct0"
)

// NewScraperClient reuses a logged-in web session, given its auth_token and ct0
// cookies. The session is verified once before the client is returned.
func NewScraperClient(authToken, csrfToken string) (*ScraperClient, error) {
	return newScraperClient(authToken, csrfToken, (*twitterscraper.Scraper).IsLoggedIn)
}

func newScraperClient(authToken, csrfToken string, isLoggedIn func(*twitterscraper.Scraper) bool) (*ScraperClient, error) {
	if authToken == "" || csrfToken == "" {
		return nil, ErrMissingCredentials
	}

	scraper := twitterscraper.New()
	scraper.SetCookies([]*http.Cookie{
		{Name: authTokenCookie, Value: authToken},
		{Name: csrfTokenCookie, Value: csrfToken},
	})
	scraper.SetSearchMode(twitterscraper.SearchLatest)

	// Searching is refused until the session has been verified.
	if !isLoggedIn(scraper) {
		return nil, ErrSessionRejected
	}

	return &ScraperClient{scraper: scraper}, nil
}

func (c *ScraperClient) SearchRecent(ctx context.Context, query string, maxResults int) ([]Tweet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tweets, _, err := c.scraper.FetchSearchTweets(query, maxResults, "")
	if err != nil {
		return nil, fmt.Errorf("failed to search tweets: %w", err)
	}

	return truncate(mapScraperTweets(tweets), maxResults), nil
}

func (c *ScraperClient) LookupUser(ctx context.Context, username string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}

	userID, err := c.scraper.GetUserIDByScreenName(username)
	if err != nil {
		return User{}, fmt.Errorf("%w: %s: %w", ErrUserNotFound, username, err)
	}

	return User{ID: userID, Username: username}, nil
}

func (c *ScraperClient) UserTweets(ctx context.Context, userID string, maxResults int) ([]Tweet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tweets, _, err := c.scraper.FetchTweetsByUserID(userID, maxResults, "")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user tweets: %w", err)
	}

	return truncate(mapScraperTweets(tweets), maxResults), nil
}

func mapScraperTweets(tweets []*twitterscraper.Tweet) []Tweet {
	result := make([]Tweet, 0, len(tweets))
	for _, tweet := range tweets {
		if tweet == nil {
			continue
		}
		result = append(result, MapScraperTweet(tweet))
	}
	return result
}

// MapScraperTweet converts a scraped tweet. The scraper always reads the
// counters, so Metrics is never nil.
func MapScraperTweet(tweet *twitterscraper.Tweet) Tweet {
	return Tweet{
		ID:             tweet.ID,
		Text:           tweet.Text,
		CreatedAt:      tweet.TimeParsed.UTC(),
		AuthorID:       tweet.UserID,
		ConversationID: tweet.ConversationID,
		Metrics: &PublicMetrics{
			RetweetCount: tweet.Retweets,
			ReplyCount:   tweet.Replies,
			LikeCount:    tweet.Likes,
		},
	}
}
