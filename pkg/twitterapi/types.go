package twitterapi

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	twitterscraper "github.com/n0madic/twitter-scraper"
)

var (
	ErrUnknownBackend     = errors.New("unknown twitter backend")
	ErrMissingCredentials = errors.New("twitter credentials are missing")
	ErrUserNotFound       = errors.New("twitter user not found")
	ErrAPI                = errors.New("twitter API error")
	ErrSessionRejected    = errors.New("twitter session cookies were rejected")
)

const (
	searchTweetFields   = "id,text,created_at,author_id,conversation_id"
	timelineTweetFields = "id,text,created_at,public_metrics"

	searchMinResults   = 10
	timelineMinResults = 5
	maxResultsPerPage  = 100

	rateLimitResetHeader = "x-rate-limit-reset"
)

// Client is the subset of the Twitter surface the extractors rely on. Each call
// returns at most one page of results.
type Client interface {
	SearchRecent(ctx context.Context, query string, maxResults int) ([]Tweet, error)
	LookupUser(ctx context.Context, username string) (User, error)
	UserTweets(ctx context.Context, userID string, maxResults int) ([]Tweet, error)
}

type Tweet struct {
	ID             string
	Text           string
	CreatedAt      time.Time
	AuthorID       string
	ConversationID string
	// Nil when the engagement bundle was not returned or lacks the retweet or
	// like counter.
	Metrics *PublicMetrics
}

type PublicMetrics struct {
	RetweetCount int
	ReplyCount   int
	LikeCount    int
	QuoteCount   int
}

type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

type Credentials struct {
	BearerToken       string
	ConsumerKey       string
	ConsumerSecret    string
	AccessToken       string
	AccessTokenSecret string
}

type APIConfig struct {
	BaseURL          string
	Credentials      Credentials
	Timeout          time.Duration
	RateLimitRetries int
	RateLimitMinWait time.Duration
	RateLimitMaxWait time.Duration
}

type APIClient struct {
	client      *resty.Client
	credentials Credentials
	mu          sync.Mutex
	token       string
}

type ScraperClient struct {
	scraper *twitterscraper.Scraper
}

type apiTweet struct {
	ID             string            `json:"id"`
	Text           string            `json:"text"`
	CreatedAt      time.Time         `json:"created_at"`
	AuthorID       string            `json:"author_id"`
	ConversationID string            `json:"conversation_id"`
	PublicMetrics  *apiPublicMetrics `json:"public_metrics"`
}

// apiPublicMetrics keeps absent counters distinguishable from zero.
type apiPublicMetrics struct {
	RetweetCount *int `json:"retweet_count"`
	ReplyCount   *int `json:"reply_count"`
	LikeCount    *int `json:"like_count"`
	QuoteCount   *int `json:"quote_count"`
}

type apiError struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Type   string `json:"type"`
	Status int    `json:"status"`
}

type tweetsResponse struct {
	Data   []apiTweet `json:"data"`
	Errors []apiError `json:"errors"`
	Meta   struct {
		ResultCount int `json:"result_count"`
	} `json:"meta"`
}

type userResponse struct {
	Data   *User      `json:"data"`
	Errors []apiError `json:"errors"`
}

type tokenResponse struct {
	TokenType   string `json:"token_type"`
	AccessToken string `json:"access_token"`
}
