package twitterapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

func NewAPIClient(config APIConfig) (*APIClient, error) {
	credentials := config.Credentials
	if credentials.BearerToken == "" && (credentials.ConsumerKey == "" || credentials.ConsumerSecret == "") {
		return nil, ErrMissingCredentials
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(config.BaseURL, "/")).
		SetTimeout(config.Timeout).
		SetRetryCount(config.RateLimitRetries).
		SetRetryWaitTime(config.RateLimitMinWait).
		SetRetryMaxWaitTime(config.RateLimitMaxWait).
		AddRetryCondition(isRateLimited).
		SetRetryAfter(waitForRateLimitReset)

	service := &APIClient{
		client:      client,
		credentials: credentials,
		token:       credentials.BearerToken,
	}
	if service.token != "" {
		client.SetAuthToken(service.token)
	}

	return service, nil
}

func (c *APIClient) SearchRecent(ctx context.Context, query string, maxResults int) ([]Tweet, error) {
	request, err := c.request(ctx)
	if err != nil {
		return nil, err
	}

	var payload tweetsResponse
	resp, err := request.
		SetQueryParams(map[string]string{
			"query":        query,
			"max_results":  strconv.Itoa(clamp(maxResults, searchMinResults, maxResultsPerPage)),
			"tweet.fields": searchTweetFields,
		}).
		SetResult(&payload).
		SetError(&apiError{}).
		Get("/2/tweets/search/recent")
	if errCheck := checkResponse(resp, err, payload.Errors, len(payload.Data)); errCheck != nil {
		return nil, errCheck
	}

	return truncate(mapAPITweets(payload.Data), maxResults), nil
}

func (c *APIClient) LookupUser(ctx context.Context, username string) (User, error) {
	request, err := c.request(ctx)
	if err != nil {
		return User{}, err
	}

	var payload userResponse
	resp, err := request.
		SetPathParam("username", username).
		SetResult(&payload).
		SetError(&apiError{}).
		Get("/2/users/by/username/{username}")
	if resp != nil && resp.StatusCode() == http.StatusNotFound {
		return User{}, fmt.Errorf("%w: %s", ErrUserNotFound, username)
	}

	found := 0
	if payload.Data != nil {
		found = 1
	}
	if errCheck := checkResponse(resp, err, payload.Errors, found); errCheck != nil {
		if isNotFound(payload.Errors) {
			return User{}, fmt.Errorf("%w: %s", ErrUserNotFound, username)
		}
		return User{}, errCheck
	}
	if payload.Data == nil || payload.Data.ID == "" {
		return User{}, fmt.Errorf("%w: %s", ErrUserNotFound, username)
	}

	return *payload.Data, nil
}

func (c *APIClient) UserTweets(ctx context.Context, userID string, maxResults int) ([]Tweet, error) {
	request, err := c.request(ctx)
	if err != nil {
		return nil, err
	}

	var payload tweetsResponse
	resp, err := request.
		SetPathParam("id", userID).
		SetQueryParams(map[string]string{
			"max_results":  strconv.Itoa(clamp(maxResults, timelineMinResults, maxResultsPerPage)),
			"tweet.fields": timelineTweetFields,
		}).
		SetResult(&payload).
		SetError(&apiError{}).
		Get("/2/users/{id}/tweets")
	if errCheck := checkResponse(resp, err, payload.Errors, len(payload.Data)); errCheck != nil {
		return nil, errCheck
	}

	return truncate(mapAPITweets(payload.Data), maxResults), nil
}

func (c *APIClient) request(ctx context.Context) (*resty.Request, error) {
	if err := c.ensureToken(ctx); err != nil {
		return nil, err
	}
	return c.client.R().SetContext(ctx), nil
}

// ensureToken exchanges the consumer key and secret for an app-only bearer token
// the first time it is needed.
func (c *APIClient) ensureToken(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" {
		return nil
	}

	var payload tokenResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBasicAuth(url.QueryEscape(c.credentials.ConsumerKey), url.QueryEscape(c.credentials.ConsumerSecret)).
		SetFormData(map[string]string{"grant_type": "client_credentials"}).
		SetResult(&payload).
		SetError(&apiError{}).
		Post("/oauth2/token")
	if errCheck := checkResponse(resp, err, nil, 1); errCheck != nil {
		return fmt.Errorf("failed to obtain bearer token: %w", errCheck)
	}
	if payload.AccessToken == "" || !strings.EqualFold(payload.TokenType, "bearer") {
		return fmt.Errorf("failed to obtain bearer token: %w: unexpected token type %q", ErrAPI, payload.TokenType)
	}

	c.token = payload.AccessToken
	c.client.SetAuthToken(c.token)
	log.Debug().Msg("Obtained app-only bearer token")
	return nil
}

// checkResponse turns transport failures, non-2xx statuses and error payloads
// without any data into errors. Partial errors next to data are tolerated.
func checkResponse(resp *resty.Response, err error, errs []apiError, found int) error {
	if err != nil {
		return fmt.Errorf("failed to call twitter API: %w", err)
	}

	if resp.IsError() {
		detail := strings.TrimSpace(string(resp.Body()))
		if problem, ok := resp.Error().(*apiError); ok && problem != nil && (problem.Title != "" || problem.Detail != "") {
			detail = problem.String()
		}
		return fmt.Errorf("%w: status %d: %s", ErrAPI, resp.StatusCode(), detail)
	}

	if found == 0 && len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrAPI, errs[0].String())
	}

	return nil
}

func isNotFound(errs []apiError) bool {
	for _, e := range errs {
		if strings.HasSuffix(e.Type, "/resource-not-found") || e.Title == "Not Found Error" {
			return true
		}
	}
	return false
}

func isRateLimited(resp *resty.Response, _ error) bool {
	return resp != nil && resp.StatusCode() == http.StatusTooManyRequests
}

// waitForRateLimitReset sleeps until the window announced by the API resets.
// Zero falls back to resty's backoff, resty caps the result to the max wait.
func waitForRateLimitReset(_ *resty.Client, resp *resty.Response) (time.Duration, error) {
	if resp == nil {
		return 0, nil
	}

	reset, err := strconv.ParseInt(resp.Header().Get(rateLimitResetHeader), 10, 64)
	if err != nil {
		return 0, nil
	}

	wait := time.Until(time.Unix(reset, 0))
	if wait <= 0 {
		return 0, nil
	}

	log.Warn().Dur("wait", wait).Msg("Twitter rate limit reached, waiting for reset")
	return wait, nil
}

func mapAPITweets(tweets []apiTweet) []Tweet {
	result := make([]Tweet, 0, len(tweets))
	for _, tweet := range tweets {
		result = append(result, Tweet{
			ID:             tweet.ID,
			Text:           tweet.Text,
			CreatedAt:      tweet.CreatedAt,
			AuthorID:       tweet.AuthorID,
			ConversationID: tweet.ConversationID,
			Metrics:        tweet.PublicMetrics.toPublicMetrics(),
		})
	}
	return result
}

func (m *apiPublicMetrics) toPublicMetrics() *PublicMetrics {
	if m == nil || m.RetweetCount == nil || m.LikeCount == nil {
		return nil
	}

	return &PublicMetrics{
		RetweetCount: *m.RetweetCount,
		ReplyCount:   valueOrZero(m.ReplyCount),
		LikeCount:    *m.LikeCount,
		QuoteCount:   valueOrZero(m.QuoteCount),
	}
}

func valueOrZero(value *int) int {
	if value == nil {
		return 0
	}
	return *value
}

func (e apiError) String() string {
	switch {
	case e.Title != "" && e.Detail != "":
		return e.Title + ": " + e.Detail
	case e.Detail != "":
		return e.Detail
	default:
		return e.Title
	}
}
