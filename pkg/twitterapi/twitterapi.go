package twitterapi

import "fmt"

const (
	BackendAPI     = "api"
	BackendScraper = "scraper"
)

// New returns the client matching backend: "api" for the v2 REST API, "scraper"
// for a logged-in web session.
func New(backend string, config APIConfig, authToken, csrfToken string) (Client, error) {
	switch backend {
	case BackendAPI:
		return NewAPIClient(config)
	case BackendScraper:
		return NewScraperClient(authToken, csrfToken)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

func clamp(value, lower, upper int) int {
	if value < lower {
		return lower
	}
	if value > upper {
		return upper
	}
	return value
}

func truncate(tweets []Tweet, maxResults int) []Tweet {
	if maxResults >= 0 && len(tweets) > maxResults {
		return tweets[:maxResults]
	}
	return tweets
}
