package constants

const (
	ExternalName = "twitter-etl"
	Version      = "1.0.0"

	PipelineName     = "twitter_etl"
	KeywordPostsTask = "extract_keyword_posts"
	AccountPostsTask = "extract_account_posts"
	HealthJobName    = "Check app running"
)
