package constants

import "github.com/rs/zerolog"

const (
	LogFileName      = "fileName"
	LogKeyword       = "keyword"
	LogUsername      = "username"
	LogTwitterID     = "twitterID"
	LogTweetNumber   = "tweetNumber"
	LogBatchLabel    = "batchLabel"
	LogRowNumber     = "rowNumber"
	LogFailureNumber = "failureNumber"
	LogTask          = "task"
	LogPipeline      = "pipeline"
	LogAttempt       = "attempt"
	LogJobID         = "jobID"
	LogDriver        = "driver"
	LogBackend       = "backend"
	LogLevelFallback = zerolog.InfoLevel
)
