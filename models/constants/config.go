package constants

import (
	"time"

	"github.com/rs/zerolog"
)

const (
	ConfigFileName = ".env"

	// Database driver: postgres or sqlite.
	DatabaseDriver = "DB_DRIVER"

	// Postgres credentials.
	DatabaseUser     = "DB_USER"
	DatabasePassword = "DB_PASSWORD"
	DatabaseHost     = "DB_HOST"
	DatabasePort     = "DB_PORT"
	DatabaseName     = "DB_NAME"
	DatabaseSSLMode  = "DB_SSL_MODE"

	// Sqlite file, used when DB_DRIVER is sqlite.
	SqliteURL = "SQLITE_URL"

	// Backend used to reach Twitter: api (official v2 REST API) or scraper.
	TwitterBackend = "TWITTER_BACKEND"

	// Base URL of the v2 REST API.
	TwitterAPIURL = "TWITTER_API_URL"

	//nolint:gosec // False positive.
	TwitterBearerToken = "TWITTER_BEARER_TOKEN"

	//nolint:gosec // False positive.
	TwitterConsumerKey = "TWITTER_CONSUMER_KEY"

	//nolint:gosec // False positive.
	TwitterConsumerSecret = "TWITTER_CONSUMER_SECRET"

	//nolint:gosec // False positive.
	TwitterAccessToken = "TWITTER_ACCESS_TOKEN"

	//nolint:gosec // False positive.
	TwitterAccessTokenSecret = "TWITTER_ACCESS_TOKEN_SECRET"

	// Number of retries when the API answers 429. Duration type for the max wait.
	TwitterRateLimitRetries = "TWITTER_RATE_LIMIT_RETRIES"
	TwitterRateLimitMaxWait = "TWITTER_RATE_LIMIT_MAX_WAIT"

	// HTTP timeout of a single API call. Duration type.
	TwitterTimeout = "TWITTER_TIMEOUT"

	//nolint:gosec // False positive.
	// Auth token used when logged in to Twitter, scraper backend only.
	TwitterAuthToken = "TWITTER_AUTH_TOKEN"

	//nolint:gosec // False positive.
	// CSRF token used when logged in to Twitter, scraper backend only.
	TwitterCSRFToken = "TWITTER_CSRF_TOKEN"

	// Comma separated search terms.
	Keywords = "KEYWORDS"

	// Comma separated account handles.
	Usernames = "USERNAMES"

	// Number of tweets retrieved per keyword and per account.
	KeywordResultCount = "KEYWORD_RESULT_COUNT"
	AccountResultCount = "ACCOUNT_RESULT_COUNT"

	// Prefixes of the batch labels.
	KeywordBatchPrefix = "KEYWORD_BATCH_PREFIX"
	AccountBatchPrefix = "ACCOUNT_BATCH_PREFIX"

	// Cron tab of the extraction pipeline.
	ETLCronTab = "ETL_CRON_TAB"

	// IANA name of the scheduler location.
	SchedulerTimezone = "SCHEDULER_TIMEZONE"

	// Task retry policy. Duration type for the delay.
	TaskRetries    = "TASK_RETRIES"
	TaskRetryDelay = "TASK_RETRY_DELAY"

	// Boolean; runs the pipeline once at startup.
	RunOnStartup = "RUN_ON_STARTUP"

	// Zerolog values from [trace, debug, info, warn, error, fatal, panic].
	LogLevel = "LOG_LEVEL"

	// Probe port.
	ProbePort = "PROBE_PORT"

	// Cron tab to health.
	HealthCronTab = "HEALTH_CRON_TAB"

	// TELEGRAM BOT, alerting is disabled when the token is empty.
	TelegramBotToken = "TELEGRAM_BOT_TOKEN"
	TelegramChatID   = "TELEGRAM_CHAT_ID"

	// Minimum delay between two alerts for the same task. Duration type.
	AlertCooldown = "ALERT_COOLDOWN"

	defaultDatabaseDriver          = DriverPostgres
	defaultDatabaseUser            = ""
	defaultDatabasePassword        = ""
	defaultDatabaseHost            = "127.0.0.1"
	defaultDatabasePort            = 5432
	defaultDatabaseName            = ""
	defaultDatabaseSSLMode         = "disable"
	defaultSqliteURL               = "twitter-etl.db"
	defaultTwitterBackend          = BackendAPI
	defaultTwitterAPIURL           = "https://api.twitter.com"
	defaultTwitterBearerToken      = ""
	defaultTwitterRateLimitRetries = 3
	defaultTwitterRateLimitMaxWait = 15 * time.Minute
	defaultTwitterTimeout          = 30 * time.Second
	defaultTwitterAuthToken        = ""
	defaultTwitterCSRFToken        = ""
	defaultKeywordResultCount      = 10
	defaultAccountResultCount      = 10
	defaultKeywordBatchPrefix      = "AVGO_tweets_"
	defaultAccountBatchPrefix      = "user_tweets_"
	defaultETLCronTab              = "0 0 * * 0"
	defaultSchedulerTimezone       = "UTC"
	defaultTaskRetries             = 1
	defaultTaskRetryDelay          = 5 * time.Minute
	defaultRunOnStartup            = false
	defaultProbePort               = 9090
	defaultHealthCrontab           = "*/30 * * * *"
	defaultLogLevel                = zerolog.InfoLevel
	defaultTelegramBotToken        = ""
	defaultTelegramChatID          = 0
	defaultAlertCooldown           = time.Hour
)

const (
	DriverPostgres = "postgres"
	DriverSqlite   = "sqlite"

	BackendAPI     = "api"
	BackendScraper = "scraper"
)

func GetDefaultConfigValues() map[string]any {
	return map[string]any{
		DatabaseDriver:          defaultDatabaseDriver,
		DatabaseUser:            defaultDatabaseUser,
		DatabasePassword:        defaultDatabasePassword,
		DatabaseHost:            defaultDatabaseHost,
		DatabasePort:            defaultDatabasePort,
		DatabaseName:            defaultDatabaseName,
		DatabaseSSLMode:         defaultDatabaseSSLMode,
		SqliteURL:               defaultSqliteURL,
		TwitterBackend:          defaultTwitterBackend,
		TwitterAPIURL:           defaultTwitterAPIURL,
		TwitterBearerToken:      defaultTwitterBearerToken,
		TwitterRateLimitRetries: defaultTwitterRateLimitRetries,
		TwitterRateLimitMaxWait: defaultTwitterRateLimitMaxWait,
		TwitterTimeout:          defaultTwitterTimeout,
		TwitterAuthToken:        defaultTwitterAuthToken,
		TwitterCSRFToken:        defaultTwitterCSRFToken,
		Keywords:                defaultKeywords,
		Usernames:               defaultUsernames,
		KeywordResultCount:      defaultKeywordResultCount,
		AccountResultCount:      defaultAccountResultCount,
		KeywordBatchPrefix:      defaultKeywordBatchPrefix,
		AccountBatchPrefix:      defaultAccountBatchPrefix,
		ETLCronTab:              defaultETLCronTab,
		SchedulerTimezone:       defaultSchedulerTimezone,
		TaskRetries:             defaultTaskRetries,
		TaskRetryDelay:          defaultTaskRetryDelay,
		RunOnStartup:            defaultRunOnStartup,
		ProbePort:               defaultProbePort,
		HealthCronTab:           defaultHealthCrontab,
		LogLevel:                defaultLogLevel.String(),
		TelegramBotToken:        defaultTelegramBotToken,
		TelegramChatID:          defaultTelegramChatID,
		AlertCooldown:           defaultAlertCooldown,
	}
}
