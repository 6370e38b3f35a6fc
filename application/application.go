package application

import (
	"context"
	"time"

	"twitter-etl/models/constants"
	"twitter-etl/models/entities"
	"twitter-etl/pkg/observer"
	"twitter-etl/pkg/twitterapi"
	accountRepo "twitter-etl/repositories/accountposts"
	keywordRepo "twitter-etl/repositories/keywordposts"
	"twitter-etl/services/accounts"
	"twitter-etl/services/health"
	"twitter-etl/services/keywords"
	"twitter-etl/services/notifier"
	"twitter-etl/services/pipeline"
	"twitter-etl/utils/databases"
	"twitter-etl/utils/insights"

	"github.com/dustin/go-humanize"
	"github.com/go-co-op/gocron/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func New() (*Impl, error) {
	db, errConfig := databases.New()
	if errConfig != nil {
		return nil, errConfig
	}

	if errDB := db.Run(); errDB != nil {
		return nil, errDB
	}

	app, err := build(db)
	if err != nil {
		db.Shutdown()
		return nil, err
	}

	return app, nil
}

func build(db databases.SqlConnection) (*Impl, error) {
	errMigration := db.GetDB().AutoMigrate(&entities.KeywordPost{}, &entities.AccountPost{})
	if errMigration != nil {
		return nil, errMigration
	}

	registry := prometheus.NewRegistry()
	metrics := insights.NewMetrics(registry)
	probes := insights.NewProbes(db.IsConnected, registry)

	location, err := time.LoadLocation(viper.GetString(constants.SchedulerTimezone))
	if err != nil {
		return nil, err
	}

	scheduler, errScheduler := gocron.NewScheduler(gocron.WithLocation(location))
	if errScheduler != nil {
		return nil, errScheduler
	}

	ctx, cancel := context.WithCancel(context.Background())
	ready := false
	defer func() {
		if !ready {
			cancel()
			_ = scheduler.Shutdown()
		}
	}()

	client, errClient := newTwitterClient()
	if errClient != nil {
		return nil, errClient
	}

	// Repositories
	keywordPostRepo := keywordRepo.New(db)
	accountPostRepo := accountRepo.New(db)

	keywordService := keywords.New(client, keywordPostRepo, keywords.Config{
		Keywords:    constants.GetKeywords(),
		MaxResults:  viper.GetInt(constants.KeywordResultCount),
		BatchPrefix: viper.GetString(constants.KeywordBatchPrefix),
	})
	accountService := accounts.New(client, accountPostRepo, accounts.Config{
		Usernames:   constants.GetUsernames(),
		MaxResults:  viper.GetInt(constants.AccountResultCount),
		BatchPrefix: viper.GetString(constants.AccountBatchPrefix),
	})

	pipelineService, errPipeline := pipeline.New(BuildPipeline(
		viper.GetString(constants.ETLCronTab),
		viper.GetInt(constants.TaskRetries),
		viper.GetDuration(constants.TaskRetryDelay),
		keywordService.ExtractAndSave,
		accountService.ExtractAndSave,
	))
	if errPipeline != nil {
		return nil, errPipeline
	}

	for _, source := range []observer.Notifier{keywordService, accountService, pipelineService} {
		source.RegisterObserver(metrics)
	}
	if alerts := newAlerts(); alerts != nil {
		pipelineService.RegisterObserver(alerts)
	}

	pipelineJob, errJob := pipelineService.Schedule(ctx, scheduler)
	if errJob != nil {
		return nil, errJob
	}

	healthService, errHealth := health.New(scheduler, db.IsConnected)
	if errHealth != nil {
		return nil, errHealth
	}

	ready = true
	return &Impl{
		scheduler:       scheduler,
		healthService:   healthService,
		keywordService:  keywordService,
		accountService:  accountService,
		pipelineService: pipelineService,
		pipelineJob:     pipelineJob,
		runOnStartup:    viper.GetBool(constants.RunOnStartup),
		db:              db,
		probes:          probes,
		cancel:          cancel,
	}, nil
}

func newTwitterClient() (twitterapi.Client, error) {
	backend := viper.GetString(constants.TwitterBackend)
	credentials := twitterapi.Credentials{
		BearerToken:       viper.GetString(constants.TwitterBearerToken),
		ConsumerKey:       viper.GetString(constants.TwitterConsumerKey),
		ConsumerSecret:    viper.GetString(constants.TwitterConsumerSecret),
		AccessToken:       viper.GetString(constants.TwitterAccessToken),
		AccessTokenSecret: viper.GetString(constants.TwitterAccessTokenSecret),
	}

	if backend == constants.BackendAPI && credentials.AccessToken != "" && credentials.BearerToken != "" {
		log.Debug().Msg("Access token provided, requests use the bearer token (app-only)")
	}
	log.Info().Str(constants.LogBackend, backend).Msg("Twitter client configured")

	return twitterapi.New(backend, twitterapi.APIConfig{
		BaseURL:          viper.GetString(constants.TwitterAPIURL),
		Credentials:      credentials,
		Timeout:          viper.GetDuration(constants.TwitterTimeout),
		RateLimitRetries: viper.GetInt(constants.TwitterRateLimitRetries),
		RateLimitMinWait: time.Second,
		RateLimitMaxWait: viper.GetDuration(constants.TwitterRateLimitMaxWait),
	}, viper.GetString(constants.TwitterAuthToken), viper.GetString(constants.TwitterCSRFToken))
}

// newAlerts returns nil when Telegram alerting is not configured.
func newAlerts() observer.Observer {
	token := viper.GetString(constants.TelegramBotToken)
	if token == "" {
		log.Info().Msg("Telegram token not set, alerting disabled")
		return nil
	}

	alerts, err := notifier.New(token, viper.GetInt64(constants.TelegramChatID), viper.GetDuration(constants.AlertCooldown))
	if err != nil {
		log.Error().Err(err).Msg("Cannot initialize Telegram alerts, continuing without them")
		return nil
	}

	return alerts
}

func (app *Impl) Run() {
	app.scheduler.Start()
	for _, job := range app.scheduler.Jobs() {
		scheduledTime, err := job.NextRun()
		if err == nil {
			log.Info().Msgf("%v scheduled at %v (%s)", job.Name(), scheduledTime, humanize.Time(scheduledTime))
		}
	}

	go app.probes.ListenAndServe()

	// Same job as the weekly run, so singleton mode also covers this one.
	if app.runOnStartup {
		log.Info().Str(constants.LogPipeline, app.pipelineJob.Name()).Msg("Running pipeline at startup")
		if err := app.pipelineJob.RunNow(); err != nil {
			log.Error().Err(err).Msg("Cannot run pipeline at startup, waiting for next schedule")
		}
	}
}

func (app *Impl) Shutdown() {
	app.cancel()
	if err := app.scheduler.Shutdown(); err != nil {
		log.Error().Err(err).Msg("Cannot shutdown scheduler, continuing...")
	}
	app.probes.Shutdown()
	app.db.Shutdown()
	log.Info().Msgf("Application is no longer running")
}
