package main

import (
	"context"
	"errors"
	"io/fs"
	"os/signal"
	"syscall"

	"twitter-etl/application"
	"twitter-etl/models/constants"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func main() {
	loadConfig()
	setLogLevel(viper.GetString(constants.LogLevel))

	log.Info().
		Str(constants.LogDriver, viper.GetString(constants.DatabaseDriver)).
		Str(constants.LogBackend, viper.GetString(constants.TwitterBackend)).
		Msgf("Starting %s v%s", constants.ExternalName, constants.Version)

	app, err := application.New()
	if err != nil {
		log.Fatal().Err(err).Msgf("Shutting down after failing to instantiate application")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app.Run()
	log.Info().Msgf("%s is now running on %q. Press CTRL-C to exit.",
		constants.ExternalName, viper.GetString(constants.ETLCronTab))

	<-ctx.Done()
	stop()

	log.Info().Msgf("Gracefully shutting down %s...", constants.ExternalName)
	app.Shutdown()
}

// loadConfig layers defaults, the optional .env file and the environment, in
// increasing priority.
func loadConfig() {
	for configName, defaultValue := range constants.GetDefaultConfigValues() {
		viper.SetDefault(configName, defaultValue)
	}

	viper.SetConfigFile(constants.ConfigFileName)
	if err := viper.ReadInConfig(); err != nil {
		event := log.Warn()
		if errors.Is(err, fs.ErrNotExist) {
			event = log.Debug()
		}
		event.Err(err).Str(constants.LogFileName, constants.ConfigFileName).Msg("Config file not loaded, continue...")
	}

	viper.AutomaticEnv()
}

func setLogLevel(value string) {
	level, err := zerolog.ParseLevel(value)
	if err != nil || level == zerolog.NoLevel {
		zerolog.SetGlobalLevel(constants.LogLevelFallback)
		log.Warn().Err(err).Msgf("Log level %q not usable, continue with %s...", value, constants.LogLevelFallback)
		return
	}

	zerolog.SetGlobalLevel(level)
	log.Debug().Msgf("Logger level set to '%s'", level)
}
