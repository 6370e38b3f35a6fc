package health

import (
	"twitter-etl/models/constants"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func New(scheduler gocron.Scheduler, isConnected func() bool) (*Impl, error) {
	service := Impl{isConnected: isConnected}

	_, errJob := scheduler.NewJob(
		gocron.CronJob(viper.GetString(constants.HealthCronTab), false),
		gocron.NewTask(func() { service.Echo() }),
		gocron.WithName(constants.HealthJobName),
	)
	if errJob != nil {
		return nil, errJob
	}

	return &service, nil
}

// Echo logs a heartbeat and reports whether the database answers.
func (service *Impl) Echo() bool {
	connected := service.isConnected()
	if !connected {
		log.Warn().Msgf("Application is running but database is unreachable")
		return false
	}

	log.Info().Msgf("Application is running")
	return true
}
