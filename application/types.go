package application

import (
	"context"

	"twitter-etl/services/accounts"
	"twitter-etl/services/health"
	"twitter-etl/services/keywords"
	"twitter-etl/services/pipeline"
	"twitter-etl/utils/databases"
	"twitter-etl/utils/insights"

	"github.com/go-co-op/gocron/v2"
)

type Application interface {
	Run()
	Shutdown()
}

type Impl struct {
	scheduler       gocron.Scheduler
	healthService   health.Service
	keywordService  keywords.Service
	accountService  accounts.Service
	pipelineService pipeline.Service
	pipelineJob     gocron.Job
	runOnStartup    bool
	db              databases.SqlConnection
	probes          insights.Probes
	cancel          context.CancelFunc
}
