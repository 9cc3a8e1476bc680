package cron

import (
	"Mintora/internal/job"
	"Mintora/internal/pkg/predictor"
	"Mintora/internal/repository"
	"Mintora/internal/service"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterJobs(t *testing.T) {
	svc := service.NewContentService(repository.NewMemoryContentRepo(), predictor.New(predictor.NewHeuristicScorer()), nil, nil, nil)
	mgr := NewCronManager(job.NewTrendingJob(svc), job.NewForecastBackfillJob(svc, nil))

	require.NoError(t, mgr.RegisterJobs())
	assert.Len(t, mgr.engine.Entries(), 2)
}
