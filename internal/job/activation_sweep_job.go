package job

import (
	"context"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/ragbridge/internal/service"
)

type ActivationSweepJob struct {
	store       *service.ActivationStore
	maxAgeHours int
}

func NewActivationSweepJob(store *service.ActivationStore, maxAgeHours int) *ActivationSweepJob {
	return &ActivationSweepJob{store: store, maxAgeHours: maxAgeHours}
}

func (j *ActivationSweepJob) Name() string {
	return "activation_sweep"
}

func (j *ActivationSweepJob) Run(ctx context.Context) error {
	if j.store == nil {
		return nil
	}
	maxAgeHours := j.maxAgeHours
	if maxAgeHours <= 0 {
		maxAgeHours = 24
	}
	removed := j.store.Sweep(time.Duration(maxAgeHours) * time.Hour)
	if removed > 0 {
		logutil.GetLogger(ctx).Info("activation records swept", zap.Int("removed", removed))
	}
	return nil
}
