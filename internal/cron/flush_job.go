package cron

import (
	"context"
	"fmt"

	"github.com/bakhasuleiman/wesavefood-backend/pkg/logger"
)

type flusher interface {
	Flush(ctx context.Context) error
}

// FlushJobParams configure the collection flush job.
type FlushJobParams struct {
	Logger *logger.Logger
	Store  flusher
}

// NewFlushJob builds the job that pushes dirty collections to the backing
// store. Only useful when the store runs in interval flush mode.
func NewFlushJob(params FlushJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("store required")
	}
	return &flushJob{logg: params.Logger, store: params.Store}, nil
}

type flushJob struct {
	logg  *logger.Logger
	store flusher
}

func (j *flushJob) Name() string { return "collection_flush" }

func (j *flushJob) Run(ctx context.Context) error {
	if err := j.store.Flush(ctx); err != nil {
		return fmt.Errorf("flush collections: %w", err)
	}
	return nil
}
