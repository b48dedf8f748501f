package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/docoutline/internal/logfields"
	"github.com/dgallion1/docoutline/internal/metrics"
)

// Worker processes a single outline job.
type Worker struct {
	builder *Builder
	rec     *metrics.Recorder
	log     *slog.Logger
}

func NewWorker(builder *Builder, rec *metrics.Recorder, log *slog.Logger) *Worker {
	return &Worker{
		builder: builder,
		rec:     rec,
		log:     log,
	}
}

// Process runs the full outline pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With(logfields.JobID(job.ID))
	start := time.Now()

	res, err := w.builder.Build(ctx, job.Files(), job.Settings, job)
	if err != nil {
		phase := job.Snapshot().Phase
		log.Error("outline failed",
			logfields.JobStatus(string(StatusFailed)),
			logfields.Phase(phase),
			logfields.Error(err))
		job.AddError(fmt.Sprintf("%s: %s", phase, err))
		job.SetStatus(StatusFailed, phase)
		w.rec.JobFinished(metrics.OutcomeFailed, time.Since(start))
		return
	}

	job.complete(res)
	w.rec.JobFinished(metrics.OutcomeCompleted, time.Since(start))
	log.Info("outline complete",
		logfields.JobStatus(string(StatusCompleted)),
		"documents", len(res.Documents),
		"bookmarks", res.Bookmarks,
		logfields.Pages(res.PageCount),
		logfields.DurationMS(time.Since(start).Milliseconds()))
}
