package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/docoutline/internal/config"
	"github.com/dgallion1/docoutline/internal/logfields"
	"github.com/dgallion1/docoutline/internal/metrics"
	"github.com/dgallion1/docoutline/internal/render"
)

// Orchestrator manages the outline job queue and its workers.
type Orchestrator struct {
	jobs    *JobStore
	queue   chan *Job
	builder *Builder
	rec     *metrics.Recorder
	log     *slog.Logger
	cfg     config.Config

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates the pipeline. Call Start to launch the workers.
func NewOrchestrator(cfg config.Config, engine *render.Engine, rec *metrics.Recorder, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:    NewJobStore(cfg.JobTTL),
		queue:   make(chan *Job, cfg.MaxQueueSize),
		builder: NewBuilder(engine, rec, log),
		rec:     rec,
		log:     log,
		cfg:     cfg,
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for i := range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.builder, o.rec, o.log.With(logfields.Worker(i)))
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					o.rec.SetQueueDepth(len(o.queue))
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	// Start job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		o.rec.SetQueueDepth(len(o.queue))
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// JobCount returns the number of jobs still held by the store.
func (o *Orchestrator) JobCount() int {
	return o.jobs.Len()
}
