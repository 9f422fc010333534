package worker

import (
	"context"
	"time"

	"github.com/logingood/cdp-cucm/devices"
	"github.com/logingood/cdp-cucm/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ProcessFunc handles one switch.
type ProcessFunc func(ctx context.Context, device *models.Device) error

type Queue struct {
	logger     *zap.Logger
	devices    devices.Devices
	jobChan    chan *models.Device
	interval   time.Duration
	processor  ProcessFunc
	eg         *errgroup.Group
	numWorkers int
}

// New builds a sweep queue. A zero interval lists and dispatches the switches
// once, otherwise it repeats on every tick until the context ends.
func New(logger *zap.Logger, devices devices.Devices, interval time.Duration, processor ProcessFunc, eg *errgroup.Group, numWorkers int) *Queue {
	logger.Info("created new queue")
	return &Queue{
		logger:     logger,
		devices:    devices,
		jobChan:    make(chan *models.Device),
		interval:   interval,
		processor:  processor,
		numWorkers: numWorkers,
		eg:         eg,
	}
}

func (q *Queue) StartDispatcher(ctx context.Context) error {
	defer close(q.jobChan)

	if err := q.dispatch(ctx); err != nil {
		return err
	}
	if q.interval <= 0 {
		return nil
	}

	ticker := time.NewTicker(q.interval)
	defer ticker.Stop()
	q.logger.Info("start dispatcher to run every", zap.Duration("interval", q.interval))

	for {
		select {
		case <-ticker.C:
			q.logger.Info("woke up to list devices")
			if err := q.dispatch(ctx); err != nil {
				q.logger.Error("error dispatch, waiting for next tick", zap.Error(err))
			}
		case <-ctx.Done():
			q.logger.Info("stopping dispatcher")
			return nil
		}
	}
}

func (q *Queue) dispatch(ctx context.Context) error {
	devices, err := q.devices.ListDevices(ctx)
	if err != nil {
		return err
	}
	q.logger.Info("found devices", zap.Int("devices", len(devices)))
	for _, dev := range devices {
		dev := dev
		q.logger.Debug("enqueue switch", zap.String("device", dev.Name()))
		select {
		case q.jobChan <- &dev:
		case <-ctx.Done():
			return nil
		}
	}
	return nil
}

func (q *Queue) StartWorkerPool(ctx context.Context) {
	q.logger.Info("starting worker pool", zap.Int("workers", q.numWorkers))
	for i := 0; i < q.numWorkers; i++ {
		q.eg.Go(func() error {
			for job := range q.jobChan {
				q.worker(ctx, job)
			}
			return nil
		})
	}
}

// worker never fails the pool, one unreachable switch must not stop the
// sweep.
func (q *Queue) worker(ctx context.Context, job *models.Device) {
	select {
	case <-ctx.Done():
		q.logger.Debug("worker is shutting down")
	default:
		q.logger.Info("received a job to process", zap.String("device", job.Name()))
		if err := q.processor(ctx, job); err != nil {
			q.logger.Error("error process switch", zap.String("device", job.Name()), zap.Error(err))
		}
	}
}
