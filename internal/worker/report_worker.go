package worker

import (
	"context"
	"time"

	"lendhub/internal/domain"
	"lendhub/internal/export"

	"github.com/rs/zerolog"
)

const (
	// Rolling report window around "now".
	reportDaysBack    = 30
	reportDaysForward = 60

	queueSize = 16
)

// ReportWorker keeps a rolling bookings spreadsheet on disk up to date.
// Booking lifecycle events enqueue a refresh; bursts collapse into one run
// because the queue drops while a refresh is already pending.
type ReportWorker struct {
	store       domain.Store
	report      *export.Report
	retryPolicy RetryPolicy
	queue       chan struct{}
	logger      *zerolog.Logger
}

func NewReportWorker(store domain.Store, report *export.Report, retry RetryPolicy, logger *zerolog.Logger) *ReportWorker {
	if retry.MaxRetries == 0 {
		retry.MaxRetries = 5
	}
	if retry.InitialDelay == 0 {
		retry.InitialDelay = 2 * time.Second
	}
	if retry.MaxDelay == 0 {
		retry.MaxDelay = time.Minute
	}
	if retry.BackoffFactor == 0 {
		retry.BackoffFactor = 2
	}

	return &ReportWorker{
		store:       store,
		report:      report,
		retryPolicy: retry,
		queue:       make(chan struct{}, queueSize),
		logger:      logger,
	}
}

// EnqueueRefresh schedules a report rebuild. Non-blocking: when the queue is
// full a rebuild is already pending and the signal can be dropped.
func (w *ReportWorker) EnqueueRefresh() {
	select {
	case w.queue <- struct{}{}:
	default:
	}
}

// Start consumes refresh signals until the context is cancelled.
func (w *ReportWorker) Start(ctx context.Context) {
	w.logger.Info().Msg("report worker started")
	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("report worker stopped")
			return
		case <-w.queue:
			w.drain()
			w.refresh(ctx)
		}
	}
}

// drain collapses queued-up signals into the refresh about to run.
func (w *ReportWorker) drain() {
	for {
		select {
		case <-w.queue:
		default:
			return
		}
	}
}

func (w *ReportWorker) refresh(ctx context.Context) {
	now := time.Now().UTC()
	start := now.AddDate(0, 0, -reportDaysBack)
	end := now.AddDate(0, 0, reportDaysForward)

	for attempt := 1; attempt <= w.retryPolicy.MaxRetries; attempt++ {
		rows, err := w.store.GetBookingReportRows(ctx, start, end)
		if err == nil {
			var path string
			path, err = w.report.WriteBookings(start, end, rows)
			if err == nil {
				w.logger.Info().Str("path", path).Int("rows", len(rows)).Msg("report refreshed")
				return
			}
		}

		w.logger.Error().Err(err).Int("attempt", attempt).Msg("report refresh failed")
		if attempt == w.retryPolicy.MaxRetries {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(w.retryPolicy.NextDelay(attempt)):
		}
	}
}
