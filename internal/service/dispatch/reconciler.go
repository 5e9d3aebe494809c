package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/v-gridnev/MH-BookingService/internal/domain"
	"github.com/v-gridnev/MH-BookingService/internal/integrations/calendarsync"
	"github.com/v-gridnev/MH-BookingService/pkg/metrics"
)

const reconcileBatchSize = 50

// Reconciler периодически добирает бронирования с неуспешной синхронизацией
// календаря. Повторная попытка выполняется для каждой записи независимо:
// неуспех одной не мешает остальным.
type Reconciler struct {
	bookingRepo    BookingRepository
	calendarClient CalendarSyncClient
	interval       time.Duration
	metrics        *metrics.Metrics
	logger         Logger

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewReconciler создает новый реконсайлер синхронизации календаря
func NewReconciler(
	bookingRepo BookingRepository,
	calendarClient CalendarSyncClient,
	interval time.Duration,
	m *metrics.Metrics,
	logger Logger,
) *Reconciler {
	return &Reconciler{
		bookingRepo:    bookingRepo,
		calendarClient: calendarClient,
		interval:       interval,
		metrics:        m,
		logger:         logger,
		stopCh:         make(chan struct{}),
		doneCh:         make(chan struct{}),
	}
}

// Start запускает фоновый цикл реконсиляции
func (r *Reconciler) Start() {
	go r.run()
}

// Stop останавливает цикл и дожидается завершения текущего прохода
func (r *Reconciler) Stop() {
	close(r.stopCh)
	<-r.doneCh
}

func (r *Reconciler) run() {
	defer close(r.doneCh)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("reconciler: started, interval=%s", r.interval)

	for {
		select {
		case <-r.stopCh:
			r.logger.Info("reconciler: stopped")
			return
		case <-ticker.C:
			r.reconcile()
		}
	}
}

func (r *Reconciler) reconcile() {
	ctx, cancel := context.WithTimeout(context.Background(), r.interval)
	defer cancel()

	bookings, err := r.bookingRepo.ListFailedCalendarSync(ctx, reconcileBatchSize)
	if err != nil {
		r.logger.Error("reconciler: failed to list bookings: %v", err)
		return
	}
	if len(bookings) == 0 {
		return
	}

	r.logger.Info("reconciler: retrying calendar sync for %d bookings", len(bookings))

	for _, booking := range bookings {
		r.retrySync(ctx, booking)
	}
}

func (r *Reconciler) retrySync(ctx context.Context, booking *domain.Booking) {
	eventID, err := r.calendarClient.CreateEvent(ctx, &calendarsync.CreateEventRequest{
		MentorID:    booking.MentorID,
		MenteeID:    booking.MenteeID,
		BookingID:   booking.ID,
		StartTime:   booking.StartTime,
		EndTime:     booking.EndTime,
		Description: fmt.Sprintf("Mentoring session with mentee %d", booking.MenteeID),
	})
	if err != nil {
		if errors.Is(err, calendarsync.ErrNotConnected) {
			// Синхронизацию выключили после неуспеха: запись больше не ретраится
			if updErr := r.bookingRepo.UpdateCalendarSync(ctx, booking.ID, domain.SyncNotConnected, nil); updErr != nil {
				r.logger.Error("reconciler: failed to reset sync status for booking id=%d: %v", booking.ID, updErr)
			}
			return
		}
		r.metrics.CalendarSyncTotal.WithLabelValues("failure").Inc()
		r.logger.Warn("reconciler: calendar sync retry failed for booking id=%d: %v", booking.ID, err)
		return
	}

	r.metrics.CalendarSyncTotal.WithLabelValues("success").Inc()
	if err := r.bookingRepo.UpdateCalendarSync(ctx, booking.ID, domain.SyncSynced, &eventID); err != nil {
		r.logger.Error("reconciler: failed to store calendar event for booking id=%d: %v", booking.ID, err)
		return
	}

	r.logger.Info("reconciler: calendar sync recovered for booking id=%d", booking.ID)
}
