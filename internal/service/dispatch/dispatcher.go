package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/v-gridnev/MH-BookingService/internal/domain"
	"github.com/v-gridnev/MH-BookingService/internal/integrations/calendarsync"
	"github.com/v-gridnev/MH-BookingService/internal/integrations/notifyservice"
	"github.com/v-gridnev/MH-BookingService/pkg/localtime"
	"github.com/v-gridnev/MH-BookingService/pkg/metrics"
)

// Dispatcher выполняет побочные эффекты после коммита операций с бронированиями:
// синхронизацию календаря и уведомления. Неуспех любого эффекта не влияет
// на результат операции - он логируется, помечается в записи бронирования
// и позже добирается реконсайлером.
type Dispatcher struct {
	bookingRepo    BookingRepository
	calendarClient CalendarSyncClient
	notifyClient   NotifyServiceClient
	metrics        *metrics.Metrics
	logger         Logger
}

// NewDispatcher создает новый диспетчер побочных эффектов
func NewDispatcher(
	bookingRepo BookingRepository,
	calendarClient CalendarSyncClient,
	notifyClient NotifyServiceClient,
	m *metrics.Metrics,
	logger Logger,
) *Dispatcher {
	return &Dispatcher{
		bookingRepo:    bookingRepo,
		calendarClient: calendarClient,
		notifyClient:   notifyClient,
		metrics:        m,
		logger:         logger,
	}
}

// BookingCreated обрабатывает создание бронирования.
// В режиме ручного подтверждения уведомляется ментор; при автоподтверждении
// бронирование сразу синхронизируется с календарём и уведомляются обе стороны.
func (d *Dispatcher) BookingCreated(ctx context.Context, booking *domain.Booking) {
	d.metrics.BookingsCreatedTotal.WithLabelValues(string(booking.Status)).Inc()

	switch booking.Status {
	case domain.StatusPendingApproval:
		d.notify(ctx, booking.MentorID, notifyservice.KindBookingRequested, booking)
	case domain.StatusConfirmed:
		d.syncCalendar(ctx, booking)
		d.notify(ctx, booking.MentorID, notifyservice.KindBookingConfirmed, booking)
		d.notify(ctx, booking.MenteeID, notifyservice.KindBookingConfirmed, booking)
	}
}

// BookingConflict фиксирует попытку занять уже занятый слот: отклонённое
// создание или подтверждение, проигравшее уже подтверждённому пересечению
func (d *Dispatcher) BookingConflict(_ context.Context) {
	d.metrics.BookingConflictsTotal.Inc()
}

// BookingApproved обрабатывает подтверждение бронирования ментором
func (d *Dispatcher) BookingApproved(ctx context.Context, booking *domain.Booking) {
	d.syncCalendar(ctx, booking)
	d.notify(ctx, booking.MenteeID, notifyservice.KindBookingConfirmed, booking)
}

// BookingDeclined обрабатывает отклонение запроса ментором
func (d *Dispatcher) BookingDeclined(ctx context.Context, booking *domain.Booking) {
	d.notify(ctx, booking.MenteeID, notifyservice.KindBookingDeclined, booking)
}

// BookingCancelled обрабатывает отмену бронирования.
// Уведомляется противоположная сторона; если причина отмены похожа на
// перенос, вместо обычного уведомления отправляется приглашение выбрать
// другой слот. Событие календаря, если было создано, удаляется.
func (d *Dispatcher) BookingCancelled(ctx context.Context, booking *domain.Booking) {
	if booking.CalendarEventID != nil {
		if err := d.calendarClient.DeleteEvent(ctx, *booking.CalendarEventID); err != nil &&
			!errors.Is(err, calendarsync.ErrNotConnected) {
			d.logger.Warn("dispatch: failed to delete calendar event for booking id=%d: %v", booking.ID, err)
		}
	}

	recipient := booking.MenteeID
	if booking.CancelledBy != nil && *booking.CancelledBy == domain.CancelledByMentee {
		recipient = booking.MentorID
	}

	kind := notifyservice.KindBookingCancelled
	if booking.CancellationReason != nil && looksLikeReschedule(*booking.CancellationReason) {
		kind = notifyservice.KindRebookPrompt
	}

	d.notify(ctx, recipient, kind, booking)
}

// syncCalendar создаёт событие в календаре ментора и фиксирует итог в записи
// бронирования. Неуспех помечает запись как failed - её подберёт реконсайлер.
func (d *Dispatcher) syncCalendar(ctx context.Context, booking *domain.Booking) {
	eventID, err := d.calendarClient.CreateEvent(ctx, &calendarsync.CreateEventRequest{
		MentorID:    booking.MentorID,
		MenteeID:    booking.MenteeID,
		BookingID:   booking.ID,
		StartTime:   booking.StartTime,
		EndTime:     booking.EndTime,
		Description: fmt.Sprintf("Mentoring session with mentee %d", booking.MenteeID),
	})
	if err != nil {
		if errors.Is(err, calendarsync.ErrNotConnected) {
			d.metrics.CalendarSyncTotal.WithLabelValues("skipped").Inc()
			return
		}
		d.metrics.CalendarSyncTotal.WithLabelValues("failure").Inc()
		d.logger.Warn("dispatch: calendar sync failed for booking id=%d: %v", booking.ID, err)
		if updErr := d.bookingRepo.UpdateCalendarSync(ctx, booking.ID, domain.SyncFailed, nil); updErr != nil {
			d.logger.Error("dispatch: failed to mark booking id=%d as sync failed: %v", booking.ID, updErr)
		}
		return
	}

	d.metrics.CalendarSyncTotal.WithLabelValues("success").Inc()
	if err := d.bookingRepo.UpdateCalendarSync(ctx, booking.ID, domain.SyncSynced, &eventID); err != nil {
		d.logger.Error("dispatch: failed to store calendar event for booking id=%d: %v", booking.ID, err)
	}
}

// notify отправляет уведомление, проглатывая ошибку доставки
func (d *Dispatcher) notify(ctx context.Context, recipientID int64, kind notifyservice.Kind, booking *domain.Booking) {
	// Таймзона инициатора сохранена в записи; при порче зоны падаем в UTC
	loc, err := time.LoadLocation(booking.RequesterTimezone)
	if err != nil {
		loc = time.UTC
	}

	n := &notifyservice.Notification{
		RecipientID: recipientID,
		Kind:        kind,
		BookingID:   booking.ID,
		Params: map[string]string{
			"startTime": localtime.FormatDisplay(booking.StartTime, loc),
		},
	}

	if err := d.notifyClient.Send(ctx, n); err != nil {
		d.metrics.NotificationsSentTotal.WithLabelValues("failure").Inc()
		d.logger.Warn("dispatch: failed to notify user=%d about booking id=%d: %v", recipientID, booking.ID, err)
		return
	}
	d.metrics.NotificationsSentTotal.WithLabelValues("success").Inc()
}

// Слова, по которым отмена распознаётся как перенос
var rescheduleMarkers = []string{
	"reschedul",
	"another time",
	"different time",
	"move the session",
	"перенес",
	"перенос",
	"другое время",
}

func looksLikeReschedule(reason string) bool {
	lower := strings.ToLower(reason)
	for _, marker := range rescheduleMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
